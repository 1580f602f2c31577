/*
 * MIT License
 *
 * Copyright (c) 2026 Contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package haproxy decodes the HAProxy PROXY protocol, both the
// line-oriented v1 form and the binary v2 form, in either strict mode
// (a header is mandatory) or peek mode (absence of a recognized
// signature replays the bytes unchanged into the inner protocol).
package haproxy

import (
	"net"
	"strconv"
)

// Family is the v1/v2 address family ("TCP4", "TCP6", "UNKNOWN").
type Family uint8

const (
	FamilyUnspec Family = iota
	FamilyTCP4
	FamilyTCP6
	FamilyUnix
)

// Forwarded is the decoded PROXY header, attached to the connection's
// context on success.
type Forwarded struct {
	Family Family
	Source net.Addr
	Dest   net.Addr
	TLVs   []TLV // v2 only; empty for v1
}

// TLV is a single v2 Type-Length-Value vendor extension; values are
// retained verbatim, never interpreted.
type TLV struct {
	Type  byte
	Value []byte
}

// v1Sig is the ASCII prefix that identifies a v1 header.
const v1Sig = "PROXY "

// v2Sig is the 12-byte binary signature that identifies a v2 header.
var v2Sig = [12]byte{0x0D, 0x0A, 0x0D, 0x0A, 0x00, 0x0D, 0x0A, 0x51, 0x55, 0x49, 0x54, 0x0A}

// v2HeaderLen is the size of v2's fixed header (signature + ver/cmd +
// fam/proto + 2-byte big-endian length).
const v2HeaderLen = 16

func familyOf(b byte) Family {
	switch b >> 4 {
	case 1:
		return FamilyTCP4
	case 2:
		return FamilyTCP6
	case 3:
		return FamilyUnix
	default:
		return FamilyUnspec
	}
}

type tcpAddr struct {
	ip   string
	port uint16
}

func (a tcpAddr) Network() string { return "tcp" }
func (a tcpAddr) String() string  { return net.JoinHostPort(a.ip, strconv.Itoa(int(a.port))) }
