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

package haproxy

import (
	"errors"
	"strconv"
	"strings"

	liberr "github.com/netlayer/netlayer/errors"
)

// maxV1Line bounds the ASCII header scan so a client that never sends
// "\r\n" cannot force unbounded buffering.
const maxV1Line = 107 // per the PROXY protocol v1 spec's worst case

// parseV1 decodes an ASCII "PROXY ..." line (without its trailing
// "\r\n", already stripped by the caller) into a Forwarded element.
func parseV1(line string) (Forwarded, error) {
	fields := strings.Split(line, " ")
	if len(fields) == 0 || fields[0] != "PROXY" {
		return Forwarded{}, liberr.CodeParseHAProxyHeader.Error(errors.New("missing PROXY keyword"))
	}

	if len(fields) == 2 && fields[1] == "UNKNOWN" {
		return Forwarded{Family: FamilyUnspec}, nil
	}

	if len(fields) != 6 {
		return Forwarded{}, liberr.CodeParseHAProxyHeader.Error(errors.New("malformed v1 header field count"))
	}

	var fam Family
	switch fields[1] {
	case "TCP4":
		fam = FamilyTCP4
	case "TCP6":
		fam = FamilyTCP6
	case "UNKNOWN":
		return Forwarded{Family: FamilyUnspec}, nil
	default:
		return Forwarded{}, liberr.CodeParseHAProxyHeader.Error(errors.New("unknown v1 address family"))
	}

	srcPort, err := strconv.ParseUint(fields[4], 10, 16)
	if err != nil {
		return Forwarded{}, liberr.CodeParseHAProxyHeader.Error(err)
	}
	dstPort, err := strconv.ParseUint(fields[5], 10, 16)
	if err != nil {
		return Forwarded{}, liberr.CodeParseHAProxyHeader.Error(err)
	}

	return Forwarded{
		Family: fam,
		Source: tcpAddr{ip: fields[2], port: uint16(srcPort)},
		Dest:   tcpAddr{ip: fields[3], port: uint16(dstPort)},
	}, nil
}
