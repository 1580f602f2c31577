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
	"encoding/binary"
	"errors"
	"net"

	liberr "github.com/netlayer/netlayer/errors"
)

// v2 command nibble (high nibble of byte 12, low nibble is version and
// must be 2).
const (
	v2CmdLocal  = 0x0
	v2CmdProxy  = 0x1
)

// addrBlockLen returns the length of the fixed address block for fam,
// or -1 if fam/proto don't carry one (LOCAL command, or an unspecified
// family).
func addrBlockLen(fam Family) int {
	switch fam {
	case FamilyTCP4:
		return 12
	case FamilyTCP6:
		return 36
	case FamilyUnix:
		return 216
	default:
		return 0
	}
}

// parseV2 decodes a complete v2 header: hdr is the 16-byte fixed
// header (signature already verified by the caller) and rest is
// exactly hdr's declared length of following bytes (address block +
// TLVs).
func parseV2(hdr [v2HeaderLen]byte, rest []byte) (Forwarded, error) {
	verCmd := hdr[12]
	if verCmd>>4 != 2 {
		return Forwarded{}, liberr.CodeParseHAProxyHeader.Error(errors.New("unsupported PROXY v2 version"))
	}
	cmd := verCmd & 0x0F

	famProto := hdr[13]
	fam := familyOf(famProto)

	if cmd == v2CmdLocal {
		// LOCAL: connection originated from the proxy itself; no
		// address block semantics, but the address bytes (if any)
		// are still skipped per length.
		return Forwarded{Family: FamilyUnspec}, nil
	}

	need := addrBlockLen(fam)
	if len(rest) < need {
		return Forwarded{}, liberr.CodeParseHAProxyHeader.Error(errors.New("truncated PROXY v2 address block"))
	}

	var fwd Forwarded
	fwd.Family = fam

	switch fam {
	case FamilyTCP4:
		srcIP := net.IP(rest[0:4])
		dstIP := net.IP(rest[4:8])
		srcPort := binary.BigEndian.Uint16(rest[8:10])
		dstPort := binary.BigEndian.Uint16(rest[10:12])
		fwd.Source = tcpAddr{ip: srcIP.String(), port: srcPort}
		fwd.Dest = tcpAddr{ip: dstIP.String(), port: dstPort}
	case FamilyTCP6:
		srcIP := net.IP(rest[0:16])
		dstIP := net.IP(rest[16:32])
		srcPort := binary.BigEndian.Uint16(rest[32:34])
		dstPort := binary.BigEndian.Uint16(rest[34:36])
		fwd.Source = tcpAddr{ip: srcIP.String(), port: srcPort}
		fwd.Dest = tcpAddr{ip: dstIP.String(), port: dstPort}
	case FamilyUnix:
		// 108 bytes source path + 108 bytes dest path; exposed as
		// opaque addresses rather than parsed into net.UnixAddr since
		// the path may not be NUL-terminated cleanly.
		fwd.Source = unixAddr{path: trimNulPadding(rest[0:108])}
		fwd.Dest = unixAddr{path: trimNulPadding(rest[108:216])}
	default:
		return Forwarded{Family: FamilyUnspec}, nil
	}

	tlvs, err := parseTLVs(rest[need:])
	if err != nil {
		return Forwarded{}, err
	}
	fwd.TLVs = tlvs

	return fwd, nil
}

// parseTLVs walks a sequence of Type(1)-Length(2,BE)-Value(Length)
// vendor extensions; values are retained verbatim, never interpreted.
func parseTLVs(b []byte) ([]TLV, error) {
	var out []TLV
	for len(b) > 0 {
		if len(b) < 3 {
			return nil, liberr.CodeParseHAProxyHeader.Error(errors.New("truncated PROXY v2 TLV header"))
		}
		typ := b[0]
		length := int(binary.BigEndian.Uint16(b[1:3]))
		b = b[3:]
		if len(b) < length {
			return nil, liberr.CodeParseHAProxyHeader.Error(errors.New("truncated PROXY v2 TLV value"))
		}
		val := make([]byte, length)
		copy(val, b[:length])
		out = append(out, TLV{Type: typ, Value: val})
		b = b[length:]
	}
	return out, nil
}

type unixAddr struct{ path string }

func (a unixAddr) Network() string { return "unix" }
func (a unixAddr) String() string  { return a.path }

func trimNulPadding(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
