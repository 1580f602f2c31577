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

// Package fingerprint models a TLS ClientHello for traffic
// identification and computes JA4-like and PeetPrint digests from it.
package fingerprint

// Extension is one ClientHello extension, identified by id, in the
// order it appeared on the wire.
type Extension struct {
	ID   uint16
	Data []byte
}

// ClientHello is the subset of a TLS ClientHello the fingerprinting
// digests are computed from.
type ClientHello struct {
	TLSVersion                       uint16
	SupportedVersions                []uint16 // from the supported_versions extension, in wire order
	CipherSuites                     []uint16 // in wire order, GREASE included
	Extensions                       []Extension
	ALPNs                            []string
	SupportedGroups                  []uint16
	SignatureAlgorithms              []uint16
	CertificateCompressionAlgorithms []uint16
}

// isGREASE reports whether v is one of the reserved GREASE values
// (RFC 8701): every 16-bit value of the form 0x?A?A where both "?"
// nibbles are the same digit (0x0A0A, 0x1A1A, ..., 0xFAFA).
func isGREASE(v uint16) bool {
	if v&0x0F0F != 0x0A0A {
		return false
	}
	return v>>12 == (v>>4)&0x0F
}

// pskExtensionID is the PSK key exchange mode extension (RFC 8446
// §4.2.9), whose fingerprint-relevant value sits at byte offset 1 of
// its payload.
const pskExtensionID = 45

// PSKKeyExchangeMode returns the byte at offset 1 of extension 45's
// payload, if present.
func (ch ClientHello) PSKKeyExchangeMode() (byte, bool) {
	for _, ext := range ch.Extensions {
		if ext.ID == pskExtensionID {
			if len(ext.Data) < 2 {
				return 0, false
			}
			return ext.Data[1], true
		}
	}
	return 0, false
}

// nonGREASECipherSuites filters GREASE values out of ch.CipherSuites,
// preserving wire order.
func (ch ClientHello) nonGREASECipherSuites() []uint16 {
	out := make([]uint16, 0, len(ch.CipherSuites))
	for _, c := range ch.CipherSuites {
		if !isGREASE(c) {
			out = append(out, c)
		}
	}
	return out
}
