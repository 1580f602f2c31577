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

package fingerprint

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"sort"
	"strconv"
	"strings"

	liberr "github.com/netlayer/netlayer/errors"
)

// ErrEmptyCipherSuites is returned when a ClientHello's cipher-suite
// list is empty after GREASE filtering.
var ErrEmptyCipherSuites = errors.New("fingerprint: empty cipher suite set")

// alpnShorthand lowercases and abbreviates an ALPN value:
// "h2"/"http/2" -> "2", "http/1.1" -> "1.1", "http/1.0" -> "1.0";
// anything else is passed through lower-cased.
func alpnShorthand(proto string) string {
	lower := strings.ToLower(proto)
	switch lower {
	case "h2", "http/2":
		return "2"
	case "http/1.1":
		return "1.1"
	case "http/1.0":
		return "1.0"
	default:
		return lower
	}
}

func joinUint16(vals []uint16, grease func(uint16) bool) string {
	parts := make([]string, 0, len(vals))
	for _, v := range vals {
		if grease != nil && grease(v) {
			parts = append(parts, "GREASE")
			continue
		}
		parts = append(parts, strconv.Itoa(int(v)))
	}
	return strings.Join(parts, "-")
}

// PeetPrint is the TrackMe-style fingerprint text (and its MD5 digest),
// computed per original_source/'s rama-net fingerprint/peet/tls.rs
// equivalent: fields concatenated with "|", GREASE-substituted,
// extension ids individually sorted ascending before joining with "-".
type PeetPrint struct {
	Text string
}

// ComputePeetPrint builds the PeetPrint text from ch. Returns
// ErrEmptyCipherSuites if every cipher suite is GREASE (or the list
// was empty to begin with).
func ComputePeetPrint(ch ClientHello) (PeetPrint, error) {
	suites := ch.nonGREASECipherSuites()
	if len(suites) == 0 {
		return PeetPrint{}, liberr.CodeUnexpectedMessage.Error(ErrEmptyCipherSuites)
	}

	extIDs := make([]string, 0, len(ch.Extensions))
	for _, ext := range ch.Extensions {
		if isGREASE(ext.ID) {
			extIDs = append(extIDs, "GREASE")
			continue
		}
		extIDs = append(extIDs, strconv.Itoa(int(ext.ID)))
	}
	sort.Strings(extIDs)

	protos := make([]string, 0, len(ch.ALPNs))
	for _, p := range ch.ALPNs {
		protos = append(protos, alpnShorthand(p))
	}

	keyMode := ""
	if v, ok := ch.PSKKeyExchangeMode(); ok {
		keyMode = strconv.Itoa(int(v))
	}

	fp := strings.Join([]string{
		joinUint16(ch.SupportedVersions, isGREASE),
		strings.Join(protos, "-"),
		joinUint16(ch.SupportedGroups, isGREASE),
		joinUint16(ch.SignatureAlgorithms, isGREASE),
		keyMode,
		joinUint16(ch.CertificateCompressionAlgorithms, isGREASE),
		joinUint16(suites, isGREASE),
		strings.Join(extIDs, "-"),
	}, "|")

	return PeetPrint{Text: fp}, nil
}

// Hash returns the hex-encoded MD5 of p.Text.
func (p PeetPrint) Hash() string {
	sum := md5.Sum([]byte(p.Text))
	return hex.EncodeToString(sum[:])
}

// JA4 is a JA4-like fingerprint: a human-readable "a_b_c" triple whose
// b and c segments are truncated MD5 digests (JA4's own scheme), built
// from the same ClientHello fields PeetPrint uses but in JA4's field
// order and grouping.
type JA4 struct {
	Text string
}

// ComputeJA4 builds a JA4-like fingerprint from ch: protocol/version/
// ALPN/counts segment (plaintext) followed by two MD5-derived segments
// (sorted, non-GREASE cipher suites and extension ids).
func ComputeJA4(ch ClientHello) (JA4, error) {
	suites := ch.nonGREASECipherSuites()
	if len(suites) == 0 {
		return JA4{}, liberr.CodeUnexpectedMessage.Error(ErrEmptyCipherSuites)
	}

	sortedSuites := append([]uint16(nil), suites...)
	sort.Slice(sortedSuites, func(i, j int) bool { return sortedSuites[i] < sortedSuites[j] })
	suitesHash := truncatedHash(joinUint16(sortedSuites, nil))

	extIDs := make([]uint16, 0, len(ch.Extensions))
	for _, ext := range ch.Extensions {
		if ext.ID == 0 /* server_name */ || ext.ID == 16 /* alpn */ || isGREASE(ext.ID) {
			continue
		}
		extIDs = append(extIDs, ext.ID)
	}
	sort.Slice(extIDs, func(i, j int) bool { return extIDs[i] < extIDs[j] })
	extHash := truncatedHash(joinUint16(extIDs, nil))

	alpn := "00"
	if len(ch.ALPNs) > 0 {
		alpn = alpnShorthand(ch.ALPNs[0])
	}

	version := "00"
	if ch.TLSVersion != 0 {
		version = strconv.FormatUint(uint64(ch.TLSVersion), 16)
	}

	head := "t" + version + strconv.Itoa(len(suites)) + strconv.Itoa(len(extIDs)) + alpn
	return JA4{Text: head + "_" + suitesHash + "_" + extHash}, nil
}

// truncatedHash returns the first 12 hex characters of s's MD5 digest,
// JA4's own truncation length for its hashed segments.
func truncatedHash(s string) string {
	sum := md5.Sum([]byte(s))
	full := hex.EncodeToString(sum[:])
	return full[:12]
}
