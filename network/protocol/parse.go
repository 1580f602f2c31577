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

package protocol

import (
	"math"
	"strings"
)

// Parse maps s to a NetworkProtocol, case-insensitively, tolerating
// surrounding whitespace and a single layer of matching quote
// characters ("...", '...' or `...`). It returns NetworkEmpty if s
// does not name a known protocol.
func Parse(s string) NetworkProtocol {
	s = strings.TrimSpace(s)
	s = unquote(s)
	s = strings.ToLower(s)

	for p, n := range names {
		if n == s {
			return p
		}
	}
	return NetworkEmpty
}

func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if first != last {
		return s
	}
	if first == '"' || first == '\'' || first == '`' {
		return s[1 : len(s)-1]
	}
	return s
}

// ParseBytes is Parse over a []byte.
func ParseBytes(b []byte) NetworkProtocol {
	return Parse(string(b))
}

// ParseInt64 maps n to a NetworkProtocol, returning NetworkEmpty if n
// is outside the valid [NetworkUnix, NetworkUnixGram] range.
func ParseInt64(n int64) NetworkProtocol {
	if n <= 0 || n > math.MaxUint8 {
		return NetworkEmpty
	}
	p := NetworkProtocol(n)
	if _, ok := names[p]; !ok {
		return NetworkEmpty
	}
	return p
}
