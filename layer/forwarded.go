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

package layer

import (
	"strings"

	"github.com/netlayer/netlayer/httpproto"
)

// ClientAddr is a single hop recovered from forwarding headers: the
// address a proxy reported as the origin of the request it forwarded.
type ClientAddr struct {
	Addr   string
	Source string // header name this hop was recovered from
}

// forwardedHeaderOrder is the precedence a client address is searched
// for in, most-trusted/most-standard first. De-duplication keeps only
// the first hop found per header, which is the leftmost (closest to the
// origin client) entry for comma-separated lists.
var forwardedHeaderOrder = []string{
	"Forwarded",
	"X-Forwarded-For",
	"Via",
	"X-Real-IP",
	"X-Client-IP",
	"Client-IP",
	"CF-Connecting-IP",
	"True-Client-IP",
}

// ClientIP recovers the originating client address from req's
// forwarding headers, trying each in forwardedHeaderOrder and returning
// the first hop found. Returns ok=false if none of the headers are
// present.
func ClientIP(req *httpproto.Request) (ClientAddr, bool) {
	for _, name := range forwardedHeaderOrder {
		v := req.Header.Get(name)
		if v == "" {
			continue
		}
		if addr, ok := extractHop(name, v); ok {
			return ClientAddr{Addr: addr, Source: name}, true
		}
	}
	return ClientAddr{}, false
}

// extractHop pulls the first address out of a single forwarding
// header's value, per that header's own syntax.
func extractHop(name, value string) (string, bool) {
	switch name {
	case "Forwarded":
		return extractForwardedFor(value)
	case "X-Forwarded-For":
		return firstCommaField(value)
	case "Via":
		return extractVia(value)
	default:
		// X-Real-IP, X-Client-IP, Client-IP, CF-Connecting-IP,
		// True-Client-IP are all single-address headers by convention.
		return firstCommaField(value)
	}
}

// extractForwardedFor parses RFC 7239's "Forwarded:
// for=1.2.3.4;proto=https, for=5.6.7.8" syntax, returning the first
// for= token.
func extractForwardedFor(value string) (string, bool) {
	for _, hop := range strings.Split(value, ",") {
		for _, pair := range strings.Split(hop, ";") {
			pair = strings.TrimSpace(pair)
			k, v, ok := strings.Cut(pair, "=")
			if !ok || !strings.EqualFold(strings.TrimSpace(k), "for") {
				continue
			}
			v = strings.TrimSpace(v)
			v = strings.Trim(v, `"`)
			v = strings.TrimPrefix(v, "[")
			if host, _, ok := strings.Cut(v, "]"); ok {
				return host, true
			}
			if host, _, ok := strings.Cut(v, ":"); ok && strings.Count(v, ":") == 1 {
				return host, true
			}
			return v, true
		}
	}
	return "", false
}

// extractVia parses "Via: 1.1 1.2.3.4" / "Via: 1.1 proxy.example.com"
// style entries, returning the host portion of the first hop.
func extractVia(value string) (string, bool) {
	first, _, _ := strings.Cut(value, ",")
	fields := strings.Fields(strings.TrimSpace(first))
	if len(fields) < 2 {
		return "", false
	}
	return fields[len(fields)-1], true
}

func firstCommaField(value string) (string, bool) {
	first, _, _ := strings.Cut(value, ",")
	first = strings.TrimSpace(first)
	if first == "" {
		return "", false
	}
	return first, true
}
