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

// Package httpproto defines the canonical HTTP request/response model
// shared by the HTTP/1 and HTTP/2 connection state machines, including
// the original-header side channel fingerprint-preserving proxying
// depends on.
package httpproto

import (
	"io"
	"reflect"

	"github.com/netlayer/netlayer/context"
)

// Header is an ordered, case-preserving multimap. Lookups are
// case-insensitive (per RFC 7230) but iteration preserves the exact
// casing and order headers were inserted in, which canonical proxying
// alone cannot guarantee once a header value has been normalized into a
// map keyed by canonical case.
type Header struct {
	keys []string
	vals map[string][]string
	orig map[string]string
}

// NewHeader returns an empty Header.
func NewHeader() *Header {
	return &Header{vals: make(map[string][]string), orig: make(map[string]string)}
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// Add appends a value under key, remembering the first-seen original
// casing for that key.
func (h *Header) Add(key, value string) {
	k := lower(key)
	if _, ok := h.orig[k]; !ok {
		h.orig[k] = key
		h.keys = append(h.keys, k)
	}
	h.vals[k] = append(h.vals[k], value)
}

// Set replaces all values under key with a single value.
func (h *Header) Set(key, value string) {
	k := lower(key)
	if _, ok := h.orig[k]; !ok {
		h.orig[k] = key
		h.keys = append(h.keys, k)
	} else {
		h.orig[k] = key
	}
	h.vals[k] = []string{value}
}

// Get returns the first value for key, or "" if absent.
func (h *Header) Get(key string) string {
	v := h.vals[lower(key)]
	if len(v) == 0 {
		return ""
	}
	return v[0]
}

// Values returns all values for key in insertion order.
func (h *Header) Values(key string) []string {
	return h.vals[lower(key)]
}

// Has reports whether key has at least one value.
func (h *Header) Has(key string) bool {
	_, ok := h.vals[lower(key)]
	return ok
}

// Del removes all values for key.
func (h *Header) Del(key string) {
	k := lower(key)
	delete(h.vals, k)
	delete(h.orig, k)
	for i, kk := range h.keys {
		if kk == k {
			h.keys = append(h.keys[:i], h.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the canonical (originally-cased) header names in
// insertion order.
func (h *Header) Keys() []string {
	out := make([]string, 0, len(h.keys))
	for _, k := range h.keys {
		out = append(out, h.orig[k])
	}
	return out
}

// Clone returns an independent deep copy.
func (h *Header) Clone() *Header {
	c := NewHeader()
	for _, k := range h.keys {
		for _, v := range h.vals[k] {
			c.Add(h.orig[k], v)
		}
	}
	return c
}

// Trailer is a deferred header map exposed to the application only
// after the body stream has terminated.
type Trailer = Header

// Body is a lazy, possibly-finite stream of data followed by an
// optional Trailer. Implementations surrender the underlying
// connection resource on Close.
type Body interface {
	io.ReadCloser
	// Trailer returns the trailer map, valid only after Read has
	// returned io.EOF.
	Trailer() *Trailer
}

// EmptyBody is a Body with no data and no trailers.
type EmptyBody struct{}

func (EmptyBody) Read([]byte) (int, error) { return 0, io.EOF }
func (EmptyBody) Close() error             { return nil }
func (EmptyBody) Trailer() *Trailer        { return nil }

// Request is the canonical, protocol-version-independent HTTP request.
type Request struct {
	Method     string
	URI        string
	Proto      string // "HTTP/1.0", "HTTP/1.1", "HTTP/2"
	Header     *Header
	Body       Body
	Extensions context.Extensions
}

// Response is the canonical, protocol-version-independent HTTP
// response.
type Response struct {
	StatusCode int
	Proto      string
	Header     *Header
	Body       Body
	Extensions context.Extensions
}

// originalHeaderKey is the Extensions key an original, byte-exact
// header ordering is stashed under when the wire codec preserved it
// (HTTP/1 verbatim bytes, HTTP/2 literal-never-indexed HPACK
// instructions). Proxying code that must reproduce the client's exact
// header bytes reads this side channel instead of Header, which is
// already case- and duplicate-normalized for application use.
type originalHeaders struct {
	Lines []string // "Name: value" in wire order, verbatim bytes
}

var originalHeadersType = reflect.TypeOf((*originalHeaders)(nil))

// WithOriginalHeaders stashes the raw wire-order header lines into ext
// so a downstream proxy can reproduce them byte-for-byte.
func WithOriginalHeaders(ext context.Extensions, lines []string) {
	ext.Insert(&originalHeaders{Lines: lines})
}

// OriginalHeaders retrieves the raw wire-order header lines stashed by
// WithOriginalHeaders, if any were captured.
func OriginalHeaders(ext context.Extensions) ([]string, bool) {
	v, ok := ext.Get(originalHeadersType)
	if !ok {
		return nil, false
	}
	return v.(*originalHeaders).Lines, true
}
