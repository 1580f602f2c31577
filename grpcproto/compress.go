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

package grpcproto

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"

	liberr "github.com/netlayer/netlayer/errors"
)

// Compressor implements one grpc-encoding value.
type Compressor interface {
	Name() string
	Compress(p []byte) ([]byte, error)
	Decompress(p []byte) ([]byte, error)
}

// IdentityCompressor is the no-op "identity" encoding, always
// implicitly accepted.
type IdentityCompressor struct{}

func (IdentityCompressor) Name() string                     { return "identity" }
func (IdentityCompressor) Compress(p []byte) ([]byte, error) { return p, nil }
func (IdentityCompressor) Decompress(p []byte) ([]byte, error) { return p, nil }

// GzipCompressor implements grpc-encoding "gzip" via
// klauspost/compress/gzip.
type GzipCompressor struct{}

func (GzipCompressor) Name() string { return "gzip" }

func (GzipCompressor) Compress(p []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(p); err != nil {
		return nil, liberr.CodeParseGRPCFrame.Error(err)
	}
	if err := w.Close(); err != nil {
		return nil, liberr.CodeParseGRPCFrame.Error(err)
	}
	return buf.Bytes(), nil
}

func (GzipCompressor) Decompress(p []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(p))
	if err != nil {
		return nil, liberr.CodeParseGRPCFrame.Error(err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, liberr.CodeParseGRPCFrame.Error(err)
	}
	return out, nil
}

// CompressorSet is the negotiated set of encodings a side of a
// connection advertises/accepts.
type CompressorSet struct {
	byName map[string]Compressor
}

// NewCompressorSet builds a set from cs, always implicitly including
// identity.
func NewCompressorSet(cs ...Compressor) *CompressorSet {
	s := &CompressorSet{byName: map[string]Compressor{"identity": IdentityCompressor{}}}
	for _, c := range cs {
		s.byName[c.Name()] = c
	}
	return s
}

// DefaultCompressorSet advertises gzip and identity, matching
// netcfg.DefaultGRPC's AcceptEncodings.
func DefaultCompressorSet() *CompressorSet {
	return NewCompressorSet(GzipCompressor{})
}

// Get looks up name, reporting ok=false if it was never registered.
func (s *CompressorSet) Get(name string) (Compressor, bool) {
	c, ok := s.byName[name]
	return c, ok
}

// AcceptEncodingHeader formats the set's names as a
// "grpc-accept-encoding" header value.
func (s *CompressorSet) AcceptEncodingHeader() string {
	names := make([]string, 0, len(s.byName))
	for n := range s.byName {
		names = append(names, n)
	}
	return strings.Join(names, ",")
}

// Negotiate selects a response compressor: requested (the client's
// grpc-encoding) if both advertised and enabled on this side, else
// identity. An explicitly requested-but-unsupported encoding is an
// Unimplemented error.
func (s *CompressorSet) Negotiate(requested string) (Compressor, error) {
	if requested == "" || requested == "identity" {
		return IdentityCompressor{}, nil
	}
	c, ok := s.byName[requested]
	if !ok {
		return nil, liberr.CodeGRPCUnknownEncoding.Error(
			errors.New("unimplemented grpc-encoding: " + requested))
	}
	return c, nil
}
