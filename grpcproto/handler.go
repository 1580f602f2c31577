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
	"io"

	"github.com/netlayer/netlayer/httpproto"
)

// UnaryHandler implements one gRPC method: decode a request message,
// produce a response message or a Status.
type UnaryHandler func(reqMsg any, respMsg any) Status

// Options configures a Dispatcher: accepted/sent encodings, max
// message sizes.
type Options struct {
	Codec                  Codec
	Compressors            *CompressorSet
	SendEncoding           string
	MaxDecodingMessageSize int
	MaxEncodingMessageSize int
}

// DefaultOptions uses the protobuf codec, gzip+identity compression,
// no outbound compression, and a 4MiB message cap.
func DefaultOptions() Options {
	return Options{
		Codec:                  ProtoCodec{},
		Compressors:            DefaultCompressorSet(),
		SendEncoding:           "identity",
		MaxDecodingMessageSize: 4 * 1024 * 1024,
		MaxEncodingMessageSize: 4 * 1024 * 1024,
	}
}

// Dispatcher handles the unary/client-streaming/server-streaming/
// bidirectional cardinalities uniformly: all four share the same
// frame-at-a-time transport, differing only in how many times the
// caller invokes ReadMessage/WriteMessage.
type Dispatcher struct {
	opt Options
}

// NewDispatcher builds a Dispatcher from opt.
func NewDispatcher(opt Options) *Dispatcher {
	if opt.Codec == nil {
		opt.Codec = ProtoCodec{}
	}
	if opt.Compressors == nil {
		opt.Compressors = DefaultCompressorSet()
	}
	return &Dispatcher{opt: opt}
}

// ReadMessage reads exactly one gRPC message from req's body, applying
// the compression negotiated from its grpc-encoding header, and
// unmarshals it into msg via the dispatcher's Codec.
func (d *Dispatcher) ReadMessage(req *httpproto.Request, msg any) error {
	frame, err := ReadFrame(req.Body, d.opt.MaxDecodingMessageSize)
	if err != nil {
		return err
	}

	payload := frame.Payload
	if frame.Compressed {
		encoding := req.Header.Get("grpc-encoding")
		c, nerr := d.opt.Compressors.Negotiate(encoding)
		if nerr != nil {
			return nerr
		}
		payload, err = c.Decompress(payload)
		if err != nil {
			return err
		}
	}

	return d.opt.Codec.Unmarshal(payload, msg)
}

// WriteMessage marshals msg via the dispatcher's Codec, compresses it
// per opt.SendEncoding unless ext carries the no-compress override, and
// writes the resulting frame to w.
func (d *Dispatcher) WriteMessage(w io.Writer, msg any, noCompress bool) error {
	payload, err := d.opt.Codec.Marshal(msg)
	if err != nil {
		return err
	}

	frame := Frame{Payload: payload}
	if d.opt.SendEncoding != "" && d.opt.SendEncoding != "identity" && !noCompress {
		if d.opt.MaxEncodingMessageSize > 0 && len(payload) > d.opt.MaxEncodingMessageSize {
			return resourceExhaustedStatus("encoded message exceeds configured max encoding size").Err()
		}
		c, ok := d.opt.Compressors.Get(d.opt.SendEncoding)
		if ok {
			compressed, cerr := c.Compress(payload)
			if cerr == nil {
				frame.Payload = compressed
				frame.Compressed = true
			}
		}
	}

	return WriteFrame(w, frame)
}

// resourceExhaustedStatus is a convenience Status constructor.
func resourceExhaustedStatus(msg string) Status { return Status{Code: ResourceExhausted, Message: msg} }

// ServeUnary drives one unary RPC end to end: decode the single request
// frame, invoke handler, encode the single response frame (or a
// trailer-only error if handler/decoding failed).
func (d *Dispatcher) ServeUnary(req *httpproto.Request, reqMsg, respMsg any, handler UnaryHandler) *httpproto.Response {
	trailer := *httpproto.NewHeader()
	resp := &httpproto.Response{
		StatusCode: 200,
		Proto:      req.Proto,
		Header:     httpproto.NewHeader(),
	}
	resp.Header.Set("Content-Type", "application/grpc")

	var buf bytes.Buffer
	status := func() Status {
		if err := d.ReadMessage(req, reqMsg); err != nil {
			return Status{Code: Internal, Message: err.Error()}
		}
		st := handler(reqMsg, respMsg)
		if st.Code != OK {
			return st
		}
		noCompress := req.Extensions != nil && isMarkedNoCompress(req.Extensions)
		if err := d.WriteMessage(&buf, respMsg, noCompress); err != nil {
			return Status{Code: Internal, Message: err.Error()}
		}
		return st
	}()

	code, message := status.WriteTrailer()
	trailer.Set("grpc-status", code)
	if message != "" {
		trailer.Set("grpc-message", message)
	}

	resp.Body = &trailerBody{r: bytes.NewReader(buf.Bytes()), trailer: &trailer}
	return resp
}

type trailerBody struct {
	r       *bytes.Reader
	trailer *httpproto.Trailer
}

func (b *trailerBody) Read(p []byte) (int, error) { return b.r.Read(p) }
func (b *trailerBody) Close() error                { return nil }
func (b *trailerBody) Trailer() *httpproto.Trailer  { return b.trailer }
