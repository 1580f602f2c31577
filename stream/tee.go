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

package stream

import (
	"bytes"
	"io"
	"reflect"

	netctx "github.com/netlayer/netlayer/context"
	"github.com/netlayer/netlayer/httpproto"
)

// TeeMode selects how much of a message RequestWriter/ResponseWriter
// serializes to the tee destination.
type TeeMode int

const (
	TeeFull TeeMode = iota
	TeeHeadersOnly
	TeeBodyOnly
)

// DoNotWriteRequest, when present on a request's Extensions, suppresses
// the tee for that specific request.
type DoNotWriteRequest struct{}

var doNotWriteRequestType = reflect.TypeOf((*DoNotWriteRequest)(nil)).Elem()

// Suppress marks req so RequestWriter skips teeing it.
func Suppress(ext netctx.Extensions) { ext.Insert(DoNotWriteRequest{}) }

func suppressed(ext netctx.Extensions) bool {
	if ext == nil {
		return false
	}
	_, ok := ext.Get(doNotWriteRequestType)
	return ok
}

// sink is the tee destination: an async writer fed via a bounded (or,
// if size<=0, unbounded-in-practice large-buffered) channel so the
// serialization happens off the hot path.
type sink struct {
	ch chan []byte
}

func newSink(w io.Writer, size int) *sink {
	if size <= 0 {
		size = 64
	}
	s := &sink{ch: make(chan []byte, size)}
	go func() {
		for b := range s.ch {
			_, _ = w.Write(b)
		}
	}()
	return s
}

func (s *sink) send(b []byte) {
	select {
	case s.ch <- b:
	default:
		// tee channel saturated: drop rather than block the hot path.
	}
}

// RequestWriter tees each request's serialized form to w, honoring
// DoNotWriteRequest and the configured TeeMode. After writing, the
// request is forwarded downstream unchanged (the body is only
// serialized once, then re-wrapped for replay).
type RequestWriter struct {
	sink *sink
	mode TeeMode
}

// NewRequestWriter starts a tee to w with a channel depth of bufSize.
func NewRequestWriter(w io.Writer, mode TeeMode, bufSize int) *RequestWriter {
	return &RequestWriter{sink: newSink(w, bufSize), mode: mode}
}

// Tee serializes req (per mode) to the sink, unless suppressed, and
// returns a request whose Body can still be read exactly once by the
// caller's downstream consumer.
func (rw *RequestWriter) Tee(req *httpproto.Request) *httpproto.Request {
	if suppressed(req.Extensions) {
		return req
	}

	var buf bytes.Buffer
	if rw.mode != TeeBodyOnly {
		buf.WriteString(req.Method + " " + req.URI + " " + req.Proto + "\r\n")
		for _, k := range req.Header.Keys() {
			for _, v := range req.Header.Values(k) {
				buf.WriteString(k + ": " + v + "\r\n")
			}
		}
		buf.WriteString("\r\n")
	}

	if rw.mode == TeeHeadersOnly || req.Body == nil {
		rw.sink.send(buf.Bytes())
		return req
	}

	body, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	if err == nil {
		buf.Write(body)
	}
	rw.sink.send(append([]byte{}, buf.Bytes()...))

	req.Body = &replayBody{r: bytes.NewReader(body)}
	return req
}

// ResponseWriter is the response-side counterpart of RequestWriter.
type ResponseWriter struct {
	sink *sink
	mode TeeMode
}

// NewResponseWriter starts a tee to w with a channel depth of bufSize.
func NewResponseWriter(w io.Writer, mode TeeMode, bufSize int) *ResponseWriter {
	return &ResponseWriter{sink: newSink(w, bufSize), mode: mode}
}

// Tee serializes resp (per mode) to the sink and returns a response
// whose Body can still be read exactly once downstream.
func (rw *ResponseWriter) Tee(resp *httpproto.Response) *httpproto.Response {
	var buf bytes.Buffer
	if rw.mode != TeeBodyOnly {
		for _, k := range resp.Header.Keys() {
			for _, v := range resp.Header.Values(k) {
				buf.WriteString(k + ": " + v + "\r\n")
			}
		}
		buf.WriteString("\r\n")
	}

	if rw.mode == TeeHeadersOnly || resp.Body == nil {
		rw.sink.send(buf.Bytes())
		return resp
	}

	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err == nil {
		buf.Write(body)
	}
	rw.sink.send(append([]byte{}, buf.Bytes()...))

	resp.Body = &replayBody{r: bytes.NewReader(body)}
	return resp
}

type replayBody struct{ r *bytes.Reader }

func (b *replayBody) Read(p []byte) (int, error)    { return b.r.Read(p) }
func (b *replayBody) Close() error                   { return nil }
func (b *replayBody) Trailer() *httpproto.Trailer    { return nil }
