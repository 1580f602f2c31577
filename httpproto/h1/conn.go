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

// Package h1 implements the HTTP/1.0/1.1 connection state machine: head
// parsing, chunked/content-length/close-delimited body framing,
// keep-alive bookkeeping, and the 101 upgrade handoff.
package h1

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	netctx "github.com/netlayer/netlayer/context"
	liberr "github.com/netlayer/netlayer/errors"
	"github.com/netlayer/netlayer/httpproto"
)

// State names the connection's position in the per-request lifecycle.
type State int

const (
	Idle State = iota
	ReadingHead
	ReadingBody
	Dispatching
	WritingHead
	WritingBody
	Closed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ReadingHead:
		return "reading_head"
	case ReadingBody:
		return "reading_body"
	case Dispatching:
		return "dispatching"
	case WritingHead:
		return "writing_head"
	case WritingBody:
		return "writing_body"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Options configures the per-connection head parser.
type Options struct {
	MaxHeadSize       int
	HeaderReadTimeout time.Duration
}

// DefaultOptions returns conservative defaults matching common HTTP/1
// server practice.
func DefaultOptions() Options {
	return Options{MaxHeadSize: 64 * 1024, HeaderReadTimeout: 10 * time.Second}
}

// UpgradeHandoff is registered on a request's Extensions by the
// application to take ownership of the raw connection after a 101
// response has been written (e.g. WebSocket).
type UpgradeHandoff func(rw io.ReadWriteCloser)

// Conn drives one HTTP/1 connection: at most one request dispatched at
// a time (half-duplex), though the reader may buffer the next request
// head while the previous response body is still being written.
type Conn struct {
	rw   io.ReadWriteCloser
	br   *bufio.Reader
	opt  Options
	st   State
	keep bool
}

// New wraps rw in a connection state machine.
func New(rw io.ReadWriteCloser, opt Options) *Conn {
	return &Conn{rw: rw, br: bufio.NewReader(rw), opt: opt, st: Idle, keep: true}
}

// State reports the connection's current lifecycle position.
func (c *Conn) State() State { return c.st }

// ReadRequest parses one request head plus constructs its body reader.
// Returns io.EOF if the peer closed before sending any bytes of a new
// request (a clean end of a keep-alive connection, not an error).
func (c *Conn) ReadRequest() (*httpproto.Request, error) {
	c.st = ReadingHead

	lines, raw, err := c.readHeadLines()
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, io.EOF
	}

	reqLine := strings.SplitN(lines[0], " ", 3)
	if len(reqLine) != 3 {
		return nil, liberr.CodeParseHTTPHead.Error(fmt.Errorf("malformed request line %q", lines[0]))
	}

	req := &httpproto.Request{
		Method:     reqLine[0],
		URI:        reqLine[1],
		Proto:      strings.TrimSpace(reqLine[2]),
		Header:     httpproto.NewHeader(),
		Extensions: netctx.NewExtensions(),
	}

	if err := parseHeaderLines(lines[1:], req.Header); err != nil {
		return nil, err
	}
	httpproto.WithOriginalHeaders(req.Extensions, append([]string{lines[0]}, lines[1:]...))

	if req.Header.Has("Transfer-Encoding") && req.Header.Has("Content-Length") {
		return nil, liberr.CodeDisallowedHeaders.Error(fmt.Errorf("both Transfer-Encoding and Content-Length present"))
	}

	c.keep = keepAliveFor(req.Proto, req.Header.Get("Connection"))

	c.st = ReadingBody
	req.Body = c.bodyReader(req.Header, true)

	_ = raw
	c.st = Dispatching
	return req, nil
}

// WriteResponse serializes resp onto the wire, including its body and
// any trailers, honoring the connection's keep-alive decision.
func (c *Conn) WriteResponse(resp *httpproto.Response) error {
	c.st = WritingHead

	if !c.keep {
		resp.Header.Set("Connection", "close")
	}

	statusLine := fmt.Sprintf("%s %d %s\r\n", protoOrDefault(resp.Proto), resp.StatusCode, statusText(resp.StatusCode))
	if _, err := io.WriteString(c.rw, statusLine); err != nil {
		return liberr.CodeTransportIO.Error(err)
	}
	for _, k := range resp.Header.Keys() {
		for _, v := range resp.Header.Values(k) {
			if _, err := fmt.Fprintf(c.rw, "%s: %s\r\n", k, v); err != nil {
				return liberr.CodeTransportIO.Error(err)
			}
		}
	}
	if _, err := io.WriteString(c.rw, "\r\n"); err != nil {
		return liberr.CodeTransportIO.Error(err)
	}

	if resp.StatusCode == 101 {
		return nil
	}

	c.st = WritingBody
	if resp.Body != nil {
		if _, err := io.Copy(c.rw, resp.Body); err != nil {
			c.st = Closed
			return liberr.CodeBodyWriteAborted.Error(err)
		}
		_ = resp.Body.Close()
	}

	if c.keep {
		c.st = Idle
	} else {
		c.st = Closed
	}
	return nil
}

// Close tears down the underlying connection.
func (c *Conn) Close() error {
	c.st = Closed
	return c.rw.Close()
}

// KeepAlive reports whether another request should be read after the
// current exchange completes.
func (c *Conn) KeepAlive() bool { return c.keep }

func protoOrDefault(p string) string {
	if p == "" {
		return "HTTP/1.1"
	}
	return p
}

func keepAliveFor(proto, connHeader string) bool {
	ch := strings.ToLower(strings.TrimSpace(connHeader))
	if strings.Contains(ch, "close") {
		return false
	}
	if proto == "HTTP/1.0" {
		return strings.Contains(ch, "keep-alive")
	}
	return true
}

// readHeadLines reads up to the blank-line terminator, enforcing
// MaxHeadSize, and returns the head split into lines (without CRLF).
func (c *Conn) readHeadLines() (lines []string, raw []byte, err error) {
	var buf bytes.Buffer
	for {
		line, e := c.br.ReadString('\n')
		if e != nil {
			if e == io.EOF && buf.Len() == 0 && len(lines) == 0 {
				return nil, nil, io.EOF
			}
			return nil, nil, liberr.CodeIncompleteMessage.Error(e)
		}
		buf.WriteString(line)
		if buf.Len() > c.opt.MaxHeadSize && c.opt.MaxHeadSize > 0 {
			return nil, nil, liberr.CodeMessageTooLarge.Error(fmt.Errorf("head exceeds %d bytes", c.opt.MaxHeadSize))
		}
		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed == "" {
			if len(lines) == 0 {
				continue // tolerate a leading blank line per RFC 7230 3.5
			}
			break
		}
		lines = append(lines, trimmed)
	}
	return lines, buf.Bytes(), nil
}

func parseHeaderLines(lines []string, h *httpproto.Header) error {
	for _, l := range lines {
		idx := strings.IndexByte(l, ':')
		if idx < 0 {
			return liberr.CodeParseHTTPHead.Error(fmt.Errorf("malformed header line %q", l))
		}
		name := l[:idx]
		value := strings.TrimSpace(l[idx+1:])
		h.Add(name, value)
	}
	return nil
}

// bodyReader selects the body framing: chunked first, then
// content-length, then (request side) no body at all, falling back to
// close-delimited only for responses.
func (c *Conn) bodyReader(h *httpproto.Header, isRequest bool) httpproto.Body {
	te := strings.ToLower(h.Get("Transfer-Encoding"))
	if strings.Contains(te, "chunked") {
		return &chunkedBody{br: c.br}
	}
	if cl := h.Get("Content-Length"); cl != "" {
		n, err := strconv.ParseInt(cl, 10, 64)
		if err != nil || n < 0 {
			return &errorBody{err: liberr.CodeParseHTTPHead.Error(fmt.Errorf("bad Content-Length %q", cl))}
		}
		return &limitedBody{r: io.LimitReader(c.br, n)}
	}
	if isRequest {
		return httpproto.EmptyBody{}
	}
	return &closeDelimitedBody{r: c.br}
}

type limitedBody struct{ r io.Reader }

func (b *limitedBody) Read(p []byte) (int, error) { return b.r.Read(p) }
func (b *limitedBody) Close() error                { return nil }
func (b *limitedBody) Trailer() *httpproto.Trailer { return nil }

type closeDelimitedBody struct{ r io.Reader }

func (b *closeDelimitedBody) Read(p []byte) (int, error) { return b.r.Read(p) }
func (b *closeDelimitedBody) Close() error                { return nil }
func (b *closeDelimitedBody) Trailer() *httpproto.Trailer { return nil }

type errorBody struct{ err error }

func (b *errorBody) Read([]byte) (int, error)       { return 0, b.err }
func (b *errorBody) Close() error                   { return nil }
func (b *errorBody) Trailer() *httpproto.Trailer    { return nil }

// chunkedBody decodes RFC 7230 §4.1 chunked transfer coding, exposing
// the final trailer section once the zero-length terminal chunk has
// been consumed.
type chunkedBody struct {
	br      *bufio.Reader
	remain  int64
	done    bool
	trailer *httpproto.Trailer
}

func (b *chunkedBody) Read(p []byte) (int, error) {
	if b.done {
		return 0, io.EOF
	}
	if b.remain == 0 {
		if err := b.nextChunkSize(); err != nil {
			return 0, err
		}
		if b.remain == 0 {
			if err := b.readTrailer(); err != nil {
				return 0, err
			}
			b.done = true
			return 0, io.EOF
		}
	}
	n := len(p)
	if int64(n) > b.remain {
		n = int(b.remain)
	}
	rn, err := b.br.Read(p[:n])
	b.remain -= int64(rn)
	if err != nil {
		return rn, liberr.CodeIncompleteMessage.Error(err)
	}
	if b.remain == 0 {
		// consume the trailing CRLF after the chunk data.
		if _, _, e := b.br.ReadLine(); e != nil {
			return rn, liberr.CodeIncompleteMessage.Error(e)
		}
	}
	return rn, nil
}

func (b *chunkedBody) nextChunkSize() error {
	line, err := b.br.ReadString('\n')
	if err != nil {
		return liberr.CodeIncompleteMessage.Error(err)
	}
	line = strings.TrimRight(line, "\r\n")
	if semi := strings.IndexByte(line, ';'); semi >= 0 {
		line = line[:semi]
	}
	n, err := strconv.ParseInt(strings.TrimSpace(line), 16, 64)
	if err != nil || n < 0 {
		return liberr.CodeParseChunk.Error(fmt.Errorf("bad chunk size %q", line))
	}
	b.remain = n
	return nil
}

func (b *chunkedBody) readTrailer() error {
	t := httpproto.NewHeader()
	for {
		line, err := b.br.ReadString('\n')
		if err != nil {
			return liberr.CodeIncompleteMessage.Error(err)
		}
		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed == "" {
			break
		}
		idx := strings.IndexByte(trimmed, ':')
		if idx < 0 {
			return liberr.CodeParseChunk.Error(fmt.Errorf("malformed trailer line %q", trimmed))
		}
		t.Add(trimmed[:idx], strings.TrimSpace(trimmed[idx+1:]))
	}
	b.trailer = t
	return nil
}

func (b *chunkedBody) Close() error                { return nil }
func (b *chunkedBody) Trailer() *httpproto.Trailer { return b.trailer }

// statusText returns the canonical reason phrase for common codes,
// falling back to a generic phrase for the rest.
func statusText(code int) string {
	switch code {
	case 200:
		return "OK"
	case 101:
		return "Switching Protocols"
	case 204:
		return "No Content"
	case 301:
		return "Moved Permanently"
	case 302:
		return "Found"
	case 304:
		return "Not Modified"
	case 400:
		return "Bad Request"
	case 403:
		return "Forbidden"
	case 404:
		return "Not Found"
	case 405:
		return "Method Not Allowed"
	case 408:
		return "Request Timeout"
	case 413:
		return "Payload Too Large"
	case 500:
		return "Internal Server Error"
	case 502:
		return "Bad Gateway"
	case 503:
		return "Service Unavailable"
	default:
		return "Status " + strconv.Itoa(code)
	}
}
