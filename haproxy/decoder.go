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
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"net"

	liberr "github.com/netlayer/netlayer/errors"
)

// Mode selects how a connection is treated when no recognizable PROXY
// header is found.
type Mode int

const (
	// Strict always expects a PROXY header; absence is an error.
	Strict Mode = iota
	// Peek reads a small prefix; on a signature mismatch, the bytes
	// already read are replayed unchanged into the inner protocol.
	Peek
)

// Conn wraps a net.Conn so that, after a successful Decode, any bytes
// read past the header during peeking are transparently replayed to
// callers of Read before the underlying connection is consulted
// again — the "leftover buffer forwarded byte-identical" invariant.
type Conn struct {
	net.Conn
	leftover *bytes.Reader
}

func (c *Conn) Read(p []byte) (int, error) {
	if c.leftover != nil {
		n, err := c.leftover.Read(p)
		if err == io.EOF {
			c.leftover = nil
			if n == 0 {
				return c.Conn.Read(p)
			}
			return n, nil
		}
		return n, err
	}
	return c.Conn.Read(p)
}

// Decode consumes the PROXY header (if present, per mode) from conn
// and returns a *Conn ready for the inner protocol plus the decoded
// Forwarded element (zero-valued if none was present in Peek mode).
func Decode(conn net.Conn, mode Mode) (*Conn, Forwarded, error) {
	br := bufio.NewReaderSize(conn, 512)

	// Peek just enough to distinguish v1 ("PROXY ") from v2 (12-byte
	// binary signature) without over-reading: the v1 prefix is 6
	// bytes, the v2 signature is 12. Peeking 12 and checking both
	// prefixes up front avoids the short-read trap the spec calls out
	// (a single read is not guaranteed to return the full prefix, so
	// bufio.Reader.Peek — which itself loops internally — is used
	// rather than a raw conn.Read).
	prefix, err := br.Peek(len(v2Sig))
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		if mode == Strict {
			return nil, Forwarded{}, liberr.CodeParseHAProxyHeader.Error(err)
		}
		// couldn't even peek a full prefix: fewer bytes than any
		// valid header exist on the wire. In peek mode that's not an
		// error by itself, just "no header" — replay what we have.
		return replay(conn, br, mode, Forwarded{}, nil)
	}

	if bytes.HasPrefix(prefix, v2Sig[:]) {
		return decodeV2(conn, br)
	}
	if len(prefix) >= 6 && string(prefix[:6]) == v1Sig {
		return decodeV1(conn, br)
	}

	if mode == Strict {
		return nil, Forwarded{}, liberr.CodeParseHAProxyHeader.Error(errors.New("no recognizable PROXY signature"))
	}
	return replay(conn, br, mode, Forwarded{}, nil)
}

func replay(conn net.Conn, br *bufio.Reader, _ Mode, fwd Forwarded, extra []byte) (*Conn, Forwarded, error) {
	buffered := make([]byte, br.Buffered())
	_, _ = io.ReadFull(br, buffered)
	buffered = append(buffered, extra...)
	wrapped := &Conn{Conn: conn}
	if len(buffered) > 0 {
		wrapped.leftover = bytes.NewReader(buffered)
	}
	return wrapped, fwd, nil
}

func decodeV1(conn net.Conn, br *bufio.Reader) (*Conn, Forwarded, error) {
	line, err := br.ReadString('\n')
	if err != nil {
		return nil, Forwarded{}, liberr.CodeParseHAProxyHeader.Error(err)
	}
	if len(line) > maxV1Line {
		return nil, Forwarded{}, liberr.CodeParseHAProxyHeader.Error(errors.New("v1 header exceeds maximum length"))
	}
	trimmed := line
	if n := len(trimmed); n >= 2 && trimmed[n-2] == '\r' && trimmed[n-1] == '\n' {
		trimmed = trimmed[:n-2]
	} else if n := len(trimmed); n >= 1 && trimmed[n-1] == '\n' {
		trimmed = trimmed[:n-1]
	}

	fwd, err := parseV1(trimmed)
	if err != nil {
		return nil, Forwarded{}, err
	}
	return replay(conn, br, Peek, fwd, nil)
}

func decodeV2(conn net.Conn, br *bufio.Reader) (*Conn, Forwarded, error) {
	var hdr [v2HeaderLen]byte
	if _, err := io.ReadFull(br, hdr[:]); err != nil {
		return nil, Forwarded{}, liberr.CodeParseHAProxyHeader.Error(err)
	}

	length := binary.BigEndian.Uint16(hdr[14:16])
	rest := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(br, rest); err != nil {
			return nil, Forwarded{}, liberr.CodeParseHAProxyHeader.Error(err)
		}
	}

	fwd, err := parseV2(hdr, rest)
	if err != nil {
		return nil, Forwarded{}, err
	}
	return replay(conn, br, Peek, fwd, nil)
}
