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
	"encoding/binary"
	"errors"
	"io"

	liberr "github.com/netlayer/netlayer/errors"
)

// frameHeaderLen is the 1-byte compressed flag + 4-byte big-endian
// length prefix every gRPC message frame carries.
const frameHeaderLen = 5

// Frame is one decoded gRPC message frame.
type Frame struct {
	Compressed bool
	Payload    []byte
}

// ReadFrame reads one length-prefixed frame from r, enforcing maxSize
// on the decoded payload length (0 disables the check).
func ReadFrame(r io.Reader, maxSize int) (Frame, error) {
	var hdr [frameHeaderLen]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return Frame{}, err
		}
		return Frame{}, liberr.CodeParseGRPCFrame.Error(err)
	}

	length := binary.BigEndian.Uint32(hdr[1:5])
	if maxSize > 0 && int(length) > maxSize {
		return Frame{}, liberr.CodeResourceExhaustedGRPC.Error(
			errors.New("message exceeds configured max decoding size"))
	}

	payload := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return Frame{}, liberr.CodeParseGRPCFrame.Error(err)
		}
	}

	return Frame{Compressed: hdr[0] != 0, Payload: payload}, nil
}

// WriteFrame writes f to w in wire form.
func WriteFrame(w io.Writer, f Frame) error {
	var hdr [frameHeaderLen]byte
	if f.Compressed {
		hdr[0] = 1
	}
	binary.BigEndian.PutUint32(hdr[1:5], uint32(len(f.Payload)))
	if _, err := w.Write(hdr[:]); err != nil {
		return liberr.CodeTransportIO.Error(err)
	}
	if _, err := w.Write(f.Payload); err != nil {
		return liberr.CodeTransportIO.Error(err)
	}
	return nil
}
