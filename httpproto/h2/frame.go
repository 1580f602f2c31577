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

// Package h2 implements a compliant subset of RFC 9113: the connection
// preface, SETTINGS exchange, HPACK-coded HEADERS, stream lifecycle,
// flow control (including an adaptive-window mode), and GOAWAY/RST_STREAM
// error mapping.
package h2

import (
	"encoding/binary"
	"fmt"
	"io"

	liberr "github.com/netlayer/netlayer/errors"
)

// Preface is the fixed connection preface a client must send first.
const Preface = "PRI * HTTP/2.0\r\n\r\nSM\r\n\r\n"

// FrameType identifies the type byte of an HTTP/2 frame header.
type FrameType uint8

const (
	FrameData         FrameType = 0x0
	FrameHeaders      FrameType = 0x1
	FramePriority     FrameType = 0x2
	FrameRSTStream    FrameType = 0x3
	FrameSettings     FrameType = 0x4
	FramePushPromise  FrameType = 0x5
	FramePing         FrameType = 0x6
	FrameGoAway       FrameType = 0x7
	FrameWindowUpdate FrameType = 0x8
	FrameContinuation FrameType = 0x9
)

// Flags, named per frame type (values reused across types per RFC 9113
// table 5.1).
const (
	FlagEndStream  uint8 = 0x1
	FlagEndHeaders uint8 = 0x4
	FlagPadded     uint8 = 0x8
	FlagPriority   uint8 = 0x20
	FlagACK        uint8 = 0x1
)

// ErrorCode is an HTTP/2 RST_STREAM / GOAWAY error code.
type ErrorCode uint32

const (
	ErrNoError            ErrorCode = 0x0
	ErrProtocolError      ErrorCode = 0x1
	ErrInternalError      ErrorCode = 0x2
	ErrFlowControlError   ErrorCode = 0x3
	ErrSettingsTimeout    ErrorCode = 0x4
	ErrStreamClosed       ErrorCode = 0x5
	ErrFrameSizeError     ErrorCode = 0x6
	ErrRefusedStream      ErrorCode = 0x7
	ErrCancel             ErrorCode = 0x8
	ErrCompressionError   ErrorCode = 0x9
	ErrConnectError       ErrorCode = 0xa
	ErrEnhanceYourCalm    ErrorCode = 0xb
	ErrInadequateSecurity ErrorCode = 0xc
	ErrHTTP11Required     ErrorCode = 0xd
)

// FrameHeader is the fixed 9-byte prefix of every frame.
type FrameHeader struct {
	Length   uint32 // 24 bits on the wire
	Type     FrameType
	Flags    uint8
	StreamID uint32 // top bit (reserved) masked off
}

// Frame is a decoded frame header plus its raw payload.
type Frame struct {
	FrameHeader
	Payload []byte
}

// WriteFrameHeader serializes h into the 9-byte wire prefix.
func WriteFrameHeader(w io.Writer, h FrameHeader) error {
	var buf [9]byte
	buf[0] = byte(h.Length >> 16)
	buf[1] = byte(h.Length >> 8)
	buf[2] = byte(h.Length)
	buf[3] = byte(h.Type)
	buf[4] = h.Flags
	binary.BigEndian.PutUint32(buf[5:], h.StreamID&0x7fffffff)
	_, err := w.Write(buf[:])
	return err
}

// ReadFrame reads one full frame (header + payload) from r, enforcing
// maxFrameSize.
func ReadFrame(r io.Reader, maxFrameSize uint32) (*Frame, error) {
	var hdr [9]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, liberr.CodeIncompleteMessage.Error(err)
	}
	length := uint32(hdr[0])<<16 | uint32(hdr[1])<<8 | uint32(hdr[2])
	if length > maxFrameSize {
		return nil, liberr.CodeHTTP2StreamError.Error(fmt.Errorf("frame size %d exceeds max %d", length, maxFrameSize))
	}
	f := &Frame{FrameHeader: FrameHeader{
		Length:   length,
		Type:     FrameType(hdr[3]),
		Flags:    hdr[4],
		StreamID: binary.BigEndian.Uint32(hdr[5:]) & 0x7fffffff,
	}}
	f.Payload = make([]byte, length)
	if _, err := io.ReadFull(r, f.Payload); err != nil {
		return nil, liberr.CodeIncompleteMessage.Error(err)
	}
	return f, nil
}

// WriteFrame writes a complete frame (header + payload).
func WriteFrame(w io.Writer, typ FrameType, flags uint8, streamID uint32, payload []byte) error {
	if err := WriteFrameHeader(w, FrameHeader{Length: uint32(len(payload)), Type: typ, Flags: flags, StreamID: streamID}); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// ParseRSTStream decodes a RST_STREAM payload.
func ParseRSTStream(payload []byte) (ErrorCode, error) {
	if len(payload) != 4 {
		return 0, liberr.CodeParseGRPCFrame.Error(fmt.Errorf("invalid RST_STREAM length %d", len(payload)))
	}
	return ErrorCode(binary.BigEndian.Uint32(payload)), nil
}

// EncodeRSTStream encodes a RST_STREAM payload.
func EncodeRSTStream(code ErrorCode) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(code))
	return b
}

// EncodeGoAway encodes a GOAWAY payload.
func EncodeGoAway(lastStreamID uint32, code ErrorCode, debug []byte) []byte {
	b := make([]byte, 8+len(debug))
	binary.BigEndian.PutUint32(b[0:], lastStreamID&0x7fffffff)
	binary.BigEndian.PutUint32(b[4:], uint32(code))
	copy(b[8:], debug)
	return b
}

// ParseGoAway decodes a GOAWAY payload.
func ParseGoAway(payload []byte) (lastStreamID uint32, code ErrorCode, debug []byte, err error) {
	if len(payload) < 8 {
		return 0, 0, nil, liberr.CodeParseGRPCFrame.Error(fmt.Errorf("invalid GOAWAY length %d", len(payload)))
	}
	lastStreamID = binary.BigEndian.Uint32(payload[0:4]) & 0x7fffffff
	code = ErrorCode(binary.BigEndian.Uint32(payload[4:8]))
	debug = payload[8:]
	return
}

// EncodeWindowUpdate encodes a WINDOW_UPDATE payload.
func EncodeWindowUpdate(increment uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, increment&0x7fffffff)
	return b
}

// ParseWindowUpdate decodes a WINDOW_UPDATE payload.
func ParseWindowUpdate(payload []byte) (uint32, error) {
	if len(payload) != 4 {
		return 0, liberr.CodeParseGRPCFrame.Error(fmt.Errorf("invalid WINDOW_UPDATE length %d", len(payload)))
	}
	return binary.BigEndian.Uint32(payload) & 0x7fffffff, nil
}

// ClassifyRSTCode maps an error's domain taxonomy code to the H2 error
// code to send in RST_STREAM/GOAWAY: ENHANCE_YOUR_CALM and
// HTTP_1_1_REQUIRED when present in the source chain, INTERNAL_ERROR
// otherwise.
func ClassifyRSTCode(err error) ErrorCode {
	if err == nil {
		return ErrNoError
	}
	if liberr.Has(err, liberr.CodeConcurrencyLimitReached) {
		return ErrEnhanceYourCalm
	}
	return ErrInternalError
}
