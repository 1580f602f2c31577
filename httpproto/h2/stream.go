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

package h2

import (
	"bytes"

	"github.com/netlayer/netlayer/httpproto"
)

// StreamState is the RFC 9113 §5.1 stream lifecycle.
type StreamState int

const (
	StreamIdle StreamState = iota
	StreamReservedLocal
	StreamReservedRemote
	StreamOpen
	StreamHalfClosedLocal
	StreamHalfClosedRemote
	StreamClosed
)

func (s StreamState) String() string {
	switch s {
	case StreamIdle:
		return "idle"
	case StreamReservedLocal:
		return "reserved_local"
	case StreamReservedRemote:
		return "reserved_remote"
	case StreamOpen:
		return "open"
	case StreamHalfClosedLocal:
		return "half_closed_local"
	case StreamHalfClosedRemote:
		return "half_closed_remote"
	case StreamClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Stream holds the per-stream state a Connection multiplexes: its
// lifecycle state, flow-control window, and accumulating header/body
// buffers while framing is in progress.
type Stream struct {
	ID    uint32
	State StreamState

	SendWindow *FlowWindow
	RecvWindow *FlowWindow

	headerBuf bytes.Buffer // accumulates CONTINUATION fragments
	body      bytes.Buffer
	trailer   *httpproto.Trailer
	endStream bool

	Request  *httpproto.Request
	Response *httpproto.Response
}

// NewStream constructs a stream in the idle state with windows seeded
// from the connection's negotiated initial sizes.
func NewStream(id uint32, sendInitial, recvInitial uint32) *Stream {
	return &Stream{
		ID:         id,
		State:      StreamIdle,
		SendWindow: NewFlowWindow(sendInitial),
		RecvWindow: NewFlowWindow(recvInitial),
	}
}

// Open transitions idle → open (or reserved variants) on receipt of a
// HEADERS or PUSH_PROMISE frame.
func (s *Stream) Open() { s.State = StreamOpen }

// HalfCloseLocal transitions to half-closed-local (this side sent
// END_STREAM).
func (s *Stream) HalfCloseLocal() {
	if s.State == StreamHalfClosedRemote {
		s.State = StreamClosed
		return
	}
	s.State = StreamHalfClosedLocal
}

// HalfCloseRemote transitions to half-closed-remote (the peer sent
// END_STREAM).
func (s *Stream) HalfCloseRemote() {
	if s.State == StreamHalfClosedLocal {
		s.State = StreamClosed
		return
	}
	s.State = StreamHalfClosedRemote
}

// Terminal reports whether no further frames may legally be received
// for this stream (closed, or the peer has already half-closed and we
// have too).
func (s *Stream) Terminal() bool { return s.State == StreamClosed }
