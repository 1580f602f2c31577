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
	"fmt"
	"io"
	"sync"

	netctx "github.com/netlayer/netlayer/context"
	liberr "github.com/netlayer/netlayer/errors"
	"github.com/netlayer/netlayer/httpproto"
)

// Options configures a Connection beyond the negotiated SETTINGS.
type Options struct {
	Local          Settings
	AdaptiveWindow bool
	MaxWindow      uint32
}

// DefaultOptions returns a conservative server-side configuration.
func DefaultOptions() Options {
	return Options{Local: DefaultSettings(), AdaptiveWindow: false, MaxWindow: 1<<31 - 1}
}

// Connection drives one HTTP/2 connection: the preface handshake,
// SETTINGS exchange, and the HEADERS/DATA/WINDOW_UPDATE/RST_STREAM/
// GOAWAY frame loop across a stream map, guarded by a single mutex so
// contention stays bounded to that connection.
type Connection struct {
	rw  io.ReadWriter
	opt Options

	mu       sync.Mutex
	local    Settings
	peer     Settings
	streams  map[uint32]*Stream
	lastID   uint32
	goneAway bool

	connSend *FlowWindow
	connRecv *FlowWindow
	bdp      *BDPEstimator

	hdec *HeaderCodec
	henc *HeaderCodec
}

// NewServerConnection performs the server side of the handshake:
// consuming the client preface and the client's first SETTINGS frame,
// then sending the server's own SETTINGS and acknowledging the peer's.
func NewServerConnection(rw io.ReadWriter, opt Options) (*Connection, error) {
	var preface [24]byte
	if _, err := io.ReadFull(rw, preface[:]); err != nil {
		return nil, liberr.CodeIncompleteMessage.Error(err)
	}
	if string(preface[:]) != Preface {
		return nil, liberr.CodeParseHTTPHead.Error(fmt.Errorf("bad HTTP/2 connection preface"))
	}

	c := &Connection{
		rw:      rw,
		opt:     opt,
		local:   opt.Local,
		peer:    DefaultSettings(),
		streams: make(map[uint32]*Stream),
	}
	c.connSend = NewFlowWindow(c.peer.InitialWindowSize)
	c.connRecv = NewFlowWindow(c.local.InitialWindowSize)
	c.hdec = NewHeaderCodec(c.local.HeaderTableSize)
	c.henc = NewHeaderCodec(c.peer.HeaderTableSize)
	if opt.AdaptiveWindow {
		c.bdp = NewBDPEstimator(c.local.InitialWindowSize, opt.MaxWindow)
	}

	if err := c.sendSettings(c.local.AsPairs()); err != nil {
		return nil, err
	}

	if err := c.readAndApplyPeerSettings(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Connection) sendSettings(pairs []Setting) error {
	return WriteFrame(c.rw, FrameSettings, 0, 0, EncodeSettings(pairs))
}

func (c *Connection) sendSettingsAck() error {
	return WriteFrame(c.rw, FrameSettings, FlagACK, 0, nil)
}

func (c *Connection) readAndApplyPeerSettings() error {
	f, err := ReadFrame(c.rw, c.local.MaxFrameSize)
	if err != nil {
		return err
	}
	if f.Type != FrameSettings {
		return liberr.CodeUnexpectedMessage.Error(fmt.Errorf("expected SETTINGS, got frame type %d", f.Type))
	}
	if f.Flags&FlagACK != 0 {
		return nil
	}
	peer, err := ParseSettings(c.peer, f.Payload)
	if err != nil {
		return err
	}
	c.peer = peer
	c.henc = NewHeaderCodec(c.peer.HeaderTableSize)
	return c.sendSettingsAck()
}

// PeerSettingsOrder exposes the observed SETTINGS parameter order so
// it can be reused for connection fingerprinting.
func (c *Connection) PeerSettingsOrder() []SettingID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]SettingID{}, c.peer.Order...)
}

// stream looks up or lazily creates the stream state for id.
func (c *Connection) stream(id uint32) *Stream {
	if s, ok := c.streams[id]; ok {
		return s
	}
	s := NewStream(id, c.peer.InitialWindowSize, c.local.InitialWindowSize)
	c.streams[id] = s
	if id > c.lastID {
		c.lastID = id
	}
	return s
}

// ReadRequest blocks until a complete request (HEADERS [+ CONTINUATION]
// with END_HEADERS, then DATA frames until END_STREAM) has arrived on
// some stream, returning the assembled request and its stream ID.
func (c *Connection) ReadRequest() (*httpproto.Request, uint32, error) {
	for {
		f, err := ReadFrame(c.rw, c.local.MaxFrameSize)
		if err != nil {
			return nil, 0, err
		}

		switch f.Type {
		case FrameSettings:
			if f.Flags&FlagACK != 0 {
				continue
			}
			c.mu.Lock()
			peer, perr := ParseSettings(c.peer, f.Payload)
			if perr == nil {
				delta := int64(peer.InitialWindowSize) - int64(c.peer.InitialWindowSize)
				c.peer = peer
				for _, s := range c.streams {
					s.SendWindow.Shrink(delta)
				}
			}
			c.mu.Unlock()
			if perr != nil {
				return nil, 0, perr
			}
			if err := c.sendSettingsAck(); err != nil {
				return nil, 0, err
			}

		case FramePing:
			if f.Flags&FlagACK == 0 {
				if err := WriteFrame(c.rw, FramePing, FlagACK, 0, f.Payload); err != nil {
					return nil, 0, err
				}
			}

		case FrameWindowUpdate:
			inc, werr := ParseWindowUpdate(f.Payload)
			if werr != nil {
				return nil, 0, werr
			}
			c.mu.Lock()
			if f.StreamID == 0 {
				c.connSend.Replenish(inc)
			} else {
				c.stream(f.StreamID).SendWindow.Replenish(inc)
			}
			c.mu.Unlock()

		case FrameHeaders:
			req, rerr := c.assembleHeaders(f)
			if rerr != nil {
				return nil, 0, rerr
			}
			if req != nil {
				return req, f.StreamID, nil
			}

		case FrameData:
			if derr := c.applyData(f); derr != nil {
				return nil, 0, derr
			}
			c.mu.Lock()
			s := c.stream(f.StreamID)
			complete := f.Flags&FlagEndStream != 0
			c.mu.Unlock()
			if complete {
				req := s.Request
				if req != nil {
					req.Body = &bufferBody{buf: bytes.NewReader(s.body.Bytes())}
					return req, f.StreamID, nil
				}
			}

		case FrameRSTStream:
			c.mu.Lock()
			delete(c.streams, f.StreamID)
			c.mu.Unlock()

		case FrameGoAway:
			c.mu.Lock()
			c.goneAway = true
			c.mu.Unlock()
			return nil, 0, liberr.CodeHTTP2ConnectionClosed.Error(fmt.Errorf("peer sent GOAWAY"))

		default:
			// priority, push-promise, continuation-without-headers:
			// accepted and ignored, per RFC 9113 liberal-receiver guidance
			// for frame types this subset doesn't act on directly.
		}
	}
}

func (c *Connection) assembleHeaders(f *Frame) (*httpproto.Request, error) {
	c.mu.Lock()
	s := c.stream(f.StreamID)
	s.Open()
	c.mu.Unlock()

	payload := stripPadding(f)
	dec, err := c.hdec.Decode(payload)
	if err != nil {
		return nil, err
	}

	req := dec.ToRequest()
	req.Extensions = netctx.NewExtensions()
	s.Request = req
	httpproto.WithOriginalHeaders(req.Extensions, dec.OriginalLines())

	if f.Flags&FlagEndStream != 0 {
		s.HalfCloseRemote()
		req.Body = httpproto.EmptyBody{}
		return req, nil
	}
	return nil, nil
}

func (c *Connection) applyData(f *Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stream(f.StreamID)
	if err := c.connRecv.Consume(int64(len(f.Payload))); err != nil {
		return err
	}
	if err := s.RecvWindow.Consume(int64(len(f.Payload))); err != nil {
		return err
	}
	s.body.Write(f.Payload)

	if c.bdp != nil {
		c.bdp.OnBytesReceived(len(f.Payload))
		desired := c.bdp.DesiredWindow()
		if int64(desired) > s.RecvWindow.Available() {
			inc := uint32(int64(desired) - s.RecvWindow.Available())
			s.RecvWindow.Replenish(inc)
			_ = WriteFrame(c.rw, FrameWindowUpdate, 0, f.StreamID, EncodeWindowUpdate(inc))
		}
	} else if s.RecvWindow.Available() < int64(c.local.InitialWindowSize)/2 {
		inc := uint32(int64(c.local.InitialWindowSize) - s.RecvWindow.Available())
		s.RecvWindow.Replenish(inc)
		_ = WriteFrame(c.rw, FrameWindowUpdate, 0, f.StreamID, EncodeWindowUpdate(inc))
	}

	if f.Flags&FlagEndStream != 0 {
		s.HalfCloseRemote()
	}
	return nil
}

// WriteResponse encodes and sends resp's HEADERS (+ DATA, + trailing
// HEADERS for trailers) on streamID, respecting the stream's current
// send window: never write more than the peer's advertised window.
func (c *Connection) WriteResponse(streamID uint32, resp *httpproto.Response) error {
	c.mu.Lock()
	s := c.stream(streamID)
	c.mu.Unlock()

	status := fmt.Sprintf("%d", resp.StatusCode)
	block := c.henc.Encode(PseudoStatusLine(status), resp.Header)

	var body []byte
	if resp.Body != nil {
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return liberr.CodeBodyWriteAborted.Error(err)
		}
		body = b
		_ = resp.Body.Close()
	}

	endStream := uint8(0)
	if len(body) == 0 {
		endStream = FlagEndStream
	}
	if err := WriteFrame(c.rw, FrameHeaders, FlagEndHeaders|endStream, streamID, block); err != nil {
		return liberr.CodeTransportIO.Error(err)
	}

	for len(body) > 0 {
		c.mu.Lock()
		maxFrame := int64(c.peer.MaxFrameSize)
		avail := s.SendWindow.Available()
		if avail > c.connSend.Available() {
			avail = c.connSend.Available()
		}
		c.mu.Unlock()

		if avail <= 0 {
			return liberr.CodeBodyWriteAborted.Error(fmt.Errorf("send window exhausted for stream %d", streamID))
		}

		chunk := int64(len(body))
		if chunk > maxFrame {
			chunk = maxFrame
		}
		if chunk > avail {
			chunk = avail
		}

		c.mu.Lock()
		_ = s.SendWindow.Consume(chunk)
		_ = c.connSend.Consume(chunk)
		c.mu.Unlock()

		last := chunk == int64(len(body))
		flags := uint8(0)
		if last {
			flags = FlagEndStream
		}
		if err := WriteFrame(c.rw, FrameData, flags, streamID, body[:chunk]); err != nil {
			return liberr.CodeTransportIO.Error(err)
		}
		body = body[chunk:]
	}

	c.mu.Lock()
	s.HalfCloseLocal()
	c.mu.Unlock()
	return nil
}

// ResetStream sends RST_STREAM mapping err via ClassifyRSTCode.
func (c *Connection) ResetStream(streamID uint32, err error) error {
	c.mu.Lock()
	delete(c.streams, streamID)
	c.mu.Unlock()
	return WriteFrame(c.rw, FrameRSTStream, 0, streamID, EncodeRSTStream(ClassifyRSTCode(err)))
}

// GoAway sends a connection-level GOAWAY with the last processed
// stream ID, for fatal protocol errors.
func (c *Connection) GoAway(err error) error {
	c.mu.Lock()
	last := c.lastID
	c.mu.Unlock()
	return WriteFrame(c.rw, FrameGoAway, 0, 0, EncodeGoAway(last, ClassifyRSTCode(err), []byte(errMsg(err))))
}

func errMsg(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func stripPadding(f *Frame) []byte {
	if f.Flags&FlagPadded == 0 {
		return f.Payload
	}
	if len(f.Payload) == 0 {
		return f.Payload
	}
	padLen := int(f.Payload[0])
	if padLen >= len(f.Payload) {
		return nil
	}
	return f.Payload[1 : len(f.Payload)-padLen]
}

type bufferBody struct{ buf *bytes.Reader }

func (b *bufferBody) Read(p []byte) (int, error)       { return b.buf.Read(p) }
func (b *bufferBody) Close() error                      { return nil }
func (b *bufferBody) Trailer() *httpproto.Trailer       { return nil }
