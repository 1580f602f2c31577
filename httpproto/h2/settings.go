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
	"encoding/binary"
	"fmt"

	liberr "github.com/netlayer/netlayer/errors"
)

// SettingID identifies a SETTINGS parameter.
type SettingID uint16

const (
	SettingHeaderTableSize      SettingID = 0x1
	SettingEnablePush           SettingID = 0x2
	SettingMaxConcurrentStreams SettingID = 0x3
	SettingInitialWindowSize    SettingID = 0x4
	SettingMaxFrameSize         SettingID = 0x5
	SettingMaxHeaderListSize    SettingID = 0x6
	SettingEnableConnectProto   SettingID = 0x8
)

// Setting is one id/value pair as observed on the wire.
type Setting struct {
	ID    SettingID
	Value uint32
}

// Settings holds both the resolved parameter values and the exact order
// they were observed in, retained for fingerprinting purposes
// (settings_order).
type Settings struct {
	HeaderTableSize      uint32
	EnablePush           bool
	MaxConcurrentStreams uint32
	InitialWindowSize    uint32
	MaxFrameSize         uint32
	MaxHeaderListSize    uint32
	EnableConnectProto   bool

	Order []SettingID // wire order, as observed, duplicates included
}

// DefaultSettings returns RFC 9113 §6.5.2 default values.
func DefaultSettings() Settings {
	return Settings{
		HeaderTableSize:      4096,
		EnablePush:           true,
		MaxConcurrentStreams: 100,
		InitialWindowSize:    65535,
		MaxFrameSize:         16384,
		MaxHeaderListSize:    ^uint32(0),
	}
}

// ParseSettings decodes a SETTINGS frame payload (six bytes per entry)
// and applies each entry to a copy of base, recording the wire order.
func ParseSettings(base Settings, payload []byte) (Settings, error) {
	if len(payload)%6 != 0 {
		return base, liberr.CodeParseGRPCFrame.Error(fmt.Errorf("invalid SETTINGS length %d", len(payload)))
	}
	out := base
	out.Order = append([]SettingID{}, base.Order...)
	for i := 0; i+6 <= len(payload); i += 6 {
		id := SettingID(binary.BigEndian.Uint16(payload[i:]))
		val := binary.BigEndian.Uint32(payload[i+2:])
		out.Order = append(out.Order, id)
		switch id {
		case SettingHeaderTableSize:
			out.HeaderTableSize = val
		case SettingEnablePush:
			out.EnablePush = val != 0
		case SettingMaxConcurrentStreams:
			out.MaxConcurrentStreams = val
		case SettingInitialWindowSize:
			if val > 1<<31-1 {
				return base, liberr.CodeHTTP2StreamError.Error(fmt.Errorf("INITIAL_WINDOW_SIZE %d out of range", val))
			}
			out.InitialWindowSize = val
		case SettingMaxFrameSize:
			if val < 16384 || val > 1<<24-1 {
				return base, liberr.CodeHTTP2StreamError.Error(fmt.Errorf("MAX_FRAME_SIZE %d out of range", val))
			}
			out.MaxFrameSize = val
		case SettingMaxHeaderListSize:
			out.MaxHeaderListSize = val
		case SettingEnableConnectProto:
			out.EnableConnectProto = val != 0
		default:
			// unknown settings are ignored per RFC 9113 §6.5.2.
		}
	}
	return out, nil
}

// EncodeSettings serializes the explicit id/value pairs given, in the
// given order — the encoder never reorders, letting callers choose the
// exact wire order they send (mirroring a captured fingerprint order if
// desired).
func EncodeSettings(pairs []Setting) []byte {
	b := make([]byte, 0, 6*len(pairs))
	for _, p := range pairs {
		var e [6]byte
		binary.BigEndian.PutUint16(e[0:], uint16(p.ID))
		binary.BigEndian.PutUint32(e[2:], p.Value)
		b = append(b, e[:]...)
	}
	return b
}

// AsPairs flattens the resolved settings (not the observed order) into
// the canonical six pairs, useful for the initial outbound SETTINGS
// frame where no order has been observed yet.
func (s Settings) AsPairs() []Setting {
	push := uint32(0)
	if s.EnablePush {
		push = 1
	}
	connect := uint32(0)
	if s.EnableConnectProto {
		connect = 1
	}
	return []Setting{
		{SettingHeaderTableSize, s.HeaderTableSize},
		{SettingEnablePush, push},
		{SettingMaxConcurrentStreams, s.MaxConcurrentStreams},
		{SettingInitialWindowSize, s.InitialWindowSize},
		{SettingMaxFrameSize, s.MaxFrameSize},
		{SettingMaxHeaderListSize, s.MaxHeaderListSize},
		{SettingEnableConnectProto, connect},
	}
}
