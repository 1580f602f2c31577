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

// Package netcfg holds one plain, mapstructure-tagged config struct per
// protocol layer, each with a Default() constructor, loadable through
// spf13/viper the way httpcli.Options is loaded by its callers.
package netcfg

import "time"

// HTTP1 configures the HTTP/1 connection state machine (httpproto/h1).
type HTTP1 struct {
	MaxHeadSize       int           `json:"max_head_size" yaml:"max_head_size" mapstructure:"max_head_size"`
	HeaderReadTimeout time.Duration `json:"header_read_timeout" yaml:"header_read_timeout" mapstructure:"header_read_timeout"`
}

// DefaultHTTP1 matches httpproto/h1.DefaultOptions's values.
func DefaultHTTP1() HTTP1 {
	return HTTP1{
		MaxHeadSize:       64 * 1024,
		HeaderReadTimeout: 30 * time.Second,
	}
}

// HTTP2 configures the HTTP/2 connection (httpproto/h2), including the
// settings-order fingerprinting and adaptive-window supplemented
// features.
type HTTP2 struct {
	InitialStreamWindowSize     uint32   `json:"initial_stream_window_size" yaml:"initial_stream_window_size" mapstructure:"initial_stream_window_size"`
	InitialConnectionWindowSize uint32   `json:"initial_connection_window_size" yaml:"initial_connection_window_size" mapstructure:"initial_connection_window_size"`
	AdaptiveWindow              bool     `json:"adaptive_window" yaml:"adaptive_window" mapstructure:"adaptive_window"`
	MaxConcurrentStreams        uint32   `json:"max_concurrent_streams" yaml:"max_concurrent_streams" mapstructure:"max_concurrent_streams"`
	MaxFrameSize                uint32   `json:"max_frame_size" yaml:"max_frame_size" mapstructure:"max_frame_size"`
	MaxHeaderListSize           uint32   `json:"max_header_list_size" yaml:"max_header_list_size" mapstructure:"max_header_list_size"`
	EnableConnectProtocol       bool     `json:"enable_connect_protocol" yaml:"enable_connect_protocol" mapstructure:"enable_connect_protocol"`
	SettingsOrder               []string `json:"settings_order,omitempty" yaml:"settings_order,omitempty" mapstructure:"settings_order"`
}

// DefaultHTTP2 matches the RFC 9113 §6.5.2 defaults httpproto/h2 uses.
func DefaultHTTP2() HTTP2 {
	return HTTP2{
		InitialStreamWindowSize:     65535,
		InitialConnectionWindowSize: 65535,
		AdaptiveWindow:              false,
		MaxConcurrentStreams:        100,
		MaxFrameSize:                16384,
		MaxHeaderListSize:           0,
		EnableConnectProtocol:       false,
	}
}

// GRPC configures frame decoding/encoding and compression negotiation
// (grpcproto).
type GRPC struct {
	AcceptEncodings         []string `json:"accept_encodings" yaml:"accept_encodings" mapstructure:"accept_encodings"`
	SendEncoding            string   `json:"send_encoding" yaml:"send_encoding" mapstructure:"send_encoding"`
	MaxDecodingMessageSize  int      `json:"max_decoding_message_size" yaml:"max_decoding_message_size" mapstructure:"max_decoding_message_size"`
	MaxEncodingMessageSize  int      `json:"max_encoding_message_size" yaml:"max_encoding_message_size" mapstructure:"max_encoding_message_size"`
}

// DefaultGRPC disables outbound compression and caps messages at 4MiB,
// matching the grpc-go ecosystem default.
func DefaultGRPC() GRPC {
	return GRPC{
		AcceptEncodings:        []string{"gzip", "identity"},
		SendEncoding:           "identity",
		MaxDecodingMessageSize: 4 * 1024 * 1024,
		MaxEncodingMessageSize: 4 * 1024 * 1024,
	}
}

// SOCKS5 configures the socks5/server.Server's pluggable surfaces.
type SOCKS5 struct {
	EnabledMethods   []string `json:"enabled_methods" yaml:"enabled_methods" mapstructure:"enabled_methods"`
	HideLocalAddress bool     `json:"hide_local_address" yaml:"hide_local_address" mapstructure:"hide_local_address"`
}

// DefaultSOCKS5 allows no-auth only, and discloses the real bound
// address.
func DefaultSOCKS5() SOCKS5 {
	return SOCKS5{
		EnabledMethods:   []string{"no-auth"},
		HideLocalAddress: false,
	}
}

// HAProxy configures the haproxy decoder's operating mode.
type HAProxy struct {
	Peek bool `json:"peek" yaml:"peek" mapstructure:"peek"`
}

// DefaultHAProxy runs in strict mode (Peek disabled): every connection
// is expected to carry a PROXY header.
func DefaultHAProxy() HAProxy {
	return HAProxy{Peek: false}
}

// Config aggregates every layer's settings into the single tree a
// spf13/viper instance unmarshals into via mapstructure.
type Config struct {
	HTTP1   HTTP1   `json:"http1" yaml:"http1" mapstructure:"http1"`
	HTTP2   HTTP2   `json:"http2" yaml:"http2" mapstructure:"http2"`
	GRPC    GRPC    `json:"grpc" yaml:"grpc" mapstructure:"grpc"`
	SOCKS5  SOCKS5  `json:"socks5" yaml:"socks5" mapstructure:"socks5"`
	HAProxy HAProxy `json:"haproxy" yaml:"haproxy" mapstructure:"haproxy"`
}

// Default returns the full config tree with every layer's defaults.
func Default() Config {
	return Config{
		HTTP1:   DefaultHTTP1(),
		HTTP2:   DefaultHTTP2(),
		GRPC:    DefaultGRPC(),
		SOCKS5:  DefaultSOCKS5(),
		HAProxy: DefaultHAProxy(),
	}
}
