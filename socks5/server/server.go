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

// Package server implements the SOCKS5 server-side per-connection state
// machine: AwaitHeader → SelectMethod → [AwaitUserPass →] AwaitRequest →
// Execute{Connect|Bind|UdpAssoc}.
package server

import (
	"errors"
	"io"
	"net"
	"os"

	liberr "github.com/netlayer/netlayer/errors"
	"github.com/netlayer/netlayer/socks5/proto"
	"github.com/netlayer/netlayer/stream"
)

// CredentialValidator checks a username/password sub-negotiation.
type CredentialValidator func(user, pass string) bool

// Connector opens an outbound TCP connection for CONNECT.
type Connector func(dest proto.Authority) (net.Conn, error)

// Binder opens a listener for BIND on a pluggable interface.
type Binder func() (net.Listener, error)

// Options configures one server instance.
type Options struct {
	Methods           []proto.Method
	Validate          CredentialValidator
	Connect           Connector
	Bind              Binder
	HideLocalAddress  bool
}

// DefaultDialConnector dials dest over TCP using the standard library,
// the default Connector for CONNECT.
func DefaultDialConnector(dest proto.Authority) (net.Conn, error) {
	return net.Dial("tcp", dest.String())
}

// Server drives one SOCKS5 connection to completion.
type Server struct {
	opt Options
}

// New builds a Server from opt, defaulting Connect to a plain TCP
// dialer and Methods to no-auth only if left empty.
func New(opt Options) *Server {
	if opt.Connect == nil {
		opt.Connect = DefaultDialConnector
	}
	if len(opt.Methods) == 0 {
		opt.Methods = []proto.Method{proto.MethodNoAuth}
	}
	return &Server{opt: opt}
}

// Serve runs the full state machine over conn until the exchange
// completes or fails. local is the connection's own address, used for
// CONNECT/BIND reply bound-address selection.
func (s *Server) Serve(conn net.Conn, local net.Addr) error {
	greeting, err := proto.ReadGreeting(conn)
	if err != nil {
		return err
	}

	method := s.selectMethod(greeting.Methods)
	if err := proto.WriteMethodSelection(conn, method); err != nil {
		return liberr.CodeTransportIO.Error(err)
	}
	if method == proto.MethodNoAcceptable {
		return liberr.CodeSocksBadVersion.Error(errors.New("no acceptable authentication method"))
	}

	if method == proto.MethodUserPass {
		req, err := proto.ReadUserPassRequest(conn)
		if err != nil {
			return err
		}
		ok := s.opt.Validate != nil && s.opt.Validate(req.Username, req.Password)
		if werr := proto.WriteUserPassReply(conn, ok); werr != nil {
			return liberr.CodeTransportIO.Error(werr)
		}
		if !ok {
			return liberr.CodeSocksBadVersion.Error(errors.New("sub-negotiation credentials rejected"))
		}
	}

	req, err := proto.ReadRequest(conn)
	if err != nil {
		return err
	}

	switch req.Command {
	case proto.CmdConnect:
		return s.execConnect(conn, local, req.Dest)
	case proto.CmdBind:
		return s.execBind(conn, local, req.Dest)
	case proto.CmdUDPAssociate:
		return s.execUDPAssociate(conn, local, req.Dest)
	default:
		_ = proto.WriteReply(conn, &proto.Reply{Code: proto.ReplyCommandNotSupported, Bound: zeroAuthority()})
		return liberr.CodeParseSocksOpcode.Error(errors.New("unsupported command"))
	}
}

func (s *Server) selectMethod(offered []proto.Method) proto.Method {
	for _, want := range s.opt.Methods {
		for _, have := range offered {
			if want == have {
				return want
			}
		}
	}
	return proto.MethodNoAcceptable
}

// execConnect maps CONNECT dial failures to the matching reply code and
// enforces the "reply before any forwarded application byte" ordering.
func (s *Server) execConnect(conn net.Conn, local net.Addr, dest proto.Authority) error {
	upstream, err := s.opt.Connect(dest)
	if err != nil {
		code := classifyConnectError(err)
		_ = proto.WriteReply(conn, &proto.Reply{Code: code, Bound: zeroAuthority()})
		return liberr.CodeTransportIO.Error(err)
	}
	defer upstream.Close()

	bound := s.boundAuthority(local)
	if err := proto.WriteReply(conn, &proto.Reply{Code: proto.ReplySucceeded, Bound: bound}); err != nil {
		return liberr.CodeTransportIO.Error(err)
	}

	return stream.ProxyPipe(conn, upstream)
}

func (s *Server) execBind(conn net.Conn, local net.Addr, dest proto.Authority) error {
	if s.opt.Bind == nil {
		_ = proto.WriteReply(conn, &proto.Reply{Code: proto.ReplyCommandNotSupported, Bound: zeroAuthority()})
		return liberr.CodeParseSocksOpcode.Error(errors.New("BIND not supported by this server"))
	}

	ln, err := s.opt.Bind()
	if err != nil {
		_ = proto.WriteReply(conn, &proto.Reply{Code: proto.ReplyGeneralFailure, Bound: zeroAuthority()})
		return liberr.CodeTransportIO.Error(err)
	}
	defer ln.Close()

	if err := proto.WriteReply(conn, &proto.Reply{Code: proto.ReplySucceeded, Bound: authorityOf(ln.Addr())}); err != nil {
		return liberr.CodeTransportIO.Error(err)
	}

	peer, err := ln.Accept()
	if err != nil {
		_ = proto.WriteReply(conn, &proto.Reply{Code: proto.ReplyGeneralFailure, Bound: zeroAuthority()})
		return liberr.CodeTransportIO.Error(err)
	}
	defer peer.Close()

	if err := proto.WriteReply(conn, &proto.Reply{Code: proto.ReplySucceeded, Bound: authorityOf(peer.RemoteAddr())}); err != nil {
		return liberr.CodeTransportIO.Error(err)
	}

	return stream.ProxyPipe(conn, peer)
}

// execUDPAssociate is skeletal: it replies with the server's local UDP
// relay address and then simply pipes the TCP control connection until
// it closes, without actually relaying any datagram traffic.
func (s *Server) execUDPAssociate(conn net.Conn, local net.Addr, _ proto.Authority) error {
	bound := s.boundAuthority(local)
	if err := proto.WriteReply(conn, &proto.Reply{Code: proto.ReplySucceeded, Bound: bound}); err != nil {
		return liberr.CodeTransportIO.Error(err)
	}
	_, err := io.Copy(io.Discard, conn)
	return err
}

func (s *Server) boundAuthority(local net.Addr) proto.Authority {
	if s.opt.HideLocalAddress {
		return proto.Authority{Type: proto.ATYPIPv4, Host: "0.0.0.0", Port: 0}
	}
	return authorityOf(local)
}

func authorityOf(addr net.Addr) proto.Authority {
	tcp, ok := addr.(*net.TCPAddr)
	if !ok {
		return zeroAuthority()
	}
	if ip4 := tcp.IP.To4(); ip4 != nil {
		return proto.Authority{Type: proto.ATYPIPv4, Host: ip4.String(), Port: uint16(tcp.Port)}
	}
	return proto.Authority{Type: proto.ATYPIPv6, Host: tcp.IP.String(), Port: uint16(tcp.Port)}
}

func zeroAuthority() proto.Authority {
	return proto.Authority{Type: proto.ATYPIPv4, Host: "0.0.0.0", Port: 0}
}

// classifyConnectError maps a dial failure to a SOCKS5 reply code:
// PermissionDenied → ConnectionNotAllowed, HostUnreachable →
// HostUnreachable, NetworkUnreachable → NetworkUnreachable,
// TimedOut/UnexpectedEof → TtlExpired, else ConnectionRefused.
func classifyConnectError(err error) proto.ReplyCode {
	if os.IsPermission(err) {
		return proto.ReplyConnectionNotAllowed
	}
	var addrErr *net.AddrError
	if errors.As(err, &addrErr) {
		return proto.ReplyHostUnreachable
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return proto.ReplyHostUnreachable
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return proto.ReplyTTLExpired
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return proto.ReplyTTLExpired
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Op == "dial" {
			return proto.ReplyNetworkUnreachable
		}
	}
	return proto.ReplyConnectionRefused
}
