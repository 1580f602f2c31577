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

// Package client drives the SOCKS5 handshake from the initiating side:
// Greet → SelectMethod → [UserPass →] Request → Reply, the mirror image
// of server's per-connection state machine.
package client

import (
	"errors"
	"net"

	liberr "github.com/netlayer/netlayer/errors"
	"github.com/netlayer/netlayer/socks5/proto"
)

// Credentials is an optional RFC 1929 username/password pair offered
// during sub-negotiation.
type Credentials struct {
	Username string
	Password string
}

// Options configures one outbound SOCKS5 handshake.
type Options struct {
	Methods     []proto.Method
	Credentials *Credentials
}

// DefaultOptions offers no-auth only.
func DefaultOptions() Options {
	return Options{Methods: []proto.Method{proto.MethodNoAuth}}
}

// Handshake drives the full client-side exchange over conn and returns
// the server's reply to a CONNECT/BIND/UDP-ASSOCIATE request. conn is
// left positioned immediately after the reply, ready for the proxied
// byte stream (or, for BIND, a second reply per RFC 1928 §6).
func Handshake(conn net.Conn, opt Options, cmd proto.Command, dest proto.Authority) (*proto.Reply, error) {
	if len(opt.Methods) == 0 {
		opt.Methods = []proto.Method{proto.MethodNoAuth}
	}

	if err := proto.WriteGreeting(conn, &proto.Greeting{Methods: opt.Methods}); err != nil {
		return nil, liberr.CodeTransportIO.Error(err)
	}

	method, err := proto.ReadMethodSelection(conn)
	if err != nil {
		return nil, err
	}
	if method == proto.MethodNoAcceptable {
		return nil, liberr.CodeSocksBadVersion.Error(errors.New("server accepted no offered authentication method"))
	}

	if method == proto.MethodUserPass {
		if opt.Credentials == nil {
			return nil, liberr.CodeSocksBadVersion.Error(errors.New("server requires username/password but none were configured"))
		}
		if err := proto.WriteUserPassRequest(conn, &proto.UserPassRequest{
			Username: opt.Credentials.Username,
			Password: opt.Credentials.Password,
		}); err != nil {
			return nil, liberr.CodeTransportIO.Error(err)
		}
		ok, err := proto.ReadUserPassReply(conn)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, liberr.CodeSocksBadVersion.Error(errors.New("sub-negotiation credentials rejected by server"))
		}
	}

	if err := proto.WriteRequest(conn, &proto.Request{Command: cmd, Dest: dest}); err != nil {
		return nil, liberr.CodeTransportIO.Error(err)
	}

	reply, err := proto.ReadReply(conn)
	if err != nil {
		return nil, err
	}
	if reply.Code != proto.ReplySucceeded {
		return reply, liberr.CodeUnexpectedMessage.Error(errors.New("socks5 request refused: " + replyCodeText(reply.Code)))
	}
	return reply, nil
}

// Connect is a convenience wrapper around Handshake for the common
// CONNECT case: dial proxyAddr, perform the handshake for dest, and
// return the ready-to-use connection.
func Connect(proxyAddr string, opt Options, dest proto.Authority) (net.Conn, error) {
	conn, err := net.Dial("tcp", proxyAddr)
	if err != nil {
		return nil, liberr.CodeTransportIO.Error(err)
	}
	if _, err := Handshake(conn, opt, proto.CmdConnect, dest); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func replyCodeText(c proto.ReplyCode) string {
	switch c {
	case proto.ReplyGeneralFailure:
		return "general SOCKS server failure"
	case proto.ReplyConnectionNotAllowed:
		return "connection not allowed by ruleset"
	case proto.ReplyNetworkUnreachable:
		return "network unreachable"
	case proto.ReplyHostUnreachable:
		return "host unreachable"
	case proto.ReplyConnectionRefused:
		return "connection refused"
	case proto.ReplyTTLExpired:
		return "TTL expired"
	case proto.ReplyCommandNotSupported:
		return "command not supported"
	case proto.ReplyAddressTypeNotSupported:
		return "address type not supported"
	default:
		return "unknown reply code"
	}
}
