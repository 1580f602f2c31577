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

// Package proto implements the binary SOCKS5 frames defined by RFC 1928
// (method negotiation, request, reply) and RFC 1929 (username/password
// sub-negotiation), independent of server or client role.
package proto

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"strconv"

	liberr "github.com/netlayer/netlayer/errors"
	"github.com/netlayer/netlayer/httpcli"
)

const Version byte = 0x05

// Method is a SOCKS5 authentication method identifier.
type Method byte

const (
	MethodNoAuth       Method = 0x00
	MethodUserPass     Method = 0x02
	MethodNoAcceptable Method = 0xFF
)

// Command is a SOCKS5 request command.
type Command byte

const (
	CmdConnect      Command = 0x01
	CmdBind         Command = 0x02
	CmdUDPAssociate Command = 0x03
)

// AddrType identifies the address form of a request/reply.
type AddrType byte

const (
	ATYPIPv4   AddrType = 0x01
	ATYPDomain AddrType = 0x03
	ATYPIPv6   AddrType = 0x04
)

// ReplyCode is a SOCKS5 reply status byte.
type ReplyCode byte

const (
	ReplySucceeded               ReplyCode = 0x00
	ReplyGeneralFailure          ReplyCode = 0x01
	ReplyConnectionNotAllowed    ReplyCode = 0x02
	ReplyNetworkUnreachable      ReplyCode = 0x03
	ReplyHostUnreachable         ReplyCode = 0x04
	ReplyConnectionRefused       ReplyCode = 0x05
	ReplyTTLExpired              ReplyCode = 0x06
	ReplyCommandNotSupported     ReplyCode = 0x07
	ReplyAddressTypeNotSupported ReplyCode = 0x08
)

// Authority is a SOCKS5 network destination: a resolved or unresolved
// host plus a port, using the same network-type naming convention as
// httpcli.Network.
type Authority struct {
	Type AddrType
	Host string // dotted IP (IPv4/IPv6) or domain name
	Port uint16
}

func (a Authority) String() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(int(a.Port)))
}

// Greeting is the client's initial method-negotiation message.
type Greeting struct {
	Methods []Method
}

// ReadGreeting parses (0x05, nmethods, methods...).
func ReadGreeting(r io.Reader) (*Greeting, error) {
	var hdr [2]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, liberr.CodeIncompleteMessage.Error(err)
	}
	if hdr[0] != Version {
		return nil, liberr.CodeSocksBadVersion.Error(fmt.Errorf("unsupported SOCKS version %d", hdr[0]))
	}
	methods := make([]byte, hdr[1])
	if _, err := io.ReadFull(r, methods); err != nil {
		return nil, liberr.CodeIncompleteMessage.Error(err)
	}
	g := &Greeting{}
	for _, m := range methods {
		g.Methods = append(g.Methods, Method(m))
	}
	return g, nil
}

// WriteGreeting serializes a Greeting (used by the client-side codec).
func WriteGreeting(w io.Writer, g *Greeting) error {
	buf := make([]byte, 2+len(g.Methods))
	buf[0] = Version
	buf[1] = byte(len(g.Methods))
	for i, m := range g.Methods {
		buf[2+i] = byte(m)
	}
	_, err := w.Write(buf)
	return err
}

// WriteMethodSelection writes the server's (0x05, method) reply.
func WriteMethodSelection(w io.Writer, m Method) error {
	_, err := w.Write([]byte{Version, byte(m)})
	return err
}

// ReadMethodSelection parses the server's method-selection reply
// (client-side codec).
func ReadMethodSelection(r io.Reader) (Method, error) {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, liberr.CodeIncompleteMessage.Error(err)
	}
	if b[0] != Version {
		return 0, liberr.CodeSocksBadVersion.Error(fmt.Errorf("unsupported SOCKS version %d", b[0]))
	}
	return Method(b[1]), nil
}

// UserPassRequest is the RFC 1929 sub-negotiation request.
type UserPassRequest struct {
	Username string
	Password string
}

// ReadUserPassRequest parses (0x01, ulen, user, plen, pass).
func ReadUserPassRequest(r io.Reader) (*UserPassRequest, error) {
	br := bufio.NewReader(r)
	ver, err := br.ReadByte()
	if err != nil {
		return nil, liberr.CodeIncompleteMessage.Error(err)
	}
	if ver != 0x01 {
		return nil, liberr.CodeSocksBadVersion.Error(fmt.Errorf("unsupported sub-negotiation version %d", ver))
	}
	ulen, err := br.ReadByte()
	if err != nil {
		return nil, liberr.CodeIncompleteMessage.Error(err)
	}
	user := make([]byte, ulen)
	if _, err := io.ReadFull(br, user); err != nil {
		return nil, liberr.CodeIncompleteMessage.Error(err)
	}
	plen, err := br.ReadByte()
	if err != nil {
		return nil, liberr.CodeIncompleteMessage.Error(err)
	}
	pass := make([]byte, plen)
	if _, err := io.ReadFull(br, pass); err != nil {
		return nil, liberr.CodeIncompleteMessage.Error(err)
	}
	return &UserPassRequest{Username: string(user), Password: string(pass)}, nil
}

// WriteUserPassRequest serializes the client-side sub-negotiation
// request.
func WriteUserPassRequest(w io.Writer, req *UserPassRequest) error {
	buf := make([]byte, 0, 3+len(req.Username)+len(req.Password))
	buf = append(buf, 0x01, byte(len(req.Username)))
	buf = append(buf, req.Username...)
	buf = append(buf, byte(len(req.Password)))
	buf = append(buf, req.Password...)
	_, err := w.Write(buf)
	return err
}

// WriteUserPassReply writes the sub-negotiation reply: 0x00 success,
// nonzero failure.
func WriteUserPassReply(w io.Writer, ok bool) error {
	status := byte(0x01)
	if ok {
		status = 0x00
	}
	_, err := w.Write([]byte{0x01, status})
	return err
}

// ReadUserPassReply parses the server's sub-negotiation reply
// (client-side codec).
func ReadUserPassReply(r io.Reader) (bool, error) {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return false, liberr.CodeIncompleteMessage.Error(err)
	}
	return b[1] == 0x00, nil
}

// Request is a parsed SOCKS5 request: (VER, CMD, RSV, ATYP, DST.ADDR, DST.PORT).
type Request struct {
	Command Command
	Dest    Authority
}

// ReadRequest parses a client request frame.
func ReadRequest(r io.Reader) (*Request, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, liberr.CodeIncompleteMessage.Error(err)
	}
	if hdr[0] != Version {
		return nil, liberr.CodeSocksBadVersion.Error(fmt.Errorf("unsupported SOCKS version %d", hdr[0]))
	}
	dest, err := readAddress(r, AddrType(hdr[3]))
	if err != nil {
		return nil, err
	}
	return &Request{Command: Command(hdr[1]), Dest: dest}, nil
}

// WriteRequest serializes a client request frame (client-side codec).
func WriteRequest(w io.Writer, req *Request) error {
	buf, err := encodeAddress(req.Dest)
	if err != nil {
		return err
	}
	hdr := []byte{Version, byte(req.Command), 0x00}
	_, err = w.Write(append(hdr, buf...))
	return err
}

// Reply is a parsed/constructed SOCKS5 reply frame.
type Reply struct {
	Code  ReplyCode
	Bound Authority
}

// WriteReply serializes (VER, REP, RSV, ATYP, BND.ADDR, BND.PORT).
func WriteReply(w io.Writer, rep *Reply) error {
	buf, err := encodeAddress(rep.Bound)
	if err != nil {
		return err
	}
	hdr := []byte{Version, byte(rep.Code), 0x00}
	_, err = w.Write(append(hdr, buf...))
	return err
}

// ReadReply parses the server's reply frame (client-side codec).
func ReadReply(r io.Reader) (*Reply, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, liberr.CodeIncompleteMessage.Error(err)
	}
	if hdr[0] != Version {
		return nil, liberr.CodeSocksBadVersion.Error(fmt.Errorf("unsupported SOCKS version %d", hdr[0]))
	}
	bound, err := readAddress(r, AddrType(hdr[3]))
	if err != nil {
		return nil, err
	}
	return &Reply{Code: ReplyCode(hdr[1]), Bound: bound}, nil
}

func readAddress(r io.Reader, atyp AddrType) (Authority, error) {
	var host string
	switch atyp {
	case ATYPIPv4:
		var b [4]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return Authority{}, liberr.CodeIncompleteMessage.Error(err)
		}
		host = net.IP(b[:]).String()
	case ATYPIPv6:
		var b [16]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return Authority{}, liberr.CodeIncompleteMessage.Error(err)
		}
		host = net.IP(b[:]).String()
	case ATYPDomain:
		var l [1]byte
		if _, err := io.ReadFull(r, l[:]); err != nil {
			return Authority{}, liberr.CodeIncompleteMessage.Error(err)
		}
		b := make([]byte, l[0])
		if _, err := io.ReadFull(r, b); err != nil {
			return Authority{}, liberr.CodeIncompleteMessage.Error(err)
		}
		host = string(b)
	default:
		return Authority{}, liberr.CodeParseSocksOpcode.Error(fmt.Errorf("unsupported address type %d", atyp))
	}

	var p [2]byte
	if _, err := io.ReadFull(r, p[:]); err != nil {
		return Authority{}, liberr.CodeIncompleteMessage.Error(err)
	}
	return Authority{Type: atyp, Host: host, Port: binary.BigEndian.Uint16(p[:])}, nil
}

func encodeAddress(a Authority) ([]byte, error) {
	var out []byte
	switch a.Type {
	case ATYPIPv4:
		ip := net.ParseIP(a.Host).To4()
		if ip == nil {
			return nil, liberr.CodeParseSocksOpcode.Error(fmt.Errorf("invalid IPv4 address %q", a.Host))
		}
		out = append(out, byte(ATYPIPv4))
		out = append(out, ip...)
	case ATYPIPv6:
		ip := net.ParseIP(a.Host).To16()
		if ip == nil {
			return nil, liberr.CodeParseSocksOpcode.Error(fmt.Errorf("invalid IPv6 address %q", a.Host))
		}
		out = append(out, byte(ATYPIPv6))
		out = append(out, ip...)
	case ATYPDomain:
		if len(a.Host) > 255 {
			return nil, liberr.CodeParseSocksOpcode.Error(fmt.Errorf("domain name too long: %d bytes", len(a.Host)))
		}
		out = append(out, byte(ATYPDomain), byte(len(a.Host)))
		out = append(out, a.Host...)
	default:
		return nil, liberr.CodeParseSocksOpcode.Error(fmt.Errorf("unsupported address type %d", a.Type))
	}
	port := [2]byte{}
	binary.BigEndian.PutUint16(port[:], a.Port)
	return append(out, port[:]...), nil
}

// unusedNetworkRef documents that Authority's naming follows
// httpcli.Network's Code()/String() convention without importing it at
// runtime, since SOCKS5 addresses are always TCP for CONNECT/BIND in
// this implementation.
var _ = httpcli.Network(0)
