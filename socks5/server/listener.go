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

package server

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/netlayer/netlayer/runner"
	librun "github.com/netlayer/netlayer/runner/startStop"
)

// Listener owns a net.Listener and drives a Server over every accepted
// connection, one goroutine each. Start/Stop/Restart/IsRunning are
// backed by a runner/startStop.StartStop, the same lifecycle primitive
// ioutils/aggregator uses for its background flush loop.
type Listener struct {
	srv    *Server
	listen func() (net.Listener, error)

	mu sync.Mutex
	ln net.Listener
	r  librun.StartStop
}

// NewListener builds a Listener that accepts connections from whatever
// listen returns and drives each one through srv.Serve.
func NewListener(srv *Server, listen func() (net.Listener, error)) *Listener {
	l := &Listener{srv: srv, listen: listen}
	l.r = librun.New(l.runStart, l.runStop)
	return l
}

func (l *Listener) Start(ctx context.Context) error  { return l.r.Start(ctx) }
func (l *Listener) Stop(ctx context.Context) error   { return l.r.Stop(ctx) }
func (l *Listener) Restart(ctx context.Context) error { return l.r.Restart(ctx) }
func (l *Listener) IsRunning() bool                  { return l.r.IsRunning() }
func (l *Listener) Uptime() time.Duration            { return l.r.Uptime() }
func (l *Listener) ErrorsLast() error                { return l.r.ErrorsLast() }

// Addr returns the bound address, or nil if the listener isn't running.
func (l *Listener) Addr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ln == nil {
		return nil
	}
	return l.ln.Addr()
}

func (l *Listener) setListener(ln net.Listener) {
	l.mu.Lock()
	l.ln = ln
	l.mu.Unlock()
}

func (l *Listener) getListener() net.Listener {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ln
}

func (l *Listener) runStart(ctx context.Context) error {
	ln, err := l.listen()
	if err != nil {
		return err
	}
	l.setListener(ln)
	defer l.setListener(nil)

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}

		go l.handle(conn)
	}
}

func (l *Listener) runStop(ctx context.Context) error {
	ln := l.getListener()
	if ln == nil {
		return nil
	}
	return ln.Close()
}

func (l *Listener) handle(conn net.Conn) {
	defer func() {
		if rec := recover(); rec != nil {
			runner.RecoveryCaller("netlayer/socks5/server/listener", rec)
		}
		_ = conn.Close()
	}()

	if err := l.srv.Serve(conn, conn.LocalAddr()); err != nil && !errors.Is(err, net.ErrClosed) {
		logrus.WithFields(logrus.Fields{
			"remote": conn.RemoteAddr().String(),
		}).WithError(err).Debug("socks5 connection closed")
	}
}
