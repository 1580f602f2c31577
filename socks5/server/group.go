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
	"sync"

	"github.com/hashicorp/go-multierror"
)

// Group drains a set of Listeners together, e.g. a dual-stack SOCKS5
// server bound to both an IPv4 and an IPv6 address, or a plain TCP
// listener alongside a Unix socket one.
type Group struct {
	ls []*Listener
}

// NewGroup wraps listeners for coordinated Start/Stop.
func NewGroup(listeners ...*Listener) *Group {
	return &Group{ls: listeners}
}

// StartAll starts every listener, collecting every failure rather than
// stopping at the first one.
func (g *Group) StartAll(ctx context.Context) error {
	var result *multierror.Error
	for _, l := range g.ls {
		if err := l.Start(ctx); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// StopAll stops every listener concurrently and returns a single error
// aggregating every listener's Stop error and last recorded runtime
// error, so one stuck listener can't hide another's failure.
func (g *Group) StopAll(ctx context.Context) error {
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		result *multierror.Error
	)

	for _, l := range g.ls {
		wg.Add(1)
		go func(l *Listener) {
			defer wg.Done()

			if err := l.Stop(ctx); err != nil {
				mu.Lock()
				result = multierror.Append(result, err)
				mu.Unlock()
			}
			if err := l.ErrorsLast(); err != nil {
				mu.Lock()
				result = multierror.Append(result, err)
				mu.Unlock()
			}
		}(l)
	}

	wg.Wait()
	return result.ErrorOrNil()
}

// IsRunning reports whether any listener in the group is still running.
func (g *Group) IsRunning() bool {
	for _, l := range g.ls {
		if l.IsRunning() {
			return true
		}
	}
	return false
}
