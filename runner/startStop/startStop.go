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

// Package startStop provides an asynchronous Start/Stop/Restart lifecycle
// runner around a pair of user-supplied functions. Start launches the start
// function in its own goroutine and returns immediately; Stop cancels the
// context that function observes, waits for it to return, and then invokes
// the stop function. Errors from either function never propagate through
// Start/Stop's return values - they accumulate and are retrieved with
// ErrorsLast/ErrorsList, since the functions that produce them run
// asynchronously with respect to the caller.
package startStop

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/netlayer/netlayer/runner"
)

// StartStop is an asynchronous start/stop/restart lifecycle for a pair of
// functions, typically wrapping a long-lived listener or background loop.
type StartStop interface {
	// Start launches the start function in a new goroutine and returns
	// immediately. If a previous instance is still running, it is stopped
	// first. Errors are surfaced via ErrorsLast/ErrorsList, not the return
	// value.
	Start(ctx context.Context) error

	// Stop cancels the running instance's context, waits for the start
	// function to return, then invokes the stop function. Safe to call
	// concurrently and when not running; the stop function runs at most
	// once per Start.
	Stop(ctx context.Context) error

	// Restart stops then starts the runner. Safe to call when not running.
	Restart(ctx context.Context) error

	// IsRunning reports whether the start function is currently executing.
	IsRunning() bool

	// Uptime returns how long the current instance has been running, or
	// zero when not running.
	Uptime() time.Duration

	// ErrorsLast returns the most recently recorded error, or nil.
	ErrorsLast() error

	// ErrorsList returns every error recorded since the last Start.
	ErrorsList() []error
}

// instance tracks the state of a single Start/Stop cycle.
type instance struct {
	cancel    context.CancelFunc
	running   atomic.Bool
	startedAt atomic.Int64 // UnixNano, 0 when not running
	doneCh    chan struct{}
	stopOnce  sync.Once
}

type startStop struct {
	start func(ctx context.Context) error
	stop  func(ctx context.Context) error

	mu  sync.Mutex // serializes Start/Stop transitions
	cur atomic.Pointer[instance]

	errMu sync.Mutex
	errs  []error
}

// New builds a StartStop around start and stop. Either may be nil: a nil
// start function fails immediately with "invalid start function" recorded
// as an error; a nil stop function behaves the same way on Stop.
func New(start, stop func(ctx context.Context) error) StartStop {
	return &startStop{start: start, stop: stop}
}

func (r *startStop) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev := r.cur.Load(); prev != nil {
		r.stopInstance(prev, ctx)
	}

	r.errMu.Lock()
	r.errs = nil
	r.errMu.Unlock()

	cctx, cancel := context.WithCancel(ctx)
	inst := &instance{cancel: cancel, doneCh: make(chan struct{})}
	inst.running.Store(true)
	inst.startedAt.Store(time.Now().UnixNano())
	r.cur.Store(inst)

	go func() {
		defer close(inst.doneCh)

		var err error
		defer func() {
			if rec := recover(); rec != nil {
				runner.RecoveryCaller("netlayer/runner/startStop/start", rec)
				err = fmt.Errorf("panic in start function: %v", rec)
			}
			inst.running.Store(false)
			inst.startedAt.Store(0)
			r.recordError(err)
		}()

		if r.start == nil {
			err = errors.New("invalid start function")
			return
		}
		err = r.start(cctx)
	}()

	return nil
}

func (r *startStop) Stop(ctx context.Context) error {
	prev := r.cur.Load()
	if prev == nil {
		return nil
	}
	r.stopInstance(prev, ctx)
	return nil
}

// stopInstance cancels inst's context, invokes the stop function exactly
// once, and waits for the start function to return. The stop function
// runs before the start function necessarily has returned, so it can
// do the thing that unblocks the start function (closing a listener,
// shutting down an *http.Server) rather than deadlock waiting on it.
func (r *startStop) stopInstance(inst *instance, ctx context.Context) {
	inst.stopOnce.Do(func() {
		inst.cancel()

		var err error
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					runner.RecoveryCaller("netlayer/runner/startStop/stop", rec)
					err = fmt.Errorf("panic in stop function: %v", rec)
				}
			}()

			if r.stop == nil {
				err = errors.New("invalid stop function")
				return
			}
			err = r.stop(ctx)
		}()

		<-inst.doneCh

		r.recordError(err)
	})
}

func (r *startStop) Restart(ctx context.Context) error {
	_ = r.Stop(ctx)
	return r.Start(ctx)
}

func (r *startStop) IsRunning() bool {
	inst := r.cur.Load()
	if inst == nil {
		return false
	}
	return inst.running.Load()
}

func (r *startStop) Uptime() time.Duration {
	inst := r.cur.Load()
	if inst == nil {
		return 0
	}
	start := inst.startedAt.Load()
	if start == 0 {
		return 0
	}
	return time.Duration(time.Now().UnixNano() - start)
}

func (r *startStop) ErrorsLast() error {
	r.errMu.Lock()
	defer r.errMu.Unlock()

	if len(r.errs) == 0 {
		return nil
	}
	return r.errs[len(r.errs)-1]
}

func (r *startStop) ErrorsList() []error {
	r.errMu.Lock()
	defer r.errMu.Unlock()

	out := make([]error, len(r.errs))
	copy(out, r.errs)
	return out
}

func (r *startStop) recordError(err error) {
	if err == nil {
		return
	}
	r.errMu.Lock()
	r.errs = append(r.errs, err)
	r.errMu.Unlock()
}
