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

// Package stream holds the traffic-observation primitives: a byte
// counter wrapper, request/response tee writers, and a bidirectional
// proxy pipe.
package stream

import (
	"io"
	"sync/atomic"
)

// Counters is a cheap, independently-retainable handle onto a
// BytesRWTracker's running totals: callers can keep observing byte
// counts even after the wrapped stream itself has been consumed and
// discarded.
type Counters struct {
	read    *int64
	written *int64
}

// Read returns the total bytes read so far.
func (c Counters) Read() int64 { return atomic.LoadInt64(c.read) }

// Written returns the total bytes written so far.
func (c Counters) Written() int64 { return atomic.LoadInt64(c.written) }

// BytesRWTracker wraps a io.ReadWriter (or io.ReadWriteCloser),
// atomically counting bytes read and written as they pass through.
type BytesRWTracker struct {
	rw      io.ReadWriter
	read    int64
	written int64
}

// NewBytesRWTracker wraps rw.
func NewBytesRWTracker(rw io.ReadWriter) *BytesRWTracker {
	return &BytesRWTracker{rw: rw}
}

func (t *BytesRWTracker) Read(p []byte) (int, error) {
	n, err := t.rw.Read(p)
	if n > 0 {
		atomic.AddInt64(&t.read, int64(n))
	}
	return n, err
}

func (t *BytesRWTracker) Write(p []byte) (int, error) {
	n, err := t.rw.Write(p)
	if n > 0 {
		atomic.AddInt64(&t.written, int64(n))
	}
	return n, err
}

// Close closes the wrapped stream if it implements io.Closer.
func (t *BytesRWTracker) Close() error {
	if c, ok := t.rw.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Counters returns a cheap handle onto this tracker's counters, valid
// for the lifetime of the process regardless of whether the tracker
// itself is later discarded.
func (t *BytesRWTracker) Counters() Counters {
	return Counters{read: &t.read, written: &t.written}
}
