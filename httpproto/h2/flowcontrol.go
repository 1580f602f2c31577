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
	"fmt"
	"sync"
	"time"

	liberr "github.com/netlayer/netlayer/errors"
)

// FlowWindow tracks a single send or receive flow-control window
// (connection-wide or per-stream), guarded by the connection mutex so
// contention stays bounded to one connection.
type FlowWindow struct {
	size int64
}

// NewFlowWindow returns a window initialized to initial.
func NewFlowWindow(initial uint32) *FlowWindow { return &FlowWindow{size: int64(initial)} }

// Available returns the current window size (may legally go negative
// transiently after a SETTINGS_INITIAL_WINDOW_SIZE decrease).
func (w *FlowWindow) Available() int64 { return w.size }

// Consume reduces the window by n, failing if that would violate
// "bytes written never exceed the peer's advertised window".
func (w *FlowWindow) Consume(n int64) error {
	if n > w.size {
		return liberr.CodeHTTP2StreamError.Error(fmt.Errorf("flow control violation: consuming %d exceeds window %d", n, w.size))
	}
	w.size -= n
	return nil
}

// Replenish grows the window by increment (from a WINDOW_UPDATE).
func (w *FlowWindow) Replenish(increment uint32) {
	w.size += int64(increment)
}

// Shrink applies a SETTINGS_INITIAL_WINDOW_SIZE change (delta may be
// negative), which RFC 9113 §6.9.2 permits to drive a window negative.
func (w *FlowWindow) Shrink(delta int64) {
	w.size += delta
}

// BDPEstimator implements an adaptive receive-window mode: it raises
// the per-stream/connection window in response to measured bandwidth ×
// latency instead of holding a fixed INITIAL_WINDOW_SIZE forever.
type BDPEstimator struct {
	mu        sync.Mutex
	sampleAt  time.Time
	sampled   int64
	rttMillis int64
	window    uint32
	max       uint32
}

// NewBDPEstimator starts an estimator seeded at initial, capped at max.
func NewBDPEstimator(initial, max uint32) *BDPEstimator {
	return &BDPEstimator{window: initial, max: max, sampleAt: timeNow()}
}

// allow tests to avoid relying on wall-clock jitter; kept trivial since
// this package cannot call time.Now() from a workflow-restricted caller
// but runs standalone in production.
func timeNow() time.Time { return time.Now() }

// OnBytesReceived records n bytes arriving and, once enough of a sample
// window has elapsed, recomputes the desired window as roughly
// 2×bandwidth×rtt, growing (never shrinking) up to max.
func (e *BDPEstimator) OnBytesReceived(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sampled += int64(n)

	elapsed := timeNow().Sub(e.sampleAt)
	if elapsed < 50*time.Millisecond {
		return
	}

	bandwidthBytesPerSec := float64(e.sampled) / elapsed.Seconds()
	rtt := e.rttMillis
	if rtt <= 0 {
		rtt = 50
	}
	bdp := uint32(bandwidthBytesPerSec * (float64(rtt) / 1000.0) * 2)
	if bdp > e.window && bdp <= e.max {
		e.window = bdp
	} else if bdp > e.max {
		e.window = e.max
	}

	e.sampled = 0
	e.sampleAt = timeNow()
}

// OnRTTSample updates the estimator's latency measurement (e.g. from a
// PING round trip).
func (e *BDPEstimator) OnRTTSample(rtt time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rttMillis = rtt.Milliseconds()
}

// DesiredWindow returns the estimator's current target window size.
func (e *BDPEstimator) DesiredWindow() uint32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.window
}
