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

// Package pidcontroller implements a minimal discrete PID controller used
// to pace a value from a start point to a target point over a bounded
// number of steps (duration ranges, adaptive backoff schedules).
package pidcontroller

import "context"

// PID holds the proportional, integral, and derivative gains of a
// classic discrete PID loop.
type PID struct {
	kp, ki, kd float64
}

// New returns a PID controller with the given gains.
func New(kp, ki, kd float64) *PID {
	return &PID{kp: kp, ki: ki, kd: kd}
}

// Step returns the corrected output for one control-loop iteration given
// the current error (setpoint - measured) and the previous integral and
// error terms, returning the updated integral for the next call.
func (p *PID) step(errVal, integral, prevErr float64) (output, nextIntegral float64) {
	integral += errVal
	derivative := errVal - prevErr
	output = p.kp*errVal + p.ki*integral + p.kd*derivative
	return output, integral
}

// RangeCtx produces a monotonic sequence of values walking from `from`
// toward `to`, with step sizes shrinking as the PID loop's computed
// error approaches zero. It stops early if ctx is canceled. The
// generated sequence always has at least two elements when it completes
// without cancellation: from and to.
func (p *PID) RangeCtx(ctx context.Context, from, to float64) []float64 {
	out := make([]float64, 0, 8)

	if from == to {
		return []float64{from}
	}

	ascending := to > from
	cur := from
	integral := 0.0
	prevErr := to - from

	for i := 0; i < 64; i++ {
		select {
		case <-ctx.Done():
			return out
		default:
		}

		out = append(out, cur)

		errVal := to - cur
		if (ascending && cur >= to) || (!ascending && cur <= to) {
			break
		}

		step, nextIntegral := p.step(errVal, integral, prevErr)
		integral = nextIntegral
		prevErr = errVal

		if step == 0 {
			break
		}
		next := cur + step
		if (ascending && next > to) || (!ascending && next < to) {
			next = to
		}
		if next == cur {
			break
		}
		cur = next
	}

	if len(out) == 0 || out[len(out)-1] != to {
		out = append(out, to)
	}

	return out
}
