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

package layer

import (
	"context"
	"time"

	netctx "github.com/netlayer/netlayer/context"
	"github.com/netlayer/netlayer/service"
)

// Backoff computes the delay before retry attempt n (1-based: the delay
// before the *first* retry is Backoff(1)).
type Backoff func(attempt int) time.Duration

// NoDelayOneAttempt is the default backoff: zero delay, used for exactly
// one retry attempt (RetryPolicy.MaxAttempts defaults to 1).
func NoDelayOneAttempt(int) time.Duration { return 0 }

// CloneInput attempts to produce an independent, replayable copy of in.
// Returning ok=false fails the retry fast regardless of the retry
// predicate's verdict (the "retry clone guard" invariant).
type CloneInput[In any] func(in In) (clone In, ok bool)

// ShouldRetry decides, given the original input and the result of an
// attempt, whether another attempt should be made.
type ShouldRetry[In any, Out any] func(in In, out Out, err error) bool

// RetryPolicy bundles the three user-pluggable parts of the managed
// retry layer described in the spec: a backoff, a cloning predicate, and
// a retry predicate.
type RetryPolicy[In any, Out any] struct {
	Backoff      Backoff
	Clone        CloneInput[In]
	ShouldRetry  ShouldRetry[In, Out]
	MaxAttempts  int
}

// DefaultRetryPolicy clones nothing (CloneInput always fails, so nothing
// is ever retried) unless the caller supplies Clone — this matches the
// "fails-fast if the request cannot be cloned" rule instead of silently
// retrying non-idempotent input.
func DefaultRetryPolicy[In any, Out any]() RetryPolicy[In, Out] {
	return RetryPolicy[In, Out]{
		Backoff:     NoDelayOneAttempt,
		Clone:       func(in In) (In, bool) { var zero In; _ = zero; return in, false },
		ShouldRetry: func(In, Out, error) bool { return false },
		MaxAttempts: 1,
	}
}

// Retry builds a managed retry Layer. ctxKeyDoNotRetry, when present in
// the request's Extensions (see DoNotRetry), suppresses retrying
// unconditionally, before the policy's ShouldRetry is ever consulted.
func Retry[S any, In any, Out any](policy RetryPolicy[In, Out]) service.Layer[*netctx.Ctx[S], In, Out] {
	if policy.Backoff == nil {
		policy.Backoff = NoDelayOneAttempt
	}
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 1
	}

	return service.LayerFunc[*netctx.Ctx[S], In, Out](func(inner service.Service[*netctx.Ctx[S], In, Out]) service.Service[*netctx.Ctx[S], In, Out] {
		return service.Func[*netctx.Ctx[S], In, Out](func(ctx context.Context, c *netctx.Ctx[S], in In) (Out, error) {
			out, err := inner.Serve(ctx, c, in)

			if _, suppressed := netctx.Get[DoNotRetry](c); suppressed {
				return out, err
			}
			if policy.ShouldRetry == nil || !policy.ShouldRetry(in, out, err) {
				return out, err
			}

			for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
				clone, ok := policy.Clone(in)
				if !ok {
					// retry clone guard: no clone, no retry, regardless of verdict.
					return out, err
				}

				if d := policy.Backoff(attempt); d > 0 {
					timer := time.NewTimer(d)
					select {
					case <-ctx.Done():
						timer.Stop()
						return out, err
					case <-timer.C:
					}
				}

				out, err = inner.Serve(ctx, c, clone)
				if !policy.ShouldRetry(clone, out, err) {
					return out, err
				}
			}

			return out, err
		})
	})
}
