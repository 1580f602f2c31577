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

// Package layer holds the cross-cutting Service layers: timeout, limit,
// retry, tracing, header-config extraction, and forwarded-header
// extraction, all composable via service.Chain.
package layer

import (
	"context"
	"time"

	liberr "github.com/netlayer/netlayer/errors"
	"github.com/netlayer/netlayer/service"
)

// Timeout wraps the inner service with a per-call deadline. If the
// deadline elapses before the inner call returns, the wrapped service
// returns a liberr.Error carrying CodeTimedOut, discoverable by walking
// the error's source chain via liberr.IsTimeout.
func Timeout[Ctx any, In any, Out any](d time.Duration) service.Layer[Ctx, In, Out] {
	return service.LayerFunc[Ctx, In, Out](func(inner service.Service[Ctx, In, Out]) service.Service[Ctx, In, Out] {
		return service.Func[Ctx, In, Out](func(ctx context.Context, c Ctx, in In) (Out, error) {
			var zero Out

			cctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()

			type result struct {
				out Out
				err error
			}
			ch := make(chan result, 1)

			go func() {
				out, err := inner.Serve(cctx, c, in)
				ch <- result{out, err}
			}()

			select {
			case r := <-ch:
				return r.out, r.err
			case <-cctx.Done():
				return zero, liberr.CodeTimedOut.Error(cctx.Err())
			}
		})
	})
}
