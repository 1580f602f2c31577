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

	"golang.org/x/sync/semaphore"

	liberr "github.com/netlayer/netlayer/errors"
	"github.com/netlayer/netlayer/service"
)

// Concurrency admits requests up to max concurrent in-flight calls. A
// blocked admission respects context cancellation: if ctx is canceled
// while waiting, the call fails with CodeConcurrencyLimitReached instead
// of blocking forever.
func Concurrency[Ctx any, In any, Out any](max int64) service.Layer[Ctx, In, Out] {
	sem := semaphore.NewWeighted(max)

	return service.LayerFunc[Ctx, In, Out](func(inner service.Service[Ctx, In, Out]) service.Service[Ctx, In, Out] {
		return service.Func[Ctx, In, Out](func(ctx context.Context, c Ctx, in In) (Out, error) {
			var zero Out

			if err := sem.Acquire(ctx, 1); err != nil {
				return zero, liberr.CodeConcurrencyLimitReached.Error(err)
			}
			defer sem.Release(1)

			return inner.Serve(ctx, c, in)
		})
	})
}

// DoNotRetry is the Extensions marker type a caller inserts (via
// context.Insert) to suppress retries for a specific request, regardless
// of the retry predicate's verdict — an escape hatch for non-idempotent
// requests. Its own type is the typemap key.
type DoNotRetry struct{}
