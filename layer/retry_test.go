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

package layer_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	netctx "github.com/netlayer/netlayer/context"
	"github.com/netlayer/netlayer/layer"
	"github.com/netlayer/netlayer/service"
)

var _ = Describe("Retry", func() {
	It("retries until ShouldRetry says stop, honoring MaxAttempts", func() {
		var calls int
		inner := service.Func[*netctx.Ctx[struct{}], string, string](
			func(ctx context.Context, c *netctx.Ctx[struct{}], in string) (string, error) {
				calls++
				if calls < 3 {
					return "", errors.New("transient")
				}
				return "ok", nil
			})

		policy := layer.RetryPolicy[string, string]{
			Backoff:     layer.NoDelayOneAttempt,
			Clone:       func(in string) (string, bool) { return in, true },
			ShouldRetry: func(in, out string, err error) bool { return err != nil },
			MaxAttempts: 5,
		}
		svc := layer.Retry[struct{}, string, string](policy).Layer(inner)

		c := netctx.New(struct{}{}, nil)
		out, err := svc.Serve(context.Background(), c, "req")
		Expect(err).ToNot(HaveOccurred())
		Expect(out).To(Equal("ok"))
		Expect(calls).To(Equal(3))
	})

	It("fails fast when Clone cannot produce a replayable copy", func() {
		var calls int
		inner := service.Func[*netctx.Ctx[struct{}], string, string](
			func(ctx context.Context, c *netctx.Ctx[struct{}], in string) (string, error) {
				calls++
				return "", errors.New("boom")
			})

		policy := layer.RetryPolicy[string, string]{
			Clone:       func(in string) (string, bool) { return "", false },
			ShouldRetry: func(in, out string, err error) bool { return true },
			MaxAttempts: 3,
		}
		svc := layer.Retry[struct{}, string, string](policy).Layer(inner)

		c := netctx.New(struct{}{}, nil)
		_, err := svc.Serve(context.Background(), c, "req")
		Expect(err).To(HaveOccurred())
		Expect(calls).To(Equal(1))
	})

	It("does not retry when DoNotRetry is set, regardless of the policy", func() {
		var calls int
		inner := service.Func[*netctx.Ctx[struct{}], string, string](
			func(ctx context.Context, c *netctx.Ctx[struct{}], in string) (string, error) {
				calls++
				return "", errors.New("boom")
			})

		policy := layer.RetryPolicy[string, string]{
			Clone:       func(in string) (string, bool) { return in, true },
			ShouldRetry: func(in, out string, err error) bool { return true },
			MaxAttempts: 3,
		}
		svc := layer.Retry[struct{}, string, string](policy).Layer(inner)

		c := netctx.New(struct{}{}, nil)
		netctx.Insert[layer.DoNotRetry](c, layer.DoNotRetry{})

		_, err := svc.Serve(context.Background(), c, "req")
		Expect(err).To(HaveOccurred())
		Expect(calls).To(Equal(1))
	})
})
