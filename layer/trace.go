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

	"github.com/google/uuid"

	netctx "github.com/netlayer/netlayer/context"
	"github.com/netlayer/netlayer/httpproto"
	"github.com/netlayer/netlayer/nettrace"
	"github.com/netlayer/netlayer/service"
)

// Span carries the per-request identifiers and timing a trace layer
// hands to its FailureClassifier and completion hooks.
type Span struct {
	ID       string
	Start    time.Time
	Duration time.Duration
}

// FailureClassifier decides whether (req, resp, err) counts as a
// failure for metrics purposes, and if so under what class label.
type FailureClassifier func(req *httpproto.Request, resp *httpproto.Response, err error) (failed bool, class string)

// DefaultFailureClassifier treats a transport error, an HTTP 5xx
// status, or a gRPC trailer with a nonzero grpc-status as a failure.
func DefaultFailureClassifier(_ *httpproto.Request, resp *httpproto.Response, err error) (bool, string) {
	if err != nil {
		return true, "transport"
	}
	if resp == nil {
		return false, ""
	}
	if resp.StatusCode >= 500 {
		return true, "http_5xx"
	}
	if resp.Body != nil {
		if trailer := resp.Body.Trailer(); trailer != nil {
			if status := trailer.Get("grpc-status"); status != "" && status != "0" {
				return true, "grpc_status"
			}
		}
	}
	return false, ""
}

// Trace builds a Layer that assigns each request a span ID (stashed on
// Extensions for downstream layers/handlers to log alongside), times
// it, classifies the outcome, and records it to m.
func Trace[S any](m *nettrace.Metrics, classify FailureClassifier) service.Layer[*netctx.Ctx[S], *httpproto.Request, *httpproto.Response] {
	if classify == nil {
		classify = DefaultFailureClassifier
	}

	return service.LayerFunc[*netctx.Ctx[S], *httpproto.Request, *httpproto.Response](
		func(inner service.Service[*netctx.Ctx[S], *httpproto.Request, *httpproto.Response]) service.Service[*netctx.Ctx[S], *httpproto.Request, *httpproto.Response] {
			return service.Func[*netctx.Ctx[S], *httpproto.Request, *httpproto.Response](
				func(ctx context.Context, c *netctx.Ctx[S], req *httpproto.Request) (*httpproto.Response, error) {
					span := Span{ID: uuid.NewString(), Start: time.Now()}
					if req.Extensions != nil {
						req.Extensions.Insert(span)
					}

					resp, err := inner.Serve(ctx, c, req)
					span.Duration = time.Since(span.Start)

					failed, class := classify(req, resp, err)
					outcome := "success"
					if failed {
						outcome = "failure"
						if m != nil {
							m.Failures.WithLabelValues(class).Inc()
						}
					}
					if m != nil {
						m.Requests.WithLabelValues(outcome).Inc()
						m.Latency.WithLabelValues(outcome).Observe(span.Duration.Seconds())
					}

					return resp, err
				})
		})
}
