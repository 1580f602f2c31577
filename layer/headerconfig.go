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
	"errors"

	netctx "github.com/netlayer/netlayer/context"
	liberr "github.com/netlayer/netlayer/errors"
	"github.com/netlayer/netlayer/httpproto"
	"github.com/netlayer/netlayer/service"
)

// HeaderSpec names one header this layer extracts into Extensions.
type HeaderSpec struct {
	Name     string
	Required bool
}

// ExtractedHeaders is the Extensions marker carrying every named
// header's value(s), keyed by HeaderSpec.Name.
type ExtractedHeaders struct {
	Values map[string][]string
}

// HeaderConfig builds a Layer that reads the headers named in specs off
// each request into an ExtractedHeaders entry on the request's
// Extensions, failing the request if a Required header is absent.
func HeaderConfig[S any](specs []HeaderSpec) service.Layer[*netctx.Ctx[S], *httpproto.Request, *httpproto.Response] {
	return service.LayerFunc[*netctx.Ctx[S], *httpproto.Request, *httpproto.Response](
		func(inner service.Service[*netctx.Ctx[S], *httpproto.Request, *httpproto.Response]) service.Service[*netctx.Ctx[S], *httpproto.Request, *httpproto.Response] {
			return service.Func[*netctx.Ctx[S], *httpproto.Request, *httpproto.Response](
				func(ctx context.Context, c *netctx.Ctx[S], req *httpproto.Request) (*httpproto.Response, error) {
					extracted := ExtractedHeaders{Values: make(map[string][]string, len(specs))}
					for _, spec := range specs {
						vals := req.Header.Values(spec.Name)
						if len(vals) == 0 && spec.Required {
							return nil, liberr.CodeParseHTTPHead.Error(
								errors.New("missing required header: " + spec.Name))
						}
						extracted.Values[spec.Name] = vals
					}
					if req.Extensions != nil {
						req.Extensions.Insert(extracted)
					}
					return inner.Serve(ctx, c, req)
				})
		})
}
