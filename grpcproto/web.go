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

package grpcproto

import (
	"context"
	"errors"
	"strings"

	netctx "github.com/netlayer/netlayer/context"
	liberr "github.com/netlayer/netlayer/errors"
	"github.com/netlayer/netlayer/httpproto"
	"github.com/netlayer/netlayer/service"
)

// webContentTypes are the grpc-web content types the shim recognizes,
// each mapped to whether the body uses grpc-web-text's base64 framing.
var webContentTypes = map[string]bool{
	"application/grpc-web":           false,
	"application/grpc-web+proto":     false,
	"application/grpc-web-text":      true,
	"application/grpc-web-text+proto": true,
}

// IsWebRequest reports whether ct names one of the grpc-web content
// types.
func IsWebRequest(ct string) bool {
	base, _, _ := strings.Cut(ct, ";")
	_, ok := webContentTypes[strings.TrimSpace(base)]
	return ok
}

// WebShim adapts an inner canonical-gRPC Service so it also accepts
// grpc-web requests on any HTTP version: only POST is permitted, the
// request is rewritten to canonical gRPC framing before reaching
// inner, and the response is rewritten back to the negotiated grpc-web
// content type. HTTP/2 requests that aren't grpc-web pass through
// unchanged; HTTP/1 requests that aren't grpc-web are rejected.
func WebShim[S any](inner service.Service[*netctx.Ctx[S], *httpproto.Request, *httpproto.Response]) service.Service[*netctx.Ctx[S], *httpproto.Request, *httpproto.Response] {
	return service.Func[*netctx.Ctx[S], *httpproto.Request, *httpproto.Response](
		func(ctx context.Context, c *netctx.Ctx[S], req *httpproto.Request) (*httpproto.Response, error) {
			ct := req.Header.Get("Content-Type")

			if !IsWebRequest(ct) {
				if req.Proto == "HTTP/2" {
					return inner.Serve(ctx, c, req)
				}
				return &httpproto.Response{
					StatusCode: 400,
					Proto:      req.Proto,
					Header:     httpproto.NewHeader(),
					Body:       httpproto.EmptyBody{},
				}, nil
			}

			if req.Method != "POST" {
				return &httpproto.Response{
					StatusCode: 405,
					Proto:      req.Proto,
					Header:     httpproto.NewHeader(),
					Body:       httpproto.EmptyBody{},
				}, nil
			}

			base, _, _ := strings.Cut(ct, ";")
			textFramed := webContentTypes[strings.TrimSpace(base)]
			if textFramed {
				return nil, liberr.CodeUnexpectedMessage.Error(
					errors.New("grpc-web-text base64 re-framing not supported by this shim"))
			}

			req.Header.Set("Content-Type", "application/grpc")
			req.Header.Set("TE", "trailers")

			resp, err := inner.Serve(ctx, c, req)
			if err != nil {
				return resp, err
			}
			if resp != nil && resp.Header != nil {
				resp.Header.Set("Content-Type", base)
			}
			return resp, nil
		})
}
