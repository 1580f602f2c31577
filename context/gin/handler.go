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

package gin

import (
	ginsdk "github.com/gin-gonic/gin"

	"github.com/netlayer/netlayer/service"
)

// Handler adapts svc, a Service that runs over a GinTonic request context,
// into a gin.HandlerFunc. decode extracts the service input from the raw
// Gin context; encode writes the service's output (or error) to the
// response writer.
//
// This lets an admin or health-check surface mounted on a gin.Engine reuse
// the same Service/Layer composition (retry, timeout, concurrency limit,
// trace) as every other entry point in the module, instead of being a
// one-off handler written against *gin.Context directly.
func Handler[In any, Out any](
	svc service.Service[GinTonic, In, Out],
	decode func(c *ginsdk.Context) (In, error),
	encode func(c *ginsdk.Context, out Out, err error),
) ginsdk.HandlerFunc {
	return func(c *ginsdk.Context) {
		var zero Out

		gtx := New(c, nil)

		in, err := decode(c)
		if err != nil {
			encode(c, zero, err)
			return
		}

		out, err := svc.Serve(gtx, gtx, in)
		encode(c, out, err)
	}
}
