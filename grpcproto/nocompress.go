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
	"reflect"

	"github.com/netlayer/netlayer/context"
)

// noCompress is the Extensions marker an application attaches to a
// response to force identity encoding for that one message even when
// compression is negotiated and enabled globally.
type noCompress struct{}

// MarkNoCompress attaches the override to ext.
func MarkNoCompress(ext context.Extensions) {
	if ext != nil {
		ext.Insert(noCompress{})
	}
}

func isMarkedNoCompress(ext context.Extensions) bool {
	if ext == nil {
		return false
	}
	_, ok := ext.Get(noCompressType)
	return ok
}

var noCompressType = reflect.TypeOf(noCompress{})
