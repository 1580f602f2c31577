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

// Package service defines the universal async operation contract
// (Service) and the composable wrapper contract (Layer) everything else
// in this module is built on.
package service

import (
	"context"
)

// Service is the universal operation contract: given a context and an
// input, produce an output or an error. Implementations must be safe
// for concurrent use; cloning a Service (a plain struct copy, or sharing
// a pointer) must be cheap.
type Service[Ctx any, In any, Out any] interface {
	Serve(ctx context.Context, c Ctx, in In) (Out, error)
}

// Func adapts a plain function to the Service interface.
type Func[Ctx any, In any, Out any] func(ctx context.Context, c Ctx, in In) (Out, error)

func (f Func[Ctx, In, Out]) Serve(ctx context.Context, c Ctx, in In) (Out, error) {
	return f(ctx, c, in)
}

// Layer wraps an inner Service, producing a new Service of the same
// shape. Layers are pure descriptors: applying one must be deterministic
// and side-effect free — any state belongs to the wrapped Service it
// returns, not to the Layer value itself.
type Layer[Ctx any, In any, Out any] interface {
	Layer(inner Service[Ctx, In, Out]) Service[Ctx, In, Out]
}

// LayerFunc adapts a plain function to the Layer interface.
type LayerFunc[Ctx any, In any, Out any] func(inner Service[Ctx, In, Out]) Service[Ctx, In, Out]

func (f LayerFunc[Ctx, In, Out]) Layer(inner Service[Ctx, In, Out]) Service[Ctx, In, Out] {
	return f(inner)
}

// Identity is the Layer that returns its inner Service unchanged.
func Identity[Ctx any, In any, Out any]() Layer[Ctx, In, Out] {
	return LayerFunc[Ctx, In, Out](func(inner Service[Ctx, In, Out]) Service[Ctx, In, Out] {
		return inner
	})
}

// Chain composes layers right-to-left: Chain(L1, L2, L3).Layer(S) is
// equivalent to L1.Layer(L2.Layer(L3.Layer(S))). An empty Chain is the
// Identity layer.
func Chain[Ctx any, In any, Out any](layers ...Layer[Ctx, In, Out]) Layer[Ctx, In, Out] {
	return LayerFunc[Ctx, In, Out](func(inner Service[Ctx, In, Out]) Service[Ctx, In, Out] {
		svc := inner
		for i := len(layers) - 1; i >= 0; i-- {
			svc = layers[i].Layer(svc)
		}
		return svc
	})
}

// Apply is a convenience for Chain(layers...).Layer(svc).
func Apply[Ctx any, In any, Out any](svc Service[Ctx, In, Out], layers ...Layer[Ctx, In, Out]) Service[Ctx, In, Out] {
	return Chain(layers...).Layer(svc)
}
