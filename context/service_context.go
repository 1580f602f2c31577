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

// Package context provides the request-scoped handle every Service
// operates on: a shared read-only State, a task Executor, and a
// copy-on-write Extensions typemap. It builds on the package's own
// atomic-backed Config/Map primitives.
package context

import (
	"reflect"
	"sync"
)

// Executor spawns background work bound to the lifetime of a connection
// or request. Implementations must be safe for concurrent use.
type Executor interface {
	// Spawn runs fn on the executor's pool. Panics inside fn must not
	// take down the caller.
	Spawn(fn func())
}

type inlineExecutor struct{}

// InlineExecutor runs spawned work synchronously. Useful for tests and
// for single-threaded embeddings; production servers supply a real
// worker-pool executor.
func InlineExecutor() Executor { return inlineExecutor{} }

func (inlineExecutor) Spawn(fn func()) {
	if fn != nil {
		fn()
	}
}

type goExecutor struct{ wg *sync.WaitGroup }

// GoExecutor spawns each unit of work on its own goroutine, tracked by an
// optional WaitGroup (nil is accepted, in which case tracking is skipped).
func GoExecutor(wg *sync.WaitGroup) Executor { return goExecutor{wg: wg} }

func (g goExecutor) Spawn(fn func()) {
	if fn == nil {
		return
	}
	if g.wg != nil {
		g.wg.Add(1)
	}
	go func() {
		if g.wg != nil {
			defer g.wg.Done()
		}
		fn()
	}()
}

// Ctx is the generic request-scoped context every Service receives. It
// carries a shared State value by reference (cheap to clone), an
// Executor handle, and a copy-on-write Extensions typemap.
type Ctx[S any] struct {
	state S
	exec  Executor
	ext   Extensions
}

// New builds a root Ctx with the given state and executor. A nil executor
// defaults to InlineExecutor.
func New[S any](state S, exec Executor) *Ctx[S] {
	if exec == nil {
		exec = InlineExecutor()
	}
	return &Ctx[S]{state: state, exec: exec, ext: NewExtensions()}
}

// State returns the shared state value for the lifetime of this context.
func (c *Ctx[S]) State() S { return c.state }

// Executor returns the task executor handle.
func (c *Ctx[S]) Executor() Executor { return c.exec }

// Spawn is a convenience wrapper around Executor().Spawn.
func (c *Ctx[S]) Spawn(fn func()) { c.exec.Spawn(fn) }

// Clone returns a new Ctx sharing the same state and executor, and whose
// Extensions is forked (copy-on-write) from the current one.
func (c *Ctx[S]) Clone() *Ctx[S] {
	return &Ctx[S]{state: c.state, exec: c.exec, ext: c.ext.Fork()}
}

// IntoParent is an alias of Clone: it exists to document the optimization
// it performs (subsequent clones share Extensions by reference until one
// branch mutates it) at call sites that care about that property.
func (c *Ctx[S]) IntoParent() *Ctx[S] { return c.Clone() }

// Extensions exposes the raw typemap for advanced callers; most code
// should prefer the typed Get/Insert/GetOrInsertWith helpers below.
func (c *Ctx[S]) Extensions() Extensions { return c.ext }

func typeOf[T any]() reflect.Type {
	var zero T
	return reflect.TypeOf(&zero).Elem()
}

// Get fetches the value of type T stored in the extensions, if any.
func Get[T any, S any](c *Ctx[S]) (T, bool) {
	var zero T
	v, ok := c.ext.Get(typeOf[T]())
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Insert stores value, keyed by its own type, overwriting any prior value
// of the same type.
func Insert[T any, S any](c *Ctx[S], value T) {
	c.ext.Insert(value)
}

// GetOrInsertWith fetches the value of type T, or computes and stores one
// via fn if absent.
func GetOrInsertWith[T any, S any](c *Ctx[S], fn func() T) T {
	v := c.ext.GetOrInsertWith(typeOf[T](), func() any { return fn() })
	t, _ := v.(T)
	return t
}

// Remove deletes the value of type T from the extensions, if present.
func Remove[T any, S any](c *Ctx[S]) {
	c.ext.Remove(typeOf[T]())
}

// Clear empties the extensions entirely (including the parent link).
func (c *Ctx[S]) Clear() { c.ext.Clear() }
