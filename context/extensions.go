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

package context

import (
	"reflect"
	"sync"

	libatm "github.com/netlayer/netlayer/atomic"
)

// Extensions is a typemap keyed by the runtime type identity of the stored
// value: at most one value per type. It is copy-on-write: Fork returns a
// handle that reads through to the parent until the first local Insert,
// at which point it allocates its own store and stops consulting the parent.
type Extensions interface {
	Get(key reflect.Type) (any, bool)
	Insert(value any)
	GetOrInsertWith(key reflect.Type, fn func() any) any
	Remove(key reflect.Type)
	Clear()
	Fork() Extensions
}

type extValue struct {
	v any
}

type extensions struct {
	mu     sync.Mutex
	own    libatm.Map[reflect.Type] // nil until the first local mutation
	parent Extensions
}

// NewExtensions returns an empty root Extensions with no parent.
func NewExtensions() Extensions {
	return &extensions{own: libatm.NewMapAny[reflect.Type]()}
}

func (e *extensions) store() libatm.Map[reflect.Type] {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.own == nil {
		e.own = libatm.NewMapAny[reflect.Type]()
	}
	return e.own
}

func (e *extensions) Get(key reflect.Type) (any, bool) {
	e.mu.Lock()
	own := e.own
	e.mu.Unlock()

	if own != nil {
		if v, ok := own.Load(key); ok {
			ev, _ := v.(*extValue)
			if ev == nil {
				return nil, false
			}
			return ev.v, true
		}
	}
	if e.parent != nil {
		return e.parent.Get(key)
	}
	return nil, false
}

func (e *extensions) Insert(value any) {
	if value == nil {
		return
	}
	key := reflect.TypeOf(value)
	e.store().Store(key, &extValue{v: value})
}

func (e *extensions) GetOrInsertWith(key reflect.Type, fn func() any) any {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.own != nil {
		if v, ok := e.own.Load(key); ok {
			if ev, _ := v.(*extValue); ev != nil {
				return ev.v
			}
		}
	}
	if e.parent != nil {
		if v, ok := e.parent.Get(key); ok {
			return v
		}
	}

	v := fn()
	if e.own == nil {
		e.own = libatm.NewMapAny[reflect.Type]()
	}
	e.own.Store(key, &extValue{v: v})
	return v
}

func (e *extensions) Remove(key reflect.Type) {
	e.store().Delete(key)
}

func (e *extensions) Clear() {
	e.mu.Lock()
	e.own = libatm.NewMapAny[reflect.Type]()
	e.parent = nil
	e.mu.Unlock()
}

// Fork shares the parent's store by reference: Get reads through to the
// parent until the child performs its first Insert/Remove/Clear, at which
// point the child lazily allocates its own store (copy-on-write) and the
// parent is consulted only as a fallback for keys the child never touched.
func (e *extensions) Fork() Extensions {
	return &extensions{parent: e}
}
