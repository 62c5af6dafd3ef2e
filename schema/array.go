// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import "sync/atomic"

// Array is an array schema: every element is an object node
// of the element schema.
type Array struct {
	element *Object
	sealed  atomic.Bool
}

// NewArray returns a new array schema with the given element schema.
func NewArray(element *Object) *Array {
	return &Array{element: element}
}

// Element returns the element schema.
func (a *Array) Element() *Object { return a.element }

// ClassName returns the class name of the element schema followed by [].
func (a *Array) ClassName() string {
	if a.element == nil {
		return "[]"
	}
	return a.element.className + "[]"
}

// Kind returns [ArrayKind].
func (a *Array) Kind() Kind { return ArrayKind }

// Seal makes the array schema and its element schema immutable.
func (a *Array) Seal() {
	if a.sealed.Swap(true) {
		return
	}
	if a.element != nil {
		a.element.Seal()
	}
}

// Sealed returns whether the schema has been sealed.
func (a *Array) Sealed() bool { return a.sealed.Load() }

func (a *Array) String() string {
	return a.ClassName()
}
