// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"fmt"
	"iter"
	"reflect"

	"cogentcore.org/xson/base/reflectx"
)

// sequenceOf returns an iterator over the items of the given backing
// sequence: a slice, an array, a pointer to either, an iter.Seq, or nil.
// Struct items of addressable sequences are yielded as pointers, so that
// element nodes write through to the sequence.
func sequenceOf(data any) (iter.Seq[any], error) {
	if reflectx.AnyIsNil(data) {
		return nil, nil
	}
	if seq, ok := data.(iter.Seq[any]); ok {
		return seq, nil
	}
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		return func(yield func(any) bool) {
			for i := range v.Len() {
				if !yield(item(v.Index(i))) {
					return
				}
			}
		}, nil
	case reflect.Func:
		if !isSeq(v.Type()) {
			break
		}
		return func(yield func(any) bool) {
			// yield(x) for each item: the inner function must return a bool
			yv := reflect.MakeFunc(v.Type().In(0), func(args []reflect.Value) []reflect.Value {
				return []reflect.Value{reflect.ValueOf(yield(item(args[0])))}
			})
			v.Call([]reflect.Value{yv})
		}, nil
	}
	return nil, fmt.Errorf("tree: %T is not a sequence", data)
}

// isSeq returns whether the given function type is an iter.Seq.
func isSeq(t reflect.Type) bool {
	if t.NumIn() != 1 || t.NumOut() != 0 {
		return false
	}
	y := t.In(0)
	return y.Kind() == reflect.Func && y.NumIn() == 1 && y.NumOut() == 1 && y.Out(0).Kind() == reflect.Bool
}

// item returns the backing object for one sequence item.
func item(v reflect.Value) any {
	if v.Kind() == reflect.Struct {
		if v.CanAddr() {
			return v.Addr().Interface()
		}
		p := reflect.New(v.Type())
		p.Elem().Set(v)
		return p.Interface()
	}
	if v.Kind() == reflect.Interface && v.IsNil() {
		return nil
	}
	return v.Interface()
}
