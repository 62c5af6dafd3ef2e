// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bind

import (
	"reflect"

	"cogentcore.org/xson/base/reflectx"
	"cogentcore.org/xson/errs"
	"cogentcore.org/xson/schema"
)

// Accessor is a compiled getter and optional setter for one bound
// [schema.Slot] on one backing type. Accessors are immutable once
// compiled and are shared by all nodes that bind the slot to that type.
type Accessor struct {

	// Slot is the slot the accessor was compiled for.
	Slot *schema.Slot

	// Type is the backing type the accessor was compiled for.
	Type reflect.Type

	// Unbound is whether the bound path did not resolve to any member of
	// Type. Reads and writes of verified unbound slots use the in-memory
	// slot value instead.
	Unbound bool

	// Member is the type of the terminal member, or nil for unbound accessors.
	Member reflect.Type

	steps []step
	last  *step
	get   func(v reflect.Value) (any, error)
	set   func(v reflect.Value, x any) error
}

// step is one resolved segment of a bound path.
type step struct {
	name string

	// field is the field index path for field members.
	field []int

	// method is the getter method index on the pointer type, or -1.
	method int

	// setter is the setter method index on the pointer type, or -1.
	setter int

	typ reflect.Type
}

// CanSet returns whether the accessor can write to the backing object.
func (a *Accessor) CanSet() bool {
	return !a.Unbound && a.set != nil
}

// Get returns the value of the bound member of the given backing object,
// converted to the representation of the slot kind. For container slots
// it returns the member value itself. If an intermediate member on the
// path is nil, it returns the default of the slot kind.
func (a *Accessor) Get(data any) (any, error) {
	if a.Unbound {
		return a.Slot.Kind().Default(), nil
	}
	v, ok := a.terminal(reflect.ValueOf(data))
	if !ok {
		return a.Slot.Kind().Default(), nil
	}
	return a.get(v)
}

// Set writes the given slot value to the bound member of the given
// backing object. It returns false without error if the write was
// skipped because the path is unbound or an intermediate member is nil.
// It returns an [errs.BindingUnresolvable] error if the member cannot be
// written in place, as for a struct held by value.
func (a *Accessor) Set(data any, x any) (bool, error) {
	if !a.CanSet() {
		return false, nil
	}
	owner, ok := a.walk(reflect.ValueOf(data), len(a.steps)-1)
	if !ok {
		return false, nil
	}
	if !owner.CanAddr() {
		return false, errs.New(errs.BindingUnresolvable, a.Slot.Path(),
			"cannot write member %q of %v: the owner is not addressable; bind a pointer to the data object", a.last.name, owner.Type())
	}
	if a.last.setter >= 0 {
		err := a.set(owner, x)
		return err == nil, err
	}
	f, err := owner.FieldByIndexErr(a.last.field)
	if err != nil {
		return false, nil
	}
	if !f.CanSet() {
		return false, errs.New(errs.BindingUnresolvable, a.Slot.Path(),
			"cannot write member %q of %v", a.last.name, owner.Type())
	}
	if err := a.set(f, x); err != nil {
		return false, err
	}
	return true, nil
}

// walk follows the first n steps of the path from the given value,
// returning the (non-pointer) owner of step n. It returns false if a nil
// value is encountered.
func (a *Accessor) walk(v reflect.Value, n int) (reflect.Value, bool) {
	v, ok := reflectx.Underlying(v)
	if !ok {
		return v, false
	}
	for i := range n {
		v, ok = a.steps[i].value(v)
		if !ok {
			return v, false
		}
		v, ok = reflectx.Underlying(v)
		if !ok {
			return v, false
		}
	}
	return v, true
}

// terminal returns the terminal member value of the path.
func (a *Accessor) terminal(v reflect.Value) (reflect.Value, bool) {
	owner, ok := a.walk(v, len(a.steps)-1)
	if !ok {
		return owner, false
	}
	return a.last.value(owner)
}

// value returns the member of the given non-pointer struct value.
func (s *step) value(owner reflect.Value) (reflect.Value, bool) {
	if s.method >= 0 {
		pv := reflectx.OnePointerValue(owner)
		out := pv.Method(s.method).Call(nil)
		return out[0], true
	}
	f, err := owner.FieldByIndexErr(s.field)
	if err != nil {
		return f, false
	}
	return f, true
}
