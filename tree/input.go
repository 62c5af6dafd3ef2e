// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"cogentcore.org/xson/base/reflectx"
	"cogentcore.org/xson/errs"
	"cogentcore.org/xson/schema"
)

// Input applies a value received from the client to the given slot.
// The slot must be editable. Its input handlers are called in order
// first, and they can change the value or cancel the input. Input on
// an action slot triggers the action.
func (o *Object) Input(slot *schema.Slot, v any) error {
	if err := o.checkSlot(slot); err != nil {
		return err
	}
	if !slot.Editable() {
		return errs.New(errs.ReadOnlyProperty, slot.Path(), "the property is not editable")
	}
	if slot.Kind() == schema.Action {
		return o.Trigger(slot)
	}
	old, err := o.Value(slot)
	if err != nil {
		return err
	}
	in := &schema.Input{Node: o, Slot: slot, Value: v, Old: old}
	for _, h := range slot.InputHandlers() {
		h(in)
		if in.Cancelled() {
			return nil
		}
	}
	return o.SetValue(slot, in.Value)
}

// InputJSON applies a JSON value received from the client to the given
// slot with [Object.Input]. Object and array slots do not take input.
func (o *Object) InputJSON(slot *schema.Slot, raw []byte) error {
	if err := o.checkSlot(slot); err != nil {
		return err
	}
	if !slot.Editable() || slot.IsContainer() {
		return errs.New(errs.ReadOnlyProperty, slot.Path(), "the property is not editable")
	}
	if slot.Kind() == schema.Action {
		return o.Input(slot, nil)
	}
	d := json.NewDecoder(bytes.NewReader(raw))
	d.UseNumber()
	t, err := token(d, slot.Path())
	if err != nil {
		return err
	}
	if _, ok := t.(json.Delim); ok {
		return mismatch(slot.Path(), slot.Kind(), t)
	}
	v, ok := fromToken(slot.Kind(), t)
	if !ok {
		return mismatch(slot.Path(), slot.Kind(), t)
	}
	if err := end(d, slot.Path()); err != nil {
		return err
	}
	return o.Input(slot, v)
}

// Get returns the value of the given slot of the given object as
// type T. Numbers are converted to T when the conversion is exact.
func Get[T any](o *Object, slot *schema.Slot) (T, error) {
	var zero T
	v, err := o.Value(slot)
	if err != nil || v == nil {
		return zero, err
	}
	if t, ok := v.(T); ok {
		return t, nil
	}
	rv := reflect.ValueOf(v)
	tt := reflect.TypeFor[T]()
	if reflectx.KindIsNumber(rv.Kind()) && reflectx.KindIsNumber(tt.Kind()) {
		cv := rv.Convert(tt)
		if cv.Convert(rv.Type()).Equal(rv) {
			return cv.Interface().(T), nil
		}
	}
	return zero, errs.TypeMismatch(errs.WrongValueType, slot.Path(), slot.Kind().String(), tt.String(), fmt.Sprint(v))
}

// Set sets the value of the given slot of the given object.
// It is the typed form of [Object.SetValue].
func Set[T any](o *Object, slot *schema.Slot, v T) error {
	return o.SetValue(slot, v)
}

// ValueByName returns the value of the slot with the given name.
func (o *Object) ValueByName(name string) (any, error) {
	slot, err := o.Slot(name)
	if err != nil {
		return nil, err
	}
	return o.Value(slot)
}

// SetValueByName sets the value of the slot with the given name.
func (o *Object) SetValueByName(name string, v any) error {
	slot, err := o.Slot(name)
	if err != nil {
		return err
	}
	return o.SetValue(slot, v)
}
