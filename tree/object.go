// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"fmt"
	"reflect"

	"cogentcore.org/xson/base/errors"
	"cogentcore.org/xson/base/reflectx"
	"cogentcore.org/xson/bind"
	"cogentcore.org/xson/errs"
	"cogentcore.org/xson/schema"
)

// Object is a node holding the values of the slots of an object schema.
// Value slots are stored inline, or read from and written to a bound
// backing data object. Object and array slots hold child nodes.
type Object struct {
	NodeBase

	// OnBind is called after a backing data object has been bound to
	// the node with [Object.SetData].
	OnBind func(o *Object)

	schema *schema.Object

	// values has one entry per slot: the stored value for value slots,
	// and the child [Node] (or nil) for container slots.
	values []any

	data any

	scope    any
	hasScope bool
}

// NewObject returns a new root object node of the given schema, which
// is sealed. Object slots get new child objects (except where the schema
// recursively contains itself) and array slots get new empty arrays.
// A nil schema can be attached later with [Object.SetSchema].
func NewObject(s *schema.Object) *Object {
	o := &Object{}
	o.init(o)
	if s != nil {
		o.setSchema(s, nil)
	}
	return o
}

// SetSchema attaches the given schema to an object created without one.
// It is an error to change the schema of an object.
func (o *Object) SetSchema(s *schema.Object) error {
	if o.schema != nil {
		if o.schema == s {
			return nil
		}
		return errs.New(errs.SchemaSealed, o.String(), "tree.Object.SetSchema: the node already has schema %s", o.schema.ClassName())
	}
	if o.This == nil {
		o.init(o)
	}
	o.setSchema(s, nil)
	return nil
}

// setSchema sets the schema and initializes the slot values. The given
// set holds the schemas being built above this node.
func (o *Object) setSchema(s *schema.Object, building map[*schema.Object]bool) {
	s.Seal()
	o.schema = s
	o.values = make([]any, s.NumSlots())
	if building == nil {
		building = map[*schema.Object]bool{}
	}
	building[s] = true
	defer delete(building, s)
	for i, sl := range s.Slots() {
		switch sl.Kind() {
		case schema.ObjectKind:
			if building[sl.Object()] {
				continue
			}
			child := &Object{}
			child.init(child)
			child.setSchema(sl.Object(), building)
			SetParent(child, o, i)
			o.values[i] = child
		case schema.ArrayKind:
			arr := NewArray(sl.Array())
			SetParent(arr, o, i)
			o.values[i] = arr
		default:
			o.values[i] = sl.Kind().Default()
		}
	}
}

// Schema returns the schema of the node.
func (o *Object) Schema() schema.Container {
	if o.schema == nil {
		return nil
	}
	return o.schema
}

// ObjectSchema returns the object schema of the node.
func (o *Object) ObjectSchema() *schema.Object {
	return o.schema
}

// NumChildren returns the number of slots of the node.
func (o *Object) NumChildren() int {
	return len(o.values)
}

// Child returns the child node in the slot with the given index,
// or nil if it is a value slot or out of range.
func (o *Object) Child(i int) Node {
	if i < 0 || i >= len(o.values) {
		return nil
	}
	n, _ := o.values[i].(Node)
	return n
}

func (o *Object) loaded() []Node {
	var ns []Node
	for _, v := range o.values {
		if n, ok := v.(Node); ok {
			ns = append(ns, n)
		}
	}
	return ns
}

// Slot returns the slot with the given name, or a
// [errs.PropertyNotFound] or [errs.SchemaNotSet] error.
func (o *Object) Slot(name string) (*schema.Slot, error) {
	if o.schema == nil {
		return nil, errs.New(errs.SchemaNotSet, name, "no schema has been attached to the node")
	}
	return o.schema.SlotByNameTry(name)
}

// checkSlot returns an error if the given slot is not a slot of the
// schema of the node.
func (o *Object) checkSlot(slot *schema.Slot) error {
	if o.schema == nil {
		name := ""
		if slot != nil {
			name = slot.Name()
		}
		return errs.New(errs.SchemaNotSet, name, "no schema has been attached to the node")
	}
	if slot == nil || o.schema.Slot(slot.Index()) != slot {
		name := "<nil>"
		if slot != nil {
			name = slot.Path()
		}
		return errs.New(errs.PropertyNotFound, o.schema.ClassName(), "%s is not a property of %s", name, o.schema.ClassName())
	}
	return nil
}

// accessor returns the compiled accessor of the given slot for the
// current backing data object, or nil if the slot is not bound, there is
// no backing object, or the slot is verified unbound for its type.
func (o *Object) accessor(slot *schema.Slot) (*bind.Accessor, error) {
	if !slot.Bound() || o.data == nil {
		return nil, nil
	}
	a, err := o.Compiler().Resolve(slot, reflect.TypeOf(o.data))
	if err != nil {
		return nil, err
	}
	if a.Unbound {
		return nil, nil
	}
	return a, nil
}

// Value returns the value of the given slot: a bool, int64, float64,
// [decimal.Decimal], or string for value slots, the child [*Object] or
// [*Array] for container slots, and nil for action slots. Bound slots
// are read from the backing data object.
func (o *Object) Value(slot *schema.Slot) (any, error) {
	if err := o.checkSlot(slot); err != nil {
		return nil, err
	}
	kind := slot.Kind()
	switch {
	case kind.IsContainer():
		return o.values[slot.Index()], nil
	case kind == schema.Action:
		return nil, nil
	}
	a, err := o.accessor(slot)
	if err != nil {
		return kind.Default(), err
	}
	if a != nil {
		return a.Get(o.data)
	}
	return o.values[slot.Index()], nil
}

// SetValue sets the value of the given slot, which is first converted to
// the representation of the slot kind. Bound slots are written to the
// backing data object. Container slots take an [*Object] or [*Array] of
// the slot schema, or nil, and setting an action slot triggers it. A
// replace of the slot is recorded in the change log.
func (o *Object) SetValue(slot *schema.Slot, v any) error {
	if err := o.checkSlot(slot); err != nil {
		return err
	}
	kind := slot.Kind()
	switch {
	case kind.IsContainer():
		return o.setChild(slot, v)
	case kind == schema.Action:
		return o.Trigger(slot)
	}
	cv, ok := kind.Coerce(v)
	if !ok {
		return errs.TypeMismatch(errs.WrongValueType, slot.Path(), kind.String(), fmt.Sprintf("%T", v), fmt.Sprint(v))
	}
	a, err := o.accessor(slot)
	if err != nil {
		return err
	}
	if a != nil {
		if _, err := a.Set(o.data, cv); err != nil {
			if e := (*errs.Error)(nil); errors.As(err, &e) {
				return e
			}
			return &errs.Error{Kind: errs.WrongValueType, Path: slot.Path(), Declared: kind.String(),
				Actual: a.Member.String(), Value: fmt.Sprint(cv), Err: err}
		}
	} else {
		o.values[slot.Index()] = cv
	}
	o.record(slot)
	return nil
}

// setChild replaces the child node of the given container slot.
func (o *Object) setChild(slot *schema.Slot, v any) error {
	i := slot.Index()
	mismatch := func() error {
		return errs.TypeMismatch(errs.WrongValueType, slot.Path(), slot.Kind().String(), fmt.Sprintf("%T", v), "")
	}
	var child Node
	switch c := v.(type) {
	case nil:
	case *Object:
		if c != nil {
			if slot.Kind() != schema.ObjectKind || c.schema != slot.Object() {
				return mismatch()
			}
			child = c
		}
	case *Array:
		if c != nil {
			if slot.Kind() != schema.ArrayKind || c.schema != slot.Array() {
				return mismatch()
			}
			child = c
		}
	default:
		return mismatch()
	}
	old, _ := o.values[i].(Node)
	if child == old {
		return nil
	}
	if child != nil {
		if err := checkParent(child, o); err != nil {
			return err
		}
	}
	if old != nil {
		SetParent(old, nil, -1)
	}
	o.values[i] = nil
	if child != nil {
		SetParent(child, o, i)
		o.values[i] = child
		if co, ok := child.(*Object); ok && co.data != nil {
			a, err := o.accessor(slot)
			if err != nil {
				return err
			}
			if a != nil {
				if _, err := a.Set(o.data, co.data); err != nil {
					return errs.Wrap(errs.BindingUnresolvable, slot.Path(), err)
				}
			}
		}
	}
	o.record(slot)
	return nil
}

// Trigger invokes the handler of the given action slot.
func (o *Object) Trigger(slot *schema.Slot) error {
	if err := o.checkSlot(slot); err != nil {
		return err
	}
	if slot.Kind() != schema.Action {
		return errs.TypeMismatch(errs.WrongValueType, slot.Path(), slot.Kind().String(), schema.Action.String(), "")
	}
	if h := slot.ActionHandler(); h != nil {
		h(o)
	}
	return nil
}

// Data returns the backing data object bound to the node, or nil.
func (o *Object) Data() any {
	return o.data
}

// SetData binds the given backing data object to the node; nil unbinds
// it. If the slot holding this node in its parent object is bound, the
// data object is first written to the member of the parent's backing
// object. Then the bound child nodes are refreshed from the new backing
// object, a replace of the whole node is recorded, and [Object.OnBind]
// is called.
func (o *Object) SetData(data any) error {
	if o.schema == nil {
		return errs.New(errs.SchemaNotSet, "", "no schema has been attached to the node")
	}
	if p, ok := o.Parent.(*Object); ok {
		slot := p.schema.Slot(o.index)
		a, err := p.accessor(slot)
		if err != nil {
			return err
		}
		if a != nil {
			if _, err := a.Set(p.data, data); err != nil {
				return errs.Wrap(errs.BindingUnresolvable, slot.Path(), err)
			}
		}
	}
	if err := o.bindData(data); err != nil {
		return err
	}
	o.recordNode()
	return nil
}

// bindData sets the backing data object and refreshes the bound slots.
func (o *Object) bindData(data any) error {
	if reflectx.AnyIsNil(data) {
		data = nil
	}
	o.data = data
	for _, slot := range o.schema.Slots() {
		if !slot.Bound() {
			continue
		}
		if slot.IsContainer() {
			if err := o.refreshChild(slot); err != nil {
				return err
			}
			continue
		}
		if _, err := o.accessor(slot); err != nil {
			return err
		}
	}
	if o.OnBind != nil {
		o.OnBind(o)
	}
	return nil
}

// refreshChild rebinds the child node of the given bound container slot
// to the current member of the backing data object.
func (o *Object) refreshChild(slot *schema.Slot) error {
	i := slot.Index()
	var member any
	a, err := o.accessor(slot)
	if err != nil {
		return err
	}
	if a != nil {
		if member, err = a.Get(o.data); err != nil {
			return err
		}
	}
	switch slot.Kind() {
	case schema.ObjectKind:
		child, _ := o.values[i].(*Object)
		if child == nil {
			if reflectx.AnyIsNil(member) {
				return nil
			}
			child = &Object{}
			child.init(child)
			child.setSchema(slot.Object(), nil)
			SetParent(child, o, i)
			o.values[i] = child
		}
		return child.bindData(member)
	case schema.ArrayKind:
		arr, _ := o.values[i].(*Array)
		if arr == nil {
			arr = NewArray(slot.Array())
			SetParent(arr, o, i)
			o.values[i] = arr
		}
		return arr.bindData(member)
	}
	return nil
}

// Refresh re-reads the given slot from the backing data object and
// records a replace of it. Bound container slots are rebound to the
// current member of the backing object.
func (o *Object) Refresh(slot *schema.Slot) error {
	if err := o.checkSlot(slot); err != nil {
		return err
	}
	if slot.IsContainer() && slot.Bound() {
		if err := o.refreshChild(slot); err != nil {
			return err
		}
	}
	o.record(slot)
	return nil
}

// Scope returns the scope handle of this node, or of its nearest
// ancestor object that has one.
func (o *Object) Scope() any {
	return Scope(o)
}

// SetScope sets the scope handle of the node, such as the transaction
// that backing data objects are read and written in. It is an error to
// set it on a node that already has one.
func (o *Object) SetScope(scope any) error {
	if o.hasScope {
		return errs.New(errs.ScopeAlreadySet, o.String(), "the node already has a scope")
	}
	o.scope = scope
	o.hasScope = true
	return nil
}

// record records a replace of the given slot in the change log.
func (o *Object) record(slot *schema.Slot) {
	if l := o.ChangeLog(); l != nil {
		l.Record(o, slot)
	}
}

// recordNode records a replace of the whole node in the change log.
func (o *Object) recordNode() {
	if l := o.ChangeLog(); l != nil {
		l.Record(o, nil)
	}
}
