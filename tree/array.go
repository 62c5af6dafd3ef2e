// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"fmt"
	"iter"
	"slices"

	"cogentcore.org/xson/errs"
	"cogentcore.org/xson/schema"
)

// Array is a node holding an ordered list of [Object] elements of one
// element schema. The elements can come from a source sequence, which is
// only read when the elements are first accessed.
type Array struct {
	NodeBase

	schema *schema.Array
	items  []*Object

	// source is the pending source sequence, or nil.
	source iter.Seq[any]

	// err is the first error binding an element to an item of the
	// source sequence.
	err error

	data any
}

// NewArray returns a new empty root array node of the given schema,
// which is sealed.
func NewArray(s *schema.Array) *Array {
	a := &Array{schema: s}
	a.init(a)
	if s != nil {
		s.Seal()
	}
	return a
}

// Schema returns the schema of the node.
func (a *Array) Schema() schema.Container {
	if a.schema == nil {
		return nil
	}
	return a.schema
}

// ArraySchema returns the array schema of the node.
func (a *Array) ArraySchema() *schema.Array {
	return a.schema
}

// slot returns the slot holding the array in its parent object,
// or nil for a root array.
func (a *Array) slot() *schema.Slot {
	if p, ok := a.Parent.(*Object); ok && p.schema != nil {
		return p.schema.Slot(a.index)
	}
	return nil
}

// Materialize creates the elements of a pending source sequence. It
// returns the first error binding an element to its item, which is also
// returned by [Array.At], [Array.Insert] and [Array.RemoveAt] until the
// elements are replaced. Materialization does not record changes.
func (a *Array) Materialize() error {
	return a.materialize()
}

func (a *Array) materialize() error {
	if a.source == nil {
		return a.err
	}
	src := a.source
	a.source = nil
	for item := range src {
		e := &Object{}
		e.init(e)
		e.setSchema(a.schema.Element(), nil)
		SetParent(e, a, len(a.items))
		a.items = append(a.items, e)
		if err := e.bindData(item); err != nil && a.err == nil {
			a.err = err
		}
	}
	return a.err
}

// Pending returns whether the array has a source sequence that has
// not been read yet.
func (a *Array) Pending() bool {
	return a.source != nil
}

// Len returns the number of elements.
func (a *Array) Len() int {
	a.materialize()
	return len(a.items)
}

// NumChildren returns the number of elements.
func (a *Array) NumChildren() int {
	return a.Len()
}

// Child returns the element at the given index, or nil if it is out of range.
func (a *Array) Child(i int) Node {
	a.materialize()
	if i < 0 || i >= len(a.items) {
		return nil
	}
	return a.items[i]
}

func (a *Array) loaded() []Node {
	ns := make([]Node, len(a.items))
	for i, e := range a.items {
		ns[i] = e
	}
	return ns
}

// At returns the element at the given index, or an [errs.IndexOutOfRange] error.
func (a *Array) At(i int) (*Object, error) {
	if err := a.materialize(); err != nil {
		return nil, err
	}
	if i < 0 || i >= len(a.items) {
		return nil, errs.OutOfRange(a.String(), i, len(a.items))
	}
	return a.items[i], nil
}

// All returns an iterator over the index and element pairs.
func (a *Array) All() iter.Seq2[int, *Object] {
	return func(yield func(int, *Object) bool) {
		a.materialize()
		for i, e := range a.items {
			if !yield(i, e) {
				return
			}
		}
	}
}

// IndexOf returns the index of the given element, or -1.
func (a *Array) IndexOf(e *Object) int {
	if e == nil || e.Parent != a.This {
		return -1
	}
	return e.index
}

// AddNew adds a new element of the element schema at the end of the array
// and returns it.
func (a *Array) AddNew() (*Object, error) {
	if a.schema == nil {
		return nil, errs.New(errs.SchemaNotSet, a.String(), "no schema has been attached to the node")
	}
	e := NewObject(a.schema.Element())
	return e, a.Add(e)
}

// Add adds the given element at the end of the array.
func (a *Array) Add(e *Object) error {
	if err := a.materialize(); err != nil {
		return err
	}
	return a.Insert(len(a.items), e)
}

// Insert inserts the given element at the given index, and records the
// addition in the change log. The element must have the element schema
// and must not be in another tree.
func (a *Array) Insert(i int, e *Object) error {
	if a.schema == nil {
		return errs.New(errs.SchemaNotSet, a.String(), "no schema has been attached to the node")
	}
	if e == nil || e.schema != a.schema.Element() {
		actual := "<nil>"
		if e != nil && e.schema != nil {
			actual = e.schema.ClassName()
		}
		return errs.TypeMismatch(errs.WrongValueType, a.String(), a.schema.Element().ClassName(), actual, "")
	}
	if err := a.materialize(); err != nil {
		return err
	}
	if i < 0 || i > len(a.items) {
		return errs.OutOfRange(a.String(), i, len(a.items))
	}
	if e.Parent == a.This {
		return errs.New(errs.ParentReassignment, e.String(), "the element is already in the array")
	}
	if err := checkParent(e, a); err != nil {
		return err
	}
	a.items = slices.Insert(a.items, i, e)
	SetParent(e, a, i)
	a.renumber(i + 1)
	if l := a.ChangeLog(); l != nil {
		l.RecordAdd(a, a.slot(), i, e)
	}
	return nil
}

// RemoveAt removes the element at the given index, and records the
// removal in the change log.
func (a *Array) RemoveAt(i int) error {
	if err := a.materialize(); err != nil {
		return err
	}
	if i < 0 || i >= len(a.items) {
		return errs.OutOfRange(a.String(), i, len(a.items))
	}
	e := a.items[i]
	a.items = slices.Delete(a.items, i, i+1)
	a.renumber(i)
	SetParent(e, nil, -1)
	if l := a.ChangeLog(); l != nil {
		l.RecordRemove(a, a.slot(), i)
	}
	return nil
}

// Remove removes the given element, returning false if it is not an
// element of the array.
func (a *Array) Remove(e *Object) bool {
	i := a.IndexOf(e)
	if i < 0 {
		return false
	}
	return a.RemoveAt(i) == nil
}

// Clear removes all elements, recording one removal per element from
// the last index to the first.
func (a *Array) Clear() {
	a.materialize()
	l := a.ChangeLog()
	slot := a.slot()
	for i := len(a.items) - 1; i >= 0; i-- {
		SetParent(a.items[i], nil, -1)
		if l != nil {
			l.RecordRemove(a, slot, i)
		}
	}
	clear(a.items)
	a.items = a.items[:0]
}

// renumber updates the cached indexes of the elements from the given index.
func (a *Array) renumber(from int) {
	for j := from; j < len(a.items); j++ {
		a.items[j].index = j
	}
}

// detachAll removes all elements without recording changes.
func (a *Array) detachAll() {
	for _, e := range a.items {
		SetParent(e, nil, -1)
	}
	clear(a.items)
	a.items = a.items[:0]
	a.err = nil
}

// SetSource replaces the elements with one element per item of the given
// sequence, bound to the item. The sequence is only read when the
// elements are first accessed. A replace of the whole array is recorded.
func (a *Array) SetSource(seq iter.Seq[any]) {
	a.detachAll()
	a.data = nil
	a.source = seq
	a.recordNode()
}

// Data returns the backing sequence bound to the array, or nil.
func (a *Array) Data() any {
	return a.data
}

// SetData binds the given backing sequence to the array: a slice, an
// array, a pointer to either, or an [iter.Seq]. It replaces the elements
// with elements bound to the items, which are created when first
// accessed. If the slot holding the array in its parent object is bound,
// the sequence is first written to the member of the parent's backing
// object. A replace of the whole array is recorded.
func (a *Array) SetData(data any) error {
	if a.schema == nil {
		return errs.New(errs.SchemaNotSet, "", "no schema has been attached to the node")
	}
	if p, ok := a.Parent.(*Object); ok {
		slot := a.slot()
		acc, err := p.accessor(slot)
		if err != nil {
			return err
		}
		if acc != nil {
			if _, err := acc.Set(p.data, data); err != nil {
				return errs.Wrap(errs.BindingUnresolvable, slot.Path(), err)
			}
		}
	}
	if err := a.bindData(data); err != nil {
		return err
	}
	a.recordNode()
	return nil
}

// bindData sets the backing sequence without recording changes.
func (a *Array) bindData(data any) error {
	seq, err := sequenceOf(data)
	if err != nil {
		return errs.TypeMismatch(errs.BindingUnresolvable, a.String(), "sequence", fmt.Sprintf("%T", data), "")
	}
	a.detachAll()
	a.data = data
	a.source = seq
	return nil
}

// recordNode records a replace of the whole array in the change log.
func (a *Array) recordNode() {
	if l := a.ChangeLog(); l != nil {
		l.Record(a, nil)
	}
}
