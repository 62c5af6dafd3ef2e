// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schema describes the shape of view-model nodes: an [Object]
// is an ordered list of named, typed [Slot]s, and an [Array] has one
// element schema. Schemas are built once, sealed when they are first
// attached to a node, and shared by all nodes of that shape.
package schema

import (
	"fmt"
	"sync/atomic"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"cogentcore.org/xson/base/keylist"
	"cogentcore.org/xson/errs"
)

// Container is implemented by [*Object] and [*Array].
type Container interface {

	// ClassName returns the name used for the schema in error paths.
	ClassName() string

	// Seal makes the schema and all nested schemas immutable.
	Seal()

	// Sealed returns whether the schema has been sealed.
	Sealed() bool

	// Kind returns [ObjectKind] or [ArrayKind].
	Kind() Kind
}

// Object is an object schema: an ordered list of named, typed slots.
// Slot indexes are assigned in the order slots are added and never
// reused. Slot lookup by name is O(1).
type Object struct {
	className string
	slots     keylist.List[string, *Slot]
	sealed    atomic.Bool
}

// NewObject returns a new object schema with the given class name.
func NewObject(className string) *Object {
	return &Object{className: className}
}

// ClassName returns the class name of the schema.
func (o *Object) ClassName() string { return o.className }

// Kind returns [ObjectKind].
func (o *Object) Kind() Kind { return ObjectKind }

// Sealed returns whether the schema has been sealed.
func (o *Object) Sealed() bool { return o.sealed.Load() }

// Seal makes the schema immutable, along with all of the schemas
// nested in its slots. It is called when the schema is first attached
// to a node, and calling it again does nothing.
func (o *Object) Seal() {
	if o.sealed.Swap(true) {
		return
	}
	for _, s := range o.slots.Values {
		switch {
		case s.object != nil:
			s.object.Seal()
		case s.array != nil:
			s.array.Seal()
		}
	}
}

// checkMutable panics with a [errs.SchemaSealed] error if the schema is sealed.
func (o *Object) checkMutable(op string) {
	if o.Sealed() {
		panic(errs.New(errs.SchemaSealed, o.className, "schema.Object.%s: cannot modify a sealed schema", op))
	}
}

// NumSlots returns the number of slots in the schema.
func (o *Object) NumSlots() int { return o.slots.Len() }

// Slots returns the slots of the schema in index order.
// The returned slice must not be modified.
func (o *Object) Slots() []*Slot { return o.slots.Values }

// Slot returns the slot at the given index, or nil if it is out of range.
func (o *Object) Slot(index int) *Slot {
	if index < 0 || index >= o.slots.Len() {
		return nil
	}
	return o.slots.Values[index]
}

// SlotByName returns the slot with the given name, or nil if there is none.
func (o *Object) SlotByName(name string) *Slot {
	s, _ := o.slots.AtTry(name)
	return s
}

// SlotByNameTry returns the slot with the given name, or a
// [errs.PropertyNotFound] error that suggests a similar name if
// there is one.
func (o *Object) SlotByNameTry(name string) (*Slot, error) {
	if s := o.SlotByName(name); s != nil {
		return s, nil
	}
	err := errs.New(errs.PropertyNotFound, errs.Path(o.className, name), "no property %q in %s", name, o.className)
	if sug := o.Suggest(name); sug != "" {
		err.Message += fmt.Sprintf("; did you mean %q?", sug)
	}
	return nil, err
}

// Suggest returns the slot name most similar to the given name,
// or "" if no slot name is similar enough.
func (o *Object) Suggest(name string) string {
	best, bestSim := "", 0.5
	lev := metrics.NewLevenshtein()
	lev.CaseSensitive = false
	for sn := range o.slots.All() {
		sim := strutil.Similarity(name, sn, lev)
		if sim >= bestSim {
			best, bestSim = sn, sim
		}
	}
	return best
}

// Add adds a new slot with the given name and value kind.
// Use [Object.AddObject] and [Object.AddArray] for container slots.
func (o *Object) Add(name string, kind Kind) *Slot {
	if kind.IsContainer() {
		panic(errs.New(errs.InvalidSchema, errs.Path(o.className, name), "schema.Object.Add: use AddObject or AddArray for %v slots", kind))
	}
	return o.add(name, kind)
}

// AddObject adds a new slot holding an object node with the given schema.
func (o *Object) AddObject(name string, schema *Object) *Slot {
	s := o.add(name, ObjectKind)
	s.object = schema
	return s
}

// AddArray adds a new slot holding an array node with the given schema.
func (o *Object) AddArray(name string, schema *Array) *Slot {
	s := o.add(name, ArrayKind)
	s.array = schema
	return s
}

func (o *Object) add(name string, kind Kind) *Slot {
	o.checkMutable("Add")
	s := &Slot{name: name, kind: kind, index: o.slots.Len(), owner: o}
	if _, err := o.slots.Add(name, s); err != nil {
		panic(errs.New(errs.InvalidSchema, errs.Path(o.className, name), "schema.Object.Add: duplicate property name %q", name))
	}
	return s
}

// String returns the class name of the schema.
func (o *Object) String() string {
	return o.className
}
