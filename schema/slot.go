// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"strings"

	"cogentcore.org/xson/errs"
)

// Slot is one named, typed position within an [Object] schema.
// Slots are created with the Add methods of [Object] and configured
// with their Set methods until the owning schema is sealed.
type Slot struct {
	name     string
	kind     Kind
	index    int
	owner    *Object
	bind     string
	editable bool

	// object is the schema of Object kind slots.
	object *Object

	// array is the schema of Array kind slots.
	array *Array

	onInput  []InputHandler
	onAction ActionHandler
}

// Input is a value sent by a client for an editable slot, passed to
// the [InputHandler]s of the slot before it is applied.
type Input struct {

	// Node is the node receiving the input.
	Node any

	// Slot is the slot receiving the input.
	Slot *Slot

	// Value is the incoming value. Handlers may replace it.
	Value any

	// Old is the current value of the slot.
	Old any

	cancelled bool
}

// Cancel stops the input from being applied.
func (in *Input) Cancel() {
	in.cancelled = true
}

// Cancelled returns whether [Input.Cancel] has been called.
func (in *Input) Cancelled() bool {
	return in.cancelled
}

// InputHandler is called with client input for a slot.
type InputHandler func(in *Input)

// ActionHandler is called with the node when an [Action] slot is triggered.
type ActionHandler func(node any)

// Name returns the name of the slot.
func (s *Slot) Name() string { return s.name }

// Kind returns the declared value kind of the slot.
func (s *Slot) Kind() Kind { return s.kind }

// Index returns the stable index of the slot within its schema.
func (s *Slot) Index() int { return s.index }

// Owner returns the object schema that the slot belongs to.
func (s *Slot) Owner() *Object { return s.owner }

// Bind returns the raw bound path of the slot; it is empty for unbound slots.
func (s *Slot) Bind() string { return s.bind }

// Bound returns whether the slot has a bound path.
func (s *Slot) Bound() bool { return s.bind != "" }

// BindSegments returns the dot-separated segments of the bound path.
func (s *Slot) BindSegments() []string {
	if s.bind == "" {
		return nil
	}
	return strings.Split(s.bind, ".")
}

// Editable returns whether clients may send input for the slot.
func (s *Slot) Editable() bool { return s.editable }

// IsContainer returns whether the slot holds a nested node.
func (s *Slot) IsContainer() bool { return s.kind.IsContainer() }

// Object returns the nested schema of an [ObjectKind] slot.
func (s *Slot) Object() *Object { return s.object }

// Array returns the nested schema of an [ArrayKind] slot.
func (s *Slot) Array() *Array { return s.array }

// Path returns the schema path of the slot, in className.propertyName form.
func (s *Slot) Path() string {
	if s.owner == nil {
		return s.name
	}
	return errs.Path(s.owner.className, s.name)
}

// String returns the schema path of the slot.
func (s *Slot) String() string {
	return s.Path()
}

// InputHandlers returns the input handlers of the slot.
func (s *Slot) InputHandlers() []InputHandler { return s.onInput }

// ActionHandler returns the action handler of the slot, if any.
func (s *Slot) ActionHandler() ActionHandler { return s.onAction }

// SetBind sets the dotted bound path of the slot.
func (s *Slot) SetBind(path string) *Slot {
	s.owner.checkMutable("SetBind")
	s.bind = path
	return s
}

// SetEditable sets whether clients may send input for the slot.
func (s *Slot) SetEditable(editable bool) *Slot {
	s.owner.checkMutable("SetEditable")
	s.editable = editable
	return s
}

// OnInput adds a handler called with client input for the slot
// before it is applied. Handlers run in the order they were added.
func (s *Slot) OnInput(fun InputHandler) *Slot {
	s.owner.checkMutable("OnInput")
	s.onInput = append(s.onInput, fun)
	return s
}

// OnAction sets the handler called when an [Action] slot is triggered.
// It also makes the slot editable.
func (s *Slot) OnAction(fun ActionHandler) *Slot {
	s.owner.checkMutable("OnAction")
	s.onAction = fun
	s.editable = true
	return s
}
