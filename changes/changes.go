// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package changes provides the change log that view-model nodes record
// their mutations in during one processing cycle. The log is drained into
// patches at the end of the cycle and then cleared.
package changes

import (
	"fmt"

	"cogentcore.org/xson/schema"
)

// Kind is the kind of a [Change].
type Kind int32

const (
	// Replace is a replaced slot value. A Replace with a nil slot
	// replaces the whole node.
	Replace Kind = iota

	// Add is an element added to an array.
	Add

	// Remove is an element removed from an array.
	Remove
)

func (k Kind) String() string {
	switch k {
	case Replace:
		return "replace"
	case Add:
		return "add"
	case Remove:
		return "remove"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Change is one mutation record.
type Change struct {

	// Kind is the kind of change.
	Kind Kind

	// Node is the node that changed: the owner of the slot for [Replace],
	// and the array node for [Add] and [Remove].
	Node any

	// Slot is the replaced slot for [Replace], or nil if the whole node
	// was replaced. For [Add] and [Remove] it is the slot holding the array
	// in its parent, or nil for a root array.
	Slot *schema.Slot

	// Index is the element index for [Add] and [Remove].
	Index int

	// Item is the added element for [Add].
	Item any
}

func (c Change) String() string {
	switch c.Kind {
	case Replace:
		if c.Slot == nil {
			return "replace(node)"
		}
		return fmt.Sprintf("replace(%s)", c.Slot.Path())
	}
	return fmt.Sprintf("%s(%d)", c.Kind, c.Index)
}

// replaceKey identifies a replaced (node, slot) pair.
type replaceKey struct {
	node any
	slot *schema.Slot
}

// Log is an ordered list of change records. Replace records are
// deduplicated by (node, slot) until the log is cleared; Add and Remove
// records are never deduplicated, as their order is needed to replay
// them. Multiple trees may record into the same log.
//
// A Log is not safe for concurrent use: one logical unit of work at a
// time mutates the trees that record into it.
type Log struct {
	changes  []Change
	replaced map[replaceKey]struct{}
}

// New returns a new empty log.
func New() *Log {
	return &Log{replaced: map[replaceKey]struct{}{}}
}

// Record records a replaced value of the given slot of the given node.
// It does nothing if the pair has already been recorded since the last
// [Log.Clear]. A nil slot records a replace of the whole node.
func (l *Log) Record(node any, slot *schema.Slot) {
	k := replaceKey{node, slot}
	if l.replaced == nil {
		l.replaced = map[replaceKey]struct{}{}
	}
	if _, has := l.replaced[k]; has {
		return
	}
	l.replaced[k] = struct{}{}
	l.changes = append(l.changes, Change{Kind: Replace, Node: node, Slot: slot, Index: -1})
}

// RecordAdd records the given item added at the given index of the
// given array node, which is held in the given slot of its parent.
func (l *Log) RecordAdd(array any, slot *schema.Slot, index int, item any) {
	l.changes = append(l.changes, Change{Kind: Add, Node: array, Slot: slot, Index: index, Item: item})
}

// RecordRemove records the removal of the element at the given index
// of the given array node.
func (l *Log) RecordRemove(array any, slot *schema.Slot, index int) {
	l.changes = append(l.changes, Change{Kind: Remove, Node: array, Slot: slot, Index: index})
}

// Len returns the number of records in the log.
func (l *Log) Len() int {
	return len(l.changes)
}

// Changes returns the records in the order they were made.
// The returned slice must not be modified.
func (l *Log) Changes() []Change {
	return l.changes
}

// Has returns whether a replace of the given (node, slot) pair is
// in the log.
func (l *Log) Has(node any, slot *schema.Slot) bool {
	_, has := l.replaced[replaceKey{node, slot}]
	return has
}

// Clear empties the log. It is called once per processing cycle,
// after the log has been drained.
func (l *Log) Clear() {
	clear(l.changes)
	l.changes = l.changes[:0]
	clear(l.replaced)
}
