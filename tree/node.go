// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tree provides the mutable view-model tree: [Object] nodes
// holding the slot values of an object schema, and [Array] nodes holding
// object elements of one element schema. Nodes can be bound to backing
// data objects, and they record their mutations in the [changes.Log]
// attached to the root of their tree.
package tree

import (
	"cogentcore.org/xson/schema"
)

// Node is an interface that all tree nodes satisfy: [*Object] and
// [*Array]. The core tree functionality is defined on [NodeBase], which
// you can get with [Node.AsTree].
type Node interface {

	// AsTree returns the [NodeBase] of this Node.
	AsTree() *NodeBase

	// Schema returns the schema of the node, which is nil if no schema
	// has been attached.
	Schema() schema.Container

	// NumChildren returns the number of child nodes of this node.
	// For arrays it materializes a pending source.
	NumChildren() int

	// Child returns the child node at the given index, or nil. For objects
	// the index is a slot index, and value slots have no child.
	Child(i int) Node

	// loaded returns the child nodes that exist,
	// without materializing pending sources.
	loaded() []Node
}
