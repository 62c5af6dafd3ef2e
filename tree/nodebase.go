// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"strconv"
	"strings"
	"sync/atomic"

	"cogentcore.org/xson/bind"
	"cogentcore.org/xson/changes"
)

// NodeBase provides the core functionality shared by [Object] and
// [Array]: the parent reference, the cached index in the parent, the
// cached depth, and, on roots, the change log and binding compiler.
type NodeBase struct {

	// This is the value of this Node as its true underlying type.
	This Node

	// Parent is the parent of this node, which is set when this node is
	// added to a parent. Once set, it can only be changed back to nil,
	// by removing the node from its parent. It is nil for root nodes.
	Parent Node

	// OnDetach is called when the node is removed from its parent.
	OnDetach func(n Node)

	// id is a unique handle for the node.
	id uint64

	// index is the slot index of this node in a parent object, or its
	// position in a parent array. It is -1 for roots.
	index int

	// depth is the cached number of ancestors, or -1 if unknown.
	depth int

	// log is the change log attached to a root node.
	log *changes.Log

	// compiler is the binding compiler attached to a root node.
	compiler *bind.Compiler
}

// numNodes is the number of nodes ever created, used for node ids.
var numNodes atomic.Uint64

func (n *NodeBase) init(this Node) {
	n.This = this
	n.id = numNodes.Add(1)
	n.index = -1
	n.depth = -1
}

// AsTree returns the [NodeBase] for this Node.
func (n *NodeBase) AsTree() *NodeBase {
	return n
}

// ID returns the unique handle of the node.
func (n *NodeBase) ID() uint64 {
	return n.id
}

// IndexInParent returns the cached slot index of this node in its
// parent object, or its position in its parent array. It returns -1
// for root nodes.
func (n *NodeBase) IndexInParent() int {
	if n.Parent == nil {
		return -1
	}
	return n.index
}

// Depth returns the number of ancestors of the node. It is cached
// until the node is moved.
func (n *NodeBase) Depth() int {
	if n.depth >= 0 {
		return n.depth
	}
	if n.Parent == nil {
		n.depth = 0
	} else {
		n.depth = n.Parent.AsTree().Depth() + 1
	}
	return n.depth
}

// IndexPath returns the path of indexes from the root to this node:
// for each ancestor, its slot index if its parent is an object, or its
// position if its parent is an array. It is empty for a root.
func (n *NodeBase) IndexPath() []int {
	path := make([]int, n.Depth())
	n.fillIndexPath(path)
	return path
}

func (n *NodeBase) fillIndexPath(path []int) {
	i := len(path) - 1
	for cur := n; cur.Parent != nil; cur = cur.Parent.AsTree() {
		path[i] = cur.index
		i--
	}
}

// Path returns a human readable path of slot names and array positions
// from the root to this node, in the form Person.friends[1].address.
func (n *NodeBase) Path() string {
	if n.Parent == nil {
		if n.This == nil || n.This.Schema() == nil {
			return ""
		}
		return n.This.Schema().ClassName()
	}
	pp := n.Parent.AsTree().Path()
	switch p := n.Parent.(type) {
	case *Array:
		return pp + "[" + strconv.Itoa(n.index) + "]"
	case *Object:
		if p.schema != nil {
			if s := p.schema.Slot(n.index); s != nil {
				return pp + "." + s.Name()
			}
		}
	}
	return pp + "." + strconv.Itoa(n.index)
}

// String implements the [fmt.Stringer] interface by returning the path of the node.
func (n *NodeBase) String() string {
	if n == nil {
		return "nil"
	}
	return strings.TrimPrefix(n.Path(), ".")
}

// IsRoot returns whether the node has no parent.
func (n *NodeBase) IsRoot() bool {
	return n.Parent == nil
}

// Root returns the root node of the tree of this node.
func (n *NodeBase) Root() Node {
	cur := n
	for cur.Parent != nil {
		cur = cur.Parent.AsTree()
	}
	return cur.This
}

// ChangeLog returns the change log attached to the root of the tree
// of this node, or nil if there is none.
func (n *NodeBase) ChangeLog() *changes.Log {
	return n.Root().AsTree().log
}

// SetChangeLog attaches the given change log to this node, which must be
// a root. Mutations of any node in the tree are recorded in it. The same
// log can be attached to multiple roots. A nil log stops recording.
func (n *NodeBase) SetChangeLog(log *changes.Log) {
	n.log = log
}

// Compiler returns the binding compiler attached to the root of the
// tree of this node, or [bind.Default].
func (n *NodeBase) Compiler() *bind.Compiler {
	if c := n.Root().AsTree().compiler; c != nil {
		return c
	}
	return bind.Default
}

// SetCompiler attaches the given binding compiler to this node, which
// must be a root.
func (n *NodeBase) SetCompiler(c *bind.Compiler) {
	n.compiler = c
}

// WalkUp calls the given function on the node and all of its parents,
// stopping if the function returns [Break]. It returns whether the
// walk completed without breaking.
func (n *NodeBase) WalkUp(fun func(n Node) bool) bool {
	for cur := n.This; cur != nil; cur = cur.AsTree().Parent {
		if fun(cur) == Break {
			return false
		}
	}
	return true
}

// WalkDown calls the given function on the node and all of its
// descendants in depth-first order. Children of a node are skipped
// if the function returns [Break] for it. Pending array sources are
// materialized as they are reached.
func (n *NodeBase) WalkDown(fun func(n Node) bool) {
	if fun(n.This) == Break {
		return
	}
	for i := range n.This.NumChildren() {
		if c := n.This.Child(i); c != nil {
			c.AsTree().WalkDown(fun)
		}
	}
}
