// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"cogentcore.org/xson/errs"
)

// admin.go has infrastructure code outside of the Node interface.

const (
	// Continue = true can be returned from tree iteration functions to continue
	// processing down the tree, as compared to Break = false which stops this branch.
	Continue = true

	// Break = false can be returned from tree iteration functions to stop processing
	// this branch of the tree.
	Break = false
)

// SetParent sets the parent of the given node to the given parent node,
// with the given index in the parent. A node that already has a parent
// cannot be given a different one: that is a [errs.ParentReassignment]
// error. Setting a nil parent detaches the node and calls its
// [NodeBase.OnDetach] hook. It does not add the node to or remove it from
// the children of the parent.
func SetParent(child Node, parent Node, index int) error {
	n := child.AsTree()
	if parent == nil {
		if n.Parent == nil {
			return nil
		}
		n.Parent = nil
		n.index = -1
		n.resetDepth()
		if n.OnDetach != nil {
			n.OnDetach(child)
		}
		return nil
	}
	if err := checkParent(child, parent); err != nil {
		return err
	}
	n.Parent = parent
	n.index = index
	n.resetDepth()
	return nil
}

// checkParent returns an error if the given node cannot be added to
// the given parent.
func checkParent(child Node, parent Node) error {
	n := child.AsTree()
	if n.Parent != nil && n.Parent != parent {
		return errs.New(errs.ParentReassignment, n.String(), "cannot change the parent of a node in a view-model tree")
	}
	if child == parent || n.IsAncestorOf(parent) {
		return errs.New(errs.ParentReassignment, n.String(), "cannot add a node to its own subtree")
	}
	return nil
}

// IsAncestorOf returns whether this node is an ancestor of the given node.
func (n *NodeBase) IsAncestorOf(other Node) bool {
	if other == nil {
		return false
	}
	for cur := other.AsTree().Parent; cur != nil; cur = cur.AsTree().Parent {
		if cur == n.This {
			return true
		}
	}
	return false
}

// resetDepth clears the cached depth of the node and its
// materialized descendants. A descendant only has a cached depth if its ancestors do.
func (n *NodeBase) resetDepth() {
	if n.depth < 0 {
		return
	}
	n.depth = -1
	if n.This == nil {
		return
	}
	for _, c := range n.This.loaded() {
		c.AsTree().resetDepth()
	}
}

// Scope returns the scope handle of the nearest object node from the
// given node up that has one, or nil.
func Scope(n Node) any {
	var scope any
	n.AsTree().WalkUp(func(k Node) bool {
		if o, ok := k.(*Object); ok && o.hasScope {
			scope = o.scope
			return Break
		}
		return Continue
	})
	return scope
}
