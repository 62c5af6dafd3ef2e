// Copyright (c) 2020, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
This file provides basic tree walking functions for iterative traversal
of the tree in up / down directions. As compared to the NodeBase walk
methods, these are for more dynamic, piecemeal processing. Object slots
that hold no node are skipped.
*/

package tree

import "iter"

// Last returns the last node in the tree.
func Last(n Node) Node {
	n = lastChild(n)
	last := n
	n.AsTree().WalkDown(func(k Node) bool {
		last = k
		return Continue
	})
	return last
}

// lastChild returns the last child under the given node,
// or the node itself if it has no children.
func lastChild(n Node) Node {
	if c := childBefore(n, n.NumChildren()); c != nil {
		return lastChild(c)
	}
	return n
}

// childBefore returns the last child of the given node with an index
// less than the given index, or nil.
func childBefore(n Node, idx int) Node {
	for i := idx - 1; i >= 0; i-- {
		if c := n.Child(i); c != nil {
			return c
		}
	}
	return nil
}

// childAfter returns the first child of the given node with an index
// greater than the given index, or nil.
func childAfter(n Node, idx int) Node {
	for i := idx + 1; i < n.NumChildren(); i++ {
		if c := n.Child(i); c != nil {
			return c
		}
	}
	return nil
}

// Previous returns the previous node in the tree,
// or nil if this is the root node.
func Previous(n Node) Node {
	nb := n.AsTree()
	if nb.Parent == nil {
		return nil
	}
	if nn := childBefore(nb.Parent, nb.IndexInParent()); nn != nil {
		return lastChild(nn)
	}
	return nb.Parent
}

// Next returns next node in the tree,
// or nil if this is the last node.
func Next(n Node) Node {
	if c := childAfter(n, -1); c != nil {
		return c
	}
	return NextSibling(n)
}

// NextSibling returns the next sibling of this node, or of its nearest
// ancestor that has one, or nil.
func NextSibling(n Node) Node {
	nb := n.AsTree()
	if nb.Parent == nil {
		return nil
	}
	if nn := childAfter(nb.Parent, nb.IndexInParent()); nn != nil {
		return nn
	}
	return NextSibling(nb.Parent)
}

// All returns an iterator over the given node and all of its
// descendants in depth-first order.
func All(n Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		stop := false
		n.AsTree().WalkDown(func(k Node) bool {
			if stop {
				return Break
			}
			if !yield(k) {
				stop = true
				return Break
			}
			return Continue
		})
	}
}
