// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package patch converts the records of a [changes.Log] into an ordered
// list of patch operations, renders them as a JSON Patch (RFC 6902)
// document, and evaluates JSON Patch documents sent by a client.
package patch

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"cogentcore.org/xson/changes"
	"cogentcore.org/xson/errs"
	"cogentcore.org/xson/tree"
	jsonpatch "github.com/evanphx/json-patch"
	jsoniter "github.com/json-iterator/go"
)

// Patch is one patch operation.
type Patch struct {

	// Op is the operation: replace, add, or remove.
	Op changes.Kind

	// Path is the index path of the target: the slot indexes and array
	// positions from the root. It is empty for a replace of the root.
	Path []int

	// Pointer is the JSON pointer (RFC 6901) of the target in the JSON
	// encoding of the root.
	Pointer string

	// Value is the JSON encoding of the new value for replace and add
	// operations, and nil for remove operations.
	Value json.RawMessage
}

func (p Patch) String() string {
	if p.Value == nil {
		return fmt.Sprintf("%s %s", p.Op, p.Pointer)
	}
	return fmt.Sprintf("%s %s %s", p.Op, p.Pointer, p.Value)
}

// Generate converts the records of the given log into patches, in record
// order. Replace patches carry the current value of their slot or node,
// and add patches the current encoding of the added element. Records for
// nodes that are no longer in a tree that records into the log are
// skipped, as are records made inside a node or container slot after a
// replace of it, whose patch already carries their result. Index paths
// are those at the time of each record, so applying the patches in order
// to the JSON encoding of the trees at the start of the cycle yields
// their current encoding.
func Generate(log *changes.Log) ([]Patch, error) {
	recs := log.Changes()
	ps := make([]Patch, 0, len(recs))
	var covering []changes.Change
	for k, c := range recs {
		n, ok := c.Node.(tree.Node)
		if !ok || n.AsTree().ChangeLog() != log {
			continue
		}
		if slices.ContainsFunc(covering, func(r changes.Change) bool { return covers(r, n) }) {
			continue
		}
		if c.Kind == changes.Replace && (c.Slot == nil || c.Slot.IsContainer()) {
			covering = append(covering, c)
		}
		path, ptr := addressAt(n, recs, k)
		p := Patch{Op: c.Kind}
		var err error
		switch c.Kind {
		case changes.Replace:
			if c.Slot == nil {
				p.Path, p.Pointer = path, ptr
				p.Value, err = tree.ToJSON(n)
				break
			}
			p.Path = append(path, c.Slot.Index())
			p.Pointer = ptr + "/" + tree.EscapeToken(c.Slot.Name())
			p.Value, err = tree.SlotJSON(n.(*tree.Object), c.Slot)
		case changes.Add:
			p.Path = append(path, c.Index)
			p.Pointer = ptr + "/" + strconv.Itoa(c.Index)
			p.Value, err = tree.ToJSON(c.Item.(tree.Node))
		case changes.Remove:
			p.Path = append(path, c.Index)
			p.Pointer = ptr + "/" + strconv.Itoa(c.Index)
		}
		if err != nil {
			return nil, err
		}
		ps = append(ps, p)
	}
	return ps, nil
}

// covers returns whether the given node is inside the node or the
// container slot replaced by the given record.
func covers(r changes.Change, n tree.Node) bool {
	target, _ := r.Node.(tree.Node)
	for cur := n; cur != nil; cur = cur.AsTree().Parent {
		if r.Slot == nil {
			if cur == target {
				return true
			}
			continue
		}
		nb := cur.AsTree()
		if nb.Parent == target && nb.IndexInParent() == r.Slot.Index() {
			return true
		}
	}
	return false
}

// Drain returns the patches for the given log with [Generate], and then
// clears the log. It is called once at the end of each processing cycle.
func Drain(log *changes.Log) ([]Patch, error) {
	ps, err := Generate(log)
	log.Clear()
	return ps, err
}

// addressAt returns the index path and JSON pointer that the given node
// had when the record with the given index was made. Array positions are
// shifted back over the later add and remove records of each array.
func addressAt(n tree.Node, recs []changes.Change, k int) ([]int, string) {
	path := n.AsTree().IndexPath()
	parents := make([]tree.Node, len(path))
	i := len(path) - 1
	for cur := n; cur.AsTree().Parent != nil; cur = cur.AsTree().Parent {
		parents[i] = cur.AsTree().Parent
		i--
	}
	ptr := ""
	for d, par := range parents {
		switch p := par.(type) {
		case *tree.Array:
			idx := path[d]
			for j := len(recs) - 1; j > k; j-- {
				r := recs[j]
				if r.Node != any(p) {
					continue
				}
				switch r.Kind {
				case changes.Add:
					if idx > r.Index {
						idx--
					}
				case changes.Remove:
					if idx >= r.Index {
						idx++
					}
				}
			}
			path[d] = idx
			ptr += "/" + strconv.Itoa(idx)
		case *tree.Object:
			ptr += "/" + tree.EscapeToken(p.ObjectSchema().Slot(path[d]).Name())
		}
	}
	return path, ptr
}

// op is the JSON Patch form of a [Patch].
type op struct {
	Op    string          `json:"op"`
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value,omitempty"`
}

// Marshal returns the JSON Patch (RFC 6902) document for the given patches.
func Marshal(ps []Patch) ([]byte, error) {
	ops := make([]op, len(ps))
	for i, p := range ps {
		ops[i] = op{Op: p.Op.String(), Path: p.Pointer, Value: p.Value}
	}
	return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(ops)
}

// Apply applies the given patches to the given JSON document and returns
// the patched document. It is used to maintain a mirror of the JSON
// encoding of a tree, such as the one held by a client.
func Apply(doc []byte, ps []Patch) ([]byte, error) {
	if len(ps) == 0 {
		return doc, nil
	}
	b, err := Marshal(ps)
	if err != nil {
		return nil, err
	}
	jp, err := jsonpatch.DecodePatch(b)
	if err != nil {
		return nil, errs.Wrap(errs.InvalidPatch, "", err)
	}
	out, err := jp.Apply(doc)
	if err != nil {
		return nil, errs.Wrap(errs.InvalidPatch, "", err)
	}
	return out, nil
}

// Evaluate applies a JSON Patch document sent by a client to the tree of
// the given root. Only replace operations on value and action slots are
// accepted, and each value is applied with [tree.Object.InputJSON], so
// the slot must be editable and its input handlers are called. It stops
// at the first operation that fails.
func Evaluate(root tree.Node, body []byte) error {
	jp, err := jsonpatch.DecodePatch(body)
	if err != nil {
		return errs.Wrap(errs.InvalidPatch, "", err)
	}
	for _, o := range jp {
		path, err := o.Path()
		if err != nil {
			return errs.Wrap(errs.InvalidPatch, "", err)
		}
		if kind := o.Kind(); kind != "replace" {
			return errs.New(errs.InvalidPatch, path, "unsupported operation %q", kind)
		}
		n, slot, err := tree.Resolve(root, path)
		if err != nil {
			return err
		}
		obj, ok := n.(*tree.Object)
		if !ok || slot == nil {
			return errs.New(errs.InvalidPatch, path, "the target is not a property")
		}
		raw, has := o["value"]
		if !has {
			return errs.New(errs.InvalidPatch, path, "the operation has no value")
		}
		value := []byte("null")
		if raw != nil {
			value = *raw
		}
		if err := obj.InputJSON(slot, value); err != nil {
			return err
		}
	}
	return nil
}
