// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"strconv"
	"strings"

	"cogentcore.org/xson/errs"
	"cogentcore.org/xson/schema"
)

// pointerEscaper escapes JSON pointer reference tokens.
var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// pointerUnescaper unescapes JSON pointer reference tokens.
var pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")

// EscapeToken escapes a slot name for use as a JSON pointer reference token.
func EscapeToken(name string) string {
	return pointerEscaper.Replace(name)
}

// Pointer returns the JSON pointer (RFC 6901) of the given node in the
// JSON encoding of its root: slot names and array positions separated
// by slashes. It is "" for a root.
func Pointer(n Node) string {
	nb := n.AsTree()
	if nb.Parent == nil {
		return ""
	}
	pp := Pointer(nb.Parent)
	if p, ok := nb.Parent.(*Object); ok {
		return pp + "/" + pointerEscaper.Replace(p.schema.Slot(nb.index).Name())
	}
	return pp + "/" + strconv.Itoa(nb.index)
}

// SlotPointer returns the JSON pointer of the given slot of the given object.
func SlotPointer(o *Object, slot *schema.Slot) string {
	return Pointer(o) + "/" + pointerEscaper.Replace(slot.Name())
}

// Resolve returns the target of the given JSON pointer in the tree of the
// given root. A pointer to a slot returns the object and the slot; a
// pointer to a node returns the node and a nil slot. A pointer that does
// not address a slot or element is an error.
func Resolve(root Node, ptr string) (Node, *schema.Slot, error) {
	if ptr == "" {
		return root, nil, nil
	}
	if !strings.HasPrefix(ptr, "/") {
		return nil, nil, errs.New(errs.InvalidPatch, ptr, "a JSON pointer must start with /")
	}
	toks := strings.Split(ptr[1:], "/")
	cur := root
	for i, tok := range toks {
		tok = pointerUnescaper.Replace(tok)
		last := i == len(toks)-1
		switch x := cur.(type) {
		case *Object:
			slot, err := x.Slot(tok)
			if err != nil {
				return nil, nil, err
			}
			if last {
				return x, slot, nil
			}
			cur = x.Child(slot.Index())
			if cur == nil {
				return nil, nil, errs.New(errs.InvalidPatch, ptr, "%s holds no node", slot.Path())
			}
		case *Array:
			idx, err := strconv.Atoi(tok)
			if err != nil {
				return nil, nil, errs.New(errs.InvalidPatch, ptr, "%q is not an array index", tok)
			}
			e, err := x.At(idx)
			if err != nil {
				return nil, nil, err
			}
			cur = e
		}
	}
	return cur, nil, nil
}

// ResolveIndex returns the node at the given index path from the given
// root, as returned by [NodeBase.IndexPath].
func ResolveIndex(root Node, path []int) (Node, error) {
	cur := root
	for _, i := range path {
		next := cur.Child(i)
		if next == nil {
			return nil, errs.OutOfRange(cur.AsTree().String(), i, cur.NumChildren())
		}
		cur = next
	}
	return cur, nil
}
