// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"strings"

	"github.com/hashicorp/go-multierror"

	"cogentcore.org/xson/errs"
)

// Validate checks the given schema and all nested schemas, returning
// every problem found as one [multierror.Error] of [errs.InvalidSchema]
// errors, or nil if the schema is valid.
func Validate(c Container) error {
	v := &validator{seen: map[Container]bool{}}
	v.container(c)
	return v.errs.ErrorOrNil()
}

type validator struct {
	seen map[Container]bool
	errs *multierror.Error
}

func (v *validator) add(path, format string, args ...any) {
	v.errs = multierror.Append(v.errs, errs.New(errs.InvalidSchema, path, format, args...))
}

func (v *validator) container(c Container) {
	if c == nil || v.seen[c] {
		return
	}
	v.seen[c] = true
	switch c := c.(type) {
	case *Object:
		v.object(c)
	case *Array:
		if c.element == nil {
			v.add(c.ClassName(), "array schema has no element schema")
			return
		}
		v.container(c.element)
	}
}

func (v *validator) object(o *Object) {
	if o.className == "" {
		v.add("", "object schema has no class name")
	}
	for _, s := range o.slots.Values {
		path := s.Path()
		if s.name == "" {
			v.add(path, "property at index %d has no name", s.index)
		}
		if s.bind != "" {
			for _, seg := range strings.Split(s.bind, ".") {
				if seg == "" {
					v.add(path, "bound path %q has an empty segment", s.bind)
					break
				}
			}
		}
		switch s.kind {
		case ObjectKind:
			if s.object == nil {
				v.add(path, "object property has no schema")
				continue
			}
			v.container(s.object)
		case ArrayKind:
			if s.array == nil {
				v.add(path, "array property has no schema")
				continue
			}
			v.container(s.array)
		case Action:
			if s.bind != "" {
				v.add(path, "action property cannot be bound")
			}
		}
	}
}
