// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bind compiles the bound paths of schema slots into cached
// accessors that read and write members of backing data objects.
//
// A bound path is a dot-separated list of member names such as
// "Address.City". Each segment names an exported struct field, or a
// getter method with an optional Set method, of the type produced by
// the previous segment. Names are also matched in their UpperCamel form,
// so "first_name" binds to FirstName.
package bind

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"golang.org/x/sync/singleflight"

	"cogentcore.org/xson/base/reflectx"
	"cogentcore.org/xson/config"
	"cogentcore.org/xson/errs"
	"cogentcore.org/xson/schema"
)

// Default is the compiler used by nodes that are not given one.
var Default = NewCompiler(config.Default())

// Compiler resolves and caches [Accessor]s keyed by slot and backing type.
// It is safe for concurrent use: lookups do not block each other, and
// concurrent compilation of the same key is done only once.
type Compiler struct {
	config *config.Config

	// cache maps a key to its *Accessor.
	cache sync.Map

	// current maps a *schema.Slot to the *Accessor last resolved for it,
	// which is used to detect incompatible backing types.
	current sync.Map

	group singleflight.Group
}

type key struct {
	slot *schema.Slot
	typ  reflect.Type
}

// NewCompiler returns a new compiler with the given configuration.
func NewCompiler(cfg *config.Config) *Compiler {
	if cfg == nil {
		cfg = config.Default()
	}
	if cfg.TimeLayout == "" {
		cfg.TimeLayout = config.DefaultTimeLayout
	}
	return &Compiler{config: cfg}
}

// Config returns the configuration of the compiler.
func (c *Compiler) Config() *config.Config {
	return c.config
}

// Resolve returns the accessor for the given bound slot on the given
// backing type, compiling it on first use.
//
// The accessor last resolved for the slot is reused when typ is the same
// type, and typ may also embed it. Otherwise the slot is being bound to an
// incompatible type: in strict rebind mode that is a
// [errs.BindingTypeConflict] error, and by default a warning is logged and
// the accessor for the new type is used.
func (c *Compiler) Resolve(slot *schema.Slot, typ reflect.Type) (*Accessor, error) {
	if cur, ok := c.current.Load(slot); ok {
		ca := cur.(*Accessor)
		if ca.Type == typ {
			return ca, nil
		}
		if reflectx.SameOrEmbeds(typ, ca.Type) {
			// the base type stays the reference for later rebinds
			return c.lookup(slot, typ)
		}
		if c.config.StrictRebind {
			return nil, &errs.Error{Kind: errs.BindingTypeConflict, Path: slot.Path(),
				Declared: ca.Type.String(), Actual: typ.String(),
				Message: "the existing binding was created for another type of data object"}
		}
		slog.Warn("bind.Compiler.Resolve: the existing binding was created for another type of data object; the binding needs to be recreated",
			"path", slot.Path(), "cached", ca.Type.String(), "type", typ.String())
	}
	a, err := c.lookup(slot, typ)
	if err != nil {
		return nil, err
	}
	c.current.Store(slot, a)
	return a, nil
}

// lookup returns the cached accessor for the given key, compiling it if
// needed. Concurrent calls for the same key share one compilation.
func (c *Compiler) lookup(slot *schema.Slot, typ reflect.Type) (*Accessor, error) {
	k := key{slot, typ}
	if a, ok := c.cache.Load(k); ok {
		return a.(*Accessor), nil
	}
	v, err, _ := c.group.Do(fmt.Sprintf("%p|%p", slot, typ), func() (any, error) {
		if a, ok := c.cache.Load(k); ok {
			return a, nil
		}
		a, err := compile(slot, typ, c.config.TimeLayout, c.config.StrictBinding)
		if err != nil {
			return nil, err
		}
		if a.Unbound {
			slog.Debug("bind.Compiler: bound path does not resolve; slot is verified unbound for type",
				"path", slot.Path(), "bind", slot.Bind(), "type", typ.String())
		}
		c.cache.Store(k, a)
		return a, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Accessor), nil
}

// Cached returns the number of compiled accessors in the cache.
func (c *Compiler) Cached() int {
	n := 0
	c.cache.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
