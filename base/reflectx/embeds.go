// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reflectx

import "reflect"

// TypeEmbeds returns whether the given type embeds the given embed type,
// at any level of recursive embedding. Pointer types are dereferenced
// first, so a *Derived embeds Base if Derived has an anonymous Base or
// *Base field.
func TypeEmbeds(typ, embed reflect.Type) bool {
	typ = NonPointerType(typ)
	embed = NonPointerType(embed)
	if typ == nil || embed == nil || typ.Kind() != reflect.Struct {
		return false
	}
	for i := range typ.NumField() {
		f := typ.Field(i)
		if !f.Anonymous {
			continue
		}
		ft := NonPointerType(f.Type)
		if ft == embed {
			return true
		}
		if TypeEmbeds(ft, embed) {
			return true
		}
	}
	return false
}

// SameOrEmbeds returns whether typ is identical to base, or embeds it.
func SameOrEmbeds(typ, base reflect.Type) bool {
	if typ == base {
		return true
	}
	if NonPointerType(typ) == NonPointerType(base) {
		return true
	}
	return TypeEmbeds(typ, base)
}
