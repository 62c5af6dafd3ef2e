// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"fmt"
	"math"
	"reflect"

	"github.com/shopspring/decimal"

	"cogentcore.org/xson/base/reflectx"
)

// Kind is the declared value kind of a [Slot].
type Kind int32

const (
	// Bool values are stored as bool.
	Bool Kind = iota

	// Int values are stored as int64.
	Int

	// Float values are stored as float64.
	Float

	// Decimal values are stored as [decimal.Decimal].
	Decimal

	// String values are stored as string.
	String

	// ObjectKind slots hold a nested object node.
	ObjectKind

	// ArrayKind slots hold a nested array node.
	ArrayKind

	// Action slots hold no value; input on them invokes a handler.
	Action
)

var kindNames = [...]string{"Bool", "Int", "Float", "Decimal", "String", "Object", "Array", "Action"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// IsContainer returns whether values of this kind are nodes.
func (k Kind) IsContainer() bool {
	return k == ObjectKind || k == ArrayKind
}

// IsValue returns whether values of this kind are stored inline.
func (k Kind) IsValue() bool {
	return k >= Bool && k <= String
}

// Default returns the default value of the kind. It is nil for
// container and action kinds.
func (k Kind) Default() any {
	switch k {
	case Bool:
		return false
	case Int:
		return int64(0)
	case Float:
		return float64(0)
	case Decimal:
		return decimal.Zero
	case String:
		return ""
	}
	return nil
}

// GoType returns the Go type that values of this kind are stored as.
// It is nil for container and action kinds.
func (k Kind) GoType() reflect.Type {
	switch k {
	case Bool:
		return reflect.TypeFor[bool]()
	case Int:
		return reflect.TypeFor[int64]()
	case Float:
		return reflect.TypeFor[float64]()
	case Decimal:
		return reflect.TypeFor[decimal.Decimal]()
	case String:
		return reflect.TypeFor[string]()
	}
	return nil
}

// Coerce converts the given Go value to the stored representation of
// the kind. Any Go integer type converts to Int, any number to Float
// and Decimal, and integral floats to Int. It returns false if there
// is no lossless conversion. A nil value coerces to the default.
func (k Kind) Coerce(v any) (any, bool) {
	if v == nil {
		return k.Default(), k.IsValue()
	}
	switch k {
	case Bool:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Bool {
			return rv.Bool(), true
		}
	case String:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.String {
			return rv.String(), true
		}
	case Decimal:
		switch x := v.(type) {
		case decimal.Decimal:
			return x, true
		case *decimal.Decimal:
			if x == nil {
				return decimal.Zero, true
			}
			return *x, true
		}
		rv := reflect.ValueOf(v)
		switch {
		case reflectx.KindIsInt(rv.Kind()):
			return decimal.NewFromInt(rv.Int()), true
		case reflectx.KindIsUint(rv.Kind()):
			return decimal.NewFromInt(int64(rv.Uint())), rv.Uint() <= math.MaxInt64
		case reflectx.KindIsFloat(rv.Kind()):
			if !finite(rv.Float()) {
				return nil, false
			}
			return decimal.NewFromFloat(rv.Float()), true
		}
	case Int:
		rv := reflect.ValueOf(v)
		switch {
		case reflectx.KindIsInt(rv.Kind()):
			return rv.Int(), true
		case reflectx.KindIsUint(rv.Kind()):
			return reflectx.Convert[int64](rv.Uint())
		case reflectx.KindIsFloat(rv.Kind()):
			return reflectx.Convert[int64](rv.Float())
		}
		if d, ok := v.(decimal.Decimal); ok && d.Equal(d.Truncate(0)) {
			return d.IntPart(), true
		}
	case Float:
		rv := reflect.ValueOf(v)
		if reflectx.KindIsNumber(rv.Kind()) {
			f, _ := reflectx.ToFloat(v)
			return f, finite(f)
		}
		if d, ok := v.(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f, true
		}
	}
	return nil, false
}

// finite returns whether f is neither NaN nor an infinity, which JSON
// cannot represent.
func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
