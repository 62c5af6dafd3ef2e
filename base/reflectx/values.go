// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reflectx

import (
	"fmt"
	"math"
	"reflect"
	"strconv"

	"golang.org/x/exp/constraints"
)

// Number is a Go numeric type that can be the target of a
// narrowing or widening conversion.
type Number interface {
	constraints.Integer | constraints.Float
}

// KindIsNumber returns whether the given kind is an integer,
// unsigned integer, or float kind.
func KindIsNumber(k reflect.Kind) bool {
	return KindIsInt(k) || KindIsUint(k) || KindIsFloat(k)
}

// KindIsInt returns whether the given kind is a signed integer kind.
func KindIsInt(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

// KindIsUint returns whether the given kind is an unsigned integer kind.
func KindIsUint(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

// KindIsFloat returns whether the given kind is a float kind.
func KindIsFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

// Convenience functions for converting any value to a given basic type.
// They use the "ok" bool mechanism to report failure and are as robust
// and general as possible, handling common-sense cases such as
// string <-> number. Nil values return !ok.

// ToBool robustly converts to a bool any basic elemental type
// (including pointers to such).
func ToBool(v any) (bool, bool) {
	if AnyIsNil(v) {
		return false, false
	}
	rv := NonPointerValue(reflect.ValueOf(v))
	vk := rv.Kind()
	switch {
	case KindIsInt(vk):
		return rv.Int() != 0, true
	case KindIsUint(vk):
		return rv.Uint() != 0, true
	case vk == reflect.Bool:
		return rv.Bool(), true
	case KindIsFloat(vk):
		return rv.Float() != 0, true
	case vk == reflect.String:
		r, err := strconv.ParseBool(rv.String())
		if err != nil {
			return false, false
		}
		return r, true
	}
	return false, false
}

// ToInt robustly converts to an int64 any basic elemental type
// (including pointers to such).
func ToInt(v any) (int64, bool) {
	if AnyIsNil(v) {
		return 0, false
	}
	rv := NonPointerValue(reflect.ValueOf(v))
	vk := rv.Kind()
	switch {
	case KindIsInt(vk):
		return rv.Int(), true
	case KindIsUint(vk):
		return int64(rv.Uint()), true
	case vk == reflect.Bool:
		if rv.Bool() {
			return 1, true
		}
		return 0, true
	case KindIsFloat(vk):
		return int64(rv.Float()), true
	case vk == reflect.String:
		r, err := strconv.ParseInt(rv.String(), 0, 64)
		if err != nil {
			return 0, false
		}
		return r, true
	}
	return 0, false
}

// ToFloat robustly converts to a float64 any basic elemental type
// (including pointers to such).
func ToFloat(v any) (float64, bool) {
	if AnyIsNil(v) {
		return 0, false
	}
	rv := NonPointerValue(reflect.ValueOf(v))
	vk := rv.Kind()
	switch {
	case KindIsInt(vk):
		return float64(rv.Int()), true
	case KindIsUint(vk):
		return float64(rv.Uint()), true
	case vk == reflect.Bool:
		if rv.Bool() {
			return 1, true
		}
		return 0, true
	case KindIsFloat(vk):
		return rv.Float(), true
	case vk == reflect.String:
		r, err := strconv.ParseFloat(rv.String(), 64)
		if err != nil {
			return 0, false
		}
		return r, true
	}
	return 0, false
}

// ToString robustly converts anything to a string. Because [fmt.Stringer]
// is so ubiquitous, and we fall back to fmt.Sprintf(%v) in the worst case,
// this works in all cases, so there is no bool return value.
func ToString(v any) string {
	if AnyIsNil(v) {
		return ""
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	rv := NonPointerValue(reflect.ValueOf(v))
	vk := rv.Kind()
	switch {
	case KindIsInt(vk):
		return strconv.FormatInt(rv.Int(), 10)
	case KindIsUint(vk):
		return strconv.FormatUint(rv.Uint(), 10)
	case vk == reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case KindIsFloat(vk):
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64)
	case vk == reflect.String:
		return rv.String()
	}
	return fmt.Sprintf("%v", v)
}

// Convert converts the given number to the number type T, returning
// false if the value does not fit in T (narrowing overflow, or a
// fractional value converted to an integer type).
func Convert[T Number, F Number](from F) (T, bool) {
	to := T(from)
	if F(to) != from {
		return to, false
	}
	// catch sign flips that survive the round trip
	if (from < 0) != (to < 0) {
		return to, false
	}
	return to, true
}

// SetNumber sets the given settable numeric value from the given float64,
// checking that the value fits the destination kind.
func SetNumber(dst reflect.Value, f float64) error {
	k := dst.Kind()
	switch {
	case KindIsInt(k):
		i, ok := Convert[int64](f)
		if !ok || dst.OverflowInt(i) {
			return fmt.Errorf("value %v overflows %v", f, dst.Type())
		}
		dst.SetInt(i)
	case KindIsUint(k):
		u, ok := Convert[uint64](f)
		if !ok || dst.OverflowUint(u) {
			return fmt.Errorf("value %v overflows %v", f, dst.Type())
		}
		dst.SetUint(u)
	case KindIsFloat(k):
		if k == reflect.Float32 && !math.IsInf(f, 0) && math.Abs(f) > math.MaxFloat32 {
			return fmt.Errorf("value %v overflows %v", f, dst.Type())
		}
		dst.SetFloat(f)
	default:
		return fmt.Errorf("cannot set number on value of type %v", dst.Type())
	}
	return nil
}

// SetInt sets the given settable numeric value from the given int64,
// checking that the value fits the destination kind.
func SetInt(dst reflect.Value, i int64) error {
	k := dst.Kind()
	switch {
	case KindIsInt(k):
		if dst.OverflowInt(i) {
			return fmt.Errorf("value %d overflows %v", i, dst.Type())
		}
		dst.SetInt(i)
	case KindIsUint(k):
		if i < 0 || dst.OverflowUint(uint64(i)) {
			return fmt.Errorf("value %d overflows %v", i, dst.Type())
		}
		dst.SetUint(uint64(i))
	case KindIsFloat(k):
		dst.SetFloat(float64(i))
	default:
		return fmt.Errorf("cannot set int on value of type %v", dst.Type())
	}
	return nil
}
