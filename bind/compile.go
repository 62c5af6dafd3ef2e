// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bind

import (
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/iancoleman/strcase"
	"github.com/shopspring/decimal"

	"cogentcore.org/xson/base/reflectx"
	"cogentcore.org/xson/errs"
	"cogentcore.org/xson/schema"
)

var (
	timeType    = reflect.TypeFor[time.Time]()
	decimalType = reflect.TypeFor[decimal.Decimal]()
	errorType   = reflect.TypeFor[error]()
)

// compile resolves the bound path of the given slot against the given
// backing type. It returns an unbound accessor with no error if the path
// does not resolve and strict is false.
func compile(slot *schema.Slot, typ reflect.Type, layout string, strict bool) (*Accessor, error) {
	a := &Accessor{Slot: slot, Type: typ}
	cur := typ
	segs := slot.BindSegments()
	if len(segs) == 0 {
		a.Unbound = true
		return a, nil
	}
	for i, seg := range segs {
		st, ok := resolveMember(cur, seg)
		if !ok {
			if strict {
				return nil, errs.New(errs.BindingUnresolvable, slot.Path(),
					"bound path %q: no member %q on %v", slot.Bind(), seg, cur)
			}
			a.Unbound = true
			a.steps = nil
			return a, nil
		}
		if i < len(segs)-1 && reflectx.NonPointerType(st.typ).Kind() != reflect.Struct {
			if strict {
				return nil, errs.New(errs.BindingUnresolvable, slot.Path(),
					"bound path %q: member %q of %v is not a struct", slot.Bind(), seg, cur)
			}
			a.Unbound = true
			a.steps = nil
			return a, nil
		}
		a.steps = append(a.steps, st)
		cur = st.typ
	}
	a.last = &a.steps[len(a.steps)-1]
	a.Member = cur
	if err := a.convert(layout); err != nil {
		return nil, err
	}
	if a.last.method >= 0 && a.last.setter < 0 {
		a.set = nil
	}
	return a, nil
}

// resolveMember finds the exported field or getter method with the given
// name on the given type, also trying the Go-style (UpperCamel) version of
// the name.
func resolveMember(typ reflect.Type, name string) (step, bool) {
	nt := reflectx.NonPointerType(typ)
	if nt == nil || nt.Kind() != reflect.Struct {
		return step{}, false
	}
	names := []string{name}
	if camel := strcase.ToCamel(name); camel != name {
		names = append(names, camel)
	}
	for _, nm := range names {
		if f, ok := nt.FieldByName(nm); ok && f.IsExported() {
			return step{name: nm, field: f.Index, method: -1, setter: -1, typ: f.Type}, true
		}
	}
	pt := reflect.PointerTo(nt)
	for _, nm := range names {
		m, ok := pt.MethodByName(nm)
		if !ok || m.Type.NumIn() != 1 || m.Type.NumOut() != 1 {
			continue
		}
		st := step{name: nm, method: m.Index, setter: -1, typ: m.Type.Out(0)}
		if sm, ok := pt.MethodByName("Set" + nm); ok && sm.Type.NumIn() == 2 && st.typ.AssignableTo(sm.Type.In(1)) &&
			(sm.Type.NumOut() == 0 || (sm.Type.NumOut() == 1 && sm.Type.Out(0) == errorType)) {
			st.setter = sm.Index
		}
		return st, true
	}
	return step{}, false
}

// incompatible returns the error for a member type with no conversion
// to the slot kind.
func (a *Accessor) incompatible() error {
	return errs.TypeMismatch(errs.BindingUnresolvable, a.Slot.Path(), a.Slot.Kind().String(),
		fmt.Sprintf("%v.%s (%v)", reflectx.NonPointerType(a.Type), a.Slot.Bind(), a.Member), "")
}

// convert builds the get and set closures that convert between the
// terminal member type and the slot kind.
func (a *Accessor) convert(layout string) error {
	mt := a.Member
	kind := a.Slot.Kind()
	var get func(v reflect.Value) (any, error)
	var set func(v reflect.Value, x any) error

	switch {
	case kind == schema.ObjectKind:
		et := reflectx.NonPointerType(mt)
		if et.Kind() != reflect.Struct && mt.Kind() != reflect.Interface {
			return a.incompatible()
		}
		get, set = containerGet, containerSet
	case kind == schema.ArrayKind:
		if !isSequence(mt) {
			return a.incompatible()
		}
		get, set = containerGet, containerSet
	case kind == schema.Action:
		return a.incompatible()
	case mt.Kind() == reflect.Pointer:
		eg, es, ok := valueConverters(kind, mt.Elem(), layout)
		if !ok {
			return a.incompatible()
		}
		get = func(v reflect.Value) (any, error) {
			if v.IsNil() {
				return kind.Default(), nil
			}
			return eg(v.Elem())
		}
		set = func(v reflect.Value, x any) error {
			if v.IsNil() {
				v.Set(reflect.New(mt.Elem()))
			}
			return es(v.Elem(), x)
		}
	default:
		var ok bool
		get, set, ok = valueConverters(kind, mt, layout)
		if !ok {
			return a.incompatible()
		}
	}
	a.get = get
	a.set = set
	if a.last.setter >= 0 {
		a.set = a.setterCall(set)
	}
	return nil
}

// setterCall wraps the given member setter to call the setter method of
// the last step with a converted value.
func (a *Accessor) setterCall(set func(v reflect.Value, x any) error) func(owner reflect.Value, x any) error {
	idx := a.last.setter
	mt := a.Member
	return func(owner reflect.Value, x any) error {
		arg := reflect.New(mt).Elem()
		if err := set(arg, x); err != nil {
			return err
		}
		out := reflectx.OnePointerValue(owner).Method(idx).Call([]reflect.Value{arg})
		if len(out) == 1 && !out[0].IsNil() {
			return out[0].Interface().(error)
		}
		return nil
	}
}

// isSequence returns whether values of the given type can back an array.
func isSequence(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Slice, reflect.Array, reflect.Interface:
		return true
	case reflect.Pointer:
		return t.Elem().Kind() == reflect.Slice || t.Elem().Kind() == reflect.Array
	case reflect.Func:
		// iter.Seq[T]
		return t.NumIn() == 1 && t.NumOut() == 0 && t.In(0).Kind() == reflect.Func &&
			t.In(0).NumIn() == 1 && t.In(0).NumOut() == 1 && t.In(0).Out(0).Kind() == reflect.Bool
	}
	return false
}

func containerGet(v reflect.Value) (any, error) {
	if v.Kind() == reflect.Struct || v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
		if v.CanAddr() && v.Kind() == reflect.Struct {
			return v.Addr().Interface(), nil
		}
		return v.Interface(), nil
	}
	if v.IsNil() {
		return nil, nil
	}
	return v.Interface(), nil
}

func containerSet(v reflect.Value, x any) error {
	if x == nil {
		v.Set(reflect.Zero(v.Type()))
		return nil
	}
	xv := reflect.ValueOf(x)
	switch {
	case xv.Type().AssignableTo(v.Type()):
		v.Set(xv)
	case xv.Kind() == reflect.Pointer && xv.Type().Elem().AssignableTo(v.Type()):
		v.Set(xv.Elem())
	default:
		return fmt.Errorf("cannot assign %v to member of type %v", xv.Type(), v.Type())
	}
	return nil
}

// valueConverters returns the get and set closures converting between a
// member of the given non-pointer type and the given value kind.
func valueConverters(kind schema.Kind, mt reflect.Type, layout string) (get func(v reflect.Value) (any, error), set func(v reflect.Value, x any) error, ok bool) {
	mk := mt.Kind()
	switch kind {
	case schema.Bool:
		switch {
		case mk == reflect.Bool:
			get = func(v reflect.Value) (any, error) { return v.Bool(), nil }
			set = func(v reflect.Value, x any) error { v.SetBool(x.(bool)); return nil }
		case reflectx.KindIsNumber(mk):
			// nonzero is true
			get = func(v reflect.Value) (any, error) {
				b, _ := reflectx.ToBool(v.Interface())
				return b, nil
			}
			set = func(v reflect.Value, x any) error {
				if x.(bool) {
					return reflectx.SetInt(v, 1)
				}
				return reflectx.SetInt(v, 0)
			}
		default:
			return nil, nil, false
		}
	case schema.String:
		switch {
		case mt == timeType:
			get = func(v reflect.Value) (any, error) {
				t := v.Interface().(time.Time)
				if t.IsZero() {
					return "", nil
				}
				return t.UTC().Format(layout), nil
			}
			set = func(v reflect.Value, x any) error {
				s := x.(string)
				if s == "" {
					v.Set(reflect.Zero(mt))
					return nil
				}
				t, err := time.Parse(layout, s)
				if err != nil {
					return err
				}
				v.Set(reflect.ValueOf(t))
				return nil
			}
		case mk == reflect.String:
			get = func(v reflect.Value) (any, error) { return v.String(), nil }
			set = func(v reflect.Value, x any) error { v.SetString(x.(string)); return nil }
		case mk == reflect.Bool || reflectx.KindIsNumber(mk):
			get = func(v reflect.Value) (any, error) { return reflectx.ToString(v.Interface()), nil }
			set = func(v reflect.Value, x any) error { return parseInto(v, x.(string)) }
		default:
			return nil, nil, false
		}
	case schema.Int, schema.Float:
		switch {
		case mt == decimalType:
			get = func(v reflect.Value) (any, error) {
				d := v.Interface().(decimal.Decimal)
				if kind == schema.Int {
					return d.IntPart(), nil
				}
				f, _ := d.Float64()
				return f, nil
			}
			set = func(v reflect.Value, x any) error {
				switch x := x.(type) {
				case int64:
					v.Set(reflect.ValueOf(decimal.NewFromInt(x)))
				case float64:
					v.Set(reflect.ValueOf(decimal.NewFromFloat(x)))
				}
				return nil
			}
		case mk == reflect.String:
			get = func(v reflect.Value) (any, error) {
				s := v.String()
				if s == "" {
					return kind.Default(), nil
				}
				if kind == schema.Int {
					if i, ok := reflectx.ToInt(s); ok {
						return i, nil
					}
				} else if f, ok := reflectx.ToFloat(s); ok {
					return f, nil
				}
				return nil, fmt.Errorf("cannot read %q as %v", s, kind)
			}
			set = func(v reflect.Value, x any) error { v.SetString(reflectx.ToString(x)); return nil }
		case reflectx.KindIsNumber(mk):
			get = func(v reflect.Value) (any, error) {
				if kind == schema.Int {
					return numberInt(v), nil
				}
				return numberFloat(v), nil
			}
			set = func(v reflect.Value, x any) error {
				switch x := x.(type) {
				case int64:
					return reflectx.SetInt(v, x)
				case float64:
					if reflectx.KindIsFloat(v.Kind()) {
						return reflectx.SetNumber(v, x)
					}
					// narrowing to an integer member truncates
					return reflectx.SetInt(v, int64(x))
				}
				return nil
			}
		default:
			return nil, nil, false
		}
	case schema.Decimal:
		switch {
		case mt == decimalType:
			get = func(v reflect.Value) (any, error) { return v.Interface().(decimal.Decimal), nil }
			set = func(v reflect.Value, x any) error { v.Set(reflect.ValueOf(x.(decimal.Decimal))); return nil }
		case reflectx.KindIsNumber(mk):
			get = func(v reflect.Value) (any, error) {
				if reflectx.KindIsFloat(mk) {
					f := v.Float()
					if math.IsNaN(f) || math.IsInf(f, 0) {
						return nil, fmt.Errorf("cannot represent %v as a decimal", f)
					}
					return decimal.NewFromFloat(f), nil
				}
				return decimal.NewFromInt(numberInt(v)), nil
			}
			set = func(v reflect.Value, x any) error {
				d := x.(decimal.Decimal)
				if reflectx.KindIsFloat(mk) {
					f, _ := d.Float64()
					return reflectx.SetNumber(v, f)
				}
				return reflectx.SetInt(v, d.IntPart())
			}
		default:
			return nil, nil, false
		}
	default:
		return nil, nil, false
	}
	return get, set, true
}

// parseInto sets the given bool or numeric value from its text form.
func parseInto(v reflect.Value, s string) error {
	k := v.Kind()
	switch {
	case k == reflect.Bool:
		if b, ok := reflectx.ToBool(s); ok {
			v.SetBool(b)
			return nil
		}
	case reflectx.KindIsFloat(k):
		if f, ok := reflectx.ToFloat(s); ok {
			return reflectx.SetNumber(v, f)
		}
	default:
		if i, ok := reflectx.ToInt(s); ok {
			return reflectx.SetInt(v, i)
		}
	}
	return fmt.Errorf("cannot parse %q as %v", s, v.Type())
}

// numberInt returns the given numeric value as an int64,
// truncating floats.
func numberInt(v reflect.Value) int64 {
	switch k := v.Kind(); {
	case reflectx.KindIsInt(k):
		return v.Int()
	case reflectx.KindIsUint(k):
		return int64(v.Uint())
	}
	return int64(v.Float())
}

// numberFloat returns the given numeric value as a float64.
func numberFloat(v reflect.Value) float64 {
	switch k := v.Kind(); {
	case reflectx.KindIsInt(k):
		return float64(v.Int())
	case reflectx.KindIsUint(k):
		return float64(v.Uint())
	}
	return v.Float()
}
