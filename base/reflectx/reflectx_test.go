// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reflectx

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNonPointerType(t *testing.T) {
	assert.Equal(t, reflect.TypeFor[int](), NonPointerType(reflect.TypeFor[int]()))
	assert.Equal(t, reflect.TypeFor[int](), NonPointerType(reflect.TypeFor[*int]()))
	assert.Equal(t, reflect.TypeFor[int](), NonPointerType(reflect.TypeFor[**int]()))
	assert.Nil(t, NonPointerType(nil))
}

func TestOnePointerValue(t *testing.T) {
	v := 1
	pv := OnePointerValue(reflect.ValueOf(v))
	assert.Equal(t, reflect.TypeFor[*int](), pv.Type())
	assert.Equal(t, 1, pv.Elem().Interface())

	p := &v
	pp := &p
	assert.Equal(t, reflect.TypeFor[*int](), OnePointerValue(reflect.ValueOf(pp)).Type())
}

func TestUnderlying(t *testing.T) {
	v := 3
	u, ok := Underlying(reflect.ValueOf(&v))
	assert.True(t, ok)
	assert.Equal(t, 3, u.Interface())

	var n *int
	_, ok = Underlying(reflect.ValueOf(n))
	assert.False(t, ok)

	var a any = &v
	u, ok = Underlying(reflect.ValueOf(&a))
	assert.True(t, ok)
	assert.Equal(t, reflect.Int, u.Kind())

	_, ok = Underlying(reflect.Value{})
	assert.False(t, ok)
}

func TestAnyIsNil(t *testing.T) {
	assert.True(t, AnyIsNil(nil))
	assert.True(t, AnyIsNil((*int)(nil)))
	assert.True(t, AnyIsNil([]int(nil)))
	assert.False(t, AnyIsNil(0))
	assert.False(t, AnyIsNil(""))
}

type base struct{ A int }

type derived struct {
	base
	B int
}

type derivedPtr struct {
	*derived
}

func TestTypeEmbeds(t *testing.T) {
	assert.True(t, TypeEmbeds(reflect.TypeFor[derived](), reflect.TypeFor[base]()))
	assert.True(t, TypeEmbeds(reflect.TypeFor[*derived](), reflect.TypeFor[base]()))
	assert.True(t, TypeEmbeds(reflect.TypeFor[derivedPtr](), reflect.TypeFor[base]()))
	assert.False(t, TypeEmbeds(reflect.TypeFor[base](), reflect.TypeFor[derived]()))
	assert.False(t, TypeEmbeds(reflect.TypeFor[int](), reflect.TypeFor[base]()))

	assert.True(t, SameOrEmbeds(reflect.TypeFor[*base](), reflect.TypeFor[base]()))
	assert.True(t, SameOrEmbeds(reflect.TypeFor[*derived](), reflect.TypeFor[*base]()))
	assert.False(t, SameOrEmbeds(reflect.TypeFor[*base](), reflect.TypeFor[*derived]()))
}

func TestToBasic(t *testing.T) {
	b, ok := ToBool("true")
	assert.True(t, ok)
	assert.True(t, b)
	_, ok = ToBool("maybe")
	assert.False(t, ok)

	i, ok := ToInt(3.9)
	assert.True(t, ok)
	assert.Equal(t, int64(3), i)
	i, ok = ToInt("0x10")
	assert.True(t, ok)
	assert.Equal(t, int64(16), i)
	_, ok = ToInt(nil)
	assert.False(t, ok)

	f, ok := ToFloat(uint8(7))
	assert.True(t, ok)
	assert.Equal(t, 7.0, f)

	assert.Equal(t, "2.5", ToString(2.5))
	assert.Equal(t, "42", ToString(int16(42)))
	assert.Equal(t, "", ToString(nil))
}

func TestConvert(t *testing.T) {
	v, ok := Convert[int8](100)
	assert.True(t, ok)
	assert.Equal(t, int8(100), v)

	_, ok = Convert[int8](300)
	assert.False(t, ok)

	_, ok = Convert[int64](2.5)
	assert.False(t, ok)

	_, ok = Convert[uint32](-1)
	assert.False(t, ok)

	w, ok := Convert[float64](int32(7))
	assert.True(t, ok)
	assert.Equal(t, 7.0, w)
}

func TestSetNumber(t *testing.T) {
	var i8 int8
	rv := reflect.ValueOf(&i8).Elem()
	assert.NoError(t, SetNumber(rv, 12))
	assert.Equal(t, int8(12), i8)
	assert.Error(t, SetNumber(rv, 1000))
	assert.Error(t, SetNumber(rv, 1.5))

	var u uint16
	assert.Error(t, SetInt(reflect.ValueOf(&u).Elem(), -3))
	assert.NoError(t, SetInt(reflect.ValueOf(&u).Elem(), 3))
	assert.Equal(t, uint16(3), u)

	var f float32
	assert.NoError(t, SetInt(reflect.ValueOf(&f).Elem(), 9))
	assert.Equal(t, float32(9), f)

	var s string
	assert.Error(t, SetInt(reflect.ValueOf(&s).Elem(), 1))
}
