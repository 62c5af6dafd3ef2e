// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree_test

import (
	"iter"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cogentcore.org/xson/bind"
	"cogentcore.org/xson/changes"
	"cogentcore.org/xson/config"
	"cogentcore.org/xson/errs"
	"cogentcore.org/xson/schema"
	. "cogentcore.org/xson/tree"
)

type addressData struct {
	City string
}

type friendData struct {
	Name string
}

type personData struct {
	Name    string
	Age     int32
	Address *addressData
	Friends []friendData
}

// boundPeople returns the people schema with its slots bound to
// the members of personData.
func boundPeople() *people {
	p := &people{}
	p.address = schema.NewObject("Address")
	p.city = p.address.Add("city", schema.String).SetBind("City")
	p.friend = schema.NewObject("Friend")
	p.friendName = p.friend.Add("name", schema.String).SetBind("Name")
	p.person = schema.NewObject("Person")
	p.name = p.person.Add("name", schema.String).SetBind("Name")
	p.age = p.person.Add("age", schema.Int).SetBind("Age")
	p.addr = p.person.AddObject("address", p.address).SetBind("Address")
	p.friends = p.person.AddArray("friends", schema.NewArray(p.friend)).SetBind("Friends")
	p.spouse = p.person.AddObject("spouse", p.person).SetBind("Spouse")
	return p
}

func TestSetData(t *testing.T) {
	p := boundPeople()
	o := NewObject(p.person)
	log := changes.New()
	o.SetChangeLog(log)
	bound := 0
	o.OnBind = func(o *Object) { bound++ }

	d := &personData{Name: "Ann", Age: 30, Address: &addressData{City: "Paris"},
		Friends: []friendData{{Name: "Bob"}, {Name: "Cy"}}}
	require.NoError(t, o.SetData(d))
	assert.Equal(t, 1, bound)
	assert.Same(t, d, o.Data())
	assert.True(t, log.Has(o, nil))

	v, err := o.Value(p.name)
	assert.NoError(t, err)
	assert.Equal(t, "Ann", v)
	v, _ = o.Value(p.age)
	assert.Equal(t, int64(30), v)

	require.NoError(t, o.SetValue(p.age, 31))
	assert.Equal(t, int32(31), d.Age)
	assert.ErrorIs(t, o.SetValue(p.age, int64(1)<<40), errs.ErrWrongValueType)

	addr, _ := Get[*Object](o, p.addr)
	assert.Same(t, d.Address, addr.Data())
	v, _ = addr.Value(p.city)
	assert.Equal(t, "Paris", v)

	arr := p.friendsOf(t, o)
	assert.True(t, arr.Pending())
	require.Equal(t, 2, arr.Len())
	assert.False(t, arr.Pending())
	e, _ := arr.At(1)
	v, _ = e.Value(p.friendName)
	assert.Equal(t, "Cy", v)
	require.NoError(t, e.SetValue(p.friendName, "Cyd"))
	assert.Equal(t, "Cyd", d.Friends[1].Name)

	// the verified unbound spouse slot holds no node
	assert.Nil(t, o.Child(p.spouse.Index()))

	b, err := ToJSON(o)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Ann","age":31,"address":{"city":"Paris"},"friends":[{"name":"Bob"},{"name":"Cyd"}],"spouse":null}`, string(b))
}

func TestNilIntermediate(t *testing.T) {
	p := boundPeople()
	o := NewObject(p.person)
	d := &personData{Name: "Ann"}
	require.NoError(t, o.SetData(d))

	addr, _ := Get[*Object](o, p.addr)
	require.NotNil(t, addr)
	assert.Nil(t, addr.Data())
	v, err := addr.Value(p.city)
	assert.NoError(t, err)
	assert.Equal(t, "", v)

	d.Address = &addressData{City: "Rome"}
	log := changes.New()
	o.SetChangeLog(log)
	require.NoError(t, o.Refresh(p.addr))
	assert.True(t, log.Has(o, p.addr))
	v, _ = addr.Value(p.city)
	assert.Equal(t, "Rome", v)
}

func TestChildSetData(t *testing.T) {
	p := boundPeople()
	o := NewObject(p.person)
	d := &personData{Name: "Ann"}
	require.NoError(t, o.SetData(d))

	addr, _ := Get[*Object](o, p.addr)
	a := &addressData{City: "Oslo"}
	require.NoError(t, addr.SetData(a))
	assert.Same(t, a, d.Address)

	arr := p.friendsOf(t, o)
	require.NoError(t, arr.SetData([]friendData{{Name: "Eve"}}))
	require.Len(t, d.Friends, 1)
	assert.Equal(t, 1, arr.Len())
	e, _ := arr.At(0)
	v, _ := e.Value(p.friendName)
	assert.Equal(t, "Eve", v)
}

func TestUnboundFallback(t *testing.T) {
	s := schema.NewObject("Label")
	text := s.Add("text", schema.String).SetBind("Missing")
	o := NewObject(s)
	d := &friendData{Name: "x"}
	require.NoError(t, o.SetData(d))
	require.NoError(t, o.SetValue(text, "kept"))
	v, err := o.Value(text)
	assert.NoError(t, err)
	assert.Equal(t, "kept", v)

	strict := bind.NewCompiler(&config.Config{StrictBinding: true, TimeLayout: config.DefaultTimeLayout})
	s2 := schema.NewObject("Label")
	s2.Add("text", schema.String).SetBind("Missing")
	o2 := NewObject(s2)
	o2.SetCompiler(strict)
	assert.ErrorIs(t, o2.SetData(d), errs.ErrBindingUnresolvable)
}

func TestSequences(t *testing.T) {
	p := boundPeople()
	arr := NewArray(schema.NewArray(p.friend))

	read := 0
	var seq iter.Seq[any] = func(yield func(any) bool) {
		for _, nm := range []string{"a", "b"} {
			read++
			if !yield(&friendData{Name: nm}) {
				return
			}
		}
	}
	arr.SetSource(seq)
	assert.Equal(t, 0, read)
	assert.Equal(t, 2, arr.Len())
	assert.Equal(t, 2, read)
	assert.Equal(t, 2, arr.Len())
	assert.Equal(t, 2, read)

	var typed iter.Seq[friendData] = func(yield func(friendData) bool) {
		yield(friendData{Name: "c"})
	}
	require.NoError(t, arr.SetData(typed))
	e, err := arr.At(0)
	require.NoError(t, err)
	v, _ := e.Value(p.friendName)
	assert.Equal(t, "c", v)

	fixed := [2]friendData{{Name: "d"}, {Name: "e"}}
	require.NoError(t, arr.SetData(&fixed))
	require.Equal(t, 2, arr.Len())
	e, _ = arr.At(1)
	require.NoError(t, e.SetValue(p.friendName, "f"))
	assert.Equal(t, "f", fixed[1].Name)

	assert.ErrorIs(t, arr.SetData(42), errs.ErrBindingUnresolvable)
	require.NoError(t, arr.SetData(nil))
	assert.Equal(t, 0, arr.Len())
}

func TestMaterializeError(t *testing.T) {
	friend := schema.NewObject("Friend")
	friend.Add("name", schema.String).SetBind("Missing")
	arr := NewArray(schema.NewArray(friend))
	arr.SetCompiler(bind.NewCompiler(&config.Config{StrictBinding: true, TimeLayout: config.DefaultTimeLayout}))

	require.NoError(t, arr.SetData([]friendData{{Name: "a"}, {Name: "b"}}))
	_, err := arr.At(0)
	assert.ErrorIs(t, err, errs.ErrBindingUnresolvable)
	assert.ErrorIs(t, arr.Materialize(), errs.ErrBindingUnresolvable)
	assert.ErrorIs(t, arr.RemoveAt(0), errs.ErrBindingUnresolvable)
	assert.ErrorIs(t, arr.Insert(0, NewObject(friend)), errs.ErrBindingUnresolvable)
	_, err = ToJSON(arr)
	assert.ErrorIs(t, err, errs.ErrBindingUnresolvable)

	require.NoError(t, arr.SetData(nil))
	assert.NoError(t, arr.Materialize())
	_, err = arr.AddNew()
	assert.NoError(t, err)
	assert.Equal(t, 1, arr.Len())
}

func TestValueData(t *testing.T) {
	p := boundPeople()
	o := NewObject(p.friend)
	require.NoError(t, o.SetData(friendData{Name: "Bob"}))
	v, err := o.Value(p.friendName)
	assert.NoError(t, err)
	assert.Equal(t, "Bob", v)

	// a struct held by value cannot be written in place
	assert.ErrorIs(t, o.SetValue(p.friendName, "Cy"), errs.ErrBindingUnresolvable)
	v, _ = o.Value(p.friendName)
	assert.Equal(t, "Bob", v)
}

func TestNonFinite(t *testing.T) {
	s := schema.NewObject("Reading")
	value := s.Add("value", schema.Float).SetBind("Value")
	o := NewObject(s)
	d := &struct{ Value float64 }{Value: 1.5}
	require.NoError(t, o.SetData(d))

	assert.ErrorIs(t, o.SetValue(value, math.NaN()), errs.ErrWrongValueType)
	assert.ErrorIs(t, o.SetValue(value, math.Inf(-1)), errs.ErrWrongValueType)
	assert.Equal(t, 1.5, d.Value)

	d.Value = math.Inf(1)
	b, err := ToJSON(o)
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":null}`, string(b))
}
