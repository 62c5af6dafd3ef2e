// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cogentcore.org/xson/changes"
	"cogentcore.org/xson/errs"
	"cogentcore.org/xson/schema"
	. "cogentcore.org/xson/tree"
)

// people is a Person schema with a nested address and a list of friends.
type people struct {
	person  *schema.Object
	address *schema.Object
	friend  *schema.Object

	name, age, addr, friends, spouse *schema.Slot
	city, friendName                 *schema.Slot
}

func newPeople() *people {
	p := &people{}
	p.address = schema.NewObject("Address")
	p.city = p.address.Add("city", schema.String)
	p.friend = schema.NewObject("Friend")
	p.friendName = p.friend.Add("name", schema.String)
	p.person = schema.NewObject("Person")
	p.name = p.person.Add("name", schema.String)
	p.age = p.person.Add("age", schema.Int)
	p.addr = p.person.AddObject("address", p.address)
	p.friends = p.person.AddArray("friends", schema.NewArray(p.friend))
	p.spouse = p.person.AddObject("spouse", p.person)
	return p
}

func (p *people) friendsOf(t *testing.T, o *Object) *Array {
	arr, err := Get[*Array](o, p.friends)
	require.NoError(t, err)
	require.NotNil(t, arr)
	return arr
}

func TestNewObject(t *testing.T) {
	p := newPeople()
	o := NewObject(p.person)
	assert.True(t, p.person.Sealed())
	assert.True(t, p.address.Sealed())
	assert.Equal(t, 5, o.NumChildren())
	assert.Nil(t, o.Child(p.name.Index()))
	assert.Nil(t, o.Child(p.spouse.Index()))

	addr, err := Get[*Object](o, p.addr)
	require.NoError(t, err)
	require.NotNil(t, addr)
	assert.Same(t, o, addr.Parent)
	assert.Equal(t, 2, addr.IndexInParent())
	assert.Equal(t, 1, addr.Depth())
	assert.Equal(t, []int{2}, addr.IndexPath())
	assert.Equal(t, "Person.address", addr.String())
	assert.Same(t, o, addr.Root())

	arr := p.friendsOf(t, o)
	assert.Equal(t, 0, arr.Len())
	assert.Equal(t, "Person.friends", arr.String())

	v, err := o.Value(p.age)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), v)
	assert.True(t, o.IsRoot())
	assert.Equal(t, -1, o.IndexInParent())
	assert.Empty(t, o.IndexPath())
	assert.NotEqual(t, o.ID(), addr.ID())
}

func TestSchemaNotSet(t *testing.T) {
	p := newPeople()
	o := NewObject(nil)
	_, err := o.Value(p.name)
	assert.ErrorIs(t, err, errs.ErrSchemaNotSet)
	assert.ErrorIs(t, o.SetValue(p.name, "Ann"), errs.ErrSchemaNotSet)
	_, err = ToJSON(o)
	assert.ErrorIs(t, err, errs.ErrSchemaNotSet)

	require.NoError(t, o.SetSchema(p.person))
	assert.NoError(t, o.SetValue(p.name, "Ann"))
	assert.ErrorIs(t, o.SetSchema(p.address), errs.ErrSchemaSealed)
}

func TestValues(t *testing.T) {
	p := newPeople()
	o := NewObject(p.person)
	log := changes.New()
	o.SetChangeLog(log)

	require.NoError(t, o.SetValue(p.name, "Ann"))
	require.NoError(t, Set(o, p.age, 30))
	name, err := Get[string](o, p.name)
	assert.NoError(t, err)
	assert.Equal(t, "Ann", name)
	age, err := Get[int](o, p.age)
	assert.NoError(t, err)
	assert.Equal(t, 30, age)
	_, err = Get[bool](o, p.age)
	assert.ErrorIs(t, err, errs.ErrWrongValueType)

	err = o.SetValue(p.age, "old")
	assert.ErrorIs(t, err, errs.ErrWrongValueType)
	_, err = o.Value(p.city)
	assert.ErrorIs(t, err, errs.ErrPropertyNotFound)

	v, err := o.ValueByName("name")
	assert.NoError(t, err)
	assert.Equal(t, "Ann", v)
	_, err = o.ValueByName("nmae")
	assert.ErrorIs(t, err, errs.ErrPropertyNotFound)
	assert.NoError(t, o.SetValueByName("age", int8(31)))

	// name and age each recorded once
	require.Equal(t, 2, log.Len())
	assert.Equal(t, p.name, log.Changes()[0].Slot)
	assert.Equal(t, p.age, log.Changes()[1].Slot)
	assert.Same(t, o, log.Changes()[1].Node)
}

func TestNoChangeLog(t *testing.T) {
	p := newPeople()
	o := NewObject(p.person)
	assert.Nil(t, o.ChangeLog())
	assert.NoError(t, o.SetValue(p.name, "Ann"))

	addr, _ := Get[*Object](o, p.addr)
	log := changes.New()
	o.SetChangeLog(log)
	assert.Same(t, log, addr.ChangeLog())
	require.NoError(t, addr.SetValue(p.city, "Paris"))
	assert.True(t, log.Has(addr, p.city))
}

func TestArray(t *testing.T) {
	p := newPeople()
	o := NewObject(p.person)
	log := changes.New()
	o.SetChangeLog(log)
	arr := p.friendsOf(t, o)

	var elems []*Object
	for _, nm := range []string{"a", "b", "c"} {
		e, err := arr.AddNew()
		require.NoError(t, err)
		require.NoError(t, e.SetValue(p.friendName, nm))
		elems = append(elems, e)
	}
	assert.Equal(t, 3, arr.Len())
	assert.Equal(t, "Person.friends[2]", elems[2].String())
	assert.Equal(t, []int{3, 2}, elems[2].IndexPath())

	require.NoError(t, arr.RemoveAt(0))
	assert.Nil(t, elems[0].Parent)
	assert.Equal(t, 0, elems[1].IndexInParent())
	assert.Equal(t, 1, elems[2].IndexInParent())

	x := NewObject(p.friend)
	require.NoError(t, arr.Insert(1, x))
	for i, e := range arr.All() {
		assert.Equal(t, i, e.IndexInParent())
	}
	assert.Equal(t, 1, arr.IndexOf(x))
	assert.Equal(t, -1, arr.IndexOf(elems[0]))

	_, err := arr.At(3)
	assert.ErrorIs(t, err, errs.ErrIndexOutOfRange)
	assert.ErrorIs(t, arr.RemoveAt(-1), errs.ErrIndexOutOfRange)
	assert.ErrorIs(t, arr.Insert(5, NewObject(p.friend)), errs.ErrIndexOutOfRange)
	assert.ErrorIs(t, arr.Add(NewObject(p.address)), errs.ErrWrongValueType)

	var kinds []changes.Kind
	var indexes []int
	for _, c := range log.Changes() {
		if c.Kind == changes.Replace {
			continue
		}
		kinds = append(kinds, c.Kind)
		indexes = append(indexes, c.Index)
		assert.Same(t, arr, c.Node)
		assert.Equal(t, p.friends, c.Slot)
	}
	assert.Equal(t, []changes.Kind{changes.Add, changes.Add, changes.Add, changes.Remove, changes.Add}, kinds)
	assert.Equal(t, []int{0, 1, 2, 0, 1}, indexes)
	assert.Same(t, x, log.Changes()[len(log.Changes())-1].Item)
}

func TestArrayClear(t *testing.T) {
	p := newPeople()
	arr := NewArray(schema.NewArray(p.friend))
	for range 3 {
		_, err := arr.AddNew()
		require.NoError(t, err)
	}
	log := changes.New()
	arr.SetChangeLog(log)
	e, _ := arr.At(1)
	arr.Clear()
	assert.Equal(t, 0, arr.Len())
	assert.Nil(t, e.Parent)
	require.Equal(t, 3, log.Len())
	for i, c := range log.Changes() {
		assert.Equal(t, changes.Remove, c.Kind)
		assert.Equal(t, 2-i, c.Index)
		assert.Nil(t, c.Slot)
	}
}

func TestParentReassignment(t *testing.T) {
	p := newPeople()
	a1 := NewArray(schema.NewArray(p.friend))
	a2 := NewArray(schema.NewArray(p.friend))
	e, err := a1.AddNew()
	require.NoError(t, err)
	assert.ErrorIs(t, a2.Add(e), errs.ErrParentReassignment)
	assert.ErrorIs(t, a1.Add(e), errs.ErrParentReassignment)
	assert.Equal(t, 0, a2.Len())

	o1 := NewObject(p.person)
	o2 := NewObject(p.person)
	addr, _ := Get[*Object](o1, p.addr)
	assert.ErrorIs(t, o2.SetValue(p.addr, addr), errs.ErrParentReassignment)
	assert.ErrorIs(t, o1.SetValue(p.spouse, o1), errs.ErrParentReassignment)
	assert.ErrorIs(t, o2.SetValue(p.addr, o1), errs.ErrWrongValueType)

	// a detached node can be added elsewhere
	detached := false
	e.OnDetach = func(n Node) { detached = true }
	assert.True(t, a1.Remove(e))
	assert.True(t, detached)
	assert.NoError(t, a2.Add(e))
	assert.Same(t, a2, e.Parent)
}

func TestSetChild(t *testing.T) {
	p := newPeople()
	o := NewObject(p.person)
	log := changes.New()
	o.SetChangeLog(log)

	sp := NewObject(p.person)
	require.NoError(t, o.SetValue(p.spouse, sp))
	assert.Same(t, o, sp.Parent)
	assert.Equal(t, "Person.spouse", sp.String())
	assert.True(t, log.Has(o, p.spouse))

	require.NoError(t, o.SetValue(p.spouse, nil))
	assert.Nil(t, sp.Parent)
	assert.Nil(t, o.Child(p.spouse.Index()))
}

func TestScope(t *testing.T) {
	p := newPeople()
	o := NewObject(p.person)
	addr, _ := Get[*Object](o, p.addr)
	assert.Nil(t, addr.Scope())
	require.NoError(t, o.SetScope("tx1"))
	assert.Equal(t, "tx1", addr.Scope())
	require.NoError(t, addr.SetScope("tx2"))
	assert.Equal(t, "tx2", addr.Scope())
	assert.Equal(t, "tx1", o.Scope())
	assert.ErrorIs(t, o.SetScope("tx3"), errs.ErrScopeAlreadySet)
}

func TestInput(t *testing.T) {
	s := schema.NewObject("Form")
	title := s.Add("title", schema.String).SetEditable(true).OnInput(func(in *schema.Input) {
		if in.Value == "" {
			in.Cancel()
			return
		}
		in.Value = "[" + in.Value.(string) + "]"
	})
	fixed := s.Add("fixed", schema.String)
	clicks := 0
	save := s.Add("save", schema.Action).OnAction(func(node any) { clicks++ })

	o := NewObject(s)
	require.NoError(t, o.Input(title, "hi"))
	v, _ := o.Value(title)
	assert.Equal(t, "[hi]", v)
	require.NoError(t, o.Input(title, ""))
	v, _ = o.Value(title)
	assert.Equal(t, "[hi]", v)

	require.NoError(t, o.InputJSON(title, []byte(` "yo" `)))
	v, _ = o.Value(title)
	assert.Equal(t, "[yo]", v)
	assert.ErrorIs(t, o.InputJSON(title, []byte(`"a" "b"`)), errs.ErrWrongValueType)
	assert.ErrorIs(t, o.InputJSON(title, []byte(`"a"x`)), errs.ErrWrongValueType)
	v, _ = o.Value(title)
	assert.Equal(t, "[yo]", v)

	assert.ErrorIs(t, o.Input(fixed, "x"), errs.ErrReadOnlyProperty)
	require.NoError(t, o.Input(save, nil))
	require.NoError(t, o.Trigger(save))
	assert.Equal(t, 2, clicks)
	assert.ErrorIs(t, o.Trigger(title), errs.ErrWrongValueType)
	v, err := o.Value(save)
	assert.NoError(t, err)
	assert.Nil(t, v)
}

func TestPointer(t *testing.T) {
	p := newPeople()
	o := NewObject(p.person)
	arr := p.friendsOf(t, o)
	arr.AddNew()
	e, _ := arr.AddNew()
	addr, _ := Get[*Object](o, p.addr)

	assert.Equal(t, "", Pointer(o))
	assert.Equal(t, "/friends/1", Pointer(e))
	assert.Equal(t, "/friends/1/name", SlotPointer(e, p.friendName))
	assert.Equal(t, "/address/city", SlotPointer(addr, p.city))

	n, slot, err := Resolve(o, "/friends/1/name")
	require.NoError(t, err)
	assert.Same(t, e, n)
	assert.Same(t, p.friendName, slot)

	n, slot, err = Resolve(o, "/friends/0")
	require.NoError(t, err)
	assert.Nil(t, slot)
	assert.Equal(t, 0, n.AsTree().IndexInParent())

	_, _, err = Resolve(o, "/friends/7/name")
	assert.ErrorIs(t, err, errs.ErrIndexOutOfRange)
	_, _, err = Resolve(o, "/spouse/name")
	assert.ErrorIs(t, err, errs.ErrInvalidPatch)
	_, _, err = Resolve(o, "/nope")
	assert.ErrorIs(t, err, errs.ErrPropertyNotFound)

	n, err = ResolveIndex(o, e.IndexPath())
	require.NoError(t, err)
	assert.Same(t, e, n)
	_, err = ResolveIndex(o, []int{3, 9})
	assert.ErrorIs(t, err, errs.ErrIndexOutOfRange)
}
