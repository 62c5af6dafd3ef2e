// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package changes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	. "cogentcore.org/xson/changes"
	"cogentcore.org/xson/schema"
)

type node struct{ name string }

func TestRecordDedup(t *testing.T) {
	s := schema.NewObject("Person")
	name := s.Add("name", schema.String)
	age := s.Add("age", schema.Int)

	a, b := &node{"a"}, &node{"b"}
	l := New()
	for range 5 {
		l.Record(a, age)
	}
	assert.Equal(t, 1, l.Len())
	assert.True(t, l.Has(a, age))
	assert.False(t, l.Has(b, age))

	l.Record(a, name)
	l.Record(b, age)
	l.Record(a, age)
	l.Record(a, nil)
	l.Record(a, nil)
	assert.Equal(t, 4, l.Len())

	c := l.Changes()[0]
	assert.Equal(t, Replace, c.Kind)
	assert.Same(t, a, c.Node)
	assert.Same(t, age, c.Slot)
	assert.Equal(t, "replace(Person.age)", c.String())
	assert.Equal(t, "replace(node)", l.Changes()[3].String())

	l.Clear()
	assert.Equal(t, 0, l.Len())
	assert.False(t, l.Has(a, age))
	l.Record(a, age)
	assert.Equal(t, 1, l.Len())
}

func TestAddRemoveNotDeduplicated(t *testing.T) {
	arr := &node{"arr"}
	item := &node{"item"}
	l := New()
	l.RecordAdd(arr, nil, 0, item)
	l.RecordAdd(arr, nil, 0, item)
	l.RecordRemove(arr, nil, 0)
	l.RecordRemove(arr, nil, 0)
	assert.Equal(t, 4, l.Len())

	kinds := []Kind{}
	for _, c := range l.Changes() {
		kinds = append(kinds, c.Kind)
	}
	assert.Equal(t, []Kind{Add, Add, Remove, Remove}, kinds)
	assert.Same(t, item, l.Changes()[0].Item)
	assert.Equal(t, "add(0)", l.Changes()[0].String())
	assert.Equal(t, "remove(0)", l.Changes()[3].String())
}

func TestZeroLog(t *testing.T) {
	var l Log
	n := &node{"n"}
	l.Record(n, nil)
	l.Record(n, nil)
	assert.Equal(t, 1, l.Len())
}
