// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package errs_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"cogentcore.org/xson/base/errors"
	. "cogentcore.org/xson/errs"
)

func TestErrorIs(t *testing.T) {
	err := TypeMismatch(WrongValueType, "Person.age", "Int", "String", `"old"`)
	assert.True(t, errors.Is(err, ErrWrongValueType))
	assert.False(t, errors.Is(err, ErrPropertyNotFound))

	wrapped := fmt.Errorf("populate: %w", err)
	assert.True(t, errors.Is(wrapped, ErrWrongValueType))

	var e *Error
	if assert.True(t, errors.As(wrapped, &e)) {
		assert.Equal(t, "Person.age", e.Path)
		assert.Equal(t, "Int", e.Declared)
		assert.Equal(t, "String", e.Actual)
		assert.Equal(t, `"old"`, e.Value)
	}
}

func TestErrorString(t *testing.T) {
	err := TypeMismatch(WrongValueType, "Person.age", "Int", "String", `"old"`)
	assert.Equal(t, `WrongValueType Person.age (declared Int, actual String) value "old"`, err.Error())

	err = OutOfRange("Person.friends", 3, 2)
	assert.Equal(t, "IndexOutOfRange Person.friends: index 3 is out of range of an array of length 2", err.Error())
	assert.Equal(t, 3, err.Index)

	inner := errors.New("boom")
	w := Wrap(UnexpectedEndOfInput, "Person", inner)
	assert.ErrorIs(t, w, inner)
	assert.Equal(t, "UnexpectedEndOfInput Person: boom", w.Error())
}

func TestPath(t *testing.T) {
	assert.Equal(t, "Person.name", Path("Person", "name"))
	assert.Equal(t, "Person", Path("Person", ""))
	assert.Equal(t, "name", Path("", "name"))
	assert.Equal(t, "ParentReassignment", ParentReassignment.String())
	assert.Equal(t, "Kind(99)", Kind(99).String())
}
