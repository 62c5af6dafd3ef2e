// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errs defines the typed errors reported by the schema,
// binding, tree, and patch packages. Every error carries a [Kind],
// the offending schema path in className.propertyName form, and,
// for type errors, the declared and actual value kinds.
package errs

import (
	"fmt"
	"strings"
)

// Kind is the category of an [Error].
type Kind int32

const (
	// SchemaNotSet is returned when a node is used before a schema was attached.
	SchemaNotSet Kind = iota

	// PropertyNotFound is returned for an unknown property name.
	PropertyNotFound

	// WrongValueType is returned when a value is incompatible with the declared slot kind.
	WrongValueType

	// BindingUnresolvable is returned when a bound path has no matching
	// member or the member type has no conversion to the slot kind.
	BindingUnresolvable

	// BindingTypeConflict is returned in strict mode when a cached binding
	// was compiled for an incompatible backing type.
	BindingTypeConflict

	// IndexOutOfRange is returned for array access outside of the array.
	IndexOutOfRange

	// ParentReassignment is returned when a node is moved to a different parent.
	ParentReassignment

	// UnexpectedEndOfInput is returned for truncated JSON.
	UnexpectedEndOfInput

	// SchemaSealed is raised when a sealed schema is mutated.
	SchemaSealed

	// InvalidSchema is returned by schema validation.
	InvalidSchema

	// InvalidPatch is returned for malformed or unsupported patch documents.
	InvalidPatch

	// ReadOnlyProperty is returned when input targets a slot that is not editable.
	ReadOnlyProperty

	// ScopeAlreadySet is returned when a scope handle is set twice on a node.
	ScopeAlreadySet
)

var kindNames = [...]string{
	SchemaNotSet:         "SchemaNotSet",
	PropertyNotFound:     "PropertyNotFound",
	WrongValueType:       "WrongValueType",
	BindingUnresolvable:  "BindingUnresolvable",
	BindingTypeConflict:  "BindingTypeConflict",
	IndexOutOfRange:      "IndexOutOfRange",
	ParentReassignment:   "ParentReassignment",
	UnexpectedEndOfInput: "UnexpectedEndOfInput",
	SchemaSealed:         "SchemaSealed",
	InvalidSchema:        "InvalidSchema",
	InvalidPatch:         "InvalidPatch",
	ReadOnlyProperty:     "ReadOnlyProperty",
	ScopeAlreadySet:      "ScopeAlreadySet",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Sentinel errors for use with [errors.Is]. An [*Error] matches
// the sentinel of its kind.
var (
	ErrSchemaNotSet         = &Error{Kind: SchemaNotSet}
	ErrPropertyNotFound     = &Error{Kind: PropertyNotFound}
	ErrWrongValueType       = &Error{Kind: WrongValueType}
	ErrBindingUnresolvable  = &Error{Kind: BindingUnresolvable}
	ErrBindingTypeConflict  = &Error{Kind: BindingTypeConflict}
	ErrIndexOutOfRange      = &Error{Kind: IndexOutOfRange}
	ErrParentReassignment   = &Error{Kind: ParentReassignment}
	ErrUnexpectedEndOfInput = &Error{Kind: UnexpectedEndOfInput}
	ErrSchemaSealed         = &Error{Kind: SchemaSealed}
	ErrInvalidSchema        = &Error{Kind: InvalidSchema}
	ErrInvalidPatch         = &Error{Kind: InvalidPatch}
	ErrReadOnlyProperty     = &Error{Kind: ReadOnlyProperty}
	ErrScopeAlreadySet      = &Error{Kind: ScopeAlreadySet}
)

// Error is a typed error.
type Error struct {

	// Kind is the category of the error.
	Kind Kind

	// Path is the offending schema path, in className.propertyName form.
	Path string

	// Declared is the declared kind or type, for type errors.
	Declared string

	// Actual is the actual kind or type, for type errors.
	Actual string

	// Value is the offending raw value, if any.
	Value string

	// Index is the offending index for [IndexOutOfRange].
	Index int

	// Message is additional detail.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Declared != "" || e.Actual != "" {
		fmt.Fprintf(&b, " (declared %s, actual %s)", e.Declared, e.Actual)
	}
	if e.Value != "" {
		fmt.Fprintf(&b, " value %s", e.Value)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an [*Error] of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// New returns a new [*Error] of the given kind with the given path
// and a message formatted from the given format and arguments.
func New(kind Kind, path string, format string, args ...any) *Error {
	return &Error{Kind: kind, Path: path, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns a new [*Error] of the given kind wrapping the given error.
func Wrap(kind Kind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

// TypeMismatch returns a new [*Error] describing a value whose actual
// kind does not match the declared kind.
func TypeMismatch(kind Kind, path, declared, actual, value string) *Error {
	return &Error{Kind: kind, Path: path, Declared: declared, Actual: actual, Value: value}
}

// OutOfRange returns a new [IndexOutOfRange] error.
func OutOfRange(path string, index, length int) *Error {
	return &Error{Kind: IndexOutOfRange, Path: path, Index: index,
		Message: fmt.Sprintf("index %d is out of range of an array of length %d", index, length)}
}

// Path joins a class name and property name into a schema path.
func Path(class, property string) string {
	switch {
	case class == "":
		return property
	case property == "":
		return class
	}
	return class + "." + property
}
