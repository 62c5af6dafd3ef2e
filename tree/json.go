// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"

	"cogentcore.org/xson/base/errors"
	"cogentcore.org/xson/errs"
	"cogentcore.org/xson/schema"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

// jsonAPI is the configuration used to write JSON.
var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// ToJSON returns the JSON encoding of the given node: an object with
// the members of its schema in slot order, or an array of objects.
// A bound value that cannot be read is written as the default of its kind.
func ToJSON(n Node) ([]byte, error) {
	var b bytes.Buffer
	if err := WriteJSON(n, &b); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// WriteJSON writes the JSON encoding of the given node to the given writer.
func WriteJSON(n Node, w io.Writer) error {
	if n == nil || n.Schema() == nil {
		return errs.New(errs.SchemaNotSet, "", "no schema has been attached to the node")
	}
	s := jsonAPI.BorrowStream(w)
	defer jsonAPI.ReturnStream(s)
	writeNode(s, n)
	if s.Error != nil {
		return s.Error
	}
	return s.Flush()
}

// SaveJSON writes the JSON encoding of the given node to the given file.
func SaveJSON(n Node, filename string) error {
	fp, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fp.Close()
	bw := bufio.NewWriter(fp)
	if err := WriteJSON(n, bw); err != nil {
		return err
	}
	return bw.Flush()
}

// MarshalJSON implements [json.Marshaler] with [ToJSON].
func (o *Object) MarshalJSON() ([]byte, error) {
	return ToJSON(o)
}

// MarshalJSON implements [json.Marshaler] with [ToJSON].
func (a *Array) MarshalJSON() ([]byte, error) {
	return ToJSON(a)
}

// SlotJSON returns the JSON encoding of the value of the given slot.
func SlotJSON(o *Object, slot *schema.Slot) ([]byte, error) {
	if err := o.checkSlot(slot); err != nil {
		return nil, err
	}
	var b bytes.Buffer
	s := jsonAPI.BorrowStream(&b)
	defer jsonAPI.ReturnStream(s)
	writeSlot(s, o, slot)
	if s.Error != nil {
		return nil, s.Error
	}
	if err := s.Flush(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func writeNode(s *jsoniter.Stream, n Node) {
	switch x := n.(type) {
	case *Object:
		writeObject(s, x)
	case *Array:
		writeArray(s, x)
	default:
		s.WriteNil()
	}
}

func writeObject(s *jsoniter.Stream, o *Object) {
	if o == nil {
		s.WriteNil()
		return
	}
	s.WriteObjectStart()
	for i, slot := range o.schema.Slots() {
		if i > 0 {
			s.WriteMore()
		}
		s.WriteObjectField(slot.Name())
		writeSlot(s, o, slot)
	}
	s.WriteObjectEnd()
}

func writeArray(s *jsoniter.Stream, a *Array) {
	if a == nil {
		s.WriteNil()
		return
	}
	if err := a.Materialize(); err != nil {
		s.Error = err
		return
	}
	s.WriteArrayStart()
	for i, e := range a.All() {
		if i > 0 {
			s.WriteMore()
		}
		writeObject(s, e)
	}
	s.WriteArrayEnd()
}

func writeSlot(s *jsoniter.Stream, o *Object, slot *schema.Slot) {
	switch slot.Kind() {
	case schema.ObjectKind:
		c, _ := o.values[slot.Index()].(*Object)
		writeObject(s, c)
		return
	case schema.ArrayKind:
		c, _ := o.values[slot.Index()].(*Array)
		writeArray(s, c)
		return
	case schema.Action:
		s.WriteNil()
		return
	}
	v, err := o.Value(slot)
	if err != nil {
		slog.Debug("tree: writing default for unresolved value", "path", slot.Path(), "err", err)
		v = slot.Kind().Default()
	}
	writeValue(s, v)
}

func writeValue(s *jsoniter.Stream, v any) {
	switch x := v.(type) {
	case bool:
		s.WriteBool(x)
	case int64:
		s.WriteInt64(x)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			// a bound member can hold a value JSON cannot represent
			s.WriteNil()
			return
		}
		s.WriteFloat64(x)
	case decimal.Decimal:
		s.WriteRaw(x.String())
	case string:
		s.WriteString(x)
	default:
		s.WriteNil()
	}
}

// FromJSON populates the given node from the given JSON. Every member
// present is applied to the slot with the same name with [Object.SetValue].
// Arrays are cleared and refilled with new elements. An unknown member is
// a [errs.PropertyNotFound] error, and a value that does not match the
// kind of its slot is a [errs.WrongValueType] error.
func FromJSON(n Node, b []byte) error {
	return ReadJSON(n, bytes.NewReader(b))
}

// ReadJSON populates the given node from JSON read from the given reader.
func ReadJSON(n Node, r io.Reader) error {
	if n == nil || n.Schema() == nil {
		return errs.New(errs.SchemaNotSet, "", "no schema has been attached to the node")
	}
	d := json.NewDecoder(r)
	d.UseNumber()
	t, err := token(d, n.AsTree().String())
	if err != nil {
		return err
	}
	switch x := n.(type) {
	case *Object:
		if t != json.Delim('{') {
			return mismatch(x.schema.ClassName(), schema.ObjectKind, t)
		}
		err = readObject(d, x)
	case *Array:
		if t != json.Delim('[') {
			return mismatch(x.schema.ClassName(), schema.ArrayKind, t)
		}
		err = readArray(d, x)
	}
	if err != nil {
		return err
	}
	return end(d, n.AsTree().String())
}

// OpenJSON populates the given node from the given JSON file.
func OpenJSON(n Node, filename string) error {
	fp, err := os.Open(filename)
	if err != nil {
		return errors.Log(err)
	}
	defer fp.Close()
	return ReadJSON(n, bufio.NewReader(fp))
}

// UnmarshalJSON implements [json.Unmarshaler] with [FromJSON].
func (o *Object) UnmarshalJSON(b []byte) error {
	return FromJSON(o, b)
}

// UnmarshalJSON implements [json.Unmarshaler] with [FromJSON].
func (a *Array) UnmarshalJSON(b []byte) error {
	return FromJSON(a, b)
}

// token returns the next token, converting a premature end of input
// into an [errs.UnexpectedEndOfInput] error.
func token(d *json.Decoder, path string) (json.Token, error) {
	t, err := d.Token()
	if err == io.EOF || errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, errs.New(errs.UnexpectedEndOfInput, path, "the JSON input ended before the value was complete")
	}
	return t, err
}

// end returns an error if there is anything but whitespace after the
// value read from the given decoder.
func end(d *json.Decoder, path string) error {
	t, err := d.Token()
	switch {
	case err == io.EOF:
		return nil
	case err != nil:
		return errs.Wrap(errs.WrongValueType, path, err)
	}
	return errs.New(errs.WrongValueType, path, "unexpected %v after the end of the JSON value", t)
}

// readObject reads the members of an object whose opening brace has
// been read, through the closing brace.
func readObject(d *json.Decoder, o *Object) error {
	for d.More() {
		t, err := token(d, o.String())
		if err != nil {
			return err
		}
		name, _ := t.(string)
		slot, err := o.Slot(name)
		if err != nil {
			return err
		}
		if err := readSlot(d, o, slot); err != nil {
			return err
		}
	}
	_, err := token(d, o.String())
	return err
}

// readArray reads the elements of an array whose opening bracket has
// been read, through the closing bracket.
func readArray(d *json.Decoder, a *Array) error {
	a.Clear()
	for d.More() {
		t, err := token(d, a.String())
		if err != nil {
			return err
		}
		if t != json.Delim('{') {
			return mismatch(a.schema.ClassName(), schema.ObjectKind, t)
		}
		e, err := a.AddNew()
		if err != nil {
			return err
		}
		if err := readObject(d, e); err != nil {
			return err
		}
	}
	_, err := token(d, a.String())
	return err
}

func readSlot(d *json.Decoder, o *Object, slot *schema.Slot) error {
	t, err := token(d, slot.Path())
	if err != nil {
		return err
	}
	kind := slot.Kind()
	switch kind {
	case schema.ObjectKind:
		if t == nil {
			return o.SetValue(slot, nil)
		}
		if t != json.Delim('{') {
			return mismatch(slot.Path(), kind, t)
		}
		c, _ := o.values[slot.Index()].(*Object)
		if c == nil {
			c = NewObject(slot.Object())
			if err := o.SetValue(slot, c); err != nil {
				return err
			}
		}
		return readObject(d, c)
	case schema.ArrayKind:
		a, _ := o.values[slot.Index()].(*Array)
		if t == nil {
			if a != nil {
				a.Clear()
			}
			return nil
		}
		if t != json.Delim('[') {
			return mismatch(slot.Path(), kind, t)
		}
		if a == nil {
			a = NewArray(slot.Array())
			if err := o.SetValue(slot, a); err != nil {
				return err
			}
		}
		return readArray(d, a)
	case schema.Action:
		return skip(d, t, slot.Path())
	}
	if _, ok := t.(json.Delim); ok {
		return mismatch(slot.Path(), kind, t)
	}
	v, ok := fromToken(kind, t)
	if !ok {
		return mismatch(slot.Path(), kind, t)
	}
	return o.SetValue(slot, v)
}

// skip consumes the rest of a value whose first token has been read.
func skip(d *json.Decoder, t json.Token, path string) error {
	if t != json.Delim('{') && t != json.Delim('[') {
		return nil
	}
	for depth := 1; depth > 0; {
		t, err := token(d, path)
		if err != nil {
			return err
		}
		switch t {
		case json.Delim('{'), json.Delim('['):
			depth++
		case json.Delim('}'), json.Delim(']'):
			depth--
		}
	}
	return nil
}

// fromToken converts a JSON scalar token to the representation of the
// given value kind. A null token converts to the default of the kind.
func fromToken(kind schema.Kind, t json.Token) (any, bool) {
	if t == nil {
		return kind.Default(), true
	}
	switch kind {
	case schema.Bool:
		b, ok := t.(bool)
		return b, ok
	case schema.String:
		s, ok := t.(string)
		return s, ok
	}
	n, ok := t.(json.Number)
	if !ok {
		return nil, false
	}
	switch kind {
	case schema.Int:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		d, err := decimal.NewFromString(n.String())
		if err != nil {
			return nil, false
		}
		return kind.Coerce(d)
	case schema.Float:
		f, err := n.Float64()
		return f, err == nil
	case schema.Decimal:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	}
	return nil, false
}

// mismatch returns a [errs.WrongValueType] error for the given token.
func mismatch(path string, declared schema.Kind, t json.Token) error {
	actual, raw := "Null", "null"
	switch x := t.(type) {
	case bool:
		actual, raw = "Bool", strconv.FormatBool(x)
	case json.Number:
		actual, raw = "Number", x.String()
	case string:
		actual, raw = "String", strconv.Quote(x)
	case json.Delim:
		actual, raw = "Object", string(x)
		if x == '[' {
			actual = "Array"
		}
	default:
		if t != nil {
			actual, raw = fmt.Sprintf("%T", t), fmt.Sprint(t)
		}
	}
	return errs.TypeMismatch(errs.WrongValueType, path, declared.String(), actual, raw)
}
