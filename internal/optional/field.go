// Package optional provides a presence-tracking wrapper for partial updates.
//
// A Field distinguishes "not supplied" (Set == false) from "supplied", and for
// pointer types "supplied as null" (Set == true, Value == nil) from "supplied
// with a value". Every patch type in the repository uses it, so the three
// states are explicit in the type instead of inferred per field.
package optional

import (
	"bytes"
	"encoding/json"
)

// Field holds a value together with whether it was supplied.
type Field[T any] struct {
	Set   bool
	Value T
}

// Of returns a supplied field holding v.
func Of[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// Null returns a supplied field holding the zero value of T, which for
// pointer, slice and map types means "clear".
func Null[T any]() Field[T] {
	return Field[T]{Set: true}
}

// Get returns the value and whether it was supplied.
func (f Field[T]) Get() (T, bool) {
	return f.Value, f.Set
}

// OrElse returns the value when supplied, otherwise fallback.
func (f Field[T]) OrElse(fallback T) T {
	if f.Set {
		return f.Value
	}
	return fallback
}

// UnmarshalJSON marks the field as supplied. encoding/json only calls it for
// keys that are present in the document, so an omitted key leaves Set false.
// A literal null leaves Value at its zero value.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		f.Value = zero
		return nil
	}
	return json.Unmarshal(data, &f.Value)
}

// MarshalJSON encodes the value, or null when the field was not supplied.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}
