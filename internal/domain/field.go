package domain

import (
	"bytes"
	"encoding/json"
)

// Field is an input value decoded from JSON that remembers how it was supplied.
// A key missing from the payload leaves the zero Field (Present == false).
// A JSON null sets Present and Null. A value that does not decode into T sets
// Present and WrongType and leaves Value at its zero value.
type Field[T any] struct {
	Value     T
	Present   bool
	Null      bool
	WrongType bool
}

// Set returns a Field holding v.
func Set[T any](v T) Field[T] {
	return Field[T]{Value: v, Present: true}
}

// HasValue reports whether the field was supplied with a usable value of type T.
func (f Field[T]) HasValue() bool {
	return f.Present && !f.Null && !f.WrongType
}

// UnmarshalJSON implements json.Unmarshaler. Type mismatches are recorded
// rather than returned so validation can report them per field.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		f.WrongType = true
		return nil
	}
	f.Value = v
	return nil
}
