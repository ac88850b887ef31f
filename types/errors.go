package types

import (
	"fmt"
)

// ParseError is returned when a type signature string cannot be parsed.
type ParseError struct {
	Input string
	Msg   string
}

var _ error = (*ParseError)(nil)

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q as a type tag: %s", e.Input, e.Msg)
}

// DecodeError is returned when a raw wire value does not have the shape the
// expected type requires (wrong primitive kind, out-of-range number,
// malformed byte-vector encoding, or no decoder registered for the type).
type DecodeError struct {
	Type string // full name of the expected type
	Msg  string
}

var _ error = (*DecodeError)(nil)

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode value as %s: %s", e.Type, e.Msg)
}

// SchemaMismatchError is a struct-specific decode failure: the concrete tag
// does not identify the schema's type, or a declared field is missing from
// the raw record. Exactly one of Field or (Expected, Actual) is set.
type SchemaMismatchError struct {
	Schema   string // paramless name of the schema's struct type
	Field    string // missing field name, if any
	Expected string
	Actual   string
	Msg      string
}

var _ error = (*SchemaMismatchError)(nil)

func (e *SchemaMismatchError) Error() string {
	switch {
	case e.Field != "":
		return fmt.Sprintf("value does not match schema %s: missing field %q", e.Schema, e.Field)
	case e.Expected != "":
		return fmt.Sprintf("value does not match schema %s: %s, expected %q but got %q", e.Schema, e.Msg, e.Expected, e.Actual)
	default:
		return fmt.Sprintf("value does not match schema %s: %s", e.Schema, e.Msg)
	}
}
