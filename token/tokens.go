// Package token defines the items a streaming JSON decoder emits.
package token

import (
	"bytes"
	"fmt"
)

// A Token is an item in a stream that encodes a JSON value
// For example, the JSON value
//
//	{"id": 123, "tags": ["rifle", "bolt-action"]}
//
// would be represented by the stream of Token (in pseudocode for
// clarity):
//
//	{              -> StartObject
//	"id":          -> Scalar("id", String, key)
//	123,           -> Scalar(123, Number)
//	"tags":        -> Scalar("tags", String, key)
//	[              -> StartArray
//	"rifle",       -> Scalar("rifle", String)
//	"bolt-action"  -> Scalar("bolt-action", String)
//	]              -> EndArray
//	}              -> EndObject
type Token interface {
	fmt.Stringer
}

// StartObject represents the start of a JSON object (introduced by '{').
type StartObject struct{}

func (s *StartObject) String() string {
	return "StartObject"
}

var _ Token = &StartObject{}

// EndObject represents the end of a JSON object (introduced by '}')
type EndObject struct{}

func (e *EndObject) String() string {
	return "EndObject"
}

var _ Token = &EndObject{}

// StartArray represents the start of a JSON array (introduced by '[').
type StartArray struct{}

func (s *StartArray) String() string {
	return "StartArray"
}

var _ Token = &StartArray{}

// EndArray represents the end of a JSON array (introduced by ']')
type EndArray struct{}

func (e *EndArray) String() string {
	return "EndArray"
}

var _ Token = &EndArray{}

// Scalar is the type used to represent all scalar JSON values, i.e.
// - strings
// - numbers
// - booleans (to values)
// - null (a single value)
//
// The type is encoded in the TypeAndFlags field, while the Bytes fields
// contains the literal representation of the value as found in the input.
type Scalar struct {

	// Literal representation of the value, e.g.
	// - the string "foo" is represented as []byte("\"foo\"")
	// - the number 123.5 is represented as []byte("123.5")
	// - the boolean true is represented as []byte("true")
	Bytes []byte

	// Type of the value
	TypeAndFlags uint8
}

func NewScalar(tp ScalarType, bytes []byte) *Scalar {
	return &Scalar{
		Bytes:        bytes,
		TypeAndFlags: uint8(tp),
	}
}

func NewKey(tp ScalarType, bytes []byte) *Scalar {
	return &Scalar{
		Bytes:        bytes,
		TypeAndFlags: uint8(tp) | KeyMask,
	}
}

func (s *Scalar) Type() ScalarType {
	return ScalarType(s.TypeAndFlags & TypeMask)
}

func (s *Scalar) IsKey() bool {
	return KeyMask&s.TypeAndFlags != 0
}

// IsUnescaped is true for strings with no backslash escapes, whose literal
// bytes minus the quotes are the string value.
func (s *Scalar) IsUnescaped() bool {
	return UnescapedMask&s.TypeAndFlags != 0
}

func (s *Scalar) String() string {
	if s.IsKey() {
		return fmt.Sprintf("Key(%s)", s.Bytes)
	}
	return fmt.Sprintf("Scalar(%s)", s.Bytes)
}

// Equal compares literal representations.  Two strings spelled with
// different escapes are not considered equal.
func (s *Scalar) Equal(t *Scalar) bool {
	if s == nil || t == nil {
		return false
	}
	if s.Type() != t.Type() || s.IsKey() != t.IsKey() {
		return false
	}
	switch s.Type() {
	case Null:
		return true
	case Boolean:
		// The bytes are "true" or "false", so it's enough to compare the first one
		return s.Bytes[0] == t.Bytes[0]
	default:
		return bytes.Equal(s.Bytes, t.Bytes)
	}
}

// ScalarType encodes the four possible JSON scalar types.
type ScalarType uint8

const (
	Null    ScalarType = 0x0 // the type of JSON null
	Boolean ScalarType = 0x1 // a JSON boolean
	Number  ScalarType = 0x2 // a JSON number
	String  ScalarType = 0x3 // a JSON string
)

func (t ScalarType) String() string {
	switch t {
	case Null:
		return "null"
	case Boolean:
		return "boolean"
	case Number:
		return "number"
	default:
		return "string"
	}
}

const (
	TypeMask      = 0b0011
	KeyMask       = 0b0100
	UnescapedMask = 0b1000
)

var (
	TrueScalar  = NewScalar(Boolean, []byte("true"))
	FalseScalar = NewScalar(Boolean, []byte("false"))
	NullScalar  = NewScalar(Null, []byte("null"))
)
