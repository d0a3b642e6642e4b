// Package pdtypes defines the semantic types of Palladium programs and their C spellings.
package pdtypes

import (
	"fmt"
	"strings"
)

// Type is the interface for all Palladium types
type Type interface {
	implType()
	String() string
	// CName returns the C spelling of the type (the element type for arrays)
	CName() string
}

// Tint is the single integer type, a signed 64-bit C long long
type Tint struct{}

// Tstring is an immutable NUL-terminated string, a C const char*
type Tstring struct{}

// Tvoid is the result type of builtins that produce no value
type Tvoid struct{}

// Tarray is a fixed-length array; Len is known at declaration time
type Tarray struct {
	Elem Type
	Len  int64
}

// Marker methods for Type interface
func (Tint) implType()    {}
func (Tstring) implType() {}
func (Tvoid) implType()   {}
func (Tarray) implType()  {}

func (Tint) String() string    { return "int" }
func (Tstring) String() string { return "string" }
func (Tvoid) String() string   { return "void" }

func (t Tarray) String() string {
	if t.Elem == nil {
		return fmt.Sprintf("[?; %d]", t.Len)
	}
	return fmt.Sprintf("[%s; %d]", t.Elem.String(), t.Len)
}

func (Tint) CName() string    { return "long long" }
func (Tstring) CName() string { return "const char*" }
func (Tvoid) CName() string   { return "void" }

func (t Tarray) CName() string {
	if t.Elem == nil {
		return "long long"
	}
	return t.Elem.CName()
}

// Int returns the integer type
func Int() Type { return Tint{} }

// String returns the string type
func String() Type { return Tstring{} }

// Void returns the void type
func Void() Type { return Tvoid{} }

// Array returns an array type
func Array(elem Type, n int64) Type {
	return Tarray{Elem: elem, Len: n}
}

// IsArray reports whether t is an array type
func IsArray(t Type) bool {
	_, ok := t.(Tarray)
	return ok
}

// Elem returns the element type of an array, or nil for scalars
func Elem(t Type) Type {
	if a, ok := t.(Tarray); ok {
		return a.Elem
	}
	return nil
}

// FromName converts a source-level type name to a Type.
// Only scalar element types can be named; arrays are formed from a size.
func FromName(name string) (Type, bool) {
	name = strings.Join(strings.Fields(name), " ")
	switch name {
	case "int", "i64", "long long", "long":
		return Int(), true
	case "string", "str", "String", "const char*", "const char *":
		return String(), true
	}
	return nil, false
}

// Equal checks if two types are equal
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch ta := a.(type) {
	case Tint:
		_, ok := b.(Tint)
		return ok
	case Tstring:
		_, ok := b.(Tstring)
		return ok
	case Tvoid:
		_, ok := b.(Tvoid)
		return ok
	case Tarray:
		tb, ok := b.(Tarray)
		return ok && ta.Len == tb.Len && Equal(ta.Elem, tb.Elem)
	}
	return false
}
