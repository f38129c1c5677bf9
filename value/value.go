// Package value defines the runtime values produced by the evaluator:
// the Value sum type, Object/Function records, and the lexically-scoped
// Environment chain (spec.md §3).
package value

import (
	"fmt"
	"strconv"
)

// Value is the runtime value sum type: Null, Integer, Float, String,
// Boolean, Object, Function. Values are copyable; Object and Function use
// shared ownership via pointer identity.
type Value interface {
	valueNode()
	String() string
}

type Null struct{}

func (Null) valueNode()      {}
func (Null) String() string { return "null" }

type Integer int64

func (Integer) valueNode()        {}
func (i Integer) String() string { return strconv.FormatInt(int64(i), 10) }

type Float float64

func (Float) valueNode()        {}
func (f Float) String() string { return strconv.FormatFloat(float64(f), 'g', -1, 64) }

type String string

func (String) valueNode()        {}
func (s String) String() string { return string(s) }

type Boolean bool

func (Boolean) valueNode()        {}
func (b Boolean) String() string { return strconv.FormatBool(bool(b)) }

// Truthy implements spec.md §4.3: Null and Boolean(false) are falsy, 0
// and 0.0 are falsy, empty string is truthy (it represents the string
// object, not its contents), every Object and Function is truthy.
func Truthy(v Value) bool {
	switch vv := v.(type) {
	case Null:
		return false
	case Boolean:
		return bool(vv)
	case Integer:
		return vv != 0
	case Float:
		return vv != 0
	default:
		return true
	}
}

// Equal implements spec.md's §4.3 equality rule: structural comparison
// for primitives, identity comparison for Object/Function.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Integer:
		switch bv := b.(type) {
		case Integer:
			return av == bv
		case Float:
			return Float(av) == bv
		}
		return false
	case Float:
		switch bv := b.(type) {
		case Float:
			return av == bv
		case Integer:
			return av == Float(bv)
		}
		return false
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Boolean:
		bv, ok := b.(Boolean)
		return ok && av == bv
	case *Object:
		bv, ok := b.(*Object)
		return ok && av == bv
	case *Function:
		bv, ok := b.(*Function)
		return ok && av == bv
	default:
		return false
	}
}

// TypeName returns a lowercase name for a non-object value, e.g. to key
// a typed operator-overload lookup by its right operand.
func TypeName(v Value) string {
	switch v.(type) {
	case Null:
		return "null"
	case Integer:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Boolean:
		return "bool"
	case *Object:
		return "object"
	case *Function:
		return "function"
	default:
		return fmt.Sprintf("%T", v)
	}
}
