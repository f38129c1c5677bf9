package value

import "strconv"

// ObjectKind discriminates the Object "subclasses" named in spec.md §3.
// All of them share one field map; "method call" is "field load yields a
// Function, then Call" (spec.md §9) — no separate vtable is needed.
type ObjectKind int

const (
	KindCustom ObjectKind = iota
	KindArray
	KindNamespace
	KindFile
)

// Object is the nominal-type-plus-field-map record spec.md §3 describes.
// ArrayObject and CustomObject are not distinct Go types: both are an
// *Object distinguished by Kind, since all lookup-by-string goes through
// the same field map regardless of kind.
type Object struct {
	TypeName string
	Kind     ObjectKind
	Fields   map[string]Value
	elements []Value // backing slice for KindArray
}

func (*Object) valueNode() {}
func (o *Object) String() string {
	if o.Kind == KindArray {
		s := "["
		for i, e := range o.elements {
			if i > 0 {
				s += ", "
			}
			s += e.String()
		}
		return s + "]"
	}
	return "<" + o.TypeName + ">"
}

// NewCustomObject builds a CustomObject: the field map holds every nested
// VarDecl initializer value and every nested FunctionDecl as a
// Function-valued field (spec.md §4.3, ClassDecl/ObjectDecl rule).
func NewCustomObject(typeName string) *Object {
	return &Object{TypeName: typeName, Kind: KindCustom, Fields: map[string]Value{}}
}

// NewNamespaceObject wraps a namespace's bindings, tagged "namespace"
// (spec.md §4.3, NamespaceDecl rule).
func NewNamespaceObject(name string, fields map[string]Value) *Object {
	return &Object{TypeName: "namespace", Kind: KindNamespace, Fields: fields}
}

// NewArrayObject builds an ArrayObject over elems. "length" is reserved
// and always present (invariant I4).
func NewArrayObject(elems []Value) *Object {
	o := &Object{TypeName: "array", Kind: KindArray, Fields: map[string]Value{}, elements: append([]Value(nil), elems...)}
	o.Fields["length"] = Integer(len(o.elements))
	return o
}

// Len returns the element count of an ArrayObject.
func (o *Object) Len() int { return len(o.elements) }

// At returns the element at idx, or (nil,false) if idx is out of range
// (invariant I4: succeeds iff the decoded index < length).
func (o *Object) At(idx int) (Value, bool) {
	if idx < 0 || idx >= len(o.elements) {
		return nil, false
	}
	return o.elements[idx], true
}

// Set assigns the element at idx; it never grows the array, so
// Fields["length"] is unchanged. Returns false if idx is out of range.
func (o *Object) Set(idx int, v Value) bool {
	if idx < 0 || idx >= len(o.elements) {
		return false
	}
	o.elements[idx] = v
	return true
}

// Elements exposes the backing slice read-only, for iteration.
func (o *Object) Elements() []Value {
	return o.elements
}

// GetField performs the string-keyed field lookup every MemberAccess
// goes through (ArrayAccess with an integer index uses At instead).
// Numeric-string indices
// ("0", "1", ...) are resolved against the array backing store when Kind
// is KindArray, per invariant I4.
func (o *Object) GetField(name string) (Value, bool) {
	if o.Kind == KindArray {
		if idx, err := strconv.Atoi(name); err == nil {
			if v, ok := o.At(idx); ok {
				return v, true
			}
		}
	}
	v, ok := o.Fields[name]
	return v, ok
}
