// Package ast defines the abstract syntax tree produced by the parser:
// Type descriptors, Expression variants, and Statement variants, each a
// closed sum modeled as one Go interface with one struct per tag rather
// than a class hierarchy with virtual dispatch (spec.md §9).
package ast

import "strconv"

// Type is a structural descriptor attached to AST nodes; it is preserved
// for diagnostics and cast expressions but never enforced at runtime
// (spec.md §1, Non-goals: no type checker or inference pass).
type Type interface {
	typeNode()
	String() string
}

// PrimitiveKind enumerates the primitive Type kinds.
type PrimitiveKind int

const (
	KindInt PrimitiveKind = iota
	KindFloat
	KindChar
	KindBool
	KindVoid
	KindString
)

func (k PrimitiveKind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindChar:
		return "char"
	case KindBool:
		return "bool"
	case KindVoid:
		return "void"
	case KindString:
		return "string"
	default:
		return "?"
	}
}

// PrimitiveType is Primitive{kind, bit_width} from spec.md §3.
type PrimitiveType struct {
	Kind     PrimitiveKind
	BitWidth int  // 0 when absent
	HasWidth bool
}

func (*PrimitiveType) typeNode() {}
func (p *PrimitiveType) String() string {
	if p.HasWidth {
		return p.Kind.String() + "{" + strconv.Itoa(p.BitWidth) + "}"
	}
	return p.Kind.String()
}

// ArrayType is Array{element, size}.
type ArrayType struct {
	Element Type
	Size    int
	HasSize bool
}

func (*ArrayType) typeNode() {}
func (a *ArrayType) String() string {
	if a.HasSize {
		return "[" + strconv.Itoa(a.Size) + "]" + a.Element.String()
	}
	return "[]" + a.Element.String()
}

// PointerType is Pointer{pointee}.
type PointerType struct {
	Pointee Type
}

func (*PointerType) typeNode() {}
func (p *PointerType) String() string { return "*" + p.Pointee.String() }

// NominalKind distinguishes Class/Object/Struct, which are name-only.
type NominalKind int

const (
	NominalClass NominalKind = iota
	NominalObject
	NominalStruct
)

// NominalType is Class{name} / Object{name} / Struct{name}.
type NominalType struct {
	Kind NominalKind
	Name string
}

func (*NominalType) typeNode()        {}
func (n *NominalType) String() string { return n.Name }

// FunctionType is Function{return, params}.
type FunctionType struct {
	Return Type
	Params []Type
}

func (*FunctionType) typeNode() {}
func (f *FunctionType) String() string {
	s := "function("
	for i, p := range f.Params {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	s += ")"
	if f.Return != nil {
		s += " " + f.Return.String()
	}
	return s
}

