package value

import "github.com/codeassociates/langcore/ast"

// NativeFunc is a host-provided callable: sequence<Value> -> Value.
type NativeFunc func(args []Value) (Value, error)

// Function is either a native closure or a user-defined function: a
// parameter-name list, a captured Environment (the closure), and a body
// sequence of Statements. Arity is the parameter count; variadic is not
// modeled (spec.md §3).
type Function struct {
	Name    string
	Native  NativeFunc // set for native functions
	Params  []string   // parameter names, set for user functions
	Body    []ast.Statement
	Closure *Environment // the environment captured at definition time
}

func (*Function) valueNode() {}
func (f *Function) String() string {
	if f.Name != "" {
		return "<function " + f.Name + ">"
	}
	return "<function>"
}

// Arity returns the parameter count. Native functions report -1: their
// arity is whatever the Go closure enforces.
func (f *Function) Arity() int {
	if f.Native != nil {
		return -1
	}
	return len(f.Params)
}

// NewNative wraps a Go closure as a Function value.
func NewNative(name string, fn NativeFunc) *Function {
	return &Function{Name: name, Native: fn}
}
