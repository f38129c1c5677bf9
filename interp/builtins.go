package interp

import (
	"fmt"
	"strconv"

	"github.com/codeassociates/langcore/value"
)

// registerBuiltins populates the fixed native-function set named in
// spec.md §4.3: print, to_string, to_number, array, length, plus the
// true/false/null constants.
func registerBuiltins(it *Interpreter) {
	g := it.global

	g.Define("true", value.Boolean(true))
	g.Define("false", value.Boolean(false))
	g.Define("null", value.Null{})

	g.Define("print", value.NewNative("print", func(args []value.Value) (value.Value, error) {
		strs := make([]interface{}, len(args))
		for i, a := range args {
			strs[i] = a.String()
		}
		fmt.Fprintln(it.stdout, strs...)
		return value.Null{}, nil
	}))

	g.Define("to_string", value.NewNative("to_string", func(args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, &RuntimeError{Msg: "to_string expects 1 argument"}
		}
		return value.String(args[0].String()), nil
	}))

	g.Define("to_number", value.NewNative("to_number", func(args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, &RuntimeError{Msg: "to_number expects 1 argument"}
		}
		switch v := args[0].(type) {
		case value.Integer, value.Float:
			return v, nil
		case value.String:
			if n, err := strconv.ParseInt(string(v), 10, 64); err == nil {
				return value.Integer(n), nil
			}
			f, err := strconv.ParseFloat(string(v), 64)
			if err != nil {
				return nil, &RuntimeError{Msg: "to_number: not a number"}
			}
			return value.Float(f), nil
		}
		return nil, &RuntimeError{Msg: "to_number: unsupported argument"}
	}))

	g.Define("array", value.NewNative("array", func(args []value.Value) (value.Value, error) {
		return value.NewArrayObject(args), nil
	}))

	g.Define("length", value.NewNative("length", func(args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, &RuntimeError{Msg: "length expects 1 argument"}
		}
		switch v := args[0].(type) {
		case value.String:
			return value.Integer(len(v)), nil
		case *value.Object:
			if v.Kind == value.KindArray {
				return value.Integer(v.Len()), nil
			}
			return value.Integer(len(v.Fields)), nil
		}
		return nil, &RuntimeError{Msg: "length: unsupported argument"}
	}))
}
