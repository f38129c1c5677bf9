package interp

import (
	"fmt"
	"strconv"

	"github.com/codeassociates/langcore/ast"
	"github.com/codeassociates/langcore/token"
	"github.com/codeassociates/langcore/value"
)

// evaluate dispatches on the Expression's concrete type (spec.md §4.3:
// "dispatch is by AST-variant tag").
func (it *Interpreter) evaluate(expr ast.Expression, env *value.Environment) (value.Value, error) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return value.Integer(e.Value), nil
	case *ast.FloatLiteral:
		return value.Float(e.Value), nil
	case *ast.BooleanLiteral:
		return value.Boolean(e.Value), nil
	case *ast.CharLiteral:
		return value.Integer(e.Value), nil
	case *ast.StringLiteral:
		return value.String(e.Value), nil
	case *ast.NullLiteral:
		return value.Null{}, nil
	case *ast.ArrayLiteral:
		return it.evalArrayLiteral(e, env)
	case *ast.CharArrayLiteral:
		elems := make([]value.Value, len(e.Chars))
		for i, c := range e.Chars {
			elems[i] = value.Integer(c)
		}
		return value.NewArrayObject(elems), nil
	case *ast.Binary:
		return it.evalBinary(e, env)
	case *ast.Unary:
		return it.evalUnary(e, env)
	case *ast.Logical:
		return it.evalLogical(e, env)
	case *ast.Grouping:
		return it.evaluate(e.Inner, env)
	case *ast.Variable:
		v, err := env.Get(e.Name.Lexeme)
		if err != nil {
			return nil, &RuntimeError{Line: e.Name.Line, Msg: err.Error()}
		}
		return v, nil
	case *ast.Assign:
		return it.evalAssign(e, env)
	case *ast.Call:
		return it.evalCall(e, env)
	case *ast.ArrayAccess:
		return it.evalArrayAccess(e, env)
	case *ast.MemberAccess:
		return it.evalMemberAccess(e, env)
	case *ast.InterpolatedString:
		return it.evalInterpolatedString(e, env)
	case *ast.TypeCast:
		return it.evalTypeCast(e, env)
	case *ast.AddressOf:
		return it.evalAddressOf(e, env)
	case *ast.Dereference:
		return it.evalDereference(e, env)
	case *ast.Input:
		return it.evalInput(e, env)
	case *ast.Open:
		return it.evalOpen(e, env)
	case *ast.SizeOf:
		return it.evalSizeOf(e, env)
	}
	return nil, &RuntimeError{Msg: fmt.Sprintf("unhandled expression %T", expr)}
}

func (it *Interpreter) evalArrayLiteral(e *ast.ArrayLiteral, env *value.Environment) (value.Value, error) {
	elems := make([]value.Value, len(e.Elements))
	for i, elExpr := range e.Elements {
		v, err := it.evaluate(elExpr, env)
		if err != nil {
			return nil, err
		}
		elems[i] = v
	}
	return value.NewArrayObject(elems), nil
}

// evalBinary implements arithmetic/comparison/equality plus operator
// overloading (spec.md §4.3): when the left operand is an Object, a
// Function named "operator"+lexeme is tried first.
func (it *Interpreter) evalBinary(e *ast.Binary, env *value.Environment) (value.Value, error) {
	left, err := it.evaluate(e.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := it.evaluate(e.Right, env)
	if err != nil {
		return nil, err
	}

	if obj, ok := left.(*value.Object); ok {
		if fn, ok := it.lookupOperator(env, e.Op.Lexeme, obj, right); ok {
			return it.callFunction(fn, []value.Value{left, right}, e.Op.Line)
		}
	}

	result, err := applyBinaryOp(e.Op, left, right)
	if err != nil {
		if re, ok := err.(*RuntimeError); ok && re.Line == 0 {
			re.Line = e.Op.Line
		}
		return nil, err
	}
	return result, nil
}

// lookupOperator resolves an operator overload. SPEC_FULL.md §4.3
// supplements spec.md's plain "operator"+lexeme lookup with an
// operand-type-keyed variant, "operator"+lexeme+":"+rightTypeName,
// tried first so multiple overloads of the same symbol (e.g. operator+
// for both Vector and Scalar right-hand sides) can coexist; the
// untyped name remains the fallback for a single-overload symbol.
func (it *Interpreter) lookupOperator(env *value.Environment, lexeme string, left *value.Object, right value.Value) (*value.Function, bool) {
	rightType := value.TypeName(right)
	if obj, ok := right.(*value.Object); ok {
		rightType = obj.TypeName
	}
	typed := "operator" + lexeme + ":" + rightType
	if v, err := env.Get(typed); err == nil {
		if fn, ok := v.(*value.Function); ok {
			return fn, true
		}
	}
	plain := "operator" + lexeme
	if v, err := env.Get(plain); err == nil {
		if fn, ok := v.(*value.Function); ok {
			return fn, true
		}
	}
	return nil, false
}

func (it *Interpreter) evalUnary(e *ast.Unary, env *value.Environment) (value.Value, error) {
	right, err := it.evaluate(e.Right, env)
	if err != nil {
		return nil, err
	}
	switch e.Op.Type {
	case token.MINUS:
		switch n := right.(type) {
		case value.Integer:
			return -n, nil
		case value.Float:
			return -n, nil
		}
		return nil, &RuntimeError{Line: e.Op.Line, Msg: "unary '-' requires a number"}
	case token.BANG, token.NOT:
		return value.Boolean(!value.Truthy(right)), nil
	case token.TILDE:
		n, ok := right.(value.Integer)
		if !ok {
			return nil, &RuntimeError{Line: e.Op.Line, Msg: "unary '~' requires an integer"}
		}
		return ^n, nil
	}
	return nil, &RuntimeError{Line: e.Op.Line, Msg: "unsupported unary operator"}
}

func (it *Interpreter) evalLogical(e *ast.Logical, env *value.Environment) (value.Value, error) {
	left, err := it.evaluate(e.Left, env)
	if err != nil {
		return nil, err
	}
	if e.Op.Type == token.OR {
		if value.Truthy(left) {
			return left, nil
		}
		return it.evaluate(e.Right, env)
	}
	// AND
	if !value.Truthy(left) {
		return left, nil
	}
	return it.evaluate(e.Right, env)
}

// evalAssign mutates the nearest enclosing binding for a Variable
// target, or the target field/element for MemberAccess/ArrayAccess
// (spec.md §4.3 Assignment, generalized per DESIGN.md's parser note).
func (it *Interpreter) evalAssign(e *ast.Assign, env *value.Environment) (value.Value, error) {
	rhs, err := it.evaluate(e.Value, env)
	if err != nil {
		return nil, err
	}

	switch target := e.Target.(type) {
	case *ast.Variable:
		name := target.Name.Lexeme
		newVal := rhs
		if e.Op.Type != token.EQUAL {
			cur, err := env.Get(name)
			if err != nil {
				return nil, &RuntimeError{Line: target.Name.Line, Msg: err.Error()}
			}
			newVal, err = applyCompound(e.Op, cur, rhs)
			if err != nil {
				return nil, err
			}
		}
		if err := env.Assign(name, newVal); err != nil {
			return nil, &RuntimeError{Line: target.Name.Line, Msg: err.Error()}
		}
		return newVal, nil

	case *ast.MemberAccess:
		objVal, err := it.evaluate(target.Object, env)
		if err != nil {
			return nil, err
		}
		obj, ok := objVal.(*value.Object)
		if !ok {
			return nil, &RuntimeError{Line: target.Op.Line, Msg: "member assignment target is not an object"}
		}
		newVal := rhs
		if e.Op.Type != token.EQUAL {
			cur, ok := obj.GetField(target.Member.Lexeme)
			if !ok {
				return nil, &RuntimeError{Line: target.Member.Line, Msg: fmt.Sprintf("undefined field %q", target.Member.Lexeme)}
			}
			newVal, err = applyCompound(e.Op, cur, rhs)
			if err != nil {
				return nil, err
			}
		}
		obj.Fields[target.Member.Lexeme] = newVal
		return newVal, nil

	case *ast.ArrayAccess:
		arrVal, err := it.evaluate(target.Array, env)
		if err != nil {
			return nil, err
		}
		idxVal, err := it.evaluate(target.Index, env)
		if err != nil {
			return nil, err
		}
		arr, ok := arrVal.(*value.Object)
		idx, idxOK := idxVal.(value.Integer)
		if !ok || !idxOK {
			return nil, &RuntimeError{Line: target.Token.Line, Msg: "array assignment requires an array object and integer index"}
		}
		newVal := rhs
		if e.Op.Type != token.EQUAL {
			cur, ok := arr.At(int(idx))
			if !ok {
				return nil, &RuntimeError{Line: target.Token.Line, Msg: "array index out of range"}
			}
			newVal, err = applyCompound(e.Op, cur, rhs)
			if err != nil {
				return nil, err
			}
		}
		if !arr.Set(int(idx), newVal) {
			return nil, &RuntimeError{Line: target.Token.Line, Msg: "array index out of range"}
		}
		return newVal, nil
	}

	return nil, &RuntimeError{Msg: "invalid assignment target"}
}

func (it *Interpreter) evalCall(e *ast.Call, env *value.Environment) (value.Value, error) {
	calleeVal, err := it.evaluate(e.Callee, env)
	if err != nil {
		return nil, err
	}
	fn, ok := calleeVal.(*value.Function)
	if !ok {
		return nil, &RuntimeError{Line: e.Paren.Line, Msg: "call target is not a function"}
	}

	args := make([]value.Value, len(e.Args))
	for i, a := range e.Args {
		v, err := it.evaluate(a, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	result, err := it.callFunction(fn, args, e.Paren.Line)
	if err != nil {
		return nil, err
	}
	it.runCheckpoints() // "after each user-function return" (spec.md §4.3/§5)
	return result, nil
}

// callFunction invokes a native or user Function, binding parameters by
// position in a child of the captured environment (spec.md §4.3 Call).
func (it *Interpreter) callFunction(fn *value.Function, args []value.Value, line int) (value.Value, error) {
	if fn.Native != nil {
		return fn.Native(args)
	}

	callEnv := value.NewChild(fn.Closure)
	for i, paramName := range fn.Params {
		var v value.Value = value.Null{}
		if i < len(args) {
			v = args[i]
		}
		callEnv.Define(paramName, v)
	}

	for _, stmt := range fn.Body {
		if err := it.execute(stmt, callEnv); err != nil {
			if rs, ok := err.(*returnSignal); ok {
				return rs.Value, nil
			}
			return nil, err
		}
	}
	return value.Null{}, nil
}

func (it *Interpreter) evalArrayAccess(e *ast.ArrayAccess, env *value.Environment) (value.Value, error) {
	arrVal, err := it.evaluate(e.Array, env)
	if err != nil {
		return nil, err
	}
	idxVal, err := it.evaluate(e.Index, env)
	if err != nil {
		return nil, err
	}
	obj, ok := arrVal.(*value.Object)
	if !ok {
		return nil, &RuntimeError{Line: e.Token.Line, Msg: "index target is not an object"}
	}
	idx, ok := idxVal.(value.Integer)
	if !ok {
		return nil, &RuntimeError{Line: e.Token.Line, Msg: "array index must be an integer"}
	}
	v, ok := obj.At(int(idx))
	if !ok {
		return nil, &RuntimeError{Line: e.Token.Line, Msg: "array index out of range"}
	}
	return v, nil
}

func (it *Interpreter) evalMemberAccess(e *ast.MemberAccess, env *value.Environment) (value.Value, error) {
	objVal, err := it.evaluate(e.Object, env)
	if err != nil {
		return nil, err
	}
	obj, ok := objVal.(*value.Object)
	if !ok {
		return nil, &RuntimeError{Line: e.Op.Line, Msg: "member access target is not an object"}
	}
	v, ok := obj.GetField(e.Member.Lexeme)
	if !ok {
		return nil, &RuntimeError{Line: e.Member.Line, Msg: fmt.Sprintf("undefined field %q", e.Member.Lexeme)}
	}
	return v, nil
}

func (it *Interpreter) evalInterpolatedString(e *ast.InterpolatedString, env *value.Environment) (value.Value, error) {
	args := make([]value.Value, len(e.Exprs))
	for i, ex := range e.Exprs {
		v, err := it.evaluate(ex, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return value.String(formatInterpolated(e.Format, args)), nil
}

// formatInterpolated substitutes each "{}" slot in format, in order,
// with the string form of the corresponding value (spec.md §6: "the
// :{…} trailer lists the substitution expressions in slot order").
func formatInterpolated(format string, args []value.Value) string {
	out := make([]byte, 0, len(format))
	argIdx := 0
	for i := 0; i < len(format); i++ {
		if format[i] == '{' && i+1 < len(format) && format[i+1] == '}' {
			if argIdx < len(args) {
				out = append(out, args[argIdx].String()...)
				argIdx++
			}
			i++
			continue
		}
		out = append(out, format[i])
	}
	return string(out)
}

// evalTypeCast coerces between int/float/string/bool per spec.md §4.3's
// closed coercion table; any other pairing is a RuntimeError.
func (it *Interpreter) evalTypeCast(e *ast.TypeCast, env *value.Environment) (value.Value, error) {
	inner, err := it.evaluate(e.Inner, env)
	if err != nil {
		return nil, err
	}
	prim, ok := e.Target.(*ast.PrimitiveType)
	if !ok {
		return nil, &RuntimeError{Line: e.Token.Line, Msg: "cast target must be a primitive type"}
	}

	switch prim.Kind {
	case ast.KindInt:
		switch v := inner.(type) {
		case value.Integer:
			return v, nil
		case value.Float:
			return value.Integer(int64(v)), nil
		case value.Boolean:
			if v {
				return value.Integer(1), nil
			}
			return value.Integer(0), nil
		case value.String:
			n, err := strconv.ParseInt(string(v), 10, 64)
			if err != nil {
				return nil, &RuntimeError{Line: e.Token.Line, Msg: "cannot cast string to int"}
			}
			return value.Integer(n), nil
		}
	case ast.KindFloat:
		switch v := inner.(type) {
		case value.Float:
			return v, nil
		case value.Integer:
			return value.Float(float64(v)), nil
		case value.String:
			f, err := strconv.ParseFloat(string(v), 64)
			if err != nil {
				return nil, &RuntimeError{Line: e.Token.Line, Msg: "cannot cast string to float"}
			}
			return value.Float(f), nil
		}
	case ast.KindString:
		return value.String(inner.String()), nil
	case ast.KindBool:
		switch v := inner.(type) {
		case value.Boolean:
			return v, nil
		case value.Integer:
			return value.Boolean(v != 0), nil
		}
	}
	return nil, &RuntimeError{Line: e.Token.Line, Msg: fmt.Sprintf("unsupported cast to %s", prim.String())}
}

// evalAddressOf requires a Variable operand: it captures the
// environment frame in which the name is bound, not a value snapshot
// (spec.md §4.3 AddressOf/Dereference).
func (it *Interpreter) evalAddressOf(e *ast.AddressOf, env *value.Environment) (value.Value, error) {
	v, ok := e.Inner.(*ast.Variable)
	if !ok {
		return nil, &RuntimeError{Line: e.Token.Line, Msg: "'@' requires a variable operand"}
	}
	owner := owningEnv(env, v.Name.Lexeme)
	if owner == nil {
		return nil, &RuntimeError{Line: v.Name.Line, Msg: fmt.Sprintf("undefined variable %q", v.Name.Lexeme)}
	}
	return &value.Reference{Env: owner, Name: v.Name.Lexeme}, nil
}

func owningEnv(env *value.Environment, name string) *value.Environment {
	for e := env; e != nil; e = e.Parent() {
		if e.HasLocal(name) {
			return e
		}
	}
	return nil
}

func (it *Interpreter) evalDereference(e *ast.Dereference, env *value.Environment) (value.Value, error) {
	inner, err := it.evaluate(e.Inner, env)
	if err != nil {
		return nil, err
	}
	ref, ok := inner.(*value.Reference)
	if !ok {
		return nil, &RuntimeError{Line: e.Token.Line, Msg: "'*' requires a reference operand"}
	}
	v, err := ref.Read()
	if err != nil {
		return nil, &RuntimeError{Line: e.Token.Line, Msg: err.Error()}
	}
	return v, nil
}

// evalSizeOf reports element count for an array, field count for a
// custom object, and a fixed byte width for scalars (SPEC_FULL.md §4.3,
// supplementing spec.md's Expression list).
func (it *Interpreter) evalSizeOf(e *ast.SizeOf, env *value.Environment) (value.Value, error) {
	if e.TargetType != nil {
		return value.Integer(sizeOfType(e.TargetType)), nil
	}
	v, err := it.evaluate(e.TargetExpr, env)
	if err != nil {
		return nil, err
	}
	switch o := v.(type) {
	case *value.Object:
		if o.Kind == value.KindArray {
			return value.Integer(int64(o.Len())), nil
		}
		return value.Integer(int64(len(o.Fields))), nil
	case value.Integer:
		return value.Integer(8), nil
	case value.Float:
		return value.Integer(8), nil
	case value.String:
		return value.Integer(int64(len(o))), nil
	case value.Boolean:
		return value.Integer(1), nil
	}
	return value.Integer(0), nil
}

func sizeOfType(t ast.Type) int64 {
	switch tt := t.(type) {
	case *ast.PrimitiveType:
		if tt.HasWidth {
			return int64(tt.BitWidth / 8)
		}
		switch tt.Kind {
		case ast.KindBool:
			return 1
		case ast.KindChar:
			return 1
		default:
			return 8
		}
	case *ast.PointerType:
		return 8
	case *ast.ArrayType:
		if tt.HasSize {
			return int64(tt.Size) * sizeOfType(tt.Element)
		}
		return 0
	}
	return 0
}
