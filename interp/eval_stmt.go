package interp

import (
	"fmt"
	"strings"

	"github.com/codeassociates/langcore/ast"
	"github.com/codeassociates/langcore/value"
)

// execute dispatches on the Statement's concrete type (spec.md §4.3
// Statement execution).
func (it *Interpreter) execute(stmt ast.Statement, env *value.Environment) error {
	switch s := stmt.(type) {
	case *ast.ExpressionStmt:
		_, err := it.evaluate(s.Expr, env)
		return err
	case *ast.Block:
		return it.execBlock(s, env)
	case *ast.VarDecl:
		return it.execVarDecl(s, env)
	case *ast.If:
		return it.execIf(s, env)
	case *ast.While:
		return it.execWhile(s, env)
	case *ast.For:
		return it.execFor(s, env)
	case *ast.FunctionDecl:
		return it.execFunctionDecl(s, env)
	case *ast.Return:
		var v value.Value = value.Null{}
		if s.Value != nil {
			var err error
			v, err = it.evaluate(s.Value, env)
			if err != nil {
				return err
			}
		}
		return &returnSignal{Value: v}
	case *ast.Break:
		return &breakSignal{}
	case *ast.Continue:
		return &continueSignal{}
	case *ast.ClassDecl:
		return it.execAggregate(s.Name.Lexeme, s.Members, env)
	case *ast.ObjectDecl:
		return it.execAggregate(s.Name.Lexeme, s.Members, env)
	case *ast.NamespaceDecl:
		return it.execNamespace(s, env)
	case *ast.StructDecl:
		return nil // nominal only; no runtime side effect (spec.md §4.3)
	case *ast.OperatorDecl:
		return it.execOperatorDecl(s, env)
	case *ast.When:
		it.whens = append(it.whens, &whenContext{Cond: s.Cond, Body: s.Body, Env: env, Volatile: s.IsVolatile})
		return nil
	case *ast.Asm:
		return nil // captured verbatim; no-op in the core evaluator
	case *ast.Lock:
		return nil // metadata only; no concurrency runtime in the core
	case *ast.Print:
		return it.execPrint(s, env)
	case *ast.InputStmt:
		return it.execInputStmt(s, env)
	case *ast.OpenStmt:
		return it.execOpenStmt(s, env)
	}
	return &RuntimeError{Msg: fmt.Sprintf("unhandled statement %T", stmt)}
}

// execBlock runs each statement in a new child environment; on any
// signal it stops immediately and re-raises (spec.md §4.3 Block — the
// "restore the prior environment" half is implicit: a signal simply
// discards the child frame by not reusing it further).
func (it *Interpreter) execBlock(b *ast.Block, env *value.Environment) error {
	child := value.NewChild(env)
	for _, stmt := range b.Stmts {
		if err := it.execute(stmt, child); err != nil {
			return err
		}
	}
	return nil
}

func (it *Interpreter) execVarDecl(v *ast.VarDecl, env *value.Environment) error {
	var val value.Value = value.Null{}
	if v.Init != nil {
		var err error
		val, err = it.evaluate(v.Init, env)
		if err != nil {
			return err
		}
	}
	env.Define(v.Name.Lexeme, val)
	return nil
}

func (it *Interpreter) execIf(s *ast.If, env *value.Environment) error {
	cond, err := it.evaluate(s.Cond, env)
	if err != nil {
		return err
	}
	if value.Truthy(cond) {
		return it.execute(s.Then, env)
	}
	if s.Else != nil {
		return it.execute(s.Else, env)
	}
	return nil
}

func (it *Interpreter) execWhile(s *ast.While, env *value.Environment) error {
	for {
		cond, err := it.evaluate(s.Cond, env)
		if err != nil {
			return err
		}
		if !value.Truthy(cond) {
			return nil
		}
		if err := it.execute(s.Body, env); err != nil {
			if _, ok := err.(*breakSignal); ok {
				return nil
			}
			if _, ok := err.(*continueSignal); ok {
				continue
			}
			return err
		}
	}
}

func (it *Interpreter) execFor(s *ast.For, env *value.Environment) error {
	loopEnv := value.NewChild(env)
	if s.Init != nil {
		if err := it.execute(s.Init, loopEnv); err != nil {
			return err
		}
	}
	for {
		if s.Cond != nil {
			cond, err := it.evaluate(s.Cond, loopEnv)
			if err != nil {
				return err
			}
			if !value.Truthy(cond) {
				return nil
			}
		}
		if err := it.execute(s.Body, loopEnv); err != nil {
			if _, ok := err.(*breakSignal); ok {
				return nil
			}
			if _, ok := err.(*continueSignal); !ok {
				return err
			}
		}
		if s.Incr != nil {
			if _, err := it.evaluate(s.Incr, loopEnv); err != nil {
				return err
			}
		}
	}
}

func (it *Interpreter) execFunctionDecl(f *ast.FunctionDecl, env *value.Environment) error {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Name.Lexeme
	}
	fn := &value.Function{
		Name:    f.Name.Lexeme,
		Params:  params,
		Body:    f.Body.Stmts,
		Closure: env,
	}
	env.Define(f.Name.Lexeme, fn)
	return nil
}

// execAggregate builds a CustomObject from a Class/ObjectDecl's member
// list: every VarDecl's initializer value and every FunctionDecl as a
// Function-valued field, then binds it under the declaration name
// (spec.md §4.3 ClassDecl/ObjectDecl).
func (it *Interpreter) execAggregate(name string, members []ast.Member, env *value.Environment) error {
	obj := value.NewCustomObject(name)
	for _, m := range members {
		switch {
		case m.Func != nil:
			params := make([]string, len(m.Func.Params))
			for i, p := range m.Func.Params {
				params[i] = p.Name.Lexeme
			}
			obj.Fields[m.Func.Name.Lexeme] = &value.Function{
				Name:    m.Func.Name.Lexeme,
				Params:  params,
				Body:    m.Func.Body.Stmts,
				Closure: env,
			}
		case m.Var != nil:
			var val value.Value = value.Null{}
			if m.Var.Init != nil {
				v, err := it.evaluate(m.Var.Init, env)
				if err != nil {
					return err
				}
				val = v
			}
			obj.Fields[m.Var.Name.Lexeme] = val
		}
	}
	env.Define(name, obj)
	return nil
}

// execNamespace opens a fresh child environment, executes the nested
// declarations within it, then wraps the resulting bindings in a
// CustomObject tagged "namespace" (spec.md §4.3 NamespaceDecl).
func (it *Interpreter) execNamespace(n *ast.NamespaceDecl, env *value.Environment) error {
	child := value.NewChild(env)
	for _, decl := range n.Decls {
		if err := it.execute(decl, child); err != nil {
			return err
		}
	}
	obj := value.NewNamespaceObject(n.Name.Lexeme, child.Snapshot())
	env.Define(n.Name.Lexeme, obj)
	return nil
}

// execOperatorDecl builds a Function from the operator body (arity-2:
// left, right) and binds it under "operator"+op.lexeme; when the right
// operand type is nominal it is also bound under a key qualified by
// that type name (SPEC_FULL.md §4.3).
func (it *Interpreter) execOperatorDecl(o *ast.OperatorDecl, env *value.Environment) error {
	fn := &value.Function{
		Name:    "operator" + o.Op.Lexeme,
		Params:  []string{"left", "right"},
		Body:    o.Body.Stmts,
		Closure: env,
	}
	key := "operator" + o.Op.Lexeme
	env.Define(key, fn)
	if nt, ok := o.RightType.(*ast.NominalType); ok {
		env.Define(key+":"+nt.Name, fn)
	}
	return nil
}

func (it *Interpreter) execPrint(p *ast.Print, env *value.Environment) error {
	parts := make([]string, len(p.Args))
	for i, a := range p.Args {
		v, err := it.evaluate(a, env)
		if err != nil {
			return err
		}
		parts[i] = v.String()
	}
	fmt.Fprintln(it.stdout, strings.Join(parts, " "))
	return nil
}
