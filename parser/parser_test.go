package parser

import (
	"testing"

	"github.com/codeassociates/langcore/ast"
	"github.com/codeassociates/langcore/lexer"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("lex error: %s", err)
	}
	prog, errs := ParseProgram(toks)
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	return prog
}

// TestPrecedence covers spec.md §8 scenario 3: 1 + 2 * 3; parses as
// Binary(+, 1, Binary(*, 2, 3)).
func TestPrecedence(t *testing.T) {
	prog := mustParse(t, "1 + 2 * 3;")
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	stmt, ok := prog.Statements[0].(*ast.ExpressionStmt)
	if !ok {
		t.Fatalf("expected ExpressionStmt, got %T", prog.Statements[0])
	}
	plus, ok := stmt.Expr.(*ast.Binary)
	if !ok || plus.Op.Lexeme != "+" {
		t.Fatalf("expected top-level '+', got %#v", stmt.Expr)
	}
	left, ok := plus.Left.(*ast.IntegerLiteral)
	if !ok || left.Value != 1 {
		t.Fatalf("expected left operand 1, got %#v", plus.Left)
	}
	star, ok := plus.Right.(*ast.Binary)
	if !ok || star.Op.Lexeme != "*" {
		t.Fatalf("expected right operand '*', got %#v", plus.Right)
	}
	l2, ok := star.Left.(*ast.IntegerLiteral)
	if !ok || l2.Value != 2 {
		t.Fatalf("expected 2, got %#v", star.Left)
	}
	r3, ok := star.Right.(*ast.IntegerLiteral)
	if !ok || r3.Value != 3 {
		t.Fatalf("expected 3, got %#v", star.Right)
	}
}

// TestLineNumbersSurviveParsing covers property P2: every node retains
// the source line of its defining token through to the AST.
func TestLineNumbersSurviveParsing(t *testing.T) {
	prog := mustParse(t, "int x = 1;\nint y = 2;\n")
	if len(prog.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(prog.Statements))
	}
	first, ok := prog.Statements[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("expected VarDecl, got %T", prog.Statements[0])
	}
	if first.Name.Line != 1 {
		t.Fatalf("expected line 1, got %d", first.Name.Line)
	}
	second, ok := prog.Statements[1].(*ast.VarDecl)
	if !ok {
		t.Fatalf("expected VarDecl, got %T", prog.Statements[1])
	}
	if second.Name.Line != 2 {
		t.Fatalf("expected line 2, got %d", second.Name.Line)
	}
}

func TestVarDeclVsFunctionDecl(t *testing.T) {
	prog := mustParse(t, "int x = 5; int add(int a, int b) { return a + b; }")
	if len(prog.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(prog.Statements))
	}
	if _, ok := prog.Statements[0].(*ast.VarDecl); !ok {
		t.Fatalf("expected VarDecl, got %T", prog.Statements[0])
	}
	fn, ok := prog.Statements[1].(*ast.FunctionDecl)
	if !ok {
		t.Fatalf("expected FunctionDecl, got %T", prog.Statements[1])
	}
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
}

func TestIfWhileFor(t *testing.T) {
	prog := mustParse(t, `
		if (x < 10) { print(x); } else { print(0); }
		while (x < 10) { x = x + 1; }
		for (int i = 0; i < 10; i = i + 1) { print(i); }
	`)
	if len(prog.Statements) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(prog.Statements))
	}
	if _, ok := prog.Statements[0].(*ast.If); !ok {
		t.Fatalf("expected If, got %T", prog.Statements[0])
	}
	if _, ok := prog.Statements[1].(*ast.While); !ok {
		t.Fatalf("expected While, got %T", prog.Statements[1])
	}
	if _, ok := prog.Statements[2].(*ast.For); !ok {
		t.Fatalf("expected For, got %T", prog.Statements[2])
	}
}

func TestClassDecl(t *testing.T) {
	prog := mustParse(t, `
		class Counter {
			int value = 0;
			int increment() { value = value + 1; return value; }
		};
	`)
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	cls, ok := prog.Statements[0].(*ast.ClassDecl)
	if !ok {
		t.Fatalf("expected ClassDecl, got %T", prog.Statements[0])
	}
	if len(cls.Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(cls.Members))
	}
	if cls.Members[0].Var == nil {
		t.Fatalf("expected first member to be a field")
	}
	if cls.Members[1].Func == nil {
		t.Fatalf("expected second member to be a method")
	}
}

func TestWhenVolatile(t *testing.T) {
	prog := mustParse(t, `when (ready) volatile { print(ready); }`)
	when, ok := prog.Statements[0].(*ast.When)
	if !ok {
		t.Fatalf("expected When, got %T", prog.Statements[0])
	}
	block, ok := when.Body.(*ast.Block)
	if !ok {
		t.Fatalf("expected Block body, got %T", when.Body)
	}
	if !block.IsVolatile {
		t.Fatalf("expected the volatile-marked block")
	}
}

func TestAssignmentTargets(t *testing.T) {
	prog := mustParse(t, `x = 1; a.f = 2; a[0] = 3; x += 1;`)
	if len(prog.Statements) != 4 {
		t.Fatalf("expected 4 statements, got %d", len(prog.Statements))
	}
	for i, want := range []string{"*ast.Variable", "*ast.MemberAccess", "*ast.ArrayAccess", "*ast.Variable"} {
		stmt := prog.Statements[i].(*ast.ExpressionStmt)
		assign, ok := stmt.Expr.(*ast.Assign)
		if !ok {
			t.Fatalf("statement %d: expected Assign, got %T", i, stmt.Expr)
		}
		got := typeNameOf(assign.Target)
		if got != want {
			t.Fatalf("statement %d: expected target %s, got %s", i, want, got)
		}
	}
}

func typeNameOf(e ast.Expression) string {
	switch e.(type) {
	case *ast.Variable:
		return "*ast.Variable"
	case *ast.MemberAccess:
		return "*ast.MemberAccess"
	case *ast.ArrayAccess:
		return "*ast.ArrayAccess"
	default:
		return "unknown"
	}
}

func TestTypeCastExpression(t *testing.T) {
	prog := mustParse(t, `float x = float:1;`)
	decl, ok := prog.Statements[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("expected VarDecl, got %T", prog.Statements[0])
	}
	cast, ok := decl.Init.(*ast.TypeCast)
	if !ok {
		t.Fatalf("expected TypeCast, got %T", decl.Init)
	}
	prim, ok := cast.Target.(*ast.PrimitiveType)
	if !ok || prim.Kind != ast.KindFloat {
		t.Fatalf("expected float cast target, got %#v", cast.Target)
	}
}

func TestArrayLiteralPromotesToCharArray(t *testing.T) {
	toks, err := lexer.Tokenize(`['a', 'b', 'c'];`)
	if err != nil {
		t.Fatalf("lex error: %s", err)
	}
	p := New(toks)
	expr := p.parseExpression()
	if len(p.Errors()) > 0 {
		t.Fatalf("parse errors: %v", p.Errors())
	}
	if _, ok := expr.(*ast.CharArrayLiteral); !ok {
		t.Fatalf("expected CharArrayLiteral, got %T", expr)
	}
}

// TestOperatorDecl covers spec.md §4.2.4's bracketed operator symbol:
// operator(T1, T2)[sym] { ... };
func TestOperatorDecl(t *testing.T) {
	prog := mustParse(t, `operator(Vector, Vector)[+] { return left; };`)
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	decl, ok := prog.Statements[0].(*ast.OperatorDecl)
	if !ok {
		t.Fatalf("expected OperatorDecl, got %T", prog.Statements[0])
	}
	if decl.Op.Lexeme != "+" {
		t.Fatalf("expected operator symbol '+', got %q", decl.Op.Lexeme)
	}
	left, ok := decl.LeftType.(*ast.NominalType)
	if !ok || left.Name != "Vector" {
		t.Fatalf("expected left type Vector, got %#v", decl.LeftType)
	}
	right, ok := decl.RightType.(*ast.NominalType)
	if !ok || right.Name != "Vector" {
		t.Fatalf("expected right type Vector, got %#v", decl.RightType)
	}
	if len(decl.Body.Stmts) != 1 {
		t.Fatalf("expected 1 statement in operator body, got %d", len(decl.Body.Stmts))
	}
}

func TestIncompleteDeclarationRecordsParseError(t *testing.T) {
	toks, err := lexer.Tokenize("int x = 1; int y =")
	if err != nil {
		t.Fatalf("lex error: %s", err)
	}
	_, errs := ParseProgram(toks)
	if len(errs) == 0 {
		t.Fatalf("expected at least one parse error")
	}
}
