package ast

import "github.com/codeassociates/langcore/token"

// Node is the base interface for every AST node: every node references
// tokens by value and retains its source line (invariants I1, P2).
type Node interface {
	TokenLiteral() string
}

// Expression is the closed sum of expression-producing nodes.
type Expression interface {
	Node
	expressionNode()
}

type IntegerLiteral struct {
	Token    token.Token
	Value    int64
	BitWidth int
	HasWidth bool
}

func (*IntegerLiteral) expressionNode()        {}
func (l *IntegerLiteral) TokenLiteral() string { return l.Token.Lexeme }

type FloatLiteral struct {
	Token    token.Token
	Value    float64
	BitWidth int
	HasWidth bool
}

func (*FloatLiteral) expressionNode()        {}
func (l *FloatLiteral) TokenLiteral() string { return l.Token.Lexeme }

type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (*BooleanLiteral) expressionNode()        {}
func (l *BooleanLiteral) TokenLiteral() string { return l.Token.Lexeme }

type CharLiteral struct {
	Token token.Token
	Value byte
}

func (*CharLiteral) expressionNode()        {}
func (l *CharLiteral) TokenLiteral() string { return l.Token.Lexeme }

type StringLiteral struct {
	Token token.Token
	Value string
}

func (*StringLiteral) expressionNode()        {}
func (l *StringLiteral) TokenLiteral() string { return l.Token.Lexeme }

type NullLiteral struct {
	Token token.Token
}

func (*NullLiteral) expressionNode()        {}
func (l *NullLiteral) TokenLiteral() string { return l.Token.Lexeme }

type ArrayLiteral struct {
	Token    token.Token // the '[' token
	Elements []Expression
}

func (*ArrayLiteral) expressionNode()        {}
func (l *ArrayLiteral) TokenLiteral() string { return l.Token.Lexeme }

// CharArrayLiteral is the promoted form of an ArrayLiteral whose every
// element is a CharLiteral (spec.md §4.2.2, primary-expression rule 9).
type CharArrayLiteral struct {
	Token token.Token
	Chars []byte
}

func (*CharArrayLiteral) expressionNode()        {}
func (l *CharArrayLiteral) TokenLiteral() string { return l.Token.Lexeme }

type Binary struct {
	Left  Expression
	Op    token.Token
	Right Expression
}

func (*Binary) expressionNode()        {}
func (b *Binary) TokenLiteral() string { return b.Op.Lexeme }

type Unary struct {
	Op    token.Token
	Right Expression
}

func (*Unary) expressionNode()        {}
func (u *Unary) TokenLiteral() string { return u.Op.Lexeme }

type Logical struct {
	Left  Expression
	Op    token.Token
	Right Expression
}

func (*Logical) expressionNode()        {}
func (l *Logical) TokenLiteral() string { return l.Op.Lexeme }

type Grouping struct {
	Token token.Token // the '(' token
	Inner Expression
}

func (*Grouping) expressionNode()        {}
func (g *Grouping) TokenLiteral() string { return g.Token.Lexeme }

type Variable struct {
	Name token.Token
}

func (*Variable) expressionNode()        {}
func (v *Variable) TokenLiteral() string { return v.Name.Lexeme }

// Assign's Target is whichever lvalue form the parser accepted: a
// Variable, MemberAccess, or ArrayAccess (spec.md §4.2.2 rule 1).
type Assign struct {
	Target Expression
	Op     token.Token // one of = += -= *= /= %=
	Value  Expression
}

func (*Assign) expressionNode()        {}
func (a *Assign) TokenLiteral() string { return a.Target.TokenLiteral() }

type Call struct {
	Callee Expression
	Paren  token.Token
	Args   []Expression
}

func (*Call) expressionNode()        {}
func (c *Call) TokenLiteral() string { return c.Paren.Lexeme }

type ArrayAccess struct {
	Array Expression
	Token token.Token // the '[' token
	Index Expression
}

func (*ArrayAccess) expressionNode()        {}
func (a *ArrayAccess) TokenLiteral() string { return a.Token.Lexeme }

type MemberAccess struct {
	Object Expression
	Op     token.Token // '.' or '->'
	Member token.Token
}

func (*MemberAccess) expressionNode()        {}
func (m *MemberAccess) TokenLiteral() string { return m.Op.Lexeme }

// InterpolatedString is i"format":{ e1; e2; ... }.
type InterpolatedString struct {
	Token  token.Token
	Format string
	Exprs  []Expression
}

func (*InterpolatedString) expressionNode()        {}
func (i *InterpolatedString) TokenLiteral() string { return i.Token.Lexeme }

// TypeCast is Type:expression.
type TypeCast struct {
	Token  token.Token
	Target Type
	Inner  Expression
}

func (*TypeCast) expressionNode()        {}
func (t *TypeCast) TokenLiteral() string { return t.Token.Lexeme }

type AddressOf struct {
	Token token.Token // the '@' token
	Inner Expression
}

func (*AddressOf) expressionNode()        {}
func (a *AddressOf) TokenLiteral() string { return a.Token.Lexeme }

type Dereference struct {
	Token token.Token // the '*' token
	Inner Expression
}

func (*Dereference) expressionNode()        {}
func (d *Dereference) TokenLiteral() string { return d.Token.Lexeme }

type Input struct {
	Token  token.Token
	Prompt Expression // optional, nil when absent
}

func (*Input) expressionNode()        {}
func (i *Input) TokenLiteral() string { return i.Token.Lexeme }

type Open struct {
	Token    token.Token
	Filename Expression
	Mode     Expression
}

func (*Open) expressionNode()        {}
func (o *Open) TokenLiteral() string { return o.Token.Lexeme }

// SizeOf supplements spec.md's Expression list per SPEC_FULL.md §4.3: the
// `sizeof` keyword exists in the grammar (spec.md §6) but spec.md's
// closed Expression variant list omits it. Exactly one of TargetType or
// TargetExpr is set.
type SizeOf struct {
	Token      token.Token
	TargetType Type
	TargetExpr Expression
}

func (*SizeOf) expressionNode()        {}
func (s *SizeOf) TokenLiteral() string { return s.Token.Lexeme }
