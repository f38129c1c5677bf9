package ast

import "github.com/codeassociates/langcore/token"

// Statement is the closed sum of statement nodes.
type Statement interface {
	Node
	statementNode()
}

// Program is the root node produced by the parser: a sequence of
// top-level statements.
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

type ExpressionStmt struct {
	Token token.Token
	Expr  Expression
}

func (*ExpressionStmt) statementNode()        {}
func (e *ExpressionStmt) TokenLiteral() string { return e.Token.Lexeme }

type Block struct {
	Token      token.Token // the '{' token
	Stmts      []Statement
	IsVolatile bool
}

func (*Block) statementNode()        {}
func (b *Block) TokenLiteral() string { return b.Token.Lexeme }

type VarDecl struct {
	Token      token.Token
	Type       Type
	Name       token.Token
	Init       Expression // nil when absent
	IsVolatile bool
}

func (*VarDecl) statementNode()        {}
func (v *VarDecl) TokenLiteral() string { return v.Token.Lexeme }

type If struct {
	Token token.Token
	Cond  Expression
	Then  Statement
	Else  Statement // nil when absent
}

func (*If) statementNode()        {}
func (i *If) TokenLiteral() string { return i.Token.Lexeme }

type While struct {
	Token token.Token
	Cond  Expression
	Body  Statement
}

func (*While) statementNode()        {}
func (w *While) TokenLiteral() string { return w.Token.Lexeme }

type For struct {
	Token token.Token
	Init  Statement  // nil when absent
	Cond  Expression // nil when absent
	Incr  Expression // nil when absent
	Body  Statement
}

func (*For) statementNode()        {}
func (f *For) TokenLiteral() string { return f.Token.Lexeme }

type When struct {
	Token      token.Token
	Cond       Expression
	Body       Statement
	IsVolatile bool
	IsAsync    bool
}

func (*When) statementNode()        {}
func (w *When) TokenLiteral() string { return w.Token.Lexeme }

// Asm captures an "asm" body verbatim as an opaque string; it is out of
// scope beyond this capture (spec.md §1).
type Asm struct {
	Token token.Token
	Code  string
}

func (*Asm) statementNode()        {}
func (a *Asm) TokenLiteral() string { return a.Token.Lexeme }

type Param struct {
	Type Type
	Name token.Token
}

type FunctionDecl struct {
	Token      token.Token
	ReturnType Type
	Name       token.Token
	Params     []Param
	Body       *Block
	IsVolatile bool
	IsAsync    bool
}

func (*FunctionDecl) statementNode()        {}
func (f *FunctionDecl) TokenLiteral() string { return f.Token.Lexeme }

type Return struct {
	Token token.Token
	Value Expression // nil when absent
}

func (*Return) statementNode()        {}
func (r *Return) TokenLiteral() string { return r.Token.Lexeme }

type Break struct {
	Token token.Token
}

func (*Break) statementNode()        {}
func (b *Break) TokenLiteral() string { return b.Token.Lexeme }

type Continue struct {
	Token token.Token
}

func (*Continue) statementNode()        {}
func (c *Continue) TokenLiteral() string { return c.Token.Lexeme }

// Member is one member of a Class/Object aggregate: either a
// FunctionDecl or a VarDecl (spec.md §4.2.3).
type Member struct {
	Func *FunctionDecl // set when this member is a method
	Var  *VarDecl      // set when this member is a field
}

type ClassDecl struct {
	Token   token.Token
	Name    token.Token
	Members []Member
}

func (*ClassDecl) statementNode()        {}
func (c *ClassDecl) TokenLiteral() string { return c.Token.Lexeme }

type ObjectDecl struct {
	Token   token.Token
	Name    token.Token
	Members []Member
}

func (*ObjectDecl) statementNode()        {}
func (o *ObjectDecl) TokenLiteral() string { return o.Token.Lexeme }

type NamespaceDecl struct {
	Token token.Token
	Name  token.Token
	Decls []Statement
}

func (*NamespaceDecl) statementNode()        {}
func (n *NamespaceDecl) TokenLiteral() string { return n.Token.Lexeme }

type StructField struct {
	Type Type
	Name token.Token
}

type StructDecl struct {
	Token  token.Token
	Name   token.Token
	Fields []StructField
}

func (*StructDecl) statementNode()        {}
func (s *StructDecl) TokenLiteral() string { return s.Token.Lexeme }

// OperatorDecl binds a binary operator to a body for a pair of operand
// types: operator(T1, T2)[sym] { ... };
type OperatorDecl struct {
	Token     token.Token
	LeftType  Type
	RightType Type
	Op        token.Token
	Body      *Block
}

func (*OperatorDecl) statementNode()        {}
func (o *OperatorDecl) TokenLiteral() string { return o.Token.Lexeme }

type LockKind int

const (
	LockDefault LockKind = iota
	LockPre               // __lock
	LockPost              // lock__
)

// Lock binds metadata to a target function name with zero or more
// ::scope qualifiers and an optional body (spec.md §4.2.4, §5).
type Lock struct {
	Token  token.Token
	Kind   LockKind
	Target token.Token
	Scopes []token.Token
	Body   *Block // nil when absent
}

func (*Lock) statementNode()        {}
func (l *Lock) TokenLiteral() string { return l.Token.Lexeme }

type Print struct {
	Token token.Token
	Args  []Expression
}

func (*Print) statementNode()        {}
func (p *Print) TokenLiteral() string { return p.Token.Lexeme }

type InputStmt struct {
	Token    token.Token
	Prompt   Expression // nil when absent
	Variable token.Token
}

func (*InputStmt) statementNode()        {}
func (i *InputStmt) TokenLiteral() string { return i.Token.Lexeme }

type OpenMode int

const (
	ModeRead OpenMode = iota
	ModeWrite
	ModeAppend
	ModeReadWrite
	ModeWriteRead
	ModeAppendRead
)

func (m OpenMode) String() string {
	switch m {
	case ModeRead:
		return "r"
	case ModeWrite:
		return "w"
	case ModeAppend:
		return "a"
	case ModeReadWrite:
		return "r+"
	case ModeWriteRead:
		return "w+"
	case ModeAppendRead:
		return "a+"
	default:
		return "?"
	}
}

type OpenStmt struct {
	Token    token.Token
	Filename Expression
	Mode     OpenMode
	Variable token.Token
}

func (*OpenStmt) statementNode()        {}
func (o *OpenStmt) TokenLiteral() string { return o.Token.Lexeme }
