// Package parser builds an ast.Program from a token.Token sequence using
// recursive descent with precedence climbing for expressions and
// speculative lookahead with rewind for declaration disambiguation
// (spec.md §4.2).
package parser

import (
	"fmt"

	"github.com/codeassociates/langcore/ast"
	"github.com/codeassociates/langcore/token"
)

// ParseError is raised for a missing expected token, an invalid
// assignment target, or an unexpected token at a declaration boundary.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Parser holds the full, immutable token vector and a cursor index; save
// and restore for speculative parses is trivial integer bookkeeping
// (spec.md §9 design note) — no buffering or re-lexing.
type Parser struct {
	tokens []token.Token
	pos    int
	errors []error

	// Declared aggregate names, tracked so a later Type reference can
	// tell a Class from an Object or Struct by name (ast.NominalKind).
	objectNames map[string]bool
	structNames map[string]bool
}

// New constructs a Parser over a complete token vector (as produced by
// lexer.Tokenize), including the terminal EOF token.
func New(tokens []token.Token) *Parser {
	return &Parser{
		tokens:      tokens,
		objectNames: map[string]bool{},
		structNames: map[string]bool{},
	}
}

// Errors returns every ParseError collected during parsing; the parser
// does not stop at the first one (spec.md §7: synchronize and continue).
func (p *Parser) Errors() []error { return p.errors }

func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, &ParseError{Line: p.cur().Line, Msg: msg})
}

// --- cursor ---

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekAt(offset int) token.Token {
	i := p.pos + offset
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *Parser) peekNext() token.Token { return p.peekAt(1) }

func (p *Parser) atEnd() bool { return p.cur().Type == token.EOF }

func (p *Parser) advance() token.Token {
	t := p.cur()
	if !p.atEnd() {
		p.pos++
	}
	return t
}

func (p *Parser) check(t token.Type) bool { return p.cur().Type == t }

func (p *Parser) match(types ...token.Type) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

// expect consumes the current token if it has type t; otherwise it
// records a ParseError and returns the zero Token with ok=false.
func (p *Parser) expect(t token.Type, what string) (token.Token, bool) {
	if p.check(t) {
		return p.advance(), true
	}
	p.addError(fmt.Sprintf("expected %s, got %q", what, p.cur().Lexeme))
	return token.Token{}, false
}

// mark/reset implement the speculative save/restore the spec calls for:
// a single integer token-index checkpoint (spec.md §9).
func (p *Parser) mark() int      { return p.pos }
func (p *Parser) reset(mark int) { p.pos = mark }

// synchronize skips tokens until the next ';' or a top-level keyword,
// per spec.md §7.
func (p *Parser) synchronize() {
	for !p.atEnd() {
		if p.cur().Type == token.SEMICOLON {
			p.advance()
			return
		}
		switch p.cur().Type {
		case token.CLASS, token.FUNCTION, token.FOR, token.IF, token.WHILE, token.RETURN:
			return
		}
		p.advance()
	}
}

// ParseProgram builds the full Program, recovering from ParseErrors at
// each top-level declaration boundary.
func ParseProgram(tokens []token.Token) (*ast.Program, []error) {
	p := New(tokens)
	prog := &ast.Program{}
	for !p.atEnd() {
		stmt := p.parseDeclarationSafely()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
	}
	return prog, p.errors
}

func (p *Parser) parseDeclarationSafely() (stmt ast.Statement) {
	before := len(p.errors)
	stmt = p.parseDeclaration()
	if len(p.errors) > before {
		p.synchronize()
	}
	return stmt
}
