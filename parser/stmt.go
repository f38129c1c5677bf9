package parser

import (
	"fmt"

	"github.com/codeassociates/langcore/ast"
	"github.com/codeassociates/langcore/token"
)

// parseDeclaration implements spec.md §4.2.1's declaration-boundary
// disambiguation: a speculative Type parse followed by IDENTIFIER tells
// a function declaration from a variable declaration; anything else
// falls through to a statement.
func (p *Parser) parseDeclaration() ast.Statement {
	switch p.cur().Type {
	case token.CLASS:
		return p.parseClassDecl()
	case token.OBJECT:
		return p.parseObjectDecl()
	case token.STRUCT:
		return p.parseStructDecl()
	case token.NAMESPACE:
		return p.parseNamespaceDecl()
	case token.OPERATOR:
		return p.parseOperatorDecl()
	}

	if decl, ok := p.tryVarOrFuncDecl(false); ok {
		return decl
	}
	return p.parseStatement()
}

// tryVarOrFuncDecl speculatively parses Type IDENTIFIER and then decides,
// from the token that follows, which declaration form applies:
//
//	'(' -> function declaration
//	'=' or ';' -> variable declaration
//
// Any other follow-on, or a failed Type parse, rewinds and returns
// ok=false so the caller can fall back (spec.md §4.2.1).
func (p *Parser) tryVarOrFuncDecl(inMember bool) (ast.Statement, bool) {
	mark := p.mark()

	// A function declaration may carry volatile/async modifiers before
	// its return type; skip over them for the trial parse and let
	// parseFunctionDecl re-read them after a successful rewind.
	isVolatile := false
	for p.check(token.VOLATILE) || p.check(token.ASYNC) {
		if p.cur().Type == token.VOLATILE {
			isVolatile = true
		}
		p.advance()
	}

	typ, ok := p.tryType()
	if !ok || !p.check(token.IDENTIFIER) {
		p.reset(mark)
		return nil, false
	}
	name := p.advance()

	switch p.cur().Type {
	case token.LEFT_PAREN:
		p.reset(mark)
		return p.parseFunctionDecl(), true
	case token.EQUAL, token.SEMICOLON:
		return p.finishVarDecl(typ, name, isVolatile), true
	default:
		p.reset(mark)
		return nil, false
	}
}

func (p *Parser) finishVarDecl(typ ast.Type, name token.Token, isVolatile bool) ast.Statement {
	decl := &ast.VarDecl{Token: name, Type: typ, Name: name, IsVolatile: isVolatile}
	if p.match(token.EQUAL) {
		decl.Init = p.parseExpression()
	}
	p.expect(token.SEMICOLON, "';'")
	return decl
}

func (p *Parser) parseFunctionDecl() *ast.FunctionDecl {
	isVolatile := p.match(token.VOLATILE)
	isAsync := p.match(token.ASYNC)
	retType := p.parseType()
	name, _ := p.expect(token.IDENTIFIER, "function name")
	p.expect(token.LEFT_PAREN, "'('")

	var params []ast.Param
	for !p.check(token.RIGHT_PAREN) && !p.atEnd() {
		pt := p.parseType()
		pn, _ := p.expect(token.IDENTIFIER, "parameter name")
		params = append(params, ast.Param{Type: pt, Name: pn})
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RIGHT_PAREN, "')'")
	body := p.parseBlock()

	return &ast.FunctionDecl{
		Token:      name,
		ReturnType: retType,
		Name:       name,
		Params:     params,
		Body:       body,
		IsVolatile: isVolatile,
		IsAsync:    isAsync,
	}
}

// parseStatement dispatches on the current token for every non-
// declaration statement form (spec.md §4.2.2).
func (p *Parser) parseStatement() ast.Statement {
	switch p.cur().Type {
	case token.LEFT_BRACE:
		return p.parseBlock()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.WHEN, token.ASYNC:
		if p.cur().Type == token.ASYNC && p.peekNext().Type != token.WHEN {
			break // async qualifies a function decl, not a bare statement
		}
		return p.parseWhen()
	case token.ASM:
		return p.parseAsm()
	case token.RETURN:
		return p.parseReturn()
	case token.BREAK:
		tok := p.advance()
		p.expect(token.SEMICOLON, "';'")
		return &ast.Break{Token: tok}
	case token.CONTINUE:
		tok := p.advance()
		p.expect(token.SEMICOLON, "';'")
		return &ast.Continue{Token: tok}
	case token.LOCK, token.LOCK_PRE, token.LOCK_POST:
		return p.parseLock()
	case token.PRINT:
		return p.parsePrint()
	case token.INPUT:
		if stmt, ok := p.tryInputStmt(); ok {
			return stmt
		}
	case token.VOLATILE:
		return p.parseVolatileIntro()
	case token.IDENTIFIER:
		if p.cur().Lexeme == "open" {
			if stmt, ok := p.tryOpenStmt(); ok {
				return stmt
			}
		}
	}

	if decl, ok := p.tryVarOrFuncDecl(false); ok {
		return decl
	}

	startTok := p.cur()
	expr := p.parseExpression()
	p.expect(token.SEMICOLON, "';'")
	return &ast.ExpressionStmt{Token: startTok, Expr: expr}
}

func (p *Parser) parseBlock() *ast.Block {
	isVolatile := p.match(token.VOLATILE)
	tok, _ := p.expect(token.LEFT_BRACE, "'{'")
	block := &ast.Block{Token: tok, IsVolatile: isVolatile}
	for !p.check(token.RIGHT_BRACE) && !p.atEnd() {
		block.Stmts = append(block.Stmts, p.parseDeclaration())
	}
	p.expect(token.RIGHT_BRACE, "'}'")
	return block
}

func (p *Parser) parseIf() ast.Statement {
	tok := p.advance()
	p.expect(token.LEFT_PAREN, "'('")
	cond := p.parseExpression()
	p.expect(token.RIGHT_PAREN, "')'")
	then := p.parseStatement()
	var elseStmt ast.Statement
	if p.match(token.ELSE) {
		elseStmt = p.parseStatement()
	}
	return &ast.If{Token: tok, Cond: cond, Then: then, Else: elseStmt}
}

func (p *Parser) parseWhile() ast.Statement {
	tok := p.advance()
	p.expect(token.LEFT_PAREN, "'('")
	cond := p.parseExpression()
	p.expect(token.RIGHT_PAREN, "')'")
	body := p.parseStatement()
	return &ast.While{Token: tok, Cond: cond, Body: body}
}

// parseFor handles init;cond;incr where init may be a var declaration or
// an expression statement, matching C-family for loops (spec.md §4.2.2).
func (p *Parser) parseFor() ast.Statement {
	tok := p.advance()
	p.expect(token.LEFT_PAREN, "'('")

	var init ast.Statement
	if !p.check(token.SEMICOLON) {
		if decl, ok := p.tryVarOrFuncDecl(false); ok {
			init = decl
		} else {
			e := p.parseExpression()
			p.expect(token.SEMICOLON, "';'")
			init = &ast.ExpressionStmt{Token: tok, Expr: e}
		}
	} else {
		p.advance()
	}

	var cond ast.Expression
	if !p.check(token.SEMICOLON) {
		cond = p.parseExpression()
	}
	p.expect(token.SEMICOLON, "';'")

	var incr ast.Expression
	if !p.check(token.RIGHT_PAREN) {
		incr = p.parseExpression()
	}
	p.expect(token.RIGHT_PAREN, "')'")

	body := p.parseStatement()
	return &ast.For{Token: tok, Init: init, Cond: cond, Incr: incr, Body: body}
}

// parseWhen handles `[async] when (cond) [volatile] body;` reactive
// blocks (spec.md §5): checked at each evaluation checkpoint, the body
// runs at every checkpoint where the condition is truthy; IsVolatile
// (set from a `volatile` block body) drops it after its first firing.
func (p *Parser) parseWhen() ast.Statement {
	isAsync := p.match(token.ASYNC)
	tok := p.advance() // WHEN
	p.expect(token.LEFT_PAREN, "'('")
	cond := p.parseExpression()
	p.expect(token.RIGHT_PAREN, "')'")
	body := p.parseStatement()
	isVolatile := false
	if b, ok := body.(*ast.Block); ok && b.IsVolatile {
		isVolatile = true
	}
	return &ast.When{Token: tok, Cond: cond, Body: body, IsVolatile: isVolatile, IsAsync: isAsync}
}

// parseAsm captures the verbatim braced body as opaque text; the core
// evaluator never interprets it (spec.md §5).
func (p *Parser) parseAsm() ast.Statement {
	tok := p.advance()
	p.expect(token.LEFT_BRACE, "'{'")
	depth := 1
	var code string
	for depth > 0 && !p.atEnd() {
		switch p.cur().Type {
		case token.LEFT_BRACE:
			depth++
		case token.RIGHT_BRACE:
			depth--
			if depth == 0 {
				p.advance()
				goto done
			}
		}
		code += p.cur().Lexeme + " "
		p.advance()
	}
done:
	p.expect(token.SEMICOLON, "';'")
	return &ast.Asm{Token: tok, Code: code}
}

func (p *Parser) parseReturn() ast.Statement {
	tok := p.advance()
	var value ast.Expression
	if !p.check(token.SEMICOLON) {
		value = p.parseExpression()
	}
	p.expect(token.SEMICOLON, "';'")
	return &ast.Return{Token: tok, Value: value}
}

// parseLock handles lock/__lock/lock__ annotations, recorded as metadata
// only and never scheduled or enforced by the evaluator (spec.md §5).
// Form: (lock|__lock|lock__) [target] [::scope (,::scope)*] [block] ;
func (p *Parser) parseLock() ast.Statement {
	tok := p.advance()
	var kind ast.LockKind
	switch tok.Type {
	case token.LOCK_PRE:
		kind = ast.LockPre
	case token.LOCK_POST:
		kind = ast.LockPost
	default:
		kind = ast.LockDefault
	}

	var target token.Token
	if p.check(token.IDENTIFIER) {
		target = p.advance()
	}

	var scopes []token.Token
	for p.match(token.SCOPE_RESOLUTION) {
		name, ok := p.expect(token.IDENTIFIER, "scope name")
		if !ok {
			break
		}
		scopes = append(scopes, name)
	}

	var body *ast.Block
	if p.check(token.LEFT_BRACE) {
		body = p.parseBlock()
	} else {
		p.expect(token.SEMICOLON, "';'")
	}

	return &ast.Lock{Token: tok, Kind: kind, Target: target, Scopes: scopes, Body: body}
}

func (p *Parser) parsePrint() ast.Statement {
	tok := p.advance()
	p.expect(token.LEFT_PAREN, "'('")
	var args []ast.Expression
	for !p.check(token.RIGHT_PAREN) && !p.atEnd() {
		args = append(args, p.parseExpression())
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RIGHT_PAREN, "')'")
	p.expect(token.SEMICOLON, "';'")
	return &ast.Print{Token: tok, Args: args}
}

// tryInputStmt recognizes `input(prompt) -> variable;`, the statement
// form of Input that binds straight into a variable; a bare `input(...)`
// not followed by '->' is an expression instead (spec.md §4.2.2).
func (p *Parser) tryInputStmt() (ast.Statement, bool) {
	mark := p.mark()
	tok := p.advance()
	p.expect(token.LEFT_PAREN, "'('")
	var prompt ast.Expression
	if !p.check(token.RIGHT_PAREN) {
		prompt = p.parseExpression()
	}
	p.expect(token.RIGHT_PAREN, "')'")
	if !p.match(token.ARROW) {
		p.reset(mark)
		return nil, false
	}
	variable, ok := p.expect(token.IDENTIFIER, "variable name")
	if !ok {
		return nil, false
	}
	p.expect(token.SEMICOLON, "';'")
	return &ast.InputStmt{Token: tok, Prompt: prompt, Variable: variable}, true
}

// tryOpenStmt recognizes `open(filename, mode) -> variable;`, the
// statement form that binds the opened file straight into a variable
// (SPEC_FULL.md §6); a bare `open(...)` not followed by '->' is an
// expression instead. "open" is not a reserved word, so this is keyed
// off the identifier's lexeme the same way the parser recognizes
// "string" only inside a trial type parse.
func (p *Parser) tryOpenStmt() (ast.Statement, bool) {
	mark := p.mark()
	tok := p.advance() // identifier "open"
	if !p.match(token.LEFT_PAREN) {
		p.reset(mark)
		return nil, false
	}
	filename := p.parseExpression()
	p.expect(token.COMMA, "','")
	modeExpr := p.parseExpression()
	p.expect(token.RIGHT_PAREN, "')'")
	if !p.match(token.ARROW) {
		p.reset(mark)
		return nil, false
	}
	variable, ok := p.expect(token.IDENTIFIER, "variable name")
	if !ok {
		return nil, false
	}
	p.expect(token.SEMICOLON, "';'")
	return &ast.OpenStmt{Token: tok, Filename: filename, Mode: openModeFromLiteral(modeExpr), Variable: variable}, true
}

// openModeFromLiteral maps the quoted mode literal ("r","w","a","r+",
// "w+","a+") a open() call passes to its ast.OpenMode; anything else
// defaults to ModeRead.
func openModeFromLiteral(e ast.Expression) ast.OpenMode {
	s, ok := e.(*ast.StringLiteral)
	if !ok {
		return ast.ModeRead
	}
	switch s.Value {
	case "r":
		return ast.ModeRead
	case "w":
		return ast.ModeWrite
	case "a":
		return ast.ModeAppend
	case "r+":
		return ast.ModeReadWrite
	case "w+":
		return ast.ModeWriteRead
	case "a+":
		return ast.ModeAppendRead
	default:
		return ast.ModeRead
	}
}

// parseVolatileIntro handles `volatile` preceding either a block (a
// volatile when-body marker handled inside parseBlock) or a var decl.
func (p *Parser) parseVolatileIntro() ast.Statement {
	if p.peekNext().Type == token.LEFT_BRACE {
		return p.parseBlock()
	}
	mark := p.mark()
	startTok := p.cur()
	p.advance() // consume 'volatile'
	if decl, ok := p.tryVarOrFuncDecl(false); ok {
		if vd, ok := decl.(*ast.VarDecl); ok {
			vd.IsVolatile = true
		}
		return decl
	}
	p.reset(mark)
	expr := p.parseExpression()
	p.expect(token.SEMICOLON, "';'")
	return &ast.ExpressionStmt{Token: startTok, Expr: expr}
}

// --- aggregate declarations ---

// parseMembers parses the function-decl-or-var-decl member list common
// to class, object, and struct-adjacent bodies (spec.md §4.2.3), up to
// the closing '}' followed by its mandatory trailing ';' (§4.2.4).
func (p *Parser) parseMembers() []ast.Member {
	p.expect(token.LEFT_BRACE, "'{'")
	var members []ast.Member
	for !p.check(token.RIGHT_BRACE) && !p.atEnd() {
		before := len(p.errors)
		if decl, ok := p.tryVarOrFuncDecl(true); ok {
			switch d := decl.(type) {
			case *ast.FunctionDecl:
				members = append(members, ast.Member{Func: d})
			case *ast.VarDecl:
				members = append(members, ast.Member{Var: d})
			}
		} else {
			p.addError(fmt.Sprintf("expected member declaration, got %q", p.cur().Lexeme))
			p.advance()
		}
		if len(p.errors) > before {
			p.synchronize()
		}
	}
	p.expect(token.RIGHT_BRACE, "'}'")
	p.expect(token.SEMICOLON, "';'")
	return members
}

func (p *Parser) parseClassDecl() ast.Statement {
	tok := p.advance()
	name, _ := p.expect(token.IDENTIFIER, "class name")
	members := p.parseMembers()
	return &ast.ClassDecl{Token: tok, Name: name, Members: members}
}

func (p *Parser) parseObjectDecl() ast.Statement {
	tok := p.advance()
	name, _ := p.expect(token.IDENTIFIER, "object name")
	p.objectNames[name.Lexeme] = true
	members := p.parseMembers()
	return &ast.ObjectDecl{Token: tok, Name: name, Members: members}
}

// parseStructDecl implements the chosen Open-Question form: a flat
// field list, no methods (SPEC_FULL.md §9 Open Questions).
func (p *Parser) parseStructDecl() ast.Statement {
	tok := p.advance()
	name, _ := p.expect(token.IDENTIFIER, "struct name")
	p.structNames[name.Lexeme] = true
	p.expect(token.LEFT_BRACE, "'{'")
	var fields []ast.StructField
	for !p.check(token.RIGHT_BRACE) && !p.atEnd() {
		ft := p.parseType()
		fn, _ := p.expect(token.IDENTIFIER, "field name")
		fields = append(fields, ast.StructField{Type: ft, Name: fn})
		p.expect(token.SEMICOLON, "';'")
	}
	p.expect(token.RIGHT_BRACE, "'}'")
	p.expect(token.SEMICOLON, "';'")
	return &ast.StructDecl{Token: tok, Name: name, Fields: fields}
}

func (p *Parser) parseNamespaceDecl() ast.Statement {
	tok := p.advance()
	name, _ := p.expect(token.IDENTIFIER, "namespace name")
	p.expect(token.LEFT_BRACE, "'{'")
	var decls []ast.Statement
	for !p.check(token.RIGHT_BRACE) && !p.atEnd() {
		decls = append(decls, p.parseDeclaration())
	}
	p.expect(token.RIGHT_BRACE, "'}'")
	p.match(token.SEMICOLON)
	return &ast.NamespaceDecl{Token: tok, Name: name, Decls: decls}
}

// parseOperatorDecl handles `operator(LeftType,RightType)[sym] { body };`
// (spec.md §4.2.4) — the operator symbol is bracketed, not bare, so it
// must be read between its own LEFT_BRACKET/RIGHT_BRACKET pair rather
// than immediately after the parameter-type list's closing paren.
func (p *Parser) parseOperatorDecl() ast.Statement {
	tok := p.advance()
	p.expect(token.LEFT_PAREN, "'('")
	left := p.parseType()
	p.expect(token.COMMA, "','")
	right := p.parseType()
	p.expect(token.RIGHT_PAREN, "')'")
	p.expect(token.LEFT_BRACKET, "'['")
	op := p.advance()
	p.expect(token.RIGHT_BRACKET, "']'")
	body := p.parseBlock()
	p.match(token.SEMICOLON)
	return &ast.OperatorDecl{Token: tok, LeftType: left, RightType: right, Op: op, Body: body}
}
