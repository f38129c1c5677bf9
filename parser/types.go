package parser

import (
	"strconv"

	"github.com/codeassociates/langcore/ast"
	"github.com/codeassociates/langcore/token"
)

// nominalKindOf classifies an identifier used in type position against
// the names the parser has seen declared so far (single-pass; forward
// references across class/object/struct resolve to NominalClass, the
// common case, exactly as an unresolved symbol would in a one-pass
// compiler).
func (p *Parser) nominalKindOf(name string) ast.NominalKind {
	if p.objectNames[name] {
		return ast.NominalObject
	}
	if p.structNames[name] {
		return ast.NominalStruct
	}
	return ast.NominalClass
}

// tryType attempts to parse a Type starting at the current token,
// without recording ParseErrors — a mismatch simply returns ok=false so
// the caller can rewind (spec.md §4.2.1). This is the silent half of the
// speculative type/identifier and type/cast disambiguation.
func (p *Parser) tryType() (ast.Type, bool) {
	switch p.cur().Type {
	case token.STAR:
		p.advance()
		inner, ok := p.tryType()
		if !ok {
			return nil, false
		}
		return &ast.PointerType{Pointee: inner}, true

	case token.LEFT_BRACKET:
		p.advance()
		size := 0
		hasSize := false
		if p.check(token.INTEGER) {
			n, err := strconv.ParseInt(p.cur().Lexeme, 0, 64)
			if err != nil {
				return nil, false
			}
			size, hasSize = int(n), true
			p.advance()
		}
		if !p.check(token.RIGHT_BRACKET) {
			return nil, false
		}
		p.advance()
		elem, ok := p.tryType()
		if !ok {
			return nil, false
		}
		return &ast.ArrayType{Element: elem, Size: size, HasSize: hasSize}, true

	case token.INT_KW:
		p.advance()
		return p.finishPrimitive(ast.KindInt), true
	case token.FLOAT_KW:
		p.advance()
		return p.finishPrimitive(ast.KindFloat), true
	case token.CHAR_KW:
		p.advance()
		return p.finishPrimitive(ast.KindChar), true
	case token.BOOL_KW:
		p.advance()
		return p.finishPrimitive(ast.KindBool), true
	case token.VOID:
		p.advance()
		return &ast.PrimitiveType{Kind: ast.KindVoid}, true

	case token.FUNCTION:
		p.advance()
		if !p.check(token.LEFT_PAREN) {
			return nil, false
		}
		p.advance()
		var params []ast.Type
		for !p.check(token.RIGHT_PAREN) && !p.atEnd() {
			t, ok := p.tryType()
			if !ok {
				return nil, false
			}
			params = append(params, t)
			if !p.match(token.COMMA) {
				break
			}
		}
		if !p.check(token.RIGHT_PAREN) {
			return nil, false
		}
		p.advance()
		var ret ast.Type
		if r, ok := p.tryType(); ok {
			ret = r
		}
		return &ast.FunctionType{Return: ret, Params: params}, true

	case token.IDENTIFIER:
		// "string" is recognized as a type name only in this trial
		// position; the lexer otherwise emits it as a plain IDENTIFIER
		// (spec.md §9, Open Questions).
		if p.cur().Lexeme == "string" {
			p.advance()
			return &ast.PrimitiveType{Kind: ast.KindString}, true
		}
		name := p.cur().Lexeme
		p.advance()
		return &ast.NominalType{Kind: p.nominalKindOf(name), Name: name}, true

	case token.CLASS:
		p.advance()
		name, ok := p.cur(), p.match(token.IDENTIFIER)
		if !ok {
			return nil, false
		}
		return &ast.NominalType{Kind: ast.NominalClass, Name: name.Lexeme}, true
	case token.OBJECT:
		p.advance()
		name, ok := p.cur(), p.match(token.IDENTIFIER)
		if !ok {
			return nil, false
		}
		return &ast.NominalType{Kind: ast.NominalObject, Name: name.Lexeme}, true
	case token.STRUCT:
		p.advance()
		name, ok := p.cur(), p.match(token.IDENTIFIER)
		if !ok {
			return nil, false
		}
		return &ast.NominalType{Kind: ast.NominalStruct, Name: name.Lexeme}, true
	}
	return nil, false
}

func (p *Parser) finishPrimitive(kind ast.PrimitiveKind) ast.Type {
	if p.check(token.LEFT_BRACE) {
		mark := p.mark()
		p.advance()
		if p.check(token.INTEGER) {
			n, err := strconv.Atoi(p.cur().Lexeme)
			if err == nil {
				p.advance()
				if p.check(token.RIGHT_BRACE) {
					p.advance()
					return &ast.PrimitiveType{Kind: kind, BitWidth: n, HasWidth: true}
				}
			}
		}
		p.reset(mark)
	}
	return &ast.PrimitiveType{Kind: kind}
}

// parseType is the non-speculative counterpart, used once the caller is
// already committed to parsing a type (e.g. inside a parameter list).
func (p *Parser) parseType() ast.Type {
	t, ok := p.tryType()
	if !ok {
		p.addError("expected type")
		return &ast.PrimitiveType{Kind: ast.KindVoid}
	}
	return t
}
