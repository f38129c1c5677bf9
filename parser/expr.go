package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/codeassociates/langcore/ast"
	"github.com/codeassociates/langcore/token"
)

// parseExpression enters the precedence ladder at its lowest rung,
// assignment (spec.md §4.2.2).
func (p *Parser) parseExpression() ast.Expression {
	return p.parseAssignment()
}

var assignOps = map[token.Type]bool{
	token.EQUAL: true, token.PLUS_EQUAL: true, token.MINUS_EQUAL: true,
	token.STAR_EQUAL: true, token.SLASH_EQUAL: true, token.PERCENT_EQUAL: true,
}

// parseAssignment is right-associative; its lhs must be a Variable,
// MemberAccess, or ArrayAccess, otherwise a ParseError (spec.md §4.2.2,
// rule 1).
func (p *Parser) parseAssignment() ast.Expression {
	left := p.parseOr()

	if assignOps[p.cur().Type] {
		op := p.advance()
		value := p.parseAssignment()

		switch left.(type) {
		case *ast.Variable, *ast.MemberAccess, *ast.ArrayAccess:
			return &ast.Assign{Target: left, Op: op, Value: value}
		default:
			p.errors = append(p.errors, &ParseError{Line: op.Line, Msg: "invalid assignment target"})
			return left
		}
	}
	return left
}

func (p *Parser) parseOr() ast.Expression {
	left := p.parseAnd()
	for p.check(token.OR) {
		op := p.advance()
		right := p.parseAnd()
		left = &ast.Logical{Left: left, Op: op, Right: right}
	}
	return left
}

func (p *Parser) parseAnd() ast.Expression {
	left := p.parseEquality()
	for p.check(token.AND) {
		op := p.advance()
		right := p.parseEquality()
		left = &ast.Logical{Left: left, Op: op, Right: right}
	}
	return left
}

func (p *Parser) parseEquality() ast.Expression {
	left := p.parseComparison()
	for p.check(token.EQUAL_EQUAL) || p.check(token.BANG_EQUAL) || p.check(token.IS) {
		op := p.advance()
		right := p.parseComparison()
		left = &ast.Binary{Left: left, Op: op, Right: right}
	}
	return left
}

func (p *Parser) parseComparison() ast.Expression {
	left := p.parseTerm()
	for p.check(token.LESS) || p.check(token.LESS_EQUAL) || p.check(token.GREATER) || p.check(token.GREATER_EQUAL) {
		op := p.advance()
		right := p.parseTerm()
		left = &ast.Binary{Left: left, Op: op, Right: right}
	}
	return left
}

func (p *Parser) parseTerm() ast.Expression {
	left := p.parseFactor()
	for p.check(token.PLUS) || p.check(token.MINUS) {
		op := p.advance()
		right := p.parseFactor()
		left = &ast.Binary{Left: left, Op: op, Right: right}
	}
	return left
}

func (p *Parser) parseFactor() ast.Expression {
	left := p.parseUnary()
	for p.check(token.STAR) || p.check(token.SLASH) || p.check(token.PERCENT) {
		op := p.advance()
		right := p.parseUnary()
		left = &ast.Binary{Left: left, Op: op, Right: right}
	}
	return left
}

// parseUnary handles the prefix operators of spec.md §4.2.2 rule 7:
// ! - ~ * @, where @ produces AddressOf and * produces Dereference.
func (p *Parser) parseUnary() ast.Expression {
	switch p.cur().Type {
	case token.BANG, token.MINUS, token.TILDE, token.NOT:
		op := p.advance()
		right := p.parseUnary()
		return &ast.Unary{Op: op, Right: right}
	case token.AT:
		tok := p.advance()
		inner := p.parseUnary()
		return &ast.AddressOf{Token: tok, Inner: inner}
	case token.STAR:
		tok := p.advance()
		inner := p.parseUnary()
		return &ast.Dereference{Token: tok, Inner: inner}
	}
	return p.parseCallPostfix()
}

// parseCallPostfix chains call/index/member postfixes until no matching
// token follows (spec.md §4.2.2 rule 8).
func (p *Parser) parseCallPostfix() ast.Expression {
	expr := p.parsePrimary()
	for {
		switch {
		case p.check(token.LEFT_PAREN):
			paren := p.advance()
			var args []ast.Expression
			for !p.check(token.RIGHT_PAREN) && !p.atEnd() {
				args = append(args, p.parseExpression())
				if !p.match(token.COMMA) {
					break
				}
			}
			p.expect(token.RIGHT_PAREN, "')'")
			expr = &ast.Call{Callee: expr, Paren: paren, Args: args}
		case p.check(token.LEFT_BRACKET):
			lb := p.advance()
			idx := p.parseExpression()
			p.expect(token.RIGHT_BRACKET, "']'")
			expr = &ast.ArrayAccess{Array: expr, Token: lb, Index: idx}
		case p.check(token.DOT) || p.check(token.ARROW):
			op := p.advance()
			member, ok := p.expect(token.IDENTIFIER, "member name")
			if !ok {
				return expr
			}
			expr = &ast.MemberAccess{Object: expr, Op: op, Member: member}
		default:
			return expr
		}
	}
}

// parsePrimary implements spec.md §4.2.2 rule 9.
func (p *Parser) parsePrimary() ast.Expression {
	tok := p.cur()

	switch tok.Type {
	case token.TRUE:
		p.advance()
		return &ast.BooleanLiteral{Token: tok, Value: true}
	case token.FALSE:
		p.advance()
		return &ast.BooleanLiteral{Token: tok, Value: false}
	case token.NULLPTR:
		p.advance()
		return &ast.NullLiteral{Token: tok}
	case token.INTEGER:
		p.advance()
		return p.parseIntegerLiteral(tok)
	case token.FLOAT:
		p.advance()
		return p.parseFloatLiteral(tok)
	case token.STRING:
		p.advance()
		return &ast.StringLiteral{Token: tok, Value: decodeQuoted(tok.Lexeme)}
	case token.CHAR:
		p.advance()
		return &ast.CharLiteral{Token: tok, Value: decodeCharLiteral(tok.Lexeme)}
	case token.INTERPOLATED_STRING_START:
		p.advance()
		return p.finishInterpolatedString(tok)
	case token.LEFT_PAREN:
		p.advance()
		inner := p.parseExpression()
		p.expect(token.RIGHT_PAREN, "')'")
		return &ast.Grouping{Token: tok, Inner: inner}
	case token.LEFT_BRACKET:
		return p.parseArrayLiteral(tok)
	case token.SIZEOF:
		p.advance()
		return p.parseSizeOf(tok)
	case token.INPUT:
		p.advance()
		var prompt ast.Expression
		if p.match(token.LEFT_PAREN) {
			if !p.check(token.RIGHT_PAREN) {
				prompt = p.parseExpression()
			}
			p.expect(token.RIGHT_PAREN, "')'")
		}
		return &ast.Input{Token: tok, Prompt: prompt}
	case token.IDENTIFIER:
		if tok.Lexeme == "open" && p.peekNext().Type == token.LEFT_PAREN {
			return p.parseOpenExpr(tok)
		}
		// Disambiguate Type:expression (a cast) from a plain Variable by
		// a speculative type parse followed by ':' (spec.md §4.2.1).
		if cast, ok := p.tryTypeCast(); ok {
			return cast
		}
		p.advance()
		return &ast.Variable{Name: tok}
	case token.INT_KW, token.FLOAT_KW, token.CHAR_KW, token.BOOL_KW, token.VOID:
		if cast, ok := p.tryTypeCast(); ok {
			return cast
		}
		p.addError(fmt.Sprintf("unexpected token %q", tok.Lexeme))
		p.advance()
		return &ast.NullLiteral{Token: tok}
	}

	p.addError(fmt.Sprintf("unexpected token %q", tok.Lexeme))
	p.advance()
	return &ast.NullLiteral{Token: tok}
}

// tryTypeCast attempts Type ':' expression; on any mismatch it rewinds
// and reports no error, letting the caller fall back to a plain
// Variable/primitive-keyword parse (spec.md §4.2.1, last bullet).
func (p *Parser) tryTypeCast() (ast.Expression, bool) {
	mark := p.mark()
	tok := p.cur()
	t, ok := p.tryType()
	if !ok || !p.check(token.COLON) {
		p.reset(mark)
		return nil, false
	}
	p.advance() // consume ':'
	inner := p.parseUnary()
	return &ast.TypeCast{Token: tok, Target: t, Inner: inner}, true
}

// parseOpenExpr parses the bare `open(filename, mode)` expression form
// (SPEC_FULL.md §6); the statement form with a trailing '-> variable'
// is recognized earlier, at the statement level (see tryOpenStmt).
func (p *Parser) parseOpenExpr(tok token.Token) ast.Expression {
	p.advance() // identifier "open"
	p.expect(token.LEFT_PAREN, "'('")
	filename := p.parseExpression()
	p.expect(token.COMMA, "','")
	mode := p.parseExpression()
	p.expect(token.RIGHT_PAREN, "')'")
	return &ast.Open{Token: tok, Filename: filename, Mode: mode}
}

func (p *Parser) parseSizeOf(tok token.Token) ast.Expression {
	p.expect(token.LEFT_PAREN, "'('")
	mark := p.mark()
	if t, ok := p.tryType(); ok && p.check(token.RIGHT_PAREN) {
		p.advance()
		return &ast.SizeOf{Token: tok, TargetType: t}
	}
	p.reset(mark)
	inner := p.parseExpression()
	p.expect(token.RIGHT_PAREN, "')'")
	return &ast.SizeOf{Token: tok, TargetExpr: inner}
}

// parseArrayLiteral parses [e, e, ...], promoting to a CharArrayLiteral
// when every element is a CharLiteral (spec.md §4.2.2 rule 9).
func (p *Parser) parseArrayLiteral(tok token.Token) ast.Expression {
	p.advance() // consume '['
	var elems []ast.Expression
	for !p.check(token.RIGHT_BRACKET) && !p.atEnd() {
		elems = append(elems, p.parseExpression())
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RIGHT_BRACKET, "']'")

	allChars := len(elems) > 0
	chars := make([]byte, 0, len(elems))
	for _, e := range elems {
		cl, ok := e.(*ast.CharLiteral)
		if !ok {
			allChars = false
			break
		}
		chars = append(chars, cl.Value)
	}
	if allChars {
		return &ast.CharArrayLiteral{Token: tok, Chars: chars}
	}
	return &ast.ArrayLiteral{Token: tok, Elements: elems}
}

// finishInterpolatedString parses the i"format" token's trailer
// :{ expr; expr; ... } (spec.md §6). The ';' separator is in-expression,
// not a statement terminator (spec.md §9, Open Questions).
func (p *Parser) finishInterpolatedString(tok token.Token) ast.Expression {
	format := decodeQuoted(strings.TrimPrefix(tok.Lexeme, "i"))
	node := &ast.InterpolatedString{Token: tok, Format: format}
	if !p.match(token.COLON) {
		return node
	}
	p.expect(token.LEFT_BRACE, "'{'")
	for !p.check(token.RIGHT_BRACE) && !p.atEnd() {
		node.Exprs = append(node.Exprs, p.parseExpression())
		if !p.match(token.SEMICOLON) {
			break
		}
	}
	p.expect(token.RIGHT_BRACE, "'}'")
	return node
}

func (p *Parser) parseIntegerLiteral(tok token.Token) ast.Expression {
	lexeme, width, hasWidth := stripIntSuffix(tok.Lexeme)
	base := 10
	switch {
	case strings.HasPrefix(lexeme, "0x") || strings.HasPrefix(lexeme, "0X"):
		base = 16
		lexeme = lexeme[2:]
	case strings.HasPrefix(lexeme, "0b") || strings.HasPrefix(lexeme, "0B"):
		base = 2
		lexeme = lexeme[2:]
	case len(lexeme) > 1 && lexeme[0] == '0':
		base = 8
		lexeme = lexeme[1:]
	}
	n, err := strconv.ParseInt(lexeme, base, 64)
	if err != nil {
		p.addError(fmt.Sprintf("invalid integer literal %q", tok.Lexeme))
	}
	return &ast.IntegerLiteral{Token: tok, Value: n, BitWidth: width, HasWidth: hasWidth}
}

func (p *Parser) parseFloatLiteral(tok token.Token) ast.Expression {
	lexeme, width, hasWidth := stripFloatSuffix(tok.Lexeme)
	n, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		p.addError(fmt.Sprintf("invalid float literal %q", tok.Lexeme))
	}
	return &ast.FloatLiteral{Token: tok, Value: n, BitWidth: width, HasWidth: hasWidth}
}

// stripIntSuffix removes a trailing u/U/l/L type-suffix letter from an
// integer lexeme; bit width is not derivable from the suffix alone in
// this grammar (only the Type{N} form conveys it), so HasWidth is always
// false here — kept as a parameter pair for symmetry with FloatLiteral.
func stripIntSuffix(lexeme string) (string, int, bool) {
	for len(lexeme) > 0 {
		c := lexeme[len(lexeme)-1]
		if c == 'u' || c == 'U' || c == 'l' || c == 'L' {
			lexeme = lexeme[:len(lexeme)-1]
			continue
		}
		break
	}
	return lexeme, 0, false
}

func stripFloatSuffix(lexeme string) (string, int, bool) {
	if len(lexeme) > 0 {
		c := lexeme[len(lexeme)-1]
		if c == 'f' || c == 'F' || c == 'l' || c == 'L' {
			return lexeme[:len(lexeme)-1], 0, false
		}
	}
	return lexeme, 0, false
}

// decodeQuoted strips the surrounding quotes from a string/interpolated
// lexeme and decodes its escapes; the lexer already validated them.
func decodeQuoted(lexeme string) string {
	if len(lexeme) < 2 {
		return ""
	}
	body := lexeme[1 : len(lexeme)-1]
	return decodeEscapes(body)
}

func decodeCharLiteral(lexeme string) byte {
	if len(lexeme) < 3 {
		return 0
	}
	body := lexeme[1 : len(lexeme)-1]
	decoded := decodeEscapes(body)
	if len(decoded) == 0 {
		return 0
	}
	return decoded[0]
}

func decodeEscapes(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			sb.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '\\':
			sb.WriteByte('\\')
		case '\'':
			sb.WriteByte('\'')
		case '"':
			sb.WriteByte('"')
		case '0':
			sb.WriteByte(0)
		case 'x', 'X':
			if i+2 < len(s) {
				if n, err := strconv.ParseUint(s[i+1:i+3], 16, 8); err == nil {
					sb.WriteByte(byte(n))
					i += 2
					continue
				}
			}
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}
