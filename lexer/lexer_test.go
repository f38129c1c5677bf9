package lexer

import (
	"testing"

	"github.com/codeassociates/langcore/token"
)

func TestSimpleTokens(t *testing.T) {
	input := `( ) { }`
	tests := []struct {
		expectedType   token.Type
		expectedLexeme string
	}{
		{token.LEFT_PAREN, "("},
		{token.RIGHT_PAREN, ")"},
		{token.LEFT_BRACE, "{"},
		{token.RIGHT_BRACE, "}"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %v", i, err)
		}
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (lexeme=%q)",
				i, tt.expectedType, tok.Type, tok.Lexeme)
		}
		if tok.Lexeme != tt.expectedLexeme {
			t.Fatalf("tests[%d] - lexeme wrong. expected=%q, got=%q", i, tt.expectedLexeme, tok.Lexeme)
		}
		if tok.Line != 1 {
			t.Fatalf("tests[%d] - expected line 1, got %d", i, tok.Line)
		}
	}
}

func TestNumericVariants(t *testing.T) {
	input := `42 0xFF 0b1010 3.14 1e-5`
	tests := []struct {
		expectedType   token.Type
		expectedLexeme string
	}{
		{token.INTEGER, "42"},
		{token.INTEGER, "0xFF"},
		{token.INTEGER, "0b1010"},
		{token.FLOAT, "3.14"},
		{token.FLOAT, "1e-5"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %v", i, err)
		}
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q", i, tt.expectedType, tok.Type)
		}
		if tok.Lexeme != tt.expectedLexeme {
			t.Fatalf("tests[%d] - lexeme wrong. expected=%q, got=%q", i, tt.expectedLexeme, tok.Lexeme)
		}
	}
}

func TestTwoCharacterOperators(t *testing.T) {
	input := `== != <= >= << >> += -= *= /= %= &= |= ^= -> ::`
	expected := []token.Type{
		token.EQUAL_EQUAL, token.BANG_EQUAL, token.LESS_EQUAL, token.GREATER_EQUAL,
		token.LESS_LESS, token.GREATER_GREATER, token.PLUS_EQUAL, token.MINUS_EQUAL,
		token.STAR_EQUAL, token.SLASH_EQUAL, token.PERCENT_EQUAL, token.AMP_EQUAL,
		token.PIPE_EQUAL, token.CARET_EQUAL, token.ARROW, token.SCOPE_RESOLUTION,
		token.EOF,
	}
	l := New(input)
	for i, want := range expected {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %v", i, err)
		}
		if tok.Type != want {
			t.Fatalf("tests[%d] - expected=%q, got=%q (lexeme=%q)", i, want, tok.Type, tok.Lexeme)
		}
	}
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	input := `int x class Foo stringish`
	expected := []struct {
		typ    token.Type
		lexeme string
	}{
		{token.INT_KW, "int"},
		{token.IDENTIFIER, "x"},
		{token.CLASS, "class"},
		{token.IDENTIFIER, "Foo"},
		{token.IDENTIFIER, "stringish"},
		{token.EOF, ""},
	}
	l := New(input)
	for i, tt := range expected {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %v", i, err)
		}
		if tok.Type != tt.typ || tok.Lexeme != tt.lexeme {
			t.Fatalf("tests[%d] - expected=(%q,%q), got=(%q,%q)", i, tt.typ, tt.lexeme, tok.Type, tok.Lexeme)
		}
	}
}

func TestStringAndCharLiterals(t *testing.T) {
	input := `"hello\nworld" 'a' '\x41'`
	l := New(input)

	tok, err := l.NextToken()
	if err != nil || tok.Type != token.STRING || tok.Lexeme != `"hello\nworld"` {
		t.Fatalf("string literal: got %+v, err=%v", tok, err)
	}
	tok, err = l.NextToken()
	if err != nil || tok.Type != token.CHAR || tok.Lexeme != `'a'` {
		t.Fatalf("char literal: got %+v, err=%v", tok, err)
	}
	tok, err = l.NextToken()
	if err != nil || tok.Type != token.CHAR || tok.Lexeme != `'\x41'` {
		t.Fatalf("hex char literal: got %+v, err=%v", tok, err)
	}
}

func TestUnterminatedStringIsLexError(t *testing.T) {
	l := New(`"unterminated`)
	_, err := l.NextToken()
	if err == nil {
		t.Fatal("expected LexError for unterminated string")
	}
	var lexErr *LexError
	if !asLexError(err, &lexErr) {
		t.Fatalf("expected *LexError, got %T", err)
	}
}

func asLexError(err error, target **LexError) bool {
	le, ok := err.(*LexError)
	if ok {
		*target = le
	}
	return ok
}

func TestUnterminatedBlockCommentIsLexError(t *testing.T) {
	l := New("int x = 1; /* never closed")
	for {
		tok, err := l.NextToken()
		if err != nil {
			var lexErr *LexError
			if !asLexError(err, &lexErr) {
				t.Fatalf("expected *LexError, got %T", err)
			}
			return
		}
		if tok.Type == token.EOF {
			t.Fatal("expected a LexError before EOF for an unterminated block comment")
		}
	}
}

func TestInterpolatedStringStart(t *testing.T) {
	l := New(`i"count is {x}"`)
	tok, err := l.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Type != token.INTERPOLATED_STRING_START {
		t.Fatalf("expected INTERPOLATED_STRING_START, got %q", tok.Type)
	}
	if tok.Lexeme != `i"count is {x}"` {
		t.Fatalf("unexpected lexeme %q", tok.Lexeme)
	}
}

// TestDeterminism checks property P1: lexing the same input twice yields
// the same token sequence.
func TestDeterminism(t *testing.T) {
	input := "int x = 1 + 2 * 3; when (x < 10) { x = x + 1; };"
	a, err := Tokenize(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Tokenize(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a) != len(b) {
		t.Fatalf("token count differs: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("token %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestLineNumbersTrackNewlines(t *testing.T) {
	input := "int x\n=\n5;"
	l := New(input)
	var lines []int
	for {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		lines = append(lines, tok.Line)
		if tok.Type == token.EOF {
			break
		}
	}
	want := []int{1, 1, 2, 3, 3, 3}
	if len(lines) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("token %d: expected line %d, got %d", i, want[i], lines[i])
		}
	}
}
