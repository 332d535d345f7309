package lexer

import (
	"strings"
	"testing"

	"github.com/tangzhangming/lox/internal/token"
)

func TestLexerBasicTokens(t *testing.T) {
	input := `( ) { } , . - + ; / * ! != = == > >= < <=`

	expected := []token.TokenType{
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE,
		token.COMMA, token.DOT, token.MINUS, token.PLUS, token.SEMICOLON,
		token.SLASH, token.STAR,
		token.BANG, token.BANG_EQUAL, token.EQUAL, token.EQUAL_EQUAL,
		token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL,
		token.EOF,
	}

	l := New(input, "test.lox")
	tokens := l.ScanTokens()

	if len(tokens) != len(expected) {
		t.Fatalf("token count mismatch: got %d, want %d", len(tokens), len(expected))
	}

	for i, tok := range tokens {
		if tok.Type != expected[i] {
			t.Errorf("token[%d] type mismatch: got %s, want %s", i, tok.Type, expected[i])
		}
	}
}

func TestLexerMaximalMunch(t *testing.T) {
	l := New(`!===<=>=`, "test.lox")
	tokens := l.ScanTokens()

	expected := []token.TokenType{
		token.BANG_EQUAL, token.EQUAL_EQUAL, token.LESS_EQUAL, token.GREATER_EQUAL, token.EOF,
	}
	if len(tokens) != len(expected) {
		t.Fatalf("token count mismatch: got %d, want %d", len(tokens), len(expected))
	}
	for i, tok := range tokens {
		if tok.Type != expected[i] {
			t.Errorf("token[%d] type mismatch: got %s, want %s", i, tok.Type, expected[i])
		}
	}
}

func TestLexerKeywords(t *testing.T) {
	input := `and class else false fun for if nil or print return super this true var while`

	expected := []token.TokenType{
		token.AND, token.CLASS, token.ELSE, token.FALSE, token.FUN, token.FOR,
		token.IF, token.NIL, token.OR, token.PRINT, token.RETURN, token.SUPER,
		token.THIS, token.TRUE, token.VAR, token.WHILE,
		token.EOF,
	}

	l := New(input, "test.lox")
	tokens := l.ScanTokens()

	if len(tokens) != len(expected) {
		t.Fatalf("token count mismatch: got %d, want %d", len(tokens), len(expected))
	}

	for i, tok := range tokens {
		if tok.Type != expected[i] {
			t.Errorf("token[%d] type mismatch: got %s, want %s (literal: %s)",
				i, tok.Type, expected[i], tok.Literal)
		}
	}
}

func TestLexerIdentifiers(t *testing.T) {
	input := `orchid _private classy var1 fun_`

	l := New(input, "test.lox")
	tokens := l.ScanTokens()

	want := []string{"orchid", "_private", "classy", "var1", "fun_"}
	if len(tokens) != len(want)+1 {
		t.Fatalf("token count mismatch: got %d, want %d", len(tokens), len(want)+1)
	}
	for i, lit := range want {
		if tokens[i].Type != token.IDENT {
			t.Errorf("token[%d] type mismatch: got %s, want IDENT", i, tokens[i].Type)
		}
		if tokens[i].Literal != lit {
			t.Errorf("token[%d] literal mismatch: got %s, want %s", i, tokens[i].Literal, lit)
		}
	}
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input string
		types []token.TokenType
		value float64
	}{
		{"123", []token.TokenType{token.NUMBER, token.EOF}, 123},
		{"0", []token.TokenType{token.NUMBER, token.EOF}, 0},
		{"3.14", []token.TokenType{token.NUMBER, token.EOF}, 3.14},
		{"1.", []token.TokenType{token.NUMBER, token.DOT, token.EOF}, 1},
		{".5", []token.TokenType{token.DOT, token.NUMBER, token.EOF}, 5},
	}

	for _, tt := range tests {
		l := New(tt.input, "test.lox")
		tokens := l.ScanTokens()

		if len(tokens) != len(tt.types) {
			t.Errorf("input %q: expected %d tokens, got %d", tt.input, len(tt.types), len(tokens))
			continue
		}
		for i, tok := range tokens {
			if tok.Type != tt.types[i] {
				t.Errorf("input %q: token[%d] type mismatch: got %s, want %s", tt.input, i, tok.Type, tt.types[i])
			}
			if tok.Type == token.NUMBER && tok.Value.(float64) != tt.value {
				t.Errorf("input %q: value mismatch: got %v, want %v", tt.input, tok.Value, tt.value)
			}
		}
	}
}

func TestLexerStrings(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"hello"`, "hello"},
		{`""`, ""},
		{`"a\nb"`, `a\nb`},
		{"\"two\nlines\"", "two\nlines"},
	}

	for _, tt := range tests {
		l := New(tt.input, "test.lox")
		tokens := l.ScanTokens()

		if len(tokens) != 2 {
			t.Errorf("input %q: expected 2 tokens, got %d", tt.input, len(tokens))
			continue
		}

		tok := tokens[0]
		if tok.Type != token.STRING {
			t.Errorf("input %q: type mismatch: got %s, want STRING", tt.input, tok.Type)
		}
		if tok.Value.(string) != tt.expected {
			t.Errorf("input %q: value mismatch: got %q, want %q", tt.input, tok.Value, tt.expected)
		}
	}
}

func TestLexerUnterminatedString(t *testing.T) {
	l := New("print 1;\n\"open\nstill open", "test.lox")
	tokens := l.ScanTokens()

	if !l.HasErrors() {
		t.Fatal("expected an error for unterminated string")
	}
	err := l.Errors()[0]
	if err.Pos.Line != 2 {
		t.Errorf("error line: got %d, want 2", err.Pos.Line)
	}
	if err.Message != "Unterminated string." {
		t.Errorf("error message: got %q", err.Message)
	}
	if last := tokens[len(tokens)-1]; last.Type != token.EOF || last.Pos.Line != 3 {
		t.Errorf("expected EOF on line 3, got %s", last)
	}
}

func TestLexerComments(t *testing.T) {
	input := `
	// single line comment
	var a = 1;
	/* multi
	   line
	   comment */
	var b = 2;
	`

	l := New(input, "test.lox")
	tokens := l.ScanTokens()

	expectedTypes := []token.TokenType{
		token.VAR, token.IDENT, token.EQUAL, token.NUMBER, token.SEMICOLON,
		token.VAR, token.IDENT, token.EQUAL, token.NUMBER, token.SEMICOLON,
		token.EOF,
	}

	if len(tokens) != len(expectedTypes) {
		t.Fatalf("token count mismatch: got %d, want %d", len(tokens), len(expectedTypes))
	}

	for i, tok := range tokens {
		if tok.Type != expectedTypes[i] {
			t.Errorf("token[%d] type mismatch: got %s, want %s", i, tok.Type, expectedTypes[i])
		}
	}

	if tokens[5].Pos.Line != 7 {
		t.Errorf("line tracking through block comment: got %d, want 7", tokens[5].Pos.Line)
	}
}

func TestLexerUnterminatedComment(t *testing.T) {
	l := New("/* never closed", "test.lox")
	l.ScanTokens()

	if len(l.Errors()) != 1 {
		t.Fatalf("expected 1 error, got %d", len(l.Errors()))
	}
}

func TestLexerInvalidCharactersContinue(t *testing.T) {
	l := New("var a = 1 @ 2;\n# $", "test.lox")
	tokens := l.ScanTokens()

	errs := l.Errors()
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", len(errs), errs)
	}
	if errs[0].Pos.Line != 1 || errs[1].Pos.Line != 2 || errs[2].Pos.Line != 2 {
		t.Errorf("unexpected error lines: %v", errs)
	}
	if !strings.Contains(errs[0].Message, "'@'") {
		t.Errorf("error should name the character: %q", errs[0].Message)
	}

	for _, tok := range tokens {
		if tok.Type == token.ILLEGAL {
			t.Errorf("illegal token leaked into stream: %s", tok)
		}
	}
	// var a = 1 2 ; EOF
	if len(tokens) != 7 {
		t.Errorf("scanning should continue past errors: got %d tokens", len(tokens))
	}
}

func TestLexerPositions(t *testing.T) {
	l := New("var x;\n  print x;", "test.lox")
	tokens := l.ScanTokens()

	print := tokens[3]
	if print.Type != token.PRINT {
		t.Fatalf("expected PRINT, got %s", print.Type)
	}
	if print.Pos.Line != 2 || print.Pos.Column != 3 {
		t.Errorf("position mismatch: got %s, want 2:3", print.Pos)
	}
	if print.Pos.Filename != "test.lox" {
		t.Errorf("filename mismatch: got %q", print.Pos.Filename)
	}
}

func TestLexerEmptySource(t *testing.T) {
	l := New("", "test.lox")
	tokens := l.ScanTokens()

	if len(tokens) != 1 || tokens[0].Type != token.EOF {
		t.Fatalf("expected single EOF, got %v", tokens)
	}
	if tokens[0].Pos.Line != 1 {
		t.Errorf("EOF line: got %d, want 1", tokens[0].Pos.Line)
	}
}
