package lexer

import (
	"testing"

	"barracuda/token"
)

func kinds(toks []token.Token) []token.TokenType {
	out := make([]token.TokenType, len(toks))
	for i, tok := range toks {
		out[i] = tok.TokenType
	}
	return out
}

func assertKinds(t *testing.T, src string, want ...token.TokenType) []token.Token {
	t.Helper()
	toks, err := New(src).Scan()
	if err != nil {
		t.Fatalf("Scan(%q) returned error: %v", src, err)
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("Scan(%q) = %v, want %v", src, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Scan(%q)[%d] = %v, want %v", src, i, got[i], want[i])
		}
	}
	return toks
}

func TestOperators(t *testing.T) {
	assertKinds(t, "==/=*+>-<!=<=>=!<<>>%^",
		token.EQUAL_EQUAL, token.DIV, token.ASSIGN, token.MULT, token.ADD,
		token.LARGER, token.SUB, token.LESS, token.NOT_EQUAL, token.LESS_EQUAL,
		token.LARGER_EQUAL, token.BANG, token.SHIFT_LEFT, token.SHIFT_RIGHT,
		token.MOD, token.EXP, token.EOF)
}

func TestPunctuation(t *testing.T) {
	assertKinds(t, "(){}[];,:->?&",
		token.LPA, token.RPA, token.LCUR, token.RCUR, token.LBRACKET, token.RBRACKET,
		token.SEMICOLON, token.COMMA, token.COLON, token.ARROW, token.QUESTION, token.AMP,
		token.EOF)
}

func TestSymbolicLogicalOperators(t *testing.T) {
	toks := assertKinds(t, "true && false || true",
		token.TRUE, token.AND, token.FALSE, token.OR, token.TRUE, token.EOF)
	if toks[1].Lexeme != "&&" {
		t.Errorf("AND token lexeme = %q, want %q", toks[1].Lexeme, "&&")
	}
	if toks[3].Lexeme != "||" {
		t.Errorf("OR token lexeme = %q, want %q", toks[3].Lexeme, "||")
	}
}

func TestSinglePipeIsAnError(t *testing.T) {
	if _, err := New("1 | 2").Scan(); err == nil {
		t.Fatal("expected an error for a bare '|'")
	}
}

func TestLineComment(t *testing.T) {
	assertKinds(t, "1 // two\n+2", token.INT, token.ADD, token.INT, token.EOF)
}

func TestBlockComment(t *testing.T) {
	assertKinds(t, "1 /* spans\nlines */ + 2", token.INT, token.ADD, token.INT, token.EOF)
}

func TestUnterminatedBlockCommentIsError(t *testing.T) {
	if _, err := New("1 /* oops").Scan(); err == nil {
		t.Fatal("expected an error for an unterminated block comment")
	}
}

func TestNumberWithExponent(t *testing.T) {
	toks := assertKinds(t, "1.5e3", token.FLOAT, token.EOF)
	if toks[0].Literal.(float64) != 1500 {
		t.Errorf("expected 1500, got %v", toks[0].Literal)
	}
}

func TestStringEscapes(t *testing.T) {
	toks := assertKinds(t, `"a\nb"`, token.STRING, token.EOF)
	if toks[0].Literal.(string) != "a\nb" {
		t.Errorf("expected escaped newline, got %q", toks[0].Literal)
	}
}

func TestUnclosedStringIsError(t *testing.T) {
	if _, err := New(`"abc`).Scan(); err == nil {
		t.Fatal("expected an error for an unclosed string literal")
	}
}

func TestKeywordsAndTypeAtoms(t *testing.T) {
	assertKinds(t, "fn extern let mut const print return if elif else for while break and or true false none i32 f64 bool",
		token.FN, token.EXTERN, token.LET, token.MUT, token.CONST, token.PRINT, token.RETURN,
		token.IF, token.ELIF, token.ELSE, token.FOR, token.WHILE, token.BREAK, token.AND, token.OR,
		token.TRUE, token.FALSE, token.NONE, token.TYPE_I32, token.TYPE_F64, token.TYPE_BOOL, token.EOF)
}

func TestIdentifierAllowsDigitsAfterFirstChar(t *testing.T) {
	assertKinds(t, "x1 _y2", token.IDENTIFIER, token.IDENTIFIER, token.EOF)
}
