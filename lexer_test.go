// lexer_test.go
package minilang

import (
	"reflect"
	"strings"
	"testing"
)

func toks(t *testing.T, src string) []Token {
	t.Helper()
	ts, err := NewLexer(src).Scan()
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	return ts
}

func typesWithoutEOF(tokens []Token) []TokenType {
	if len(tokens) == 0 {
		return nil
	}
	end := len(tokens)
	if tokens[end-1].Type == EOF {
		end--
	}
	out := make([]TokenType, 0, end)
	for i := 0; i < end; i++ {
		out = append(out, tokens[i].Type)
	}
	return out
}

func wantTypes(t *testing.T, src string, want []TokenType) []Token {
	t.Helper()
	got := toks(t, src)
	gotTypes := typesWithoutEOF(got)
	if !reflect.DeepEqual(gotTypes, want) {
		t.Fatalf("\nsource:\n%s\nwant types:\n%v\ngot types:\n%v\n", src, want, gotTypes)
	}
	return got
}

func wantLexError(t *testing.T, src string) *LexError {
	t.Helper()
	_, err := NewLexer(src).Scan()
	if err == nil {
		t.Fatalf("expected a lex error for %q, got none", src)
	}
	le, ok := err.(*LexError)
	if !ok {
		t.Fatalf("expected *LexError, got %T: %v", err, err)
	}
	return le
}

func Test_Lexer_Declaration_With_Initializer(t *testing.T) {
	src := `int x = 5;`
	wantTypes(t, src, []TokenType{INT, ID, ASSIGN, INT_LIT, SEMI})
}

func Test_Lexer_Keywords_Are_Classified(t *testing.T) {
	src := `if else while for function return print input and or not`
	wantTypes(t, src, []TokenType{
		IF, ELSE, WHILE, FOR, FUNCTION, RETURN, PRINT, INPUT, AND, OR, NOT,
	})
}

func Test_Lexer_TwoChar_Operators_Before_OneChar(t *testing.T) {
	src := `== != <= >= = < >`
	wantTypes(t, src, []TokenType{EQ, NEQ, LESS_EQ, GREATER_EQ, ASSIGN, LESS, GREATER})
}

func Test_Lexer_Numbers_Carry_Literals(t *testing.T) {
	got := wantTypes(t, `42 3.14`, []TokenType{INT_LIT, FLOAT_LIT})
	if got[0].Literal.(int64) != 42 {
		t.Fatalf("int literal: got %v", got[0].Literal)
	}
	if got[1].Literal.(float64) != 3.14 {
		t.Fatalf("float literal: got %v", got[1].Literal)
	}
}

func Test_Lexer_Number_MultipleDecimalPoints_Fails(t *testing.T) {
	le := wantLexError(t, `1.2.3`)
	if !strings.Contains(le.Msg, "multiple decimal points") {
		t.Fatalf("unexpected message: %s", le.Msg)
	}
}

func Test_Lexer_String_Escapes(t *testing.T) {
	got := wantTypes(t, `"a\nb\"c\\"`, []TokenType{STR_LIT})
	if got[0].Literal.(string) != "a\nb\"c\\" {
		t.Fatalf("escaped string: got %q", got[0].Literal)
	}
}

func Test_Lexer_String_SingleQuoted(t *testing.T) {
	got := wantTypes(t, `'hi'`, []TokenType{STR_LIT})
	if got[0].Literal.(string) != "hi" {
		t.Fatalf("got %q", got[0].Literal)
	}
}

func Test_Lexer_String_Unterminated_ReportedAtOpeningQuote(t *testing.T) {
	le := wantLexError(t, `x = "abc`)
	if le.Line != 1 || le.Col != 5 {
		t.Fatalf("position: got %d:%d, want 1:5", le.Line, le.Col)
	}
	if le.Msg != "unterminated string" {
		t.Fatalf("unexpected message: %s", le.Msg)
	}
}

func Test_Lexer_String_InvalidEscape_Fails(t *testing.T) {
	le := wantLexError(t, `"a\qb"`)
	if !strings.Contains(le.Msg, "invalid escape sequence") {
		t.Fatalf("unexpected message: %s", le.Msg)
	}
}

func Test_Lexer_Comments_And_Whitespace_Skipped(t *testing.T) {
	src := "int x; # a comment\n# full-line comment\nprint(x);"
	wantTypes(t, src, []TokenType{INT, ID, SEMI, PRINT, LROUND, ID, RROUND, SEMI})
}

func Test_Lexer_Bool_Literals(t *testing.T) {
	got := wantTypes(t, `true false`, []TokenType{BOOL_LIT, BOOL_LIT})
	if got[0].Literal.(bool) != true || got[1].Literal.(bool) != false {
		t.Fatalf("bool literals: got %v, %v", got[0].Literal, got[1].Literal)
	}
}

func Test_Lexer_Positions_Are_OneBased(t *testing.T) {
	got := toks(t, "int x;\n  x = 1;")
	// int at 1:1, x at 1:5, ; at 1:6, x at 2:3
	checks := []struct {
		idx       int
		line, col int
	}{
		{0, 1, 1},
		{1, 1, 5},
		{2, 1, 6},
		{3, 2, 3},
	}
	for _, c := range checks {
		tok := got[c.idx]
		if tok.Line != c.line || tok.Col != c.col {
			t.Fatalf("token %d (%s): got %d:%d, want %d:%d", c.idx, tok.Lexeme, tok.Line, tok.Col, c.line, c.col)
		}
	}
}

func Test_Lexer_UnexpectedCharacter_Fails(t *testing.T) {
	le := wantLexError(t, `int @;`)
	if !strings.Contains(le.Msg, "unexpected character") {
		t.Fatalf("unexpected message: %s", le.Msg)
	}
	if le.Line != 1 || le.Col != 5 {
		t.Fatalf("position: got %d:%d, want 1:5", le.Line, le.Col)
	}
}

func Test_Lexer_Stream_Ends_With_EOF(t *testing.T) {
	got := toks(t, "x;")
	if got[len(got)-1].Type != EOF {
		t.Fatalf("last token is %s, want EOF", got[len(got)-1].Type)
	}
}
