// lexer.go — byte-level scanner for Mini-Lang.
//
// OVERVIEW
// --------
// Converts source text into an ordered token sequence in a single left-to-right
// pass. Spaces, tabs, carriage returns, newlines and '#' line comments are
// insignificant; the grammar is not newline-sensitive, so newlines never become
// tokens. At each position the scanner tries, in priority order:
//
//   - digit sequences      → INT_LIT / FLOAT_LIT (a '.' flips to float; a
//     second '.' is a fatal error)
//   - '"' or '\''          → STR_LIT with escapes \n \r \t \" \' \\
//   - letters / '_'        → ID or a keyword; `true`/`false` become BOOL_LIT
//   - operators/delimiters → longest match first ("==", "!=", "<=", ">="
//     before their one-character prefixes)
//
// Any other character is a fatal error. Scanning is fail-fast: the first error
// aborts and no partial token list is returned. The stream always terminates
// with a single EOF token carrying the final line/column reached.
//
// Positions are 1-based line and column, recorded at the first byte of each
// token; an unterminated string is reported at its *opening* quote.
package minilang

import (
	"fmt"
	"strconv"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota

	// Keywords
	IF
	ELSE
	WHILE
	FOR
	FUNCTION
	RETURN
	INT
	FLOAT
	BOOL
	STRING
	ARRAY
	PRINT
	INPUT
	AND
	OR
	NOT

	// Identifiers & literals
	ID
	INT_LIT
	FLOAT_LIT
	STR_LIT
	BOOL_LIT

	// Operators
	PLUS
	MINUS
	MULT
	DIV
	MOD
	ASSIGN // "="
	EQ     // "=="
	NEQ    // "!="
	LESS
	LESS_EQ
	GREATER
	GREATER_EQ

	// Delimiters
	LROUND  // "("
	RROUND  // ")"
	LCURLY  // "{"
	RCURLY  // "}"
	LSQUARE // "["
	RSQUARE // "]"
	SEMI    // ";"
	COMMA   // ","
	COLON   // ":"
)

var tokenNames = map[TokenType]string{
	EOF:        "EOF",
	IF:         "'if'",
	ELSE:       "'else'",
	WHILE:      "'while'",
	FOR:        "'for'",
	FUNCTION:   "'function'",
	RETURN:     "'return'",
	INT:        "'int'",
	FLOAT:      "'float'",
	BOOL:       "'bool'",
	STRING:     "'string'",
	ARRAY:      "'array'",
	PRINT:      "'print'",
	INPUT:      "'input'",
	AND:        "'and'",
	OR:         "'or'",
	NOT:        "'not'",
	ID:         "identifier",
	INT_LIT:    "int literal",
	FLOAT_LIT:  "float literal",
	STR_LIT:    "string literal",
	BOOL_LIT:   "bool literal",
	PLUS:       "'+'",
	MINUS:      "'-'",
	MULT:       "'*'",
	DIV:        "'/'",
	MOD:        "'%'",
	ASSIGN:     "'='",
	EQ:         "'=='",
	NEQ:        "'!='",
	LESS:       "'<'",
	LESS_EQ:    "'<='",
	GREATER:    "'>'",
	GREATER_EQ: "'>='",
	LROUND:     "'('",
	RROUND:     "')'",
	LCURLY:     "'{'",
	RCURLY:     "'}'",
	LSQUARE:    "'['",
	RSQUARE:    "']'",
	SEMI:       "';'",
	COMMA:      "','",
	COLON:      "':'",
}

func (tt TokenType) String() string {
	if s, ok := tokenNames[tt]; ok {
		return s
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Token is a lexical token with optional literal value. Immutable once produced.
type Token struct {
	Type    TokenType
	Lexeme  string      // raw text slice
	Literal interface{} // parsed value: int64, float64, string or bool
	Line    int         // 1-based
	Col     int         // 1-based
}

// keywords maps reserved words to their token types. `true` and `false` are
// classified separately since they carry a literal value.
var keywords = map[string]TokenType{
	"if":       IF,
	"else":     ELSE,
	"while":    WHILE,
	"for":      FOR,
	"function": FUNCTION,
	"return":   RETURN,
	"int":      INT,
	"float":    FLOAT,
	"bool":     BOOL,
	"string":   STRING,
	"array":    ARRAY,
	"print":    PRINT,
	"input":    INPUT,
	"and":      AND,
	"or":       OR,
	"not":      NOT,
}

// LexError is the single fatal failure a scan can produce.
type LexError struct {
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("LEXICAL ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// Lexer scans a Mini-Lang source string into tokens.
type Lexer struct {
	src    string
	start  int // start index of current token
	cur    int // current index
	line   int // 1-based
	col    int // 1-based column of cur
	tokens []Token

	// position of the current token's first byte
	tokStartLine int
	tokStartCol  int
}

// NewLexer creates a new lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch, true
}

func (l *Lexer) addToken(tt TokenType, lit interface{}) {
	l.tokens = append(l.tokens, Token{
		Type:    tt,
		Lexeme:  l.src[l.start:l.cur],
		Literal: lit,
		Line:    l.tokStartLine,
		Col:     l.tokStartCol,
	})
	l.start = l.cur
}

func (l *Lexer) err(msg string) error {
	return &LexError{Line: l.line, Col: l.col, Msg: msg}
}

func (l *Lexer) errAt(line, col int, msg string) error {
	return &LexError{Line: line, Col: col, Msg: msg}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool {
	return isAlpha(b) || isDigit(b)
}

// skipInsignificant eats whitespace (including newlines) and '#' line comments.
func (l *Lexer) skipInsignificant() {
	for !l.isAtEnd() {
		ch, _ := l.peek()
		switch ch {
		case ' ', '\t', '\r', '\n':
			l.advance()
		case '#':
			for {
				b, ok := l.peek()
				if !ok || b == '\n' {
					break
				}
				l.advance()
			}
		default:
			return
		}
	}
}

// ----- scanners -----

// scanNumber parses consecutive digits with at most one '.'. Presence of the
// dot yields FLOAT_LIT, absence INT_LIT.
func (l *Lexer) scanNumber() error {
	sawDot := false
	for {
		b, ok := l.peek()
		if !ok {
			break
		}
		if b == '.' {
			if sawDot {
				return l.err("number with multiple decimal points")
			}
			sawDot = true
			l.advance()
			continue
		}
		if !isDigit(b) {
			break
		}
		l.advance()
	}
	lex := l.src[l.start:l.cur]
	if sawDot {
		f, convErr := strconv.ParseFloat(lex, 64)
		if convErr != nil {
			return l.errAt(l.tokStartLine, l.tokStartCol, "invalid float literal")
		}
		l.addToken(FLOAT_LIT, f)
		return nil
	}
	n, convErr := strconv.ParseInt(lex, 10, 64)
	if convErr != nil {
		return l.errAt(l.tokStartLine, l.tokStartCol, "invalid integer literal")
	}
	l.addToken(INT_LIT, n)
	return nil
}

// scanString parses a string literal delimited by a matching '"' or '\''.
// Supported escapes: \n \r \t \" \' \\. An unterminated string is reported at
// the opening quote; an unknown escape at the escape character.
func (l *Lexer) scanString() error {
	quote, _ := l.advance()
	var out []byte
	for {
		ch, ok := l.advance()
		if !ok {
			return l.errAt(l.tokStartLine, l.tokStartCol, "unterminated string")
		}
		if ch == quote {
			l.addToken(STR_LIT, string(out))
			return nil
		}
		if ch == '\\' {
			escLine, escCol := l.line, l.col
			esc, ok := l.advance()
			if !ok {
				return l.errAt(l.tokStartLine, l.tokStartCol, "unterminated string")
			}
			switch esc {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case '"':
				out = append(out, '"')
			case '\'':
				out = append(out, '\'')
			case '\\':
				out = append(out, '\\')
			default:
				return l.errAt(escLine, escCol, fmt.Sprintf("invalid escape sequence: \\%c", esc))
			}
			continue
		}
		out = append(out, ch)
	}
}

// scanIdentifier parses [A-Za-z_][A-Za-z0-9_]* and classifies keywords.
func (l *Lexer) scanIdentifier() {
	for {
		b, ok := l.peek()
		if !ok || !isAlphaNum(b) {
			break
		}
		l.advance()
	}
	lex := l.src[l.start:l.cur]
	switch lex {
	case "true":
		l.addToken(BOOL_LIT, true)
	case "false":
		l.addToken(BOOL_LIT, false)
	default:
		if tt, ok := keywords[lex]; ok {
			l.addToken(tt, lex)
			return
		}
		l.addToken(ID, lex)
	}
}

// scanOperator matches two-character operators before their one-character
// prefixes, then the single-character operators and delimiters.
func (l *Lexer) scanOperator() error {
	ch, _ := l.advance()

	if next, ok := l.peek(); ok && next == '=' {
		switch ch {
		case '=':
			l.advance()
			l.addToken(EQ, "==")
			return nil
		case '!':
			l.advance()
			l.addToken(NEQ, "!=")
			return nil
		case '<':
			l.advance()
			l.addToken(LESS_EQ, "<=")
			return nil
		case '>':
			l.advance()
			l.addToken(GREATER_EQ, ">=")
			return nil
		}
	}

	switch ch {
	case '+':
		l.addToken(PLUS, "+")
	case '-':
		l.addToken(MINUS, "-")
	case '*':
		l.addToken(MULT, "*")
	case '/':
		l.addToken(DIV, "/")
	case '%':
		l.addToken(MOD, "%")
	case '=':
		l.addToken(ASSIGN, "=")
	case '<':
		l.addToken(LESS, "<")
	case '>':
		l.addToken(GREATER, ">")
	case '(':
		l.addToken(LROUND, "(")
	case ')':
		l.addToken(RROUND, ")")
	case '{':
		l.addToken(LCURLY, "{")
	case '}':
		l.addToken(RCURLY, "}")
	case '[':
		l.addToken(LSQUARE, "[")
	case ']':
		l.addToken(RSQUARE, "]")
	case ';':
		l.addToken(SEMI, ";")
	case ',':
		l.addToken(COMMA, ",")
	case ':':
		l.addToken(COLON, ":")
	default:
		return l.errAt(l.tokStartLine, l.tokStartCol, fmt.Sprintf("unexpected character: %q", ch))
	}
	return nil
}

// Scan tokenizes the entire source and returns tokens (EOF included).
// The first error aborts scanning; no partial token list is returned.
func (l *Lexer) Scan() ([]Token, error) {
	for {
		l.skipInsignificant()
		l.start = l.cur
		l.tokStartLine = l.line
		l.tokStartCol = l.col

		if l.isAtEnd() {
			l.addToken(EOF, nil)
			return l.tokens, nil
		}

		ch, _ := l.peek()
		var err error
		switch {
		case isDigit(ch):
			err = l.scanNumber()
		case ch == '"' || ch == '\'':
			err = l.scanString()
		case isAlpha(ch):
			l.scanIdentifier()
		default:
			err = l.scanOperator()
		}
		if err != nil {
			return nil, err
		}
	}
}
