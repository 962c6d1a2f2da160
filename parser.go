// parser.go — recursive-descent parser for Mini-Lang.
//
// OVERVIEW
// --------
// Consumes the token sequence from lexer.go and builds the typed AST defined
// in ast.go. Statements and declarations use plain recursive descent;
// expressions use precedence climbing with this ladder, lowest to highest
// binding power:
//
//	assignment (right-assoc)
//	or
//	and
//	== !=
//	< <= > >=
//	+ -
//	* / %
//	unary prefix: not -
//	postfix: [index] (call)
//	primary: literals, names, ( expr ), [ e, ... ], input(...)
//
// Grammar notes:
//   - A declaration starts with a type keyword; `array<T>[n]` declares a
//     fixed-size array (the size literal may be omitted).
//   - `function name(type name, ...) [: returnType] { ... }`; the return type
//     is optional (void).
//   - if/while/for and function bodies accept either a braced block or a
//     single statement, which is itself recursively any statement.
//   - `for (init; cond; post)` with each section optional; an omitted
//     condition behaves as always-true.
//   - A call is legal only when the callee so far is a bare name; calling any
//     other postfix chain is a parse error.
//
// Failure semantics: the first mismatch aborts parsing with a *ParseError
// naming the expected construct and the offending token. No recovery, no
// multi-error reporting at this stage.
package minilang

import "fmt"

// ParseError is the single fatal failure a parse can produce. Line/Col locate
// the offending token (1-based).
type ParseError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("PARSE ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// Parse builds a Program from a token sequence produced by (*Lexer).Scan.
func Parse(tokens []Token) (*Program, error) {
	p := &parser{toks: tokens}
	return p.program()
}

// ParseSource tokenizes and parses in one step.
func ParseSource(src string) (*Program, error) {
	toks, err := NewLexer(src).Scan()
	if err != nil {
		return nil, err
	}
	return Parse(toks)
}

type parser struct {
	toks []Token
	i    int
}

// ─────────────────────────── token basics & helpers ─────────────────────────

func (p *parser) peek() Token {
	if p.i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i]
}

func (p *parser) prev() Token { return p.toks[p.i-1] }

func (p *parser) atEnd() bool { return p.peek().Type == EOF }

func (p *parser) advance() Token {
	t := p.peek()
	if t.Type != EOF {
		p.i++
	}
	return t
}

func (p *parser) check(tt ...TokenType) bool {
	cur := p.peek().Type
	for _, t := range tt {
		if cur == t {
			return true
		}
	}
	return false
}

func (p *parser) match(tt ...TokenType) bool {
	if p.check(tt...) {
		p.i++
		return true
	}
	return false
}

func (p *parser) expect(tt TokenType) (Token, error) {
	if p.check(tt) {
		return p.advance(), nil
	}
	return Token{}, p.errExpected(tt.String())
}

func (p *parser) errExpected(what string) error {
	g := p.peek()
	return &ParseError{
		Line: g.Line,
		Col:  g.Col,
		Msg:  fmt.Sprintf("expected %s, found %s", what, g.Type),
	}
}

func (p *parser) errAtCurrent(msg string) error {
	g := p.peek()
	return &ParseError{Line: g.Line, Col: g.Col, Msg: msg}
}

func isTypeKeyword(tt TokenType) bool {
	switch tt {
	case INT, FLOAT, BOOL, STRING, ARRAY:
		return true
	}
	return false
}

// ─────────────────────────── statements & declarations ──────────────────────

func (p *parser) program() (*Program, error) {
	var stmts []Stmt
	for !p.atEnd() {
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return &Program{Statements: stmts}, nil
}

func (p *parser) statement() (Stmt, error) {
	switch {
	case isTypeKeyword(p.peek().Type):
		return p.declaration()
	case p.check(FUNCTION):
		return p.functionDeclaration()
	case p.check(PRINT):
		return p.printStatement()
	case p.check(RETURN):
		return p.returnStatement()
	case p.check(IF):
		return p.ifStatement()
	case p.check(WHILE):
		return p.whileStatement()
	case p.check(FOR):
		return p.forStatement()
	case p.check(LCURLY):
		return p.block()
	default:
		return p.expressionStatement()
	}
}

// typeSpec parses `int|float|bool|string` or `array<T>[n]`, plus the trailing
// `[n]` form on a scalar name (`int[3]`).
func (p *parser) typeSpec() (TypeSpec, error) {
	tok := p.peek()

	if tok.Type == ARRAY {
		p.advance()
		if _, err := p.expect(LESS); err != nil {
			return TypeSpec{}, err
		}
		inner, err := p.typeSpec()
		if err != nil {
			return TypeSpec{}, err
		}
		if _, err := p.expect(GREATER); err != nil {
			return TypeSpec{}, err
		}
		size, err := p.optionalArraySize()
		if err != nil {
			return TypeSpec{}, err
		}
		return TypeSpec{Name: inner.Name, IsArray: true, Size: size}, nil
	}

	var name string
	switch tok.Type {
	case INT:
		name = "int"
	case FLOAT:
		name = "float"
	case BOOL:
		name = "bool"
	case STRING:
		name = "string"
	default:
		return TypeSpec{}, p.errExpected("a type")
	}
	p.advance()

	if p.check(LSQUARE) {
		size, err := p.optionalArraySize()
		if err != nil {
			return TypeSpec{}, err
		}
		return TypeSpec{Name: name, IsArray: true, Size: size}, nil
	}
	return TypeSpec{Name: name, Size: -1}, nil
}

// optionalArraySize parses `[n]` or `[]` when present; returns -1 for an
// omitted size.
func (p *parser) optionalArraySize() (int, error) {
	if !p.match(LSQUARE) {
		return -1, nil
	}
	size := -1
	if p.check(INT_LIT) {
		size = int(p.advance().Literal.(int64))
	}
	if _, err := p.expect(RSQUARE); err != nil {
		return 0, err
	}
	return size, nil
}

func (p *parser) declaration() (Stmt, error) {
	typ, err := p.typeSpec()
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(ID)
	if err != nil {
		return nil, err
	}
	var init Expr
	if p.match(ASSIGN) {
		init, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(SEMI); err != nil {
		return nil, err
	}
	return &VarDeclaration{Type: typ, Name: nameTok.Lexeme, Init: init}, nil
}

func (p *parser) functionDeclaration() (Stmt, error) {
	p.advance() // function
	nameTok, err := p.expect(ID)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(LROUND); err != nil {
		return nil, err
	}
	var params []Param
	if !p.check(RROUND) {
		for {
			typ, err := p.typeSpec()
			if err != nil {
				return nil, err
			}
			pname, err := p.expect(ID)
			if err != nil {
				return nil, err
			}
			params = append(params, Param{Type: typ, Name: pname.Lexeme})
			if !p.match(COMMA) {
				break
			}
		}
	}
	if _, err := p.expect(RROUND); err != nil {
		return nil, err
	}

	var ret *TypeSpec
	if p.match(COLON) {
		typ, err := p.typeSpec()
		if err != nil {
			return nil, err
		}
		ret = &typ
	}

	body, err := p.bodyStatements()
	if err != nil {
		return nil, err
	}
	return &FunctionDeclaration{Name: nameTok.Lexeme, Params: params, ReturnType: ret, Body: body}, nil
}

// bodyStatements parses either a braced statement list or a single statement,
// which becomes a one-element body.
func (p *parser) bodyStatements() ([]Stmt, error) {
	if p.match(LCURLY) {
		var stmts []Stmt
		for !p.check(RCURLY) {
			if p.atEnd() {
				return nil, p.errExpected("'}'")
			}
			s, err := p.statement()
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, s)
		}
		p.advance() // }
		if stmts == nil {
			stmts = []Stmt{}
		}
		return stmts, nil
	}
	s, err := p.statement()
	if err != nil {
		return nil, err
	}
	return []Stmt{s}, nil
}

func (p *parser) printStatement() (Stmt, error) {
	p.advance() // print
	if _, err := p.expect(LROUND); err != nil {
		return nil, err
	}
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RROUND); err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMI); err != nil {
		return nil, err
	}
	return &PrintStatement{Expr: expr}, nil
}

func (p *parser) returnStatement() (Stmt, error) {
	p.advance() // return
	var expr Expr
	if !p.check(SEMI) {
		var err error
		expr, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(SEMI); err != nil {
		return nil, err
	}
	return &ReturnStatement{Expr: expr}, nil
}

func (p *parser) ifStatement() (Stmt, error) {
	p.advance() // if
	if _, err := p.expect(LROUND); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RROUND); err != nil {
		return nil, err
	}
	then, err := p.bodyStatements()
	if err != nil {
		return nil, err
	}
	var els []Stmt
	if p.match(ELSE) {
		els, err = p.bodyStatements()
		if err != nil {
			return nil, err
		}
	}
	return &IfStatement{Cond: cond, Then: then, Else: els}, nil
}

func (p *parser) whileStatement() (Stmt, error) {
	p.advance() // while
	if _, err := p.expect(LROUND); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RROUND); err != nil {
		return nil, err
	}
	body, err := p.bodyStatements()
	if err != nil {
		return nil, err
	}
	return &WhileStatement{Cond: cond, Body: body}, nil
}

func (p *parser) forStatement() (Stmt, error) {
	p.advance() // for
	if _, err := p.expect(LROUND); err != nil {
		return nil, err
	}

	var init Stmt
	if p.match(SEMI) {
		// empty init
	} else if isTypeKeyword(p.peek().Type) {
		d, err := p.declaration() // consumes its ';'
		if err != nil {
			return nil, err
		}
		init = d
	} else {
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(SEMI); err != nil {
			return nil, err
		}
		init = &ExpressionStatement{Expr: expr}
	}

	var cond Expr
	if !p.check(SEMI) {
		var err error
		cond, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(SEMI); err != nil {
		return nil, err
	}

	var post Expr
	if !p.check(RROUND) {
		var err error
		post, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(RROUND); err != nil {
		return nil, err
	}

	body, err := p.bodyStatements()
	if err != nil {
		return nil, err
	}
	return &ForStatement{Init: init, Cond: cond, Post: post, Body: body}, nil
}

func (p *parser) block() (Stmt, error) {
	p.advance() // {
	var stmts []Stmt
	for !p.check(RCURLY) {
		if p.atEnd() {
			return nil, p.errExpected("'}'")
		}
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	p.advance() // }
	return &Block{Statements: stmts}, nil
}

func (p *parser) expressionStatement() (Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMI); err != nil {
		return nil, err
	}
	return &ExpressionStatement{Expr: expr}, nil
}

// ─────────────────────────────── expressions ────────────────────────────────

func (p *parser) expression() (Expr, error) {
	return p.assignment()
}

func (p *parser) assignment() (Expr, error) {
	expr, err := p.logicalOr()
	if err != nil {
		return nil, err
	}
	if p.match(ASSIGN) {
		value, err := p.assignment() // right-associative
		if err != nil {
			return nil, err
		}
		return &Assignment{Target: expr, Value: value}, nil
	}
	return expr, nil
}

// binaryLevel folds a left-associative run of the given operators over the
// next-higher precedence level.
func (p *parser) binaryLevel(next func() (Expr, error), ops ...TokenType) (Expr, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for p.check(ops...) {
		op := p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Op: op.Lexeme, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) logicalOr() (Expr, error) {
	return p.binaryLevel(p.logicalAnd, OR)
}

func (p *parser) logicalAnd() (Expr, error) {
	return p.binaryLevel(p.equality, AND)
}

func (p *parser) equality() (Expr, error) {
	return p.binaryLevel(p.relational, EQ, NEQ)
}

func (p *parser) relational() (Expr, error) {
	return p.binaryLevel(p.additive, LESS, LESS_EQ, GREATER, GREATER_EQ)
}

func (p *parser) additive() (Expr, error) {
	return p.binaryLevel(p.multiplicative, PLUS, MINUS)
}

func (p *parser) multiplicative() (Expr, error) {
	return p.binaryLevel(p.unary, MULT, DIV, MOD)
}

func (p *parser) unary() (Expr, error) {
	if p.check(NOT, MINUS) {
		op := p.advance()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &UnaryOp{Op: op.Lexeme, Operand: operand}, nil
	}
	return p.postfix()
}

// postfix parses index and call chains. Calls are only legal on a bare name:
// `a[i](x)` is rejected.
func (p *parser) postfix() (Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.match(LSQUARE):
			index, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(RSQUARE); err != nil {
				return nil, err
			}
			expr = &ArrayAccess{Array: expr, Index: index}

		case p.check(LROUND):
			v, ok := expr.(*Variable)
			if !ok {
				return nil, p.errAtCurrent("invalid function call: callee must be a name")
			}
			p.advance() // (
			var args []Expr
			if !p.check(RROUND) {
				for {
					arg, err := p.expression()
					if err != nil {
						return nil, err
					}
					args = append(args, arg)
					if !p.match(COMMA) {
						break
					}
				}
			}
			if _, err := p.expect(RROUND); err != nil {
				return nil, err
			}
			expr = &FunctionCall{Name: v.Name, Args: args}

		default:
			return expr, nil
		}
	}
}

func (p *parser) primary() (Expr, error) {
	tok := p.peek()
	switch tok.Type {
	case INT_LIT:
		p.advance()
		return &Literal{Value: tok.Literal, Type: "int"}, nil
	case FLOAT_LIT:
		p.advance()
		return &Literal{Value: tok.Literal, Type: "float"}, nil
	case STR_LIT:
		p.advance()
		return &Literal{Value: tok.Literal, Type: "string"}, nil
	case BOOL_LIT:
		p.advance()
		return &Literal{Value: tok.Literal, Type: "bool"}, nil

	case INPUT:
		p.advance()
		if _, err := p.expect(LROUND); err != nil {
			return nil, err
		}
		var prompt Expr
		if !p.check(RROUND) {
			var err error
			prompt, err = p.expression()
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(RROUND); err != nil {
			return nil, err
		}
		return &InputExpression{Prompt: prompt}, nil

	case ID:
		p.advance()
		return &Variable{Name: tok.Lexeme}, nil

	case LROUND:
		p.advance()
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RROUND); err != nil {
			return nil, err
		}
		return expr, nil

	case LSQUARE:
		p.advance()
		var elems []Expr
		if !p.check(RSQUARE) {
			for {
				e, err := p.expression()
				if err != nil {
					return nil, err
				}
				elems = append(elems, e)
				if !p.match(COMMA) {
					break
				}
			}
		}
		if _, err := p.expect(RSQUARE); err != nil {
			return nil, err
		}
		return &ArrayLiteral{Elements: elems}, nil
	}

	return nil, p.errExpected("an expression")
}
