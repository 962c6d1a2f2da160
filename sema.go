// sema.go — nested-scope name resolution and type checking for Mini-Lang.
//
// OVERVIEW
// --------
// The analyzer walks the AST once, building a tree of symbol tables that
// mirrors the lexical block structure: a child scope is pushed on entering a
// function body, an if branch, a while body, a for loop, or a bare block.
// A function's name and signature are registered in the *enclosing* scope
// before its body is analyzed (so the function can call itself), then its
// parameters are defined in the fresh child scope.
//
// Typing rules live in typeOf, a pure function of an expression and the
// current scope chain. The only implicit conversion is the one-directional
// widening int→float, applied to initializers, assignments, arguments and
// return values.
//
// Unlike the lexer and parser, analysis never aborts: every violation is
// appended to the diagnostics list and the walk continues. Analyze reports
// success iff the list stays empty. Expressions that cannot be typed get the
// internal "error" type, which suppresses cascading complaints about the same
// subexpression.
package minilang

import (
	"fmt"
	"strings"
)

// Symbol is the compile-time record of one declared name.
type Symbol struct {
	Name       string
	Type       TypeSpec
	IsFunction bool
	Params     []Param   // functions only
	ReturnType *TypeSpec // functions only; nil means void
}

// SymbolTable is a node in the scope tree. Lookup chains through Parent;
// Children exist only so the tree can be rendered afterwards.
type SymbolTable struct {
	Parent   *SymbolTable
	Children []*SymbolTable

	symbols map[string]*Symbol
	order   []string
}

// NewSymbolTable creates a scope with the given parent (nil for the root) and
// registers it as a child of that parent.
func NewSymbolTable(parent *SymbolTable) *SymbolTable {
	st := &SymbolTable{Parent: parent, symbols: map[string]*Symbol{}}
	if parent != nil {
		parent.Children = append(parent.Children, st)
	}
	return st
}

// Define binds a symbol in this table. Names are unique per table.
func (st *SymbolTable) Define(sym *Symbol) error {
	if _, ok := st.symbols[sym.Name]; ok {
		return fmt.Errorf("'%s' already declared in this scope", sym.Name)
	}
	st.symbols[sym.Name] = sym
	st.order = append(st.order, sym.Name)
	return nil
}

// Resolve walks the scope chain outward and returns the nearest binding,
// or nil.
func (st *SymbolTable) Resolve(name string) *Symbol {
	if sym, ok := st.symbols[name]; ok {
		return sym
	}
	if st.Parent != nil {
		return st.Parent.Resolve(name)
	}
	return nil
}

// String renders the scope tree, two spaces per nesting level, in declaration
// order.
func (st *SymbolTable) String() string {
	var b strings.Builder
	st.render(&b, 0)
	return b.String()
}

func (st *SymbolTable) render(b *strings.Builder, level int) {
	indent := strings.Repeat("  ", level)
	fmt.Fprintf(b, "%sscope (level %d):\n", indent, level)
	for _, name := range st.order {
		sym := st.symbols[name]
		if sym.IsFunction {
			parts := make([]string, len(sym.Params))
			for i, p := range sym.Params {
				parts[i] = fmt.Sprintf("%s %s", p.Type, p.Name)
			}
			ret := "void"
			if sym.ReturnType != nil {
				ret = sym.ReturnType.String()
			}
			fmt.Fprintf(b, "%s  %s: function(%s) -> %s\n", indent, name, strings.Join(parts, ", "), ret)
		} else {
			fmt.Fprintf(b, "%s  %s: %s\n", indent, name, sym.Type)
		}
	}
	for _, child := range st.Children {
		child.render(b, level+1)
	}
}

// internal type-name markers used by typeOf
const (
	typeError = "error"
	typeVoid  = "void"
)

func errType() TypeSpec  { return TypeSpec{Name: typeError, Size: -1} }
func voidType() TypeSpec { return TypeSpec{Name: typeVoid, Size: -1} }
func scalar(name string) TypeSpec {
	return TypeSpec{Name: name, Size: -1}
}

func isNumeric(t TypeSpec) bool {
	return !t.IsArray && (t.Name == "int" || t.Name == "float")
}

func isError(t TypeSpec) bool { return t.Name == typeError }

// compatible applies the widening rule: identical types, or a float target
// fed an int source.
func compatible(target, value TypeSpec) bool {
	if target.Equal(value) {
		return true
	}
	return !target.IsArray && !value.IsArray && target.Name == "float" && value.Name == "int"
}

// Analyzer accumulates diagnostics over one Analyze pass. The zero value is
// not usable; call NewAnalyzer.
type Analyzer struct {
	Global *SymbolTable
	Errors []string

	current   *SymbolTable
	currentFn *FunctionDeclaration
}

// NewAnalyzer creates an analyzer with a fresh root scope.
func NewAnalyzer() *Analyzer {
	root := NewSymbolTable(nil)
	return &Analyzer{Global: root, current: root}
}

// Analyze walks the program, filling Global and Errors. It reports true iff
// no diagnostics were collected.
func (a *Analyzer) Analyze(prog *Program) bool {
	for _, s := range prog.Statements {
		a.stmt(s)
	}
	return len(a.Errors) == 0
}

func (a *Analyzer) errorf(format string, args ...interface{}) {
	a.Errors = append(a.Errors, fmt.Sprintf(format, args...))
}

func (a *Analyzer) pushScope() { a.current = NewSymbolTable(a.current) }
func (a *Analyzer) popScope() {
	if a.current.Parent != nil {
		a.current = a.current.Parent
	}
}

// ─────────────────────────────── statements ─────────────────────────────────

func (a *Analyzer) stmts(list []Stmt) {
	for _, s := range list {
		a.stmt(s)
	}
}

func (a *Analyzer) stmt(s Stmt) {
	switch n := s.(type) {
	case *VarDeclaration:
		a.varDeclaration(n)
	case *FunctionDeclaration:
		a.functionDeclaration(n)
	case *ExpressionStatement:
		a.typeOf(n.Expr)
	case *PrintStatement:
		a.typeOf(n.Expr)
	case *ReturnStatement:
		a.returnStatement(n)
	case *IfStatement:
		a.condition(n.Cond, "if")
		a.pushScope()
		a.stmts(n.Then)
		a.popScope()
		if n.Else != nil {
			a.pushScope()
			a.stmts(n.Else)
			a.popScope()
		}
	case *WhileStatement:
		a.condition(n.Cond, "while")
		a.pushScope()
		a.stmts(n.Body)
		a.popScope()
	case *ForStatement:
		a.pushScope()
		if n.Init != nil {
			a.stmt(n.Init)
		}
		if n.Cond != nil {
			a.condition(n.Cond, "for")
		}
		if n.Post != nil {
			a.typeOf(n.Post)
		}
		a.stmts(n.Body)
		a.popScope()
	case *Block:
		a.pushScope()
		a.stmts(n.Statements)
		a.popScope()
	}
}

func (a *Analyzer) condition(cond Expr, construct string) {
	t := a.typeOf(cond)
	if isError(t) {
		return
	}
	if t.IsArray || t.Name != "bool" {
		a.errorf("'%s' condition must be bool, found %s", construct, t)
	}
}

func (a *Analyzer) varDeclaration(n *VarDeclaration) {
	if n.Init != nil {
		if n.Type.IsArray {
			lit, ok := n.Init.(*ArrayLiteral)
			if !ok {
				a.errorf("array initializer for '%s' must be an array literal", n.Name)
			} else {
				elem := scalar(n.Type.Name)
				for _, e := range lit.Elements {
					et := a.typeOf(e)
					if isError(et) {
						continue
					}
					if !compatible(elem, et) {
						a.errorf("array element mismatch in '%s': expected %s, found %s", n.Name, elem, et)
					}
				}
			}
		} else {
			it := a.typeOf(n.Init)
			if !isError(it) && !compatible(n.Type, it) {
				a.errorf("incompatible type in declaration of '%s': expected %s, found %s", n.Name, n.Type, it)
			}
		}
	}
	if err := a.current.Define(&Symbol{Name: n.Name, Type: n.Type}); err != nil {
		a.errorf("%s", err)
	}
}

func (a *Analyzer) functionDeclaration(n *FunctionDeclaration) {
	sym := &Symbol{
		Name:       n.Name,
		IsFunction: true,
		Params:     n.Params,
		ReturnType: n.ReturnType,
		Type:       voidType(),
	}
	if n.ReturnType != nil {
		sym.Type = *n.ReturnType
	}
	// Registered in the enclosing scope first so the body can recurse.
	if err := a.current.Define(sym); err != nil {
		a.errorf("%s", err)
	}

	a.pushScope()
	prevFn := a.currentFn
	a.currentFn = n
	for _, p := range n.Params {
		if err := a.current.Define(&Symbol{Name: p.Name, Type: p.Type}); err != nil {
			a.errorf("%s", err)
		}
	}
	a.stmts(n.Body)
	a.currentFn = prevFn
	a.popScope()
}

func (a *Analyzer) returnStatement(n *ReturnStatement) {
	if a.currentFn == nil {
		a.errorf("'return' outside of a function")
		return
	}
	expected := voidType()
	if a.currentFn.ReturnType != nil {
		expected = *a.currentFn.ReturnType
	}
	if n.Expr != nil {
		got := a.typeOf(n.Expr)
		if expected.Name == typeVoid {
			a.errorf("void function '%s' must not return a value", a.currentFn.Name)
		} else if !isError(got) && !compatible(expected, got) {
			a.errorf("return type mismatch in '%s': expected %s, found %s", a.currentFn.Name, expected, got)
		}
	} else if expected.Name != typeVoid {
		a.errorf("function '%s' must return %s", a.currentFn.Name, expected)
	}
}

// ─────────────────────────────── expressions ────────────────────────────────

// typeOf computes the static type of an expression against the current scope
// chain, appending a diagnostic for each violation it finds. The "error" type
// marks subexpressions that already failed, so enclosing operators stay quiet.
func (a *Analyzer) typeOf(e Expr) TypeSpec {
	switch n := e.(type) {
	case *Literal:
		return scalar(n.Type)

	case *Variable:
		sym := a.current.Resolve(n.Name)
		if sym == nil {
			a.errorf("undeclared variable '%s'", n.Name)
			return errType()
		}
		return sym.Type

	case *BinaryOp:
		return a.binaryType(n)

	case *UnaryOp:
		ot := a.typeOf(n.Operand)
		if isError(ot) {
			return errType()
		}
		if n.Op == "not" {
			if !ot.IsArray && ot.Name == "bool" {
				return scalar("bool")
			}
			a.errorf("operator 'not' requires a boolean operand, found %s", ot)
			return errType()
		}
		// unary minus
		if isNumeric(ot) {
			return ot
		}
		a.errorf("operator '-' requires a numeric operand, found %s", ot)
		return errType()

	case *Assignment:
		return a.assignmentType(n)

	case *ArrayAccess:
		return a.arrayAccessType(n)

	case *ArrayLiteral:
		for _, el := range n.Elements {
			a.typeOf(el)
		}
		// Array literals are typed only against a declared element type;
		// standalone they carry no type of their own.
		return errType()

	case *FunctionCall:
		return a.callType(n)

	case *InputExpression:
		if n.Prompt != nil {
			a.typeOf(n.Prompt)
		}
		return scalar("string")
	}
	return errType()
}

func (a *Analyzer) binaryType(n *BinaryOp) TypeSpec {
	lt := a.typeOf(n.Left)
	rt := a.typeOf(n.Right)
	if isError(lt) || isError(rt) {
		return errType()
	}

	switch n.Op {
	case "+", "-", "*", "/", "%":
		if isNumeric(lt) && isNumeric(rt) {
			if lt.Name == "float" || rt.Name == "float" {
				return scalar("float")
			}
			return scalar("int")
		}
		if n.Op == "+" && !lt.IsArray && !rt.IsArray && lt.Name == "string" && rt.Name == "string" {
			return scalar("string")
		}
		a.errorf("operator '%s' not supported for types %s and %s", n.Op, lt, rt)
		return errType()

	case "<", "<=", ">", ">=":
		if isNumeric(lt) && isNumeric(rt) {
			return scalar("bool")
		}
		a.errorf("operator '%s' requires numeric operands, found %s and %s", n.Op, lt, rt)
		return errType()

	case "==", "!=":
		if lt.Equal(rt) || (isNumeric(lt) && isNumeric(rt)) {
			return scalar("bool")
		}
		a.errorf("cannot compare types %s and %s", lt, rt)
		return errType()

	case "and", "or":
		if !lt.IsArray && lt.Name == "bool" && !rt.IsArray && rt.Name == "bool" {
			return scalar("bool")
		}
		a.errorf("operator '%s' requires boolean operands, found %s and %s", n.Op, lt, rt)
		return errType()
	}
	return errType()
}

func (a *Analyzer) assignmentType(n *Assignment) TypeSpec {
	vt := a.typeOf(n.Value)

	switch target := n.Target.(type) {
	case *Variable:
		sym := a.current.Resolve(target.Name)
		if sym == nil {
			a.errorf("undeclared variable '%s'", target.Name)
			return errType()
		}
		if !isError(vt) && !compatible(sym.Type, vt) {
			a.errorf("incompatible assignment to '%s': %s = %s", target.Name, sym.Type, vt)
		}
		return sym.Type

	case *ArrayAccess:
		et := a.arrayAccessType(target)
		if !isError(et) && !isError(vt) && !compatible(et, vt) {
			a.errorf("incompatible assignment to array element: %s = %s", et, vt)
		}
		return et
	}

	a.errorf("invalid assignment target")
	return errType()
}

// arrayAccessType resolves the element type of an indexed array and checks
// that the index is int.
func (a *Analyzer) arrayAccessType(n *ArrayAccess) TypeSpec {
	it := a.typeOf(n.Index)
	if !isError(it) && (it.IsArray || it.Name != "int") {
		a.errorf("array index must be int, found %s", it)
	}

	base, ok := n.Array.(*Variable)
	if !ok {
		a.errorf("array access requires a named array variable")
		return errType()
	}
	sym := a.current.Resolve(base.Name)
	if sym == nil {
		a.errorf("undeclared variable '%s'", base.Name)
		return errType()
	}
	if !sym.Type.IsArray {
		a.errorf("'%s' is not an array", base.Name)
		return errType()
	}
	return scalar(sym.Type.Name)
}

func (a *Analyzer) callType(n *FunctionCall) TypeSpec {
	sym := a.current.Resolve(n.Name)
	if sym == nil {
		a.errorf("undeclared function '%s'", n.Name)
		for _, arg := range n.Args {
			a.typeOf(arg)
		}
		return errType()
	}
	if !sym.IsFunction {
		a.errorf("'%s' is not a function", n.Name)
		return errType()
	}
	if len(n.Args) != len(sym.Params) {
		a.errorf("function '%s' expects %d arguments, got %d", n.Name, len(sym.Params), len(n.Args))
		return a.callReturnType(sym)
	}
	for i, arg := range n.Args {
		at := a.typeOf(arg)
		if isError(at) {
			continue
		}
		if !compatible(sym.Params[i].Type, at) {
			a.errorf("argument %d of '%s': expected %s, found %s", i+1, n.Name, sym.Params[i].Type, at)
		}
	}
	return a.callReturnType(sym)
}

func (a *Analyzer) callReturnType(sym *Symbol) TypeSpec {
	if sym.ReturnType == nil {
		return voidType()
	}
	return *sym.ReturnType
}
