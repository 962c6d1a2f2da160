// ast.go — typed syntax tree for Mini-Lang.
//
// The node set is closed: every variant is a struct implementing the sealed
// Stmt or Expr interface (unexported marker methods keep the set closed to
// this package). Each node owns its children exclusively; the tree carries no
// source positions — tokens retain those, and parse errors are reported
// before a tree exists.
package minilang

import "strconv"

// Node is the common interface of every syntax tree node.
type Node interface{ astNode() }

// Stmt is implemented by all statement variants.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by all expression variants.
type Expr interface {
	Node
	exprNode()
}

// TypeSpec describes a declared type: a base name (int, float, bool, string),
// an array flag, and an optional fixed size. Size < 0 means the declaration
// omitted the size.
type TypeSpec struct {
	Name    string
	IsArray bool
	Size    int
}

// String renders the type the way declarations write it: "int", "int[3]",
// "int[]" when the size was omitted.
func (t TypeSpec) String() string {
	if !t.IsArray {
		return t.Name
	}
	if t.Size < 0 {
		return t.Name + "[]"
	}
	return t.Name + "[" + strconv.Itoa(t.Size) + "]"
}

// Equal reports whether two descriptors are identical (name, array flag and,
// for arrays, element type; a declared size never affects identity).
func (t TypeSpec) Equal(o TypeSpec) bool {
	return t.Name == o.Name && t.IsArray == o.IsArray
}

// Param is one function parameter (declared type plus name).
type Param struct {
	Type TypeSpec
	Name string
}

// Program is the root node.
type Program struct {
	Statements []Stmt
}

// VarDeclaration declares a scalar or array variable, optionally initialized.
type VarDeclaration struct {
	Type TypeSpec
	Name string
	Init Expr // nil when absent
}

// FunctionDeclaration declares a named function. ReturnType nil means void.
type FunctionDeclaration struct {
	Name       string
	Params     []Param
	ReturnType *TypeSpec
	Body       []Stmt
}

// ExpressionStatement wraps an expression evaluated for its effect.
type ExpressionStatement struct {
	Expr Expr
}

// PrintStatement emits the rendering of its operand.
type PrintStatement struct {
	Expr Expr
}

// ReturnStatement exits the enclosing function, optionally with a value.
type ReturnStatement struct {
	Expr Expr // nil for a bare return
}

// IfStatement holds a condition and one or two branches. A single unbraced
// statement body parses as a one-element branch.
type IfStatement struct {
	Cond Expr
	Then []Stmt
	Else []Stmt // nil when absent
}

// WhileStatement loops while the condition holds.
type WhileStatement struct {
	Cond Expr
	Body []Stmt
}

// ForStatement is the C-style loop. Any of Init, Cond, Post may be nil; a nil
// condition behaves as always-true.
type ForStatement struct {
	Init Stmt // declaration or expression statement
	Cond Expr
	Post Expr
	Body []Stmt
}

// Block is a bare brace-delimited statement list introducing a scope.
type Block struct {
	Statements []Stmt
}

// BinaryOp applies an infix operator. Op is the operator spelling
// ("+", "==", "and", ...).
type BinaryOp struct {
	Op    string
	Left  Expr
	Right Expr
}

// UnaryOp applies a prefix operator ("not" or "-").
type UnaryOp struct {
	Op      string
	Operand Expr
}

// Assignment assigns Value to Target (a Variable or ArrayAccess).
type Assignment struct {
	Target Expr
	Value  Expr
}

// Variable references a name.
type Variable struct {
	Name string
}

// Literal is a constant. Type is one of "int", "float", "bool", "string" and
// Value holds the matching Go value (int64, float64, bool, string).
type Literal struct {
	Value interface{}
	Type  string
}

// ArrayAccess indexes into an array expression.
type ArrayAccess struct {
	Array Expr
	Index Expr
}

// ArrayLiteral is a bracketed element list.
type ArrayLiteral struct {
	Elements []Expr
}

// FunctionCall calls a function by bare name.
type FunctionCall struct {
	Name string
	Args []Expr
}

// InputExpression reads a line of external text, optionally after showing a
// prompt.
type InputExpression struct {
	Prompt Expr // nil when absent
}

func (*Program) astNode()             {}
func (*VarDeclaration) astNode()      {}
func (*FunctionDeclaration) astNode() {}
func (*ExpressionStatement) astNode() {}
func (*PrintStatement) astNode()      {}
func (*ReturnStatement) astNode()     {}
func (*IfStatement) astNode()         {}
func (*WhileStatement) astNode()      {}
func (*ForStatement) astNode()        {}
func (*Block) astNode()               {}
func (*BinaryOp) astNode()            {}
func (*UnaryOp) astNode()             {}
func (*Assignment) astNode()          {}
func (*Variable) astNode()            {}
func (*Literal) astNode()             {}
func (*ArrayAccess) astNode()         {}
func (*ArrayLiteral) astNode()        {}
func (*FunctionCall) astNode()        {}
func (*InputExpression) astNode()     {}

func (*VarDeclaration) stmtNode()      {}
func (*FunctionDeclaration) stmtNode() {}
func (*ExpressionStatement) stmtNode() {}
func (*PrintStatement) stmtNode()      {}
func (*ReturnStatement) stmtNode()     {}
func (*IfStatement) stmtNode()         {}
func (*WhileStatement) stmtNode()      {}
func (*ForStatement) stmtNode()        {}
func (*Block) stmtNode()               {}

func (*BinaryOp) exprNode()        {}
func (*UnaryOp) exprNode()         {}
func (*Assignment) exprNode()      {}
func (*Variable) exprNode()        {}
func (*Literal) exprNode()         {}
func (*ArrayAccess) exprNode()     {}
func (*ArrayLiteral) exprNode()    {}
func (*FunctionCall) exprNode()    {}
func (*InputExpression) exprNode() {}
