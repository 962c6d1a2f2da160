// codegen.go — source-to-source translation to Python.
//
// Emits a runnable Python 3 script with the same observable behavior as the
// interpreted program: 4-space indentation, for loops lowered to while loops,
// empty bodies filled with `pass`, uninitialized declarations expanded to
// their default values. Division goes through a small `_div` prelude helper
// so that integer operands keep floored division while float operands keep
// true division, matching the interpreter. The output for a given tree is
// deterministic.
package minilang

import (
	"fmt"
	"strconv"
	"strings"
)

// GenerateCode translates a program to Python source, newline-terminated.
func GenerateCode(prog *Program) string {
	g := &pyGen{}
	g.emit("# Generated by minilang; do not edit.")
	if usesDivision(prog) {
		g.emit("")
		g.emit("def _div(a, b):")
		g.emit("    if isinstance(a, int) and isinstance(b, int):")
		g.emit("        return a // b")
		g.emit("    return a / b")
	}
	g.emit("")
	for _, s := range prog.Statements {
		g.stmt(s)
		if _, ok := s.(*FunctionDeclaration); ok {
			g.emit("")
		}
	}
	return strings.Join(g.code, "\n") + "\n"
}

type pyGen struct {
	code  []string
	depth int
}

func (g *pyGen) emit(line string) {
	if strings.TrimSpace(line) == "" {
		g.code = append(g.code, "")
		return
	}
	g.code = append(g.code, strings.Repeat("    ", g.depth)+line)
}

// body emits a statement list one level deeper, substituting `pass` when the
// list is empty.
func (g *pyGen) body(list []Stmt) {
	g.depth++
	if len(list) == 0 {
		g.emit("pass")
	} else {
		for _, s := range list {
			g.stmt(s)
		}
	}
	g.depth--
}

func (g *pyGen) stmt(s Stmt) {
	switch n := s.(type) {
	case *VarDeclaration:
		if n.Init != nil {
			g.emit(fmt.Sprintf("%s = %s", n.Name, g.expr(n.Init)))
		} else {
			g.emit(fmt.Sprintf("%s = %s", n.Name, pyDefault(n.Type)))
		}

	case *FunctionDeclaration:
		params := make([]string, len(n.Params))
		for i, p := range n.Params {
			params[i] = p.Name
		}
		g.emit(fmt.Sprintf("def %s(%s):", n.Name, strings.Join(params, ", ")))
		g.body(n.Body)

	case *ExpressionStatement:
		g.exprStmt(n.Expr)

	case *PrintStatement:
		g.emit(fmt.Sprintf("print(%s)", g.expr(n.Expr)))

	case *ReturnStatement:
		if n.Expr != nil {
			g.emit("return " + g.expr(n.Expr))
		} else {
			g.emit("return")
		}

	case *IfStatement:
		g.emit(fmt.Sprintf("if %s:", g.expr(n.Cond)))
		g.body(n.Then)
		if n.Else != nil {
			g.emit("else:")
			g.body(n.Else)
		}

	case *WhileStatement:
		g.emit(fmt.Sprintf("while %s:", g.expr(n.Cond)))
		g.body(n.Body)

	case *ForStatement:
		// Lowered to a while loop; the post expression runs at the end of
		// every iteration.
		if n.Init != nil {
			g.stmt(n.Init)
		}
		cond := "True"
		if n.Cond != nil {
			cond = g.expr(n.Cond)
		}
		g.emit(fmt.Sprintf("while %s:", cond))
		g.depth++
		if len(n.Body) == 0 && n.Post == nil {
			g.emit("pass")
		}
		for _, s := range n.Body {
			g.stmt(s)
		}
		if n.Post != nil {
			g.exprStmt(n.Post)
		}
		g.depth--

	case *Block:
		for _, s := range n.Statements {
			g.stmt(s)
		}
	}
}

// exprStmt emits an expression in statement position. Assignments become
// Python assignment statements; everything else is emitted as a bare
// expression line.
func (g *pyGen) exprStmt(e Expr) {
	if a, ok := e.(*Assignment); ok {
		g.emit(fmt.Sprintf("%s = %s", g.expr(a.Target), g.expr(a.Value)))
		return
	}
	g.emit(g.expr(e))
}

func (g *pyGen) expr(e Expr) string {
	switch n := e.(type) {
	case *BinaryOp:
		l, r := g.expr(n.Left), g.expr(n.Right)
		if n.Op == "/" {
			return fmt.Sprintf("_div(%s, %s)", l, r)
		}
		return fmt.Sprintf("(%s %s %s)", l, n.Op, r)

	case *UnaryOp:
		if n.Op == "not" {
			return fmt.Sprintf("(not %s)", g.expr(n.Operand))
		}
		return fmt.Sprintf("(%s%s)", n.Op, g.expr(n.Operand))

	case *Assignment:
		// Assignment in a non-statement position; Python has no direct
		// equivalent, so render the statement form.
		return fmt.Sprintf("%s = %s", g.expr(n.Target), g.expr(n.Value))

	case *Variable:
		return n.Name

	case *Literal:
		return pyLiteral(n)

	case *ArrayAccess:
		return fmt.Sprintf("%s[%s]", g.expr(n.Array), g.expr(n.Index))

	case *ArrayLiteral:
		parts := make([]string, len(n.Elements))
		for i, el := range n.Elements {
			parts[i] = g.expr(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"

	case *FunctionCall:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = g.expr(a)
		}
		return fmt.Sprintf("%s(%s)", n.Name, strings.Join(args, ", "))

	case *InputExpression:
		if n.Prompt != nil {
			return fmt.Sprintf("input(%s)", g.expr(n.Prompt))
		}
		return "input()"
	}
	return ""
}

func pyLiteral(n *Literal) string {
	switch n.Type {
	case "int":
		return strconv.FormatInt(n.Value.(int64), 10)
	case "float":
		s := strconv.FormatFloat(n.Value.(float64), 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s
	case "bool":
		if n.Value.(bool) {
			return "True"
		}
		return "False"
	case "string":
		return strconv.Quote(n.Value.(string))
	}
	return fmt.Sprintf("%v", n.Value)
}

// pyDefault expands the default-value table for uninitialized declarations.
func pyDefault(t TypeSpec) string {
	if t.IsArray {
		size := t.Size
		if size < 0 {
			size = 0
		}
		return fmt.Sprintf("[%s] * %d", pyDefault(TypeSpec{Name: t.Name, Size: -1}), size)
	}
	switch t.Name {
	case "int":
		return "0"
	case "float":
		return "0.0"
	case "bool":
		return "False"
	case "string":
		return `""`
	}
	return "None"
}

// usesDivision reports whether any `/` appears in the tree, which decides
// whether the `_div` prelude is emitted.
func usesDivision(prog *Program) bool {
	found := false
	var walkExpr func(Expr)
	var walkStmt func(Stmt)

	walkExpr = func(e Expr) {
		if e == nil || found {
			return
		}
		switch n := e.(type) {
		case *BinaryOp:
			if n.Op == "/" {
				found = true
				return
			}
			walkExpr(n.Left)
			walkExpr(n.Right)
		case *UnaryOp:
			walkExpr(n.Operand)
		case *Assignment:
			walkExpr(n.Target)
			walkExpr(n.Value)
		case *ArrayAccess:
			walkExpr(n.Array)
			walkExpr(n.Index)
		case *ArrayLiteral:
			for _, el := range n.Elements {
				walkExpr(el)
			}
		case *FunctionCall:
			for _, a := range n.Args {
				walkExpr(a)
			}
		case *InputExpression:
			walkExpr(n.Prompt)
		}
	}
	walkStmt = func(s Stmt) {
		if s == nil || found {
			return
		}
		switch n := s.(type) {
		case *VarDeclaration:
			walkExpr(n.Init)
		case *FunctionDeclaration:
			for _, b := range n.Body {
				walkStmt(b)
			}
		case *ExpressionStatement:
			walkExpr(n.Expr)
		case *PrintStatement:
			walkExpr(n.Expr)
		case *ReturnStatement:
			walkExpr(n.Expr)
		case *IfStatement:
			walkExpr(n.Cond)
			for _, b := range n.Then {
				walkStmt(b)
			}
			for _, b := range n.Else {
				walkStmt(b)
			}
		case *WhileStatement:
			walkExpr(n.Cond)
			for _, b := range n.Body {
				walkStmt(b)
			}
		case *ForStatement:
			walkStmt(n.Init)
			walkExpr(n.Cond)
			walkExpr(n.Post)
			for _, b := range n.Body {
				walkStmt(b)
			}
		case *Block:
			for _, b := range n.Statements {
				walkStmt(b)
			}
		}
	}

	for _, s := range prog.Statements {
		walkStmt(s)
	}
	return found
}
