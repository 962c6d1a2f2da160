// printer.go — box-drawing syntax tree renderer.
//
// Renders a Program (or any subtree) as an indented outline using "├── "
// connectors and "│   " guides, one node per line. Labeled child groups
// ("Condition:", "Then:", "Body:", ...) keep the output readable for nodes
// with heterogeneous children. The rendering is deterministic: equal trees
// always produce identical text.
package minilang

import (
	"fmt"
	"strconv"
	"strings"
)

// PrintTree renders node as a multi-line outline without a trailing newline.
func PrintTree(node Node) string {
	p := &treePrinter{}
	p.node(node)
	return strings.Join(p.lines, "\n")
}

type treePrinter struct {
	lines []string
	level int
}

func (p *treePrinter) add(text string) {
	if p.level == 0 {
		p.lines = append(p.lines, text)
		return
	}
	p.lines = append(p.lines, strings.Repeat("│   ", p.level-1)+"├── "+text)
}

// group emits a label line and renders the children one level deeper.
func (p *treePrinter) group(label string, children ...Node) {
	p.add(label)
	p.level++
	for _, c := range children {
		p.node(c)
	}
	p.level--
}

func (p *treePrinter) stmts(list []Stmt) {
	for _, s := range list {
		p.node(s)
	}
}

func (p *treePrinter) node(n Node) {
	switch n := n.(type) {
	case *Program:
		p.add("Program")
		p.level++
		p.stmts(n.Statements)
		p.level--

	case *VarDeclaration:
		p.add(fmt.Sprintf("VarDeclaration: %s %s", n.Type, n.Name))
		if n.Init != nil {
			p.level++
			p.group("Initializer:", n.Init)
			p.level--
		}

	case *FunctionDeclaration:
		params := make([]string, len(n.Params))
		for i, prm := range n.Params {
			params[i] = prm.Type.String() + " " + prm.Name
		}
		ret := "void"
		if n.ReturnType != nil {
			ret = n.ReturnType.String()
		}
		p.add(fmt.Sprintf("FunctionDeclaration: %s(%s) -> %s", n.Name, strings.Join(params, ", "), ret))
		if len(n.Body) > 0 {
			p.level++
			p.add("Body:")
			p.level++
			p.stmts(n.Body)
			p.level -= 2
		}

	case *ExpressionStatement:
		p.group("ExpressionStatement", n.Expr)

	case *PrintStatement:
		p.group("PrintStatement", n.Expr)

	case *ReturnStatement:
		p.add("ReturnStatement")
		if n.Expr != nil {
			p.level++
			p.node(n.Expr)
			p.level--
		}

	case *IfStatement:
		p.add("IfStatement")
		p.level++
		p.group("Condition:", n.Cond)
		p.add("Then:")
		p.level++
		p.stmts(n.Then)
		p.level--
		if n.Else != nil {
			p.add("Else:")
			p.level++
			p.stmts(n.Else)
			p.level--
		}
		p.level--

	case *WhileStatement:
		p.add("WhileStatement")
		p.level++
		p.group("Condition:", n.Cond)
		p.add("Body:")
		p.level++
		p.stmts(n.Body)
		p.level -= 2

	case *ForStatement:
		p.add("ForStatement")
		p.level++
		if n.Init != nil {
			p.group("Init:", n.Init)
		}
		if n.Cond != nil {
			p.group("Condition:", n.Cond)
		}
		if n.Post != nil {
			p.group("Increment:", n.Post)
		}
		p.add("Body:")
		p.level++
		p.stmts(n.Body)
		p.level -= 2

	case *Block:
		p.add("Block")
		p.level++
		p.stmts(n.Statements)
		p.level--

	case *BinaryOp:
		p.add("BinaryOp: " + n.Op)
		p.level++
		p.group("Left:", n.Left)
		p.group("Right:", n.Right)
		p.level--

	case *UnaryOp:
		p.group("UnaryOp: "+n.Op, n.Operand)

	case *Assignment:
		p.add("Assignment")
		p.level++
		p.group("Target:", n.Target)
		p.group("Value:", n.Value)
		p.level--

	case *Variable:
		p.add("Variable: " + n.Name)

	case *Literal:
		p.add(fmt.Sprintf("Literal: %s (%s)", literalText(n), n.Type))

	case *ArrayAccess:
		p.add("ArrayAccess")
		p.level++
		p.group("Array:", n.Array)
		p.group("Index:", n.Index)
		p.level--

	case *ArrayLiteral:
		p.add(fmt.Sprintf("ArrayLiteral (%d elements)", len(n.Elements)))
		p.level++
		for _, el := range n.Elements {
			p.node(el)
		}
		p.level--

	case *FunctionCall:
		p.add("FunctionCall: " + n.Name)
		if len(n.Args) > 0 {
			p.level++
			p.add("Arguments:")
			p.level++
			for _, arg := range n.Args {
				p.node(arg)
			}
			p.level -= 2
		}

	case *InputExpression:
		p.add("InputExpression")
		if n.Prompt != nil {
			p.level++
			p.group("Prompt:", n.Prompt)
			p.level--
		}
	}
}

// literalText renders a literal's value for the outline: ints bare, floats
// always with a decimal point, bools as true/false, strings without quotes.
func literalText(n *Literal) string {
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
		return strconv.FormatBool(n.Value.(bool))
	case "string":
		return n.Value.(string)
	}
	return fmt.Sprintf("%v", n.Value)
}
