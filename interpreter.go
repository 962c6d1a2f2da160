// interpreter.go — tree-walking evaluator for Mini-Lang.
//
// OVERVIEW
// --------
// Executes a parsed Program by structural recursion with an explicit
// environment chain. The interpreter does not depend on the analyzer: it
// checks every operation dynamically and raises a *RuntimeFault on the first
// violation, aborting execution while preserving all output produced so far.
//
// VALUES
// ------
// Runtime values are a tagged union (Value{Tag, Data}): int64, float64, bool,
// string, arrays of Value, and function references (the declaration node
// itself — transient call frames never outlive the call). Arrays are
// fixed-length, mutable in place, and bounds-checked on every access.
//
// SCOPING
// -------
// Entering an if branch, one while iteration, a bare block or a function call
// pushes a new environment whose parent is the environment active at the
// point of entry. For a call that parent is the *caller's* active frame, not
// the frame where the function was declared: Mini-Lang functions do not
// capture lexical closures, so a body's free names resolve against whatever
// is visible at the call site. A for loop pushes one environment for its
// whole init/cond/post/body extent.
//
// CONTROL FLOW
// ------------
// `return` is an explicit control-flow result (ctrl) threaded through every
// statement executor and intercepted exactly at the call boundary; a function
// whose body finishes without reaching `return` yields an absent value.
//
// ARITHMETIC
// ----------
// `/` on two ints is floored division (rounds toward negative infinity, as in
// the generated scripting target); with a float operand it is true division.
// `%` is the matching floored remainder, so (a/b)*b + a%b == a. Division or
// modulo with a zero right operand is a fatal fault.
package minilang

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValueTag enumerates the runtime kinds a Value may hold.
type ValueTag int

const (
	VTVoid  ValueTag = iota // absent value (result of a void call)
	VTInt                   // int64
	VTFloat                 // float64
	VTBool                  // bool
	VTStr                   // string
	VTArray                 // []Value
	VTFun                   // *FunctionDeclaration
)

// Value is the universal runtime carrier. Tag determines which Go type Data
// holds (see ValueTag).
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// Constructors.
func IntVal(n int64) Value                      { return Value{Tag: VTInt, Data: n} }
func FloatVal(f float64) Value                  { return Value{Tag: VTFloat, Data: f} }
func BoolVal(b bool) Value                      { return Value{Tag: VTBool, Data: b} }
func StrVal(s string) Value                     { return Value{Tag: VTStr, Data: s} }
func ArrVal(xs []Value) Value                   { return Value{Tag: VTArray, Data: xs} }
func FunVal(fn *FunctionDeclaration) Value      { return Value{Tag: VTFun, Data: fn} }

// String renders the value the way `print` emits it: ints without decoration,
// floats always with a decimal point, bools as `true`/`false`, strings bare,
// arrays bracketed with quoted strings inside.
func (v Value) String() string {
	switch v.Tag {
	case VTVoid:
		return "void"
	case VTInt:
		return strconv.FormatInt(v.Data.(int64), 10)
	case VTFloat:
		s := strconv.FormatFloat(v.Data.(float64), 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEnN") {
			s += ".0"
		}
		return s
	case VTBool:
		return strconv.FormatBool(v.Data.(bool))
	case VTStr:
		return v.Data.(string)
	case VTArray:
		xs := v.Data.([]Value)
		parts := make([]string, len(xs))
		for i, x := range xs {
			if x.Tag == VTStr {
				parts[i] = strconv.Quote(x.Data.(string))
			} else {
				parts[i] = x.String()
			}
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case VTFun:
		return fmt.Sprintf("<function %s>", v.Data.(*FunctionDeclaration).Name)
	default:
		return "<unknown>"
	}
}

// typeName is used in fault messages.
func (v Value) typeName() string {
	switch v.Tag {
	case VTVoid:
		return "void"
	case VTInt:
		return "int"
	case VTFloat:
		return "float"
	case VTBool:
		return "bool"
	case VTStr:
		return "string"
	case VTArray:
		return "array"
	case VTFun:
		return "function"
	default:
		return "unknown"
	}
}

// RuntimeFault is the single fatal failure an interpretation can produce.
// It carries no source position: the tree holds none by design.
type RuntimeFault struct {
	Msg string
}

func (e *RuntimeFault) Error() string {
	return fmt.Sprintf("RUNTIME FAULT: %s", e.Msg)
}

func fault(format string, args ...interface{}) error {
	return &RuntimeFault{Msg: fmt.Sprintf(format, args...)}
}

// Env is a runtime environment frame with a parent link. Lookups and
// assignments walk parent-ward; Define binds in the current frame.
type Env struct {
	parent *Env
	table  map[string]Value
}

// NewEnv creates a new frame with the given parent (which may be nil).
func NewEnv(parent *Env) *Env { return &Env{parent: parent, table: make(map[string]Value)} }

// Define binds name to v in the current frame, shadowing any outer binding.
func (e *Env) Define(name string, v Value) { e.table[name] = v }

// Get retrieves the nearest visible binding for name.
func (e *Env) Get(name string) (Value, error) {
	if v, ok := e.table[name]; ok {
		return v, nil
	}
	if e.parent != nil {
		return e.parent.Get(name)
	}
	return Value{}, fault("undefined variable '%s'", name)
}

// Set updates the nearest existing binding of name. It never implicitly
// defines.
func (e *Env) Set(name string, v Value) error {
	if _, ok := e.table[name]; ok {
		e.table[name] = v
		return nil
	}
	if e.parent != nil {
		return e.parent.Set(name, v)
	}
	return fault("undefined variable '%s'", name)
}

// InputFunc supplies one line of external text for `input(...)`, optionally
// after displaying the prompt. The read is synchronous; the interpreter
// blocks until it returns.
type InputFunc func(prompt string) (string, error)

// ctrl is the control-flow result threaded through statement execution.
type ctrl struct {
	returned bool
	hasValue bool
	value    Value
}

var ctrlNormal = ctrl{}

// Interpreter executes programs against a persistent global environment, so a
// host can feed it successive programs REPL-style. Output accumulates per
// Interpret call; Input supplies `input(...)` lines (nil faults on first use).
type Interpreter struct {
	Input InputFunc

	global *Env
	env    *Env
	output []string
}

// NewInterpreter creates an interpreter with an empty global environment and
// no input source.
func NewInterpreter() *Interpreter {
	g := NewEnv(nil)
	return &Interpreter{global: g, env: g}
}

// Global exposes the persistent top-level environment (for REPL hosts).
func (ip *Interpreter) Global() *Env { return ip.global }

// Interpret executes the program and returns the ordered output lines. On a
// fault, the lines produced before the fault are returned alongside it.
func (ip *Interpreter) Interpret(prog *Program) ([]string, error) {
	ip.output = nil
	ip.env = ip.global
	for _, s := range prog.Statements {
		c, err := ip.execStmt(s)
		if err != nil {
			return ip.output, err
		}
		if c.returned {
			// A top-level return simply ends the program.
			break
		}
	}
	return ip.output, nil
}

// ─────────────────────────────── statements ─────────────────────────────────

func (ip *Interpreter) execStmts(list []Stmt) (ctrl, error) {
	for _, s := range list {
		c, err := ip.execStmt(s)
		if err != nil || c.returned {
			return c, err
		}
	}
	return ctrlNormal, nil
}

func (ip *Interpreter) execStmt(s Stmt) (ctrl, error) {
	switch n := s.(type) {
	case *VarDeclaration:
		v, err := ip.declValue(n)
		if err != nil {
			return ctrlNormal, err
		}
		ip.env.Define(n.Name, v)
		return ctrlNormal, nil

	case *FunctionDeclaration:
		ip.env.Define(n.Name, FunVal(n))
		return ctrlNormal, nil

	case *ExpressionStatement:
		_, err := ip.eval(n.Expr)
		return ctrlNormal, err

	case *PrintStatement:
		v, err := ip.eval(n.Expr)
		if err != nil {
			return ctrlNormal, err
		}
		ip.output = append(ip.output, v.String())
		return ctrlNormal, nil

	case *ReturnStatement:
		if n.Expr == nil {
			return ctrl{returned: true}, nil
		}
		v, err := ip.eval(n.Expr)
		if err != nil {
			return ctrlNormal, err
		}
		return ctrl{returned: true, hasValue: true, value: v}, nil

	case *IfStatement:
		cond, err := ip.evalBool(n.Cond, "'if' condition")
		if err != nil {
			return ctrlNormal, err
		}
		if cond {
			return ip.execScoped(n.Then)
		}
		if n.Else != nil {
			return ip.execScoped(n.Else)
		}
		return ctrlNormal, nil

	case *WhileStatement:
		for {
			cond, err := ip.evalBool(n.Cond, "'while' condition")
			if err != nil {
				return ctrlNormal, err
			}
			if !cond {
				return ctrlNormal, nil
			}
			c, err := ip.execScoped(n.Body)
			if err != nil || c.returned {
				return c, err
			}
		}

	case *ForStatement:
		return ip.execFor(n)

	case *Block:
		return ip.execScoped(n.Statements)
	}
	return ctrlNormal, nil
}

// execScoped runs a statement list in a fresh child of the active
// environment.
func (ip *Interpreter) execScoped(list []Stmt) (ctrl, error) {
	saved := ip.env
	ip.env = NewEnv(saved)
	c, err := ip.execStmts(list)
	ip.env = saved
	return c, err
}

// execFor pushes one environment for the whole loop: init, condition, post
// and body all share it.
func (ip *Interpreter) execFor(n *ForStatement) (ctrl, error) {
	saved := ip.env
	ip.env = NewEnv(saved)
	defer func() { ip.env = saved }()

	if n.Init != nil {
		if c, err := ip.execStmt(n.Init); err != nil || c.returned {
			return c, err
		}
	}
	for {
		if n.Cond != nil {
			cond, err := ip.evalBool(n.Cond, "'for' condition")
			if err != nil {
				return ctrlNormal, err
			}
			if !cond {
				return ctrlNormal, nil
			}
		}
		c, err := ip.execStmts(n.Body)
		if err != nil || c.returned {
			return c, err
		}
		if n.Post != nil {
			if _, err := ip.eval(n.Post); err != nil {
				return ctrlNormal, err
			}
		}
	}
}

// declValue computes the initial value of a declaration: the evaluated
// initializer, or the default for the declared type.
func (ip *Interpreter) declValue(n *VarDeclaration) (Value, error) {
	if n.Init != nil {
		return ip.eval(n.Init)
	}
	return defaultValue(n.Type), nil
}

// defaultValue implements the default table: 0, 0.0, false, "" for scalars;
// arrays get a size-length sequence of the element default (zero-length when
// the size was omitted).
func defaultValue(t TypeSpec) Value {
	if t.IsArray {
		size := t.Size
		if size < 0 {
			size = 0
		}
		elem := defaultValue(TypeSpec{Name: t.Name, Size: -1})
		xs := make([]Value, size)
		for i := range xs {
			xs[i] = elem
		}
		return ArrVal(xs)
	}
	switch t.Name {
	case "int":
		return IntVal(0)
	case "float":
		return FloatVal(0)
	case "bool":
		return BoolVal(false)
	case "string":
		return StrVal("")
	}
	return Value{}
}

// ─────────────────────────────── expressions ────────────────────────────────

func (ip *Interpreter) eval(e Expr) (Value, error) {
	switch n := e.(type) {
	case *Literal:
		switch n.Type {
		case "int":
			return IntVal(n.Value.(int64)), nil
		case "float":
			return FloatVal(n.Value.(float64)), nil
		case "bool":
			return BoolVal(n.Value.(bool)), nil
		case "string":
			return StrVal(n.Value.(string)), nil
		}
		return Value{}, fault("unknown literal type '%s'", n.Type)

	case *Variable:
		return ip.env.Get(n.Name)

	case *BinaryOp:
		return ip.evalBinary(n)

	case *UnaryOp:
		return ip.evalUnary(n)

	case *Assignment:
		return ip.evalAssignment(n)

	case *ArrayAccess:
		arr, idx, err := ip.arrayElem(n)
		if err != nil {
			return Value{}, err
		}
		return arr[idx], nil

	case *ArrayLiteral:
		xs := make([]Value, len(n.Elements))
		for i, el := range n.Elements {
			v, err := ip.eval(el)
			if err != nil {
				return Value{}, err
			}
			xs[i] = v
		}
		return ArrVal(xs), nil

	case *FunctionCall:
		return ip.evalCall(n)

	case *InputExpression:
		return ip.evalInput(n)
	}
	return Value{}, fault("unknown expression")
}

func (ip *Interpreter) evalBool(e Expr, what string) (bool, error) {
	v, err := ip.eval(e)
	if err != nil {
		return false, err
	}
	if v.Tag != VTBool {
		return false, fault("%s must be boolean, got %s", what, v.typeName())
	}
	return v.Data.(bool), nil
}

func (ip *Interpreter) evalBinary(n *BinaryOp) (Value, error) {
	// and/or short-circuit: the right operand is evaluated only if the left
	// does not already determine the result.
	if n.Op == "and" || n.Op == "or" {
		l, err := ip.evalBool(n.Left, fmt.Sprintf("operand of '%s'", n.Op))
		if err != nil {
			return Value{}, err
		}
		if n.Op == "and" && !l {
			return BoolVal(false), nil
		}
		if n.Op == "or" && l {
			return BoolVal(true), nil
		}
		r, err := ip.evalBool(n.Right, fmt.Sprintf("operand of '%s'", n.Op))
		if err != nil {
			return Value{}, err
		}
		return BoolVal(r), nil
	}

	l, err := ip.eval(n.Left)
	if err != nil {
		return Value{}, err
	}
	r, err := ip.eval(n.Right)
	if err != nil {
		return Value{}, err
	}

	switch n.Op {
	case "+":
		if l.Tag == VTStr && r.Tag == VTStr {
			return StrVal(l.Data.(string) + r.Data.(string)), nil
		}
		return ip.arith(n.Op, l, r)
	case "-", "*", "/", "%":
		return ip.arith(n.Op, l, r)
	case "<", "<=", ">", ">=":
		return ip.compare(n.Op, l, r)
	case "==":
		eq, err := valuesEqual(l, r)
		return BoolVal(eq), err
	case "!=":
		eq, err := valuesEqual(l, r)
		return BoolVal(!eq), err
	}
	return Value{}, fault("unknown binary operator '%s'", n.Op)
}

func bothInt(l, r Value) bool { return l.Tag == VTInt && r.Tag == VTInt }

func numericOperands(op string, l, r Value) (float64, float64, error) {
	lf, lok := asFloat(l)
	rf, rok := asFloat(r)
	if !lok || !rok {
		return 0, 0, fault("operator '%s' not supported for %s and %s", op, l.typeName(), r.typeName())
	}
	return lf, rf, nil
}

func asFloat(v Value) (float64, bool) {
	switch v.Tag {
	case VTInt:
		return float64(v.Data.(int64)), true
	case VTFloat:
		return v.Data.(float64), true
	}
	return 0, false
}

// floorDiv rounds toward negative infinity, matching the scripting target's
// integer division.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// floorMod is the remainder matching floorDiv: (a/b)*b + a%b == a, with the
// result taking the divisor's sign.
func floorMod(a, b int64) int64 {
	m := a % b
	if m != 0 && ((a < 0) != (b < 0)) {
		m += b
	}
	return m
}

func (ip *Interpreter) arith(op string, l, r Value) (Value, error) {
	if bothInt(l, r) {
		a, b := l.Data.(int64), r.Data.(int64)
		switch op {
		case "+":
			return IntVal(a + b), nil
		case "-":
			return IntVal(a - b), nil
		case "*":
			return IntVal(a * b), nil
		case "/":
			if b == 0 {
				return Value{}, fault("division by zero")
			}
			return IntVal(floorDiv(a, b)), nil
		case "%":
			if b == 0 {
				return Value{}, fault("modulo by zero")
			}
			return IntVal(floorMod(a, b)), nil
		}
	}

	lf, rf, err := numericOperands(op, l, r)
	if err != nil {
		return Value{}, err
	}
	switch op {
	case "+":
		return FloatVal(lf + rf), nil
	case "-":
		return FloatVal(lf - rf), nil
	case "*":
		return FloatVal(lf * rf), nil
	case "/":
		if rf == 0 {
			return Value{}, fault("division by zero")
		}
		return FloatVal(lf / rf), nil
	case "%":
		if rf == 0 {
			return Value{}, fault("modulo by zero")
		}
		m := math.Mod(lf, rf)
		if m != 0 && (m < 0) != (rf < 0) {
			m += rf
		}
		return FloatVal(m), nil
	}
	return Value{}, fault("unknown arithmetic operator '%s'", op)
}

func (ip *Interpreter) compare(op string, l, r Value) (Value, error) {
	lf, rf, err := numericOperands(op, l, r)
	if err != nil {
		return Value{}, fault("operator '%s' requires numeric operands, got %s and %s", op, l.typeName(), r.typeName())
	}
	switch op {
	case "<":
		return BoolVal(lf < rf), nil
	case "<=":
		return BoolVal(lf <= rf), nil
	case ">":
		return BoolVal(lf > rf), nil
	case ">=":
		return BoolVal(lf >= rf), nil
	}
	return Value{}, fault("unknown comparison operator '%s'", op)
}

// valuesEqual implements `==`: numeric cross-kind comparison, same-kind
// structural comparison otherwise. Arrays compare element-wise.
func valuesEqual(l, r Value) (bool, error) {
	if lf, ok := asFloat(l); ok {
		if rf, ok := asFloat(r); ok {
			return lf == rf, nil
		}
	}
	if l.Tag != r.Tag {
		return false, nil
	}
	switch l.Tag {
	case VTBool:
		return l.Data.(bool) == r.Data.(bool), nil
	case VTStr:
		return l.Data.(string) == r.Data.(string), nil
	case VTArray:
		ls, rs := l.Data.([]Value), r.Data.([]Value)
		if len(ls) != len(rs) {
			return false, nil
		}
		for i := range ls {
			eq, err := valuesEqual(ls[i], rs[i])
			if err != nil || !eq {
				return eq, err
			}
		}
		return true, nil
	case VTFun:
		return l.Data == r.Data, nil
	case VTVoid:
		return true, nil
	}
	return false, nil
}

func (ip *Interpreter) evalUnary(n *UnaryOp) (Value, error) {
	v, err := ip.eval(n.Operand)
	if err != nil {
		return Value{}, err
	}
	switch n.Op {
	case "not":
		if v.Tag != VTBool {
			return Value{}, fault("operator 'not' requires a boolean operand, got %s", v.typeName())
		}
		return BoolVal(!v.Data.(bool)), nil
	case "-":
		switch v.Tag {
		case VTInt:
			return IntVal(-v.Data.(int64)), nil
		case VTFloat:
			return FloatVal(-v.Data.(float64)), nil
		}
		return Value{}, fault("operator '-' requires a numeric operand, got %s", v.typeName())
	}
	return Value{}, fault("unknown unary operator '%s'", n.Op)
}

func (ip *Interpreter) evalAssignment(n *Assignment) (Value, error) {
	v, err := ip.eval(n.Value)
	if err != nil {
		return Value{}, err
	}

	switch target := n.Target.(type) {
	case *Variable:
		if err := ip.env.Set(target.Name, v); err != nil {
			return Value{}, err
		}
		return v, nil

	case *ArrayAccess:
		arr, idx, err := ip.arrayElem(target)
		if err != nil {
			return Value{}, err
		}
		arr[idx] = v
		return v, nil
	}

	return Value{}, fault("invalid assignment target")
}

// arrayElem resolves an array access to its backing slice and a checked
// index. The base must be a plain named variable currently bound to an array.
func (ip *Interpreter) arrayElem(n *ArrayAccess) ([]Value, int64, error) {
	base, ok := n.Array.(*Variable)
	if !ok {
		return nil, 0, fault("array access requires a named array variable")
	}
	av, err := ip.env.Get(base.Name)
	if err != nil {
		return nil, 0, err
	}
	if av.Tag != VTArray {
		return nil, 0, fault("'%s' is not an array", base.Name)
	}
	iv, err := ip.eval(n.Index)
	if err != nil {
		return nil, 0, err
	}
	if iv.Tag != VTInt {
		return nil, 0, fault("array index must be an integer, got %s", iv.typeName())
	}
	arr := av.Data.([]Value)
	idx := iv.Data.(int64)
	if idx < 0 || idx >= int64(len(arr)) {
		return nil, 0, fault("index %d out of range (array length %d)", idx, len(arr))
	}
	return arr, idx, nil
}

// evalCall resolves the callee, evaluates arguments left-to-right in the
// caller's environment, then pushes the callee frame as a child of the
// *current* environment and intercepts `return` at this boundary.
func (ip *Interpreter) evalCall(n *FunctionCall) (Value, error) {
	fv, err := ip.env.Get(n.Name)
	if err != nil {
		return Value{}, err
	}
	if fv.Tag != VTFun {
		return Value{}, fault("'%s' is not a function", n.Name)
	}
	fn := fv.Data.(*FunctionDeclaration)

	if len(n.Args) != len(fn.Params) {
		return Value{}, fault("function '%s' expects %d arguments, got %d", n.Name, len(fn.Params), len(n.Args))
	}

	args := make([]Value, len(n.Args))
	for i, arg := range n.Args {
		v, err := ip.eval(arg)
		if err != nil {
			return Value{}, err
		}
		args[i] = v
	}

	saved := ip.env
	ip.env = NewEnv(saved)
	for i, p := range fn.Params {
		ip.env.Define(p.Name, args[i])
	}
	c, err := ip.execStmts(fn.Body)
	ip.env = saved
	if err != nil {
		return Value{}, err
	}
	if c.returned && c.hasValue {
		return c.value, nil
	}
	return Value{}, nil // absent value
}

func (ip *Interpreter) evalInput(n *InputExpression) (Value, error) {
	prompt := ""
	if n.Prompt != nil {
		pv, err := ip.eval(n.Prompt)
		if err != nil {
			return Value{}, err
		}
		prompt = pv.String()
	}
	if ip.Input == nil {
		return Value{}, fault("input is not available")
	}
	line, err := ip.Input(prompt)
	if err != nil {
		return Value{}, fault("input failed: %v", err)
	}
	return StrVal(line), nil
}
