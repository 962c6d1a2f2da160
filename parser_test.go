// parser_test.go
package minilang

import (
	"reflect"
	"strings"
	"testing"
)

func parse(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := ParseSource(src)
	if err != nil {
		t.Fatalf("parse error for %q: %v", src, err)
	}
	return prog
}

func wantParseError(t *testing.T, src string) *ParseError {
	t.Helper()
	_, err := ParseSource(src)
	if err == nil {
		t.Fatalf("expected a parse error for %q, got none", src)
	}
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	return pe
}

func onlyStmt(t *testing.T, src string) Stmt {
	t.Helper()
	prog := parse(t, src)
	if len(prog.Statements) != 1 {
		t.Fatalf("want 1 statement, got %d", len(prog.Statements))
	}
	return prog.Statements[0]
}

func Test_Parser_Precedence_MulBindsTighterThanAdd(t *testing.T) {
	got := onlyStmt(t, "print(1 + 2 * 3);")
	want := &PrintStatement{Expr: &BinaryOp{
		Op:   "+",
		Left: &Literal{Value: int64(1), Type: "int"},
		Right: &BinaryOp{
			Op:    "*",
			Left:  &Literal{Value: int64(2), Type: "int"},
			Right: &Literal{Value: int64(3), Type: "int"},
		},
	}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tree mismatch:\ngot:  %#v\nwant: %#v", got, want)
	}
}

func Test_Parser_Additive_LeftAssociative(t *testing.T) {
	got := onlyStmt(t, "print(1 - 2 - 3);")
	want := &PrintStatement{Expr: &BinaryOp{
		Op: "-",
		Left: &BinaryOp{
			Op:    "-",
			Left:  &Literal{Value: int64(1), Type: "int"},
			Right: &Literal{Value: int64(2), Type: "int"},
		},
		Right: &Literal{Value: int64(3), Type: "int"},
	}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tree mismatch:\ngot:  %#v\nwant: %#v", got, want)
	}
}

func Test_Parser_Assignment_RightAssociative(t *testing.T) {
	got := onlyStmt(t, "a = b = 1;")
	want := &ExpressionStatement{Expr: &Assignment{
		Target: &Variable{Name: "a"},
		Value: &Assignment{
			Target: &Variable{Name: "b"},
			Value:  &Literal{Value: int64(1), Type: "int"},
		},
	}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tree mismatch:\ngot:  %#v\nwant: %#v", got, want)
	}
}

func Test_Parser_Declarations_TypeForms(t *testing.T) {
	cases := []struct {
		src  string
		want TypeSpec
	}{
		{"int x;", TypeSpec{Name: "int", Size: -1}},
		{"array<int>[3] a;", TypeSpec{Name: "int", IsArray: true, Size: 3}},
		{"int[3] b;", TypeSpec{Name: "int", IsArray: true, Size: 3}},
		{"float[] c;", TypeSpec{Name: "float", IsArray: true, Size: -1}},
		{"array<string> d;", TypeSpec{Name: "string", IsArray: true, Size: -1}},
	}
	for _, c := range cases {
		decl, ok := onlyStmt(t, c.src).(*VarDeclaration)
		if !ok {
			t.Fatalf("%q: not a VarDeclaration", c.src)
		}
		if decl.Type != c.want {
			t.Fatalf("%q: got %+v, want %+v", c.src, decl.Type, c.want)
		}
	}
}

func Test_Parser_Function_Signature_And_Body(t *testing.T) {
	got := onlyStmt(t, "function add(int a, int b) : int { return a + b; }")
	fn, ok := got.(*FunctionDeclaration)
	if !ok {
		t.Fatalf("not a FunctionDeclaration: %#v", got)
	}
	if fn.Name != "add" || len(fn.Params) != 2 {
		t.Fatalf("signature: %s with %d params", fn.Name, len(fn.Params))
	}
	if fn.ReturnType == nil || fn.ReturnType.Name != "int" {
		t.Fatalf("return type: %v", fn.ReturnType)
	}
	if len(fn.Body) != 1 {
		t.Fatalf("body length: %d", len(fn.Body))
	}
}

func Test_Parser_Function_WithoutReturnType_IsVoid(t *testing.T) {
	fn := onlyStmt(t, "function f() { }").(*FunctionDeclaration)
	if fn.ReturnType != nil {
		t.Fatalf("want nil return type, got %v", fn.ReturnType)
	}
	if fn.Body == nil || len(fn.Body) != 0 {
		t.Fatalf("want empty non-nil body, got %#v", fn.Body)
	}
}

func Test_Parser_If_SingleStatement_Body(t *testing.T) {
	got := onlyStmt(t, "if (x > 0) print(x); else print(0);")
	is, ok := got.(*IfStatement)
	if !ok {
		t.Fatalf("not an IfStatement: %#v", got)
	}
	if len(is.Then) != 1 || len(is.Else) != 1 {
		t.Fatalf("branch lengths: then=%d else=%d", len(is.Then), len(is.Else))
	}
}

func Test_Parser_For_AllSectionsOptional(t *testing.T) {
	fs := onlyStmt(t, "for (;;) { }").(*ForStatement)
	if fs.Init != nil || fs.Cond != nil || fs.Post != nil {
		t.Fatalf("want all sections nil, got %#v", fs)
	}
}

func Test_Parser_For_With_Declaration_Init(t *testing.T) {
	fs := onlyStmt(t, "for (int i = 0; i < 3; i = i + 1) print(i);").(*ForStatement)
	if _, ok := fs.Init.(*VarDeclaration); !ok {
		t.Fatalf("init is %#v, want VarDeclaration", fs.Init)
	}
	if fs.Cond == nil || fs.Post == nil || len(fs.Body) != 1 {
		t.Fatalf("loop sections: %#v", fs)
	}
}

func Test_Parser_Call_OnBareName_Only(t *testing.T) {
	pe := wantParseError(t, "a[0](1);")
	if !strings.Contains(pe.Msg, "callee must be a name") {
		t.Fatalf("unexpected message: %s", pe.Msg)
	}
}

func Test_Parser_Index_Chains_Allowed(t *testing.T) {
	got := onlyStmt(t, "x = a[0][1];")
	es := got.(*ExpressionStatement)
	asg := es.Expr.(*Assignment)
	outer, ok := asg.Value.(*ArrayAccess)
	if !ok {
		t.Fatalf("value is %#v, want ArrayAccess", asg.Value)
	}
	if _, ok := outer.Array.(*ArrayAccess); !ok {
		t.Fatalf("inner is %#v, want ArrayAccess", outer.Array)
	}
}

func Test_Parser_Input_With_And_Without_Prompt(t *testing.T) {
	withPrompt := onlyStmt(t, `x = input("name? ");`).(*ExpressionStatement)
	in := withPrompt.Expr.(*Assignment).Value.(*InputExpression)
	if in.Prompt == nil {
		t.Fatalf("prompt missing")
	}

	bare := onlyStmt(t, "x = input();").(*ExpressionStatement)
	in = bare.Expr.(*Assignment).Value.(*InputExpression)
	if in.Prompt != nil {
		t.Fatalf("prompt should be nil, got %#v", in.Prompt)
	}
}

func Test_Parser_ArrayLiteral(t *testing.T) {
	decl := onlyStmt(t, "array<int>[2] a = [1, 2];").(*VarDeclaration)
	lit, ok := decl.Init.(*ArrayLiteral)
	if !ok {
		t.Fatalf("init is %#v, want ArrayLiteral", decl.Init)
	}
	if len(lit.Elements) != 2 {
		t.Fatalf("element count: %d", len(lit.Elements))
	}
}

func Test_Parser_MissingSemicolon_Fails(t *testing.T) {
	pe := wantParseError(t, "print(1)")
	if pe.Msg != "expected ';', found EOF" {
		t.Fatalf("unexpected message: %s", pe.Msg)
	}
}

func Test_Parser_Error_Carries_TokenPosition(t *testing.T) {
	pe := wantParseError(t, "int = 5;")
	if pe.Line != 1 || pe.Col != 5 {
		t.Fatalf("position: got %d:%d, want 1:5", pe.Line, pe.Col)
	}
}
