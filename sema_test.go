// sema_test.go
package minilang

import (
	"reflect"
	"testing"
)

func analyzeSrc(t *testing.T, src string) *Analyzer {
	t.Helper()
	prog, err := ParseSource(src)
	if err != nil {
		t.Fatalf("parse error for %q: %v", src, err)
	}
	a := NewAnalyzer()
	a.Analyze(prog)
	return a
}

func wantClean(t *testing.T, src string) *Analyzer {
	t.Helper()
	a := analyzeSrc(t, src)
	if len(a.Errors) != 0 {
		t.Fatalf("unexpected diagnostics for %q: %v", src, a.Errors)
	}
	return a
}

func wantDiagnostics(t *testing.T, src string, want []string) {
	t.Helper()
	a := analyzeSrc(t, src)
	if !reflect.DeepEqual(a.Errors, want) {
		t.Fatalf("\nsource:\n%s\nwant diagnostics:\n%v\ngot:\n%v\n", src, want, a.Errors)
	}
}

func Test_Sema_Widening_IntToFloat_Allowed(t *testing.T) {
	wantClean(t, "float f = 1;")
	wantClean(t, "float f; f = 2;")
	wantClean(t, `
function scale(float x) : float { return x * 2.0; }
print(scale(3));
`)
}

func Test_Sema_Narrowing_FloatToInt_Rejected(t *testing.T) {
	wantDiagnostics(t, "int x = 1.5;", []string{
		"incompatible type in declaration of 'x': expected int, found float",
	})
}

func Test_Sema_UndeclaredVariable(t *testing.T) {
	wantDiagnostics(t, "print(y);", []string{"undeclared variable 'y'"})
}

func Test_Sema_DuplicateDeclaration_SameScope(t *testing.T) {
	wantDiagnostics(t, "int x; int x;", []string{"'x' already declared in this scope"})
}

func Test_Sema_Shadowing_InNestedScope_Allowed(t *testing.T) {
	wantClean(t, "int x; { int x; print(x); }")
}

func Test_Sema_Condition_MustBeBool(t *testing.T) {
	wantDiagnostics(t, "if (1) print(1);", []string{"'if' condition must be bool, found int"})
	wantDiagnostics(t, "while (2.0) print(1);", []string{"'while' condition must be bool, found float"})
}

func Test_Sema_Recursion_SeesOwnName(t *testing.T) {
	wantClean(t, `
function fact(int n) : int {
  if (n <= 1) return 1;
  return n * fact(n - 1);
}
print(fact(5));
`)
}

func Test_Sema_Call_ArityMismatch(t *testing.T) {
	wantDiagnostics(t, `
function add(int a, int b) : int { return a + b; }
print(add(1));
`, []string{"function 'add' expects 2 arguments, got 1"})
}

func Test_Sema_Call_ArgumentType_Widened_OneWay(t *testing.T) {
	wantClean(t, `
function f(float x) { print(x); }
f(1);
`)
	wantDiagnostics(t, `
function g(int x) { print(x); }
g(1.5);
`, []string{"argument 1 of 'g': expected int, found float"})
}

func Test_Sema_Return_OutsideFunction(t *testing.T) {
	wantDiagnostics(t, "return 1;", []string{"'return' outside of a function"})
}

func Test_Sema_VoidFunction_MustNotReturnValue(t *testing.T) {
	wantDiagnostics(t, "function f() { return 1; }", []string{
		"void function 'f' must not return a value",
	})
}

func Test_Sema_TypedFunction_BareReturn_Rejected(t *testing.T) {
	wantDiagnostics(t, "function f() : int { return; }", []string{
		"function 'f' must return int",
	})
}

func Test_Sema_ArrayIndex_MustBeInt(t *testing.T) {
	wantDiagnostics(t, `array<int>[3] a; print(a["x"]);`, []string{
		"array index must be int, found string",
	})
}

func Test_Sema_Indexing_NonArray_Rejected(t *testing.T) {
	wantDiagnostics(t, "int x; print(x[0]);", []string{"'x' is not an array"})
}

func Test_Sema_ArrayInitializer_ElementTypes_Checked(t *testing.T) {
	wantClean(t, "array<float>[2] a = [1, 2.5];")
	wantDiagnostics(t, `array<int>[2] a = [1, "x"];`, []string{
		"array element mismatch in 'a': expected int, found string",
	})
}

func Test_Sema_Errors_Accumulate_InOrder(t *testing.T) {
	wantDiagnostics(t, `
int x = 1.5;
print(y);
if (1) print(1);
`, []string{
		"incompatible type in declaration of 'x': expected int, found float",
		"undeclared variable 'y'",
		"'if' condition must be bool, found int",
	})
}

func Test_Sema_ErrorType_Suppresses_Cascades(t *testing.T) {
	// Only the undeclared name is reported; the enclosing operator stays quiet.
	wantDiagnostics(t, "print(y + 1);", []string{"undeclared variable 'y'"})
}

func Test_Sema_SymbolTable_Rendering(t *testing.T) {
	a := wantClean(t, `
int x;
function add(int a, int b) : int { return a + b; }
`)
	want := "scope (level 0):\n" +
		"  x: int\n" +
		"  add: function(int a, int b) -> int\n" +
		"  scope (level 1):\n" +
		"    a: int\n" +
		"    b: int\n"
	if got := a.Global.String(); got != want {
		t.Fatalf("symbol table rendering:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func Test_Sema_Analyze_Idempotent_PerProgram(t *testing.T) {
	src := "int x = 1.5;"
	first := analyzeSrc(t, src)
	second := analyzeSrc(t, src)
	if !reflect.DeepEqual(first.Errors, second.Errors) {
		t.Fatalf("diagnostics differ across runs: %v vs %v", first.Errors, second.Errors)
	}
}
