// interpreter_test.go
package minilang

import (
	"reflect"
	"testing"
)

func run(t *testing.T, src string) []string {
	t.Helper()
	output, err := runWithInput(t, src, nil)
	if err != nil {
		t.Fatalf("runtime fault for %q: %v", src, err)
	}
	return output
}

func runWithInput(t *testing.T, src string, stdin []string) ([]string, error) {
	t.Helper()
	prog, err := ParseSource(src)
	if err != nil {
		t.Fatalf("parse error for %q: %v", src, err)
	}
	ip := NewInterpreter()
	if stdin != nil {
		lines := stdin
		ip.Input = func(prompt string) (string, error) {
			if len(lines) == 0 {
				t.Fatalf("program asked for more input than provided")
			}
			line := lines[0]
			lines = lines[1:]
			return line, nil
		}
	}
	return ip.Interpret(prog)
}

func wantOutput(t *testing.T, src string, want []string) {
	t.Helper()
	got := run(t, src)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("\nsource:\n%s\nwant output:\n%v\ngot:\n%v\n", src, want, got)
	}
}

func wantFault(t *testing.T, src string, wantMsg string, wantBefore []string) {
	t.Helper()
	output, err := runWithInput(t, src, nil)
	if err == nil {
		t.Fatalf("expected a fault for %q, got output %v", src, output)
	}
	rf, ok := err.(*RuntimeFault)
	if !ok {
		t.Fatalf("expected *RuntimeFault, got %T: %v", err, err)
	}
	if rf.Msg != wantMsg {
		t.Fatalf("fault message: got %q, want %q", rf.Msg, wantMsg)
	}
	if !reflect.DeepEqual(output, wantBefore) {
		t.Fatalf("output before fault: got %v, want %v", output, wantBefore)
	}
}

func Test_Interp_Print_Variable(t *testing.T) {
	wantOutput(t, "int x = 5; print(x);", []string{"5"})
}

func Test_Interp_FunctionCall_ReturnsValue(t *testing.T) {
	wantOutput(t, `
function add(int a, int b) : int { return a + b; }
print(add(2, 3));
`, []string{"5"})
}

func Test_Interp_While_Counts(t *testing.T) {
	wantOutput(t, `
int i = 1;
while (i <= 3) {
  print(i);
  i = i + 1;
}
`, []string{"1", "2", "3"})
}

func Test_Interp_For_Loop(t *testing.T) {
	wantOutput(t, "for (int i = 0; i < 3; i = i + 1) print(i);", []string{"0", "1", "2"})
}

func Test_Interp_Recursion_Fibonacci(t *testing.T) {
	wantOutput(t, `
function fib(int n) : int {
  if (n < 2) return n;
  return fib(n - 1) + fib(n - 2);
}
print(fib(10));
`, []string{"55"})
}

func Test_Interp_IntDivision_FloorsTowardNegativeInfinity(t *testing.T) {
	wantOutput(t, "print(10 / 4);", []string{"2"})
	wantOutput(t, "print(-7 / 2);", []string{"-4"})
	wantOutput(t, "print(7 / -2);", []string{"-4"})
}

func Test_Interp_FloatDivision_IsTrueDivision(t *testing.T) {
	wantOutput(t, "print(10.0 / 4);", []string{"2.5"})
	wantOutput(t, "print(1 / 2.0);", []string{"0.5"})
}

func Test_Interp_Modulo_MatchesFlooredDivision(t *testing.T) {
	// (a/b)*b + a%b == a
	wantOutput(t, "print(-7 % 2);", []string{"1"})
	wantOutput(t, "print(7 % -2);", []string{"-1"})
	wantOutput(t, "print(7 % 2);", []string{"1"})
}

func Test_Interp_DivisionByZero_PreservesPriorOutput(t *testing.T) {
	wantFault(t, "print(1); print(1 / 0);", "division by zero", []string{"1"})
	wantFault(t, "print(1 % 0);", "modulo by zero", nil)
}

func Test_Interp_IndexOutOfRange_NoOutput(t *testing.T) {
	wantFault(t, "array<int>[3] a; a[5] = 1; print(a[0]);",
		"index 5 out of range (array length 3)", nil)
}

func Test_Interp_NegativeIndex_Faults(t *testing.T) {
	wantFault(t, "array<int>[3] a; print(a[-1]);",
		"index -1 out of range (array length 3)", nil)
}

func Test_Interp_Array_ElementAssignment(t *testing.T) {
	wantOutput(t, `
array<int>[3] a;
a[0] = 10;
a[2] = 30;
print(a);
`, []string{"[10, 0, 30]"})
}

func Test_Interp_Defaults(t *testing.T) {
	wantOutput(t, `
int i; float f; bool b; string s;
print(i); print(f); print(b); print(s);
`, []string{"0", "0.0", "false", ""})
	wantOutput(t, "array<string>[2] a; print(a);", []string{`["", ""]`})
	wantOutput(t, "array<int> a; print(a);", []string{"[]"})
}

func Test_Interp_ShortCircuit_SkipsRightOperand(t *testing.T) {
	calls := 0
	prog, err := ParseSource(`
bool x = false and input() == "y";
bool y = true or input() == "y";
print(x); print(y);
`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ip := NewInterpreter()
	ip.Input = func(prompt string) (string, error) {
		calls++
		return "y", nil
	}
	output, rerr := ip.Interpret(prog)
	if rerr != nil {
		t.Fatalf("fault: %v", rerr)
	}
	if calls != 0 {
		t.Fatalf("right operand evaluated %d times, want 0", calls)
	}
	if !reflect.DeepEqual(output, []string{"false", "true"}) {
		t.Fatalf("output: %v", output)
	}
}

func Test_Interp_CallTimeScoping_ResolvesAgainstCaller(t *testing.T) {
	wantOutput(t, `
function show() { print(n); }
function caller() {
  int n = 42;
  show();
}
caller();
`, []string{"42"})
}

func Test_Interp_StringConcat(t *testing.T) {
	wantOutput(t, `string a = "foo"; print(a + "bar");`, []string{"foobar"})
}

func Test_Interp_FloatRendering_KeepsDecimalPoint(t *testing.T) {
	wantOutput(t, "print(2.0);", []string{"2.0"})
	wantOutput(t, "print(1.0 + 1.5);", []string{"2.5"})
	wantOutput(t, "print(1 + 0.5);", []string{"1.5"})
}

func Test_Interp_Comparisons_MixNumericKinds(t *testing.T) {
	wantOutput(t, "print(1 == 1.0);", []string{"true"})
	wantOutput(t, "print(2 < 2.5);", []string{"true"})
	wantOutput(t, "print(1 != 1);", []string{"false"})
}

func Test_Interp_ArrayEquality_Elementwise(t *testing.T) {
	wantOutput(t, `
array<int>[2] a = [1, 2];
array<int>[2] b = [1, 2];
array<int>[2] c = [1, 3];
print(a == b);
print(a == c);
`, []string{"true", "false"})
}

func Test_Interp_TopLevelReturn_HaltsNormally(t *testing.T) {
	wantOutput(t, "print(1); return; print(2);", []string{"1"})
}

func Test_Interp_VoidCall_ProducesNoValue(t *testing.T) {
	wantOutput(t, `
function greet() { print("hi"); }
greet();
`, []string{"hi"})
}

func Test_Interp_FunctionBody_FallsThrough_WithoutReturn(t *testing.T) {
	wantOutput(t, `
function f() : int {
  if (false) return 1;
}
f();
print("done");
`, []string{"done"})
}

func Test_Interp_Input_ReturnsLine_And_SeesPrompt(t *testing.T) {
	prog, err := ParseSource(`print(input("name? "));`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ip := NewInterpreter()
	var gotPrompt string
	ip.Input = func(prompt string) (string, error) {
		gotPrompt = prompt
		return "ada", nil
	}
	output, rerr := ip.Interpret(prog)
	if rerr != nil {
		t.Fatalf("fault: %v", rerr)
	}
	if gotPrompt != "name? " {
		t.Fatalf("prompt: got %q", gotPrompt)
	}
	if !reflect.DeepEqual(output, []string{"ada"}) {
		t.Fatalf("output: %v", output)
	}
}

func Test_Interp_Input_WithoutSource_Faults(t *testing.T) {
	wantFault(t, "print(input());", "input is not available", nil)
}

func Test_Interp_Arity_Fault(t *testing.T) {
	wantFault(t, `
function add(int a, int b) : int { return a + b; }
print(add(1));
`, "function 'add' expects 2 arguments, got 1", nil)
}

func Test_Interp_UndefinedVariable_Faults(t *testing.T) {
	wantFault(t, "print(y);", "undefined variable 'y'", nil)
}

func Test_Interp_NestedScopes_AssignmentReachesOuter(t *testing.T) {
	wantOutput(t, `
int x = 1;
if (true) x = 2;
print(x);
`, []string{"2"})
}

func Test_Interp_WhileBody_ScopePerIteration(t *testing.T) {
	wantOutput(t, `
int i = 0;
while (i < 2) {
  int local = i;
  print(local);
  i = i + 1;
}
`, []string{"0", "1"})
}

func Test_Interp_Global_Persists_AcrossInterpretCalls(t *testing.T) {
	ip := NewInterpreter()
	first, err := ParseSource("int x = 41;")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := ip.Interpret(first); err != nil {
		t.Fatalf("fault: %v", err)
	}
	second, err := ParseSource("print(x + 1);")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	output, rerr := ip.Interpret(second)
	if rerr != nil {
		t.Fatalf("fault: %v", rerr)
	}
	if !reflect.DeepEqual(output, []string{"42"}) {
		t.Fatalf("output: %v", output)
	}
}
