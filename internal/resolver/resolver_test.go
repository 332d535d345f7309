package resolver

import (
	"testing"

	"github.com/tangzhangming/lox/internal/ast"
	"github.com/tangzhangming/lox/internal/parser"
)

func resolve(t *testing.T, input string) (*ast.Program, *Resolution, []Error) {
	t.Helper()
	prog, lexErrs, parseErrs := parser.ParseSource(input, "test.lox")
	if len(lexErrs) > 0 || len(parseErrs) > 0 {
		t.Fatalf("unexpected static errors: %v %v", lexErrs, parseErrs)
	}
	res, errs := New().Resolve(prog)
	return prog, res, errs
}

// variables 按出现顺序收集所有变量引用
func variables(prog *ast.Program) []*ast.Variable {
	var out []*ast.Variable
	ast.Walk(prog, func(n ast.Node) bool {
		if v, ok := n.(*ast.Variable); ok {
			out = append(out, v)
		}
		return true
	})
	return out
}

func TestResolveDepths(t *testing.T) {
	input := `
var g = 1;
{
  var a = 1;
  {
    var b = 2;
    print a;
    print b;
    print g;
  }
}`
	prog, res, errs := resolve(t, input)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	vars := variables(prog)
	if len(vars) != 3 {
		t.Fatalf("expected 3 references, got %d", len(vars))
	}

	tests := []struct {
		name  string
		depth int
		local bool
	}{
		{"a", 1, true},
		{"b", 0, true},
		{"g", 0, false},
	}
	for i, tt := range tests {
		if vars[i].Name.Literal != tt.name {
			t.Fatalf("reference %d: got %s, want %s", i, vars[i].Name.Literal, tt.name)
		}
		depth, ok := res.Depth(vars[i])
		if ok != tt.local || depth != tt.depth {
			t.Errorf("%s: got (%d, %v), want (%d, %v)", tt.name, depth, ok, tt.depth, tt.local)
		}
	}
}

func TestResolveSameNameDifferentDepths(t *testing.T) {
	input := `
fun outer() {
  var x = 1;
  fun inner() {
    print x;
  }
  print x;
  return inner;
}`
	prog, res, errs := resolve(t, input)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	var xs []*ast.Variable
	for _, v := range variables(prog) {
		if v.Name.Literal == "x" {
			xs = append(xs, v)
		}
	}
	if len(xs) != 2 {
		t.Fatalf("expected 2 references to x, got %d", len(xs))
	}
	if d, _ := res.Depth(xs[0]); d != 1 {
		t.Errorf("x inside inner: got depth %d, want 1", d)
	}
	if d, _ := res.Depth(xs[1]); d != 0 {
		t.Errorf("x inside outer: got depth %d, want 0", d)
	}
}

func TestResolveThisAndSuper(t *testing.T) {
	input := `
class A { m() { return 1; } }
class B < A {
  m() { return super.m() + this.n; }
}`
	prog, res, errs := resolve(t, input)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	var this *ast.This
	var super *ast.Super
	ast.Walk(prog, func(n ast.Node) bool {
		switch e := n.(type) {
		case *ast.This:
			this = e
		case *ast.Super:
			super = e
		}
		return true
	})

	// 方法体作用域 → this 作用域 → super 作用域
	if d, ok := res.Depth(this); !ok || d != 1 {
		t.Errorf("this: got (%d, %v), want (1, true)", d, ok)
	}
	if d, ok := res.Depth(super); !ok || d != 2 {
		t.Errorf("super: got (%d, %v), want (2, true)", d, ok)
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`var a = a;`, `[line 1] Error at 'a': Can't read local variable in its own initializer.`},
		{`{ var a = a; }`, `[line 1] Error at 'a': Can't read local variable in its own initializer.`},
		{`{ var a = 1; var a = 2; }`, `[line 1] Error at 'a': Already a variable with this name in this scope.`},
		{`fun f(a, a) {}`, `[line 1] Error at 'a': Already a variable with this name in this scope.`},
		{`return 1;`, `[line 1] Error at 'return': Can't return from top-level code.`},
		{`class A { init() { return 1; } }`, `[line 1] Error at 'return': Can't return a value from an initializer.`},
		{`print this;`, `[line 1] Error at 'this': Can't use 'this' outside of a class.`},
		{`fun f() { this.x = 1; }`, `[line 1] Error at 'this': Can't use 'this' outside of a class.`},
		{`print super.m;`, `[line 1] Error at 'super': Can't use 'super' outside of a class.`},
		{`class A { m() { super.m(); } }`, `[line 1] Error at 'super': Can't use 'super' in a class with no superclass.`},
		{`class A < A {}`, `[line 1] Error at 'A': A class can't inherit from itself.`},
	}

	for _, tt := range tests {
		_, _, errs := resolve(t, tt.input)
		if len(errs) != 1 {
			t.Errorf("input %q: expected 1 error, got %d: %v", tt.input, len(errs), errs)
			continue
		}
		if got := errs[0].Error(); got != tt.expected {
			t.Errorf("input %q: got %s, want %s", tt.input, got, tt.expected)
		}
	}
}

func TestResolveAllowed(t *testing.T) {
	tests := []string{
		`var a = 1; var a = 2;`,
		`var a = 1; { var b = a; print b; }`,
		`fun f() { return f; }`,
		`var f = fun () { return f; };`,
		`class A { init() { return; } }`,
		`class A { m() { return fun () { return this; }; } }`,
		`fun f() { class A {} return A; }`,
	}

	for _, input := range tests {
		_, _, errs := resolve(t, input)
		if len(errs) != 0 {
			t.Errorf("input %q: unexpected errors %v", input, errs)
		}
	}
}

func TestResolveShadowingInInitializer(t *testing.T) {
	// 内层的 a 在初始化器中引用外层 a 是错误
	_, _, errs := resolve(t, `var a = 1; { var a = a + 1; }`)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
}

func TestResolveReportsAllErrors(t *testing.T) {
	_, _, errs := resolve(t, "return;\nprint this;\n{ var x = x; }")
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", len(errs), errs)
	}
	for i, err := range errs {
		if err.Pos.Line != i+1 {
			t.Errorf("error %d: got line %d, want %d", i, err.Pos.Line, i+1)
		}
	}
}

func TestResolveUnusedLocalWarnings(t *testing.T) {
	input := `
{
  var used = 1;
  var unused = 2;
  print used;
}
fun f(param) {
  var alsoUnused;
}
var globalsAreFine = 1;`
	_, res, errs := resolve(t, input)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	warnings := res.Warnings()
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %d: %v", len(warnings), warnings)
	}
	if warnings[0].Lexeme != "unused" || warnings[1].Lexeme != "alsoUnused" {
		t.Errorf("got %s and %s", warnings[0].Lexeme, warnings[1].Lexeme)
	}
	if warnings[0].Pos.Line != 4 {
		t.Errorf("warning line: got %d, want 4", warnings[0].Pos.Line)
	}
}

func TestResolutionMerge(t *testing.T) {
	prog1, res1, _ := resolve(t, `{ var a = 1; print a; }`)
	_, res2, _ := resolve(t, `{ var b = 1; print b; }`)

	merged := NewResolution()
	merged.Merge(res1)
	merged.Merge(res2)
	merged.Merge(nil)

	if merged.Len() != 2 {
		t.Errorf("got %d entries, want 2", merged.Len())
	}
	if _, ok := merged.Depth(variables(prog1)[0]); !ok {
		t.Error("merged resolution lost an entry")
	}
}
