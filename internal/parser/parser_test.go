package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/tangzhangming/lox/internal/ast"
)

func parse(t *testing.T, input string) *ast.Program {
	t.Helper()
	prog, lexErrs, errs := ParseSource(input, "test.lox")
	for _, err := range lexErrs {
		t.Errorf("lexer error: %v", err)
	}
	for _, err := range errs {
		t.Errorf("parser error: %v", err)
	}
	return prog
}

func TestParseExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`print 1 + 2 * 3;`, `(print (+ 1 (* 2 3)))`},
		{`print (1 + 2) * 3;`, `(print (* (group (+ 1 2)) 3))`},
		{`print 1 - 2 - 3;`, `(print (- (- 1 2) 3))`},
		{`print -1 - -2;`, `(print (- (- 1) (- 2)))`},
		{`print !!true;`, `(print (! (! true)))`},
		{`print 1 < 2 == 3 >= 4;`, `(print (== (< 1 2) (>= 3 4)))`},
		{`print a or b and c;`, `(print (or a (and b c)))`},
		{`print "hi" + nil;`, `(print (+ "hi" nil))`},
		{`print 2.5 / 0.5;`, `(print (/ 2.5 0.5))`},
		{`a = b = 1;`, `(; (= a (= b 1)))`},
		{`a.b(1, 2).c = 3;`, `(; (= (call (. a b) 1 2).c 3))`},
		{`f()()(x);`, `(; (call (call (call f)) x))`},
		{`super.m;`, `(; (super m))`},
		{`this.x;`, `(; (. this x))`},
	}

	for _, tt := range tests {
		prog := parse(t, tt.input)
		if len(prog.Statements) != 1 {
			t.Errorf("input %q: expected 1 statement, got %d", tt.input, len(prog.Statements))
			continue
		}
		if got := prog.Statements[0].String(); got != tt.expected {
			t.Errorf("input %q: got %s, want %s", tt.input, got, tt.expected)
		}
	}
}

func TestParseStatements(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"var", `var x;`, `(var x)`},
		{"var init", `var x = 1;`, `(var x = 1)`},
		{"block", `{ var a = 1; print a; }`, `(block (var a = 1) (print a))`},
		{"if", `if (x) print 1;`, `(if x (print 1))`},
		{"if else", `if (x) print 1; else print 2;`, `(if-else x (print 1) (print 2))`},
		{"dangling else", `if (a) if (b) print 1; else print 2;`, `(if a (if-else b (print 1) (print 2)))`},
		{"while", `while (x) x = x - 1;`, `(while x (; (= x (- x 1))))`},
		{"function", `fun add(a, b) { return a + b; }`, `(fun add (a b) (return (+ a b)))`},
		{"bare return", `fun f() { return; }`, `(fun f () (return))`},
		{"class", `class B < A { init(x) { this.x = x; } get() { return this.x; } }`,
			`(class B < A (fun init (x) (; (= this.x x))) (fun get () (return (. this x))))`},
		{"lambda", `var f = fun (a) { return a; };`, `(var f = (fun (a) (return a)))`},
		{"lambda call", `fun (x) { print x; }(1);`, `(; (call (fun (x) (print x)) 1))`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := parse(t, tt.input)
			if len(prog.Statements) != 1 {
				t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
			}
			if got := prog.Statements[0].String(); got != tt.expected {
				t.Errorf("got %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestParseForDesugaring(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{
			`for (var i = 0; i < 3; i = i + 1) print i;`,
			`(block (var i = 0) (while (< i 3) (block (print i) (; (= i (+ i 1))))))`,
		},
		{`for (;;) print 1;`, `(while true (print 1))`},
		{`for (i = 0; i < 1;) print i;`, `(block (; (= i 0)) (while (< i 1) (print i)))`},
	}

	for _, tt := range tests {
		prog := parse(t, tt.input)
		if len(prog.Statements) != 1 {
			t.Errorf("input %q: expected 1 statement, got %d", tt.input, len(prog.Statements))
			continue
		}
		if got := prog.Statements[0].String(); got != tt.expected {
			t.Errorf("input %q: got %s, want %s", tt.input, got, tt.expected)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`print ;`, `[line 1] Error at ';': Expect expression.`},
		{`print 1`, `[line 1] Error at end: Expect ';' after value.`},
		{`1 = 2;`, `[line 1] Error at '=': Invalid assignment target.`},
		{`a + b = c;`, `[line 1] Error at '=': Invalid assignment target.`},
		{`var 1 = 2;`, `[line 1] Error at '1': Expect variable name.`},
		{`class { }`, `[line 1] Error at '{': Expect class name.`},
		{`class A < { }`, `[line 1] Error at '{': Expect superclass name.`},
		{`fun f( { }`, `[line 1] Error at '{': Expect parameter name.`},
		{`fun 1() {}`, `[line 1] Error at '1': Expect function name.`},
		{`if x) print 1;`, `[line 1] Error at 'x': Expect '(' after 'if'.`},
		{`while (x print 1;`, `[line 1] Error at 'print': Expect ')' after condition.`},
		{`super;`, `[line 1] Error at ';': Expect '.' after 'super'.`},
		{`a.;`, `[line 1] Error at ';': Expect property name after '.'.`},
		{"{\n  print 1;\n", `[line 3] Error at end: Expect '}' after block.`},
	}

	for _, tt := range tests {
		_, _, errs := ParseSource(tt.input, "test.lox")
		if len(errs) != 1 {
			t.Errorf("input %q: expected 1 error, got %d: %v", tt.input, len(errs), errs)
			continue
		}
		if got := errs[0].Error(); got != tt.expected {
			t.Errorf("input %q: got %s, want %s", tt.input, got, tt.expected)
		}
	}
}

func TestParseErrorRecovery(t *testing.T) {
	input := `print ;
var x = ;
print 1;`

	prog, _, errs := ParseSource(input, "test.lox")
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(errs), errs)
	}
	if errs[0].Pos.Line != 1 || errs[1].Pos.Line != 2 {
		t.Errorf("error lines: got %d and %d, want 1 and 2", errs[0].Pos.Line, errs[1].Pos.Line)
	}
	if len(prog.Statements) != 1 || prog.Statements[0].String() != "(print 1)" {
		t.Errorf("parsing should resume after errors, got %s", prog)
	}
}

func TestParseErrorRecoveryInsideBlock(t *testing.T) {
	prog, _, errs := ParseSource(`{ print ; print 2; } print 3;`, "test.lox")
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
	want := "(block (print 2))\n(print 3)"
	if got := prog.String(); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestParseRecoveryKeepsFollowingStatement(t *testing.T) {
	tests := []struct {
		input  string
		errors []int // 各错误所在行
		want   string
	}{
		{"print 1 +;\nprint ;\nprint 3;", []int{1, 2}, "(print 3)"},
		{"x = ;\nvar y = 2;", []int{1}, "(var y = 2)"},
		{"fun f() { return -; print 2; }", []int{1}, "(fun f () (print 2))"},
		{"{ a.; print 2; }\nprint 3;", []int{1}, "(block (print 2))\n(print 3)"},
	}

	for _, tt := range tests {
		prog, _, errs := ParseSource(tt.input, "test.lox")
		if len(errs) != len(tt.errors) {
			t.Errorf("input %q: expected %d errors, got %d: %v", tt.input, len(tt.errors), len(errs), errs)
			continue
		}
		for i, line := range tt.errors {
			if errs[i].Pos.Line != line {
				t.Errorf("input %q: error %d line got %d, want %d", tt.input, i, errs[i].Pos.Line, line)
			}
		}
		if got := prog.String(); got != tt.want {
			t.Errorf("input %q: got %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestParseInvalidAssignmentKeepsParsing(t *testing.T) {
	prog, _, errs := ParseSource(`1 = 2; print 3;`, "test.lox")
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
	if len(prog.Statements) != 2 {
		t.Errorf("expected 2 statements, got %d", len(prog.Statements))
	}
}

func TestParseTooManyArguments(t *testing.T) {
	args := make([]string, 256)
	for i := range args {
		args[i] = "0"
	}
	_, _, errs := ParseSource("f("+strings.Join(args, ", ")+");", "test.lox")
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
	if errs[0].Message != "Can't have more than 255 arguments." {
		t.Errorf("got %q", errs[0].Message)
	}

	_, _, errs = ParseSource("f("+strings.Join(args[:255], ", ")+");", "test.lox")
	if len(errs) != 0 {
		t.Errorf("255 arguments should be accepted, got %v", errs)
	}
}

func TestParseTooManyParameters(t *testing.T) {
	params := make([]string, 256)
	for i := range params {
		params[i] = fmt.Sprintf("p%d", i)
	}
	_, _, errs := ParseSource("fun f("+strings.Join(params, ", ")+") {}", "test.lox")
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
	if errs[0].Message != "Can't have more than 255 parameters." {
		t.Errorf("got %q", errs[0].Message)
	}
}

func TestParseNestingTooDeep(t *testing.T) {
	input := "print " + strings.Repeat("(", 500) + "1" + strings.Repeat(")", 500) + ";"
	_, _, errs := ParseSource(input, "test.lox")
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
	if errs[0].Message != "Expression nesting too deep." {
		t.Errorf("got %q", errs[0].Message)
	}
}

func TestParseDeepBlocksAreNotExpressionDepth(t *testing.T) {
	blocks := strings.Repeat("{", 300) + "print f(f(f(1)));" + strings.Repeat("}", 300)

	lambdas := "1"
	for i := 0; i < 150; i++ {
		lambdas = "f(fun () { return " + lambdas + "; })"
	}

	for _, input := range []string{blocks, "print " + lambdas + ";"} {
		_, _, errs := ParseSource(input, "test.lox")
		if len(errs) != 0 {
			t.Errorf("expected no errors, got %v", errs[0])
		}
	}
}

func TestParseBlockTooDeep(t *testing.T) {
	input := strings.Repeat("{", maxBlockDepth+1) + strings.Repeat("}", maxBlockDepth+1)
	_, _, errs := ParseSource(input, "test.lox")
	if len(errs) == 0 {
		t.Fatal("expected an error")
	}
	if errs[0].Message != "Block nesting too deep." {
		t.Errorf("got %q", errs[0].Message)
	}
}

func TestParseErrorLimit(t *testing.T) {
	input := strings.Repeat("print ;\n", 80)
	_, _, errs := ParseSource(input, "test.lox")
	if len(errs) != maxParseErrors+1 {
		t.Fatalf("expected %d errors, got %d", maxParseErrors+1, len(errs))
	}
	if last := errs[len(errs)-1]; last.Message != "Too many errors, aborting." {
		t.Errorf("last error: got %q", last.Message)
	}
}

func TestParseNodePositions(t *testing.T) {
	prog := parse(t, "var a =\n  1 +\n  2;")
	stmt := prog.Statements[0].(*ast.VarStmt)
	bin, ok := stmt.Initializer.(*ast.Binary)
	if !ok {
		t.Fatalf("expected Binary, got %T", stmt.Initializer)
	}
	if bin.Pos().Line != 2 {
		t.Errorf("binary operator line: got %d, want 2", bin.Pos().Line)
	}
	if stmt.Pos().Line != 1 {
		t.Errorf("var line: got %d, want 1", stmt.Pos().Line)
	}
}

func TestParseDistinctNodeIdentity(t *testing.T) {
	prog := parse(t, "print a; print a;")
	first := prog.Statements[0].(*ast.PrintStmt).Expr
	second := prog.Statements[1].(*ast.PrintStmt).Expr
	if first == second {
		t.Error("each occurrence must produce its own node")
	}
}
