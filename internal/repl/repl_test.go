package repl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tangzhangming/lox/internal/runtime"
)

// newTestREPL 程序输出与 REPL 自身的输出写到同一个 buffer
func newTestREPL() (*REPL, *strings.Builder, *strings.Builder) {
	var out, errOut strings.Builder
	rt := runtime.New(runtime.WithStdout(&out))
	return New(rt, DefaultConfig(), &out, &errOut, nil), &out, &errOut
}

func TestNeedsMoreInput(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"print 1;", false},
		{"fun f() {", true},
		{"fun f() {\n  return 1;\n}", false},
		{"print (1 +", true},
		{`print "abc`, true},
		{`print "a{b";`, false},
		{"print 1; // {", false},
		{"/* open", true},
		{"/* { */ print 1;", false},
		{"}", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := needsMoreInput(tt.input); got != tt.want {
			t.Errorf("needsMoreInput(%q) got %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestEvalKeepsGlobals(t *testing.T) {
	r, out, errOut := newTestREPL()

	r.Eval("var a = 1;")
	r.Eval("fun twice(x) {\n  return x * 2;\n}")
	r.Eval("print twice(a);")

	if got := out.String(); got != "2\n" {
		t.Errorf("output got %q, want %q", got, "2\n")
	}
	if errOut.Len() != 0 {
		t.Errorf("unexpected diagnostics: %q", errOut.String())
	}
}

func TestBareExpressionIsPrinted(t *testing.T) {
	r, out, errOut := newTestREPL()

	r.Eval("var a = 40;")
	r.Eval("a + 2")
	r.Eval("\"str\"")

	if got := out.String(); got != "42\nstr\n" {
		t.Errorf("output got %q, want %q", got, "42\nstr\n")
	}
	if errOut.Len() != 0 {
		t.Errorf("unexpected diagnostics: %q", errOut.String())
	}
}

func TestInvalidInputReportsOriginalError(t *testing.T) {
	r, out, errOut := newTestREPL()

	r.Eval("var x = 1")

	if out.Len() != 0 {
		t.Errorf("unexpected output %q", out.String())
	}
	if !strings.Contains(errOut.String(), "Expect ';' after variable declaration.") {
		t.Errorf("diagnostics got %q", errOut.String())
	}
}

func TestErrorsDoNotEndSession(t *testing.T) {
	r, out, errOut := newTestREPL()

	if quit := r.Eval("print nope;"); quit {
		t.Fatal("runtime error should not end the session")
	}
	r.Eval("print 1;")

	if !strings.Contains(errOut.String(), "Undefined variable 'nope'.") {
		t.Errorf("diagnostics got %q", errOut.String())
	}
	if got := out.String(); got != "1\n" {
		t.Errorf("output got %q, want %q", got, "1\n")
	}
}

func TestCommands(t *testing.T) {
	r, out, errOut := newTestREPL()

	r.Eval("var a = 1;")
	r.Eval(":reset")
	r.Eval("print a;")
	if !strings.Contains(out.String(), "Environment reset.") {
		t.Errorf("missing reset message in %q", out.String())
	}
	if !strings.Contains(errOut.String(), "Undefined variable 'a'.") {
		t.Errorf("global survived :reset, diagnostics %q", errOut.String())
	}

	out.Reset()
	r.Eval(":history")
	if !strings.Contains(out.String(), "   1  var a = 1;") {
		t.Errorf(":history got %q", out.String())
	}

	out.Reset()
	r.Eval(":bogus")
	if !strings.Contains(out.String(), "Unknown command: :bogus") {
		t.Errorf("unknown command got %q", out.String())
	}

	if !r.Eval(":quit") {
		t.Error(":quit should end the session")
	}
}

func TestLoadCommand(t *testing.T) {
	r, out, _ := newTestREPL()

	path := filepath.Join(t.TempDir(), "lib.lox")
	if err := os.WriteFile(path, []byte("fun greet() { return \"hi\"; }\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	r.Eval(":load " + path)
	r.Eval("print greet();")

	want := "Loaded: " + path + "\nhi\n"
	if got := out.String(); got != want {
		t.Errorf("output got %q, want %q", got, want)
	}
}

func TestComplete(t *testing.T) {
	r, _, _ := newTestREPL()
	r.Eval("var counter = 0;")

	got := r.complete("print cl")
	if len(got) != 2 || got[0] != "print class" || got[1] != "print clock" {
		t.Errorf("complete(%q) got %v", "print cl", got)
	}

	got = r.complete("cou")
	if len(got) != 1 || got[0] != "counter" {
		t.Errorf("complete(%q) got %v", "cou", got)
	}

	got = r.complete(":h")
	if len(got) != 2 || got[0] != ":help" || got[1] != ":history" {
		t.Errorf("complete(%q) got %v", ":h", got)
	}
}
