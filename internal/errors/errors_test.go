package errors

import (
	"strings"
	"testing"

	"go.uber.org/multierr"

	"github.com/tangzhangming/lox/internal/i18n"
	"github.com/tangzhangming/lox/internal/interpreter"
	"github.com/tangzhangming/lox/internal/parser"
	"github.com/tangzhangming/lox/internal/token"
)

func TestDiagnosticError(t *testing.T) {
	tests := []struct {
		name string
		d    Diagnostic
		want string
	}{
		{
			name: "scan",
			d:    Diagnostic{Phase: PhaseScan, Line: 2, Message: "Unexpected character '@'."},
			want: "[line 2] Error: Unexpected character '@'.",
		},
		{
			name: "parse at token",
			d:    Diagnostic{Phase: PhaseParse, Line: 1, Lexeme: ";", Message: "Expect expression."},
			want: "[line 1] Error at ';': Expect expression.",
		},
		{
			name: "parse at end",
			d:    Diagnostic{Phase: PhaseParse, Line: 3, AtEnd: true, Message: "Expect ';' after value."},
			want: "[line 3] Error at end: Expect ';' after value.",
		},
		{
			name: "resolve warning",
			d:    Diagnostic{Phase: PhaseResolve, Severity: LevelWarning, Line: 4, Lexeme: "x", Message: "Local variable 'x' is never used."},
			want: "[line 4] Warning at 'x': Local variable 'x' is never used.",
		},
		{
			name: "runtime",
			d:    Diagnostic{Phase: PhaseRuntime, Line: 7, Message: "Undefined variable 'y'."},
			want: "Undefined variable 'y'.\n[line 7]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.Error(); got != tt.want {
				t.Errorf("Error() got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	warning := Diagnostic{Phase: PhaseResolve, Severity: LevelWarning}
	static := Diagnostic{Phase: PhaseParse, Severity: LevelError}
	rt := Diagnostic{Phase: PhaseRuntime, Severity: LevelError}

	tests := []struct {
		name string
		ds   Diagnostics
		want int
	}{
		{"empty", nil, ExitOK},
		{"warnings only", Diagnostics{warning}, ExitOK},
		{"static", Diagnostics{warning, static}, ExitStatic},
		{"runtime", Diagnostics{rt}, ExitRuntime},
	}

	for _, tt := range tests {
		if got := tt.ds.ExitCode(); got != tt.want {
			t.Errorf("%s: ExitCode() got %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestErrCombinesErrorsOnly(t *testing.T) {
	ds := Diagnostics{
		{Phase: PhaseParse, Line: 1, Lexeme: "a", Message: "first"},
		{Phase: PhaseResolve, Severity: LevelWarning, Line: 2, Lexeme: "b", Message: "ignored"},
		{Phase: PhaseParse, Line: 3, Lexeme: "c", Message: "second"},
	}

	err := ds.Err()
	if err == nil {
		t.Fatal("Err() returned nil")
	}
	if got := len(multierr.Errors(err)); got != 2 {
		t.Errorf("combined errors got %d, want 2", got)
	}
	if strings.Contains(err.Error(), "ignored") {
		t.Errorf("warning leaked into error: %q", err.Error())
	}

	if Diagnostics(nil).Err() != nil {
		t.Error("Err() on empty diagnostics should be nil")
	}
}

func TestFromParserAssignsCodes(t *testing.T) {
	_, lexErrs, parseErrs := parser.ParseSource("print 1\nvar @ = 2;", "main.lox")

	scan := FromLexer(lexErrs)
	if len(scan) != 1 {
		t.Fatalf("scan diagnostics got %d, want 1", len(scan))
	}
	if scan[0].Code != E0002 || scan[0].Line != 2 {
		t.Errorf("scan diagnostic got %s line %d, want %s line 2", scan[0].Code, scan[0].Line, E0002)
	}

	parse := FromParser(parseErrs)
	if len(parse) == 0 {
		t.Fatal("expected parse diagnostics")
	}
	if parse[0].Code != E0006 {
		t.Errorf("parse code got %s, want %s", parse[0].Code, E0006)
	}
	if parse[0].Filename != "main.lox" {
		t.Errorf("filename got %q, want %q", parse[0].Filename, "main.lox")
	}
}

func TestFromRuntime(t *testing.T) {
	tok := token.New(token.IDENT, "cuont", token.Position{Line: 5, Column: 7})
	d := FromRuntime(interpreter.NewRuntimeError(tok, "runtime.undefined_variable", "cuont"))

	if d.Code != R0500 {
		t.Errorf("code got %s, want %s", d.Code, R0500)
	}
	if d.Error() != "Undefined variable 'cuont'.\n[line 5]" {
		t.Errorf("Error() got %q", d.Error())
	}

	ds := Diagnostics{d}
	AddHints(ds, []string{"count", "clock"})
	if ds[0].Hint != "Did you mean 'count'?" {
		t.Errorf("hint got %q, want %q", ds[0].Hint, "Did you mean 'count'?")
	}
}

func TestEveryDiagnosticHasCode(t *testing.T) {
	for _, id := range i18n.MessageIDs() {
		if strings.HasPrefix(id, "label.") || strings.HasPrefix(id, "hint.") {
			continue
		}
		if _, ok := LookupMessage(id); !ok {
			t.Errorf("message %q has no error code", id)
		}
	}
}

func TestCodeForFallback(t *testing.T) {
	tests := []struct {
		id    string
		phase Phase
		want  string
	}{
		{"parser.expect_expression", PhaseParse, E0007},
		{"unknown", PhaseParse, E0001},
		{"unknown", PhaseResolve, E0100},
		{"unknown", PhaseRuntime, R0001},
	}
	for _, tt := range tests {
		if got := CodeFor(tt.id, tt.phase); got != tt.want {
			t.Errorf("CodeFor(%q, %s) got %s, want %s", tt.id, tt.phase, got, tt.want)
		}
	}
}

func TestFindSimilar(t *testing.T) {
	tests := []struct {
		name       string
		candidates []string
		want       string
	}{
		{"prnt", []string{"print", "clock"}, "print"},
		{"x", []string{"x"}, ""},
		{"counter", []string{"clock"}, ""},
		{"Clock", []string{"clock"}, "clock"},
	}
	for _, tt := range tests {
		if got := FindSimilar(tt.name, tt.candidates, 2); got != tt.want {
			t.Errorf("FindSimilar(%q) got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestRichFormatter(t *testing.T) {
	f := &Formatter{ShowSource: true, ShowHints: true, TabWidth: 4}
	d := Diagnostic{
		Phase:    PhaseParse,
		Code:     E0007,
		Filename: "main.lox",
		Line:     1,
		Column:   10,
		Lexeme:   ";",
		Message:  "Expect expression.",
		Hint:     "try a number",
	}

	got := f.Format(d, SplitLines("print 1 +;\n"))
	want := "error[E0007]: Expect expression.\n" +
		" --> main.lox:1:10\n" +
		"  |\n" +
		"1 | print 1 +;\n" +
		"  |          ^\n" +
		" = hint: try a number"
	if got != want {
		t.Errorf("Format() got\n%s\nwant\n%s", got, want)
	}
}

func TestPlainFormatterMatchesError(t *testing.T) {
	f := &Formatter{}
	d := Diagnostic{Phase: PhaseParse, Line: 1, AtEnd: true, Message: "Expect ';' after value."}
	if got := f.Format(d, nil); got != d.Error() {
		t.Errorf("plain Format got %q, want %q", got, d.Error())
	}
}

func TestHighlightLineKeepsText(t *testing.T) {
	lines := []string{
		`var x = "hi"; // note`,
		`fun f(a) { return a + 1.5; }`,
		`print @ x;`,
		``,
	}
	for _, line := range lines {
		if got := Strip(HighlightLine(line)); got != line {
			t.Errorf("Strip(HighlightLine(%q)) got %q", line, got)
		}
	}
}
