package ast

import (
	"math"
	"testing"

	"github.com/tangzhangming/lox/internal/token"
)

func ident(name string) token.Token {
	return token.Token{Type: token.IDENT, Literal: name, Pos: token.Position{Line: 1, Column: 1}}
}

func TestFormatNumber(t *testing.T) {
	// 运行时相加，避免编译期常量折叠成 0.3
	a, b := 0.1, 0.2

	tests := []struct {
		value    float64
		expected string
	}{
		{3, "3"},
		{-7, "-7"},
		{2.5, "2.5"},
		{a + b, "0.30000000000000004"},
		{1e21, "1000000000000000000000"},
		{math.Inf(1), "inf"},
		{math.Inf(-1), "-inf"},
		{math.NaN(), "nan"},
	}

	for _, tt := range tests {
		if got := FormatNumber(tt.value); got != tt.expected {
			t.Errorf("FormatNumber(%v): got %s, want %s", tt.value, got, tt.expected)
		}
	}
}

func TestNodeString(t *testing.T) {
	plus := token.Token{Type: token.PLUS, Literal: "+"}
	expr := &Binary{
		Left:     &Literal{Value: 1.0},
		Operator: plus,
		Right: &Grouping{Inner: &Call{
			Callee:    &Variable{Name: ident("f")},
			Arguments: []Expression{&Literal{Value: "s"}, &Literal{Value: nil}},
		}},
	}

	want := `(+ 1 (group (call f "s" nil)))`
	if got := expr.String(); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestWalkVisitsEveryVariable(t *testing.T) {
	// fun f(a) { if (a) print b; else return c; }
	fn := &FunctionStmt{
		Name:   ident("f"),
		Params: []token.Token{ident("a")},
		Body: []Statement{
			&IfStmt{
				Condition: &Variable{Name: ident("a")},
				Then:      &PrintStmt{Expr: &Variable{Name: ident("b")}},
				Else:      &ReturnStmt{Value: &Variable{Name: ident("c")}},
			},
		},
	}
	prog := &Program{Statements: []Statement{fn}}

	var names []string
	Walk(prog, func(n Node) bool {
		if v, ok := n.(*Variable); ok {
			names = append(names, v.Name.Literal)
		}
		return true
	})

	if len(names) != 3 || names[0] != "a" || names[1] != "b" || names[2] != "c" {
		t.Errorf("got %v, want [a b c]", names)
	}
}

func TestWalkSkipsChildren(t *testing.T) {
	inner := &FunctionLit{Body: []Statement{&PrintStmt{Expr: &Variable{Name: ident("x")}}}}
	prog := &Program{Statements: []Statement{&ExprStmt{Expr: inner}}}

	count := 0
	Walk(prog, func(n Node) bool {
		count++
		_, isFn := n.(*FunctionLit)
		return !isFn
	})

	// Program, ExprStmt, FunctionLit
	if count != 3 {
		t.Errorf("got %d visits, want 3", count)
	}
}
