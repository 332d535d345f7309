package ast

import (
	"math"
	"strconv"
	"strings"

	"github.com/tangzhangming/lox/internal/token"
)

// Node 是所有 AST 节点的基接口
type Node interface {
	Pos() token.Position // 返回节点在源代码中的位置
	String() string      // 返回节点的 S 表达式表示（用于调试和 -ast 输出）
}

// Expression 表示一个表达式节点
//
// 表达式节点总是以指针形式出现，解析器为每一处源码出现创建一个新节点，
// 因此指针本身就是节点身份，解析结果（作用域距离）以它为键。
type Expression interface {
	Node
	exprNode()
}

// Statement 表示一个语句节点
type Statement interface {
	Node
	stmtNode()
}

// ============================================================================
// 表达式节点
// ============================================================================

// Literal 字面量：nil、true/false、数字 (float64)、字符串
type Literal struct {
	Token token.Token
	Value interface{}
}

func (e *Literal) Pos() token.Position { return e.Token.Pos }
func (e *Literal) String() string      { return FormatLiteral(e.Value) }
func (e *Literal) exprNode()           {}

// Variable 变量引用
type Variable struct {
	Name token.Token
}

func (e *Variable) Pos() token.Position { return e.Name.Pos }
func (e *Variable) String() string      { return e.Name.Literal }
func (e *Variable) exprNode()           {}

// Assign 赋值表达式 (name = value)
type Assign struct {
	Name  token.Token
	Value Expression
}

func (e *Assign) Pos() token.Position { return e.Name.Pos }
func (e *Assign) String() string      { return sexpr("=", e.Name.Literal, e.Value.String()) }
func (e *Assign) exprNode()           {}

// Unary 一元表达式 (-x, !x)
type Unary struct {
	Operator token.Token
	Right    Expression
}

func (e *Unary) Pos() token.Position { return e.Operator.Pos }
func (e *Unary) String() string      { return sexpr(e.Operator.Literal, e.Right.String()) }
func (e *Unary) exprNode()           {}

// Binary 二元表达式
type Binary struct {
	Left     Expression
	Operator token.Token
	Right    Expression
}

func (e *Binary) Pos() token.Position { return e.Operator.Pos }
func (e *Binary) String() string {
	return sexpr(e.Operator.Literal, e.Left.String(), e.Right.String())
}
func (e *Binary) exprNode() {}

// Logical 短路逻辑表达式 (and / or)
type Logical struct {
	Left     Expression
	Operator token.Token
	Right    Expression
}

func (e *Logical) Pos() token.Position { return e.Operator.Pos }
func (e *Logical) String() string {
	return sexpr(e.Operator.Literal, e.Left.String(), e.Right.String())
}
func (e *Logical) exprNode() {}

// Grouping 括号表达式
type Grouping struct {
	LParen token.Token
	Inner  Expression
}

func (e *Grouping) Pos() token.Position { return e.LParen.Pos }
func (e *Grouping) String() string      { return sexpr("group", e.Inner.String()) }
func (e *Grouping) exprNode()           {}

// Call 函数调用
//
// Paren 是右括号，运行时错误报告在它所在的行。
type Call struct {
	Callee    Expression
	Paren     token.Token
	Arguments []Expression
}

func (e *Call) Pos() token.Position { return e.Paren.Pos }
func (e *Call) String() string {
	parts := []string{"call", e.Callee.String()}
	for _, arg := range e.Arguments {
		parts = append(parts, arg.String())
	}
	return sexpr(parts...)
}
func (e *Call) exprNode() {}

// Get 属性读取 (object.name)
type Get struct {
	Object Expression
	Name   token.Token
}

func (e *Get) Pos() token.Position { return e.Name.Pos }
func (e *Get) String() string      { return sexpr(".", e.Object.String(), e.Name.Literal) }
func (e *Get) exprNode()           {}

// Set 属性写入 (object.name = value)
type Set struct {
	Object Expression
	Name   token.Token
	Value  Expression
}

func (e *Set) Pos() token.Position { return e.Name.Pos }
func (e *Set) String() string {
	return sexpr("=", e.Object.String()+"."+e.Name.Literal, e.Value.String())
}
func (e *Set) exprNode() {}

// This this 表达式
type This struct {
	Keyword token.Token
}

func (e *This) Pos() token.Position { return e.Keyword.Pos }
func (e *This) String() string      { return "this" }
func (e *This) exprNode()           {}

// Super super.method 表达式
type Super struct {
	Keyword token.Token
	Method  token.Token
}

func (e *Super) Pos() token.Position { return e.Keyword.Pos }
func (e *Super) String() string      { return sexpr("super", e.Method.Literal) }
func (e *Super) exprNode()           {}

// FunctionLit 匿名函数 fun (params) { body }
type FunctionLit struct {
	Keyword token.Token
	Params  []token.Token
	Body    []Statement
}

func (e *FunctionLit) Pos() token.Position { return e.Keyword.Pos }
func (e *FunctionLit) String() string {
	return functionString("fun", "", e.Params, e.Body)
}
func (e *FunctionLit) exprNode() {}

// ============================================================================
// 语句节点
// ============================================================================

// ExprStmt 表达式语句
type ExprStmt struct {
	Expr Expression
}

func (s *ExprStmt) Pos() token.Position { return s.Expr.Pos() }
func (s *ExprStmt) String() string      { return sexpr(";", s.Expr.String()) }
func (s *ExprStmt) stmtNode()           {}

// PrintStmt print 语句
type PrintStmt struct {
	Keyword token.Token
	Expr    Expression
}

func (s *PrintStmt) Pos() token.Position { return s.Keyword.Pos }
func (s *PrintStmt) String() string      { return sexpr("print", s.Expr.String()) }
func (s *PrintStmt) stmtNode()           {}

// VarStmt 变量声明，Initializer 可为 nil
type VarStmt struct {
	Name        token.Token
	Initializer Expression
}

func (s *VarStmt) Pos() token.Position { return s.Name.Pos }
func (s *VarStmt) String() string {
	if s.Initializer == nil {
		return sexpr("var", s.Name.Literal)
	}
	return sexpr("var", s.Name.Literal, "=", s.Initializer.String())
}
func (s *VarStmt) stmtNode() {}

// BlockStmt 块语句
type BlockStmt struct {
	LBrace     token.Token
	Statements []Statement
}

func (s *BlockStmt) Pos() token.Position { return s.LBrace.Pos }
func (s *BlockStmt) String() string {
	parts := []string{"block"}
	for _, stmt := range s.Statements {
		parts = append(parts, stmt.String())
	}
	return sexpr(parts...)
}
func (s *BlockStmt) stmtNode() {}

// IfStmt if 语句，Else 可为 nil
type IfStmt struct {
	Keyword   token.Token
	Condition Expression
	Then      Statement
	Else      Statement
}

func (s *IfStmt) Pos() token.Position { return s.Keyword.Pos }
func (s *IfStmt) String() string {
	if s.Else == nil {
		return sexpr("if", s.Condition.String(), s.Then.String())
	}
	return sexpr("if-else", s.Condition.String(), s.Then.String(), s.Else.String())
}
func (s *IfStmt) stmtNode() {}

// WhileStmt while 语句（for 循环也脱糖为它）
type WhileStmt struct {
	Keyword   token.Token
	Condition Expression
	Body      Statement
}

func (s *WhileStmt) Pos() token.Position { return s.Keyword.Pos }
func (s *WhileStmt) String() string {
	return sexpr("while", s.Condition.String(), s.Body.String())
}
func (s *WhileStmt) stmtNode() {}

// FunctionStmt 具名函数声明，也用于类的方法
type FunctionStmt struct {
	Name   token.Token
	Params []token.Token
	Body   []Statement
}

func (s *FunctionStmt) Pos() token.Position { return s.Name.Pos }
func (s *FunctionStmt) String() string {
	return functionString("fun", s.Name.Literal, s.Params, s.Body)
}
func (s *FunctionStmt) stmtNode() {}

// ReturnStmt return 语句，Value 可为 nil
type ReturnStmt struct {
	Keyword token.Token
	Value   Expression
}

func (s *ReturnStmt) Pos() token.Position { return s.Keyword.Pos }
func (s *ReturnStmt) String() string {
	if s.Value == nil {
		return "(return)"
	}
	return sexpr("return", s.Value.String())
}
func (s *ReturnStmt) stmtNode() {}

// ClassStmt 类声明
//
// Superclass 为 nil 表示没有父类；否则它是一个普通的变量引用，
// 和其它变量一样经过解析器处理。
type ClassStmt struct {
	Name       token.Token
	Superclass *Variable
	Methods    []*FunctionStmt
}

func (s *ClassStmt) Pos() token.Position { return s.Name.Pos }
func (s *ClassStmt) String() string {
	parts := []string{"class", s.Name.Literal}
	if s.Superclass != nil {
		parts = append(parts, "<", s.Superclass.Name.Literal)
	}
	for _, m := range s.Methods {
		parts = append(parts, m.String())
	}
	return sexpr(parts...)
}
func (s *ClassStmt) stmtNode() {}

// ============================================================================
// 程序根节点
// ============================================================================

// Program 解析结果：一个源文件的全部顶层语句
type Program struct {
	Filename   string
	Statements []Statement
}

func (p *Program) Pos() token.Position {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return token.Position{Filename: p.Filename, Line: 1, Column: 1}
}

// String 每条顶层语句占一行
func (p *Program) String() string {
	var sb strings.Builder
	for i, stmt := range p.Statements {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(stmt.String())
	}
	return sb.String()
}

// ============================================================================
// 遍历
// ============================================================================

// Visitor 节点访问函数，返回 false 时不再进入该节点的子节点
type Visitor func(node Node) bool

// Walk 深度优先遍历 AST
func Walk(node Node, visitor Visitor) {
	if node == nil || !visitor(node) {
		return
	}

	switch n := node.(type) {
	case *Program:
		walkStmts(n.Statements, visitor)

	// 表达式
	case *Assign:
		Walk(n.Value, visitor)
	case *Unary:
		Walk(n.Right, visitor)
	case *Binary:
		Walk(n.Left, visitor)
		Walk(n.Right, visitor)
	case *Logical:
		Walk(n.Left, visitor)
		Walk(n.Right, visitor)
	case *Grouping:
		Walk(n.Inner, visitor)
	case *Call:
		Walk(n.Callee, visitor)
		for _, arg := range n.Arguments {
			Walk(arg, visitor)
		}
	case *Get:
		Walk(n.Object, visitor)
	case *Set:
		Walk(n.Object, visitor)
		Walk(n.Value, visitor)
	case *FunctionLit:
		walkStmts(n.Body, visitor)

	// 语句
	case *ExprStmt:
		Walk(n.Expr, visitor)
	case *PrintStmt:
		Walk(n.Expr, visitor)
	case *VarStmt:
		if n.Initializer != nil {
			Walk(n.Initializer, visitor)
		}
	case *BlockStmt:
		walkStmts(n.Statements, visitor)
	case *IfStmt:
		Walk(n.Condition, visitor)
		Walk(n.Then, visitor)
		if n.Else != nil {
			Walk(n.Else, visitor)
		}
	case *WhileStmt:
		Walk(n.Condition, visitor)
		Walk(n.Body, visitor)
	case *FunctionStmt:
		walkStmts(n.Body, visitor)
	case *ReturnStmt:
		if n.Value != nil {
			Walk(n.Value, visitor)
		}
	case *ClassStmt:
		if n.Superclass != nil {
			Walk(n.Superclass, visitor)
		}
		for _, m := range n.Methods {
			Walk(m, visitor)
		}

	case *Literal, *Variable, *This, *Super:
		// 叶子节点
	}
}

func walkStmts(stmts []Statement, visitor Visitor) {
	for _, stmt := range stmts {
		Walk(stmt, visitor)
	}
}

// ============================================================================
// 打印辅助
// ============================================================================

// FormatLiteral 把字面量值格式化为源码形式，字符串带引号
func FormatLiteral(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case bool:
		if val {
			return "true"
		}
		return "false"
	case float64:
		return FormatNumber(val)
	case string:
		return `"` + val + `"`
	default:
		return "?"
	}
}

// FormatNumber 数字的显示文本：整数值不带小数部分，溢出和非数分别为 inf/-inf/nan
func FormatNumber(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsNaN(v):
		return "nan"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func sexpr(parts ...string) string {
	return "(" + strings.Join(parts, " ") + ")"
}

func functionString(kw, name string, params []token.Token, body []Statement) string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(kw)
	if name != "" {
		sb.WriteString(" ")
		sb.WriteString(name)
	}
	sb.WriteString(" (")
	for i, p := range params {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(p.Literal)
	}
	sb.WriteString(")")
	for _, stmt := range body {
		sb.WriteString(" ")
		sb.WriteString(stmt.String())
	}
	sb.WriteString(")")
	return sb.String()
}
