// Package resolver 在执行之前静态地解析每个变量引用的作用域距离。
//
// 解析结果是以表达式节点身份（指针）为键的旁路表：
// 同一个名字在不同位置可能解析到不同的作用域。
package resolver

import (
	"fmt"
	"sort"

	"github.com/tangzhangming/lox/internal/ast"
	"github.com/tangzhangming/lox/internal/i18n"
	"github.com/tangzhangming/lox/internal/token"
)

// Error 解析错误
type Error struct {
	Pos     token.Position
	Lexeme  string
	ID      string // 消息 ID
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("[line %d] %s%s: %s", e.Pos.Line, i18n.T(i18n.LabelError), i18n.T(i18n.LabelAt, e.Lexeme), e.Message)
}

// Warning 不影响执行的诊断（目前只有未使用的局部变量）
type Warning struct {
	Pos     token.Position
	Lexeme  string
	ID      string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("[line %d] %s%s: %s", w.Pos.Line, i18n.T(i18n.LabelWarning), i18n.T(i18n.LabelAt, w.Lexeme), w.Message)
}

// ============================================================================
// Resolution - 解析结果
// ============================================================================

// Resolution 变量引用到作用域距离的映射
type Resolution struct {
	depths   map[ast.Expression]int
	warnings []Warning
}

// NewResolution 创建空的解析结果
func NewResolution() *Resolution {
	return &Resolution{depths: make(map[ast.Expression]int)}
}

// Depth 返回表达式的作用域距离；第二个返回值为 false 表示按全局变量处理
func (r *Resolution) Depth(expr ast.Expression) (int, bool) {
	d, ok := r.depths[expr]
	return d, ok
}

// Len 已解析的局部引用数量
func (r *Resolution) Len() int {
	return len(r.depths)
}

// Warnings 返回解析过程中产生的警告
func (r *Resolution) Warnings() []Warning {
	return r.warnings
}

// Merge 合并另一次解析的结果
//
// REPL 中早先定义的函数在之后的输入里被调用，
// 它们的函数体引用仍需要查到当初的解析结果。
func (r *Resolution) Merge(other *Resolution) {
	if other == nil {
		return
	}
	for expr, d := range other.depths {
		r.depths[expr] = d
	}
}

func (r *Resolution) set(expr ast.Expression, depth int) {
	r.depths[expr] = depth
}

// ============================================================================
// Resolver
// ============================================================================

type functionType int

const (
	functionNone functionType = iota
	functionFunction
	functionMethod
	functionInitializer
)

type classType int

const (
	classNone classType = iota
	classClass
	classSubclass
)

type bindingKind int

const (
	bindVariable bindingKind = iota
	bindParameter
	bindFunction
	bindClass
	bindImplicit // this / super
)

// binding 作用域中的一个名字
type binding struct {
	tok     token.Token
	kind    bindingKind
	defined bool // 初始化器解析完成后为 true
	used    bool
}

type scope map[string]*binding

// Resolver 静态解析器
type Resolver struct {
	scopes          []scope
	currentFunction functionType
	currentClass    classType

	// 正在解析初始化器的全局变量，用于捕获顶层的 var a = a;
	initializing map[string]bool

	resolution *Resolution
	errors     []Error
}

// New 创建解析器
func New() *Resolver {
	return &Resolver{
		initializing: make(map[string]bool),
	}
}

// Resolve 解析整个程序
//
// 即使出现错误也会走完全部语句，尽可能多地报告问题。
func (r *Resolver) Resolve(prog *ast.Program) (*Resolution, []Error) {
	r.resolution = NewResolution()
	r.errors = nil
	r.scopes = r.scopes[:0]
	r.currentFunction = functionNone
	r.currentClass = classNone

	r.resolveStmts(prog.Statements)

	// 作用域是 map，按源码位置排序让警告顺序稳定
	sort.SliceStable(r.resolution.warnings, func(i, j int) bool {
		return r.resolution.warnings[i].Pos.Offset < r.resolution.warnings[j].Pos.Offset
	})
	return r.resolution, r.errors
}

// ============================================================================
// 语句
// ============================================================================

func (r *Resolver) resolveStmts(stmts []ast.Statement) {
	for _, stmt := range stmts {
		r.resolveStmt(stmt)
	}
}

func (r *Resolver) resolveStmt(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.BlockStmt:
		r.beginScope()
		r.resolveStmts(s.Statements)
		r.endScope()

	case *ast.VarStmt:
		r.declare(s.Name, bindVariable)
		if s.Initializer != nil {
			global := len(r.scopes) == 0
			if global {
				r.initializing[s.Name.Literal] = true
			}
			r.resolveExpr(s.Initializer)
			if global {
				delete(r.initializing, s.Name.Literal)
			}
		}
		r.define(s.Name)

	case *ast.FunctionStmt:
		// 先定义再解析函数体，函数可以递归引用自己
		r.declare(s.Name, bindFunction)
		r.define(s.Name)
		r.resolveFunction(s.Params, s.Body, functionFunction)

	case *ast.ClassStmt:
		r.resolveClass(s)

	case *ast.ExprStmt:
		r.resolveExpr(s.Expr)

	case *ast.PrintStmt:
		r.resolveExpr(s.Expr)

	case *ast.IfStmt:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}

	case *ast.WhileStmt:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Body)

	case *ast.ReturnStmt:
		if r.currentFunction == functionNone {
			r.error(s.Keyword, i18n.ErrTopLevelReturn)
		}
		if s.Value != nil {
			if r.currentFunction == functionInitializer {
				r.error(s.Keyword, i18n.ErrInitializerReturn)
			}
			r.resolveExpr(s.Value)
		}
	}
}

func (r *Resolver) resolveClass(s *ast.ClassStmt) {
	enclosingClass := r.currentClass
	r.currentClass = classClass
	defer func() { r.currentClass = enclosingClass }()

	r.declare(s.Name, bindClass)
	r.define(s.Name)

	if s.Superclass != nil {
		if s.Superclass.Name.Literal == s.Name.Literal {
			r.error(s.Superclass.Name, i18n.ErrInheritSelf)
		}
		r.currentClass = classSubclass
		r.resolveExpr(s.Superclass)

		r.beginScope()
		r.top()["super"] = &binding{kind: bindImplicit, defined: true, used: true}
	}

	r.beginScope()
	r.top()["this"] = &binding{kind: bindImplicit, defined: true, used: true}

	for _, method := range s.Methods {
		kind := functionMethod
		if method.Name.Literal == "init" {
			kind = functionInitializer
		}
		r.resolveFunction(method.Params, method.Body, kind)
	}

	r.endScope()

	if s.Superclass != nil {
		r.endScope()
	}
}

func (r *Resolver) resolveFunction(params []token.Token, body []ast.Statement, kind functionType) {
	enclosing := r.currentFunction
	r.currentFunction = kind
	defer func() { r.currentFunction = enclosing }()

	r.beginScope()
	for _, param := range params {
		r.declare(param, bindParameter)
		r.define(param)
	}
	r.resolveStmts(body)
	r.endScope()
}

// ============================================================================
// 表达式
// ============================================================================

func (r *Resolver) resolveExpr(expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.Variable:
		if len(r.scopes) == 0 {
			if r.initializing[e.Name.Literal] {
				r.error(e.Name, i18n.ErrSelfInitializer)
			}
		} else if b, ok := r.top()[e.Name.Literal]; ok && !b.defined {
			r.error(e.Name, i18n.ErrSelfInitializer)
		}
		r.resolveLocal(e, e.Name)

	case *ast.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name)

	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.Unary:
		r.resolveExpr(e.Right)

	case *ast.Grouping:
		r.resolveExpr(e.Inner)

	case *ast.Call:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Arguments {
			r.resolveExpr(arg)
		}

	case *ast.Get:
		r.resolveExpr(e.Object)

	case *ast.Set:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)

	case *ast.This:
		if r.currentClass == classNone {
			r.error(e.Keyword, i18n.ErrThisOutsideClass)
			return
		}
		r.resolveLocal(e, e.Keyword)

	case *ast.Super:
		switch r.currentClass {
		case classNone:
			r.error(e.Keyword, i18n.ErrSuperOutsideClass)
			return
		case classClass:
			r.error(e.Keyword, i18n.ErrSuperNoSuperclass)
			return
		}
		r.resolveLocal(e, e.Keyword)

	case *ast.FunctionLit:
		r.resolveFunction(e.Params, e.Body, functionFunction)

	case *ast.Literal:
		// 无需解析
	}
}

// resolveLocal 从内向外查找名字，记录距离；找不到则视为全局变量
func (r *Resolver) resolveLocal(expr ast.Expression, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if b, ok := r.scopes[i][name.Literal]; ok {
			b.used = true
			r.resolution.set(expr, len(r.scopes)-1-i)
			return
		}
	}
}

// ============================================================================
// 作用域管理
// ============================================================================

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(scope))
}

func (r *Resolver) endScope() {
	for _, b := range r.top() {
		if b.kind == bindVariable && !b.used {
			r.resolution.warnings = append(r.resolution.warnings, Warning{
				Pos:     b.tok.Pos,
				Lexeme:  b.tok.Literal,
				ID:      i18n.WarnUnusedLocal,
				Message: i18n.T(i18n.WarnUnusedLocal, b.tok.Literal),
			})
		}
	}
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) top() scope {
	return r.scopes[len(r.scopes)-1]
}

// declare 在当前作用域登记名字，此时尚未就绪；全局作用域不做登记
func (r *Resolver) declare(name token.Token, kind bindingKind) {
	if len(r.scopes) == 0 {
		return
	}

	s := r.top()
	if _, exists := s[name.Literal]; exists {
		r.error(name, i18n.ErrAlreadyDeclared)
	}
	s[name.Literal] = &binding{tok: name, kind: kind}
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	if b, ok := r.top()[name.Literal]; ok {
		b.defined = true
	}
}

func (r *Resolver) error(tok token.Token, msgID string, args ...interface{}) {
	r.errors = append(r.errors, Error{
		Pos:     tok.Pos,
		Lexeme:  tok.Literal,
		ID:      msgID,
		Message: i18n.T(msgID, args...),
	})
}
