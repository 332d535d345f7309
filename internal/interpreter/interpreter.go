// Package interpreter 是一个遍历 AST 的解释器。
//
// 执行之前必须先用 resolver 解析程序，变量引用按解析结果给出的
// 作用域距离直接定位，未解析的引用按全局变量处理。
package interpreter

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/tangzhangming/lox/internal/ast"
	"github.com/tangzhangming/lox/internal/i18n"
	"github.com/tangzhangming/lox/internal/resolver"
	"github.com/tangzhangming/lox/internal/token"
)

// DefaultMaxCallDepth 默认的最大调用深度
const DefaultMaxCallDepth = 10000

// Options 解释器选项
type Options struct {
	Stdout       io.Writer   // print 的输出，默认 os.Stdout
	MaxCallDepth int         // 超过后报告 "Stack overflow."，<= 0 使用默认值
	Logger       *zap.Logger // 默认不输出日志
}

// ============================================================================
// 控制流
// ============================================================================

type flowKind int

const (
	flowNormal flowKind = iota
	flowReturn
)

// flow 语句执行的结果：正常结束，或携带返回值向上展开到调用边界
type flow struct {
	kind  flowKind
	value Value
}

var normal = flow{kind: flowNormal}

// ============================================================================
// Interpreter
// ============================================================================

// Interpreter 解释器
//
// 全局环境在多次 Interpret 调用之间保留，REPL 依赖这一点。
type Interpreter struct {
	globals    *Environment
	env        *Environment
	resolution *resolver.Resolution

	stdout   io.Writer
	depth    int
	maxDepth int
	logger   *zap.Logger
}

// New 创建解释器，内置函数在此注册
func New(opts Options) *Interpreter {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.MaxCallDepth <= 0 {
		opts.MaxCallDepth = DefaultMaxCallDepth
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	globals := NewEnvironment(nil)
	in := &Interpreter{
		globals:    globals,
		env:        globals,
		resolution: resolver.NewResolution(),
		stdout:     opts.Stdout,
		maxDepth:   opts.MaxCallDepth,
		logger:     opts.Logger,
	}
	in.registerNatives()
	return in
}

// Globals 返回全局环境
func (in *Interpreter) Globals() *Environment {
	return in.globals
}

// Interpret 按顺序执行程序的顶层语句
//
// 遇到运行时错误立即停止，返回 *RuntimeError。
func (in *Interpreter) Interpret(prog *ast.Program, res *resolver.Resolution) error {
	in.resolution.Merge(res)

	for _, stmt := range prog.Statements {
		if _, err := in.execute(stmt); err != nil {
			in.env = in.globals
			in.depth = 0

			var rtErr *RuntimeError
			if errors.As(err, &rtErr) {
				in.logger.Debug("runtime error",
					zap.Int("line", rtErr.Line()),
					zap.String("message", rtErr.Message))
			}
			return err
		}
	}
	return nil
}

// Evaluate 在指定环境中求值一个表达式
func (in *Interpreter) Evaluate(expr ast.Expression, env *Environment) (Value, error) {
	previous := in.env
	in.env = env
	defer func() { in.env = previous }()

	return in.evaluate(expr)
}

// ============================================================================
// 语句执行
// ============================================================================

func (in *Interpreter) execute(stmt ast.Statement) (flow, error) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		_, err := in.evaluate(s.Expr)
		return normal, err

	case *ast.PrintStmt:
		v, err := in.evaluate(s.Expr)
		if err != nil {
			return normal, err
		}
		fmt.Fprintln(in.stdout, v.String())
		return normal, nil

	case *ast.VarStmt:
		value := NilValue
		if s.Initializer != nil {
			v, err := in.evaluate(s.Initializer)
			if err != nil {
				return normal, err
			}
			value = v
		}
		in.env.Define(s.Name.Literal, value)
		return normal, nil

	case *ast.BlockStmt:
		return in.executeBlock(s.Statements, NewEnvironment(in.env))

	case *ast.IfStmt:
		cond, err := in.evaluate(s.Condition)
		if err != nil {
			return normal, err
		}
		if cond.IsTruthy() {
			return in.execute(s.Then)
		}
		if s.Else != nil {
			return in.execute(s.Else)
		}
		return normal, nil

	case *ast.WhileStmt:
		for {
			cond, err := in.evaluate(s.Condition)
			if err != nil {
				return normal, err
			}
			if !cond.IsTruthy() {
				return normal, nil
			}
			result, err := in.execute(s.Body)
			if err != nil || result.kind == flowReturn {
				return result, err
			}
		}

	case *ast.FunctionStmt:
		fn := NewFunction(s, in.env, false)
		in.env.Define(s.Name.Literal, NewCallable(fn))
		return normal, nil

	case *ast.ReturnStmt:
		value := NilValue
		if s.Value != nil {
			v, err := in.evaluate(s.Value)
			if err != nil {
				return normal, err
			}
			value = v
		}
		return flow{kind: flowReturn, value: value}, nil

	case *ast.ClassStmt:
		return normal, in.executeClass(s)
	}

	return normal, nil
}

// executeBlock 在给定环境中执行语句序列，结束后恢复原环境
func (in *Interpreter) executeBlock(stmts []ast.Statement, env *Environment) (flow, error) {
	previous := in.env
	in.env = env
	defer func() { in.env = previous }()

	for _, stmt := range stmts {
		result, err := in.execute(stmt)
		if err != nil || result.kind == flowReturn {
			return result, err
		}
	}
	return normal, nil
}

func (in *Interpreter) executeClass(s *ast.ClassStmt) error {
	var superclass *Class
	if s.Superclass != nil {
		v, err := in.evaluate(s.Superclass)
		if err != nil {
			return err
		}
		sc, ok := v.AsClass()
		if !ok {
			return NewRuntimeError(s.Superclass.Name, i18n.ErrSuperclassNotClass, v.TypeName())
		}
		superclass = sc
	}

	in.env.Define(s.Name.Literal, NilValue)

	// 方法的闭包环境：有父类时多一层只包含 super 的环境
	methodEnv := in.env
	if superclass != nil {
		methodEnv = NewEnvironment(in.env)
		methodEnv.Define("super", NewCallable(superclass))
	}

	methods := make(map[string]*Function, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name.Literal] = NewFunction(m, methodEnv, m.Name.Literal == "init")
	}

	class := NewClass(s.Name.Literal, superclass, methods)
	in.env.Define(s.Name.Literal, NewCallable(class))
	return nil
}

// ============================================================================
// 表达式求值
// ============================================================================

func (in *Interpreter) evaluate(expr ast.Expression) (Value, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return FromLiteral(e.Value), nil

	case *ast.Grouping:
		return in.evaluate(e.Inner)

	case *ast.Variable:
		return in.lookupVariable(e.Name, e)

	case *ast.Assign:
		value, err := in.evaluate(e.Value)
		if err != nil {
			return NilValue, err
		}
		if distance, ok := in.resolution.Depth(e); ok {
			in.env.AssignAt(distance, e.Name.Literal, value)
		} else if !in.globals.Assign(e.Name.Literal, value) {
			return NilValue, NewRuntimeError(e.Name, i18n.ErrUndefinedVariable, e.Name.Literal)
		}
		return value, nil

	case *ast.Unary:
		return in.evaluateUnary(e)

	case *ast.Binary:
		return in.evaluateBinary(e)

	case *ast.Logical:
		left, err := in.evaluate(e.Left)
		if err != nil {
			return NilValue, err
		}
		if e.Operator.Type == token.OR {
			if left.IsTruthy() {
				return left, nil
			}
		} else if !left.IsTruthy() {
			return left, nil
		}
		return in.evaluate(e.Right)

	case *ast.Call:
		return in.evaluateCall(e)

	case *ast.Get:
		object, err := in.evaluate(e.Object)
		if err != nil {
			return NilValue, err
		}
		inst, ok := object.AsInstance()
		if !ok {
			return NilValue, NewRuntimeError(e.Name, i18n.ErrOnlyInstancesProps, object.TypeName())
		}
		if v, ok := inst.Get(e.Name.Literal); ok {
			return v, nil
		}
		return NilValue, NewRuntimeError(e.Name, i18n.ErrUndefinedProperty, e.Name.Literal)

	case *ast.Set:
		object, err := in.evaluate(e.Object)
		if err != nil {
			return NilValue, err
		}
		inst, ok := object.AsInstance()
		if !ok {
			return NilValue, NewRuntimeError(e.Name, i18n.ErrOnlyInstancesFields, object.TypeName())
		}
		value, err := in.evaluate(e.Value)
		if err != nil {
			return NilValue, err
		}
		inst.Set(e.Name.Literal, value)
		return value, nil

	case *ast.This:
		return in.lookupVariable(e.Keyword, e)

	case *ast.Super:
		return in.evaluateSuper(e)

	case *ast.FunctionLit:
		return NewCallable(NewLambda(e, in.env)), nil
	}

	return NilValue, fmt.Errorf("unknown expression %T", expr)
}

func (in *Interpreter) evaluateUnary(e *ast.Unary) (Value, error) {
	right, err := in.evaluate(e.Right)
	if err != nil {
		return NilValue, err
	}

	switch e.Operator.Type {
	case token.MINUS:
		if right.Type != ValNumber {
			return NilValue, NewRuntimeError(e.Operator, i18n.ErrOperandNumber, e.Operator.Literal, right.TypeName())
		}
		return NewNumber(-right.AsNumber()), nil
	case token.BANG:
		return NewBool(!right.IsTruthy()), nil
	}
	return NilValue, nil
}

func (in *Interpreter) evaluateBinary(e *ast.Binary) (Value, error) {
	left, err := in.evaluate(e.Left)
	if err != nil {
		return NilValue, err
	}
	right, err := in.evaluate(e.Right)
	if err != nil {
		return NilValue, err
	}

	switch e.Operator.Type {
	case token.EQUAL_EQUAL:
		return NewBool(left.Equals(right)), nil
	case token.BANG_EQUAL:
		return NewBool(!left.Equals(right)), nil

	case token.PLUS:
		switch {
		case left.Type == ValNumber && right.Type == ValNumber:
			return NewNumber(left.AsNumber() + right.AsNumber()), nil
		case left.Type == ValString && right.Type == ValString:
			return NewString(left.AsString() + right.AsString()), nil
		}
		return NilValue, NewRuntimeError(e.Operator, i18n.ErrOperandsPlus, left.TypeName(), right.TypeName())
	}

	// 其余运算符只接受数字
	if left.Type != ValNumber || right.Type != ValNumber {
		return NilValue, NewRuntimeError(e.Operator, i18n.ErrOperandsNumbers,
			e.Operator.Literal, left.TypeName(), right.TypeName())
	}
	a, b := left.AsNumber(), right.AsNumber()

	switch e.Operator.Type {
	case token.MINUS:
		return NewNumber(a - b), nil
	case token.STAR:
		return NewNumber(a * b), nil
	case token.SLASH:
		// 除以零遵循 IEEE 754，得到 inf 或 nan
		return NewNumber(a / b), nil
	case token.GREATER:
		return NewBool(a > b), nil
	case token.GREATER_EQUAL:
		return NewBool(a >= b), nil
	case token.LESS:
		return NewBool(a < b), nil
	case token.LESS_EQUAL:
		return NewBool(a <= b), nil
	}
	return NilValue, nil
}

func (in *Interpreter) evaluateCall(e *ast.Call) (Value, error) {
	callee, err := in.evaluate(e.Callee)
	if err != nil {
		return NilValue, err
	}

	args := make([]Value, 0, len(e.Arguments))
	for _, arg := range e.Arguments {
		v, err := in.evaluate(arg)
		if err != nil {
			return NilValue, err
		}
		args = append(args, v)
	}

	fn, ok := callee.AsCallable()
	if !ok {
		return NilValue, NewRuntimeError(e.Paren, i18n.ErrNotCallable, callee.TypeName())
	}
	if len(args) != fn.Arity() {
		return NilValue, NewRuntimeError(e.Paren, i18n.ErrArity, fn.Arity(), len(args))
	}

	return in.call(fn, args, e.Paren)
}

// call 调用并维护调用深度
func (in *Interpreter) call(fn Callable, args []Value, paren token.Token) (Value, error) {
	if in.depth >= in.maxDepth {
		return NilValue, NewRuntimeError(paren, i18n.ErrStackOverflow)
	}
	in.depth++
	defer func() { in.depth-- }()

	v, err := fn.Call(in, args)
	if err == nil {
		return v, nil
	}

	var rtErr *RuntimeError
	if errors.As(err, &rtErr) {
		return NilValue, rtErr
	}

	// 原生函数返回的普通错误，转换为带位置的运行时错误
	name := fn.String()
	if native, ok := fn.(*NativeFunction); ok {
		name = native.Name
	}
	return NilValue, NewRuntimeError(paren, i18n.ErrNativeFailed, name, err)
}

func (in *Interpreter) evaluateSuper(e *ast.Super) (Value, error) {
	distance, ok := in.resolution.Depth(e)
	if !ok {
		return NilValue, NewRuntimeError(e.Keyword, i18n.ErrUndefinedVariable, "super")
	}

	sv, _ := in.env.GetAt(distance, "super")
	superclass, _ := sv.AsClass()
	// this 总是在 super 的内一层
	tv, _ := in.env.GetAt(distance-1, "this")
	inst, _ := tv.AsInstance()
	if superclass == nil || inst == nil {
		return NilValue, NewRuntimeError(e.Keyword, i18n.ErrUndefinedVariable, "super")
	}

	method, ok := superclass.FindMethod(e.Method.Literal)
	if !ok {
		return NilValue, NewRuntimeError(e.Method, i18n.ErrUndefinedProperty, e.Method.Literal)
	}
	return NewCallable(method.Bind(inst)), nil
}

// lookupVariable 按解析结果读取变量，未解析的名字到全局环境中查找
func (in *Interpreter) lookupVariable(name token.Token, expr ast.Expression) (Value, error) {
	if distance, ok := in.resolution.Depth(expr); ok {
		if v, found := in.env.GetAt(distance, name.Literal); found {
			return v, nil
		}
	} else if v, found := in.globals.GetAt(0, name.Literal); found {
		return v, nil
	}
	return NilValue, NewRuntimeError(name, i18n.ErrUndefinedVariable, name.Literal)
}
