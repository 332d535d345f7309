package interpreter

import (
	"fmt"

	"github.com/tangzhangming/lox/internal/ast"
	"github.com/tangzhangming/lox/internal/token"
)

// Callable 可调用对象：原生函数、用户函数（含绑定方法）、类
type Callable interface {
	// Arity 参数个数
	Arity() int
	// Call 调用，参数个数已由调用方校验
	Call(in *Interpreter, args []Value) (Value, error)
	String() string
}

// ============================================================================
// 原生函数
// ============================================================================

// NativeFn 原生函数的实现
type NativeFn func(in *Interpreter, args []Value) (Value, error)

// NativeFunction 由宿主实现的函数
type NativeFunction struct {
	Name  string
	arity int
	fn    NativeFn
}

// NewNativeFunction 创建原生函数
func NewNativeFunction(name string, arity int, fn NativeFn) *NativeFunction {
	return &NativeFunction{Name: name, arity: arity, fn: fn}
}

func (n *NativeFunction) Arity() int { return n.arity }

func (n *NativeFunction) Call(in *Interpreter, args []Value) (Value, error) {
	return n.fn(in, args)
}

func (n *NativeFunction) String() string {
	return fmt.Sprintf("<native fn %s>", n.Name)
}

// ============================================================================
// 用户函数
// ============================================================================

// Function 用户定义的函数、匿名函数或方法
//
// closure 是函数定义处的环境。方法通过 Bind 得到一个新的 Function，
// 其 closure 是一个只包含 this 的环境，外层才是类定义处的环境。
type Function struct {
	Name          string // 匿名函数为空
	Params        []token.Token
	Body          []ast.Statement
	closure       *Environment
	IsInitializer bool
}

// NewFunction 创建具名函数
func NewFunction(decl *ast.FunctionStmt, closure *Environment, isInitializer bool) *Function {
	return &Function{
		Name:          decl.Name.Literal,
		Params:        decl.Params,
		Body:          decl.Body,
		closure:       closure,
		IsInitializer: isInitializer,
	}
}

// NewLambda 创建匿名函数
func NewLambda(lit *ast.FunctionLit, closure *Environment) *Function {
	return &Function{
		Params:  lit.Params,
		Body:    lit.Body,
		closure: closure,
	}
}

func (f *Function) Arity() int { return len(f.Params) }

// Bind 把方法绑定到实例，this 被注入为新的外层环境
func (f *Function) Bind(inst *Instance) *Function {
	env := NewEnvironment(f.closure)
	env.Define("this", NewInstance(inst))
	return &Function{
		Name:          f.Name,
		Params:        f.Params,
		Body:          f.Body,
		closure:       env,
		IsInitializer: f.IsInitializer,
	}
}

// Call 在以 closure 为外层的新环境中执行函数体
//
// 初始化器无论是否显式 return，总是返回 this。
func (f *Function) Call(in *Interpreter, args []Value) (Value, error) {
	env := NewEnvironment(f.closure)
	for i, param := range f.Params {
		env.Define(param.Literal, args[i])
	}

	result, err := in.executeBlock(f.Body, env)
	if err != nil {
		return NilValue, err
	}

	if f.IsInitializer {
		this, _ := f.closure.GetAt(0, "this")
		return this, nil
	}
	if result.kind == flowReturn {
		return result.value, nil
	}
	return NilValue, nil
}

func (f *Function) String() string {
	if f.Name == "" {
		return "<fn>"
	}
	return fmt.Sprintf("<fn %s>", f.Name)
}
