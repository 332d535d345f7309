package interpreter

import (
	"github.com/tangzhangming/lox/internal/ast"
)

// ValueType 值类型
type ValueType byte

const (
	ValNil ValueType = iota
	ValBool
	ValNumber
	ValString
	ValCallable // 原生函数、用户函数、绑定方法
	ValClass
	ValInstance
)

var valueTypeNames = [...]string{
	ValNil:      "nil",
	ValBool:     "boolean",
	ValNumber:   "number",
	ValString:   "string",
	ValCallable: "function",
	ValClass:    "class",
	ValInstance: "instance",
}

// String 类型名，用于运行时错误信息
func (t ValueType) String() string {
	if int(t) < len(valueTypeNames) {
		return valueTypeNames[t]
	}
	return "unknown"
}

// Value 运行时值
//
// Data 的具体类型由 Type 决定：
//   - ValBool: bool
//   - ValNumber: float64
//   - ValString: string
//   - ValCallable: Callable
//   - ValClass: *Class
//   - ValInstance: *Instance
type Value struct {
	Type ValueType
	Data interface{}
}

// 预定义常量值
var (
	NilValue   = Value{Type: ValNil}
	TrueValue  = Value{Type: ValBool, Data: true}
	FalseValue = Value{Type: ValBool, Data: false}
)

// NewBool 创建布尔值
func NewBool(b bool) Value {
	if b {
		return TrueValue
	}
	return FalseValue
}

// NewNumber 创建数字值
func NewNumber(n float64) Value {
	return Value{Type: ValNumber, Data: n}
}

// NewString 创建字符串值
func NewString(s string) Value {
	return Value{Type: ValString, Data: s}
}

// NewCallable 创建可调用值；*Class 会得到 ValClass 类型
func NewCallable(c Callable) Value {
	if class, ok := c.(*Class); ok {
		return Value{Type: ValClass, Data: class}
	}
	return Value{Type: ValCallable, Data: c}
}

// NewInstance 创建实例值
func NewInstance(inst *Instance) Value {
	return Value{Type: ValInstance, Data: inst}
}

// FromLiteral 把解析器产生的字面量转换为运行时值
func FromLiteral(v interface{}) Value {
	switch val := v.(type) {
	case bool:
		return NewBool(val)
	case float64:
		return NewNumber(val)
	case string:
		return NewString(val)
	default:
		return NilValue
	}
}

// IsNil 检查是否为 nil
func (v Value) IsNil() bool {
	return v.Type == ValNil
}

// IsTruthy 只有 nil 和 false 为假，0 和空字符串都为真
func (v Value) IsTruthy() bool {
	switch v.Type {
	case ValNil:
		return false
	case ValBool:
		return v.Data.(bool)
	default:
		return true
	}
}

// AsNumber 获取数字值
func (v Value) AsNumber() float64 {
	if n, ok := v.Data.(float64); ok {
		return n
	}
	return 0
}

// AsString 获取字符串值
func (v Value) AsString() string {
	if s, ok := v.Data.(string); ok {
		return s
	}
	return ""
}

// AsCallable 获取可调用对象（类也是可调用的）
func (v Value) AsCallable() (Callable, bool) {
	switch v.Type {
	case ValCallable:
		return v.Data.(Callable), true
	case ValClass:
		return v.Data.(*Class), true
	}
	return nil, false
}

// AsClass 获取类对象
func (v Value) AsClass() (*Class, bool) {
	c, ok := v.Data.(*Class)
	return c, ok && v.Type == ValClass
}

// AsInstance 获取实例对象
func (v Value) AsInstance() (*Instance, bool) {
	inst, ok := v.Data.(*Instance)
	return inst, ok && v.Type == ValInstance
}

// String 返回值的显示文本（print 语句的输出）
func (v Value) String() string {
	switch v.Type {
	case ValNil:
		return "nil"
	case ValBool:
		if v.Data.(bool) {
			return "true"
		}
		return "false"
	case ValNumber:
		return ast.FormatNumber(v.Data.(float64))
	case ValString:
		return v.Data.(string)
	case ValCallable:
		return v.Data.(Callable).String()
	case ValClass:
		return v.Data.(*Class).String()
	case ValInstance:
		return v.Data.(*Instance).String()
	default:
		return "<unknown>"
	}
}

// Equals 比较两个值
//
// nil 只等于 nil；数字、字符串、布尔按值比较；
// 函数、类、实例按身份比较。不同类型的值永不相等，不做隐式转换。
func (v Value) Equals(other Value) bool {
	if v.Type != other.Type {
		return false
	}

	switch v.Type {
	case ValNil:
		return true
	case ValBool:
		return v.Data.(bool) == other.Data.(bool)
	case ValNumber:
		return v.Data.(float64) == other.Data.(float64)
	case ValString:
		return v.Data.(string) == other.Data.(string)
	default:
		// 指针（或包含指针的接口）比较即身份比较
		return v.Data == other.Data
	}
}

// TypeName 值的类型名
func (v Value) TypeName() string {
	return v.Type.String()
}
