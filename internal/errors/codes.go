// Package errors 提供 Lox 解释器的诊断系统：错误码、诊断收集与渲染
package errors

import "github.com/tangzhangming/lox/internal/i18n"

// ============================================================================
// 错误级别
// ============================================================================

// Level 错误级别
type Level int

const (
	LevelError   Level = iota // 错误
	LevelWarning              // 警告
	LevelNote                 // 提示
	LevelHelp                 // 帮助
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelNote:
		return "note"
	case LevelHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ============================================================================
// 阶段
// ============================================================================

// Phase 产生诊断的流水线阶段
type Phase int

const (
	PhaseScan Phase = iota
	PhaseParse
	PhaseResolve
	PhaseRuntime
)

func (p Phase) String() string {
	switch p {
	case PhaseScan:
		return "scan"
	case PhaseParse:
		return "parse"
	case PhaseResolve:
		return "resolve"
	case PhaseRuntime:
		return "runtime"
	default:
		return "unknown"
	}
}

// ParsePhase 按名字查找阶段（测试夹具使用）
func ParsePhase(name string) (Phase, bool) {
	switch name {
	case "scan":
		return PhaseScan, true
	case "parse":
		return PhaseParse, true
	case "resolve":
		return PhaseResolve, true
	case "runtime":
		return PhaseRuntime, true
	}
	return 0, false
}

// Static 扫描、解析与静态分析阶段统称为静态阶段
func (p Phase) Static() bool {
	return p != PhaseRuntime
}

// ============================================================================
// 静态错误码 (E 开头) 与警告 (W 开头)
// ============================================================================

const (
	// E0001-E0099: 词法与语法错误
	E0001 = "E0001" // 语法错误
	E0002 = "E0002" // 意外的字符
	E0003 = "E0003" // 未闭合的字符串
	E0004 = "E0004" // 未闭合的注释
	E0006 = "E0006" // 期望的 token
	E0007 = "E0007" // 期望表达式
	E0008 = "E0008" // 无效的赋值目标
	E0009 = "E0009" // 参数过多
	E0010 = "E0010" // 嵌套过深
	E0011 = "E0011" // 错误过多

	// E0100-E0199: 作用域错误
	E0100 = "E0100" // 作用域错误
	E0101 = "E0101" // 变量重复声明
	E0102 = "E0102" // 在自身初始化式中读取变量

	// E0300-E0399: 函数错误
	E0307 = "E0307" // 顶层 return
	E0308 = "E0308" // 初始化方法返回值

	// E0400-E0499: 类错误
	E0405 = "E0405" // this 在类外使用
	E0406 = "E0406" // super 在类外使用
	E0407 = "E0407" // super 在没有父类的类中使用
	E0408 = "E0408" // 类继承自身

	W0001 = "W0001" // 未使用的局部变量
)

// ============================================================================
// 运行时错误码 (R 开头)
// ============================================================================

const (
	R0001 = "R0001" // 运行时错误

	// R0200-R0299: 类型错误
	R0201 = "R0201" // 操作数必须是数字
	R0202 = "R0202" // 操作数都必须是数字
	R0203 = "R0203" // + 的操作数类型不匹配

	// R0300-R0399: 对象错误
	R0302 = "R0302" // 只有实例有字段
	R0303 = "R0303" // 只有实例有属性
	R0305 = "R0305" // 未定义的属性
	R0308 = "R0308" // 调用了不可调用的值
	R0309 = "R0309" // 父类不是类

	// R0400-R0499: 调用错误
	R0400 = "R0400" // 栈溢出
	R0401 = "R0401" // 参数数量错误

	R0500 = "R0500" // 未定义的变量
	R0600 = "R0600" // 原生函数失败
)

// ErrorInfo 错误码的元信息
type ErrorInfo struct {
	Code  string
	Title string // 简短标题
	Phase Phase
	Level Level
}

// codeTable 消息 ID -> 错误码
var codeTable = map[string]ErrorInfo{
	i18n.ErrUnexpectedChar:      {E0002, "unexpected character", PhaseScan, LevelError},
	i18n.ErrUnterminatedString:  {E0003, "unterminated string", PhaseScan, LevelError},
	i18n.ErrUnterminatedComment: {E0004, "unterminated comment", PhaseScan, LevelError},

	i18n.ErrExpectSemicolonAfterValue: {E0006, "expected token", PhaseParse, LevelError},
	i18n.ErrExpectSemicolonAfterExpr:  {E0006, "expected token", PhaseParse, LevelError},
	i18n.ErrExpectSemicolonAfterVar:   {E0006, "expected token", PhaseParse, LevelError},
	i18n.ErrExpectSemicolonAfterRet:   {E0006, "expected token", PhaseParse, LevelError},
	i18n.ErrExpectSemicolonAfterCond:  {E0006, "expected token", PhaseParse, LevelError},
	i18n.ErrExpectVarName:             {E0006, "expected token", PhaseParse, LevelError},
	i18n.ErrExpectName:                {E0006, "expected token", PhaseParse, LevelError},
	i18n.ErrExpectClassName:           {E0006, "expected token", PhaseParse, LevelError},
	i18n.ErrExpectSuperclassName:      {E0006, "expected token", PhaseParse, LevelError},
	i18n.ErrExpectLBraceClass:         {E0006, "expected token", PhaseParse, LevelError},
	i18n.ErrExpectRBraceClass:         {E0006, "expected token", PhaseParse, LevelError},
	i18n.ErrExpectLParenAfter:         {E0006, "expected token", PhaseParse, LevelError},
	i18n.ErrExpectRParenAfter:         {E0006, "expected token", PhaseParse, LevelError},
	i18n.ErrExpectLBraceBody:          {E0006, "expected token", PhaseParse, LevelError},
	i18n.ErrExpectRBraceBlock:         {E0006, "expected token", PhaseParse, LevelError},
	i18n.ErrExpectParamName:           {E0006, "expected token", PhaseParse, LevelError},
	i18n.ErrExpectPropertyName:        {E0006, "expected token", PhaseParse, LevelError},
	i18n.ErrExpectDotAfterSuper:       {E0006, "expected token", PhaseParse, LevelError},
	i18n.ErrExpectSuperMethod:         {E0006, "expected token", PhaseParse, LevelError},
	i18n.ErrExpectExpression:          {E0007, "expected expression", PhaseParse, LevelError},
	i18n.ErrInvalidAssignTarget:       {E0008, "invalid assignment target", PhaseParse, LevelError},
	i18n.ErrTooManyArguments:          {E0009, "too many arguments", PhaseParse, LevelError},
	i18n.ErrTooManyParameters:         {E0009, "too many parameters", PhaseParse, LevelError},
	i18n.ErrNestingTooDeep:            {E0010, "nesting too deep", PhaseParse, LevelError},
	i18n.ErrBlockTooDeep:              {E0010, "nesting too deep", PhaseParse, LevelError},
	i18n.ErrTooManyErrors:             {E0011, "too many errors", PhaseParse, LevelError},

	i18n.ErrAlreadyDeclared:   {E0101, "variable redeclared", PhaseResolve, LevelError},
	i18n.ErrSelfInitializer:   {E0102, "read in own initializer", PhaseResolve, LevelError},
	i18n.ErrTopLevelReturn:    {E0307, "return outside function", PhaseResolve, LevelError},
	i18n.ErrInitializerReturn: {E0308, "value returned from initializer", PhaseResolve, LevelError},
	i18n.ErrThisOutsideClass:  {E0405, "this outside class", PhaseResolve, LevelError},
	i18n.ErrSuperOutsideClass: {E0406, "super outside class", PhaseResolve, LevelError},
	i18n.ErrSuperNoSuperclass: {E0407, "super without superclass", PhaseResolve, LevelError},
	i18n.ErrInheritSelf:       {E0408, "class inherits from itself", PhaseResolve, LevelError},
	i18n.WarnUnusedLocal:      {W0001, "unused local variable", PhaseResolve, LevelWarning},

	i18n.ErrOperandNumber:       {R0201, "operand must be a number", PhaseRuntime, LevelError},
	i18n.ErrOperandsNumbers:     {R0202, "operands must be numbers", PhaseRuntime, LevelError},
	i18n.ErrOperandsPlus:        {R0203, "bad operands for '+'", PhaseRuntime, LevelError},
	i18n.ErrOnlyInstancesFields: {R0302, "only instances have fields", PhaseRuntime, LevelError},
	i18n.ErrOnlyInstancesProps:  {R0303, "only instances have properties", PhaseRuntime, LevelError},
	i18n.ErrUndefinedProperty:   {R0305, "undefined property", PhaseRuntime, LevelError},
	i18n.ErrNotCallable:         {R0308, "value is not callable", PhaseRuntime, LevelError},
	i18n.ErrSuperclassNotClass:  {R0309, "superclass is not a class", PhaseRuntime, LevelError},
	i18n.ErrStackOverflow:       {R0400, "stack overflow", PhaseRuntime, LevelError},
	i18n.ErrArity:               {R0401, "wrong number of arguments", PhaseRuntime, LevelError},
	i18n.ErrUndefinedVariable:   {R0500, "undefined variable", PhaseRuntime, LevelError},
	i18n.ErrNativeFailed:        {R0600, "native function failed", PhaseRuntime, LevelError},
}

// LookupMessage 按消息 ID 查找错误码信息
func LookupMessage(msgID string) (ErrorInfo, bool) {
	info, ok := codeTable[msgID]
	return info, ok
}

// CodeFor 返回消息 ID 对应的错误码，未登记的 ID 使用阶段的通用码
func CodeFor(msgID string, phase Phase) string {
	if info, ok := codeTable[msgID]; ok {
		return info.Code
	}
	switch phase {
	case PhaseResolve:
		return E0100
	case PhaseRuntime:
		return R0001
	default:
		return E0001
	}
}

// IsCompilerError 检查是否为静态错误码
func IsCompilerError(code string) bool {
	return len(code) == 5 && code[0] == 'E'
}

// IsRuntimeError 检查是否为运行时错误码
func IsRuntimeError(code string) bool {
	return len(code) == 5 && code[0] == 'R'
}
