package i18n

var messagesZH = map[string]string{
	// ========== Lexer ==========
	ErrUnexpectedChar:      "意外字符 '%c'。",
	ErrUnterminatedString:  "字符串未闭合。",
	ErrUnterminatedComment: "块注释未闭合。",

	// ========== Parser ==========
	ErrExpectExpression:          "此处需要表达式。",
	ErrExpectSemicolonAfterValue: "值后面需要 ';'。",
	ErrExpectSemicolonAfterExpr:  "表达式后面需要 ';'。",
	ErrExpectSemicolonAfterVar:   "变量声明后面需要 ';'。",
	ErrExpectSemicolonAfterRet:   "返回值后面需要 ';'。",
	ErrExpectSemicolonAfterCond:  "循环条件后面需要 ';'。",
	ErrExpectVarName:             "需要变量名。",
	ErrExpectName:                "需要 %s 名称。",
	ErrExpectClassName:           "需要类名。",
	ErrExpectSuperclassName:      "需要父类名。",
	ErrExpectLBraceClass:         "类体前需要 '{'。",
	ErrExpectRBraceClass:         "类体后需要 '}'。",
	ErrExpectLParenAfter:         "%s 后面需要 '('。",
	ErrExpectRParenAfter:         "%s 后面需要 ')'。",
	ErrExpectLBraceBody:          "%s 体前需要 '{'。",
	ErrExpectRBraceBlock:         "代码块后需要 '}'。",
	ErrExpectParamName:           "需要参数名。",
	ErrExpectPropertyName:        "'.' 后面需要属性名。",
	ErrExpectDotAfterSuper:       "'super' 后面需要 '.'。",
	ErrExpectSuperMethod:         "需要父类方法名。",
	ErrInvalidAssignTarget:       "无效的赋值目标。",
	ErrTooManyArguments:          "参数不能超过 %d 个。",
	ErrTooManyParameters:         "形参不能超过 %d 个。",
	ErrNestingTooDeep:            "表达式嵌套过深。",
	ErrBlockTooDeep:              "代码块嵌套过深。",
	ErrTooManyErrors:             "错误过多，停止解析。",

	// ========== Resolver ==========
	ErrSelfInitializer:   "不能在局部变量自身的初始化表达式中读取它。",
	ErrAlreadyDeclared:   "当前作用域中已存在同名变量。",
	ErrTopLevelReturn:    "不能在顶层代码中 return。",
	ErrInitializerReturn: "不能从构造方法 init 中返回值。",
	ErrThisOutsideClass:  "不能在类之外使用 'this'。",
	ErrSuperOutsideClass: "不能在类之外使用 'super'。",
	ErrSuperNoSuperclass: "没有父类的类中不能使用 'super'。",
	ErrInheritSelf:       "类不能继承自身。",
	WarnUnusedLocal:      "局部变量 '%s' 从未使用。",

	// ========== Runtime ==========
	ErrOperandNumber:       "'%s' 的操作数必须是数字，实际为 %s。",
	ErrOperandsNumbers:     "'%s' 的操作数必须是数字，实际为 %s 和 %s。",
	ErrOperandsPlus:        "'+' 的操作数必须同为数字或同为字符串，实际为 %s 和 %s。",
	ErrUndefinedVariable:   "未定义的变量 '%s'。",
	ErrNotCallable:         "只能调用函数和类，实际为 %s。",
	ErrArity:               "需要 %d 个参数，实际传入 %d 个。",
	ErrOnlyInstancesProps:  "只有实例才有属性，实际为 %s。",
	ErrOnlyInstancesFields: "只有实例才有字段，实际为 %s。",
	ErrUndefinedProperty:   "未定义的属性 '%s'。",
	ErrSuperclassNotClass:  "父类必须是类，实际为 %s。",
	ErrStackOverflow:       "栈溢出。",
	ErrNativeFailed:        "原生函数 '%s' 执行失败: %v",

	// ========== 诊断渲染 ==========
	LabelError:   "错误",
	LabelWarning: "警告",
	LabelAtEnd:   " 位于末尾",
	LabelAt:      " 位于 '%s'",
	LabelHint:    "提示",

	HintDidYouMean: "你是不是想用 '%s'？",
}
