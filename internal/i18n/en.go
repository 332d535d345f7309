package i18n

var messagesEN = map[string]string{
	// ========== Lexer ==========
	ErrUnexpectedChar:      "Unexpected character '%c'.",
	ErrUnterminatedString:  "Unterminated string.",
	ErrUnterminatedComment: "Unterminated block comment.",

	// ========== Parser ==========
	ErrExpectExpression:          "Expect expression.",
	ErrExpectSemicolonAfterValue: "Expect ';' after value.",
	ErrExpectSemicolonAfterExpr:  "Expect ';' after expression.",
	ErrExpectSemicolonAfterVar:   "Expect ';' after variable declaration.",
	ErrExpectSemicolonAfterRet:   "Expect ';' after return value.",
	ErrExpectSemicolonAfterCond:  "Expect ';' after loop condition.",
	ErrExpectVarName:             "Expect variable name.",
	ErrExpectName:                "Expect %s name.",
	ErrExpectClassName:           "Expect class name.",
	ErrExpectSuperclassName:      "Expect superclass name.",
	ErrExpectLBraceClass:         "Expect '{' before class body.",
	ErrExpectRBraceClass:         "Expect '}' after class body.",
	ErrExpectLParenAfter:         "Expect '(' after %s.",
	ErrExpectRParenAfter:         "Expect ')' after %s.",
	ErrExpectLBraceBody:          "Expect '{' before %s body.",
	ErrExpectRBraceBlock:         "Expect '}' after block.",
	ErrExpectParamName:           "Expect parameter name.",
	ErrExpectPropertyName:        "Expect property name after '.'.",
	ErrExpectDotAfterSuper:       "Expect '.' after 'super'.",
	ErrExpectSuperMethod:         "Expect superclass method name.",
	ErrInvalidAssignTarget:       "Invalid assignment target.",
	ErrTooManyArguments:          "Can't have more than %d arguments.",
	ErrTooManyParameters:         "Can't have more than %d parameters.",
	ErrNestingTooDeep:            "Expression nesting too deep.",
	ErrBlockTooDeep:              "Block nesting too deep.",
	ErrTooManyErrors:             "Too many errors, aborting.",

	// ========== Resolver ==========
	ErrSelfInitializer:   "Can't read local variable in its own initializer.",
	ErrAlreadyDeclared:   "Already a variable with this name in this scope.",
	ErrTopLevelReturn:    "Can't return from top-level code.",
	ErrInitializerReturn: "Can't return a value from an initializer.",
	ErrThisOutsideClass:  "Can't use 'this' outside of a class.",
	ErrSuperOutsideClass: "Can't use 'super' outside of a class.",
	ErrSuperNoSuperclass: "Can't use 'super' in a class with no superclass.",
	ErrInheritSelf:       "A class can't inherit from itself.",
	WarnUnusedLocal:      "Local variable '%s' is never used.",

	// ========== Runtime ==========
	ErrOperandNumber:       "Operand of '%s' must be a number, got %s.",
	ErrOperandsNumbers:     "Operands of '%s' must be numbers, got %s and %s.",
	ErrOperandsPlus:        "Operands of '+' must be two numbers or two strings, got %s and %s.",
	ErrUndefinedVariable:   "Undefined variable '%s'.",
	ErrNotCallable:         "Can only call functions and classes, got %s.",
	ErrArity:               "Expected %d arguments but got %d.",
	ErrOnlyInstancesProps:  "Only instances have properties, got %s.",
	ErrOnlyInstancesFields: "Only instances have fields, got %s.",
	ErrUndefinedProperty:   "Undefined property '%s'.",
	ErrSuperclassNotClass:  "Superclass must be a class, got %s.",
	ErrStackOverflow:       "Stack overflow.",
	ErrNativeFailed:        "Native function '%s' failed: %v",

	// ========== 诊断渲染 ==========
	LabelError:   "Error",
	LabelWarning: "Warning",
	LabelAtEnd:   " at end",
	LabelAt:      " at '%s'",
	LabelHint:    "hint",

	HintDidYouMean: "Did you mean '%s'?",
}
