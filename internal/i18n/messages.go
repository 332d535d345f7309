package i18n

// 消息 ID，按阶段分组
const (
	// ========== Lexer ==========
	ErrUnexpectedChar      = "lexer.unexpected_char"
	ErrUnterminatedString  = "lexer.unterminated_string"
	ErrUnterminatedComment = "lexer.unterminated_comment"

	// ========== Parser ==========
	ErrExpectExpression          = "parser.expect_expression"
	ErrExpectSemicolonAfterValue = "parser.expect_semicolon_value"
	ErrExpectSemicolonAfterExpr  = "parser.expect_semicolon_expr"
	ErrExpectSemicolonAfterVar   = "parser.expect_semicolon_var"
	ErrExpectSemicolonAfterRet   = "parser.expect_semicolon_return"
	ErrExpectSemicolonAfterCond  = "parser.expect_semicolon_loop_cond"
	ErrExpectVarName             = "parser.expect_var_name"
	ErrExpectName                = "parser.expect_name"
	ErrExpectClassName           = "parser.expect_class_name"
	ErrExpectSuperclassName      = "parser.expect_superclass_name"
	ErrExpectLBraceClass         = "parser.expect_lbrace_class"
	ErrExpectRBraceClass         = "parser.expect_rbrace_class"
	ErrExpectLParenAfter         = "parser.expect_lparen_after"
	ErrExpectRParenAfter         = "parser.expect_rparen_after"
	ErrExpectLBraceBody          = "parser.expect_lbrace_body"
	ErrExpectRBraceBlock         = "parser.expect_rbrace_block"
	ErrExpectParamName           = "parser.expect_param_name"
	ErrExpectPropertyName        = "parser.expect_property_name"
	ErrExpectDotAfterSuper       = "parser.expect_dot_after_super"
	ErrExpectSuperMethod         = "parser.expect_super_method"
	ErrInvalidAssignTarget       = "parser.invalid_assign_target"
	ErrTooManyArguments          = "parser.too_many_arguments"
	ErrTooManyParameters         = "parser.too_many_parameters"
	ErrNestingTooDeep            = "parser.nesting_too_deep"
	ErrBlockTooDeep              = "parser.block_too_deep"
	ErrTooManyErrors             = "parser.too_many_errors"

	// ========== Resolver ==========
	ErrSelfInitializer   = "resolver.self_initializer"
	ErrAlreadyDeclared   = "resolver.already_declared"
	ErrTopLevelReturn    = "resolver.top_level_return"
	ErrInitializerReturn = "resolver.initializer_return"
	ErrThisOutsideClass  = "resolver.this_outside_class"
	ErrSuperOutsideClass = "resolver.super_outside_class"
	ErrSuperNoSuperclass = "resolver.super_no_superclass"
	ErrInheritSelf       = "resolver.inherit_self"
	WarnUnusedLocal      = "resolver.unused_local"

	// ========== Runtime ==========
	ErrOperandNumber       = "runtime.operand_number"
	ErrOperandsNumbers     = "runtime.operands_numbers"
	ErrOperandsPlus        = "runtime.operands_plus"
	ErrUndefinedVariable   = "runtime.undefined_variable"
	ErrNotCallable         = "runtime.not_callable"
	ErrArity               = "runtime.arity"
	ErrOnlyInstancesProps  = "runtime.only_instances_props"
	ErrOnlyInstancesFields = "runtime.only_instances_fields"
	ErrUndefinedProperty   = "runtime.undefined_property"
	ErrSuperclassNotClass  = "runtime.superclass_not_class"
	ErrStackOverflow       = "runtime.stack_overflow"
	ErrNativeFailed        = "runtime.native_failed"

	// ========== 诊断渲染 ==========
	LabelError   = "label.error"
	LabelWarning = "label.warning"
	LabelAtEnd   = "label.at_end"
	LabelAt      = "label.at"
	LabelHint    = "label.hint"

	HintDidYouMean = "hint.did_you_mean"
)

// messageIDs 所有消息 ID，两种语言的消息表都必须覆盖
var messageIDs = []string{
	ErrUnexpectedChar,
	ErrUnterminatedString,
	ErrUnterminatedComment,
	ErrExpectExpression,
	ErrExpectSemicolonAfterValue,
	ErrExpectSemicolonAfterExpr,
	ErrExpectSemicolonAfterVar,
	ErrExpectSemicolonAfterRet,
	ErrExpectSemicolonAfterCond,
	ErrExpectVarName,
	ErrExpectName,
	ErrExpectClassName,
	ErrExpectSuperclassName,
	ErrExpectLBraceClass,
	ErrExpectRBraceClass,
	ErrExpectLParenAfter,
	ErrExpectRParenAfter,
	ErrExpectLBraceBody,
	ErrExpectRBraceBlock,
	ErrExpectParamName,
	ErrExpectPropertyName,
	ErrExpectDotAfterSuper,
	ErrExpectSuperMethod,
	ErrInvalidAssignTarget,
	ErrTooManyArguments,
	ErrTooManyParameters,
	ErrNestingTooDeep,
	ErrBlockTooDeep,
	ErrTooManyErrors,
	ErrSelfInitializer,
	ErrAlreadyDeclared,
	ErrTopLevelReturn,
	ErrInitializerReturn,
	ErrThisOutsideClass,
	ErrSuperOutsideClass,
	ErrSuperNoSuperclass,
	ErrInheritSelf,
	WarnUnusedLocal,
	ErrOperandNumber,
	ErrOperandsNumbers,
	ErrOperandsPlus,
	ErrUndefinedVariable,
	ErrNotCallable,
	ErrArity,
	ErrOnlyInstancesProps,
	ErrOnlyInstancesFields,
	ErrUndefinedProperty,
	ErrSuperclassNotClass,
	ErrStackOverflow,
	ErrNativeFailed,
	LabelError,
	LabelWarning,
	LabelAtEnd,
	LabelAt,
	LabelHint,
	HintDidYouMean,
}
