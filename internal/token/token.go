package token

import "fmt"

// ============================================================================
// Token 类型定义
// ============================================================================
//
// TokenType 使用 iota 自动编号，按类别分组：
// 1. 特殊标记（ILLEGAL, EOF）
// 2. 字面量（标识符、数字、字符串）
// 3. 单字符 / 双字符运算符与分隔符
// 4. 关键字（保留字表中的 16 个单词）
//
// ============================================================================

// TokenType 表示 Token 的类型
type TokenType int

const (
	// ----------------------------------------------------------
	// 特殊标记
	// ----------------------------------------------------------
	ILLEGAL TokenType = iota // 非法字符
	EOF                      // 文件结束

	// ----------------------------------------------------------
	// 字面量
	// ----------------------------------------------------------
	IDENT  // 标识符
	NUMBER // 数字字面量（始终为 float64）
	STRING // 字符串字面量

	// ----------------------------------------------------------
	// 单字符分隔符 / 运算符
	// ----------------------------------------------------------
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	COMMA     // ,
	DOT       // .
	MINUS     // -
	PLUS      // +
	SEMICOLON // ;
	SLASH     // /
	STAR      // *

	// ----------------------------------------------------------
	// 单字符或双字符运算符
	// ----------------------------------------------------------
	BANG          // !
	BANG_EQUAL    // !=
	EQUAL         // =
	EQUAL_EQUAL   // ==
	GREATER       // >
	GREATER_EQUAL // >=
	LESS          // <
	LESS_EQUAL    // <=

	// ----------------------------------------------------------
	// 关键字
	// ----------------------------------------------------------
	keyword_beg // 关键字起始标记（不是实际 token）
	AND         // and
	CLASS       // class
	ELSE        // else
	FALSE       // false
	FUN         // fun
	FOR         // for
	IF          // if
	NIL         // nil
	OR          // or
	PRINT       // print
	RETURN      // return
	SUPER       // super
	THIS        // this
	TRUE        // true
	VAR         // var
	WHILE       // while
	keyword_end // 关键字结束标记（不是实际 token）
)

// ============================================================================
// Token 类型名称映射
// ============================================================================

var tokenNames = map[TokenType]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",

	IDENT:  "IDENT",
	NUMBER: "NUMBER",
	STRING: "STRING",

	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	COMMA:     ",",
	DOT:       ".",
	MINUS:     "-",
	PLUS:      "+",
	SEMICOLON: ";",
	SLASH:     "/",
	STAR:      "*",

	BANG:          "!",
	BANG_EQUAL:    "!=",
	EQUAL:         "=",
	EQUAL_EQUAL:   "==",
	GREATER:       ">",
	GREATER_EQUAL: ">=",
	LESS:          "<",
	LESS_EQUAL:    "<=",

	AND:    "and",
	CLASS:  "class",
	ELSE:   "else",
	FALSE:  "false",
	FUN:    "fun",
	FOR:    "for",
	IF:     "if",
	NIL:    "nil",
	OR:     "or",
	PRINT:  "print",
	RETURN: "return",
	SUPER:  "super",
	THIS:   "this",
	TRUE:   "true",
	VAR:    "var",
	WHILE:  "while",
}

// ============================================================================
// 关键字查找表
// ============================================================================
//
// keywords 将保留字映射到对应的 TokenType。
// 保留字优先于标识符分类。
//
// ============================================================================

var keywords = map[string]TokenType{
	"and":    AND,
	"class":  CLASS,
	"else":   ELSE,
	"false":  FALSE,
	"fun":    FUN,
	"for":    FOR,
	"if":     IF,
	"nil":    NIL,
	"or":     OR,
	"print":  PRINT,
	"return": RETURN,
	"super":  SUPER,
	"this":   THIS,
	"true":   TRUE,
	"var":    VAR,
	"while":  WHILE,
}

// LookupIdent 查找标识符是否为关键字
//
// 返回:
//   - TokenType: 如果是关键字返回对应类型，否则返回 IDENT
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword 判断 TokenType 是否为关键字
func IsKeyword(t TokenType) bool {
	return t > keyword_beg && t < keyword_end
}

// Keywords 返回全部保留字（REPL 补全使用）
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for t := keyword_beg + 1; t < keyword_end; t++ {
		out = append(out, tokenNames[t])
	}
	return out
}

// String 返回 TokenType 的字符串表示
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", t)
}

// ============================================================================
// Position - 源代码位置
// ============================================================================

// Position 表示源代码中的位置
type Position struct {
	Filename string // 文件名
	Line     int    // 行号 (从1开始)
	Column   int    // 列号 (从1开始)
	Offset   int    // 字节偏移量 (从0开始)
}

// String 返回位置的字符串表示，格式为 "filename:line:column"
func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid 检查位置是否有效
func (p Position) IsValid() bool {
	return p.Line > 0
}

// ============================================================================
// Token - 词法单元
// ============================================================================

// Token 表示一个词法单元
//
// Token 一旦产生就不再修改：
// - Type: token 类型
// - Literal: 源码中的原始文本（lexeme）
// - Value: 字面量的值（NUMBER 为 float64，STRING 为去掉引号的 string）
// - Pos: 在源代码中的位置
type Token struct {
	Type    TokenType   // Token 类型
	Literal string      // 原始字面量
	Value   interface{} // 解析后的值 (用于数字、字符串)
	Pos     Position    // 位置信息
}

// String 返回 Token 的字符串表示（用于调试）
func (t Token) String() string {
	switch t.Type {
	case IDENT, NUMBER, STRING:
		return fmt.Sprintf("%s(%s) at %s", t.Type, t.Literal, t.Pos)
	default:
		return fmt.Sprintf("%s at %s", t.Type, t.Pos)
	}
}

// New 创建一个新的 Token
func New(tokenType TokenType, literal string, pos Position) Token {
	return Token{
		Type:    tokenType,
		Literal: literal,
		Pos:     pos,
	}
}

// NewWithValue 创建一个带值的 Token
//
// 用于数字和字符串字面量，value 参数存储解析后的实际值。
func NewWithValue(tokenType TokenType, literal string, value interface{}, pos Position) Token {
	return Token{
		Type:    tokenType,
		Literal: literal,
		Value:   value,
		Pos:     pos,
	}
}
