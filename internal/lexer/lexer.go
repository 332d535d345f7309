package lexer

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/tangzhangming/lox/internal/i18n"
	"github.com/tangzhangming/lox/internal/token"
)

// ============================================================================
// Lexer - 词法分析器
// ============================================================================
//
// 词法分析器负责将源代码字符串转换为 Token 序列。
//
// 规则：
// 1. 最长匹配：`!=` 优先于 `!` 加 `=`
// 2. 跳过空白、`//` 行注释和 `/* */` 块注释（块注释不嵌套）
// 3. 字符串以 `"` 包围，可以跨行，不处理转义
// 4. 数字为 `digits ('.' digits)?`，统一解析为 float64
// 5. 非法字符记录错误后继续扫描，不产生 token
//
// ============================================================================

// Lexer 词法分析器结构体
type Lexer struct {
	source   string        // 源代码字符串
	filename string        // 源文件名（用于错误报告）
	tokens   []token.Token // 已扫描的 Token 列表

	start     int // 当前 Token 的起始位置（字节偏移）
	current   int // 当前扫描位置（字节偏移）
	line      int // 当前行号（从1开始）
	column    int // 当前列号（从1开始）
	startLine int // 当前 Token 起始行
	startCol  int // 当前 Token 起始列

	errors []Error // 词法错误列表
}

// Error 表示词法分析错误
type Error struct {
	Pos     token.Position // 错误位置
	ID      string         // 消息 ID
	Message string         // 错误信息
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// New 创建一个新的词法分析器
//
// 预分配 tokens 切片容量，经验值为 源码长度/5。
func New(source, filename string) *Lexer {
	estimatedTokens := len(source) / 5
	if estimatedTokens < 16 {
		estimatedTokens = 16
	}

	return &Lexer{
		source:   source,
		filename: filename,
		tokens:   make([]token.Token, 0, estimatedTokens),
		line:     1,
		column:   1,
	}
}

// ============================================================================
// 公共方法
// ============================================================================

// ScanTokens 扫描所有 tokens
//
// 最后一个 Token 总是 EOF，语法分析器因此无需做越界检查。
func (l *Lexer) ScanTokens() []token.Token {
	for !l.isAtEnd() {
		l.markStart()
		l.scanToken()
	}

	l.markStart()
	l.tokens = append(l.tokens, token.Token{
		Type: token.EOF,
		Pos:  l.currentPos(),
	})

	return l.tokens
}

// Errors 返回所有词法错误
func (l *Lexer) Errors() []Error {
	return l.errors
}

// HasErrors 检查是否有错误
func (l *Lexer) HasErrors() bool {
	return len(l.errors) > 0
}

// ============================================================================
// 核心扫描逻辑
// ============================================================================

func (l *Lexer) scanToken() {
	ch := l.advance()

	switch ch {
	case ' ', '\t', '\r':
		// 空白
	case '\n':
		l.newLine()

	case '(':
		l.addToken(token.LPAREN)
	case ')':
		l.addToken(token.RPAREN)
	case '{':
		l.addToken(token.LBRACE)
	case '}':
		l.addToken(token.RBRACE)
	case ',':
		l.addToken(token.COMMA)
	case '.':
		l.addToken(token.DOT)
	case '-':
		l.addToken(token.MINUS)
	case '+':
		l.addToken(token.PLUS)
	case ';':
		l.addToken(token.SEMICOLON)
	case '*':
		l.addToken(token.STAR)

	case '!':
		l.addToken(l.choose('=', token.BANG_EQUAL, token.BANG))
	case '=':
		l.addToken(l.choose('=', token.EQUAL_EQUAL, token.EQUAL))
	case '<':
		l.addToken(l.choose('=', token.LESS_EQUAL, token.LESS))
	case '>':
		l.addToken(l.choose('=', token.GREATER_EQUAL, token.GREATER))

	case '/':
		switch {
		case l.match('/'):
			l.lineComment()
		case l.match('*'):
			l.blockComment()
		default:
			l.addToken(token.SLASH)
		}

	case '"':
		l.string()

	default:
		switch {
		case isDigit(ch):
			l.number()
		case isAlpha(ch):
			l.identifier()
		default:
			l.error(i18n.ErrUnexpectedChar, ch)
		}
	}
}

// choose 双字符运算符：下一个字符为 expected 时返回 two，否则返回 one
func (l *Lexer) choose(expected rune, two, one token.TokenType) token.TokenType {
	if l.match(expected) {
		return two
	}
	return one
}

// lineComment 跳过到行尾（换行符留给主循环处理行号）
func (l *Lexer) lineComment() {
	for !l.isAtEnd() && l.peek() != '\n' {
		l.advance()
	}
}

// blockComment 跳过 /* ... */，不支持嵌套
func (l *Lexer) blockComment() {
	for !l.isAtEnd() {
		if l.peek() == '*' && l.peekNext() == '/' {
			l.advance()
			l.advance()
			return
		}
		if l.advance() == '\n' {
			l.newLine()
		}
	}
	l.error(i18n.ErrUnterminatedComment)
}

// string 扫描字符串字面量
//
// 不处理转义，反斜杠就是普通字符。未闭合的字符串在起始行报告。
func (l *Lexer) string() {
	for !l.isAtEnd() && l.peek() != '"' {
		if l.advance() == '\n' {
			l.newLine()
		}
	}

	if l.isAtEnd() {
		l.error(i18n.ErrUnterminatedString)
		return
	}

	// 闭合的引号
	l.advance()

	value := l.source[l.start+1 : l.current-1]
	l.addTokenWithValue(token.STRING, value)
}

// number 扫描数字字面量
//
// 小数点后必须跟数字，"1." 扫描为 NUMBER 后接 DOT。
func (l *Lexer) number() {
	for isDigit(l.peek()) {
		l.advance()
	}

	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance() // 消费 '.'
		for isDigit(l.peek()) {
			l.advance()
		}
	}

	literal := l.source[l.start:l.current]
	// 文本只含数字和一个小数点，唯一可能的错误是溢出，此时值为 +Inf
	value, _ := strconv.ParseFloat(literal, 64)
	l.addTokenWithValue(token.NUMBER, value)
}

// identifier 扫描标识符或关键字
func (l *Lexer) identifier() {
	for isAlphaNumeric(l.peek()) {
		l.advance()
	}

	text := l.source[l.start:l.current]
	l.addToken(token.LookupIdent(text))
}

// ============================================================================
// 底层字符操作
// ============================================================================

func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

// advance 前进一个字符并返回它，ASCII 走快速路径
func (l *Lexer) advance() rune {
	if l.current >= len(l.source) {
		return 0
	}

	b := l.source[l.current]
	if b < utf8.RuneSelf {
		l.current++
		l.column++
		return rune(b)
	}

	r, size := utf8.DecodeRuneInString(l.source[l.current:])
	l.current += size
	l.column++
	return r
}

func (l *Lexer) peek() rune {
	if l.current >= len(l.source) {
		return 0
	}
	b := l.source[l.current]
	if b < utf8.RuneSelf {
		return rune(b)
	}
	r, _ := utf8.DecodeRuneInString(l.source[l.current:])
	return r
}

// peekNext 查看下一个字符（只用于 ASCII 判断）
func (l *Lexer) peekNext() rune {
	if l.current+1 >= len(l.source) {
		return 0
	}
	return rune(l.source[l.current+1])
}

func (l *Lexer) match(expected rune) bool {
	if l.isAtEnd() || l.peek() != expected {
		return false
	}
	l.advance()
	return true
}

// ============================================================================
// 位置追踪
// ============================================================================

func (l *Lexer) newLine() {
	l.line++
	l.column = 1
}

func (l *Lexer) markStart() {
	l.start = l.current
	l.startLine = l.line
	l.startCol = l.column
}

// currentPos 当前 token 的起始位置
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Filename: l.filename,
		Line:     l.startLine,
		Column:   l.startCol,
		Offset:   l.start,
	}
}

// ============================================================================
// Token 生成
// ============================================================================

func (l *Lexer) addToken(tokenType token.TokenType) {
	l.tokens = append(l.tokens, token.Token{
		Type:    tokenType,
		Literal: l.source[l.start:l.current],
		Pos:     l.currentPos(),
	})
}

func (l *Lexer) addTokenWithValue(tokenType token.TokenType, value interface{}) {
	l.tokens = append(l.tokens, token.Token{
		Type:    tokenType,
		Literal: l.source[l.start:l.current],
		Value:   value,
		Pos:     l.currentPos(),
	})
}

// error 记录一个词法错误
//
// 错误会被收集起来，不会中断扫描，也不会向 token 流中插入 ILLEGAL。
func (l *Lexer) error(msgID string, args ...interface{}) {
	l.errors = append(l.errors, Error{
		Pos:     l.currentPos(),
		ID:      msgID,
		Message: i18n.T(msgID, args...),
	})
}

// ============================================================================
// 字符分类函数
// ============================================================================

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

// isAlpha 判断是否为 ASCII 字母或下划线
func isAlpha(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		ch == '_'
}

func isAlphaNumeric(ch rune) bool {
	return isAlpha(ch) || isDigit(ch)
}
