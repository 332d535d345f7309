package errors

import (
	"os"
	"regexp"
	"runtime"
	"strings"

	"github.com/tangzhangming/lox/internal/lexer"
	"github.com/tangzhangming/lox/internal/token"
)

// Color 终端颜色
type Color int

const (
	ColorReset Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBoldRed
	ColorBoldYellow
	ColorBoldCyan
)

// ANSI 颜色代码
var ansiCodes = map[Color]string{
	ColorReset:      "\033[0m",
	ColorRed:        "\033[31m",
	ColorGreen:      "\033[32m",
	ColorYellow:     "\033[33m",
	ColorBlue:       "\033[34m",
	ColorMagenta:    "\033[35m",
	ColorCyan:       "\033[36m",
	ColorWhite:      "\033[37m",
	ColorBoldRed:    "\033[1;31m",
	ColorBoldYellow: "\033[1;33m",
	ColorBoldCyan:   "\033[1;36m",
}

// colorsEnabled 是否启用颜色
var colorsEnabled = detectColorSupport(os.Stderr)

// detectColorSupport 检测诊断输出的终端是否支持颜色
func detectColorSupport(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	term := os.Getenv("TERM")
	if term == "dumb" {
		return false
	}

	if runtime.GOOS == "windows" {
		// Windows Terminal / ConEmu / ANSICON
		return term != "" || os.Getenv("WT_SESSION") != "" ||
			os.Getenv("ConEmuANSI") == "ON" || os.Getenv("ANSICON") != ""
	}

	// 重定向到文件或管道时不输出颜色
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// ColorsEnabled 检查颜色是否启用
func ColorsEnabled() bool {
	return colorsEnabled
}

// SetColorsEnabled 设置颜色启用状态
func SetColorsEnabled(enabled bool) {
	colorsEnabled = enabled
}

// Colorize 着色字符串
func Colorize(s string, color Color) string {
	if s == "" {
		return s
	}
	return ansiCodes[color] + s + ansiCodes[ColorReset]
}

var ansiPattern = regexp.MustCompile("\033\\[[0-9;]*m")

// Strip 去掉字符串中的 ANSI 颜色代码
func Strip(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// ============================================================================
// 代码语法高亮
// ============================================================================
//
// 直接复用词法分析器切分源码行，token 之间的文本（空白、注释、
// 无法识别的字符）原样输出。
//
// ============================================================================

// HighlightLine 高亮一行 Lox 源码
func HighlightLine(line string) string {
	tokens := lexer.New(line, "").ScanTokens()

	var sb strings.Builder
	pos := 0
	for _, tok := range tokens {
		if tok.Type == token.EOF {
			break
		}
		start := tok.Pos.Offset
		if start > pos {
			sb.WriteString(highlightGap(line[pos:start]))
		}
		sb.WriteString(colorForToken(tok))
		pos = start + len(tok.Literal)
	}
	if pos < len(line) {
		sb.WriteString(highlightGap(line[pos:]))
	}
	return sb.String()
}

func colorForToken(tok token.Token) string {
	switch {
	case token.IsKeyword(tok.Type):
		return Colorize(tok.Literal, ColorYellow)
	case tok.Type == token.STRING:
		return Colorize(tok.Literal, ColorGreen)
	case tok.Type == token.NUMBER:
		return Colorize(tok.Literal, ColorMagenta)
	case tok.Type == token.IDENT:
		return tok.Literal
	default:
		return Colorize(tok.Literal, ColorRed)
	}
}

// highlightGap 注释整体着色，其余原样
func highlightGap(s string) string {
	if i := strings.Index(s, "/"); i >= 0 && strings.TrimSpace(s) != "" {
		return s[:i] + Colorize(s[i:], ColorWhite)
	}
	return s
}
