package errors

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tangzhangming/lox/internal/i18n"
)

// ============================================================================
// Formatter - 诊断渲染
// ============================================================================
//
// 两种输出：
//
//	纯文本（ShowSource=false）：
//	  [line 3] Error at ';': Expect expression.
//
//	源码摘录（ShowSource=true）：
//	  error[E0007]: Expect expression.
//	   --> main.lox:3:9
//	    |
//	  3 | print 1 +;
//	    |          ^
//	   = hint: ...
//
// ============================================================================

// Formatter 诊断格式化器
type Formatter struct {
	Colors     bool // 是否使用颜色
	ShowSource bool // 是否显示源代码
	ShowHints  bool // 是否显示修复建议
	TabWidth   int  // Tab 宽度
}

// NewFormatter 创建格式化器，颜色跟随终端检测结果
func NewFormatter() *Formatter {
	return &Formatter{
		Colors:     ColorsEnabled(),
		ShowSource: false,
		ShowHints:  true,
		TabWidth:   4,
	}
}

// NewRichFormatter 带源码摘录的格式化器
func NewRichFormatter() *Formatter {
	f := NewFormatter()
	f.ShowSource = true
	return f
}

// Format 格式化单条诊断，不带末尾换行
//
// sourceLines 为诊断所在文件按行切分后的内容，可以为 nil。
func (f *Formatter) Format(d Diagnostic, sourceLines []string) string {
	if !f.ShowSource {
		return f.formatPlain(d)
	}

	var sb strings.Builder

	// 头部: error[E0007]: Expect expression.
	levelStr := f.colorize(d.Severity.String(), f.levelColor(d.Severity))
	codeStr := f.colorize(fmt.Sprintf("[%s]", d.Code), f.levelColor(d.Severity))
	sb.WriteString(fmt.Sprintf("%s%s: %s\n", levelStr, codeStr, d.Message))

	// 位置: --> main.lox:3:9
	arrow := f.colorize("-->", ColorCyan)
	sb.WriteString(fmt.Sprintf(" %s %s", arrow, f.colorize(f.location(d), ColorCyan)))

	if d.Line > 0 && d.Line <= len(sourceLines) {
		sb.WriteByte('\n')
		sb.WriteString(f.formatSourceContext(sourceLines[d.Line-1], d.Line, d.Column, f.markLength(d), d.Severity))
	}

	if f.ShowHints && d.Hint != "" {
		hintLabel := f.colorize(" = "+i18n.T(i18n.LabelHint)+":", ColorCyan)
		sb.WriteString(fmt.Sprintf("\n%s %s", hintLabel, d.Hint))
	}

	return sb.String()
}

// FormatAll 格式化多条诊断，每条之后换行
func (f *Formatter) FormatAll(ds Diagnostics, sourceLines []string) string {
	var sb strings.Builder
	for i, d := range ds {
		if i > 0 && f.ShowSource {
			sb.WriteByte('\n')
		}
		sb.WriteString(f.Format(d, sourceLines))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// formatPlain 纯文本输出只给标签着色，文本本身与 Diagnostic.Error 一致
func (f *Formatter) formatPlain(d Diagnostic) string {
	text := d.Error()
	if !f.Colors {
		return text
	}
	if d.Phase == PhaseRuntime {
		return f.colorize(text, ColorBoldRed)
	}
	label := d.label()
	return strings.Replace(text, label, f.colorize(label, f.levelColor(d.Severity)), 1)
}

func (f *Formatter) location(d Diagnostic) string {
	name := d.Filename
	if name == "" {
		name = "<input>"
	}
	if d.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", name, d.Line, d.Column)
	}
	return fmt.Sprintf("%s:%d", name, d.Line)
}

// markLength 标注长度：有 lexeme 时覆盖整个 lexeme 的第一行
func (f *Formatter) markLength(d Diagnostic) int {
	if d.AtEnd || d.Lexeme == "" {
		return 1
	}
	lex := d.Lexeme
	if i := strings.IndexByte(lex, '\n'); i >= 0 {
		lex = lex[:i]
	}
	if n := utf8.RuneCountInString(lex); n > 0 {
		return n
	}
	return 1
}

// formatSourceContext 输出出错行与 ^ 标注
func (f *Formatter) formatSourceContext(line string, lineNum, col, length int, level Level) string {
	var sb strings.Builder

	lineNumWidth := len(fmt.Sprintf("%d", lineNum))
	pipe := f.colorize(strings.Repeat(" ", lineNumWidth)+" |", ColorBlue)
	sb.WriteString(pipe + "\n")

	text := f.expandTabs(line)
	if f.Colors {
		text = HighlightLine(text)
	}
	num := f.colorize(fmt.Sprintf("%*d |", lineNumWidth, lineNum), ColorBlue)
	sb.WriteString(fmt.Sprintf("%s %s\n", num, text))

	sb.WriteString(pipe)
	if col > 0 {
		actualCol := f.calculateActualColumn(line, col)
		sb.WriteString(strings.Repeat(" ", actualCol+1))
		sb.WriteString(f.colorize(strings.Repeat("^", length), f.levelColor(level)))
	}

	return sb.String()
}

// expandTabs 展开 Tab 为空格
func (f *Formatter) expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", f.TabWidth))
}

// calculateActualColumn 计算实际列位置（考虑 Tab），列号按字符计
func (f *Formatter) calculateActualColumn(line string, col int) int {
	if col <= 0 {
		return 0
	}
	actual := 0
	i := 0
	for _, r := range line {
		if i >= col-1 {
			break
		}
		if r == '\t' {
			actual += f.TabWidth
		} else {
			actual++
		}
		i++
	}
	return actual
}

// levelColor 获取错误级别对应的颜色
func (f *Formatter) levelColor(level Level) Color {
	switch level {
	case LevelError:
		return ColorRed
	case LevelWarning:
		return ColorYellow
	case LevelNote:
		return ColorCyan
	case LevelHelp:
		return ColorGreen
	default:
		return ColorWhite
	}
}

func (f *Formatter) colorize(s string, color Color) string {
	if !f.Colors {
		return s
	}
	return Colorize(s, color)
}

// SplitLines 按行切分源码，供 Format 使用
func SplitLines(source string) []string {
	source = strings.ReplaceAll(source, "\r\n", "\n")
	return strings.Split(source, "\n")
}
