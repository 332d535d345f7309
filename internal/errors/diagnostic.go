package errors

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/tangzhangming/lox/internal/i18n"
	"github.com/tangzhangming/lox/internal/interpreter"
	"github.com/tangzhangming/lox/internal/lexer"
	"github.com/tangzhangming/lox/internal/parser"
	"github.com/tangzhangming/lox/internal/resolver"
)

// 进程退出码（sysexits 约定）
const (
	ExitOK      = 0
	ExitUsage   = 64
	ExitStatic  = 65
	ExitRuntime = 70
	ExitIO      = 74
)

// ============================================================================
// Diagnostic - 统一的诊断记录
// ============================================================================

// Diagnostic 一条带位置的诊断
//
// 四个阶段的错误都被转换成 Diagnostic，渲染与退出码只看这里。
type Diagnostic struct {
	Phase    Phase
	Code     string
	Severity Level
	Filename string
	Line     int // 从 1 开始
	Column   int // 从 1 开始，0 表示未知
	Lexeme   string
	AtEnd    bool // 错误发生在文件末尾
	Message  string
	Hint     string
}

// Error 返回纯文本形式
//
//	静态阶段: [line N] Error at 'x': msg
//	运行时:   msg\n[line N]
func (d Diagnostic) Error() string {
	if d.Phase == PhaseRuntime {
		return fmt.Sprintf("%s\n[line %d]", d.Message, d.Line)
	}
	return fmt.Sprintf("[line %d] %s%s: %s", d.Line, d.label(), d.where(), d.Message)
}

func (d Diagnostic) label() string {
	if d.Severity == LevelWarning {
		return i18n.T(i18n.LabelWarning)
	}
	return i18n.T(i18n.LabelError)
}

// where 词法错误没有 token，不输出位置片段
func (d Diagnostic) where() string {
	switch {
	case d.Phase == PhaseScan:
		return ""
	case d.AtEnd:
		return i18n.T(i18n.LabelAtEnd)
	default:
		return i18n.T(i18n.LabelAt, d.Lexeme)
	}
}

// IsError 是否为错误级别
func (d Diagnostic) IsError() bool {
	return d.Severity == LevelError
}

// ============================================================================
// Diagnostics - 诊断列表
// ============================================================================

// Diagnostics 一次运行产生的全部诊断，按产生顺序排列
type Diagnostics []Diagnostic

// HasErrors 是否包含错误级别的诊断（警告不算）
func (ds Diagnostics) HasErrors() bool {
	for _, d := range ds {
		if d.IsError() {
			return true
		}
	}
	return false
}

// Errors 只保留错误级别
func (ds Diagnostics) Errors() Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.IsError() {
			out = append(out, d)
		}
	}
	return out
}

// Warnings 只保留警告级别
func (ds Diagnostics) Warnings() Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Severity == LevelWarning {
			out = append(out, d)
		}
	}
	return out
}

// ExitCode 运行时错误为 70，静态错误为 65，否则为 0
func (ds Diagnostics) ExitCode() int {
	code := ExitOK
	for _, d := range ds {
		if !d.IsError() {
			continue
		}
		if d.Phase == PhaseRuntime {
			return ExitRuntime
		}
		code = ExitStatic
	}
	return code
}

// Err 把所有错误级别的诊断合并成一个 error，没有错误时返回 nil
func (ds Diagnostics) Err() error {
	var err error
	for _, d := range ds {
		if d.IsError() {
			err = multierr.Append(err, d)
		}
	}
	return err
}

// String 每条诊断一行（运行时诊断本身占两行）
func (ds Diagnostics) String() string {
	var sb strings.Builder
	for _, d := range ds {
		sb.WriteString(d.Error())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ============================================================================
// 各阶段错误到 Diagnostic 的转换
// ============================================================================

// FromLexer 转换词法错误
func FromLexer(errs []lexer.Error) Diagnostics {
	out := make(Diagnostics, 0, len(errs))
	for _, e := range errs {
		out = append(out, Diagnostic{
			Phase:    PhaseScan,
			Code:     CodeFor(e.ID, PhaseScan),
			Severity: LevelError,
			Filename: e.Pos.Filename,
			Line:     e.Pos.Line,
			Column:   e.Pos.Column,
			Message:  e.Message,
		})
	}
	return out
}

// FromParser 转换语法错误
func FromParser(errs []parser.Error) Diagnostics {
	out := make(Diagnostics, 0, len(errs))
	for _, e := range errs {
		out = append(out, Diagnostic{
			Phase:    PhaseParse,
			Code:     CodeFor(e.ID, PhaseParse),
			Severity: LevelError,
			Filename: e.Pos.Filename,
			Line:     e.Pos.Line,
			Column:   e.Pos.Column,
			Lexeme:   e.Lexeme,
			AtEnd:    e.AtEnd,
			Message:  e.Message,
		})
	}
	return out
}

// FromResolver 转换静态分析的错误和警告
func FromResolver(errs []resolver.Error, warnings []resolver.Warning) Diagnostics {
	out := make(Diagnostics, 0, len(errs)+len(warnings))
	for _, e := range errs {
		out = append(out, Diagnostic{
			Phase:    PhaseResolve,
			Code:     CodeFor(e.ID, PhaseResolve),
			Severity: LevelError,
			Filename: e.Pos.Filename,
			Line:     e.Pos.Line,
			Column:   e.Pos.Column,
			Lexeme:   e.Lexeme,
			Message:  e.Message,
		})
	}
	for _, w := range warnings {
		out = append(out, Diagnostic{
			Phase:    PhaseResolve,
			Code:     CodeFor(w.ID, PhaseResolve),
			Severity: LevelWarning,
			Filename: w.Pos.Filename,
			Line:     w.Pos.Line,
			Column:   w.Pos.Column,
			Lexeme:   w.Lexeme,
			Message:  w.Message,
		})
	}
	return out
}

// FromRuntime 转换运行时错误
func FromRuntime(err *interpreter.RuntimeError) Diagnostic {
	return Diagnostic{
		Phase:    PhaseRuntime,
		Code:     CodeFor(err.ID, PhaseRuntime),
		Severity: LevelError,
		Filename: err.Token.Pos.Filename,
		Line:     err.Token.Pos.Line,
		Column:   err.Token.Pos.Column,
		Lexeme:   err.Token.Literal,
		Message:  err.Message,
	}
}
