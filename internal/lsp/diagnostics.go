package lsp

import (
	"unicode/utf8"

	"go.lsp.dev/protocol"

	"github.com/tangzhangming/lox/internal/errors"
)

// diagnosticSource 诊断来源名
const diagnosticSource = "lox"

// getDiagnostics 把文档的诊断转换成 LSP 格式，警告使用 Warning 级别
func (s *Server) getDiagnostics(doc *Document) []protocol.Diagnostic {
	diagnostics := make([]protocol.Diagnostic, 0, len(doc.Diagnostics))
	for _, d := range doc.Diagnostics {
		diagnostics = append(diagnostics, toProtocolDiagnostic(doc, d))
	}
	return diagnostics
}

func toProtocolDiagnostic(doc *Document, d errors.Diagnostic) protocol.Diagnostic {
	start := doc.position(d.Line, d.Column)
	end := start
	switch {
	case d.AtEnd:
		// 文件末尾没有可以标注的字符
	case d.Lexeme != "":
		end.Character += uint32(utf16Len(d.Lexeme, firstLineRunes(d.Lexeme)))
	default:
		end.Character++
	}

	diag := protocol.Diagnostic{
		Range:    protocol.Range{Start: start, End: end},
		Severity: severityOf(d.Severity),
		Source:   diagnosticSource,
		Message:  d.Message,
	}
	if d.Code != "" {
		diag.Code = d.Code
	}
	return diag
}

func severityOf(level errors.Level) protocol.DiagnosticSeverity {
	switch level {
	case errors.LevelWarning:
		return protocol.DiagnosticSeverityWarning
	case errors.LevelNote:
		return protocol.DiagnosticSeverityInformation
	case errors.LevelHelp:
		return protocol.DiagnosticSeverityHint
	default:
		return protocol.DiagnosticSeverityError
	}
}

// firstLineRunes 多行 lexeme（字符串字面量）只标注第一行
func firstLineRunes(s string) int {
	n := 0
	for _, r := range s {
		if r == '\n' {
			break
		}
		n++
	}
	if n == 0 && utf8.RuneCountInString(s) > 0 {
		return 1
	}
	return n
}
