package lsp

import (
	"context"
	"strings"

	"github.com/segmentio/encoding/json"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/tangzhangming/lox/internal/token"
)

// handleFoldingRange 处理折叠范围请求
func (s *Server) handleFoldingRange(ctx context.Context, call *jsonrpc2.Call) error {
	var p protocol.FoldingRangeParams
	if err := json.Unmarshal(call.Params(), &p); err != nil {
		return s.replyError(ctx, call, jsonrpc2.NewError(jsonrpc2.InvalidParams, err.Error()))
	}

	doc := s.documents.Get(p.TextDocument.URI)
	if doc == nil {
		return s.reply(ctx, call, []protocol.FoldingRange{})
	}
	return s.reply(ctx, call, foldingRanges(doc))
}

// foldingRanges 跨行的 {} 和块注释
//
// '}' 所在行保持可见，所以代码块的 EndLine 是 '}' 的前一行。
func foldingRanges(doc *Document) []protocol.FoldingRange {
	ranges := []protocol.FoldingRange{}

	// 从 token 收集代码块
	var open []token.Token
	for _, tok := range doc.Tokens {
		switch tok.Type {
		case token.LBRACE:
			open = append(open, tok)
		case token.RBRACE:
			if len(open) == 0 {
				continue
			}
			start := open[len(open)-1]
			open = open[:len(open)-1]
			if tok.Pos.Line-1 > start.Pos.Line {
				ranges = append(ranges, protocol.FoldingRange{
					StartLine: uint32(start.Pos.Line - 1),
					EndLine:   uint32(tok.Pos.Line - 2),
				})
			}
		}
	}

	// token 之间的空隙里只有空白和注释
	pos, line := 0, 1
	for _, tok := range doc.Tokens {
		start := tok.Pos.Offset
		if start > pos && start <= len(doc.Text) {
			ranges = append(ranges, commentRanges(doc.Text[pos:start], line)...)
		}
		if tok.Type == token.EOF {
			break
		}
		pos = start + len(tok.Literal)
		line = tok.Pos.Line + strings.Count(tok.Literal, "\n")
	}
	return ranges
}

// commentRanges 在一段空隙文本中找跨行的块注释，line 是 gap 第一行的行号
func commentRanges(gap string, line int) []protocol.FoldingRange {
	var ranges []protocol.FoldingRange
	for {
		begin := strings.Index(gap, "/*")
		if begin < 0 {
			return ranges
		}
		// 行注释里的 "/*" 不算
		if lc := strings.Index(gap, "//"); lc >= 0 && lc < begin {
			nl := strings.IndexByte(gap[lc:], '\n')
			if nl < 0 {
				return ranges
			}
			line += strings.Count(gap[:lc+nl+1], "\n")
			gap = gap[lc+nl+1:]
			continue
		}

		startLine := line + strings.Count(gap[:begin], "\n")
		rest := gap[begin+2:]
		end := strings.Index(rest, "*/")
		if end < 0 {
			end = len(rest)
		}
		endLine := startLine + strings.Count(rest[:end], "\n")
		if endLine > startLine {
			ranges = append(ranges, protocol.FoldingRange{
				StartLine: uint32(startLine - 1),
				EndLine:   uint32(endLine - 1),
				Kind:      protocol.CommentFoldingRange,
			})
		}

		if end+2 > len(rest) {
			return ranges
		}
		line = endLine
		gap = rest[end+2:]
	}
}
