package lsp

import (
	"context"
	"strings"

	"github.com/segmentio/encoding/json"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/tangzhangming/lox/internal/ast"
	"github.com/tangzhangming/lox/internal/token"
)

// handleDocumentSymbol 处理文档符号请求
func (s *Server) handleDocumentSymbol(ctx context.Context, call *jsonrpc2.Call) error {
	var p protocol.DocumentSymbolParams
	if err := json.Unmarshal(call.Params(), &p); err != nil {
		return s.replyError(ctx, call, jsonrpc2.NewError(jsonrpc2.InvalidParams, err.Error()))
	}

	doc := s.documents.Get(p.TextDocument.URI)
	if doc == nil {
		return s.reply(ctx, call, []protocol.DocumentSymbol{})
	}
	return s.reply(ctx, call, documentSymbols(doc))
}

// documentSymbols 顶层的类、函数和变量；方法和嵌套函数作为子节点
func documentSymbols(doc *Document) []protocol.DocumentSymbol {
	symbols := []protocol.DocumentSymbol{}
	if doc.Program == nil {
		return symbols
	}

	for _, stmt := range doc.Program.Statements {
		if v, ok := stmt.(*ast.VarStmt); ok {
			symbols = append(symbols, varSymbol(doc, v))
			continue
		}
		symbols = append(symbols, nestedSymbols(doc, stmt)...)
	}
	return symbols
}

// nestedSymbols 收集 node 内部的类和具名函数，不进入它们的函数体
func nestedSymbols(doc *Document, node ast.Node) []protocol.DocumentSymbol {
	var symbols []protocol.DocumentSymbol
	ast.Walk(node, func(n ast.Node) bool {
		switch decl := n.(type) {
		case *ast.FunctionStmt:
			symbols = append(symbols, functionSymbol(doc, decl, protocol.SymbolKindFunction))
			return false
		case *ast.ClassStmt:
			symbols = append(symbols, classSymbol(doc, decl))
			return false
		}
		return true
	})
	return symbols
}

func functionSymbol(doc *Document, fn *ast.FunctionStmt, kind protocol.SymbolKind) protocol.DocumentSymbol {
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p.Literal
	}

	var children []protocol.DocumentSymbol
	for _, stmt := range fn.Body {
		children = append(children, nestedSymbols(doc, stmt)...)
	}

	return protocol.DocumentSymbol{
		Name:           fn.Name.Literal,
		Detail:         "(" + strings.Join(params, ", ") + ")",
		Kind:           kind,
		Range:          doc.declarationRange(fn.Name, token.FUN),
		SelectionRange: doc.tokenRange(fn.Name),
		Children:       children,
	}
}

func classSymbol(doc *Document, class *ast.ClassStmt) protocol.DocumentSymbol {
	var detail string
	if class.Superclass != nil {
		detail = "< " + class.Superclass.Name.Literal
	}

	methods := make([]protocol.DocumentSymbol, 0, len(class.Methods))
	for _, m := range class.Methods {
		kind := protocol.SymbolKindMethod
		if m.Name.Literal == "init" {
			kind = protocol.SymbolKindConstructor
		}
		methods = append(methods, functionSymbol(doc, m, kind))
	}

	return protocol.DocumentSymbol{
		Name:           class.Name.Literal,
		Detail:         detail,
		Kind:           protocol.SymbolKindClass,
		Range:          doc.declarationRange(class.Name, token.CLASS),
		SelectionRange: doc.tokenRange(class.Name),
		Children:       methods,
	}
}

func varSymbol(doc *Document, v *ast.VarStmt) protocol.DocumentSymbol {
	r := doc.tokenRange(v.Name)
	if i := doc.tokenIndex(v.Name.Pos.Offset); i >= 0 {
		if i > 0 && doc.Tokens[i-1].Type == token.VAR {
			r.Start = doc.tokenRange(doc.Tokens[i-1]).Start
		}
		if end := doc.statementEnd(i); end >= 0 {
			r.End = doc.tokenRange(doc.Tokens[end]).End
		}
	}

	return protocol.DocumentSymbol{
		Name:           v.Name.Literal,
		Kind:           protocol.SymbolKindVariable,
		Range:          r,
		SelectionRange: doc.tokenRange(v.Name),
	}
}

// declarationRange 从关键字（方法没有）到函数体或类体的 '}'
func (d *Document) declarationRange(name token.Token, keyword token.TokenType) protocol.Range {
	r := d.tokenRange(name)
	i := d.tokenIndex(name.Pos.Offset)
	if i < 0 {
		return r
	}
	if i > 0 && d.Tokens[i-1].Type == keyword {
		r.Start = d.tokenRange(d.Tokens[i-1]).Start
	}
	if end := d.matchBrace(i); end >= 0 {
		r.End = d.tokenRange(d.Tokens[end]).End
	}
	return r
}

// statementEnd 从 from 开始找括号外的第一个 ';'
func (d *Document) statementEnd(from int) int {
	depth := 0
	for i := from; i < len(d.Tokens); i++ {
		switch d.Tokens[i].Type {
		case token.LPAREN, token.LBRACE:
			depth++
		case token.RPAREN, token.RBRACE:
			depth--
		case token.SEMICOLON:
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
