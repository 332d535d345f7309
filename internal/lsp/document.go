package lsp

import (
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/tangzhangming/lox/internal/ast"
	"github.com/tangzhangming/lox/internal/errors"
	"github.com/tangzhangming/lox/internal/runtime"
	"github.com/tangzhangming/lox/internal/token"
)

// Document 表示一个打开的文档
//
// 每次内容变化都重新扫描、解析和静态分析，不执行代码。
type Document struct {
	URI     protocol.DocumentURI
	Version int32
	Text    string
	Lines   []string // 按行分割的内容

	// 分析结果
	Tokens      []token.Token
	Program     *ast.Program
	Diagnostics errors.Diagnostics
}

// DocumentManager 文档管理器
type DocumentManager struct {
	documents map[protocol.DocumentURI]*Document
	runtime   *runtime.Runtime
	mu        sync.RWMutex
}

// NewDocumentManager 创建文档管理器，rt 只用于静态检查
func NewDocumentManager(rt *runtime.Runtime) *DocumentManager {
	return &DocumentManager{
		documents: make(map[protocol.DocumentURI]*Document),
		runtime:   rt,
	}
}

// Open 打开文档
func (dm *DocumentManager) Open(u protocol.DocumentURI, text string, version int32) *Document {
	doc := dm.analyze(u, text, version)

	dm.mu.Lock()
	dm.documents[u] = doc
	dm.mu.Unlock()
	return doc
}

// Update 用完整内容替换文档；未打开的文档按打开处理
func (dm *DocumentManager) Update(u protocol.DocumentURI, text string, version int32) *Document {
	return dm.Open(u, text, version)
}

// Close 关闭文档
func (dm *DocumentManager) Close(u protocol.DocumentURI) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	delete(dm.documents, u)
}

// Get 获取文档，未打开时返回 nil
func (dm *DocumentManager) Get(u protocol.DocumentURI) *Document {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.documents[u]
}

// Len 打开的文档数量
func (dm *DocumentManager) Len() int {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return len(dm.documents)
}

func (dm *DocumentManager) analyze(u protocol.DocumentURI, text string, version int32) *Document {
	filename := filenameOf(u)
	prog, diags := dm.runtime.Check(text, filename)
	tokens, _ := dm.runtime.Tokens(text, filename)

	return &Document{
		URI:         u,
		Version:     version,
		Text:        text,
		Lines:       errors.SplitLines(text),
		Tokens:      tokens,
		Program:     prog,
		Diagnostics: diags,
	}
}

// filenameOf file:// URI 转成本地路径，其它 scheme 原样使用
func filenameOf(u protocol.DocumentURI) string {
	if strings.HasPrefix(string(u), uri.FileScheme+"://") {
		return uri.URI(u).Filename()
	}
	return string(u)
}

// ============================================================================
// 位置换算
// ============================================================================
//
// 词法分析器的行列从 1 开始，列按字符计；LSP 的行列从 0 开始，
// 列按 UTF-16 码元计。
//
// ============================================================================

// position 把 1 开始的行列换算成 LSP 位置
func (d *Document) position(line, column int) protocol.Position {
	if line < 1 {
		return protocol.Position{}
	}
	pos := protocol.Position{Line: uint32(line - 1)}
	if column < 1 || line > len(d.Lines) {
		return pos
	}
	pos.Character = uint32(utf16Len(d.Lines[line-1], column-1))
	return pos
}

// tokenRange token 第一行所覆盖的范围
func (d *Document) tokenRange(tok token.Token) protocol.Range {
	start := d.position(tok.Pos.Line, tok.Pos.Column)
	lex := tok.Literal
	if i := strings.IndexByte(lex, '\n'); i >= 0 {
		lex = lex[:i]
	}
	end := start
	end.Character += uint32(utf16Len(lex, utf8.RuneCountInString(lex)))
	return protocol.Range{Start: start, End: end}
}

// tokenIndex 按字节偏移查找 token，找不到时返回 -1
func (d *Document) tokenIndex(offset int) int {
	i := sort.Search(len(d.Tokens), func(i int) bool {
		return d.Tokens[i].Pos.Offset >= offset
	})
	if i < len(d.Tokens) && d.Tokens[i].Pos.Offset == offset {
		return i
	}
	return -1
}

// matchBrace 从 from 开始找第一个 '{'，返回与之配对的 '}' 的下标
func (d *Document) matchBrace(from int) int {
	depth := 0
	for i := from; i < len(d.Tokens); i++ {
		switch d.Tokens[i].Type {
		case token.LBRACE:
			depth++
		case token.RBRACE:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// utf16Len s 前 runes 个字符的 UTF-16 长度
func utf16Len(s string, runes int) int {
	n := 0
	for _, r := range s {
		if runes == 0 {
			break
		}
		// utf16.RuneLen is Go 1.23+; same result for runes from ranging a string
		if r >= 0x10000 && r <= unicode.MaxRune {
			n += 2
		} else {
			n++
		}
		runes--
	}
	return n
}
