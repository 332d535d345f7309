// Package lsp 实现 Lox 的语言服务器
//
// 支持的请求：
//   - initialize / initialized / shutdown / exit
//   - textDocument/didOpen、didChange、didClose、didSave（全量同步）
//   - textDocument/documentSymbol
//   - textDocument/foldingRange
//
// 打开或修改文档时只做静态检查（扫描、解析、静态分析），并推送
// textDocument/publishDiagnostics。
package lsp

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"

	"github.com/segmentio/encoding/json"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/tangzhangming/lox/internal/runtime"
)

const serverName = "loxls"

// ErrExitWithoutShutdown 客户端没有先发送 shutdown 就发送了 exit
var ErrExitWithoutShutdown = stderrors.New("exit received before shutdown")

// Server LSP 服务器
type Server struct {
	// 文档管理
	documents *DocumentManager

	// 输入输出
	stream jsonrpc2.Stream
	mu     sync.Mutex

	logger  *zap.Logger
	version string

	// 服务器状态
	initialized *atomic.Bool
	shutdown    *atomic.Bool
	requests    *atomic.Int64
}

// NewServer 创建 LSP 服务器，conn 上使用 Content-Length 分帧
func NewServer(conn io.ReadWriteCloser, logger *zap.Logger, version string) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	rt := runtime.New(runtime.WithLogger(logger.Named("runtime")))
	return &Server{
		documents:   NewDocumentManager(rt),
		stream:      jsonrpc2.NewStream(conn),
		logger:      logger,
		version:     version,
		initialized: atomic.NewBool(false),
		shutdown:    atomic.NewBool(false),
		requests:    atomic.NewInt64(0),
	}
}

// Documents 返回文档管理器
func (s *Server) Documents() *DocumentManager {
	return s.documents
}

// Run 启动 LSP 服务器主循环
//
// 连接关闭或收到 exit 时返回；exit 之前没有 shutdown 时返回
// ErrExitWithoutShutdown。
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("server started", zap.String("version", s.version))
	defer s.stream.Close()

	for {
		msg, _, err := s.stream.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if isDisconnect(err) {
				s.logger.Info("client disconnected", zap.Int64("requests", s.requests.Load()))
				return nil
			}
			// 格式错误的消息跳过，连接继续
			s.logger.Warn("read message failed", zap.Error(err))
			continue
		}

		exit, err := s.handleMessage(ctx, msg)
		if err != nil {
			s.logger.Error("write message failed", zap.Error(err))
			return err
		}
		if exit {
			s.logger.Info("server exit", zap.Int64("requests", s.requests.Load()))
			if !s.shutdown.Load() {
				return ErrExitWithoutShutdown
			}
			return nil
		}
	}
}

func isDisconnect(err error) bool {
	return stderrors.Is(err, io.EOF) ||
		stderrors.Is(err, io.ErrUnexpectedEOF) ||
		stderrors.Is(err, io.ErrClosedPipe) ||
		stderrors.Is(err, net.ErrClosed) ||
		stderrors.Is(err, os.ErrClosed)
}

// handleMessage 处理一条消息，返回 true 表示收到 exit
func (s *Server) handleMessage(ctx context.Context, msg jsonrpc2.Message) (bool, error) {
	switch m := msg.(type) {
	case *jsonrpc2.Call:
		s.requests.Inc()
		s.logger.Debug("request", zap.String("method", m.Method()))
		return false, s.handleCall(ctx, m)

	case *jsonrpc2.Notification:
		s.logger.Debug("notification", zap.String("method", m.Method()))
		if m.Method() == protocol.MethodExit {
			return true, nil
		}
		return false, s.handleNotification(ctx, m)

	default:
		// 服务器不发请求，不会有响应需要处理
		s.logger.Debug("ignored message", zap.String("type", fmt.Sprintf("%T", msg)))
		return false, nil
	}
}

// handleCall 处理请求，每个请求都有且只有一个响应
func (s *Server) handleCall(ctx context.Context, call *jsonrpc2.Call) error {
	if call.Method() == protocol.MethodInitialize {
		return s.handleInitialize(ctx, call)
	}
	if !s.initialized.Load() {
		return s.replyError(ctx, call, jsonrpc2.NewError(jsonrpc2.ServerNotInitialized, "server not initialized"))
	}
	if s.shutdown.Load() {
		return s.replyError(ctx, call, jsonrpc2.NewError(jsonrpc2.InvalidRequest, "server is shutting down"))
	}

	switch call.Method() {
	case protocol.MethodShutdown:
		s.shutdown.Store(true)
		return s.reply(ctx, call, nil)
	case protocol.MethodTextDocumentDocumentSymbol:
		return s.handleDocumentSymbol(ctx, call)
	case protocol.MethodTextDocumentFoldingRange:
		return s.handleFoldingRange(ctx, call)
	default:
		return s.replyError(ctx, call, jsonrpc2.NewError(jsonrpc2.MethodNotFound, "method not found: "+call.Method()))
	}
}

// handleNotification 处理通知；初始化之前的通知直接丢弃
func (s *Server) handleNotification(ctx context.Context, n *jsonrpc2.Notification) error {
	if !s.initialized.Load() {
		return nil
	}

	switch n.Method() {
	case protocol.MethodInitialized:
		s.logger.Info("client initialized")
		return nil
	case protocol.MethodTextDocumentDidOpen:
		return s.handleDidOpen(ctx, n)
	case protocol.MethodTextDocumentDidChange:
		return s.handleDidChange(ctx, n)
	case protocol.MethodTextDocumentDidClose:
		return s.handleDidClose(ctx, n)
	case protocol.MethodTextDocumentDidSave:
		return s.handleDidSave(ctx, n)
	default:
		return nil
	}
}

// ============================================================================
// 生命周期
// ============================================================================

// handleInitialize 处理初始化请求
func (s *Server) handleInitialize(ctx context.Context, call *jsonrpc2.Call) error {
	var p protocol.InitializeParams
	if err := json.Unmarshal(call.Params(), &p); err != nil {
		return s.replyError(ctx, call, jsonrpc2.NewError(jsonrpc2.InvalidParams, err.Error()))
	}
	if s.initialized.Swap(true) {
		return s.replyError(ctx, call, jsonrpc2.NewError(jsonrpc2.InvalidRequest, "server already initialized"))
	}

	fields := []zap.Field{zap.Int32("pid", p.ProcessID)}
	if p.ClientInfo != nil {
		fields = append(fields, zap.String("client", p.ClientInfo.Name), zap.String("clientVersion", p.ClientInfo.Version))
	}
	s.logger.Info("initialize", fields...)

	return s.reply(ctx, call, protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
				Save:      &protocol.SaveOptions{IncludeText: true},
			},
			DocumentSymbolProvider: true,
			FoldingRangeProvider:   true,
		},
		ServerInfo: &protocol.ServerInfo{
			Name:    serverName,
			Version: s.version,
		},
	})
}

// ============================================================================
// 文档同步
// ============================================================================

func (s *Server) handleDidOpen(ctx context.Context, n *jsonrpc2.Notification) error {
	var p protocol.DidOpenTextDocumentParams
	if err := json.Unmarshal(n.Params(), &p); err != nil {
		s.logger.Warn("invalid didOpen params", zap.Error(err))
		return nil
	}

	doc := s.documents.Open(p.TextDocument.URI, p.TextDocument.Text, p.TextDocument.Version)
	return s.publishDiagnostics(ctx, doc)
}

func (s *Server) handleDidChange(ctx context.Context, n *jsonrpc2.Notification) error {
	var p protocol.DidChangeTextDocumentParams
	if err := json.Unmarshal(n.Params(), &p); err != nil {
		s.logger.Warn("invalid didChange params", zap.Error(err))
		return nil
	}
	if len(p.ContentChanges) == 0 {
		return nil
	}

	// 全量同步：最后一个变更就是完整内容
	text := p.ContentChanges[len(p.ContentChanges)-1].Text
	doc := s.documents.Update(p.TextDocument.URI, text, p.TextDocument.Version)
	return s.publishDiagnostics(ctx, doc)
}

func (s *Server) handleDidClose(ctx context.Context, n *jsonrpc2.Notification) error {
	var p protocol.DidCloseTextDocumentParams
	if err := json.Unmarshal(n.Params(), &p); err != nil {
		s.logger.Warn("invalid didClose params", zap.Error(err))
		return nil
	}

	s.documents.Close(p.TextDocument.URI)

	// 清空已关闭文档的诊断
	return s.notify(ctx, protocol.MethodTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         p.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
}

func (s *Server) handleDidSave(ctx context.Context, n *jsonrpc2.Notification) error {
	var p protocol.DidSaveTextDocumentParams
	if err := json.Unmarshal(n.Params(), &p); err != nil {
		s.logger.Warn("invalid didSave params", zap.Error(err))
		return nil
	}

	doc := s.documents.Get(p.TextDocument.URI)
	if doc == nil || p.Text == "" || p.Text == doc.Text {
		return nil
	}
	doc = s.documents.Update(p.TextDocument.URI, p.Text, doc.Version)
	return s.publishDiagnostics(ctx, doc)
}

// publishDiagnostics 推送文档的诊断
func (s *Server) publishDiagnostics(ctx context.Context, doc *Document) error {
	diagnostics := s.getDiagnostics(doc)
	s.logger.Debug("publish diagnostics",
		zap.String("uri", string(doc.URI)),
		zap.Int("count", len(diagnostics)))

	params := &protocol.PublishDiagnosticsParams{
		URI:         doc.URI,
		Diagnostics: diagnostics,
	}
	if doc.Version > 0 {
		params.Version = uint32(doc.Version)
	}
	return s.notify(ctx, protocol.MethodTextDocumentPublishDiagnostics, params)
}

// ============================================================================
// 消息发送
// ============================================================================

// reply 发送成功响应
func (s *Server) reply(ctx context.Context, call *jsonrpc2.Call, result interface{}) error {
	resp, err := jsonrpc2.NewResponse(call.ID(), result, nil)
	if err != nil {
		return fmt.Errorf("marshal %s result: %w", call.Method(), err)
	}
	return s.write(ctx, resp)
}

// replyError 发送错误响应
func (s *Server) replyError(ctx context.Context, call *jsonrpc2.Call, rpcErr *jsonrpc2.Error) error {
	s.logger.Debug("reply error", zap.String("method", call.Method()), zap.Error(rpcErr))
	resp, err := jsonrpc2.NewResponse(call.ID(), nil, rpcErr)
	if err != nil {
		return err
	}
	return s.write(ctx, resp)
}

// notify 发送通知
func (s *Server) notify(ctx context.Context, method string, params interface{}) error {
	n, err := jsonrpc2.NewNotification(method, params)
	if err != nil {
		return fmt.Errorf("marshal %s params: %w", method, err)
	}
	return s.write(ctx, n)
}

func (s *Server) write(ctx context.Context, msg jsonrpc2.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.stream.Write(ctx, msg)
	return err
}
