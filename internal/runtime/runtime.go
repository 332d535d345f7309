// Package runtime 把词法分析、语法分析、静态分析和解释执行串成一条流水线。
package runtime

import (
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/tangzhangming/lox/internal/ast"
	"github.com/tangzhangming/lox/internal/errors"
	"github.com/tangzhangming/lox/internal/interpreter"
	"github.com/tangzhangming/lox/internal/lexer"
	"github.com/tangzhangming/lox/internal/parser"
	"github.com/tangzhangming/lox/internal/resolver"
	"github.com/tangzhangming/lox/internal/token"
)

// Runtime Lox 运行时
//
// 同一个 Runtime 上的多次 Run 共享全局环境。
type Runtime struct {
	interp   *interpreter.Interpreter
	logger   *zap.Logger
	stdout   io.Writer
	maxDepth int
	warnings bool
}

// Option 运行时选项
type Option func(*Runtime)

// WithStdout 设置 print 的输出
func WithStdout(w io.Writer) Option {
	return func(r *Runtime) { r.stdout = w }
}

// WithLogger 设置日志
func WithLogger(l *zap.Logger) Option {
	return func(r *Runtime) { r.logger = l }
}

// WithMaxCallDepth 设置最大调用深度
func WithMaxCallDepth(n int) Option {
	return func(r *Runtime) { r.maxDepth = n }
}

// WithWarnings Run 的结果是否包含警告
func WithWarnings(enabled bool) Option {
	return func(r *Runtime) { r.warnings = enabled }
}

// New 创建运行时
func New(opts ...Option) *Runtime {
	r := &Runtime{
		logger:   zap.NewNop(),
		stdout:   os.Stdout,
		maxDepth: interpreter.DefaultMaxCallDepth,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.Reset()
	return r
}

// Reset 丢弃全部全局状态
func (r *Runtime) Reset() {
	r.interp = interpreter.New(interpreter.Options{
		Stdout:       r.stdout,
		MaxCallDepth: r.maxDepth,
		Logger:       r.logger,
	})
}

// Interpreter 返回底层解释器（注册原生函数用）
func (r *Runtime) Interpreter() *interpreter.Interpreter {
	return r.interp
}

// ============================================================================
// 流水线
// ============================================================================

// Run 运行源代码
//
// 扫描和解析的错误一起报告；有静态错误时不执行。运行时错误会中止
// 本次执行，之前的输出保留。
func (r *Runtime) Run(source, filename string) errors.Diagnostics {
	prog, res, diags := r.analyze(source, filename)
	if !r.warnings {
		diags = diags.Errors()
	}
	if diags.HasErrors() {
		return diags
	}

	start := time.Now()
	err := r.interp.Interpret(prog, res)
	r.logger.Debug("interpret",
		zap.String("file", filename),
		zap.Duration("elapsed", time.Since(start)),
		zap.Bool("ok", err == nil))
	if err == nil {
		return diags
	}

	var d errors.Diagnostic
	if rtErr, ok := err.(*interpreter.RuntimeError); ok {
		d = errors.FromRuntime(rtErr)
	} else {
		d = errors.Diagnostic{
			Phase:    errors.PhaseRuntime,
			Code:     errors.R0001,
			Severity: errors.LevelError,
			Filename: filename,
			Message:  err.Error(),
		}
	}
	diags = append(diags, d)
	errors.AddHints(diags, r.interp.Globals().Names())
	return diags
}

// Check 只做扫描、解析和静态分析，返回的诊断包含警告
func (r *Runtime) Check(source, filename string) (*ast.Program, errors.Diagnostics) {
	prog, _, diags := r.analyze(source, filename)
	return prog, diags
}

// Tokens 只做词法分析
func (r *Runtime) Tokens(source, filename string) ([]token.Token, errors.Diagnostics) {
	l := lexer.New(source, filename)
	tokens := l.ScanTokens()
	return tokens, errors.FromLexer(l.Errors())
}

// Parse 只做词法和语法分析
func (r *Runtime) Parse(source, filename string) (*ast.Program, errors.Diagnostics) {
	start := time.Now()
	prog, lexErrs, parseErrs := parser.ParseSource(source, filename)
	diags := append(errors.FromLexer(lexErrs), errors.FromParser(parseErrs)...)
	r.logger.Debug("parse",
		zap.String("file", filename),
		zap.Int("statements", len(prog.Statements)),
		zap.Int("errors", len(diags)),
		zap.Duration("elapsed", time.Since(start)))
	return prog, diags
}

// analyze 扫描 + 解析，然后静态分析；解析失败时不做静态分析
func (r *Runtime) analyze(source, filename string) (*ast.Program, *resolver.Resolution, errors.Diagnostics) {
	prog, diags := r.Parse(source, filename)
	if diags.HasErrors() {
		return prog, nil, diags
	}

	start := time.Now()
	res, resErrs := resolver.New().Resolve(prog)
	diags = append(diags, errors.FromResolver(resErrs, res.Warnings())...)
	r.logger.Debug("resolve",
		zap.String("file", filename),
		zap.Int("locals", res.Len()),
		zap.Int("errors", len(resErrs)),
		zap.Int("warnings", len(res.Warnings())),
		zap.Duration("elapsed", time.Since(start)))
	return prog, res, diags
}
