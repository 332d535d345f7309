package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/tangzhangming/lox/internal/lsp"
)

const Version = "0.1.0"

// stdio 把标准输入输出组合成一个连接
type stdio struct {
	in  io.ReadCloser
	out io.WriteCloser
}

func (s stdio) Read(p []byte) (int, error)  { return s.in.Read(p) }
func (s stdio) Write(p []byte) (int, error) { return s.out.Write(p) }

func (s stdio) Close() error {
	return multierr.Append(s.in.Close(), s.out.Close())
}

func main() {
	// 解析命令行参数
	showVersion := flag.Bool("version", false, "显示版本信息")
	showHelp := flag.Bool("help", false, "显示帮助信息")
	logFile := flag.String("log", "", "日志文件路径（默认不记录日志）")
	verbose := flag.Bool("verbose", false, "记录调试日志")

	flag.Parse()

	if *showVersion {
		fmt.Printf("Lox Language Server v%s\n", Version)
		os.Exit(0)
	}

	if *showHelp {
		printUsage()
		os.Exit(0)
	}

	logger, err := newLogger(*logFile, *verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 创建并启动 LSP 服务器
	server := lsp.NewServer(stdio{in: os.Stdin, out: os.Stdout}, logger, Version)
	err = server.Run(ctx)
	if err != nil && !stderrors.Is(err, context.Canceled) {
		logger.Error("server stopped", zap.Error(err))
		fmt.Fprintf(os.Stderr, "LSP server error: %v\n", err)
		stop()
		_ = logger.Sync()
		os.Exit(1)
	}
}

// newLogger 日志只能写文件：标准输出是协议通道
func newLogger(path string, verbose bool) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}

	zc := zap.NewProductionConfig()
	zc.OutputPaths = []string{path}
	zc.ErrorOutputPaths = []string{path}
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zc.Build()
}

func printUsage() {
	fmt.Println("Lox Language Server - LSP 服务器")
	fmt.Println()
	fmt.Println("用法:")
	fmt.Println("  loxls [options]")
	fmt.Println()
	fmt.Println("选项:")
	fmt.Println("  --version    显示版本信息")
	fmt.Println("  --help       显示帮助信息")
	fmt.Println("  --log <file> 日志文件路径")
	fmt.Println("  --verbose    记录调试日志（需要 --log）")
	fmt.Println()
	fmt.Println("LSP 服务器通过标准输入输出 (stdio) 与编辑器通信。")
	fmt.Println()
	fmt.Println("支持的功能:")
	fmt.Println("  - 诊断（语法错误、静态分析错误和警告）")
	fmt.Println("  - 文档符号（类、方法、函数、全局变量）")
	fmt.Println("  - 代码折叠")
}
