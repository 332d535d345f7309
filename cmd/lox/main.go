package main

import (
	"bufio"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tangzhangming/lox/internal/config"
	"github.com/tangzhangming/lox/internal/errors"
	"github.com/tangzhangming/lox/internal/i18n"
	"github.com/tangzhangming/lox/internal/repl"
	"github.com/tangzhangming/lox/internal/runtime"
)

const (
	Version = "0.1.0"
)

// 全局参数
type globalFlags struct {
	lang    string
	config  string
	verbose bool
}

// cli 一次命令行调用的上下文
type cli struct {
	stdout io.Writer
	stderr io.Writer
	cfg    *config.Config
	logger *zap.Logger
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run 执行命令并返回退出码
func run(argv []string, stdout, stderr io.Writer) int {
	args, globals := preprocessArgs(argv)

	cfg, err := config.Find(globals.config)
	if err != nil {
		setLanguage(globals.lang)
		fmt.Fprintf(stderr, Msg().ErrConfig+"\n", err)
		var pathErr *fs.PathError
		if stderrors.As(err, &pathErr) {
			return errors.ExitIO
		}
		return errors.ExitUsage
	}
	if globals.lang != "" {
		cfg.Language = globals.lang
	}

	// 同步设置诊断信息和命令行文本的语言
	i18n.SetLanguageFromString(cfg.Language)
	setLanguage(cfg.Language)

	switch cfg.Color {
	case config.ColorAlways:
		errors.SetColorsEnabled(true)
	case config.ColorNever:
		errors.SetColorsEnabled(false)
	}

	logger, err := newLogger(cfg, globals.verbose)
	if err != nil {
		fmt.Fprintf(stderr, Msg().ErrLogger+"\n", err)
		return errors.ExitUsage
	}
	defer func() { _ = logger.Sync() }()

	c := &cli{stdout: stdout, stderr: stderr, cfg: cfg, logger: logger}

	if len(args) < 1 {
		return c.cmdRepl(nil)
	}

	command := args[0]
	switch command {
	case "run":
		return c.cmdRun(args[1:])
	case "check":
		return c.cmdCheck(args[1:])
	case "repl":
		return c.cmdRepl(args[1:])
	case "init":
		return c.cmdInit(args[1:])
	case "version", "-v", "--version":
		c.cmdVersion()
		return errors.ExitOK
	case "help", "-h", "--help":
		c.printUsage()
		return errors.ExitOK
	default:
		// 直接运行文件
		if !isFlag(command) {
			return c.cmdRun(args)
		}
		fmt.Fprintf(stderr, Msg().ErrUnknownCmd+"\n\n", command)
		c.printUsage()
		return errors.ExitUsage
	}
}

// preprocessArgs 提取全局参数 --lang、--config、--verbose，其余参数原样返回
func preprocessArgs(args []string) ([]string, globalFlags) {
	var (
		result  []string
		globals globalFlags
	)
	for i := 0; i < len(args); i++ {
		arg := args[i]
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if !isFlag(arg) {
			result = append(result, arg)
			continue
		}

		switch name {
		case "lang", "config":
			if !hasValue {
				if i+1 >= len(args) {
					result = append(result, arg)
					continue
				}
				value = args[i+1]
				i++ // 跳过下一个参数
			}
			if name == "lang" {
				globals.lang = value
			} else {
				globals.config = value
			}
		case "verbose":
			globals.verbose = true
		default:
			result = append(result, arg)
		}
	}
	return result, globals
}

func isFlag(s string) bool {
	return len(s) > 0 && s[0] == '-'
}

// newLogger --verbose 或配置了 log_level 时输出到标准错误，否则不记录
func newLogger(cfg *config.Config, verbose bool) (*zap.Logger, error) {
	if !verbose && !cfg.Logging() {
		return zap.NewNop(), nil
	}

	level, err := cfg.ZapLevel()
	if err != nil {
		return nil, err
	}
	if verbose {
		level = zapcore.DebugLevel
	}

	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	zc.DisableStacktrace = true
	return zc.Build()
}

func (c *cli) printUsage() {
	m := Msg()
	out := c.stdout
	fmt.Fprintf(out, m.VersionTitle+"\n\n", Version)
	fmt.Fprintln(out, m.HelpUsage)
	fmt.Fprintln(out, "  lox [--lang en|zh] [--config file] [--verbose] <command> [options] [arguments]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, m.HelpCommands)
	fmt.Fprintf(out, "  run <file>      %s\n", m.CmdRun)
	fmt.Fprintf(out, "  check <file>    %s\n", m.CmdCheck)
	fmt.Fprintf(out, "  repl            %s\n", m.CmdRepl)
	fmt.Fprintf(out, "  init            %s\n", m.CmdInit)
	fmt.Fprintf(out, "  version         %s\n", m.CmdVersion)
	fmt.Fprintf(out, "  help            %s\n", m.CmdHelp)
	fmt.Fprintln(out)
	fmt.Fprintln(out, m.HelpOptions)
	fmt.Fprintf(out, "  -tokens         %s\n", m.OptTokens)
	fmt.Fprintf(out, "  -ast            %s\n", m.OptAST)
	fmt.Fprintf(out, "  --lang <en|zh>  %s\n", m.OptLang)
	fmt.Fprintf(out, "  --config <file> %s\n", m.OptConfig)
	fmt.Fprintf(out, "  --verbose       %s\n", m.OptVerbose)
	fmt.Fprintln(out)
	fmt.Fprintln(out, m.HelpExamples)
	fmt.Fprintln(out, "  lox main.lox")
	fmt.Fprintln(out, "  lox run -ast main.lox")
	fmt.Fprintln(out, "  lox check main.lox")
	fmt.Fprintln(out, "  lox --lang zh help")
}

// newRuntime 按配置创建运行时，print 输出写入 w
func (c *cli) newRuntime(w io.Writer) *runtime.Runtime {
	return runtime.New(
		runtime.WithStdout(w),
		runtime.WithLogger(c.logger),
		runtime.WithMaxCallDepth(c.cfg.MaxCallDepth),
		runtime.WithWarnings(c.cfg.Warnings),
	)
}

// readSource 读取源文件，失败时返回退出码 74
func (c *cli) readSource(fs *flag.FlagSet) (string, string, int) {
	m := Msg()
	if fs.NArg() < 1 {
		fs.Usage()
		fmt.Fprintln(c.stderr)
		fmt.Fprintln(c.stderr, m.ErrNoInput)
		return "", "", errors.ExitUsage
	}

	filename := fs.Arg(0)
	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(c.stderr, m.ErrReadFile+"\n", err)
		return "", "", errors.ExitIO
	}
	return filename, string(source), errors.ExitOK
}

func (c *cli) newFlagSet(name string) *flag.FlagSet {
	m := Msg()
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	fs.Usage = func() {
		fmt.Fprintf(c.stderr, "%s lox %s [options] <file>\n\n", m.HelpUsage, name)
		fmt.Fprintln(c.stderr, m.HelpOptions)
		fs.PrintDefaults()
	}
	return fs
}

// cmdRun 运行 Lox 源文件
func (c *cli) cmdRun(args []string) int {
	m := Msg()
	fs := c.newFlagSet("run")
	showTokens := fs.Bool("tokens", false, m.OptTokens)
	showAST := fs.Bool("ast", false, m.OptAST)
	if err := fs.Parse(args); err != nil {
		return errors.ExitUsage
	}

	filename, source, code := c.readSource(fs)
	if code != errors.ExitOK {
		return code
	}

	reporter := errors.NewReporter(c.stderr, errors.NewFormatter())
	reporter.SetSource(filename, source)

	// 词法分析模式
	if *showTokens {
		return c.runLexer(reporter, source, filename)
	}

	// AST 模式
	if *showAST {
		return c.runParser(reporter, source, filename)
	}

	out := bufio.NewWriter(c.stdout)
	diags := c.newRuntime(out).Run(source, filename)
	out.Flush()

	reporter.Report(diags)
	return diags.ExitCode()
}

// runLexer 输出 token 流
func (c *cli) runLexer(reporter *errors.Reporter, source, filename string) int {
	tokens, diags := c.newRuntime(c.stdout).Tokens(source, filename)
	for _, tok := range tokens {
		fmt.Fprintf(c.stdout, "%s\n", tok)
	}
	reporter.Report(diags)
	return diags.ExitCode()
}

// runParser 输出语法树
func (c *cli) runParser(reporter *errors.Reporter, source, filename string) int {
	prog, diags := c.newRuntime(c.stdout).Parse(source, filename)
	if diags.HasErrors() {
		reporter.Report(diags)
		return diags.ExitCode()
	}
	if text := prog.String(); text != "" {
		fmt.Fprintln(c.stdout, text)
	}
	return errors.ExitOK
}

// cmdCheck 静态检查，输出错误和警告
func (c *cli) cmdCheck(args []string) int {
	m := Msg()
	fs := c.newFlagSet("check")
	verbose := fs.Bool("v", false, m.OptVerbose)
	if err := fs.Parse(args); err != nil {
		return errors.ExitUsage
	}

	filename, source, code := c.readSource(fs)
	if code != errors.ExitOK {
		return code
	}

	prog, diags := c.newRuntime(io.Discard).Check(source, filename)

	reporter := errors.NewReporter(c.stderr, errors.NewRichFormatter())
	reporter.SetSource(filename, source)
	reporter.Report(diags)
	if diags.HasErrors() {
		return diags.ExitCode()
	}

	fmt.Fprintf(c.stdout, m.SuccessSyntaxOK+"\n", filename)
	if *verbose {
		fmt.Fprintf(c.stdout, "  %s: %d\n", m.Statements, len(prog.Statements))
		fmt.Fprintf(c.stdout, "  %s: %d\n", m.Warnings, reporter.WarningCount())
	}
	return errors.ExitOK
}

// cmdRepl 启动交互式环境
func (c *cli) cmdRepl(args []string) int {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	if err := fs.Parse(args); err != nil {
		return errors.ExitUsage
	}

	r := repl.New(c.newRuntime(c.stdout), repl.Config{
		Prompt:      c.cfg.REPL.Prompt,
		Continue:    c.cfg.REPL.Continue,
		HistoryFile: c.cfg.REPL.HistoryFile,
		Version:     Version,
	}, c.stdout, c.stderr, c.logger.Named("repl"))

	if err := r.Run(); err != nil {
		fmt.Fprintf(c.stderr, Msg().ErrREPL+"\n", err)
		return errors.ExitIO
	}
	return errors.ExitOK
}

// cmdVersion 显示版本信息
func (c *cli) cmdVersion() {
	m := Msg()
	fmt.Fprintf(c.stdout, m.VersionTitle+"\n", Version)
	fmt.Fprintln(c.stdout, m.VersionDesc)
}
