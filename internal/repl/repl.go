// repl.go - Lox REPL (Read-Eval-Print Loop)
//
// 提供交互式命令行界面，支持：
// - 行编辑、补全与持久化历史记录（liner）
// - 多行输入（括号未闭合、字符串或块注释未结束时继续读取）
// - 特殊命令（:help, :quit, :reset, :load, :history）
// - 省略分号的裸表达式按 print 处理
// - 全局变量在多次输入之间保留，出错后会话继续

package repl

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/peterh/liner"
	"go.uber.org/zap"

	"github.com/tangzhangming/lox/internal/errors"
	"github.com/tangzhangming/lox/internal/runtime"
	"github.com/tangzhangming/lox/internal/token"
)

const (
	replFilename = "<repl>"
	maxHistory   = 1000
)

// Config REPL 配置
type Config struct {
	Prompt      string
	Continue    string
	HistoryFile string // 为空时不持久化历史
	Version     string
}

// DefaultConfig 默认配置
func DefaultConfig() Config {
	return Config{
		Prompt:   "> ",
		Continue: "... ",
	}
}

// REPL 交互式解释器
type REPL struct {
	runtime  *runtime.Runtime
	config   Config
	out      io.Writer
	reporter *errors.Reporter
	logger   *zap.Logger
	history  []string
}

// New 创建 REPL，诊断写入 errOut
func New(rt *runtime.Runtime, config Config, out, errOut io.Writer, logger *zap.Logger) *REPL {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &REPL{
		runtime:  rt,
		config:   config,
		out:      out,
		reporter: errors.NewReporter(errOut, errors.NewFormatter()),
		logger:   logger,
	}
}

// Run 运行 REPL，直到 :quit 或 EOF
func (r *REPL) Run() error {
	r.printWelcome()

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetMultiLineMode(true)
	ln.SetCompleter(r.complete)

	r.loadHistory(ln)
	defer r.saveHistory(ln)

	for {
		input, ok := r.read(ln)
		if !ok {
			fmt.Fprintln(r.out)
			return nil
		}
		if strings.TrimSpace(input) == "" {
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(input, "\n", " "))
		if quit := r.Eval(input); quit {
			return nil
		}
	}
}

// read 读取一段完整的输入；Ctrl+C 丢弃当前缓冲，Ctrl+D 结束会话
func (r *REPL) read(ln *liner.State) (string, bool) {
	var b strings.Builder

	for {
		prompt := r.config.Prompt
		if b.Len() > 0 {
			prompt = r.config.Continue
		}

		line, err := ln.Prompt(prompt)
		if stderrors.Is(err, io.EOF) {
			return "", false
		}
		if stderrors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			r.logger.Warn("read input failed", zap.Error(err))
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") || !needsMoreInput(src) {
			return src, true
		}
	}
}

// Eval 处理一段输入，返回 true 表示退出
func (r *REPL) Eval(input string) bool {
	trimmed := strings.TrimSpace(input)
	if strings.HasPrefix(trimmed, ":") {
		return r.handleCommand(trimmed)
	}

	r.addHistory(input)
	r.execute(input)
	return false
}

// printWelcome 打印欢迎信息
func (r *REPL) printWelcome() {
	if r.config.Version != "" {
		fmt.Fprintf(r.out, "Lox %s\n", r.config.Version)
	}
	fmt.Fprintln(r.out, "Type :help for help, :quit to exit")
}

// handleCommand 处理特殊命令
func (r *REPL) handleCommand(line string) bool {
	parts := strings.Fields(line)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case ":help", ":h", ":?":
		r.printHelp()

	case ":quit", ":q", ":exit":
		return true

	case ":reset", ":clear":
		r.runtime.Reset()
		fmt.Fprintln(r.out, "Environment reset.")

	case ":load", ":l":
		if len(args) < 1 {
			fmt.Fprintln(r.out, "Usage: :load <filename>")
			break
		}
		r.loadFile(args[0])

	case ":history", ":hist":
		r.printHistory()

	default:
		fmt.Fprintf(r.out, "Unknown command: %s\n", cmd)
		fmt.Fprintln(r.out, "Type :help for available commands.")
	}
	return false
}

// printHelp 打印帮助信息
func (r *REPL) printHelp() {
	fmt.Fprintln(r.out, "Available commands:")
	fmt.Fprintln(r.out, "  :help, :h, :?     Show this help message")
	fmt.Fprintln(r.out, "  :quit, :q, :exit  Exit the REPL")
	fmt.Fprintln(r.out, "  :reset, :clear    Discard all global definitions")
	fmt.Fprintln(r.out, "  :load <file>      Load and execute a file")
	fmt.Fprintln(r.out, "  :history, :hist   Show input history")
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Input continues on the next line while braces or")
	fmt.Fprintln(r.out, "parentheses are open. An expression without a trailing")
	fmt.Fprintln(r.out, "';' is printed:")
	fmt.Fprintln(r.out, "  > var x = 10;")
	fmt.Fprintln(r.out, "  > x * 2")
	fmt.Fprintln(r.out, "  20")
}

// loadFile 加载并执行文件
func (r *REPL) loadFile(filename string) {
	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(r.out, "Error loading file: %v\n", err)
		return
	}

	r.reporter.SetSource(filename, string(source))
	diags := r.runtime.Run(string(source), filename)
	r.reporter.Report(diags)
	if !diags.HasErrors() {
		fmt.Fprintf(r.out, "Loaded: %s\n", filename)
	}
}

// printHistory 打印历史记录
func (r *REPL) printHistory() {
	for i, cmd := range r.history {
		fmt.Fprintf(r.out, "%4d  %s\n", i+1, cmd)
	}
}

// addHistory 添加到历史记录
func (r *REPL) addHistory(input string) {
	// 不添加重复的历史记录
	if len(r.history) > 0 && r.history[len(r.history)-1] == input {
		return
	}
	r.history = append(r.history, input)
	if len(r.history) > maxHistory {
		r.history = r.history[len(r.history)-maxHistory:]
	}
}

// execute 执行输入
//
// 输入本身无法解析时，尝试把它当作表达式包进 print 语句。
func (r *REPL) execute(input string) {
	source := input
	if _, diags := r.runtime.Parse(input, replFilename); diags.HasErrors() {
		if expr, ok := r.asPrintStatement(input); ok {
			source = expr
		}
	}

	r.reporter.SetSource(replFilename, source)
	r.reporter.Report(r.runtime.Run(source, replFilename))
	r.reporter.Clear()
}

// asPrintStatement 把裸表达式改写为 print 语句，改写后仍无法解析则放弃
func (r *REPL) asPrintStatement(input string) (string, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" || strings.HasSuffix(trimmed, ";") || strings.HasSuffix(trimmed, "}") {
		return "", false
	}
	candidate := "print " + trimmed + ";"
	if _, diags := r.runtime.Parse(candidate, replFilename); diags.HasErrors() {
		return "", false
	}
	return candidate, true
}

// ============================================================================
// 多行输入
// ============================================================================

// needsMoreInput 括号未闭合、字符串或块注释未结束时需要继续读取
func needsMoreInput(input string) bool {
	depth := 0
	inString := false
	inBlockComment := false

	for i := 0; i < len(input); i++ {
		c := input[i]

		switch {
		case inBlockComment:
			if c == '*' && i+1 < len(input) && input[i+1] == '/' {
				inBlockComment = false
				i++
			}
			continue
		case inString:
			// Lox 字符串没有转义
			if c == '"' {
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '/':
			if i+1 < len(input) {
				switch input[i+1] {
				case '/':
					// 行注释：跳到行尾
					for i < len(input) && input[i] != '\n' {
						i++
					}
				case '*':
					inBlockComment = true
					i++
				}
			}
		case '{', '(':
			depth++
		case '}', ')':
			depth--
		}
	}

	return depth > 0 || inString || inBlockComment
}

// ============================================================================
// 补全与历史
// ============================================================================

var commands = []string{":help", ":quit", ":reset", ":load", ":history"}

// complete 补全最后一个单词：关键字、全局名字和特殊命令
func (r *REPL) complete(line string) []string {
	if strings.HasPrefix(line, ":") {
		var out []string
		for _, cmd := range commands {
			if strings.HasPrefix(cmd, line) {
				out = append(out, cmd)
			}
		}
		return out
	}

	start := strings.LastIndexFunc(line, func(r rune) bool {
		return !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	}) + 1
	head, word := line[:start], line[start:]
	if word == "" {
		return nil
	}

	candidates := append(token.Keywords(), r.runtime.Interpreter().Globals().Names()...)
	sort.Strings(candidates)

	var out []string
	seen := make(map[string]bool)
	for _, c := range candidates {
		if strings.HasPrefix(c, word) && !seen[c] {
			seen[c] = true
			out = append(out, head+c)
		}
	}
	return out
}

func (r *REPL) loadHistory(ln *liner.State) {
	if r.config.HistoryFile == "" {
		return
	}
	f, err := os.Open(r.config.HistoryFile)
	if err != nil {
		return
	}
	defer f.Close()
	if _, err := ln.ReadHistory(f); err != nil {
		r.logger.Debug("read history failed", zap.Error(err))
	}
}

func (r *REPL) saveHistory(ln *liner.State) {
	if r.config.HistoryFile == "" {
		return
	}
	f, err := os.Create(r.config.HistoryFile)
	if err != nil {
		r.logger.Warn("save history failed", zap.String("path", r.config.HistoryFile), zap.Error(err))
		return
	}
	defer f.Close()
	if _, err := ln.WriteHistory(f); err != nil {
		r.logger.Warn("save history failed", zap.Error(err))
	}
}
