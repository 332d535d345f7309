package main

import (
	"strings"
)

// Messages 命令行界面的文本
//
// 诊断信息由 internal/i18n 负责，这里只有帮助和命令输出。
type Messages struct {
	// 版本信息
	VersionTitle string
	VersionDesc  string

	// 帮助信息
	HelpUsage    string
	HelpCommands string
	HelpOptions  string
	HelpExamples string

	// 命令描述
	CmdRun     string
	CmdCheck   string
	CmdRepl    string
	CmdInit    string
	CmdVersion string
	CmdHelp    string

	// 选项
	OptTokens  string
	OptAST     string
	OptVerbose string
	OptLang    string
	OptConfig  string

	// 错误信息
	ErrNoInput      string
	ErrReadFile     string
	ErrUnknownCmd   string
	ErrConfig       string
	ErrLogger       string
	ErrREPL         string
	ErrConfigExists string
	ErrCreateConfig string

	// 成功信息
	SuccessSyntaxOK string
	Statements      string
	Warnings        string
	InitCreating    string
	InitSuccess     string
	InitNextSteps   string
}

// 英文消息
var messagesEN = Messages{
	VersionTitle: "Lox v%s",
	VersionDesc:  "A tree-walking interpreter for the Lox language",

	HelpUsage:    "Usage:",
	HelpCommands: "Commands:",
	HelpOptions:  "Options:",
	HelpExamples: "Examples:",

	CmdRun:     "Run a Lox source file",
	CmdCheck:   "Check a file without running it",
	CmdRepl:    "Start the interactive prompt (default)",
	CmdInit:    "Create a lox.toml in the current directory",
	CmdVersion: "Show version information",
	CmdHelp:    "Show this help message",

	OptTokens:  "Show lexer tokens instead of running",
	OptAST:     "Show the syntax tree instead of running",
	OptVerbose: "Write debug logs to stderr",
	OptLang:    "Set language (en/zh)",
	OptConfig:  "Path to a lox.toml",

	ErrNoInput:      "Error: no input file specified",
	ErrReadFile:     "Error reading file: %v",
	ErrUnknownCmd:   "Unknown command: %s",
	ErrConfig:       "Error loading configuration: %v",
	ErrLogger:       "Error creating logger: %v",
	ErrREPL:         "REPL error: %v",
	ErrConfigExists: "Error: %s already exists",
	ErrCreateConfig: "Error creating config file: %v",

	SuccessSyntaxOK: "%s: OK",
	Statements:      "Statements",
	Warnings:        "Warnings",
	InitCreating:    "Creating %s",
	InitSuccess:     "Configuration written to %s",
	InitNextSteps:   "Edit it to change the language, colors or REPL settings.",
}

// 中文消息
var messagesZH = Messages{
	VersionTitle: "Lox v%s",
	VersionDesc:  "Lox 语言的树遍历解释器",

	HelpUsage:    "用法:",
	HelpCommands: "命令:",
	HelpOptions:  "选项:",
	HelpExamples: "示例:",

	CmdRun:     "运行 Lox 源文件",
	CmdCheck:   "检查文件但不运行",
	CmdRepl:    "启动交互式环境（默认）",
	CmdInit:    "在当前目录创建 lox.toml",
	CmdVersion: "显示版本信息",
	CmdHelp:    "显示帮助信息",

	OptTokens:  "只输出词法分析结果",
	OptAST:     "只输出语法树",
	OptVerbose: "向标准错误输出调试日志",
	OptLang:    "设置语言 (en/zh)",
	OptConfig:  "配置文件路径",

	ErrNoInput:      "错误: 未指定输入文件",
	ErrReadFile:     "读取文件失败: %v",
	ErrUnknownCmd:   "未知命令: %s",
	ErrConfig:       "加载配置失败: %v",
	ErrLogger:       "创建日志失败: %v",
	ErrREPL:         "交互式环境错误: %v",
	ErrConfigExists: "错误: %s 已存在",
	ErrCreateConfig: "创建配置文件失败: %v",

	SuccessSyntaxOK: "%s: 检查通过",
	Statements:      "语句数",
	Warnings:        "警告数",
	InitCreating:    "创建 %s",
	InitSuccess:     "配置已写入 %s",
	InitNextSteps:   "可以在其中修改语言、颜色和交互式环境的设置。",
}

var msg = messagesEN

// setLanguage 设置命令行文本的语言
func setLanguage(lang string) {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "zh", "zh-cn", "zh-tw", "zh-hk", "chinese":
		msg = messagesZH
	default:
		msg = messagesEN
	}
}

// Msg 获取当前消息对象
func Msg() *Messages {
	return &msg
}
