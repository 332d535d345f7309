// Package config 读取 lox.toml 配置文件
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap/zapcore"
)

// 常量定义
const (
	FileName = "lox.toml" // 配置文件名

	EnvLanguage = "LOX_LANG"
	EnvLogLevel = "LOX_LOG_LEVEL"
)

// 颜色模式
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config 解释器配置
type Config struct {
	// Language 诊断信息的语言（en / zh）
	Language string `toml:"language"`

	// LogLevel 日志级别（debug / info / warn / error），空表示不输出日志
	LogLevel string `toml:"log_level"`

	// MaxCallDepth 最大调用深度
	MaxCallDepth int `toml:"max_call_depth"`

	// Color 诊断着色：auto / always / never
	Color string `toml:"color"`

	// Warnings 运行时是否输出静态分析警告
	Warnings bool `toml:"warnings"`

	REPL REPLConfig `toml:"repl"`
}

// REPLConfig 交互式环境配置
type REPLConfig struct {
	Prompt      string `toml:"prompt"`
	Continue    string `toml:"continue"` // 多行输入时的提示符
	HistoryFile string `toml:"history_file"`
}

// Default 默认配置
func Default() *Config {
	history := ""
	if home, err := os.UserHomeDir(); err == nil {
		history = filepath.Join(home, ".lox_history")
	}
	return &Config{
		Language:     "en",
		MaxCallDepth: 10000,
		Color:        ColorAuto,
		REPL: REPLConfig{
			Prompt:      "> ",
			Continue:    "... ",
			HistoryFile: history,
		},
	}
}

// Load 从文件加载配置，未出现的字段保留默认值，未知字段报错
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Find 按优先级查找配置：显式路径 > 当前目录的 lox.toml > 默认值
//
// 结果已应用环境变量覆盖。
func Find(explicit string) (*Config, error) {
	var (
		cfg *Config
		err error
	)
	switch {
	case explicit != "":
		cfg, err = Load(explicit)
	case fileExists(FileName):
		cfg, err = Load(FileName)
	default:
		cfg = Default()
	}
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv 用环境变量覆盖配置
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvLanguage); v != "" {
		c.Language = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// Validate 检查字段取值
func (c *Config) Validate() error {
	if c.MaxCallDepth <= 0 {
		return fmt.Errorf("max_call_depth must be positive, got %d", c.MaxCallDepth)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("color must be one of auto, always, never, got %q", c.Color)
	}
	if _, err := c.ZapLevel(); err != nil {
		return err
	}
	return nil
}

// Logging 是否配置了日志
func (c *Config) Logging() bool {
	return c.LogLevel != ""
}

// ZapLevel 解析日志级别
func (c *Config) ZapLevel() (zapcore.Level, error) {
	if c.LogLevel == "" {
		return zapcore.InfoLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(c.LogLevel))); err != nil {
		return lvl, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// Save 保存配置到文件（带注释）
func (c *Config) Save(path string) error {
	if err := os.WriteFile(path, []byte(generateConfigWithComments(c)), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// generateConfigWithComments 生成带注释的配置文件内容
func generateConfigWithComments(c *Config) string {
	var sb strings.Builder

	sb.WriteString("# 诊断信息语言：en 或 zh\n")
	sb.WriteString(fmt.Sprintf("language = %q\n\n", c.Language))
	sb.WriteString("# 日志级别：debug / info / warn / error，留空关闭日志\n")
	sb.WriteString(fmt.Sprintf("log_level = %q\n\n", c.LogLevel))
	sb.WriteString("# 最大调用深度，超过后报告 Stack overflow.\n")
	sb.WriteString(fmt.Sprintf("max_call_depth = %d\n\n", c.MaxCallDepth))
	sb.WriteString("# 诊断着色：auto / always / never\n")
	sb.WriteString(fmt.Sprintf("color = %q\n\n", c.Color))
	sb.WriteString("# 运行时是否输出未使用变量等警告\n")
	sb.WriteString(fmt.Sprintf("warnings = %t\n\n", c.Warnings))
	sb.WriteString("[repl]\n")
	sb.WriteString(fmt.Sprintf("prompt = %q\n", c.REPL.Prompt))
	sb.WriteString(fmt.Sprintf("continue = %q\n", c.REPL.Continue))
	sb.WriteString(fmt.Sprintf("history_file = %q\n", c.REPL.HistoryFile))

	return sb.String()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
