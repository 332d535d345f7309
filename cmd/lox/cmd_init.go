package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tangzhangming/lox/internal/config"
	"github.com/tangzhangming/lox/internal/errors"
)

// cmdInit 在当前目录生成带注释的 lox.toml
func (c *cli) cmdInit(args []string) int {
	m := Msg()
	fs := c.newFlagSet("init")
	fs.Usage = func() {
		fmt.Fprintf(c.stderr, "%s lox init\n\n", m.HelpUsage)
		fmt.Fprintln(c.stderr, m.CmdInit)
	}
	if err := fs.Parse(args); err != nil {
		return errors.ExitUsage
	}

	// 获取当前目录
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(c.stderr, m.ErrCreateConfig+"\n", err)
		return errors.ExitIO
	}

	// 检查是否已存在配置文件
	configPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(configPath); err == nil {
		fmt.Fprintf(c.stderr, m.ErrConfigExists+"\n", config.FileName)
		return errors.ExitUsage
	}

	// 以当前生效的语言作为默认值
	cfg := config.Default()
	cfg.Language = c.cfg.Language

	fmt.Fprintf(c.stdout, m.InitCreating+"\n", config.FileName)
	if err := cfg.Save(configPath); err != nil {
		fmt.Fprintf(c.stderr, m.ErrCreateConfig+"\n", err)
		return errors.ExitIO
	}

	fmt.Fprintln(c.stdout)
	fmt.Fprintf(c.stdout, m.InitSuccess+"\n", configPath)
	fmt.Fprintln(c.stdout, m.InitNextSteps)
	return errors.ExitOK
}
