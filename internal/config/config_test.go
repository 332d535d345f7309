package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
language = "zh"
max_call_depth = 500

[repl]
prompt = "lox> "
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Language != "zh" {
		t.Errorf("Language got %q, want %q", cfg.Language, "zh")
	}
	if cfg.MaxCallDepth != 500 {
		t.Errorf("MaxCallDepth got %d, want 500", cfg.MaxCallDepth)
	}
	if cfg.REPL.Prompt != "lox> " {
		t.Errorf("Prompt got %q, want %q", cfg.REPL.Prompt, "lox> ")
	}
	// 未出现的字段保留默认值
	if cfg.REPL.Continue != "... " {
		t.Errorf("Continue got %q, want %q", cfg.REPL.Continue, "... ")
	}
	if cfg.Color != ColorAuto {
		t.Errorf("Color got %q, want %q", cfg.Color, ColorAuto)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "langauge = \"en\"\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"depth", "max_call_depth = 0\n", "max_call_depth"},
		{"color", "color = \"sometimes\"\n", "color"},
		{"log level", "log_level = \"loud\"\n", "log_level"},
		{"syntax", "language = \n", "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error should wrap a not-exist error, got %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvLanguage: "zh",
		EnvLogLevel: "debug",
	}
	cfg := Default()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	if cfg.Language != "zh" {
		t.Errorf("Language got %q, want %q", cfg.Language, "zh")
	}
	lvl, err := cfg.ZapLevel()
	if err != nil {
		t.Fatalf("ZapLevel: %v", err)
	}
	if lvl != zapcore.DebugLevel {
		t.Errorf("level got %v, want %v", lvl, zapcore.DebugLevel)
	}
	if !cfg.Logging() {
		t.Error("Logging() should be true when log_level is set")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Language = "zh"
	cfg.Warnings = true
	cfg.REPL.HistoryFile = "/tmp/history"

	path := filepath.Join(t.TempDir(), FileName)
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load saved file: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("loaded config got %+v, want %+v", *loaded, *cfg)
	}
}
