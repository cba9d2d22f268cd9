// Package config は REPL とコマンドの設定を YAML ファイルから読み込むパッケージ。
// 設定ファイルの例:
//
//	prompt: ">> "
//	continuation_prompt: ".. "
//	history_file: ~/.monkey_history
//	log_level: info
//	trace_parser: false
//	color: true
//	banner: true
//
// 書かれていない項目は Default() の値のまま残る。
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config は設定値をまとめた構造体。
type Config struct {
	Prompt             string `yaml:"prompt"`
	ContinuationPrompt string `yaml:"continuation_prompt"`
	HistoryFile        string `yaml:"history_file"`
	LogLevel           string `yaml:"log_level"`
	TraceParser        bool   `yaml:"trace_parser"`
	Color              bool   `yaml:"color"`
	Banner             bool   `yaml:"banner"`
}

// Default は設定ファイルがないときに使う値を返す。
func Default() *Config {
	return &Config{
		Prompt:             ">> ",
		ContinuationPrompt: ".. ",
		HistoryFile:        "~/.monkey_history",
		LogLevel:           "warn",
		Color:              true,
		Banner:             true,
	}
}

// DefaultPath は -config が指定されなかったときに読む設定ファイルのパス。
// ユーザー設定ディレクトリが分からなければ空文字列を返す。
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "monkey", "config.yml")
}

// ValidationError は設定値の不備をまとめて報告する。
type ValidationError struct {
	Path   string
	Issues []string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("config: invalid ")
	b.WriteString(e.Path)
	b.WriteString(":")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Load は path の YAML を Default() の上に重ねて読み込む。
// ファイルが存在しなければエラーになる。空のファイルは既定値のまま。
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	return decode(file, path)
}

// LoadDefault は DefaultPath() を読み込む。
// ファイルがなければ Default() をそのまま返す。
func LoadDefault() (*Config, error) {
	path := DefaultPath()
	if path == "" {
		return Default(), nil
	}
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func decode(r io.Reader, path string) (*Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate(path string) error {
	var errs ValidationError
	if c.Prompt == "" {
		errs.Issues = append(errs.Issues, "prompt must not be empty")
	}
	if c.ContinuationPrompt == "" {
		errs.Issues = append(errs.Issues, "continuation_prompt must not be empty")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs.Issues = append(errs.Issues, err.Error())
	}
	if len(errs.Issues) > 0 {
		errs.Path = path
		return &errs
	}
	return nil
}

// Level は LogLevel を slog.Level に変換する。
// 不正な値は Load の時点で弾かれているので、ここでは Warn に倒す。
func (c *Config) Level() slog.Level {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return level
}

// ParseLevel は "debug", "info", "warn", "error" のいずれかを slog.Level にする。
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("log_level %q must be one of debug, info, warn, error", s)
	}
}

// HistoryPath は HistoryFile の先頭の ~ をホームディレクトリに展開したパスを返す。
// 履歴を保存しない設定（空文字列）なら空文字列を返す。
func (c *Config) HistoryPath() (string, error) {
	return expandHome(c.HistoryFile)
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: expand %s: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
