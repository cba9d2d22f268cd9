// monkey は Monkey言語のインタプリタ。
//
//	monkey [-config file] [-log-level level] [-trace] [script.mk]
//
// スクリプトを渡すとそのファイル全体を評価し、渡さなければREPLを起動する。
// 標準入力が端末でなければ、入力を1行ずつ評価する。
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"monkey/config"
	"monkey/repl"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("monkey", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to a YAML config file")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn or error")
	trace := fs.Bool("trace", false, "log each parse function at debug level")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: monkey [flags] [script.mk]\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if *logLevel != "" {
		if _, err := config.ParseLevel(*logLevel); err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
		cfg.LogLevel = *logLevel
	}
	if *trace {
		cfg.TraceParser = true
		cfg.LogLevel = "debug"
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.Level()})))
	slog.Debug("config loaded", "path", *configPath, "log_level", cfg.LogLevel, "trace_parser", cfg.TraceParser)

	if fs.NArg() == 1 {
		return runScript(fs.Arg(0), cfg, stdout, stderr)
	}

	if stdin == os.Stdin && repl.IsInteractive() {
		err = repl.Interactive(cfg)
	} else {
		err = repl.Start(stdin, stdout, cfg)
	}
	if err != nil {
		slog.Error("repl stopped", "err", err)
		return 1
	}
	return 0
}

// loadConfig は -config が指定されていればそのファイルを、
// なければ既定の場所の設定ファイルを読み込む。
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadDefault()
}

func runScript(path string, cfg *config.Config, stdout, stderr io.Writer) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "monkey: %v\n", err)
		return 1
	}

	slog.Debug("running script", "path", path, "bytes", len(src))
	if err := repl.RunScript(path, string(src), stdout, cfg); err != nil {
		fmt.Fprint(stderr, err)
		return 1
	}
	return 0
}
