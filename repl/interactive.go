package repl

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/peterh/liner"

	"monkey/config"
	"monkey/evaluator"
)

// Interactive は端末向けのREPLを起動する。
// 行編集、履歴ファイル、組み込み関数名の補完を使える。
// Ctrl+C は入力中の行を捨て、Ctrl+D か :quit で終了する。
func Interactive(cfg *config.Config) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(completer)

	histPath, err := cfg.HistoryPath()
	if err != nil {
		slog.Warn("history disabled", "err", err)
		histPath = ""
	}
	if histPath != "" {
		loadHistory(ln, histPath)
		defer saveHistory(ln, histPath)
	}

	if cfg.Banner {
		io.WriteString(os.Stdout, GREETING)
	}

	l := newLoop(os.Stdout, cfg, cfg.Color, terminalWidth())
	for {
		src, ok := readComplete(ln, cfg.Prompt, cfg.ContinuationPrompt)
		if !ok {
			fmt.Println()
			return nil
		}
		if strings.TrimSpace(src) == "" {
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		if l.handle(src) {
			return nil
		}
	}
}

// readComplete は入力がパースできるか、途中で終わった以外の理由で
// 失敗するまで行を読み足す。Ctrl+D で false を返す。
// Ctrl+C はそれまでの入力を捨てて空文字列を返す。
func readComplete(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			slog.Warn("read input", "err", err)
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if !needsMore(src) {
			return src, true
		}
	}
}

// completer は入力中の単語を組み込み関数名とコマンドで補完する。
func completer(line string) []string {
	start := strings.LastIndexAny(line, " \t(,[{") + 1
	prefix, word := line[:start], line[start:]
	if word == "" {
		return nil
	}

	candidates := evaluator.BuiltinNames()
	if start == 0 {
		candidates = append(candidates, ":help", ":env", ":quit")
	}

	var out []string
	for _, c := range candidates {
		if strings.HasPrefix(c, word) {
			out = append(out, prefix+c)
		}
	}
	return out
}

func loadHistory(ln *liner.State, path string) {
	f, err := os.Open(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("read history", "path", path, "err", err)
		}
		return
	}
	defer f.Close()

	n, err := ln.ReadHistory(f)
	if err != nil {
		slog.Warn("read history", "path", path, "err", err)
		return
	}
	slog.Debug("history loaded", "path", path, "entries", n)
}

func saveHistory(ln *liner.State, path string) {
	f, err := os.Create(path)
	if err != nil {
		slog.Warn("write history", "path", path, "err", err)
		return
	}
	defer f.Close()

	n, err := ln.WriteHistory(f)
	if err != nil {
		slog.Warn("write history", "path", path, "err", err)
		return
	}
	slog.Debug("history saved", "path", path, "entries", n)
}
