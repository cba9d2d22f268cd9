// Package repl は Monkey言語のREPL（Read-Eval-Print Loop）を実装するパッケージ。
// ユーザーが入力したコードを字句解析 → 構文解析 → 評価し、結果を表示する。
//
// 端末からは行編集と履歴つきの Interactive を、パイプやファイルからは
// 1行ずつ読む Start を使う。どちらも入力が途中で終わっている間は継続行を読み、
// 1つのまとまりとして評価する。ファイル全体を評価するには RunScript を使う。
package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"monkey/config"
	"monkey/evaluator"
	"monkey/object"
	"monkey/parser"
)

const helpText = `Commands:
  :help    Show this help
  :env     List top-level bindings
  :quit    Exit the REPL
Built-in functions: %s
`

// loop は Start と Interactive が共有する評価と表示の処理。
type loop struct {
	session *Session
	out     io.Writer
	paint   painter
	width   int
}

func newLoop(out io.Writer, cfg *config.Config, color bool, width int) *loop {
	session := NewSession(out)
	if cfg.TraceParser {
		session.TraceParser(slog.Default())
	}
	return &loop{session: session, out: out, paint: painter(color), width: width}
}

// handle は1つのまとまった入力を処理する。:quit のとき true を返す。
func (l *loop) handle(src string) (quit bool) {
	trimmed := strings.TrimSpace(src)
	if trimmed == "" {
		return false
	}

	if strings.HasPrefix(trimmed, ":") {
		return l.command(strings.ToLower(trimmed))
	}

	evaluated, err := l.session.Eval(src)
	if err != nil {
		l.printError(err, src)
		return false
	}

	io.WriteString(l.out, l.paint.value(evaluated.Inspect()))
	io.WriteString(l.out, "\n")
	return false
}

func (l *loop) command(cmd string) (quit bool) {
	switch cmd {
	case ":quit", ":q", ":exit":
		return true
	case ":help":
		fmt.Fprintf(l.out, helpText, strings.Join(evaluator.BuiltinNames(), ", "))
	case ":env":
		for _, name := range l.session.Names() {
			val, _ := l.session.Lookup(name)
			fmt.Fprintf(l.out, "%s = %s\n", name, describe(val))
		}
	default:
		io.WriteString(l.out, "unknown command. Type :help for a list of commands.\n")
	}
	return false
}

// describe は :env で表示する値の要約。関数は本体まで出すと長いので型だけにする。
func describe(val object.Object) string {
	if fn, ok := val.(*object.Function); ok {
		names := make([]string, 0, len(fn.Parameters))
		for _, p := range fn.Parameters {
			names = append(names, p.Value)
		}
		return "fn(" + strings.Join(names, ", ") + ")"
	}
	return val.Inspect()
}

// printError はパーサーエラーならモンキーのAAと共に、それ以外はそのまま出力する。
func (l *loop) printError(err error, src string) {
	var perr *parser.Error
	if errors.As(err, &perr) {
		io.WriteString(l.out, MONKEY_FACE)
		io.WriteString(l.out, "Woops! We ran into some monkey business here!\n")
	}
	io.WriteString(l.out, l.paint.err(formatError(err, src, "", l.width)))
}

// Start はREPLを起動する。
// 入力ストリームからコードを1行ずつ読み取り、評価結果を出力ストリームに書き出す。
// 環境をループ全体で共有することで、変数束縛がセッション中持続する。
// 入力が尽きるか :quit で終了し、読み取りのエラーだけを返す。
func Start(in io.Reader, out io.Writer, cfg *config.Config) error {
	scanner := bufio.NewScanner(in)
	l := newLoop(out, cfg, false, 0)

	if cfg.Banner {
		io.WriteString(out, GREETING)
	}

	var buf strings.Builder
	for {
		if buf.Len() == 0 {
			io.WriteString(out, cfg.Prompt)
		} else {
			io.WriteString(out, cfg.ContinuationPrompt)
		}

		if !scanner.Scan() {
			// 途中で終わった入力も評価してエラーを見せる
			if buf.Len() > 0 {
				io.WriteString(out, "\n")
				l.handle(buf.String())
			}
			return scanner.Err()
		}

		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(scanner.Text())

		src := buf.String()
		if needsMore(src) {
			continue
		}
		buf.Reset()

		if l.handle(src) {
			return nil
		}
	}
}
