package repl

import (
	"io"
	"log/slog"

	"monkey/config"
	"monkey/evaluator"
)

// SourceError は元のエラーにキャレット付きの表示を添えたもの。
// errors.As で元の *parser.Error や *evaluator.Error を取り出せる。
type SourceError struct {
	Err  error
	Text string
}

func (e *SourceError) Error() string { return e.Text }
func (e *SourceError) Unwrap() error { return e.Err }

// RunScript は src をプログラム全体として評価する。
// puts の出力は out に書かれ、最後の値が null でなければそれも out に書く。
// 失敗したときは name を見出しに入れた *SourceError を返す。
func RunScript(name, src string, out io.Writer, cfg *config.Config) error {
	session := NewSession(out)
	if cfg.TraceParser {
		session.TraceParser(slog.Default())
	}

	evaluated, err := session.Eval(src)
	if err != nil {
		return &SourceError{Err: err, Text: formatError(err, src, name, 0)}
	}

	if evaluated != evaluator.NULL {
		io.WriteString(out, evaluated.Inspect())
		io.WriteString(out, "\n")
	}
	return nil
}
