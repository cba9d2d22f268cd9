// parser_tracing.go はパーサーのデバッグ用トレーシング機能を提供する。
// パーサーの動作を追跡したい場合に、各解析関数の入口と出口でログを出力する。
// EnableTracing を呼ばない限り何も出力しない。
package parser

import (
	"log/slog"
	"strings"
)

const traceIdentPlaceholder string = "\t"

// tracer はトレースの出力先とインデントレベルを保持する。
// ネストが深くなるほどインデントが増える。
type tracer struct {
	logger *slog.Logger
	level  int
}

// EnableTracing は各解析関数の BEGIN/END を logger に Debug レベルで出力させる。
// nil を渡すとトレースを止める。
func (p *Parser) EnableTracing(logger *slog.Logger) {
	if logger == nil {
		p.tracer = nil
		return
	}
	p.tracer = &tracer{logger: logger}
}

// identLevel は現在のトレースレベルに応じたインデント文字列を返す。
func (t *tracer) identLevel() string {
	return strings.Repeat(traceIdentPlaceholder, t.level-1)
}

func (t *tracer) print(msg string, tok string) {
	t.logger.Debug(t.identLevel()+msg,
		slog.Int("depth", t.level),
		slog.String("token", tok))
}

// trace は解析関数の入口で呼ぶ。"BEGIN <msg>" を出力してインデントを増やす。
func (p *Parser) trace(msg string) string {
	if p.tracer == nil {
		return msg
	}
	p.tracer.level++
	p.tracer.print("BEGIN "+msg, p.curToken.Literal)
	return msg
}

// untrace は解析関数の出口で呼ぶ。"END <msg>" を出力してインデントを減らす。
func (p *Parser) untrace(msg string) {
	if p.tracer == nil {
		return
	}
	p.tracer.print("END "+msg, p.curToken.Literal)
	p.tracer.level--
}
