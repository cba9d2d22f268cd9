package repl

import (
	"io"
	"log/slog"

	"monkey/evaluator"
	"monkey/lexer"
	"monkey/object"
	"monkey/parser"
)

// Session は1つの環境を共有しながらソースを順に評価する。
// 入力をまたいで変数束縛が持続する。
type Session struct {
	env    *object.Environment
	tracer *slog.Logger
}

// NewSession は puts の出力先を out とするセッションを作る。
// 出力先はセッションの環境が持つので、セッションごとに独立している。
func NewSession(out io.Writer) *Session {
	env := object.NewEnvironment()
	env.SetOutput(out)
	return &Session{env: env}
}

// TraceParser はパーサーのトレースを logger に出すようにする。nil で止める。
func (s *Session) TraceParser(logger *slog.Logger) {
	s.tracer = logger
}

// Eval は src をパースしてセッションの環境で評価する。
// パースエラーは *parser.Error、評価エラーは *evaluator.Error として返す。
// どちらの場合も環境は評価が止まった時点の状態のまま残る。
func (s *Session) Eval(src string) (object.Object, error) {
	p := parser.New(lexer.New(src))
	if s.tracer != nil {
		p.EnableTracing(s.tracer)
	}

	program, err := p.ParseProgram()
	if err != nil {
		return nil, err
	}

	return evaluator.Eval(program, s.env)
}

// Names はトップレベルで束縛されている名前を返す。
func (s *Session) Names() []string {
	return s.env.Names()
}

// Lookup はトップレベルの束縛を探す。
func (s *Session) Lookup(name string) (object.Object, bool) {
	return s.env.Get(name)
}

// needsMore は src が途中で終わっているだけでパースに失敗しているかを返す。
// 継続行を読むかどうかの判定に使う。
func needsMore(src string) bool {
	_, err := parser.New(lexer.New(src)).ParseProgram()
	return parser.IsIncomplete(err)
}
