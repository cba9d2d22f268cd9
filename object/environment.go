// environment.go は変数の環境（スコープ）を管理する。
// Environment は変数名から値へのマッピングを持ち、
// outer フィールドで外側のスコープへのチェーンを形成する。
// これにより、レキシカルスコープ（静的スコープ）とクロージャが実現される。
package object

import (
	"io"
	"os"
	"sort"
)

// NewEnclosedEnvironment は外側の環境を持つ新しい環境を作成する。
// 関数呼び出し時に使用し、関数の定義時環境を outer として設定する。
// 呼び出し元の環境ではないことに注意。これによりクロージャが成り立つ。
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

// NewEnvironment は新しい空の環境を作成する。
// プログラムのトップレベル環境として使用する。
func NewEnvironment() *Environment {
	s := make(map[string]Object)
	return &Environment{store: s, outer: nil}
}

// Environment は変数のスコープを表す構造体。
// store は現在のスコープの変数を保持し、
// outer は外側のスコープへの参照（なければnil）。
// Function が参照を持ち続ける限り、作られた文の評価が終わっても生き続ける。
type Environment struct {
	store map[string]Object
	outer *Environment
	out   io.Writer
}

// Get は変数名から値を検索する。
// 現在のスコープになければ外側のスコープを順にたどって探す。
// 見つかれば (値, true)、見つからなければ (nil, false) を返す。
func (e *Environment) Get(name string) (Object, bool) {
	for env := e; env != nil; env = env.outer {
		if obj, ok := env.store[name]; ok {
			return obj, true
		}
	}
	return nil, false
}

// Set は変数を現在のスコープに設定する。
// 外側のスコープに同名の変数があっても書き換えず、現在のスコープで隠す。
func (e *Environment) Set(name string, val Object) Object {
	e.store[name] = val
	return val
}

// Outer は外側の環境を返す。トップレベルでは nil。
func (e *Environment) Outer() *Environment { return e.outer }

// Names は現在のスコープで束縛されている名前を辞書順で返す。
// 外側のスコープは含まない。
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.store))
	for name := range e.store {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetOutput は puts などの出力先を設定する。
// 内側の環境は自分で設定しない限り外側の出力先を使う。
func (e *Environment) SetOutput(w io.Writer) {
	e.out = w
}

// Output は外側へたどって最初に見つかった出力先を返す。
// どこにも設定されていなければ標準出力。
func (e *Environment) Output() io.Writer {
	for env := e; env != nil; env = env.outer {
		if env.out != nil {
			return env.out
		}
	}
	return os.Stdout
}
