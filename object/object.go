// Package object は Monkey言語のランタイムオブジェクトシステムを定義するパッケージ。
// 評価器（Evaluator）がASTを評価した結果はすべてこのパッケージの Object として表現される。
// 全てのオブジェクトは Object インターフェースを実装する。
package object

import (
	"bytes"
	"fmt"
	"strings"

	"monkey/ast"
)

// ObjectType はオブジェクトの種類を識別する文字列型。
type ObjectType string

// オブジェクトの種類を表す定数。
const (
	NULL_OBJ = "NULL" // null値

	INTEGER_OBJ = "INTEGER" // 整数
	BOOLEAN_OBJ = "BOOLEAN" // 真偽値
	STRING_OBJ  = "STRING"  // 文字列

	RETURN_VALUE_OBJ = "RETURN_VALUE" // return文の戻り値をラップするオブジェクト

	FUNCTION_OBJ = "FUNCTION" // 関数オブジェクト
	BUILTIN_OBJ  = "BUILTIN"  // 組み込み関数

	ARRAY_OBJ = "ARRAY"
	HASH_OBJ  = "HASH"
)

// Object はMonkey言語の全ての値が実装するインターフェース。
// Type() はオブジェクトの種類を返し、Inspect() は値の文字列表現を返す。
type Object interface {
	Type() ObjectType
	Inspect() string
}

// Integer は整数値を表すオブジェクト。
type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return fmt.Sprintf("%d", i.Value) }

// Boolean は真偽値を表すオブジェクト。
// 評価器ではシングルトン（TRUE, FALSE）として扱い、メモリ効率を上げている。
type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return fmt.Sprintf("%t", b.Value) }

// String は文字列を表すオブジェクト。
type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }

// Null はnull値を表すオブジェクト。
// 値が存在しないことを表す。評価器ではシングルトン（NULL）として扱う。
type Null struct{}

func (n *Null) Type() ObjectType { return NULL_OBJ }
func (n *Null) Inspect() string  { return "null" }

// ReturnValue はreturn文の戻り値をラップするオブジェクト。
// 評価器がreturn文に遭遇すると、このオブジェクトでラップして
// 文の列の評価を打ち切る。関数呼び出しの境界で1回だけ取り出される。
// ユーザーのコードから直接見えることはない。
type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Type() ObjectType { return RETURN_VALUE_OBJ }
func (rv *ReturnValue) Inspect() string  { return rv.Value.Inspect() }

// Function は関数オブジェクト。
// Parameters は仮引数リスト、Body は関数本体、Env は定義時の環境。
// Env を保持することでクロージャ（外側のスコープの変数を参照する関数）を実現する。
type Function struct {
	Parameters []*ast.Identifier
	Body       *ast.BlockStatement
	Env        *Environment
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }

// Inspect は関数の文字列表現を返す。
// `fn(params) { body }` の形式。
func (f *Function) Inspect() string {
	var out bytes.Buffer

	params := []string{}
	for _, p := range f.Parameters {
		params = append(params, p.String())
	}

	out.WriteString("fn(")
	out.WriteString(strings.Join(params, ", "))
	out.WriteString(") ")
	out.WriteString(f.Body.String())

	return out.String()
}

// BuiltinFunction は組み込み関数の実体。
// 呼び出し元の環境と評価済みの引数を受け取り、結果かエラーを返す。
type BuiltinFunction func(env *Environment, args ...Object) (Object, error)

// Builtin は組み込み関数を表すオブジェクト。
type Builtin struct {
	Name string
	Fn   BuiltinFunction
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return "builtin function " + b.Name }

// Array は配列を表すオブジェクト。
// 言語には要素を書き換える手段がないので、一度作った Elements は変更しない。
type Array struct {
	Elements []Object
}

func (ao *Array) Type() ObjectType { return ARRAY_OBJ }

// Inspect は `[e1, e2, ...]` の形式で返す。
func (ao *Array) Inspect() string {
	var out bytes.Buffer

	elements := []string{}
	for _, e := range ao.Elements {
		elements = append(elements, e.Inspect())
	}

	out.WriteString("[")
	out.WriteString(strings.Join(elements, ", "))
	out.WriteString("]")

	return out.String()
}
