// builtins.go は Monkey言語の組み込み関数を定義する。
// これらの関数はユーザーが定義しなくても最初から使える。
//
// 組み込み関数一覧:
// - len: 文字列の長さまたは配列の要素数を返す
// - puts: 引数を環境の出力先に出力する
// - first: 配列の最初の要素を返す
// - last: 配列の最後の要素を返す
// - rest: 配列の最初の要素を除いた新しい配列を返す
// - push: 配列の末尾に要素を追加した新しい配列を返す（元の配列は変更しない）
package evaluator

import (
	"fmt"
	"unicode/utf8"

	"monkey/object"
)

// builtins は組み込み関数名からBuiltinオブジェクトへのマップ。
// evalIdentifier から参照される。
var builtins = map[string]*object.Builtin{
	"len":   {Name: "len", Fn: builtinLen},
	"puts":  {Name: "puts", Fn: builtinPuts},
	"first": {Name: "first", Fn: builtinFirst},
	"last":  {Name: "last", Fn: builtinLast},
	"rest":  {Name: "rest", Fn: builtinRest},
	"push":  {Name: "push", Fn: builtinPush},
}

// BuiltinNames は組み込み関数の名前を返す。REPL の補完とヘルプで使う。
func BuiltinNames() []string {
	return []string{"first", "last", "len", "push", "puts", "rest"}
}

// len は文字列の文字数または配列の要素数を返す。
func builtinLen(_ *object.Environment, args ...object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, wrongArgumentCount("len", 1, len(args))
	}

	switch arg := args[0].(type) {
	case *object.Array:
		return &object.Integer{Value: int64(len(arg.Elements))}, nil
	case *object.String:
		return &object.Integer{Value: int64(utf8.RuneCountInString(arg.Value))}, nil
	default:
		return nil, unsupportedArgument("len", args[0])
	}
}

// puts は引数を1行ずつ呼び出し元の環境の出力先に書く。常にNULLを返す。
func builtinPuts(env *object.Environment, args ...object.Object) (object.Object, error) {
	for _, arg := range args {
		fmt.Fprintln(env.Output(), arg.Inspect())
	}

	return NULL, nil
}

// arrayArgument は配列1つだけを受け取る組み込み関数の引数を検査する。
func arrayArgument(name string, args []object.Object) (*object.Array, error) {
	if len(args) != 1 {
		return nil, wrongArgumentCount(name, 1, len(args))
	}
	arr, ok := args[0].(*object.Array)
	if !ok {
		return nil, unsupportedArgument(name, args[0])
	}
	return arr, nil
}

// first は配列の最初の要素を返す。空配列の場合はNULLを返す。
func builtinFirst(_ *object.Environment, args ...object.Object) (object.Object, error) {
	arr, err := arrayArgument("first", args)
	if err != nil {
		return nil, err
	}

	if len(arr.Elements) > 0 {
		return arr.Elements[0], nil
	}
	return NULL, nil
}

// last は配列の最後の要素を返す。空配列の場合はNULLを返す。
func builtinLast(_ *object.Environment, args ...object.Object) (object.Object, error) {
	arr, err := arrayArgument("last", args)
	if err != nil {
		return nil, err
	}

	length := len(arr.Elements)
	if length > 0 {
		return arr.Elements[length-1], nil
	}
	return NULL, nil
}

// rest は配列の最初の要素を除いた新しい配列を返す。
// 元の配列は変更しない。空配列の場合はNULLを返す。
func builtinRest(_ *object.Environment, args ...object.Object) (object.Object, error) {
	arr, err := arrayArgument("rest", args)
	if err != nil {
		return nil, err
	}

	length := len(arr.Elements)
	if length > 0 {
		newElements := make([]object.Object, length-1)
		copy(newElements, arr.Elements[1:length])
		return &object.Array{Elements: newElements}, nil
	}
	return NULL, nil
}

// push は配列の末尾に要素を追加した新しい配列を返す。
// 元の配列は変更しない。
func builtinPush(_ *object.Environment, args ...object.Object) (object.Object, error) {
	if len(args) != 2 {
		return nil, wrongArgumentCount("push", 2, len(args))
	}
	arr, ok := args[0].(*object.Array)
	if !ok {
		return nil, unsupportedArgument("push", args[0])
	}

	length := len(arr.Elements)
	newElements := make([]object.Object, length+1)
	copy(newElements, arr.Elements)
	newElements[length] = args[1]

	return &object.Array{Elements: newElements}, nil
}
