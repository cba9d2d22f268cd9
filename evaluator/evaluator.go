// Package evaluator は Monkey言語のTree-walking評価器を実装するパッケージ。
// ASTを再帰的にたどりながら（tree-walking）、各ノードを評価して
// object.Object としての結果を返す。
//
// 評価に失敗した場合は *Error を返し、それ以降の評価は行わない。
// return文による早期脱出はエラーではないので、
// object.ReturnValue として通常の戻り値の中で伝播させる。
package evaluator

import (
	"fmt"

	"monkey/ast"
	"monkey/object"
)

// シングルトンオブジェクト。
// true, false, null は常に同じオブジェクトを使い回すことで、
// ポインタ比較で等値判定できるようにする。
var (
	NULL  = &object.Null{}
	TRUE  = &object.Boolean{Value: true}
	FALSE = &object.Boolean{Value: false}
)

// Eval はASTノードを評価してオブジェクトを返す、評価器のメイン関数。
// ノードの型に応じたswitch文で処理を分岐する。
// 全ての評価はこの関数を通じて再帰的に行われる。
//
// 式の途中で return に出会うと（例: `1 + if (c) { return 2; }`）、
// 部分式の結果として ReturnValue が返ってくる。これは値ではないので、
// 演算などに使わずにそのまま返し、囲んでいる関数呼び出しかプログラムで
// 1回だけ取り出させる。
func Eval(node ast.Node, env *object.Environment) (object.Object, error) {
	switch node := node.(type) {

	// === 文（Statements）===

	case *ast.Program:
		return evalProgram(node, env)

	case *ast.BlockStatement:
		return evalBlockStatement(node, env)

	case *ast.ExpressionStatement:
		return Eval(node.Expression, env)

	// ReturnStatement: 戻り値を評価し、ReturnValueでラップする
	case *ast.ReturnStatement:
		val, err := Eval(node.ReturnValue, env)
		if err != nil || isReturn(val) {
			return val, err
		}
		return &object.ReturnValue{Value: val}, nil

	// LetStatement: 右辺を評価し、現在の環境に束縛する。文の値は束縛した値。
	case *ast.LetStatement:
		val, err := Eval(node.Value, env)
		if err != nil || isReturn(val) {
			return val, err
		}
		return env.Set(node.Name.Value, val), nil

	// === 式（Expressions）===

	case *ast.IntegerLiteral:
		return &object.Integer{Value: node.Value}, nil

	case *ast.StringLiteral:
		return &object.String{Value: node.Value}, nil

	case *ast.Boolean:
		return nativeBoolToBooleanObject(node.Value), nil

	case *ast.PrefixExpression:
		right, err := Eval(node.Right, env)
		if err != nil || isReturn(right) {
			return right, err
		}
		return evalPrefixExpression(node.Operator, right)

	case *ast.InfixExpression:
		left, err := Eval(node.Left, env)
		if err != nil || isReturn(left) {
			return left, err
		}
		right, err := Eval(node.Right, env)
		if err != nil || isReturn(right) {
			return right, err
		}
		return evalInfixExpression(node.Operator, left, right)

	case *ast.IfExpression:
		return evalIfExpression(node, env)

	case *ast.Identifier:
		return evalIdentifier(node, env)

	// FunctionLiteral: 定義時の環境を保持した関数オブジェクトを生成する（クロージャ）
	case *ast.FunctionLiteral:
		return &object.Function{Parameters: node.Parameters, Env: env, Body: node.Body}, nil

	case *ast.CallExpression:
		function, err := Eval(node.Function, env)
		if err != nil || isReturn(function) {
			return function, err
		}
		// 引数は呼び出す前に左から右へすべて評価する
		args, ret, err := evalExpressions(node.Arguments, env)
		if err != nil || ret != nil {
			return ret, err
		}
		return applyFunction(function, args, env)

	case *ast.ArrayLiteral:
		elements, ret, err := evalExpressions(node.Elements, env)
		if err != nil || ret != nil {
			return ret, err
		}
		return &object.Array{Elements: elements}, nil

	case *ast.IndexExpression:
		left, err := Eval(node.Left, env)
		if err != nil || isReturn(left) {
			return left, err
		}
		index, err := Eval(node.Index, env)
		if err != nil || isReturn(index) {
			return index, err
		}
		return evalIndexExpression(left, index)

	case *ast.HashLiteral:
		return evalHashLiteral(node, env)
	}

	return nil, &Error{Kind: UnknownNode, Name: fmt.Sprintf("%T", node)}
}

// evalProgram はプログラム全体（文のリスト）を評価する。
// ReturnValueに遭遇したら中身を取り出して即座に返す（プログラムレベルではアンラップ）。
func evalProgram(program *ast.Program, env *object.Environment) (object.Object, error) {
	var result object.Object = NULL

	for _, statement := range program.Statements {
		var err error
		result, err = Eval(statement, env)
		if err != nil {
			return nil, err
		}

		if returnValue, ok := result.(*object.ReturnValue); ok {
			return returnValue.Value, nil
		}
	}

	return result, nil
}

// evalBlockStatement はブロック内の文を評価する。
// evalProgram との違い: ReturnValueをアンラップしない。
// これにより、ネストされたブロックからのreturnが正しく伝播する。
// 例: if (true) { if (true) { return 10; } return 1; } → 10
// 空のブロックは NULL になる。
func evalBlockStatement(
	block *ast.BlockStatement,
	env *object.Environment,
) (object.Object, error) {
	var result object.Object = NULL

	for _, statement := range block.Statements {
		var err error
		result, err = Eval(statement, env)
		if err != nil {
			return nil, err
		}

		if result.Type() == object.RETURN_VALUE_OBJ {
			return result, nil
		}
	}

	return result, nil
}

// nativeBoolToBooleanObject はGoのbool値をシングルトンのBooleanオブジェクトに変換する。
func nativeBoolToBooleanObject(input bool) *object.Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

// =====================
// 前置演算子の評価
// =====================

func evalPrefixExpression(operator string, right object.Object) (object.Object, error) {
	switch operator {
	case "!":
		return evalBangOperatorExpression(right), nil
	case "-":
		return evalMinusPrefixOperatorExpression(right)
	default:
		return nil, unknownOperator(operator, nil, right)
	}
}

// evalBangOperatorExpression は ! 演算子を評価する。
// !true → false, !false → true, !null → true, それ以外 → false
func evalBangOperatorExpression(right object.Object) object.Object {
	return nativeBoolToBooleanObject(!isTruthy(right))
}

// evalMinusPrefixOperatorExpression は - 前置演算子を評価する。整数にのみ適用可能。
func evalMinusPrefixOperatorExpression(right object.Object) (object.Object, error) {
	integer, ok := right.(*object.Integer)
	if !ok {
		return nil, unknownOperator("-", nil, right)
	}
	return &object.Integer{Value: -integer.Value}, nil
}

// =====================
// 中置演算子の評価
// =====================

// evalInfixExpression は中置演算子式を評価する。
// 両辺の型の組み合わせで処理を分岐する。
// 型が異なれば TypeMismatch、同じ型で定義のない演算子なら UnknownOperator。
func evalInfixExpression(
	operator string,
	left, right object.Object,
) (object.Object, error) {
	switch {
	case left.Type() != right.Type():
		return nil, typeMismatch(operator, left, right)
	case left.Type() == object.INTEGER_OBJ:
		return evalIntegerInfixExpression(operator, left, right)
	case left.Type() == object.BOOLEAN_OBJ:
		return evalBooleanInfixExpression(operator, left, right)
	case left.Type() == object.STRING_OBJ:
		return evalStringInfixExpression(operator, left, right)
	default:
		return nil, unknownOperator(operator, left, right)
	}
}

// evalIntegerInfixExpression は整数同士の中置演算を評価する。
// 四則演算（+, -, *, /）と比較演算（<, >, ==, !=）をサポート。
// 桁あふれは検査しない。
func evalIntegerInfixExpression(
	operator string,
	left, right object.Object,
) (object.Object, error) {
	leftVal := left.(*object.Integer).Value
	rightVal := right.(*object.Integer).Value

	switch operator {
	case "+":
		return &object.Integer{Value: leftVal + rightVal}, nil
	case "-":
		return &object.Integer{Value: leftVal - rightVal}, nil
	case "*":
		return &object.Integer{Value: leftVal * rightVal}, nil
	case "/":
		if rightVal == 0 {
			return nil, &Error{Kind: DivisionByZero, Operator: operator,
				Left: left.Type(), Right: right.Type()}
		}
		return &object.Integer{Value: leftVal / rightVal}, nil
	case "<":
		return nativeBoolToBooleanObject(leftVal < rightVal), nil
	case ">":
		return nativeBoolToBooleanObject(leftVal > rightVal), nil
	case "==":
		return nativeBoolToBooleanObject(leftVal == rightVal), nil
	case "!=":
		return nativeBoolToBooleanObject(leftVal != rightVal), nil
	default:
		return nil, unknownOperator(operator, left, right)
	}
}

// evalBooleanInfixExpression は真偽値同士の == と != を評価する。
// シングルトンなのでポインタ比較で値の比較になる。
func evalBooleanInfixExpression(
	operator string,
	left, right object.Object,
) (object.Object, error) {
	switch operator {
	case "==":
		return nativeBoolToBooleanObject(left == right), nil
	case "!=":
		return nativeBoolToBooleanObject(left != right), nil
	default:
		return nil, unknownOperator(operator, left, right)
	}
}

// evalStringInfixExpression は文字列同士の中置演算を評価する。連結（+）のみ。
func evalStringInfixExpression(
	operator string,
	left, right object.Object,
) (object.Object, error) {
	if operator != "+" {
		return nil, unknownOperator(operator, left, right)
	}

	leftVal := left.(*object.String).Value
	rightVal := right.(*object.String).Value
	return &object.String{Value: leftVal + rightVal}, nil
}

// =====================
// if式の評価
// =====================

// evalIfExpression は if式を評価する。
// 条件がtruthyならConsequenceを、falsyでAlternativeがあればAlternativeを評価する。
// どちらにも当てはまらなければNULLを返す。
func evalIfExpression(
	ie *ast.IfExpression,
	env *object.Environment,
) (object.Object, error) {
	condition, err := Eval(ie.Condition, env)
	if err != nil || isReturn(condition) {
		return condition, err
	}

	if isTruthy(condition) {
		return Eval(ie.Consequence, env)
	} else if ie.Alternative != nil {
		return Eval(ie.Alternative, env)
	} else {
		return NULL, nil
	}
}

// =====================
// 識別子と変数
// =====================

// evalIdentifier は識別子を評価する。
// 環境のチェーンを先に探し、なければ組み込み関数を探す。
// ユーザーの束縛は組み込み関数を隠せる。
func evalIdentifier(
	node *ast.Identifier,
	env *object.Environment,
) (object.Object, error) {
	if val, ok := env.Get(node.Value); ok {
		return val, nil
	}

	if builtin, ok := builtins[node.Value]; ok {
		return builtin, nil
	}

	return nil, &Error{Kind: UnknownIdentifier, Name: node.Value}
}

// isTruthy はオブジェクトが「真」とみなされるか判定する。
// Monkey言語では: null → false, false → false, それ以外 → true
func isTruthy(obj object.Object) bool {
	switch obj {
	case NULL:
		return false
	case FALSE:
		return false
	default:
		return true
	}
}

// =====================
// 関数呼び出し
// =====================

// evalExpressions は式のリスト（関数引数、配列要素）を左から右に評価する。
// 途中でエラーが発生したら、そこで評価を打ち切る。
// return に出会った場合も打ち切り、その ReturnValue を2番目の戻り値で返す。
func evalExpressions(
	exps []ast.Expression,
	env *object.Environment,
) ([]object.Object, *object.ReturnValue, error) {
	result := make([]object.Object, 0, len(exps))

	for _, e := range exps {
		evaluated, err := Eval(e, env)
		if err != nil {
			return nil, nil, err
		}
		if ret, ok := evaluated.(*object.ReturnValue); ok {
			return nil, ret, nil
		}
		result = append(result, evaluated)
	}

	return result, nil, nil
}

// applyFunction は関数オブジェクトに引数を適用して実行する。
// 1. 引数の数が仮引数の数と一致するか確認
// 2. 関数の定義時環境を外側スコープとする新しい環境を作成
// 3. 関数本体を新しい環境で評価
// 4. ReturnValueを1段だけアンラップして結果を返す
// 組み込み関数には呼び出し元の環境を渡す。
func applyFunction(fn object.Object, args []object.Object, env *object.Environment) (object.Object, error) {
	switch fn := fn.(type) {
	case *object.Function:
		if len(args) != len(fn.Parameters) {
			return nil, wrongArgumentCount("", len(fn.Parameters), len(args))
		}
		evaluated, err := Eval(fn.Body, extendFunctionEnv(fn, args))
		if err != nil {
			return nil, err
		}
		return unwrapReturnValue(evaluated), nil

	case *object.Builtin:
		return fn.Fn(env, args...)

	default:
		return nil, &Error{Kind: NotCallable, Value: fn.Type()}
	}
}

// extendFunctionEnv は関数呼び出し用の新しい環境を作成する。
// 呼び出し元ではなく、関数の定義時環境を外側にする。
func extendFunctionEnv(
	fn *object.Function,
	args []object.Object,
) *object.Environment {
	env := object.NewEnclosedEnvironment(fn.Env)

	for paramIdx, param := range fn.Parameters {
		env.Set(param.Value, args[paramIdx])
	}

	return env
}

// isReturn は obj が return による脱出の途中かを返す。
func isReturn(obj object.Object) bool {
	_, ok := obj.(*object.ReturnValue)
	return ok
}

// unwrapReturnValue はReturnValueオブジェクトの中身を取り出す。
// returnが関数の外側まで伝播しないようにする。
func unwrapReturnValue(obj object.Object) object.Object {
	if returnValue, ok := obj.(*object.ReturnValue); ok {
		return returnValue.Value
	}

	return obj
}

// =====================
// 添字アクセスとハッシュ
// =====================

// evalIndexExpression は添字アクセスを評価する。
// 配列の範囲外アクセスはエラーではなく NULL になる。
func evalIndexExpression(left, index object.Object) (object.Object, error) {
	switch left := left.(type) {
	case *object.Array:
		if idx, ok := index.(*object.Integer); ok {
			return evalArrayIndexExpression(left, idx.Value), nil
		}
	case *object.Hash:
		if key, ok := index.(object.Hashable); ok {
			return evalHashIndexExpression(left, key), nil
		}
	}
	return nil, &Error{Kind: UnsupportedIndexOperator, Left: left.Type(), Right: index.Type()}
}

func evalArrayIndexExpression(array *object.Array, idx int64) object.Object {
	if idx < 0 || idx >= int64(len(array.Elements)) {
		return NULL
	}
	return array.Elements[idx]
}

func evalHashIndexExpression(hash *object.Hash, key object.Hashable) object.Object {
	value, ok := hash.Get(key.HashKey())
	if !ok {
		return NULL
	}
	return value
}

// evalHashLiteral はハッシュリテラルを評価する。
// キーと値をソース上の順に評価し、重複したキーは後の値で上書きする。
func evalHashLiteral(
	node *ast.HashLiteral,
	env *object.Environment,
) (object.Object, error) {
	hash := object.NewHash()

	for _, pair := range node.Pairs {
		key, err := Eval(pair.Key, env)
		if err != nil || isReturn(key) {
			return key, err
		}

		hashKey, ok := key.(object.Hashable)
		if !ok {
			return nil, &Error{Kind: UnusableHashKey, Value: key.Type()}
		}

		value, err := Eval(pair.Value, env)
		if err != nil || isReturn(value) {
			return value, err
		}

		hash.Set(hashKey, value)
	}

	return hash, nil
}
