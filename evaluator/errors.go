package evaluator

import (
	"fmt"

	"monkey/object"
)

// ErrorKind は評価エラーの種類。
type ErrorKind int

const (
	// UnknownIdentifier は環境にも組み込み関数にもない名前を参照した場合。
	UnknownIdentifier ErrorKind = iota
	// TypeMismatch は中置演算子の両辺の型が異なる場合。
	TypeMismatch
	// UnknownOperator はその型に対して演算子が定義されていない場合。
	UnknownOperator
	// NotCallable は関数でない値を呼び出した場合。
	NotCallable
	// WrongArgumentCount は引数の数が合わない場合。
	WrongArgumentCount
	// UnsupportedArgument は組み込み関数が受け付けない型を渡した場合。
	UnsupportedArgument
	// UnsupportedIndexOperator は添字アクセスできない組み合わせの場合。
	UnsupportedIndexOperator
	// UnusableHashKey はハッシュリテラルのキーがハッシュ可能でない場合。
	UnusableHashKey
	// DivisionByZero は整数を0で割った場合。
	DivisionByZero
	// UnknownNode は評価器が扱わないノード（nil を含む）を渡された場合。
	UnknownNode
)

func (k ErrorKind) String() string {
	switch k {
	case UnknownIdentifier:
		return "unknown identifier"
	case TypeMismatch:
		return "type mismatch"
	case UnknownOperator:
		return "unknown operator"
	case NotCallable:
		return "not callable"
	case WrongArgumentCount:
		return "wrong argument count"
	case UnsupportedArgument:
		return "unsupported argument"
	case UnsupportedIndexOperator:
		return "unsupported index operator"
	case UnusableHashKey:
		return "unusable hash key"
	case DivisionByZero:
		return "division by zero"
	case UnknownNode:
		return "unknown node"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error は評価器が返すエラー。
// どのフィールドが意味を持つかは Kind によって決まる。
//
//	UnknownIdentifier        Name
//	TypeMismatch             Left, Operator, Right
//	UnknownOperator          Left（前置演算子では空）, Operator, Right
//	NotCallable              Value
//	WrongArgumentCount       Name（組み込み関数のみ）, Want, Got
//	UnsupportedArgument      Name, Value
//	UnsupportedIndexOperator Left（添字される側）, Right（添字）
//	UnusableHashKey          Value
//	UnknownNode              Name（ノードのGoの型名）
type Error struct {
	Kind     ErrorKind
	Name     string
	Operator string
	Left     object.ObjectType
	Right    object.ObjectType
	Value    object.ObjectType
	Want     int
	Got      int
}

func (e *Error) Error() string {
	switch e.Kind {
	case UnknownIdentifier:
		return "identifier not found: " + e.Name
	case TypeMismatch:
		return fmt.Sprintf("type mismatch: %s %s %s", e.Left, e.Operator, e.Right)
	case UnknownOperator:
		if e.Left == "" {
			return fmt.Sprintf("unknown operator: %s%s", e.Operator, e.Right)
		}
		return fmt.Sprintf("unknown operator: %s %s %s", e.Left, e.Operator, e.Right)
	case NotCallable:
		return fmt.Sprintf("not a function: %s", e.Value)
	case WrongArgumentCount:
		if e.Name != "" {
			return fmt.Sprintf("wrong number of arguments to `%s`. got=%d, want=%d",
				e.Name, e.Got, e.Want)
		}
		return fmt.Sprintf("wrong number of arguments. got=%d, want=%d", e.Got, e.Want)
	case UnsupportedArgument:
		return fmt.Sprintf("argument to `%s` not supported, got %s", e.Name, e.Value)
	case UnsupportedIndexOperator:
		return fmt.Sprintf("index operator not supported: %s[%s]", e.Left, e.Right)
	case UnusableHashKey:
		return fmt.Sprintf("unusable as hash key: %s", e.Value)
	case DivisionByZero:
		return "division by zero"
	case UnknownNode:
		return "cannot evaluate node: " + e.Name
	default:
		return e.Kind.String()
	}
}

func unknownOperator(operator string, left, right object.Object) *Error {
	e := &Error{Kind: UnknownOperator, Operator: operator, Right: right.Type()}
	if left != nil {
		e.Left = left.Type()
	}
	return e
}

func typeMismatch(operator string, left, right object.Object) *Error {
	return &Error{Kind: TypeMismatch, Operator: operator, Left: left.Type(), Right: right.Type()}
}

func wrongArgumentCount(name string, want, got int) *Error {
	return &Error{Kind: WrongArgumentCount, Name: name, Want: want, Got: got}
}

func unsupportedArgument(name string, arg object.Object) *Error {
	return &Error{Kind: UnsupportedArgument, Name: name, Value: arg.Type()}
}
