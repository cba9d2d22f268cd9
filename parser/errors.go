package parser

import (
	"errors"
	"fmt"

	"monkey/token"
)

// ErrorKind はパースエラーの種類。
type ErrorKind int

const (
	// UnexpectedToken は期待したトークンと実際のトークンが食い違った場合。
	UnexpectedToken ErrorKind = iota
	// NoPrefixParseFn は式が必要な位置に前置解析関数のないトークンが来た場合。
	NoPrefixParseFn
	// NoStatements はプログラムに文が1つもない場合。
	NoStatements
	// InvalidInteger は整数リテラルが int64 に収まらない場合。
	InvalidInteger
)

func (k ErrorKind) String() string {
	switch k {
	case UnexpectedToken:
		return "unexpected token"
	case NoPrefixParseFn:
		return "no prefix parse function"
	case NoStatements:
		return "no statements"
	case InvalidInteger:
		return "invalid integer"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error はパーサーが返すエラー。
// パーサーは最初の構造的なエラーで停止するため、1回のパースにつき高々1つ。
type Error struct {
	Kind     ErrorKind
	Expected token.TokenType // UnexpectedToken のときのみ
	Token    token.Token     // 問題のトークン（UnexpectedToken では実際に来たトークン）
}

func (e *Error) Error() string {
	switch e.Kind {
	case UnexpectedToken:
		return fmt.Sprintf("expected next token to be %s, got %s instead",
			e.Expected, e.Token.Type)
	case NoPrefixParseFn:
		return fmt.Sprintf("no prefix parse function for %s found", e.Token.Type)
	case NoStatements:
		return "found no valid statements"
	case InvalidInteger:
		return fmt.Sprintf("could not parse %q as integer", e.Token.Literal)
	default:
		return e.Kind.String()
	}
}

// Pos はエラーの位置を返す。位置が分からない場合はゼロ値。
func (e *Error) Pos() token.Position {
	return e.Token.Pos
}

// IsIncomplete はエラーが「入力が途中で終わった」ことだけに起因するかを返す。
// 対話モードで継続行を読むかどうかの判定に使う。
func IsIncomplete(err error) bool {
	var perr *Error
	if !errors.As(err, &perr) {
		return false
	}
	return perr.Token.Type == token.EOF &&
		(perr.Kind == UnexpectedToken || perr.Kind == NoPrefixParseFn)
}
