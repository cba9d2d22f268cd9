// Package lexer は Monkey言語の字句解析器（レキサー）を実装するパッケージ。
// ソースコードの文字列を1文字ずつ読み進め、トークン列に変換する。
// パーサーは NextToken() を繰り返し呼んでトークンを1つずつ受け取る。
package lexer

import "monkey/token"

// Lexer はソースコードを読み進めるための状態を保持する。
type Lexer struct {
	input        string
	position     int  // 現在の文字の位置（ch の位置）
	readPosition int  // 次に読む文字の位置
	ch           byte // 現在検査中の文字

	line   int // ch の行（1始まり）
	column int // ch の列（1始まり）
}

// New は入力文字列からレキサーを生成し、最初の1文字を読み込む。
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

// readChar は次の文字を読み込み、位置情報を進める。
// 入力の終端に達したら ch に 0 (NUL) をセットする。
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

// peekChar は次の文字を読み進めずに覗き見る。
// == や != のような2文字の演算子を判定するために使う。
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// NextToken は現在の文字を見て次のトークンを返す。
// 入力の終端に達した後は何度呼んでも EOF を返す。
func (l *Lexer) NextToken() token.Token {
	var tok token.Token

	l.skipWhitespace()

	pos := token.Position{Line: l.line, Column: l.column}

	switch l.ch {
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.EQ, Literal: "=="}
		} else {
			tok = newToken(token.ASSIGN, l.ch)
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.NOT_EQ, Literal: "!="}
		} else {
			tok = newToken(token.BANG, l.ch)
		}
	case '+':
		tok = newToken(token.PLUS, l.ch)
	case '-':
		tok = newToken(token.MINUS, l.ch)
	case '*':
		tok = newToken(token.ASTERISK, l.ch)
	case '/':
		tok = newToken(token.SLASH, l.ch)
	case '<':
		tok = newToken(token.LT, l.ch)
	case '>':
		tok = newToken(token.GT, l.ch)
	case ',':
		tok = newToken(token.COMMA, l.ch)
	case ';':
		tok = newToken(token.SEMICOLON, l.ch)
	case ':':
		tok = newToken(token.COLON, l.ch)
	case '(':
		tok = newToken(token.LPAREN, l.ch)
	case ')':
		tok = newToken(token.RPAREN, l.ch)
	case '{':
		tok = newToken(token.LBRACE, l.ch)
	case '}':
		tok = newToken(token.RBRACE, l.ch)
	case '[':
		tok = newToken(token.LBRACKET, l.ch)
	case ']':
		tok = newToken(token.RBRACKET, l.ch)
	case '"':
		str, ok := l.readString()
		if !ok {
			// 閉じ引用符がないまま入力が終わった
			tok = token.Token{Type: token.ILLEGAL, Literal: `"` + str}
		} else {
			tok = token.Token{Type: token.STRING, Literal: str}
		}
	case 0:
		tok = token.Token{Type: token.EOF, Literal: ""}
		tok.Pos = pos
		return tok
	default:
		if isLetter(l.ch) {
			tok.Literal = l.readIdentifier()
			tok.Type = token.LookupIdent(tok.Literal)
			tok.Pos = pos
			// readIdentifier で既に次の文字まで進んでいるので早期リターン
			return tok
		} else if isDigit(l.ch) {
			tok.Type = token.INT
			tok.Literal = l.readNumber()
			tok.Pos = pos
			return tok
		}
		tok = newToken(token.ILLEGAL, l.ch)
	}

	tok.Pos = pos
	l.readChar()
	return tok
}

// skipWhitespace は空白・タブ・改行を読み飛ばす。
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// readIdentifier は英字とアンダースコアが続く限り読み進め、識別子を返す。
func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readNumber は数字が続く限り読み進め、整数リテラルの文字列を返す。
func (l *Lexer) readNumber() string {
	position := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readString は閉じ引用符までを文字列リテラルとして読む。
// エスケープシーケンスはサポートしない。
// 閉じ引用符が見つからなければ ok=false を返す。
func (l *Lexer) readString() (string, bool) {
	position := l.position + 1
	for {
		l.readChar()
		if l.ch == '"' {
			return l.input[position:l.position], true
		}
		if l.ch == 0 {
			return l.input[position:l.position], false
		}
	}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func newToken(tokenType token.TokenType, ch byte) token.Token {
	return token.Token{Type: tokenType, Literal: string(ch)}
}
