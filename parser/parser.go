// Package parser は Monkey言語のパーサーを実装するパッケージ。
// Pratt Parser（トップダウン演算子順位解析法）を使って、
// トークン列をAST（抽象構文木）に変換する。
//
// Pratt Parserの核心的なアイデア:
// - 各トークンタイプに「前置解析関数」と「中置解析関数」を関連付ける
// - 演算子の優先順位（precedence）に基づいて正しい構文木を構築する
//
// パーサーは最初のエラーで停止し、部分的な結果は返さない。
package parser

import (
	"strconv"

	"monkey/ast"
	"monkey/token"
)

// 演算子の優先順位を定数で定義する。
// 数値が大きいほど優先順位が高い。
// 例: * は + より優先順位が高いので、`1 + 2 * 3` は `1 + (2 * 3)` になる。
const (
	_ int = iota
	LOWEST
	EQUALS      // ==
	LESSGREATER // > または <
	SUM         // +
	PRODUCT     // *
	PREFIX      // -X または !X
	CALL        // myFunction(X) または array[index]
)

// precedences はトークンタイプから優先順位への対応表。
// この表に基づいてパーサーが演算子の結合順序を決定する。
var precedences = map[token.TokenType]int{
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       LESSGREATER,
	token.GT:       LESSGREATER,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.SLASH:    PRODUCT,
	token.ASTERISK: PRODUCT,
	token.LPAREN:   CALL,
	token.LBRACKET: CALL,
}

// prefixParseFn は前置解析関数の型。
// トークンが式の先頭に来た場合に呼ばれる（例: -5, !true, 識別子, 整数リテラル）。
type (
	prefixParseFn func() (ast.Expression, error)
	// infixParseFn は中置解析関数の型。
	// 左辺の式を引数に取り、中置演算子の右辺を解析して完全な式を返す。
	infixParseFn func(ast.Expression) (ast.Expression, error)
)

// TokenSource はパーサーにトークンを供給するもの。
// 終端に達した後は EOF を返し続けなければならない。
type TokenSource interface {
	NextToken() token.Token
}

// Parser はMonkey言語のパーサー。
// トークン供給元からトークンを読み取り、ASTを構築する。
type Parser struct {
	l TokenSource

	curToken  token.Token // 現在見ているトークン
	peekToken token.Token // 次のトークン（先読み用）

	// 各トークンタイプに対応する解析関数を登録するマップ
	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn

	tracer *tracer // nil ならトレースしない
}

// New はトークン供給元からパーサーを生成する。
// 各トークンタイプに対して適切な解析関数を登録し、
// 最初の2トークンを読み込んで curToken と peekToken をセットする。
func New(l TokenSource) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.INT, p.parseIntegerLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.BANG, p.parsePrefixExpression)
	p.registerPrefix(token.MINUS, p.parsePrefixExpression)
	p.registerPrefix(token.TRUE, p.parseBoolean)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.IF, p.parseIfExpression)
	p.registerPrefix(token.FUNCTION, p.parseFunctionLiteral)
	p.registerPrefix(token.LBRACKET, p.parseArrayLiteral)
	p.registerPrefix(token.LBRACE, p.parseHashLiteral)

	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	p.registerInfix(token.PLUS, p.parseInfixExpression)
	p.registerInfix(token.MINUS, p.parseInfixExpression)
	p.registerInfix(token.SLASH, p.parseInfixExpression)
	p.registerInfix(token.ASTERISK, p.parseInfixExpression)
	p.registerInfix(token.EQ, p.parseInfixExpression)
	p.registerInfix(token.NOT_EQ, p.parseInfixExpression)
	p.registerInfix(token.LT, p.parseInfixExpression)
	p.registerInfix(token.GT, p.parseInfixExpression)

	// '(' は関数呼び出し、'[' は添字アクセスの中置演算子として扱う
	p.registerInfix(token.LPAREN, p.parseCallExpression)
	p.registerInfix(token.LBRACKET, p.parseIndexExpression)

	// curToken と peekToken の両方をセットするために2回読む
	p.nextToken()
	p.nextToken()

	return p
}

// nextToken は次のトークンに進む。
func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

// curTokenIs は現在のトークンが指定された型か判定する。
func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

// peekTokenIs は次のトークンが指定された型か判定する。
func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

// expectPeek は次のトークンが期待する型であればトークンを進める。
// 期待と違う場合は期待した型と実際の型を持つエラーを返す。
func (p *Parser) expectPeek(t token.TokenType) error {
	if !p.peekTokenIs(t) {
		return &Error{Kind: UnexpectedToken, Expected: t, Token: p.peekToken}
	}
	p.nextToken()
	return nil
}

// =====================
// プログラムと文のパース
// =====================

// ParseProgram はプログラム全体をパースしてASTのルートノードを返す。
// EOF に到達するまで文を1つずつパースしてProgramに追加していく。
// 文が1つもなければ NoStatements エラーになる。
func (p *Parser) ParseProgram() (*ast.Program, error) {
	program := &ast.Program{}
	program.Statements = []ast.Statement{}

	for !p.curTokenIs(token.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		program.Statements = append(program.Statements, stmt)
		p.nextToken()
	}

	if len(program.Statements) == 0 {
		return nil, &Error{Kind: NoStatements, Token: p.curToken}
	}

	return program, nil
}

// parseStatement は現在のトークンに応じて適切な種類の文をパースする。
// let → LetStatement, return → ReturnStatement, それ以外 → ExpressionStatement
func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.curToken.Type {
	case token.LET:
		return p.parseLetStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	default:
		return p.parseExpressionStatement()
	}
}

// parseLetStatement は `let <identifier> = <expression>;` をパースする。
func (p *Parser) parseLetStatement() (*ast.LetStatement, error) {
	defer p.untrace(p.trace("parseLetStatement"))

	stmt := &ast.LetStatement{Token: p.curToken}

	if err := p.expectPeek(token.IDENT); err != nil {
		return nil, err
	}

	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if err := p.expectPeek(token.ASSIGN); err != nil {
		return nil, err
	}

	p.nextToken()

	value, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	stmt.Value = value

	// セミコロンは省略可能
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}

	return stmt, nil
}

// parseReturnStatement は `return <expression>;` をパースする。
func (p *Parser) parseReturnStatement() (*ast.ReturnStatement, error) {
	defer p.untrace(p.trace("parseReturnStatement"))

	stmt := &ast.ReturnStatement{Token: p.curToken}

	p.nextToken()

	value, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	stmt.ReturnValue = value

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}

	return stmt, nil
}

// parseExpressionStatement は式だけからなる文をパースする。
// Monkey言語では `x + 10;` のように式を文として書ける。
func (p *Parser) parseExpressionStatement() (*ast.ExpressionStatement, error) {
	defer p.untrace(p.trace("parseExpressionStatement"))

	stmt := &ast.ExpressionStatement{Token: p.curToken}

	expr, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	stmt.Expression = expr

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}

	return stmt, nil
}

// =====================
// 式のパース（Pratt Parser の心臓部）
// =====================

// parseExpression はPratt Parserのメインループ。
// 1. まず現在のトークンに対応する前置解析関数を呼んで左辺の式を得る
// 2. 次のトークンの優先順位が現在の優先順位より高い間、
//    中置解析関数を呼んで左辺に演算子と右辺を結合していく
//
// 例: `1 + 2 * 3` の場合
//   - 前置関数で 1 を取得
//   - + の優先順位(SUM) > 引数の優先順位(LOWEST) なので、中置関数で (1 + ...) を構築
//   - 中置関数内で parseExpression(SUM) を再帰呼び出し
//   - 2 を前置関数で取得し、* の優先順位(PRODUCT) > SUM なので (2 * 3) を構築
//   - 結果: (1 + (2 * 3))
func (p *Parser) parseExpression(precedence int) (ast.Expression, error) {
	defer p.untrace(p.trace("parseExpression"))

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		return nil, &Error{Kind: NoPrefixParseFn, Token: p.curToken}
	}
	leftExp, err := prefix()
	if err != nil {
		return nil, err
	}

	for !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp, nil
		}

		p.nextToken()

		leftExp, err = infix(leftExp)
		if err != nil {
			return nil, err
		}
	}

	return leftExp, nil
}

// peekPrecedence は次のトークンの優先順位を返す。
func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}

	return LOWEST
}

// curPrecedence は現在のトークンの優先順位を返す。
func (p *Parser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}

	return LOWEST
}

// =====================
// 各種式の解析関数
// =====================

func (p *Parser) parseIdentifier() (ast.Expression, error) {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}, nil
}

// parseIntegerLiteral は整数リテラルをパースする。
// 10進数として int64 に変換し、収まらなければエラーを返す。
func (p *Parser) parseIntegerLiteral() (ast.Expression, error) {
	defer p.untrace(p.trace("parseIntegerLiteral"))

	value, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		return nil, &Error{Kind: InvalidInteger, Token: p.curToken}
	}

	return &ast.IntegerLiteral{Token: p.curToken, Value: value}, nil
}

func (p *Parser) parseStringLiteral() (ast.Expression, error) {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}, nil
}

func (p *Parser) parseBoolean() (ast.Expression, error) {
	return &ast.Boolean{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}, nil
}

// parsePrefixExpression は前置演算子式（!x, -5 など）をパースする。
// 右辺は PREFIX 優先順位でパースするので `-a * b` は `((-a) * b)` になる。
func (p *Parser) parsePrefixExpression() (ast.Expression, error) {
	defer p.untrace(p.trace("parsePrefixExpression"))

	expression := &ast.PrefixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
	}

	p.nextToken()

	right, err := p.parseExpression(PREFIX)
	if err != nil {
		return nil, err
	}
	expression.Right = right

	return expression, nil
}

// parseInfixExpression は中置演算子式（5 + 10 など）をパースする。
// 左辺は引数として受け取り、現在のトークン（演算子）の優先順位で右辺をパースする。
// 同じ優先順位の演算子は左結合になる。
func (p *Parser) parseInfixExpression(left ast.Expression) (ast.Expression, error) {
	defer p.untrace(p.trace("parseInfixExpression"))

	expression := &ast.InfixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
		Left:     left,
	}

	precedence := p.curPrecedence()
	p.nextToken()

	right, err := p.parseExpression(precedence)
	if err != nil {
		return nil, err
	}
	expression.Right = right

	return expression, nil
}

// parseGroupedExpression は括弧で囲まれた式 `(expression)` をパースする。
// 括弧はグループ化のためだけに使われ、AST上には残らない。
func (p *Parser) parseGroupedExpression() (ast.Expression, error) {
	p.nextToken()

	exp, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}

	if err := p.expectPeek(token.RPAREN); err != nil {
		return nil, err
	}

	return exp, nil
}

// parseIfExpression は `if (<condition>) <consequence> else <alternative>` をパースする。
// else if の連鎖は持たない。else ブロックの中に if を書く。
func (p *Parser) parseIfExpression() (ast.Expression, error) {
	defer p.untrace(p.trace("parseIfExpression"))

	expression := &ast.IfExpression{Token: p.curToken}

	if err := p.expectPeek(token.LPAREN); err != nil {
		return nil, err
	}

	p.nextToken()
	condition, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	expression.Condition = condition

	if err := p.expectPeek(token.RPAREN); err != nil {
		return nil, err
	}

	if err := p.expectPeek(token.LBRACE); err != nil {
		return nil, err
	}

	if expression.Consequence, err = p.parseBlockStatement(); err != nil {
		return nil, err
	}

	if p.peekTokenIs(token.ELSE) {
		p.nextToken()

		if err := p.expectPeek(token.LBRACE); err != nil {
			return nil, err
		}

		if expression.Alternative, err = p.parseBlockStatement(); err != nil {
			return nil, err
		}
	}

	return expression, nil
}

// parseBlockStatement は `{ ... }` 内の文をパースする。
// '}' に到達するまで文をパースし続ける。'}' の前に EOF が来たらエラー。
func (p *Parser) parseBlockStatement() (*ast.BlockStatement, error) {
	defer p.untrace(p.trace("parseBlockStatement"))

	block := &ast.BlockStatement{Token: p.curToken}
	block.Statements = []ast.Statement{}

	p.nextToken()

	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			return nil, &Error{Kind: UnexpectedToken, Expected: token.RBRACE, Token: p.curToken}
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
		p.nextToken()
	}

	return block, nil
}

// parseFunctionLiteral は `fn(<params>) <body>` をパースする。
func (p *Parser) parseFunctionLiteral() (ast.Expression, error) {
	defer p.untrace(p.trace("parseFunctionLiteral"))

	lit := &ast.FunctionLiteral{Token: p.curToken}

	if err := p.expectPeek(token.LPAREN); err != nil {
		return nil, err
	}

	params, err := p.parseFunctionParameters()
	if err != nil {
		return nil, err
	}
	lit.Parameters = params

	if err := p.expectPeek(token.LBRACE); err != nil {
		return nil, err
	}

	if lit.Body, err = p.parseBlockStatement(); err != nil {
		return nil, err
	}

	return lit, nil
}

// parseFunctionParameters は関数のパラメータリスト `(x, y, z)` をパースする。
// 各パラメータは識別子でなければならない。
func (p *Parser) parseFunctionParameters() ([]*ast.Identifier, error) {
	identifiers := []*ast.Identifier{}

	// パラメータが0個の場合: fn() { ... }
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return identifiers, nil
	}

	if err := p.expectPeek(token.IDENT); err != nil {
		return nil, err
	}
	identifiers = append(identifiers, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})

	for p.peekTokenIs(token.COMMA) {
		p.nextToken() // カンマを飛ばす
		if err := p.expectPeek(token.IDENT); err != nil {
			return nil, err
		}
		identifiers = append(identifiers, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
	}

	if err := p.expectPeek(token.RPAREN); err != nil {
		return nil, err
	}

	return identifiers, nil
}

// parseCallExpression は関数呼び出し `<expression>(<args>)` をパースする。
// 左辺の式（関数）を引数として受け取り、引数リストをパースする。
func (p *Parser) parseCallExpression(function ast.Expression) (ast.Expression, error) {
	defer p.untrace(p.trace("parseCallExpression"))

	exp := &ast.CallExpression{Token: p.curToken, Function: function}

	args, err := p.parseExpressionList(token.RPAREN)
	if err != nil {
		return nil, err
	}
	exp.Arguments = args

	return exp, nil
}

// parseArrayLiteral は配列リテラル `[a, b, c]` をパースする。
func (p *Parser) parseArrayLiteral() (ast.Expression, error) {
	defer p.untrace(p.trace("parseArrayLiteral"))

	array := &ast.ArrayLiteral{Token: p.curToken}

	elements, err := p.parseExpressionList(token.RBRACKET)
	if err != nil {
		return nil, err
	}
	array.Elements = elements

	return array, nil
}

// parseExpressionList はカンマ区切りの式のリストを end トークンまでパースする。
// 関数呼び出しの引数 `)` と配列リテラルの要素 `]` で共有する。
func (p *Parser) parseExpressionList(end token.TokenType) ([]ast.Expression, error) {
	list := []ast.Expression{}

	// 要素が0個の場合: add() や []
	if p.peekTokenIs(end) {
		p.nextToken()
		return list, nil
	}

	p.nextToken()
	exp, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	list = append(list, exp)

	for p.peekTokenIs(token.COMMA) {
		p.nextToken() // カンマを飛ばす
		p.nextToken() // 次の要素へ
		exp, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		list = append(list, exp)
	}

	if err := p.expectPeek(end); err != nil {
		return nil, err
	}

	return list, nil
}

// parseIndexExpression は添字アクセス `<left>[<index>]` をパースする。
func (p *Parser) parseIndexExpression(left ast.Expression) (ast.Expression, error) {
	defer p.untrace(p.trace("parseIndexExpression"))

	exp := &ast.IndexExpression{Token: p.curToken, Left: left}

	p.nextToken()
	index, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	exp.Index = index

	if err := p.expectPeek(token.RBRACKET); err != nil {
		return nil, err
	}

	return exp, nil
}

// parseHashLiteral はハッシュリテラル `{<key>: <value>, ...}` をパースする。
// 最後のペアの後のカンマはあってもなくてもよい。
func (p *Parser) parseHashLiteral() (ast.Expression, error) {
	defer p.untrace(p.trace("parseHashLiteral"))

	hash := &ast.HashLiteral{Token: p.curToken}
	hash.Pairs = []ast.HashPair{}

	for !p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		key, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}

		if err := p.expectPeek(token.COLON); err != nil {
			return nil, err
		}

		p.nextToken()
		value, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}

		hash.Pairs = append(hash.Pairs, ast.HashPair{Key: key, Value: value})

		if !p.peekTokenIs(token.RBRACE) {
			if err := p.expectPeek(token.COMMA); err != nil {
				return nil, err
			}
		}
	}

	if err := p.expectPeek(token.RBRACE); err != nil {
		return nil, err
	}

	return hash, nil
}

// registerPrefix は前置解析関数を登録するヘルパー。
func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

// registerInfix は中置解析関数を登録するヘルパー。
func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}
