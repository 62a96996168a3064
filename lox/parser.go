package lox

import (
	"fmt"
)

// MaxArgs is a soft cap: exceeding it is reported as a warning only.
const MaxArgs = 255

// Parser is a recursive-descent parser over a finished token slice.
// A statement that fails to parse is dropped and the parser
// resynchronizes at the next statement boundary.
type Parser struct {
	tokens []Token
	cur    int
	diags  *Collector
}

func NewParser(tokens []Token, diags *Collector) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != TokenEnd {
		line := 1
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].Line
		}
		tokens = append(tokens, Token{Type: TokenEnd, Line: line})
	}
	return &Parser{tokens: tokens, diags: diags}
}

// Parse returns every statement that parsed. If any statement was
// discarded, err is a ParseErrors listing one error per discard.
func (p *Parser) Parse() (stmts []Stmt, err error) {
	var errs ParseErrors
	for !p.atEnd() {
		stmt, perr := p.declaration()
		if perr != nil {
			errs = append(errs, perr)
			p.diags.Error(StageParse, perr.Line, "%s (near '%v')", perr.Msg, perr.Near)
			p.synchronize()
			continue
		}
		stmts = append(stmts, stmt)
	}
	if len(errs) > 0 {
		return stmts, errs
	}
	return stmts, nil
}

// ParseTokens is the one-shot form: NewParser(tokens, diags).Parse().
func ParseTokens(tokens []Token, diags *Collector) ([]Stmt, error) {
	return NewParser(tokens, diags).Parse()
}

// token cursor

func (p *Parser) peek() Token {
	return p.tokens[p.cur]
}

func (p *Parser) previous() Token {
	return p.tokens[p.cur-1]
}

func (p *Parser) atEnd() bool {
	return p.peek().Type == TokenEnd
}

func (p *Parser) advance() Token {
	if !p.atEnd() {
		p.cur++
	}
	return p.previous()
}

func (p *Parser) check(typ TokenType) bool {
	return p.peek().Type == typ
}

func (p *Parser) match(types ...TokenType) bool {
	for _, typ := range types {
		if p.check(typ) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) expect(typ TokenType, kind ParseErrorKind, msg string) (Token, *ParseError) {
	if p.check(typ) {
		return p.advance(), nil
	}
	return Token{}, p.errorAt(p.peek(), kind, msg)
}

func (p *Parser) errorAt(tok Token, kind ParseErrorKind, msg string) *ParseError {
	return &ParseError{Kind: kind, Line: tok.Line, Near: tok, Msg: msg}
}

// synchronize discards at least one token, then keeps discarding until
// just past a ';' or just before a token that starts a statement.
func (p *Parser) synchronize() {
	p.advance()
	for !p.atEnd() {
		if p.previous().Type == TokenSemicolon {
			return
		}
		switch p.peek().Type {
		case TokenClass, TokenFun, TokenVar, TokenFor, TokenIf,
			TokenWhile, TokenPrint, TokenReturn:
			return
		}
		p.advance()
	}
}

// declarations

func (p *Parser) declaration() (Stmt, *ParseError) {
	switch {
	case p.match(TokenVar):
		return p.varDeclaration()
	case p.match(TokenFun):
		return p.function()
	case p.check(TokenClass):
		return nil, p.errorAt(p.peek(), Unsupported, "classes are not supported")
	}
	return p.statement()
}

func (p *Parser) varDeclaration() (Stmt, *ParseError) {
	name, err := p.expect(TokenIdentifier, MalformedDecl, "expect variable name")
	if err != nil {
		return nil, err
	}
	var init Expr = &Literal{Tok: Token{Type: TokenNil, Line: name.Line}}
	if p.match(TokenEqual) {
		init, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err = p.expect(TokenSemicolon, MissingToken, "expect ';' after variable declaration"); err != nil {
		return nil, err
	}
	return &VarStmt{Name: name, Init: init}, nil
}

func (p *Parser) function() (Stmt, *ParseError) {
	name, err := p.expect(TokenIdentifier, MalformedDecl, "expect function name")
	if err != nil {
		return nil, err
	}
	if _, err = p.expect(TokenLParen, MissingToken, "expect '(' after function name"); err != nil {
		return nil, err
	}
	var params []Token
	if !p.check(TokenRParen) {
		for {
			if len(params) >= MaxArgs {
				p.diags.Warn(StageParse, p.peek().Line, "can't have more than %d parameters", MaxArgs)
			}
			param, err := p.expect(TokenIdentifier, MalformedDecl, "expect parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.match(TokenComma) {
				break
			}
		}
	}
	if _, err = p.expect(TokenRParen, MissingToken, "expect ')' after parameters"); err != nil {
		return nil, err
	}
	if _, err = p.expect(TokenLCurly, MissingToken, "expect '{' before function body"); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &FunctionStmt{Name: name, Params: params, Body: body}, nil
}

// statements

func (p *Parser) statement() (Stmt, *ParseError) {
	switch {
	case p.match(TokenPrint):
		return p.printStatement()
	case p.match(TokenReturn):
		return p.returnStatement()
	case p.match(TokenIf):
		return p.ifStatement()
	case p.match(TokenWhile):
		return p.whileStatement()
	case p.match(TokenFor):
		return p.forStatement()
	case p.match(TokenLCurly):
		stmts, err := p.block()
		if err != nil {
			return nil, err
		}
		return &BlockStmt{Stmts: stmts}, nil
	}
	return p.expressionStatement()
}

func (p *Parser) printStatement() (Stmt, *ParseError) {
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err = p.expect(TokenSemicolon, MissingToken, "expect ';' after value"); err != nil {
		return nil, err
	}
	return &PrintStmt{Expression: value}, nil
}

func (p *Parser) returnStatement() (Stmt, *ParseError) {
	keyword := p.previous()
	var value Expr = &Literal{Tok: Token{Type: TokenNil, Line: keyword.Line}}
	if !p.check(TokenSemicolon) {
		var err *ParseError
		value, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(TokenSemicolon, MissingToken, "expect ';' after return value"); err != nil {
		return nil, err
	}
	return &ReturnStmt{Keyword: keyword, Value: value}, nil
}

func (p *Parser) ifStatement() (Stmt, *ParseError) {
	if _, err := p.expect(TokenLParen, MissingToken, "expect '(' after 'if'"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err = p.expect(TokenRParen, MissingToken, "expect ')' after if condition"); err != nil {
		return nil, err
	}
	then, err := p.statement()
	if err != nil {
		return nil, err
	}
	var els Stmt
	if p.match(TokenElse) {
		els, err = p.statement()
		if err != nil {
			return nil, err
		}
	}
	return &IfStmt{Cond: cond, Then: then, Else: els}, nil
}

func (p *Parser) whileStatement() (Stmt, *ParseError) {
	if _, err := p.expect(TokenLParen, MissingToken, "expect '(' after 'while'"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err = p.expect(TokenRParen, MissingToken, "expect ')' after condition"); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Cond: cond, Body: body}, nil
}

// forStatement desugars
//
//	for (init; cond; incr) body
//
// into
//
//	{ init; while (cond) { body; incr; } }
//
// A missing condition is true. Without an initializer there is no
// outer block.
func (p *Parser) forStatement() (Stmt, *ParseError) {
	forTok := p.previous()
	if _, err := p.expect(TokenLParen, MissingToken, "expect '(' after 'for'"); err != nil {
		return nil, err
	}

	var init Stmt
	var err *ParseError
	switch {
	case p.match(TokenSemicolon):
	case p.match(TokenVar):
		init, err = p.varDeclaration()
	default:
		init, err = p.expressionStatement()
	}
	if err != nil {
		return nil, err
	}

	var cond Expr = &Literal{Tok: Token{Type: TokenTrue, Line: forTok.Line}}
	if !p.check(TokenSemicolon) {
		cond, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err = p.expect(TokenSemicolon, MissingToken, "expect ';' after loop condition"); err != nil {
		return nil, err
	}

	var incr Expr
	if !p.check(TokenRParen) {
		incr, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err = p.expect(TokenRParen, MissingToken, "expect ')' after for clauses"); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	if incr != nil {
		body = &BlockStmt{Stmts: []Stmt{body, &ExpressionStmt{Expression: incr}}}
	}
	var loop Stmt = &WhileStmt{Cond: cond, Body: body}
	if init != nil {
		loop = &BlockStmt{Stmts: []Stmt{init, loop}}
	}
	return loop, nil
}

// block parses declarations up to and including the closing '}'.
// The opening '{' has already been consumed.
func (p *Parser) block() ([]Stmt, *ParseError) {
	stmts := []Stmt{}
	for !p.check(TokenRCurly) && !p.atEnd() {
		stmt, err := p.declaration()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.expect(TokenRCurly, MissingToken, "expect '}' after block"); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *Parser) expressionStatement() (Stmt, *ParseError) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err = p.expect(TokenSemicolon, MissingToken, "expect ';' after expression"); err != nil {
		return nil, err
	}
	return &ExpressionStmt{Expression: expr}, nil
}

// expressions, lowest precedence first

func (p *Parser) expression() (Expr, *ParseError) {
	return p.assignment()
}

// assignment is right associative; only a bare identifier may be assigned.
func (p *Parser) assignment() (Expr, *ParseError) {
	expr, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.match(TokenEqual) {
		equals := p.previous()
		value, err := p.assignment()
		if err != nil {
			return nil, err
		}
		if v, ok := expr.(*Variable); ok {
			return &Assign{Name: v.Name, Value: value}, nil
		}
		return nil, p.errorAt(equals, InvalidAssignTarget, "invalid assignment target")
	}
	return expr, nil
}

func (p *Parser) or() (Expr, *ParseError) {
	expr, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.match(TokenOr) {
		op := p.previous()
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		expr = &Logical{Op: op, Left: expr, Right: right}
	}
	return expr, nil
}

func (p *Parser) and() (Expr, *ParseError) {
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.match(TokenAnd) {
		op := p.previous()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		expr = &Logical{Op: op, Left: expr, Right: right}
	}
	return expr, nil
}

// binaryLevel is the accumulate-while-operator-matches loop shared by
// every left associative binary level.
func (p *Parser) binaryLevel(next func() (Expr, *ParseError), ops ...TokenType) (Expr, *ParseError) {
	expr, err := next()
	if err != nil {
		return nil, err
	}
	for p.match(ops...) {
		op := p.previous()
		right, err := next()
		if err != nil {
			return nil, err
		}
		expr = &Binary{Op: op, Left: expr, Right: right}
	}
	return expr, nil
}

func (p *Parser) equality() (Expr, *ParseError) {
	return p.binaryLevel(p.comparison, TokenBangEqual, TokenEqualEqual)
}

func (p *Parser) comparison() (Expr, *ParseError) {
	return p.binaryLevel(p.term, TokenGreater, TokenGreaterEqual, TokenLess, TokenLessEqual)
}

func (p *Parser) term() (Expr, *ParseError) {
	return p.binaryLevel(p.factor, TokenMinus, TokenPlus)
}

func (p *Parser) factor() (Expr, *ParseError) {
	return p.binaryLevel(p.unary, TokenSlash, TokenStar)
}

func (p *Parser) unary() (Expr, *ParseError) {
	if p.match(TokenBang, TokenMinus) {
		op := p.previous()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: op, Operand: operand}, nil
	}
	return p.call()
}

func (p *Parser) call() (Expr, *ParseError) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.match(TokenLParen) {
		expr, err = p.finishCall(expr)
		if err != nil {
			return nil, err
		}
	}
	return expr, nil
}

func (p *Parser) finishCall(callee Expr) (Expr, *ParseError) {
	var args []Expr
	if !p.check(TokenRParen) {
		for {
			if len(args) >= MaxArgs {
				p.diags.Warn(StageParse, p.peek().Line, "can't have more than %d arguments", MaxArgs)
			}
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(TokenComma) {
				break
			}
		}
	}
	paren, err := p.expect(TokenRParen, MissingToken, "expect ')' after arguments")
	if err != nil {
		return nil, err
	}
	return &Call{Callee: callee, Paren: paren, Args: args}, nil
}

func (p *Parser) primary() (Expr, *ParseError) {
	tok := p.peek()
	switch tok.Type {
	case TokenFalse, TokenTrue, TokenNil, TokenNumber, TokenString:
		p.advance()
		return &Literal{Tok: tok}, nil
	case TokenIdentifier:
		p.advance()
		return &Variable{Name: tok}, nil
	case TokenLParen:
		p.advance()
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err = p.expect(TokenRParen, MissingToken, "expect ')' after expression"); err != nil {
			return nil, err
		}
		return &Grouping{Inner: inner}, nil
	case TokenThis, TokenSuper:
		return nil, p.errorAt(tok, Unsupported, fmt.Sprintf("'%s' is not supported", tok.Type))
	}
	return nil, p.errorAt(tok, ExpectExpression, "expect expression")
}
