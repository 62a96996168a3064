package lox

import (
	"fmt"
	"strconv"
)

type TokenType int

const (
	TokenEnd TokenType = iota

	// single character tokens
	TokenLParen
	TokenRParen
	TokenLCurly
	TokenRCurly
	TokenComma
	TokenDot
	TokenMinus
	TokenPlus
	TokenSemicolon
	TokenSlash
	TokenStar

	// one or two character tokens
	TokenBang
	TokenBangEqual
	TokenEqual
	TokenEqualEqual
	TokenGreater
	TokenGreaterEqual
	TokenLess
	TokenLessEqual

	// literals
	TokenIdentifier
	TokenString
	TokenNumber

	// keywords
	TokenAnd
	TokenClass
	TokenElse
	TokenFalse
	TokenFun
	TokenFor
	TokenIf
	TokenNil
	TokenOr
	TokenPrint
	TokenReturn
	TokenSuper
	TokenThis
	TokenTrue
	TokenVar
	TokenWhile
)

var tokenNames = map[TokenType]string{
	TokenEnd:          "EOF",
	TokenLParen:       "(",
	TokenRParen:       ")",
	TokenLCurly:       "{",
	TokenRCurly:       "}",
	TokenComma:        ",",
	TokenDot:          ".",
	TokenMinus:        "-",
	TokenPlus:         "+",
	TokenSemicolon:    ";",
	TokenSlash:        "/",
	TokenStar:         "*",
	TokenBang:         "!",
	TokenBangEqual:    "!=",
	TokenEqual:        "=",
	TokenEqualEqual:   "==",
	TokenGreater:      ">",
	TokenGreaterEqual: ">=",
	TokenLess:         "<",
	TokenLessEqual:    "<=",
	TokenIdentifier:   "IDENTIFIER",
	TokenString:       "STRING",
	TokenNumber:       "NUMBER",
}

// Keywords maps each reserved word to its token type. Anything
// else matching the identifier shape is an identifier.
var Keywords = map[string]TokenType{
	"and":    TokenAnd,
	"class":  TokenClass,
	"else":   TokenElse,
	"false":  TokenFalse,
	"for":    TokenFor,
	"fun":    TokenFun,
	"if":     TokenIf,
	"nil":    TokenNil,
	"or":     TokenOr,
	"print":  TokenPrint,
	"return": TokenReturn,
	"super":  TokenSuper,
	"this":   TokenThis,
	"true":   TokenTrue,
	"var":    TokenVar,
	"while":  TokenWhile,
}

func init() {
	for word, typ := range Keywords {
		tokenNames[typ] = word
	}
}

func (typ TokenType) String() string {
	if s, ok := tokenNames[typ]; ok {
		return s
	}
	return fmt.Sprintf("TokenType(%d)", int(typ))
}

// Token is immutable once the scanner emits it. Str holds the
// identifier name or string payload, Num the number payload.
type Token struct {
	Type TokenType
	Str  string
	Num  float64
	Line int
}

var EndTk = Token{Type: TokenEnd}

func (t Token) String() string {
	switch t.Type {
	case TokenIdentifier:
		return t.Str
	case TokenString:
		return strconv.Quote(t.Str)
	case TokenNumber:
		return FormatNumber(t.Num)
	}
	return t.Type.String()
}
