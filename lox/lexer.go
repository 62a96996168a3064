package lox

import (
	"bytes"
	"regexp"
	"strconv"
	"unicode/utf8"
)

var NumberRegex = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// Lexer turns source text into tokens in one left-to-right pass.
// Any error aborts the whole scan; there is no partial-token recovery.
type Lexer struct {
	src     []rune
	start   int
	cur     int
	linenum int
	tokens  []Token
	buffer  *bytes.Buffer
}

func NewLexer(src string) *Lexer {
	return &Lexer{
		src:     StringToRunes(src),
		tokens:  make([]Token, 0, 10),
		buffer:  new(bytes.Buffer),
		linenum: 1,
	}
}

// Scan is the one-shot form: NewLexer(src).Tokenize().
func Scan(src string) ([]Token, error) {
	return NewLexer(src).Tokenize()
}

func StringToRunes(str string) []rune {
	b := []byte(str)
	runes := make([]rune, 0, len(b))

	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		runes = append(runes, r)
		b = b[size:]
	}
	return runes
}

func (lexer *Lexer) Linenum() int {
	return lexer.linenum
}

// Tokenize scans the whole input and appends the trailing end token.
func (lexer *Lexer) Tokenize() ([]Token, error) {
	for !lexer.atEnd() {
		lexer.start = lexer.cur
		err := lexer.lexNext()
		if err != nil {
			return nil, err
		}
	}
	lexer.tokens = append(lexer.tokens, Token{Type: TokenEnd, Line: lexer.linenum})
	return lexer.tokens, nil
}

func (lexer *Lexer) atEnd() bool {
	return lexer.cur >= len(lexer.src)
}

func (lexer *Lexer) advance() rune {
	r := lexer.src[lexer.cur]
	lexer.cur++
	return r
}

func (lexer *Lexer) peek() rune {
	if lexer.atEnd() {
		return 0
	}
	return lexer.src[lexer.cur]
}

func (lexer *Lexer) peekNext() rune {
	if lexer.cur+1 >= len(lexer.src) {
		return 0
	}
	return lexer.src[lexer.cur+1]
}

// match consumes the next rune only if it is want.
func (lexer *Lexer) match(want rune) bool {
	if lexer.atEnd() || lexer.src[lexer.cur] != want {
		return false
	}
	lexer.cur++
	return true
}

func (lexer *Lexer) emit(typ TokenType) {
	lexer.tokens = append(lexer.tokens, Token{Type: typ, Line: lexer.linenum})
}

func (lexer *Lexer) emitOneOrTwo(second rune, two, one TokenType) {
	if lexer.match(second) {
		lexer.emit(two)
		return
	}
	lexer.emit(one)
}

func (lexer *Lexer) lexNext() error {
	r := lexer.advance()
	switch r {
	case '(':
		lexer.emit(TokenLParen)
	case ')':
		lexer.emit(TokenRParen)
	case '{':
		lexer.emit(TokenLCurly)
	case '}':
		lexer.emit(TokenRCurly)
	case ',':
		lexer.emit(TokenComma)
	case '.':
		lexer.emit(TokenDot)
	case '-':
		lexer.emit(TokenMinus)
	case '+':
		lexer.emit(TokenPlus)
	case ';':
		lexer.emit(TokenSemicolon)
	case '*':
		lexer.emit(TokenStar)
	case '!':
		lexer.emitOneOrTwo('=', TokenBangEqual, TokenBang)
	case '=':
		lexer.emitOneOrTwo('=', TokenEqualEqual, TokenEqual)
	case '<':
		lexer.emitOneOrTwo('=', TokenLessEqual, TokenLess)
	case '>':
		lexer.emitOneOrTwo('=', TokenGreaterEqual, TokenGreater)
	case '/':
		if lexer.match('/') {
			// comment runs to end of line; the newline itself is left for counting.
			for !lexer.atEnd() && lexer.peek() != '\n' {
				lexer.advance()
			}
			return nil
		}
		lexer.emit(TokenSlash)
	case '\n':
		lexer.linenum++
	case ' ', '\t', '\r':
	case '"':
		return lexer.lexString()
	default:
		switch {
		case isDigit(r):
			return lexer.lexNumber()
		case isAlpha(r):
			lexer.lexIdentifier()
		default:
			return &ScanError{Kind: UnexpectedChar, Line: lexer.Linenum(), Char: r}
		}
	}
	return nil
}

// strings may span lines; there are no escape sequences.
func (lexer *Lexer) lexString() error {
	startLine := lexer.linenum
	lexer.buffer.Reset()
	for !lexer.atEnd() && lexer.peek() != '"' {
		r := lexer.advance()
		if r == '\n' {
			lexer.linenum++
		}
		lexer.buffer.WriteRune(r)
	}
	if lexer.atEnd() {
		return &ScanError{Kind: UnterminatedString, Line: startLine}
	}
	lexer.advance() // closing quote
	lexer.tokens = append(lexer.tokens, Token{
		Type: TokenString,
		Str:  lexer.buffer.String(),
		Line: startLine,
	})
	return nil
}

func (lexer *Lexer) lexNumber() error {
	for isDigit(lexer.peek()) {
		lexer.advance()
	}
	if lexer.peek() == '.' {
		if !isDigit(lexer.peekNext()) {
			lexer.advance()
			return lexer.malformedNumber()
		}
		lexer.advance()
		for isDigit(lexer.peek()) {
			lexer.advance()
		}
	}
	// 1.2.3 and 12ab are rejected rather than split into several tokens.
	if next := lexer.peek(); next == '.' || isAlpha(next) {
		lexer.advance()
		return lexer.malformedNumber()
	}

	atom := string(lexer.src[lexer.start:lexer.cur])
	if !NumberRegex.MatchString(atom) {
		return lexer.malformedNumber()
	}
	num, err := strconv.ParseFloat(atom, 64)
	if err != nil {
		return lexer.malformedNumber()
	}
	lexer.tokens = append(lexer.tokens, Token{Type: TokenNumber, Num: num, Line: lexer.linenum})
	return nil
}

func (lexer *Lexer) malformedNumber() error {
	return &ScanError{
		Kind:   MalformedNumber,
		Line:   lexer.Linenum(),
		Lexeme: string(lexer.src[lexer.start:lexer.cur]),
	}
}

func (lexer *Lexer) lexIdentifier() {
	for isAlphaNumeric(lexer.peek()) {
		lexer.advance()
	}
	word := string(lexer.src[lexer.start:lexer.cur])
	if typ, isKeyword := Keywords[word]; isKeyword {
		lexer.emit(typ)
		return
	}
	lexer.tokens = append(lexer.tokens, Token{Type: TokenIdentifier, Str: word, Line: lexer.linenum})
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

func isAlphaNumeric(r rune) bool {
	return isAlpha(r) || isDigit(r)
}
