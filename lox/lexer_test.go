package lox

import (
	"errors"
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func tokenTypes(tokens []Token) []TokenType {
	typs := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		typs[i] = tok.Type
	}
	return typs
}

func Test001LexerProducesTokensWithPayloads(t *testing.T) {

	cv.Convey(`Given a var declaration, the lexer should emit keyword, identifier, operator, number and semicolon tokens, then the end token`, t, func() {

		tokens, err := Scan(`var x = 1.5;`)
		cv.So(err, cv.ShouldBeNil)
		cv.So(tokenTypes(tokens), cv.ShouldResemble, []TokenType{
			TokenVar, TokenIdentifier, TokenEqual, TokenNumber, TokenSemicolon, TokenEnd})
		cv.So(tokens[1].Str, cv.ShouldEqual, "x")
		cv.So(tokens[3].Num, cv.ShouldEqual, 1.5)
	})
}

func Test002LexerTwoCharacterOperators(t *testing.T) {

	cv.Convey(`Two character operators should win over their one character prefixes`, t, func() {

		tokens, err := Scan(`! != = == < <= > >= / *`)
		cv.So(err, cv.ShouldBeNil)
		cv.So(tokenTypes(tokens), cv.ShouldResemble, []TokenType{
			TokenBang, TokenBangEqual, TokenEqual, TokenEqualEqual,
			TokenLess, TokenLessEqual, TokenGreater, TokenGreaterEqual,
			TokenSlash, TokenStar, TokenEnd})
	})
}

func Test003LexerLineNumbersCommentsAndMultilineStrings(t *testing.T) {

	cv.Convey(`Line numbers should count newlines, a string should carry the line it started on, and comments should vanish`, t, func() {

		src := "a // comment ( {\nb\n\"s\nt\" c"
		tokens, err := Scan(src)
		cv.So(err, cv.ShouldBeNil)
		cv.So(tokenTypes(tokens), cv.ShouldResemble, []TokenType{
			TokenIdentifier, TokenIdentifier, TokenString, TokenIdentifier, TokenEnd})
		cv.So(tokens[0].Line, cv.ShouldEqual, 1)
		cv.So(tokens[1].Line, cv.ShouldEqual, 2)
		cv.So(tokens[2].Line, cv.ShouldEqual, 3)
		cv.So(tokens[2].Str, cv.ShouldEqual, "s\nt")
		cv.So(tokens[3].Line, cv.ShouldEqual, 4)
		cv.So(tokens[4].Line, cv.ShouldEqual, 4)
	})
}

func Test004LexerKeywordsVersusIdentifiers(t *testing.T) {

	cv.Convey(`Keywords should be recognized whole, while words that merely start with a keyword stay identifiers`, t, func() {

		tokens, err := Scan(`fun funny or orchid nil _nil2`)
		cv.So(err, cv.ShouldBeNil)
		cv.So(tokenTypes(tokens), cv.ShouldResemble, []TokenType{
			TokenFun, TokenIdentifier, TokenOr, TokenIdentifier, TokenNil, TokenIdentifier, TokenEnd})
		cv.So(tokens[5].Str, cv.ShouldEqual, "_nil2")
	})
}

func Test005LexerErrorsAbortTheScan(t *testing.T) {

	cv.Convey(`Scan errors should be fatal and say what went wrong and where`, t, func() {

		cases := []struct {
			src    string
			kind   ScanErrorKind
			line   int
			lexeme string
		}{
			{"print \"abc", UnterminatedString, 1, ""},
			{"\n1.", MalformedNumber, 2, "1."},
			{"1.2.3", MalformedNumber, 1, "1.2."},
			{"12ab", MalformedNumber, 1, "12a"},
			{"var a = 1;\n\n@", UnexpectedChar, 3, ""},
		}
		for _, c := range cases {
			tokens, err := Scan(c.src)
			cv.So(tokens, cv.ShouldBeNil)
			var se *ScanError
			cv.So(errors.As(err, &se), cv.ShouldBeTrue)
			cv.So(se.Kind, cv.ShouldEqual, c.kind)
			cv.So(se.Line, cv.ShouldEqual, c.line)
			cv.So(se.Lexeme, cv.ShouldEqual, c.lexeme)
		}

		_, err := Scan("@")
		cv.So(err.Error(), cv.ShouldEqual, `[line 1] scan error: unexpected character '@'`)
	})
}

func Test006TokenStringForms(t *testing.T) {

	cv.Convey(`Tokens should print as their source form`, t, func() {

		cv.So(Token{Type: TokenNumber, Num: 3}.String(), cv.ShouldEqual, "3")
		cv.So(Token{Type: TokenNumber, Num: 0.25}.String(), cv.ShouldEqual, "0.25")
		cv.So(Token{Type: TokenString, Str: "hi"}.String(), cv.ShouldEqual, `"hi"`)
		cv.So(Token{Type: TokenIdentifier, Str: "abc"}.String(), cv.ShouldEqual, "abc")
		cv.So(Token{Type: TokenWhile}.String(), cv.ShouldEqual, "while")
		cv.So(EndTk.String(), cv.ShouldEqual, "EOF")
	})
}

func Test007LexerLinenumCountsNewlines(t *testing.T) {

	cv.Convey(`Linenum should report the line the lexer reached, including lines inside strings`, t, func() {

		lexer := NewLexer("var a = 1;\nprint \"x\ny\";\n")
		cv.So(lexer.Linenum(), cv.ShouldEqual, 1)
		_, err := lexer.Tokenize()
		cv.So(err, cv.ShouldBeNil)
		cv.So(lexer.Linenum(), cv.ShouldEqual, 4)

		lexer = NewLexer("\n\n1.;")
		_, err = lexer.Tokenize()
		var se *ScanError
		cv.So(errors.As(err, &se), cv.ShouldBeTrue)
		cv.So(se.Line, cv.ShouldEqual, lexer.Linenum())
		cv.So(se.Line, cv.ShouldEqual, 3)
	})
}
