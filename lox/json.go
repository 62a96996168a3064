package lox

import (
	"bytes"

	"github.com/ugorji/go/codec"
)

type jsonToken struct {
	Type string      `codec:"type"`
	Line int         `codec:"line"`
	Val  interface{} `codec:"value,omitempty"`
}

func newJsonHandle() *codec.JsonHandle {
	jh := &codec.JsonHandle{}
	jh.Indent = 2
	jh.Canonical = true
	return jh
}

func encodeJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := codec.NewEncoder(&buf, newJsonHandle())
	err := enc.Encode(v)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// TokensToJSON renders a token stream for -tokens.
func TokensToJSON(tokens []Token) ([]byte, error) {
	out := make([]jsonToken, len(tokens))
	for i, tok := range tokens {
		jt := jsonToken{Type: tok.Type.String(), Line: tok.Line}
		switch tok.Type {
		case TokenIdentifier, TokenString:
			jt.Val = tok.Str
		case TokenNumber:
			jt.Val = tok.Num
		}
		out[i] = jt
	}
	return encodeJSON(out)
}

// ProgramToJSON renders an AST for -ast.
func ProgramToJSON(stmts []Stmt) ([]byte, error) {
	return encodeJSON(NodeTree(stmts))
}
