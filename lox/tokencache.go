package lox

import (
	"errors"
	"fmt"

	"github.com/tinylib/msgp/msgp"
)

// token cache wire format, msgpack:
//
//	[ version, [ type, line, str, num ], ... ]
//
// so a scanned program can be saved and run later without rescanning.
const tokenCacheVersion = 1

// fixarray, type, line, empty str and a float32 num.
const minTokenBytes = 1 + 1 + 1 + 1 + 5

var ErrBadTokenCache = errors.New("bad token cache")

func EncodeTokens(tokens []Token) []byte {
	b := make([]byte, 0, 16*len(tokens)+8)
	b = msgp.AppendArrayHeader(b, uint32(len(tokens)+1))
	b = msgp.AppendInt(b, tokenCacheVersion)
	for _, tok := range tokens {
		b = msgp.AppendArrayHeader(b, 4)
		b = msgp.AppendInt(b, int(tok.Type))
		b = msgp.AppendInt(b, tok.Line)
		b = msgp.AppendString(b, tok.Str)
		b = msgp.AppendFloat64(b, tok.Num)
	}
	return b
}

func DecodeTokens(b []byte) ([]Token, error) {
	n, b, err := msgp.ReadArrayHeaderBytes(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadTokenCache, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: missing version", ErrBadTokenCache)
	}
	version, b, err := msgp.ReadIntBytes(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadTokenCache, err)
	}
	if version != tokenCacheVersion {
		return nil, fmt.Errorf("%w: version %d, want %d", ErrBadTokenCache, version, tokenCacheVersion)
	}

	// the header is untrusted; every token takes at least
	// minTokenBytes, so the rest of b bounds the count.
	tokens := make([]Token, 0, min(n-1, uint32(len(b)/minTokenBytes)))
	for i := uint32(1); i < n; i++ {
		var sz uint32
		sz, b, err = msgp.ReadArrayHeaderBytes(b)
		if err != nil {
			return nil, fmt.Errorf("%w: token %d: %v", ErrBadTokenCache, i-1, err)
		}
		if sz != 4 {
			return nil, fmt.Errorf("%w: token %d has %d fields", ErrBadTokenCache, i-1, sz)
		}
		var tok Token
		var typ int
		typ, b, err = msgp.ReadIntBytes(b)
		if err == nil {
			tok.Type = TokenType(typ)
			tok.Line, b, err = msgp.ReadIntBytes(b)
		}
		if err == nil {
			tok.Str, b, err = msgp.ReadStringBytes(b)
		}
		if err == nil {
			tok.Num, b, err = msgp.ReadFloat64Bytes(b)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: token %d: %v", ErrBadTokenCache, i-1, err)
		}
		if tok.Type < TokenEnd || tok.Type > TokenWhile {
			return nil, fmt.Errorf("%w: token %d has unknown type %d", ErrBadTokenCache, i-1, typ)
		}
		tokens = append(tokens, tok)
	}
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != TokenEnd {
		return nil, fmt.Errorf("%w: missing end token", ErrBadTokenCache)
	}
	return tokens, nil
}
