package lox

import (
	"encoding/binary"
	"fmt"

	"github.com/glycerine/blake2b"
)

// Blake2bUint64 returns an 8 byte BLAKE2b cryptographic
// hash of the raw.
func Blake2bUint64(raw []byte) uint64 {
	cfg := &blake2b.Config{Size: 8}
	h, err := blake2b.New(cfg)
	panicOn(err)
	h.Write(raw)
	by := h.Sum(nil)
	return binary.LittleEndian.Uint64(by[:8])
}

// FingerprintTokens hashes a token stream, lines included. Scanning
// the same source twice must give the same value.
func FingerprintTokens(tokens []Token) uint64 {
	return Blake2bUint64(EncodeTokens(tokens))
}

// FingerprintProgram hashes the s-expression form of an AST.
func FingerprintProgram(stmts []Stmt) uint64 {
	return Blake2bUint64([]byte(Program(stmts)))
}

func FormatFingerprint(fp uint64) string {
	return fmt.Sprintf("%016x", fp)
}
