package lox

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrScopeUnderflow    = errors.New("invalid scope access: underflow")
	ErrUndefinedVariable = errors.New("undefined variable")
)

// scan errors

type ScanErrorKind int

const (
	UnterminatedString ScanErrorKind = iota + 1
	MalformedNumber
	UnexpectedChar
)

func (k ScanErrorKind) String() string {
	switch k {
	case UnterminatedString:
		return "unterminated string"
	case MalformedNumber:
		return "malformed number"
	case UnexpectedChar:
		return "unexpected character"
	}
	return fmt.Sprintf("ScanErrorKind(%d)", int(k))
}

type ScanError struct {
	Kind   ScanErrorKind
	Line   int
	Char   rune
	Lexeme string
}

func (e *ScanError) Error() string {
	switch e.Kind {
	case UnexpectedChar:
		return fmt.Sprintf("[line %d] scan error: %v %q", e.Line, e.Kind, e.Char)
	case MalformedNumber:
		return fmt.Sprintf("[line %d] scan error: %v '%s'", e.Line, e.Kind, e.Lexeme)
	}
	return fmt.Sprintf("[line %d] scan error: %v", e.Line, e.Kind)
}

// parse errors

type ParseErrorKind int

const (
	MissingToken ParseErrorKind = iota + 1
	ExpectExpression
	InvalidAssignTarget
	MalformedDecl
	Unsupported
)

func (k ParseErrorKind) String() string {
	switch k {
	case MissingToken:
		return "missing token"
	case ExpectExpression:
		return "expected expression"
	case InvalidAssignTarget:
		return "invalid assignment target"
	case MalformedDecl:
		return "malformed declaration"
	case Unsupported:
		return "unsupported syntax"
	}
	return fmt.Sprintf("ParseErrorKind(%d)", int(k))
}

type ParseError struct {
	Kind ParseErrorKind
	Line int
	Near Token
	Msg  string
}

func (e *ParseError) Error() string {
	where := "at '" + e.Near.String() + "'"
	if e.Near.Type == TokenEnd {
		where = "at end"
	}
	return fmt.Sprintf("[line %d] parse error %s: %s", e.Line, where, e.Msg)
}

// ParseErrors holds one error per discarded statement.
type ParseErrors []*ParseError

func (errs ParseErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

// runtime errors

type RuntimeErrorKind int

const (
	TypeMismatch RuntimeErrorKind = iota + 1
	UndefinedVariable
	ArityMismatch
	NotCallable
	ScopeUnderflow
	ReturnOutsideFunction
)

func (k RuntimeErrorKind) String() string {
	switch k {
	case TypeMismatch:
		return "type mismatch"
	case UndefinedVariable:
		return "undefined variable"
	case ArityMismatch:
		return "arity mismatch"
	case NotCallable:
		return "not callable"
	case ScopeUnderflow:
		return "scope underflow"
	case ReturnOutsideFunction:
		return "return outside function"
	}
	return fmt.Sprintf("RuntimeErrorKind(%d)", int(k))
}

type RuntimeError struct {
	Kind RuntimeErrorKind
	Line int
	Msg  string
	err  error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("[line %d] runtime error (%v): %s", e.Line, e.Kind, e.Msg)
}

func (e *RuntimeError) Unwrap() error {
	return e.err
}

func runtimeErrorf(kind RuntimeErrorKind, line int, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Kind: kind, Line: line, Msg: fmt.Sprintf(format, args...)}
}

// wrapEnvError turns an environment sentinel into a positioned runtime error.
func wrapEnvError(err error, name Token) error {
	switch {
	case errors.Is(err, ErrUndefinedVariable):
		return &RuntimeError{Kind: UndefinedVariable, Line: name.Line,
			Msg: fmt.Sprintf("undefined variable '%s'", name.Str), err: err}
	case errors.Is(err, ErrScopeUnderflow):
		return &RuntimeError{Kind: ScopeUnderflow, Line: name.Line, Msg: err.Error(), err: err}
	}
	return err
}

// returnSignal carries a return value up to the enclosing call. It
// travels on the error channel but is control transfer, not failure.
type returnSignal struct {
	value Value
	line  int
}

func (r *returnSignal) Error() string {
	return fmt.Sprintf("[line %d] return outside function", r.line)
}
