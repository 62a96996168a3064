package lox

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// Lox is a long-lived session: one global scope and one resolution
// table shared by every chunk of source evaluated through it, so a
// REPL sees earlier definitions.
type Lox struct {
	interp   *Interpreter
	resolver *Resolver
	diags    *Collector
	errOut   io.Writer
}

var ErrScanFailed = errors.New("scan failed")

func NewLox(out io.Writer) *Lox {
	return NewLoxWithGlobals(NewGlobals(), out, os.Stderr)
}

func NewLoxWithGlobals(globals *Scope[Value], out, errOut io.Writer) *Lox {
	diags := NewCollector(errOut)
	return &Lox{
		interp:   NewInterpreter(globals, out),
		resolver: NewResolver(diags),
		diags:    diags,
		errOut:   errOut,
	}
}

func (l *Lox) Interpreter() *Interpreter { return l.interp }
func (l *Lox) Diagnostics() *Collector   { return l.diags }

func (l *Lox) SetTrace(on bool) {
	l.interp.Trace = on
}

// EvalString scans, parses, resolves and runs src. A scan error stops
// everything. Parse errors drop only the broken statements. Runtime
// errors end only their own top-level statement. The returned error
// joins whatever went wrong, in order.
func (l *Lox) EvalString(src string) error {
	tokens, err := l.scan(src)
	if err != nil {
		l.diags.Error(StageScan, lineOf(err), "%s", diagMessage(err))
		return fmt.Errorf("%w: %w", ErrScanFailed, err)
	}
	return l.EvalTokens(tokens)
}

// EvalTokens runs an already scanned program, for example one read
// back from a token cache.
func (l *Lox) EvalTokens(tokens []Token) error {
	stmts, parseErr := l.parse(tokens)
	l.resolve(stmts)

	var errs []error
	if parseErr != nil {
		errs = append(errs, parseErr)
	}
	for _, rerr := range l.run(stmts) {
		l.diags.Error(StageRuntime, lineOf(rerr), "%s", diagMessage(rerr))
		errs = append(errs, rerr)
	}
	return errors.Join(errs...)
}

// the stages, each timed under Verbose.

func (l *Lox) scan(src string) (tokens []Token, err error) {
	n := 0
	defer stageTimer(StageScan, time.Now(), &n)
	tokens, err = Scan(src)
	n = len(tokens)
	return
}

func (l *Lox) parse(tokens []Token) (stmts []Stmt, err error) {
	n := 0
	defer stageTimer(StageParse, time.Now(), &n)
	stmts, err = ParseTokens(tokens, l.diags)
	n = len(stmts)
	return
}

func (l *Lox) resolve(stmts []Stmt) {
	n := 0
	defer stageTimer(StageResolve, time.Now(), &n)
	locals := l.resolver.Resolve(stmts)
	n = len(locals)
	l.interp.Resolve(locals)
}

func (l *Lox) run(stmts []Stmt) []error {
	n := len(stmts)
	defer stageTimer(StageRuntime, time.Now(), &n)
	return l.interp.Interpret(stmts)
}

func (l *Lox) LoadFile(r io.Reader) error {
	src, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return l.EvalString(string(src))
}

func lineOf(err error) int {
	var se *ScanError
	var re *RuntimeError
	switch {
	case errors.As(err, &se):
		return se.Line
	case errors.As(err, &re):
		return re.Line
	}
	return 0
}

// diagMessage drops the line prefix the diagnostic adds back.
func diagMessage(err error) string {
	var se *ScanError
	var re *RuntimeError
	switch {
	case errors.As(err, &se):
		if se.Lexeme != "" {
			return fmt.Sprintf("%v '%s'", se.Kind, se.Lexeme)
		}
		if se.Kind == UnexpectedChar {
			return fmt.Sprintf("%v %q", se.Kind, se.Char)
		}
		return se.Kind.String()
	case errors.As(err, &re):
		return re.Msg
	}
	return err.Error()
}
