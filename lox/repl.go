package lox

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"strings"
)

const version = "0.1.0"

func Version() string {
	return version
}

func getLine(reader *bufio.Reader) (string, error) {
	line := make([]byte, 0)
	for {
		linepart, hasMore, err := reader.ReadLine()
		if err != nil {
			if err == io.EOF && len(line) > 0 {
				return string(line), nil
			}
			return "", err
		}
		line = append(line, linepart...)
		if !hasMore {
			break
		}
	}
	return string(line), nil
}

// isBalanced reports whether every '(' and '{' in str outside of
// strings and comments has been closed, and no string is left open.
// Extra closers count as balanced so the parser gets to report them.
func isBalanced(str string) bool {
	parens := 0
	curlies := 0
	inString := false
	inComment := false

	rs := []rune(str)
	for i := 0; i < len(rs); i++ {
		c := rs[i]
		switch {
		case inComment:
			if c == '\n' {
				inComment = false
			}
		case inString:
			if c == '"' {
				inString = false
			}
		case c == '"':
			inString = true
		case c == '/' && i+1 < len(rs) && rs[i+1] == '/':
			inComment = true
		case c == '(':
			parens++
		case c == ')':
			parens--
		case c == '{':
			curlies++
		case c == '}':
			curlies--
		}
	}
	return !inString && parens <= 0 && curlies <= 0
}

var continuationPrompt = "... "

// lineReader hides whether lines come from liner or a plain reader.
type lineReader struct {
	pr     *Prompter
	reader *bufio.Reader
	out    io.Writer
	prompt string
}

func (lr *lineReader) getline(prompt string) (string, error) {
	if lr.pr != nil {
		return lr.pr.Getline(&prompt)
	}
	fmt.Fprint(lr.out, prompt)
	return getLine(lr.reader)
}

// getExpression reads one line, then keeps reading continuation
// lines until brackets and strings balance.
func (lr *lineReader) getExpression() (string, error) {
	line, err := lr.getline(lr.prompt)
	if err != nil {
		return "", err
	}
	for !isBalanced(line) {
		nextline, err := lr.getline(continuationPrompt)
		if err != nil {
			return "", err
		}
		line += "\n" + nextline
	}
	return line, nil
}

func Repl(l *Lox, cfg *LoxConfig) {
	lr := &lineReader{out: os.Stdout, prompt: cfg.Prompt}
	if cfg.NoLiner {
		// plain reader, for a non-terminal stdin such as under emacs or test.
		lr.reader = bufio.NewReader(os.Stdin)
	} else {
		lr.pr = NewPrompter(cfg.Prompt)
		defer lr.pr.Close()
	}
	runRepl(l, cfg, lr)
}

func runRepl(l *Lox, cfg *LoxConfig, lr *lineReader) {
	out := lr.out
	if cfg.Trace {
		l.SetTrace(true)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "glox version %s\n", Version())
		fmt.Fprintf(out, "press tab to complete keywords. .ls shows scopes, .trace toggles tracing, .quit or Ctrl-d to exit.\n")
	}

	for {
		line, err := lr.getExpression()
		if err != nil {
			if err != io.EOF {
				fmt.Fprintln(out, err)
			}
			return
		}

		first := strings.TrimSpace(line)
		if first == "" {
			continue
		}

		switch first {
		case ".quit":
			return
		case ".ls":
			fmt.Fprint(out, l.Interpreter().Env().Show("scopes"))
			continue
		case ".trace":
			l.SetTrace(!l.Interpreter().Trace)
			fmt.Fprintf(out, "trace: %v.\n", l.Interpreter().Trace)
			continue
		case ".verb":
			Verbose = !Verbose
			fmt.Fprintf(out, "verbose: %v.\n", Verbose)
			continue
		}

		// errors were already reported through the collector; the
		// session and its globals carry on.
		_ = l.EvalString(line)
		l.Diagnostics().Clear()
	}
}

func runScript(l *Lox, fname string, cfg *LoxConfig) error {
	file, err := os.Open(fname)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	defer file.Close()
	return l.LoadFile(file)
}

// sourceFor returns the program text from -c or the script argument.
func sourceFor(cfg *LoxConfig) (string, error) {
	if cfg.Command != "" {
		return cfg.Command, nil
	}
	args := cfg.Flags.Args()
	if len(args) == 0 {
		return "", fmt.Errorf("no source given")
	}
	by, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(by), nil
}

// inspect handles -tokens, -ast, -fingerprint and -savetokens. It
// never runs the program.
func inspect(cfg *LoxConfig, out io.Writer) error {
	src, err := sourceFor(cfg)
	if err != nil {
		return err
	}
	tokens, err := Scan(src)
	if err != nil {
		return err
	}
	if cfg.SaveTokens != "" {
		err = os.WriteFile(cfg.SaveTokens, EncodeTokens(tokens), 0644)
		if err != nil {
			return err
		}
	}
	if cfg.ShowTokens {
		js, err := TokensToJSON(tokens)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\n", js)
	}
	if !cfg.ShowAST && !cfg.Fingerprint {
		return nil
	}

	diags := NewCollector(os.Stderr)
	stmts, perr := ParseTokens(tokens, diags)
	if cfg.ShowAST {
		js, err := ProgramToJSON(stmts)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\n", js)
	}
	if cfg.Fingerprint {
		fmt.Fprintf(out, "tokens  %s\n", FormatFingerprint(FingerprintTokens(tokens)))
		fmt.Fprintf(out, "program %s\n", FormatFingerprint(FingerprintProgram(stmts)))
	}
	return perr
}

func loadTokenFile(l *Lox, path string) error {
	by, err := os.ReadFile(path)
	if err == nil {
		var tokens []Token
		tokens, err = DecodeTokens(by)
		if err == nil {
			return l.EvalTokens(tokens)
		}
	}
	fmt.Fprintln(os.Stderr, err)
	return err
}

// like main() for a standalone repl, now in library
func ReplMain(cfg *LoxConfig) {
	if cfg.CpuProfile != "" {
		f, err := os.Create(cfg.CpuProfile)
		if err != nil {
			fmt.Println(err)
			os.Exit(-1)
		}
		err = pprof.StartCPUProfile(f)
		if err != nil {
			fmt.Println(err)
			os.Exit(-1)
		}
		defer pprof.StopCPUProfile()
	}

	// os.Exit skips deferred calls, so the profile is stopped by hand.
	exit := func(code int) {
		if cfg.CpuProfile != "" {
			pprof.StopCPUProfile()
		}
		os.Exit(code)
	}

	if cfg.needsSource() {
		err := inspect(cfg, os.Stdout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			exit(65)
		}
		return
	}

	l := NewLox(os.Stdout)
	l.SetTrace(cfg.Trace)

	if cfg.LoadTokens != "" {
		err := loadTokenFile(l, cfg.LoadTokens)
		if err != nil {
			exit(70)
		}
		return
	}

	if cfg.Command != "" {
		err := l.EvalString(cfg.Command)
		if err != nil {
			exit(70)
		}
		return
	}

	args := cfg.Flags.Args()
	if len(args) > 0 {
		err := runScript(l, args[0], cfg)
		if err == nil {
			return
		}
		if cfg.ExitOnFailure {
			exit(70)
		}
		Repl(l, cfg)
		return
	}
	Repl(l, cfg)
}
