package lox

import (
	"flag"
	"fmt"
)

// configure a lox repl
type LoxConfig struct {
	CpuProfile    string
	ExitOnFailure bool
	Flags         *flag.FlagSet
	Command       string
	Quiet         bool
	Trace         bool

	// dump and cache the front end
	ShowTokens  bool
	ShowAST     bool
	Fingerprint bool
	SaveTokens  string
	LoadTokens  string

	// liner bombs under emacs, avoid it with this flag.
	NoLiner bool
	Prompt  string // default "lox> "
}

func NewLoxConfig(cmdname string) *LoxConfig {
	return &LoxConfig{
		Flags: flag.NewFlagSet(cmdname, flag.ExitOnError),
	}
}

// call DefineFlags before myflags.Parse()
func (c *LoxConfig) DefineFlags() {
	c.Flags.StringVar(&c.CpuProfile, "cpuprofile", "", "write cpu profile to file")
	c.Flags.BoolVar(&c.ExitOnFailure, "exitonfail", false, "exit on failure instead of starting repl")
	c.Flags.StringVar(&c.Command, "c", "", "lox source to evaluate")
	c.Flags.BoolVar(&c.Quiet, "quiet", false, "start repl without printing the banner")
	c.Flags.BoolVar(&c.Trace, "trace", false, "trace execution (warning: very verbose)")
	c.Flags.BoolVar(&c.NoLiner, "noliner", false, "read plain lines from stdin instead of using line editing")
	c.Flags.StringVar(&c.Prompt, "prompt", "", "repl prompt")
	c.Flags.BoolVar(&c.ShowTokens, "tokens", false, "print the scanned tokens as json and exit")
	c.Flags.BoolVar(&c.ShowAST, "ast", false, "print the parsed program as json and exit")
	c.Flags.BoolVar(&c.Fingerprint, "fingerprint", false, "print the blake2b fingerprint of the token stream and program, then exit")
	c.Flags.StringVar(&c.SaveTokens, "savetokens", "", "scan the script and write its tokens (msgpack) to this path")
	c.Flags.StringVar(&c.LoadTokens, "loadtokens", "", "run tokens previously written by -savetokens")
}

// call c.ValidateConfig() after myflags.Parse()
func (c *LoxConfig) ValidateConfig() error {
	if c.Prompt == "" {
		c.Prompt = "lox> "
	}
	if c.SaveTokens != "" && c.LoadTokens != "" {
		return fmt.Errorf("-savetokens and -loadtokens are mutually exclusive")
	}
	if c.LoadTokens != "" && (c.Command != "" || len(c.Flags.Args()) > 0) {
		return fmt.Errorf("-loadtokens takes no script or -c source")
	}
	if c.needsSource() && c.LoadTokens == "" && c.Command == "" && len(c.Flags.Args()) == 0 {
		return fmt.Errorf("-tokens, -ast, -fingerprint and -savetokens need a script or -c source")
	}
	return nil
}

// needsSource is true when the run only inspects the front end.
func (c *LoxConfig) needsSource() bool {
	return c.ShowTokens || c.ShowAST || c.Fingerprint || c.SaveTokens != ""
}
