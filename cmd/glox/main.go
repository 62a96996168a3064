/*
The golox command line interpreter and REPL is known as `glox`.
*/
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/glycerine/golox/lox"
)

func usage(myflags *flag.FlagSet) {
	fmt.Printf("glox command line help:\n")
	fmt.Printf("  glox [flags] [script.lox]\n")
	myflags.PrintDefaults()
	os.Exit(64)
}

func main() {
	cfg := lox.NewLoxConfig("glox")
	cfg.DefineFlags()
	err := cfg.Flags.Parse(os.Args[1:])
	if err == flag.ErrHelp {
		usage(cfg.Flags)
	}

	if err != nil {
		panic(err)
	}
	if len(cfg.Flags.Args()) > 1 {
		fmt.Fprintf(os.Stderr, "glox command line error: at most one script\n")
		usage(cfg.Flags)
	}
	err = cfg.ValidateConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "glox command line error: '%v'\n", err)
		usage(cfg.Flags)
	}

	// the library does all the heavy lifting.
	lox.ReplMain(cfg)
}
