package lox

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"sync"
	"time"
)

// Verbose turns on per-stage logging of the pipeline. The repl
// toggles it with .verb.
var Verbose bool

// trace and verbose output go here, so tests can capture it.
var OurStdout io.Writer = os.Stdout

var tsPrintfMut sync.Mutex

func ts() string {
	return time.Now().Format("2006-01-02 15:04:05.999 -0700 MST")
}

// TSPrintf writes a time-stamped line tagged with the caller's file:line.
func TSPrintf(format string, a ...interface{}) {
	tsPrintfMut.Lock()
	defer tsPrintfMut.Unlock()
	fmt.Fprintf(OurStdout, "%s %s ", FileLine(3), ts())
	fmt.Fprintf(OurStdout, format+"\n", a...)
}

func VPrintf(format string, a ...interface{}) {
	if Verbose {
		TSPrintf(format, a...)
	}
}

// stageTimer logs how long one pipeline stage took, when Verbose.
//
//	defer stageTimer(StageParse, time.Now(), &n)
func stageTimer(stage Stage, t0 time.Time, items *int) {
	if !Verbose {
		return
	}
	VPrintf("%s: %d items in %v", stage, *items, time.Since(t0))
}

func FileLine(depth int) string {
	_, fileName, fileLine, ok := runtime.Caller(depth)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s:%d", path.Base(fileName), fileLine)
}

func panicOn(err error) {
	if err != nil {
		panic(err)
	}
}
