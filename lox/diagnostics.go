package lox

import (
	"fmt"
	"io"
)

type Stage int

const (
	StageScan Stage = iota
	StageParse
	StageResolve
	StageRuntime
)

func (s Stage) String() string {
	switch s {
	case StageScan:
		return "scan"
	case StageParse:
		return "parse"
	case StageResolve:
		return "resolve"
	case StageRuntime:
		return "runtime"
	}
	return "unknown"
}

type Diag struct {
	Stage   Stage
	Line    int
	Warning bool
	Message string
}

func (d Diag) String() string {
	level := "error"
	if d.Warning {
		level = "warning"
	}
	return fmt.Sprintf("[line %d] %s %s: %s", d.Line, d.Stage, level, d.Message)
}

// Collector saves every diagnostic and echoes it to Out when Out is set.
type Collector struct {
	Diags []Diag
	Out   io.Writer
}

func NewCollector(out io.Writer) *Collector {
	return &Collector{Out: out}
}

func (c *Collector) Report(d Diag) {
	if c == nil {
		return
	}
	if c.Out != nil {
		fmt.Fprintln(c.Out, d.String())
	}
	c.Diags = append(c.Diags, d)
}

func (c *Collector) Warn(stage Stage, line int, format string, args ...interface{}) {
	c.Report(Diag{Stage: stage, Line: line, Warning: true, Message: fmt.Sprintf(format, args...)})
}

func (c *Collector) Error(stage Stage, line int, format string, args ...interface{}) {
	c.Report(Diag{Stage: stage, Line: line, Message: fmt.Sprintf(format, args...)})
}

func (c *Collector) Warnings() []Diag {
	var ws []Diag
	for _, d := range c.Diags {
		if d.Warning {
			ws = append(ws, d)
		}
	}
	return ws
}

func (c *Collector) Clear() {
	c.Diags = c.Diags[:0]
}
