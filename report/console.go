package report

// This file contains the console reporter printing module and test
// outcomes as they happen.

import (
	"fmt"
	"io"
	"strings"

	"github.com/acarl005/stripansi"
	"github.com/fatih/color"
	"github.com/perfgo/pry/engine"
	"github.com/perfgo/pry/model"
)

const (
	tagTest  = "TEST"
	tagSkip  = "SKIP"
	tagError = "ERROR"
)

// Options controls the console output.
type Options struct {
	// Color enables ANSI colours. When disabled, escape sequences in test
	// log messages are stripped too.
	Color bool
	// Quiet suppresses the summary table.
	Quiet bool
	// Command is the program name used for re-run command lines.
	Command string
}

// Console writes a human-readable report of a run.
type Console struct {
	out  io.Writer
	opts Options

	colors map[string]*color.Color
}

var _ engine.Reporter = (*Console)(nil)

// NewConsole creates a console reporter writing to out.
func NewConsole(out io.Writer, opts Options) *Console {
	if opts.Command == "" {
		opts.Command = "pry"
	}
	c := &Console{
		out:  out,
		opts: opts,
		colors: map[string]*color.Color{
			tagTest:                    color.New(color.FgCyan, color.Bold),
			model.OutcomePassed.Tag():  color.New(color.FgGreen),
			model.OutcomeSkipped.Tag(): color.New(color.FgYellow),
			model.OutcomeFailed.Tag():  color.New(color.FgRed),
			model.OutcomeFatal.Tag():   color.New(color.FgRed, color.Bold),
			model.OutcomeErrored.Tag(): color.New(color.FgMagenta, color.Bold),
		},
	}
	for _, col := range c.colors {
		if opts.Color {
			col.EnableColor()
		} else {
			col.DisableColor()
		}
	}
	return c
}

func (c *Console) tag(name string) string {
	text := "[" + name + "]"
	if col, ok := c.colors[name]; ok {
		return col.Sprint(text)
	}
	return text
}

func (c *Console) line(format string, args ...any) {
	fmt.Fprintf(c.out, format+"\n", args...)
}

func (c *Console) message(prefix, msg string) {
	if !c.opts.Color {
		msg = stripansi.Strip(msg)
	}
	for _, l := range strings.Split(msg, "\n") {
		c.line("\t%s %s", prefix, l)
	}
}

func (c *Console) ModuleStarted(module string) {
	c.line("%s <module %s>", c.tag(tagTest), module)
}

func (c *Console) ModuleSkipped(module, reason string) {
	c.line("%s <module %s>", c.tag(tagSkip), module)
	if reason != "" {
		c.message("|", reason)
	}
}

func (c *Console) ModuleErrored(module, trace string) {
	c.line("%s <module %s>", c.tag(tagError), module)
	if trace != "" {
		c.message(">>>", trace)
	}
}

func (c *Console) TestNotFound(_, test string) {
	c.line("%s %s (not found)", c.tag(tagSkip), test)
}

func (c *Console) TestFinished(_ string, outcome model.Outcome, log []string) {
	c.line("%s %s", c.tag(outcome.Kind.Tag()), outcome.Test)
	for _, msg := range log {
		c.message("|", msg)
	}
	if outcome.Trace != "" {
		c.message(">>>", outcome.Trace)
	}
}
