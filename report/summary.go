package report

// This file contains the end-of-run summary: a table of module results and
// the commands to re-run what did not pass.

import (
	"fmt"
	"time"

	"al.essio.dev/pkg/shellescape"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/perfgo/pry/model"
)

// Summary prints the result table followed by re-run commands for modules
// with tests that did not pass. Nothing is printed in quiet mode.
func (c *Console) Summary(s model.Summary) {
	if c.opts.Quiet || len(s.Modules) == 0 {
		return
	}

	fmt.Fprintln(c.out)
	t := table.NewWriter()
	t.SetOutputMirror(c.out)
	t.SetTitle(fmt.Sprintf("Results (run %s)", shortID(s.RunID)))

	t.AppendHeader(table.Row{
		"Module", "Status", "Duration", "Tests", "Passed", "Skipped", "Failed", "Fatal", "Errored",
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Module", WidthMax: 50, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Tests", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Skipped", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Fatal", Align: text.AlignRight},
		{Name: "Errored", Align: text.AlignRight},
	})

	for _, m := range s.Modules {
		t.AppendRow(table.Row{
			m.Module,
			m.Status.String(),
			formatDuration(m.Duration),
			m.Total(),
			m.Passed,
			m.Skipped,
			m.Failed,
			m.Fatal,
			m.Errored,
		})
	}

	totals := s.Totals()
	status := "ok"
	if !s.OK() {
		status = "failed"
	}
	t.AppendFooter(table.Row{
		"TOTAL",
		status,
		formatDuration(totals.Duration),
		totals.Total(),
		totals.Passed,
		totals.Skipped,
		totals.Failed,
		totals.Fatal,
		totals.Errored,
	})

	switch {
	case !c.opts.Color:
		t.SetStyle(table.StyleLight)
	case s.OK():
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	default:
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	}
	t.Render()

	commands := c.rerunCommands(s)
	if len(commands) == 0 {
		return
	}
	fmt.Fprintln(c.out, "\nRe-run tests that did not pass:")
	for _, cmd := range commands {
		fmt.Fprintf(c.out, "  %s\n", cmd)
	}
}

// rerunCommands returns one command line per module with unsuccessful
// tests, restricted to those tests.
func (c *Console) rerunCommands(s model.Summary) []string {
	var commands []string
	for _, m := range s.Modules {
		path := m.Path
		if path == "" {
			continue
		}

		switch {
		case m.Status == model.ModuleErrored:
			commands = append(commands, shellescape.QuoteCommand([]string{c.opts.Command, path}))
		case len(m.Unsuccessful) > 0:
			args := append([]string{c.opts.Command, path}, m.Unsuccessful...)
			commands = append(commands, shellescape.QuoteCommand(args))
		}
	}
	return commands
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.3fs", d.Seconds())
}
