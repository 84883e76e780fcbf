package cli

// This file contains the list command for displaying discovered test
// functions without executing any module.

import (
	"fmt"

	"github.com/perfgo/pry/scanner"
	"github.com/urfave/cli/v2"
)

func (a *App) list(ctx *cli.Context) error {
	files, filter, err := a.separateTestArgs(a.stdout, ctx.Args().Slice())
	if err != nil {
		return err
	}

	if len(files) == 0 {
		fmt.Fprintln(a.stdout, "No modules to test")
		return nil
	}

	total := 0
	for _, f := range files {
		module := scanner.ModuleName(f)
		tests, err := scanner.Discover(f)
		if err != nil {
			fmt.Fprintf(a.stdout, "<module %s>  %s\n", module, f)
			fmt.Fprintf(a.stdout, "   error: %v\n", err)
			continue
		}

		selected, missing := filter.Select(tests)
		fmt.Fprintf(a.stdout, "<module %s>  %s  (%d)\n", module, f, len(selected))
		for _, name := range selected {
			fmt.Fprintf(a.stdout, "   %s\n", name)
		}
		for _, name := range missing {
			fmt.Fprintf(a.stdout, "   %s (not found)\n", name)
		}
		total += len(selected)
	}

	a.logger.Debug().Int("modules", len(files)).Int("tests", total).Msg("Discovery finished")
	return nil
}
