package cli

// This file contains the run command: discovery, loading and execution of
// every test module given on the command line.

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/perfgo/pry/engine"
	"github.com/perfgo/pry/loader"
	"github.com/perfgo/pry/model"
	"github.com/perfgo/pry/report"
	"github.com/perfgo/pry/scanner"
	"github.com/urfave/cli/v2"
)

// ErrTestsFailed is returned when a run finished with failing tests or
// modules that could not be loaded.
var ErrTestsFailed = errors.New("tests failed")

func (a *App) run(ctx *cli.Context) error {
	startTime := time.Now()
	runID := uuid.New().String()
	logger := a.logger.With().Str("run", runID).Logger()

	if commit, branch, err := a.getGitInfo(); err == nil {
		logger.Debug().Str("commit", commit).Str("branch", branch).Msg("Git repository detected")
	}

	files, filter, err := a.separateTestArgs(a.stdout, ctx.Args().Slice())
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(a.stdout, "No modules to test")
		return nil
	}

	ld := loader.New(logger, a.config.Paths...)
	ld.SetOutput(a.stdout)
	for _, f := range files {
		ld.AddPath(filepath.Dir(f))
	}

	reporter := report.NewConsole(a.stdout, report.Options{
		Color:   a.config.UseColor(),
		Quiet:   a.config.Quiet,
		Command: AppName,
	})
	eng := engine.New(logger, reporter)

	summary := model.Summary{RunID: runID}
	for _, f := range files {
		rec := engine.Record{Name: scanner.ModuleName(f), Path: f}

		tests, err := scanner.Discover(f)
		if err != nil {
			summary.Modules = append(summary.Modules, eng.Errored(rec, err))
			continue
		}
		rec.Tests = tests

		summary.Modules = append(summary.Modules, eng.Run(rec, filter, func() (engine.Module, error) {
			return ld.Load(f)
		}))
	}
	reporter.Summary(summary)

	totals := summary.Totals()
	logger.Debug().
		Int("modules", len(summary.Modules)).
		Int("passed", totals.Passed).
		Int("failed", totals.Failed+totals.Fatal+totals.Errored).
		Dur("duration", time.Since(startTime)).
		Msg("Run finished")

	if !summary.OK() {
		return ErrTestsFailed
	}
	return nil
}
