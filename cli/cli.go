package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const AppName = "pry"

type App struct {
	logger zerolog.Logger
	cli    *cli.App
	stdout io.Writer
	config *Config
}

func New() *App {

	// Set default log level to info
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger :=
		log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339Nano,
		})

	app := &App{
		logger: logger,
		stdout: os.Stdout,
		config: &Config{},
	}
	app.cli = &cli.App{
		Name:      AppName,
		Usage:     "Discover and run test functions in Starlark scripts",
		ArgsUsage: "[paths...] [testNames...]",
		Authors: []*cli.Author{
			{Name: "Christian Simon", Email: fmt.Sprintf("simon+%s@swine.de", AppName)},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose (debug) logging",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable coloured output",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Do not print the summary table",
			},
			&cli.StringSliceFlag{
				Name:    "path",
				Aliases: []string{"I"},
				Usage:   "Add a directory to the module search path (repeatable)",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: fmt.Sprintf("Configuration file (default: %s in the working directory or repository root)", ConfigFile),
			},
		},
		Before: app.before,
		Action: app.run,
		Description: `Runs every top-level function starting with "test" in the given test
files, in declaration order, sharing one context per file.

Arguments:
  (none)        Run every *_test.star file in the current directory
  <dir>         Run every *_test.star file in the directory
  <file>        Run the tests of a single file
  test<name>    Only run the named test functions (with multiple arguments)

Examples:
  pry                                  # Run tests in the current directory
  pry tests/                           # Run tests in tests/
  pry calc_test.star test_add test_div # Run two tests of calc_test.star`,
	}
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:      "run",
		Usage:     "Run tests (default command)",
		ArgsUsage: "[paths...] [testNames...]",
		Action:    app.run,
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:      "list",
		Usage:     "List discovered test functions without running anything",
		ArgsUsage: "[paths...] [testNames...]",
		Action:    app.list,
	})
	return app
}

func (a *App) before(ctx *cli.Context) error {
	cfg, err := LoadConfig(ctx.String("config"))
	if err != nil {
		return err
	}
	a.config = cfg

	if ctx.Bool("verbose") || cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if ctx.Bool("no-color") {
		a.config.Color = ColorNever
	}
	if ctx.Bool("quiet") {
		a.config.Quiet = true
	}
	a.config.Paths = append(a.config.Paths, ctx.StringSlice("path")...)

	a.logger.Debug().
		Str("config", cfg.path).
		Str("color", string(a.config.Color)).
		Strs("paths", a.config.Paths).
		Msg("Configuration loaded")
	return nil
}

func (a *App) Run(args []string) error {
	return a.cli.Run(args)
}

// SetVersion sets the version information for the CLI application
func (a *App) SetVersion(version, commit, date string) {
	a.cli.Version = version
	if commit != "none" && commit != "" {
		if len(commit) > 8 {
			commit = commit[:8]
		}
		a.cli.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	}
}

// SetOutput sets where reports and script output are written.
func (a *App) SetOutput(w io.Writer) {
	a.stdout = w
	a.cli.Writer = w
}
