package engine

// engine.go contains the ordered execution of a module's test functions.

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/perfgo/pry/model"
	"github.com/rs/zerolog"
)

// ReasonNoTests is reported for modules without any test to run.
const ReasonNoTests = "No testable functions"

// Func is a test function. It returns a value that is handed to the next
// test as LastResult, or an error. Returning a *Signal (see Context.Skip,
// Context.Fail and Context.Fatal) reports a deliberate outcome, any other
// error is reported as unexpected.
type Func func(t *Context) (any, error)

// Module is a loaded test module.
type Module interface {
	// Skip reports whether the module opted out of testing.
	Skip() bool
	// Test resolves a discovered test function.
	Test(name string) (Func, error)
}

// LoadFunc loads the module of a record. It is only called when there is
// at least one test to run.
type LoadFunc func() (Module, error)

// Record describes one module run: the module and its discovered tests.
type Record struct {
	Name  string
	Path  string
	Tests []string
}

type runState uint8

const (
	stateReady runState = iota
	stateRunning
	stateCompleted
	stateAborted
)

func (s runState) String() string {
	switch s {
	case stateReady:
		return "ready"
	case stateRunning:
		return "running"
	case stateCompleted:
		return "completed"
	case stateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Engine runs modules one after another, sequentially.
type Engine struct {
	logger   zerolog.Logger
	reporter Reporter
}

// New creates an engine reporting to reporter.
func New(logger zerolog.Logger, reporter Reporter) *Engine {
	if reporter == nil {
		reporter = NullReporter()
	}
	return &Engine{
		logger:   logger,
		reporter: reporter,
	}
}

// Errored reports a module that could not be discovered at all.
func (e *Engine) Errored(rec Record, err error) model.ModuleSummary {
	e.logger.Debug().Err(err).Str("module", rec.Name).Msg("Module excluded")
	e.reporter.ModuleErrored(rec.Name, ErrorTrace(err))
	return model.ModuleSummary{Module: rec.Name, Path: rec.Path, Status: model.ModuleErrored}
}

// Run executes the tests of rec selected by filter against a fresh Context.
func (e *Engine) Run(rec Record, filter Filter, load LoadFunc) (summary model.ModuleSummary) {
	startTime := time.Now()
	summary = model.ModuleSummary{Module: rec.Name, Path: rec.Path, Status: model.ModuleSkipped}
	defer func() {
		summary.Duration = time.Since(startTime)
	}()

	logger := e.logger.With().Str("module", rec.Name).Logger()

	if len(rec.Tests) == 0 {
		e.reporter.ModuleSkipped(rec.Name, ReasonNoTests)
		return summary
	}

	selected, missing := filter.Select(rec.Tests)
	for _, name := range missing {
		e.reporter.TestNotFound(rec.Name, name)
	}
	summary.NotFound = missing
	if len(selected) == 0 {
		e.reporter.ModuleSkipped(rec.Name, ReasonNoTests)
		return summary
	}

	mod, err := load()
	if err != nil {
		logger.Debug().Err(err).Msg("Failed to load module")
		e.reporter.ModuleErrored(rec.Name, ErrorTrace(err))
		summary.Status = model.ModuleErrored
		return summary
	}

	if mod.Skip() {
		logger.Debug().Msg("Module opted out of testing")
		e.reporter.ModuleSkipped(rec.Name, "")
		return summary
	}

	e.reporter.ModuleStarted(rec.Name)
	state := e.runTests(logger, rec.Name, mod, selected, &summary)

	summary.Status = model.ModuleCompleted
	if state == stateAborted {
		summary.Status = model.ModuleAborted
	}
	logger.Debug().
		Stringer("state", state).
		Int("passed", summary.Passed).
		Int("failed", summary.Failed+summary.Fatal+summary.Errored).
		Int("skipped", summary.Skipped).
		Msg("Module run finished")
	return summary
}

func (e *Engine) runTests(logger zerolog.Logger, module string, mod Module, names []string, summary *model.ModuleSummary) runState {
	t := NewContext()
	state := stateRunning

	for _, name := range names {
		var outcome model.Outcome
		if state == stateAborted {
			outcome = model.Outcome{Test: name, Kind: model.OutcomeSkipped}
		} else {
			outcome = e.runTest(logger, t, mod, name)
		}

		if outcome.Kind == model.OutcomePassed {
			t.lastResult = outcome.Value
		} else {
			t.lastResult = nil
		}
		if outcome.Kind == model.OutcomeFatal {
			logger.Debug().Str("test", name).Msg("Fatal signal, skipping remaining tests")
			state = stateAborted
		}

		summary.Add(outcome)
		e.reporter.TestFinished(module, outcome, t.drain())
	}

	if state == stateRunning {
		state = stateCompleted
	}
	return state
}

func (e *Engine) runTest(logger zerolog.Logger, t *Context, mod Module, name string) model.Outcome {
	fn, err := mod.Test(name)
	if err != nil {
		return model.Outcome{Test: name, Kind: model.OutcomeErrored, Trace: ErrorTrace(err)}
	}

	startTime := time.Now()
	value, stack, err := invoke(fn, t)
	outcome := classify(name, value, stack, err)
	logger.Debug().
		Str("test", name).
		Stringer("outcome", outcome.Kind).
		Dur("duration", time.Since(startTime)).
		Msg("Test finished")
	return outcome
}

// invoke calls fn and converts panics into errors. stack is only set for
// panics that are not signals.
func invoke(fn Func, t *Context) (value any, stack string, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if rerr, ok := r.(error); ok {
			if s, ok := AsSignal(rerr); ok {
				value, err = nil, s
				return
			}
		}
		value = nil
		err = fmt.Errorf("unexpected panic in test: %+v", r)
		stack = trimStack(debug.Stack())
	}()
	value, err = fn(t)
	return value, "", err
}

func classify(name string, value any, stack string, err error) model.Outcome {
	if err == nil {
		return model.Outcome{Test: name, Kind: model.OutcomePassed, Value: value}
	}
	if s, ok := AsSignal(err); ok {
		return model.Outcome{Test: name, Kind: s.outcome(), Message: s.Message}
	}
	trace := ErrorTrace(err)
	if stack != "" {
		trace += "\n" + stack
	}
	return model.Outcome{Test: name, Kind: model.OutcomeErrored, Trace: trace}
}
