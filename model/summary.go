package model

import "time"

// ModuleStatus represents the state a module run ended in
type ModuleStatus uint8

const (
	// ModuleCompleted means every selected test function was visited
	ModuleCompleted ModuleStatus = iota
	// ModuleAborted means a fatal signal stopped the run; the rest were skipped
	ModuleAborted
	// ModuleSkipped means the module was not run at all
	ModuleSkipped
	// ModuleErrored means the module could not be discovered or loaded
	ModuleErrored
)

func (s ModuleStatus) String() string {
	switch s {
	case ModuleCompleted:
		return "completed"
	case ModuleAborted:
		return "aborted"
	case ModuleSkipped:
		return "skipped"
	case ModuleErrored:
		return "error"
	default:
		return "unknown"
	}
}

// ModuleSummary contains the counters of a single module run
type ModuleSummary struct {
	// Module name (file name without extension)
	Module string
	// Path of the test file
	Path string
	// How the module run ended
	Status ModuleStatus
	// Duration of the module run, including loading
	Duration time.Duration

	Passed  int
	Skipped int
	Failed  int
	Fatal   int
	Errored int
	// Filter names that did not match any test function
	NotFound []string
	// Names of the tests that did not pass, in run order
	Unsuccessful []string
}

// Add counts an outcome.
func (m *ModuleSummary) Add(o Outcome) {
	switch o.Kind {
	case OutcomePassed:
		m.Passed++
	case OutcomeSkipped:
		m.Skipped++
	case OutcomeFailed:
		m.Failed++
	case OutcomeFatal:
		m.Fatal++
	case OutcomeErrored:
		m.Errored++
	}
	if !o.OK() {
		m.Unsuccessful = append(m.Unsuccessful, o.Test)
	}
}

// Total returns the number of test outcomes counted.
func (m ModuleSummary) Total() int {
	return m.Passed + m.Skipped + m.Failed + m.Fatal + m.Errored
}

// OK reports whether nothing in the module failed.
func (m ModuleSummary) OK() bool {
	return m.Status != ModuleErrored && m.Failed == 0 && m.Fatal == 0 && m.Errored == 0
}

// Summary aggregates all module runs of one invocation
type Summary struct {
	// Unique ID for this invocation
	RunID   string
	Modules []ModuleSummary
}

// Totals sums the counters over all modules.
func (s Summary) Totals() ModuleSummary {
	var t ModuleSummary
	for _, m := range s.Modules {
		t.Passed += m.Passed
		t.Skipped += m.Skipped
		t.Failed += m.Failed
		t.Fatal += m.Fatal
		t.Errored += m.Errored
		t.Duration += m.Duration
		if m.Status == ModuleErrored {
			t.Status = ModuleErrored
		}
	}
	return t
}

// OK reports whether every module run succeeded.
func (s Summary) OK() bool {
	for _, m := range s.Modules {
		if !m.OK() {
			return false
		}
	}
	return true
}
