package engine

import "github.com/perfgo/pry/model"

// Reporter receives the events of module runs in the order they happen.
type Reporter interface {
	ModuleStarted(module string)
	ModuleSkipped(module, reason string)
	ModuleErrored(module, trace string)
	TestNotFound(module, test string)
	TestFinished(module string, outcome model.Outcome, log []string)
}

type nullReporter struct{}

func (nullReporter) ModuleStarted(string)                         {}
func (nullReporter) ModuleSkipped(string, string)                 {}
func (nullReporter) ModuleErrored(string, string)                 {}
func (nullReporter) TestNotFound(string, string)                  {}
func (nullReporter) TestFinished(string, model.Outcome, []string) {}

// NullReporter returns a Reporter that discards everything.
func NullReporter() Reporter { return nullReporter{} }
