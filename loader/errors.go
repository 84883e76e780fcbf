package loader

import (
	"errors"
	"fmt"
	"strings"

	"go.starlark.net/starlark"
)

const tracebackHeader = "Traceback (most recent call last):"

// LoadError is returned when a module cannot be resolved or executed.
type LoadError struct {
	Module string
	Path   string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load module %s: %v", e.Module, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Trace returns the script backtrace of the failure, or the error text when
// the failure did not happen while executing the script.
func (e *LoadError) Trace() string {
	return scriptTrace(e.Err)
}

// ScriptError is an error raised while a test function was running.
type ScriptError struct {
	Err error
}

func (e *ScriptError) Error() string {
	return e.Err.Error()
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

// Trace returns the script backtrace without the traceback header.
func (e *ScriptError) Trace() string {
	return scriptTrace(e.Err)
}

func scriptTrace(err error) string {
	var evalErr *starlark.EvalError
	if !errors.As(err, &evalErr) {
		return err.Error()
	}
	trace := strings.TrimPrefix(evalErr.Backtrace(), tracebackHeader)
	return strings.Trim(trace, "\n")
}
