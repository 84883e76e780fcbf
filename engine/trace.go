package engine

import (
	"strings"
)

// Tracer is implemented by errors that carry their own textual trace, such
// as script evaluation errors with a backtrace.
type Tracer interface {
	Trace() string
}

// ErrorTrace returns the trace of err for reporting.
func ErrorTrace(err error) string {
	if err == nil {
		return ""
	}
	if t, ok := err.(Tracer); ok {
		return t.Trace()
	}
	return err.Error()
}

// trimStack removes the frames that belong to the engine's own recovery
// from a goroutine stack dump, so the trace starts at the panicking code.
func trimStack(stack []byte) string {
	lines := strings.Split(strings.TrimRight(string(stack), "\n"), "\n")

	// The dump is: header, then two lines per frame. Everything up to and
	// including the runtime panic frame is ours.
	start := -1
	for i, line := range lines {
		if strings.HasPrefix(line, "panic(") {
			start = i + 2
		}
	}
	if start < 0 {
		// header, runtime/debug.Stack and the deferred recover func
		start = 5
	}
	if start >= len(lines) {
		return ""
	}
	return strings.Join(lines[start:], "\n")
}
