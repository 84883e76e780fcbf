package engine

import (
	"errors"
	"fmt"

	"github.com/perfgo/pry/model"
)

// SignalKind is the intent a test communicates to the engine.
type SignalKind uint8

const (
	SignalSkip SignalKind = iota
	SignalFail
	SignalFatal
)

func (k SignalKind) String() string {
	switch k {
	case SignalSkip:
		return "skip"
	case SignalFail:
		return "fail"
	case SignalFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Signal is a deliberate control-flow outcome raised by a test. It is
// returned from a test function as an error, or passed to panic.
type Signal struct {
	Kind    SignalKind
	Message string
}

func (s *Signal) Error() string {
	if s.Message == "" {
		return s.Kind.String()
	}
	return fmt.Sprintf("%s: %s", s.Kind, s.Message)
}

func (s *Signal) outcome() model.OutcomeKind {
	switch s.Kind {
	case SignalSkip:
		return model.OutcomeSkipped
	case SignalFail:
		return model.OutcomeFailed
	default:
		return model.OutcomeFatal
	}
}

// AsSignal extracts a Signal from err, looking through wrapped errors.
func AsSignal(err error) (*Signal, bool) {
	var s *Signal
	if errors.As(err, &s) {
		return s, true
	}
	return nil, false
}
