package model

// OutcomeKind represents how a single test function finished
type OutcomeKind uint8

const (
	OutcomePassed OutcomeKind = iota
	OutcomeSkipped
	OutcomeFailed
	OutcomeFatal
	OutcomeErrored
)

// Tag returns the console tag for the outcome kind, e.g. "PASS".
func (k OutcomeKind) Tag() string {
	switch k {
	case OutcomePassed:
		return "PASS"
	case OutcomeSkipped:
		return "SKIP"
	case OutcomeFailed:
		return "FAIL"
	case OutcomeFatal:
		return "FATAL"
	case OutcomeErrored:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (k OutcomeKind) String() string {
	return k.Tag()
}

// Outcome is the result of running one test function.
// It is reported and then discarded; the engine keeps no history of outcomes.
type Outcome struct {
	// Name of the test function
	Test string
	// Kind of outcome
	Kind OutcomeKind
	// Value returned by the function (only set for OutcomePassed, may be nil)
	Value any
	// Optional message given with a skip, fail or fatal signal
	Message string
	// Trimmed error trace (only set for OutcomeErrored)
	Trace string
}

// OK reports whether the outcome counts as a success for the run.
// Skipped tests are not failures.
func (o Outcome) OK() bool {
	return o.Kind == OutcomePassed || o.Kind == OutcomeSkipped
}
