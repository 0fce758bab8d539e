package acquire

import (
	"errors"
	"strings"
)

var (
	ErrNoURL        = errors.New("no http(s) URL found in input")
	ErrEmptyContent = errors.New("empty content")
)

// StrategyFailure is the diagnostic left by one acquisition attempt.
type StrategyFailure struct {
	Strategy string
	Err      error
}

func (f StrategyFailure) String() string {
	return f.Strategy + ": " + f.Err.Error()
}

// AcquisitionError reports every attempted strategy, in attempt order.
type AcquisitionError struct {
	Source   string
	Failures []StrategyFailure
}

func (e *AcquisitionError) Error() string {
	lines := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		lines = append(lines, f.String())
	}

	return strings.Join(lines, "\n")
}

func (e *AcquisitionError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}

	return errs
}

// Strategies lists the names of the failed strategies.
func (e *AcquisitionError) Strategies() []string {
	names := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		names = append(names, f.Strategy)
	}

	return names
}

func newAcquisitionError(source string, strategy string, err error) *AcquisitionError {
	return &AcquisitionError{
		Source:   source,
		Failures: []StrategyFailure{{Strategy: strategy, Err: err}},
	}
}
