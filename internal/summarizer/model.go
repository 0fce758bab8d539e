package summarizer

import (
	"context"
	"errors"
)

var (
	ErrMissingCredential = errors.New("OPENAI_API_KEY is not set")
	ErrInputTooLarge     = errors.New("rendered prompt exceeds the configured size limit")
)

// Model completes a single prompt. Each call is an independent request.
type Model interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// KeySource returns the model credential. It is consulted on every use so a
// credential set after startup is honored.
type KeySource func() string

// ConfigurationError means the pipeline cannot run at all, e.g. because the
// model credential is missing. No summaries are attempted.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Err.Error()
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
