package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"papersum/internal/domain"
	"papersum/internal/prompt"
	"strings"
	"time"
	"unicode/utf8"
)

const failurePrefix = "Summary generation failed: "

type Options struct {
	// Timeout bounds one model call. Zero means no extra bound.
	Timeout time.Duration
	// MaxPromptChars rejects rendered prompts longer than this many
	// characters. Zero disables the check.
	MaxPromptChars int
}

// Summarizer produces one summary of one kind with a single model call.
type Summarizer struct {
	model Model
	opts  Options
	log   *slog.Logger
}

func New(model Model, opts Options, log *slog.Logger) *Summarizer {
	return &Summarizer{model: model, opts: opts, log: log}
}

// Summarize never fails: errors, panics and empty output from the model are
// reported through the result's FailureReason.
func (s *Summarizer) Summarize(
	ctx context.Context,
	kind domain.PromptKind,
	doc domain.Document,
) (result domain.SummaryResult) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			result = s.failed(ctx, kind, fmt.Errorf("panic: %v", r))
		}
	}()

	text, err := s.summarize(ctx, kind, doc)
	if err != nil {
		return s.failed(ctx, kind, err)
	}

	s.log.InfoContext(ctx, "Generated summary",
		"kind", kind.String(),
		"chars", utf8.RuneCountInString(text),
		"duration", time.Since(start))

	return domain.SummaryResult{Kind: kind, Text: text}
}

func (s *Summarizer) summarize(
	ctx context.Context,
	kind domain.PromptKind,
	doc domain.Document,
) (string, error) {
	rendered, err := prompt.Render(kind, doc.Text())
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}

	if limit := s.opts.MaxPromptChars; limit > 0 {
		if n := utf8.RuneCountInString(rendered); n > limit {
			return "", fmt.Errorf("%w (%d > %d characters)", ErrInputTooLarge, n, limit)
		}
	}

	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	text, err := s.model.Complete(ctx, rendered)
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("model returned empty output")
	}

	return text, nil
}

func (s *Summarizer) failed(ctx context.Context, kind domain.PromptKind, err error) domain.SummaryResult {
	s.log.WarnContext(ctx, "Failed to generate summary",
		"error", err,
		"kind", kind.String())

	return domain.SummaryResult{Kind: kind, FailureReason: failurePrefix + err.Error()}
}
