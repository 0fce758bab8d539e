package summarizer

import (
	"context"
	"log/slog"
	"papersum/internal/domain"
	"papersum/internal/prompt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Orchestrator runs one Summarize per catalog kind concurrently and waits
// for all of them.
type Orchestrator struct {
	summarizer  *Summarizer
	keys        KeySource
	concurrency int
	log         *slog.Logger
}

func NewOrchestrator(
	summarizer *Summarizer,
	keys KeySource,
	concurrency int,
	log *slog.Logger,
) *Orchestrator {
	if concurrency <= 0 {
		concurrency = prompt.Size()
	}

	return &Orchestrator{
		summarizer:  summarizer,
		keys:        keys,
		concurrency: concurrency,
		log:         log,
	}
}

// SummarizeAll returns a set covering every catalog kind. The only error is
// a *ConfigurationError, returned before any model call is made.
func (o *Orchestrator) SummarizeAll(ctx context.Context, doc domain.Document) (domain.SummarySet, error) {
	if o.keys == nil || strings.TrimSpace(o.keys()) == "" {
		return nil, &ConfigurationError{Err: ErrMissingCredential}
	}

	start := time.Now()
	kinds := prompt.Kinds()

	var (
		mu  sync.Mutex
		set = make(domain.SummarySet, len(kinds))
	)

	g := &errgroup.Group{}
	g.SetLimit(o.concurrency)

	for _, kind := range kinds {
		g.Go(func() error {
			result := o.summarizer.Summarize(ctx, kind, doc)

			mu.Lock()
			set[kind] = result
			mu.Unlock()

			return nil
		})
	}

	_ = g.Wait()

	o.log.InfoContext(ctx, "Summarized document",
		"source", doc.Source(),
		"kinds", len(kinds),
		"failed", set.FailureCount(),
		"duration", time.Since(start))

	return set, nil
}
