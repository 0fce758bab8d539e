package summarizer_test

import (
	"context"
	"errors"
	"log/slog"
	"papersum/internal/domain"
	"papersum/internal/prompt"
	"papersum/internal/summarizer"
	"strings"
	"sync"
	"testing"
	"time"
)

const paperText = "We propose a new simple network architecture, the Transformer."

type echoModel struct {
	mu      sync.Mutex
	calls   int
	prompts []string
}

func (m *echoModel) Complete(_ context.Context, p string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.prompts = append(m.prompts, p)

	return p, nil
}

func (m *echoModel) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.calls
}

type funcModel struct {
	mu    sync.Mutex
	calls int
	fn    func(ctx context.Context, p string) (string, error)
}

func (m *funcModel) Complete(ctx context.Context, p string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	return m.fn(ctx, p)
}

func (m *funcModel) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.calls
}

func testDocument() domain.Document {
	return domain.Document{Segments: []domain.Segment{{
		Content:  paperText,
		Metadata: map[string]string{domain.MetaSource: "https://example.com/paper"},
	}}}
}

func staticKey(key string) summarizer.KeySource {
	return func() string { return key }
}

func TestSummarizeSendsRenderedPrompt(t *testing.T) {
	model := &echoModel{}
	s := summarizer.New(model, summarizer.Options{}, slog.Default())

	result := s.Summarize(context.Background(), domain.ShortSummary, testDocument())
	if result.Failed() {
		t.Fatalf("expected success, got failure %q", result.FailureReason)
	}

	want, err := prompt.Render(domain.ShortSummary, paperText)
	if err != nil {
		t.Fatalf("render prompt: %v", err)
	}

	if result.Text != strings.TrimSpace(want) {
		t.Fatalf("expected model to receive the rendered template")
	}
	if result.Kind != domain.ShortSummary {
		t.Fatalf("unexpected kind: %v", result.Kind)
	}
	if model.callCount() != 1 {
		t.Fatalf("expected one model call, got %d", model.callCount())
	}
}

func TestSummarizeCapturesModelError(t *testing.T) {
	model := &funcModel{fn: func(context.Context, string) (string, error) {
		return "", errors.New("rate limit exceeded")
	}}
	s := summarizer.New(model, summarizer.Options{}, slog.Default())

	result := s.Summarize(context.Background(), domain.DetailedSummary, testDocument())
	if !result.Failed() {
		t.Fatalf("expected failure")
	}
	if result.Text != "" {
		t.Fatalf("expected empty text on failure, got %q", result.Text)
	}
	if !strings.HasPrefix(result.FailureReason, "Summary generation failed: ") {
		t.Fatalf("unexpected failure reason prefix: %q", result.FailureReason)
	}
	if !strings.Contains(result.FailureReason, "rate limit exceeded") {
		t.Fatalf("expected model error in failure reason, got %q", result.FailureReason)
	}
}

func TestSummarizeRecoversFromPanic(t *testing.T) {
	model := &funcModel{fn: func(context.Context, string) (string, error) {
		panic("unexpected response shape")
	}}
	s := summarizer.New(model, summarizer.Options{}, slog.Default())

	result := s.Summarize(context.Background(), domain.KeywordGlossary, testDocument())
	if !result.Failed() || !strings.Contains(result.FailureReason, "unexpected response shape") {
		t.Fatalf("expected panic to be captured, got %+v", result)
	}
	if result.Kind != domain.KeywordGlossary {
		t.Fatalf("unexpected kind: %v", result.Kind)
	}
}

func TestSummarizeRejectsEmptyOutput(t *testing.T) {
	model := &funcModel{fn: func(context.Context, string) (string, error) {
		return " \n ", nil
	}}
	s := summarizer.New(model, summarizer.Options{}, slog.Default())

	if result := s.Summarize(context.Background(), domain.ShortSummary, testDocument()); !result.Failed() {
		t.Fatalf("expected blank output to be a failure")
	}
}

func TestSummarizeRejectsOversizedPrompt(t *testing.T) {
	model := &echoModel{}
	s := summarizer.New(model, summarizer.Options{MaxPromptChars: 100}, slog.Default())

	result := s.Summarize(context.Background(), domain.ShortSummary, testDocument())
	if !result.Failed() {
		t.Fatalf("expected oversized prompt to fail")
	}
	if !strings.Contains(result.FailureReason, summarizer.ErrInputTooLarge.Error()) {
		t.Fatalf("unexpected failure reason: %q", result.FailureReason)
	}
	if model.callCount() != 0 {
		t.Fatalf("expected no model call, got %d", model.callCount())
	}
}

func TestSummarizeAppliesTimeout(t *testing.T) {
	model := &funcModel{fn: func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	s := summarizer.New(model, summarizer.Options{Timeout: 20 * time.Millisecond}, slog.Default())

	result := s.Summarize(context.Background(), domain.ShortSummary, testDocument())
	if !result.Failed() || !strings.Contains(result.FailureReason, context.DeadlineExceeded.Error()) {
		t.Fatalf("expected deadline failure, got %+v", result)
	}
}

func TestSummarizeAllMissingCredential(t *testing.T) {
	model := &echoModel{}
	s := summarizer.New(model, summarizer.Options{}, slog.Default())

	for _, key := range []string{"", "   "} {
		o := summarizer.NewOrchestrator(s, staticKey(key), 3, slog.Default())

		set, err := o.SummarizeAll(context.Background(), testDocument())

		var cfgErr *summarizer.ConfigurationError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("expected *ConfigurationError for key %q, got %T (%v)", key, err, err)
		}
		if !errors.Is(err, summarizer.ErrMissingCredential) {
			t.Fatalf("expected ErrMissingCredential, got %v", err)
		}
		if set != nil {
			t.Fatalf("expected no summaries, got %v", set)
		}
	}

	if model.callCount() != 0 {
		t.Fatalf("expected no model calls, got %d", model.callCount())
	}
}

func TestSummarizeAllCoversEveryKind(t *testing.T) {
	model := &echoModel{}
	s := summarizer.New(model, summarizer.Options{}, slog.Default())
	o := summarizer.NewOrchestrator(s, staticKey("sk-test"), 3, slog.Default())

	set, err := o.SummarizeAll(context.Background(), testDocument())
	if err != nil {
		t.Fatalf("SummarizeAll returned error: %v", err)
	}

	if !set.Covers(prompt.Kinds()) || len(set) != prompt.Size() {
		t.Fatalf("expected one result per kind, got %d", len(set))
	}
	if model.callCount() != prompt.Size() {
		t.Fatalf("expected %d model calls, got %d", prompt.Size(), model.callCount())
	}

	for kind, result := range set {
		if result.Kind != kind {
			t.Fatalf("result keyed by %v carries kind %v", kind, result.Kind)
		}
		if result.Failed() {
			t.Fatalf("unexpected failure for %v: %q", kind, result.FailureReason)
		}
	}
}

func TestSummarizeAllKeepsFailuresLocal(t *testing.T) {
	model := &funcModel{fn: func(_ context.Context, p string) (string, error) {
		if strings.Contains(p, "KEYWORDS:") {
			return "", errors.New("server error")
		}
		return "ok", nil
	}}
	s := summarizer.New(model, summarizer.Options{}, slog.Default())
	o := summarizer.NewOrchestrator(s, staticKey("sk-test"), 3, slog.Default())

	set, err := o.SummarizeAll(context.Background(), testDocument())
	if err != nil {
		t.Fatalf("SummarizeAll returned error: %v", err)
	}

	if !set.Covers(prompt.Kinds()) {
		t.Fatalf("expected complete set")
	}
	if set.FailureCount() != 1 || !set[domain.KeywordGlossary].Failed() {
		t.Fatalf("expected only the keyword summary to fail, got %+v", set)
	}
	if set[domain.ShortSummary].Text != "ok" || set[domain.DetailedSummary].Text != "ok" {
		t.Fatalf("expected other summaries to succeed, got %+v", set)
	}
}

func TestSummarizeAllAllFailuresStillComplete(t *testing.T) {
	model := &funcModel{fn: func(context.Context, string) (string, error) {
		return "", errors.New("unavailable")
	}}
	s := summarizer.New(model, summarizer.Options{}, slog.Default())
	o := summarizer.NewOrchestrator(s, staticKey("sk-test"), 3, slog.Default())

	set, err := o.SummarizeAll(context.Background(), testDocument())
	if err != nil {
		t.Fatalf("expected no error when every kind fails, got %v", err)
	}

	if !set.Covers(prompt.Kinds()) || set.FailureCount() != prompt.Size() {
		t.Fatalf("expected %d failures, got %d", prompt.Size(), set.FailureCount())
	}
	if model.callCount() != prompt.Size() {
		t.Fatalf("expected no retries, got %d calls", model.callCount())
	}
}

func TestSummarizeAllRunsConcurrently(t *testing.T) {
	var (
		mu      sync.Mutex
		arrived int
		ready   = make(chan struct{})
	)

	model := &funcModel{fn: func(ctx context.Context, _ string) (string, error) {
		mu.Lock()
		arrived++
		if arrived == prompt.Size() {
			close(ready)
		}
		mu.Unlock()

		select {
		case <-ready:
			return "done", nil
		case <-time.After(2 * time.Second):
			return "", errors.New("calls were not concurrent")
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}}
	s := summarizer.New(model, summarizer.Options{}, slog.Default())
	o := summarizer.NewOrchestrator(s, staticKey("sk-test"), prompt.Size(), slog.Default())

	set, err := o.SummarizeAll(context.Background(), testDocument())
	if err != nil {
		t.Fatalf("SummarizeAll returned error: %v", err)
	}

	if set.FailureCount() != 0 {
		t.Fatalf("expected all calls in flight together, got %+v", set)
	}
}

func TestSummarizeAllReadsCredentialAtCallTime(t *testing.T) {
	var (
		mu  sync.Mutex
		key string
	)
	keys := func() string {
		mu.Lock()
		defer mu.Unlock()
		return key
	}

	model := &echoModel{}
	o := summarizer.NewOrchestrator(
		summarizer.New(model, summarizer.Options{}, slog.Default()),
		keys,
		3,
		slog.Default(),
	)

	if _, err := o.SummarizeAll(context.Background(), testDocument()); err == nil {
		t.Fatalf("expected configuration error before key is set")
	}

	mu.Lock()
	key = "sk-late"
	mu.Unlock()

	if _, err := o.SummarizeAll(context.Background(), testDocument()); err != nil {
		t.Fatalf("expected success once key is set, got %v", err)
	}
}
