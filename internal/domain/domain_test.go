package domain_test

import (
	"papersum/internal/domain"
	"testing"
)

func TestDocumentTextPreservesOrderAndParagraphs(t *testing.T) {
	doc := domain.Document{Segments: []domain.Segment{
		{Content: "first page"},
		{Content: "second page"},
		{Content: "third page"},
	}}

	got := doc.Text()
	want := "first page\n\nsecond page\n\nthird page"
	if got != want {
		t.Fatalf("unexpected text: got %q want %q", got, want)
	}
}

func TestDocumentValidate(t *testing.T) {
	if err := (domain.Document{}).Validate(); err == nil {
		t.Fatalf("expected empty document to be invalid")
	}

	blank := domain.Document{Segments: []domain.Segment{{Content: "ok"}, {Content: " \n\t"}}}
	if err := blank.Validate(); err == nil {
		t.Fatalf("expected blank segment to be invalid")
	}

	valid := domain.Document{Segments: []domain.Segment{{Content: "ok"}}}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid document, got %v", err)
	}
}

func TestDocumentSource(t *testing.T) {
	doc := domain.Document{Segments: []domain.Segment{
		{Content: "x", Metadata: map[string]string{domain.MetaSource: "https://example.com/paper"}},
	}}

	if got := doc.Source(); got != "https://example.com/paper" {
		t.Fatalf("unexpected source: %q", got)
	}

	if got := (domain.Document{}).Source(); got != "" {
		t.Fatalf("expected empty source for empty document, got %q", got)
	}
}

func TestParsePromptKindRoundTrip(t *testing.T) {
	for _, kind := range []domain.PromptKind{domain.ShortSummary, domain.DetailedSummary, domain.KeywordGlossary} {
		parsed, err := domain.ParsePromptKind(" " + kind.String() + " ")
		if err != nil {
			t.Fatalf("parse %q: %v", kind.String(), err)
		}
		if parsed != kind {
			t.Fatalf("unexpected kind: got %v want %v", parsed, kind)
		}
	}

	if _, err := domain.ParsePromptKind("haiku"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestSummarySetCoversAndFailureCount(t *testing.T) {
	set := domain.SummarySet{
		domain.ShortSummary:    {Kind: domain.ShortSummary, Text: "1. a"},
		domain.DetailedSummary: {Kind: domain.DetailedSummary, FailureReason: "boom"},
	}

	kinds := []domain.PromptKind{domain.ShortSummary, domain.DetailedSummary, domain.KeywordGlossary}
	if set.Covers(kinds) {
		t.Fatalf("expected set without keywords to not cover all kinds")
	}

	set[domain.KeywordGlossary] = domain.SummaryResult{Kind: domain.KeywordGlossary, Text: "[k] v"}
	if !set.Covers(kinds) {
		t.Fatalf("expected complete set to cover all kinds")
	}

	if got := set.FailureCount(); got != 1 {
		t.Fatalf("unexpected failure count: %d", got)
	}
}
