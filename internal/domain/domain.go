package domain

import (
	"errors"
	"fmt"
	"strings"
)

const (
	MetaSource     = "source"
	MetaPage       = "page"
	MetaTotalPages = "total_pages"
	MetaTitle      = "title"
	MetaByline     = "byline"
	MetaExcerpt    = "excerpt"
	MetaSiteName   = "site_name"
	MetaStrategy   = "strategy"
	MetaLanguage   = "language"

	// SegmentSeparator keeps paragraph boundaries between segments.
	SegmentSeparator = "\n\n"
)

type Segment struct {
	Content  string
	Metadata map[string]string
}

func (s Segment) Source() string {
	return s.Metadata[MetaSource]
}

type Document struct {
	Segments []Segment
}

func (d Document) IsEmpty() bool {
	return len(d.Segments) == 0
}

// Text concatenates segment contents in order.
func (d Document) Text() string {
	contents := make([]string, 0, len(d.Segments))
	for _, s := range d.Segments {
		contents = append(contents, s.Content)
	}

	return strings.Join(contents, SegmentSeparator)
}

func (d Document) Source() string {
	if d.IsEmpty() {
		return ""
	}

	return d.Segments[0].Source()
}

func (d Document) Validate() error {
	if d.IsEmpty() {
		return errors.New("document has no segments")
	}

	for i, s := range d.Segments {
		if strings.TrimSpace(s.Content) == "" {
			return fmt.Errorf("segment %d is blank", i)
		}
	}

	return nil
}

type PromptKind int

const (
	ShortSummary PromptKind = iota
	DetailedSummary
	KeywordGlossary
)

func (k PromptKind) String() string {
	switch k {
	case ShortSummary:
		return "short"
	case DetailedSummary:
		return "detailed"
	case KeywordGlossary:
		return "keywords"
	default:
		return fmt.Sprintf("PromptKind(%d)", int(k))
	}
}

func ParsePromptKind(s string) (PromptKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "short":
		return ShortSummary, nil
	case "detailed":
		return DetailedSummary, nil
	case "keywords":
		return KeywordGlossary, nil
	default:
		return 0, fmt.Errorf("unknown prompt kind: %q", s)
	}
}

// SummaryResult holds either Text or FailureReason, never both.
type SummaryResult struct {
	Kind          PromptKind
	Text          string
	FailureReason string
}

func (r SummaryResult) Failed() bool {
	return r.FailureReason != ""
}

type SummarySet map[PromptKind]SummaryResult

// Covers reports whether every kind has a result.
func (s SummarySet) Covers(kinds []PromptKind) bool {
	for _, k := range kinds {
		if _, ok := s[k]; !ok {
			return false
		}
	}

	return true
}

func (s SummarySet) FailureCount() int {
	n := 0
	for _, r := range s {
		if r.Failed() {
			n++
		}
	}

	return n
}
