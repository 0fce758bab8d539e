package server

import (
	"papersum/internal/domain"
	"papersum/internal/markdown"
	"papersum/internal/prompt"
	"strconv"

	"github.com/google/uuid"
)

// Report is the presentation of one load action: the acquired document and
// its summaries in catalog order.
type Report struct {
	RunID     string          `json:"run_id"             yaml:"run_id"`
	Source    string          `json:"source"             yaml:"source"`
	Pages     int             `json:"pages"              yaml:"pages"`
	Language  string          `json:"language,omitempty" yaml:"language,omitempty"`
	Title     string          `json:"title,omitempty"    yaml:"title,omitempty"`
	Summaries []SummaryReport `json:"summaries"          yaml:"summaries"`
}

type SummaryReport struct {
	Kind  string `json:"kind"            yaml:"kind"`
	Title string `json:"title"           yaml:"title"`
	Text  string `json:"text,omitempty"  yaml:"text,omitempty"`
	HTML  string `json:"html,omitempty"  yaml:"-"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewReport builds a Report with a fresh run ID. Summary Markdown is
// rendered to HTML; a rendering failure leaves HTML empty.
func NewReport(doc domain.Document, set domain.SummarySet) Report {
	report := Report{
		RunID:  uuid.NewString(),
		Source: doc.Source(),
		Pages:  pageCount(doc),
	}

	if !doc.IsEmpty() {
		meta := doc.Segments[0].Metadata
		report.Language = meta[domain.MetaLanguage]
		report.Title = meta[domain.MetaTitle]
	}

	for _, kind := range prompt.Kinds() {
		result, ok := set[kind]
		if !ok {
			continue
		}

		summary := SummaryReport{
			Kind:  kind.String(),
			Title: prompt.Title(kind),
		}

		if result.Failed() {
			summary.Error = result.FailureReason
		} else {
			summary.Text = result.Text
			if html, err := markdown.ToHTML(result.Text); err == nil {
				summary.HTML = html
			}
		}

		report.Summaries = append(report.Summaries, summary)
	}

	return report
}

func pageCount(doc domain.Document) int {
	if doc.IsEmpty() {
		return 0
	}

	if total, err := strconv.Atoi(doc.Segments[0].Metadata[domain.MetaTotalPages]); err == nil && total > 0 {
		return total
	}

	return len(doc.Segments)
}
