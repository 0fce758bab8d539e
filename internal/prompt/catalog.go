// Package prompt holds the fixed catalog of summarization instructions.
package prompt

import (
	"errors"
	"fmt"
	"papersum/internal/domain"
	"strings"
	"text/template"
)

// TextSlot is the only interpolation slot a template may contain.
const TextSlot = "{{.Text}}"

var ErrUnknownKind = errors.New("unknown prompt kind")

const shortSummaryTemplate = `You are an expert in summarizing academic papers into exactly 3 concise sentences.

# GuideLines
- Just output 3 standalone summary sentences.
- Each sentence should be clear, informative, and straight to the point.
- Please answer in English.

# Format
- Do not include any greetings, introductions, or explanations.
- Use an ordered list (1, 2, 3) format.
- Your response must begin with "1." and follow an ordered list format (1., 2., 3.).
- You may begin each sentence with an emoji.

Text to summarize:
{{.Text}}

SUMMARY:`

const detailedSummaryTemplate = `Please write a summary of this paper.

# GuideLines
- Describe the paper in depth, detail, and specificity.
- Explain the core methodology in more detail and technical terms.
- Please answer in English.

# Format
- Do not include any other words except the summary.
- Formulas should be written in LaTeX format.

Text to summarize:
{{.Text}}

SUMMARY:`

const keywordGlossaryTemplate = `List of keywords in the paper.

# Guidelines
- List keywords that are essential to understanding this paper or that occur in this paper and explain each one.
- Explain it like a dictionary. Explain in detail based on the content of the paper.
- Explain each keyword in English.

# Format
- At the start of the answer, write the paper's keywords without explanation. No square brackets.
- A sentence consists of one keyword and a explanation of that keyword. Only the keyword should be enclosed in square brackets.

=== Example ===
Keyword1, Keyword2, Keyword3, ...

[Keyword1 in paper's language] very detailed explanation of the keyword in English
[Keyword2 in paper's language] very detailed explanation of the keyword in English
[Keyword3 in paper's language] very detailed explanation of the keyword in English
...
=== End of Example ===

Text to summarize:
{{.Text}}

KEYWORDS:`

type entry struct {
	kind  domain.PromptKind
	title string
	raw   string
	tmpl  *template.Template
}

//nolint:gochecknoglobals // Catalog is built once and never mutated.
var catalog = []entry{
	newEntry(domain.ShortSummary, "3-Line Summary", shortSummaryTemplate),
	newEntry(domain.DetailedSummary, "Detailed Summary", detailedSummaryTemplate),
	newEntry(domain.KeywordGlossary, "Keyword Explanations", keywordGlossaryTemplate),
}

func newEntry(kind domain.PromptKind, title string, raw string) entry {
	if n := strings.Count(raw, TextSlot); n != 1 {
		panic(fmt.Sprintf("prompt %s: want exactly one text slot, got %d", kind, n))
	}

	return entry{
		kind:  kind,
		title: title,
		raw:   raw,
		tmpl:  template.Must(template.New(kind.String()).Option("missingkey=error").Parse(raw)),
	}
}

// Kinds returns every catalog kind in display order.
func Kinds() []domain.PromptKind {
	kinds := make([]domain.PromptKind, 0, len(catalog))
	for _, e := range catalog {
		kinds = append(kinds, e.kind)
	}

	return kinds
}

// Size is the number of catalog entries.
func Size() int {
	return len(catalog)
}

func Title(kind domain.PromptKind) string {
	e, ok := lookup(kind)
	if !ok {
		return kind.String()
	}

	return e.title
}

// Template returns the unrendered template text for kind.
func Template(kind domain.PromptKind) (string, error) {
	e, ok := lookup(kind)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	return e.raw, nil
}

// Render binds text to the template's text slot.
func Render(kind domain.PromptKind, text string) (string, error) {
	e, ok := lookup(kind)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	var b strings.Builder
	if err := e.tmpl.Execute(&b, struct{ Text string }{Text: text}); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return b.String(), nil
}

func lookup(kind domain.PromptKind) (entry, bool) {
	for _, e := range catalog {
		if e.kind == kind {
			return e, true
		}
	}

	return entry{}, false
}
