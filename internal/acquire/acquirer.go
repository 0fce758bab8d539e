package acquire

import (
	"context"
	"log/slog"
	"net/http"
	"papersum/internal/domain"
	"time"
)

const rawFetchTimeout = 10 * time.Second

type Options struct {
	// FetchTimeout bounds the structured strategy; the raw strategy always
	// uses its own fixed timeout.
	FetchTimeout time.Duration
	TempDir      string
	// DetectLanguage enables the language metadata annotation.
	DetectLanguage bool
}

// Acquirer turns a URL or an uploaded PDF into a Document.
type Acquirer struct {
	strategies []Strategy
	pages      PageExtractor
	tempDir    string
	language   *LanguageDetector
	log        *slog.Logger
}

func New(opts Options, log *slog.Logger) *Acquirer {
	var language *LanguageDetector
	if opts.DetectLanguage {
		language = NewLanguageDetector()
	}

	return &Acquirer{
		strategies: []Strategy{
			newStructuredStrategy(&http.Client{Timeout: opts.FetchTimeout}, log),
			newRawStrategy(&http.Client{Timeout: rawFetchTimeout}, log),
		},
		pages:    pdfPageExtractor{},
		tempDir:  opts.TempDir,
		language: language,
		log:      log,
	}
}

// AcquireURL tries every strategy in order and returns the first usable
// Document. When all of them fail the returned *AcquisitionError lists
// each attempt.
func (a *Acquirer) AcquireURL(ctx context.Context, rawURL string) (domain.Document, error) {
	if err := validateURL(rawURL); err != nil {
		return domain.Document{}, newAcquisitionError(rawURL, InputStrategyName, err)
	}

	acqErr := &AcquisitionError{Source: rawURL}

	for _, strategy := range a.strategies {
		start := time.Now()

		doc, err := strategy.Load(ctx, rawURL)
		if err == nil && !usable(doc) {
			err = ErrEmptyContent
		}

		if err != nil {
			a.log.WarnContext(ctx, "Failed to load URL",
				"error", err,
				"url", rawURL,
				"strategy", strategy.Name(),
				"duration", time.Since(start))

			acqErr.Failures = append(acqErr.Failures, StrategyFailure{Strategy: strategy.Name(), Err: err})
			continue
		}

		a.log.InfoContext(ctx, "Loaded URL",
			"url", rawURL,
			"strategy", strategy.Name(),
			"segments", len(doc.Segments),
			"duration", time.Since(start))

		a.annotateLanguage(doc)

		return doc, nil
	}

	return domain.Document{}, acqErr
}

// AcquireFile extracts a PDF given as bytes. The bytes pass through a temp
// file that is removed before AcquireFile returns.
func (a *Acquirer) AcquireFile(ctx context.Context, name string, data []byte) (domain.Document, error) {
	start := time.Now()

	doc, err := a.extractFile(ctx, name, data)
	if err != nil {
		a.log.WarnContext(ctx, "Failed to load PDF",
			"error", err,
			"file", name,
			"size", len(data))

		return domain.Document{}, newAcquisitionError(name, PDFStrategyName, err)
	}

	a.log.InfoContext(ctx, "Loaded PDF",
		"file", name,
		"pages", len(doc.Segments),
		"duration", time.Since(start))

	a.annotateLanguage(doc)

	return doc, nil
}

func (a *Acquirer) annotateLanguage(doc domain.Document) {
	if a.language == nil {
		return
	}

	code, ok := a.language.Detect(doc.Text())
	if !ok {
		return
	}

	for i := range doc.Segments {
		if doc.Segments[i].Metadata == nil {
			doc.Segments[i].Metadata = map[string]string{}
		}
		doc.Segments[i].Metadata[domain.MetaLanguage] = code
	}
}

func usable(doc domain.Document) bool {
	return !doc.IsEmpty() && doc.Validate() == nil
}
