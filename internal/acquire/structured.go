package acquire

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"papersum/internal/domain"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// structuredStrategy fetches the page as a plain client would and keeps the
// main article content found by readability.
type structuredStrategy struct {
	client *http.Client
	log    *slog.Logger
}

func newStructuredStrategy(client *http.Client, log *slog.Logger) *structuredStrategy {
	return &structuredStrategy{client: client, log: log}
}

func (s *structuredStrategy) Name() string {
	return StructuredStrategyName
}

func (s *structuredStrategy) Load(ctx context.Context, rawURL string) (domain.Document, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return domain.Document{}, fmt.Errorf("parse URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return domain.Document{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.client.Do(req) //nolint:gosec // User supplied URL is the point.
	if err != nil {
		return domain.Document{}, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err = resp.Body.Close(); err != nil {
			s.log.ErrorContext(ctx, "Failed to close response body",
				"error", err,
				"url", rawURL,
				"strategy", StructuredStrategyName)
		}
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		return domain.Document{}, fmt.Errorf("do request: unexpected status: %d", resp.StatusCode)
	}

	parser := readability.NewParser()
	article, err := parser.Parse(io.LimitReader(resp.Body, maxBodyBytes), pageURL)
	if err != nil {
		return domain.Document{}, fmt.Errorf("parse article: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
	if err != nil {
		return domain.Document{}, fmt.Errorf("create document from reader: %w", err)
	}

	text := renderBlocks(doc)
	if strings.TrimSpace(text) == "" {
		return domain.Document{}, ErrEmptyContent
	}

	metadata := map[string]string{
		domain.MetaSource:   rawURL,
		domain.MetaStrategy: StructuredStrategyName,
	}
	setIfPresent(metadata, domain.MetaTitle, article.Title)
	setIfPresent(metadata, domain.MetaByline, article.Byline)
	setIfPresent(metadata, domain.MetaExcerpt, article.Excerpt)
	setIfPresent(metadata, domain.MetaSiteName, article.SiteName)

	return domain.Document{Segments: []domain.Segment{{Content: text, Metadata: metadata}}}, nil
}

func setIfPresent(metadata map[string]string, key string, value string) {
	if value = strings.TrimSpace(value); value != "" {
		metadata[key] = value
	}
}
