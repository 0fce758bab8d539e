package acquire

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"papersum/internal/domain"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// rawStrategy impersonates a browser and keeps every visible text node.
type rawStrategy struct {
	client *http.Client
	log    *slog.Logger
}

func newRawStrategy(client *http.Client, log *slog.Logger) *rawStrategy {
	return &rawStrategy{client: client, log: log}
}

func (s *rawStrategy) Name() string {
	return RawStrategyName
}

func (s *rawStrategy) Load(ctx context.Context, rawURL string) (domain.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return domain.Document{}, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req) //nolint:gosec // User supplied URL is the point.
	if err != nil {
		return domain.Document{}, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err = resp.Body.Close(); err != nil {
			s.log.ErrorContext(ctx, "Failed to close response body",
				"error", err,
				"url", rawURL,
				"strategy", RawStrategyName)
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return domain.Document{}, fmt.Errorf("do request: unexpected status: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.Document{}, fmt.Errorf("create document from reader: %w", err)
	}

	doc.Find("script, style").Remove()

	text := normalizeText(doc.Text())
	if strings.TrimSpace(text) == "" {
		return domain.Document{}, ErrEmptyContent
	}

	return domain.Document{Segments: []domain.Segment{{
		Content: text,
		Metadata: map[string]string{
			domain.MetaSource:   rawURL,
			domain.MetaStrategy: RawStrategyName,
		},
	}}}, nil
}
