package acquire

import (
	"context"
	"papersum/internal/domain"
)

const (
	StructuredStrategyName = "structured"
	RawStrategyName        = "raw"
	PDFStrategyName        = "pdf"
	InputStrategyName      = "input"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"

	maxBodyBytes = 20 << 20
)

// Strategy loads a URL into a Document. A strategy never relies on the next
// one: it either returns a usable Document or an error describing why not.
type Strategy interface {
	Name() string
	Load(ctx context.Context, rawURL string) (domain.Document, error)
}
