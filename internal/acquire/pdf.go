package acquire

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"papersum/internal/domain"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
)

// TempFilePattern names the scoped upload copies; the sweeper matches on it.
const TempFilePattern = "papersum-*.pdf"

// PageExtractor returns the plain text of every page of the PDF at path,
// one entry per page, in page order.
type PageExtractor interface {
	ExtractPages(ctx context.Context, path string) ([]string, error)
}

type pdfPageExtractor struct{}

func (pdfPageExtractor) ExtractPages(ctx context.Context, path string) (pages []string, err error) {
	// The PDF library panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("read PDF: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close PDF: %w", closeErr)
		}
	}()

	numPages := r.NumPage()
	pages = make([]string, 0, numPages)

	for i := 1; i <= numPages; i++ {
		if err = ctx.Err(); err != nil {
			return nil, err
		}

		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		text, textErr := page.GetPlainText(nil)
		if textErr != nil {
			return nil, fmt.Errorf("extract page %d: %w", i, textErr)
		}

		pages = append(pages, text)
	}

	return pages, nil
}

func (a *Acquirer) extractFile(ctx context.Context, name string, data []byte) (domain.Document, error) {
	if len(data) == 0 {
		return domain.Document{}, errors.New("file is empty")
	}

	if err := os.MkdirAll(a.tempDir, 0o700); err != nil {
		return domain.Document{}, fmt.Errorf("create temp dir: %w", err)
	}

	tmp, err := os.CreateTemp(a.tempDir, TempFilePattern)
	if err != nil {
		return domain.Document{}, fmt.Errorf("create temp file: %w", err)
	}

	tmpPath := tmp.Name()
	defer func() {
		if removeErr := os.Remove(tmpPath); removeErr != nil && !errors.Is(removeErr, fs.ErrNotExist) {
			a.log.ErrorContext(ctx, "Failed to remove temp file",
				"error", removeErr,
				"path", tmpPath,
				"source", name)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return domain.Document{}, fmt.Errorf("write temp file: %w", err)
	}

	if err = tmp.Close(); err != nil {
		return domain.Document{}, fmt.Errorf("close temp file: %w", err)
	}

	pages, err := a.pages.ExtractPages(ctx, tmpPath)
	if err != nil {
		return domain.Document{}, fmt.Errorf("extract pages: %w", err)
	}

	total := strconv.Itoa(len(pages))
	segments := make([]domain.Segment, 0, len(pages))

	for i, text := range pages {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		segments = append(segments, domain.Segment{
			Content: text,
			Metadata: map[string]string{
				domain.MetaSource:     name,
				domain.MetaPage:       strconv.Itoa(i + 1),
				domain.MetaTotalPages: total,
				domain.MetaStrategy:   PDFStrategyName,
			},
		})
	}

	if len(segments) == 0 {
		return domain.Document{}, fmt.Errorf("no extractable text in %d pages", len(pages))
	}

	return domain.Document{Segments: segments}, nil
}
