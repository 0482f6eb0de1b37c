package pdf

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/papergrep-cli/internal/core/domain"
	"github.com/custodia-labs/papergrep-cli/internal/core/ports/driven"
	"github.com/custodia-labs/papergrep-cli/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor reads page text out of PDF files. The underlying library
// panics on some malformed inputs, so every call into it runs behind
// a recover: a panic while opening fails the file, a panic on a single
// page yields an empty page and the rest of the document survives.
type Extractor struct{}

// NewExtractor creates a new PDF text extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the per-page text of the PDF at path. Page i of the
// document lands at Pages[i-1]; unparseable pages stay empty so page
// numbers keep lining up.
func (e *Extractor) Extract(ctx context.Context, path string) (*domain.PdfDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, reader, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer file.Close() //nolint:errcheck // read-only handle

	total, err := pageCount(reader)
	if err != nil {
		return nil, err
	}

	doc := &domain.PdfDocument{
		Path:  path,
		Pages: make([]string, total),
	}
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, ok := pageText(reader, i)
		if !ok {
			logger.Debug("Unparseable page %d in %s", i, path)
			continue
		}
		doc.Pages[i-1] = text
	}

	return doc, nil
}

// openReader opens the file through the PDF library, converting
// construction panics into errors.
func openReader(path string) (f closer, reader *pdf.Reader, err error) {
	defer func() {
		if r := recover(); r != nil {
			f, reader = nil, nil
			err = fmt.Errorf("%w: %s: %v", domain.ErrExtraction, path, r)
		}
	}()

	file, reader, oerr := pdf.Open(path)
	if oerr != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", domain.ErrExtraction, path, oerr)
	}
	return file, reader, nil
}

type closer interface{ Close() error }

// pageCount reads the page count behind a recover.
func pageCount(reader *pdf.Reader) (total int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: page count: %v", domain.ErrExtraction, r)
		}
	}()

	return reader.NumPage(), nil
}

// pageText extracts one page behind a recover. Text fragments are
// joined with spaces, and a newline is emitted when the vertical
// position changes so line wraps stay visible downstream.
func pageText(reader *pdf.Reader, number int) (text string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			text, ok = "", false
		}
	}()

	page := reader.Page(number)
	if page.V.IsNull() {
		return "", false
	}

	var b strings.Builder
	lastY := -1.0
	for _, item := range page.Content().Text {
		if lastY >= 0 {
			if item.Y != lastY {
				b.WriteString("\n")
			} else {
				b.WriteString(" ")
			}
		}
		b.WriteString(item.S)
		lastY = item.Y
	}

	return b.String(), true
}
