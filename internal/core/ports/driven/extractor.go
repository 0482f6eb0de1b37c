package driven

import (
	"context"

	"github.com/custodia-labs/papergrep-cli/internal/core/domain"
)

// TextExtractor converts one PDF file into per-page plain text.
type TextExtractor interface {
	// Extract opens and parses the PDF at path and returns its pages
	// in order. A corrupt, encrypted, or unparsable file returns a
	// file-scoped error; callers running a batch drop the file and
	// continue.
	Extract(ctx context.Context, path string) (*domain.PdfDocument, error)
}
