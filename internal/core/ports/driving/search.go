package driving

import (
	"context"

	"github.com/custodia-labs/papergrep-cli/internal/core/domain"
)

// SearchService provides full-text PDF search to external actors.
type SearchService interface {
	// SearchCorpus runs the compound query against every PDF under
	// params.Directory in parallel. Per-file failures are absorbed;
	// an empty slice is a successful "found nothing".
	SearchCorpus(ctx context.Context, params domain.SearchParams) ([]domain.SearchMatch, error)

	// SearchFile runs the same per-file pipeline synchronously
	// against the single PDF named by params.Directory.
	SearchFile(ctx context.Context, params domain.SearchParams) ([]domain.SearchMatch, error)

	// ListFiles enumerates the corpus with optional metadata and an
	// optional name/metadata filter. No full-text scan is performed.
	ListFiles(ctx context.Context, params domain.ListParams) ([]domain.PdfListItem, error)
}

// ExportService renders an already-computed match list to markdown.
type ExportService interface {
	// RenderMarkdown formats matches grouped by file with
	// deduplicated, page-sorted link lists. Pure formatting: no
	// matching logic, no I/O.
	RenderMarkdown(matches []domain.SearchMatch) string
}
