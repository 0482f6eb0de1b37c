package mcp

import (
	"context"

	"github.com/custodia-labs/papergrep-cli/internal/core/domain"
	"github.com/custodia-labs/papergrep-cli/internal/core/ports/driving"
)

// mockSearchService records calls and returns canned results.
type mockSearchService struct {
	corpusParams domain.SearchParams
	fileParams   domain.SearchParams
	listParams   domain.ListParams

	matches []domain.SearchMatch
	items   []domain.PdfListItem
	err     error
}

var _ driving.SearchService = (*mockSearchService)(nil)

func (m *mockSearchService) SearchCorpus(_ context.Context, params domain.SearchParams) ([]domain.SearchMatch, error) {
	m.corpusParams = params
	return m.matches, m.err
}

func (m *mockSearchService) SearchFile(_ context.Context, params domain.SearchParams) ([]domain.SearchMatch, error) {
	m.fileParams = params
	return m.matches, m.err
}

func (m *mockSearchService) ListFiles(_ context.Context, params domain.ListParams) ([]domain.PdfListItem, error) {
	m.listParams = params
	return m.items, m.err
}

// mockExportService returns a fixed rendering.
type mockExportService struct {
	matches  []domain.SearchMatch
	rendered string
}

var _ driving.ExportService = (*mockExportService)(nil)

func (m *mockExportService) RenderMarkdown(matches []domain.SearchMatch) string {
	m.matches = matches
	return m.rendered
}
