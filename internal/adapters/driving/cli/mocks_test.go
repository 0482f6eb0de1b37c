package cli

import (
	"bytes"
	"context"
	"sort"
	"testing"

	"github.com/custodia-labs/papergrep-cli/internal/core/domain"
	"github.com/custodia-labs/papergrep-cli/internal/core/ports/driven"
	"github.com/custodia-labs/papergrep-cli/internal/core/ports/driving"
)

// mockSearchService records the last params and returns canned data.
type mockSearchService struct {
	corpusParams domain.SearchParams
	fileParams   domain.SearchParams
	listParams   domain.ListParams
	corpusCalls  int
	fileCalls    int

	matches []domain.SearchMatch
	items   []domain.PdfListItem
	err     error
}

var _ driving.SearchService = (*mockSearchService)(nil)

func (m *mockSearchService) SearchCorpus(_ context.Context, params domain.SearchParams) ([]domain.SearchMatch, error) {
	m.corpusCalls++
	m.corpusParams = params
	return m.matches, m.err
}

func (m *mockSearchService) SearchFile(_ context.Context, params domain.SearchParams) ([]domain.SearchMatch, error) {
	m.fileCalls++
	m.fileParams = params
	return m.matches, m.err
}

func (m *mockSearchService) ListFiles(_ context.Context, params domain.ListParams) ([]domain.PdfListItem, error) {
	m.listParams = params
	return m.items, m.err
}

// mockExportService records input and returns a fixed rendering.
type mockExportService struct {
	matches  []domain.SearchMatch
	rendered string
}

var _ driving.ExportService = (*mockExportService)(nil)

func (m *mockExportService) RenderMarkdown(matches []domain.SearchMatch) string {
	m.matches = matches
	return m.rendered
}

// memConfigStore is an in-memory driven.ConfigStore for tests.
type memConfigStore struct {
	data map[string]any
}

var _ driven.ConfigStore = (*memConfigStore)(nil)

func newMemConfigStore() *memConfigStore {
	return &memConfigStore{data: map[string]any{}}
}

func (s *memConfigStore) Get(key string) (any, bool) {
	val, ok := s.data[key]
	return val, ok
}

func (s *memConfigStore) GetString(key string) string {
	if v, ok := s.data[key].(string); ok {
		return v
	}
	return ""
}

func (s *memConfigStore) GetInt(key string) int {
	switch v := s.data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}

func (s *memConfigStore) GetBool(key string) bool {
	if v, ok := s.data[key].(bool); ok {
		return v
	}
	return false
}

func (s *memConfigStore) Set(key string, value any) error {
	s.data[key] = value
	return nil
}

func (s *memConfigStore) Delete(key string) error {
	delete(s.data, key)
	return nil
}

func (s *memConfigStore) Keys() []string {
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// withServices swaps the package-level services for one test.
func withServices(t *testing.T, search driving.SearchService, export driving.ExportService, config driven.ConfigStore) {
	t.Helper()
	oldSearch, oldExport, oldConfig := searchService, exportService, configStore
	SetServices(search, export, config)
	t.Cleanup(func() { SetServices(oldSearch, oldExport, oldConfig) })
}

// resetSearchFlags restores search command flag state between tests.
func resetSearchFlags() {
	searchDir = "."
	searchFile = ""
	searchFilters = nil
	searchRegex = false
	searchCaseSensitive = false
	searchContextWords = 0
	searchZoteroPath = ""
	searchStartPage = 0
	searchEndPage = 0
	searchWorkers = 0
	searchJSON = false
}

// resetListFlags restores list command flag state between tests.
func resetListFlags() {
	listDir = "."
	listQuery = ""
	listZoteroPath = ""
	listJSON = false
}

// execute runs the root command with args and captures output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return buf.String(), err
}
