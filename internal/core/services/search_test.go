package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/papergrep-cli/internal/core/domain"
	"github.com/custodia-labs/papergrep-cli/internal/core/ports/driven"
)

type stubDiscovery struct {
	files []string
	err   error
}

func (d *stubDiscovery) FindPDFs(_ context.Context, _ string) ([]string, error) {
	return d.files, d.err
}

type stubExtractor struct {
	docs map[string]*domain.PdfDocument
	errs map[string]error
}

func (e *stubExtractor) Extract(_ context.Context, path string) (*domain.PdfDocument, error) {
	if err, ok := e.errs[path]; ok {
		return nil, err
	}
	doc, ok := e.docs[path]
	if !ok {
		return nil, errors.New("no such document")
	}
	return doc, nil
}

type stubMetadata struct {
	index driven.MetadataIndex
	err   error
	calls int
}

func (m *stubMetadata) BuildIndex(_ context.Context, _ string) (driven.MetadataIndex, error) {
	m.calls++
	return m.index, m.err
}

func corpusParams(dir string, queries ...domain.QueryItem) domain.SearchParams {
	return domain.SearchParams{
		Queries:      queries,
		Directory:    dir,
		ContextWords: 2,
	}
}

func singleDoc(path string, pages ...string) map[string]*domain.PdfDocument {
	return map[string]*domain.PdfDocument{
		path: {Path: path, Pages: pages},
	}
}

func TestSearchCorpus(t *testing.T) {
	ctx := context.Background()

	t.Run("combines matches across files", func(t *testing.T) {
		dir := t.TempDir()
		extractor := &stubExtractor{docs: map[string]*domain.PdfDocument{
			"/c/a.pdf": {Path: "/c/a.pdf", Pages: []string{"apple pie", "no fruit"}},
			"/c/b.pdf": {Path: "/c/b.pdf", Pages: []string{"apple tart"}},
		}}
		svc := NewSearchService(
			&stubDiscovery{files: []string{"/c/a.pdf", "/c/b.pdf"}},
			extractor, nil,
		)

		matches, err := svc.SearchCorpus(ctx, corpusParams(dir, parallelQuery("apple")))
		require.NoError(t, err)
		require.Len(t, matches, 2)

		// Results keep discovery order regardless of worker scheduling.
		assert.Equal(t, "a.pdf", matches[0].FileName)
		assert.Equal(t, "b.pdf", matches[1].FileName)
	})

	t.Run("corrupt file is skipped, siblings survive", func(t *testing.T) {
		dir := t.TempDir()
		extractor := &stubExtractor{
			docs: map[string]*domain.PdfDocument{
				"/c/a.pdf": {Path: "/c/a.pdf", Pages: []string{"apple"}},
				"/c/c.pdf": {Path: "/c/c.pdf", Pages: []string{"apple"}},
			},
			errs: map[string]error{
				"/c/b.pdf": errors.New("malformed xref table"),
			},
		}
		svc := NewSearchService(
			&stubDiscovery{files: []string{"/c/a.pdf", "/c/b.pdf", "/c/c.pdf"}},
			extractor, nil,
		)

		matches, err := svc.SearchCorpus(ctx, corpusParams(dir, parallelQuery("apple")))
		require.NoError(t, err)
		assert.Equal(t, []string{"a.pdf", "c.pdf"}, fileNames(matches))
	})

	t.Run("no matches is empty, not an error", func(t *testing.T) {
		dir := t.TempDir()
		svc := NewSearchService(
			&stubDiscovery{files: []string{"/c/a.pdf"}},
			&stubExtractor{docs: singleDoc("/c/a.pdf", "nothing here")},
			nil,
		)

		matches, err := svc.SearchCorpus(ctx, corpusParams(dir, parallelQuery("zebra")))
		require.NoError(t, err)
		assert.NotNil(t, matches)
		assert.Empty(t, matches)
	})

	t.Run("invalid regex fails the whole request", func(t *testing.T) {
		dir := t.TempDir()
		svc := NewSearchService(&stubDiscovery{}, &stubExtractor{}, nil)

		params := corpusParams(dir, domain.QueryItem{
			Query: "[unclosed", UseRegex: true, QueryType: domain.QueryTypeParallel,
		})
		_, err := svc.SearchCorpus(ctx, params)
		assert.ErrorIs(t, err, domain.ErrBadPattern)
	})

	t.Run("filter-only query set is rejected", func(t *testing.T) {
		dir := t.TempDir()
		svc := NewSearchService(&stubDiscovery{}, &stubExtractor{}, nil)

		_, err := svc.SearchCorpus(ctx, corpusParams(dir, filterQuery("apple")))
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("missing directory", func(t *testing.T) {
		svc := NewSearchService(&stubDiscovery{}, &stubExtractor{}, nil)

		_, err := svc.SearchCorpus(ctx, corpusParams("/does/not/exist", parallelQuery("x")))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("file given as directory", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "not-a-dir.pdf")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
		svc := NewSearchService(&stubDiscovery{}, &stubExtractor{}, nil)

		_, err := svc.SearchCorpus(ctx, corpusParams(file, parallelQuery("x")))
		assert.ErrorIs(t, err, domain.ErrNotDirectory)
	})

	t.Run("discovery error propagates", func(t *testing.T) {
		dir := t.TempDir()
		svc := NewSearchService(
			&stubDiscovery{err: errors.New("permission denied")},
			&stubExtractor{}, nil,
		)

		_, err := svc.SearchCorpus(ctx, corpusParams(dir, parallelQuery("x")))
		assert.ErrorContains(t, err, "discover files")
	})

	t.Run("metadata enrichment by file name", func(t *testing.T) {
		dir := t.TempDir()
		meta := &domain.ZoteroMetadata{
			Citekey:          "doe2020",
			PDFAttachmentKey: "ATT1",
			ZoteroLink:       domain.SelectLink("KEY1"),
		}
		metadata := &stubMetadata{index: driven.MetadataIndex{"a.pdf": meta}}
		svc := NewSearchService(
			&stubDiscovery{files: []string{"/c/a.pdf"}},
			&stubExtractor{docs: singleDoc("/c/a.pdf", "apple")},
			metadata,
		)

		params := corpusParams(dir, parallelQuery("apple"))
		params.ZoteroPath = filepath.Join(dir, "zotero")

		matches, err := svc.SearchCorpus(ctx, params)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Same(t, meta, matches[0].ZoteroMetadata)
		assert.Equal(t, meta.ZoteroLink, matches[0].ZoteroLink)
	})

	t.Run("metadata failure degrades to no enrichment", func(t *testing.T) {
		dir := t.TempDir()
		metadata := &stubMetadata{err: errors.New("database locked")}
		svc := NewSearchService(
			&stubDiscovery{files: []string{"/c/a.pdf"}},
			&stubExtractor{docs: singleDoc("/c/a.pdf", "apple")},
			metadata,
		)

		params := corpusParams(dir, parallelQuery("apple"))
		params.ZoteroPath = filepath.Join(dir, "zotero")

		matches, err := svc.SearchCorpus(ctx, params)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Nil(t, matches[0].ZoteroMetadata)
	})

	t.Run("no zotero path skips the index entirely", func(t *testing.T) {
		dir := t.TempDir()
		metadata := &stubMetadata{}
		svc := NewSearchService(
			&stubDiscovery{files: []string{"/c/a.pdf"}},
			&stubExtractor{docs: singleDoc("/c/a.pdf", "apple")},
			metadata,
		)

		_, err := svc.SearchCorpus(ctx, corpusParams(dir, parallelQuery("apple")))
		require.NoError(t, err)
		assert.Zero(t, metadata.calls)
	})

	t.Run("bounded workers over a larger corpus", func(t *testing.T) {
		dir := t.TempDir()
		docs := make(map[string]*domain.PdfDocument)
		files := make([]string, 0, 20)
		for i := 0; i < 20; i++ {
			path := filepath.Join("/c", string(rune('a'+i))+".pdf")
			docs[path] = &domain.PdfDocument{Path: path, Pages: []string{"apple"}}
			files = append(files, path)
		}
		svc := NewSearchService(&stubDiscovery{files: files}, &stubExtractor{docs: docs}, nil)

		params := corpusParams(dir, parallelQuery("apple"))
		params.Workers = 3

		matches, err := svc.SearchCorpus(ctx, params)
		require.NoError(t, err)
		assert.Len(t, matches, 20)
	})
}

func TestSearchFile(t *testing.T) {
	ctx := context.Background()

	writePDF := func(t *testing.T, name string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))
		return path
	}

	t.Run("matches in one file", func(t *testing.T) {
		path := writePDF(t, "paper.pdf")
		svc := NewSearchService(
			&stubDiscovery{},
			&stubExtractor{docs: singleDoc(path, "no fruit", "an apple here")},
			nil,
		)

		matches, err := svc.SearchFile(ctx, corpusParams(path, parallelQuery("apple")))
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, 2, matches[0].PageNumber)
		assert.Equal(t, "paper.pdf", matches[0].FileName)
	})

	t.Run("missing file", func(t *testing.T) {
		svc := NewSearchService(&stubDiscovery{}, &stubExtractor{}, nil)

		_, err := svc.SearchFile(ctx, corpusParams("/no/such.pdf", parallelQuery("x")))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("non-pdf extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.txt")
		require.NoError(t, os.WriteFile(path, []byte("text"), 0o644))
		svc := NewSearchService(&stubDiscovery{}, &stubExtractor{}, nil)

		_, err := svc.SearchFile(ctx, corpusParams(path, parallelQuery("x")))
		assert.ErrorIs(t, err, domain.ErrNotPDF)
	})

	t.Run("uppercase extension is accepted", func(t *testing.T) {
		path := writePDF(t, "PAPER.PDF")
		svc := NewSearchService(
			&stubDiscovery{},
			&stubExtractor{docs: singleDoc(path, "apple")},
			nil,
		)

		matches, err := svc.SearchFile(ctx, corpusParams(path, parallelQuery("apple")))
		require.NoError(t, err)
		assert.Len(t, matches, 1)
	})

	t.Run("directory is not a file", func(t *testing.T) {
		svc := NewSearchService(&stubDiscovery{}, &stubExtractor{}, nil)

		_, err := svc.SearchFile(ctx, corpusParams(t.TempDir(), parallelQuery("x")))
		assert.ErrorIs(t, err, domain.ErrNotPDF)
	})

	t.Run("extraction failure is an error here", func(t *testing.T) {
		path := writePDF(t, "broken.pdf")
		svc := NewSearchService(
			&stubDiscovery{},
			&stubExtractor{errs: map[string]error{path: errors.New("bad trailer")}},
			nil,
		)

		_, err := svc.SearchFile(ctx, corpusParams(path, parallelQuery("x")))
		assert.ErrorIs(t, err, domain.ErrExtraction)
	})
}

func TestListFiles(t *testing.T) {
	ctx := context.Background()

	index := driven.MetadataIndex{
		"halbwachs.pdf": &domain.ZoteroMetadata{
			Citekey: "halbwachs1950",
			Title:   "The Collective Memory",
			Authors: "Maurice Halbwachs",
			Year:    "1950",
		},
	}

	newSvc := func(files []string) *SearchService {
		return NewSearchService(
			&stubDiscovery{files: files},
			&stubExtractor{},
			&stubMetadata{index: index},
		)
	}

	t.Run("sorted by file name", func(t *testing.T) {
		svc := newSvc([]string{"/c/zebra.pdf", "/c/alpha.pdf"})

		items, err := svc.ListFiles(ctx, domain.ListParams{Directory: t.TempDir()})
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "alpha.pdf", items[0].FileName)
		assert.Equal(t, "zebra.pdf", items[1].FileName)
	})

	t.Run("filter on bibliographic fields", func(t *testing.T) {
		svc := newSvc([]string{"/c/halbwachs.pdf", "/c/other.pdf"})

		items, err := svc.ListFiles(ctx, domain.ListParams{
			Directory:   t.TempDir(),
			SearchQuery: "collective",
			ZoteroPath:  "/z/data",
		})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "halbwachs.pdf", items[0].FileName)
		require.NotNil(t, items[0].Metadata)
		assert.Equal(t, "halbwachs1950", items[0].Metadata.Citekey)
	})

	t.Run("filter on file name without metadata", func(t *testing.T) {
		svc := newSvc([]string{"/c/report-2023.pdf", "/c/other.pdf"})

		items, err := svc.ListFiles(ctx, domain.ListParams{
			Directory:   t.TempDir(),
			SearchQuery: "2023",
		})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "report-2023.pdf", items[0].FileName)
	})

	t.Run("no filter hits means empty listing", func(t *testing.T) {
		svc := newSvc([]string{"/c/a.pdf"})

		items, err := svc.ListFiles(ctx, domain.ListParams{
			Directory:   t.TempDir(),
			SearchQuery: "nonexistent",
		})
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func fileNames(matches []domain.SearchMatch) []string {
	names := []string{}
	for _, m := range matches {
		names = append(names, m.FileName)
	}
	return names
}
