package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/papergrep-cli/internal/core/domain"
	"github.com/custodia-labs/papergrep-cli/internal/core/ports/driven"
	"github.com/custodia-labs/papergrep-cli/internal/core/ports/driving"
	"github.com/custodia-labs/papergrep-cli/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService drives the end-to-end pipeline: metadata index, file
// discovery, per-file extraction and query evaluation, and corpus
// fan-out with per-file fault isolation.
type SearchService struct {
	discovery driven.FileDiscovery
	extractor driven.TextExtractor
	metadata  driven.MetadataSource
}

// NewSearchService creates a new search service.
// The metadata source is optional (can be nil); without it matches
// carry no Zotero metadata.
func NewSearchService(
	discovery driven.FileDiscovery,
	extractor driven.TextExtractor,
	metadata driven.MetadataSource,
) *SearchService {
	return &SearchService{
		discovery: discovery,
		extractor: extractor,
		metadata:  metadata,
	}
}

// SearchCorpus runs the compound query against every PDF under
// params.Directory. Per-file failures are logged and dropped; they
// never abort the batch. An empty result is a successful "found
// nothing", distinct from an error.
func (s *SearchService) SearchCorpus(
	ctx context.Context, params domain.SearchParams,
) ([]domain.SearchMatch, error) {
	logger.Section("Corpus Search")

	if err := params.Validate(); err != nil {
		return nil, err
	}
	queries, err := compileQueries(params.Queries)
	if err != nil {
		return nil, err
	}
	if err := checkDirectory(params.Directory); err != nil {
		return nil, err
	}

	// Built once, then shared read-only across all workers.
	index := s.buildIndex(ctx, params.ZoteroPath)

	files, err := s.discovery.FindPDFs(ctx, params.Directory)
	if err != nil {
		return nil, fmt.Errorf("discover files: %w", err)
	}
	logger.Debug("Discovered %d PDF files under %s", len(files), params.Directory)

	workers := params.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	// Fan out one unit per file. Units write to their own slot, so
	// the only join is g.Wait; unit errors are absorbed, never
	// returned, which keeps sibling units running.
	perFile := make([][]domain.SearchMatch, len(files))
	g := new(errgroup.Group)
	g.SetLimit(workers)

	for i, path := range files {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			matches, err := s.searchOne(ctx, path, queries, params, index)
			if err != nil {
				logger.Warn("Skipping %s: %v", path, err)
				return nil
			}
			perFile[i] = matches
			return nil
		})
	}
	g.Wait() //nolint:errcheck // units never return errors

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := []domain.SearchMatch{}
	for _, matches := range perFile {
		results = append(results, matches...)
	}
	logger.Info("Corpus search: %d matches across %d files", len(results), len(files))

	return results, nil
}

// SearchFile runs the same per-file pipeline synchronously against
// the single PDF named by params.Directory.
func (s *SearchService) SearchFile(
	ctx context.Context, params domain.SearchParams,
) ([]domain.SearchMatch, error) {
	logger.Section("Single-File Search")

	if err := params.Validate(); err != nil {
		return nil, err
	}
	queries, err := compileQueries(params.Queries)
	if err != nil {
		return nil, err
	}
	if err := checkPDFFile(params.Directory); err != nil {
		return nil, err
	}

	index := s.buildIndex(ctx, params.ZoteroPath)

	matches, err := s.searchOne(ctx, params.Directory, queries, params, index)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrExtraction, params.Directory, err)
	}
	logger.Info("Single-file search: %d matches", len(matches))

	return matches, nil
}

// ListFiles enumerates the corpus with optional metadata enrichment
// and an optional substring filter over file name and bibliographic
// fields. No full-text scan is performed.
func (s *SearchService) ListFiles(
	ctx context.Context, params domain.ListParams,
) ([]domain.PdfListItem, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := checkDirectory(params.Directory); err != nil {
		return nil, err
	}

	index := s.buildIndex(ctx, params.ZoteroPath)

	files, err := s.discovery.FindPDFs(ctx, params.Directory)
	if err != nil {
		return nil, fmt.Errorf("discover files: %w", err)
	}

	needle := strings.ToLower(strings.TrimSpace(params.SearchQuery))

	items := []domain.PdfListItem{}
	for _, path := range files {
		name := filepath.Base(path)
		meta := index.Lookup(name)
		if needle != "" && !listItemMatches(name, meta, needle) {
			continue
		}
		items = append(items, domain.PdfListItem{
			FilePath: path,
			FileName: name,
			Metadata: meta,
		})
	}

	// Discovery order is unspecified; a stable listing is friendlier
	// to callers.
	sort.Slice(items, func(i, j int) bool { return items[i].FileName < items[j].FileName })

	return items, nil
}

// searchOne is the per-file unit of work: extract, evaluate, enrich.
func (s *SearchService) searchOne(
	ctx context.Context,
	path string,
	queries *compiledQuerySet,
	params domain.SearchParams,
	index driven.MetadataIndex,
) ([]domain.SearchMatch, error) {
	doc, err := s.extractor.Extract(ctx, path)
	if err != nil {
		return nil, err
	}

	meta := index.Lookup(filepath.Base(path))
	return evaluateDocument(doc, queries, params.ContextWords, params.StartPage, params.EndPage, meta), nil
}

// buildIndex builds the metadata index for a request. Metadata is an
// enrichment, not a requirement: any failure degrades to an empty
// index and the search proceeds.
func (s *SearchService) buildIndex(ctx context.Context, zoteroPath string) driven.MetadataIndex {
	if zoteroPath == "" || s.metadata == nil {
		return driven.MetadataIndex{}
	}

	index, err := s.metadata.BuildIndex(ctx, zoteroPath)
	if err != nil {
		logger.Warn("Zotero metadata unavailable: %v", err)
		return driven.MetadataIndex{}
	}
	logger.Debug("Metadata index: %d attachments", len(index))
	return index
}

// listItemMatches applies the listing filter against the file name
// and the bibliographic fields.
func listItemMatches(name string, meta *domain.ZoteroMetadata, needle string) bool {
	if strings.Contains(strings.ToLower(name), needle) {
		return true
	}
	if meta == nil {
		return false
	}
	for _, field := range []string{meta.Citekey, meta.Title, meta.Authors, meta.Year} {
		if field != "" && strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// checkDirectory fails fast when the corpus root is unusable.
func checkDirectory(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", domain.ErrNotDirectory, path)
	}
	return nil
}

// checkPDFFile fails fast when a single-file target is unusable.
func checkPDFFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() || !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return fmt.Errorf("%w: %s", domain.ErrNotPDF, path)
	}
	return nil
}
