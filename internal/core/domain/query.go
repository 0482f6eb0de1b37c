package domain

import (
	"fmt"
	"strings"
)

// QueryType distinguishes how a query term combines with the others.
// It is a closed two-variant type: parallel terms union their page hits
// into the candidate set, filter terms intersect with it.
type QueryType string

const (
	// QueryTypeParallel marks a term whose matches are unioned
	// independently into the candidate result set.
	QueryTypeParallel QueryType = "parallel"

	// QueryTypeFilter marks a term that narrows the candidate set
	// established by parallel terms. Filter terms never add pages.
	QueryTypeFilter QueryType = "filter"
)

// Valid reports whether the query type is one of the closed variants.
func (t QueryType) Valid() bool {
	return t == QueryTypeParallel || t == QueryTypeFilter
}

// QueryItem is a single term of a compound query. Immutable, supplied
// per request.
type QueryItem struct {
	// Query is the literal text or regular expression to match.
	Query string `json:"query"`

	// UseRegex compiles Query as a regular expression instead of a
	// literal substring.
	UseRegex bool `json:"use_regex"`

	// QueryType is parallel (union) or filter (intersect).
	QueryType QueryType `json:"query_type"`

	// CaseSensitive disables the default case-insensitive matching.
	CaseSensitive bool `json:"case_sensitive,omitempty"`
}

// SearchParams is a complete search request.
type SearchParams struct {
	// Queries is the compound query. At least one parallel item is
	// required; filter items only ever narrow parallel hits.
	Queries []QueryItem `json:"queries"`

	// Directory is the corpus root for a corpus search, or a single
	// PDF path for a single-file search.
	Directory string `json:"directory"`

	// ContextWords bounds the number of words captured on each side
	// of a match.
	ContextWords int `json:"context_words"`

	// ZoteroPath is the Zotero data directory. Empty disables
	// metadata enrichment.
	ZoteroPath string `json:"zotero_path,omitempty"`

	// StartPage and EndPage restrict scanning to an inclusive
	// 1-based page range when non-zero.
	StartPage int `json:"start_page,omitempty"`
	EndPage   int `json:"end_page,omitempty"`

	// Workers caps corpus fan-out. Zero means one worker per CPU.
	Workers int `json:"workers,omitempty"`
}

// Validate checks the request before any work is done. Violations are
// config-fatal: the whole request fails immediately.
func (p *SearchParams) Validate() error {
	if strings.TrimSpace(p.Directory) == "" {
		return fmt.Errorf("%w: directory is required", ErrInvalidInput)
	}
	if len(p.Queries) == 0 {
		return fmt.Errorf("%w: at least one query is required", ErrInvalidInput)
	}

	parallel := 0
	for i, q := range p.Queries {
		if strings.TrimSpace(q.Query) == "" {
			return fmt.Errorf("%w: query %d is empty", ErrInvalidInput, i+1)
		}
		if !q.QueryType.Valid() {
			return fmt.Errorf("%w: query %d has unknown type %q", ErrInvalidInput, i+1, q.QueryType)
		}
		if q.QueryType == QueryTypeParallel {
			parallel++
		}
	}
	// A filter-only list has no base candidate set to narrow.
	if parallel == 0 {
		return fmt.Errorf("%w: at least one parallel query is required", ErrInvalidInput)
	}

	if p.ContextWords < 0 {
		return fmt.Errorf("%w: context_words must not be negative", ErrInvalidInput)
	}
	if p.StartPage < 0 || p.EndPage < 0 {
		return fmt.Errorf("%w: page range must not be negative", ErrInvalidInput)
	}
	if p.StartPage > 0 && p.EndPage > 0 && p.StartPage > p.EndPage {
		return fmt.Errorf("%w: start_page %d is after end_page %d", ErrInvalidInput, p.StartPage, p.EndPage)
	}

	return nil
}

// ListParams is a lightweight corpus listing request. No full-text
// scan is performed.
type ListParams struct {
	// Directory is the corpus root.
	Directory string `json:"directory"`

	// SearchQuery optionally filters entries by file name or
	// bibliographic fields (case-insensitive substring).
	SearchQuery string `json:"search_query,omitempty"`

	// ZoteroPath is the Zotero data directory. Empty disables
	// metadata enrichment.
	ZoteroPath string `json:"zotero_path,omitempty"`
}

// Validate checks the listing request.
func (p *ListParams) Validate() error {
	if strings.TrimSpace(p.Directory) == "" {
		return fmt.Errorf("%w: directory is required", ErrInvalidInput)
	}
	return nil
}
