package mcp

import (
	"context"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/papergrep-cli/internal/core/domain"
)

// defaultContextWords is applied when a caller omits context_words.
const defaultContextWords = 10

// QueryPayload is one query item of a compound search.
type QueryPayload struct {
	Query         string `json:"query" jsonschema:"the query text, or a regular expression when use_regex is set"`
	UseRegex      bool   `json:"use_regex,omitempty" jsonschema:"treat the query as a regular expression"`
	QueryType     string `json:"query_type,omitempty" jsonschema:"parallel (adds matches) or filter (narrows pages); default parallel"`
	CaseSensitive bool   `json:"case_sensitive,omitempty" jsonschema:"match case-sensitively; default insensitive"`
}

// MetadataPayload mirrors domain.ZoteroMetadata on the wire.
type MetadataPayload struct {
	Citekey          string `json:"citekey"`
	Title            string `json:"title,omitempty"`
	Year             string `json:"year,omitempty"`
	Authors          string `json:"authors,omitempty"`
	ZoteroLink       string `json:"zotero_link,omitempty"`
	PDFAttachmentKey string `json:"pdf_attachment_key,omitempty"`
}

// MatchPayload mirrors domain.SearchMatch on the wire. It is both the
// search output shape and the export input shape.
type MatchPayload struct {
	FilePath       string           `json:"file_path"`
	FileName       string           `json:"file_name"`
	PageNumber     int              `json:"page_number"`
	ContextBefore  string           `json:"context_before"`
	MatchedText    string           `json:"matched_text"`
	ContextAfter   string           `json:"context_after"`
	ZoteroLink     string           `json:"zotero_link,omitempty"`
	ZoteroMetadata *MetadataPayload `json:"zotero_metadata,omitempty"`
}

// SearchCorpusInput is the input schema for the search_pdf_files tool.
type SearchCorpusInput struct {
	Queries      []QueryPayload `json:"queries" jsonschema:"the compound query; at least one parallel item"`
	Directory    string         `json:"directory" jsonschema:"root directory of the PDF corpus"`
	ContextWords int            `json:"context_words,omitempty" jsonschema:"words of context on each side of a match (default 10)"`
	ZoteroPath   string         `json:"zotero_path,omitempty" jsonschema:"Zotero data directory for metadata enrichment"`
	StartPage    int            `json:"start_page,omitempty" jsonschema:"first page to scan, 1-based inclusive"`
	EndPage      int            `json:"end_page,omitempty" jsonschema:"last page to scan, 1-based inclusive"`
	Workers      int            `json:"workers,omitempty" jsonschema:"parallel worker count (default: number of CPUs)"`
}

// SearchFileInput is the input schema for the search_single_pdf_file tool.
type SearchFileInput struct {
	Queries      []QueryPayload `json:"queries" jsonschema:"the compound query; at least one parallel item"`
	FilePath     string         `json:"file_path" jsonschema:"path of the PDF file to search"`
	ContextWords int            `json:"context_words,omitempty" jsonschema:"words of context on each side of a match (default 10)"`
	ZoteroPath   string         `json:"zotero_path,omitempty" jsonschema:"Zotero data directory for metadata enrichment"`
	StartPage    int            `json:"start_page,omitempty" jsonschema:"first page to scan, 1-based inclusive"`
	EndPage      int            `json:"end_page,omitempty" jsonschema:"last page to scan, 1-based inclusive"`
}

// SearchOutput is the output schema for both search tools.
type SearchOutput struct {
	Matches []MatchPayload `json:"matches"`
	Count   int            `json:"count"`
}

// ListInput is the input schema for the list_pdf_files tool.
type ListInput struct {
	Directory   string `json:"directory" jsonschema:"root directory of the PDF corpus"`
	SearchQuery string `json:"search_query,omitempty" jsonschema:"substring filter over file name, citekey, title, authors, year"`
	ZoteroPath  string `json:"zotero_path,omitempty" jsonschema:"Zotero data directory for metadata enrichment"`
}

// ListItemOutput is one file of a corpus listing.
type ListItemOutput struct {
	FilePath string           `json:"file_path"`
	FileName string           `json:"file_name"`
	Metadata *MetadataPayload `json:"metadata,omitempty"`
}

// ListOutput is the output schema for the list_pdf_files tool.
type ListOutput struct {
	Files []ListItemOutput `json:"files"`
	Count int              `json:"count"`
}

// ExportInput is the input schema for the export_results_to_markdown tool.
type ExportInput struct {
	Matches    []MatchPayload `json:"matches" jsonschema:"the matches to export, as returned by the search tools"`
	OutputPath string         `json:"output_path" jsonschema:"path of the markdown file to write"`
}

// ExportOutput is the output schema for the export_results_to_markdown tool.
type ExportOutput struct {
	OutputPath string `json:"output_path"`
	Bytes      int    `json:"bytes"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_pdf_files",
		Description: "Search every PDF under a directory with a compound query",
	}, s.handleSearchCorpus)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_single_pdf_file",
		Description: "Search one PDF file with a compound query",
	}, s.handleSearchFile)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_pdf_files",
		Description: "List the PDFs of a corpus with optional metadata, without scanning text",
	}, s.handleList)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "export_results_to_markdown",
		Description: "Write search matches to a markdown file grouped by source document",
	}, s.handleExport)
}

// handleSearchCorpus handles the search_pdf_files tool invocation.
func (s *Server) handleSearchCorpus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchCorpusInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	params := domain.SearchParams{
		Queries:      queriesToDomain(input.Queries),
		Directory:    input.Directory,
		ContextWords: contextWordsOrDefault(input.ContextWords),
		ZoteroPath:   input.ZoteroPath,
		StartPage:    input.StartPage,
		EndPage:      input.EndPage,
		Workers:      input.Workers,
	}

	matches, err := s.ports.Search.SearchCorpus(ctx, params)
	if err != nil {
		return nil, SearchOutput{}, err
	}
	return nil, searchOutput(matches), nil
}

// handleSearchFile handles the search_single_pdf_file tool invocation.
func (s *Server) handleSearchFile(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchFileInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	params := domain.SearchParams{
		Queries:      queriesToDomain(input.Queries),
		Directory:    input.FilePath,
		ContextWords: contextWordsOrDefault(input.ContextWords),
		ZoteroPath:   input.ZoteroPath,
		StartPage:    input.StartPage,
		EndPage:      input.EndPage,
	}

	matches, err := s.ports.Search.SearchFile(ctx, params)
	if err != nil {
		return nil, SearchOutput{}, err
	}
	return nil, searchOutput(matches), nil
}

// handleList handles the list_pdf_files tool invocation.
func (s *Server) handleList(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListInput,
) (*mcp.CallToolResult, ListOutput, error) {
	params := domain.ListParams{
		Directory:   input.Directory,
		SearchQuery: input.SearchQuery,
		ZoteroPath:  input.ZoteroPath,
	}

	items, err := s.ports.Search.ListFiles(ctx, params)
	if err != nil {
		return nil, ListOutput{}, err
	}

	output := ListOutput{
		Files: make([]ListItemOutput, len(items)),
		Count: len(items),
	}
	for i, item := range items {
		output.Files[i] = ListItemOutput{
			FilePath: item.FilePath,
			FileName: item.FileName,
			Metadata: metadataPayload(item.Metadata),
		}
	}
	return nil, output, nil
}

// handleExport handles the export_results_to_markdown tool invocation.
func (s *Server) handleExport(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ExportInput,
) (*mcp.CallToolResult, ExportOutput, error) {
	markdown := s.ports.Export.RenderMarkdown(matchesToDomain(input.Matches))
	if err := os.WriteFile(input.OutputPath, []byte(markdown), 0o644); err != nil {
		return nil, ExportOutput{}, err
	}
	return nil, ExportOutput{OutputPath: input.OutputPath, Bytes: len(markdown)}, nil
}

func contextWordsOrDefault(n int) int {
	if n <= 0 {
		return defaultContextWords
	}
	return n
}

func queriesToDomain(queries []QueryPayload) []domain.QueryItem {
	items := make([]domain.QueryItem, len(queries))
	for i, q := range queries {
		queryType := domain.QueryType(q.QueryType)
		if q.QueryType == "" {
			queryType = domain.QueryTypeParallel
		}
		items[i] = domain.QueryItem{
			Query:         q.Query,
			UseRegex:      q.UseRegex,
			QueryType:     queryType,
			CaseSensitive: q.CaseSensitive,
		}
	}
	return items
}

func searchOutput(matches []domain.SearchMatch) SearchOutput {
	output := SearchOutput{
		Matches: make([]MatchPayload, len(matches)),
		Count:   len(matches),
	}
	for i, m := range matches {
		output.Matches[i] = MatchPayload{
			FilePath:       m.FilePath,
			FileName:       m.FileName,
			PageNumber:     m.PageNumber,
			ContextBefore:  m.ContextBefore,
			MatchedText:    m.MatchedText,
			ContextAfter:   m.ContextAfter,
			ZoteroLink:     m.ZoteroLink,
			ZoteroMetadata: metadataPayload(m.ZoteroMetadata),
		}
	}
	return output
}

func metadataPayload(meta *domain.ZoteroMetadata) *MetadataPayload {
	if meta == nil {
		return nil
	}
	return &MetadataPayload{
		Citekey:          meta.Citekey,
		Title:            meta.Title,
		Year:             meta.Year,
		Authors:          meta.Authors,
		ZoteroLink:       meta.ZoteroLink,
		PDFAttachmentKey: meta.PDFAttachmentKey,
	}
}

func matchesToDomain(payloads []MatchPayload) []domain.SearchMatch {
	matches := make([]domain.SearchMatch, len(payloads))
	for i, p := range payloads {
		matches[i] = domain.SearchMatch{
			FilePath:      p.FilePath,
			FileName:      p.FileName,
			PageNumber:    p.PageNumber,
			ContextBefore: p.ContextBefore,
			MatchedText:   p.MatchedText,
			ContextAfter:  p.ContextAfter,
			ZoteroLink:    p.ZoteroLink,
		}
		if p.ZoteroMetadata != nil {
			matches[i].ZoteroMetadata = &domain.ZoteroMetadata{
				Citekey:          p.ZoteroMetadata.Citekey,
				Title:            p.ZoteroMetadata.Title,
				Year:             p.ZoteroMetadata.Year,
				Authors:          p.ZoteroMetadata.Authors,
				ZoteroLink:       p.ZoteroMetadata.ZoteroLink,
				PDFAttachmentKey: p.ZoteroMetadata.PDFAttachmentKey,
			}
		}
	}
	return matches
}
