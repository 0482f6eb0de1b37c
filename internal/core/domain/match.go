package domain

// SearchMatch is a single per-page hit. A page is reported at most
// once per file per search, even when several terms or occurrences
// land on it; the earliest parallel occurrence is representative.
type SearchMatch struct {
	// FilePath is the path of the matched PDF as yielded by
	// discovery for this request.
	FilePath string `json:"file_path"`

	// FileName is the base name of FilePath.
	FileName string `json:"file_name"`

	// PageNumber is 1-based and within [1, page count].
	PageNumber int `json:"page_number"`

	// ContextBefore holds at most the requested number of words
	// preceding the match, taken from the original page text.
	ContextBefore string `json:"context_before"`

	// MatchedText is the matched span from the original page text,
	// including any whitespace dropped for matching.
	MatchedText string `json:"matched_text"`

	// ContextAfter holds at most the requested number of words
	// following the match, taken from the original page text.
	ContextAfter string `json:"context_after"`

	// ZoteroLink is the select link of the bibliographic item, when
	// known.
	ZoteroLink string `json:"zotero_link,omitempty"`

	// ZoteroMetadata is nil when the file has no bibliographic entry
	// or metadata enrichment is disabled.
	ZoteroMetadata *ZoteroMetadata `json:"zotero_metadata,omitempty"`
}

// PdfDocument is the transient per-request extraction of one PDF:
// plain text per page, in page order. Page 1 is Pages[0]. Not cached
// between requests.
type PdfDocument struct {
	// Path is the extracted file's path.
	Path string

	// Pages holds one plain-text string per page, in order.
	Pages []string
}

// PageCount returns the number of pages.
func (d *PdfDocument) PageCount() int {
	return len(d.Pages)
}

// PdfListItem is one corpus listing entry.
type PdfListItem struct {
	// FilePath is the discovered file path.
	FilePath string `json:"file_path"`

	// FileName is the base name of FilePath.
	FileName string `json:"file_name"`

	// Metadata is nil when no bibliographic entry is known.
	Metadata *ZoteroMetadata `json:"zotero_metadata,omitempty"`
}
