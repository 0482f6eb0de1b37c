package domain

import "fmt"

// ZoteroMetadata is the bibliographic record for one PDF attachment,
// built once per request from the Zotero database and shared read-only
// across all parallel workers. Immutable after construction.
type ZoteroMetadata struct {
	// Citekey is the stable citation identifier: the Better BibTeX
	// key when that database is present, else the Zotero item key.
	Citekey string `json:"citekey"`

	// Title of the bibliographic item, empty when unknown.
	Title string `json:"title,omitempty"`

	// Year of publication, empty when unknown.
	Year string `json:"year,omitempty"`

	// Authors is the canonical ordered author list, e.g.
	// "Ada Lovelace, Charles Babbage, and Alan Turing".
	Authors string `json:"authors,omitempty"`

	// ZoteroLink selects the item in a running Zotero instance.
	ZoteroLink string `json:"zotero_link"`

	// PDFAttachmentKey addresses the PDF attachment for open-pdf
	// links, empty when unknown.
	PDFAttachmentKey string `json:"pdf_attachment_key,omitempty"`
}

// SelectLink builds the zotero://select link for an item key.
func SelectLink(itemKey string) string {
	return fmt.Sprintf("zotero://select/library/items/%s", itemKey)
}

// OpenPDFLink returns the zotero://open-pdf link for the attachment at
// the given 1-based page, or "" when no attachment key is known.
func (m *ZoteroMetadata) OpenPDFLink(page int) string {
	if m == nil || m.PDFAttachmentKey == "" {
		return ""
	}
	return fmt.Sprintf("zotero://open-pdf/library/items/%s?page=%d", m.PDFAttachmentKey, page)
}
