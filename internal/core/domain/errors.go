package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid request input:
	// missing directory, empty query list, bad page range. The whole
	// request fails before any work is done.
	ErrInvalidInput = errors.New("invalid input")

	// ErrBadPattern indicates a query regular expression failed to
	// compile. A bad pattern would behave inconsistently across the
	// whole corpus, so it fails the request rather than one file.
	ErrBadPattern = errors.New("invalid query pattern")

	// ErrNotFound indicates a requested path does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotDirectory indicates the corpus root is not a directory.
	ErrNotDirectory = errors.New("not a directory")

	// ErrNotPDF indicates a single-file search target is not a PDF.
	ErrNotPDF = errors.New("not a PDF file")

	// ErrExtraction indicates a single file could not be parsed. In
	// a corpus search this is absorbed per file and never surfaces.
	ErrExtraction = errors.New("text extraction failed")
)
