// Package domain defines the core business entities for Papergrep.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - QueryItem: A single parallel or filter query term
//   - SearchParams: A complete search request
//   - SearchMatch: A single per-page hit with its context window
//   - ZoteroMetadata: Bibliographic enrichment for a matched file
//   - PdfListItem: A corpus listing entry without full-text data
//
// All entities are request-scoped value objects. Nothing in this
// package persists past the call boundary; persistence belongs to
// external collaborators.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
