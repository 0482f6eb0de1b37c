// Package mcp provides an MCP (Model Context Protocol) server adapter
// for Papergrep. It exposes corpus search, single-file search, corpus
// listing, and markdown export as tools for AI assistants.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrMissingExportService is returned when the export service is not provided.
var ErrMissingExportService = errors.New("mcp: export service is required")
