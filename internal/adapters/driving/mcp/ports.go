package mcp

import (
	"github.com/custodia-labs/papergrep-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides corpus and single-file search plus listing.
	Search driving.SearchService

	// Export renders match lists to markdown.
	Export driving.ExportService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Export == nil {
		return ErrMissingExportService
	}
	return nil
}
