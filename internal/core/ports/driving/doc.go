// Package driving defines the interfaces external actors use to drive the core.
//
// These are the "driving" or "primary" ports in hexagonal architecture.
// The CLI and the MCP server depend on these interfaces; core services
// implement them.
//
//   - SearchService: corpus search, single-file search, corpus listing
//   - ExportService: markdown rendering of an already-computed match list
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or service package
package driving
