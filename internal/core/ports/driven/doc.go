// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - FileDiscovery: Enumerates candidate PDF files under a corpus root
//   - TextExtractor: Converts one PDF into ordered per-page plain text
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - MetadataSource: Builds the filename to bibliographic-metadata
//     index. Without it (or when it fails), matches carry no Zotero
//     metadata but text search still runs.
//   - ConfigStore: Application configuration defaults.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
