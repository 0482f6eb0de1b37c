// Package file provides file-based implementations of driven port
// interfaces, persisting to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
package file
