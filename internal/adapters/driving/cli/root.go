// Package cli provides the papergrep command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/papergrep-cli/internal/core/ports/driven"
	"github.com/custodia-labs/papergrep-cli/internal/core/ports/driving"
	"github.com/custodia-labs/papergrep-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services injected by main before Execute.
var (
	searchService driving.SearchService
	exportService driving.ExportService
	configStore   driven.ConfigStore
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "papergrep",
	Short: "Search PDF corpora with compound queries and Zotero metadata",
	Long: `Papergrep runs text queries across a corpus of PDF files.

Queries match across line wraps and hyphenation, combine as parallel
(adding matches) or filter (narrowing pages) items, and results can be
enriched with bibliographic metadata from a Zotero library.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose progress output on stderr")
}

// SetServices injects the driving services and config store.
// Must be called before Execute.
func SetServices(search driving.SearchService, export driving.ExportService, config driven.ConfigStore) {
	searchService = search
	exportService = export
	configStore = config
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// configString reads a config default, "" without a store.
func configString(key string) string {
	if configStore == nil {
		return ""
	}
	return configStore.GetString(key)
}

// configInt reads a config default, 0 without a store.
func configInt(key string) int {
	if configStore == nil {
		return 0
	}
	return configStore.GetInt(key)
}
