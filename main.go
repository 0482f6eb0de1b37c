// Command papergrep searches PDF corpora with compound queries and
// enriches matches with Zotero bibliographic metadata.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/papergrep-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/papergrep-cli/internal/adapters/driven/discovery"
	"github.com/custodia-labs/papergrep-cli/internal/adapters/driven/extractor/pdf"
	"github.com/custodia-labs/papergrep-cli/internal/adapters/driven/zotero"
	"github.com/custodia-labs/papergrep-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/papergrep-cli/internal/core/services"
	"github.com/custodia-labs/papergrep-cli/internal/logger"
)

// version is set at build time via
// -ldflags "-X main.version=v1.2.3".
var version = ""

func main() {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "papergrep: loading config: %v\n", err)
		os.Exit(1)
	}

	searchService := services.NewSearchService(
		discovery.NewWalker(),
		pdf.NewExtractor(),
		zotero.NewSource(),
	)
	exportService := services.NewExportService()

	cli.SetServices(searchService, exportService, configStore)
	cli.SetVersion(version)

	if err := cli.Execute(); err != nil {
		logger.Debug("Exiting with error: %v", err)
		os.Exit(1)
	}
}
