package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/papergrep-cli/internal/core/domain"
)

var (
	exportInput  string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export search matches to a markdown file",
	Long: `Reads a JSON match list (as produced by search --json) and writes a
markdown document grouped by source file, with Zotero page links when
metadata is present.

Example:
  papergrep search "collective memory" --dir ~/papers --json > matches.json
  papergrep export --input matches.json --output results.md`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportInput, "input", "i", "-", "match list JSON file (- for stdin)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "markdown file to write (required)")
	exportCmd.MarkFlagRequired("output") //nolint:errcheck // flag exists
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	if exportService == nil {
		return errors.New("export service not configured")
	}

	matches, err := readMatches(cmd.InOrStdin(), exportInput)
	if err != nil {
		return err
	}

	markdown := exportService.RenderMarkdown(matches)
	if err := os.WriteFile(exportOutput, []byte(markdown), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", exportOutput, err)
	}

	cmd.Printf("Wrote %d matches to %s\n", len(matches), exportOutput)
	return nil
}

// readMatches decodes the match list from a file or stdin.
func readMatches(stdin io.Reader, path string) ([]domain.SearchMatch, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading matches: %w", err)
	}

	var matches []domain.SearchMatch
	if err := json.Unmarshal(data, &matches); err != nil {
		return nil, fmt.Errorf("parsing matches: %w", err)
	}
	return matches, nil
}
