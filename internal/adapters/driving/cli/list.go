package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/papergrep-cli/internal/core/domain"
)

var (
	listDir        string
	listQuery      string
	listZoteroPath string
	listJSON       bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the PDFs of a corpus",
	Long: `Lists every PDF under a directory with bibliographic metadata when a
Zotero library is available. No page text is scanned; --query filters
on file name, citekey, title, authors, and year only.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listDir, "dir", "d", ".", "corpus root directory")
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "substring filter over file name and metadata")
	listCmd.Flags().StringVar(&listZoteroPath, "zotero", "", "Zotero data directory for metadata enrichment (default from config)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output the listing as JSON")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	zoteroPath := listZoteroPath
	if zoteroPath == "" {
		zoteroPath = configString("zotero_path")
	}

	items, err := searchService.ListFiles(cmd.Context(), domain.ListParams{
		Directory:   listDir,
		SearchQuery: listQuery,
		ZoteroPath:  zoteroPath,
	})
	if err != nil {
		return fmt.Errorf("list failed: %w", err)
	}

	if listJSON {
		return printJSON(cmd, items)
	}
	printListing(cmd, items)
	return nil
}

func printListing(cmd *cobra.Command, items []domain.PdfListItem) {
	if len(items) == 0 {
		cmd.Println("No PDF files found.")
		return
	}

	cmd.Printf("%d files:\n\n", len(items))
	for _, item := range items {
		cmd.Printf("  %s\n", item.FileName)
		if meta := item.Metadata; meta != nil {
			line := "@" + meta.Citekey
			if meta.Title != "" {
				line += "  " + meta.Title
			}
			if meta.Authors != "" {
				line += fmt.Sprintf("  (%s", meta.Authors)
				if meta.Year != "" {
					line += ", " + meta.Year
				}
				line += ")"
			} else if meta.Year != "" {
				line += fmt.Sprintf("  (%s)", meta.Year)
			}
			cmd.Printf("      %s\n", line)
		}
	}
}
