package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/papergrep-cli/internal/core/domain"
)

// defaultContextWords is applied when neither flag nor config sets one.
const defaultContextWords = 10

var (
	searchDir           string
	searchFile          string
	searchFilters       []string
	searchRegex         bool
	searchCaseSensitive bool
	searchContextWords  int
	searchZoteroPath    string
	searchStartPage     int
	searchEndPage       int
	searchWorkers       int
	searchJSON          bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]...",
	Short: "Search PDFs with a compound query",
	Long: `Searches every PDF under a directory, or a single file with --file.

Each positional query adds matches independently (parallel). Queries
given with --filter narrow results: only pages where every filter also
matches are kept. Matching ignores spacing, line wraps, and hyphenation
inside the PDF text.

Examples:
  # All pages mentioning collective memory anywhere under ~/papers
  papergrep search "collective memory" --dir ~/papers

  # Pages with either term, narrowed to those also naming Halbwachs
  papergrep search memory remembrance --filter halbwachs --dir ~/papers

  # Regex search in one file, with Zotero metadata
  papergrep search --regex "mem(ory|orial)" --file paper.pdf --zotero ~/Zotero`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchDir, "dir", "d", ".", "corpus root directory")
	searchCmd.Flags().StringVarP(&searchFile, "file", "f", "", "search a single PDF file instead of a corpus")
	searchCmd.Flags().StringArrayVar(&searchFilters, "filter", nil, "filter query; repeatable, pages must match every filter")
	searchCmd.Flags().BoolVarP(&searchRegex, "regex", "r", false, "treat queries as regular expressions")
	searchCmd.Flags().BoolVar(&searchCaseSensitive, "case-sensitive", false, "match case-sensitively")
	searchCmd.Flags().IntVarP(&searchContextWords, "context", "c", 0, "context words on each side of a match (default from config, else 10)")
	searchCmd.Flags().StringVar(&searchZoteroPath, "zotero", "", "Zotero data directory for metadata enrichment (default from config)")
	searchCmd.Flags().IntVar(&searchStartPage, "start-page", 0, "first page to scan, 1-based")
	searchCmd.Flags().IntVar(&searchEndPage, "end-page", 0, "last page to scan, 1-based")
	searchCmd.Flags().IntVar(&searchWorkers, "workers", 0, "parallel workers (default from config, else CPU count)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output matches as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	params := domain.SearchParams{
		Queries:      buildQueries(args, searchFilters),
		ContextWords: searchContextWords,
		ZoteroPath:   searchZoteroPath,
		StartPage:    searchStartPage,
		EndPage:      searchEndPage,
		Workers:      searchWorkers,
	}
	applyConfigDefaults(&params)

	ctx := cmd.Context()

	var matches []domain.SearchMatch
	var err error
	if searchFile != "" {
		params.Directory = searchFile
		matches, err = searchService.SearchFile(ctx, params)
	} else {
		params.Directory = searchDir
		matches, err = searchService.SearchCorpus(ctx, params)
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return printJSON(cmd, matches)
	}
	printMatches(cmd, matches)
	return nil
}

// buildQueries turns positional args into parallel items and --filter
// values into filter items. The regex and case flags apply to every
// item.
func buildQueries(parallel, filters []string) []domain.QueryItem {
	items := make([]domain.QueryItem, 0, len(parallel)+len(filters))
	for _, q := range parallel {
		items = append(items, domain.QueryItem{
			Query:         q,
			UseRegex:      searchRegex,
			QueryType:     domain.QueryTypeParallel,
			CaseSensitive: searchCaseSensitive,
		})
	}
	for _, q := range filters {
		items = append(items, domain.QueryItem{
			Query:         q,
			UseRegex:      searchRegex,
			QueryType:     domain.QueryTypeFilter,
			CaseSensitive: searchCaseSensitive,
		})
	}
	return items
}

// applyConfigDefaults fills unset params from the config store.
func applyConfigDefaults(params *domain.SearchParams) {
	if params.ContextWords <= 0 {
		params.ContextWords = configInt("context_words")
	}
	if params.ContextWords <= 0 {
		params.ContextWords = defaultContextWords
	}
	if params.ZoteroPath == "" {
		params.ZoteroPath = configString("zotero_path")
	}
	if params.Workers <= 0 {
		params.Workers = configInt("workers")
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func printMatches(cmd *cobra.Command, matches []domain.SearchMatch) {
	if len(matches) == 0 {
		cmd.Println("No matches found.")
		return
	}

	cmd.Printf("%d matches:\n\n", len(matches))
	for _, m := range matches {
		label := m.FileName
		if meta := m.ZoteroMetadata; meta != nil {
			label = fmt.Sprintf("@%s (%s)", meta.Citekey, m.FileName)
		}
		cmd.Printf("  %s p.%d\n", label, m.PageNumber)
		cmd.Printf("      ...%s [%s] %s...\n", m.ContextBefore, m.MatchedText, m.ContextAfter)
		if m.ZoteroLink != "" {
			cmd.Printf("      %s\n", m.ZoteroLink)
		}
		cmd.Println()
	}
}
