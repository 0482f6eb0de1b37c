package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/papergrep-cli/internal/core/domain"
	"github.com/custodia-labs/papergrep-cli/internal/core/ports/driving"
)

// Ensure ExportService implements the interface.
var _ driving.ExportService = (*ExportService)(nil)

// groupSeparator delimits file groups in the rendered document.
const groupSeparator = "---"

// ExportService renders match lists to markdown. Pure formatting over
// already-computed data; no matching logic lives here.
type ExportService struct{}

// NewExportService creates a new export service.
func NewExportService() *ExportService {
	return &ExportService{}
}

// fileGroup collects the pages matched in one file.
type fileGroup struct {
	filePath string
	fileName string
	meta     *domain.ZoteroMetadata
	pages    map[int]struct{}
}

// RenderMarkdown formats matches grouped by file path, in first
// appearance order. Each group gets a citation header when metadata
// is known, else the bare file name, followed by a deduplicated,
// ascending list of page links.
func (s *ExportService) RenderMarkdown(matches []domain.SearchMatch) string {
	var order []string
	groups := make(map[string]*fileGroup)

	for _, m := range matches {
		g, ok := groups[m.FilePath]
		if !ok {
			g = &fileGroup{
				filePath: m.FilePath,
				fileName: m.FileName,
				meta:     m.ZoteroMetadata,
				pages:    make(map[int]struct{}),
			}
			groups[m.FilePath] = g
			order = append(order, m.FilePath)
		}
		g.pages[m.PageNumber] = struct{}{}
	}

	var b strings.Builder
	b.WriteString("# PDF Search Results\n\n")
	fmt.Fprintf(&b, "Total matches: %d\n", len(matches))

	for i, path := range order {
		if i > 0 {
			b.WriteString("\n")
			b.WriteString(groupSeparator)
			b.WriteString("\n")
		} else {
			b.WriteString("\n")
		}
		writeGroup(&b, groups[path])
	}

	return b.String()
}

// writeGroup renders one file group: header block, then pages.
func writeGroup(b *strings.Builder, g *fileGroup) {
	if g.meta != nil {
		fmt.Fprintf(b, "## [@%s](%s)\n", g.meta.Citekey, g.meta.ZoteroLink)
		if g.meta.Title != "" {
			fmt.Fprintf(b, "%s\n", g.meta.Title)
		}
		if g.meta.Authors != "" {
			if g.meta.Year != "" {
				fmt.Fprintf(b, "%s (%s)\n", g.meta.Authors, g.meta.Year)
			} else {
				fmt.Fprintf(b, "%s\n", g.meta.Authors)
			}
		}
	} else {
		fmt.Fprintf(b, "## %s\n", g.fileName)
	}
	b.WriteString("\n")

	pages := make([]int, 0, len(g.pages))
	for p := range g.pages {
		pages = append(pages, p)
	}
	sort.Ints(pages)

	for _, p := range pages {
		if link := g.meta.OpenPDFLink(p); link != "" {
			fmt.Fprintf(b, "- [p. %d](%s)\n", p, link)
		} else {
			fmt.Fprintf(b, "- p. %d\n", p)
		}
	}
}
