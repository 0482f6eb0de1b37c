package services

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/papergrep-cli/internal/core/domain"
)

// compiledQuery is one query item compiled to a regular expression.
// Literal items are quoted, so a single matching path serves both
// modes.
type compiledQuery struct {
	item domain.QueryItem
	re   *regexp.Regexp
}

// compiledQuerySet splits the compound query by type.
type compiledQuerySet struct {
	parallel []compiledQuery
	filter   []compiledQuery
}

// compileQueries compiles every query item up front. A pattern error
// fails the whole request: a bad pattern would behave inconsistently
// across the corpus, so it is never treated as a per-file problem.
func compileQueries(items []domain.QueryItem) (*compiledQuerySet, error) {
	set := &compiledQuerySet{}

	for i, item := range items {
		var pattern string
		if item.UseRegex {
			// Only raw whitespace is stripped from patterns; hyphens
			// are meaningful inside character classes.
			pattern = stripPatternSpace(item.Query)
		} else {
			normalized, _ := normalizeText(item.Query)
			pattern = regexp.QuoteMeta(normalized)
		}
		if !item.CaseSensitive {
			pattern = "(?i)" + pattern
		}

		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: query %d (%q): %v", domain.ErrBadPattern, i+1, item.Query, err)
		}

		cq := compiledQuery{item: item, re: re}
		switch item.QueryType {
		case domain.QueryTypeFilter:
			set.filter = append(set.filter, cq)
		default:
			set.parallel = append(set.parallel, cq)
		}
	}

	return set, nil
}

// normalizeText projects text for matching: all whitespace is removed,
// soft hyphens are removed, and a hyphen directly before a line break
// is removed so words split at line wraps rejoin. The returned offsets
// map every byte of the projection back to its byte index in the
// original text. Kept runes are copied verbatim, so the mapping is
// exact per byte.
func normalizeText(text string) (string, []int) {
	var b strings.Builder
	b.Grow(len(text))
	offsets := make([]int, 0, len(text))

	for i, r := range text {
		if isSpaceRune(r) {
			continue
		}
		if r == '\u00ad' { // soft hyphen
			continue
		}
		size := utf8.RuneLen(r)
		if isWrapHyphen(r) && atLineBreak(text[i+size:]) {
			continue
		}

		b.WriteString(text[i : i+size])
		for j := 0; j < size; j++ {
			offsets = append(offsets, i+j)
		}
	}

	return b.String(), offsets
}

// isSpaceRune matches the whitespace PDF extraction scatters through
// page text, including the non-breaking variants.
func isSpaceRune(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f',
		'\u00a0', '\u2007', '\u202f', '\u2028', '\u2029':
		return true
	}
	return false
}

// isWrapHyphen matches hyphen runes that typesetting inserts at line
// wraps.
func isWrapHyphen(r rune) bool {
	return r == '-' || r == '\u2010' || r == '\u2011'
}

// atLineBreak reports whether rest starts with a line break,
// tolerating a carriage return before the newline.
func atLineBreak(rest string) bool {
	rest = strings.TrimPrefix(rest, "\r")
	return strings.HasPrefix(rest, "\n")
}

// stripPatternSpace removes raw whitespace characters from a regex
// pattern so that patterns written with spaces still match the
// space-stripped projection.
func stripPatternSpace(pattern string) string {
	return strings.Map(func(r rune) rune {
		if isSpaceRune(r) {
			return -1
		}
		return r
	}, pattern)
}

// evaluateDocument runs the compiled query set against one extracted
// document and returns at most one match per page. A page is a
// candidate when any parallel query matches it, and is retained only
// when every filter query also matches it. The earliest parallel
// occurrence on the page is the representative match.
func evaluateDocument(
	doc *domain.PdfDocument,
	queries *compiledQuerySet,
	contextWords int,
	startPage, endPage int,
	meta *domain.ZoteroMetadata,
) []domain.SearchMatch {
	matches := []domain.SearchMatch{}

	first := 1
	if startPage > 0 {
		first = startPage
	}
	last := doc.PageCount()
	if endPage > 0 && endPage < last {
		last = endPage
	}

	fileName := filepath.Base(doc.Path)

	for page := first; page <= last; page++ {
		pageText := doc.Pages[page-1]
		stripped, offsets := normalizeText(pageText)
		if stripped == "" {
			continue
		}

		start, end := -1, -1
		for _, q := range queries.parallel {
			loc := q.re.FindStringIndex(stripped)
			if loc == nil {
				continue
			}
			if start == -1 || loc[0] < start {
				start, end = loc[0], loc[1]
			}
		}
		if start == -1 {
			continue
		}

		retained := true
		for _, q := range queries.filter {
			if !q.re.MatchString(stripped) {
				retained = false
				break
			}
		}
		if !retained {
			continue
		}

		origStart := originalPos(offsets, pageText, start)
		origEnd := origStart
		if end > start {
			origEnd = offsets[end-1] + 1
		}

		match := domain.SearchMatch{
			FilePath:      doc.Path,
			FileName:      fileName,
			PageNumber:    page,
			ContextBefore: lastWords(pageText[:origStart], contextWords),
			MatchedText:   pageText[origStart:origEnd],
			ContextAfter:  firstWords(pageText[origEnd:], contextWords),
		}
		if meta != nil {
			match.ZoteroLink = meta.ZoteroLink
			match.ZoteroMetadata = meta
		}
		matches = append(matches, match)
	}

	return matches
}

// originalPos maps a byte position in the stripped projection back to
// the original text, mapping the one-past-the-end position to the end
// of the original.
func originalPos(offsets []int, original string, pos int) int {
	if pos >= len(offsets) {
		return len(original)
	}
	return offsets[pos]
}

// lastWords returns at most n trailing whitespace-delimited words.
func lastWords(text string, n int) string {
	if n <= 0 {
		return ""
	}
	words := strings.Fields(text)
	if len(words) > n {
		words = words[len(words)-n:]
	}
	return strings.Join(words, " ")
}

// firstWords returns at most n leading whitespace-delimited words.
func firstWords(text string, n int) string {
	if n <= 0 {
		return ""
	}
	words := strings.Fields(text)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}
