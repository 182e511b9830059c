package assembler

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-archivist/archivist/internal/cache"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"
)

// slugify lowercases title and collapses every run of non-alphanumeric
// characters into a single hyphen, trimming leading/trailing hyphens.
func slugify(title string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteRune('-')
			lastHyphen = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "untitled"
	}
	return slug
}

// dedupeSlug returns slug unchanged the first time seen records it, and
// slug-2, slug-3, ... on each later collision, so anchors and filenames
// derived from duplicate titles never collide.
func dedupeSlug(seen map[string]int, slug string) string {
	count := seen[slug]
	seen[slug] = count + 1
	if count == 0 {
		return slug
	}
	return fmt.Sprintf("%s-%d", slug, count+1)
}

// firstHeadingText walks content's Markdown AST and returns the text of
// its first level-1 heading, or "" if none is found. Grounded on
// internal/normalize/constraints.go's validateStructure, which walks the
// same AST shape via ast.WalkFunc to collect *ast.Heading nodes.
func firstHeadingText(content []byte) string {
	doc := markdown.Parse(content, parser.New())

	var text string
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering || text != "" {
			return ast.GoToNext
		}
		heading, ok := node.(*ast.Heading)
		if !ok || heading.Level != 1 {
			return ast.GoToNext
		}
		text = headingPlainText(heading)
		return ast.Terminate
	})
	return text
}

// headingPlainText concatenates a heading's text runs, ignoring any
// inline formatting nodes wrapping them.
func headingPlainText(heading *ast.Heading) string {
	var b strings.Builder
	ast.WalkFunc(heading, func(node ast.Node, entering bool) ast.WalkStatus {
		if entering {
			if t, ok := node.(*ast.Text); ok {
				b.Write(t.Literal)
			}
		}
		return ast.GoToNext
	})
	return b.String()
}

// tocEntry pairs a PageRecord's display title with its deduplicated
// anchor/filename slug.
type tocEntry struct {
	title string
	slug  string
}

// buildTOCEntries derives one tocEntry per record, preferring the
// record's first Markdown H1 (matching what the reader will actually
// see) and falling back to the cached Title, then a positional
// placeholder, if the body has no heading to extract.
func buildTOCEntries(records []cache.PageRecord) []tocEntry {
	seen := make(map[string]int, len(records))
	entries := make([]tocEntry, len(records))
	for i, r := range records {
		title := firstHeadingText([]byte(r.ExtractedText))
		if title == "" {
			title = r.Title
		}
		if title == "" {
			title = fmt.Sprintf("page-%d", i+1)
		}
		entries[i] = tocEntry{
			title: title,
			slug:  dedupeSlug(seen, slugify(title)),
		}
	}
	return entries
}
