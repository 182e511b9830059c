package assembler

import (
	"bytes"
	"fmt"
	htmlstd "html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-archivist/archivist/internal/cache"
	"github.com/go-archivist/archivist/internal/metadata"
	"github.com/go-archivist/archivist/internal/sanitizer"
	"github.com/go-archivist/archivist/pkg/failure"
	"github.com/go-archivist/archivist/pkg/fileutil"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	xhtml "golang.org/x/net/html"
)

/*
Responsibilities
- Compose one HTML document: cover, optional TOC, one section per record
- Sanitize each section's rendered HTML (internal/sanitizer), same
  repair pass internal/mdconvert runs before converting to Markdown
- Degrade per-section on render failure instead of failing the document:
  sanitized HTML -> text-plus-metadata HTML -> error placeholder
- Hand the composed document to an injected HTMLToPDFRenderer

Each record's ExtractedText is already GitHub-Flavored Markdown (the
scheduler persists mdconvert's output into the cache), so this variant
renders Markdown -> HTML itself via gomarkdown's html renderer rather
than depending on a separately-cached raw-HTML field.
*/

type PDFAssembler struct {
	metadataSink metadata.MetadataSink
	sanitizer    sanitizer.Sanitizer
	renderer     HTMLToPDFRenderer
}

func NewPDFAssembler(metadataSink metadata.MetadataSink, htmlSanitizer sanitizer.Sanitizer, renderer HTMLToPDFRenderer) PDFAssembler {
	return PDFAssembler{
		metadataSink: metadataSink,
		sanitizer:    htmlSanitizer,
		renderer:     renderer,
	}
}

var _ Assembler = (*PDFAssembler)(nil)

func (p *PDFAssembler) Generate(
	records []cache.PageRecord,
	cfg Config,
	baseURL string,
) ([]string, failure.ClassifiedError) {
	if len(records) == 0 {
		return nil, newAssemblerError(p.metadataSink, "PDFAssembler.Generate", ErrCauseNoRecords, false, "no records to assemble", cfg.OutputDir())
	}

	entries := buildTOCEntries(records)
	sections := make([]string, len(records))
	for i, r := range records {
		section, renderErr := p.renderSection(r, i)
		sections[i] = section
		if renderErr != nil {
			p.metadataSink.RecordError(
				time.Now(),
				"assembler",
				"PDFAssembler.renderSection",
				metadata.CauseContentInvalid,
				renderErr.Error(),
				[]metadata.Attribute{metadata.NewAttr(metadata.AttrURL, r.URL)},
			)
		}
	}

	htmlDoc := composeDocument(cfg, baseURL, len(records), entries, sections)

	if ferr := fileutil.EnsureDir(cfg.OutputDir()); ferr != nil {
		return nil, newAssemblerError(p.metadataSink, "PDFAssembler.Generate", ErrCauseWriteFailure, false, ferr.Error(), cfg.OutputDir())
	}

	pdfBytes, err := p.renderer.Render(htmlDoc, cfg.PageSize(), cfg.Orientation())
	if err != nil {
		return nil, newAssemblerError(p.metadataSink, "PDFAssembler.Generate", ErrCauseRenderFailure, true, err.Error(), cfg.OutputDir())
	}

	path := filepath.Join(cfg.OutputDir(), cfg.Prefix()+".pdf")
	if err := os.WriteFile(path, pdfBytes, 0644); err != nil {
		return nil, newAssemblerError(p.metadataSink, "PDFAssembler.Generate", ErrCauseWriteFailure, true, err.Error(), path)
	}

	p.metadataSink.RecordArtifact(metadata.ArtifactPDF, path, []metadata.Attribute{
		metadata.NewAttr(metadata.AttrWritePath, path),
	})
	return []string{path}, nil
}

// renderSection tries the full sanitized-HTML rendering first, falls
// back to a plain-text-plus-metadata rendering on failure, and as a last
// resort emits a static error placeholder. It never returns an error
// that would abort the whole document: degraded sections are logged via
// the returned *RenderError and the document keeps going.
func (p *PDFAssembler) renderSection(r cache.PageRecord, index int) (string, *RenderError) {
	body, err := p.renderSanitizedHTML(r)
	if err == nil {
		return wrapSection(index, body), nil
	}

	plain, plainErr := renderTextPlusMetadata(r)
	if plainErr == nil {
		return wrapSection(index, plain), &RenderError{RecordIndex: index, Err: err}
	}

	return wrapSection(index, errorPlaceholder(r, err)), &RenderError{RecordIndex: index, Err: err}
}

func (p *PDFAssembler) renderSanitizedHTML(r cache.PageRecord) (string, error) {
	doc := markdown.Parse([]byte(r.ExtractedText), parser.NewWithExtensions(parser.CommonExtensions|parser.Tables))
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	fragment := markdown.Render(doc, renderer)

	parsed, err := xhtml.Parse(bytes.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("parse rendered fragment: %w", err)
	}

	sanitized, sanErr := p.sanitizer.Sanitize(parsed)
	if sanErr != nil {
		return "", sanErr
	}

	body := goquery.NewDocumentFromNode(sanitized.GetContentNode()).Find("body")
	inner, htmlErr := body.Html()
	if htmlErr != nil {
		return "", fmt.Errorf("serialize sanitized body: %w", htmlErr)
	}
	return inner, nil
}

// renderTextPlusMetadata is fallback level 2: a plain-text rendering of
// the record's body plus its title and source URL, skipping the
// Markdown->HTML->sanitize pipeline entirely.
func renderTextPlusMetadata(r cache.PageRecord) (string, error) {
	text := stripMarkdownMarkup(r.ExtractedText)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no extractable text")
	}
	title := r.Title
	if title == "" {
		title = r.URL
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<h2>%s</h2>\n", htmlstd.EscapeString(title))
	fmt.Fprintf(&buf, "<p><em>Source: %s</em></p>\n", htmlstd.EscapeString(r.URL))
	fmt.Fprintf(&buf, "<pre>%s</pre>\n", htmlstd.EscapeString(text))
	return buf.String(), nil
}

// errorPlaceholder is fallback level 3: a static note, used only when
// even the plain-text rendering fails (e.g. the record is genuinely
// empty).
func errorPlaceholder(r cache.PageRecord, cause error) string {
	return fmt.Sprintf(
		"<p class=\"render-error\">Could not render %s: %s</p>",
		htmlstd.EscapeString(r.URL),
		htmlstd.EscapeString(cause.Error()),
	)
}

// stripMarkdownMarkup removes the common inline/heading markers a
// plain-text fallback shouldn't surface verbatim. Grounded on
// internal/normalize/constraints.go's stripInlineMarkdown, extended with
// leading '#' stripping since this operates on whole documents, not
// single extracted heading lines.
func stripMarkdownMarkup(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, "#")
		if trimmed != line {
			line = strings.TrimSpace(trimmed)
		}
		line = strings.ReplaceAll(line, "`", "")
		line = strings.ReplaceAll(line, "**", "")
		line = strings.ReplaceAll(line, "__", "")
		line = strings.ReplaceAll(line, "*", "")
		line = strings.ReplaceAll(line, "_", "")
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

func wrapSection(index int, innerHTML string) string {
	return fmt.Sprintf("<section id=\"page-%d\">\n%s\n</section>\n", index, innerHTML)
}

func composeDocument(cfg Config, baseURL string, pageCount int, entries []tocEntry, sections []string) string {
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&buf, "<style>%s</style>\n", printStylesheet(cfg.PageSize(), cfg.Orientation()))
	buf.WriteString("</head>\n<body>\n")

	title := cfg.Title()
	if title == "" {
		title = baseURL
	}
	fmt.Fprintf(&buf, "<div class=\"cover\">\n<h1>%s</h1>\n<p>%s</p>\n<p>%s</p>\n<p>%d pages</p>\n</div>\n",
		htmlstd.EscapeString(title),
		htmlstd.EscapeString(baseURL),
		time.Now().UTC().Format(time.RFC3339),
		pageCount,
	)

	if cfg.IncludeTOC() {
		buf.WriteString("<div class=\"toc\">\n<h2>Table of Contents</h2>\n<ul>\n")
		for i, e := range entries {
			fmt.Fprintf(&buf, "<li><a href=\"#page-%d\">%s</a></li>\n", i, htmlstd.EscapeString(e.title))
		}
		buf.WriteString("</ul>\n</div>\n")
	}

	for _, s := range sections {
		buf.WriteString(s)
	}

	buf.WriteString("</body>\n</html>\n")
	return buf.String()
}

// printStylesheet is the fixed print stylesheet §4.6 asks for: page
// size/orientation, margins, page numbers via CSS counters, a
// page-break before each section, and distinct heading styling from
// body text.
func printStylesheet(pageSize PageSize, orientation Orientation) string {
	size := string(pageSize)
	if size == "" {
		size = string(PageSizeA4)
	}
	orient := string(orientation)
	if orient == "" {
		orient = string(OrientationPortrait)
	}
	return fmt.Sprintf(`
@page {
  size: %s %s;
  margin: 2cm;
  @bottom-center { content: counter(page) " / " counter(pages); }
}
body { font-family: Georgia, serif; line-height: 1.5; counter-reset: page; }
h1, h2, h3, h4, h5, h6 { font-family: Helvetica, Arial, sans-serif; }
section { page-break-before: always; }
.cover { page-break-after: always; text-align: center; }
.toc { page-break-after: always; }
.render-error { color: #b00020; font-style: italic; }
`, size, orient)
}
