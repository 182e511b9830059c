package assembler

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-archivist/archivist/internal/cache"
	"github.com/go-archivist/archivist/internal/metadata"
	"github.com/go-archivist/archivist/pkg/failure"
	"github.com/go-archivist/archivist/pkg/fileutil"
)

/*
Responsibilities
- Compose PageRecords into a single Markdown export, or one file per
  record plus an index
- Build a Table of Contents from slugified, deduplicated titles
- Never touch HTML: every PageRecord's ExtractedText already went
  through internal/mdconvert, so this variant only composes and writes

Grounded on internal/storage/sink.go's write() for the atomic
directory-then-file write order, generalized from one artifact per page
to one (or a directory of) artifact(s) per session.
*/

type MarkdownAssembler struct {
	metadataSink metadata.MetadataSink
}

func NewMarkdownAssembler(metadataSink metadata.MetadataSink) MarkdownAssembler {
	return MarkdownAssembler{metadataSink: metadataSink}
}

var _ Assembler = (*MarkdownAssembler)(nil)

func (m *MarkdownAssembler) Generate(
	records []cache.PageRecord,
	cfg Config,
	baseURL string,
) ([]string, failure.ClassifiedError) {
	if len(records) == 0 {
		return nil, newAssemblerError(m.metadataSink, "MarkdownAssembler.Generate", ErrCauseNoRecords, false, "no records to assemble", cfg.OutputDir())
	}

	entries := buildTOCEntries(records)

	var paths []string
	var err failure.ClassifiedError
	if cfg.Mode() == ModeMultiFile {
		paths, err = m.generateMultiFile(records, entries, cfg, baseURL)
	} else {
		paths, err = m.generateSingleFile(records, entries, cfg, baseURL)
	}
	if err != nil {
		return nil, err
	}

	for _, p := range paths {
		m.metadataSink.RecordArtifact(metadata.ArtifactMarkdown, p, []metadata.Attribute{
			metadata.NewAttr(metadata.AttrWritePath, p),
		})
	}
	return paths, nil
}

func (m *MarkdownAssembler) generateSingleFile(
	records []cache.PageRecord,
	entries []tocEntry,
	cfg Config,
	baseURL string,
) ([]string, failure.ClassifiedError) {
	var buf bytes.Buffer
	writeHeader(&buf, cfg.Title(), baseURL, len(records))

	if cfg.IncludeTOC() {
		buf.WriteString("## Table of Contents\n\n")
		for _, e := range entries {
			fmt.Fprintf(&buf, "- [%s](#%s)\n", e.title, e.slug)
		}
		buf.WriteString("\n")
	}

	for i, r := range records {
		if i > 0 {
			buf.WriteString("\n---\n\n")
		}
		fmt.Fprintf(&buf, "<a id=\"%s\"></a>\n\n", entries[i].slug)
		buf.WriteString(strings.TrimSpace(r.ExtractedText))
		buf.WriteString("\n")
	}

	if ferr := fileutil.EnsureDir(cfg.OutputDir()); ferr != nil {
		return nil, newAssemblerError(m.metadataSink, "MarkdownAssembler.Generate", ErrCauseWriteFailure, false, ferr.Error(), cfg.OutputDir())
	}

	path := filepath.Join(cfg.OutputDir(), cfg.Prefix()+".md")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return nil, newAssemblerError(m.metadataSink, "MarkdownAssembler.Generate", ErrCauseWriteFailure, true, err.Error(), path)
	}
	return []string{path}, nil
}

func (m *MarkdownAssembler) generateMultiFile(
	records []cache.PageRecord,
	entries []tocEntry,
	cfg Config,
	baseURL string,
) ([]string, failure.ClassifiedError) {
	dir := filepath.Join(cfg.OutputDir(), cfg.Prefix())
	if ferr := fileutil.EnsureDir(dir); ferr != nil {
		return nil, newAssemblerError(m.metadataSink, "MarkdownAssembler.Generate", ErrCauseWriteFailure, false, ferr.Error(), dir)
	}

	var readme bytes.Buffer
	writeHeader(&readme, cfg.Title(), baseURL, len(records))
	readme.WriteString("## Pages\n\n")

	paths := make([]string, 0, len(records)+1)
	for i, r := range records {
		filename := entries[i].slug + ".md"
		fmt.Fprintf(&readme, "- [%s](%s)\n", entries[i].title, filename)

		var page bytes.Buffer
		fmt.Fprintf(&page, "# %s\n\n", entries[i].title)
		page.WriteString(strings.TrimSpace(r.ExtractedText))
		page.WriteString("\n")

		pagePath := filepath.Join(dir, filename)
		if err := os.WriteFile(pagePath, page.Bytes(), 0644); err != nil {
			return nil, newAssemblerError(m.metadataSink, "MarkdownAssembler.Generate", ErrCauseWriteFailure, true, err.Error(), pagePath)
		}
		paths = append(paths, pagePath)
	}

	readmePath := filepath.Join(dir, "README.md")
	if err := os.WriteFile(readmePath, readme.Bytes(), 0644); err != nil {
		return nil, newAssemblerError(m.metadataSink, "MarkdownAssembler.Generate", ErrCauseWriteFailure, true, err.Error(), readmePath)
	}

	// README first, matching the order a reader opening the directory
	// would want to see in a file listing or a returned-paths log.
	return append([]string{readmePath}, paths...), nil
}

func writeHeader(buf *bytes.Buffer, title, baseURL string, pageCount int) {
	if title == "" {
		title = baseURL
	}
	fmt.Fprintf(buf, "# %s\n\n", title)
	fmt.Fprintf(buf, "Source: %s  \n", baseURL)
	fmt.Fprintf(buf, "Generated: %s  \n", time.Now().UTC().Format(time.RFC3339))
	fmt.Fprintf(buf, "Pages: %d\n\n", pageCount)
}
