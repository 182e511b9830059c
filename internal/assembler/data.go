package assembler

import "fmt"

/*
Responsibilities
- Own the assembler's output shape: format, file layout, chunking
- Provide sane single-file Markdown defaults via WithDefault
- Validate before Generate ever touches disk

Grounded on internal/config/config.go's builder (WithDefault(...) *Config,
chained With* setters, terminal Build() (Config, error)), generalized
from crawl configuration to export configuration.
*/

// Format selects which generator variant produces the artifact.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatPDF      Format = "pdf"
)

// Mode controls the Markdown variant's file layout. The PDF variant
// always emits one composed document and ignores Mode.
type Mode string

const (
	ModeSingleFile Mode = "single-file"
	ModeMultiFile  Mode = "multi-file"
)

// PageSize and Orientation are PDF-only print parameters; the Markdown
// variant ignores both.
type PageSize string

const (
	PageSizeA4     PageSize = "A4"
	PageSizeLetter PageSize = "Letter"
)

type Orientation string

const (
	OrientationPortrait  Orientation = "portrait"
	OrientationLandscape Orientation = "landscape"
)

// ChunkConfig controls whether Generate's output is partitioned across
// multiple artifacts. The zero value disables chunking: MaxSize empty
// and MaxPages 0 both mean "one artifact, no chunking."
type ChunkConfig struct {
	maxSize          string
	maxPages         int
	markdownOverhead float64
	pdfOverhead      float64
}

// NewChunkConfig builds a ChunkConfig. maxSize is a byte-size string like
// "10MB" ("" disables size-based chunking); maxPages is a fixed
// records-per-chunk count (0 disables page-based chunking). Overheads
// default to the Markdown/PDF estimation constants when given as 0.
func NewChunkConfig(maxSize string, maxPages int, markdownOverhead, pdfOverhead float64) ChunkConfig {
	if markdownOverhead <= 0 {
		markdownOverhead = 1.2
	}
	if pdfOverhead <= 0 {
		pdfOverhead = 2.5
	}
	return ChunkConfig{
		maxSize:          maxSize,
		maxPages:         maxPages,
		markdownOverhead: markdownOverhead,
		pdfOverhead:      pdfOverhead,
	}
}

func (c ChunkConfig) MaxSize() string           { return c.maxSize }
func (c ChunkConfig) MaxPages() int             { return c.maxPages }
func (c ChunkConfig) MarkdownOverhead() float64 { return c.markdownOverhead }
func (c ChunkConfig) PDFOverhead() float64      { return c.pdfOverhead }

// Enabled reports whether either chunking mode is configured. Size-based
// takes precedence over page-based when both are set; that precedence is
// enforced in partition(), not here.
func (c ChunkConfig) Enabled() bool {
	return c.maxSize != "" || c.maxPages > 0
}

// Config is the assembler's builder-pattern parameter object.
type Config struct {
	format      Format
	mode        Mode
	outputDir   string
	prefix      string
	title       string
	includeTOC  bool
	pageSize    PageSize
	orientation Orientation
	chunking    ChunkConfig
}

// WithDefault seeds single-file Markdown defaults: TOC included, A4
// portrait (only relevant once Format switches to FormatPDF), chunking
// disabled. outputDir is where the artifact(s) land; prefix names them
// (report.md, report/README.md, report_chunk_001_of_003.md, ...).
func WithDefault(outputDir, prefix string) *Config {
	return &Config{
		format:      FormatMarkdown,
		mode:        ModeSingleFile,
		outputDir:   outputDir,
		prefix:      prefix,
		includeTOC:  true,
		pageSize:    PageSizeA4,
		orientation: OrientationPortrait,
	}
}

func (c *Config) WithFormat(f Format) *Config           { c.format = f; return c }
func (c *Config) WithMode(m Mode) *Config               { c.mode = m; return c }
func (c *Config) WithTitle(title string) *Config        { c.title = title; return c }
func (c *Config) WithIncludeTOC(include bool) *Config   { c.includeTOC = include; return c }
func (c *Config) WithPageSize(p PageSize) *Config       { c.pageSize = p; return c }
func (c *Config) WithOrientation(o Orientation) *Config { c.orientation = o; return c }
func (c *Config) WithChunking(ch ChunkConfig) *Config   { c.chunking = ch; return c }

// Build validates the accumulated settings and returns an immutable
// Config. It never touches disk; EnsureDir happens in Generate.
func (c *Config) Build() (Config, error) {
	if c.outputDir == "" {
		return Config{}, fmt.Errorf("assembler: outputDir is required")
	}
	if c.prefix == "" {
		return Config{}, fmt.Errorf("assembler: prefix is required")
	}
	switch c.format {
	case FormatMarkdown, FormatPDF:
	default:
		return Config{}, fmt.Errorf("assembler: unknown format %q", c.format)
	}
	if c.format == FormatMarkdown {
		switch c.mode {
		case ModeSingleFile, ModeMultiFile:
		default:
			return Config{}, fmt.Errorf("assembler: unknown mode %q", c.mode)
		}
	}
	return *c, nil
}

func (c Config) Format() Format           { return c.format }
func (c Config) Mode() Mode               { return c.mode }
func (c Config) OutputDir() string        { return c.outputDir }
func (c Config) Prefix() string           { return c.prefix }
func (c Config) Title() string            { return c.title }
func (c Config) IncludeTOC() bool         { return c.includeTOC }
func (c Config) PageSize() PageSize       { return c.pageSize }
func (c Config) Orientation() Orientation { return c.orientation }
func (c Config) Chunking() ChunkConfig    { return c.chunking }

// Extension returns the output file's extension (no leading dot) for
// cfg's Format.
func (c Config) Extension() string {
	if c.format == FormatPDF {
		return "pdf"
	}
	return "md"
}

// withPrefix returns a copy of c with prefix replaced. Unexported: only
// the chunker needs to retarget an otherwise-validated Config at each
// chunk's artifact name.
func (c Config) withPrefix(prefix string) Config {
	c.prefix = prefix
	return c
}
