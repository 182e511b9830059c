package assembler

import (
	"github.com/go-archivist/archivist/internal/cache"
	"github.com/go-archivist/archivist/pkg/failure"
)

/*
Responsibilities
- Consume a session's PageRecords and emit output artifacts
- Stay agnostic to how those records reached disk (internal/cache) or how
  they got their Markdown body (internal/mdconvert, internal/normalize)

Leaf-to-root dependency order mirrors the rest of the pipeline: Assembler
depends on cache.PageRecord as its input shape, the same way
internal/storage depends on normalize.NormalizedMarkdownDoc.
*/

// Assembler is the shared capability both generator variants implement:
// turn a session's PageRecords into one or more artifact files and
// return their paths in deterministic, write order.
type Assembler interface {
	Generate(records []cache.PageRecord, cfg Config, baseURL string) ([]string, failure.ClassifiedError)
}

// HTMLToPDFRenderer is the PDF variant's external collaborator: it turns
// a composed HTML document into PDF bytes. No concrete implementation
// ships in this package — callers inject one (a wkhtmltopdf wrapper, a
// headless-Chrome driver, whatever's available) the same way the
// scheduler is handed a fetcher.Fetcher rather than owning HTTP itself.
type HTMLToPDFRenderer interface {
	Render(htmlDoc string, pageSize PageSize, orientation Orientation) ([]byte, error)
}
