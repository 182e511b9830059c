package cache

import "time"

/*
Session Cache data model

Grounded on internal/normalize/data.go's Frontmatter (title, source/
canonical URL, crawl depth, doc id, content hash, fetched-at) and
internal/storage/data.go's WriteResult (url/content hashing), extended
with the fields a persisted crawl record needs that the teacher never
modeled: final URL after redirects, extracted text, image descriptors,
outbound links, word count, and a classification/quality flag.
*/

// SessionStatus is SessionMetadata's lifecycle state. Only the
// Orchestrator transitions it; the cache persists whatever it's told.
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	SessionFailed    SessionStatus = "failed"
)

// SessionMetadata is the atomically-rewritten session.json document.
type SessionMetadata struct {
	SessionID       string        `json:"session_id"`
	BaseURL         string        `json:"base_url"`
	ConfigDigest    string        `json:"config_digest"`
	Status          SessionStatus `json:"status"`
	PageCount       int           `json:"page_count"`
	ByteSize        int64         `json:"byte_size"`
	ExcludePatterns []string      `json:"exclude_patterns,omitempty"`
	FailureReason   string        `json:"failure_reason,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	ModifiedAt      time.Time     `json:"modified_at"`
}

// Classification is the extractor/classifier's 6-way taxonomy for a
// PageRecord. It is observational: the assembler uses it to filter,
// but nothing in the crawl pipeline's control flow depends on it.
type Classification string

const (
	ClassDocumentation Classification = "documentation"
	ClassContent       Classification = "content"
	ClassNavigation    Classification = "navigation"
	ClassTechnical     Classification = "technical"
	ClassLowQuality    Classification = "low-quality"
	ClassExcluded      Classification = "excluded"
)

// ImageDescriptor records one <img> encountered during extraction.
type ImageDescriptor struct {
	SourceURL string `json:"source_url"`
	LocalPath string `json:"local_path,omitempty"`
	Alt       string `json:"alt,omitempty"`
	Title     string `json:"title,omitempty"`
	Caption   string `json:"caption,omitempty"`
}

// PageRecord is one page_NNNNNN.json[.gz] entry: the immutable output
// of extraction for a single admitted URL.
type PageRecord struct {
	Index          int               `json:"index"`
	URL            string            `json:"url"`
	FinalURL       string            `json:"final_url"`
	Title          string            `json:"title"`
	CleanedHTML    string            `json:"cleaned_html"`
	ExtractedText  string            `json:"extracted_text"`
	Description    string            `json:"description,omitempty"`
	Author         string            `json:"author,omitempty"`
	Keywords       []string          `json:"keywords,omitempty"`
	Images         []ImageDescriptor `json:"images,omitempty"`
	OutboundLinks  []string          `json:"outbound_links,omitempty"`
	WordCount      int               `json:"word_count"`
	Classification Classification    `json:"classification"`
	LowQualityFlag bool              `json:"low_quality_flag"`
	ParseErrorFlag bool              `json:"parse_error_flag"`
	CrawlDepth     int               `json:"crawl_depth"`
	ContentHash    string            `json:"content_hash"`
	FetchedAt      time.Time         `json:"fetched_at"`
}

// Diagnostic is one doctor() finding for a single session.
type Diagnostic struct {
	SessionID    string   `json:"session_id"`
	OrphanPages  []string `json:"orphan_pages,omitempty"`
	CorruptPages []string `json:"corrupt_pages,omitempty"`
	MissingFields []string `json:"missing_fields,omitempty"`
	CountMismatch bool     `json:"count_mismatch"`
	ExpiredActive bool     `json:"expired_active"`
	Fixed         bool     `json:"fixed"`
}
