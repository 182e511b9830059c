package metadata

import "time"

/*
MetadataSink is the observational write surface every pipeline stage is
handed. It records what happened; it never influences what happens
next. See the ErrorCause doc comment in data.go for the rule this
interface exists to enforce.
*/
type MetadataSink interface {
	RecordFetch(
		fetchUrl string,
		httpStatus int,
		duration time.Duration,
		contentType string,
		retryCount int,
		crawlDepth int,
	)
	RecordAssetFetch(
		fetchUrl string,
		httpStatus int,
		duration time.Duration,
		retryCount int,
	)
	RecordError(
		observedAt time.Time,
		packageName string,
		action string,
		cause ErrorCause,
		details string,
		attrs []Attribute,
	)
	RecordArtifact(kind ArtifactKind, path string, attrs []Attribute)
}

// CrawlFinalizer records the terminal, derived summary of a completed
// crawl exactly once. It is a narrower interface than MetadataSink
// because it is only ever called from the Orchestrator's deferred
// finalization step.
type CrawlFinalizer interface {
	RecordFinalCrawlStats(
		totalPages int,
		totalErrors int,
		totalAssets int,
		duration time.Duration,
	)
}

// ArtifactKind classifies a persisted output artifact for observability.
type ArtifactKind string

const (
	ArtifactMarkdown ArtifactKind = "markdown"
	ArtifactAsset     ArtifactKind = "asset"
	ArtifactPDF       ArtifactKind = "pdf"
	ArtifactChunk     ArtifactKind = "chunk"
	ArtifactSession   ArtifactKind = "session"
)
