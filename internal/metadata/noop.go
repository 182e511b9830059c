package metadata

import "time"

// NoopSink is a MetadataSink that discards everything it's handed. Tests
// that exercise a pipeline stage but don't care about observability embed
// it (directly, or inside a spy that overrides only the methods it needs
// to capture) rather than hand-rolling every interface method.
type NoopSink struct{}

var _ MetadataSink = (*NoopSink)(nil)

func (NoopSink) RecordFetch(fetchUrl string, httpStatus int, duration time.Duration, contentType string, retryCount int, crawlDepth int) {
}

func (NoopSink) RecordAssetFetch(fetchUrl string, httpStatus int, duration time.Duration, retryCount int) {
}

func (NoopSink) RecordError(observedAt time.Time, packageName string, action string, cause ErrorCause, details string, attrs []Attribute) {
}

func (NoopSink) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {}
