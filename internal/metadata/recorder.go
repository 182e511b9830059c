package metadata

import (
	"time"

	"github.com/rohmanhakim/dlog"
)

/*
Metadata Collected
- Fetch timestamps
- HTTP status codes
- Content hashes
- Crawl depth

Logging Goals
- Debuggable crawl behavior
- Post-run auditability
- Failure diagnostics

Structured logging is preferred.

Allowed:
- Primitive values
- Timestamps
- URLs (as values, not objects with behavior)
- Hashes
- Status codes
- Durations
- Identifiers (page ID, crawl ID)
*/

// Recorder is the production MetadataSink/CrawlFinalizer implementation.
// It never makes decisions; every method here is a leaf that turns an
// observation into a structured log line via dlog.
type Recorder struct {
	log dlog.Logger
}

// NewRecorder creates a Recorder scoped to the given worker/component
// name, which is attached to every emitted log line.
func NewRecorder(workerName string) Recorder {
	return Recorder{
		log: dlog.New(workerName),
	}
}

func (r *Recorder) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	retryCount int,
	crawlDepth int,
) {
	r.log.Info("fetch",
		dlog.F("url", fetchUrl),
		dlog.F("status", httpStatus),
		dlog.F("duration_ms", duration.Milliseconds()),
		dlog.F("content_type", contentType),
		dlog.F("retry_count", retryCount),
		dlog.F("depth", crawlDepth),
	)
}

func (r *Recorder) RecordAssetFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	retryCount int,
) {
	r.log.Info("asset_fetch",
		dlog.F("url", fetchUrl),
		dlog.F("status", httpStatus),
		dlog.F("duration_ms", duration.Milliseconds()),
		dlog.F("retry_count", retryCount),
	)
}

func (r *Recorder) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	details string,
	attrs []Attribute,
) {
	fields := make([]dlog.Field, 0, len(attrs)+4)
	fields = append(fields,
		dlog.F("observed_at", observedAt.Format(time.RFC3339)),
		dlog.F("package", packageName),
		dlog.F("action", action),
		dlog.F("cause", causeLabel(cause)),
	)
	for _, attr := range attrs {
		fields = append(fields, dlog.F(string(attr.Key), attr.Value))
	}
	r.log.Warn(details, fields...)
}

func (r *Recorder) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {
	fields := make([]dlog.Field, 0, len(attrs)+2)
	fields = append(fields,
		dlog.F("kind", string(kind)),
		dlog.F("path", path),
	)
	for _, attr := range attrs {
		fields = append(fields, dlog.F(string(attr.Key), attr.Value))
	}
	r.log.Info("artifact_written", fields...)
}

func (r *Recorder) RecordFinalCrawlStats(
	totalPages int,
	totalErrors int,
	totalAssets int,
	duration time.Duration,
) {
	r.log.Info("crawl_finished",
		dlog.F("total_pages", totalPages),
		dlog.F("total_errors", totalErrors),
		dlog.F("total_assets", totalAssets),
		dlog.F("duration_ms", duration.Milliseconds()),
	)
}

func causeLabel(cause ErrorCause) string {
	switch cause {
	case CauseNetworkFailure:
		return "network_failure"
	case CausePolicyDisallow:
		return "policy_disallow"
	case CauseContentInvalid:
		return "content_invalid"
	case CauseStorageFailure:
		return "storage_failure"
	case CauseInvariantViolation:
		return "invariant_violation"
	default:
		return "unknown"
	}
}
