package cache_test

import (
	"time"

	"github.com/go-archivist/archivist/internal/metadata"
)

// metadataSinkMock is a test double for metadata.MetadataSink, mirroring
// internal/storage/sink_helper_test.go's mock.
type metadataSinkMock struct {
	recordErrorCalled    bool
	recordErrorCause     metadata.ErrorCause
	recordArtifactCalled bool
	recordArtifactKind   metadata.ArtifactKind
}

func (m *metadataSinkMock) RecordFetch(string, int, time.Duration, string, int, int) {}

func (m *metadataSinkMock) RecordAssetFetch(string, int, time.Duration, int) {}

func (m *metadataSinkMock) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause metadata.ErrorCause,
	details string,
	attrs []metadata.Attribute,
) {
	m.recordErrorCalled = true
	m.recordErrorCause = cause
}

func (m *metadataSinkMock) RecordArtifact(kind metadata.ArtifactKind, path string, attrs []metadata.Attribute) {
	m.recordArtifactCalled = true
	m.recordArtifactKind = kind
}
