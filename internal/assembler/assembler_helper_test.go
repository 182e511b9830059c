package assembler_test

import (
	"time"

	"github.com/go-archivist/archivist/internal/assembler"
	"github.com/go-archivist/archivist/internal/cache"
	"github.com/go-archivist/archivist/internal/metadata"
)

// metadataSinkMock mirrors internal/storage's test mock: a plain struct
// recording the last call to each method, no assertion logic baked in.
type metadataSinkMock struct {
	recordErrorCalled   bool
	recordErrorPackage  string
	recordErrorAction   string
	recordErrorCause    metadata.ErrorCause
	recordErrorDetails  string
	recordErrorAttrs    []metadata.Attribute
	recordArtifactCalls []recordedArtifact
}

type recordedArtifact struct {
	kind  metadata.ArtifactKind
	path  string
	attrs []metadata.Attribute
}

func (m *metadataSinkMock) RecordFetch(fetchUrl string, httpStatus int, duration time.Duration, contentType string, retryCount int, crawlDepth int) {
}

func (m *metadataSinkMock) RecordAssetFetch(fetchUrl string, httpStatus int, duration time.Duration, retryCount int) {
}

func (m *metadataSinkMock) RecordError(observedAt time.Time, packageName string, action string, cause metadata.ErrorCause, details string, attrs []metadata.Attribute) {
	m.recordErrorCalled = true
	m.recordErrorPackage = packageName
	m.recordErrorAction = action
	m.recordErrorCause = cause
	m.recordErrorDetails = details
	m.recordErrorAttrs = attrs
}

func (m *metadataSinkMock) RecordArtifact(kind metadata.ArtifactKind, path string, attrs []metadata.Attribute) {
	m.recordArtifactCalls = append(m.recordArtifactCalls, recordedArtifact{kind: kind, path: path, attrs: attrs})
}

func (m *metadataSinkMock) Reset() {
	*m = metadataSinkMock{}
}

func findAttrValue(attrs []metadata.Attribute, key metadata.AttributeKey) string {
	for _, attr := range attrs {
		if attr.Key == key {
			return attr.Value
		}
	}
	return ""
}

// testRecord builds a minimal cache.PageRecord for assembler tests. Tests
// that care about a specific field override it on the returned value.
func testRecord(index int, url, title, body string) cache.PageRecord {
	return cache.PageRecord{
		Index:         index,
		URL:           url,
		FinalURL:      url,
		Title:         title,
		ExtractedText: body,
		WordCount:     len(body),
		ContentHash:   "hash",
		FetchedAt:     time.Unix(1700000000, 0).UTC(),
	}
}

// rec is shorthand for building a batch of test PageRecords with table
// syntax instead of calling testRecord repeatedly.
type rec struct {
	index int
	url   string
	title string
	body  string
}

func toPageRecords(recs []rec) []cache.PageRecord {
	out := make([]cache.PageRecord, len(recs))
	for i, r := range recs {
		out[i] = testRecord(r.index, r.url, r.title, r.body)
	}
	return out
}

func mustConfig(t interface{ Fatalf(string, ...interface{}) }, outputDir, prefix string) assembler.Config {
	cfg, err := assembler.WithDefault(outputDir, prefix).Build()
	if err != nil {
		t.Fatalf("unexpected config build error: %v", err)
	}
	return cfg
}

// stubRenderer is a minimal HTMLToPDFRenderer: returns fixed bytes, or an
// error when forced to, so pdf_test.go can drive both the happy path and
// PDFAssembler's render-failure path without a real PDF engine.
type stubRenderer struct {
	err  error
	call int
}

func (s *stubRenderer) Render(htmlDoc string, pageSize assembler.PageSize, orientation assembler.Orientation) ([]byte, error) {
	s.call++
	if s.err != nil {
		return nil, s.err
	}
	return []byte("%PDF-1.4 stub\n" + htmlDoc), nil
}
