package assembler

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-archivist/archivist/internal/cache"
	"github.com/go-archivist/archivist/internal/metadata"
	"github.com/go-archivist/archivist/pkg/failure"
)

/*
Responsibilities
- Partition a session's PageRecords into chunks bounded by estimated
  output size or a fixed record count
- Delegate each chunk to the wrapped Assembler under a renamed prefix
- Write an index artifact listing every chunk

This is a decorator over Assembler, not a third variant: it wraps either
MarkdownAssembler or PDFAssembler and adds nothing to what a single
Generate call produces beyond splitting the input and naming the output.
*/

type ChunkingAssembler struct {
	inner        Assembler
	metadataSink metadata.MetadataSink
}

func NewChunkingAssembler(inner Assembler, metadataSink metadata.MetadataSink) ChunkingAssembler {
	return ChunkingAssembler{inner: inner, metadataSink: metadataSink}
}

var _ Assembler = (*ChunkingAssembler)(nil)

func (c *ChunkingAssembler) Generate(
	records []cache.PageRecord,
	cfg Config,
	baseURL string,
) ([]string, failure.ClassifiedError) {
	if !cfg.Chunking().Enabled() {
		return c.inner.Generate(records, cfg, baseURL)
	}
	if len(records) == 0 {
		return nil, newAssemblerError(c.metadataSink, "ChunkingAssembler.Generate", ErrCauseNoRecords, false, "no records to assemble", cfg.OutputDir())
	}

	chunks := partition(records, cfg)
	total := len(chunks)

	var allPaths []string
	var chunkArtifacts []string
	for i, chunk := range chunks {
		chunkPrefix := fmt.Sprintf("%s_chunk_%03d_of_%03d", cfg.Prefix(), i+1, total)
		chunkPaths, err := c.inner.Generate(chunk, cfg.withPrefix(chunkPrefix), baseURL)
		if err != nil {
			return nil, err
		}
		allPaths = append(allPaths, chunkPaths...)
		chunkArtifacts = append(chunkArtifacts, chunkPaths...)
	}

	indexPath, err := c.writeIndex(cfg, chunkArtifacts)
	if err != nil {
		return nil, err
	}
	allPaths = append(allPaths, indexPath)
	return allPaths, nil
}

func (c *ChunkingAssembler) writeIndex(cfg Config, chunkArtifacts []string) (string, failure.ClassifiedError) {
	path := filepath.Join(cfg.OutputDir(), fmt.Sprintf("%s_INDEX.%s", cfg.Prefix(), cfg.Extension()))

	var buf strings.Builder
	fmt.Fprintf(&buf, "# %s chunk index\n\n", cfg.Prefix())
	for _, p := range chunkArtifacts {
		fmt.Fprintf(&buf, "- %s\n", filepath.Base(p))
	}

	if err := os.WriteFile(path, []byte(buf.String()), 0644); err != nil {
		return "", newAssemblerError(c.metadataSink, "ChunkingAssembler.Generate", ErrCauseWriteFailure, true, err.Error(), path)
	}
	c.metadataSink.RecordArtifact(metadata.ArtifactChunk, path, []metadata.Attribute{
		metadata.NewAttr(metadata.AttrWritePath, path),
	})
	return path, nil
}

// partition splits records per cfg.Chunking(), preferring size-based
// partitioning when a max size is configured (per §4.6, size-based takes
// precedence when both are set), falling back to page-based, and
// returning records as a single chunk when chunking turned out disabled
// after all (defensive: Generate already checked Enabled()).
func partition(records []cache.PageRecord, cfg Config) [][]cache.PageRecord {
	chunking := cfg.Chunking()

	if chunking.MaxSize() != "" {
		if maxBytes, ok := parseByteSize(chunking.MaxSize()); ok {
			overhead := chunking.MarkdownOverhead()
			if cfg.Format() == FormatPDF {
				overhead = chunking.PDFOverhead()
			}
			return partitionBySize(records, maxBytes, overhead)
		}
	}
	if chunking.MaxPages() > 0 {
		return partitionByPageCount(records, chunking.MaxPages())
	}
	return [][]cache.PageRecord{records}
}

// partitionBySize groups consecutive records whose estimated output size
// stays within maxBytes. A single record whose own estimate already
// exceeds maxBytes becomes its own chunk rather than being dropped or
// causing an error, per §4.6.
func partitionBySize(records []cache.PageRecord, maxBytes int64, overhead float64) [][]cache.PageRecord {
	var chunks [][]cache.PageRecord
	var current []cache.PageRecord
	var currentSize int64

	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, current)
			current = nil
			currentSize = 0
		}
	}

	for _, r := range records {
		estimate := int64(float64(estimateRecordSize(r)) * overhead)
		if estimate > maxBytes {
			flush()
			chunks = append(chunks, []cache.PageRecord{r})
			continue
		}
		if currentSize+estimate > maxBytes {
			flush()
		}
		current = append(current, r)
		currentSize += estimate
	}
	flush()
	return chunks
}

func partitionByPageCount(records []cache.PageRecord, pageCount int) [][]cache.PageRecord {
	var chunks [][]cache.PageRecord
	for i := 0; i < len(records); i += pageCount {
		end := i + pageCount
		if end > len(records) {
			end = len(records)
		}
		chunks = append(chunks, records[i:end])
	}
	return chunks
}

// estimateRecordSize is the cheap per-record measurement §4.6 calls for:
// the byte length of the record's already-converted Markdown body,
// before the format overhead multiplier is applied.
func estimateRecordSize(r cache.PageRecord) int64 {
	return int64(len(r.ExtractedText))
}

var byteSizePattern = regexp.MustCompile(`(?i)^\s*([0-9]+(?:\.[0-9]+)?)\s*(B|KB|MB|GB)?\s*$`)

// parseByteSize parses strings like "10MB", "512KB", or a bare byte
// count into a byte count. No byte-size parsing library appears
// anywhere in the example pack; this is a narrow single-purpose
// grammar, not worth pulling in a dependency nothing else here needs.
func parseByteSize(s string) (int64, bool) {
	match := byteSizePattern.FindStringSubmatch(s)
	if match == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}
	multiplier := float64(1)
	switch strings.ToUpper(match[2]) {
	case "KB":
		multiplier = 1024
	case "MB":
		multiplier = 1024 * 1024
	case "GB":
		multiplier = 1024 * 1024 * 1024
	}
	return int64(value * multiplier), true
}
