package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-archivist/archivist/internal/metadata"
	"github.com/go-archivist/archivist/pkg/hashutil"
)

/*
Responsibilities

- Own the on-disk session layout: sessions/<id>/session.json +
  sessions/<id>/pages/page_NNNNNN.json[.gz]
- Persist PageRecords durably, in strictly increasing index order, with
  no gaps
- Rewrite SessionMetadata atomically on every page commit
- Let resume rebuild crawl state from what's already on disk

It knows nothing about fetching, extraction, or assembly: it is a data
structure + durability module, same role the teacher's
internal/storage/sink.go played for its flat one-file-per-page layout,
generalized to session-scoped, resumable, doctor-able state.

Concurrency discipline: a session is written by exactly one Cache
caller at a time (the Orchestrator). LoadSession reads session.json
once, snapshots the page index range, and only reads pages within that
snapshot — any page added afterward is ignored. Doctor also reads
session.json once, but reports page files at or beyond its PageCount as
orphans (and removes them when fixing).
*/
type Cache struct {
	rootDir      string
	compress     bool
	hashAlgo     hashutil.HashAlgo
	metadataSink metadata.MetadataSink
}

const pageFilePattern = "page_%06d.json"
const sessionTimeoutDefault = 24 * time.Hour

// New creates a Cache rooted at rootDir/sessions. rootDir is created on
// first use, not at construction time.
func New(rootDir string, compress bool, hashAlgo hashutil.HashAlgo, metadataSink metadata.MetadataSink) Cache {
	return Cache{
		rootDir:      rootDir,
		compress:     compress,
		hashAlgo:     hashAlgo,
		metadataSink: metadataSink,
	}
}

func (c *Cache) sessionsDir() string {
	return filepath.Join(c.rootDir, "sessions")
}

func (c *Cache) sessionDir(id string) string {
	return filepath.Join(c.sessionsDir(), id)
}

func (c *Cache) pagesDir(id string) string {
	return filepath.Join(c.sessionDir(id), "pages")
}

func (c *Cache) metadataPath(id string) string {
	return filepath.Join(c.sessionDir(id), "session.json")
}

func (c *Cache) pagePath(id string, index int, compress bool) string {
	name := fmt.Sprintf(pageFilePattern, index)
	if compress {
		name += ".gz"
	}
	return filepath.Join(c.pagesDir(id), name)
}

// CreateSession derives a SessionId from the base URL and the current
// time, creates its directory structure, and writes the initial
// metadata with status=active.
func (c *Cache) CreateSession(baseURL string, configDigest string, excludePatterns []string) (string, *CacheError) {
	now := time.Now()
	id := sessionID(baseURL, configDigest, now)

	if err := os.MkdirAll(c.pagesDir(id), 0o755); err != nil {
		return "", c.recordAndWrap(ErrCausePathError, true, err, c.sessionDir(id))
	}

	meta := SessionMetadata{
		SessionID:       id,
		BaseURL:         baseURL,
		ConfigDigest:    configDigest,
		Status:          SessionActive,
		PageCount:       0,
		ExcludePatterns: excludePatterns,
		CreatedAt:       now,
		ModifiedAt:      now,
	}
	if err := writeJSONAtomic(c.metadataPath(id), meta); err != nil {
		return "", c.recordAndWrap(ErrCauseWriteFailure, true, err, c.metadataPath(id))
	}
	return id, nil
}

func sessionID(baseURL, configDigest string, at time.Time) string {
	digest, err := hashutil.HashBytes([]byte(baseURL+"|"+configDigest), hashutil.HashAlgoBLAKE3)
	if err != nil {
		digest = "0000000000000000"
	}
	return fmt.Sprintf("%s-%d", digest[:16], at.Unix())
}

// AppendPage writes the next page file for id, then atomically rewrites
// session.json to reflect the new count and size. Page indices are
// strictly increasing starting from the current on-disk count; this
// method is the only writer permitted to advance the index, enforcing
// the "gaps are never introduced" invariant by construction.
func (c *Cache) AppendPage(id string, record PageRecord) *CacheError {
	meta, err := c.readMetadata(id)
	if err != nil {
		return err
	}

	record.Index = meta.PageCount
	path := c.pagePath(id, record.Index, c.compress)
	if writeErr := writePageAtomic(path, record, c.compress); writeErr != nil {
		return c.recordAndWrap(ErrCauseWriteFailure, true, writeErr, path)
	}

	info, statErr := os.Stat(path)
	var size int64
	if statErr == nil {
		size = info.Size()
	}

	meta.PageCount++
	meta.ByteSize += size
	meta.ModifiedAt = time.Now()
	if writeErr := writeJSONAtomic(c.metadataPath(id), meta); writeErr != nil {
		return c.recordAndWrap(ErrCauseWriteFailure, true, writeErr, c.metadataPath(id))
	}

	if c.metadataSink != nil {
		c.metadataSink.RecordArtifact(metadata.ArtifactSession, path, []metadata.Attribute{
			metadata.NewAttr(metadata.AttrURL, record.URL),
			metadata.NewAttr(metadata.AttrField, strconv.Itoa(record.Index)),
		})
	}
	return nil
}

// LoadSession reads session.json, then yields pages in index order.
// Corrupt page files are skipped and recorded via the metadata sink
// rather than failing the whole read.
func (c *Cache) LoadSession(id string) (SessionMetadata, []PageRecord, *CacheError) {
	meta, err := c.readMetadata(id)
	if err != nil {
		return SessionMetadata{}, nil, err
	}

	snapshotCount := meta.PageCount
	pages := make([]PageRecord, 0, snapshotCount)
	for i := 0; i < snapshotCount; i++ {
		record, readErr := c.readPageAnyCompression(id, i)
		if readErr != nil {
			if c.metadataSink != nil {
				c.metadataSink.RecordError(
					time.Now(),
					"cache",
					"LoadSession",
					metadata.CauseContentInvalid,
					readErr.Error(),
					[]metadata.Attribute{metadata.NewAttr(metadata.AttrField, strconv.Itoa(i))},
				)
			}
			continue
		}
		pages = append(pages, record)
	}
	return meta, pages, nil
}

// readPageAnyCompression tries the uncompressed filename first, then
// the gzip variant, so a reader doesn't need to know the write-time
// compression setting.
func (c *Cache) readPageAnyCompression(id string, index int) (PageRecord, error) {
	plain := c.pagePath(id, index, false)
	if _, err := os.Stat(plain); err == nil {
		return readPage(plain)
	}
	return readPage(c.pagePath(id, index, true))
}

// ListSessions returns every session's metadata, most recently created
// first.
func (c *Cache) ListSessions() ([]SessionMetadata, *CacheError) {
	entries, err := os.ReadDir(c.sessionsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, c.recordAndWrap(ErrCausePathError, false, err, c.sessionsDir())
	}

	sessions := make([]SessionMetadata, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, readErr := c.readMetadata(entry.Name())
		if readErr != nil {
			continue
		}
		sessions = append(sessions, meta)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
	return sessions, nil
}

// DeleteSession removes a session's entire directory tree.
func (c *Cache) DeleteSession(id string) *CacheError {
	if err := os.RemoveAll(c.sessionDir(id)); err != nil {
		return c.recordAndWrap(ErrCauseWriteFailure, false, err, c.sessionDir(id))
	}
	return nil
}

// MarkComplete transitions a session to completed. Per the state
// machine, completed has no FrontierEntry remaining.
func (c *Cache) MarkComplete(id string) *CacheError {
	return c.transition(id, SessionCompleted, "")
}

// MarkFailed transitions a session to failed with a reason (e.g.
// "cancelled").
func (c *Cache) MarkFailed(id string, reason string) *CacheError {
	return c.transition(id, SessionFailed, reason)
}

func (c *Cache) transition(id string, status SessionStatus, reason string) *CacheError {
	meta, err := c.readMetadata(id)
	if err != nil {
		return err
	}
	meta.Status = status
	meta.FailureReason = reason
	meta.ModifiedAt = time.Now()
	if writeErr := writeJSONAtomic(c.metadataPath(id), meta); writeErr != nil {
		return c.recordAndWrap(ErrCauseWriteFailure, true, writeErr, c.metadataPath(id))
	}
	return nil
}

// Resume loads a session's metadata and its last min(count, 100)
// pages, for the Orchestrator to re-harvest outbound links from and
// rebuild the admitted-URL set. It transitions the session back to
// active; the fetcher's adaptive state (fatigue, cooldown) is the
// caller's concern to reset, not the cache's.
func (c *Cache) Resume(id string) (SessionMetadata, []PageRecord, *CacheError) {
	meta, pages, err := c.LoadSession(id)
	if err != nil {
		return SessionMetadata{}, nil, err
	}

	const resumeWindow = 100
	start := 0
	if len(pages) > resumeWindow {
		start = len(pages) - resumeWindow
	}
	window := pages[start:]

	if transErr := c.transition(id, SessionActive, ""); transErr != nil {
		return SessionMetadata{}, nil, transErr
	}
	meta.Status = SessionActive
	return meta, window, nil
}

func (c *Cache) readMetadata(id string) (SessionMetadata, *CacheError) {
	raw, err := os.ReadFile(c.metadataPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return SessionMetadata{}, &CacheError{
				Message:   err.Error(),
				Retryable: false,
				Cause:     ErrCauseSessionNotFound,
				Path:      c.metadataPath(id),
			}
		}
		return SessionMetadata{}, c.recordAndWrap(ErrCausePathError, false, err, c.metadataPath(id))
	}

	var meta SessionMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return SessionMetadata{}, c.recordAndWrap(ErrCauseCorruptMetadata, false, err, c.metadataPath(id))
	}
	return meta, nil
}

func (c *Cache) recordAndWrap(cause CacheErrorCause, retryable bool, err error, path string) *CacheError {
	cacheErr := &CacheError{
		Message:   err.Error(),
		Retryable: retryable,
		Cause:     cause,
		Path:      path,
	}
	if c.metadataSink != nil {
		c.metadataSink.RecordError(
			time.Now(),
			"cache",
			"Cache",
			mapCacheErrorToMetadataCause(cacheErr),
			cacheErr.Error(),
			[]metadata.Attribute{metadata.NewAttr(metadata.AttrWritePath, path)},
		)
	}
	return cacheErr
}

// pageIndexFromFilename extracts the numeric index out of a
// "page_NNNNNN.json" or "page_NNNNNN.json.gz" filename, used by Doctor
// to detect orphaned or out-of-range page files.
func pageIndexFromFilename(name string) (int, bool) {
	base := strings.TrimSuffix(strings.TrimSuffix(name, ".gz"), ".json")
	base = strings.TrimPrefix(base, "page_")
	if base == name {
		return 0, false
	}
	index, err := strconv.Atoi(base)
	if err != nil {
		return 0, false
	}
	return index, true
}
