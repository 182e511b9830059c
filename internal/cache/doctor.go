package cache

import (
	"os"
	"path/filepath"
	"time"
)

/*
Doctor scans every session directory for drift between session.json
and the pages/ directory it claims to describe: orphan page files,
unreadable JSON, missing required fields, mismatched counts, and
active sessions whose last write is older than sessionTimeoutDefault
(a crashed or killed crawl that never reached a terminal status).

With fix=true it removes corrupt page files, reconciles PageCount to
what's actually readable on disk, and re-statuses stale active
sessions to failed. Dry-run (fix=false) only reports.
*/
func (c *Cache) Doctor(fix bool) ([]Diagnostic, *CacheError) {
	sessions, err := c.ListSessions()
	if err != nil {
		return nil, err
	}

	diagnostics := make([]Diagnostic, 0, len(sessions))
	for _, meta := range sessions {
		diagnostics = append(diagnostics, c.diagnoseSession(meta, fix))
	}
	return diagnostics, nil
}

func (c *Cache) diagnoseSession(meta SessionMetadata, fix bool) Diagnostic {
	diag := Diagnostic{SessionID: meta.SessionID}

	if meta.SessionID == "" || meta.BaseURL == "" {
		diag.MissingFields = append(diag.MissingFields, "session_id_or_base_url")
	}

	entries, readErr := os.ReadDir(c.pagesDir(meta.SessionID))
	readableCount := 0
	var corrupt []string
	var orphans []string
	if readErr == nil {
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			index, ok := pageIndexFromFilename(entry.Name())
			if !ok {
				orphans = append(orphans, entry.Name())
				continue
			}
			if index >= meta.PageCount {
				orphans = append(orphans, entry.Name())
				continue
			}
			path := filepath.Join(c.pagesDir(meta.SessionID), entry.Name())
			if _, err := readPage(path); err != nil {
				corrupt = append(corrupt, entry.Name())
				continue
			}
			readableCount++
		}
	}

	diag.OrphanPages = orphans
	diag.CorruptPages = corrupt
	diag.CountMismatch = readableCount != meta.PageCount

	if meta.Status == SessionActive && time.Since(meta.ModifiedAt) > sessionTimeoutDefault {
		diag.ExpiredActive = true
	}

	if !fix {
		return diag
	}

	for _, name := range corrupt {
		os.Remove(filepath.Join(c.pagesDir(meta.SessionID), name))
	}
	for _, name := range orphans {
		os.Remove(filepath.Join(c.pagesDir(meta.SessionID), name))
	}
	if len(corrupt) > 0 || len(orphans) > 0 || diag.CountMismatch {
		meta.PageCount = readableCount
		writeJSONAtomic(c.metadataPath(meta.SessionID), meta)
		diag.Fixed = true
	}
	if diag.ExpiredActive {
		c.transition(meta.SessionID, SessionFailed, "stale active session reaped by doctor")
		diag.Fixed = true
	}

	return diag
}
