package cache

import (
	"fmt"

	"github.com/go-archivist/archivist/internal/metadata"
	"github.com/go-archivist/archivist/pkg/failure"
)

type CacheErrorCause string

const (
	ErrCauseWriteFailure    CacheErrorCause = "write failed"
	ErrCausePathError       CacheErrorCause = "path error"
	ErrCauseSessionNotFound CacheErrorCause = "session not found"
	ErrCauseCorruptMetadata CacheErrorCause = "corrupt metadata"
	ErrCauseCorruptPage     CacheErrorCause = "corrupt page"
	ErrCauseHashFailure     CacheErrorCause = "hash computation failed"
)

// CacheError follows the same shape every other package's classified
// error does (see pkg/failure, internal/storage/errors.go): a message,
// a retryability flag, and a closed cause enum for observability only.
type CacheError struct {
	Message   string
	Retryable bool
	Cause     CacheErrorCause
	Path      string
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache error: %s", e.Cause)
}

func (e *CacheError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// mapCacheErrorToMetadataCause maps cache-local error semantics to the
// canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used to derive
// control-flow decisions.
func mapCacheErrorToMetadataCause(err *CacheError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseWriteFailure, ErrCausePathError:
		return metadata.CauseStorageFailure
	case ErrCauseSessionNotFound:
		return metadata.CauseInvariantViolation
	case ErrCauseCorruptMetadata, ErrCauseCorruptPage:
		return metadata.CauseContentInvalid
	case ErrCauseHashFailure:
		return metadata.CauseInvariantViolation
	default:
		return metadata.CauseUnknown
	}
}
