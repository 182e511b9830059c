package assembler

import (
	"fmt"
	"time"

	"github.com/go-archivist/archivist/internal/metadata"
	"github.com/go-archivist/archivist/pkg/failure"
)

type AssemblerErrorCause string

const (
	ErrCauseNoRecords    AssemblerErrorCause = "no records"
	ErrCauseInvalidConfig AssemblerErrorCause = "invalid config"
	ErrCauseWriteFailure  AssemblerErrorCause = "write failed"
	ErrCauseRenderFailure AssemblerErrorCause = "render failed"
)

type AssemblerError struct {
	Message   string
	Retryable bool
	Cause     AssemblerErrorCause
	Path      string
}

func (e *AssemblerError) Error() string {
	return fmt.Sprintf("assembler error: %s", e.Cause)
}

func (e *AssemblerError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// mapAssemblerErrorToMetadataCause maps assembler-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used to derive
// control-flow decisions.
func mapAssemblerErrorToMetadataCause(err *AssemblerError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseWriteFailure:
		return metadata.CauseStorageFailure
	case ErrCauseInvalidConfig, ErrCauseNoRecords, ErrCauseRenderFailure:
		return metadata.CauseContentInvalid
	default:
		return metadata.CauseUnknown
	}
}

// newAssemblerError records err via metadataSink (same shape every other
// pipeline stage's error path uses: errors.go classifies, the caller's
// exported method records) and returns the classified error to propagate.
func newAssemblerError(
	metadataSink metadata.MetadataSink,
	action string,
	cause AssemblerErrorCause,
	retryable bool,
	message string,
	path string,
) *AssemblerError {
	assemblerErr := &AssemblerError{
		Message:   message,
		Retryable: retryable,
		Cause:     cause,
		Path:      path,
	}
	metadataSink.RecordError(
		time.Now(),
		"assembler",
		action,
		mapAssemblerErrorToMetadataCause(assemblerErr),
		assemblerErr.Error(),
		[]metadata.Attribute{metadata.NewAttr(metadata.AttrWritePath, path)},
	)
	return assemblerErr
}

// RenderError describes one PageRecord's PDF section failing to render
// at full fidelity. It is observational, not a failure.ClassifiedError:
// a RenderError never aborts Generate, it only records which fallback
// level a section degraded to.
type RenderError struct {
	RecordIndex int
	Err         error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render error on record %d: %v", e.RecordIndex, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
