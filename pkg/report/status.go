// Package report defines the canonical on-disk encoding of result
// artifacts: file status tags, the result filename grammar, the
// per-revision status registry, and zipped multi-file report folders.
package report

import (
	"errors"
	"fmt"
)

// ErrUnknownStatus is returned when a status suffix cannot be decoded.
var ErrUnknownStatus = errors.New("unknown file status")

// FileStatus describes the outcome of one processing attempt for one
// revision/config. It is a closed set; the numeric order encodes merge
// precedence, higher values dominating when attempts are combined.
type FileStatus int

// The closed set of statuses, ordered by merge precedence.
const (
	// StatusNone is the sentinel for "never attempted". It has no filename
	// encoding and never appears on disk.
	StatusNone FileStatus = iota
	// StatusBlocked marks a revision excluded from processing.
	StatusBlocked
	// StatusMissing marks a result that should exist but was not produced.
	StatusMissing
	// StatusCompileError marks a revision whose build failed.
	StatusCompileError
	// StatusFailed marks a run that was built but did not succeed.
	StatusFailed
	// StatusSuccess marks a completed, usable result.
	StatusSuccess
)

// AllStatuses lists every status that can appear in a filename.
func AllStatuses() []FileStatus {
	return []FileStatus{
		StatusBlocked, StatusMissing, StatusCompileError, StatusFailed, StatusSuccess,
	}
}

// String returns the filename suffix for the status.
func (s FileStatus) String() string {
	switch s {
	case StatusNone:
		return "none"
	case StatusBlocked:
		return "blocked"
	case StatusMissing:
		return "missing"
	case StatusCompileError:
		return "cerror"
	case StatusFailed:
		return "failed"
	case StatusSuccess:
		return "success"
	default:
		return "none"
	}
}

// ParseStatus decodes a filename status suffix.
func ParseStatus(s string) (FileStatus, error) {
	switch s {
	case "blocked":
		return StatusBlocked, nil
	case "missing":
		return StatusMissing, nil
	case "cerror":
		return StatusCompileError, nil
	case "failed":
		return StatusFailed, nil
	case "success":
		return StatusSuccess, nil
	default:
		return StatusNone, fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
}

// Merge combines two attempt statuses, the more successful one winning.
// Merging with StatusNone keeps the other operand, so a terminal failure
// stays distinguishable from "never attempted".
func (s FileStatus) Merge(other FileStatus) FileStatus {
	if other > s {
		return other
	}

	return s
}
