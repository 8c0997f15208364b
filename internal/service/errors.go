package service

import (
	"errors"
	"fmt"
	"time"

	"gamma-cli/internal/domain"
)

var (
	// ErrJobFailed is matched by errors.Is for a generation the server
	// reported as failed.
	ErrJobFailed = errors.New("generation failed")
	// ErrTimedOut is matched by errors.Is when the poll deadline passed while
	// the generation was still pending.
	ErrTimedOut = errors.New("generation timed out")
	// ErrUnknownStatus is matched by errors.Is when the server returned a
	// status outside the known set.
	ErrUnknownStatus = errors.New("unknown generation status")
	// ErrInvalidPollOptions rejects non-positive intervals or timeouts.
	ErrInvalidPollOptions = errors.New("invalid poll options")
)

// JobFailedError carries the status snapshot of a failed generation so the
// caller can print whatever diagnostics the server attached.
type JobFailedError struct {
	Handle domain.JobHandle
	Status domain.JobStatus
}

func (e *JobFailedError) Error() string {
	if len(e.Status.Raw) > 0 {
		return fmt.Sprintf("generation %s failed: %s", e.Handle, e.Status.Raw)
	}
	return fmt.Sprintf("generation %s failed", e.Handle)
}

func (e *JobFailedError) Unwrap() error { return ErrJobFailed }

// TimeoutError reports a session that ran out of time while pending.
type TimeoutError struct {
	Handle  domain.JobHandle
	Timeout time.Duration
	Elapsed time.Duration
	Polls   int
	LastTag string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("generation %s did not complete within %s (elapsed %s, %d polls)",
		e.Handle, e.Timeout, e.Elapsed.Truncate(time.Millisecond), e.Polls)
}

func (e *TimeoutError) Unwrap() error { return ErrTimedOut }

// UnknownStatusError reports a status tag outside pending/completed/failed.
// Tag is the verbatim server value and is empty when the field was absent.
type UnknownStatusError struct {
	Handle domain.JobHandle
	Tag    string
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("generation %s: unknown status %q", e.Handle, e.Tag)
}

func (e *UnknownStatusError) Unwrap() error { return ErrUnknownStatus }
