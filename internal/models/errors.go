package models

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repositories when a requested entity does
// not exist. Cancelling an unknown booking is still a no-op at the
// store level; lookups for rendering surface it to the caller.
var ErrNotFound = errors.New("entity not found")

// ValidationError indicates a malformed booking request. It is surfaced
// directly to the caller and never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid booking request: %s", e.Reason)
}

// ConflictError indicates that a requested window overlaps an existing
// active booking for the same room and date. Retrying the same input
// fails deterministically, so callers should prompt for another time.
type ConflictError struct {
	RoomID   string
	Existing *Booking
}

func (e *ConflictError) Error() string {
	if e.Existing != nil {
		return fmt.Sprintf("time slot conflict with existing booking %q (%s-%s)",
			e.Existing.Title,
			e.Existing.StartTime.Local().Format("15:04"),
			e.Existing.EndTime.Local().Format("15:04"))
	}
	return "time slot conflict with existing booking"
}

// StorageError wraps a persistence failure from the repository. The store
// performs no implicit retry; callers may retry the whole operation, which
// re-runs the conflict check against current state.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
