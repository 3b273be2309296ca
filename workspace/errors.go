package workspace

import (
	"errors"
	"fmt"
)

var (
	// ErrMoveIntoDescendant is returned when a folder would become its own ancestor.
	ErrMoveIntoDescendant = errors.New("cannot move folder into itself or a descendant")
	// ErrInvalidSnapshot is matched by every import failure.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

// ImportError describes why a snapshot was rejected. The store is left
// untouched when one is returned.
type ImportError struct {
	ID     ID     // offending entity, if any
	Reason string // what was wrong
	Err    error  // underlying cause, if any
}

func (e *ImportError) Error() string {
	msg := "invalid snapshot: " + e.Reason
	if e.ID != "" {
		msg = fmt.Sprintf("%s (id %s)", msg, e.ID)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ImportError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidSnapshot, e.Err}
	}
	return []error{ErrInvalidSnapshot}
}

func importErr(id ID, format string, args ...any) *ImportError {
	return &ImportError{ID: id, Reason: fmt.Sprintf(format, args...)}
}
