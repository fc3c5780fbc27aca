package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both a missing record and a record outside the
	// caller's visibility scope, so unauthorized callers cannot probe
	// for existence.
	ErrNotFound = errors.New("record not found")

	// ErrForbidden is returned when the authorization gate denies an
	// operation for the caller's role or account ownership.
	ErrForbidden = errors.New("operation not permitted")

	// ErrConflict signals that a concurrent modification won the race;
	// the caller should re-read the post and retry.
	ErrConflict = errors.New("post was modified concurrently")
)

// InvalidTransitionError 表示请求的状态变更不在合法边集合内
type InvalidTransitionError struct {
	Current   Status
	Requested Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: %s -> %s", e.Current, e.Requested)
}

// NewInvalidTransition builds an InvalidTransitionError for the given edge.
func NewInvalidTransition(current, requested Status) error {
	return &InvalidTransitionError{Current: current, Requested: requested}
}

// IsInvalidTransition reports whether err is an InvalidTransitionError.
func IsInvalidTransition(err error) bool {
	var ite *InvalidTransitionError
	return errors.As(err, &ite)
}
