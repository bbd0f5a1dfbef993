package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks input that violates snippet or profile constraints.
	ErrValidation = errors.New("validation failed")
	// ErrNotAuthorized is returned when an actor modifies a snippet they do not own.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrNotAuthenticated is returned when an anonymous actor attempts a user-only action.
	ErrNotAuthenticated = errors.New("authentication required")
	// ErrNotFound is returned when a snippet or profile does not exist or is not visible.
	ErrNotFound = errors.New("not found")
	// ErrEnrichmentUnavailable is non-fatal; callers replace it with fallback metadata.
	ErrEnrichmentUnavailable = errors.New("enrichment unavailable")
	// ErrPersistence is the opaque storage failure surfaced to callers.
	ErrPersistence = errors.New("persistence failure")
)

// ValidationError names the first violated rule.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// PersistenceError wraps a storage failure for operation Op.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Is lets errors.Is(err, ErrPersistence) match while Unwrap keeps the cause reachable.
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

func (e *PersistenceError) Unwrap() error { return e.Err }
