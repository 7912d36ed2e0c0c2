package engine

import (
	"errors"
	"fmt"
)

// Error kinds. Concrete errors below match one of these via errors.Is.
var (
	ErrAlreadyCompleted = errors.New("already completed")
	ErrAlreadyUnlocked  = errors.New("skill already unlocked")
	ErrNotAvailable     = errors.New("skill not available: unlock its parent first")
	ErrNotFound         = errors.New("not found")
	ErrInvariant        = errors.New("invariant violation")
)

// NotFoundError reports a missing (or not owned) entity.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e NotFoundError) Is(target error) bool { return target == ErrNotFound }

// InvariantError indicates a caller bug. It is raised before any mutation.
type InvariantError struct {
	Reason string
}

func (e InvariantError) Error() string {
	return "invariant violation: " + e.Reason
}

func (e InvariantError) Is(target error) bool { return target == ErrInvariant }

// CompletedError is returned when completing a quest or objective twice.
type CompletedError struct {
	Entity string
	ID     string
}

func (e CompletedError) Error() string {
	return fmt.Sprintf("%s %s is already completed", e.Entity, e.ID)
}

func (e CompletedError) Is(target error) bool { return target == ErrAlreadyCompleted }

// CapacityError indicates the per-user limit of active roles was reached.
type CapacityError struct {
	Limit int
}

func (e CapacityError) Error() string {
	return fmt.Sprintf("too many active roles (limit %d)", e.Limit)
}

// ValidationError reports bad user input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}
