package battle

import (
	"errors"
	"fmt"
)

// Error kinds used across the engine. Handlers and callers match against
// these sentinels with errors.Is; the concrete errors carry the entity
// and the violated invariant in their message.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("concurrency conflict")
)

// NotFoundError reports a referenced id that does not exist. It is
// surfaced to the caller and never retried.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d: not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// InvalidStateError reports an operation attempted against a terminal
// session or a slot whose flags forbid it.
type InvalidStateError struct {
	Entity string
	Detail string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s: %s", e.Entity, e.Detail)
}

func (e *InvalidStateError) Is(target error) bool { return target == ErrInvalidState }

// ValidationError reports malformed input, rejected before any mutation.
type ValidationError struct {
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Detail)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ConflictError reports that the atomic turn-resolution transaction lost
// against a concurrent write. The service retries a bounded number of
// times before surfacing it.
type ConflictError struct {
	BattleID uint
	Detail   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("battle %d: %s", e.BattleID, e.Detail)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// Convenience matchers for wrapped errors.
func IsNotFound(err error) bool     { return errors.Is(err, ErrNotFound) }
func IsInvalidState(err error) bool { return errors.Is(err, ErrInvalidState) }
func IsValidation(err error) bool   { return errors.Is(err, ErrValidation) }
func IsConflict(err error) bool     { return errors.Is(err, ErrConflict) }
