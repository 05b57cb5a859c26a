package models

import (
	"fmt"
	"time"

	dErrors "anonmsg/pkg/domain-errors"
)

// Failure kinds for contact operations. Match with errors.Is; use errors.As
// on *LimitReachedError, *ContactLockedError and *DeletionLockedError for
// their parameters.
var (
	ErrEmptyName           = dErrors.NewKind(dErrors.CodeValidation, "empty_name", "contact name cannot be empty")
	ErrNameTooLong         = dErrors.NewKind(dErrors.CodeValidation, "name_too_long", "contact name must be at most 50 characters")
	ErrRelationshipTooLong = dErrors.NewKind(dErrors.CodeValidation, "relationship_too_long", "relationship must be at most 20 characters")
	ErrMemoTooLong         = dErrors.NewKind(dErrors.CodeValidation, "memo_too_long", "memo must be at most 200 characters")
	ErrDuplicateName       = dErrors.NewKind(dErrors.CodeConflict, "duplicate_name", "a contact with this name already exists")
	ErrLimitReached        = dErrors.NewKind(dErrors.CodeForbidden, "limit_reached", "contact limit reached")
	ErrContactLocked       = dErrors.NewKind(dErrors.CodeLocked, "contact_locked", "contact cannot be deleted yet")
	ErrDeletionLocked      = dErrors.NewKind(dErrors.CodeLocked, "deletion_locked", "contact is inside its deletion lock period")
	ErrContactNotFound     = dErrors.NewKind(dErrors.CodeNotFound, "contact_not_found", "contact not found")
	ErrUpdateFailed        = dErrors.NewKind(dErrors.CodeInternal, "contact_update_failed", "contact update failed")
)

// LimitReachedError reports the quota that blocked AddContact.
type LimitReachedError struct {
	Current int
	Max     int
}

func (e *LimitReachedError) Error() string {
	return fmt.Sprintf("contact limit reached: %d of %d", e.Current, e.Max)
}

func (e *LimitReachedError) Unwrap() error { return ErrLimitReached }

// ContactLockedError reports when a locked contact becomes deletable.
type ContactLockedError struct {
	RemainingDays int
	DeletableAt   time.Time
}

func (e *ContactLockedError) Error() string {
	return fmt.Sprintf("contact can be deleted in %d day(s), at %s",
		e.RemainingDays, e.DeletableAt.UTC().Format(time.RFC3339))
}

func (e *ContactLockedError) Unwrap() error { return ErrContactLocked }

// DeletionLockedError is the policy-level form of ContactLockedError.
type DeletionLockedError struct {
	RemainingDays int
}

func (e *DeletionLockedError) Error() string {
	return fmt.Sprintf("contact can be deleted %d day(s) after the lock period", e.RemainingDays)
}

func (e *DeletionLockedError) Unwrap() error { return ErrDeletionLocked }
