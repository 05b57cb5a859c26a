package models

import (
	"fmt"
	"math"
	"time"

	id "anonmsg/pkg/domain"
	"anonmsg/pkg/platform/strings"
)

const (
	NameMaxLength         = 50
	RelationshipMaxLength = 20
	MemoMaxLength         = 200

	// DeletionLockPeriod is how long a new contact cannot be deleted.
	DeletionLockPeriod = 72 * time.Hour
)

// Contact is a recipient registered by a user.
//
// Invariants:
//   - Name is not blank and at most NameMaxLength characters
//   - Relationship and Memo are optional (empty means unset) and bounded
//   - Name is unique among the owner's contacts
//   - RegisteredAt never changes; the contact cannot be deleted before
//     RegisteredAt + DeletionLockPeriod except through a forced delete
type Contact struct {
	ID           id.ContactID `json:"id"`
	OwnerUserID  id.UserID    `json:"owner_user_id"`
	Name         string       `json:"name"`
	Relationship string       `json:"relationship,omitempty"`
	Memo         string       `json:"memo,omitempty"`
	RegisteredAt time.Time    `json:"registered_at"`
}

// NewContact validates the fields and builds a contact registered at now.
func NewContact(contactID id.ContactID, owner id.UserID, name, relationship, memo string, now time.Time) (*Contact, error) {
	if err := ValidateFields(name, relationship, memo); err != nil {
		return nil, err
	}
	return &Contact{
		ID:           contactID,
		OwnerUserID:  owner,
		Name:         name,
		Relationship: relationship,
		Memo:         memo,
		RegisteredAt: now,
	}, nil
}

// ValidateFields applies the contact field rules in order: name, then
// relationship, then memo. Optional fields are only checked when non-empty.
func ValidateFields(name, relationship, memo string) error {
	if strings.IsBlank(name) {
		return ErrEmptyName
	}
	if strings.Len(name) > NameMaxLength {
		return ErrNameTooLong
	}
	if relationship != "" && strings.Len(relationship) > RelationshipMaxLength {
		return ErrRelationshipTooLong
	}
	if memo != "" && strings.Len(memo) > MemoMaxLength {
		return ErrMemoTooLong
	}
	return nil
}

// DeletableAt is the first instant the contact can be deleted.
func (c *Contact) DeletableAt() time.Time {
	return c.RegisteredAt.Add(DeletionLockPeriod)
}

// IsDeletableAt reports whether the lock period has ended at now.
func (c *Contact) IsDeletableAt(now time.Time) bool {
	return !now.Before(c.DeletableAt())
}

// RemainingLockDays rounds the time left in the lock period up to whole days.
func (c *Contact) RemainingLockDays(now time.Time) int {
	remaining := c.DeletableAt().Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining.Hours() / 24))
}

// LockStatusMessage describes the remaining lock, or "" when deletable.
func (c *Contact) LockStatusMessage(now time.Time) string {
	if c.IsDeletableAt(now) {
		return ""
	}
	return fmt.Sprintf("Deletable in %d day(s)", c.RemainingLockDays(now))
}
