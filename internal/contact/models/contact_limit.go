package models

import (
	"fmt"
	"math"
	"time"
)

// MaxFreeContacts is the contact quota for non-premium users.
const MaxFreeContacts = 5

// ContactLimit is the quota policy for one user at one moment. Premium users
// are unbounded (MaxContacts returns math.MaxInt).
type ContactLimit struct {
	CurrentCount int
	IsPremium    bool
}

func (l ContactLimit) MaxContacts() int {
	if l.IsPremium {
		return math.MaxInt
	}
	return MaxFreeContacts
}

func (l ContactLimit) CanAddContact() bool {
	return l.CurrentCount < l.MaxContacts()
}

func (l ContactLimit) RemainingSlots() int {
	return max(0, l.MaxContacts()-l.CurrentCount)
}

func (l ContactLimit) IsLimitReached() bool {
	return !l.CanAddContact()
}

// NeedsUpgrade reports a free user who has used every slot.
func (l ContactLimit) NeedsUpgrade() bool {
	return !l.IsPremium && l.IsLimitReached()
}

// StatusMessage renders usage, e.g. "3 / 5".
func (l ContactLimit) StatusMessage() string {
	if l.IsPremium {
		return "Premium: unlimited"
	}
	return fmt.Sprintf("%d / %d", l.CurrentCount, l.MaxContacts())
}

// LimitMessage explains the quota once it is reached, otherwise "".
func (l ContactLimit) LimitMessage() string {
	if !l.IsLimitReached() {
		return ""
	}
	return fmt.Sprintf("The free plan allows up to %d contacts.", MaxFreeContacts)
}

// ValidateAddContact fails with *LimitReachedError when no slot is left.
func (l ContactLimit) ValidateAddContact() error {
	if !l.CanAddContact() {
		return &LimitReachedError{Current: l.CurrentCount, Max: l.MaxContacts()}
	}
	return nil
}

// ValidateDeleteContact fails with *DeletionLockedError inside the lock period.
func (l ContactLimit) ValidateDeleteContact(c *Contact, now time.Time) error {
	if !c.IsDeletableAt(now) {
		return &DeletionLockedError{RemainingDays: c.RemainingLockDays(now)}
	}
	return nil
}
