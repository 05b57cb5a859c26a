package models

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "anonmsg/pkg/domain"
)

var now = time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)

func TestValidateFields(t *testing.T) {
	tests := []struct {
		name         string
		contactName  string
		relationship string
		memo         string
		want         error
	}{
		{"valid minimal", "Mina", "", "", nil},
		{"blank name", "  ", "", "", ErrEmptyName},
		{"newline name is not blank", "\n", "", "", nil},
		{"name at limit", strings.Repeat("n", 50), "", "", nil},
		{"name too long", strings.Repeat("n", 51), "", "", ErrNameTooLong},
		{"relationship at limit", "Mina", strings.Repeat("r", 20), "", nil},
		{"relationship too long", "Mina", strings.Repeat("r", 21), "", ErrRelationshipTooLong},
		{"memo at limit", "Mina", "", strings.Repeat("m", 200), nil},
		{"memo too long", "Mina", "", strings.Repeat("m", 201), ErrMemoTooLong},
		{"name checked before relationship", "", strings.Repeat("r", 21), "", ErrEmptyName},
		{"relationship checked before memo", "Mina", strings.Repeat("r", 21), strings.Repeat("m", 201), ErrRelationshipTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFields(tt.contactName, tt.relationship, tt.memo)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewContact(t *testing.T) {
	owner := id.NewUserID()
	contactID := id.NewContactID()

	c, err := NewContact(contactID, owner, "Mina", "friend", "", now)
	require.NoError(t, err)
	assert.Equal(t, contactID, c.ID)
	assert.Equal(t, owner, c.OwnerUserID)
	assert.Equal(t, now, c.RegisteredAt)

	_, err = NewContact(contactID, owner, "", "", "", now)
	require.ErrorIs(t, err, ErrEmptyName)
}

func TestContact_LockWindow(t *testing.T) {
	tests := []struct {
		name          string
		age           time.Duration
		deletable     bool
		remainingDays int
		message       string
	}{
		{"just registered", 0, false, 3, "Deletable in 3 day(s)"},
		{"two days old", 48 * time.Hour, false, 1, "Deletable in 1 day(s)"},
		{"one minute short", 72*time.Hour - time.Minute, false, 1, "Deletable in 1 day(s)"},
		{"exactly at boundary", 72 * time.Hour, true, 0, ""},
		{"four days old", 96 * time.Hour, true, 0, ""},
		{"partial day rounds up", 36 * time.Hour, false, 2, "Deletable in 2 day(s)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Contact{RegisteredAt: now.Add(-tt.age)}
			assert.Equal(t, now.Add(-tt.age).Add(72*time.Hour), c.DeletableAt())
			assert.Equal(t, tt.deletable, c.IsDeletableAt(now))
			assert.Equal(t, tt.remainingDays, c.RemainingLockDays(now))
			assert.Equal(t, tt.message, c.LockStatusMessage(now))
		})
	}
}

func TestContactLimit(t *testing.T) {
	t.Run("free user under quota", func(t *testing.T) {
		l := ContactLimit{CurrentCount: 3}
		assert.Equal(t, 5, l.MaxContacts())
		assert.True(t, l.CanAddContact())
		assert.Equal(t, 2, l.RemainingSlots())
		assert.False(t, l.NeedsUpgrade())
		assert.Equal(t, "3 / 5", l.StatusMessage())
		assert.Empty(t, l.LimitMessage())
		assert.NoError(t, l.ValidateAddContact())
	})

	t.Run("free user at quota", func(t *testing.T) {
		l := ContactLimit{CurrentCount: 5}
		assert.False(t, l.CanAddContact())
		assert.True(t, l.IsLimitReached())
		assert.True(t, l.NeedsUpgrade())
		assert.Equal(t, 0, l.RemainingSlots())
		assert.NotEmpty(t, l.LimitMessage())

		err := l.ValidateAddContact()
		require.ErrorIs(t, err, ErrLimitReached)
		var limitErr *LimitReachedError
		require.True(t, errors.As(err, &limitErr))
		assert.Equal(t, 5, limitErr.Current)
		assert.Equal(t, 5, limitErr.Max)
	})

	t.Run("premium is unbounded", func(t *testing.T) {
		l := ContactLimit{CurrentCount: 1000, IsPremium: true}
		assert.Equal(t, math.MaxInt, l.MaxContacts())
		assert.True(t, l.CanAddContact())
		assert.False(t, l.NeedsUpgrade())
		assert.Equal(t, "Premium: unlimited", l.StatusMessage())
		assert.NoError(t, l.ValidateAddContact())
	})

	t.Run("deletion lock", func(t *testing.T) {
		l := ContactLimit{}
		locked := &Contact{RegisteredAt: now.Add(-48 * time.Hour)}
		err := l.ValidateDeleteContact(locked, now)
		require.ErrorIs(t, err, ErrDeletionLocked)
		var lockErr *DeletionLockedError
		require.True(t, errors.As(err, &lockErr))
		assert.Equal(t, 1, lockErr.RemainingDays)

		free := &Contact{RegisteredAt: now.Add(-96 * time.Hour)}
		assert.NoError(t, l.ValidateDeleteContact(free, now))
	})
}

func TestContactLockedError(t *testing.T) {
	err := &ContactLockedError{RemainingDays: 2, DeletableAt: now}
	assert.ErrorIs(t, err, ErrContactLocked)
	assert.False(t, errors.Is(err, ErrDeletionLocked))
	assert.Contains(t, err.Error(), "2 day(s)")
}
