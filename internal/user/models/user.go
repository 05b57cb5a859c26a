package models

import (
	"time"

	id "anonmsg/pkg/domain"
	"anonmsg/pkg/platform/strings"
)

const (
	UsernameMinLength = 2
	UsernameMaxLength = 20
)

// User is a registered account.
//
// Invariants:
//   - ID, Email and CreatedAt never change after signup
//   - PersonalLink is created at signup, belongs to this user and is never replaced
//   - ProfileImageURL is optional; empty means no image
type User struct {
	ID              id.UserID    `json:"id"`
	Username        string       `json:"username"`
	Email           string       `json:"email"`
	ProfileImageURL string       `json:"profile_image_url,omitempty"`
	PersonalLink    PersonalLink `json:"personal_link"`
	CreatedAt       time.Time    `json:"created_at"`
}

// DisplayName is the name shown to other users.
func (u *User) DisplayName() string {
	return u.Username
}

// HasProfileImage reports whether an image reference is set.
func (u *User) HasProfileImage() bool {
	return u.ProfileImageURL != ""
}

// ValidateUsername applies the username rules to name as given: blank after
// trimming spaces is empty, and the length bounds count every character.
func ValidateUsername(name string) error {
	if strings.IsBlank(name) {
		return ErrEmptyUsername
	}
	n := strings.Len(name)
	if n < UsernameMinLength {
		return ErrUsernameTooShort
	}
	if n > UsernameMaxLength {
		return ErrUsernameTooLong
	}
	return nil
}
