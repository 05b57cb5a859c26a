package models

import "anonmsg/pkg/platform/patch"

// ProfilePatch is a partial profile update. Absent fields keep the stored
// value; a cleared ProfileImageURL removes the image.
type ProfilePatch struct {
	Username        patch.Field[string]
	ProfileImageURL patch.Field[string]
}

func (p ProfilePatch) IsEmpty() bool {
	return p.Username.IsAbsent() && p.ProfileImageURL.IsAbsent()
}

// Validate checks the username only when the patch sets one.
func (p ProfilePatch) Validate() error {
	if p.Username.IsCleared() {
		return ErrEmptyUsername
	}
	if name, ok := p.Username.Value(); ok {
		return ValidateUsername(name)
	}
	return nil
}

// Apply merges the patch over u. Identity fields are never touched.
func (p ProfilePatch) Apply(u User) User {
	u.Username = p.Username.Apply(u.Username)
	u.ProfileImageURL = p.ProfileImageURL.Apply(u.ProfileImageURL)
	return u
}
