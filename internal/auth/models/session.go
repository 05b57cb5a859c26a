package models

import (
	"time"

	id "anonmsg/pkg/domain"
)

// Credential is the stored login secret for one account.
type Credential struct {
	UserID       id.UserID
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// SessionClaims is what a verified session token carries.
type SessionClaims struct {
	UserID    id.UserID
	JTI       string
	ExpiresAt time.Time
}
