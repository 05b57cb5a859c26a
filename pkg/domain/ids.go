// Package domain holds typed identifiers shared across modules.
//
// Each aggregate gets its own ID type so the compiler rejects passing a
// ContactID where a MessageID is expected. All IDs are UUIDs under the hood.
package domain

import (
	"github.com/google/uuid"

	dErrors "anonmsg/pkg/domain-errors"
)

type (
	UserID    uuid.UUID
	ContactID uuid.UUID
	MessageID uuid.UUID
	AnswerID  uuid.UUID
)

func (id UserID) String() string    { return uuid.UUID(id).String() }
func (id ContactID) String() string { return uuid.UUID(id).String() }
func (id MessageID) String() string { return uuid.UUID(id).String() }
func (id AnswerID) String() string  { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id ContactID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id MessageID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id AnswerID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }

func NewUserID() UserID       { return UserID(uuid.New()) }
func NewContactID() ContactID { return ContactID(uuid.New()) }
func NewMessageID() MessageID { return MessageID(uuid.New()) }
func NewAnswerID() AnswerID   { return AnswerID(uuid.New()) }

// ParseUserID parses a non-nil UUID string into a UserID.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user ID")
	return UserID(u), err
}

// ParseContactID parses a non-nil UUID string into a ContactID.
func ParseContactID(s string) (ContactID, error) {
	u, err := parseUUID(s, "contact ID")
	return ContactID(u), err
}

// ParseMessageID parses a non-nil UUID string into a MessageID.
func ParseMessageID(s string) (MessageID, error) {
	u, err := parseUUID(s, "message ID")
	return MessageID(u), err
}

// ParseAnswerID parses a non-nil UUID string into an AnswerID.
func ParseAnswerID(s string) (AnswerID, error) {
	u, err := parseUUID(s, "answer ID")
	return AnswerID(u), err
}

func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be nil")
	}
	return u, nil
}
