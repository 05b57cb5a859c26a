package audit

import (
	"context"
	"time"

	id "anonmsg/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// The relay routes each category to its own Kafka topic suffix.
type EventCategory string

const (
	// CategoryAccount covers account lifecycle: signup, profile changes.
	CategoryAccount EventCategory = "account"

	// CategorySecurity covers authentication outcomes and privileged actions.
	CategorySecurity EventCategory = "security"

	// CategoryActivity covers routine contact and message activity.
	CategoryActivity EventCategory = "activity"
)

// Event is emitted from use cases to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	UserID    id.UserID
	Subject   string
	Action    string
	Reason    string
	RequestID string
}

type AuditEvent string

const (
	// Auth events
	EventUserSignedUp  AuditEvent = "user_signed_up"
	EventUserLoggedIn  AuditEvent = "user_logged_in"
	EventUserLoggedOut AuditEvent = "user_logged_out"
	EventLoginFailed   AuditEvent = "login_failed"
	EventAccountLocked AuditEvent = "account_locked"

	// Profile events
	EventProfileUpdated AuditEvent = "profile_updated"

	// Contact events
	EventContactAdded        AuditEvent = "contact_added"
	EventContactUpdated      AuditEvent = "contact_updated"
	EventContactDeleted      AuditEvent = "contact_deleted"
	EventContactForceDeleted AuditEvent = "contact_force_deleted"

	// Message events
	EventMessageSent     AuditEvent = "message_sent"
	EventMessageAnswered AuditEvent = "message_answered"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventUserSignedUp:   CategoryAccount,
	EventProfileUpdated: CategoryAccount,

	EventUserLoggedIn:        CategorySecurity,
	EventUserLoggedOut:       CategorySecurity,
	EventLoginFailed:         CategorySecurity,
	EventAccountLocked:       CategorySecurity,
	EventContactForceDeleted: CategorySecurity,

	EventContactAdded:    CategoryActivity,
	EventContactUpdated:  CategoryActivity,
	EventContactDeleted:  CategoryActivity,
	EventMessageSent:     CategoryActivity,
	EventMessageAnswered: CategoryActivity,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryActivity.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryActivity
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByUser(ctx context.Context, userID id.UserID) ([]Event, error)
}
