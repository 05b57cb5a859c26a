package models

import (
	"time"

	id "anonmsg/pkg/domain"
	"anonmsg/pkg/platform/strings"
)

const (
	MessageMinLength = 10
	AnswerMinLength  = 5
	ContentMaxLength = 1000
)

// Message is a one-way note from a sender to a receiver.
//
// Invariants:
//   - Status is derived from Answer, never stored
//   - Answer is set at most once and never replaced
type Message struct {
	ID          id.MessageID  `json:"id"`
	SenderID    id.UserID     `json:"sender_id"`
	ReceiverID  id.UserID     `json:"receiver_id"`
	ContactID   *id.ContactID `json:"contact_id,omitempty"`
	Content     string        `json:"content"`
	IsAnonymous bool          `json:"is_anonymous"`
	SentAt      time.Time     `json:"sent_at"`
	Answer      *Answer       `json:"answer,omitempty"`
}

func (m *Message) Status() Status {
	if m.Answer == nil {
		return StatusPending
	}
	return StatusAnswered
}

func (m *Message) IsAnswered() bool {
	return m.Answer != nil
}

// DisplaySenderName is what a receiver sees in place of the sender. Named
// senders are resolved by the caller, so non-anonymous messages read "Unknown"
// here.
func (m *Message) DisplaySenderName() string {
	if m.IsAnonymous {
		return "Anonymous"
	}
	return "Unknown"
}

// IsEmpty reports content that is blank after trimming whitespace and newlines.
func (m *Message) IsEmpty() bool {
	return strings.TrimAll(m.Content) == ""
}

// SentBetween reports whether SentAt falls in [start, end].
func (m *Message) SentBetween(start, end time.Time) bool {
	return !m.SentAt.Before(start) && !m.SentAt.After(end)
}

// Answer is the receiver's single reply to a message.
type Answer struct {
	ID         id.AnswerID  `json:"id"`
	MessageID  id.MessageID `json:"message_id"`
	Content    string       `json:"content"`
	AnsweredAt time.Time    `json:"answered_at"`
}

func (a *Answer) IsEmpty() bool {
	return strings.TrimAll(a.Content) == ""
}

// ValidateMessageContent checks send content after trimming whitespace and
// newlines: non-empty, then 10 to 1000 characters.
func ValidateMessageContent(content string) error {
	trimmed := strings.TrimAll(content)
	switch n := strings.Len(trimmed); {
	case n == 0:
		return ErrEmptyContent
	case n < MessageMinLength:
		return ErrContentTooShort
	case n > ContentMaxLength:
		return ErrContentTooLong
	}
	return nil
}

// ValidateAnswerContent is ValidateMessageContent with a 5 character minimum.
func ValidateAnswerContent(content string) error {
	trimmed := strings.TrimAll(content)
	switch n := strings.Len(trimmed); {
	case n == 0:
		return ErrEmptyAnswer
	case n < AnswerMinLength:
		return ErrAnswerTooShort
	case n > ContentMaxLength:
		return ErrAnswerTooLong
	}
	return nil
}
