package models

import (
	"fmt"

	id "anonmsg/pkg/domain"
)

// Status is the derived answer state of a message.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAnswered Status = "answered"
)

func (s Status) DisplayText() string {
	switch s {
	case StatusAnswered:
		return "Answered"
	default:
		return "Awaiting answer"
	}
}

// IconName is the symbol the client renders next to the status.
func (s Status) IconName() string {
	if s == StatusAnswered {
		return "checkmark.circle.fill"
	}
	return "clock"
}

// HistoryKind selects which message query backs a history view.
type HistoryKind int

const (
	HistorySent HistoryKind = iota
	HistoryReceived
	HistoryForContact
)

// HistoryType is a history selector. ContactID is only read for
// HistoryForContact.
type HistoryType struct {
	Kind      HistoryKind
	ContactID id.ContactID
}

var (
	Sent     = HistoryType{Kind: HistorySent}
	Received = HistoryType{Kind: HistoryReceived}
)

func ForContact(contactID id.ContactID) HistoryType {
	return HistoryType{Kind: HistoryForContact, ContactID: contactID}
}

func (h HistoryType) DisplayName() string {
	switch h.Kind {
	case HistorySent:
		return "Sent"
	case HistoryReceived:
		return "Received"
	default:
		return "Conversation"
	}
}

func (h HistoryType) String() string {
	switch h.Kind {
	case HistorySent:
		return "sent"
	case HistoryReceived:
		return "received"
	case HistoryForContact:
		return fmt.Sprintf("contact:%s", h.ContactID)
	}
	return "unknown"
}
