package models

import id "anonmsg/pkg/domain"

// SendMessageRequest carries the fields for SendMessage.
type SendMessageRequest struct {
	SenderID    id.UserID
	ContactID   id.ContactID
	Content     string
	IsAnonymous bool
}
