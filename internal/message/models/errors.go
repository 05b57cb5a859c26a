package models

import dErrors "anonmsg/pkg/domain-errors"

// Failure kinds for sending and answering. Send and answer content errors
// share a kind, so errors.Is(err, ErrContentTooShort) matches both; the
// messages state the rule that applied.
var (
	ErrEmptyContent        = dErrors.NewKind(dErrors.CodeValidation, "empty_content", "message content cannot be empty")
	ErrContentTooShort     = dErrors.NewKind(dErrors.CodeValidation, "content_too_short", "message must be at least 10 characters")
	ErrContentTooLong      = dErrors.NewKind(dErrors.CodeValidation, "content_too_long", "message must be at most 1000 characters")
	ErrUnauthorizedContact = dErrors.NewKind(dErrors.CodeForbidden, "unauthorized_contact", "messages can only be sent to your own contacts")
	ErrContactNotFound     = dErrors.NewKind(dErrors.CodeNotFound, "contact_not_found", "contact not found")
	ErrSendToSelf          = dErrors.NewKind(dErrors.CodeForbidden, "send_to_self", "cannot send a message to yourself")
	ErrSendFailed          = dErrors.NewKind(dErrors.CodeInternal, "send_failed", "message could not be sent")

	ErrEmptyAnswer     = dErrors.NewKind(dErrors.CodeValidation, "empty_content", "answer content cannot be empty")
	ErrAnswerTooShort  = dErrors.NewKind(dErrors.CodeValidation, "content_too_short", "answer must be at least 5 characters")
	ErrAnswerTooLong   = dErrors.NewKind(dErrors.CodeValidation, "content_too_long", "answer must be at most 1000 characters")
	ErrUnauthorized    = dErrors.NewKind(dErrors.CodeForbidden, "unauthorized", "only the receiver can answer this message")
	ErrAlreadyAnswered = dErrors.NewKind(dErrors.CodeConflict, "already_answered", "message has already been answered")
	ErrMessageNotFound = dErrors.NewKind(dErrors.CodeNotFound, "message_not_found", "message not found")
	ErrAnswerFailed    = dErrors.NewKind(dErrors.CodeInternal, "answer_failed", "answer could not be saved")
)
