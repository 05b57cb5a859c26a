package models

import dErrors "anonmsg/pkg/domain-errors"

// Failure kinds for username rules and profile operations. Match with errors.Is.
var (
	ErrEmptyUsername    = dErrors.NewKind(dErrors.CodeValidation, "empty_username", "username cannot be empty")
	ErrUsernameTooShort = dErrors.NewKind(dErrors.CodeValidation, "username_too_short", "username must be at least 2 characters")
	ErrUsernameTooLong  = dErrors.NewKind(dErrors.CodeValidation, "username_too_long", "username must be at most 20 characters")
	ErrUserNotFound     = dErrors.NewKind(dErrors.CodeNotFound, "user_not_found", "user not found")
	ErrUpdateFailed     = dErrors.NewKind(dErrors.CodeInternal, "profile_update_failed", "profile update failed")
	ErrInvalidLinkToken = dErrors.NewKind(dErrors.CodeValidation, "invalid_link_token", "personal link token is invalid")
)
