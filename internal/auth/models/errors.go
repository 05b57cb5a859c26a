package models

import dErrors "anonmsg/pkg/domain-errors"

// Failure kinds for login, signup and logout. Username kinds are shared with
// the user module (usermodels.ErrEmptyUsername and friends).
var (
	ErrEmptyEmail         = dErrors.NewKind(dErrors.CodeValidation, "empty_email", "email cannot be empty")
	ErrInvalidEmailFormat = dErrors.NewKind(dErrors.CodeValidation, "invalid_email_format", "email format is invalid")
	ErrEmptyPassword      = dErrors.NewKind(dErrors.CodeValidation, "empty_password", "password cannot be empty")
	ErrPasswordTooLong    = dErrors.NewKind(dErrors.CodeValidation, "password_too_long", "password must be at most 50 characters")
	ErrWeakPassword       = dErrors.NewKind(dErrors.CodeValidation, "weak_password", "password must contain a letter and a digit")
	ErrPasswordMismatch   = dErrors.NewKind(dErrors.CodeValidation, "password_mismatch", "passwords do not match")

	ErrEmailAlreadyExists = dErrors.NewKind(dErrors.CodeConflict, "email_already_exists", "email is already in use")
	ErrInvalidCredentials = dErrors.NewKind(dErrors.CodeUnauthorized, "invalid_credentials", "email or password is incorrect")
	ErrUserNotFound       = dErrors.NewKind(dErrors.CodeNotFound, "user_not_found", "no account is registered for this email")
	ErrAccountLocked      = dErrors.NewKind(dErrors.CodeLocked, "account_locked", "account is locked")
	ErrNotAuthenticated   = dErrors.NewKind(dErrors.CodeUnauthorized, "not_authenticated", "not logged in")
	ErrLogoutFailed       = dErrors.NewKind(dErrors.CodeInternal, "logout_failed", "logout failed")
)

// ErrPasswordTooShort is the shared kind. Login and signup enforce different
// minimums and report them through the two values below.
var (
	ErrPasswordTooShort       = dErrors.NewKind(dErrors.CodeValidation, "password_too_short", "password is too short")
	errLoginPasswordTooShort  = dErrors.NewKind(dErrors.CodeValidation, "password_too_short", "password must be at least 6 characters")
	errSignupPasswordTooShort = dErrors.NewKind(dErrors.CodeValidation, "password_too_short", "password must be at least 8 characters")
)
