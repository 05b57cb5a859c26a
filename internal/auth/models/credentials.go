package models

import (
	"anonmsg/pkg/email"
	"anonmsg/pkg/platform/strings"

	usermodels "anonmsg/internal/user/models"
)

const (
	LoginPasswordMinLength  = 6
	SignupPasswordMinLength = 8
	PasswordMaxLength       = 50
)

// LoginInput is the raw login form.
type LoginInput struct {
	Email    string
	Password string
}

// Validate checks the email, then the password. The first failure wins.
func (in LoginInput) Validate() error {
	if err := validateEmail(in.Email); err != nil {
		return err
	}
	if in.Password == "" {
		return ErrEmptyPassword
	}
	if strings.Len(in.Password) < LoginPasswordMinLength {
		return errLoginPasswordTooShort
	}
	return nil
}

// SignupInput is the raw signup form.
type SignupInput struct {
	Username             string
	Email                string
	Password             string
	PasswordConfirmation string
}

// Validate checks username, email, password strength and finally the
// confirmation, stopping at the first failure.
func (in SignupInput) Validate() error {
	if err := usermodels.ValidateUsername(in.Username); err != nil {
		return err
	}
	if err := validateEmail(in.Email); err != nil {
		return err
	}
	switch n := strings.Len(in.Password); {
	case n == 0:
		return ErrEmptyPassword
	case n < SignupPasswordMinLength:
		return errSignupPasswordTooShort
	case n > PasswordMaxLength:
		return ErrPasswordTooLong
	}
	if !strings.ContainsLetterAndDigit(in.Password) {
		return ErrWeakPassword
	}
	if in.Password != in.PasswordConfirmation {
		return ErrPasswordMismatch
	}
	return nil
}

func validateEmail(addr string) error {
	if strings.IsBlank(addr) {
		return ErrEmptyEmail
	}
	if !email.IsValid(addr) {
		return ErrInvalidEmailFormat
	}
	return nil
}
