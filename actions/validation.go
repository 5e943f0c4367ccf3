package actions

import (
	"strings"
	"unicode/utf8"
)

// Validation messages.
const (
	MsgInvalidEmail       = "Please enter a valid email address"
	MsgPasswordTooShort   = "Password must be at least 6 characters"
	MsgResetPasswordShort = "Password must be at least 8 characters"
	MsgUsernameTooShort   = "Username must be at least 3 characters"
	MsgPasswordsDontMatch = "Passwords do not match"
	MsgFirstNameRequired  = "First name is required"
	MsgLastNameRequired   = "Last name is required"
	MsgResetTokenMissing  = "Reset token is missing or invalid"
)

const (
	minPasswordLength      = 6
	minResetPasswordLength = 8
	minUsernameLength      = 3
)

func validEmail(email string) bool {
	return strings.Contains(email, "@")
}

func minLength(s string, n int) bool {
	return utf8.RuneCountInString(s) >= n
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func (f LoginFields) validate() string {
	if !validEmail(f.Email) {
		return MsgInvalidEmail
	}
	if !minLength(f.Password, minPasswordLength) {
		return MsgPasswordTooShort
	}
	return ""
}

func (f SignupFields) validate() string {
	switch {
	case !validEmail(f.Email):
		return MsgInvalidEmail
	case !minLength(f.Username, minUsernameLength):
		return MsgUsernameTooShort
	case !minLength(f.Password, minPasswordLength):
		return MsgPasswordTooShort
	case f.Password != f.ConfirmPassword:
		return MsgPasswordsDontMatch
	case blank(f.FirstName):
		return MsgFirstNameRequired
	case blank(f.LastName):
		return MsgLastNameRequired
	}
	return ""
}

func (f ForgotPasswordFields) validate() string {
	if !validEmail(f.Email) {
		return MsgInvalidEmail
	}
	return ""
}

// A mismatch is reported before anything else so it always yields MsgPasswordsDontMatch.
func (f ResetPasswordFields) validate() string {
	switch {
	case f.Password != f.ConfirmPassword:
		return MsgPasswordsDontMatch
	case f.Token == "":
		return MsgResetTokenMissing
	case !minLength(f.Password, minResetPasswordLength):
		return MsgResetPasswordShort
	}
	return ""
}
