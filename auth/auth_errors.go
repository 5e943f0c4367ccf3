package auth

import (
	"errors"

	apperrors "github.com/jrsteele09/go-auth-client/internal/errors"
)

var (
	UserBlockedErr            = errors.New("user blocked")
	UserPasswordsDontMatchErr = errors.New("user passwords not matched")
	MissingFieldsErr          = errors.New("missing required fields")
	UsernameTakenErr          = apperrors.ErrUsernameTaken
)
