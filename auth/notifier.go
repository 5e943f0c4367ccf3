package auth

import (
	"context"
	"net/url"

	"github.com/jrsteele09/go-auth-client/users"
	"github.com/rs/zerolog/log"
)

// Notifier delivers password reset tokens to users.
type Notifier interface {
	SendPasswordReset(ctx context.Context, user *users.User, token string) error
}

// LogNotifier writes the reset link to the log instead of sending mail.
type LogNotifier struct {
	BaseURL string
}

var _ Notifier = LogNotifier{}

func (n LogNotifier) SendPasswordReset(_ context.Context, user *users.User, token string) error {
	link := n.BaseURL + "/reset-password?token=" + url.QueryEscape(token)
	log.Info().
		Str("user_id", user.ID).
		Str("email", user.Email).
		Str("reset_link", link).
		Msg("password reset requested")
	return nil
}
