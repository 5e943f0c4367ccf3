package actions

import (
	"context"

	"github.com/jrsteele09/go-auth-client/internal/config"
	"github.com/jrsteele09/go-auth-client/internal/utils"
)

// Default success messages when the server sends none.
const (
	MsgResetEmailSent = "If an account exists for that email, a password reset link has been sent."
	MsgPasswordReset  = "Your password has been reset. You can now sign in."
)

type ForgotPasswordFields struct {
	Email string `json:"email"`
}

type ResetPasswordFields struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type messageResponse struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

// ForgotPassword asks the server to send a reset link (default /api/auth/forgot-password).
func (a *Actions) ForgotPassword(ctx context.Context, _ MessageState, fields ForgotPasswordFields, endpoint string) MessageState {
	if msg := fields.validate(); msg != "" {
		return MessageState{Error: msg}
	}
	return a.submitMessage(ctx, endpoint, config.DefaultForgotPasswordPath, "Password reset request", MsgResetEmailSent, fields)
}

// ResetPassword sets a new password using a reset token (default /api/auth/reset-password).
func (a *Actions) ResetPassword(ctx context.Context, _ MessageState, fields ResetPasswordFields, endpoint string) MessageState {
	if msg := fields.validate(); msg != "" {
		return MessageState{Error: msg}
	}
	return a.submitMessage(ctx, endpoint, config.DefaultResetPasswordPath, "Password reset", MsgPasswordReset, fields)
}

func (a *Actions) submitMessage(ctx context.Context, endpoint, fallback, action, defaultMessage string, body any) MessageState {
	resp, err := a.post(ctx, endpoint, fallback, body)
	if err != nil {
		a.log.Err(err).Str("action", action).Msg("request failed")
		return MessageState{Error: MsgNetworkError}
	}
	if !resp.OK() {
		return MessageState{Error: failureMessage(action, resp.StatusCode, resp.ErrorMessage())}
	}

	var result messageResponse
	if err := resp.Decode(&result); err != nil {
		a.log.Err(err).Str("action", action).Msg("unreadable response")
		return MessageState{Error: MsgNetworkError}
	}
	if !utils.Value(result.Success) {
		if result.Message != "" {
			return MessageState{Error: result.Message}
		}
		return MessageState{Error: MsgInvalidResponse}
	}

	message := result.Message
	if message == "" {
		message = defaultMessage
	}
	return MessageState{Success: true, Message: message}
}
