package actions

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-auth-client/internal/config"
	"github.com/jrsteele09/go-auth-client/session"
)

type LoginFields struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupFields struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
}

// authResponse is the body of a successful login or signup.
type authResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	UserID       string `json:"userId,omitempty"`
	ClientID     string `json:"clientId,omitempty"`
	User         *User  `json:"user"`
}

func (r authResponse) complete() bool {
	return r.AccessToken != "" && r.RefreshToken != "" && r.User != nil
}

func (r authResponse) loginData() session.LoginData {
	userID := r.UserID
	if userID == "" {
		userID = r.User.ID
	}
	return session.LoginData{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		UserID:       userID,
		ClientID:     r.ClientID,
	}
}

// Login validates fields and posts them to endpoint (default /api/auth/login).
// On success the session is stored and the returned state carries the user.
func (a *Actions) Login(ctx context.Context, _ LoginState, fields LoginFields, endpoint string) LoginState {
	if msg := fields.validate(); msg != "" {
		return LoginState{Error: msg}
	}
	user, errMsg := a.authenticate(ctx, endpoint, config.DefaultLoginPath, "Login", fields)
	if errMsg != "" {
		return LoginState{Error: errMsg}
	}
	return LoginState{Success: true, User: user}
}

// Signup validates fields and posts them to endpoint (default /api/auth/signup).
// A successful signup logs the user in.
func (a *Actions) Signup(ctx context.Context, _ SignupState, fields SignupFields, endpoint string) SignupState {
	if msg := fields.validate(); msg != "" {
		return SignupState{Error: msg}
	}
	user, errMsg := a.authenticate(ctx, endpoint, config.DefaultSignupPath, "Signup", fields)
	if errMsg != "" {
		return SignupState{Error: errMsg}
	}
	return SignupState{Success: true, User: user}
}

// authenticate posts body and, on a complete token response, stores the session.
// It returns either the user or a user-facing error message.
func (a *Actions) authenticate(ctx context.Context, endpoint, fallback, action string, body any) (*User, string) {
	resp, err := a.post(ctx, endpoint, fallback, body)
	if err != nil {
		a.log.Err(err).Str("action", action).Msg("request failed")
		return nil, MsgNetworkError
	}
	if !resp.OK() {
		return nil, failureMessage(action, resp.StatusCode, resp.ErrorMessage())
	}

	var auth authResponse
	if err := resp.Decode(&auth); err != nil {
		a.log.Err(err).Str("action", action).Msg("unreadable response")
		return nil, MsgNetworkError
	}
	if !auth.complete() {
		return nil, MsgInvalidResponse
	}

	a.store.StoreLoginData(auth.loginData())
	return auth.User, ""
}

// failureMessage prefers the server's message over "<Action> failed (<status>)".
func failureMessage(action string, status int, serverMessage string) string {
	if serverMessage != "" {
		return serverMessage
	}
	return fmt.Sprintf("%s failed (%d)", action, status)
}
