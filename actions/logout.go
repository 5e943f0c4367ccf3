package actions

import (
	"context"

	"github.com/jrsteele09/go-auth-client/internal/config"
)

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Logout asks the server to revoke the refresh token (default /api/auth/logout)
// and then clears the local session whatever the outcome.
func (a *Actions) Logout(ctx context.Context, endpoint string) {
	defer a.store.Clear()

	refreshToken, ok := a.store.RefreshToken()
	if !ok {
		return
	}
	resp, err := a.post(ctx, endpoint, config.DefaultLogoutPath, logoutRequest{RefreshToken: refreshToken})
	if err != nil {
		a.log.Err(err).Msg("logout request failed")
		return
	}
	if !resp.OK() {
		a.log.Warn().Int("status", resp.StatusCode).Msg("logout rejected")
	}
}
