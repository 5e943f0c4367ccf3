package session

import (
	"context"
	"strconv"
)

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// RefreshAccessToken exchanges the refresh token cookie for a new access token
// at endpoint. It reports false without touching the network when there is no
// refresh token, and false on any failure; failures are logged, not returned.
//
// Concurrent callers for the same endpoint and refresh token share one
// request. The shared request is not cancelled when one caller's ctx is; each
// caller stops waiting when its own ctx is done. A result that arrives after
// the session was cleared or replaced is discarded.
func (s *Store) RefreshAccessToken(ctx context.Context, endpoint string) bool {
	generation := s.currentGeneration()
	refreshToken, ok := s.RefreshToken()
	if !ok || refreshToken == "" {
		return false
	}

	key := endpoint + "\x00" + refreshToken + "\x00" + strconv.FormatUint(generation, 10)
	shared := context.WithoutCancel(ctx)
	ch := s.refreshes.DoChan(key, func() (any, error) {
		return s.refresh(shared, endpoint, refreshToken, generation), nil
	})

	select {
	case res := <-ch:
		return res.Val.(bool)
	case <-ctx.Done():
		s.log.Debug().Err(ctx.Err()).Str("endpoint", endpoint).Msg("stopped waiting for token refresh")
		return false
	}
}

func (s *Store) refresh(ctx context.Context, endpoint, refreshToken string, generation uint64) bool {
	resp, err := s.transport.PostJSON(ctx, endpoint, refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		s.log.Err(err).Str("endpoint", endpoint).Msg("token refresh failed")
		return false
	}
	if !resp.OK() {
		s.log.Warn().Int("status", resp.StatusCode).Str("endpoint", endpoint).Msg("token refresh rejected")
		return false
	}

	var body refreshResponse
	if err := resp.Decode(&body); err != nil {
		s.log.Err(err).Str("endpoint", endpoint).Msg("token refresh returned an unreadable body")
		return false
	}
	if body.AccessToken == "" {
		s.log.Warn().Str("endpoint", endpoint).Msg("token refresh response has no access token")
		return false
	}

	if !s.setAccessTokenIf(generation, body.AccessToken) {
		s.log.Debug().Str("endpoint", endpoint).Msg("session changed during token refresh, discarding token")
		return false
	}
	return true
}
