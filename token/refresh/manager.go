package refresh

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/jrsteele09/go-auth-client/internal/config"
	"github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/rs/zerolog/log"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Manager handles refresh token creation, validation, and revocation
type Manager struct {
	repo   Repo
	config config.OAuthConfig
}

// NewManager creates a new refresh token manager
func NewManager(repo Repo, cfg config.OAuthConfig) *Manager {
	return &Manager{
		repo:   repo,
		config: cfg,
	}
}

// Create generates a new refresh token and stores it. A user holds a single
// refresh token, so any previous one is revoked.
func (m *Manager) Create(ctx context.Context, clientID, userID string) (string, error) {
	if existing, err := m.repo.GetByUserID(ctx, userID); err == nil && existing != nil {
		if err := m.repo.Delete(ctx, existing.Token); err != nil && !errors.Is(err, errors.ErrNotFound) {
			return "", fmt.Errorf("failed to delete existing refresh token: %w", err)
		}
	}

	tokenBytes := make([]byte, m.config.GetRefreshTokenLength())
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	now := NowTimeFunc()
	tokenStr := hex.EncodeToString(tokenBytes)
	if err := m.repo.Upsert(ctx, &StoredRefreshToken{
		Token:     tokenStr,
		UserID:    userID,
		ClientID:  clientID,
		IssuedAt:  now,
		ExpiresAt: now.Add(m.config.GetDefaultRefreshTokenExpiry()),
	}); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return tokenStr, nil
}

// Validate returns the stored token if it exists and has not expired.
// Expired tokens are removed.
func (m *Manager) Validate(ctx context.Context, token string) (*StoredRefreshToken, error) {
	if token == "" {
		return nil, errors.ErrInvalidRefreshToken
	}
	rt, err := m.repo.Get(ctx, token)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to load refresh token: %w", err)
	}
	if m.IsExpired(rt) {
		if err := m.repo.Delete(ctx, token); err != nil && !errors.Is(err, errors.ErrNotFound) {
			log.Warn().Err(err).Str("user_id", rt.UserID).Msg("failed to delete expired refresh token")
		}
		return nil, errors.ErrRefreshTokenExpired
	}
	return rt, nil
}

// Revoke removes a refresh token. Unknown tokens are not an error.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	if err := m.repo.Delete(ctx, token); err != nil && !errors.Is(err, errors.ErrNotFound) {
		return err
	}
	return nil
}

// IsExpired checks if a refresh token has expired
func (m *Manager) IsExpired(rt *StoredRefreshToken) bool {
	if rt.ExpiresAt.IsZero() {
		return NowTimeFunc().Sub(rt.IssuedAt) > m.config.GetDefaultRefreshTokenExpiry()
	}
	return !NowTimeFunc().Before(rt.ExpiresAt)
}
