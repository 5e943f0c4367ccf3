// Package reset issues single-use password reset tokens.
package reset

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-auth-client/internal/config"
	"github.com/jrsteele09/go-auth-client/internal/errors"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

type Token struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

// Repo stores outstanding reset tokens. Unknown tokens return errors.ErrNotFound.
type Repo interface {
	Save(ctx context.Context, token *Token) error
	Get(ctx context.Context, token string) (*Token, error)
	Delete(ctx context.Context, token string) error
}

type Manager struct {
	repo   Repo
	config config.OAuthConfig
}

func NewManager(repo Repo, cfg config.OAuthConfig) *Manager {
	return &Manager{
		repo:   repo,
		config: cfg,
	}
}

// Issue creates a reset token for userID.
func (m *Manager) Issue(ctx context.Context, userID string) (string, error) {
	t := &Token{
		Token:     uuid.New().String(),
		UserID:    userID,
		ExpiresAt: NowTimeFunc().Add(m.config.GetResetTokenExpiry()),
	}
	if err := m.repo.Save(ctx, t); err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}
	return t.Token, nil
}

// Consume validates a reset token and removes it, returning the user it was
// issued for. A token can only be consumed once.
func (m *Manager) Consume(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", errors.ErrInvalidResetToken
	}
	t, err := m.repo.Get(ctx, token)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return "", errors.ErrInvalidResetToken
		}
		return "", fmt.Errorf("failed to load reset token: %w", err)
	}
	if err := m.repo.Delete(ctx, token); err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			// lost a race with another consumer
			return "", errors.ErrInvalidResetToken
		}
		return "", fmt.Errorf("failed to delete reset token: %w", err)
	}
	if !NowTimeFunc().Before(t.ExpiresAt) {
		return "", errors.ErrResetTokenExpired
	}
	return t.UserID, nil
}
