package session

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-auth-client/internal/errors"
)

// Claims is the client's view of an access token. The client cannot verify
// signatures, so these are hints only.
type Claims struct {
	jwtlib.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// Expired reports whether the token's exp claim is at or before now.
// Tokens without exp never expire.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return !now.Before(c.ExpiresAt.Time)
}

// ParseClaims decodes token without verifying its signature.
func ParseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwtlib.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrInvalidToken, err)
	}
	return claims, nil
}

// Claims decodes the in-memory access token.
func (s *Store) Claims() (*Claims, error) {
	token, ok := s.AccessToken()
	if !ok {
		return nil, errors.ErrNoAccessToken
	}
	return ParseClaims(token)
}
