package jwt

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-auth-client/internal/config"
	"github.com/jrsteele09/go-auth-client/users"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// AccessClaims are the claims carried by an access token.
type AccessClaims struct {
	jwtlib.RegisteredClaims
	Email    string `json:"email,omitempty"`
	ClientID string `json:"client_id,omitempty"`
}

// Creator issues HS256 access tokens.
type Creator struct {
	config config.OAuthConfig
	secret []byte
}

// NewCreator creates a new JWT creator
func NewCreator(cfg config.OAuthConfig) *Creator {
	return &Creator{
		config: cfg,
		secret: []byte(cfg.GetSigningSecret()),
	}
}

// CreateAccessToken creates an access token for user issued to clientID
func (c *Creator) CreateAccessToken(user *users.User, clientID string) (string, error) {
	now := NowTimeFunc()
	claims := AccessClaims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    c.config.GetIssuer(),                                                   // The issuer of the token
			Subject:   user.ID,                                                                // The user the token was issued for
			IssuedAt:  jwtlib.NewNumericDate(now),                                             // Issued At: the time at which the token was issued
			ExpiresAt: jwtlib.NewNumericDate(now.Add(c.config.GetDefaultAccessTokenExpiry())), // Expiry: when the token will expire
			ID:        uuid.New().String(),                                                    // Unique token ID for revocation
		},
		Email:    user.Email,
		ClientID: clientID,
	}

	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT token: %w", err)
	}
	return signed, nil
}

// ExpiresIn is the access token lifetime in seconds.
func (c *Creator) ExpiresIn() int {
	return int(c.config.GetDefaultAccessTokenExpiry().Seconds())
}
