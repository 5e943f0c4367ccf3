package config

import "time"

// OAuthConfig covers token issuance on the reference server.
type OAuthConfig interface {
	GetIssuer() string
	GetSigningSecret() string
	GetRefreshTokenLength() int
	GetDefaultAccessTokenExpiry() time.Duration
	GetDefaultRefreshTokenExpiry() time.Duration
	GetResetTokenExpiry() time.Duration
}

type OAuth struct{}

var _ OAuthConfig = OAuth{}

func (OAuth) GetIssuer() string {
	return GetEnv("ISSUER", "go-auth-client")
}

// GetSigningSecret returns the HS256 key used for access tokens.
func (OAuth) GetSigningSecret() string {
	return GetEnv("SIGNING_SECRET", "dev-signing-secret-change-me")
}

func (OAuth) GetRefreshTokenLength() int {
	return 32 // 32 bytes = 256 bits
}

func (OAuth) GetDefaultAccessTokenExpiry() time.Duration {
	return GetDuration("ACCESS_TOKEN_EXPIRY", 15*time.Minute)
}

func (OAuth) GetDefaultRefreshTokenExpiry() time.Duration {
	return 7 * 24 * time.Hour // 7 days
}

func (OAuth) GetResetTokenExpiry() time.Duration {
	return GetDuration("RESET_TOKEN_EXPIRY", time.Hour)
}
