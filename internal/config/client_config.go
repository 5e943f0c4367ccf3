package config

import "time"

// Default endpoint paths used by the auth actions.
const (
	DefaultLoginPath          = "/api/auth/login"
	DefaultSignupPath         = "/api/auth/signup"
	DefaultForgotPasswordPath = "/api/auth/forgot-password"
	DefaultResetPasswordPath  = "/api/auth/reset-password"
	DefaultRefreshPath        = "/api/auth/refresh"
	DefaultLogoutPath         = "/api/auth/logout"
	DefaultMePath             = "/api/auth/me"
)

// ClientConfig covers the client side of the auth flows.
type ClientConfig interface {
	GetServerURL() string
	GetRefreshPath() string
	GetCookieDays() int
	GetRequestTimeout() time.Duration
}

type Client struct{}

var _ ClientConfig = Client{}

// GetServerURL is the base URL actions resolve their endpoint paths against.
func (Client) GetServerURL() string {
	return GetEnv("SERVER_URL", "http://localhost:8080")
}

func (Client) GetRefreshPath() string {
	return GetEnv("REFRESH_PATH", DefaultRefreshPath)
}

func (Client) GetCookieDays() int {
	return GetInt("COOKIE_DAYS", 7)
}

// GetRequestTimeout returns zero unless set, leaving the transport default in place.
func (Client) GetRequestTimeout() time.Duration {
	return GetDuration("REQUEST_TIMEOUT", 0)
}
