// Package actions implements the login, signup, forgot-password and
// reset-password submissions. Each action validates locally, makes at most one
// POST, and returns a fresh state describing the outcome; errors never escape
// as Go errors.
package actions

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-auth-client/internal/config"
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/jrsteele09/go-auth-client/transport"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// User-facing messages shared by every action.
const (
	MsgInvalidResponse = "Invalid response from server"
	MsgNetworkError    = "Network error. Please try again."
)

// User is the account returned by login and signup.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// LoginState is the result of a login submission.
type LoginState struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	User    *User  `json:"user"`
}

// SignupState is the result of a signup submission.
type SignupState struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	User    *User  `json:"user"`
}

// MessageState is the result of the forgot-password and reset-password submissions.
type MessageState struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Actions submits auth forms to a server rooted at baseURL.
type Actions struct {
	baseURL   string
	store     *session.Store
	transport *transport.Client
	log       zerolog.Logger
}

type Option func(*Actions)

func WithHTTPClient(doer transport.Doer) Option {
	return func(a *Actions) {
		a.transport = transport.New(doer)
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(a *Actions) {
		a.log = logger
	}
}

// New returns Actions that persist successful logins and signups in store.
func New(baseURL string, store *session.Store, opts ...Option) *Actions {
	a := &Actions{
		baseURL:   baseURL,
		store:     store,
		transport: transport.New(http.DefaultClient),
		log:       log.Logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.With().Str("component", "actions").Logger()
	return a
}

// Store returns the session the actions write to.
func (a *Actions) Store() *session.Store {
	return a.store
}

// post sends body to endpoint (or fallback when endpoint is empty).
func (a *Actions) post(ctx context.Context, endpoint, fallback string, body any) (*transport.Response, error) {
	if endpoint == "" {
		endpoint = fallback
	}
	url, err := transport.ResolveURL(a.baseURL, endpoint)
	if err != nil {
		return nil, err
	}
	return a.transport.PostJSON(ctx, url, body)
}

// Endpoint resolves a path against the base URL, for callers that need the
// refresh or profile endpoints.
func (a *Actions) Endpoint(path string) string {
	url, err := transport.ResolveURL(a.baseURL, path)
	if err != nil {
		a.log.Err(err).Str("path", path).Msg("resolve endpoint")
		return path
	}
	return url
}

// RefreshEndpoint is the absolute refresh URL for session.Store.RefreshAccessToken.
func (a *Actions) RefreshEndpoint() string {
	return a.Endpoint(config.DefaultRefreshPath)
}
