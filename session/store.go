// Package session holds the client's authentication session: an access token
// kept only in memory, and a refresh token plus identifiers kept in cookies.
package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/jrsteele09/go-auth-client/cookies"
	"github.com/jrsteele09/go-auth-client/transport"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Cookie names written by StoreLoginData.
const (
	RefreshTokenCookie = "refresh_token"
	UserIDCookie       = "user_id"
	ClientIDCookie     = "client_id"

	DefaultCookieDays = 7
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// LoginData is what a successful login or signup hands to the store.
// UserID and ClientID are optional.
type LoginData struct {
	AccessToken  string
	RefreshToken string
	UserID       string
	ClientID     string
}

// Store is one session. The access token is never written to the jar.
type Store struct {
	jar        cookies.Jar
	cookieDays int
	transport  *transport.Client
	log        zerolog.Logger

	mu          sync.RWMutex
	accessToken string
	// generation changes whenever the session is replaced or cleared.
	generation uint64

	refreshes singleflight.Group
}

type Option func(*Store)

func WithCookieDays(days int) Option {
	return func(s *Store) {
		if days > 0 {
			s.cookieDays = days
		}
	}
}

// WithHTTPClient sets the client used for refresh requests.
func WithHTTPClient(doer transport.Doer) Option {
	return func(s *Store) {
		s.transport = transport.New(doer)
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.log = logger
	}
}

// New creates an empty session over jar.
func New(jar cookies.Jar, opts ...Option) *Store {
	s := &Store{
		jar:        jar,
		cookieDays: DefaultCookieDays,
		transport:  transport.New(http.DefaultClient),
		log:        log.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With().Str("component", "session").Logger()
	return s
}

func (s *Store) SetAccessToken(token string) {
	s.mu.Lock()
	s.accessToken = token
	s.mu.Unlock()
}

// AccessToken reports the in-memory token, if any.
func (s *Store) AccessToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken, s.accessToken != ""
}

// replace sets the access token and starts a new generation, so that a refresh
// begun against the previous session cannot overwrite it.
func (s *Store) replace(token string) {
	s.mu.Lock()
	s.accessToken = token
	s.generation++
	s.mu.Unlock()
}

func (s *Store) currentGeneration() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// setAccessTokenIf sets token only while the session is still at generation.
func (s *Store) setAccessTokenIf(generation uint64, token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != generation {
		return false
	}
	s.accessToken = token
	return true
}

// StoreLoginData keeps the access token in memory and persists the refresh
// token and any identifiers as cookies.
func (s *Store) StoreLoginData(data LoginData) {
	s.replace(data.AccessToken)
	s.jar.Set(RefreshTokenCookie, data.RefreshToken, s.cookieDays)
	if data.UserID != "" {
		s.jar.Set(UserIDCookie, data.UserID, s.cookieDays)
	}
	if data.ClientID != "" {
		s.jar.Set(ClientIDCookie, data.ClientID, s.cookieDays)
	}
}

// Clear forgets the access token and deletes the session cookies.
func (s *Store) Clear() {
	s.replace("")
	s.jar.Delete(RefreshTokenCookie)
	s.jar.Delete(UserIDCookie)
	s.jar.Delete(ClientIDCookie)
}

func (s *Store) RefreshToken() (string, bool) {
	return s.jar.Get(RefreshTokenCookie)
}

func (s *Store) UserID() (string, bool) {
	return s.jar.Get(UserIDCookie)
}

func (s *Store) ClientID() (string, bool) {
	return s.jar.Get(ClientIDCookie)
}
