// Package auth implements the reference server's account flows: password
// login, signup, token refresh, logout and password reset.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jrsteele09/go-auth-client/internal/config"
	"github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/jrsteele09/go-auth-client/token/jwt"
	"github.com/jrsteele09/go-auth-client/token/refresh"
	"github.com/jrsteele09/go-auth-client/token/reset"
	"github.com/jrsteele09/go-auth-client/users"
	"github.com/rs/zerolog/log"
)

// Repos holds all repository dependencies for the Service
type Repos struct {
	Users         users.UserRepo // Repository for user accounts
	RefreshTokens refresh.Repo   // Repository for issued refresh tokens
	ResetTokens   reset.Repo     // Repository for outstanding password reset tokens
}

// Session is what a successful login or signup hands back to the client.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *users.User
}

// SignupRequest carries the fields of a new account.
type SignupRequest struct {
	Email           string
	Username        string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
	ClientID        string
}

// Service provides the account flows backing the HTTP API.
type Service struct {
	repos    Repos
	creator  *jwt.Creator
	verifier *jwt.Verifier
	revoked  *jwt.RevocationList
	refresh  *refresh.Manager
	reset    *reset.Manager
	notifier Notifier
	nowTime  func() time.Time // nowTime function (injectable for testing)
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// WithNotifier replaces the default LogNotifier.
func WithNotifier(n Notifier) ServiceOption {
	return func(s *Service) {
		s.notifier = n
	}
}

// NewService initializes a new Service with required dependencies.
func NewService(repos Repos, cfg config.OAuthConfig, options ...ServiceOption) (*Service, error) {
	if repos.Users == nil {
		return nil, fmt.Errorf("[NewService] Users repo is required")
	}
	if repos.RefreshTokens == nil {
		return nil, fmt.Errorf("[NewService] RefreshTokens repo is required")
	}
	if repos.ResetTokens == nil {
		return nil, fmt.Errorf("[NewService] ResetTokens repo is required")
	}

	revoked := jwt.NewRevocationList()
	s := &Service{
		repos:    repos,
		creator:  jwt.NewCreator(cfg),
		verifier: jwt.NewVerifier(cfg, revoked),
		revoked:  revoked,
		refresh:  refresh.NewManager(repos.RefreshTokens, cfg),
		reset:    reset.NewManager(repos.ResetTokens, cfg),
		notifier: LogNotifier{},
		nowTime:  time.Now,
	}

	for _, opt := range options {
		opt(s)
	}

	return s, nil
}

// Login checks the credentials and issues a new session.
func (s *Service) Login(ctx context.Context, email, password, clientID string) (*Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, MissingFieldsErr
	}

	user, err := s.repos.Users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, errors.ErrUserNotFound) {
			return nil, errors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("[Login] failed to load user: %w", err)
	}
	if !user.CheckPassword(password) {
		return nil, errors.ErrInvalidCredentials
	}
	if user.Blocked {
		return nil, UserBlockedErr
	}

	if err := s.repos.Users.SetLastLogin(user.Email, s.nowTime()); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to record last login")
	}

	return s.issueSession(ctx, user, clientID)
}

// Signup creates a new account and logs it in.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*Session, error) {
	email := users.NormaliseEmail(req.Email)
	username := strings.TrimSpace(req.Username)
	if email == "" || username == "" || req.Password == "" ||
		strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return nil, MissingFieldsErr
	}
	if !strings.Contains(email, "@") {
		return nil, errors.Wrapf(errors.ErrInvalidRequest, "invalid email address")
	}
	if req.Password != req.ConfirmPassword {
		return nil, UserPasswordsDontMatchErr
	}
	if err := users.ValidatePasswordStrength(req.Password); err != nil {
		return nil, fmt.Errorf("%w: %s", errors.ErrWeakPassword, err.Error())
	}

	hash, err := users.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("[Signup] failed to hash password: %w", err)
	}

	now := s.nowTime()
	user := &users.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		DateJoined:   now,
		LastLogin:    now,
		ClientID:     req.ClientID,
	}
	if err := s.repos.Users.Insert(user); err != nil {
		if errors.Is(err, errors.ErrUserExists) || errors.Is(err, errors.ErrUsernameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("[Signup] failed to store user: %w", err)
	}
	log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("user signed up")

	return s.issueSession(ctx, user, req.ClientID)
}

func (s *Service) issueSession(ctx context.Context, user *users.User, clientID string) (*Session, error) {
	accessToken, err := s.creator.CreateAccessToken(user, clientID)
	if err != nil {
		return nil, fmt.Errorf("[issueSession] access token: %w", err)
	}
	refreshToken, err := s.refresh.Create(ctx, clientID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("[issueSession] refresh token: %w", err)
	}
	return &Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// Refresh exchanges a refresh token for a new access token. The refresh
// token itself is not rotated.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	rt, err := s.refresh.Validate(ctx, refreshToken)
	if err != nil {
		return "", err
	}

	user, err := s.repos.Users.GetByID(rt.UserID)
	if err != nil {
		// The account went away; the refresh token is useless now.
		_ = s.refresh.Revoke(ctx, refreshToken)
		return "", errors.ErrInvalidRefreshToken
	}
	if user.Blocked {
		return "", UserBlockedErr
	}

	return s.creator.CreateAccessToken(user, rt.ClientID)
}

// Logout revokes the refresh token and, when supplied, the access token.
// Unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, refreshToken, accessToken string) error {
	if refreshToken != "" {
		if err := s.refresh.Revoke(ctx, refreshToken); err != nil {
			return fmt.Errorf("[Logout] revoke refresh token: %w", err)
		}
	}
	if accessToken != "" {
		if claims, err := s.verifier.Verify(accessToken); err == nil && claims.ExpiresAt != nil {
			s.revoked.Revoke(claims.ID, claims.ExpiresAt.Time)
		}
	}
	s.revoked.Cleanup()
	return nil
}

// Authenticate verifies an access token and loads its user.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*users.User, error) {
	claims, err := s.verifier.Verify(accessToken)
	if err != nil {
		return nil, err
	}
	user, err := s.repos.Users.GetByID(claims.Subject)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidToken, "token subject %s", claims.Subject)
	}
	if user.Blocked {
		return nil, UserBlockedErr
	}
	return user, nil
}

// ForgotPassword issues a reset token for the account if it exists. An
// unknown email is not reported so accounts cannot be enumerated.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	if !strings.Contains(email, "@") {
		return errors.Wrapf(errors.ErrInvalidRequest, "invalid email address")
	}

	user, err := s.repos.Users.GetByEmail(email)
	if err != nil {
		log.Debug().Str("email", email).Msg("password reset for unknown email")
		return nil
	}

	token, err := s.reset.Issue(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("[ForgotPassword] %w", err)
	}
	if err := s.notifier.SendPasswordReset(ctx, user, token); err != nil {
		return fmt.Errorf("[ForgotPassword] notify: %w", err)
	}
	return nil
}

// ResetPassword consumes a reset token and sets the new password. Existing
// refresh tokens for the user are revoked.
func (s *Service) ResetPassword(ctx context.Context, token, password, confirmPassword string) error {
	if password != confirmPassword {
		return UserPasswordsDontMatchErr
	}
	if err := users.ValidatePasswordStrength(password); err != nil {
		return fmt.Errorf("%w: %s", errors.ErrWeakPassword, err.Error())
	}

	userID, err := s.reset.Consume(ctx, token)
	if err != nil {
		return err
	}
	user, err := s.repos.Users.GetByID(userID)
	if err != nil {
		return errors.ErrInvalidResetToken
	}

	hash, err := users.HashPassword(password)
	if err != nil {
		return fmt.Errorf("[ResetPassword] failed to hash password: %w", err)
	}
	user.PasswordHash = hash
	if err := s.repos.Users.Upsert(user); err != nil {
		return fmt.Errorf("[ResetPassword] failed to store user: %w", err)
	}

	if existing, err := s.repos.RefreshTokens.GetByUserID(ctx, user.ID); err == nil {
		_ = s.refresh.Revoke(ctx, existing.Token)
	}
	log.Info().Str("user_id", user.ID).Msg("password reset")
	return nil
}
