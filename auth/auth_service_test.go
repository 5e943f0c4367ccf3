package auth_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/jrsteele09/go-auth-client/auth"
	"github.com/jrsteele09/go-auth-client/internal/config"
	"github.com/jrsteele09/go-auth-client/internal/errors"
	refreshrepofake "github.com/jrsteele09/go-auth-client/token/refresh/repofake"
	resetrepofake "github.com/jrsteele09/go-auth-client/token/reset/repofake"
	"github.com/jrsteele09/go-auth-client/users"
	fakeuserrepo "github.com/jrsteele09/go-auth-client/users/repofake"
	"github.com/stretchr/testify/require"
)

const testPassword = "Password1"

type captureNotifier struct {
	mu     sync.Mutex
	tokens map[string]string
}

func (n *captureNotifier) SendPasswordReset(_ context.Context, user *users.User, token string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.tokens[user.Email] = token
	return nil
}

func (n *captureNotifier) token(email string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.tokens[email]
}

func newService(t *testing.T) (*auth.Service, users.UserRepo, *captureNotifier) {
	t.Helper()
	userRepo := fakeuserrepo.NewFakeUserRepo()
	notifier := &captureNotifier{tokens: map[string]string{}}
	svc, err := auth.NewService(auth.Repos{
		Users:         userRepo,
		RefreshTokens: refreshrepofake.NewFakeRefreshTokenRepo(),
		ResetTokens:   resetrepofake.NewFakeResetTokenRepo(),
	}, config.OAuth{}, auth.WithNotifier(notifier))
	require.NoError(t, err)
	return svc, userRepo, notifier
}

func signup(t *testing.T, svc *auth.Service) *auth.Session {
	t.Helper()
	session, err := svc.Signup(context.Background(), auth.SignupRequest{
		Email:           "Jane@Example.com",
		Username:        "jane",
		Password:        testPassword,
		ConfirmPassword: testPassword,
		FirstName:       "Jane",
		LastName:        "Doe",
	})
	require.NoError(t, err)
	return session
}

func TestNewServiceRequiresRepos(t *testing.T) {
	_, err := auth.NewService(auth.Repos{}, config.OAuth{})
	require.Error(t, err)
}

func TestSignupAndLogin(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	session := signup(t, svc)
	require.NotEmpty(t, session.AccessToken)
	require.NotEmpty(t, session.RefreshToken)
	require.Equal(t, "jane@example.com", session.User.Email)

	login, err := svc.Login(ctx, "jane@example.com", testPassword, "cli")
	require.NoError(t, err)
	require.Equal(t, session.User.ID, login.User.ID)

	_, err = svc.Login(ctx, "jane@example.com", "wrong", "")
	require.ErrorIs(t, err, errors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", testPassword, "")
	require.ErrorIs(t, err, errors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "", "", "")
	require.ErrorIs(t, err, auth.MissingFieldsErr)
}

func TestSignupRejections(t *testing.T) {
	svc, _, _ := newService(t)
	signup(t, svc)

	base := auth.SignupRequest{
		Email:           "new@example.com",
		Username:        "newbie",
		Password:        testPassword,
		ConfirmPassword: testPassword,
		FirstName:       "New",
		LastName:        "User",
	}

	tests := []struct {
		name   string
		modify func(r *auth.SignupRequest)
		err    error
	}{
		{"missing first name", func(r *auth.SignupRequest) { r.FirstName = "  " }, auth.MissingFieldsErr},
		{"bad email", func(r *auth.SignupRequest) { r.Email = "nope" }, errors.ErrInvalidRequest},
		{"mismatch", func(r *auth.SignupRequest) { r.ConfirmPassword = "Other1234" }, auth.UserPasswordsDontMatchErr},
		{"weak", func(r *auth.SignupRequest) { r.Password, r.ConfirmPassword = "short", "short" }, errors.ErrWeakPassword},
		{"existing email", func(r *auth.SignupRequest) { r.Email = "JANE@example.com" }, errors.ErrUserExists},
		{"existing username", func(r *auth.SignupRequest) { r.Username = "jane" }, auth.UsernameTakenErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.modify(&req)
			_, err := svc.Signup(context.Background(), req)
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestSignupConcurrentSameEmail(t *testing.T) {
	svc, repo, _ := newService(t)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Signup(context.Background(), auth.SignupRequest{
				Email:           "dup@example.com",
				Username:        fmt.Sprintf("dup-%d", i),
				Password:        testPassword,
				ConfirmPassword: testPassword,
				FirstName:       "Dup",
				LastName:        "User",
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, errors.ErrUserExists)
	}
	require.Equal(t, 1, succeeded)

	user, err := repo.GetByEmail("dup@example.com")
	require.NoError(t, err)
	byName, err := repo.GetByUsername(user.Username)
	require.NoError(t, err)
	require.Equal(t, user.ID, byName.ID)
}

func TestBlockedUser(t *testing.T) {
	svc, userRepo, _ := newService(t)
	session := signup(t, svc)
	require.NoError(t, userRepo.SetBlocked("jane@example.com", true))

	_, err := svc.Login(context.Background(), "jane@example.com", testPassword, "")
	require.ErrorIs(t, err, auth.UserBlockedErr)

	_, err = svc.Refresh(context.Background(), session.RefreshToken)
	require.ErrorIs(t, err, auth.UserBlockedErr)
}

func TestRefreshAndAuthenticate(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	session := signup(t, svc)

	accessToken, err := svc.Refresh(ctx, session.RefreshToken)
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, accessToken)
	require.NoError(t, err)
	require.Equal(t, session.User.ID, user.ID)

	_, err = svc.Refresh(ctx, "bogus")
	require.ErrorIs(t, err, errors.ErrInvalidRefreshToken)

	_, err = svc.Authenticate(ctx, "bogus")
	require.ErrorIs(t, err, errors.ErrInvalidToken)
}

func TestLogoutRevokesTokens(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	session := signup(t, svc)

	require.NoError(t, svc.Logout(ctx, session.RefreshToken, session.AccessToken))

	_, err := svc.Refresh(ctx, session.RefreshToken)
	require.ErrorIs(t, err, errors.ErrInvalidRefreshToken)
	_, err = svc.Authenticate(ctx, session.AccessToken)
	require.ErrorIs(t, err, errors.ErrInvalidToken)

	require.NoError(t, svc.Logout(ctx, "unknown", ""))
}

func TestForgotAndResetPassword(t *testing.T) {
	svc, _, notifier := newService(t)
	ctx := context.Background()
	session := signup(t, svc)

	require.NoError(t, svc.ForgotPassword(ctx, "nobody@example.com"))
	require.Empty(t, notifier.token("nobody@example.com"))

	require.NoError(t, svc.ForgotPassword(ctx, "jane@example.com"))
	token := notifier.token("jane@example.com")
	require.NotEmpty(t, token)

	err := svc.ResetPassword(ctx, token, "NewPassword2", "NewPassword3")
	require.ErrorIs(t, err, auth.UserPasswordsDontMatchErr)

	require.NoError(t, svc.ResetPassword(ctx, token, "NewPassword2", "NewPassword2"))
	err = svc.ResetPassword(ctx, token, "NewPassword2", "NewPassword2")
	require.ErrorIs(t, err, errors.ErrInvalidResetToken)

	_, err = svc.Login(ctx, "jane@example.com", testPassword, "")
	require.ErrorIs(t, err, errors.ErrInvalidCredentials)
	_, err = svc.Login(ctx, "jane@example.com", "NewPassword2", "")
	require.NoError(t, err)

	// the old refresh token was revoked by the reset
	_, err = svc.Refresh(ctx, session.RefreshToken)
	require.ErrorIs(t, err, errors.ErrInvalidRefreshToken)
}

func TestForgotPasswordInvalidEmail(t *testing.T) {
	svc, _, _ := newService(t)
	require.ErrorIs(t, svc.ForgotPassword(context.Background(), "nope"), errors.ErrInvalidRequest)
}
