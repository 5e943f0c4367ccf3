package session_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-auth-client/cookies"
	autherrors "github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, sub, email string, exp time.Time) string {
	t.Helper()
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"sub":   sub,
		"email": email,
		"exp":   exp.Unix(),
	})
	s, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	store := session.New(cookies.NewDocument())

	_, err := store.Claims()
	require.ErrorIs(t, err, autherrors.ErrNoAccessToken)

	store.SetAccessToken(signedToken(t, "user-1", "a@b.com", exp))
	claims, err := store.Claims()
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "a@b.com", claims.Email)
	require.False(t, claims.Expired(exp.Add(-time.Second)))
	require.True(t, claims.Expired(exp))

	store.SetAccessToken("opaque")
	_, err = store.Claims()
	require.ErrorIs(t, err, autherrors.ErrInvalidToken)
}

func TestTokenSource_UsesMemoryToken(t *testing.T) {
	store := session.New(cookies.NewDocument())
	store.SetAccessToken("opaque")

	tok, err := store.TokenSource(context.Background(), "http://unused").Token()
	require.NoError(t, err)
	require.Equal(t, "opaque", tok.AccessToken)
	require.Equal(t, "Bearer", tok.TokenType)
}

func TestTokenSource_RefreshesExpiredToken(t *testing.T) {
	fresh := signedToken(t, "user-1", "a@b.com", time.Now().Add(time.Hour))
	srv := newRefreshServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"accessToken":"` + fresh + `"}`))
	})
	jar := cookies.NewDocument()
	jar.Set(session.RefreshTokenCookie, "r", 7)
	store := newStore(jar, srv.Server)
	store.SetAccessToken(signedToken(t, "user-1", "a@b.com", time.Now().Add(-time.Minute)))

	tok, err := store.TokenSource(context.Background(), srv.URL).Token()
	require.NoError(t, err)
	require.Equal(t, fresh, tok.AccessToken)
	require.False(t, tok.Expiry.IsZero())
	require.Equal(t, int32(1), srv.calls.Load())
}

func TestTokenSource_Errors(t *testing.T) {
	store := session.New(cookies.NewDocument())
	_, err := store.TokenSource(context.Background(), "http://unused").Token()
	require.True(t, errors.Is(err, autherrors.ErrNoRefreshToken))

	srv := newRefreshServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	jar := cookies.NewDocument()
	jar.Set(session.RefreshTokenCookie, "r", 7)
	store = newStore(jar, srv.Server)

	_, err = store.TokenSource(context.Background(), srv.URL).Token()
	require.ErrorIs(t, err, autherrors.ErrRefreshFailed)
}
