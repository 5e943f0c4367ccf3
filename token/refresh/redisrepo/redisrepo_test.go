package redisrepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/jrsteele09/go-auth-client/token/refresh"
	"github.com/jrsteele09/go-auth-client/token/refresh/redisrepo"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) (*miniredis.Miniredis, *redisrepo.Repo) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, redisrepo.New(client)
}

func TestUpsertAndGet(t *testing.T) {
	_, repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().Truncate(time.Second)

	rt := &refresh.StoredRefreshToken{
		Token:     "tok-1",
		UserID:    "user-1",
		ClientID:  "cli",
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
	}
	require.NoError(t, repo.Upsert(ctx, rt))

	got, err := repo.Get(ctx, "tok-1")
	require.NoError(t, err)
	require.Equal(t, "user-1", got.UserID)
	require.Equal(t, "cli", got.ClientID)
	require.True(t, got.ExpiresAt.Equal(rt.ExpiresAt))

	byUser, err := repo.GetByUserID(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, "tok-1", byUser.Token)
}

func TestGetUnknown(t *testing.T) {
	_, repo := newTestRepo(t)

	_, err := repo.Get(context.Background(), "missing")
	require.ErrorIs(t, err, errors.ErrNotFound)

	_, err = repo.GetByUserID(context.Background(), "nobody")
	require.ErrorIs(t, err, errors.ErrNotFound)
}

func TestTTLExpiresToken(t *testing.T) {
	mr, repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &refresh.StoredRefreshToken{
		Token:     "tok-ttl",
		UserID:    "user-ttl",
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(time.Minute),
	}))
	require.True(t, mr.Exists("refresh:tok-ttl"))
	require.True(t, mr.Exists("refresh:user:user-ttl"))

	mr.FastForward(2 * time.Minute)

	_, err := repo.Get(ctx, "tok-ttl")
	require.ErrorIs(t, err, errors.ErrNotFound)
	_, err = repo.GetByUserID(ctx, "user-ttl")
	require.ErrorIs(t, err, errors.ErrNotFound)
}

func TestUpsertAlreadyExpired(t *testing.T) {
	_, repo := newTestRepo(t)

	err := repo.Upsert(context.Background(), &refresh.StoredRefreshToken{
		Token:     "old",
		UserID:    "u",
		ExpiresAt: time.Now().Add(-time.Minute),
	})
	require.ErrorIs(t, err, errors.ErrRefreshTokenExpired)
}

func TestDelete(t *testing.T) {
	mr, repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &refresh.StoredRefreshToken{
		Token:     "tok-del",
		UserID:    "user-del",
		ExpiresAt: time.Now().Add(time.Hour),
	}))
	require.NoError(t, repo.Delete(ctx, "tok-del"))
	require.False(t, mr.Exists("refresh:tok-del"))
	require.False(t, mr.Exists("refresh:user:user-del"))

	require.ErrorIs(t, repo.Delete(ctx, "tok-del"), errors.ErrNotFound)
}

func TestDeleteKeepsNewerUserIndex(t *testing.T) {
	mr, repo := newTestRepo(t)
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)

	require.NoError(t, repo.Upsert(ctx, &refresh.StoredRefreshToken{Token: "first", UserID: "u", ExpiresAt: exp}))
	require.NoError(t, repo.Upsert(ctx, &refresh.StoredRefreshToken{Token: "second", UserID: "u", ExpiresAt: exp}))

	require.NoError(t, repo.Delete(ctx, "first"))
	require.True(t, mr.Exists("refresh:user:u"))

	got, err := repo.GetByUserID(ctx, "u")
	require.NoError(t, err)
	require.Equal(t, "second", got.Token)
}
