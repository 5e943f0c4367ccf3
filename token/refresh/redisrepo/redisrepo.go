// Package redisrepo stores refresh tokens in Redis. Each token lives under
// "<prefix>:<token>" with a TTL matching its expiry, and a per-user index key
// "<prefix>:user:<userID>" points at the user's current token.
package redisrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/jrsteele09/go-auth-client/token/refresh"
	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "refresh"

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

var _ refresh.Repo = (*Repo)(nil)

type Repo struct {
	redis  *redis.Client
	prefix string
}

func New(client *redis.Client) *Repo {
	return &Repo{
		redis:  client,
		prefix: defaultPrefix,
	}
}

func (r *Repo) tokenKey(token string) string {
	return r.prefix + ":" + token
}

func (r *Repo) userKey(userID string) string {
	return r.prefix + ":user:" + userID
}

func (r *Repo) Upsert(ctx context.Context, rt *refresh.StoredRefreshToken) error {
	encoded, err := json.Marshal(rt)
	if err != nil {
		return fmt.Errorf("failed to encode refresh token: %w", err)
	}

	// zero means no expiry in go-redis
	var ttl time.Duration
	if !rt.ExpiresAt.IsZero() {
		ttl = rt.ExpiresAt.Sub(NowTimeFunc())
		if ttl <= 0 {
			return errors.Wrapf(errors.ErrRefreshTokenExpired, "refresh token for %s already expired", rt.UserID)
		}
	}

	_, err = r.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.tokenKey(rt.Token), encoded, ttl)
		pipe.Set(ctx, r.userKey(rt.UserID), rt.Token, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, token string) error {
	rt, err := r.Get(ctx, token)
	if err != nil {
		return err
	}

	_, err = r.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.tokenKey(token))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}

	// Only drop the user index if it still points at this token.
	current, err := r.redis.Get(ctx, r.userKey(rt.UserID)).Result()
	if err == nil && current == token {
		r.redis.Del(ctx, r.userKey(rt.UserID))
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, token string) (*refresh.StoredRefreshToken, error) {
	data, err := r.redis.Get(ctx, r.tokenKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load refresh token: %w", err)
	}

	var rt refresh.StoredRefreshToken
	if err := json.Unmarshal(data, &rt); err != nil {
		return nil, fmt.Errorf("failed to decode refresh token: %w", err)
	}
	return &rt, nil
}

func (r *Repo) GetByUserID(ctx context.Context, userID string) (*refresh.StoredRefreshToken, error) {
	token, err := r.redis.Get(ctx, r.userKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user refresh token: %w", err)
	}
	return r.Get(ctx, token)
}
