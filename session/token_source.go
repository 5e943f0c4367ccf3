package session

import (
	"context"

	"github.com/jrsteele09/go-auth-client/internal/errors"
	"golang.org/x/oauth2"
)

type tokenSource struct {
	ctx      context.Context
	store    *Store
	endpoint string
}

// TokenSource adapts the store for golang.org/x/oauth2 clients. A missing or
// expired access token triggers RefreshAccessToken against endpoint.
func (s *Store) TokenSource(ctx context.Context, endpoint string) oauth2.TokenSource {
	return &tokenSource{ctx: ctx, store: s, endpoint: endpoint}
}

func (ts *tokenSource) Token() (*oauth2.Token, error) {
	if tok, ok := ts.store.currentToken(); ok {
		return tok, nil
	}
	if !ts.store.RefreshAccessToken(ts.ctx, ts.endpoint) {
		if _, ok := ts.store.RefreshToken(); !ok {
			return nil, errors.ErrNoRefreshToken
		}
		return nil, errors.ErrRefreshFailed
	}
	if tok, ok := ts.store.currentToken(); ok {
		return tok, nil
	}
	return nil, errors.ErrNoAccessToken
}

// currentToken returns the memory token unless its exp claim has passed.
// Opaque tokens are passed through with no expiry.
func (s *Store) currentToken() (*oauth2.Token, bool) {
	access, ok := s.AccessToken()
	if !ok {
		return nil, false
	}
	tok := &oauth2.Token{AccessToken: access, TokenType: "Bearer"}
	claims, err := ParseClaims(access)
	if err != nil {
		return tok, true
	}
	if claims.Expired(NowTimeFunc()) {
		return nil, false
	}
	if claims.ExpiresAt != nil {
		tok.Expiry = claims.ExpiresAt.Time
	}
	return tok, true
}
