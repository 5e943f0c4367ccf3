package resetrepofake

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/jrsteele09/go-auth-client/token/reset"
)

var _ reset.Repo = (*FakeResetTokenRepo)(nil)

type FakeResetTokenRepo struct {
	tokens map[string]reset.Token
	lock   sync.RWMutex
}

func NewFakeResetTokenRepo() *FakeResetTokenRepo {
	return &FakeResetTokenRepo{
		tokens: make(map[string]reset.Token),
	}
}

func (r *FakeResetTokenRepo) Save(_ context.Context, token *reset.Token) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.tokens[token.Token] = *token
	return nil
}

func (r *FakeResetTokenRepo) Get(_ context.Context, token string) (*reset.Token, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	t, ok := r.tokens[token]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return &t, nil
}

func (r *FakeResetTokenRepo) Delete(_ context.Context, token string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.tokens[token]; !ok {
		return errors.ErrNotFound
	}
	delete(r.tokens, token)
	return nil
}
