// Package authstate mirrors the session store as UI-facing state:
// whether the user is authenticated, who they are, and whether the initial
// check is still pending.
package authstate

import (
	"sync"

	"github.com/jrsteele09/go-auth-client/actions"
	"github.com/jrsteele09/go-auth-client/session"
)

// State is a snapshot of the bridge.
type State struct {
	IsAuthenticated bool
	User            *actions.User
	Loading         bool
}

// Bridge keeps State in step with a session.Store and notifies subscribers on change.
type Bridge struct {
	store *session.Store

	mu        sync.RWMutex
	state     State
	listeners map[int]func(State)
	nextID    int
	seq       uint64

	// notifyMu orders deliveries; delivered is the seq of the last one sent.
	notifyMu  sync.Mutex
	delivered uint64
}

// New returns a bridge in the loading state. Call Mount to resolve it.
func New(store *session.Store) *Bridge {
	return &Bridge{
		store:     store,
		state:     State{Loading: true},
		listeners: make(map[int]func(State)),
	}
}

func (b *Bridge) State() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// Mount reads the in-memory access token once and ends loading. The token is
// never persisted, so after a restart this reports unauthenticated until a
// login or refresh happens.
func (b *Bridge) Mount() {
	_, ok := b.store.AccessToken()
	b.update(func(s *State) {
		s.IsAuthenticated = ok
		if ok && s.User == nil {
			s.User = b.userFromToken()
		}
		s.Loading = false
	})
}

// Login stores the session and marks the user authenticated. The user is taken
// from the access token's claims when they can be read.
func (b *Bridge) Login(data session.LoginData) {
	b.store.StoreLoginData(data)
	user := b.userFromToken()
	b.update(func(s *State) {
		s.IsAuthenticated = true
		s.User = user
		s.Loading = false
	})
}

// LoginWithUser stores the session and records user as the current user.
func (b *Bridge) LoginWithUser(data session.LoginData, user *actions.User) {
	b.store.StoreLoginData(data)
	b.update(func(s *State) {
		s.IsAuthenticated = true
		s.User = user
		s.Loading = false
	})
}

// Logout clears the session and the user.
func (b *Bridge) Logout() {
	b.store.Clear()
	b.update(func(s *State) {
		s.IsAuthenticated = false
		s.User = nil
		s.Loading = false
	})
}

func (b *Bridge) AccessToken() (string, bool) {
	return b.store.AccessToken()
}

// RefreshAuth re-checks the in-memory token only. It does not call the refresh
// endpoint; use session.Store.RefreshAccessToken for that.
func (b *Bridge) RefreshAuth() bool {
	_, ok := b.store.AccessToken()
	b.update(func(s *State) {
		s.IsAuthenticated = ok
		if !ok {
			s.User = nil
		}
	})
	return ok
}

// Subscribe registers fn for every state change and returns a function that
// removes it. Notifications arrive in the order the changes were made and a
// change superseded before delivery is skipped, so the last State seen is
// always the current one. fn may read State or unsubscribe but must not call
// Login, Logout, Mount or RefreshAuth.
func (b *Bridge) Subscribe(fn func(State)) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.listeners, id)
		b.mu.Unlock()
	}
}

func (b *Bridge) update(mutate func(*State)) {
	b.mu.Lock()
	before := b.state
	mutate(&b.state)
	after := b.state
	if before == after {
		b.mu.Unlock()
		return
	}
	b.seq++
	seq := b.seq
	listeners := make([]func(State), 0, len(b.listeners))
	for _, fn := range b.listeners {
		listeners = append(listeners, fn)
	}
	b.mu.Unlock()

	b.notifyMu.Lock()
	defer b.notifyMu.Unlock()
	if seq <= b.delivered {
		return
	}
	b.delivered = seq
	for _, fn := range listeners {
		fn(after)
	}
}

func (b *Bridge) userFromToken() *actions.User {
	claims, err := b.store.Claims()
	if err != nil || claims.Subject == "" {
		return nil
	}
	return &actions.User{ID: claims.Subject, Email: claims.Email}
}
