package cmd

import (
	"fmt"

	"github.com/jrsteele09/go-auth-client/actions"
	"github.com/jrsteele09/go-auth-client/cookies/boltjar"
	"github.com/jrsteele09/go-auth-client/internal/config"
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/jrsteele09/go-auth-client/transport"
)

// client bundles the session and actions backed by the local cookie database.
type client struct {
	jar     *boltjar.Jar
	store   *session.Store
	actions *actions.Actions
}

func newClient(cfg config.Config, opts *rootOptions) (*client, error) {
	jar, err := boltjar.Open(opts.cookieDB)
	if err != nil {
		return nil, fmt.Errorf("open cookie database: %w", err)
	}

	httpClient, err := transport.NewCookieClient(cfg.GetRequestTimeout())
	if err != nil {
		_ = jar.Close()
		return nil, err
	}

	store := session.New(jar,
		session.WithCookieDays(cfg.GetCookieDays()),
		session.WithHTTPClient(httpClient),
	)
	return &client{
		jar:     jar,
		store:   store,
		actions: actions.New(opts.serverURL, store, actions.WithHTTPClient(httpClient)),
	}, nil
}

func (c *client) refreshEndpoint(cfg config.ClientConfig) string {
	return c.actions.Endpoint(cfg.GetRefreshPath())
}

func (c *client) Close() error {
	return c.jar.Close()
}
