package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jrsteele09/go-auth-client/actions"
	"github.com/jrsteele09/go-auth-client/internal/config"
	"github.com/jrsteele09/go-auth-client/transport"
	"github.com/spf13/cobra"
)

var errNotLoggedIn = errors.New("not logged in")

func newRefreshCmd(cfg config.Config, opts *rootOptions) *cobra.Command {
	var printToken bool

	refreshCmd := &cobra.Command{
		Use:   "refresh",
		Short: "Exchange the stored refresh token for a new access token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClient(cfg, opts)
			if err != nil {
				return err
			}
			defer c.Close()

			if _, ok := c.store.RefreshToken(); !ok {
				return errNotLoggedIn
			}
			if !c.store.RefreshAccessToken(cmd.Context(), c.refreshEndpoint(cfg)) {
				return errors.New("refresh failed")
			}

			if printToken {
				token, _ := c.store.AccessToken()
				fmt.Fprintln(cmd.OutOrStdout(), token)
				return nil
			}
			claims, err := c.store.Claims()
			if err != nil || claims.ExpiresAt == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Access token refreshed")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Access token refreshed, expires %s\n", claims.ExpiresAt.Time.Local().Format("2006-01-02 15:04:05"))
			return nil
		},
	}

	refreshCmd.Flags().BoolVar(&printToken, "print", false, "Print the new access token")
	return refreshCmd
}

func newWhoamiCmd(cfg config.Config, opts *rootOptions) *cobra.Command {
	whoamiCmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the profile of the logged in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClient(cfg, opts)
			if err != nil {
				return err
			}
			defer c.Close()

			if _, ok := c.store.RefreshToken(); !ok {
				return errNotLoggedIn
			}

			ctx := cmd.Context()
			httpClient := transport.AuthorizedClient(ctx, c.store.TokenSource(ctx, c.refreshEndpoint(cfg)))
			resp, err := transport.New(httpClient).GetJSON(ctx, c.actions.Endpoint(config.DefaultMePath))
			if err != nil {
				return fmt.Errorf("fetch profile: %w", err)
			}
			if !resp.OK() {
				if msg := resp.ErrorMessage(); msg != "" {
					return errors.New(msg)
				}
				return fmt.Errorf("fetch profile failed (%d)", resp.StatusCode)
			}

			var user actions.User
			if err := resp.Decode(&user); err != nil {
				return fmt.Errorf("decode profile: %w", err)
			}
			out, err := json.MarshalIndent(user, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	return whoamiCmd
}

func newLogoutCmd(cfg config.Config, opts *rootOptions) *cobra.Command {
	var endpoint string

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Revoke the refresh token and clear the local session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClient(cfg, opts)
			if err != nil {
				return err
			}
			defer c.Close()

			c.actions.Logout(cmd.Context(), endpoint)
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}

	logoutCmd.Flags().StringVar(&endpoint, "endpoint", "", "Logout path (default "+config.DefaultLogoutPath+")")
	return logoutCmd
}
