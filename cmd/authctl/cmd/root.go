package cmd

import (
	"context"
	"os"

	"github.com/jrsteele09/go-auth-client/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	serverURL string
	cookieDB  string
	logLevel  string
}

// NewRootCmd builds the authctl command tree.
func NewRootCmd(cfg config.Config) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "authctl",
		Short: "authctl is a client and reference server for cookie based auth sessions",
		Long: `Log in, sign up, refresh and inspect auth sessions against an auth API.
The refresh token is kept in a local cookie database between runs; the access
token only ever lives in memory.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupLogging(cmd, opts.logLevel)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.serverURL, "server", cfg.GetServerURL(), "Base URL of the auth API")
	rootCmd.PersistentFlags().StringVar(&opts.cookieDB, "cookie-db", cfg.GetCookieDBPath(), "Path of the local cookie database")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newServeCmd(cfg),
		newLoginCmd(cfg, opts),
		newSignupCmd(cfg, opts),
		newForgotPasswordCmd(cfg, opts),
		newResetPasswordCmd(cfg, opts),
		newRefreshCmd(cfg, opts),
		newWhoamiCmd(cfg, opts),
		newLogoutCmd(cfg, opts),
	)
	return rootCmd
}

func Execute() {
	if err := NewRootCmd(config.New()).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func setupLogging(cmd *cobra.Command, level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()})
	return nil
}
