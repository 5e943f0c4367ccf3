package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-auth-client/auth"
	"github.com/jrsteele09/go-auth-client/internal/config"
	"github.com/jrsteele09/go-auth-client/server"
	"github.com/jrsteele09/go-auth-client/token/refresh"
	"github.com/jrsteele09/go-auth-client/token/refresh/redisrepo"
	refreshrepofake "github.com/jrsteele09/go-auth-client/token/refresh/repofake"
	resetrepofake "github.com/jrsteele09/go-auth-client/token/reset/repofake"
	fakeuserrepo "github.com/jrsteele09/go-auth-client/users/repofake"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(cfg config.Config) *cobra.Command {
	var addr string
	var quiet bool

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the reference auth API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			refreshRepo, closeRepo, err := newRefreshRepo(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeRepo()

			svc, err := auth.NewService(auth.Repos{
				Users:         fakeuserrepo.NewFakeUserRepo(),
				RefreshTokens: refreshRepo,
				ResetTokens:   resetrepofake.NewFakeResetTokenRepo(),
			}, cfg, auth.WithNotifier(auth.LogNotifier{BaseURL: cfg.GetBaseURL()}))
			if err != nil {
				return err
			}

			if !quiet {
				displayAppname(cfg.GetAppName())
			}
			httpServer := &http.Server{
				Addr:              addr,
				Handler:           server.New(cfg, svc),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return serve(ctx, httpServer)
		},
	}

	serveCmd.Flags().StringVar(&addr, "addr", cfg.GetPort(), "Address to listen on")
	serveCmd.Flags().BoolVar(&quiet, "quiet", false, "Skip the startup banner")
	return serveCmd
}

// serve runs the server until ctx is cancelled or it fails to listen.
func serve(ctx context.Context, httpServer *http.Server) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", httpServer.Addr).Msg("server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server.ListenAndServe %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server.Shutdown: %w", err)
		}
		log.Info().Msg("server stopped")
		return nil
	})

	return g.Wait()
}

// newRefreshRepo uses Redis when an address is configured and memory otherwise.
func newRefreshRepo(ctx context.Context, cfg config.StorageConfig) (refresh.Repo, func(), error) {
	addr := cfg.GetRedisAddr()
	if addr == "" {
		log.Warn().Msg("no redis address configured, refresh tokens are kept in memory")
		return refreshrepofake.NewFakeRefreshTokenRepo(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	log.Info().Str("addr", addr).Msg("refresh tokens stored in redis")
	return redisrepo.New(client), func() { _ = client.Close() }, nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
