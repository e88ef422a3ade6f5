package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/xsocial/backend/internal/middleware"
	"github.com/anonto42/xsocial/backend/internal/repositories"
	"github.com/anonto42/xsocial/backend/internal/router"
	"github.com/anonto42/xsocial/backend/pkg/config"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "server",
		Short: "social media API server",
		Long:  "social media API server: users, posts, comments, likes, follows and notifications",
		RunE:  serveRun,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "run the HTTP API (default)",
		RunE:  serveRun,
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "create MongoDB indexes and migrate the PostgreSQL schema",
		RunE:  migrateRun,
	}

	tokenCmd = &cobra.Command{
		Use:   "token",
		Short: "mint a session token for an identity UID (development)",
		RunE:  tokenRun,
	}

	tokenUID string
	tokenTTL time.Duration
)

func init() {
	tokenCmd.Flags().StringVar(&tokenUID, "uid", "", "identity provider UID to issue the token for")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime (defaults to SESSION_TTL)")
	_ = tokenCmd.MarkFlagRequired("uid")

	rootCmd.AddCommand(serveCmd, migrateCmd, tokenCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	config.SetupLogger(cfg)
	return cfg, nil
}

func serveRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	deps, cleanup, err := buildDependencies(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	config.SetupMiddleware(e, cfg)
	router.SetupRoutes(e, deps)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Str("auth", cfg.AuthMode).Msg("🚀 API listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	interrupt := handleKillSig(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown server")
		}
	})

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case <-interrupt.C:
		return nil
	}
}

func migrateRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.StoreDriver != config.StoreMongo {
		return fmt.Errorf("migrate needs STORE_DRIVER=%s", config.StoreMongo)
	}

	db, err := config.InitDB(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer db.CloseDB()

	return repositories.Migrate(cmd.Context(), db.Postgres, db.MongoDB)
}

func tokenRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ttl := tokenTTL
	if ttl == 0 {
		ttl = cfg.SessionTTL
	}

	token, expiresAt, err := middleware.NewSessionToken(cfg.JWTSecret, tokenUID, ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	log.Info().Str("uid", tokenUID).Time("expires_at", expiresAt).Msg("session token issued")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("failed to execute command")
	}
}

type interrupt struct {
	C chan struct{}
}

func handleKillSig(handler func()) interrupt {
	i := interrupt{
		C: make(chan struct{}),
	}

	sigChannel := make(chan os.Signal, 1)
	signal.Notify(sigChannel, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)
	go func() {
		sig := <-sigChannel
		log.Info().Msgf("Receive signal %s, Shutting down...", sig)
		handler()
		close(i.C)
	}()
	return i
}
