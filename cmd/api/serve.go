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

	"github.com/getsentry/sentry-go"
	"github.com/joshua-takyi/tampabay/internal/connect"
	"github.com/joshua-takyi/tampabay/internal/container"
	"github.com/joshua-takyi/tampabay/internal/helpers"
	"github.com/joshua-takyi/tampabay/internal/migrations"
	"github.com/joshua-takyi/tampabay/internal/routes"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Info().Str("environment", cfg.Environment).Msg("Starting TampaBay API server")

	// sentry init needs to happen before the gin middlewares are added
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			EnableTracing:    cfg.SentryTracesSampleRate > 0,
			TracesSampleRate: cfg.SentryTracesSampleRate,
		}); err != nil {
			logger.Error().Err(err).Msg("sentry init error")
		}
		defer sentry.Flush(2 * time.Second)
	}

	db, err := connect.PostgresConnect(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer db.Close()
	logger.Info().Msg("Connected to Postgres successfully")

	if cfg.AutoMigrate {
		group, err := migrations.Up(ctx, db)
		if err != nil {
			return err
		}
		if group.IsZero() {
			logger.Info().Msg("Database schema is up to date")
		} else {
			logger.Info().Str("group", group.String()).Msg("Applied database migrations")
		}
	}

	var mongoClient *mongo.Client
	if cfg.MongoEnabled() {
		mongoClient, err = connect.MongoDBConnect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		defer func() {
			if err := connect.MongoDBDisconnect(mongoClient); err != nil {
				logger.Error().Err(err).Msg("Error disconnecting from MongoDB")
			}
		}()
		logger.Info().Msg("Connected to MongoDB successfully")
	} else {
		logger.Warn().Msg("MONGODB_URI not set, event view tracking disabled")
	}

	tokens := helpers.NewTokens(cfg.JWTSecret, cfg.TokenExpiry(), cfg.JWTIssuer)
	if cfg.JWKSURL != "" {
		if err := tokens.WithJWKS(ctx, cfg.JWKSURL, cfg.JWKSIssuer); err != nil {
			return err
		}
		logger.Info().Str("jwks_url", cfg.JWKSURL).Str("jwks_issuer", cfg.JWKSIssuer).Msg("Accepting tokens from external key set")
	}
	defer tokens.Close()

	repos := container.PostgresRepos(db, mongoClient, cfg.MongoDBDatabase)
	if repos.Views != nil {
		indexCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := repos.Views.EnsureIndexes(indexCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to create view indexes: %w", err)
		}
	}

	appContainer := container.NewContainer(logger, cfg, tokens, repos)

	router, err := routes.SetupRoutes(appContainer)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Port).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	logger.Info().Msg("Server is shutting down...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
	return nil
}
