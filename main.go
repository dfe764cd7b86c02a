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

	"github.com/isdelr/ender-auth-be/internal/api"
	"github.com/isdelr/ender-auth-be/internal/auth"
	"github.com/isdelr/ender-auth-be/internal/config"
	"github.com/isdelr/ender-auth-be/internal/database"
	"github.com/isdelr/ender-auth-be/internal/logger"
	"github.com/isdelr/ender-auth-be/internal/metrics"
	"github.com/isdelr/ender-auth-be/internal/services"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel, cfg.LogFormat)

	if cfg.JWTKey == "" {
		log.Warn().Msg("JWT_KEY is not set; logins will fail until it is configured")
	}

	// Set up database
	ctx := context.Background()
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(ctx, db, cfg.UniqueEmail); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database schema")
	}

	// Set up services
	accountService := services.NewAccountService(db, auth.NewPasswordHasher(cfg.BcryptCost))
	tokenIssuer := auth.NewTokenIssuer(cfg.JWTKey, cfg.AccessTokenTTL)

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	// Set up router
	router := api.NewRouter(api.Dependencies{
		Accounts: accountService,
		Tokens:   tokenIssuer,
		Metrics:  m,
	})

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("database", string(db.Dialect)).Msg("Server starting")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
