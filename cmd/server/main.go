package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	specpkg "github.com/daap14/members/api"
	"github.com/daap14/members/internal/api"
	"github.com/daap14/members/internal/auth"
	"github.com/daap14/members/internal/config"
	"github.com/daap14/members/internal/database"
	"github.com/daap14/members/internal/profile"
	"github.com/daap14/members/internal/sweeper"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.ProvisionOnStart {
		applied, err := db.Provision(ctx)
		if err != nil {
			slog.Error("failed to provision schema", "error", err)
			os.Exit(1)
		}
		slog.Info("schema provisioned", "applied", applied)
	}

	profileRepo := profile.NewPostgresRepository(db.Pool(), cfg.RLSRole)

	var userOpts []auth.RepositoryOption
	if cfg.ExplicitBootstrap() {
		userOpts = append(userOpts, auth.WithProfileBootstrap(profileRepo))
	}
	userRepo := auth.NewRepository(db.Pool(), userOpts...)
	sessionRepo := auth.NewSessionRepository(db.Pool())

	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		slog.Error("failed to initialize token service", "error", err)
		os.Exit(1)
	}
	authService := auth.NewService(userRepo, sessionRepo, tokens, cfg.BcryptCost, cfg.SessionTTL)

	if cfg.SessionSweepInterval > 0 {
		sw := sweeper.New(sessionRepo, time.Duration(cfg.SessionSweepInterval)*time.Second)
		go sw.Start(ctx)
	}

	router := api.NewRouter(api.RouterDeps{
		DBPinger:    db,
		Version:     cfg.Version,
		OpenAPISpec: specpkg.OpenAPISpec,
		AuthService: authService,
		Profiles:    profile.NewAccessor(profileRepo),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting members server",
			"port", cfg.Port,
			"version", cfg.Version,
			"profileBootstrap", cfg.ProfileBootstrap,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down server")
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
