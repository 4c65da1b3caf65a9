package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ahlemhorchani/smart-interventions/internal/app"
	"github.com/ahlemhorchani/smart-interventions/internal/config"
	"github.com/ahlemhorchani/smart-interventions/internal/logging"
	"github.com/ahlemhorchani/smart-interventions/internal/transport/web"
)

const shutdownTimeout = 10 * time.Second

// main is the application entry point / Point d'entrée de l'application
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

// run initializes and starts the HTTP server / Initialise et démarre le serveur HTTP
func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, flush := logging.NewLogger(cfg, os.Stdout)
	defer flush.Close()
	slog.SetDefault(logger)
	logStartupInfo(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := app.NewContainer(ctx, cfg, app.WithLogger(logger))
	if err != nil {
		return err
	}
	defer func() {
		if err := container.Close(); err != nil {
			slog.Error("container close failed", "err", err)
		}
	}()

	// Collaborators may come up later, readiness reports them
	if err := container.Ping(ctx); err != nil {
		slog.Warn("dependency not reachable at startup", "err", err)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      web.NewMux(ctx, web.NewHandler(container), container),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}

// logStartupInfo displays startup information / Affiche les informations de démarrage
func logStartupInfo(conf *config.Config) {
	slog.Info("starting smart-interventions",
		"environment", conf.Environment,
		"port", conf.Server.Port,
		"database", conf.Database.Type,
		"storage", conf.Storage.Driver,
		"events", conf.Events.Driver,
		"tracing", conf.Tracing.Enabled,
	)

	if conf.RateLimiter.Enabled {
		slog.Info("rate limiter enabled",
			"rps", conf.RateLimiter.RPS,
			"burst", conf.RateLimiter.Burst,
			"strict_in_production", conf.IsProduction(),
		)
	} else {
		slog.Warn("rate limiter is disabled")
	}

	slog.Info("token duration", "access_token", conf.Auth.TokenDuration)
}
