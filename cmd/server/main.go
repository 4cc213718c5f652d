// Package main boots the Yeri game backend.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/easeaico/project-yeri/internal/app"
	"github.com/easeaico/project-yeri/internal/config"
	"github.com/easeaico/project-yeri/internal/logging"
)

func main() {
	cfg, err := config.Parse()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	logging.Setup(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.Info("configuration loaded",
		"app", cfg.AppName,
		"version", cfg.AppVersion,
		"environment", cfg.Environment,
		"evaluator", cfg.Evaluator,
		"judge", cfg.Judge,
		"allowed_origins", cfg.AllowedOrigins)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize app: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", "addr", cfg.Addr())
		errCh <- application.Run(ctx)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("http server failed: %v", err)
		}
		return
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := application.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("graceful shutdown failed: %v", err)
	}
	slog.Info("server stopped cleanly")
}
