// Package app wires configuration, collaborators and the HTTP server.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/easeaico/project-yeri/internal/config"
	"github.com/easeaico/project-yeri/internal/game"
)

// App is the HTTP server plus its background janitor.
type App struct {
	httpServer    *http.Server
	engine        *game.Engine
	sweepInterval time.Duration
	cleanup       func() error
}

// New builds the application.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, err
	}

	router, err := setupHTTP(cfg, infra)
	if err != nil {
		_ = infra.Close()
		return nil, err
	}

	return &App{
		httpServer: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		engine:        infra.Engine,
		sweepInterval: cfg.SweepInterval,
		cleanup:       infra.Close,
	}, nil
}

// Run starts the janitor and blocks serving HTTP until Shutdown.
func (a *App) Run(ctx context.Context) error {
	go a.engine.RunJanitor(ctx, a.sweepInterval)
	if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server and releases infrastructure.
func (a *App) Shutdown(ctx context.Context) error {
	if err := a.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	if a.cleanup != nil {
		return a.cleanup()
	}
	return nil
}
