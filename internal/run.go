// Package internal wires the long-running quill commands: the HTTP server,
// the seed watcher, and the MCP server.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/starford/quill/internal/api"
	"github.com/starford/quill/internal/entry"
	"github.com/starford/quill/internal/mcpserver"
	"github.com/starford/quill/internal/sse"
	"github.com/starford/quill/internal/watcher"
	"golang.org/x/sync/errgroup"
)

// setup validates the config, installs the JSON logger, and prepares the
// journal directory.
func (a *application) setup() (*slog.Logger, *entry.Service, string, error) {
	if a.config == nil {
		return nil, nil, "", fmt.Errorf("config is required")
	}
	cfg := a.config

	logger := slog.New(slog.NewJSONHandler(a.logOutput, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	if err := os.MkdirAll(cfg.Vault.Path, 0o755); err != nil {
		return nil, nil, "", fmt.Errorf("create journal dir: %w", err)
	}
	root, err := filepath.Abs(cfg.Vault.Path)
	if err != nil {
		return nil, nil, "", fmt.Errorf("resolve journal dir: %w", err)
	}

	logger.Info("Configuration loaded",
		slog.String("journal_path", root),
		slog.Bool("watch_enabled", cfg.Watch.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	return logger, entry.NewService(entry.WithLogger(logger)), root, nil
}

// Run starts the HTTP server, and the watcher when enabled, until a signal
// arrives or ctx is cancelled.
func Run(ctx context.Context, opts ...Option) error {
	app := newApplication(opts)
	logger, svc, root, err := app.setup()
	if err != nil {
		return err
	}
	cfg := app.config

	broker := sse.NewBroker()
	defer broker.Close()

	apiRouter := api.NewRouter(api.NewHandler(svc, root, broker), cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	g, gCtx := errgroup.WithContext(ctx)

	if cfg.Watch.Enabled {
		g.Go(func() error {
			return watcher.Watch(gCtx, svc, root, cfg.Watch.Flags(), logger, broker.PublishEntry)
		})
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		waitForShutdown(gCtx, logger)

		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunWatch runs only the seed watcher.
func RunWatch(ctx context.Context, opts ...Option) error {
	app := newApplication(opts)
	logger, svc, root, err := app.setup()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return watcher.Watch(ctx, svc, root, app.config.Watch.Flags(), logger, nil)
}

// RunMCP serves the MCP tools on stdin/stdout.
func RunMCP(_ context.Context, opts ...Option) error {
	app := newApplication(opts)
	_, svc, root, err := app.setup()
	if err != nil {
		return err
	}
	return mcpserver.New(svc, root, app.version).ServeStdio()
}

// errShutdown cancels the group once a shutdown was requested so that the
// watcher stops with the HTTP server.
var errShutdown = errors.New("shutdown requested")

func waitForShutdown(ctx context.Context, logger *slog.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
		logger.Info("Context cancelled, initiating shutdown")
	}
}
