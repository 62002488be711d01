// Package internal provides the main application initialization and runtime logic.
package internal

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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/theAliTajik/Notebook/internal/api"
	"github.com/theAliTajik/Notebook/internal/mcpserver"
	"github.com/theAliTajik/Notebook/internal/menu"
	"github.com/theAliTajik/Notebook/internal/notebook"
	"github.com/theAliTajik/Notebook/internal/noteservice"
	"github.com/theAliTajik/Notebook/internal/sse"
	"github.com/theAliTajik/Notebook/internal/storage"
	"github.com/theAliTajik/Notebook/internal/watcher"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := newApplication()

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Structured JSON logger on stderr; stdout belongs to the menu and MCP stdio.
	logger := slog.New(slog.NewJSONHandler(app.stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("mode", string(app.mode)),
		slog.String("notes_dir", cfg.Notes.Dir),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure notes directory exists.
	if err := os.MkdirAll(cfg.Notes.Dir, 0o755); err != nil {
		return fmt.Errorf("create notes dir: %w", err)
	}

	store, err := storage.NewOS(cfg.Notes.Dir)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	coll, err := notebook.Bootstrap(store)
	if err != nil {
		return fmt.Errorf("load notebooks: %w", err)
	}
	logger.Info("Notebooks loaded", slog.Int("count", coll.Len()))

	switch app.mode {
	case ModeMenu:
		return menu.New(coll, app.stdin, app.stdout, logger).Run(ctx)
	case ModeMCP:
		logger.Info("MCP server starting on stdio")
		return mcpserver.New(noteservice.NewService(coll, nil)).ServeStdio()
	case ModeServe:
		return serve(ctx, cfg, store, coll, logger)
	default:
		return fmt.Errorf("unknown mode %q", app.mode)
	}
}

func serve(ctx context.Context, cfg *Config, store *storage.FS, coll *notebook.Collection, logger *slog.Logger) error {
	broker := sse.NewBroker(cfg.Events.Throttle)
	defer broker.Close()

	svc := noteservice.NewService(coll, broker.PublishNoteEvent)
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
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

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	// stop ends the watcher once the HTTP server has shut down.
	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	g, gCtx := errgroup.WithContext(runCtx)

	if cfg.Notes.Watch {
		g.Go(func() error {
			err := watcher.Watch(gCtx, coll, store.Root(), logger, func(kind, name string) {
				broker.PublishNoteEvent(kind, name, "")
			})
			if err != nil {
				logger.Warn("watcher disabled", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		stop()

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
