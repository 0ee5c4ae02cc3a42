package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/erazemk/slipgen/internal/api"
	"github.com/erazemk/slipgen/internal/catalog"
	"github.com/erazemk/slipgen/internal/config"
	"github.com/erazemk/slipgen/internal/db"
	"github.com/erazemk/slipgen/internal/draft"
	"github.com/erazemk/slipgen/internal/imaging"
	"github.com/erazemk/slipgen/internal/printview"
	"github.com/erazemk/slipgen/internal/session"
	"github.com/erazemk/slipgen/internal/store"
	webembed "github.com/erazemk/slipgen/web"
)

func newServeCmd(a *app) *cobra.Command {
	var addr, dbPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the drafting HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("db") {
				a.cfg.Server.DB = dbPath
			}
			return serve(a.cfg)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides server.addr)")
	cmd.Flags().StringVarP(&dbPath, "db", "d", "", "SQLite database path (overrides server.db)")
	return cmd
}

// sessionDrafts returns the factory for new session drafts. Each draft's
// catalog starts from the stored item names.
func sessionDrafts(database *sql.DB, cfg *config.Config) func() *draft.Draft {
	clock := cfg.Clock()
	return func() *draft.Draft {
		names, err := store.ListCatalogItems(context.Background(), database)
		if err != nil {
			slog.Error("failed to load catalog, using configured names", "error", err)
			names = cfg.Catalog
		}
		return draft.New(draft.Options{
			Identity:  clock,
			Catalog:   catalog.NewSet(names...),
			Reference: cfg.Reference,
			Policy:    cfg.Policy,
		})
	}
}

// sweepSessions drops idle sessions until ctx is done.
func sweepSessions(ctx context.Context, registry *session.Registry, idle time.Duration) {
	interval := max(idle/4, time.Minute)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := registry.Sweep(idle); n > 0 {
				slog.Info("idle sessions discarded", "count", n, "remaining", registry.Len())
			}
		}
	}
}

func serve(cfg *config.Config) error {
	database, err := db.Open(cfg.Server.DB)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Ensure schema exists (idempotent).
	if err := db.EnsureSchema(database); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}

	ctx := context.Background()
	if err := store.SeedCatalog(ctx, database, cfg.Catalog); err != nil {
		return fmt.Errorf("seeding catalog: %w", err)
	}

	slog.Info("database ready", "path", cfg.Server.DB)

	// Session token secret, generated on first run.
	secret, err := store.GetTokenSecret(ctx, database)
	if err != nil {
		return fmt.Errorf("loading token secret: %w", err)
	}

	view, err := printview.New()
	if err != nil {
		return fmt.Errorf("loading slip template: %w", err)
	}

	registry := session.NewRegistry(sessionDrafts(database, cfg))

	apiRouter := api.NewRouter(api.Options{
		DB:        database,
		Sessions:  registry,
		Secret:    secret,
		Reference: cfg.Reference,
		Encoder:   cfg.SlipEncoder(),
		QR:        imaging.NewQRCode(),
		View:      view,
	})

	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.LoggingMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	if cfg.Server.SessionIdle > 0 {
		go sweepSessions(sweepCtx, registry, cfg.Server.SessionIdle)
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.Server.Addr, "payload_version", int(cfg.SlipEncoder().Version))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("server stopped, closing database")
	return nil
}
