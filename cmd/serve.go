package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/desertthunder/queued/internal/queue"
	"github.com/desertthunder/queued/internal/repositories"
	"github.com/desertthunder/queued/internal/server"
	"github.com/desertthunder/queued/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve starts the play queue HTTP server.
//
// Opens the database, runs migrations, restores the persisted queue state,
// and serves until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd.String("config"))

	addr := cmd.String("addr")
	if addr == "" {
		addr = config.Server.Addr()
	}

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	library := repositories.NewLibraryRepository(db)
	store := repositories.NewQueueRepository(db)
	engine := queue.New(library)

	snapshot, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load queue state: %w", err)
	}
	if err := engine.Restore(snapshot); err != nil {
		r.logger.Warn("persisted queue state invalid, starting empty", "error", err)
	} else if len(snapshot.Entries) > 0 {
		r.logger.Info("restored queue", "tracks", len(snapshot.Entries), "current", snapshot.CurrentIndex)
	}

	router := server.NewBasicRouter()
	router.Use(
		server.RequestLogger(r.logger),
		server.RateLimiter(config.Server.RateLimit, config.Server.RateBurst),
	)
	router.Handler(server.NewQueueHandler(engine, library, store, r.logger))
	router.Handler(server.NewHealthHandler(engine))

	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	notifyCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("queue server listening", "addr", addr, "database", config.Database.Path)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-notifyCtx.Done():
		r.logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}

		// final snapshot so nothing between write-behind saves is lost
		if err := store.Save(shutdownCtx, engine.Snapshot()); err != nil {
			r.logger.Error("failed to persist queue on shutdown", "error", err)
		}
	}

	return nil
}
