package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"

	"pizzahunt/internal/catalog"
	"pizzahunt/internal/config"
	"pizzahunt/internal/logging"
	"pizzahunt/internal/server"
)

const shutdownTimeout = 5 * time.Second

// serve runs the API until ctx is cancelled. ready, when non-nil, receives
// the bound address once the listener is up.
func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger, ready chan<- string) error {
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	lock := flock.New(cfg.ServerLockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another pizzahuntd instance is already running")
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release server lock", logging.Error(err))
		}
	}()

	store, err := catalog.Open(ctx, cfg.Server.DatabasePath,
		catalog.WithLogger(logger),
		catalog.WithStatementLog(cfg.Server.Debug),
	)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer store.Close()

	srv, err := server.New(cfg, store, logger)
	if err != nil {
		return err
	}
	if err := srv.Start(); err != nil {
		return err
	}

	logger.Info("🌍 Connected on "+srv.Addr(),
		logging.String(logging.FieldEventType, "pizzahuntd_started"),
		logging.String("database", store.Path()),
		logging.String("lock", cfg.ServerLockPath()),
	)
	if ready != nil {
		ready <- srv.Addr()
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown api server: %w", err)
	}
	return nil
}
