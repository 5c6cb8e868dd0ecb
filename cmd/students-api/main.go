// main is the entry point of the student directory service.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file
//  2. Initialise the logger
//  3. Open the backing store (JSON document or SQLite file)
//  4. Register all HTTP routes
//  5. Start the HTTP server in a separate goroutine
//  6. Block the main goroutine until an OS signal (Ctrl+C / kill) arrives
//  7. Gracefully shut down: finish in-flight requests, then exit
//
// RUNNING THE SERVER:
//
//	go run ./cmd/students-api --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/students-api
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

	"github.com/aanand-mishra/student-directory/internal/config"
	"github.com/aanand-mishra/student-directory/internal/http/router"
	"github.com/aanand-mishra/student-directory/internal/service"
	"github.com/aanand-mishra/student-directory/internal/storage"
	"github.com/aanand-mishra/student-directory/internal/storage/jsonfile"
	"github.com/aanand-mishra/student-directory/internal/storage/sqlite"
)

const version = "1.0.0"

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting students-api",
		slog.String("env", cfg.Env),
		slog.String("version", version),
	)

	// ── 3. Initialise Storage ─────────────────────────────────────────────
	// The rest of the code only knows the storage.Repository interface;
	// the driver is picked here and nowhere else.
	repo, closeRepo, err := openRepository(cfg.Storage)
	if err != nil {
		log.Error("failed to initialise storage",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeRepo()

	log.Info("storage initialised",
		slog.String("driver", cfg.Storage.Driver),
		slog.String("path", cfg.Storage.Path))

	// ── 4. Register HTTP Routes ───────────────────────────────────────────
	svc := service.New(repo, log)
	handler := router.New(svc, log, cfg.Metrics)

	server := &http.Server{
		Addr:         cfg.HTTPServer.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	// ── 5. Start Server in a Goroutine ────────────────────────────────────
	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		if err := server.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// ── 6. Wait for Shutdown Signal ───────────────────────────────────────
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-done:
		log.Info("shutdown signal received, stopping server...",
			slog.String("signal", sig.String()))
	case err, ok := <-errCh:
		if ok && err != nil {
			log.Error("server encountered an error",
				slog.String("error", err.Error()))
			closeRepo()
			os.Exit(1)
		}
	}

	// ── 7. Graceful Shutdown ──────────────────────────────────────────────
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
		return
	}

	log.Info("server stopped gracefully")
}

// openRepository builds the repository selected by cfg.Driver. The returned
// func releases whatever the driver holds open.
func openRepository(cfg config.Storage) (storage.Repository, func() error, error) {
	switch cfg.Driver {
	case config.DriverJSON:
		repo, err := jsonfile.New(cfg.Path, jsonfile.WithAtomicWrites(cfg.AtomicWrites))
		if err != nil {
			return nil, nil, err
		}
		return repo, func() error { return nil }, nil
	case config.DriverSQLite:
		repo, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return repo, repo.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}
