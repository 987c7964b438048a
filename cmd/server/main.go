// Command server runs the HTTP API of the reading service: profile and
// document management, study annotations, and the producing end of the
// reading-plan pipeline.
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

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/socrates-learning/socrates-api/internal/config"
	"github.com/socrates-learning/socrates-api/internal/planning"
	"github.com/socrates-learning/socrates-api/internal/platform/logger"
	"github.com/socrates-learning/socrates-api/internal/platform/postgres/migrations"
	"github.com/socrates-learning/socrates-api/internal/queue"
	"github.com/socrates-learning/socrates-api/internal/redact"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", slog.String("error", redact.Error(err)))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	db, err := openDatabase(cfg.Database)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := migrations.Up(db, log); err != nil {
		return err
	}
	log.Info("database ready")

	if cfg.Queue.URL == "" {
		return errors.New("SOCRATES_QUEUE_URL is required")
	}

	// A dead broker degrades publishing, never the whole API: the
	// publisher redials on demand, so uploads enqueue jobs again as soon
	// as the broker is back.
	pub, err := queue.NewAMQPPublisher(cfg.Queue.URL, cfg.Queue.Name, log)
	if err != nil {
		return err
	}
	defer func() { _ = pub.Close() }()

	planner, err := selectPlanner(cfg.Planning, log)
	if err != nil {
		return err
	}

	router, err := buildRouter(db, pub, planner, log)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", slog.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		log.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down cleanly: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// openDatabase connects over the pgx stdlib driver and verifies the
// connection before use.
func openDatabase(cfg config.DatabaseConfig) (*sql.DB, error) {
	if cfg.URL == "" {
		return nil, errors.New("SOCRATES_DATABASE_URL is required")
	}
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// selectPlanner picks the HTTP planning client when a credential is
// configured, the deterministic offline planner otherwise.
func selectPlanner(cfg config.PlanningConfig, log *slog.Logger) (planning.Planner, error) {
	if cfg.APIKey == "" {
		log.Info("no planning credential configured, using offline planner")
		return planning.NewFallbackPlanner(log), nil
	}

	planner, err := planning.NewHTTPPlanner(cfg.BaseURL, cfg.APIKey, nil, log)
	if err != nil {
		return nil, fmt.Errorf("failed to build planning client: %w", err)
	}
	return planner, nil
}
