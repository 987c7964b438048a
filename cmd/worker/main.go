// Command worker runs the consuming end of the reading-plan pipeline.
// Multiple replicas may run against the same queue; prefetch keeps them
// competing for jobs one at a time.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/socrates-learning/socrates-api/internal/config"
	"github.com/socrates-learning/socrates-api/internal/planning"
	"github.com/socrates-learning/socrates-api/internal/platform/logger"
	"github.com/socrates-learning/socrates-api/internal/platform/postgres"
	"github.com/socrates-learning/socrates-api/internal/queue"
	"github.com/socrates-learning/socrates-api/internal/redact"
	"github.com/socrates-learning/socrates-api/internal/worker"
)

func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("worker exited with error", slog.String("error", redact.Error(err)))
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

	if cfg.Database.URL == "" {
		return errors.New("SOCRATES_DATABASE_URL is required")
	}
	if cfg.Queue.URL == "" {
		return errors.New("SOCRATES_QUEUE_URL is required")
	}

	db, err := openDatabase(cfg.Database.URL)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	planner, err := selectPlanner(cfg.Planning, log)
	if err != nil {
		return err
	}

	processor, err := worker.NewProcessor(
		db,
		postgres.NewPostgresProfileStore(db, log),
		postgres.NewPostgresDocumentStore(db, log),
		postgres.NewPostgresStageStore(db, log),
		planner,
		log)
	if err != nil {
		return fmt.Errorf("failed to build processor: %w", err)
	}

	consumer, err := queue.NewConsumer(
		cfg.Queue.URL,
		cfg.Queue.Name,
		cfg.Worker.ReconnectInterval,
		processor.Handler(),
		log)
	if err != nil {
		return fmt.Errorf("failed to build consumer: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("worker started",
		slog.String("queue", cfg.Queue.Name),
		slog.Duration("reconnect_interval", cfg.Worker.ReconnectInterval))

	err = consumer.Run(ctx)
	log.Info("worker stopped")
	return err
}

// openDatabase connects over the pgx stdlib driver and verifies the
// connection before use.
func openDatabase(url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
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
