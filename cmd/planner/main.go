// Command planner serves the planning capability itself: given a
// learner profile and a text, it produces the staged reading plan and
// word explanations, backed by Gemini.
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
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/socrates-learning/socrates-api/internal/api/middleware"
	"github.com/socrates-learning/socrates-api/internal/config"
	"github.com/socrates-learning/socrates-api/internal/platform/logger"
	"github.com/socrates-learning/socrates-api/internal/redact"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("planner exited with error", slog.String("error", redact.Error(err)))
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

	if cfg.Planning.GeminiAPIKey == "" {
		return errors.New("planner requires SOCRATES_PLANNING_GEMINI_API_KEY")
	}

	ctx := context.Background()
	engine, err := newEngine(ctx, cfg.Planning.GeminiAPIKey, cfg.Planning.ModelName, log)
	if err != nil {
		return fmt.Errorf("failed to build generation engine: %w", err)
	}

	handler := newPlanHandler(engine, log)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.TraceID)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", handler.Health)
	r.Post("/plan-reading", handler.PlanReading)
	r.Post("/explain-word", handler.ExplainWord)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("planner listening",
			slog.Int("port", cfg.Server.Port),
			slog.String("model", cfg.Planning.ModelName))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("planner failed: %w", err)
	case sig := <-stop:
		log.Info("shutting down", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
