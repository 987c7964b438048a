package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/socrates-learning/socrates-api/internal/api"
	"github.com/socrates-learning/socrates-api/internal/api/middleware"
	"github.com/socrates-learning/socrates-api/internal/api/shared"
	"github.com/socrates-learning/socrates-api/internal/extract"
	"github.com/socrates-learning/socrates-api/internal/planning"
	"github.com/socrates-learning/socrates-api/internal/platform/postgres"
	"github.com/socrates-learning/socrates-api/internal/queue"
	"github.com/socrates-learning/socrates-api/internal/service"
)

// buildRouter wires stores, services, and handlers into the API router.
func buildRouter(
	db *sql.DB,
	publisher queue.Publisher,
	planner planning.Planner,
	log *slog.Logger,
) (chi.Router, error) {
	profileStore := postgres.NewPostgresProfileStore(db, log)
	documentStore := postgres.NewPostgresDocumentStore(db, log)
	stageStore := postgres.NewPostgresStageStore(db, log)
	noteStore := postgres.NewPostgresNoteStore(db, log)
	wordStore := postgres.NewPostgresWordStore(db, log)

	profileService, err := service.NewProfileService(profileStore, log)
	if err != nil {
		return nil, fmt.Errorf("failed to build profile service: %w", err)
	}
	documentService, err := service.NewDocumentService(
		profileStore, documentStore, stageStore, noteStore,
		extract.NewTextExtractor(), publisher, log)
	if err != nil {
		return nil, fmt.Errorf("failed to build document service: %w", err)
	}
	studyService, err := service.NewStudyService(
		profileStore, stageStore, noteStore, wordStore, planner, log)
	if err != nil {
		return nil, fmt.Errorf("failed to build study service: %w", err)
	}

	profileHandler := api.NewProfileHandler(profileService, log)
	documentHandler := api.NewDocumentHandler(documentService, log)
	studyHandler := api.NewStudyHandler(studyService, log)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.TraceID)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/profiles", profileHandler.Create)
		r.Get("/profiles/{id}", profileHandler.Get)
		r.Post("/profiles/{id}/documents", documentHandler.Upload)
		r.Get("/profiles/{id}/documents", documentHandler.List)
		r.Get("/profiles/{id}/unknown-words", studyHandler.ListWords)

		r.Get("/documents/{id}", documentHandler.Get)
		r.Get("/documents/{id}/stages", documentHandler.Stages)
		r.Get("/documents/{id}/summary", documentHandler.Summary)

		r.Post("/stages/{id}/cornell", studyHandler.UpsertNote)
		r.Get("/stages/{id}/cornell", studyHandler.GetNote)
		r.Post("/stages/{id}/unknown-words", studyHandler.FlagWord)

		r.Post("/words/explain", studyHandler.ExplainWord)
	})

	return r, nil
}
