package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/socrates-learning/socrates-api/internal/domain"
	"github.com/socrates-learning/socrates-api/internal/extract"
	"github.com/socrates-learning/socrates-api/internal/queue"
	"github.com/socrates-learning/socrates-api/internal/store"
)

// StageSummary pairs a stage with its cornell note, if any.
type StageSummary struct {
	Stage *domain.Stage       `json:"stage"`
	Note  *domain.CornellNote `json:"note,omitempty"`
}

// DocumentSummary is the full study view of a document: the document
// itself plus every stage joined with its annotation.
type DocumentSummary struct {
	Document *domain.Document `json:"document"`
	Stages   []StageSummary   `json:"stages"`
}

// DocumentService handles document upload and retrieval. Upload is the
// producing end of the reading-plan pipeline: every stored document
// enqueues exactly one planning job.
type DocumentService struct {
	profiles  store.ProfileStore
	documents store.DocumentStore
	stages    store.StageStore
	notes     store.NoteStore
	extractor extract.Extractor
	publisher queue.Publisher
	logger    *slog.Logger
}

// NewDocumentService creates a document service.
func NewDocumentService(
	profiles store.ProfileStore,
	documents store.DocumentStore,
	stages store.StageStore,
	notes store.NoteStore,
	extractor extract.Extractor,
	publisher queue.Publisher,
	logger *slog.Logger,
) (*DocumentService, error) {
	if profiles == nil {
		return nil, errors.New("profile store cannot be nil")
	}
	if documents == nil {
		return nil, errors.New("document store cannot be nil")
	}
	if stages == nil {
		return nil, errors.New("stage store cannot be nil")
	}
	if notes == nil {
		return nil, errors.New("note store cannot be nil")
	}
	if extractor == nil {
		return nil, errors.New("extractor cannot be nil")
	}
	if publisher == nil {
		return nil, errors.New("publisher cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &DocumentService{
		profiles:  profiles,
		documents: documents,
		stages:    stages,
		notes:     notes,
		extractor: extractor,
		publisher: publisher,
		logger:    logger.With(slog.String("component", "document_service")),
	}, nil
}

// Upload extracts text from the uploaded file, persists the document,
// and enqueues one planning job for it.
//
// A publish failure does not fail the upload: the document is already
// durable and the plan can be produced later, so the error is only
// logged. The reverse would discard the user's upload over a transient
// broker problem.
func (s *DocumentService) Upload(
	ctx context.Context,
	profileID int64,
	filename, contentType string,
	content []byte,
) (*domain.Document, error) {
	if _, err := s.profiles.GetByID(ctx, profileID); err != nil {
		return nil, fmt.Errorf("failed to resolve profile: %w", err)
	}

	rawText, err := s.extractor.Extract(content, contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	doc, err := domain.NewDocument(profileID, filename, contentType, rawText)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	if err := s.documents.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	if err := s.publisher.Publish(ctx, queue.Message{
		ProfileID:  profileID,
		DocumentID: doc.ID,
	}); err != nil {
		s.logger.Error("job_publish_failed",
			slog.Int64("profile_id", profileID),
			slog.Int64("document_id", doc.ID),
			slog.String("error", err.Error()))
	} else {
		s.logger.Info("planning job enqueued",
			slog.Int64("profile_id", profileID),
			slog.Int64("document_id", doc.ID))
	}

	return doc, nil
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, id int64) (*domain.Document, error) {
	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return doc, nil
}

// ListByProfile retrieves a profile's documents, newest first.
func (s *DocumentService) ListByProfile(ctx context.Context, profileID int64) ([]*domain.Document, error) {
	if _, err := s.profiles.GetByID(ctx, profileID); err != nil {
		return nil, fmt.Errorf("failed to resolve profile: %w", err)
	}

	docs, err := s.documents.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

// Stages retrieves a document's reading stages in order. An empty slice
// means the plan has not been produced yet.
func (s *DocumentService) Stages(ctx context.Context, documentID int64) ([]*domain.Stage, error) {
	if _, err := s.documents.GetByID(ctx, documentID); err != nil {
		return nil, fmt.Errorf("failed to resolve document: %w", err)
	}

	stages, err := s.stages.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stages: %w", err)
	}
	return stages, nil
}

// Summary retrieves the document with its stages and their notes.
func (s *DocumentService) Summary(ctx context.Context, documentID int64) (*DocumentSummary, error) {
	doc, err := s.documents.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	stages, err := s.stages.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stages: %w", err)
	}

	notes, err := s.notes.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	notesByStage := make(map[int64]*domain.CornellNote, len(notes))
	for _, note := range notes {
		notesByStage[note.StageID] = note
	}

	summary := &DocumentSummary{
		Document: doc,
		Stages:   make([]StageSummary, 0, len(stages)),
	}
	for _, stage := range stages {
		summary.Stages = append(summary.Stages, StageSummary{
			Stage: stage,
			Note:  notesByStage[stage.ID],
		})
	}

	return summary, nil
}
