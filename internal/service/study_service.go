package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/socrates-learning/socrates-api/internal/domain"
	"github.com/socrates-learning/socrates-api/internal/planning"
	"github.com/socrates-learning/socrates-api/internal/store"
)

// StudyService handles the annotations a learner produces while working
// through a plan: cornell notes, unknown words, and word explanations.
type StudyService struct {
	profiles store.ProfileStore
	stages   store.StageStore
	notes    store.NoteStore
	words    store.WordStore
	planner  planning.Planner
	logger   *slog.Logger
}

// NewStudyService creates a study service.
func NewStudyService(
	profiles store.ProfileStore,
	stages store.StageStore,
	notes store.NoteStore,
	words store.WordStore,
	planner planning.Planner,
	logger *slog.Logger,
) (*StudyService, error) {
	if profiles == nil {
		return nil, errors.New("profile store cannot be nil")
	}
	if stages == nil {
		return nil, errors.New("stage store cannot be nil")
	}
	if notes == nil {
		return nil, errors.New("note store cannot be nil")
	}
	if words == nil {
		return nil, errors.New("word store cannot be nil")
	}
	if planner == nil {
		return nil, errors.New("planner cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &StudyService{
		profiles: profiles,
		stages:   stages,
		notes:    notes,
		words:    words,
		planner:  planner,
		logger:   logger.With(slog.String("component", "study_service")),
	}, nil
}

// UpsertNote creates or fully replaces the cornell note of a stage.
func (s *StudyService) UpsertNote(ctx context.Context, note *domain.CornellNote) (*domain.CornellNote, error) {
	if err := note.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	if _, err := s.stages.GetByID(ctx, note.StageID); err != nil {
		return nil, fmt.Errorf("failed to resolve stage: %w", err)
	}

	stored, err := s.notes.Upsert(ctx, note)
	if err != nil {
		return nil, fmt.Errorf("failed to save note: %w", err)
	}

	s.logger.Debug("cornell note saved",
		slog.Int64("stage_id", stored.StageID),
		slog.Int64("note_id", stored.ID))
	return stored, nil
}

// GetNote retrieves the cornell note of a stage.
func (s *StudyService) GetNote(ctx context.Context, stageID int64) (*domain.CornellNote, error) {
	note, err := s.notes.GetByStage(ctx, stageID)
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return note, nil
}

// FlagWord appends an unknown-word record. When the word is flagged on
// a stage, the stage is resolved and the document link derived from it.
func (s *StudyService) FlagWord(ctx context.Context, word *domain.UnknownWord) (*domain.UnknownWord, error) {
	if err := word.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	if _, err := s.profiles.GetByID(ctx, word.ProfileID); err != nil {
		return nil, fmt.Errorf("failed to resolve profile: %w", err)
	}

	if word.StageID != nil {
		stage, err := s.stages.GetByID(ctx, *word.StageID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve stage: %w", err)
		}
		if word.DocumentID == nil {
			word.DocumentID = &stage.DocumentID
		}
	}

	if err := s.words.Create(ctx, word); err != nil {
		return nil, fmt.Errorf("failed to save word: %w", err)
	}

	return word, nil
}

// ListWords retrieves every word a profile flagged, newest first.
func (s *StudyService) ListWords(ctx context.Context, profileID int64) ([]*domain.UnknownWord, error) {
	if _, err := s.profiles.GetByID(ctx, profileID); err != nil {
		return nil, fmt.Errorf("failed to resolve profile: %w", err)
	}

	words, err := s.words.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list words: %w", err)
	}
	return words, nil
}

// ExplainWord asks the planning capability for a learner-appropriate
// explanation of a word in context.
func (s *StudyService) ExplainWord(
	ctx context.Context,
	profileID int64,
	word, wordContext string,
) (*planning.WordExplanation, error) {
	profile, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve profile: %w", err)
	}

	explanation, err := s.planner.Explain(ctx, profile, word, wordContext)
	if err != nil {
		return nil, fmt.Errorf("failed to explain word: %w", err)
	}
	return explanation, nil
}
