package store

import (
	"context"

	"github.com/socrates-learning/socrates-api/internal/domain"
)

// NoteStore defines the interface for cornell-note persistence.
// A stage has at most one note; writes are upserts keyed by stage.
type NoteStore interface {
	// Upsert creates the note for a stage, or updates all fields of the
	// existing one. The stored note is returned with its ID and
	// timestamps populated.
	Upsert(ctx context.Context, note *domain.CornellNote) (*domain.CornellNote, error)

	// GetByStage retrieves the note attached to a stage.
	// Returns ErrNoteNotFound if the stage has no note.
	GetByStage(ctx context.Context, stageID int64) (*domain.CornellNote, error)

	// ListByDocument retrieves the notes of all stages of a document,
	// ordered by stage index.
	ListByDocument(ctx context.Context, documentID int64) ([]*domain.CornellNote, error)
}
