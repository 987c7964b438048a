package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/socrates-learning/socrates-api/internal/domain"
	"github.com/socrates-learning/socrates-api/internal/platform/logger"
	"github.com/socrates-learning/socrates-api/internal/store"
)

// PostgresNoteStore implements the store.NoteStore interface
// using a PostgreSQL database as the storage backend.
type PostgresNoteStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresNoteStore creates a new PostgreSQL implementation of the
// NoteStore interface.
func NewPostgresNoteStore(db store.DBTX, logger *slog.Logger) *PostgresNoteStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresNoteStore{
		db:     db,
		logger: logger.With(slog.String("component", "note_store")),
	}
}

// Ensure PostgresNoteStore implements store.NoteStore interface
var _ store.NoteStore = (*PostgresNoteStore)(nil)

// Upsert implements store.NoteStore.Upsert. The unique constraint on
// stage_id gives a stage at most one note; a second write replaces
// every field and refreshes updated_at.
func (s *PostgresNoteStore) Upsert(ctx context.Context, note *domain.CornellNote) (*domain.CornellNote, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := note.Validate(); err != nil {
		log.Warn("note validation failed during upsert",
			slog.String("error", err.Error()),
			slog.Int64("stage_id", note.StageID))
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO cornell_notes
			(stage_id, cues, notes, summary, cue_markers, note_markers,
			 highlights, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		ON CONFLICT (stage_id) DO UPDATE SET
			cues = EXCLUDED.cues,
			notes = EXCLUDED.notes,
			summary = EXCLUDED.summary,
			cue_markers = EXCLUDED.cue_markers,
			note_markers = EXCLUDED.note_markers,
			highlights = EXCLUDED.highlights,
			updated_at = now()
		RETURNING id, created_at, updated_at
	`
	stored := *note
	err := s.db.QueryRowContext(
		ctx,
		query,
		note.StageID,
		note.Cues,
		note.Notes,
		note.Summary,
		note.CueMarkers,
		note.NoteMarkers,
		note.Highlights,
	).Scan(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during note upsert",
				slog.String("error", err.Error()),
				slog.Int64("stage_id", note.StageID))
			return nil, fmt.Errorf("%w: stage with ID %d not found",
				store.ErrInvalidEntity, note.StageID)
		}

		log.Error("failed to upsert note",
			slog.String("error", err.Error()),
			slog.Int64("stage_id", note.StageID))
		return nil, MapError(err)
	}

	log.Debug("note upserted",
		slog.Int64("note_id", stored.ID),
		slog.Int64("stage_id", stored.StageID))
	return &stored, nil
}

// GetByStage implements store.NoteStore.GetByStage.
// Returns store.ErrNoteNotFound if the stage has no note.
func (s *PostgresNoteStore) GetByStage(ctx context.Context, stageID int64) (*domain.CornellNote, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, stage_id, cues, notes, summary, cue_markers,
		       note_markers, highlights, created_at, updated_at
		FROM cornell_notes
		WHERE stage_id = $1
	`

	note, err := scanNote(s.db.QueryRowContext(ctx, query, stageID).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("note not found", slog.Int64("stage_id", stageID))
			return nil, store.ErrNoteNotFound
		}
		log.Error("failed to get note",
			slog.String("error", err.Error()),
			slog.Int64("stage_id", stageID))
		return nil, err
	}

	return note, nil
}

// ListByDocument implements store.NoteStore.ListByDocument.
func (s *PostgresNoteStore) ListByDocument(ctx context.Context, documentID int64) ([]*domain.CornellNote, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT n.id, n.stage_id, n.cues, n.notes, n.summary, n.cue_markers,
		       n.note_markers, n.highlights, n.created_at, n.updated_at
		FROM cornell_notes n
		JOIN reading_stages s ON s.id = n.stage_id
		WHERE s.document_id = $1
		ORDER BY s.stage_index
	`

	rows, err := s.db.QueryContext(ctx, query, documentID)
	if err != nil {
		log.Error("failed to list notes",
			slog.String("error", err.Error()),
			slog.Int64("document_id", documentID))
		return nil, err
	}
	defer rows.Close()

	notes := []*domain.CornellNote{}
	for rows.Next() {
		note, err := scanNote(rows.Scan)
		if err != nil {
			log.Error("failed to scan note row",
				slog.String("error", err.Error()))
			return nil, err
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating note rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	return notes, nil
}

// scanNote reads one cornell note row.
func scanNote(scan func(dest ...any) error) (*domain.CornellNote, error) {
	var note domain.CornellNote
	if err := scan(
		&note.ID,
		&note.StageID,
		&note.Cues,
		&note.Notes,
		&note.Summary,
		&note.CueMarkers,
		&note.NoteMarkers,
		&note.Highlights,
		&note.CreatedAt,
		&note.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &note, nil
}
