package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/socrates-learning/socrates-api/internal/domain"
	"github.com/socrates-learning/socrates-api/internal/platform/logger"
	"github.com/socrates-learning/socrates-api/internal/store"
)

// PostgresStageStore implements the store.StageStore interface
// using a PostgreSQL database as the storage backend.
type PostgresStageStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStageStore creates a new PostgreSQL implementation of the
// StageStore interface.
func NewPostgresStageStore(db store.DBTX, logger *slog.Logger) *PostgresStageStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresStageStore{
		db:     db,
		logger: logger.With(slog.String("component", "stage_store")),
	}
}

// Ensure PostgresStageStore implements store.StageStore interface
var _ store.StageStore = (*PostgresStageStore)(nil)

// WithTx implements store.StageStore.WithTx.
func (s *PostgresStageStore) WithTx(tx *sql.Tx) store.StageStore {
	return &PostgresStageStore{
		db:     tx,
		logger: s.logger,
	}
}

// ReplaceForDocument implements store.StageStore.ReplaceForDocument.
//
// Deletion order matters: cornell notes reference stages, so notes go
// first, then the stages, then the new set is inserted. The caller owns
// the transaction; running this on a bare connection risks a partially
// replaced set.
func (s *PostgresStageStore) ReplaceForDocument(
	ctx context.Context,
	documentID int64,
	stages []*domain.Stage,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, stage := range stages {
		if err := stage.Validate(); err != nil {
			log.Warn("stage validation failed during replace",
				slog.String("error", err.Error()),
				slog.Int64("document_id", documentID))
			return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
		}
		if stage.DocumentID != documentID {
			return fmt.Errorf("%w: stage belongs to document %d, not %d",
				store.ErrInvalidEntity, stage.DocumentID, documentID)
		}
	}

	deleteNotes := `
		DELETE FROM cornell_notes
		WHERE stage_id IN (SELECT id FROM reading_stages WHERE document_id = $1)
	`
	if _, err := s.db.ExecContext(ctx, deleteNotes, documentID); err != nil {
		log.Error("failed to delete cornell notes during replace",
			slog.String("error", err.Error()),
			slog.Int64("document_id", documentID))
		return err
	}

	deleteStages := `DELETE FROM reading_stages WHERE document_id = $1`
	if _, err := s.db.ExecContext(ctx, deleteStages, documentID); err != nil {
		log.Error("failed to delete stages during replace",
			slog.String("error", err.Error()),
			slog.Int64("document_id", documentID))
		return err
	}

	insert := `
		INSERT INTO reading_stages
			(document_id, stage_index, title, objective, excerpt_text, vocabulary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	for _, stage := range stages {
		vocabulary, err := json.Marshal(stage.Vocabulary)
		if err != nil {
			return fmt.Errorf("%w: failed to encode vocabulary: %v",
				store.ErrInvalidEntity, err)
		}

		err = s.db.QueryRowContext(
			ctx,
			insert,
			stage.DocumentID,
			stage.StageIndex,
			stage.Title,
			stage.Objective,
			stage.ExcerptText,
			vocabulary,
			stage.CreatedAt,
		).Scan(&stage.ID)

		if err != nil {
			log.Error("failed to insert stage during replace",
				slog.String("error", err.Error()),
				slog.Int64("document_id", documentID),
				slog.Int("stage_index", stage.StageIndex))
			return MapError(err)
		}
	}

	log.Info("stage set replaced",
		slog.Int64("document_id", documentID),
		slog.Int("stage_count", len(stages)))
	return nil
}

// ListByDocument implements store.StageStore.ListByDocument.
func (s *PostgresStageStore) ListByDocument(ctx context.Context, documentID int64) ([]*domain.Stage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, document_id, stage_index, title, objective, excerpt_text, vocabulary, created_at
		FROM reading_stages
		WHERE document_id = $1
		ORDER BY stage_index
	`

	rows, err := s.db.QueryContext(ctx, query, documentID)
	if err != nil {
		log.Error("failed to list stages",
			slog.String("error", err.Error()),
			slog.Int64("document_id", documentID))
		return nil, err
	}
	defer rows.Close()

	stages := []*domain.Stage{}
	for rows.Next() {
		stage, err := scanStage(rows.Scan)
		if err != nil {
			log.Error("failed to scan stage row",
				slog.String("error", err.Error()))
			return nil, err
		}
		stages = append(stages, stage)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating stage rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	return stages, nil
}

// GetByID implements store.StageStore.GetByID.
// Returns store.ErrStageNotFound if the stage does not exist.
func (s *PostgresStageStore) GetByID(ctx context.Context, id int64) (*domain.Stage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, document_id, stage_index, title, objective, excerpt_text, vocabulary, created_at
		FROM reading_stages
		WHERE id = $1
	`

	stage, err := scanStage(s.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("stage not found", slog.Int64("stage_id", id))
			return nil, store.ErrStageNotFound
		}
		log.Error("failed to get stage",
			slog.String("error", err.Error()),
			slog.Int64("stage_id", id))
		return nil, err
	}

	return stage, nil
}

// scanStage reads one stage row, decoding the vocabulary JSON column.
func scanStage(scan func(dest ...any) error) (*domain.Stage, error) {
	var stage domain.Stage
	var vocabulary []byte

	if err := scan(
		&stage.ID,
		&stage.DocumentID,
		&stage.StageIndex,
		&stage.Title,
		&stage.Objective,
		&stage.ExcerptText,
		&vocabulary,
		&stage.CreatedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(vocabulary, &stage.Vocabulary); err != nil {
		return nil, fmt.Errorf("failed to decode vocabulary: %w", err)
	}

	return &stage, nil
}
