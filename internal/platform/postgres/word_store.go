package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/socrates-learning/socrates-api/internal/domain"
	"github.com/socrates-learning/socrates-api/internal/platform/logger"
	"github.com/socrates-learning/socrates-api/internal/store"
)

// PostgresWordStore implements the store.WordStore interface
// using a PostgreSQL database as the storage backend.
type PostgresWordStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresWordStore creates a new PostgreSQL implementation of the
// WordStore interface.
func NewPostgresWordStore(db store.DBTX, logger *slog.Logger) *PostgresWordStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresWordStore{
		db:     db,
		logger: logger.With(slog.String("component", "word_store")),
	}
}

// Ensure PostgresWordStore implements store.WordStore interface
var _ store.WordStore = (*PostgresWordStore)(nil)

// Create implements store.WordStore.Create.
func (s *PostgresWordStore) Create(ctx context.Context, word *domain.UnknownWord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := word.Validate(); err != nil {
		log.Warn("word validation failed during create",
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO unknown_words
			(profile_id, document_id, stage_id, word, context_sentence, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		word.ProfileID,
		word.DocumentID,
		word.StageID,
		word.Word,
		word.ContextSentence,
		word.CreatedAt,
	).Scan(&word.ID)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during word creation",
				slog.String("error", err.Error()),
				slog.Int64("profile_id", word.ProfileID))
			return fmt.Errorf("%w: referenced entity not found",
				store.ErrInvalidEntity)
		}

		log.Error("failed to create word",
			slog.String("error", err.Error()),
			slog.Int64("profile_id", word.ProfileID))
		return MapError(err)
	}

	return nil
}

// ListByProfile implements store.WordStore.ListByProfile.
func (s *PostgresWordStore) ListByProfile(ctx context.Context, profileID int64) ([]*domain.UnknownWord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, profile_id, document_id, stage_id, word, context_sentence, created_at
		FROM unknown_words
		WHERE profile_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := s.db.QueryContext(ctx, query, profileID)
	if err != nil {
		log.Error("failed to list words",
			slog.String("error", err.Error()),
			slog.Int64("profile_id", profileID))
		return nil, err
	}
	defer rows.Close()

	words := []*domain.UnknownWord{}
	for rows.Next() {
		var word domain.UnknownWord
		if err := rows.Scan(
			&word.ID,
			&word.ProfileID,
			&word.DocumentID,
			&word.StageID,
			&word.Word,
			&word.ContextSentence,
			&word.CreatedAt,
		); err != nil {
			log.Error("failed to scan word row",
				slog.String("error", err.Error()))
			return nil, err
		}
		words = append(words, &word)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating word rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	return words, nil
}
