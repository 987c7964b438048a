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

// PostgresDocumentStore implements the store.DocumentStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDocumentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDocumentStore creates a new PostgreSQL implementation of the
// DocumentStore interface.
func NewPostgresDocumentStore(db store.DBTX, logger *slog.Logger) *PostgresDocumentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDocumentStore{
		db:     db,
		logger: logger.With(slog.String("component", "document_store")),
	}
}

// Ensure PostgresDocumentStore implements store.DocumentStore interface
var _ store.DocumentStore = (*PostgresDocumentStore)(nil)

// Create implements store.DocumentStore.Create.
// Returns store.ErrInvalidEntity if the owning profile does not exist
// (foreign key violation).
func (s *PostgresDocumentStore) Create(ctx context.Context, doc *domain.Document) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := doc.Validate(); err != nil {
		log.Warn("document validation failed during create",
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO documents (profile_id, filename, content_type, raw_text, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		doc.ProfileID,
		doc.Filename,
		doc.ContentType,
		doc.RawText,
		doc.CreatedAt,
	).Scan(&doc.ID)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during document creation",
				slog.String("error", err.Error()),
				slog.Int64("profile_id", doc.ProfileID))
			return fmt.Errorf("%w: profile with ID %d not found",
				store.ErrInvalidEntity, doc.ProfileID)
		}

		log.Error("failed to create document",
			slog.String("error", err.Error()),
			slog.Int64("profile_id", doc.ProfileID))
		return MapError(err)
	}

	log.Info("document created successfully",
		slog.Int64("document_id", doc.ID),
		slog.Int64("profile_id", doc.ProfileID))
	return nil
}

// GetByID implements store.DocumentStore.GetByID.
// Returns store.ErrDocumentNotFound if the document does not exist.
func (s *PostgresDocumentStore) GetByID(ctx context.Context, id int64) (*domain.Document, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, profile_id, filename, content_type, raw_text, created_at
		FROM documents
		WHERE id = $1
	`

	var doc domain.Document
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&doc.ID,
		&doc.ProfileID,
		&doc.Filename,
		&doc.ContentType,
		&doc.RawText,
		&doc.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("document not found", slog.Int64("document_id", id))
			return nil, store.ErrDocumentNotFound
		}
		log.Error("failed to get document",
			slog.String("error", err.Error()),
			slog.Int64("document_id", id))
		return nil, err
	}

	return &doc, nil
}

// ListByProfile implements store.DocumentStore.ListByProfile.
func (s *PostgresDocumentStore) ListByProfile(ctx context.Context, profileID int64) ([]*domain.Document, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, profile_id, filename, content_type, raw_text, created_at
		FROM documents
		WHERE profile_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := s.db.QueryContext(ctx, query, profileID)
	if err != nil {
		log.Error("failed to list documents",
			slog.String("error", err.Error()),
			slog.Int64("profile_id", profileID))
		return nil, err
	}
	defer rows.Close()

	docs := []*domain.Document{}
	for rows.Next() {
		var doc domain.Document
		if err := rows.Scan(
			&doc.ID,
			&doc.ProfileID,
			&doc.Filename,
			&doc.ContentType,
			&doc.RawText,
			&doc.CreatedAt,
		); err != nil {
			log.Error("failed to scan document row",
				slog.String("error", err.Error()))
			return nil, err
		}
		docs = append(docs, &doc)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating document rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	return docs, nil
}
