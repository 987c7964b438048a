package store

import (
	"context"

	"github.com/socrates-learning/socrates-api/internal/domain"
)

// DocumentStore defines the interface for document persistence.
type DocumentStore interface {
	// Create saves a new document and assigns its ID.
	// Returns ErrInvalidEntity if the owning profile does not exist.
	Create(ctx context.Context, doc *domain.Document) error

	// GetByID retrieves a document by its unique ID.
	// Returns ErrDocumentNotFound if the document does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Document, error)

	// ListByProfile retrieves all documents owned by the given profile,
	// newest first.
	ListByProfile(ctx context.Context, profileID int64) ([]*domain.Document, error)
}
