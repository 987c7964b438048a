package store

import (
	"context"

	"github.com/socrates-learning/socrates-api/internal/domain"
)

// WordStore defines the interface for unknown-word persistence.
// Records are append-only; there are no update or delete operations.
type WordStore interface {
	// Create appends a new unknown-word record and assigns its ID.
	Create(ctx context.Context, word *domain.UnknownWord) error

	// ListByProfile retrieves all words flagged by a profile, newest first.
	ListByProfile(ctx context.Context, profileID int64) ([]*domain.UnknownWord, error)
}
