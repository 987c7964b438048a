package store

import (
	"context"

	"github.com/socrates-learning/socrates-api/internal/domain"
)

// ProfileStore defines the interface for profile persistence.
type ProfileStore interface {
	// Create saves a new profile and assigns its ID.
	Create(ctx context.Context, profile *domain.Profile) error

	// GetByID retrieves a profile by its unique ID.
	// Returns ErrProfileNotFound if the profile does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Profile, error)
}
