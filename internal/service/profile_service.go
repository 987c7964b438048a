package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/socrates-learning/socrates-api/internal/domain"
	"github.com/socrates-learning/socrates-api/internal/store"
)

// ProfileService handles learner profile operations.
type ProfileService struct {
	profiles store.ProfileStore
	logger   *slog.Logger
}

// NewProfileService creates a profile service.
func NewProfileService(profiles store.ProfileStore, logger *slog.Logger) (*ProfileService, error) {
	if profiles == nil {
		return nil, errors.New("profile store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ProfileService{
		profiles: profiles,
		logger:   logger.With(slog.String("component", "profile_service")),
	}, nil
}

// Create validates and persists a new profile.
func (s *ProfileService) Create(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	s.logger.Info("profile created", slog.Int64("profile_id", profile.ID))
	return profile, nil
}

// Get retrieves a profile by ID.
func (s *ProfileService) Get(ctx context.Context, id int64) (*domain.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}
