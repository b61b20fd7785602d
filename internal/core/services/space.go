package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driving"
)

// Ensure SpaceService implements the interface.
var _ driving.SpaceService = (*SpaceService)(nil)

// SpaceService manages spaces.
type SpaceService struct {
	spaceStore driven.SpaceStore
	now        func() time.Time
}

// NewSpaceService creates a new space service.
func NewSpaceService(spaceStore driven.SpaceStore) *SpaceService {
	return &SpaceService{
		spaceStore: spaceStore,
		now:        time.Now,
	}
}

// Create creates a new space for a user.
func (s *SpaceService) Create(ctx context.Context, userID, name, description string) (*domain.Space, error) {
	now := s.now()
	space := domain.Space{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := space.Validate(); err != nil {
		return nil, err
	}
	if err := s.spaceStore.Save(ctx, space); err != nil {
		return nil, fmt.Errorf("create space: %w", err)
	}
	return &space, nil
}

// Get retrieves a space by ID.
func (s *SpaceService) Get(ctx context.Context, spaceID string) (*domain.Space, error) {
	return s.spaceStore.Get(ctx, spaceID)
}

// List returns all spaces owned by a user.
func (s *SpaceService) List(ctx context.Context, userID string) ([]domain.Space, error) {
	return s.spaceStore.ListByUser(ctx, userID)
}

// Update changes a space's name and/or description.
func (s *SpaceService) Update(ctx context.Context, spaceID, name, description string) (*domain.Space, error) {
	space, err := s.spaceStore.Get(ctx, spaceID)
	if err != nil {
		return nil, err
	}
	if name != "" {
		space.Name = name
	}
	if description != "" {
		space.Description = description
	}
	space.UpdatedAt = s.now()

	if err := space.Validate(); err != nil {
		return nil, err
	}
	if err := s.spaceStore.Save(ctx, *space); err != nil {
		return nil, fmt.Errorf("update space: %w", err)
	}
	return space, nil
}

// Delete removes a space. It reports whether the space existed.
func (s *SpaceService) Delete(ctx context.Context, spaceID string) (bool, error) {
	return s.spaceStore.Delete(ctx, spaceID)
}
