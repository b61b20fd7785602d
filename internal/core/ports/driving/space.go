package driving

import (
	"context"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// SpaceService manages spaces.
type SpaceService interface {
	// Create creates a new space for a user.
	Create(ctx context.Context, userID, name, description string) (*domain.Space, error)

	// Get retrieves a space by ID.
	Get(ctx context.Context, spaceID string) (*domain.Space, error)

	// List returns all spaces owned by a user.
	List(ctx context.Context, userID string) ([]domain.Space, error)

	// Update changes a space's name and/or description. Empty
	// arguments leave the corresponding field unchanged.
	Update(ctx context.Context, spaceID, name, description string) (*domain.Space, error)

	// Delete removes a space. It reports whether the space existed.
	Delete(ctx context.Context, spaceID string) (bool, error)
}
