package driven

import (
	"context"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// SpaceStore persists space records.
type SpaceStore interface {
	// Save stores or updates a space.
	Save(ctx context.Context, space domain.Space) error

	// Get retrieves a space by ID.
	Get(ctx context.Context, id string) (*domain.Space, error)

	// ListByUser returns all spaces owned by a user.
	ListByUser(ctx context.Context, userID string) ([]domain.Space, error)

	// Delete removes a space. It reports whether the space existed.
	Delete(ctx context.Context, id string) (bool, error)
}
