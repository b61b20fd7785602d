package driven

import (
	"context"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// ItemStore persists item records. The store is authoritative for item
// existence: the vector index only ever references items by ID, and a
// hydration step reconciles the two on read.
type ItemStore interface {
	// Put stores an item.
	Put(ctx context.Context, item domain.Item) error

	// Get retrieves an item by ID.
	Get(ctx context.Context, id string) (*domain.Item, error)

	// ListBySpace returns all items in a space, newest first.
	ListBySpace(ctx context.Context, spaceID string) ([]domain.Item, error)

	// Delete removes an item. It reports whether the item existed.
	Delete(ctx context.Context, id string) (bool, error)
}
