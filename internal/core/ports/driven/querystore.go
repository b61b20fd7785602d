package driven

import (
	"context"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// QueryStore persists completed query records.
type QueryStore interface {
	// Append stores a completed query record.
	Append(ctx context.Context, record domain.QueryRecord) error

	// ListBySpace returns query records for a space, newest first,
	// paginated by limit and offset.
	ListBySpace(ctx context.Context, spaceID string, limit, offset int) ([]domain.QueryRecord, error)

	// ClearSpace removes all records for a space. This is the bulk
	// administrative path; records are never deleted individually.
	ClearSpace(ctx context.Context, spaceID string) error
}
