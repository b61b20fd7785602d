package driving

import (
	"context"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// QueryService answers grounded questions about space content and
// keeps the per-space query history.
type QueryService interface {
	// Ask answers a question using content retrieved from the space.
	// It enforces the per-space rate limit, retrieves the most
	// relevant items, and calls the answer backend with bounded
	// retries. Without a configured backend it answers in fallback
	// mode. Every successful answer produces one QueryRecord.
	Ask(ctx context.Context, spaceID, question string) (*domain.QueryRecord, error)

	// History returns query records for a space, newest first.
	History(ctx context.Context, spaceID string, limit, offset int) ([]domain.QueryRecord, error)

	// ClearHistory removes all query records for a space. Records are
	// immutable and never deleted individually; this is the only
	// removal path.
	ClearHistory(ctx context.Context, spaceID string) error
}
