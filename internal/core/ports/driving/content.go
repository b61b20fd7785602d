package driving

import (
	"context"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// ContentService manages items within spaces: saving, listing,
// semantic search, and deletion.
type ContentService interface {
	// SaveText saves a text note to a space. The item is created even
	// if embedding or indexing fails; such items are kept but will not
	// surface in search.
	SaveText(ctx context.Context, spaceID, content, notes string) (*domain.Item, error)

	// SaveFile saves an uploaded file to a space: the bytes go to file
	// storage, text is extracted best-effort, and the extracted text
	// (or the original filename when extraction yields nothing) is
	// embedded. Blank embedding input skips indexing entirely.
	SaveFile(ctx context.Context, spaceID string, originalName string, mimeType string, data []byte, notes string) (*domain.Item, error)

	// List returns all items in a space, newest first.
	List(ctx context.Context, spaceID string) ([]domain.Item, error)

	// Search performs semantic search within a space and hydrates the
	// hits into full items. Hits whose backing record has been deleted
	// are silently skipped.
	Search(ctx context.Context, spaceID, query string, topK int) ([]domain.SearchResult, error)

	// SearchAll searches every space owned by a user, merges the
	// per-space results by score descending, and truncates to 2*topK.
	SearchAll(ctx context.Context, userID, query string, topK int) ([]domain.SearchResult, error)

	// Delete removes an item, its index entry, and (for file items)
	// the stored file. Store removal is authoritative and happens
	// last, so a partially failed delete can be retried.
	Delete(ctx context.Context, itemID string) (bool, error)
}
