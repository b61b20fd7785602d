package driven

import "context"

// EmbeddingCacheStore persists computed embedding vectors keyed by a
// content hash. It acts as a second cache level behind the in-memory
// one, so rebuilding the vector index after a restart does not repeat
// backend calls for unchanged content.
type EmbeddingCacheStore interface {
	// GetVector retrieves a cached vector, reporting whether it exists.
	GetVector(ctx context.Context, key string) ([]float32, bool)

	// PutVector stores a vector under the given key.
	PutVector(ctx context.Context, key string, vector []float32) error
}
