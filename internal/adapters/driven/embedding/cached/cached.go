// Package cached provides a memoizing decorator for any
// driven.EmbeddingService.
//
// Vectors are cached by a content hash of the exact input text, so
// repeated saves of identical content cost no extra backend calls.
// The inner backend must be deterministic for identical input; cache
// correctness depends on it.
package cached

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"

	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/logger"
)

// Ensure Service implements the interface.
var _ driven.EmbeddingService = (*Service)(nil)

// Service memoizes embeddings produced by an inner EmbeddingService.
type Service struct {
	inner   driven.EmbeddingService
	persist driven.EmbeddingCacheStore

	mu    sync.RWMutex
	cache map[string][]float32
}

// New wraps an embedding service with memoization.
func New(inner driven.EmbeddingService) *Service {
	return &Service{
		inner: inner,
		cache: make(map[string][]float32),
	}
}

// SetPersistence attaches a persistent second cache level. Misses in
// the in-memory cache consult it before the backend, and fresh vectors
// are written through best-effort.
func (s *Service) SetPersistence(store driven.EmbeddingCacheStore) {
	s.persist = store
}

// Embed generates an embedding for the given text, serving repeats
// from cache. Empty or whitespace-only text maps to the zero vector
// without invoking the backend.
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return make([]float32, s.inner.Dimensions()), nil
	}

	key := cacheKey(text)
	if vector, ok := s.lookup(key); ok {
		return vector, nil
	}
	if vector, ok := s.lookupPersistent(ctx, key); ok {
		return vector, nil
	}

	// Backend call happens outside the lock so one slow request does
	// not serialize unrelated texts.
	vector, err := s.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	s.store(ctx, key, vector)
	return vector, nil
}

// EmbedBatch generates embeddings for multiple texts. Cached and blank
// entries are resolved locally; the remaining misses go to the backend
// in a single call. Output order matches input order.
func (s *Service) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	results := make([][]float32, len(texts))
	var missIndices []int
	var missTexts []string

	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			results[i] = make([]float32, s.inner.Dimensions())
			continue
		}
		key := cacheKey(text)
		if vector, ok := s.lookup(key); ok {
			results[i] = vector
			continue
		}
		if vector, ok := s.lookupPersistent(ctx, key); ok {
			results[i] = vector
			continue
		}
		missIndices = append(missIndices, i)
		missTexts = append(missTexts, text)
	}

	if len(missTexts) > 0 {
		vectors, err := s.inner.EmbedBatch(ctx, missTexts)
		if err != nil {
			return nil, err
		}
		for j, i := range missIndices {
			s.store(ctx, cacheKey(texts[i]), vectors[j])
			results[i] = vectors[j]
		}
	}

	return results, nil
}

// Dimensions returns the embedding vector size of the inner service.
func (s *Service) Dimensions() int {
	return s.inner.Dimensions()
}

// ModelName returns the inner model name.
func (s *Service) ModelName() string {
	return s.inner.ModelName()
}

// Size returns the number of cached vectors.
func (s *Service) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cache)
}

func (s *Service) lookup(key string) ([]float32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vector, ok := s.cache[key]
	return vector, ok
}

// lookupPersistent consults the second cache level, promoting hits
// into the in-memory map.
func (s *Service) lookupPersistent(ctx context.Context, key string) ([]float32, bool) {
	if s.persist == nil {
		return nil, false
	}
	vector, ok := s.persist.GetVector(ctx, key)
	if !ok {
		return nil, false
	}
	s.mu.Lock()
	s.cache[key] = vector
	s.mu.Unlock()
	return vector, true
}

func (s *Service) store(ctx context.Context, key string, vector []float32) {
	s.mu.Lock()
	s.cache[key] = vector
	s.mu.Unlock()

	if s.persist != nil {
		if err := s.persist.PutVector(ctx, key, vector); err != nil {
			logger.Warn("embedding cache: persist failed for %s: %v", key, err)
		}
	}
}

// cacheKey hashes the exact text content.
func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
