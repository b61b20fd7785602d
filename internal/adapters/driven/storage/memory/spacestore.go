package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
)

// Ensure SpaceStore implements the interface.
var _ driven.SpaceStore = (*SpaceStore)(nil)

// SpaceStore is an in-memory implementation of driven.SpaceStore.
type SpaceStore struct {
	mu     sync.RWMutex
	spaces map[string]domain.Space
}

// NewSpaceStore creates a new in-memory space store.
func NewSpaceStore() *SpaceStore {
	return &SpaceStore{
		spaces: make(map[string]domain.Space),
	}
}

// Save stores or updates a space.
func (s *SpaceStore) Save(_ context.Context, space domain.Space) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spaces[space.ID] = space
	return nil
}

// Get retrieves a space by ID.
func (s *SpaceStore) Get(_ context.Context, id string) (*domain.Space, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	space, ok := s.spaces[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &space, nil
}

// ListByUser returns all spaces owned by a user, newest first.
func (s *SpaceStore) ListByUser(_ context.Context, userID string) ([]domain.Space, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Space
	for id := range s.spaces {
		space := s.spaces[id]
		if space.UserID == userID {
			result = append(result, space)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// Delete removes a space. It reports whether the space existed.
func (s *SpaceStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.spaces[id]; !ok {
		return false, nil
	}
	delete(s.spaces, id)
	return true, nil
}
