package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
)

// Ensure QueryStore implements the interface.
var _ driven.QueryStore = (*QueryStore)(nil)

// QueryStore is an in-memory implementation of driven.QueryStore.
// Records are append-only per space.
type QueryStore struct {
	mu      sync.RWMutex
	records map[string][]domain.QueryRecord // spaceID -> records
}

// NewQueryStore creates a new in-memory query store.
func NewQueryStore() *QueryStore {
	return &QueryStore{
		records: make(map[string][]domain.QueryRecord),
	}
}

// Append stores a completed query record.
func (s *QueryStore) Append(_ context.Context, record domain.QueryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.SpaceID] = append(s.records[record.SpaceID], record)
	return nil
}

// ListBySpace returns query records for a space, newest first.
func (s *QueryStore) ListBySpace(_ context.Context, spaceID string, limit, offset int) ([]domain.QueryRecord, error) {
	if limit <= 0 {
		limit = domain.DefaultHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]domain.QueryRecord, len(s.records[spaceID]))
	copy(records, s.records[spaceID])
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	if offset >= len(records) {
		return nil, nil
	}
	end := offset + limit
	if end > len(records) {
		end = len(records)
	}
	return records[offset:end], nil
}

// ClearSpace removes all records for a space.
func (s *QueryStore) ClearSpace(_ context.Context, spaceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, spaceID)
	return nil
}
