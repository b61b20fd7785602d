// Package memory provides an in-memory implementation of
// driven.VectorIndex using brute-force squared-L2 scanning.
//
// Storage is append-only: deletion tombstones a slot instead of
// reclaiming it, so total slots grow for the process lifetime while
// CountActive tracks only live entries. Compaction of tombstoned slots
// is a known extension point for larger indexes.
package memory

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// OversamplingFactor controls how far past topK the ranked scan looks
// before filtering by space. Filtering happens after ranking, so
// without oversampling a space holding a small fraction of the index
// would starve.
const OversamplingFactor = 10

// slot is one entry in the append-only vector arena.
// An empty itemID marks a tombstone.
type slot struct {
	itemID  string
	spaceID string
	vector  []float32
}

// VectorIndex is a brute-force in-memory similarity index with
// per-space filtering and logical deletion.
type VectorIndex struct {
	mu        sync.RWMutex
	dimension int
	slots     []slot
	position  map[string]int // itemID -> slot index
}

// New creates a vector index for embeddings of the given dimension.
func New(dimension int) *VectorIndex {
	return &VectorIndex{
		dimension: dimension,
		position:  make(map[string]int),
	}
}

// Add inserts a vector for the given item, tagged with its space.
// An existing active entry for the item is tombstoned first; the new
// vector is always appended, never written in place.
func (x *VectorIndex) Add(itemID string, embedding []float32, spaceID string) error {
	if itemID == "" || spaceID == "" {
		return fmt.Errorf("index: item and space IDs are required")
	}
	if len(embedding) != x.dimension {
		return fmt.Errorf("index: dimension mismatch: got %d, want %d", len(embedding), x.dimension)
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	if idx, ok := x.position[itemID]; ok {
		x.slots[idx] = slot{}
		delete(x.position, itemID)
	}

	vector := make([]float32, len(embedding))
	copy(vector, embedding)

	x.slots = append(x.slots, slot{itemID: itemID, spaceID: spaceID, vector: vector})
	x.position[itemID] = len(x.slots) - 1
	return nil
}

// Search ranks every stored vector by squared L2 distance to the
// query, scans the nearest min(total, topK*OversamplingFactor) slots
// in rank order, and keeps the first topK active entries belonging to
// the space. Ties rank in insertion order, which keeps results stable.
func (x *VectorIndex) Search(query []float32, spaceID string, topK int) ([]driven.VectorHit, error) {
	if len(query) != x.dimension {
		return nil, fmt.Errorf("index: dimension mismatch: got %d, want %d", len(query), x.dimension)
	}
	if topK <= 0 {
		topK = 5
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	total := len(x.slots)
	if total == 0 {
		return nil, nil
	}

	distances := make([]float64, total)
	order := make([]int, total)
	for i := range x.slots {
		distances[i] = squaredL2(query, x.slots[i].vector)
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return distances[order[a]] < distances[order[b]]
	})

	searchK := topK * OversamplingFactor
	if searchK > total {
		searchK = total
	}

	var hits []driven.VectorHit
	for _, idx := range order[:searchK] {
		s := x.slots[idx]
		if s.itemID == "" {
			continue
		}
		if s.spaceID != spaceID {
			continue
		}
		hits = append(hits, driven.VectorHit{
			ItemID:  s.itemID,
			SpaceID: s.spaceID,
			Score:   roundScore(1.0 / (1.0 + distances[idx])),
		})
		if len(hits) >= topK {
			break
		}
	}
	return hits, nil
}

// Delete tombstones the entry for an item. The slot keeps its position
// in the arena so later additions never reuse it.
func (x *VectorIndex) Delete(itemID string) bool {
	x.mu.Lock()
	defer x.mu.Unlock()

	idx, ok := x.position[itemID]
	if !ok {
		return false
	}
	x.slots[idx] = slot{}
	delete(x.position, itemID)
	return true
}

// CountActive returns the number of non-tombstoned entries.
func (x *VectorIndex) CountActive() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.position)
}

// squaredL2 computes the squared Euclidean distance between vectors.
// Tombstoned slots hold nil vectors; those rank at infinite distance.
func squaredL2(a, b []float32) float64 {
	if b == nil {
		return math.Inf(1)
	}
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

// roundScore rounds to four decimal digits. This is a presentation
// contract only; ranking happens on raw distances.
func roundScore(s float64) float64 {
	return math.Round(s*10000) / 10000
}
