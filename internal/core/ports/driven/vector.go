package driven

// VectorIndex provides similarity search over item embeddings with
// per-space filtering and logical deletion.
type VectorIndex interface {
	// Add inserts a vector for the given item, tagged with its space.
	// If the item already has an active entry, the old entry is
	// tombstoned first; storage grows append-only.
	Add(itemID string, embedding []float32, spaceID string) error

	// Search finds the topK most similar active entries within a
	// space, ordered by non-increasing score.
	Search(query []float32, spaceID string, topK int) ([]VectorHit, error)

	// Delete tombstones the entry for an item. It reports whether an
	// active entry existed. The storage slot is never reclaimed.
	Delete(itemID string) bool

	// CountActive returns the number of non-tombstoned entries,
	// independent of total slots ever added.
	CountActive() int
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ItemID is the matched item.
	ItemID string

	// SpaceID is the space the item was indexed under.
	SpaceID string

	// Score is the similarity score in (0, 1], derived from squared
	// L2 distance as 1/(1+d) and rounded to four decimal digits.
	Score float64
}
