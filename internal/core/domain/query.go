package domain

import "time"

// SourcePreviewLength bounds the content preview stored in a SourceRef.
const SourcePreviewLength = 200

// DefaultHistoryLimit is the query history page size when the caller
// does not specify one.
const DefaultHistoryLimit = 20

// SourceRef is one item reference attached to an answered query.
type SourceRef struct {
	// ItemID is the referenced item.
	ItemID string

	// Type is the item's content kind.
	Type ItemType

	// Content is a preview of the item content, at most
	// SourcePreviewLength characters.
	Content string

	// Score is the relevance score the item matched with.
	Score float64
}

// QueryRecord is a completed question/answer exchange within a space.
// Records are immutable once created and only removed in bulk by
// administrative action.
type QueryRecord struct {
	// ID is the unique identifier for the query.
	ID string

	// SpaceID links to the space the question was asked of.
	SpaceID string

	// Question is the user's question text.
	Question string

	// Answer is the generated (or fallback) answer text.
	Answer string

	// Sources lists the items the answer was grounded on, in
	// relevance order.
	Sources []SourceRef

	// CreatedAt is when the exchange completed.
	CreatedAt time.Time
}
