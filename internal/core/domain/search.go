package domain

// DefaultTopK is the number of results a search returns when the
// caller does not specify one.
const DefaultTopK = 5

// SearchResult represents a single similarity search hit, hydrated
// with the full item record.
type SearchResult struct {
	// Item is the matched item.
	Item Item

	// Score is the similarity score in (0, 1], rounded to four
	// decimal digits for presentation.
	Score float64
}
