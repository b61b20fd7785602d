package driven

import "context"

// TextExtractor extracts text content from stored files for embedding.
// Extraction is best-effort: unsupported or unreadable files yield the
// empty string, never an error.
type TextExtractor interface {
	// Extract returns the text content of the file at path.
	Extract(ctx context.Context, path string) string
}
