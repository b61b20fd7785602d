package domain

import (
	"strings"
	"time"
)

// ItemType identifies the kind of content an item holds.
type ItemType string

const (
	// ItemTypeText is a short text note saved directly by the user.
	ItemTypeText ItemType = "text"

	// ItemTypeFile is an uploaded file with extracted text in metadata.
	ItemTypeFile ItemType = "file"
)

// Metadata keys used for file items.
const (
	// MetaOriginalName is the filename as uploaded by the user.
	MetaOriginalName = "original_name"

	// MetaSizeBytes is the file size in bytes.
	MetaSizeBytes = "size_bytes"

	// MetaMIMEType is the MIME type reported at upload.
	MetaMIMEType = "mime_type"

	// MetaExtractedText is a preview of the extracted text,
	// capped at ExtractedTextCap characters.
	MetaExtractedText = "extracted_text"
)

// ExtractedTextCap bounds the extracted-text preview stored in item metadata.
const ExtractedTextCap = 5000

// Item represents one stored unit of content within a space.
// Items are immutable after creation; the only lifecycle transition
// is deletion.
type Item struct {
	// ID is the unique identifier for the item.
	ID string

	// SpaceID links to the owning Space.
	SpaceID string

	// Type is the content kind (text or file).
	Type ItemType

	// Content is the raw text for text items, or the stored
	// filename for file items.
	Content string

	// Notes is optional free-form annotation supplied on save.
	Notes string

	// Metadata contains arbitrary key-value pairs. For file items
	// it carries the Meta* keys defined above.
	Metadata map[string]any

	// CreatedAt is when the item was saved. It is the sort key for
	// listings; insertion order is not otherwise guaranteed.
	CreatedAt time.Time
}

// Validate checks the required fields for an item.
// Content-type specific rules (allowed extensions, size limits) are
// enforced by the file storage adapter, not here.
func (i *Item) Validate() error {
	if strings.TrimSpace(i.SpaceID) == "" {
		return ErrInvalidInput
	}
	switch i.Type {
	case ItemTypeText, ItemTypeFile:
	default:
		return ErrInvalidInput
	}
	if strings.TrimSpace(i.Content) == "" {
		return ErrInvalidInput
	}
	return nil
}

// ExtractedText returns the extracted-text preview for file items,
// or the empty string when none was captured.
func (i *Item) ExtractedText() string {
	if i.Metadata == nil {
		return ""
	}
	text, _ := i.Metadata[MetaExtractedText].(string)
	return text
}
