// Package services implements the driving ports: the application core
// that binds stores, the vector index, and the embedding and answer
// backends together.
package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driving"
	"github.com/custodia-labs/recall-cli/internal/logger"
)

// Ensure ContentService implements the interface.
var _ driving.ContentService = (*ContentService)(nil)

// ContentService manages items: it keeps the item store and the
// vector index consistent, generating embeddings on save and
// reconciling the two on read.
type ContentService struct {
	itemStore   driven.ItemStore
	spaceStore  driven.SpaceStore
	vectorIndex driven.VectorIndex
	embedding   driven.EmbeddingService
	fileStorage driven.FileStorage
	extractor   driven.TextExtractor
	now         func() time.Time
}

// NewContentService creates a new content service.
// The embedding service is optional (can be nil); without it items are
// saved but never indexed, and search reports ErrEmbeddingUnavailable.
func NewContentService(
	itemStore driven.ItemStore,
	spaceStore driven.SpaceStore,
	vectorIndex driven.VectorIndex,
	embedding driven.EmbeddingService,
	fileStorage driven.FileStorage,
	extractor driven.TextExtractor,
) *ContentService {
	return &ContentService{
		itemStore:   itemStore,
		spaceStore:  spaceStore,
		vectorIndex: vectorIndex,
		embedding:   embedding,
		fileStorage: fileStorage,
		extractor:   extractor,
		now:         time.Now,
	}
}

// SetClock overrides the timestamp source. Useful for testing.
func (s *ContentService) SetClock(now func() time.Time) {
	s.now = now
}

// SaveText saves a text note to a space.
// Embedding or index failure does not roll back the item: losing user
// content is worse than losing searchability, so the item persists
// with a warning even when search will not surface it.
func (s *ContentService) SaveText(ctx context.Context, spaceID, content, notes string) (*domain.Item, error) {
	if strings.TrimSpace(spaceID) == "" || strings.TrimSpace(content) == "" {
		return nil, domain.ErrInvalidInput
	}

	item := domain.Item{
		ID:        uuid.New().String(),
		SpaceID:   spaceID,
		Type:      domain.ItemTypeText,
		Content:   content,
		Notes:     notes,
		Metadata:  map[string]any{},
		CreatedAt: s.now(),
	}

	if err := s.itemStore.Put(ctx, item); err != nil {
		return nil, fmt.Errorf("save text: %w", err)
	}

	s.indexItem(ctx, item.ID, spaceID, embeddingInput(content, notes))
	return &item, nil
}

// SaveFile saves an uploaded file to a space. The bytes go to file
// storage (which enforces extension and size rules), text is extracted
// best-effort, and the extracted text is embedded, falling back to the
// original filename when extraction yields nothing. Blank embedding
// input skips indexing entirely.
func (s *ContentService) SaveFile(ctx context.Context, spaceID, originalName, mimeType string, data []byte, notes string) (*domain.Item, error) {
	if strings.TrimSpace(spaceID) == "" || strings.TrimSpace(originalName) == "" {
		return nil, domain.ErrInvalidInput
	}

	filename, path, size, err := s.fileStorage.Save(ctx, originalName, data)
	if err != nil {
		return nil, fmt.Errorf("save file: %w", err)
	}

	extracted := ""
	if s.extractor != nil {
		extracted = s.extractor.Extract(ctx, path)
	}

	preview := extracted
	if len(preview) > domain.ExtractedTextCap {
		preview = preview[:domain.ExtractedTextCap]
	}

	item := domain.Item{
		ID:      uuid.New().String(),
		SpaceID: spaceID,
		Type:    domain.ItemTypeFile,
		Content: filename,
		Notes:   notes,
		Metadata: map[string]any{
			domain.MetaOriginalName:  originalName,
			domain.MetaSizeBytes:     size,
			domain.MetaMIMEType:      mimeType,
			domain.MetaExtractedText: preview,
		},
		CreatedAt: s.now(),
	}

	if err := s.itemStore.Put(ctx, item); err != nil {
		return nil, fmt.Errorf("save file: %w", err)
	}

	// A file with no extracted text and no notes has nothing meaningful
	// to embed; it stays listed but unindexed. With notes present the
	// filename stands in for the missing text.
	if strings.TrimSpace(extracted) != "" || strings.TrimSpace(notes) != "" {
		text := extracted
		if strings.TrimSpace(text) == "" {
			text = originalName
		}
		s.indexItem(ctx, item.ID, spaceID, embeddingInput(text, notes))
	}

	return &item, nil
}

// List returns all items in a space, newest first.
func (s *ContentService) List(ctx context.Context, spaceID string) ([]domain.Item, error) {
	return s.itemStore.ListBySpace(ctx, spaceID)
}

// Search performs semantic search within a space. Hits are hydrated
// back into full items; hits whose backing record has been deleted are
// skipped silently, since the index and the store can transiently
// diverge.
func (s *ContentService) Search(ctx context.Context, spaceID, query string, topK int) ([]domain.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrInvalidInput
	}
	if s.embedding == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if topK <= 0 {
		topK = domain.DefaultTopK
	}

	queryVector, err := s.embedding.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.vectorIndex.Search(queryVector, spaceID, topK)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		item, err := s.itemStore.Get(ctx, hit.ItemID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				logger.Warn("search: index entry %s has no item record, skipping", hit.ItemID)
				continue
			}
			return nil, fmt.Errorf("hydrate result: %w", err)
		}
		results = append(results, domain.SearchResult{Item: *item, Score: hit.Score})
	}
	return results, nil
}

// SearchAll searches every space owned by a user, merges the per-space
// results by score descending, and truncates to 2*topK.
func (s *ContentService) SearchAll(ctx context.Context, userID, query string, topK int) ([]domain.SearchResult, error) {
	if topK <= 0 {
		topK = domain.DefaultTopK
	}

	spaces, err := s.spaceStore.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list spaces: %w", err)
	}

	var merged []domain.SearchResult
	for _, space := range spaces {
		results, err := s.Search(ctx, space.ID, query, topK)
		if err != nil {
			return nil, err
		}
		merged = append(merged, results...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	if len(merged) > 2*topK {
		merged = merged[:2*topK]
	}
	return merged, nil
}

// Delete removes an item. The index entry and (for file items) the
// stored file are cleaned up best-effort first; store removal happens
// last so a partially failed delete leaves the item discoverable and
// the operation safely retryable.
func (s *ContentService) Delete(ctx context.Context, itemID string) (bool, error) {
	item, err := s.itemStore.Get(ctx, itemID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("delete item: %w", err)
	}

	s.vectorIndex.Delete(itemID)

	if item.Type == domain.ItemTypeFile {
		if !s.fileStorage.Delete(ctx, item.Content) {
			logger.Warn("delete: stored file %s was already gone", item.Content)
		}
	}

	deleted, err := s.itemStore.Delete(ctx, itemID)
	if err != nil {
		return false, fmt.Errorf("delete item: %w", err)
	}
	return deleted, nil
}

// Reindex rebuilds vector index entries for every item a user owns.
// The in-memory index does not outlive the process, so persistent
// store backends call this at startup. Embedding goes through the
// usual service; with a persistent embedding cache attached, unchanged
// content costs no backend calls.
func (s *ContentService) Reindex(ctx context.Context, userID string) (int, error) {
	if s.embedding == nil {
		return 0, domain.ErrEmbeddingUnavailable
	}

	spaces, err := s.spaceStore.ListByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("reindex: %w", err)
	}

	indexed := 0
	for _, space := range spaces {
		items, err := s.itemStore.ListBySpace(ctx, space.ID)
		if err != nil {
			return indexed, fmt.Errorf("reindex space %s: %w", space.ID, err)
		}
		for _, item := range items {
			text := itemEmbeddingText(item)
			if text == "" {
				continue
			}
			s.indexItem(ctx, item.ID, item.SpaceID, text)
			indexed++
		}
	}
	return indexed, nil
}

// indexItem embeds text and adds it to the vector index. Failures are
// logged and swallowed: the item record is already stored and must
// survive an unsearchable index entry.
func (s *ContentService) indexItem(ctx context.Context, itemID, spaceID, text string) {
	if s.embedding == nil {
		logger.Debug("indexItem: no embedding service, item %s not indexed", itemID)
		return
	}

	vector, err := s.embedding.Embed(ctx, text)
	if err != nil {
		logger.Warn("indexItem: embedding failed for item %s, kept unindexed: %v", itemID, err)
		return
	}
	if err := s.vectorIndex.Add(itemID, vector, spaceID); err != nil {
		logger.Warn("indexItem: index add failed for item %s, kept unindexed: %v", itemID, err)
	}
}

// embeddingInput builds the text an item is embedded under: the
// content plus an optional notes suffix.
func embeddingInput(content, notes string) string {
	if notes != "" {
		return content + " | Notes: " + notes
	}
	return content
}

// itemEmbeddingText reconstructs the embedding input for a stored
// item, mirroring the rules applied on save. It returns "" for items
// that were deliberately left unindexed.
func itemEmbeddingText(item domain.Item) string {
	text := item.Content
	if item.Type == domain.ItemTypeFile {
		text = item.ExtractedText()
		if strings.TrimSpace(text) == "" {
			if strings.TrimSpace(item.Notes) == "" {
				return ""
			}
			if name, ok := item.Metadata[domain.MetaOriginalName].(string); ok && name != "" {
				text = name
			} else {
				text = item.Content
			}
		}
	}
	return embeddingInput(text, item.Notes)
}
