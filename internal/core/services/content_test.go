package services

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	index "github.com/custodia-labs/recall-cli/internal/adapters/driven/index/memory"
	storage "github.com/custodia-labs/recall-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// --- Mock implementations ---

const testDimensions = 64

// tokenEmbedder is a deterministic bag-of-words embedder: each token
// hashes to a dimension. Texts sharing tokens land closer together,
// which is enough structure for ranking tests.
type tokenEmbedder struct {
	embedCalls []string
	embedErr   error
}

func (e *tokenEmbedder) vectorFor(text string) []float32 {
	v := make([]float32, testDimensions)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(token))
		v[h.Sum32()%testDimensions]++
	}
	return v
}

func (e *tokenEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.embedCalls = append(e.embedCalls, text)
	if e.embedErr != nil {
		return nil, e.embedErr
	}
	return e.vectorFor(text), nil
}

func (e *tokenEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	result := make([][]float32, len(texts))
	for i, text := range texts {
		vector, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		result[i] = vector
	}
	return result, nil
}

func (e *tokenEmbedder) Dimensions() int { return testDimensions }

func (e *tokenEmbedder) ModelName() string { return "token-embed" }

// mockFileStorage implements driven.FileStorage for testing.
type mockFileStorage struct {
	saveErr     error
	saved       []string
	deleted     []string
	deleteFails bool
}

func (m *mockFileStorage) Save(_ context.Context, originalName string, data []byte) (string, string, int64, error) {
	if m.saveErr != nil {
		return "", "", 0, m.saveErr
	}
	filename := "stored-" + originalName
	m.saved = append(m.saved, filename)
	return filename, "/uploads/" + filename, int64(len(data)), nil
}

func (m *mockFileStorage) Delete(_ context.Context, filename string) bool {
	m.deleted = append(m.deleted, filename)
	return !m.deleteFails
}

func (m *mockFileStorage) Path(filename string) string {
	return "/uploads/" + filename
}

// mockExtractor implements driven.TextExtractor for testing.
type mockExtractor struct {
	text string
}

func (m *mockExtractor) Extract(_ context.Context, _ string) string {
	return m.text
}

// --- Fixtures ---

type contentFixture struct {
	svc       *ContentService
	items     *storage.ItemStore
	spaces    *storage.SpaceStore
	index     *index.VectorIndex
	embedder  *tokenEmbedder
	files     *mockFileStorage
	extractor *mockExtractor
}

func newContentFixture() *contentFixture {
	f := &contentFixture{
		items:     storage.NewItemStore(),
		spaces:    storage.NewSpaceStore(),
		index:     index.New(testDimensions),
		embedder:  &tokenEmbedder{},
		files:     &mockFileStorage{},
		extractor: &mockExtractor{},
	}
	f.svc = NewContentService(f.items, f.spaces, f.index, f.embedder, f.files, f.extractor)
	return f
}

// --- Tests ---

func TestSaveTextCreatesAndIndexes(t *testing.T) {
	f := newContentFixture()
	ctx := context.Background()

	item, err := f.svc.SaveText(ctx, "space-a", "lunch at noon", "")
	require.NoError(t, err)
	require.NotEmpty(t, item.ID)
	assert.Equal(t, domain.ItemTypeText, item.Type)

	got, err := f.items.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "lunch at noon", got.Content)
	assert.Equal(t, 1, f.index.CountActive())
}

func TestSaveTextEmbedsNotesSuffix(t *testing.T) {
	f := newContentFixture()

	_, err := f.svc.SaveText(context.Background(), "space-a", "the content", "some notes")
	require.NoError(t, err)

	require.Len(t, f.embedder.embedCalls, 1)
	assert.Equal(t, "the content | Notes: some notes", f.embedder.embedCalls[0])
}

func TestSaveTextValidation(t *testing.T) {
	f := newContentFixture()
	ctx := context.Background()

	_, err := f.svc.SaveText(ctx, "", "content", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.SaveText(ctx, "space-a", "   ", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSaveTextEmbeddingFailureKeepsItem(t *testing.T) {
	f := newContentFixture()
	f.embedder.embedErr = errors.New("backend down")
	ctx := context.Background()

	item, err := f.svc.SaveText(ctx, "space-a", "important note", "")
	require.NoError(t, err, "embedding failure must not fail the save")

	// Item persists even though search will not surface it.
	got, err := f.items.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "important note", got.Content)
	assert.Zero(t, f.index.CountActive())
}

func TestSaveFileEmbedsExtractedText(t *testing.T) {
	f := newContentFixture()
	f.extractor.text = "quarterly report revenue up"
	ctx := context.Background()

	item, err := f.svc.SaveFile(ctx, "space-a", "report.txt", "text/plain", []byte("raw bytes"), "")
	require.NoError(t, err)
	assert.Equal(t, domain.ItemTypeFile, item.Type)
	assert.Equal(t, "stored-report.txt", item.Content)
	assert.Equal(t, "report.txt", item.Metadata[domain.MetaOriginalName])
	assert.Equal(t, int64(9), item.Metadata[domain.MetaSizeBytes])
	assert.Equal(t, "quarterly report revenue up", item.ExtractedText())

	require.Len(t, f.embedder.embedCalls, 1)
	assert.Equal(t, "quarterly report revenue up", f.embedder.embedCalls[0])
	assert.Equal(t, 1, f.index.CountActive())
}

func TestSaveFileFallsBackToFilename(t *testing.T) {
	f := newContentFixture()
	f.extractor.text = "" // extraction yielded nothing

	_, err := f.svc.SaveFile(context.Background(), "space-a", "holiday-photo.jpg", "image/jpeg", []byte{1}, "beach trip")
	require.NoError(t, err)

	require.Len(t, f.embedder.embedCalls, 1)
	assert.Equal(t, "holiday-photo.jpg | Notes: beach trip", f.embedder.embedCalls[0])
}

func TestSaveFileEmptyExtractionNoNotesSkipsEmbedding(t *testing.T) {
	f := newContentFixture()
	f.extractor.text = "" // extraction failed
	ctx := context.Background()

	item, err := f.svc.SaveFile(ctx, "space-a", "scan.png", "image/png", []byte{1}, "")
	require.NoError(t, err)

	// No embedding call occurred, yet the item is still listed.
	assert.Empty(t, f.embedder.embedCalls)
	assert.Zero(t, f.index.CountActive())

	items, err := f.svc.List(ctx, "space-a")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, item.ID, items[0].ID)
}

func TestSaveFileStorageErrorPropagates(t *testing.T) {
	f := newContentFixture()
	f.files.saveErr = domain.ErrFileValidation

	_, err := f.svc.SaveFile(context.Background(), "space-a", "huge.bin", "application/octet-stream", []byte{1}, "")
	assert.ErrorIs(t, err, domain.ErrFileValidation)
}

func TestSearchRanksByRelevance(t *testing.T) {
	f := newContentFixture()
	ctx := context.Background()

	for _, content := range []string{"lunch at noon", "dentist appointment", "book club meeting"} {
		_, err := f.svc.SaveText(ctx, "s1", content, "")
		require.NoError(t, err)
	}

	results, err := f.svc.Search(ctx, "s1", "when is lunch", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "lunch at noon", results[0].Item.Content)
	assert.Greater(t, results[0].Score, 0.0)
	assert.LessOrEqual(t, results[0].Score, 1.0)
}

func TestSearchScopedToSpace(t *testing.T) {
	f := newContentFixture()
	ctx := context.Background()

	_, err := f.svc.SaveText(ctx, "space-a", "lunch at noon", "")
	require.NoError(t, err)

	results, err := f.svc.Search(ctx, "space-b", "lunch", 5)
	require.NoError(t, err)
	assert.Empty(t, results, "items from other spaces must never leak into results")
}

func TestSearchSkipsStaleIndexEntries(t *testing.T) {
	f := newContentFixture()
	ctx := context.Background()

	item, err := f.svc.SaveText(ctx, "space-a", "lunch at noon", "")
	require.NoError(t, err)
	_, err = f.svc.SaveText(ctx, "space-a", "dentist appointment", "")
	require.NoError(t, err)

	// Remove the store record behind the index's back: the index and
	// store have diverged, and hydration is the integrity seam.
	_, err = f.items.Delete(ctx, item.ID)
	require.NoError(t, err)

	results, err := f.svc.Search(ctx, "space-a", "lunch at noon", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "dentist appointment", results[0].Item.Content)
}

func TestSearchWithoutEmbeddingService(t *testing.T) {
	f := newContentFixture()
	svc := NewContentService(f.items, f.spaces, f.index, nil, f.files, f.extractor)

	_, err := svc.Search(context.Background(), "space-a", "anything", 5)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestDeleteRemovesItemIndexAndFile(t *testing.T) {
	f := newContentFixture()
	f.extractor.text = "file body text"
	ctx := context.Background()

	item, err := f.svc.SaveFile(ctx, "space-a", "notes.txt", "text/plain", []byte("x"), "")
	require.NoError(t, err)
	require.Equal(t, 1, f.index.CountActive())

	deleted, err := f.svc.Delete(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Zero(t, f.index.CountActive())
	assert.Equal(t, []string{"stored-notes.txt"}, f.files.deleted)

	_, err = f.items.Get(ctx, item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteUnknownItem(t *testing.T) {
	f := newContentFixture()

	deleted, err := f.svc.Delete(context.Background(), "no-such-item")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestDeleteTwiceReportsNotFound(t *testing.T) {
	f := newContentFixture()
	ctx := context.Background()

	item, err := f.svc.SaveText(ctx, "space-a", "to be deleted", "")
	require.NoError(t, err)

	deleted, err := f.svc.Delete(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = f.svc.Delete(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, deleted, "second delete reports not found, not an error")
}

func TestDeletedItemInvisibleToSearch(t *testing.T) {
	f := newContentFixture()
	ctx := context.Background()

	item, err := f.svc.SaveText(ctx, "space-a", "lunch at noon", "")
	require.NoError(t, err)

	_, err = f.svc.Delete(ctx, item.ID)
	require.NoError(t, err)

	results, err := f.svc.Search(ctx, "space-a", "lunch at noon", 100)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchAllMergesAcrossSpaces(t *testing.T) {
	f := newContentFixture()
	ctx := context.Background()

	spaceSvc := NewSpaceService(f.spaces)
	spaceA, err := spaceSvc.Create(ctx, "user-1", "Space A", "")
	require.NoError(t, err)
	spaceB, err := spaceSvc.Create(ctx, "user-1", "Space B", "")
	require.NoError(t, err)
	other, err := spaceSvc.Create(ctx, "user-2", "Other", "")
	require.NoError(t, err)

	_, err = f.svc.SaveText(ctx, spaceA.ID, "lunch at noon", "")
	require.NoError(t, err)
	_, err = f.svc.SaveText(ctx, spaceB.ID, "lunch with the team", "")
	require.NoError(t, err)
	_, err = f.svc.SaveText(ctx, other.ID, "lunch elsewhere", "")
	require.NoError(t, err)

	results, err := f.svc.SearchAll(ctx, "user-1", "lunch", 5)
	require.NoError(t, err)
	require.Len(t, results, 2, "only the user's own spaces are searched")

	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i].Score, results[i-1].Score)
	}
}

func TestSearchAllTruncatesToTwiceTopK(t *testing.T) {
	f := newContentFixture()
	ctx := context.Background()

	spaceSvc := NewSpaceService(f.spaces)
	for s := 0; s < 3; s++ {
		space, err := spaceSvc.Create(ctx, "user-1", "Space", "")
		require.NoError(t, err)
		_, err = f.svc.SaveText(ctx, space.ID, "lunch plans one", "")
		require.NoError(t, err)
		_, err = f.svc.SaveText(ctx, space.ID, "lunch plans two", "")
		require.NoError(t, err)
	}

	results, err := f.svc.SearchAll(ctx, "user-1", "lunch plans", 1)
	require.NoError(t, err)
	assert.Len(t, results, 2, "global results truncate to 2*topK")
}

func TestReindexRebuildsFromStore(t *testing.T) {
	f := newContentFixture()
	ctx := context.Background()

	spaceSvc := NewSpaceService(f.spaces)
	space, err := spaceSvc.Create(ctx, "user-1", "Notes", "")
	require.NoError(t, err)

	_, err = f.svc.SaveText(ctx, space.ID, "lunch at noon", "")
	require.NoError(t, err)
	f.extractor.text = ""
	_, err = f.svc.SaveFile(ctx, space.ID, "scan.png", "image/png", []byte("x"), "")
	require.NoError(t, err)

	// Simulate a restart: same stores, fresh empty index.
	rebuilt := index.New(testDimensions)
	restarted := NewContentService(f.items, f.spaces, rebuilt, f.embedder, f.files, f.extractor)

	indexed, err := restarted.Reindex(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, indexed, "the unindexable file stays unindexed")
	assert.Equal(t, 1, rebuilt.CountActive())

	results, err := restarted.Search(ctx, space.ID, "when is lunch", 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "lunch at noon", results[0].Item.Content)
}

func TestReindexWithoutEmbeddingService(t *testing.T) {
	f := newContentFixture()
	svc := NewContentService(f.items, f.spaces, f.index, nil, f.files, f.extractor)

	_, err := svc.Reindex(context.Background(), "user-1")
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}
