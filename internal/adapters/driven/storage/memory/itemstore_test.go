package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

func testItem(id, spaceID string, createdAt time.Time) domain.Item {
	return domain.Item{
		ID:        id,
		SpaceID:   spaceID,
		Type:      domain.ItemTypeText,
		Content:   "content of " + id,
		CreatedAt: createdAt,
	}
}

func TestItemStorePutGet(t *testing.T) {
	store := NewItemStore()
	ctx := context.Background()

	item := testItem("item-1", "space-a", time.Now())
	require.NoError(t, store.Put(ctx, item))

	got, err := store.Get(ctx, "item-1")
	require.NoError(t, err)
	assert.Equal(t, item.Content, got.Content)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemStorePutValidates(t *testing.T) {
	store := NewItemStore()

	err := store.Put(context.Background(), domain.Item{ID: "item-1", Type: domain.ItemTypeText})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestItemStoreListBySpaceNewestFirst(t *testing.T) {
	store := NewItemStore()
	ctx := context.Background()
	base := time.Now()

	require.NoError(t, store.Put(ctx, testItem("old", "space-a", base.Add(-2*time.Hour))))
	require.NoError(t, store.Put(ctx, testItem("new", "space-a", base)))
	require.NoError(t, store.Put(ctx, testItem("mid", "space-a", base.Add(-time.Hour))))
	require.NoError(t, store.Put(ctx, testItem("other", "space-b", base)))

	items, err := store.ListBySpace(ctx, "space-a")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "new", items[0].ID)
	assert.Equal(t, "mid", items[1].ID)
	assert.Equal(t, "old", items[2].ID)
}

func TestItemStoreDelete(t *testing.T) {
	store := NewItemStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, testItem("item-1", "space-a", time.Now())))

	deleted, err := store.Delete(ctx, "item-1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = store.Delete(ctx, "item-1")
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = store.Get(ctx, "item-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
