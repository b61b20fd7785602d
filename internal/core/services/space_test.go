package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storage "github.com/custodia-labs/recall-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

func TestSpaceCreateAndList(t *testing.T) {
	svc := NewSpaceService(storage.NewSpaceStore())
	ctx := context.Background()

	space, err := svc.Create(ctx, "user-1", "Recipes", "favourite dishes")
	require.NoError(t, err)
	assert.NotEmpty(t, space.ID)

	spaces, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, spaces, 1)
	assert.Equal(t, "Recipes", spaces[0].Name)

	spaces, err = svc.List(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, spaces)
}

func TestSpaceCreateValidation(t *testing.T) {
	svc := NewSpaceService(storage.NewSpaceStore())
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-1", "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Create(ctx, "user-1", strings.Repeat("x", domain.MaxSpaceNameLength+1), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Create(ctx, "", "Name", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSpaceUpdate(t *testing.T) {
	svc := NewSpaceService(storage.NewSpaceStore())
	ctx := context.Background()

	space, err := svc.Create(ctx, "user-1", "Old Name", "old description")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, space.ID, "New Name", "")
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "old description", updated.Description)

	_, err = svc.Update(ctx, space.ID, strings.Repeat("x", domain.MaxSpaceNameLength+1), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Update(ctx, "missing", "Name", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSpaceDelete(t *testing.T) {
	svc := NewSpaceService(storage.NewSpaceStore())
	ctx := context.Background()

	space, err := svc.Create(ctx, "user-1", "Doomed", "")
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, space.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.Delete(ctx, space.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
