package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vikasg7/alerty/internal/entity"
	"github.com/Vikasg7/alerty/internal/port/repository"
)

func TestListingStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewListingStore()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	l := entity.Listing{Key: "B0ABCDEFGH", SourceType: entity.SourceAmazon, Title: "Widget"}
	require.NoError(t, store.Put(ctx, &l))

	got, err := store.Get(ctx, "B0ABCDEFGH")
	require.NoError(t, err)
	assert.Equal(t, "Widget", got.Title)

	require.NoError(t, store.Delete(ctx, "B0ABCDEFGH"))
	assert.ErrorIs(t, store.Delete(ctx, "B0ABCDEFGH"), repository.ErrNotFound)
}

func TestListingStore_GetAllReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewListingStore()
	require.NoError(t, store.Put(ctx, &entity.Listing{Key: "a", Title: "A"}))

	snapshot, err := store.GetAll(ctx)
	require.NoError(t, err)
	snapshot["a"] = entity.Listing{Key: "a", Title: "mutated"}

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "A", got.Title, "mutating a snapshot must not touch the store")
}

func TestListingStore_ReplaceAll(t *testing.T) {
	ctx := context.Background()
	store := NewListingStore()
	require.NoError(t, store.Put(ctx, &entity.Listing{Key: "old"}))

	require.NoError(t, store.ReplaceAll(ctx, map[string]entity.Listing{
		"new": {Key: "new"},
	}))

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Contains(t, all, "new")
}

func TestListingStore_RefreshingFlag(t *testing.T) {
	ctx := context.Background()
	store := NewListingStore()

	v, err := store.GetRefreshing(ctx)
	require.NoError(t, err)
	assert.False(t, v)

	require.NoError(t, store.SetRefreshing(ctx, true))
	v, err = store.GetRefreshing(ctx)
	require.NoError(t, err)
	assert.True(t, v)
}
