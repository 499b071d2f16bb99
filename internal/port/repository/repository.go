package repository

import (
	"context"
	"errors"

	"github.com/Vikasg7/alerty/internal/entity"
)

// ErrNotFound indicates that a requested listing was not found in the store.
var ErrNotFound = errors.New("listing not found")

// ListingStore is the persistence port for the tracked listing set and the
// global refresh flag. The mapping to a concrete database is handled by the
// adapter implementations.
//
// GetAll returns a copy the caller may mutate freely; ReplaceAll persists a
// full set in one shot (last writer wins), which is what the refresh pass
// relies on after merging its results against the live set.
type ListingStore interface {
	GetAll(ctx context.Context) (map[string]entity.Listing, error)
	Get(ctx context.Context, key string) (*entity.Listing, error)
	Put(ctx context.Context, listing *entity.Listing) error
	Delete(ctx context.Context, key string) error
	ReplaceAll(ctx context.Context, listings map[string]entity.Listing) error

	SetRefreshing(ctx context.Context, refreshing bool) error
	GetRefreshing(ctx context.Context) (bool, error)
}
