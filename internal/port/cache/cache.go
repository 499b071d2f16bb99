package cache

import (
	"context"
	"errors"
)

// ErrNotFound indicates a cache miss.
var ErrNotFound = errors.New("cache entry not found")

// BadgeCache keeps the latest computed badge count (listings that are in
// stock and cheaper than before) so the presentation layer can read it
// without recomputing the whole set. Failures are non-fatal for callers.
type BadgeCache interface {
	SetBadge(ctx context.Context, count int) error
	GetBadge(ctx context.Context) (int, error)
}
