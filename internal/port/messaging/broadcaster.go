package messaging

import (
	"context"

	"github.com/Vikasg7/alerty/internal/entity"
)

// Broadcaster is the event port towards the presentation layer. Every command
// and refresh pass reports its outcome through it; none of the events expect a
// reply. Implementations are best-effort: a listener that is not up yet must
// not fail the operation that emitted the event.
type Broadcaster interface {
	BroadcastListings(ctx context.Context, listings map[string]entity.Listing) error
	BroadcastError(ctx context.Context, message string) error
	BroadcastRefreshing(ctx context.Context, refreshing bool) error
	BroadcastBadge(ctx context.Context, count int) error
}
