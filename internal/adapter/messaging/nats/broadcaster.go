package nats

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Vikasg7/alerty/internal/entity"
)

const (
	SubjectListings   = "tracker.listings"
	SubjectError      = "tracker.error"
	SubjectRefreshing = "tracker.refreshing"
	SubjectBadge      = "tracker.badge"
)

// Broadcaster fans tracker state out to every connected client over NATS.
// Each event carries a unique ID so clients can deduplicate redeliveries.
type Broadcaster struct {
	publisher *Publisher
}

func NewBroadcaster(publisher *Publisher) *Broadcaster {
	return &Broadcaster{publisher: publisher}
}

type listingsEvent struct {
	ID        string                    `json:"id"`
	Listings  map[string]entity.Listing `json:"listings"`
	Timestamp time.Time                 `json:"timestamp"`
}

type errorEvent struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type refreshingEvent struct {
	ID         string    `json:"id"`
	Refreshing bool      `json:"isRefreshing"`
	Timestamp  time.Time `json:"timestamp"`
}

type badgeEvent struct {
	ID        string    `json:"id"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

func (b *Broadcaster) BroadcastListings(ctx context.Context, listings map[string]entity.Listing) error {
	return b.publisher.Publish(ctx, SubjectListings, listingsEvent{
		ID:        uuid.NewString(),
		Listings:  listings,
		Timestamp: time.Now().UTC(),
	})
}

func (b *Broadcaster) BroadcastError(ctx context.Context, message string) error {
	return b.publisher.Publish(ctx, SubjectError, errorEvent{
		ID:        uuid.NewString(),
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

func (b *Broadcaster) BroadcastRefreshing(ctx context.Context, refreshing bool) error {
	return b.publisher.Publish(ctx, SubjectRefreshing, refreshingEvent{
		ID:         uuid.NewString(),
		Refreshing: refreshing,
		Timestamp:  time.Now().UTC(),
	})
}

func (b *Broadcaster) BroadcastBadge(ctx context.Context, count int) error {
	return b.publisher.Publish(ctx, SubjectBadge, badgeEvent{
		ID:        uuid.NewString(),
		Count:     count,
		Timestamp: time.Now().UTC(),
	})
}
