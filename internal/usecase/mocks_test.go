package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Vikasg7/alerty/internal/entity"
	"github.com/Vikasg7/alerty/internal/port/notify"
)

type MockBroadcaster struct {
	mock.Mock
}

func (m *MockBroadcaster) BroadcastListings(ctx context.Context, listings map[string]entity.Listing) error {
	args := m.Called(ctx, listings)
	return args.Error(0)
}

func (m *MockBroadcaster) BroadcastError(ctx context.Context, message string) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockBroadcaster) BroadcastRefreshing(ctx context.Context, refreshing bool) error {
	args := m.Called(ctx, refreshing)
	return args.Error(0)
}

func (m *MockBroadcaster) BroadcastBadge(ctx context.Context, count int) error {
	args := m.Called(ctx, count)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, n notify.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

// extractorFunc lets a test script per-listing extraction, including side
// effects that run while a refresh pass is in flight.
type extractorFunc func(ctx context.Context, ref entity.PageRef) (*entity.Listing, error)

func (f extractorFunc) Extract(ctx context.Context, ref entity.PageRef) (*entity.Listing, error) {
	return f(ctx, ref)
}
