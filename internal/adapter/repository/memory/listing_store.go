// Package memory provides a process-local ListingStore. It backs tests and
// single-node runs without a Mongo deployment.
package memory

import (
	"context"
	"sync"

	"github.com/Vikasg7/alerty/internal/entity"
	"github.com/Vikasg7/alerty/internal/port/repository"
)

type ListingStore struct {
	mu         sync.RWMutex
	listings   map[string]entity.Listing
	refreshing bool
}

func NewListingStore() *ListingStore {
	return &ListingStore{listings: make(map[string]entity.Listing)}
}

func (s *ListingStore) GetAll(_ context.Context) (map[string]entity.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]entity.Listing, len(s.listings))
	for k, v := range s.listings {
		out[k] = v
	}
	return out, nil
}

func (s *ListingStore) Get(_ context.Context, key string) (*entity.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.listings[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &l, nil
}

func (s *ListingStore) Put(_ context.Context, l *entity.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listings[l.Key] = *l
	return nil
}

func (s *ListingStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.listings[key]; !ok {
		return repository.ErrNotFound
	}
	delete(s.listings, key)
	return nil
}

func (s *ListingStore) ReplaceAll(_ context.Context, listings map[string]entity.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listings = make(map[string]entity.Listing, len(listings))
	for k, v := range listings {
		s.listings[k] = v
	}
	return nil
}

func (s *ListingStore) SetRefreshing(_ context.Context, v bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refreshing = v
	return nil
}

func (s *ListingStore) GetRefreshing(_ context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.refreshing, nil
}
