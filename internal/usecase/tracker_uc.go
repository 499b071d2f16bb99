package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Vikasg7/alerty/internal/entity"
	"github.com/Vikasg7/alerty/internal/extractor"
	"github.com/Vikasg7/alerty/internal/platform/logger"
	"github.com/Vikasg7/alerty/internal/platform/metrics"
	"github.com/Vikasg7/alerty/internal/port/messaging"
	"github.com/Vikasg7/alerty/internal/port/repository"
	"github.com/Vikasg7/alerty/internal/resolver"
)

// TrackerUseCase handles user commands against the tracked set. Outcomes
// are reported back over the broadcaster so every connected client sees
// the same state; errors are additionally returned to the caller for
// logging.
type TrackerUseCase struct {
	store       repository.ListingStore
	extractors  extractor.Registry
	broadcaster messaging.Broadcaster
	refresh     *RefreshUseCase
	metrics     *metrics.MetricsManager
	logger      *logger.Logger
}

func NewTrackerUseCase(
	store repository.ListingStore,
	extractors extractor.Registry,
	broadcaster messaging.Broadcaster,
	refresh *RefreshUseCase,
	mm *metrics.MetricsManager,
	appLogger *logger.Logger,
) *TrackerUseCase {
	return &TrackerUseCase{
		store:       store,
		extractors:  extractors,
		broadcaster: broadcaster,
		refresh:     refresh,
		metrics:     mm,
		logger:      appLogger.Named("tracker_usecase"),
	}
}

// AddListing resolves a pasted product page URL, extracts the listing once
// and stores it. Unsupported pages and duplicate keys are rejected.
func (uc *TrackerUseCase) AddListing(ctx context.Context, pageURL string) error {
	uc.countCommand("add")

	ref := resolver.Resolve(pageURL)
	if ref == nil {
		uc.reportError(ctx, entity.ErrUnsupportedPage.Error())
		return entity.ErrUnsupportedPage
	}

	if _, err := uc.store.Get(ctx, ref.Key); err == nil {
		uc.reportError(ctx, entity.ErrListingExists.Error())
		return entity.ErrListingExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("TrackerUseCase.AddListing: check existing: %w", err)
	}

	ext, err := uc.extractors.For(ref.SourceType)
	if err != nil {
		uc.reportError(ctx, err.Error())
		return fmt.Errorf("TrackerUseCase.AddListing: %w", err)
	}
	listing, err := ext.Extract(ctx, *ref)
	if err != nil {
		uc.reportError(ctx, fmt.Sprintf("could not read the product page: %v", err))
		if uc.metrics != nil {
			uc.metrics.ExtractionFailuresTotal.WithLabelValues(string(ref.SourceType)).Inc()
		}
		return fmt.Errorf("TrackerUseCase.AddListing: extract %s: %w", ref.Key, err)
	}

	if err := uc.store.Put(ctx, listing); err != nil {
		return fmt.Errorf("TrackerUseCase.AddListing: store %s: %w", ref.Key, err)
	}
	uc.logger.Info("listing added",
		zap.String("key", listing.Key),
		zap.String("source", string(listing.SourceType)))

	return uc.broadcastState(ctx)
}

// RemoveListing drops a listing by key. Removals are idempotent from the
// client's point of view: a missing key still re-broadcasts current state.
func (uc *TrackerUseCase) RemoveListing(ctx context.Context, key string) error {
	uc.countCommand("delete")

	if err := uc.store.Delete(ctx, key); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			uc.logger.Debug("delete for unknown listing", zap.String("key", key))
			return uc.broadcastState(ctx)
		}
		return fmt.Errorf("TrackerUseCase.RemoveListing: %w", err)
	}
	uc.logger.Info("listing removed", zap.String("key", key))

	return uc.broadcastState(ctx)
}

// ForceRefresh triggers a refresh pass on demand. The pass itself
// deduplicates concurrent runs.
func (uc *TrackerUseCase) ForceRefresh(ctx context.Context) error {
	uc.countCommand("refresh")

	if err := uc.refresh.Run(ctx); err != nil {
		uc.reportError(ctx, "refresh failed, see service logs")
		return fmt.Errorf("TrackerUseCase.ForceRefresh: %w", err)
	}
	return nil
}

func (uc *TrackerUseCase) broadcastState(ctx context.Context) error {
	listings, err := uc.store.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("broadcast state: %w", err)
	}
	if err := uc.broadcaster.BroadcastListings(ctx, listings); err != nil {
		return fmt.Errorf("broadcast state: %w", err)
	}
	if err := uc.broadcaster.BroadcastBadge(ctx, BadgeCount(listings)); err != nil {
		uc.logger.Warn("failed to broadcast badge count", zap.Error(err))
	}
	if uc.metrics != nil {
		uc.metrics.ListingsTracked.Set(float64(len(listings)))
	}
	return nil
}

func (uc *TrackerUseCase) reportError(ctx context.Context, msg string) {
	if err := uc.broadcaster.BroadcastError(ctx, msg); err != nil {
		uc.logger.Warn("failed to broadcast error", zap.Error(err))
	}
}

func (uc *TrackerUseCase) countCommand(action string) {
	if uc.metrics != nil {
		uc.metrics.CommandsTotal.WithLabelValues(action).Inc()
	}
}
