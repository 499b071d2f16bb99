package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/Vikasg7/alerty/internal/entity"
	"github.com/Vikasg7/alerty/internal/extractor"
	"github.com/Vikasg7/alerty/internal/platform/logger"
	"github.com/Vikasg7/alerty/internal/platform/metrics"
	"github.com/Vikasg7/alerty/internal/port/cache"
	"github.com/Vikasg7/alerty/internal/port/messaging"
	"github.com/Vikasg7/alerty/internal/port/notify"
	"github.com/Vikasg7/alerty/internal/port/repository"
)

// RefreshUseCase re-extracts every tracked listing, fires alerts for
// restocks and price drops, and persists the reconciled set. Listings
// added or removed while a pass is in flight are honored: the final
// write merges refreshed rows into the state of the store as it is at
// the end of the pass, so removals win and additions survive untouched.
type RefreshUseCase struct {
	store       repository.ListingStore
	extractors  extractor.Registry
	broadcaster messaging.Broadcaster
	notifier    notify.Notifier
	badgeCache  cache.BadgeCache
	metrics     *metrics.MetricsManager
	logger      *logger.Logger

	running atomic.Bool
}

func NewRefreshUseCase(
	store repository.ListingStore,
	extractors extractor.Registry,
	broadcaster messaging.Broadcaster,
	notifier notify.Notifier,
	badgeCache cache.BadgeCache,
	mm *metrics.MetricsManager,
	appLogger *logger.Logger,
) *RefreshUseCase {
	return &RefreshUseCase{
		store:       store,
		extractors:  extractors,
		broadcaster: broadcaster,
		notifier:    notifier,
		badgeCache:  badgeCache,
		metrics:     mm,
		logger:      appLogger.Named("refresh_usecase"),
	}
}

// Run performs a single refresh pass. A pass over an empty store is a
// silent no-op. Concurrent calls are collapsed: if a pass is already in
// flight the call returns immediately.
func (uc *RefreshUseCase) Run(ctx context.Context) error {
	snapshot, err := uc.store.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("RefreshUseCase.Run: load listings: %w", err)
	}
	if len(snapshot) == 0 {
		return nil
	}

	if !uc.running.CompareAndSwap(false, true) {
		uc.logger.Debug("refresh already in flight, skipping")
		return nil
	}
	started := time.Now()
	ctx, span := otel.Tracer("alerty/refresh").Start(ctx, "RefreshPass")
	defer span.End()

	if err := uc.store.SetRefreshing(ctx, true); err != nil {
		uc.running.Store(false)
		return fmt.Errorf("RefreshUseCase.Run: set refreshing flag: %w", err)
	}
	if err := uc.broadcaster.BroadcastRefreshing(ctx, true); err != nil {
		uc.logger.Warn("failed to broadcast refreshing state", zap.Error(err))
	}

	defer func() {
		if err := uc.store.SetRefreshing(ctx, false); err != nil {
			uc.logger.Error("failed to clear refreshing flag", zap.Error(err))
		}
		if err := uc.broadcaster.BroadcastRefreshing(ctx, false); err != nil {
			uc.logger.Warn("failed to broadcast refreshing state", zap.Error(err))
		}
		uc.running.Store(false)
		if uc.metrics != nil {
			uc.metrics.RefreshPassesTotal.Inc()
			uc.metrics.RefreshPassDuration.Observe(time.Since(started).Seconds())
		}
	}()

	for key, old := range snapshot {
		fresh, err := uc.extractOne(ctx, old)
		if err != nil {
			uc.logger.Warn("extraction failed, keeping stored listing",
				zap.String("key", key),
				zap.String("source", string(old.SourceType)),
				zap.Error(err))
			if uc.metrics != nil {
				uc.metrics.ExtractionFailuresTotal.WithLabelValues(string(old.SourceType)).Inc()
			}
			continue
		}

		updated, alerts := Reconcile(old, *fresh)
		snapshot[key] = updated

		for _, alert := range alerts {
			uc.sendAlert(ctx, alert)
		}
	}

	// Merge into the store's current state so commands handled during the
	// pass are not undone: rows deleted meanwhile stay deleted, rows added
	// meanwhile pass through as-is.
	live, err := uc.store.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("RefreshUseCase.Run: reload listings: %w", err)
	}
	for key := range live {
		if refreshed, ok := snapshot[key]; ok {
			live[key] = refreshed
		}
	}

	if err := uc.store.ReplaceAll(ctx, live); err != nil {
		return fmt.Errorf("RefreshUseCase.Run: persist listings: %w", err)
	}

	if err := uc.broadcaster.BroadcastListings(ctx, live); err != nil {
		uc.logger.Warn("failed to broadcast listings", zap.Error(err))
	}
	uc.publishBadge(ctx, live)

	if uc.metrics != nil {
		uc.metrics.ListingsTracked.Set(float64(len(live)))
	}
	uc.logger.Info("refresh pass finished",
		zap.Int("listings", len(live)),
		zap.Duration("took", time.Since(started)))
	return nil
}

func (uc *RefreshUseCase) extractOne(ctx context.Context, l entity.Listing) (*entity.Listing, error) {
	ext, err := uc.extractors.For(l.SourceType)
	if err != nil {
		return nil, err
	}
	return ext.Extract(ctx, entity.PageRef{
		SourceType:   l.SourceType,
		Key:          l.Key,
		ReferenceURL: l.ReferenceURL,
	})
}

func (uc *RefreshUseCase) sendAlert(ctx context.Context, alert Alert) {
	if uc.notifier == nil {
		return
	}

	n := notify.Notification{
		ID:        alert.Key,
		Title:     notify.ClampTitle(alert.Title),
		ImageURL:  alert.ImageURL,
		TargetURL: alert.ReferenceURL,
	}
	switch alert.Type {
	case AlertRestock:
		n.Message = notify.RestockMessage()
	case AlertPriceDrop:
		n.Message = notify.PriceDropMessage(alert.Delta, alert.NewPrice)
	}

	if err := uc.notifier.Notify(ctx, n); err != nil {
		uc.logger.Error("failed to send alert",
			zap.String("key", alert.Key),
			zap.String("type", string(alert.Type)),
			zap.Error(err))
		return
	}
	if uc.metrics != nil {
		uc.metrics.AlertsSentTotal.WithLabelValues(string(alert.Type)).Inc()
	}
}

func (uc *RefreshUseCase) publishBadge(ctx context.Context, listings map[string]entity.Listing) {
	count := BadgeCount(listings)
	if uc.badgeCache != nil {
		if err := uc.badgeCache.SetBadge(ctx, count); err != nil {
			uc.logger.Warn("failed to cache badge count", zap.Error(err))
		}
	}
	if err := uc.broadcaster.BroadcastBadge(ctx, count); err != nil {
		uc.logger.Warn("failed to broadcast badge count", zap.Error(err))
	}
}
