package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Vikasg7/alerty/internal/platform/logger"
	"github.com/Vikasg7/alerty/internal/port/cache"
)

const badgeKey = "tracker:badge"

type badgeCache struct {
	client *redis.Client
	logger *logger.Logger
}

// NewRedisClient connects to Redis and verifies the connection with a ping.
func NewRedisClient(addr, password string, db int, log *logger.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	log.Info("Successfully connected to Redis", zap.String("address", addr))
	return rdb, nil
}

// NewBadgeCache keeps the current sale-badge count in Redis so restarts and
// late-joining clients can read it without waiting for the next refresh.
func NewBadgeCache(client *redis.Client, log *logger.Logger) cache.BadgeCache {
	return &badgeCache{client: client, logger: log.Named("badge_cache")}
}

func (c *badgeCache) SetBadge(ctx context.Context, count int) error {
	if err := c.client.Set(ctx, badgeKey, count, 0).Err(); err != nil {
		return fmt.Errorf("badgeCache.SetBadge: %w", err)
	}
	c.logger.Debug("badge count cached", zap.Int("count", count))
	return nil
}

func (c *badgeCache) GetBadge(ctx context.Context) (int, error) {
	val, err := c.client.Get(ctx, badgeKey).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, cache.ErrNotFound
		}
		return 0, fmt.Errorf("badgeCache.GetBadge: %w", err)
	}
	return val, nil
}
