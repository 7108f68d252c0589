package util

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Deduper guards handlers against processing the same event twice.
type Deduper struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewDeduper creates a deduper; logger may be nil.
func NewDeduper(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Deduper {
	return &Deduper{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

// AcquireOnce reports whether this is the first time handler sees eventID.
// Redis failures fail open: processing is allowed.
func (d *Deduper) AcquireOnce(ctx context.Context, handler string, eventID string) bool {
	key := DedupKey(handler, eventID)

	ok, err := d.rdb.SetNX(ctx, key, 1, d.ttl).Result()
	if err != nil {
		if d.logger != nil {
			d.logger.Warn("Redis dedup check failed, allowing processing",
				zap.String("handler", handler),
				zap.String("event_id", eventID),
				zap.Error(err),
			)
		}
		return true
	}

	if !ok && d.logger != nil {
		d.logger.Info("Skipped duplicated event",
			zap.String("handler", handler),
			zap.String("event_id", eventID),
			zap.String("dedup_key", key),
		)
	}
	return ok
}

// Release drops the dedup key so a failed attempt can be retried.
func (d *Deduper) Release(ctx context.Context, handler string, eventID string) {
	if err := d.rdb.Del(ctx, DedupKey(handler, eventID)).Err(); err != nil && d.logger != nil {
		d.logger.Warn("Failed to release dedup key",
			zap.String("handler", handler),
			zap.String("event_id", eventID),
			zap.Error(err),
		)
	}
}

// DedupKey formats the redis key used for handler + eventID.
func DedupKey(handler string, eventID string) string {
	return fmt.Sprintf("dedup:%s:%s", handler, eventID)
}
