// README: Report cache backed by Redis, keyed by the hash of the submitted events.
package run

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"ridesim/internal/modules/monitor"
)

const reportKeyPrefix = "ridesim:report:"

type Cache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{redis: client, ttl: ttl}
}

// Get returns the cached report for hash and whether one was found.
func (c *Cache) Get(ctx context.Context, hash string) (monitor.Report, bool, error) {
	raw, err := c.redis.Get(ctx, reportKey(hash)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var report monitor.Report
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, false, err
	}
	return report, true, nil
}

func (c *Cache) Set(ctx context.Context, hash string, report monitor.Report) error {
	raw, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return c.redis.Set(ctx, reportKey(hash), raw, c.ttl).Err()
}

func reportKey(hash string) string {
	return reportKeyPrefix + hash
}
