// Package cache keeps recently scanned applicants in redis so repeated QR scans at a
// counter do not hit MySQL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"buspass/internal/domain/models"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "buspass:pass:"

// PassCache maps passId to the applicant record. A nil *PassCache or nil client is a
// cache that always misses.
type PassCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPassCache(client *redis.Client, ttl time.Duration) *PassCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &PassCache{client: client, ttl: ttl}
}

func Key(passID string) string {
	return keyPrefix + passID
}

// Get returns the cached applicant and whether it was present.
func (c *PassCache) Get(ctx context.Context, passID string) (models.Applicant, bool, error) {
	if c == nil || c.client == nil {
		return models.Applicant{}, false, nil
	}
	raw, err := c.client.Get(ctx, Key(passID)).Result()
	if errors.Is(err, redis.Nil) {
		return models.Applicant{}, false, nil
	}
	if err != nil {
		return models.Applicant{}, false, err
	}
	var a models.Applicant
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return models.Applicant{}, false, err
	}
	return a, true, nil
}

// Set stores a under its passId. Records are immutable, so entries are never invalidated.
func (c *PassCache) Set(ctx context.Context, a models.Applicant) error {
	if c == nil || c.client == nil || a.PassID == "" {
		return nil
	}
	raw, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, Key(a.PassID), string(raw), c.ttl).Err()
}
