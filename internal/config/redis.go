package config

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient returns a client for env.RedisAddr, or nil when redis is not configured or
// does not answer a ping. Callers degrade by skipping the cache.
func NewRedisClient(ctx context.Context, env Env) *redis.Client {
	if env.RedisAddr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     env.RedisAddr,
		Password: env.RedisPassword,
		DB:       env.RedisDB,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("warning: redis %s unavailable, pass cache disabled: %v", env.RedisAddr, err)
		_ = client.Close()
		return nil
	}
	return client
}
