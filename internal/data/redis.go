package data

import (
	"github.com/go-redis/redis/v8"

	"github.com/Devesh36/CodeBits/internal/config"
)

// NewRedisClient creates a Redis client, or nil when REDIS_ADDR is not configured.
func NewRedisClient(c config.Config) *redis.Client {
	if c.RedisAddr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr: c.RedisAddr,
		DB:   c.RedisDB,
	})
}
