package db

import (
	"github.com/katie878/motion-tracking/internal/config"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis returns a client for the stream hub's pub/sub fan-out, or
// nil when no address is configured; the service then runs single-node.
func ConnectRedis(cfg config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
}
