package main

import (
	"context"

	"vidshelf/config"
	"vidshelf/internal/infra/ratelimit"

	"github.com/sirupsen/logrus"
)

// rateLimitStore prefers Redis when REDIS_URL is set and reachable, and
// falls back to the in-process store otherwise.
func rateLimitStore(log *logrus.Logger) (ratelimit.Store, func()) {
	if config.REDIS_URL != "" {
		client, err := ratelimit.ConnectRedis(context.Background(), config.REDIS_URL)
		if err == nil {
			log.Info("rate limiting backed by redis")
			return ratelimit.NewRedisStore(client, "vidshelf:ratelimit:"), func() { _ = client.Close() }
		}
		log.WithError(err).Warn("redis unavailable, using in-memory rate limiting")
	}
	mem := ratelimit.NewMemoryStore()
	return mem, mem.Close
}
