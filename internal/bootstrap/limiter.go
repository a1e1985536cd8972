package bootstrap

import (
	"context"
	"log"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/middleware"
	"github.com/redis/go-redis/v9"
)

// NewLimiter returns a Redis-backed limiter when Redis is configured and reachable,
// otherwise a per-process one. The returned func releases the Redis client.
func NewLimiter(ctx context.Context, redisCfg config.RedisConfig, rlCfg config.RateLimitConfig) (middleware.Limiter, func()) {
	if redisCfg.Addr == "" {
		return middleware.NewLocalLimiter(rlCfg), func() {}
	}

	rdb := redis.NewClient(&redis.Options{Addr: redisCfg.Addr, Password: redisCfg.Password, DB: redisCfg.DB})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("WARNING: redis %s unreachable, using in-process rate limiter: %v", redisCfg.Addr, err)
		_ = rdb.Close()
		return middleware.NewLocalLimiter(rlCfg), func() {}
	}

	return middleware.NewRedisLimiter(rdb, rlCfg), func() {
		if err := rdb.Close(); err != nil {
			log.Printf("close redis: %v", err)
		}
	}
}
