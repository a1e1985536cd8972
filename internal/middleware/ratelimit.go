package middleware

import (
	"context"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

type Decision struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// RateLimit rejects requests with 429 once the caller's bucket is empty.
// Limiter errors let the request through.
func RateLimit(cfg config.RateLimitConfig, limiter Limiter) gin.HandlerFunc {
	if !cfg.Enabled || limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		key := rateKey(cfg.Prefix, c.ClientIP(), c.Request.Method, c.FullPath())
		d, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.Printf("ratelimit: limiter error for key=%s: %v", key, err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(d.Remaining, 10))

		if !d.Allowed {
			secs := int(math.Ceil(d.RetryAfter.Seconds()))
			if secs < 0 {
				secs = 0
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

func rateKey(prefix, ip, method, route string) string {
	if ip == "" {
		ip = "unknown"
	}
	return strings.Join([]string{prefix, "ip", ip, "route", method + " " + route}, ":")
}

var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local refill_tokens = tonumber(ARGV[3])
	local interval_ms = tonumber(ARGV[4])
	local ttl_seconds = tonumber(ARGV[5])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])

	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	if interval_ms > 0 and refill_tokens > 0 then
		local elapsed = math.max(0, now_ms - last_refill)
		local intervals = math.floor(elapsed / interval_ms)
		if intervals > 0 then
			tokens = math.min(capacity, tokens + (intervals * refill_tokens))
			last_refill = last_refill + (intervals * interval_ms)
		end
	end

	local allowed = 0
	local retry_after_ms = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	else
		retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
	redis.call('EXPIRE', key, ttl_seconds)

	return { allowed, tokens, retry_after_ms }
`)

// RedisLimiter keeps one token bucket per key in Redis, shared by all API instances.
type RedisLimiter struct {
	rdb *redis.Client
	cfg config.RateLimitConfig
}

func NewRedisLimiter(rdb *redis.Client, cfg config.RateLimitConfig) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, cfg: cfg}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	vals, err := tokenBucketScript.Run(ctx, l.rdb, []string{key},
		time.Now().UnixMilli(),
		l.cfg.Capacity,
		l.cfg.RefillTokens,
		l.cfg.RefillInterval.Milliseconds(),
		int64(l.cfg.TTL/time.Second),
	).Int64Slice()
	if err != nil {
		return Decision{}, err
	}
	if len(vals) != 3 {
		return Decision{}, fmt.Errorf("unexpected token bucket reply: %v", vals)
	}
	return Decision{
		Allowed:    vals[0] == 1,
		Remaining:  vals[1],
		RetryAfter: time.Duration(vals[2]) * time.Millisecond,
	}, nil
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LocalLimiter is the in-process fallback used when no Redis is configured.
type LocalLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewLocalLimiter(cfg config.RateLimitConfig) *LocalLimiter {
	limit := rate.Inf
	if cfg.RefillInterval > 0 && cfg.RefillTokens > 0 {
		limit = rate.Limit(float64(cfg.RefillTokens) / cfg.RefillInterval.Seconds())
	}
	burst := cfg.Capacity
	if burst < 1 {
		burst = 1
	}
	return &LocalLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		burst:    burst,
		ttl:      cfg.TTL,
		now:      time.Now,
	}
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now

	if !v.limiter.AllowN(now, 1) {
		retry := time.Second
		if l.limit > 0 && l.limit != rate.Inf {
			retry = time.Duration(float64(time.Second) / float64(l.limit))
		}
		return Decision{Allowed: false, RetryAfter: retry}, nil
	}
	return Decision{Allowed: true, Remaining: int64(v.limiter.TokensAt(now))}, nil
}

func (l *LocalLimiter) sweep(now time.Time) {
	if l.ttl <= 0 || now.Sub(l.lastSweep) < l.ttl {
		return
	}
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.ttl {
			delete(l.visitors, key)
		}
	}
	l.lastSweep = now
}
