package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/intradesk/helpdesk-api/utils/cache"
)

// RedisRateLimiter is the shared-cache variant of the admission check, for
// deployments running more than one API instance. Counters live in Redis with
// the window length as TTL.
type RedisRateLimiter struct {
	redisCache *cache.RedisCache
	window     time.Duration
	cap        int64
}

// NewRedisRateLimiter creates a Redis-backed limiter with the default window
// and cap.
func NewRedisRateLimiter(redisCache *cache.RedisCache) *RedisRateLimiter {
	return &RedisRateLimiter{
		redisCache: redisCache,
		window:     RateWindowLength,
		cap:        RateWindowCap,
	}
}

// Admit increments the session's window counter and checks it against the
// cap. If Redis is unreachable the request is admitted; limiting is
// best-effort and a cache outage must not block legitimate users.
func (l *RedisRateLimiter) Admit(sessionKey string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	key := fmt.Sprintf("assistant:rate:%s", sessionKey)

	count, err := l.redisCache.Increment(ctx, key)
	if err != nil {
		log.Printf("Warning: rate limiter Redis increment failed, admitting: %v", err)
		return true
	}

	// First increment starts the window
	if count == 1 {
		if err := l.redisCache.Expire(ctx, key, l.window); err != nil {
			log.Printf("Warning: rate limiter Redis expire failed: %v", err)
		}
	}

	return count <= l.cap
}
