package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cnwankpa/portfolio-api/pkg/logging"
)

// RedisLimiter counts submissions in Redis using a fixed window keyed by
// the window's start. INCR is atomic per key, so concurrent bursts from
// one IP cannot over-admit.
type RedisLimiter struct {
	client *redis.Client
	max    int
	period time.Duration
	logger *logging.Logger
	now    func() time.Time
}

// NewRedisLimiter allows max requests per key per period.
func NewRedisLimiter(client *redis.Client, max int, period time.Duration, logger *logging.Logger) *RedisLimiter {
	if logger == nil {
		logger = logging.Default()
	}
	return &RedisLimiter{
		client: client,
		max:    max,
		period: period,
		logger: logger,
		now:    time.Now,
	}
}

// Allow consumes one slot for key in the current window. When Redis is
// unreachable the limiter fails open and logs the error.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	windowStart := l.now().UTC().Truncate(l.period).Unix()
	redisKey := fmt.Sprintf("ratelimit:cv:%s:%d", key, windowStart)

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		l.logger.Warn("rate limiter unavailable, failing open", "error", err, "key", key)
		return true, nil
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.period).Err(); err != nil {
			l.logger.Warn("rate limiter expire failed", "error", err, "key", key)
		}
	}
	return count <= int64(l.max), nil
}
