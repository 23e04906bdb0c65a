package middlewares

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RateLimitKeyPrefix is the Redis key prefix for rate limit counters.
const RateLimitKeyPrefix = "halo:ratelimit:"

// Limiter counts hits for a key and reports whether the caller is still within budget.
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, remaining int, err error)
	Limit() int
}

// RedisLimiter is a fixed-window counter shared by every replica.
type RedisLimiter struct {
	Client redis.Cmdable
	Max    int
	Window time.Duration
	now    func() time.Time
}

func NewRedisLimiter(client redis.Cmdable, max int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{Client: client, Max: max, Window: window, now: time.Now}
}

func (l *RedisLimiter) Limit() int {
	return l.Max
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, int, error) {
	bucket := l.now().UnixNano() / int64(l.Window)
	redisKey := fmt.Sprintf("%s%s:%d", RateLimitKeyPrefix, key, bucket)

	var incr *redis.IntCmd
	_, err := l.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.Expire(ctx, redisKey, l.Window)
		return nil
	})
	if err != nil {
		return true, l.Max, err
	}

	count := int(incr.Val())
	remaining := l.Max - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= l.Max, remaining, nil
}

// RateLimit throttles per client IP and route. Limiter errors let the request through.
func RateLimit(limiter Limiter, logger *logrus.Logger) gin.HandlerFunc {
	log := logger.WithField("component", "ratelimit")
	return func(c *gin.Context) {
		key := c.FullPath() + ":" + c.ClientIP()
		allowed, remaining, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.WithError(err).Warn("rate limiter unavailable, allowing request")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !allowed {
			log.WithField("key", key).Info("rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"ok": false, "error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
