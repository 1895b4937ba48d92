// Package security holds request-hardening middleware.
package security

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RateLimiter is a fixed-window limiter keyed by client IP, backed by Redis so
// the limit holds across server instances.
type RateLimiter struct {
	redis    *redis.Client
	limit    int
	interval time.Duration
}

type RateLimiterConfig struct {
	Redis    *redis.Client
	Limit    int
	Interval time.Duration
}

func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	// Misconfigured values would divide by zero in the window key or block
	// every request; fall back to sane defaults instead.
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 100
	}

	return &RateLimiter{
		redis:    cfg.Redis,
		limit:    cfg.Limit,
		interval: cfg.Interval,
	}
}

func (rl *RateLimiter) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%d", c.ClientIP(), time.Now().Unix()/int64(rl.interval.Seconds()))

		pipe := rl.redis.Pipeline()
		incr := pipe.Incr(c.Request.Context(), key)
		pipe.Expire(c.Request.Context(), key, rl.interval)

		if _, err := pipe.Exec(c.Request.Context()); err != nil {
			// Fail open: a Redis outage should not take the API down with it.
			log.Warn().Err(err).Msg("rate limiter unavailable")
			c.Next()
			return
		}

		if incr.Val() > int64(rl.limit) {
			c.Header("Retry-After", fmt.Sprintf("%d", int(rl.interval.Seconds())))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded",
				"code":  "RATE_LIMITED",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
