package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"accountapp/internal/adapter/http/helper"
	"accountapp/internal/core/telemetry"
	"accountapp/pkg/config"
)

const (
	MsgRateLimited   = "Too many requests"
	defaultLimitsKey = "default"
	unmatchedRoute   = "unmatched"
)

type rateLimitEntry struct {
	Count     int
	ResetTime time.Time
}

// RateLimiter counts requests per client IP and route in fixed windows.
// Limits are keyed by "METHOD /route"; anything unlisted uses "default".
type RateLimiter struct {
	cache   *cache.Cache
	limits  map[string]config.RateLimitConfig
	logger  *zap.Logger
	metrics *telemetry.AppMetrics
	mutex   sync.Mutex
}

func NewRateLimiter(limits map[string]config.RateLimitConfig, logger *zap.Logger, metrics *telemetry.AppMetrics) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &RateLimiter{
		cache:   cache.New(5*time.Minute, 10*time.Minute),
		limits:  limits,
		logger:  logger,
		metrics: metrics,
	}
}

func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()

		// unmatched paths share one bucket and one metric label
		if route == "" {
			route = unmatchedRoute
		}

		methodRoute := c.Request.Method + " " + route

		limit, exists := rl.limits[methodRoute]

		if !exists {
			limit, exists = rl.limits[defaultLimitsKey]
		}

		if !exists || limit.Requests <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("rate_limit:%s:%s", methodRoute, GetClientIP(c))

		allowed, remaining, resetTime := rl.take(key, limit)

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			if rl.metrics != nil {
				rl.metrics.RecordRateLimitHit(c.Request.Context(), route)
			}

			rl.logger.Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.Int("limit", limit.Requests),
				zap.Duration("window", limit.Window))

			retryAfter := int(time.Until(resetTime).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			helper.SendError(c, http.StatusTooManyRequests, MsgRateLimited)
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) take(key string, limit config.RateLimitConfig) (bool, int, time.Time) {
	now := time.Now()

	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	if item, found := rl.cache.Get(key); found {
		entry := item.(rateLimitEntry)

		if now.Before(entry.ResetTime) {
			if entry.Count >= limit.Requests {
				return false, 0, entry.ResetTime
			}

			entry.Count++
			rl.cache.Set(key, entry, time.Until(entry.ResetTime))

			return true, limit.Requests - entry.Count, entry.ResetTime
		}
	}

	resetTime := now.Add(limit.Window)
	rl.cache.Set(key, rateLimitEntry{Count: 1, ResetTime: resetTime}, limit.Window)

	return true, limit.Requests - 1, resetTime
}

func (rl *RateLimiter) ActiveEntries() int {
	return rl.cache.ItemCount()
}
