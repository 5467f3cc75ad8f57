package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const redisCallTimeout = 500 * time.Millisecond

// windowCounter increments the counter and gives any key without an expiry
// the window length in the same step, so a counter can never outlive it.
var windowCounter = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if redis.call("PTTL", KEYS[1]) < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// RateRule allows Limit requests per Window for each client of one route.
type RateRule struct {
	Name   string
	Limit  int
	Window time.Duration
}

func (r RateRule) memoryStore() echomw.RateLimiterStore {
	return echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(r.Limit) / r.Window.Seconds()),
		Burst:     r.Limit,
		ExpiresIn: r.Window,
	})
}

// RedisRateLimiterStore counts requests in fixed windows shared by every
// instance. When Redis fails it falls back to a per-process limiter.
type RedisRateLimiterStore struct {
	rc       redis.Cmdable
	rule     RateRule
	fallback echomw.RateLimiterStore
}

func NewRedisRateLimiterStore(rc redis.Cmdable, rule RateRule) *RedisRateLimiterStore {
	return &RedisRateLimiterStore{
		rc:       rc,
		rule:     rule,
		fallback: rule.memoryStore(),
	}
}

func (s *RedisRateLimiterStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisCallTimeout)
	defer cancel()

	key := fmt.Sprintf("ratelimit:%s:%s", s.rule.Name, identifier)

	count, err := windowCounter.Run(ctx, s.rc, []string{key}, s.rule.Window.Milliseconds()).Int64()
	if err != nil {
		logrus.WithError(err).WithField("rule", s.rule.Name).Warn("Rate limiter store unavailable, using local limiter")
		return s.fallback.Allow(identifier)
	}

	return count <= int64(s.rule.Limit), nil
}

// RateLimiter builds per-route limiters. A nil client keeps counters in memory.
type RateLimiter struct {
	rc redis.Cmdable
}

func NewRateLimiter(rc redis.Cmdable) *RateLimiter {
	return &RateLimiter{rc: rc}
}

func (l *RateLimiter) Store(rule RateRule) echomw.RateLimiterStore {
	if l.rc == nil {
		return rule.memoryStore()
	}
	return NewRedisRateLimiterStore(l.rc, rule)
}

func (l *RateLimiter) Middleware(rule RateRule) echo.MiddlewareFunc {
	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: l.Store(rule),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			logrus.WithError(err).Error("Failed to identify client for rate limiting")
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "internal server error",
			})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			if err != nil {
				logrus.WithError(err).Error("Rate limiter store failed")
				return c.JSON(http.StatusInternalServerError, map[string]string{
					"error": "internal server error",
				})
			}
			logrus.WithFields(logrus.Fields{
				"rule":   rule.Name,
				"client": identifier,
			}).Warn("Rate limit exceeded")
			return c.JSON(http.StatusTooManyRequests, map[string]string{
				"error": "rate limit exceeded",
			})
		},
	})
}
