package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"bizsite/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// FailPolicy defines the behavior when the rate limit store (Redis) is unavailable.
type FailPolicy int

const (
	// FailOpen falls back to the in-process limiter if Redis is unavailable.
	FailOpen FailPolicy = iota
	// FailClosed blocks the request (503 Service Unavailable) if Redis is unavailable.
	FailClosed
)

const maxLocalBuckets = 10000

var errNoRedis = errors.New("redis client is nil")

// RateLimiter counts requests per resource and caller in Redis, or in
// process with token buckets when Redis is not configured.
type RateLimiter struct {
	rdb     *redis.Client
	enabled bool

	mu    sync.Mutex
	local map[string]*rate.Limiter
}

// NewRateLimiter returns a limiter over rdb, which may be nil. A disabled
// limiter allows everything.
func NewRateLimiter(rdb *redis.Client, enabled bool) *RateLimiter {
	return &RateLimiter{rdb: rdb, enabled: enabled, local: make(map[string]*rate.Limiter)}
}

// Check reports whether id may make another request against resource.
func (l *RateLimiter) Check(ctx context.Context, resource, id string, limit int, window time.Duration) (bool, error) {
	if !l.enabled {
		return true, nil
	}
	if l.rdb == nil {
		return l.checkLocal(resource, id, limit, window), nil
	}
	return l.checkRedis(ctx, resource, id, limit, window)
}

func (l *RateLimiter) checkRedis(ctx context.Context, resource, id string, limit int, window time.Duration) (bool, error) {
	if l.rdb == nil {
		return false, errNoRedis
	}
	key := fmt.Sprintf("rl:%s:%s", resource, id)

	// INCR and set EXPIRE if new
	cnt, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if cnt == 1 {
		l.rdb.Expire(ctx, key, window)
	}
	return cnt <= int64(limit), nil
}

func (l *RateLimiter) checkLocal(resource, id string, limit int, window time.Duration) bool {
	key := resource + ":" + id

	l.mu.Lock()
	lim, ok := l.local[key]
	if !ok {
		if len(l.local) >= maxLocalBuckets {
			l.local = make(map[string]*rate.Limiter)
		}
		lim = rate.NewLimiter(rate.Every(window/time.Duration(limit)), limit)
		l.local[key] = lim
	}
	l.mu.Unlock()

	return lim.Allow()
}

// Handler returns a Fiber middleware enforcing limit requests per window.
// It keys by authenticated user id when present, otherwise by remote IP.
func (l *RateLimiter) Handler(resource string, limit int, window time.Duration, policy FailPolicy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := "ip:" + c.IP()
		if uid, ok := UserID(c); ok {
			id = fmt.Sprintf("user:%d", uid)
		}

		allowed, err := l.Check(c.UserContext(), resource, id, limit, window)
		if err != nil {
			if policy == FailClosed {
				Logger.WarnContext(c.UserContext(), "rate limit store unavailable, failing closed",
					slog.String("resource", resource), slog.String("error", err.Error()))
				return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{
					Success: false,
					Error:   "Rate limit unavailable",
				})
			}
			allowed = l.checkLocal(resource, id, limit, window)
		}

		if !allowed {
			c.Set(fiber.HeaderRetryAfter, fmt.Sprintf("%d", int(window.Seconds())))
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Success: false,
				Error:   "Too many requests, please try again later",
				Code:    "RATE_LIMITED",
			})
		}
		return c.Next()
	}
}
