package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/myroutine-backend/internal/config"
)

// bucketScript takes one token from the bucket at KEYS[1]. ARGV is capacity,
// refill step, refill interval (ms), ttl (ms), now (ms). The reply is
// {allowed, remaining, wait_ms}.
var bucketScript = redis.NewScript(`
local cap, step, every = tonumber(ARGV[1]), tonumber(ARGV[2]), tonumber(ARGV[3])
local ttl, now = tonumber(ARGV[4]), tonumber(ARGV[5])
local b = redis.call('HMGET', KEYS[1], 'n', 'at')
local n, at = tonumber(b[1]) or cap, tonumber(b[2]) or now
if every > 0 and now > at then
	local k = math.floor((now - at) / every)
	n = math.min(cap, n + k * step)
	at = at + k * every
end
local ok, wait = 0, 0
if n >= 1 then
	ok, n = 1, n - 1
else
	wait = every - (now - at)
end
redis.call('HSET', KEYS[1], 'n', n, 'at', at)
redis.call('PEXPIRE', KEYS[1], ttl)
return {ok, n, wait}
`)

type bucketState struct {
	allowed   bool
	remaining int64
	wait      time.Duration
}

func takeToken(ctx context.Context, rdb *redis.Client, key string, cfg config.RateLimitConfig, now time.Time) (bucketState, error) {
	reply, err := bucketScript.Run(ctx, rdb, []string{key},
		cfg.Capacity, cfg.RefillTokens, cfg.RefillInterval.Milliseconds(), cfg.TTL.Milliseconds(), now.UnixMilli(),
	).Int64Slice()
	if err != nil {
		return bucketState{}, err
	}
	if len(reply) != 3 {
		return bucketState{}, fmt.Errorf("rate limit: unexpected reply %v", reply)
	}
	return bucketState{
		allowed:   reply[0] == 1,
		remaining: reply[1],
		wait:      time.Duration(max(reply[2], 0)) * time.Millisecond,
	}, nil
}

// NewTokenBucket throttles /v1 per rateKey. Without redis, or when redis
// fails, requests pass.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client, log *slog.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := rateKey(cfg, c)
			st, err := takeToken(c.Request().Context(), rdb, key, cfg, time.Now())
			if err != nil {
				log.Warn("rate limit check failed", "key", key, "err", err)
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(st.remaining, 10))
			if cfg.Debug {
				h.Set("X-RateLimit-Key", key)
			}
			if st.allowed {
				return next(c)
			}

			secs := int(math.Ceil(st.wait.Seconds()))
			h.Set("Retry-After", strconv.Itoa(secs))
			return c.JSON(http.StatusTooManyRequests, map[string]any{
				"success":  false,
				"resource": map[string]any{"message": "too many requests", "retry_after": secs},
			})
		}
	}
}

// rateKey names the bucket of a request. The limiter runs before the session
// is known, so callers are told apart by address and route only.
func rateKey(cfg config.RateLimitConfig, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	route := c.Request().Method + " " + c.Path()

	switch strings.ToLower(cfg.KeyStrategy) {
	case "ip":
		return cfg.Prefix + ":ip:" + ip
	case "route":
		return cfg.Prefix + ":route:" + route
	default: // ip_route
		return cfg.Prefix + ":ip:" + ip + ":route:" + route
	}
}
