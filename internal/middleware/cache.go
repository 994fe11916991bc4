package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/myroutine-backend/internal/config"
)

// bodyRecorder tees the response body into buf until limit bytes were
// written; past that the response is served but marked too large to cache.
type bodyRecorder struct {
	http.ResponseWriter
	status   int
	buf      bytes.Buffer
	limit    int
	overflow bool
}

func (r *bodyRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	if !r.overflow {
		if r.limit > 0 && r.buf.Len()+len(b) > r.limit {
			r.overflow = true
			r.buf.Reset()
		} else {
			r.buf.Write(b)
		}
	}
	return r.ResponseWriter.Write(b)
}

// userPrefix is the key prefix of everything cached for one user.
func userPrefix(cfg config.CacheConfig, uid string) string {
	return cfg.Prefix + ":u:" + uid + ":"
}

// cacheKeyFrom builds the key of a response. The user id is always part of
// it: two users never share an entry.
func cacheKeyFrom(cfg config.CacheConfig, c echo.Context) string {
	r := c.Request()
	var parts []string
	switch strings.ToLower(cfg.KeyStrategy) {
	case "route":
		parts = []string{"route", c.Path()}
	case "method_route":
		parts = []string{"method", r.Method, "route", c.Path()}
	case "method_route_query":
		parts = []string{"method", r.Method, "route", c.Path(), "q", r.URL.RawQuery}
	default: // route_query
		parts = []string{"route", c.Path(), "q", r.URL.RawQuery}
	}
	// the concrete path carries the ids of the requested resources
	parts = append(parts, "p", r.URL.Path)
	sum := sha1.Sum([]byte(strings.Join(parts, ":")))
	return fmt.Sprintf("%s%x", userPrefix(cfg, currentUserID(c)), sum[:])
}

// cachedResponse is what a cache entry holds.
type cachedResponse struct {
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

func (cr cachedResponse) replay(c echo.Context) error {
	h := c.Response().Header()
	for k, vals := range cr.Header {
		for _, v := range vals {
			h.Add(k, v)
		}
	}
	h.Set("X-Cache", "HIT")
	c.Response().WriteHeader(cr.Status)
	_, err := c.Response().Write(cr.Body)
	return err
}

// storableHeader copies h without the headers that must not be replayed.
func storableHeader(h http.Header) http.Header {
	out := make(http.Header, len(h))
	for k, vals := range h {
		if strings.EqualFold(k, "Set-Cookie") || strings.EqualFold(k, "Content-Length") {
			continue
		}
		out[k] = append([]string(nil), vals...)
	}
	return out
}

// userIndex is the redis set listing every cache key of one user.
func userIndex(cfg config.CacheConfig, uid string) string {
	return userPrefix(cfg, uid) + "keys"
}

// NewRedisCache caches successful responses of cfg.Methods per user. Any
// other request of that user that succeeds drops the user's entries, so a
// client always reads its own writes. It must run after Session.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client, log *slog.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			index := userIndex(cfg, currentUserID(c))

			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				err := next(c)
				if err == nil && c.Response().Status < http.StatusBadRequest {
					dropUserEntries(context.WithoutCancel(ctx), rdb, index, log)
				}
				return err
			}

			key := cacheKeyFrom(cfg, c)
			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
				var cr cachedResponse
				if json.Unmarshal(bs, &cr) == nil {
					return cr.replay(c)
				}
			}

			rec := &bodyRecorder{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
			c.Response().Writer = rec
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if rec.status != http.StatusOK || rec.overflow {
				return nil
			}
			if err := storeEntry(context.WithoutCancel(ctx), rdb, index, key, ttl, cachedResponse{
				Status: rec.status,
				Header: storableHeader(c.Response().Header()),
				Body:   rec.buf.Bytes(),
			}); err != nil {
				log.Warn("cache store failed", "key", key, "err", err)
			}
			return nil
		}
	}
}

// storeEntry writes the entry and records its key in the user's index in one
// MULTI. The index lives as long as its newest entry.
func storeEntry(ctx context.Context, rdb *redis.Client, index, key string, ttl time.Duration, cr cachedResponse) error {
	bs, err := json.Marshal(cr)
	if err != nil {
		return err
	}
	pipe := rdb.TxPipeline()
	pipe.Set(ctx, key, bs, ttl)
	pipe.SAdd(ctx, index, key)
	pipe.Expire(ctx, index, ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func dropUserEntries(ctx context.Context, rdb *redis.Client, index string, log *slog.Logger) {
	keys, err := rdb.SMembers(ctx, index).Result()
	if err != nil {
		log.Warn("cache invalidation failed", "index", index, "err", err)
		return
	}
	if err := rdb.Del(ctx, append(keys, index)...).Err(); err != nil {
		log.Warn("cache invalidation failed", "index", index, "err", err)
	}
}
