package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/myroutine-backend/internal/config"
	"github.com/iliyamo/myroutine-backend/internal/logging"
)

func contextFor(method, target string, userID uint64) echo.Context {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(method, target, nil), httptest.NewRecorder())
	c.SetPath("/v1/routine/:id_routine")
	if userID != 0 {
		c.Set(UserIDKey, userID)
	}
	return c
}

func TestCacheKeyIsPerUser(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	a := cacheKeyFrom(cfg, contextFor(http.MethodGet, "/v1/routine/1", 1))
	b := cacheKeyFrom(cfg, contextFor(http.MethodGet, "/v1/routine/1", 2))
	other := cacheKeyFrom(cfg, contextFor(http.MethodGet, "/v1/routine/2", 1))

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, other)
	assert.True(t, strings.HasPrefix(a, userPrefix(cfg, "1")))
	assert.Equal(t, a, cacheKeyFrom(cfg, contextFor(http.MethodGet, "/v1/routine/1", 1)))
}

func TestStorableHeaderDropsCookies(t *testing.T) {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("Content-Length", "16")
	h.Add("Set-Cookie", "access_token=x")

	out := storableHeader(h)
	assert.Equal(t, "application/json", out.Get("Content-Type"))
	assert.Empty(t, out.Values("Set-Cookie"))
	assert.Empty(t, out.Get("Content-Length"))
}

func TestCachedResponseReplay(t *testing.T) {
	c := contextFor(http.MethodGet, "/v1/routine/1", 1)
	cr := cachedResponse{
		Status: http.StatusOK,
		Header: http.Header{"Content-Type": {"application/json"}},
		Body:   []byte(`{"success":true}`),
	}
	require.NoError(t, cr.replay(c))

	rec := c.Response().Writer.(*httptest.ResponseRecorder)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
}

func TestBodyRecorderOverflow(t *testing.T) {
	rec := &bodyRecorder{ResponseWriter: httptest.NewRecorder(), limit: 8}
	_, err := rec.Write([]byte("12345"))
	require.NoError(t, err)
	assert.False(t, rec.overflow)
	_, err = rec.Write([]byte("6789"))
	require.NoError(t, err)
	assert.True(t, rec.overflow)
	assert.Zero(t, rec.buf.Len())
}

func TestCacheDisabledWithoutRedis(t *testing.T) {
	mw := NewRedisCache(config.CacheConfig{Enabled: true}, nil, logging.Discard())
	c := contextFor(http.MethodGet, "/v1/routine/1", 1)

	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Empty(t, c.Response().Header().Get("X-Cache"))
}

func TestRateKeyStrategies(t *testing.T) {
	c := contextFor(http.MethodGet, "/v1/routine/1", 9)
	c.Request().RemoteAddr = "10.0.0.1:1234"

	assert.Equal(t, "rl:ip:10.0.0.1", rateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip"}, c))
	assert.Equal(t, "rl:route:GET /v1/routine/:id_routine",
		rateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "route"}, c))
	assert.Equal(t, "rl:ip:10.0.0.1:route:GET /v1/routine/:id_routine",
		rateKey(config.RateLimitConfig{Prefix: "rl"}, c))
}

func TestTokenBucketDisabledWithoutRedis(t *testing.T) {
	mw := NewTokenBucket(config.RateLimitConfig{Enabled: true, Capacity: 1}, nil, logging.Discard())
	c := contextFor(http.MethodPost, "/v1/user/credentials", 0)
	for range 3 {
		require.NoError(t, mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c))
	}
	assert.Empty(t, c.Response().Header().Get("X-RateLimit-Limit"))
}
