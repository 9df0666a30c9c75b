package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLimiter(t *testing.T, maxReqs, windowSec int) http.Handler {
	t.Helper()
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})

	rl := NewRateLimiter(client, "ratelimit:test:", maxReqs, windowSec)
	return rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func doRequest(handler http.Handler, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = ip + ":12345"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_AllowsUnderLimit(t *testing.T) {
	handler := setupLimiter(t, 3, 60)

	for i := 0; i < 3; i++ {
		rec := doRequest(handler, "10.0.0.1")
		assert.Equal(t, http.StatusOK, rec.Code, "request %d should pass", i+1)
	}
}

func TestRateLimiter_DeniesOverLimit(t *testing.T) {
	handler := setupLimiter(t, 2, 60)

	doRequest(handler, "10.0.0.2")
	doRequest(handler, "10.0.0.2")

	rec := doRequest(handler, "10.0.0.2")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestRateLimiter_SeparatesClients(t *testing.T) {
	handler := setupLimiter(t, 1, 60)

	rec := doRequest(handler, "10.0.0.3")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(handler, "10.0.0.3")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = doRequest(handler, "10.0.0.4")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter_FailsOpenWithoutRedis(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	rl := NewRateLimiter(client, "ratelimit:test:", 1, 60)
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := doRequest(handler, "10.0.0.5")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClientIP_XForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", clientIP(req))
}

func TestClientIP_RemoteAddr(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:4321"
	assert.Equal(t, "192.0.2.7", clientIP(req))
}
