package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"credit-engine/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterMiddleware(t *testing.T) {
	t.Run("disabled limiter passes everything", func(t *testing.T) {
		rl := NewRateLimiterMiddleware(config.RateLimitConfig{Enabled: false}, testLogger)
		handler := rl.Middleware(okHandler())

		for i := 0; i < 5; i++ {
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("requests above the burst are rejected", func(t *testing.T) {
		rl := NewRateLimiterMiddleware(config.RateLimitConfig{Enabled: true, RPS: 1, Burst: 2}, testLogger)
		handler := rl.Middleware(okHandler())

		codes := make([]int, 0, 3)
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			codes = append(codes, rec.Code)
		}

		assert.Equal(t, http.StatusOK, codes[0])
		assert.Equal(t, http.StatusOK, codes[1])
		assert.Equal(t, http.StatusTooManyRequests, codes[2])
	})

	t.Run("clients are limited independently by IP", func(t *testing.T) {
		rl := NewRateLimiterMiddleware(config.RateLimitConfig{Enabled: true, RPS: 1, Burst: 1}, testLogger)
		handler := rl.Middleware(okHandler())

		first := httptest.NewRequest(http.MethodGet, "/health", nil)
		first.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, first)
		assert.Equal(t, http.StatusOK, rec.Code)

		second := httptest.NewRequest(http.MethodGet, "/health", nil)
		second.RemoteAddr = "10.0.0.2:1234"
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, second)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("forwarded-for header wins over remote addr", func(t *testing.T) {
		rl := NewRateLimiterMiddleware(config.RateLimitConfig{Enabled: true, RPS: 1, Burst: 1}, testLogger)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		assert.Equal(t, "203.0.113.7", rl.extractIP(req))
	})
}
