package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"credit-engine/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func signedToken(t *testing.T, secret string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"username": "tester",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return token
}

func TestAuthMiddleware(t *testing.T) {
	secret := "test-secret"

	t.Run("disabled auth passes every request through", func(t *testing.T) {
		cfg := config.AuthConfig{Enabled: false}
		handler := AuthMiddleware(cfg, testLogger)(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/view-loan/1", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		cfg := config.AuthConfig{Enabled: true, JWTSecret: secret}
		handler := AuthMiddleware(cfg, testLogger)(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/view-loan/1", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header is rejected", func(t *testing.T) {
		cfg := config.AuthConfig{Enabled: true, JWTSecret: secret}
		handler := AuthMiddleware(cfg, testLogger)(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/view-loan/1", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		cfg := config.AuthConfig{Enabled: true, JWTSecret: secret}
		handler := AuthMiddleware(cfg, testLogger)(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/view-loan/1", nil)
		req.Header.Set("Authorization", "Bearer "+signedToken(t, "other-secret"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token is accepted", func(t *testing.T) {
		cfg := config.AuthConfig{Enabled: true, JWTSecret: secret}
		handler := AuthMiddleware(cfg, testLogger)(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/view-loan/1", nil)
		req.Header.Set("Authorization", "Bearer "+signedToken(t, secret))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
