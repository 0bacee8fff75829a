package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/bookcatalog/internal/auth"
	"github.com/snnyvrz/bookcatalog/internal/config"
	"github.com/snnyvrz/bookcatalog/internal/middleware"
	"github.com/snnyvrz/bookcatalog/internal/testutil"
)

func setupServerRouter(t *testing.T, burst int) http.Handler {
	t.Helper()

	limiter := middleware.NewRateLimiter(1, burst)
	t.Cleanup(limiter.Stop)

	cfg := &config.Config{GinMode: gin.TestMode}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return newRouter(cfg, logger, testutil.NewTestDB(t), auth.NewIssuer("test-secret", time.Hour), limiter, time.Now())
}

func TestRouter_HealthAndRequestID(t *testing.T) {
	router := setupServerRouter(t, 10)

	for _, path := range []string{"/health", "/ready", "/api/genres"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d, body=%s", path, w.Code, w.Body.String())
		}
		if w.Header().Get(middleware.RequestIDHeader) == "" {
			t.Fatalf("%s: expected a request id header", path)
		}
	}
}

func TestRouter_RateLimitsAPI(t *testing.T) {
	router := setupServerRouter(t, 1)

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/authors", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("expected 200 then 429, got %v", codes)
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected health to bypass the limiter, got %d", w.Code)
	}
}
