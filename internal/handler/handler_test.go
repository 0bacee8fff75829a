package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/bookcatalog/internal/auth"
	"github.com/snnyvrz/bookcatalog/internal/validation"
	"gorm.io/gorm"
)

func setupTestRouter(db *gorm.DB) *gin.Engine {
	return setupRouterWithServices(NewServices(db, auth.NewIssuer("test-secret", time.Hour)))
}

func setupRouterWithServices(s Services) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.Default()

	RegisterAPI(r.Group("/api"), s)

	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return doJSONWithToken(t, router, method, path, "", body)
}

func doJSONWithToken(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()

	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("failed to unmarshal response: %v, body=%s", err, w.Body.String())
	}
}

func expectError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) validation.ErrorResponse {
	t.Helper()

	if w.Code != status {
		t.Fatalf("expected status %d, got %d, body=%s", status, w.Code, w.Body.String())
	}

	var resp validation.ErrorResponse
	decode(t, w, &resp)

	if resp.Code != code {
		t.Fatalf("expected code %q, got %q", code, resp.Code)
	}
	return resp
}

func hasFieldError(resp validation.ErrorResponse, field string) bool {
	for _, fe := range resp.Errors {
		if fe.Field == field {
			return true
		}
	}
	return false
}
