package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/bookcatalog/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminEngine(tokens *auth.Issuer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.PUT("/admin", RequireRole(tokens, "Admin"), func(c *gin.Context) {
		c.String(http.StatusOK, GetClaims(c).Subject)
	})
	return r
}

func putWithToken(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/admin", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireRole(t *testing.T) {
	tokens := auth.NewIssuer("test-secret", time.Hour)
	r := newAdminEngine(tokens)

	admin, _, err := tokens.Issue(7, "Admin")
	require.NoError(t, err)
	user, _, err := tokens.Issue(8, "User")
	require.NoError(t, err)
	forged, _, err := auth.NewIssuer("other-secret", time.Hour).Issue(7, "Admin")
	require.NoError(t, err)

	t.Run("admin token passes", func(t *testing.T) {
		w := putWithToken(r, "Bearer "+admin)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "7", w.Body.String())
	})

	t.Run("missing header is unauthorized", func(t *testing.T) {
		w := putWithToken(r, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
	})

	t.Run("non bearer scheme is unauthorized", func(t *testing.T) {
		w := putWithToken(r, "Basic "+admin)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("foreign signature is unauthorized", func(t *testing.T) {
		w := putWithToken(r, "Bearer "+forged)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("other role is forbidden", func(t *testing.T) {
		w := putWithToken(r, "Bearer "+user)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "FORBIDDEN")
	})
}
