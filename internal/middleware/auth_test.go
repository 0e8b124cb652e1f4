package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DhavalSuthar-24/rally/internal/middleware"
	"github.com/DhavalSuthar-24/rally/pkg/rmiddleware"
	"github.com/DhavalSuthar-24/rally/pkg/token"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "mw-secret"

func newRouter(t *testing.T) (*gin.Engine, *test.Hook) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	r := gin.New()
	r.Use(middleware.RequestID(logrus.NewEntry(logger)))
	authed := r.Group("/", middleware.AuthMiddleware(secret))
	authed.GET("/me", func(c *gin.Context) {
		id, err := middleware.GetUserIDFromContext(c)
		require.NoError(t, err)
		c.JSON(http.StatusOK, gin.H{"user_id": id})
	})
	authed.GET("/admin", rmiddleware.OrganizerOrAdminMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r, hook
}

func get(r http.Handler, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bearer(t *testing.T, userID uint, role, key string, ttl time.Duration) string {
	t.Helper()
	tok, err := token.GenerateJWT(userID, role, key, ttl)
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestAuthMiddleware(t *testing.T) {
	r, _ := newRouter(t)

	tests := map[string]struct {
		header string
		want   int
	}{
		"missing header": {"", http.StatusUnauthorized},
		"wrong scheme":   {"Basic abc", http.StatusUnauthorized},
		"garbage token":  {"Bearer not-a-jwt", http.StatusUnauthorized},
		"wrong secret":   {bearer(t, 7, "player", "other", time.Minute), http.StatusUnauthorized},
		"expired":        {bearer(t, 7, "player", secret, -time.Minute), http.StatusUnauthorized},
		"valid":          {bearer(t, 7, "player", secret, time.Minute), http.StatusOK},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w := get(r, "/me", tt.header)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}

	w := get(r, "/me", bearer(t, 7, "player", secret, time.Minute))
	assert.JSONEq(t, `{"user_id":7}`, w.Body.String())
}

func TestOrganizerOrAdmin(t *testing.T) {
	r, _ := newRouter(t)

	assert.Equal(t, http.StatusForbidden, get(r, "/admin", bearer(t, 1, "player", secret, time.Minute)).Code)
	assert.Equal(t, http.StatusNoContent, get(r, "/admin", bearer(t, 1, "organizer", secret, time.Minute)).Code)
	assert.Equal(t, http.StatusNoContent, get(r, "/admin", bearer(t, 1, "ADMIN", secret, time.Minute)).Code)
}

func TestRequestID(t *testing.T) {
	r, hook := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(middleware.RequestIDHeader))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "abc-123", entry.Data["request_id"])
	assert.Equal(t, http.StatusUnauthorized, entry.Data["status"])

	w = get(r, "/me", "")
	assert.Len(t, w.Header().Get(middleware.RequestIDHeader), 36)
}
