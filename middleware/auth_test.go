package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"creatorhub/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSession struct{ s *models.Session }

func (f *staticSession) Current() *models.Session { return f.s }

func authed(role models.Role) *staticSession {
	return &staticSession{s: &models.Session{
		UserID:          "u-1",
		Role:            role,
		Token:           "tok",
		IsAuthenticated: true,
		ExpiresAt:       time.Now().Add(time.Hour),
	}}
}

func newRouter(sessions SessionReader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	ok := func(c *gin.Context) { c.String(http.StatusOK, c.GetString("userID")) }
	r.GET("/login", PublicOnly(sessions), ok)
	r.GET("/manager", RequireRoles(sessions, models.RoleManager, models.RoleSubManager), ok)
	r.GET("/anyone", RequireRoles(sessions), ok)
	r.GET("/api/manager", RequireRoles(sessions, models.RoleManager), ok)
	return r
}

func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name     string
		sessions *staticSession
		path     string
		accept   string
		status   int
		location string
	}{
		{name: "anonymous view", sessions: &staticSession{}, path: "/manager", status: http.StatusFound, location: "/login"},
		{name: "wrong role view", sessions: authed(models.RoleCreator), path: "/manager", status: http.StatusFound, location: "/"},
		{name: "allowed role", sessions: authed(models.RoleSubManager), path: "/manager", status: http.StatusOK},
		{name: "any authenticated", sessions: authed(models.RoleCreator), path: "/anyone", status: http.StatusOK},
		{name: "anonymous api", sessions: &staticSession{}, path: "/api/manager", status: http.StatusUnauthorized, location: "/login"},
		{name: "wrong role api", sessions: authed(models.RoleAdmin), path: "/api/manager", status: http.StatusForbidden, location: "/"},
		{name: "json accept", sessions: &staticSession{}, path: "/manager", accept: "application/json", status: http.StatusUnauthorized, location: "/login"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(tt.sessions)
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.location != "" {
				assert.Equal(t, tt.location, rec.Header().Get("Location"))
			}
			if tt.status == http.StatusOK {
				assert.Equal(t, "u-1", rec.Body.String())
			}
		})
	}
}

func TestPublicOnly(t *testing.T) {
	tests := []struct {
		role     models.Role
		location string
	}{
		{models.RoleCreator, "/creator"},
		{models.RoleManager, "/manager"},
		{models.RoleSubManager, "/manager"},
		{models.RoleAdmin, "/admin"},
		{models.RoleSuperAdmin, "/super-admin"},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			rec := httptest.NewRecorder()
			newRouter(authed(tt.role)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, tt.location, rec.Header().Get("Location"))
		})
	}

	rec := httptest.NewRecorder()
	newRouter(&staticSession{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	require.NoError(t, r.SetTrustedProxies(nil))
	r.Use(RateLimitMiddleware(2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "127.0.0.1:40000"
		// A fresh forwarding header per request must not reset the budget.
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i+1))
		req.Header.Set("X-Real-IP", fmt.Sprintf("10.0.1.%d", i+1))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "127.0.0.2:40000"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
