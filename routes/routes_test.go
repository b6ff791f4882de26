package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	deviceRepo "creatorhub/database/repository/device"
	"creatorhub/handlers"
	"creatorhub/models"
	"creatorhub/services/backend"
	"creatorhub/services/notification"
	"creatorhub/services/push"
	"creatorhub/services/session"
	"creatorhub/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	router   *gin.Engine
	sessions *session.Manager
	syncer   *notification.Syncer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	token, err := utils.GenerateToken([]byte("routes-test-secret-routes-test!!"), "u-1", "c@example.com", time.Hour)
	require.NoError(t, err)

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/auth/login":
			_ = json.NewEncoder(w).Encode(models.AuthResponse{
				Token: token,
				User:  models.User{ID: "u-1", Email: "c@example.com", DisplayName: "Cleo", Role: "manager"},
			})
		case r.URL.Path == "/auth/logout":
			w.WriteHeader(http.StatusNoContent)
		case r.URL.Path == "/notifications" && r.Method == http.MethodGet:
			_ = json.NewEncoder(w).Encode([]models.Notification{
				{ID: "1", Type: models.NotificationInfo, Title: "one"},
				{ID: "2", Type: models.NotificationWarning, Title: "two"},
			})
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	t.Cleanup(api.Close)

	repo := deviceRepo.NewMemoryDeviceRepo()
	client := backend.NewClient(api.URL, time.Second, nil)
	sessions := session.NewManager(client, repo, nil)
	client.SetTokenSource(sessions.Token)

	negotiator := push.NewNegotiator(push.NewDevicePlatform(false, "", repo, time.Second, nil), client, sessions, repo, "", nil)
	syncer := notification.NewSyncer(8, time.Second, nil)
	t.Cleanup(syncer.Close)
	store := notification.NewStore(client, sessions, syncer, nil)
	sessions.OnChange(func(s *models.Session) {
		store.Reset()
		if s == nil {
			negotiator.Deactivate()
		}
	})

	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, handlers.NewHandlerBundle(sessions, store, negotiator))
	return &testEnv{router: r, sessions: sessions, syncer: syncer}
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestRoutes_GuardedViews(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/manager", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = env.do(http.MethodGet, "/login", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodPost, "/auth/login", `{"email":"c@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"landing":"/manager"`)
	assert.NotContains(t, rec.Body.String(), "token")

	rec = env.do(http.MethodGet, "/manager", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "manager-dashboard")

	rec = env.do(http.MethodGet, "/admin", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = env.do(http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/login", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/manager", rec.Header().Get("Location"))

	rec = env.do(http.MethodPost, "/auth/logout", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/manager", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRoutes_Notifications(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/notifications", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/auth/login", `{"email":"c@example.com","password":"pw"}`).Code)

	rec = env.do(http.MethodPost, "/api/notifications/refresh", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Notifications []models.Notification `json:"notifications"`
		Unread        int                   `json:"unread"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Notifications, 2)
	assert.Equal(t, 2, body.Unread)

	rec = env.do(http.MethodPost, "/api/notifications", `{"type":"success","title":"Saved"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(http.MethodPost, "/api/notifications", `{"message":"no title"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPatch, "/api/notifications/1/read", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(http.MethodGet, "/api/notifications", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Notifications, 3)
	assert.Equal(t, "Saved", body.Notifications[0].Title)
	assert.Equal(t, 2, body.Unread)

	rec = env.do(http.MethodDelete, "/api/notifications", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(http.MethodGet, "/api/notifications", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Notifications)
	env.syncer.Wait()
}

func TestRoutes_PushUnsupported(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/auth/login", `{"email":"c@example.com","password":"pw"}`).Code)

	rec := env.do(http.MethodGet, "/api/push", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"inert":true`)

	rec = env.do(http.MethodPost, "/api/push/permission", `{"answer":"granted"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), push.ErrPermissionUnsupported.Error())

	rec = env.do(http.MethodDelete, "/api/push/error", "")
	assert.Contains(t, rec.Body.String(), `"error":""`)
}

func TestRoutes_Health(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "creatorhub")
}
