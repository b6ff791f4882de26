package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"creatorhub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 2*time.Second, nil)
}

func TestClient_Login(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var creds models.Credentials
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid email or password"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(models.AuthResponse{
			Token: "tok",
			User:  models.User{ID: "u-1", Role: "admin"},
		})
	})

	resp, err := c.Login(context.Background(), models.Credentials{Email: "a@b.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.Token)
	assert.Equal(t, "u-1", resp.User.ID)

	_, err = c.Login(context.Background(), models.Credentials{Email: "a@b.com", Password: "wrong"})
	require.Error(t, err)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "invalid email or password", apiErr.Message)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, time.Second, nil)
	err := c.Logout(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.NotErrorIs(t, err, ErrUnauthorized)
}

func TestClient_UnauthorizedHook(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	calls := 0
	c.OnUnauthorized(func() { calls++ })

	// No token attached: nothing to expire.
	_, err := c.ListNotifications(context.Background(), "u-1")
	require.Error(t, err)
	assert.Equal(t, 0, calls)

	c.SetTokenSource(func() string { return "tok" })
	_, err = c.ListNotifications(context.Background(), "u-1")
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestClient_NotificationEndpoints(t *testing.T) {
	type call struct {
		method, path, query, auth string
		body                      string
	}
	var calls []call

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		calls = append(calls, call{r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Get("Authorization"), string(body)})
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(`[{"id":"1","type":"info","title":"t","message":"m","read":false}]`))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	c.SetTokenSource(func() string { return "tok" })
	ctx := context.Background()

	list, err := c.ListNotifications(ctx, "u 1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.NotificationInfo, list[0].Type)

	require.NoError(t, c.CreateNotification(ctx, models.Notification{ID: "n-1", Title: "hi"}))
	require.NoError(t, c.MarkNotificationRead(ctx, "n-1"))
	require.NoError(t, c.ClearNotifications(ctx, "u-1"))
	require.NoError(t, c.SavePushSubscription(ctx, "u-1", json.RawMessage(`{"endpoint":"https://push/x","keys":{"p256dh":"k","auth":"a"}}`)))

	require.Len(t, calls, 5)
	assert.Equal(t, call{http.MethodGet, "/notifications", "userId=u+1", "Bearer tok", ""}, calls[0])
	assert.Equal(t, http.MethodPost, calls[1].method)
	assert.Equal(t, "/notifications", calls[1].path)
	assert.Contains(t, calls[1].body, `"id":"n-1"`)
	assert.Equal(t, http.MethodPatch, calls[2].method)
	assert.Equal(t, "/notifications/n-1/read", calls[2].path)
	assert.Equal(t, http.MethodDelete, calls[3].method)
	assert.Equal(t, "userId=u-1", calls[3].query)
	assert.Equal(t, "/users/pushSubscription", calls[4].path)
	assert.JSONEq(t,
		`{"userId":"u-1","subscription":{"endpoint":"https://push/x","keys":{"p256dh":"k","auth":"a"}}}`,
		calls[4].body)
}

func TestClient_Ping(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	})
	assert.NoError(t, c.Ping(context.Background()))

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	assert.ErrorIs(t, NewClient(url, time.Second, nil).Ping(context.Background()), ErrNetwork)
}
