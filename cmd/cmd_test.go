package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"creatorhub/models"
	"creatorhub/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDashboardAPI(t *testing.T) *httptest.Server {
	t.Helper()
	token, err := utils.GenerateToken([]byte("cli-test-secret-cli-test-secret!"), "u-7", "m@example.com", time.Hour)
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/auth/login":
			var creds models.Credentials
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			if creds.Password != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "bad credentials"})
				return
			}
			_ = json.NewEncoder(w).Encode(models.AuthResponse{
				Token: token,
				User:  models.User{ID: "u-7", Email: "m@example.com", DisplayName: "Mia", Role: "manager"},
			})
		case r.Method == http.MethodPost && r.URL.Path == "/auth/logout":
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodGet && r.URL.Path == "/notifications":
			assert.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))
			_ = json.NewEncoder(w).Encode([]models.Notification{
				{ID: "n-1", Type: models.NotificationInfo, Title: "Campaign approved", Timestamp: time.Now()},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLI_SessionLifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	t.Setenv("REDIS_ADDR", mr.Addr())
	t.Setenv("DEVICE_ID", "cli-test")
	t.Setenv("PUSH_ENABLED", "false")
	api := newDashboardAPI(t)

	out, err := run(t, "login", "--backend", api.URL, "--email", "m@example.com", "--password", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid email or password")

	out, err = run(t, "whoami", "--backend", api.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in.")

	out, err = run(t, "login", "--backend", api.URL, "--email", "m@example.com", "--password", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as Mia")
	assert.Contains(t, out, "landing: /manager")

	out, err = run(t, "whoami", "--backend", api.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "role:    manager")

	out, err = run(t, "notifications", "list", "--backend", api.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Campaign approved")
	assert.Contains(t, out, "1 unread")

	out, err = run(t, "push", "status", "--backend", api.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "not supported")

	out, err = run(t, "logout", "--backend", api.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Signed out.")

	out, err = run(t, "whoami", "--backend", api.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in.")

	_, err = run(t, "notifications", "list", "--backend", api.URL)
	assert.Error(t, err)
}
