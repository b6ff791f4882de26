package guard

import (
	"context"
	"testing"
	"time"

	deviceRepo "creatorhub/database/repository/device"
	"creatorhub/models"
	"creatorhub/services/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authed(role models.Role) *models.Session {
	return &models.Session{UserID: "u-1", Role: role, Token: "tok", IsAuthenticated: true}
}

func TestDecide_NoSessionRedirectsToLogin(t *testing.T) {
	now := time.Now()
	sets := []models.RoleSet{nil, models.NewRoleSet(), models.NewRoleSet(models.AllRoles...)}
	for _, r := range models.AllRoles {
		sets = append(sets, models.NewRoleSet(r))
	}
	for _, set := range sets {
		assert.Equal(t, Decision{RedirectTo: TargetLogin}, Decide(nil, set, now))
	}
}

func TestDecide_InvalidSessions(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name    string
		session *models.Session
	}{
		{"no token", &models.Session{UserID: "u-1", Role: models.RoleAdmin, IsAuthenticated: true}},
		{"not authenticated", &models.Session{UserID: "u-1", Role: models.RoleAdmin, Token: "tok"}},
		{"expired", &models.Session{UserID: "u-1", Role: models.RoleAdmin, Token: "tok", IsAuthenticated: true, ExpiresAt: now.Add(-time.Second)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, TargetLogin, Decide(tt.session, models.NewRoleSet(models.RoleAdmin), now).RedirectTo)
		})
	}
}

func TestDecide_RoleMembership(t *testing.T) {
	now := time.Now()
	for _, r := range models.AllRoles {
		s := authed(r)
		assert.True(t, Decide(s, models.NewRoleSet(r), now).Allow, "role %s in its own set", r)
		assert.True(t, Decide(s, nil, now).Allow, "role %s with no requirement", r)

		for _, other := range models.AllRoles {
			if other == r {
				continue
			}
			d := Decide(s, models.NewRoleSet(other), now)
			assert.False(t, d.Allow)
			assert.Equal(t, TargetHome, d.RedirectTo, "role %s against %s", r, other)
		}
	}
}

func TestDecide_UnrecognizedRoleIsCreator(t *testing.T) {
	now := time.Now()
	for _, raw := range []string{"owner", "", "Root", "agency"} {
		role, ok := models.ParseRole(raw)
		assert.False(t, ok)
		s := authed(role)
		assert.True(t, Decide(s, models.NewRoleSet(models.RoleCreator), now).Allow)
		assert.Equal(t, TargetHome, Decide(s, models.NewRoleSet(models.RoleAdmin), now).RedirectTo)
		assert.Equal(t, TargetCreatorDashboard, DecidePublic(s, now).RedirectTo)
	}
}

func TestDecidePublic(t *testing.T) {
	now := time.Now()
	assert.True(t, DecidePublic(nil, now).Allow)

	expected := map[models.Role]Target{
		models.RoleCreator:    TargetCreatorDashboard,
		models.RoleManager:    TargetManagerDashboard,
		models.RoleSubManager: TargetManagerDashboard,
		models.RoleAdmin:      TargetAdminDashboard,
		models.RoleSuperAdmin: TargetSuperAdminDashboard,
	}
	for role, target := range expected {
		d := DecidePublic(authed(role), now)
		assert.False(t, d.Allow)
		assert.Equal(t, target, d.RedirectTo)
	}
}

func TestLanding_Total(t *testing.T) {
	for _, r := range models.AllRoles {
		assert.NotEqual(t, TargetHome, Landing(r), "role %s", r)
	}
	assert.Equal(t, TargetHome, Landing(models.Role("unknown")))
}

type stubAuth struct{}

func (stubAuth) Login(context.Context, models.Credentials) (*models.AuthResponse, error) {
	return &models.AuthResponse{Token: "tok", User: models.User{ID: "u-1", Role: "admin"}}, nil
}

func (stubAuth) LoginWithFederatedCode(context.Context, string) (*models.AuthResponse, error) {
	return nil, nil
}

func (stubAuth) Logout(context.Context) error { return nil }

func TestDecide_LogoutIsImmediatelyVisible(t *testing.T) {
	m := session.NewManager(stubAuth{}, deviceRepo.NewMemoryDeviceRepo(), nil)
	_, err := m.Login(context.Background(), models.Credentials{Email: "a@b.com", Password: "pw"})
	require.NoError(t, err)

	protected := models.NewRoleSet(models.RoleAdmin)
	require.True(t, Decide(m.Current(), protected, time.Now()).Allow)

	m.Logout(context.Background())
	for _, set := range []models.RoleSet{protected, nil} {
		d := Decide(m.Current(), set, time.Now())
		assert.False(t, d.Allow)
		assert.Equal(t, TargetLogin, d.RedirectTo)
	}
}
