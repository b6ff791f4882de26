// Package guard holds the pure authorization decisions consulted on every
// navigation. Nothing here performs I/O or reads global state.
package guard

import (
	"time"

	"creatorhub/models"
)

// Target is a view the router can redirect to.
type Target string

const (
	TargetLogin               Target = "login"
	TargetHome                Target = "home"
	TargetCreatorDashboard    Target = "creator-dashboard"
	TargetManagerDashboard    Target = "manager-dashboard"
	TargetAdminDashboard      Target = "admin-dashboard"
	TargetSuperAdminDashboard Target = "super-admin-dashboard"
)

// Decision is the outcome of a guard check: either Allow, or a redirect.
type Decision struct {
	Allow      bool
	RedirectTo Target
}

var allow = Decision{Allow: true}

func redirect(t Target) Decision {
	return Decision{RedirectTo: t}
}

// Decide gates a protected view. Without a valid token the caller is sent to
// login; with a role outside a non-empty required set, to home.
func Decide(s *models.Session, required models.RoleSet, now time.Time) Decision {
	if !s.Valid(now) {
		return redirect(TargetLogin)
	}
	if len(required) > 0 && !required.Contains(s.Role) {
		return redirect(TargetHome)
	}
	return allow
}

// DecidePublic gates public-only views such as the login page: authenticated
// callers are sent to their landing view.
func DecidePublic(s *models.Session, now time.Time) Decision {
	if !s.Valid(now) {
		return allow
	}
	return redirect(Landing(s.Role))
}

// Landing maps every role onto exactly one landing view.
func Landing(r models.Role) Target {
	switch r {
	case models.RoleCreator:
		return TargetCreatorDashboard
	case models.RoleManager, models.RoleSubManager:
		return TargetManagerDashboard
	case models.RoleAdmin:
		return TargetAdminDashboard
	case models.RoleSuperAdmin:
		return TargetSuperAdminDashboard
	default:
		return TargetHome
	}
}
