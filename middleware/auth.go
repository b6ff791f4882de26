package middleware

import (
	"net/http"
	"strings"
	"time"

	"creatorhub/models"
	"creatorhub/services/guard"
	"creatorhub/utils"

	"github.com/gin-gonic/gin"
)

// SessionReader returns the committed session snapshot, or nil.
type SessionReader interface {
	Current() *models.Session
}

var viewPaths = map[guard.Target]string{
	guard.TargetLogin:               "/login",
	guard.TargetHome:                "/",
	guard.TargetCreatorDashboard:    "/creator",
	guard.TargetManagerDashboard:    "/manager",
	guard.TargetAdminDashboard:      "/admin",
	guard.TargetSuperAdminDashboard: "/super-admin",
}

// ViewPath returns the route serving the view t.
func ViewPath(t guard.Target) string {
	if p, ok := viewPaths[t]; ok {
		return p
	}
	return "/"
}

// RequireRoles consults the guard before every protected view. An empty role
// list admits any authenticated user. The session is read fresh per request.
func RequireRoles(sessions SessionReader, roles ...models.Role) gin.HandlerFunc {
	required := models.NewRoleSet(roles...)
	return func(c *gin.Context) {
		s := sessions.Current()
		d := guard.Decide(s, required, time.Now())
		if !d.Allow {
			deny(c, d)
			return
		}
		c.Set("userID", s.UserID)
		c.Set("role", string(s.Role))
		c.Next()
	}
}

// PublicOnly sends authenticated callers from public views, such as the login
// page, to their landing view.
func PublicOnly(sessions SessionReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := guard.DecidePublic(sessions.Current(), time.Now())
		if !d.Allow {
			deny(c, d)
			return
		}
		c.Next()
	}
}

func deny(c *gin.Context, d guard.Decision) {
	location := ViewPath(d.RedirectTo)
	if wantsJSON(c) {
		status := http.StatusForbidden
		message := "Insufficient role"
		if d.RedirectTo == guard.TargetLogin {
			status = http.StatusUnauthorized
			message = "Insufficient authorization"
		}
		utils.JSONRedirect(c, status, message, location)
		return
	}
	c.Redirect(http.StatusFound, location)
	c.Abort()
}

func wantsJSON(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/") ||
		strings.Contains(c.GetHeader("Accept"), "application/json")
}
