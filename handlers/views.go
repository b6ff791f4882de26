package handlers

import (
	"net/http"

	"creatorhub/services/guard"
	"creatorhub/services/session"

	"github.com/gin-gonic/gin"
)

// ViewHandler serves placeholder descriptors for the dashboard views. The
// views themselves are rendered elsewhere; by the time a handler runs the
// guard has already admitted the caller.
type ViewHandler struct {
	Sessions *session.Manager
}

func NewViewHandler(sessions *session.Manager) *ViewHandler {
	return &ViewHandler{Sessions: sessions}
}

// View returns a handler describing target.
func (h *ViewHandler) View(target guard.Target) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{"view": string(target)}
		if s := h.Sessions.Current(); s != nil {
			body["user"] = gin.H{
				"id":          s.UserID,
				"displayName": s.DisplayName,
				"role":        s.Role,
			}
		}
		c.JSON(http.StatusOK, body)
	}
}
