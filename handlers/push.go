package handlers

import (
	"errors"
	"net/http"

	"creatorhub/models"
	"creatorhub/services/push"
	"creatorhub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PushHandler struct {
	Negotiator *push.Negotiator
}

func NewPushHandler(n *push.Negotiator) *PushHandler {
	return &PushHandler{Negotiator: n}
}

func (h *PushHandler) status() gin.H {
	return gin.H{
		"state":        h.Negotiator.State(),
		"inert":        h.Negotiator.Inert(),
		"shouldPrompt": h.Negotiator.ShouldPrompt(),
		"error":        h.Negotiator.LastError(),
	}
}

// StatusHandler resolves and reports the permission state.
func (h *PushHandler) StatusHandler(c *gin.Context) {
	h.Negotiator.Check(c.Request.Context())
	c.JSON(http.StatusOK, h.status())
}

type permissionRequest struct {
	Answer models.PermissionState `json:"answer" binding:"required"`
}

// PermissionHandler applies the user's answer to the permission prompt.
func (h *PushHandler) PermissionHandler(c *gin.Context) {
	var req permissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	_, err := h.Negotiator.RequestPermission(c.Request.Context(), push.Answer(req.Answer))
	h.respond(c, err)
}

// DismissHandler handles the in-app "not now" action.
func (h *PushHandler) DismissHandler(c *gin.Context) {
	_, err := h.Negotiator.Dismiss(c.Request.Context())
	h.respond(c, err)
}

// SubscribeHandler re-runs the subscribe handshake for a granted permission.
func (h *PushHandler) SubscribeHandler(c *gin.Context) {
	_, err := h.Negotiator.Subscribe(c.Request.Context())
	h.respond(c, err)
}

func (h *PushHandler) ClearErrorHandler(c *gin.Context) {
	h.Negotiator.ClearError()
	c.JSON(http.StatusOK, h.status())
}

// respond reports push failures inside a 200 body: they are shown as a
// dismissible message and never block the dashboard.
func (h *PushHandler) respond(c *gin.Context, err error) {
	switch {
	case err == nil:
	case errors.Is(err, push.ErrNoSession):
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", err.Error())
		return
	case errors.Is(err, push.ErrNotGranted):
		utils.JSONError(c, http.StatusConflict, err.Error(), "")
		return
	default:
		getLogger(c).Info("push request did not complete", zap.Error(err))
	}
	c.JSON(http.StatusOK, h.status())
}
