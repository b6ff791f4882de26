package handlers

import (
	"net/http"

	"creatorhub/models"
	"creatorhub/services/notification"
	"creatorhub/utils"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	Store *notification.Store
}

func NewNotificationHandler(store *notification.Store) *NotificationHandler {
	return &NotificationHandler{Store: store}
}

func (h *NotificationHandler) ListHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"notifications": h.Store.List(),
		"unread":        h.Store.UnreadCount(),
		"loading":       h.Store.Loading(),
	})
}

// RefreshHandler refetches the collection from the backend.
func (h *NotificationHandler) RefreshHandler(c *gin.Context) {
	h.Store.FetchAll(c.Request.Context())
	h.ListHandler(c)
}

type addNotificationRequest struct {
	Type    models.NotificationType `json:"type"`
	Title   string                  `json:"title" binding:"required"`
	Message string                  `json:"message"`
	Link    string                  `json:"link"`
}

func (h *NotificationHandler) AddHandler(c *gin.Context) {
	var req addNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	n, ok := h.Store.Add(models.Notification{
		Type:    req.Type,
		Title:   req.Title,
		Message: req.Message,
		Link:    req.Link,
	})
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "no active session")
		return
	}
	c.JSON(http.StatusCreated, n)
}

func (h *NotificationHandler) MarkReadHandler(c *gin.Context) {
	h.Store.MarkAsRead(c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) ClearHandler(c *gin.Context) {
	h.Store.ClearAll()
	c.Status(http.StatusNoContent)
}
