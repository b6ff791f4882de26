package handlers

import (
	"creatorhub/middleware"
	"creatorhub/services/notification"
	"creatorhub/services/push"
	"creatorhub/services/session"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	Sessions middleware.SessionReader

	// Auth endpoints
	LoginHandler             gin.HandlerFunc
	FederatedCallbackHandler gin.HandlerFunc
	LogoutHandler            gin.HandlerFunc
	WhoAmIHandler            gin.HandlerFunc

	// Views
	Views *ViewHandler

	// Notification endpoints
	ListNotificationsHandler    gin.HandlerFunc
	RefreshNotificationsHandler gin.HandlerFunc
	AddNotificationHandler      gin.HandlerFunc
	MarkNotificationReadHandler gin.HandlerFunc
	ClearNotificationsHandler   gin.HandlerFunc

	// Push endpoints
	PushStatusHandler     gin.HandlerFunc
	PushPermissionHandler gin.HandlerFunc
	PushDismissHandler    gin.HandlerFunc
	PushSubscribeHandler  gin.HandlerFunc
	PushClearErrorHandler gin.HandlerFunc

	HealthHandler gin.HandlerFunc
}

// NewHandlerBundle assembles the bundle from the live components.
func NewHandlerBundle(sessions *session.Manager, store *notification.Store, negotiator *push.Negotiator) *HandlerBundle {
	authHandler := NewAuthHandler(sessions)
	notificationHandler := NewNotificationHandler(store)
	pushHandler := NewPushHandler(negotiator)

	return &HandlerBundle{
		Sessions: sessions,

		LoginHandler:             authHandler.LoginHandler,
		FederatedCallbackHandler: authHandler.FederatedCallbackHandler,
		LogoutHandler:            authHandler.LogoutHandler,
		WhoAmIHandler:            authHandler.WhoAmIHandler,

		Views: NewViewHandler(sessions),

		ListNotificationsHandler:    notificationHandler.ListHandler,
		RefreshNotificationsHandler: notificationHandler.RefreshHandler,
		AddNotificationHandler:      notificationHandler.AddHandler,
		MarkNotificationReadHandler: notificationHandler.MarkReadHandler,
		ClearNotificationsHandler:   notificationHandler.ClearHandler,

		PushStatusHandler:     pushHandler.StatusHandler,
		PushPermissionHandler: pushHandler.PermissionHandler,
		PushDismissHandler:    pushHandler.DismissHandler,
		PushSubscribeHandler:  pushHandler.SubscribeHandler,
		PushClearErrorHandler: pushHandler.ClearErrorHandler,

		HealthHandler: HealthHandler,
	}
}
