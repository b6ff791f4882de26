package routes

import (
	"time"

	"creatorhub/handlers"
	"creatorhub/middleware"
	"creatorhub/models"
	"creatorhub/services/guard"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers sign-in and sign-out endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	public := r.Group("/auth")
	public.Use(middleware.PublicOnly(hb.Sessions))
	{
		public.POST("/login", hb.LoginHandler)
		public.GET("/callback", hb.FederatedCallbackHandler)
	}

	r.POST("/auth/logout", hb.LogoutHandler)
	r.GET("/api/session", hb.WhoAmIHandler)
}

// RegisterViewRoutes registers the dashboard views, each behind the guard.
func RegisterViewRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	view := func(t guard.Target) gin.HandlerFunc { return hb.Views.View(t) }

	r.GET(middleware.ViewPath(guard.TargetLogin), middleware.PublicOnly(hb.Sessions), view(guard.TargetLogin))
	r.GET(middleware.ViewPath(guard.TargetHome), middleware.RequireRoles(hb.Sessions), view(guard.TargetHome))

	r.GET(middleware.ViewPath(guard.TargetCreatorDashboard),
		middleware.RequireRoles(hb.Sessions, models.RoleCreator), view(guard.TargetCreatorDashboard))
	r.GET(middleware.ViewPath(guard.TargetManagerDashboard),
		middleware.RequireRoles(hb.Sessions, models.RoleManager, models.RoleSubManager), view(guard.TargetManagerDashboard))
	r.GET(middleware.ViewPath(guard.TargetAdminDashboard),
		middleware.RequireRoles(hb.Sessions, models.RoleAdmin), view(guard.TargetAdminDashboard))
	r.GET(middleware.ViewPath(guard.TargetSuperAdminDashboard),
		middleware.RequireRoles(hb.Sessions, models.RoleSuperAdmin), view(guard.TargetSuperAdminDashboard))
}

// RegisterNotificationRoutes registers the notification store endpoints.
func RegisterNotificationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/notifications")
	api.Use(middleware.RequireRoles(hb.Sessions))
	{
		api.GET("", hb.ListNotificationsHandler)
		api.POST("", hb.AddNotificationHandler)
		api.POST("/refresh", hb.RefreshNotificationsHandler)
		api.PATCH("/:id/read", hb.MarkNotificationReadHandler)
		api.DELETE("", hb.ClearNotificationsHandler)
	}
}

// RegisterPushRoutes registers the push channel endpoints.
func RegisterPushRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/push")
	api.Use(middleware.RequireRoles(hb.Sessions))
	{
		api.GET("", hb.PushStatusHandler)
		api.POST("/permission", hb.PushPermissionHandler)
		api.POST("/dismiss", hb.PushDismissHandler)
		api.POST("/subscribe", hb.PushSubscribeHandler)
		api.DELETE("/error", hb.PushClearErrorHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost", "http://127.0.0.1"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Location"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r, hb)
	RegisterViewRoutes(r, hb)
	RegisterNotificationRoutes(r, hb)
	RegisterPushRoutes(r, hb)
	RegisterHealthRoute(r, hb)
}
