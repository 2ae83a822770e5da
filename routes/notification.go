package routes

import (
	"medibook/handlers"
	"medibook/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterNotificationRoutes registers the notification reader and the
// preference matrix endpoints.
func RegisterNotificationRoutes(r *gin.Engine, nh *handlers.NotificationHandler, ph *handlers.PreferenceHandler) {
	notifications := r.Group("/api/notifications")
	notifications.Use(middleware.CapabilityAuthMiddleware())
	{
		notifications.GET("", nh.ListNotifications)
		notifications.GET("/history", nh.GetHistory)
		notifications.GET("/unread-count", nh.GetUnreadCount)
		notifications.GET("/unread-count/stream", nh.StreamUnreadCount)
		notifications.POST("/:notificationID/read", nh.MarkAsRead)
		notifications.POST("/read-all", nh.MarkAllAsRead)
	}

	preferences := r.Group("/api/preferences")
	preferences.Use(middleware.CapabilityAuthMiddleware())
	{
		preferences.GET("", ph.GetPreferences)
		preferences.PUT("", ph.SavePreferences)
		preferences.POST("/channel", ph.ToggleGlobalChannel)
		preferences.POST("/event-channel", ph.ToggleEventChannel)
	}
}
