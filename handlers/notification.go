package handlers

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"medibook/models"
	"medibook/services/notification"
	"medibook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NotificationHandler exposes the notification reader and preference matrix.
// PollInterval is the refresh cadence of the unread badge stream.
type NotificationHandler struct {
	Service      notification.DispatcherService
	PollInterval time.Duration
	Logger       *zap.Logger
}

func NewNotificationHandler(svc notification.DispatcherService, pollInterval time.Duration, logger *zap.Logger) *NotificationHandler {
	if pollInterval <= 0 {
		pollInterval = 30 * time.Second
	}
	return &NotificationHandler{Service: svc, PollInterval: pollInterval, Logger: logger}
}

// currentUserID reads the user set by the capability-check middleware.
func currentUserID(c *gin.Context) string {
	return c.GetString("userID")
}

// ListNotifications returns the user's notifications, optionally filtered.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	filter := models.NotificationFilter{
		UserID:     currentUserID(c),
		Type:       models.EventType(c.Query("type")),
		UnreadOnly: c.Query("unread") == "true",
	}
	if limit, err := strconv.ParseInt(c.Query("limit"), 10, 64); err == nil {
		filter.Limit = limit
	}

	notifications, err := h.Service.GetUserNotifications(c.Request.Context(), filter)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list notifications", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// GetHistory returns the full delivery history matching the filter.
func (h *NotificationHandler) GetHistory(c *gin.Context) {
	filter := models.NotificationFilter{
		UserID: currentUserID(c),
		Type:   models.EventType(c.Query("type")),
	}
	if limit, err := strconv.ParseInt(c.Query("limit"), 10, 64); err == nil {
		filter.Limit = limit
	}

	history, err := h.Service.GetHistory(c.Request.Context(), filter)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch history", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

// GetUnreadCount serves the badge.
func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	count, err := h.Service.GetUnreadCount(c.Request.Context(), currentUserID(c))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to count unread notifications", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

// StreamUnreadCount pushes the unread badge over server-sent events. One
// poller runs per connection at the configured interval and is torn down when
// the client disconnects or the server drains.
func (h *NotificationHandler) StreamUnreadCount(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	counts := make(chan int64, 1)
	poller := notification.NewPoller(currentUserID(c), h.PollInterval, h.Service, func(count int64) {
		// Drop the update if the write side is behind; the next tick replaces it.
		select {
		case counts <- count:
		default:
		}
	}, h.Logger)
	poller.Start(c.Request.Context())
	defer poller.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case count := <-counts:
			c.SSEvent("unread_count", count)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// MarkAsRead flags one notification as read. Idempotent.
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	if err := h.Service.MarkAsRead(c.Request.Context(), currentUserID(c), c.Param("notificationID")); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to mark notification as read", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// MarkAllAsRead flags every unread notification as read. Idempotent.
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	if err := h.Service.MarkAllAsRead(c.Request.Context(), currentUserID(c)); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to mark notifications as read", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
