package handlers

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"medibook/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// badgeDispatcher stubs the dispatcher; only the unread count matters here.
type badgeDispatcher struct {
	unread int64
}

func (d *badgeDispatcher) Publish(context.Context, models.BookingEvent) {}

func (d *badgeDispatcher) Dispatch(context.Context, models.BookingEvent, *models.NotificationPreference) []models.Notification {
	return nil
}

func (d *badgeDispatcher) Deliver(context.Context, string) error { return nil }

func (d *badgeDispatcher) GetUserNotifications(context.Context, models.NotificationFilter) ([]models.Notification, error) {
	return nil, nil
}

func (d *badgeDispatcher) GetHistory(context.Context, models.NotificationFilter) ([]models.Notification, error) {
	return nil, nil
}

func (d *badgeDispatcher) GetUnreadCount(context.Context, string) (int64, error) {
	return d.unread, nil
}

func (d *badgeDispatcher) MarkAsRead(context.Context, string, string) error { return nil }

func (d *badgeDispatcher) MarkAllAsRead(context.Context, string) error { return nil }

func (d *badgeDispatcher) GetPreferences(context.Context, string) (*models.NotificationPreference, error) {
	return nil, nil
}

func (d *badgeDispatcher) SavePreferences(context.Context, *models.NotificationPreference) error {
	return nil
}

func (d *badgeDispatcher) ToggleGlobalChannel(context.Context, string, models.NotificationChannel, bool) (*models.NotificationPreference, error) {
	return nil, nil
}

func (d *badgeDispatcher) ToggleEventChannel(context.Context, string, models.EventType, models.NotificationChannel, bool) (*models.NotificationPreference, error) {
	return nil, nil
}

func TestStreamUnreadCount_PushesBadgeOverSSE(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := NewNotificationHandler(&badgeDispatcher{unread: 7}, 10*time.Millisecond, zap.NewNop())

	r := gin.New()
	r.GET("/stream", func(c *gin.Context) {
		c.Set("userID", "patient-1")
		h.StreamUnreadCount(c)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/stream", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	// The poller fires immediately on start, so the first event arrives fast.
	reader := bufio.NewReader(resp.Body)
	var event, data string
	for event == "" || data == "" {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "event:") {
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		}
		if strings.HasPrefix(line, "data:") {
			data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		}
	}
	assert.Equal(t, "unread_count", event)
	assert.Equal(t, "7", data)

	// Disconnecting tears the stream down; the handler returns.
	cancel()
}

func TestNewNotificationHandler_DefaultsPollInterval(t *testing.T) {
	h := NewNotificationHandler(&badgeDispatcher{}, 0, zap.NewNop())
	assert.Equal(t, 30*time.Second, h.PollInterval)
}
