package notification

import (
	"context"

	"medibook/models"
)

// DispatcherService consumes lifecycle/payment events, fans them out to the
// channels a user's preference matrix allows, and tracks each notification's
// delivery status. It also serves the unread badge and the preference matrix.
type DispatcherService interface {
	// Publish is the event sink fed by BookingLifecycle and PaymentOrchestrator.
	Publish(ctx context.Context, event models.BookingEvent)

	// Dispatch fans one event out through the given preference matrix and
	// returns the notifications it created.
	Dispatch(ctx context.Context, event models.BookingEvent, prefs *models.NotificationPreference) []models.Notification

	// Deliver runs the delivery attempt for one queued notification.
	Deliver(ctx context.Context, notificationID string) error

	GetUserNotifications(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, error)
	GetHistory(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, error)
	GetUnreadCount(ctx context.Context, userID string) (int64, error)
	MarkAsRead(ctx context.Context, userID, notificationID string) error
	MarkAllAsRead(ctx context.Context, userID string) error

	GetPreferences(ctx context.Context, userID string) (*models.NotificationPreference, error)
	SavePreferences(ctx context.Context, pref *models.NotificationPreference) error
	ToggleGlobalChannel(ctx context.Context, userID string, ch models.NotificationChannel, enabled bool) (*models.NotificationPreference, error)
	ToggleEventChannel(ctx context.Context, userID string, event models.EventType, ch models.NotificationChannel, enabled bool) (*models.NotificationPreference, error)
}

// ChannelSender delivers one notification over one channel.
type ChannelSender interface {
	Send(ctx context.Context, n *models.Notification) error
}

// DeliveryQueue hands queued notifications to the background worker. When no
// queue is wired the dispatcher delivers inline.
type DeliveryQueue interface {
	EnqueueDelivery(ctx context.Context, notificationID string) error
}
