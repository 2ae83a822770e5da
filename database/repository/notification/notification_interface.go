package notificationRepo

import "medibook/models"

// NotificationRepository defines the interface for notification data access.
type NotificationRepository interface {
	Insert(n *models.Notification) error
	GetByID(id string) (*models.Notification, error)
	UpdateDeliveryStatus(id string, status models.DeliveryStatus, lastError string) error
	List(filter models.NotificationFilter) ([]models.Notification, error)
	CountUnread(userID string) (int64, error)
	MarkAsRead(userID, id string) error
	MarkAllAsRead(userID string) error
}

// PreferenceRepository defines the interface for the per-user preference matrix.
type PreferenceRepository interface {
	Get(userID string) (*models.NotificationPreference, error)
	Save(pref *models.NotificationPreference) error
}
