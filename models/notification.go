package models

import "time"

// NotificationChannel is a delivery channel for user notifications.
type NotificationChannel string

const (
	ChannelEmail NotificationChannel = "email"
	ChannelSMS   NotificationChannel = "sms"
	ChannelPush  NotificationChannel = "push"
)

// AllChannels lists every channel the dispatcher fans out to, in a fixed order.
var AllChannels = []NotificationChannel{ChannelEmail, ChannelSMS, ChannelPush}

// DeliveryStatus tracks a single send attempt. Distinct from the read/unread flag.
type DeliveryStatus string

const (
	DeliveryQueued     DeliveryStatus = "queued"
	DeliveryProcessing DeliveryStatus = "processing"
	DeliveryDelivered  DeliveryStatus = "delivered"
	DeliveryFailed     DeliveryStatus = "failed"
)

// Notification is one fan-out target created from a booking or payment event.
type Notification struct {
	ID          string              `bson:"id" json:"id"`
	UserID      string              `bson:"user_id" json:"user_id"`
	BookingID   string              `bson:"booking_id" json:"booking_id"`
	Type        EventType           `bson:"type" json:"type"`
	Channel     NotificationChannel `bson:"channel" json:"channel"`
	Status      DeliveryStatus      `bson:"status" json:"status"`
	Priority    string              `bson:"priority" json:"priority"` // "normal" or "high"
	Title       string              `bson:"title" json:"title"`
	Body        string              `bson:"body" json:"body"`
	Data        map[string]string   `bson:"data,omitempty" json:"data,omitempty"`
	Read        bool                `bson:"read" json:"read"`
	LastError   string              `bson:"last_error,omitempty" json:"last_error,omitempty"`
	CreatedAt   time.Time           `bson:"created_at" json:"created_at"`
	DeliveredAt *time.Time          `bson:"delivered_at,omitempty" json:"delivered_at,omitempty"`
}

// NotificationFilter narrows history and listing queries.
type NotificationFilter struct {
	UserID     string    `json:"user_id"`
	Type       EventType `json:"type,omitempty"`
	UnreadOnly bool      `json:"unread_only,omitempty"`
	Limit      int64     `json:"limit,omitempty"`
}
