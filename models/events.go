package models

import "time"

// EventType names a lifecycle or payment event emitted toward the dispatcher.
type EventType string

const (
	EventBookingApproved  EventType = "booking_approved"
	EventBookingDeclined  EventType = "booking_declined"
	EventBookingCompleted EventType = "booking_completed"
	EventBookingCancelled EventType = "booking_cancelled"
	EventPaymentConfirmed EventType = "payment_confirmed"
	EventPaymentFailed    EventType = "payment_failed"
	EventRefundProcessed  EventType = "refund_processed"
	EventRefundFailed     EventType = "refund_failed"
)

// BookingEvent is what BookingLifecycle and PaymentOrchestrator hand to the
// NotificationDispatcher. Events for one booking are emitted in order.
type BookingEvent struct {
	Type       EventType         `json:"type"`
	BookingID  string            `json:"booking_id"`
	UserID     string            `json:"user_id"`
	Data       map[string]string `json:"data,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}
