package booking

import (
	"context"

	"medibook/models"
)

// LifecycleService owns booking status transitions and emits lifecycle events.
type LifecycleService interface {
	Cancel(ctx context.Context, bookingID, reason string, requestRefund bool) (*CancelResult, error)
	Approve(ctx context.Context, bookingID string) (*models.Booking, error)
	Decline(ctx context.Context, bookingID string) (*models.Booking, error)
	Complete(ctx context.Context, bookingID string) (*models.Booking, error)
	GetByID(ctx context.Context, bookingID string) (*models.Booking, error)
}

// Refunder executes the refund transaction against the payment gateway.
type Refunder interface {
	ProcessRefund(ctx context.Context, req models.RefundRequest) error
}

// EventSink consumes lifecycle and payment events (the notification
// dispatcher in production).
type EventSink interface {
	Publish(ctx context.Context, event models.BookingEvent)
}

// CancelResult reports the committed cancellation plus the independent refund
// outcome. RefundError being set never means the cancellation failed.
type CancelResult struct {
	Booking     *models.Booking        `json:"booking"`
	Refund      *models.RefundDecision `json:"refund,omitempty"`
	RefundError *models.ErrorInfo      `json:"refund_error,omitempty"`
}
