package notification

import (
	"context"
	"fmt"
	"time"

	notificationRepo "medibook/database/repository/notification"
	"medibook/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultDispatcherService is the production implementation of DispatcherService.
type DefaultDispatcherService struct {
	Repo     notificationRepo.NotificationRepository
	PrefRepo notificationRepo.PreferenceRepository
	Senders  map[models.NotificationChannel]ChannelSender
	Queue    DeliveryQueue
	Logger   *zap.Logger
}

func NewDispatcherService(
	repo notificationRepo.NotificationRepository,
	prefRepo notificationRepo.PreferenceRepository,
	senders map[models.NotificationChannel]ChannelSender,
	queue DeliveryQueue,
	logger *zap.Logger,
) *DefaultDispatcherService {
	return &DefaultDispatcherService{
		Repo:     repo,
		PrefRepo: prefRepo,
		Senders:  senders,
		Queue:    queue,
		Logger:   logger,
	}
}

// Publish looks up the user's preference matrix and fans the event out.
// Emitters call it synchronously, so events for one booking arrive in the
// order they were emitted.
func (s *DefaultDispatcherService) Publish(ctx context.Context, event models.BookingEvent) {
	prefs, err := s.PrefRepo.Get(event.UserID)
	if err != nil {
		s.Logger.Error("failed to load preferences, dropping event",
			zap.String("bookingId", event.BookingID),
			zap.String("eventType", string(event.Type)),
			zap.Error(err))
		return
	}
	s.Dispatch(ctx, event, prefs)
}

// Dispatch creates one queued notification per effectively enabled channel
// and hands each to the delivery queue (or delivers inline when no queue is
// wired). Failed deliveries stay visible as failed; they are not auto-retried.
func (s *DefaultDispatcherService) Dispatch(ctx context.Context, event models.BookingEvent, prefs *models.NotificationPreference) []models.Notification {
	var created []models.Notification
	for _, ch := range models.AllChannels {
		if !prefs.EffectiveEnabled(event.Type, ch) {
			continue
		}

		n := &models.Notification{
			ID:        uuid.New().String(),
			UserID:    event.UserID,
			BookingID: event.BookingID,
			Type:      event.Type,
			Channel:   ch,
			Status:    models.DeliveryQueued,
			Priority:  priorityFor(event.Type),
			Title:     titleFor(event.Type),
			Body:      bodyFor(event),
			Data:      event.Data,
			CreatedAt: time.Now(),
		}
		if err := s.Repo.Insert(n); err != nil {
			s.Logger.Error("failed to persist notification",
				zap.String("bookingId", event.BookingID),
				zap.String("channel", string(ch)),
				zap.Error(err))
			continue
		}

		if s.Queue != nil {
			if err := s.Queue.EnqueueDelivery(ctx, n.ID); err != nil {
				s.Logger.Error("failed to enqueue delivery, delivering inline",
					zap.String("notificationId", n.ID), zap.Error(err))
				s.deliver(ctx, n)
			}
		} else {
			s.deliver(ctx, n)
		}
		created = append(created, *n)
	}
	return created
}

// Deliver runs the delivery attempt for a queued notification by ID (used by
// the background worker).
func (s *DefaultDispatcherService) Deliver(ctx context.Context, notificationID string) error {
	n, err := s.Repo.GetByID(notificationID)
	if err != nil {
		return err
	}
	if n.Status != models.DeliveryQueued {
		return nil // already attempted
	}
	s.deliver(ctx, n)
	if n.Status == models.DeliveryFailed {
		return fmt.Errorf("delivery failed for notification %s: %s", n.ID, n.LastError)
	}
	return nil
}

// deliver transitions queued → processing → delivered or failed.
func (s *DefaultDispatcherService) deliver(ctx context.Context, n *models.Notification) {
	sender, ok := s.Senders[n.Channel]
	if !ok {
		s.markFailed(n, fmt.Sprintf("no sender configured for channel %s", n.Channel))
		return
	}

	n.Status = models.DeliveryProcessing
	if err := s.Repo.UpdateDeliveryStatus(n.ID, models.DeliveryProcessing, ""); err != nil {
		s.Logger.Error("failed to mark notification processing",
			zap.String("notificationId", n.ID), zap.Error(err))
	}

	if err := sender.Send(ctx, n); err != nil {
		s.markFailed(n, err.Error())
		return
	}

	n.Status = models.DeliveryDelivered
	now := time.Now()
	n.DeliveredAt = &now
	if err := s.Repo.UpdateDeliveryStatus(n.ID, models.DeliveryDelivered, ""); err != nil {
		s.Logger.Error("failed to mark notification delivered",
			zap.String("notificationId", n.ID), zap.Error(err))
	}
}

func (s *DefaultDispatcherService) markFailed(n *models.Notification, reason string) {
	n.Status = models.DeliveryFailed
	n.LastError = reason
	if err := s.Repo.UpdateDeliveryStatus(n.ID, models.DeliveryFailed, reason); err != nil {
		s.Logger.Error("failed to mark notification failed",
			zap.String("notificationId", n.ID), zap.Error(err))
	}
	s.Logger.Warn("notification delivery failed",
		zap.String("notificationId", n.ID),
		zap.String("channel", string(n.Channel)),
		zap.String("reason", reason))
}

// --- Reader side ---

func (s *DefaultDispatcherService) GetUserNotifications(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, error) {
	return s.Repo.List(filter)
}

// GetHistory returns the full notification history matching the filter.
func (s *DefaultDispatcherService) GetHistory(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, error) {
	filter.UnreadOnly = false
	return s.Repo.List(filter)
}

func (s *DefaultDispatcherService) GetUnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.Repo.CountUnread(userID)
}

// MarkAsRead is idempotent: marking an already-read notification is a no-op.
func (s *DefaultDispatcherService) MarkAsRead(ctx context.Context, userID, notificationID string) error {
	return s.Repo.MarkAsRead(userID, notificationID)
}

// MarkAllAsRead is idempotent.
func (s *DefaultDispatcherService) MarkAllAsRead(ctx context.Context, userID string) error {
	return s.Repo.MarkAllAsRead(userID)
}

// --- Message composition ---

func priorityFor(event models.EventType) string {
	switch event {
	case models.EventPaymentFailed, models.EventRefundFailed, models.EventBookingDeclined:
		return "high"
	default:
		return "normal"
	}
}

func titleFor(event models.EventType) string {
	switch event {
	case models.EventBookingApproved:
		return "Booking approved"
	case models.EventBookingDeclined:
		return "Booking declined"
	case models.EventBookingCompleted:
		return "Booking completed"
	case models.EventBookingCancelled:
		return "Booking cancelled"
	case models.EventPaymentConfirmed:
		return "Payment confirmed"
	case models.EventPaymentFailed:
		return "Payment failed"
	case models.EventRefundProcessed:
		return "Refund on its way"
	case models.EventRefundFailed:
		return "Refund needs attention"
	default:
		return "Booking update"
	}
}

func bodyFor(event models.BookingEvent) string {
	resource := event.Data["resource_name"]
	if resource == "" {
		resource = "your booking"
	}
	switch event.Type {
	case models.EventBookingApproved:
		return fmt.Sprintf("Your booking for %s has been approved.", resource)
	case models.EventBookingDeclined:
		return fmt.Sprintf("Your booking for %s was declined. Please pick another slot.", resource)
	case models.EventBookingCompleted:
		return fmt.Sprintf("Your booking for %s is complete. Thank you!", resource)
	case models.EventBookingCancelled:
		return fmt.Sprintf("Your booking for %s has been cancelled.", resource)
	case models.EventPaymentConfirmed:
		return fmt.Sprintf("Your payment for %s went through.", resource)
	case models.EventPaymentFailed:
		return fmt.Sprintf("Your payment for %s did not go through. %s", resource, event.Data["error"])
	case models.EventRefundProcessed:
		return fmt.Sprintf("Your refund of %s for %s is being processed.", event.Data["refund_amount"], resource)
	case models.EventRefundFailed:
		return fmt.Sprintf("We could not process your refund for %s automatically. Our team will follow up.", resource)
	default:
		return fmt.Sprintf("There is an update on %s.", resource)
	}
}
