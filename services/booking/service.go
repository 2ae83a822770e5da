package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	bookingRepo "medibook/database/repository/booking"
	"medibook/models"
	"medibook/services/faults"
	"medibook/utils"

	"go.uber.org/zap"
)

// DefaultLifecycleService is the production implementation of LifecycleService.
type DefaultLifecycleService struct {
	Repo     bookingRepo.BookingRepository
	Refunder Refunder
	Events   EventSink
	Locks    *utils.KeyedMutex
	Logger   *zap.Logger
}

func NewLifecycleService(repo bookingRepo.BookingRepository, refunder Refunder, events EventSink, locks *utils.KeyedMutex, logger *zap.Logger) *DefaultLifecycleService {
	return &DefaultLifecycleService{
		Repo:     repo,
		Refunder: refunder,
		Events:   events,
		Locks:    locks,
		Logger:   logger,
	}
}

// GetByID fetches a booking.
func (s *DefaultLifecycleService) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	return s.Repo.GetByID(bookingID)
}

// Cancel transitions the booking to cancelled and, when requested and the
// payment is in paid state, attempts the refund the policy engine grants.
//
// The cancellation is committed independent of the refund outcome: a refund
// failure is reported in CancelResult.RefundError for manual reconciliation
// and never rolls the booking back.
func (s *DefaultLifecycleService) Cancel(ctx context.Context, bookingID, reason string, requestRefund bool) (*CancelResult, error) {
	unlock := s.Locks.Lock(bookingID)
	defer unlock()

	if strings.TrimSpace(reason) == "" {
		return nil, faults.NewValidationError("reason", "cancellation reason is required")
	}

	b, err := s.Repo.GetByID(bookingID)
	if err != nil {
		return nil, fmt.Errorf("cancel: %w", err)
	}
	if b.Status != models.BookingPending && b.Status != models.BookingApproved {
		return nil, NewInvalidStateError(bookingID, string(b.Status), "cancel")
	}

	if err := s.Repo.UpdateStatus(bookingID, models.BookingCancelled, reason); err != nil {
		return nil, fmt.Errorf("cancel: failed to persist status: %w", err)
	}
	b.Status = models.BookingCancelled
	b.CancellationReason = reason

	s.publish(ctx, b, models.EventBookingCancelled, map[string]string{"reason": reason})

	result := &CancelResult{Booking: b}
	if !requestRefund || b.Payment == nil || b.Payment.Status != models.PaymentPaid {
		return result, nil
	}

	decision := DecideRefund(b.ScheduledAt, time.Now(), b.Payment.Amount, b.Payment.Status)
	result.Refund = &decision
	if decision.RefundAmount <= 0 {
		return result, nil
	}

	if err := s.processRefund(ctx, b, decision, reason); err != nil {
		info := faults.Classify(err)
		result.RefundError = &info
		s.Logger.Error("refund failed after cancellation; flagged for reconciliation",
			zap.String("bookingId", bookingID),
			zap.Float64("refundAmount", decision.RefundAmount),
			zap.Error(err))
		s.publish(ctx, b, models.EventRefundFailed, map[string]string{
			"refund_amount": fmt.Sprintf("%.2f", decision.RefundAmount),
			"error":         info.UserMessage,
		})
	}
	return result, nil
}

// processRefund runs the refund transaction and records the refunded payment.
func (s *DefaultLifecycleService) processRefund(ctx context.Context, b *models.Booking, decision models.RefundDecision, reason string) error {
	req := models.RefundRequest{
		TransactionID: b.Payment.TransactionID,
		RefundAmount:  decision.RefundAmount,
		Reason:        reason,
	}
	if err := s.Refunder.ProcessRefund(ctx, req); err != nil {
		return err
	}

	b.Payment.Status = models.PaymentRefunded
	b.Payment.UpdatedAt = time.Now()
	if err := s.Repo.UpdatePayment(b.ID, b.Payment); err != nil {
		// The gateway already refunded; only the local record is stale.
		s.Logger.Error("refund succeeded but payment record update failed",
			zap.String("bookingId", b.ID), zap.Error(err))
	}
	s.publish(ctx, b, models.EventRefundProcessed, map[string]string{
		"refund_amount": fmt.Sprintf("%.2f", decision.RefundAmount),
	})
	return nil
}

// Approve moves a pending booking to approved.
func (s *DefaultLifecycleService) Approve(ctx context.Context, bookingID string) (*models.Booking, error) {
	return s.transition(ctx, bookingID, models.BookingPending, models.BookingApproved, models.EventBookingApproved, "approve")
}

// Decline moves a pending booking to declined (terminal).
func (s *DefaultLifecycleService) Decline(ctx context.Context, bookingID string) (*models.Booking, error) {
	return s.transition(ctx, bookingID, models.BookingPending, models.BookingDeclined, models.EventBookingDeclined, "decline")
}

// Complete moves an approved booking to completed (terminal).
func (s *DefaultLifecycleService) Complete(ctx context.Context, bookingID string) (*models.Booking, error) {
	return s.transition(ctx, bookingID, models.BookingApproved, models.BookingCompleted, models.EventBookingCompleted, "complete")
}

func (s *DefaultLifecycleService) transition(ctx context.Context, bookingID string, from, to models.BookingStatus, event models.EventType, verb string) (*models.Booking, error) {
	unlock := s.Locks.Lock(bookingID)
	defer unlock()

	b, err := s.Repo.GetByID(bookingID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", verb, err)
	}
	if b.Status != from {
		return nil, NewInvalidStateError(bookingID, string(b.Status), verb)
	}

	if err := s.Repo.UpdateStatus(bookingID, to, ""); err != nil {
		return nil, fmt.Errorf("%s: failed to persist status: %w", verb, err)
	}
	b.Status = to

	s.publish(ctx, b, event, nil)
	return b, nil
}

func (s *DefaultLifecycleService) publish(ctx context.Context, b *models.Booking, event models.EventType, data map[string]string) {
	if s.Events == nil {
		return
	}
	if data == nil {
		data = map[string]string{}
	}
	data["resource_name"] = b.ResourceName
	s.Events.Publish(ctx, models.BookingEvent{
		Type:       event,
		BookingID:  b.ID,
		UserID:     b.PatientID,
		Data:       data,
		OccurredAt: time.Now(),
	})
}
