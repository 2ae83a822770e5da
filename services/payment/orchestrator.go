package payment

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

// EventSink consumes payment events (the notification dispatcher in production).
type EventSink interface {
	Publish(ctx context.Context, event models.BookingEvent)
}

// DefaultOrchestratorService is the production implementation of OrchestratorService.
type DefaultOrchestratorService struct {
	Store       StateStore
	Gateway     Gateway
	BookingRepo bookingRepo.BookingRepository
	Events      EventSink
	Locks       *utils.KeyedMutex
	Logger      *zap.Logger

	now func() time.Time
}

func NewOrchestratorService(store StateStore, gateway Gateway, repo bookingRepo.BookingRepository, events EventSink, locks *utils.KeyedMutex, logger *zap.Logger) *DefaultOrchestratorService {
	return &DefaultOrchestratorService{
		Store:       store,
		Gateway:     gateway,
		BookingRepo: repo,
		Events:      events,
		Locks:       locks,
		Logger:      logger,
		now:         time.Now,
	}
}

// Begin opens the checkout flow at the summary stage. Reopening an existing
// flow returns its current state unchanged.
func (s *DefaultOrchestratorService) Begin(ctx context.Context, bookingID string) (*State, error) {
	unlock := s.Locks.Lock(bookingID)
	defer unlock()

	st, err := s.Store.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if st != nil {
		return st, nil
	}

	st = &State{BookingID: bookingID, Stage: StageSummary, UpdatedAt: s.now()}
	if err := s.Store.Put(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Proceed moves summary → payment.
func (s *DefaultOrchestratorService) Proceed(ctx context.Context, bookingID string) (*State, error) {
	return s.step(ctx, bookingID, StageSummary, StagePayment, "proceed")
}

// Back moves payment → summary. Confirmed and exhausted flows are not reversible.
func (s *DefaultOrchestratorService) Back(ctx context.Context, bookingID string) (*State, error) {
	return s.step(ctx, bookingID, StagePayment, StageSummary, "go back")
}

// CancelProcessing moves processing → payment, abandoning the in-flight attempt.
func (s *DefaultOrchestratorService) CancelProcessing(ctx context.Context, bookingID string) (*State, error) {
	return s.step(ctx, bookingID, StageProcessing, StagePayment, "cancel processing")
}

func (s *DefaultOrchestratorService) step(ctx context.Context, bookingID string, from, to Stage, op string) (*State, error) {
	unlock := s.Locks.Lock(bookingID)
	defer unlock()

	st, err := s.loadState(ctx, bookingID, op)
	if err != nil {
		return nil, err
	}
	if st.Stage != from {
		return nil, &StageError{BookingID: bookingID, Stage: st.Stage, Op: op}
	}

	st.Stage = to
	st.UpdatedAt = s.now()
	if err := s.Store.Put(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// DismissRetryCountdown clears the surfaced failure and returns the flow to
// the payment stage. The retry deadline itself is untouched: an early submit
// is still rejected until the countdown has elapsed.
func (s *DefaultOrchestratorService) DismissRetryCountdown(ctx context.Context, bookingID string) (*State, error) {
	unlock := s.Locks.Lock(bookingID)
	defer unlock()

	st, err := s.loadState(ctx, bookingID, "dismiss retry")
	if err != nil {
		return nil, err
	}
	if st.Stage != StageFailed {
		return nil, &StageError{BookingID: bookingID, Stage: st.Stage, Op: "dismiss retry"}
	}

	st.Stage = StagePayment
	st.UpdatedAt = s.now()
	if err := s.Store.Put(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Reset discards the attempt chain so the user can start over with a
// different payment method. Confirmed flows cannot be reset.
func (s *DefaultOrchestratorService) Reset(ctx context.Context, bookingID string) (*State, error) {
	unlock := s.Locks.Lock(bookingID)
	defer unlock()

	st, err := s.Store.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if st != nil && st.Stage == StageConfirmed {
		return nil, &StageError{BookingID: bookingID, Stage: st.Stage, Op: "reset"}
	}

	st = &State{BookingID: bookingID, Stage: StageSummary, UpdatedAt: s.now()}
	if err := s.Store.Put(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// State returns the current state of the flow.
func (s *DefaultOrchestratorService) State(ctx context.Context, bookingID string) (*State, error) {
	return s.loadState(ctx, bookingID, "read state")
}

func (s *DefaultOrchestratorService) loadState(ctx context.Context, bookingID, op string) (*State, error) {
	st, err := s.Store.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, fmt.Errorf("cannot %s: no payment flow open for booking %s", op, bookingID)
	}
	return st, nil
}

// Validate checks the payment request locally. Validation failures block
// submission and never reach the gateway.
func (s *DefaultOrchestratorService) Validate(req models.PaymentRequest) models.PaymentValidation {
	var errs []models.FieldError
	if req.BookingID == "" {
		errs = append(errs, models.FieldError{Field: "booking_id", Message: "booking id is required"})
	}
	if req.UserID == "" {
		errs = append(errs, models.FieldError{Field: "user_id", Message: "user id is required"})
	}
	if req.Amount <= 0 {
		errs = append(errs, models.FieldError{Field: "amount", Message: "amount must be positive"})
	}
	if req.Method != "card" && req.Method != "insurance" {
		errs = append(errs, models.FieldError{Field: "method", Message: "unsupported payment method"})
	}
	if req.Method == "card" && strings.TrimSpace(req.CardToken) == "" {
		errs = append(errs, models.FieldError{Field: "card_token", Message: "card token is required"})
	}
	return models.PaymentValidation{IsValid: len(errs) == 0, Errors: errs}
}

// Submit runs one payment attempt. It is accepted only from the payment
// stage with an elapsed countdown; a submit while another attempt is
// processing is rejected, not queued.
func (s *DefaultOrchestratorService) Submit(ctx context.Context, req models.PaymentRequest) (*SubmitResult, error) {
	unlock := s.Locks.Lock(req.BookingID)
	defer unlock()

	st, err := s.loadState(ctx, req.BookingID, "submit")
	if err != nil {
		return nil, err
	}

	switch st.Stage {
	case StagePayment, StageFailed:
		// submit allowed, countdown permitting
	case StageProcessing:
		return nil, &StageError{BookingID: req.BookingID, Stage: st.Stage, Op: "submit"}
	case StageFailedExhausted:
		return nil, &RetriesExhaustedError{BookingID: req.BookingID}
	default:
		return nil, &StageError{BookingID: req.BookingID, Stage: st.Stage, Op: "submit"}
	}
	if remaining := st.NextRetryIn(s.now()); remaining > 0 {
		return nil, &RetryNotReadyError{BookingID: req.BookingID, Remaining: remaining}
	}

	if validation := s.Validate(req); !validation.IsValid {
		fieldErr := validation.Errors[0]
		info := faults.Classify(faults.NewValidationError(fieldErr.Field, fieldErr.Message))
		return &SubmitResult{State: st, Error: &info, Suggestions: faults.RetrySuggestions(info)}, nil
	}

	st.Stage = StageProcessing
	st.UpdatedAt = s.now()
	if err := s.Store.Put(ctx, st); err != nil {
		return nil, err
	}

	transactionID, chargeErr := s.Gateway.Charge(ctx, req)
	if chargeErr != nil {
		return s.recordFailure(ctx, st, req, chargeErr)
	}
	return s.recordSuccess(ctx, st, req, transactionID)
}

func (s *DefaultOrchestratorService) recordSuccess(ctx context.Context, st *State, req models.PaymentRequest, transactionID string) (*SubmitResult, error) {
	st.Stage = StageConfirmed
	st.TransactionID = transactionID
	st.LastError = nil
	st.Suggestions = nil
	st.NextRetryAt = time.Time{}
	st.CanRetry = false
	st.UpdatedAt = s.now()
	if err := s.Store.Put(ctx, st); err != nil {
		return nil, err
	}

	pay := &models.Payment{
		Status:        models.PaymentPaid,
		Amount:        req.Amount,
		Currency:      req.Currency,
		TransactionID: transactionID,
		UpdatedAt:     s.now(),
	}
	if err := s.BookingRepo.UpdatePayment(req.BookingID, pay); err != nil {
		s.Logger.Error("payment confirmed but booking record update failed",
			zap.String("bookingId", req.BookingID), zap.Error(err))
	}

	s.publish(ctx, req, models.EventPaymentConfirmed, map[string]string{
		"amount":         fmt.Sprintf("%.2f", req.Amount),
		"transaction_id": transactionID,
	})
	s.Logger.Info("payment confirmed",
		zap.String("bookingId", req.BookingID),
		zap.String("transactionId", transactionID))

	return &SubmitResult{State: st, Confirmed: true}, nil
}

func (s *DefaultOrchestratorService) recordFailure(ctx context.Context, st *State, req models.PaymentRequest, chargeErr error) (*SubmitResult, error) {
	info := faults.Classify(chargeErr)
	st.RetryCount++
	st.LastError = &info
	st.Suggestions = faults.RetrySuggestions(info)
	st.UpdatedAt = s.now()

	if faults.ShouldAutoRetry(info) && st.RetryCount < maxRetries {
		st.Stage = StageFailed
		st.CanRetry = true
		st.NextRetryAt = s.now().Add(retryBackoff(st.RetryCount))
	} else {
		st.Stage = StageFailedExhausted
		st.CanRetry = false
		st.NextRetryAt = time.Time{}
	}
	if err := s.Store.Put(ctx, st); err != nil {
		return nil, err
	}

	s.publish(ctx, req, models.EventPaymentFailed, map[string]string{
		"error": info.UserMessage,
	})
	s.Logger.Warn("payment attempt failed",
		zap.String("bookingId", req.BookingID),
		zap.Int("retryCount", st.RetryCount),
		zap.String("errorType", string(info.Type)),
		zap.Bool("canRetry", st.CanRetry))

	return &SubmitResult{State: st, Error: &info, Suggestions: st.Suggestions}, nil
}

func (s *DefaultOrchestratorService) publish(ctx context.Context, req models.PaymentRequest, event models.EventType, data map[string]string) {
	if s.Events == nil {
		return
	}
	s.Events.Publish(ctx, models.BookingEvent{
		Type:       event,
		BookingID:  req.BookingID,
		UserID:     req.UserID,
		Data:       data,
		OccurredAt: s.now(),
	})
}
