package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"medibook/models"
	"medibook/services/faults"
	"medibook/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- Mock BookingRepository ---

type mockBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking

	updateStatusErr error
}

func newMockBookingRepo(bookings ...*models.Booking) *mockBookingRepo {
	m := &mockBookingRepo{bookings: make(map[string]*models.Booking)}
	for _, b := range bookings {
		m.bookings[b.ID] = b
	}
	return m
}

func (m *mockBookingRepo) Create(b *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[b.ID] = b
	return nil
}

func (m *mockBookingRepo) GetByID(id string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, errors.New("booking not found")
	}
	copied := *b
	return &copied, nil
}

func (m *mockBookingRepo) Update(b *models.Booking) error {
	return m.Create(b)
}

func (m *mockBookingRepo) UpdateStatus(id string, status models.BookingStatus, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateStatusErr != nil {
		return m.updateStatusErr
	}
	b, ok := m.bookings[id]
	if !ok {
		return errors.New("booking not found")
	}
	b.Status = status
	if reason != "" {
		b.CancellationReason = reason
	}
	return nil
}

func (m *mockBookingRepo) UpdatePayment(id string, payment *models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return errors.New("booking not found")
	}
	b.Payment = payment
	return nil
}

func (m *mockBookingRepo) ListByPatient(patientID string) ([]models.Booking, error) {
	return nil, nil
}

// --- Mock Refunder ---

type mockRefunder struct {
	err      error
	requests []models.RefundRequest
}

func (m *mockRefunder) ProcessRefund(ctx context.Context, req models.RefundRequest) error {
	m.requests = append(m.requests, req)
	return m.err
}

// --- Recording EventSink ---

type recordingSink struct {
	events []models.BookingEvent
}

func (r *recordingSink) Publish(ctx context.Context, event models.BookingEvent) {
	r.events = append(r.events, event)
}

func (r *recordingSink) types() []models.EventType {
	var out []models.EventType
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

// --- Helpers ---

func paidBooking(id string, hoursOut time.Duration) *models.Booking {
	return &models.Booking{
		ID:           id,
		PatientID:    "patient-1",
		ResourceID:   "mri-2",
		ResourceName: "MRI Scanner",
		ScheduledAt:  time.Now().Add(hoursOut),
		Status:       models.BookingApproved,
		Payment: &models.Payment{
			Status:        models.PaymentPaid,
			Amount:        1000,
			Currency:      "usd",
			TransactionID: "pi_123",
		},
	}
}

func newService(repo *mockBookingRepo, refunder *mockRefunder, sink *recordingSink) *DefaultLifecycleService {
	return NewLifecycleService(repo, refunder, sink, utils.NewKeyedMutex(), zap.NewNop())
}

// --- Cancel ---

// Scheduled 30h out, paid 1000: cancellation commits and the 80% tier refunds 800.
func TestCancel_RefundHighTier(t *testing.T) {
	repo := newMockBookingRepo(paidBooking("b1", 30*time.Hour))
	refunder := &mockRefunder{}
	sink := &recordingSink{}
	svc := newService(repo, refunder, sink)

	result, err := svc.Cancel(context.Background(), "b1", "feeling better", true)

	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, result.Booking.Status)
	require.NotNil(t, result.Refund)
	assert.Equal(t, 80, result.Refund.Tier)
	assert.InDelta(t, 800.0, result.Refund.RefundAmount, 0.001)
	assert.Nil(t, result.RefundError)

	require.Len(t, refunder.requests, 1)
	assert.Equal(t, "pi_123", refunder.requests[0].TransactionID)
	assert.InDelta(t, 800.0, refunder.requests[0].RefundAmount, 0.001)

	stored, _ := repo.GetByID("b1")
	assert.Equal(t, models.PaymentRefunded, stored.Payment.Status)
	assert.Equal(t, []models.EventType{models.EventBookingCancelled, models.EventRefundProcessed}, sink.types())
}

// Scheduled 10h out: cancellation commits, tier is 0 and no refund transaction runs.
func TestCancel_NoRefundInsideWindow(t *testing.T) {
	repo := newMockBookingRepo(paidBooking("b1", 10*time.Hour))
	refunder := &mockRefunder{}
	sink := &recordingSink{}
	svc := newService(repo, refunder, sink)

	result, err := svc.Cancel(context.Background(), "b1", "schedule conflict", true)

	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, result.Booking.Status)
	require.NotNil(t, result.Refund)
	assert.Zero(t, result.Refund.RefundAmount)
	assert.Empty(t, refunder.requests)
	assert.Equal(t, []models.EventType{models.EventBookingCancelled}, sink.types())
}

// A refund failure never rolls the cancellation back: the booking stays
// cancelled and the failure is surfaced separately for reconciliation.
func TestCancel_RefundFailureDoesNotRollBack(t *testing.T) {
	repo := newMockBookingRepo(paidBooking("b1", 30*time.Hour))
	refunder := &mockRefunder{err: faults.NewGatewayError("gateway_down", "refund rejected", false)}
	sink := &recordingSink{}
	svc := newService(repo, refunder, sink)

	result, err := svc.Cancel(context.Background(), "b1", "no longer needed", true)

	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, result.Booking.Status)
	require.NotNil(t, result.RefundError)
	assert.Equal(t, models.ErrorPayment, result.RefundError.Type)

	stored, _ := repo.GetByID("b1")
	assert.Equal(t, models.BookingCancelled, stored.Status)
	assert.Equal(t, models.PaymentPaid, stored.Payment.Status)
	assert.Equal(t, []models.EventType{models.EventBookingCancelled, models.EventRefundFailed}, sink.types())
}

func TestCancel_WithoutRefundRequest(t *testing.T) {
	repo := newMockBookingRepo(paidBooking("b1", 30*time.Hour))
	refunder := &mockRefunder{}
	svc := newService(repo, refunder, &recordingSink{})

	result, err := svc.Cancel(context.Background(), "b1", "changed plans", false)

	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, result.Booking.Status)
	assert.Nil(t, result.Refund)
	assert.Empty(t, refunder.requests)
}

func TestCancel_EmptyReasonRejected(t *testing.T) {
	repo := newMockBookingRepo(paidBooking("b1", 30*time.Hour))
	svc := newService(repo, &mockRefunder{}, &recordingSink{})

	_, err := svc.Cancel(context.Background(), "b1", "   ", true)

	var validationErr *faults.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "reason", validationErr.Field)

	stored, _ := repo.GetByID("b1")
	assert.Equal(t, models.BookingApproved, stored.Status)
}

func TestCancel_TerminalStatesRejected(t *testing.T) {
	for _, status := range []models.BookingStatus{
		models.BookingDeclined, models.BookingCompleted, models.BookingCancelled,
	} {
		b := paidBooking("b1", 30*time.Hour)
		b.Status = status
		svc := newService(newMockBookingRepo(b), &mockRefunder{}, &recordingSink{})

		_, err := svc.Cancel(context.Background(), "b1", "too late", true)

		var stateErr *InvalidStateError
		assert.ErrorAs(t, err, &stateErr, "status %s", status)
	}
}

// --- Operator transitions ---

func TestApproveDeclineComplete(t *testing.T) {
	b := paidBooking("b1", 48*time.Hour)
	b.Status = models.BookingPending
	repo := newMockBookingRepo(b)
	sink := &recordingSink{}
	svc := newService(repo, &mockRefunder{}, sink)

	approved, err := svc.Approve(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingApproved, approved.Status)

	// approve again is an invalid transition
	_, err = svc.Approve(context.Background(), "b1")
	var stateErr *InvalidStateError
	assert.ErrorAs(t, err, &stateErr)

	completed, err := svc.Complete(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, completed.Status)

	assert.Equal(t, []models.EventType{models.EventBookingApproved, models.EventBookingCompleted}, sink.types())
}

func TestDecline_OnlyFromPending(t *testing.T) {
	b := paidBooking("b1", 48*time.Hour)
	b.Status = models.BookingPending
	svc := newService(newMockBookingRepo(b), &mockRefunder{}, &recordingSink{})

	declined, err := svc.Decline(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingDeclined, declined.Status)

	_, err = svc.Complete(context.Background(), "b1")
	var stateErr *InvalidStateError
	assert.ErrorAs(t, err, &stateErr)
}
