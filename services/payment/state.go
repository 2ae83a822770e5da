package payment

import (
	"math"
	"time"

	"medibook/models"
)

// Stage is the position of a payment attempt in the checkout flow.
type Stage string

const (
	StageSummary         Stage = "summary"
	StagePayment         Stage = "payment"
	StageProcessing      Stage = "processing"
	StageConfirmed       Stage = "confirmed"
	StageFailed          Stage = "failed"
	StageFailedExhausted Stage = "failed_exhausted"
)

const maxRetries = 3

// retryBackoff returns the countdown before attempt n+1 is accepted: 5s, 10s, 20s.
func retryBackoff(retryCount int) time.Duration {
	return time.Duration(5*math.Pow(2, float64(retryCount-1))) * time.Second
}

// State is the explicit per-booking payment state machine. It is only
// mutated through the orchestrator's named operations and persisted between
// them.
type State struct {
	BookingID     string            `json:"booking_id"`
	Stage         Stage             `json:"stage"`
	RetryCount    int               `json:"retry_count"`
	NextRetryAt   time.Time         `json:"next_retry_at,omitempty"` // zero when no countdown is pending
	CanRetry      bool              `json:"can_retry"`
	LastError     *models.ErrorInfo `json:"last_error,omitempty"`
	Suggestions   []string          `json:"suggestions,omitempty"`
	TransactionID string            `json:"transaction_id,omitempty"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// NextRetryIn reports the whole seconds left on the retry countdown, zero
// when a submit would be accepted now.
func (st *State) NextRetryIn(now time.Time) int {
	if st.NextRetryAt.IsZero() || !now.Before(st.NextRetryAt) {
		return 0
	}
	return int(math.Ceil(st.NextRetryAt.Sub(now).Seconds()))
}
