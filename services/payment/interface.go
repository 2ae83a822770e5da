package payment

import (
	"context"

	"medibook/models"
)

// OrchestratorService drives the summary → payment → processing →
// {confirmed, failed} flow for one booking at a time.
type OrchestratorService interface {
	Begin(ctx context.Context, bookingID string) (*State, error)
	Proceed(ctx context.Context, bookingID string) (*State, error)
	Back(ctx context.Context, bookingID string) (*State, error)
	Submit(ctx context.Context, req models.PaymentRequest) (*SubmitResult, error)
	CancelProcessing(ctx context.Context, bookingID string) (*State, error)
	DismissRetryCountdown(ctx context.Context, bookingID string) (*State, error)
	Reset(ctx context.Context, bookingID string) (*State, error)
	State(ctx context.Context, bookingID string) (*State, error)
	Validate(req models.PaymentRequest) models.PaymentValidation
}

// Gateway is the external payment service.
type Gateway interface {
	Charge(ctx context.Context, req models.PaymentRequest) (transactionID string, err error)
	ProcessRefund(ctx context.Context, req models.RefundRequest) error
}

// StateStore persists the per-booking state machine between operations.
type StateStore interface {
	Get(ctx context.Context, bookingID string) (*State, error)
	Put(ctx context.Context, state *State) error
	Delete(ctx context.Context, bookingID string) error
}

// SubmitResult is the orchestrator's public outcome of one submit: the new
// state plus, on failure, the classified error and its remediation steps.
type SubmitResult struct {
	State       *State            `json:"state"`
	Confirmed   bool              `json:"confirmed"`
	Error       *models.ErrorInfo `json:"error,omitempty"`
	Suggestions []string          `json:"suggestions,omitempty"`
}
