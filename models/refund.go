package models

// RefundDecision is the outcome of the refund policy for one cancellation request.
// It is derived fresh each time and never persisted on its own.
type RefundDecision struct {
	Tier         int     `json:"tier"` // refund percentage bracket: 0, 50 or 80
	RefundAmount float64 `json:"refund_amount"`
	Eligible     bool    `json:"eligible"`
}
