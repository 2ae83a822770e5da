package models

import "time"

// PaymentStatus enumerates the states of the transaction attached to a booking.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

// Payment is the transaction owned by exactly one booking.
type Payment struct {
	Status        PaymentStatus `bson:"status" json:"status"`
	Amount        float64       `bson:"amount" json:"amount"`
	Currency      string        `bson:"currency" json:"currency"`
	TransactionID string        `bson:"transaction_id,omitempty" json:"transaction_id,omitempty"`
	UpdatedAt     time.Time     `bson:"updated_at" json:"updated_at"`
}

// --- Payment request/response shapes ---

type PaymentRequest struct {
	BookingID   string            `json:"booking_id"`
	UserID      string            `json:"user_id"`
	Amount      float64           `json:"amount"`
	Currency    string            `json:"currency"`
	Method      string            `json:"method"` // "card" or "insurance"
	CardToken   string            `json:"card_token,omitempty"`
	Description string            `json:"description,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// PaymentValidation is the result of local validation before any gateway call.
type PaymentValidation struct {
	IsValid bool         `json:"is_valid"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError names the offending field so callers can block submission until fixed.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RefundRequest is handed to the gateway when a cancellation earns a refund.
type RefundRequest struct {
	TransactionID string  `json:"transaction_id"`
	RefundAmount  float64 `json:"refund_amount"`
	Reason        string  `json:"reason"`
}
