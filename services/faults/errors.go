package faults

import "fmt"

// GatewayError is returned by the payment gateway adapter when a charge or
// refund is rejected. Permanent means the same request can never succeed
// (e.g., card declined permanently).
type GatewayError struct {
	Code      string
	Message   string
	Permanent bool
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewGatewayError(code, msg string, permanent bool) error {
	return &GatewayError{Code: code, Message: msg, Permanent: permanent}
}

// ValidationError marks malformed or missing input. It never leaves the
// operation that detected it.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// ConflictError marks a capacity or availability conflict; the user has to
// change the request (e.g., pick another slot).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func NewConflictError(msg string) error {
	return &ConflictError{Message: msg}
}

// HTTPStatusError carries the status of a failed upstream call.
type HTTPStatusError struct {
	Status  int
	Message string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.Status, e.Message)
}
