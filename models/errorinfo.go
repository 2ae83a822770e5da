package models

// ErrorType buckets a failure for remediation purposes.
type ErrorType string

const (
	ErrorValidation ErrorType = "validation"
	ErrorNetwork    ErrorType = "network"
	ErrorServer     ErrorType = "server"
	ErrorResource   ErrorType = "resource"
	ErrorPayment    ErrorType = "payment"
	ErrorUnknown    ErrorType = "unknown"
)

// ErrorSeverity ranks how bad a classified failure is.
type ErrorSeverity string

const (
	SeverityLow      ErrorSeverity = "low"
	SeverityMedium   ErrorSeverity = "medium"
	SeverityHigh     ErrorSeverity = "high"
	SeverityCritical ErrorSeverity = "critical"
)

// ErrorInfo is the classified form of a raw failure. Ephemeral, created per failure.
type ErrorInfo struct {
	Type        ErrorType     `json:"type"`
	Severity    ErrorSeverity `json:"severity"`
	Message     string        `json:"message"`      // internal detail, for logs
	UserMessage string        `json:"user_message"` // safe to show to the user
	Field       string        `json:"field,omitempty"`
	Retryable   bool          `json:"retryable"`
}
