package faults

import (
	"context"
	"errors"
	"net"

	"medibook/models"
)

// Classify turns a raw failure into a typed, severity-ranked ErrorInfo.
// Rules are checked in priority order: payment, validation, network, server,
// resource, then unknown.
func Classify(err error) models.ErrorInfo {
	if err == nil {
		return models.ErrorInfo{Type: models.ErrorUnknown, Severity: models.SeverityLow}
	}

	var gatewayErr *GatewayError
	if errors.As(err, &gatewayErr) {
		severity := models.SeverityHigh
		retryable := true
		userMsg := "Your payment could not be processed. Please try again."
		if gatewayErr.Permanent {
			severity = models.SeverityCritical
			retryable = false
			userMsg = "Your payment was declined. Please use a different payment method."
		}
		return models.ErrorInfo{
			Type:        models.ErrorPayment,
			Severity:    severity,
			Message:     gatewayErr.Error(),
			UserMessage: userMsg,
			Retryable:   retryable,
		}
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return models.ErrorInfo{
			Type:        models.ErrorValidation,
			Severity:    models.SeverityMedium,
			Message:     validationErr.Error(),
			UserMessage: "Please correct the highlighted field and try again.",
			Field:       validationErr.Field,
			Retryable:   false,
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return models.ErrorInfo{
			Type:        models.ErrorNetwork,
			Severity:    models.SeverityMedium,
			Message:     err.Error(),
			UserMessage: "Connection problem. Please check your network and retry.",
			Retryable:   true,
		}
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) && statusErr.Status >= 500 {
		return models.ErrorInfo{
			Type:        models.ErrorServer,
			Severity:    models.SeverityHigh,
			Message:     statusErr.Error(),
			UserMessage: "The service is temporarily unavailable. Please retry shortly.",
			Retryable:   true,
		}
	}

	var conflictErr *ConflictError
	if errors.As(err, &conflictErr) {
		return models.ErrorInfo{
			Type:        models.ErrorResource,
			Severity:    models.SeverityMedium,
			Message:     conflictErr.Error(),
			UserMessage: "The selected slot is no longer available. Please choose another time.",
			Retryable:   false,
		}
	}

	return models.ErrorInfo{
		Type:        models.ErrorUnknown,
		Severity:    models.SeverityLow,
		Message:     err.Error(),
		UserMessage: "Something went wrong. Please try again later.",
		Retryable:   false,
	}
}

// ShouldAutoRetry reports whether the orchestrator may offer another attempt.
// Critical failures are never retried.
func ShouldAutoRetry(info models.ErrorInfo) bool {
	if !info.Retryable {
		return false
	}
	switch info.Severity {
	case models.SeverityLow, models.SeverityMedium, models.SeverityHigh:
		return true
	}
	return false
}

// RetrySuggestions returns ordered remediation steps for the failure type.
func RetrySuggestions(info models.ErrorInfo) []string {
	switch info.Type {
	case models.ErrorPayment:
		return []string{
			"Check that your card details are correct",
			"Make sure your card has sufficient funds and is within its limit",
			"Verify your billing address matches your card statement",
			"Try a different payment method",
		}
	case models.ErrorNetwork:
		return []string{
			"Check your internet connection",
			"Retry in a few seconds",
		}
	case models.ErrorServer:
		return []string{
			"Wait a moment and retry",
			"Contact support if the problem persists",
		}
	case models.ErrorValidation:
		return []string{
			"Review the highlighted field",
			"Fill in all required information",
		}
	case models.ErrorResource:
		return []string{
			"Pick another time slot",
			"Try a different resource",
		}
	default:
		return []string{
			"Try again later",
			"Contact support if the problem persists",
		}
	}
}
