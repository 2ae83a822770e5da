package handlers

import (
	"context"
	"errors"
	"net/http"

	"medibook/models"
	"medibook/services/payment"
	"medibook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentHandler exposes the payment orchestrator over HTTP.
type PaymentHandler struct {
	Orchestrator payment.OrchestratorService
	Logger       *zap.Logger
}

func NewPaymentHandler(orchestrator payment.OrchestratorService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{Orchestrator: orchestrator, Logger: logger}
}

// BeginCheckout opens (or re-opens) the payment flow for a booking.
func (h *PaymentHandler) BeginCheckout(c *gin.Context) {
	h.stateOp(c, h.Orchestrator.Begin)
}

// ProceedToPayment moves summary → payment.
func (h *PaymentHandler) ProceedToPayment(c *gin.Context) {
	h.stateOp(c, h.Orchestrator.Proceed)
}

// BackToSummary moves payment → summary.
func (h *PaymentHandler) BackToSummary(c *gin.Context) {
	h.stateOp(c, h.Orchestrator.Back)
}

// CancelProcessing abandons the in-flight attempt.
func (h *PaymentHandler) CancelProcessing(c *gin.Context) {
	h.stateOp(c, h.Orchestrator.CancelProcessing)
}

// DismissRetry clears a surfaced failure without touching the retry deadline.
func (h *PaymentHandler) DismissRetry(c *gin.Context) {
	h.stateOp(c, h.Orchestrator.DismissRetryCountdown)
}

// ResetCheckout starts a fresh attempt chain (e.g., with a new payment method).
func (h *PaymentHandler) ResetCheckout(c *gin.Context) {
	h.stateOp(c, h.Orchestrator.Reset)
}

// GetState returns the current flow state, including any retry countdown.
func (h *PaymentHandler) GetState(c *gin.Context) {
	h.stateOp(c, h.Orchestrator.State)
}

// ValidatePayment runs local validation only; nothing reaches the gateway.
func (h *PaymentHandler) ValidatePayment(c *gin.Context) {
	var req models.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	c.JSON(http.StatusOK, h.Orchestrator.Validate(req))
}

// SubmitPayment runs one payment attempt.
func (h *PaymentHandler) SubmitPayment(c *gin.Context) {
	var req models.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	req.BookingID = c.Param("bookingID")

	result, err := h.Orchestrator.Submit(c.Request.Context(), req)
	if err != nil {
		h.respondPaymentError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *PaymentHandler) stateOp(c *gin.Context, op func(ctx context.Context, bookingID string) (*payment.State, error)) {
	st, err := op(c.Request.Context(), c.Param("bookingID"))
	if err != nil {
		h.respondPaymentError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *PaymentHandler) respondPaymentError(c *gin.Context, err error) {
	var notReady *payment.RetryNotReadyError
	var exhausted *payment.RetriesExhaustedError
	var stageErr *payment.StageError

	switch {
	case errors.As(err, &notReady):
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":         "retry not ready",
			"next_retry_in": notReady.Remaining,
			"details":       notReady.Error(),
		})
	case errors.As(err, &exhausted):
		utils.JSONError(c, http.StatusConflict, "payment retries exhausted", exhausted.Error())
	case errors.As(err, &stageErr):
		utils.JSONError(c, http.StatusConflict, "operation not allowed in current stage", stageErr.Error())
	default:
		h.Logger.Error("payment operation failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "payment operation failed", err.Error())
	}
}
