package handlers

import (
	"context"
	"errors"
	"net/http"

	"medibook/models"
	"medibook/services/booking"
	"medibook/services/faults"
	"medibook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking lifecycle over HTTP.
type BookingHandler struct {
	Service booking.LifecycleService
	Logger  *zap.Logger
}

func NewBookingHandler(svc booking.LifecycleService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, Logger: logger}
}

// GetBooking returns one booking by ID.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	b, err := h.Service.GetByID(c.Request.Context(), c.Param("bookingID"))
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "booking not found", err.Error())
		return
	}
	c.JSON(http.StatusOK, b)
}

// CancelBooking cancels a booking and reports the refund outcome alongside.
// A failed refund does not fail the cancellation.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	var input struct {
		Reason        string `json:"reason"`
		RequestRefund bool   `json:"request_refund"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	result, err := h.Service.Cancel(c.Request.Context(), c.Param("bookingID"), input.Reason, input.RequestRefund)
	if err != nil {
		h.respondLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ApproveBooking moves a pending booking to approved (operator action).
func (h *BookingHandler) ApproveBooking(c *gin.Context) {
	h.transition(c, h.Service.Approve)
}

// DeclineBooking moves a pending booking to declined (operator action).
func (h *BookingHandler) DeclineBooking(c *gin.Context) {
	h.transition(c, h.Service.Decline)
}

// CompleteBooking moves an approved booking to completed.
func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	h.transition(c, h.Service.Complete)
}

func (h *BookingHandler) transition(c *gin.Context, op func(ctx context.Context, bookingID string) (*models.Booking, error)) {
	b, err := op(c.Request.Context(), c.Param("bookingID"))
	if err != nil {
		h.respondLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) respondLifecycleError(c *gin.Context, err error) {
	var stateErr *booking.InvalidStateError
	var validationErr *faults.ValidationError

	switch {
	case errors.As(err, &validationErr):
		utils.JSONError(c, http.StatusBadRequest, "validation failed", validationErr.Error())
	case errors.As(err, &stateErr):
		utils.JSONError(c, http.StatusConflict, "invalid booking state", stateErr.Error())
	default:
		h.Logger.Error("booking operation failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "booking operation failed", err.Error())
	}
}
