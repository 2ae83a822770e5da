package routes

import (
	"medibook/handlers"
	"medibook/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterPaymentRoutes registers all endpoints for the payment checkout flow.
func RegisterPaymentRoutes(r *gin.Engine, h *handlers.PaymentHandler) {
	payment := r.Group("/api/payments")
	payment.Use(middleware.CapabilityAuthMiddleware())
	{
		payment.POST("/:bookingID/begin", h.BeginCheckout)
		payment.POST("/:bookingID/proceed", h.ProceedToPayment)
		payment.POST("/:bookingID/back", h.BackToSummary)
		payment.POST("/:bookingID/submit", h.SubmitPayment)
		payment.POST("/:bookingID/cancel", h.CancelProcessing)
		payment.POST("/:bookingID/dismiss", h.DismissRetry)
		payment.POST("/:bookingID/reset", h.ResetCheckout)
		payment.GET("/:bookingID/state", h.GetState)
		payment.POST("/validate", h.ValidatePayment)
	}
}
