package routes

import (
	"medibook/handlers"
	"medibook/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers all endpoints for the booking lifecycle.
func RegisterBookingRoutes(r *gin.Engine, h *handlers.BookingHandler) {
	booking := r.Group("/api/bookings")
	booking.Use(middleware.CapabilityAuthMiddleware())
	{
		booking.GET("/:bookingID", h.GetBooking)
		booking.POST("/:bookingID/cancel", h.CancelBooking)
		booking.POST("/:bookingID/approve", h.ApproveBooking)
		booking.POST("/:bookingID/decline", h.DeclineBooking)
		booking.POST("/:bookingID/complete", h.CompleteBooking)
	}
}
