package routes

import (
	"medibook/handlers"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires every route group onto the router.
func SetupRoutes(r *gin.Engine, bh *handlers.BookingHandler, ph *handlers.PaymentHandler, nh *handlers.NotificationHandler, prefH *handlers.PreferenceHandler) {
	RegisterBookingRoutes(r, bh)
	RegisterPaymentRoutes(r, ph)
	RegisterNotificationRoutes(r, nh, prefH)
}
