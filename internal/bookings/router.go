package bookings

import (
	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures all booking-related routes. Role checks happen in the
// handlers against the resolved principal.
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller) {
	rg.GET("/bookings/:id", controller.GetBooking) // GET /api/v1/bookings/:id

	tickets := rg.Group("/tickets")
	{
		tickets.GET("/:token", controller.GetTicket)              // GET /api/v1/tickets/:token
		tickets.GET("/:token/qrcode", controller.GetTicketQRCode) // GET /api/v1/tickets/:token/qrcode
	}

	me := rg.Group("/users/me")
	{
		me.GET("/bookings", controller.GetMyBookings) // GET /api/v1/users/me/bookings
		me.GET("/points", controller.GetMyPoints)     // GET /api/v1/users/me/points
	}
}

// Route definitions for reference:
//
// BOOKING RETRIEVAL
// GET    /api/v1/bookings/:id                 - Owner or ADMIN
//
// TICKETS
// GET    /api/v1/tickets/:token               - Booking with seats grouped by showtime
// GET    /api/v1/tickets/:token/qrcode        - PNG QR code linking to the ticket
//
// USER
// GET    /api/v1/users/me/bookings?page=1&limit=10
// GET    /api/v1/users/me/points
//
// Bookings are created by POST /api/v1/payments/orders/:orderId/capture, which captures the
// payment and finalizes the held seats.
