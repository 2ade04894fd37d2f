package availability

import (
	"github.com/gin-gonic/gin"
)

// SetupAvailabilityRoutes registers the seat map route. Authentication is optional.
func SetupAvailabilityRoutes(rg *gin.RouterGroup, controller *Controller) {
	rg.GET("/showtimes/:id/seats", controller.ListSeats) // GET /api/v1/showtimes/:id/seats
}
