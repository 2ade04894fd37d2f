package holds

import (
	"github.com/gin-gonic/gin"
)

// SetupCartRoutes registers the cart routes. The holder comes from the resolved principal.
func SetupCartRoutes(rg *gin.RouterGroup, controller *Controller) {
	cart := rg.Group("/cart")
	{
		cart.GET("", controller.GetCart)                                  // GET /api/v1/cart
		cart.DELETE("", controller.ReleaseAll)                            // DELETE /api/v1/cart
		cart.POST("/items", controller.HoldSeat)                          // POST /api/v1/cart/items
		cart.PATCH("/items", controller.SetDiscount)                      // PATCH /api/v1/cart/items
		cart.DELETE("/items/:showtimeId/:seatId", controller.ReleaseSeat) // DELETE /api/v1/cart/items/:showtimeId/:seatId
	}
}
