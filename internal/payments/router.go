package payments

import (
	"github.com/gin-gonic/gin"
)

// SetupPaymentRoutes registers checkout routes. Both guests and signed-in users may pay.
func SetupPaymentRoutes(rg *gin.RouterGroup, controller *Controller) {
	orders := rg.Group("/payments/orders")
	{
		orders.POST("", controller.CreateOrder)                   // POST /api/v1/payments/orders
		orders.POST("/:orderId/capture", controller.CaptureOrder) // POST /api/v1/payments/orders/:orderId/capture
	}
}
