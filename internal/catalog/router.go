package catalog

import (
	"github.com/gin-gonic/gin"
)

// SetupCatalogRoutes registers the public catalog read routes
func SetupCatalogRoutes(rg *gin.RouterGroup, controller *Controller) {
	rg.GET("/showtimes/:id", controller.GetShowtime) // GET /api/v1/showtimes/:id
	rg.GET("/seat-types", controller.ListSeatTypes)  // GET /api/v1/seat-types
}
