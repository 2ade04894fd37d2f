package catalog

import (
	"net/http"

	"cinephoria/internal/shared/utils/params"
	"cinephoria/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GetShowtime handles GET /api/v1/showtimes/:id
func (c *Controller) GetShowtime(ctx *gin.Context) {
	id, err := params.UintParam(ctx, "id")
	if err != nil {
		response.RespondError(ctx, "Invalid showtime ID", err)
		return
	}

	showtime, err := c.service.GetShowtime(ctx.Request.Context(), id)
	if err != nil {
		response.RespondError(ctx, "Failed to get showtime", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Showtime retrieved successfully", toShowtimeResponse(showtime), nil)
}

// ListSeatTypes handles GET /api/v1/seat-types
func (c *Controller) ListSeatTypes(ctx *gin.Context) {
	types, err := c.service.ListSeatTypes(ctx.Request.Context())
	if err != nil {
		response.RespondError(ctx, "Failed to list seat types", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seat types retrieved successfully", gin.H{"seat_types": types}, nil)
}
