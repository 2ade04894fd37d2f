package availability

import (
	"net/http"

	"cinephoria/internal/holds"
	"cinephoria/internal/shared/middleware"
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

type SeatListResponse struct {
	ShowtimeID uint       `json:"showtime_id"`
	Seats      []SeatView `json:"seats"`
}

// ListSeats handles GET /api/v1/showtimes/:id/seats
func (c *Controller) ListSeats(ctx *gin.Context) {
	showtimeID, err := params.UintParam(ctx, "id")
	if err != nil {
		response.RespondError(ctx, "Invalid showtime ID", err)
		return
	}

	// anonymous callers without a guest id see every hold as someone else's
	self, _ := holds.HolderFrom(middleware.PrincipalFrom(ctx))

	seats, err := c.service.ListSeats(ctx.Request.Context(), showtimeID, self)
	if err != nil {
		response.RespondError(ctx, "Failed to list seats", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seats retrieved successfully", SeatListResponse{
		ShowtimeID: showtimeID,
		Seats:      seats,
	}, nil)
}
