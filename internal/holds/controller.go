package holds

import (
	"net/http"

	"cinephoria/internal/shared/apperrors"
	"cinephoria/internal/shared/middleware"
	"cinephoria/internal/shared/utils/params"
	"cinephoria/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{
		service:   service,
		validator: validator.New(),
	}
}

// HolderFrom derives the cart owner for a request. A signed-in user always wins over a
// guest id sent alongside it.
func HolderFrom(p middleware.Principal) (Holder, error) {
	if p.Authenticated() {
		return UserHolder(*p.UserID), nil
	}
	if p.GuestID != "" {
		return GuestHolder(p.GuestID), nil
	}
	return Holder{}, apperrors.Validation("either an access token or a guest_id is required")
}

// GetCart handles GET /api/v1/cart
func (c *Controller) GetCart(ctx *gin.Context) {
	holder, err := HolderFrom(middleware.PrincipalFrom(ctx))
	if err != nil {
		response.RespondError(ctx, "Missing holder identity", err)
		return
	}

	cart, err := c.service.GetCart(ctx.Request.Context(), holder)
	if err != nil {
		response.RespondError(ctx, "Failed to get cart", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Cart retrieved successfully", cart, nil)
}

// HoldSeat handles POST /api/v1/cart/items
func (c *Controller) HoldSeat(ctx *gin.Context) {
	holder, err := HolderFrom(middleware.PrincipalFrom(ctx))
	if err != nil {
		response.RespondError(ctx, "Missing holder identity", err)
		return
	}

	var req HoldSeatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	result, err := c.service.HoldSeat(ctx.Request.Context(), holder, HoldSeatInput{
		SeatID:             req.SeatID,
		ShowtimeID:         req.ShowtimeID,
		Price:              *req.Price,
		SeatTypeDiscountID: req.SeatTypeDiscountID,
	})
	if err != nil {
		response.RespondError(ctx, "Failed to reserve seat", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Seat reserved successfully", result, nil)
}

// ReleaseSeat handles DELETE /api/v1/cart/items/:showtimeId/:seatId
func (c *Controller) ReleaseSeat(ctx *gin.Context) {
	holder, err := HolderFrom(middleware.PrincipalFrom(ctx))
	if err != nil {
		response.RespondError(ctx, "Missing holder identity", err)
		return
	}

	showtimeID, err := params.UintParam(ctx, "showtimeId")
	if err != nil {
		response.RespondError(ctx, "Invalid showtime ID", err)
		return
	}
	seatID, err := params.UintParam(ctx, "seatId")
	if err != nil {
		response.RespondError(ctx, "Invalid seat ID", err)
		return
	}

	key := SeatKey{SeatID: seatID, ShowtimeID: showtimeID}
	if err := c.service.ReleaseSeat(ctx.Request.Context(), holder, key); err != nil {
		response.RespondError(ctx, "Failed to release seat", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seat released successfully", key, nil)
}

// ReleaseAll handles DELETE /api/v1/cart
func (c *Controller) ReleaseAll(ctx *gin.Context) {
	holder, err := HolderFrom(middleware.PrincipalFrom(ctx))
	if err != nil {
		response.RespondError(ctx, "Missing holder identity", err)
		return
	}

	if err := c.service.ReleaseAll(ctx.Request.Context(), holder); err != nil {
		response.RespondError(ctx, "Failed to clear cart", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Cart cleared successfully", nil, nil)
}

// SetDiscount handles PATCH /api/v1/cart/items
func (c *Controller) SetDiscount(ctx *gin.Context) {
	holder, err := HolderFrom(middleware.PrincipalFrom(ctx))
	if err != nil {
		response.RespondError(ctx, "Missing holder identity", err)
		return
	}

	var req SetDiscountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	key := SeatKey{SeatID: req.SeatID, ShowtimeID: req.ShowtimeID}
	if err := c.service.SetDiscount(ctx.Request.Context(), holder, key, req.SeatTypeDiscountID); err != nil {
		response.RespondError(ctx, "Failed to update discount", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Discount updated successfully", nil, nil)
}
