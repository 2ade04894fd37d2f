package bookings

import (
	"net/http"

	"cinephoria/internal/shared/apperrors"
	"cinephoria/internal/shared/middleware"
	"cinephoria/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
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

// GetBooking handles GET /api/v1/bookings/:id
func (c *Controller) GetBooking(ctx *gin.Context) {
	principal := middleware.PrincipalFrom(ctx)
	if err := middleware.RequireRole(principal, middleware.RoleUser, middleware.RoleAdmin); err != nil {
		response.RespondError(ctx, "Access denied", err)
		return
	}

	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondError(ctx, "Invalid booking ID", apperrors.Validation("booking id must be a UUID"))
		return
	}

	booking, err := c.service.GetBooking(ctx.Request.Context(), bookingID, Viewer{
		UserID:  principal.UserID,
		IsAdmin: principal.Role == middleware.RoleAdmin,
	})
	if err != nil {
		response.RespondError(ctx, "Failed to get booking", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking retrieved successfully", booking, nil)
}

// GetTicket handles GET /api/v1/tickets/:token
func (c *Controller) GetTicket(ctx *gin.Context) {
	ticket, err := c.service.GetTicket(ctx.Request.Context(), ctx.Param("token"))
	if err != nil {
		response.RespondError(ctx, "Failed to get ticket", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Ticket retrieved successfully", ticket, nil)
}

// GetTicketQRCode handles GET /api/v1/tickets/:token/qrcode
func (c *Controller) GetTicketQRCode(ctx *gin.Context) {
	png, err := c.service.TicketQRCode(ctx.Request.Context(), ctx.Param("token"))
	if err != nil {
		response.RespondError(ctx, "Failed to render ticket code", err)
		return
	}

	ctx.Header("Cache-Control", "private, max-age=3600")
	ctx.Data(http.StatusOK, "image/png", png)
}

// GetMyBookings handles GET /api/v1/users/me/bookings
func (c *Controller) GetMyBookings(ctx *gin.Context) {
	principal := middleware.PrincipalFrom(ctx)
	if err := middleware.RequireRole(principal, middleware.RoleUser, middleware.RoleAdmin); err != nil {
		response.RespondError(ctx, "Access denied", err)
		return
	}

	var query BookingListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	bookings, err := c.service.ListUserBookings(ctx.Request.Context(), *principal.UserID, query)
	if err != nil {
		response.RespondError(ctx, "Failed to get bookings", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully", bookings, nil)
}

// GetMyPoints handles GET /api/v1/users/me/points
func (c *Controller) GetMyPoints(ctx *gin.Context) {
	principal := middleware.PrincipalFrom(ctx)
	if err := middleware.RequireRole(principal, middleware.RoleUser, middleware.RoleAdmin); err != nil {
		response.RespondError(ctx, "Access denied", err)
		return
	}

	points, err := c.service.GetPoints(ctx.Request.Context(), *principal.UserID)
	if err != nil {
		response.RespondError(ctx, "Failed to get points", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Points retrieved successfully", points, nil)
}
