package payments

import (
	"net/http"

	"cinephoria/internal/bookings"
	"cinephoria/internal/shared/middleware"
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

// CreateOrder handles POST /api/v1/payments/orders
func (c *Controller) CreateOrder(ctx *gin.Context) {
	var req CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	order, err := c.service.CreateOrder(ctx.Request.Context(), req.TotalAmount)
	if err != nil {
		response.RespondError(ctx, "Failed to create payment order", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Payment order created successfully", order, nil)
}

// CaptureOrder handles POST /api/v1/payments/orders/:orderId/capture
func (c *Controller) CaptureOrder(ctx *gin.Context) {
	var req CaptureOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	principal := middleware.PrincipalFrom(ctx)
	purchaser := bookings.Purchaser{UserID: principal.UserID, GuestID: principal.GuestID}

	result, err := c.service.CaptureOrder(ctx.Request.Context(), purchaser, ctx.Param("orderId"), req)
	if err != nil {
		response.RespondError(ctx, "Failed to complete booking", err)
		return
	}

	code, message := http.StatusCreated, "Payment captured and booking completed"
	if result.Replayed {
		code, message = http.StatusOK, "Booking already completed for this order"
	}
	response.RespondJSON(ctx, "success", code, message, result, nil)
}
