package payments

import (
	"context"
	"fmt"
	"math"

	"cinephoria/internal/bookings"
	"cinephoria/internal/shared/apperrors"
	"cinephoria/pkg/logger"
)

// amountTolerance absorbs rounding between the provider's decimal strings and float64
const amountTolerance = 0.005

type Finalizer interface {
	Precheck(ctx context.Context, in bookings.FinalizeInput) error
	Finalize(ctx context.Context, in bookings.FinalizeInput) (*bookings.FinalizeResult, error)
	FindByOrderID(ctx context.Context, orderID string) (*bookings.FinalizeResult, error)
}

type Service interface {
	CreateOrder(ctx context.Context, total float64) (*CreateOrderResponse, error)
	// CaptureOrder captures the payment and finalizes the booking. An order that was
	// already finalized returns its booking without contacting the provider again.
	CaptureOrder(ctx context.Context, purchaser bookings.Purchaser, orderID string, req CaptureOrderRequest) (*bookings.FinalizeResult, error)
}

type service struct {
	gateway   Gateway
	finalizer Finalizer
	currency  string
	log       *logger.Logger
}

func NewService(gateway Gateway, finalizer Finalizer, currency string) Service {
	if currency == "" {
		currency = "EUR"
	}
	return &service{
		gateway:   gateway,
		finalizer: finalizer,
		currency:  currency,
		log:       logger.GetDefault(),
	}
}

func (s *service) CreateOrder(ctx context.Context, total float64) (*CreateOrderResponse, error) {
	if total <= 0 {
		return nil, apperrors.Validation("total_amount must be positive")
	}

	orderID, err := s.gateway.CreateOrder(ctx, total, s.currency)
	if err != nil {
		return nil, upstream("create payment order", err)
	}

	s.log.Info("payment order created", "order_id", orderID, "amount", total, "currency", s.currency)
	return &CreateOrderResponse{OrderID: orderID}, nil
}

func (s *service) CaptureOrder(ctx context.Context, purchaser bookings.Purchaser, orderID string, req CaptureOrderRequest) (*bookings.FinalizeResult, error) {
	if orderID == "" {
		return nil, apperrors.Validation("order id is required")
	}
	if err := purchaser.Holder().Validate(); err != nil {
		return nil, err
	}
	if req.TotalAmount == nil {
		return nil, apperrors.Validation("total_amount is required")
	}

	existing, err := s.finalizer.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	in := finalizeInput(purchaser, orderID, req)
	// a cart that cannot be booked is refused before the provider moves any money
	if err := s.finalizer.Precheck(ctx, in); err != nil {
		return nil, err
	}

	capture, err := s.gateway.CaptureOrder(ctx, orderID)
	if err != nil {
		return nil, upstream("capture payment order", err)
	}
	s.log.LogPaymentCaptured(ctx, orderID, capture.Status, capture.Amount)

	if capture.Status != StatusCompleted {
		return nil, apperrors.New(apperrors.KindPaymentNotConfirmed, fmt.Sprintf("payment status is %s", capture.Status))
	}
	if math.Abs(capture.Amount-*req.TotalAmount) > amountTolerance {
		return nil, apperrors.New(apperrors.KindPaymentNotConfirmed,
			fmt.Sprintf("captured %.2f but the booking totals %.2f", capture.Amount, *req.TotalAmount))
	}

	in.PaymentStatus = bookings.PaymentCompleted
	return s.finalizer.Finalize(ctx, in)
}

func finalizeInput(purchaser bookings.Purchaser, orderID string, req CaptureOrderRequest) bookings.FinalizeInput {
	purchaser.FirstName = req.FirstName
	purchaser.LastName = req.LastName
	purchaser.Email = req.Email

	items := make([]bookings.FinalizeItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, bookings.FinalizeItem{
			SeatID:             item.SeatID,
			ShowtimeID:         item.ShowtimeID,
			SeatTypeDiscountID: item.SeatTypeDiscountID,
		})
	}

	return bookings.FinalizeInput{
		Purchaser:   purchaser,
		OrderID:     orderID,
		TotalAmount: *req.TotalAmount,
		Items:       items,
	}
}

// upstream keeps typed gateway errors and marks anything else as an upstream failure
func upstream(op string, err error) error {
	if apperrors.KindOf(err) != apperrors.KindInternal {
		return err
	}
	return apperrors.Wrap(apperrors.KindUpstream, op, err)
}
