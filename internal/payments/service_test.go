package payments

import (
	"context"
	"errors"
	"sync"
	"testing"

	"cinephoria/internal/bookings"
	"cinephoria/internal/shared/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFinalizer struct {
	mu          sync.Mutex
	byOrder     map[string]*bookings.FinalizeResult
	inputs      []bookings.FinalizeInput
	prechecked  []bookings.FinalizeInput
	precheckErr error
	finalErr    error
}

func newFakeFinalizer() *fakeFinalizer {
	return &fakeFinalizer{byOrder: make(map[string]*bookings.FinalizeResult)}
}

func (f *fakeFinalizer) Precheck(ctx context.Context, in bookings.FinalizeInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prechecked = append(f.prechecked, in)
	return f.precheckErr
}

func (f *fakeFinalizer) Finalize(ctx context.Context, in bookings.FinalizeInput) (*bookings.FinalizeResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, in)
	if f.finalErr != nil {
		return nil, f.finalErr
	}
	result := &bookings.FinalizeResult{BookingID: uuid.New(), TicketToken: uuid.NewString()}
	f.byOrder[in.OrderID] = result
	return result, nil
}

func (f *fakeFinalizer) FindByOrderID(ctx context.Context, orderID string) (*bookings.FinalizeResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.byOrder[orderID]; ok {
		replay := *r
		replay.Replayed = true
		return &replay, nil
	}
	return nil, nil
}

// countingGateway wraps the sandbox to observe captures
type countingGateway struct {
	*SandboxGateway
	captures int
	status   string
}

func (g *countingGateway) CaptureOrder(ctx context.Context, orderID string) (*Capture, error) {
	g.captures++
	c, err := g.SandboxGateway.CaptureOrder(ctx, orderID)
	if err == nil && g.status != "" {
		c.Status = g.status
	}
	return c, err
}

func floatPtr(v float64) *float64 { return &v }

func captureRequest(amount float64) CaptureOrderRequest {
	discount := uint(3)
	return CaptureOrderRequest{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@example.com",
		TotalAmount: floatPtr(amount),
		Items: []CaptureItem{
			{SeatID: 5, ShowtimeID: 7},
			{SeatID: 6, ShowtimeID: 7, SeatTypeDiscountID: &discount},
		},
	}
}

func TestCreateOrder(t *testing.T) {
	svc := NewService(NewSandboxGateway(), newFakeFinalizer(), "")

	order, err := svc.CreateOrder(context.Background(), 21)
	require.NoError(t, err)
	assert.NotEmpty(t, order.OrderID)

	_, err = svc.CreateOrder(context.Background(), 0)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCaptureOrder_FinalizesUserBooking(t *testing.T) {
	gw := &countingGateway{SandboxGateway: NewSandboxGateway()}
	fin := newFakeFinalizer()
	svc := NewService(gw, fin, "EUR")
	ctx := context.Background()
	userID := uuid.New()

	order, err := svc.CreateOrder(ctx, 21)
	require.NoError(t, err)

	result, err := svc.CaptureOrder(ctx, bookings.Purchaser{UserID: &userID}, order.OrderID, captureRequest(21))
	require.NoError(t, err)
	assert.False(t, result.Replayed)

	require.Len(t, fin.prechecked, 1)
	assert.Equal(t, order.OrderID, fin.prechecked[0].OrderID)
	assert.Len(t, fin.prechecked[0].Items, 2)

	require.Len(t, fin.inputs, 1)
	in := fin.inputs[0]
	assert.Equal(t, order.OrderID, in.OrderID)
	assert.Equal(t, bookings.PaymentCompleted, in.PaymentStatus)
	assert.Equal(t, &userID, in.Purchaser.UserID)
	assert.Equal(t, "Ada", in.Purchaser.FirstName)
	assert.Equal(t, "ada@example.com", in.Purchaser.Email)
	require.Len(t, in.Items, 2)
	assert.Equal(t, uint(3), *in.Items[1].SeatTypeDiscountID)
}

func TestCaptureOrder_ReplayDoesNotCaptureAgain(t *testing.T) {
	gw := &countingGateway{SandboxGateway: NewSandboxGateway()}
	fin := newFakeFinalizer()
	svc := NewService(gw, fin, "EUR")
	ctx := context.Background()
	purchaser := bookings.Purchaser{GuestID: uuid.NewString()}

	order, err := svc.CreateOrder(ctx, 21)
	require.NoError(t, err)

	first, err := svc.CaptureOrder(ctx, purchaser, order.OrderID, captureRequest(21))
	require.NoError(t, err)

	second, err := svc.CaptureOrder(ctx, purchaser, order.OrderID, captureRequest(21))
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.BookingID, second.BookingID)
	assert.Equal(t, 1, gw.captures)
	assert.Len(t, fin.inputs, 1)
}

func TestCaptureOrder_Rejections(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("no identity is rejected before capture", func(t *testing.T) {
		gw := &countingGateway{SandboxGateway: NewSandboxGateway()}
		svc := NewService(gw, newFakeFinalizer(), "EUR")
		order, _ := svc.CreateOrder(ctx, 21)

		_, err := svc.CaptureOrder(ctx, bookings.Purchaser{}, order.OrderID, captureRequest(21))
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		assert.Zero(t, gw.captures)
	})

	t.Run("unbookable cart is refused before capture", func(t *testing.T) {
		for _, precheckErr := range []error{
			apperrors.Validation("seat 60 does not belong to showtime 7"),
			apperrors.New(apperrors.KindInvalidDiscount, "discount does not apply to seat 6"),
			apperrors.Conflict("seat 5 is already booked for showtime 7"),
		} {
			gw := &countingGateway{SandboxGateway: NewSandboxGateway()}
			fin := newFakeFinalizer()
			fin.precheckErr = precheckErr
			svc := NewService(gw, fin, "EUR")
			order, _ := svc.CreateOrder(ctx, 21)

			_, err := svc.CaptureOrder(ctx, bookings.Purchaser{UserID: &userID}, order.OrderID, captureRequest(21))
			assert.ErrorIs(t, err, precheckErr)
			assert.Equal(t, 0, gw.captures)
			assert.Empty(t, fin.inputs)
		}
	})

	t.Run("status other than completed", func(t *testing.T) {
		gw := &countingGateway{SandboxGateway: NewSandboxGateway(), status: "PENDING"}
		fin := newFakeFinalizer()
		svc := NewService(gw, fin, "EUR")
		order, _ := svc.CreateOrder(ctx, 21)

		_, err := svc.CaptureOrder(ctx, bookings.Purchaser{UserID: &userID}, order.OrderID, captureRequest(21))
		assert.ErrorIs(t, err, apperrors.ErrPaymentNotConfirmed)
		assert.Empty(t, fin.inputs)
	})

	t.Run("amount mismatch", func(t *testing.T) {
		fin := newFakeFinalizer()
		svc := NewService(NewSandboxGateway(), fin, "EUR")
		order, _ := svc.CreateOrder(ctx, 21)

		_, err := svc.CaptureOrder(ctx, bookings.Purchaser{UserID: &userID}, order.OrderID, captureRequest(30))
		assert.ErrorIs(t, err, apperrors.ErrPaymentNotConfirmed)
		assert.Empty(t, fin.inputs)
	})

	t.Run("unknown order surfaces as upstream", func(t *testing.T) {
		svc := NewService(NewSandboxGateway(), newFakeFinalizer(), "EUR")

		_, err := svc.CaptureOrder(ctx, bookings.Purchaser{UserID: &userID}, "SANDBOX-missing", captureRequest(21))
		assert.ErrorIs(t, err, apperrors.ErrUpstream)
	})

	t.Run("finalize error is returned as is", func(t *testing.T) {
		fin := newFakeFinalizer()
		fin.finalErr = apperrors.Conflict("seat 5 is already booked")
		svc := NewService(NewSandboxGateway(), fin, "EUR")
		order, _ := svc.CreateOrder(ctx, 21)

		_, err := svc.CaptureOrder(ctx, bookings.Purchaser{UserID: &userID}, order.OrderID, captureRequest(21))
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})
}

type failingGateway struct{}

func (failingGateway) CreateOrder(ctx context.Context, amount float64, currency string) (string, error) {
	return "", errors.New("dial tcp: connection refused")
}

func (failingGateway) CaptureOrder(ctx context.Context, orderID string) (*Capture, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func TestCreateOrder_ForeignErrorBecomesUpstream(t *testing.T) {
	svc := NewService(failingGateway{}, newFakeFinalizer(), "EUR")

	_, err := svc.CreateOrder(context.Background(), 10)
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
}
