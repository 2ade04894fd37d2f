package bookings

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"cinephoria/internal/catalog"
	"cinephoria/internal/holds"
	"cinephoria/internal/shared/apperrors"
	"cinephoria/internal/shared/utils/qr"
	"cinephoria/pkg/logger"
	"cinephoria/pkg/metrics"

	"github.com/google/uuid"
)

// Catalog is the reference data the finalizer checks items against
type Catalog interface {
	GetShowtime(ctx context.Context, id uint) (*catalog.Showtime, error)
	GetSeat(ctx context.Context, id uint) (*catalog.Seat, error)
	DiscountAppliesToSeat(ctx context.Context, seatTypeDiscountID, seatID uint) (bool, error)
}

// Publisher announces committed bookings. Failures never undo a booking.
type Publisher interface {
	PublishBookingFinalized(ctx context.Context, event FinalizedEvent) error
}

// Service interface defines the contract for booking business logic
type Service interface {
	// Finalize turns a captured payment into a booking in one transaction. Calling it again
	// with the same order id returns the first booking.
	Finalize(ctx context.Context, in FinalizeInput) (*FinalizeResult, error)
	// Precheck runs the checks of Finalize that need no locks. Callers use it to refuse a
	// cart before money moves; Finalize repeats every check under its locks.
	Precheck(ctx context.Context, in FinalizeInput) error
	FindByOrderID(ctx context.Context, orderID string) (*FinalizeResult, error)

	GetBooking(ctx context.Context, id uuid.UUID, viewer Viewer) (*BookingResponse, error)
	GetTicket(ctx context.Context, token string) (*TicketResponse, error)
	TicketQRCode(ctx context.Context, token string) ([]byte, error)
	ListUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) (*BookingListResponse, error)
	GetPoints(ctx context.Context, userID uuid.UUID) (*PointsResponse, error)
}

// Viewer is who asks to read a booking
type Viewer struct {
	UserID  *uuid.UUID
	IsAdmin bool
}

type service struct {
	repo          Repository
	catalog       Catalog
	publisher     Publisher
	clock         holds.Clock
	ticketBaseURL string
	log           *logger.Logger
	metrics       *metrics.Metrics
}

type Option func(*service)

func WithClock(clock holds.Clock) Option {
	return func(s *service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func WithPublisher(p Publisher) Option {
	return func(s *service) { s.publisher = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *service) { s.metrics = m }
}

// WithTicketBaseURL sets the URL prefix encoded into ticket QR codes
func WithTicketBaseURL(url string) Option {
	return func(s *service) { s.ticketBaseURL = strings.TrimRight(url, "/") }
}

// NewService creates a new booking service instance
func NewService(repo Repository, cat Catalog, opts ...Option) Service {
	s := &service{
		repo:          repo,
		catalog:       cat,
		clock:         func() time.Time { return time.Now().UTC() },
		ticketBaseURL: "http://localhost:8080/api/v1",
		log:           logger.GetDefault(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Finalize(ctx context.Context, in FinalizeInput) (*FinalizeResult, error) {
	if err := validateFinalizeInput(in); err != nil {
		return nil, err
	}
	if !in.PaymentStatus.IsConfirmed() {
		return nil, apperrors.New(apperrors.KindPaymentNotConfirmed, "payment was not completed")
	}

	// replays skip the catalog checks entirely
	existing, err := s.FindByOrderID(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return s.replay(ctx, in.OrderID, existing), nil
	}

	basePrices, err := s.checkItems(ctx, in.Items)
	if err != nil {
		return nil, err
	}

	holder := in.Purchaser.Holder()
	keys := seatKeys(in.Items)

	var (
		booking  *Booking
		replayed *FinalizeResult
	)
	err = s.repo.WithTx(ctx, func(tx Repository) error {
		existing, err := tx.FindByOrderID(ctx, in.OrderID)
		if err != nil {
			return apperrors.Internal("finalize booking", err)
		}
		if existing != nil {
			replayed = &FinalizeResult{BookingID: existing.ID, TicketToken: existing.TicketToken, Replayed: true}
			return nil
		}

		showtimeIDs := uniqueShowtimeIDs(in.Items)
		locked, err := tx.LockShowtimes(ctx, showtimeIDs)
		if err != nil {
			return apperrors.Internal("finalize booking", err)
		}
		if len(locked) != len(showtimeIDs) {
			return apperrors.NotFound("showtime not found")
		}

		booked, err := tx.LockBookedSeats(ctx, keys)
		if err != nil {
			return apperrors.Internal("finalize booking", err)
		}
		if len(booked) > 0 {
			return bookedConflict(booked[0])
		}

		active, err := tx.ListActiveHoldsOn(ctx, keys, s.clock())
		if err != nil {
			return apperrors.Internal("finalize booking", err)
		}
		heldPrices := make(map[holds.SeatKey]float64, len(active))
		for _, h := range active {
			if err := checkHoldOwner(holder, h); err != nil {
				return err
			}
			heldPrices[h.Key()] = h.Price
		}

		booking = &Booking{
			ID:             uuid.New(),
			UserID:         in.Purchaser.UserID,
			FirstName:      in.Purchaser.FirstName,
			LastName:       in.Purchaser.LastName,
			Email:          in.Purchaser.Email,
			PaymentStatus:  in.PaymentStatus,
			TotalAmount:    in.TotalAmount,
			PaymentOrderID: in.OrderID,
			TicketToken:    uuid.NewString(),
			Seats:          make([]BookedSeat, 0, len(in.Items)),
		}
		for _, item := range in.Items {
			price, ok := heldPrices[item.Key()]
			if !ok {
				price = basePrices[item.SeatID]
			}
			booking.Seats = append(booking.Seats, BookedSeat{
				BookingID:          booking.ID,
				SeatID:             item.SeatID,
				ShowtimeID:         item.ShowtimeID,
				SeatTypeDiscountID: item.SeatTypeDiscountID,
				Price:              price,
			})
		}
		if err := tx.CreateBooking(ctx, booking); err != nil {
			if apperrors.KindOf(err) == apperrors.KindConflict {
				return err
			}
			return apperrors.Internal("finalize booking", err)
		}

		if !holder.IsZero() {
			if _, err := tx.DeleteHolds(ctx, holder, keys); err != nil {
				return apperrors.Internal("finalize booking", err)
			}
		}

		if in.Purchaser.UserID != nil {
			bookingID := booking.ID
			entry := &PointsTransaction{
				UserID:       *in.Purchaser.UserID,
				BookingID:    &bookingID,
				PointsChange: LoyaltyPoints(in.TotalAmount),
				Description:  fmt.Sprintf("points for booking %s", booking.ID),
			}
			if err := tx.CreditPoints(ctx, entry); err != nil {
				return apperrors.Internal("finalize booking", err)
			}
		}
		return nil
	})

	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindConflict {
			// a concurrent finalize of the same order may have won the unique index
			if existing, lookupErr := s.FindByOrderID(ctx, in.OrderID); lookupErr == nil && existing != nil {
				return s.replay(ctx, in.OrderID, existing), nil
			}
			s.metrics.FinalizeConflict()
			s.log.LogFinalizeConflict(ctx, in.OrderID, err)
		}
		return nil, err
	}

	if replayed != nil {
		return s.replay(ctx, in.OrderID, replayed), nil
	}

	s.metrics.BookingFinalized(false)
	s.log.LogBookingFinalized(ctx, booking.ID.String(), in.OrderID, len(booking.Seats), false)
	s.publish(ctx, booking)

	return &FinalizeResult{BookingID: booking.ID, TicketToken: booking.TicketToken}, nil
}

func (s *service) Precheck(ctx context.Context, in FinalizeInput) error {
	if err := validateFinalizeInput(in); err != nil {
		return err
	}
	if _, err := s.checkItems(ctx, in.Items); err != nil {
		return err
	}

	keys := seatKeys(in.Items)
	booked, err := s.repo.FindBookedSeats(ctx, keys)
	if err != nil {
		return apperrors.Internal("precheck booking", err)
	}
	if len(booked) > 0 {
		return bookedConflict(booked[0])
	}

	active, err := s.repo.ListActiveHoldsOn(ctx, keys, s.clock())
	if err != nil {
		return apperrors.Internal("precheck booking", err)
	}
	holder := in.Purchaser.Holder()
	for _, h := range active {
		if err := checkHoldOwner(holder, h); err != nil {
			return err
		}
	}
	return nil
}

func bookedConflict(seat BookedSeat) error {
	return apperrors.Conflict(fmt.Sprintf("seat %d is already booked for showtime %d", seat.SeatID, seat.ShowtimeID))
}

// checkHoldOwner rejects a live hold that belongs to someone other than holder
func checkHoldOwner(holder holds.Holder, h holds.Hold) error {
	if holder.IsZero() || h.Holder() != holder {
		return apperrors.Conflict(fmt.Sprintf("seat %d is held by another customer for showtime %d", h.SeatID, h.ShowtimeID))
	}
	return nil
}

func (s *service) FindByOrderID(ctx context.Context, orderID string) (*FinalizeResult, error) {
	existing, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, apperrors.Internal("find booking by order", err)
	}
	if existing == nil {
		return nil, nil
	}
	return &FinalizeResult{BookingID: existing.ID, TicketToken: existing.TicketToken, Replayed: true}, nil
}

func (s *service) replay(ctx context.Context, orderID string, result *FinalizeResult) *FinalizeResult {
	s.metrics.BookingFinalized(true)
	s.log.LogBookingFinalized(ctx, result.BookingID.String(), orderID, 0, true)
	return result
}

// LoyaltyPoints is one point per whole currency unit paid
func LoyaltyPoints(total float64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Floor(total))
}

func (s *service) publish(ctx context.Context, booking *Booking) {
	if s.publisher == nil {
		return
	}
	event := FinalizedEvent{
		BookingID:   booking.ID,
		OrderID:     booking.PaymentOrderID,
		UserID:      booking.UserID,
		Email:       booking.Email,
		TotalAmount: booking.TotalAmount,
		Seats:       len(booking.Seats),
		CreatedAt:   s.clock(),
	}
	if err := s.publisher.PublishBookingFinalized(ctx, event); err != nil {
		s.log.WithError(err).Warn("failed to publish booking event", "booking_id", booking.ID.String())
	}
}

// checkItems validates every item against the catalog and returns the seat type price per seat
func (s *service) checkItems(ctx context.Context, items []FinalizeItem) (map[uint]float64, error) {
	prices := make(map[uint]float64, len(items))
	showtimes := make(map[uint]*catalog.Showtime)

	for _, item := range items {
		showtime, ok := showtimes[item.ShowtimeID]
		if !ok {
			var err error
			showtime, err = s.catalog.GetShowtime(ctx, item.ShowtimeID)
			if err != nil {
				return nil, err
			}
			showtimes[item.ShowtimeID] = showtime
		}

		seat, err := s.catalog.GetSeat(ctx, item.SeatID)
		if err != nil {
			return nil, err
		}
		if seat.ScreenID != showtime.ScreenID {
			return nil, apperrors.Validation(fmt.Sprintf("seat %d does not belong to showtime %d", item.SeatID, item.ShowtimeID))
		}
		if seat.SeatType != nil {
			prices[seat.ID] = seat.SeatType.Price
		}

		if item.SeatTypeDiscountID != nil {
			ok, err := s.catalog.DiscountAppliesToSeat(ctx, *item.SeatTypeDiscountID, item.SeatID)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, apperrors.New(apperrors.KindInvalidDiscount, fmt.Sprintf("discount does not apply to seat %d", item.SeatID))
			}
		}
	}
	return prices, nil
}

func validateFinalizeInput(in FinalizeInput) error {
	if strings.TrimSpace(in.OrderID) == "" {
		return apperrors.Validation("order_id is required")
	}
	if len(in.Items) == 0 {
		return apperrors.Validation("at least one item is required")
	}
	if in.TotalAmount < 0 {
		return apperrors.Validation("total_amount must not be negative")
	}
	p := in.Purchaser
	if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" || strings.TrimSpace(p.Email) == "" {
		return apperrors.Validation("first_name, last_name and email are required")
	}

	seen := make(map[holds.SeatKey]bool, len(in.Items))
	for _, item := range in.Items {
		if item.SeatID == 0 || item.ShowtimeID == 0 {
			return apperrors.Validation("every item needs seat_id and showtime_id")
		}
		if seen[item.Key()] {
			return apperrors.Validation(fmt.Sprintf("seat %d appears twice for showtime %d", item.SeatID, item.ShowtimeID))
		}
		seen[item.Key()] = true
	}
	return nil
}

func seatKeys(items []FinalizeItem) []holds.SeatKey {
	keys := make([]holds.SeatKey, len(items))
	for i, item := range items {
		keys[i] = item.Key()
	}
	return keys
}

func uniqueShowtimeIDs(items []FinalizeItem) []uint {
	seen := make(map[uint]bool)
	var ids []uint
	for _, item := range items {
		if !seen[item.ShowtimeID] {
			seen[item.ShowtimeID] = true
			ids = append(ids, item.ShowtimeID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *service) GetBooking(ctx context.Context, id uuid.UUID, viewer Viewer) (*BookingResponse, error) {
	booking, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return nil, asInternal("get booking", err)
	}

	owner := booking.UserID != nil && viewer.UserID != nil && *booking.UserID == *viewer.UserID
	if !owner && !viewer.IsAdmin {
		return nil, apperrors.New(apperrors.KindForbidden, "access denied")
	}

	resp := toBookingResponse(booking)
	return &resp, nil
}

func (s *service) GetTicket(ctx context.Context, token string) (*TicketResponse, error) {
	booking, err := s.repo.GetBookingByTicketToken(ctx, token)
	if err != nil {
		return nil, asInternal("get ticket", err)
	}

	rows, err := s.repo.ListTicketSeats(ctx, booking.ID)
	if err != nil {
		return nil, apperrors.Internal("get ticket", err)
	}

	return toTicketResponse(booking, rows), nil
}

func (s *service) TicketQRCode(ctx context.Context, token string) ([]byte, error) {
	booking, err := s.repo.GetBookingByTicketToken(ctx, token)
	if err != nil {
		return nil, asInternal("ticket qr code", err)
	}

	png, err := qr.PNG(s.ticketBaseURL+"/tickets/"+booking.TicketToken, qr.DefaultSize)
	if err != nil {
		return nil, apperrors.Internal("render ticket qr code", err)
	}
	return png, nil
}

func (s *service) ListUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) (*BookingListResponse, error) {
	bookings, total, err := s.repo.ListUserBookings(ctx, userID, query)
	if err != nil {
		return nil, apperrors.Internal("list user bookings", err)
	}

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	resp := &BookingListResponse{
		Bookings:   make([]BookingResponse, 0, len(bookings)),
		TotalCount: total,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: CalculateTotalPages(total, query.Limit),
	}
	for i := range bookings {
		resp.Bookings = append(resp.Bookings, toBookingResponse(&bookings[i]))
	}
	return resp, nil
}

func (s *service) GetPoints(ctx context.Context, userID uuid.UUID) (*PointsResponse, error) {
	account, history, err := s.repo.GetLoyalty(ctx, userID, 50)
	if err != nil {
		return nil, apperrors.Internal("get loyalty points", err)
	}
	return toPointsResponse(account, history), nil
}

// asInternal keeps typed errors and wraps store failures
func asInternal(op string, err error) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.Internal(op, err)
}
