package availability

import (
	"context"
	"time"

	"cinephoria/internal/catalog"
	"cinephoria/internal/holds"
	"cinephoria/internal/shared/apperrors"
)

type Catalog interface {
	GetShowtime(ctx context.Context, id uint) (*catalog.Showtime, error)
	GetScreenLayout(ctx context.Context, screenID uint) ([]catalog.Seat, error)
}

type Sweeper interface {
	Sweep(ctx context.Context) error
}

type HoldReader interface {
	ListActiveHolds(ctx context.Context, showtimeID uint, now time.Time) ([]holds.Hold, error)
}

type BookingReader interface {
	ListBookedSeatIDs(ctx context.Context, showtimeID uint) ([]uint, error)
}

// Service lists the seats of a showtime. It never caches: every call sweeps and then
// reads both ledgers.
type Service interface {
	ListSeats(ctx context.Context, showtimeID uint, self holds.Holder) ([]SeatView, error)
}

type service struct {
	catalog  Catalog
	sweeper  Sweeper
	holds    HoldReader
	bookings BookingReader
	clock    holds.Clock
}

func NewService(cat Catalog, sweeper Sweeper, holdReader HoldReader, bookingReader BookingReader, clock holds.Clock) Service {
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		catalog:  cat,
		sweeper:  sweeper,
		holds:    holdReader,
		bookings: bookingReader,
		clock:    clock,
	}
}

func (s *service) ListSeats(ctx context.Context, showtimeID uint, self holds.Holder) ([]SeatView, error) {
	if showtimeID == 0 {
		return nil, apperrors.Validation("showtime_id is required")
	}

	showtime, err := s.catalog.GetShowtime(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	seats, err := s.catalog.GetScreenLayout(ctx, showtime.ScreenID)
	if err != nil {
		return nil, err
	}

	if err := s.sweeper.Sweep(ctx); err != nil {
		return nil, err
	}

	bookedIDs, err := s.bookings.ListBookedSeatIDs(ctx, showtimeID)
	if err != nil {
		return nil, apperrors.Internal("list booked seats", err)
	}
	booked := make(map[uint]bool, len(bookedIDs))
	for _, id := range bookedIDs {
		booked[id] = true
	}

	active, err := s.holds.ListActiveHolds(ctx, showtimeID, s.clock())
	if err != nil {
		return nil, apperrors.Internal("list active holds", err)
	}

	return Resolve(seats, booked, active, self), nil
}
