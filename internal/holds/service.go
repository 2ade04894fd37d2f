package holds

import (
	"context"
	"time"

	"cinephoria/internal/catalog"
	"cinephoria/internal/shared/apperrors"
	"cinephoria/pkg/logger"
	"cinephoria/pkg/metrics"
)

// DefaultHoldTTL is the sliding lifetime of a holder's cart.
const DefaultHoldTTL = 15 * time.Minute

// Catalog is the reference data the manager validates requests against.
type Catalog interface {
	GetShowtime(ctx context.Context, id uint) (*catalog.Showtime, error)
	GetSeat(ctx context.Context, id uint) (*catalog.Seat, error)
	DiscountAppliesToSeat(ctx context.Context, seatTypeDiscountID, seatID uint) (bool, error)
}

// Service is the reservation manager.
type Service interface {
	HoldSeat(ctx context.Context, holder Holder, in HoldSeatInput) (*HoldResult, error)
	// ReleaseSeat removes one hold. Removing a hold that does not exist succeeds.
	ReleaseSeat(ctx context.Context, holder Holder, key SeatKey) error
	ReleaseAll(ctx context.Context, holder Holder) error
	// SetDiscount sets or, with a nil id, clears the discount on an existing hold.
	SetDiscount(ctx context.Context, holder Holder, key SeatKey, seatTypeDiscountID *uint) error
	GetCart(ctx context.Context, holder Holder) (*CartView, error)
}

type HoldSeatInput struct {
	SeatID             uint
	ShowtimeID         uint
	Price              float64
	SeatTypeDiscountID *uint
}

type HoldResult struct {
	SeatID        uint      `json:"seat_id"`
	ShowtimeID    uint      `json:"showtime_id"`
	ReservedUntil time.Time `json:"reserved_until"`
}

type service struct {
	repo    Repository
	catalog Catalog
	sweeper *Sweeper
	clock   Clock
	ttl     time.Duration
	log     *logger.Logger
	metrics *metrics.Metrics
}

type Option func(*service)

// WithClock overrides the time source.
func WithClock(clock Clock) Option {
	return func(s *service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithTTL overrides the default hold TTL.
func WithTTL(d time.Duration) Option {
	return func(s *service) {
		if d > 0 {
			s.ttl = d
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *service) { s.metrics = m }
}

func NewService(repo Repository, cat Catalog, sweeper *Sweeper, opts ...Option) Service {
	s := &service{
		repo:    repo,
		catalog: cat,
		sweeper: sweeper,
		clock:   systemClock,
		ttl:     DefaultHoldTTL,
		log:     logger.GetDefault(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) HoldSeat(ctx context.Context, holder Holder, in HoldSeatInput) (*HoldResult, error) {
	if err := holder.Validate(); err != nil {
		return nil, err
	}
	if in.SeatID == 0 || in.ShowtimeID == 0 {
		return nil, apperrors.Validation("seat_id and showtime_id are required")
	}
	if in.Price < 0 {
		return nil, apperrors.Validation("price must not be negative")
	}

	if err := s.checkSeatInShowtime(ctx, in.SeatID, in.ShowtimeID); err != nil {
		return nil, err
	}
	if in.SeatTypeDiscountID != nil {
		if err := s.checkDiscount(ctx, *in.SeatTypeDiscountID, in.SeatID); err != nil {
			return nil, err
		}
	}

	key := SeatKey{SeatID: in.SeatID, ShowtimeID: in.ShowtimeID}
	var reservedUntil time.Time

	err := s.repo.WithTx(ctx, func(tx Repository) error {
		// Taken before the sweep so no hold row locks are held while waiting on a finalizer.
		if err := tx.LockShowtimeShared(ctx, in.ShowtimeID); err != nil {
			if apperrors.KindOf(err) == apperrors.KindNotFound {
				return err
			}
			return apperrors.Internal("hold seat", err)
		}
		if err := s.sweeper.SweepTx(ctx, tx); err != nil {
			return err
		}

		booked, err := tx.IsSeatBooked(ctx, key)
		if err != nil {
			return apperrors.Internal("hold seat", err)
		}
		if booked {
			return apperrors.Conflict("seat is already booked")
		}

		reservedUntil = s.clock().Add(s.ttl)
		if err := tx.EnsureCart(ctx, holder, reservedUntil); err != nil {
			return apperrors.Internal("hold seat", err)
		}

		inserted, err := tx.InsertHold(ctx, &Hold{
			HolderKind:         holder.Kind,
			HolderID:           holder.ID,
			SeatID:             in.SeatID,
			ShowtimeID:         in.ShowtimeID,
			Price:              in.Price,
			SeatTypeDiscountID: in.SeatTypeDiscountID,
			ReservedUntil:      reservedUntil,
		})
		if err != nil {
			return apperrors.Internal("hold seat", err)
		}
		if !inserted {
			return apperrors.Conflict("seat is already reserved")
		}

		return s.touch(ctx, tx, holder, reservedUntil)
	})
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindConflict {
			s.metrics.HoldConflict()
			s.log.LogHoldConflict(ctx, holder.String(), in.SeatID, in.ShowtimeID)
		}
		return nil, err
	}

	s.metrics.HoldPlaced()
	s.log.LogHoldPlaced(ctx, holder.String(), in.SeatID, in.ShowtimeID, reservedUntil)

	return &HoldResult{SeatID: in.SeatID, ShowtimeID: in.ShowtimeID, ReservedUntil: reservedUntil}, nil
}

func (s *service) ReleaseSeat(ctx context.Context, holder Holder, key SeatKey) error {
	if err := holder.Validate(); err != nil {
		return err
	}
	if key.SeatID == 0 || key.ShowtimeID == 0 {
		return apperrors.Validation("seat_id and showtime_id are required")
	}

	return s.repo.WithTx(ctx, func(tx Repository) error {
		if err := s.sweeper.SweepTx(ctx, tx); err != nil {
			return err
		}
		removed, err := tx.DeleteHold(ctx, holder, key)
		if err != nil {
			return apperrors.Internal("release seat", err)
		}
		s.metrics.HoldsReleased(removed)
		return s.touch(ctx, tx, holder, s.clock().Add(s.ttl))
	})
}

func (s *service) ReleaseAll(ctx context.Context, holder Holder) error {
	if err := holder.Validate(); err != nil {
		return err
	}

	return s.repo.WithTx(ctx, func(tx Repository) error {
		if err := s.sweeper.SweepTx(ctx, tx); err != nil {
			return err
		}
		removed, err := tx.DeleteHolderHolds(ctx, holder)
		if err != nil {
			return apperrors.Internal("release all", err)
		}
		s.metrics.HoldsReleased(removed)
		return s.touch(ctx, tx, holder, s.clock().Add(s.ttl))
	})
}

func (s *service) SetDiscount(ctx context.Context, holder Holder, key SeatKey, seatTypeDiscountID *uint) error {
	if err := holder.Validate(); err != nil {
		return err
	}
	if key.SeatID == 0 || key.ShowtimeID == 0 {
		return apperrors.Validation("seat_id and showtime_id are required")
	}

	return s.repo.WithTx(ctx, func(tx Repository) error {
		if err := s.sweeper.SweepTx(ctx, tx); err != nil {
			return err
		}

		hold, err := tx.FindHold(ctx, holder, key)
		if err != nil {
			return apperrors.Internal("set discount", err)
		}
		if hold == nil {
			return apperrors.NotFound("seat is not in the holder's cart")
		}

		if seatTypeDiscountID != nil {
			if err := s.checkDiscount(ctx, *seatTypeDiscountID, key.SeatID); err != nil {
				return err
			}
		}

		patch := HoldPatch{SeatTypeDiscountID: Set(seatTypeDiscountID)}
		if err := tx.UpdateHold(ctx, hold.ID, patch); err != nil {
			return apperrors.Internal("set discount", err)
		}
		return s.touch(ctx, tx, holder, s.clock().Add(s.ttl))
	})
}

func (s *service) GetCart(ctx context.Context, holder Holder) (*CartView, error) {
	if err := holder.Validate(); err != nil {
		return nil, err
	}

	view := &CartView{Items: []CartItem{}}
	err := s.repo.WithTx(ctx, func(tx Repository) error {
		if err := s.sweeper.SweepTx(ctx, tx); err != nil {
			return err
		}

		cart, err := tx.GetCart(ctx, holder)
		if err != nil {
			return apperrors.Internal("get cart", err)
		}
		if cart == nil {
			return nil
		}
		validUntil := cart.ValidUntil
		view.ValidUntil = &validUntil

		holds, err := tx.ListHolderHolds(ctx, holder)
		if err != nil {
			return apperrors.Internal("get cart", err)
		}
		for _, h := range holds {
			view.Items = append(view.Items, toCartItem(h))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *service) touch(ctx context.Context, tx Repository, holder Holder, validUntil time.Time) error {
	if err := tx.Touch(ctx, holder, validUntil); err != nil {
		return apperrors.Internal("refresh cart", err)
	}
	return nil
}

func (s *service) checkSeatInShowtime(ctx context.Context, seatID, showtimeID uint) error {
	showtime, err := s.catalog.GetShowtime(ctx, showtimeID)
	if err != nil {
		return err
	}
	seat, err := s.catalog.GetSeat(ctx, seatID)
	if err != nil {
		return err
	}
	if seat.ScreenID != showtime.ScreenID {
		return apperrors.Validation("seat does not belong to the showtime's screen")
	}
	return nil
}

func (s *service) checkDiscount(ctx context.Context, seatTypeDiscountID, seatID uint) error {
	ok, err := s.catalog.DiscountAppliesToSeat(ctx, seatTypeDiscountID, seatID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.New(apperrors.KindInvalidDiscount, "discount does not apply to this seat type")
	}
	return nil
}
