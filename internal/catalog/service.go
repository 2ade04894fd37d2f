package catalog

import (
	"context"
	"time"

	"cinephoria/internal/shared/constants"
	"cinephoria/pkg/cache"
)

// Service exposes catalog reads with a cache-aside layer in front of the store.
type Service interface {
	GetShowtime(ctx context.Context, id uint) (*Showtime, error)
	GetSeat(ctx context.Context, id uint) (*Seat, error)
	GetScreenLayout(ctx context.Context, screenID uint) ([]Seat, error)
	// DiscountAppliesToSeat reports whether the seat type discount belongs to the seat's seat type.
	DiscountAppliesToSeat(ctx context.Context, seatTypeDiscountID, seatID uint) (bool, error)
	ListSeatTypes(ctx context.Context) ([]SeatTypeResponse, error)
}

type service struct {
	repo  Repository
	cache cache.Service
	ttl   time.Duration
}

func NewService(repo Repository, cacheService cache.Service, ttl time.Duration) Service {
	if cacheService == nil {
		cacheService = cache.NewService(nil)
	}
	if ttl <= 0 {
		ttl = constants.TTL_CATALOG_SHORT
	}
	return &service{repo: repo, cache: cacheService, ttl: ttl}
}

func (s *service) GetShowtime(ctx context.Context, id uint) (*Showtime, error) {
	var showtime Showtime
	err := s.cache.GetOrSet(ctx, constants.ShowtimeKey(id), s.ttl, func(ctx context.Context) (interface{}, error) {
		return s.repo.GetShowtime(ctx, id)
	}, &showtime)
	if err != nil {
		return nil, err
	}
	return &showtime, nil
}

func (s *service) GetSeat(ctx context.Context, id uint) (*Seat, error) {
	var seat Seat
	err := s.cache.GetOrSet(ctx, constants.SeatKey(id), constants.TTL_CATALOG_LONG, func(ctx context.Context) (interface{}, error) {
		return s.repo.GetSeat(ctx, id)
	}, &seat)
	if err != nil {
		return nil, err
	}
	return &seat, nil
}

func (s *service) GetScreenLayout(ctx context.Context, screenID uint) ([]Seat, error) {
	var seats []Seat
	err := s.cache.GetOrSet(ctx, constants.ScreenLayoutKey(screenID), s.ttl, func(ctx context.Context) (interface{}, error) {
		return s.repo.ListSeatsByScreen(ctx, screenID)
	}, &seats)
	if err != nil {
		return nil, err
	}
	return seats, nil
}

func (s *service) DiscountAppliesToSeat(ctx context.Context, seatTypeDiscountID, seatID uint) (bool, error) {
	seat, err := s.GetSeat(ctx, seatID)
	if err != nil {
		return false, err
	}

	discount, err := s.repo.GetSeatTypeDiscount(ctx, seatTypeDiscountID)
	if err != nil {
		return false, err
	}

	return discount.SeatTypeID == seat.SeatTypeID, nil
}

func (s *service) ListSeatTypes(ctx context.Context) ([]SeatTypeResponse, error) {
	var out []SeatTypeResponse
	err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_SEAT_TYPES, s.ttl, func(ctx context.Context) (interface{}, error) {
		types, err := s.repo.ListSeatTypesWithDiscounts(ctx)
		if err != nil {
			return nil, err
		}
		return toSeatTypeResponses(types), nil
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}
