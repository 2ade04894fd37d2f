package catalog

import (
	"context"
	"errors"
	"fmt"

	"cinephoria/internal/shared/apperrors"

	"gorm.io/gorm"
)

type Repository interface {
	GetShowtime(ctx context.Context, id uint) (*Showtime, error)
	GetSeat(ctx context.Context, id uint) (*Seat, error)
	ListSeatsByScreen(ctx context.Context, screenID uint) ([]Seat, error)
	GetSeatTypeDiscount(ctx context.Context, id uint) (*SeatTypeDiscount, error)
	ListSeatTypesWithDiscounts(ctx context.Context) ([]SeatType, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetShowtime(ctx context.Context, id uint) (*Showtime, error) {
	var showtime Showtime
	err := r.db.WithContext(ctx).First(&showtime, "id = ?", id).Error
	if err != nil {
		return nil, notFoundOr(err, "showtime not found", "get showtime")
	}
	return &showtime, nil
}

func (r *repository) GetSeat(ctx context.Context, id uint) (*Seat, error) {
	var seat Seat
	err := r.db.WithContext(ctx).Preload("SeatType").First(&seat, "id = ?", id).Error
	if err != nil {
		return nil, notFoundOr(err, "seat not found", "get seat")
	}
	return &seat, nil
}

func (r *repository) ListSeatsByScreen(ctx context.Context, screenID uint) ([]Seat, error) {
	var seats []Seat
	err := r.db.WithContext(ctx).
		Preload("SeatType").
		Where("screen_id = ?", screenID).
		Order(`"row" ASC, number ASC`).
		Find(&seats).Error
	if err != nil {
		return nil, fmt.Errorf("list seats by screen: %w", err)
	}
	return seats, nil
}

func (r *repository) GetSeatTypeDiscount(ctx context.Context, id uint) (*SeatTypeDiscount, error) {
	var discount SeatTypeDiscount
	err := r.db.WithContext(ctx).Preload("Discount").First(&discount, "id = ?", id).Error
	if err != nil {
		return nil, notFoundOr(err, "discount not found", "get seat type discount")
	}
	return &discount, nil
}

func (r *repository) ListSeatTypesWithDiscounts(ctx context.Context) ([]SeatType, error) {
	var types []SeatType
	err := r.db.WithContext(ctx).
		Preload("Discounts", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Discounts.Discount").
		Order("id ASC").
		Find(&types).Error
	if err != nil {
		return nil, fmt.Errorf("list seat types: %w", err)
	}
	return types, nil
}

func notFoundOr(err error, notFound, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(notFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
