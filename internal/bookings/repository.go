package bookings

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"cinephoria/internal/holds"
	"cinephoria/internal/shared/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(ctx context.Context, fn func(tx Repository) error) error

	// Finalize steps, meant to run inside WithTx
	FindByOrderID(ctx context.Context, orderID string) (*Booking, error) // nil when absent
	LockShowtimes(ctx context.Context, ids []uint) ([]uint, error)
	LockBookedSeats(ctx context.Context, keys []holds.SeatKey) ([]BookedSeat, error)
	ListActiveHoldsOn(ctx context.Context, keys []holds.SeatKey, now time.Time) ([]holds.Hold, error)
	CreateBooking(ctx context.Context, booking *Booking) error
	DeleteHolds(ctx context.Context, holder holds.Holder, keys []holds.SeatKey) (int64, error)
	CreditPoints(ctx context.Context, entry *PointsTransaction) error

	// Reads
	FindBookedSeats(ctx context.Context, keys []holds.SeatKey) ([]BookedSeat, error)
	GetBooking(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetBookingByTicketToken(ctx context.Context, token string) (*Booking, error)
	ListTicketSeats(ctx context.Context, bookingID uuid.UUID) ([]TicketSeatRow, error)
	ListUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error)
	GetLoyalty(ctx context.Context, userID uuid.UUID, limit int) (*LoyaltyAccount, []PointsTransaction, error)
	ListBookedSeatIDs(ctx context.Context, showtimeID uint) ([]uint, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(ctx context.Context, fn func(tx Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&repository{db: tx})
	})
}

func (r *repository) FindByOrderID(ctx context.Context, orderID string) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Where("payment_order_id = ?", orderID).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find booking by order: %w", err)
	}
	return &booking, nil
}

// LockShowtimes takes row locks on the showtimes in id order and returns the ids found.
// Concurrent finalizers touching the same showtime queue up here.
func (r *repository) LockShowtimes(ctx context.Context, ids []uint) ([]uint, error) {
	var found []uint
	err := r.db.WithContext(ctx).
		Table("showtimes").
		Where("id IN ?", ids).
		Order("id ASC").
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Pluck("id", &found).Error
	if err != nil {
		return nil, fmt.Errorf("lock showtimes: %w", err)
	}
	return found, nil
}

func (r *repository) LockBookedSeats(ctx context.Context, keys []holds.SeatKey) ([]BookedSeat, error) {
	var seats []BookedSeat
	err := r.bookedSeatsQuery(ctx, keys).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Find(&seats).Error
	if err != nil {
		return nil, fmt.Errorf("lock booked seats: %w", err)
	}
	return seats, nil
}

func (r *repository) FindBookedSeats(ctx context.Context, keys []holds.SeatKey) ([]BookedSeat, error) {
	var seats []BookedSeat
	if err := r.bookedSeatsQuery(ctx, keys).Find(&seats).Error; err != nil {
		return nil, fmt.Errorf("find booked seats: %w", err)
	}
	return seats, nil
}

func (r *repository) bookedSeatsQuery(ctx context.Context, keys []holds.SeatKey) *gorm.DB {
	return r.db.WithContext(ctx).Where("(seat_id, showtime_id) IN ?", keyTuples(keys))
}

func (r *repository) ListActiveHoldsOn(ctx context.Context, keys []holds.SeatKey, now time.Time) ([]holds.Hold, error) {
	var active []holds.Hold
	err := r.db.WithContext(ctx).
		Where("(seat_id, showtime_id) IN ? AND reserved_until > ?", keyTuples(keys), now).
		Find(&active).Error
	if err != nil {
		return nil, fmt.Errorf("list holds on seats: %w", err)
	}
	return active, nil
}

func (r *repository) CreateBooking(ctx context.Context, booking *Booking) error {
	if err := r.db.WithContext(ctx).Create(booking).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Wrap(apperrors.KindConflict, "booking overlaps an existing booking", err)
		}
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

func (r *repository) DeleteHolds(ctx context.Context, holder holds.Holder, keys []holds.SeatKey) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("holder_kind = ? AND holder_id = ? AND (seat_id, showtime_id) IN ?", holder.Kind, holder.ID, keyTuples(keys)).
		Delete(&holds.Hold{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete purchaser holds: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// CreditPoints adds entry.PointsChange to the user's balance, creating the account on
// first use, and appends entry to the audit trail.
func (r *repository) CreditPoints(ctx context.Context, entry *PointsTransaction) error {
	db := r.db.WithContext(ctx)

	account := LoyaltyAccount{UserID: entry.UserID, Points: entry.PointsChange}
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"points":     gorm.Expr("loyalty_accounts.points + ?", entry.PointsChange),
			"updated_at": gorm.Expr("NOW()"),
		}),
	}).Create(&account).Error
	if err != nil {
		return fmt.Errorf("credit loyalty account: %w", err)
	}

	if err := db.Create(entry).Error; err != nil {
		return fmt.Errorf("record points transaction: %w", err)
	}
	return nil
}

func (r *repository) GetBooking(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Seats", func(db *gorm.DB) *gorm.DB { return db.Order("showtime_id ASC, seat_id ASC") }).
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		return nil, notFoundOr(err, "booking not found", "get booking")
	}
	return &booking, nil
}

func (r *repository) GetBookingByTicketToken(ctx context.Context, token string) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Where("ticket_token = ?", token).First(&booking).Error
	if err != nil {
		return nil, notFoundOr(err, "ticket not found", "get booking by ticket")
	}
	return &booking, nil
}

func (r *repository) ListTicketSeats(ctx context.Context, bookingID uuid.UUID) ([]TicketSeatRow, error) {
	var rows []TicketSeatRow
	err := r.db.WithContext(ctx).
		Table("booked_seats bs").
		Select(`bs.showtime_id, sh.movie_id, sh.start_time, sh.end_time, sc.name AS screen_name,
			s."row", s.number, st.name AS seat_type, st.color, st.icon, bs.price,
			d.name AS discount_name, std.discount_amount, std.discount_percentage`).
		Joins("JOIN seats s ON s.id = bs.seat_id").
		Joins("JOIN seat_types st ON st.id = s.seat_type_id").
		Joins("JOIN showtimes sh ON sh.id = bs.showtime_id").
		Joins("JOIN screens sc ON sc.id = sh.screen_id").
		Joins("LEFT JOIN seat_type_discounts std ON std.id = bs.seat_type_discount_id").
		Joins("LEFT JOIN discounts d ON d.id = std.discount_id").
		Where("bs.booking_id = ?", bookingID).
		Order(`sh.start_time ASC, s."row" ASC, s.number ASC`).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list ticket seats: %w", err)
	}
	return rows, nil
}

func (r *repository) ListUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	var bookings []Booking
	var totalCount int64

	// Set defaults
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	baseQuery := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("user_id = ?", userID)

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, fmt.Errorf("count user bookings: %w", err)
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Preload("Seats").
		Order("created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&bookings).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list user bookings: %w", err)
	}

	return bookings, totalCount, nil
}

func (r *repository) GetLoyalty(ctx context.Context, userID uuid.UUID, limit int) (*LoyaltyAccount, []PointsTransaction, error) {
	db := r.db.WithContext(ctx)

	account := LoyaltyAccount{UserID: userID}
	err := db.Where("user_id = ?", userID).First(&account).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("get loyalty account: %w", err)
	}

	var history []PointsTransaction
	err = db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&history).Error
	if err != nil {
		return nil, nil, fmt.Errorf("list points transactions: %w", err)
	}

	return &account, history, nil
}

func (r *repository) ListBookedSeatIDs(ctx context.Context, showtimeID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&BookedSeat{}).
		Where("showtime_id = ?", showtimeID).
		Pluck("seat_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list booked seat ids: %w", err)
	}
	return ids, nil
}

func keyTuples(keys []holds.SeatKey) [][]interface{} {
	tuples := make([][]interface{}, 0, len(keys))
	for _, k := range keys {
		tuples = append(tuples, []interface{}{k.SeatID, k.ShowtimeID})
	}
	return tuples
}

func notFoundOr(err error, notFound, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(notFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// CalculateTotalPages returns the page count for totalCount rows
func CalculateTotalPages(totalCount int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(totalCount) / float64(limit)))
}
