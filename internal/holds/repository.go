package holds

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cinephoria/internal/shared/apperrors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is the hold ledger. Implementations bound by WithTx share one transaction.
type Repository interface {
	WithTx(ctx context.Context, fn func(tx Repository) error) error

	// SweepExpired removes holds and carts whose deadline is at or before now.
	SweepExpired(ctx context.Context, now time.Time) (SweepResult, error)
	// LockShowtimeShared takes a shared lock on the showtime row so a concurrent
	// finalizer holding it FOR UPDATE cannot book seats under a new hold.
	LockShowtimeShared(ctx context.Context, showtimeID uint) error

	EnsureCart(ctx context.Context, holder Holder, validUntil time.Time) error
	GetCart(ctx context.Context, holder Holder) (*Cart, error) // nil when absent
	// Touch slides the cart and every hold of holder to validUntil.
	Touch(ctx context.Context, holder Holder, validUntil time.Time) error

	// InsertHold reports false when the (seat, showtime) pair is already held by anyone.
	InsertHold(ctx context.Context, hold *Hold) (bool, error)
	FindHold(ctx context.Context, holder Holder, key SeatKey) (*Hold, error) // nil when absent
	UpdateHold(ctx context.Context, id uint, patch HoldPatch) error
	DeleteHold(ctx context.Context, holder Holder, key SeatKey) (int64, error)
	DeleteHolderHolds(ctx context.Context, holder Holder) (int64, error)

	ListHolderHolds(ctx context.Context, holder Holder) ([]Hold, error)
	ListActiveHolds(ctx context.Context, showtimeID uint, now time.Time) ([]Hold, error)

	IsSeatBooked(ctx context.Context, key SeatKey) (bool, error)
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

func (r *repository) SweepExpired(ctx context.Context, now time.Time) (SweepResult, error) {
	var result SweepResult

	expiredCarts := r.db.Model(&Cart{}).
		Select("holder_kind, holder_id").
		Where("valid_until <= ?", now)

	res := r.db.WithContext(ctx).
		Where("reserved_until <= ? OR (holder_kind, holder_id) IN (?)", now, expiredCarts).
		Delete(&Hold{})
	if res.Error != nil {
		return result, fmt.Errorf("delete expired holds: %w", res.Error)
	}
	result.Holds = res.RowsAffected

	res = r.db.WithContext(ctx).Where("valid_until <= ?", now).Delete(&Cart{})
	if res.Error != nil {
		return result, fmt.Errorf("delete expired carts: %w", res.Error)
	}
	result.Carts = res.RowsAffected

	return result, nil
}

func (r *repository) LockShowtimeShared(ctx context.Context, showtimeID uint) error {
	var found []uint
	err := r.db.WithContext(ctx).
		Table("showtimes").
		Where("id = ?", showtimeID).
		Clauses(clause.Locking{Strength: "SHARE"}).
		Pluck("id", &found).Error
	if err != nil {
		return fmt.Errorf("lock showtime: %w", err)
	}
	if len(found) == 0 {
		return apperrors.NotFound("showtime not found")
	}
	return nil
}

func (r *repository) EnsureCart(ctx context.Context, holder Holder, validUntil time.Time) error {
	cart := Cart{HolderKind: holder.Kind, HolderID: holder.ID, ValidUntil: validUntil}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&cart).Error
	if err != nil {
		return fmt.Errorf("ensure cart: %w", err)
	}
	return nil
}

func (r *repository) GetCart(ctx context.Context, holder Holder) (*Cart, error) {
	var cart Cart
	err := r.db.WithContext(ctx).
		Where("holder_kind = ? AND holder_id = ?", holder.Kind, holder.ID).
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return &cart, nil
}

func (r *repository) Touch(ctx context.Context, holder Holder, validUntil time.Time) error {
	db := r.db.WithContext(ctx)

	err := db.Model(&Cart{}).
		Where("holder_kind = ? AND holder_id = ?", holder.Kind, holder.ID).
		Update("valid_until", validUntil).Error
	if err != nil {
		return fmt.Errorf("touch cart: %w", err)
	}

	err = db.Model(&Hold{}).
		Where("holder_kind = ? AND holder_id = ?", holder.Kind, holder.ID).
		Update("reserved_until", validUntil).Error
	if err != nil {
		return fmt.Errorf("touch holds: %w", err)
	}
	return nil
}

func (r *repository) InsertHold(ctx context.Context, hold *Hold) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "seat_id"}, {Name: "showtime_id"}},
			DoNothing: true,
		}).
		Create(hold)
	if res.Error != nil {
		return false, fmt.Errorf("insert hold: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) FindHold(ctx context.Context, holder Holder, key SeatKey) (*Hold, error) {
	var hold Hold
	err := r.db.WithContext(ctx).
		Where("holder_kind = ? AND holder_id = ? AND seat_id = ? AND showtime_id = ?",
			holder.Kind, holder.ID, key.SeatID, key.ShowtimeID).
		First(&hold).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find hold: %w", err)
	}
	return &hold, nil
}

func (r *repository) UpdateHold(ctx context.Context, id uint, patch HoldPatch) error {
	if patch.IsEmpty() {
		return nil
	}
	err := r.db.WithContext(ctx).
		Model(&Hold{}).
		Where("id = ?", id).
		Updates(patch.Columns()).Error
	if err != nil {
		return fmt.Errorf("update hold: %w", err)
	}
	return nil
}

func (r *repository) DeleteHold(ctx context.Context, holder Holder, key SeatKey) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("holder_kind = ? AND holder_id = ? AND seat_id = ? AND showtime_id = ?",
			holder.Kind, holder.ID, key.SeatID, key.ShowtimeID).
		Delete(&Hold{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete hold: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *repository) DeleteHolderHolds(ctx context.Context, holder Holder) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("holder_kind = ? AND holder_id = ?", holder.Kind, holder.ID).
		Delete(&Hold{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete holder holds: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *repository) ListHolderHolds(ctx context.Context, holder Holder) ([]Hold, error) {
	var holds []Hold
	err := r.db.WithContext(ctx).
		Where("holder_kind = ? AND holder_id = ?", holder.Kind, holder.ID).
		Order("showtime_id ASC, seat_id ASC").
		Find(&holds).Error
	if err != nil {
		return nil, fmt.Errorf("list holder holds: %w", err)
	}
	return holds, nil
}

func (r *repository) ListActiveHolds(ctx context.Context, showtimeID uint, now time.Time) ([]Hold, error) {
	var holds []Hold
	err := r.db.WithContext(ctx).
		Where("showtime_id = ? AND reserved_until > ?", showtimeID, now).
		Find(&holds).Error
	if err != nil {
		return nil, fmt.Errorf("list active holds: %w", err)
	}
	return holds, nil
}

func (r *repository) IsSeatBooked(ctx context.Context, key SeatKey) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("booked_seats").
		Where("seat_id = ? AND showtime_id = ?", key.SeatID, key.ShowtimeID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check booked seat: %w", err)
	}
	return count > 0, nil
}
