package holds

import (
	"time"

	"cinephoria/internal/shared/apperrors"

	"github.com/google/uuid"
)

type HolderKind string

const (
	HolderUser  HolderKind = "user"
	HolderGuest HolderKind = "guest"
)

// Holder owns holds: an authenticated user or an anonymous guest, never both.
type Holder struct {
	Kind HolderKind
	ID   string
}

func UserHolder(id uuid.UUID) Holder {
	return Holder{Kind: HolderUser, ID: id.String()}
}

func GuestHolder(id string) Holder {
	return Holder{Kind: HolderGuest, ID: id}
}

func (h Holder) String() string {
	return string(h.Kind) + ":" + h.ID
}

func (h Holder) IsZero() bool {
	return h.ID == ""
}

// Validate checks the holder carries exactly one well formed identity.
func (h Holder) Validate() error {
	switch h.Kind {
	case HolderUser, HolderGuest:
	default:
		return apperrors.Validation("holder identity is required")
	}
	if _, err := uuid.Parse(h.ID); err != nil {
		return apperrors.Validation("holder id must be a UUID")
	}
	return nil
}

// SeatKey identifies a seat for a given showtime
type SeatKey struct {
	SeatID     uint `json:"seat_id"`
	ShowtimeID uint `json:"showtime_id"`
}

// Hold is a TTL-bounded claim on a seat for a showtime. Exactly one row may exist per
// (seat_id, showtime_id) whatever the holder kind.
type Hold struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	HolderKind         HolderKind `gorm:"type:varchar(10);not null;index:idx_seat_holds_holder;check:holder_kind IN ('user','guest')" json:"holder_kind"`
	HolderID           string     `gorm:"type:varchar(64);not null;index:idx_seat_holds_holder" json:"holder_id"`
	SeatID             uint       `gorm:"not null;uniqueIndex:idx_seat_holds_seat_showtime" json:"seat_id"`
	ShowtimeID         uint       `gorm:"not null;uniqueIndex:idx_seat_holds_seat_showtime;index" json:"showtime_id"`
	Price              float64    `gorm:"type:numeric(10,2);not null;check:price >= 0" json:"price"`
	SeatTypeDiscountID *uint      `json:"seat_type_discount_id"`
	ReservedUntil      time.Time  `gorm:"not null;index" json:"reserved_until"`
	CreatedAt          time.Time  `json:"created_at"`
}

// Cart is the per-holder parent of holds. Its valid_until slides on every mutation.
type Cart struct {
	HolderKind HolderKind `gorm:"type:varchar(10);primaryKey"`
	HolderID   string     `gorm:"type:varchar(64);primaryKey"`
	ValidUntil time.Time  `gorm:"not null;index"`
	CreatedAt  time.Time
}

func (Hold) TableName() string { return "seat_holds" }
func (Cart) TableName() string { return "holder_carts" }

func (h *Hold) Holder() Holder {
	return Holder{Kind: h.HolderKind, ID: h.HolderID}
}

func (h *Hold) Key() SeatKey {
	return SeatKey{SeatID: h.SeatID, ShowtimeID: h.ShowtimeID}
}

// Field is one entry of a partial update: either left unchanged or set to a value.
type Field[T any] struct {
	set   bool
	value T
}

func Unchanged[T any]() Field[T] { return Field[T]{} }

func Set[T any](v T) Field[T] { return Field[T]{set: true, value: v} }

func (f Field[T]) IsSet() bool { return f.set }

func (f Field[T]) Value() T { return f.value }

// HoldPatch lists every updatable column of a hold. The zero value changes nothing.
type HoldPatch struct {
	Price              Field[float64]
	SeatTypeDiscountID Field[*uint]
	ReservedUntil      Field[time.Time]
}

// Columns returns the column assignments for the fields that are set.
func (p HoldPatch) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if p.Price.IsSet() {
		cols["price"] = p.Price.Value()
	}
	if p.SeatTypeDiscountID.IsSet() {
		cols["seat_type_discount_id"] = p.SeatTypeDiscountID.Value()
	}
	if p.ReservedUntil.IsSet() {
		cols["reserved_until"] = p.ReservedUntil.Value()
	}
	return cols
}

func (p HoldPatch) IsEmpty() bool {
	return len(p.Columns()) == 0
}

// Apply writes the set fields onto h.
func (p HoldPatch) Apply(h *Hold) {
	if p.Price.IsSet() {
		h.Price = p.Price.Value()
	}
	if p.SeatTypeDiscountID.IsSet() {
		h.SeatTypeDiscountID = p.SeatTypeDiscountID.Value()
	}
	if p.ReservedUntil.IsSet() {
		h.ReservedUntil = p.ReservedUntil.Value()
	}
}

// SweepResult counts rows removed by one sweep
type SweepResult struct {
	Carts int64
	Holds int64
}
