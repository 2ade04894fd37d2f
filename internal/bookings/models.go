package bookings

import (
	"time"

	"cinephoria/internal/holds"

	"github.com/google/uuid"
)

// Booking is a paid purchase. It is written once, by the finalizer, and never mutated here.
type Booking struct {
	ID             uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         *uuid.UUID    `gorm:"type:uuid;index" json:"user_id,omitempty"`
	FirstName      string        `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName       string        `gorm:"type:varchar(100);not null" json:"last_name"`
	Email          string        `gorm:"type:varchar(255);not null" json:"email"`
	PaymentStatus  PaymentStatus `gorm:"type:varchar(20);not null;check:payment_status IN ('COMPLETED','PENDING','FAILED')" json:"payment_status"`
	TotalAmount    float64       `gorm:"type:numeric(10,2);not null;check:total_amount >= 0" json:"total_amount"`
	PaymentOrderID string        `gorm:"type:varchar(64);not null;uniqueIndex" json:"payment_order_id"`
	TicketToken    string        `gorm:"type:varchar(64);not null;uniqueIndex" json:"ticket_token"`
	CreatedAt      time.Time     `json:"created_at"`

	Seats []BookedSeat `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE;" json:"seats,omitempty"`
}

// BookedSeat permanently claims a seat for a showtime. At most one row per pair.
type BookedSeat struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	BookingID          uuid.UUID `gorm:"type:uuid;not null;index" json:"booking_id"`
	SeatID             uint      `gorm:"not null;uniqueIndex:idx_booked_seats_seat_showtime" json:"seat_id"`
	ShowtimeID         uint      `gorm:"not null;uniqueIndex:idx_booked_seats_seat_showtime;index" json:"showtime_id"`
	SeatTypeDiscountID *uint     `json:"seat_type_discount_id,omitempty"`
	Price              float64   `gorm:"type:numeric(10,2);not null" json:"price"`
	CreatedAt          time.Time `json:"created_at"`
}

// LoyaltyAccount holds the running points balance of a user
type LoyaltyAccount struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Points    int       `gorm:"not null;default:0" json:"points"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PointsTransaction is the audit trail of loyalty credits
type PointsTransaction struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	BookingID    *uuid.UUID `gorm:"type:uuid;index" json:"booking_id,omitempty"`
	PointsChange int        `gorm:"not null" json:"points_change"`
	Description  string     `gorm:"type:varchar(255)" json:"description"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (Booking) TableName() string           { return "bookings" }
func (BookedSeat) TableName() string        { return "booked_seats" }
func (LoyaltyAccount) TableName() string    { return "loyalty_accounts" }
func (PointsTransaction) TableName() string { return "points_transactions" }

func (s *BookedSeat) Key() holds.SeatKey {
	return holds.SeatKey{SeatID: s.SeatID, ShowtimeID: s.ShowtimeID}
}

// Purchaser is who pays. UserID is nil for guest checkouts; GuestID links the guest cart.
type Purchaser struct {
	UserID    *uuid.UUID
	GuestID   string
	FirstName string
	LastName  string
	Email     string
}

// Holder returns the cart owner of the purchaser. A user always wins over a guest id.
func (p Purchaser) Holder() holds.Holder {
	if p.UserID != nil {
		return holds.UserHolder(*p.UserID)
	}
	if p.GuestID != "" {
		return holds.GuestHolder(p.GuestID)
	}
	return holds.Holder{}
}

type FinalizeItem struct {
	SeatID             uint
	ShowtimeID         uint
	SeatTypeDiscountID *uint
}

func (i FinalizeItem) Key() holds.SeatKey {
	return holds.SeatKey{SeatID: i.SeatID, ShowtimeID: i.ShowtimeID}
}

// FinalizeInput carries a captured payment into the finalizer
type FinalizeInput struct {
	Purchaser     Purchaser
	OrderID       string
	PaymentStatus PaymentStatus
	TotalAmount   float64
	Items         []FinalizeItem
}

// FinalizeResult is the booking for the order. Replayed is set when the order had
// already been finalized earlier and nothing new was written.
type FinalizeResult struct {
	BookingID   uuid.UUID `json:"booking_id"`
	TicketToken string    `json:"ticket_token"`
	Replayed    bool      `json:"replayed"`
}

// TicketSeatRow is one booked seat joined with its catalog data
type TicketSeatRow struct {
	ShowtimeID         uint
	MovieID            uint
	StartTime          time.Time
	EndTime            time.Time
	ScreenName         string
	Row                string
	Number             int
	SeatType           string
	Color              string
	Icon               string
	Price              float64
	DiscountName       *string
	DiscountAmount     *float64
	DiscountPercentage *float64
}

// FinalizedEvent is published once a booking commits
type FinalizedEvent struct {
	BookingID   uuid.UUID  `json:"booking_id"`
	OrderID     string     `json:"order_id"`
	UserID      *uuid.UUID `json:"user_id,omitempty"`
	Email       string     `json:"email"`
	TotalAmount float64    `json:"total_amount"`
	Seats       int        `json:"seats"`
	CreatedAt   time.Time  `json:"created_at"`
}
