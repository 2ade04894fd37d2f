package catalog

import (
	"time"
)

// Catalog tables are maintained by admin tooling. The reservation engine only reads them.

// Screen is a cinema hall
type Screen struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null;unique" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// SeatType defines price and presentation for a class of seats
type SeatType struct {
	ID        uint               `gorm:"primaryKey" json:"id"`
	Name      string             `gorm:"type:varchar(50);not null;unique" json:"name"`
	Price     float64            `gorm:"type:numeric(10,2);not null;check:price >= 0" json:"price"`
	Color     string             `gorm:"type:varchar(20)" json:"color"`
	Icon      string             `gorm:"type:varchar(100)" json:"icon"`
	Discounts []SeatTypeDiscount `gorm:"foreignKey:SeatTypeID" json:"discounts,omitempty"`
}

// Discount is a named reduction (student, senior, ...)
type Discount struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(100);not null;unique" json:"name"`
	Description string `json:"description"`
}

// SeatTypeDiscount applies a Discount to a SeatType, either as a fixed amount or a percentage.
type SeatTypeDiscount struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	SeatTypeID         uint      `gorm:"not null;uniqueIndex:idx_seat_type_discount" json:"seat_type_id"`
	DiscountID         uint      `gorm:"not null;uniqueIndex:idx_seat_type_discount" json:"discount_id"`
	DiscountAmount     *float64  `gorm:"type:numeric(10,2)" json:"discount_amount,omitempty"`
	DiscountPercentage *float64  `gorm:"type:numeric(5,2)" json:"discount_percentage,omitempty"`
	Discount           *Discount `gorm:"foreignKey:DiscountID" json:"discount,omitempty"`
}

// Seat is a physical seat of a screen
type Seat struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ScreenID   uint      `gorm:"not null;uniqueIndex:idx_screen_row_number" json:"screen_id"`
	Row        string    `gorm:"type:varchar(5);not null;uniqueIndex:idx_screen_row_number" json:"row"`
	Number     int       `gorm:"not null;uniqueIndex:idx_screen_row_number" json:"number"`
	SeatTypeID uint      `gorm:"not null;index" json:"seat_type_id"`
	SeatType   *SeatType `gorm:"foreignKey:SeatTypeID" json:"seat_type,omitempty"`
}

// Showtime is a screening of a movie on a screen
type Showtime struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	MovieID   uint      `gorm:"not null;index" json:"movie_id"`
	ScreenID  uint      `gorm:"not null;index" json:"screen_id"`
	StartTime time.Time `gorm:"not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`
}

func (Screen) TableName() string           { return "screens" }
func (SeatType) TableName() string         { return "seat_types" }
func (Discount) TableName() string         { return "discounts" }
func (SeatTypeDiscount) TableName() string { return "seat_type_discounts" }
func (Seat) TableName() string             { return "seats" }
func (Showtime) TableName() string         { return "showtimes" }

// Apply returns price reduced by this discount, never below zero.
func (d *SeatTypeDiscount) Apply(price float64) float64 {
	switch {
	case d.DiscountAmount != nil:
		price -= *d.DiscountAmount
	case d.DiscountPercentage != nil:
		price -= price * *d.DiscountPercentage / 100
	}
	if price < 0 {
		return 0
	}
	return price
}
