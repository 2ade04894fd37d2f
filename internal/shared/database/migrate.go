package database

import (
	"cinephoria/internal/bookings"
	"cinephoria/internal/catalog"
	"cinephoria/internal/holds"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&catalog.Screen{},
		&catalog.SeatType{},
		&catalog.Discount{},
		&catalog.SeatTypeDiscount{},
		&catalog.Seat{},
		&catalog.Showtime{},
		&holds.Cart{},
		&holds.Hold{},
		&bookings.Booking{},
		&bookings.BookedSeat{},
		&bookings.LoyaltyAccount{},
		&bookings.PointsTransaction{},
	)
}
