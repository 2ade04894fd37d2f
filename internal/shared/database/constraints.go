package database

import (
	"fmt"

	"gorm.io/gorm"
)

type constraint struct {
	table      string
	name       string
	definition string
}

// Foreign keys are added here because AutoMigrate runs with them disabled and cannot
// express the composite holder key.
var constraints = []constraint{
	{"seat_holds", "fk_seat_holds_cart",
		"FOREIGN KEY (holder_kind, holder_id) REFERENCES holder_carts (holder_kind, holder_id) ON DELETE CASCADE"},
	{"seat_holds", "fk_seat_holds_seat", "FOREIGN KEY (seat_id) REFERENCES seats (id)"},
	{"seat_holds", "fk_seat_holds_showtime", "FOREIGN KEY (showtime_id) REFERENCES showtimes (id)"},
	{"seat_holds", "fk_seat_holds_discount", "FOREIGN KEY (seat_type_discount_id) REFERENCES seat_type_discounts (id)"},
	{"booked_seats", "fk_booked_seats_booking", "FOREIGN KEY (booking_id) REFERENCES bookings (id) ON DELETE CASCADE"},
	{"booked_seats", "fk_booked_seats_seat", "FOREIGN KEY (seat_id) REFERENCES seats (id)"},
	{"booked_seats", "fk_booked_seats_showtime", "FOREIGN KEY (showtime_id) REFERENCES showtimes (id)"},
	{"seats", "fk_seats_screen", "FOREIGN KEY (screen_id) REFERENCES screens (id)"},
	{"seats", "fk_seats_seat_type", "FOREIGN KEY (seat_type_id) REFERENCES seat_types (id)"},
	{"showtimes", "fk_showtimes_screen", "FOREIGN KEY (screen_id) REFERENCES screens (id)"},
	{"seat_type_discounts", "fk_seat_type_discounts_seat_type", "FOREIGN KEY (seat_type_id) REFERENCES seat_types (id)"},
	{"seat_type_discounts", "fk_seat_type_discounts_discount", "FOREIGN KEY (discount_id) REFERENCES discounts (id)"},
	{"points_transactions", "fk_points_transactions_booking", "FOREIGN KEY (booking_id) REFERENCES bookings (id)"},
}

// MigrateConstraints adds the foreign keys. Safe to run on every start.
func MigrateConstraints(db *gorm.DB) error {
	for _, c := range constraints {
		stmt := fmt.Sprintf(`
			DO $$
			BEGIN
				IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%s') THEN
					ALTER TABLE %s ADD CONSTRAINT %s %s;
				END IF;
			END $$;`, c.name, c.table, c.name, c.definition)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("constraint %s: %w", c.name, err)
		}
	}

	return nil
}
