package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"cinephoria/internal/catalog"
	"cinephoria/internal/shared/config"
	"cinephoria/internal/shared/constants"
	"cinephoria/internal/shared/database"
	"cinephoria/pkg/cache"

	"gorm.io/gorm"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("Starting Cinephoria database seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\nCleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}

	fmt.Println("\nSeeding catalog...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Println("\nSeeding completed. Database is ready for testing.")
}

// CleanDatabase truncates all tables, dependents first
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"points_transactions",
		"loyalty_accounts",
		"booked_seats",
		"bookings",
		"seat_holds",
		"holder_carts",
		"showtimes",
		"seats",
		"seat_type_discounts",
		"discounts",
		"seat_types",
		"screens",
	}

	return s.db.PostgreSQL.Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			fmt.Printf("  Truncating table: %s\n", table)
			if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
				return fmt.Errorf("failed to truncate table %s: %w", table, err)
			}
		}
		return nil
	})
}

// SeedAll seeds two screens, their seats, seat types with discounts, and a week of showtimes
func (s *Seeder) SeedAll() error {
	err := s.db.PostgreSQL.Transaction(func(tx *gorm.DB) error {
		seatTypes, err := s.seedSeatTypes(tx)
		if err != nil {
			return fmt.Errorf("failed to seed seat types: %w", err)
		}

		screens, err := s.seedScreens(tx, seatTypes)
		if err != nil {
			return fmt.Errorf("failed to seed screens: %w", err)
		}

		if err := s.seedShowtimes(tx, screens); err != nil {
			return fmt.Errorf("failed to seed showtimes: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// cached catalog entries would point at truncated ids
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := cache.NewService(s.db.Redis).DeletePattern(ctx, constants.CACHE_PATTERN_CATALOG); err != nil {
		log.Printf("Warning: failed to clear catalog cache: %v", err)
	}
	return nil
}

func (s *Seeder) seedSeatTypes(tx *gorm.DB) (map[string]uint, error) {
	fmt.Println("  Seeding seat types and discounts...")

	discounts := []catalog.Discount{
		{Name: "Student", Description: "Valid student card required"},
		{Name: "Senior", Description: "65 and over"},
		{Name: "Child", Description: "Under 12"},
	}
	if err := tx.Create(&discounts).Error; err != nil {
		return nil, err
	}

	percent := func(v float64) *float64 { return &v }

	types := []struct {
		seatType  catalog.SeatType
		discounts []catalog.SeatTypeDiscount
	}{
		{
			seatType: catalog.SeatType{Name: "Standard", Price: 9.50, Color: "#4A90D9", Icon: "seat"},
			discounts: []catalog.SeatTypeDiscount{
				{DiscountID: discounts[0].ID, DiscountPercentage: percent(20)},
				{DiscountID: discounts[1].ID, DiscountAmount: percent(2)},
				{DiscountID: discounts[2].ID, DiscountAmount: percent(3.5)},
			},
		},
		{
			seatType: catalog.SeatType{Name: "Premium", Price: 13.00, Color: "#D4AF37", Icon: "seat-premium"},
			discounts: []catalog.SeatTypeDiscount{
				{DiscountID: discounts[0].ID, DiscountPercentage: percent(10)},
			},
		},
		{
			seatType: catalog.SeatType{Name: "Accessible", Price: 9.50, Color: "#2E8B57", Icon: "wheelchair"},
			discounts: []catalog.SeatTypeDiscount{
				{DiscountID: discounts[1].ID, DiscountAmount: percent(2)},
			},
		},
	}

	ids := make(map[string]uint, len(types))
	for _, t := range types {
		seatType := t.seatType
		if err := tx.Create(&seatType).Error; err != nil {
			return nil, fmt.Errorf("failed to create seat type %s: %w", seatType.Name, err)
		}
		for _, d := range t.discounts {
			d.SeatTypeID = seatType.ID
			if err := tx.Create(&d).Error; err != nil {
				return nil, fmt.Errorf("failed to attach discount to %s: %w", seatType.Name, err)
			}
		}
		ids[seatType.Name] = seatType.ID
		fmt.Printf("    Created seat type: %s (%.2f)\n", seatType.Name, seatType.Price)
	}
	return ids, nil
}

func (s *Seeder) seedScreens(tx *gorm.DB, seatTypes map[string]uint) ([]catalog.Screen, error) {
	fmt.Println("  Seeding screens and seats...")

	layouts := []struct {
		name    string
		rows    []string
		perRow  int
		premium map[string]bool
	}{
		{"Salle 1", []string{"A", "B", "C", "D", "E", "F", "G", "H"}, 12, map[string]bool{"E": true, "F": true}},
		{"Salle 2", []string{"A", "B", "C", "D", "E"}, 10, map[string]bool{"D": true}},
	}

	screens := make([]catalog.Screen, 0, len(layouts))
	for _, layout := range layouts {
		screen := catalog.Screen{Name: layout.name}
		if err := tx.Create(&screen).Error; err != nil {
			return nil, fmt.Errorf("failed to create screen %s: %w", layout.name, err)
		}

		seats := make([]catalog.Seat, 0, len(layout.rows)*layout.perRow)
		for i, row := range layout.rows {
			for number := 1; number <= layout.perRow; number++ {
				seatType := seatTypes["Standard"]
				switch {
				case i == 0 && (number == 1 || number == layout.perRow):
					seatType = seatTypes["Accessible"]
				case layout.premium[row]:
					seatType = seatTypes["Premium"]
				}
				seats = append(seats, catalog.Seat{ScreenID: screen.ID, Row: row, Number: number, SeatTypeID: seatType})
			}
		}
		if err := tx.CreateInBatches(&seats, 100).Error; err != nil {
			return nil, fmt.Errorf("failed to create seats for %s: %w", layout.name, err)
		}

		screens = append(screens, screen)
		fmt.Printf("    Created screen: %s with %d seats\n", screen.Name, len(seats))
	}
	return screens, nil
}

func (s *Seeder) seedShowtimes(tx *gorm.DB, screens []catalog.Screen) error {
	fmt.Println("  Seeding showtimes...")

	start := time.Now().UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
	slots := []time.Duration{14 * time.Hour, 17 * time.Hour, 20*time.Hour + 30*time.Minute}

	count := 0
	for day := 0; day < 7; day++ {
		for i, screen := range screens {
			for j, slot := range slots {
				begins := start.Add(time.Duration(day)*24*time.Hour + slot)
				showtime := catalog.Showtime{
					MovieID:   uint((i+j)%3 + 1),
					ScreenID:  screen.ID,
					StartTime: begins,
					EndTime:   begins.Add(2*time.Hour + 10*time.Minute),
				}
				if err := tx.Create(&showtime).Error; err != nil {
					return err
				}
				count++
			}
		}
	}

	fmt.Printf("    Created %d showtimes\n", count)
	return nil
}
