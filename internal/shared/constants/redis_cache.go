package constants

import (
	"fmt"
	"time"
)

// Redis key layout: cinephoria:{module}:{entity}:{identifier}

// Catalog data is reference data owned by admin tooling; it changes rarely.
const (
	TTL_CATALOG_LONG  = 6 * time.Hour
	TTL_CATALOG_SHORT = 10 * time.Minute
)

const (
	CACHE_PREFIX = "cinephoria"

	CACHE_KEY_SHOWTIME      = CACHE_PREFIX + ":catalog:showtime:"      // + showtime-id
	CACHE_KEY_SCREEN_LAYOUT = CACHE_PREFIX + ":catalog:screen_layout:" // + screen-id
	CACHE_KEY_SEAT          = CACHE_PREFIX + ":catalog:seat:"          // + seat-id
	CACHE_KEY_SEAT_TYPES    = CACHE_PREFIX + ":catalog:seat_types"

	CACHE_PATTERN_CATALOG = CACHE_PREFIX + ":catalog:*"

	RATE_LIMIT_PREFIX = CACHE_PREFIX + ":ratelimit:"
)

// Seat availability is never cached: it is resolved from the store on every read.

func ShowtimeKey(showtimeID uint) string {
	return fmt.Sprintf("%s%d", CACHE_KEY_SHOWTIME, showtimeID)
}

func ScreenLayoutKey(screenID uint) string {
	return fmt.Sprintf("%s%d", CACHE_KEY_SCREEN_LAYOUT, screenID)
}

func SeatKey(seatID uint) string {
	return fmt.Sprintf("%s%d", CACHE_KEY_SEAT, seatID)
}

func RateLimitKey(clientIP, limitType string) string {
	return fmt.Sprintf("%s%s:%s", RATE_LIMIT_PREFIX, clientIP, limitType)
}
