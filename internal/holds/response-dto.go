package holds

import "time"

type CartView struct {
	ValidUntil *time.Time `json:"valid_until"`
	Items      []CartItem `json:"items"`
}

type CartItem struct {
	SeatID             uint      `json:"seat_id"`
	ShowtimeID         uint      `json:"showtime_id"`
	Price              float64   `json:"price"`
	SeatTypeDiscountID *uint     `json:"seat_type_discount_id"`
	ReservedUntil      time.Time `json:"reserved_until"`
}

func toCartItem(h Hold) CartItem {
	return CartItem{
		SeatID:             h.SeatID,
		ShowtimeID:         h.ShowtimeID,
		Price:              h.Price,
		SeatTypeDiscountID: h.SeatTypeDiscountID,
		ReservedUntil:      h.ReservedUntil,
	}
}
