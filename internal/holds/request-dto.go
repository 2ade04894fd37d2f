package holds

type HoldSeatRequest struct {
	SeatID             uint     `json:"seat_id" validate:"required,gt=0"`
	ShowtimeID         uint     `json:"showtime_id" validate:"required,gt=0"`
	Price              *float64 `json:"price" validate:"required,gte=0"`
	SeatTypeDiscountID *uint    `json:"seat_type_discount_id" validate:"omitempty,gt=0"`
}

// SetDiscountRequest sets the discount of a held seat; a null seat_type_discount_id clears it.
type SetDiscountRequest struct {
	SeatID             uint  `json:"seat_id" validate:"required,gt=0"`
	ShowtimeID         uint  `json:"showtime_id" validate:"required,gt=0"`
	SeatTypeDiscountID *uint `json:"seat_type_discount_id" validate:"omitempty,gt=0"`
}
