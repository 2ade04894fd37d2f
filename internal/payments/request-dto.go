package payments

type CreateOrderRequest struct {
	TotalAmount float64 `json:"total_amount" validate:"required,gt=0"`
}

type CaptureOrderRequest struct {
	FirstName   string        `json:"first_name" validate:"required,max=100"`
	LastName    string        `json:"last_name" validate:"required,max=100"`
	Email       string        `json:"email" validate:"required,email"`
	TotalAmount *float64      `json:"total_amount" validate:"required,gte=0"`
	Items       []CaptureItem `json:"items" validate:"required,min=1,dive"`
}

type CaptureItem struct {
	SeatID             uint  `json:"seat_id" validate:"required,gt=0"`
	ShowtimeID         uint  `json:"showtime_id" validate:"required,gt=0"`
	SeatTypeDiscountID *uint `json:"seat_type_discount_id" validate:"omitempty,gt=0"`
}
