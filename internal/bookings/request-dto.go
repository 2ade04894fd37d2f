package bookings

// BookingListQuery is the pagination of GET /users/me/bookings
type BookingListQuery struct {
	Page  int `form:"page" validate:"omitempty,min=1"`
	Limit int `form:"limit" validate:"omitempty,min=1,max=100"`
}
