package bookings

import (
	"time"

	"github.com/google/uuid"
)

type BookingResponse struct {
	BookingID      uuid.UUID           `json:"booking_id"`
	UserID         *uuid.UUID          `json:"user_id,omitempty"`
	FirstName      string              `json:"first_name"`
	LastName       string              `json:"last_name"`
	Email          string              `json:"email"`
	PaymentStatus  string              `json:"payment_status"`
	PaymentOrderID string              `json:"payment_order_id"`
	TotalAmount    float64             `json:"total_amount"`
	TicketToken    string              `json:"ticket_token"`
	Seats          []BookedSeatSummary `json:"seats"`
	CreatedAt      time.Time           `json:"created_at"`
}

type BookedSeatSummary struct {
	SeatID             uint    `json:"seat_id"`
	ShowtimeID         uint    `json:"showtime_id"`
	SeatTypeDiscountID *uint   `json:"seat_type_discount_id,omitempty"`
	Price              float64 `json:"price"`
}

type BookingListResponse struct {
	Bookings   []BookingResponse `json:"bookings"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

// TicketResponse is what the ticket page and the entrance scanner show
type TicketResponse struct {
	BookingID     uuid.UUID        `json:"booking_id"`
	FirstName     string           `json:"first_name"`
	LastName      string           `json:"last_name"`
	Email         string           `json:"email"`
	PaymentStatus string           `json:"payment_status"`
	TotalAmount   float64          `json:"total_amount"`
	CreatedAt     time.Time        `json:"created_at"`
	Showtimes     []TicketShowtime `json:"showtimes"`
}

type TicketShowtime struct {
	ShowtimeID uint         `json:"showtime_id"`
	MovieID    uint         `json:"movie_id"`
	StartTime  time.Time    `json:"start_time"`
	EndTime    time.Time    `json:"end_time"`
	Screen     string       `json:"screen"`
	Seats      []TicketSeat `json:"seats"`
}

type TicketSeat struct {
	Row                string   `json:"row"`
	Number             int      `json:"number"`
	Type               string   `json:"type"`
	Color              string   `json:"color"`
	Icon               string   `json:"icon"`
	Price              float64  `json:"price"`
	DiscountName       *string  `json:"discount_name,omitempty"`
	DiscountAmount     *float64 `json:"discount_amount,omitempty"`
	DiscountPercentage *float64 `json:"discount_percentage,omitempty"`
}

type PointsResponse struct {
	UserID  uuid.UUID            `json:"user_id"`
	Points  int                  `json:"points"`
	History []PointsHistoryEntry `json:"history"`
}

type PointsHistoryEntry struct {
	PointsChange int        `json:"points_change"`
	Description  string     `json:"description"`
	BookingID    *uuid.UUID `json:"booking_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func toBookingResponse(b *Booking) BookingResponse {
	resp := BookingResponse{
		BookingID:      b.ID,
		UserID:         b.UserID,
		FirstName:      b.FirstName,
		LastName:       b.LastName,
		Email:          b.Email,
		PaymentStatus:  b.PaymentStatus.String(),
		PaymentOrderID: b.PaymentOrderID,
		TotalAmount:    b.TotalAmount,
		TicketToken:    b.TicketToken,
		Seats:          make([]BookedSeatSummary, 0, len(b.Seats)),
		CreatedAt:      b.CreatedAt,
	}
	for _, s := range b.Seats {
		resp.Seats = append(resp.Seats, BookedSeatSummary{
			SeatID:             s.SeatID,
			ShowtimeID:         s.ShowtimeID,
			SeatTypeDiscountID: s.SeatTypeDiscountID,
			Price:              s.Price,
		})
	}
	return resp
}

// toTicketResponse groups rows by showtime, keeping the order the rows came in
func toTicketResponse(b *Booking, rows []TicketSeatRow) *TicketResponse {
	resp := &TicketResponse{
		BookingID:     b.ID,
		FirstName:     b.FirstName,
		LastName:      b.LastName,
		Email:         b.Email,
		PaymentStatus: b.PaymentStatus.String(),
		TotalAmount:   b.TotalAmount,
		CreatedAt:     b.CreatedAt,
		Showtimes:     []TicketShowtime{},
	}

	index := make(map[uint]int)
	for _, row := range rows {
		i, ok := index[row.ShowtimeID]
		if !ok {
			i = len(resp.Showtimes)
			index[row.ShowtimeID] = i
			resp.Showtimes = append(resp.Showtimes, TicketShowtime{
				ShowtimeID: row.ShowtimeID,
				MovieID:    row.MovieID,
				StartTime:  row.StartTime,
				EndTime:    row.EndTime,
				Screen:     row.ScreenName,
			})
		}
		resp.Showtimes[i].Seats = append(resp.Showtimes[i].Seats, TicketSeat{
			Row:                row.Row,
			Number:             row.Number,
			Type:               row.SeatType,
			Color:              row.Color,
			Icon:               row.Icon,
			Price:              row.Price,
			DiscountName:       row.DiscountName,
			DiscountAmount:     row.DiscountAmount,
			DiscountPercentage: row.DiscountPercentage,
		})
	}
	return resp
}

func toPointsResponse(account *LoyaltyAccount, history []PointsTransaction) *PointsResponse {
	resp := &PointsResponse{
		UserID:  account.UserID,
		Points:  account.Points,
		History: make([]PointsHistoryEntry, 0, len(history)),
	}
	for _, h := range history {
		resp.History = append(resp.History, PointsHistoryEntry{
			PointsChange: h.PointsChange,
			Description:  h.Description,
			BookingID:    h.BookingID,
			CreatedAt:    h.CreatedAt,
		})
	}
	return resp
}
