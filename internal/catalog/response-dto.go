package catalog

import "time"

type SeatTypeResponse struct {
	ID        uint               `json:"seat_type_id"`
	Name      string             `json:"name"`
	Price     float64            `json:"price"`
	Color     string             `json:"color"`
	Icon      string             `json:"icon"`
	Discounts []DiscountResponse `json:"discounts"`
}

type DiscountResponse struct {
	SeatTypeDiscountID uint     `json:"seat_type_discount_id"`
	DiscountID         uint     `json:"discount_id"`
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	DiscountAmount     *float64 `json:"discount_amount,omitempty"`
	DiscountPercentage *float64 `json:"discount_percentage,omitempty"`
}

type ShowtimeResponse struct {
	ID        uint      `json:"showtime_id"`
	MovieID   uint      `json:"movie_id"`
	ScreenID  uint      `json:"screen_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

func toSeatTypeResponses(types []SeatType) []SeatTypeResponse {
	out := make([]SeatTypeResponse, 0, len(types))
	for _, st := range types {
		resp := SeatTypeResponse{
			ID:        st.ID,
			Name:      st.Name,
			Price:     st.Price,
			Color:     st.Color,
			Icon:      st.Icon,
			Discounts: make([]DiscountResponse, 0, len(st.Discounts)),
		}
		for _, d := range st.Discounts {
			dr := DiscountResponse{
				SeatTypeDiscountID: d.ID,
				DiscountID:         d.DiscountID,
				DiscountAmount:     d.DiscountAmount,
				DiscountPercentage: d.DiscountPercentage,
			}
			if d.Discount != nil {
				dr.Name = d.Discount.Name
				dr.Description = d.Discount.Description
			}
			resp.Discounts = append(resp.Discounts, dr)
		}
		out = append(out, resp)
	}
	return out
}

func toShowtimeResponse(s *Showtime) ShowtimeResponse {
	return ShowtimeResponse{
		ID:        s.ID,
		MovieID:   s.MovieID,
		ScreenID:  s.ScreenID,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
	}
}
