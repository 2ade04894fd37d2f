package availability

import (
	"sort"

	"cinephoria/internal/catalog"
	"cinephoria/internal/holds"
)

type SeatStatus string

const (
	StatusAvailable   SeatStatus = "available"
	StatusUnavailable SeatStatus = "unavailable"
)

// SeatView is one seat of a showtime as seen by a particular requester.
// Unavailable does not say whether the seat is booked or held by someone else.
type SeatView struct {
	SeatID         uint       `json:"seat_id"`
	Row            string     `json:"row"`
	Number         int        `json:"number"`
	SeatTypeID     uint       `json:"seat_type_id"`
	Type           string     `json:"type"`
	Price          float64    `json:"price"`
	Color          string     `json:"color"`
	Icon           string     `json:"icon"`
	Status         SeatStatus `json:"status"`
	ReservedBySelf bool       `json:"reserved_by_self"`
}

// Resolve annotates seats with their status for self. Priority is booked, then held by
// another holder, then held by self, then available. holds must already exclude expired
// rows. A zero self never owns a hold. The result is ordered by row then number.
func Resolve(seats []catalog.Seat, booked map[uint]bool, active []holds.Hold, self holds.Holder) []SeatView {
	heldBy := make(map[uint]holds.Holder, len(active))
	for _, h := range active {
		heldBy[h.SeatID] = h.Holder()
	}

	views := make([]SeatView, 0, len(seats))
	for _, seat := range seats {
		view := SeatView{
			SeatID:     seat.ID,
			Row:        seat.Row,
			Number:     seat.Number,
			SeatTypeID: seat.SeatTypeID,
			Status:     StatusAvailable,
		}
		if seat.SeatType != nil {
			view.Type = seat.SeatType.Name
			view.Price = seat.SeatType.Price
			view.Color = seat.SeatType.Color
			view.Icon = seat.SeatType.Icon
		}

		holder, held := heldBy[seat.ID]
		switch {
		case booked[seat.ID]:
			view.Status = StatusUnavailable
		case held && (self.IsZero() || holder != self):
			view.Status = StatusUnavailable
		case held:
			view.ReservedBySelf = true
		}

		views = append(views, view)
	}

	sort.SliceStable(views, func(i, j int) bool {
		if views[i].Row != views[j].Row {
			return views[i].Row < views[j].Row
		}
		return views[i].Number < views[j].Number
	})
	return views
}
