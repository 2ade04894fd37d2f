package availability

import (
	"testing"
	"time"

	"cinephoria/internal/catalog"
	"cinephoria/internal/holds"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var standard = &catalog.SeatType{ID: 1, Name: "Standard", Price: 9.5, Color: "#4a90e2", Icon: "seat"}

func layout() []catalog.Seat {
	return []catalog.Seat{
		{ID: 3, ScreenID: 1, Row: "B", Number: 1, SeatTypeID: 1, SeatType: standard},
		{ID: 2, ScreenID: 1, Row: "A", Number: 2, SeatTypeID: 1, SeatType: standard},
		{ID: 1, ScreenID: 1, Row: "A", Number: 1, SeatTypeID: 1, SeatType: standard},
	}
}

func holdFor(h holds.Holder, seatID uint) holds.Hold {
	return holds.Hold{
		HolderKind:    h.Kind,
		HolderID:      h.ID,
		SeatID:        seatID,
		ShowtimeID:    7,
		ReservedUntil: time.Now().Add(time.Minute),
	}
}

func byID(views []SeatView) map[uint]SeatView {
	out := make(map[uint]SeatView, len(views))
	for _, v := range views {
		out[v.SeatID] = v
	}
	return out
}

func TestResolve_OrdersByRowThenNumber(t *testing.T) {
	views := Resolve(layout(), nil, nil, holds.Holder{})

	require.Len(t, views, 3)
	assert.Equal(t, []uint{1, 2, 3}, []uint{views[0].SeatID, views[1].SeatID, views[2].SeatID})
	assert.Equal(t, "Standard", views[0].Type)
	assert.Equal(t, 9.5, views[0].Price)
	assert.Equal(t, StatusAvailable, views[0].Status)
}

func TestResolve_Priority(t *testing.T) {
	me := holds.UserHolder(uuid.New())
	other := holds.GuestHolder(uuid.NewString())

	tests := []struct {
		name     string
		booked   bool
		holder   *holds.Holder
		self     holds.Holder
		status   SeatStatus
		selfFlag bool
	}{
		{"free", false, nil, me, StatusAvailable, false},
		{"held by self", false, &me, me, StatusAvailable, true},
		{"held by other", false, &other, me, StatusUnavailable, false},
		{"held, anonymous requester", false, &other, holds.Holder{}, StatusUnavailable, false},
		{"booked", true, nil, me, StatusUnavailable, false},
		{"booked and held by self", true, &me, me, StatusUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var active []holds.Hold
			if tt.holder != nil {
				active = append(active, holdFor(*tt.holder, 1))
			}
			booked := map[uint]bool{1: tt.booked}

			view := byID(Resolve(layout(), booked, active, tt.self))[1]
			assert.Equal(t, tt.status, view.Status)
			assert.Equal(t, tt.selfFlag, view.ReservedBySelf)
		})
	}
}

func TestResolve_GuestIDIgnoredWhenUserHolds(t *testing.T) {
	guestID := uuid.NewString()
	guestHold := holdFor(holds.GuestHolder(guestID), 1)

	// a signed-in requester is matched on user id only, even if it also sent the guest id
	user := holds.UserHolder(uuid.New())
	view := byID(Resolve(layout(), nil, []holds.Hold{guestHold}, user))[1]
	assert.Equal(t, StatusUnavailable, view.Status)

	view = byID(Resolve(layout(), nil, []holds.Hold{guestHold}, holds.GuestHolder(guestID)))[1]
	assert.Equal(t, StatusAvailable, view.Status)
	assert.True(t, view.ReservedBySelf)
}
