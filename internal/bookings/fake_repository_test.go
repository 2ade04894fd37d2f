package bookings

import (
	"context"
	"sort"
	"sync"
	"time"

	"cinephoria/internal/catalog"
	"cinephoria/internal/holds"
	"cinephoria/internal/shared/apperrors"

	"github.com/google/uuid"
)

type memState struct {
	showtimes map[uint]bool
	holds     []holds.Hold
	bookings  map[uuid.UUID]Booking
	booked    map[holds.SeatKey]BookedSeat
	loyalty   map[uuid.UUID]LoyaltyAccount
	points    []PointsTransaction
}

func (s *memState) clone() *memState {
	c := &memState{
		showtimes: s.showtimes,
		holds:     append([]holds.Hold(nil), s.holds...),
		bookings:  make(map[uuid.UUID]Booking, len(s.bookings)),
		booked:    make(map[holds.SeatKey]BookedSeat, len(s.booked)),
		loyalty:   make(map[uuid.UUID]LoyaltyAccount, len(s.loyalty)),
		points:    append([]PointsTransaction(nil), s.points...),
	}
	for k, v := range s.bookings {
		c.bookings[k] = v
	}
	for k, v := range s.booked {
		c.booked[k] = v
	}
	for k, v := range s.loyalty {
		c.loyalty[k] = v
	}
	return c
}

// fakeRepo runs transactions one at a time and restores the previous state on error,
// enforcing the unique indexes on booked_seats and bookings.payment_order_id.
type fakeRepo struct {
	mu        sync.Mutex
	state     *memState
	creditErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{state: &memState{
		showtimes: map[uint]bool{7: true, 8: true},
		bookings:  map[uuid.UUID]Booking{},
		booked:    map[holds.SeatKey]BookedSeat{},
		loyalty:   map[uuid.UUID]LoyaltyAccount{},
	}}
}

func (r *fakeRepo) WithTx(ctx context.Context, fn func(tx Repository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := r.state.clone()
	if err := fn(&fakeTx{r}); err != nil {
		r.state = snapshot
		return err
	}
	return nil
}

func (r *fakeRepo) addHold(h holds.Hold) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.holds = append(r.state.holds, h)
}

func (r *fakeRepo) addBooked(key holds.SeatKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.booked[key] = BookedSeat{SeatID: key.SeatID, ShowtimeID: key.ShowtimeID, BookingID: uuid.New()}
}

func (r *fakeRepo) snapshot() *memState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.clone()
}

// Outside a transaction the repo reads under its own lock.
func (r *fakeRepo) FindByOrderID(ctx context.Context, orderID string) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (&fakeTx{r}).FindByOrderID(ctx, orderID)
}

func (r *fakeRepo) LockShowtimes(ctx context.Context, ids []uint) ([]uint, error) {
	return (&fakeTx{r}).LockShowtimes(ctx, ids)
}

func (r *fakeRepo) LockBookedSeats(ctx context.Context, keys []holds.SeatKey) ([]BookedSeat, error) {
	return (&fakeTx{r}).LockBookedSeats(ctx, keys)
}

func (r *fakeRepo) ListActiveHoldsOn(ctx context.Context, keys []holds.SeatKey, now time.Time) ([]holds.Hold, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (&fakeTx{r}).ListActiveHoldsOn(ctx, keys, now)
}

func (r *fakeRepo) FindBookedSeats(ctx context.Context, keys []holds.SeatKey) ([]BookedSeat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (&fakeTx{r}).FindBookedSeats(ctx, keys)
}

func (r *fakeRepo) CreateBooking(ctx context.Context, booking *Booking) error {
	return (&fakeTx{r}).CreateBooking(ctx, booking)
}

func (r *fakeRepo) DeleteHolds(ctx context.Context, holder holds.Holder, keys []holds.SeatKey) (int64, error) {
	return (&fakeTx{r}).DeleteHolds(ctx, holder, keys)
}

func (r *fakeRepo) CreditPoints(ctx context.Context, entry *PointsTransaction) error {
	return (&fakeTx{r}).CreditPoints(ctx, entry)
}

func (r *fakeRepo) GetBooking(ctx context.Context, id uuid.UUID) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.state.bookings[id]
	if !ok {
		return nil, apperrors.NotFound("booking not found")
	}
	return &b, nil
}

func (r *fakeRepo) GetBookingByTicketToken(ctx context.Context, token string) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.state.bookings {
		if b.TicketToken == token {
			found := b
			return &found, nil
		}
	}
	return nil, apperrors.NotFound("ticket not found")
}

func (r *fakeRepo) ListTicketSeats(ctx context.Context, bookingID uuid.UUID) ([]TicketSeatRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rows []TicketSeatRow
	for _, s := range r.state.bookings[bookingID].Seats {
		rows = append(rows, TicketSeatRow{
			ShowtimeID: s.ShowtimeID,
			ScreenName: "Saal 1",
			Row:        "A",
			Number:     int(s.SeatID),
			SeatType:   "Standard",
			Price:      s.Price,
		})
	}
	return rows, nil
}

func (r *fakeRepo) ListUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Booking
	for _, b := range r.state.bookings {
		if b.UserID != nil && *b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PaymentOrderID < out[j].PaymentOrderID })
	return out, int64(len(out)), nil
}

func (r *fakeRepo) GetLoyalty(ctx context.Context, userID uuid.UUID, limit int) (*LoyaltyAccount, []PointsTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.state.loyalty[userID]
	if !ok {
		account = LoyaltyAccount{UserID: userID}
	}
	var history []PointsTransaction
	for _, p := range r.state.points {
		if p.UserID == userID {
			history = append(history, p)
		}
	}
	return &account, history, nil
}

func (r *fakeRepo) ListBookedSeatIDs(ctx context.Context, showtimeID uint) ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uint
	for key := range r.state.booked {
		if key.ShowtimeID == showtimeID {
			ids = append(ids, key.SeatID)
		}
	}
	return ids, nil
}

// fakeTx is the repository handed to WithTx callbacks. The lock is already held.
type fakeTx struct {
	r *fakeRepo
}

func (t *fakeTx) WithTx(ctx context.Context, fn func(tx Repository) error) error {
	return fn(t)
}

func (t *fakeTx) FindByOrderID(ctx context.Context, orderID string) (*Booking, error) {
	for _, b := range t.r.state.bookings {
		if b.PaymentOrderID == orderID {
			found := b
			return &found, nil
		}
	}
	return nil, nil
}

func (t *fakeTx) LockShowtimes(ctx context.Context, ids []uint) ([]uint, error) {
	var found []uint
	for _, id := range ids {
		if t.r.state.showtimes[id] {
			found = append(found, id)
		}
	}
	return found, nil
}

func (t *fakeTx) LockBookedSeats(ctx context.Context, keys []holds.SeatKey) ([]BookedSeat, error) {
	var out []BookedSeat
	for _, k := range keys {
		if s, ok := t.r.state.booked[k]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (t *fakeTx) FindBookedSeats(ctx context.Context, keys []holds.SeatKey) ([]BookedSeat, error) {
	return t.LockBookedSeats(ctx, keys)
}

func (t *fakeTx) ListActiveHoldsOn(ctx context.Context, keys []holds.SeatKey, now time.Time) ([]holds.Hold, error) {
	wanted := make(map[holds.SeatKey]bool, len(keys))
	for _, k := range keys {
		wanted[k] = true
	}
	var out []holds.Hold
	for _, h := range t.r.state.holds {
		if wanted[h.Key()] && h.ReservedUntil.After(now) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (t *fakeTx) CreateBooking(ctx context.Context, booking *Booking) error {
	for _, b := range t.r.state.bookings {
		if b.PaymentOrderID == booking.PaymentOrderID {
			return apperrors.Conflict("duplicate payment_order_id")
		}
	}
	for _, s := range booking.Seats {
		if _, ok := t.r.state.booked[s.Key()]; ok {
			return apperrors.Conflict("duplicate booked seat")
		}
	}
	for _, s := range booking.Seats {
		t.r.state.booked[s.Key()] = s
	}
	t.r.state.bookings[booking.ID] = *booking
	return nil
}

func (t *fakeTx) DeleteHolds(ctx context.Context, holder holds.Holder, keys []holds.SeatKey) (int64, error) {
	wanted := make(map[holds.SeatKey]bool, len(keys))
	for _, k := range keys {
		wanted[k] = true
	}
	var kept []holds.Hold
	var n int64
	for _, h := range t.r.state.holds {
		if h.Holder() == holder && wanted[h.Key()] {
			n++
			continue
		}
		kept = append(kept, h)
	}
	t.r.state.holds = kept
	return n, nil
}

func (t *fakeTx) CreditPoints(ctx context.Context, entry *PointsTransaction) error {
	if t.r.creditErr != nil {
		return t.r.creditErr
	}
	account := t.r.state.loyalty[entry.UserID]
	account.UserID = entry.UserID
	account.Points += entry.PointsChange
	t.r.state.loyalty[entry.UserID] = account
	t.r.state.points = append(t.r.state.points, *entry)
	return nil
}

func (t *fakeTx) GetBooking(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return nil, apperrors.NotFound("booking not found")
}

func (t *fakeTx) GetBookingByTicketToken(ctx context.Context, token string) (*Booking, error) {
	return nil, apperrors.NotFound("ticket not found")
}

func (t *fakeTx) ListTicketSeats(ctx context.Context, bookingID uuid.UUID) ([]TicketSeatRow, error) {
	return nil, nil
}

func (t *fakeTx) ListUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	return nil, 0, nil
}

func (t *fakeTx) GetLoyalty(ctx context.Context, userID uuid.UUID, limit int) (*LoyaltyAccount, []PointsTransaction, error) {
	return nil, nil, nil
}

func (t *fakeTx) ListBookedSeatIDs(ctx context.Context, showtimeID uint) ([]uint, error) {
	return nil, nil
}

var standardType = &catalog.SeatType{ID: 1, Name: "Standard", Price: 9.5}

type fakeCatalog struct{}

func (fakeCatalog) GetShowtime(ctx context.Context, id uint) (*catalog.Showtime, error) {
	switch id {
	case 7:
		return &catalog.Showtime{ID: 7, ScreenID: 1}, nil
	case 8:
		return &catalog.Showtime{ID: 8, ScreenID: 2}, nil
	}
	return nil, apperrors.NotFound("showtime not found")
}

func (fakeCatalog) GetSeat(ctx context.Context, id uint) (*catalog.Seat, error) {
	switch {
	case id >= 1 && id <= 50:
		return &catalog.Seat{ID: id, ScreenID: 1, Row: "A", Number: int(id), SeatTypeID: 1, SeatType: standardType}, nil
	case id > 50 && id <= 100:
		return &catalog.Seat{ID: id, ScreenID: 2, Row: "A", Number: int(id - 50), SeatTypeID: 1, SeatType: standardType}, nil
	}
	return nil, apperrors.NotFound("seat not found")
}

func (fakeCatalog) DiscountAppliesToSeat(ctx context.Context, seatTypeDiscountID, seatID uint) (bool, error) {
	switch seatTypeDiscountID {
	case 1:
		return true, nil
	case 2:
		return false, nil
	}
	return false, apperrors.NotFound("discount not found")
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []FinalizedEvent
}

func (p *recordingPublisher) PublishBookingFinalized(ctx context.Context, event FinalizedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}
