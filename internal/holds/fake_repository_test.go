package holds

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"cinephoria/internal/catalog"
	"cinephoria/internal/shared/apperrors"
)

// memState is the in-memory ledger behind fakeRepo. It enforces the same uniqueness
// rules as the seat_holds and holder_carts tables.
type memState struct {
	holds  map[uint]Hold
	carts  map[Holder]Cart
	booked map[SeatKey]bool
	nextID uint
}

func (s *memState) clone() *memState {
	c := &memState{
		holds:  make(map[uint]Hold, len(s.holds)),
		carts:  make(map[Holder]Cart, len(s.carts)),
		booked: make(map[SeatKey]bool, len(s.booked)),
		nextID: s.nextID,
	}
	for k, v := range s.holds {
		c.holds[k] = v
	}
	for k, v := range s.carts {
		c.carts[k] = v
	}
	for k, v := range s.booked {
		c.booked[k] = v
	}
	return c
}

// fakeRepo serializes transactions with a mutex and rolls state back when fn fails.
type fakeRepo struct {
	mu        *sync.Mutex
	state     *memState
	sweepErr  error
	sweepRuns int
	calls     []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		mu: &sync.Mutex{},
		state: &memState{
			holds:  map[uint]Hold{},
			carts:  map[Holder]Cart{},
			booked: map[SeatKey]bool{},
		},
	}
}

func (r *fakeRepo) WithTx(ctx context.Context, fn func(tx Repository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := r.state.clone()
	if err := fn(r); err != nil {
		r.state = snapshot
		return err
	}
	return nil
}

func (r *fakeRepo) SweepExpired(ctx context.Context, now time.Time) (SweepResult, error) {
	r.sweepRuns++
	r.calls = append(r.calls, "SweepExpired")
	if r.sweepErr != nil {
		return SweepResult{}, r.sweepErr
	}

	var result SweepResult
	for id, h := range r.state.holds {
		cart, ok := r.state.carts[h.Holder()]
		if !h.ReservedUntil.After(now) || (ok && !cart.ValidUntil.After(now)) {
			delete(r.state.holds, id)
			result.Holds++
		}
	}
	for holder, cart := range r.state.carts {
		if !cart.ValidUntil.After(now) {
			delete(r.state.carts, holder)
			result.Carts++
		}
	}
	return result, nil
}

func (r *fakeRepo) LockShowtimeShared(ctx context.Context, showtimeID uint) error {
	r.calls = append(r.calls, "LockShowtimeShared")
	return nil
}

func (r *fakeRepo) EnsureCart(ctx context.Context, holder Holder, validUntil time.Time) error {
	if _, ok := r.state.carts[holder]; !ok {
		r.state.carts[holder] = Cart{HolderKind: holder.Kind, HolderID: holder.ID, ValidUntil: validUntil}
	}
	return nil
}

func (r *fakeRepo) GetCart(ctx context.Context, holder Holder) (*Cart, error) {
	cart, ok := r.state.carts[holder]
	if !ok {
		return nil, nil
	}
	return &cart, nil
}

func (r *fakeRepo) Touch(ctx context.Context, holder Holder, validUntil time.Time) error {
	if cart, ok := r.state.carts[holder]; ok {
		cart.ValidUntil = validUntil
		r.state.carts[holder] = cart
	}
	for id, h := range r.state.holds {
		if h.Holder() == holder {
			h.ReservedUntil = validUntil
			r.state.holds[id] = h
		}
	}
	return nil
}

func (r *fakeRepo) InsertHold(ctx context.Context, hold *Hold) (bool, error) {
	for _, h := range r.state.holds {
		if h.Key() == hold.Key() {
			return false, nil
		}
	}
	if _, ok := r.state.carts[hold.Holder()]; !ok {
		return false, errors.New("foreign key violation: holder cart missing")
	}
	r.state.nextID++
	hold.ID = r.state.nextID
	r.state.holds[hold.ID] = *hold
	return true, nil
}

func (r *fakeRepo) FindHold(ctx context.Context, holder Holder, key SeatKey) (*Hold, error) {
	for _, h := range r.state.holds {
		if h.Holder() == holder && h.Key() == key {
			found := h
			return &found, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) UpdateHold(ctx context.Context, id uint, patch HoldPatch) error {
	h, ok := r.state.holds[id]
	if !ok {
		return nil
	}
	patch.Apply(&h)
	r.state.holds[id] = h
	return nil
}

func (r *fakeRepo) DeleteHold(ctx context.Context, holder Holder, key SeatKey) (int64, error) {
	var n int64
	for id, h := range r.state.holds {
		if h.Holder() == holder && h.Key() == key {
			delete(r.state.holds, id)
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) DeleteHolderHolds(ctx context.Context, holder Holder) (int64, error) {
	var n int64
	for id, h := range r.state.holds {
		if h.Holder() == holder {
			delete(r.state.holds, id)
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) ListHolderHolds(ctx context.Context, holder Holder) ([]Hold, error) {
	var out []Hold
	for _, h := range r.state.holds {
		if h.Holder() == holder {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ShowtimeID != out[j].ShowtimeID {
			return out[i].ShowtimeID < out[j].ShowtimeID
		}
		return out[i].SeatID < out[j].SeatID
	})
	return out, nil
}

func (r *fakeRepo) ListActiveHolds(ctx context.Context, showtimeID uint, now time.Time) ([]Hold, error) {
	var out []Hold
	for _, h := range r.state.holds {
		if h.ShowtimeID == showtimeID && h.ReservedUntil.After(now) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *fakeRepo) IsSeatBooked(ctx context.Context, key SeatKey) (bool, error) {
	r.calls = append(r.calls, "IsSeatBooked")
	return r.state.booked[key], nil
}

func (r *fakeRepo) holdCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.state.holds)
}

func (r *fakeRepo) markBooked(key SeatKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.booked[key] = true
}

// fakeCatalog serves a tiny fixed catalog: screens 1 and 2, showtime 7 on screen 1.
type fakeCatalog struct {
	showtimes map[uint]catalog.Showtime
	seats     map[uint]catalog.Seat
	discounts map[uint]uint // seat type discount id -> seat type id
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		showtimes: map[uint]catalog.Showtime{
			7: {ID: 7, ScreenID: 1},
			8: {ID: 8, ScreenID: 2},
		},
		seats: map[uint]catalog.Seat{
			5:  {ID: 5, ScreenID: 1, Row: "A", Number: 5, SeatTypeID: 1},
			6:  {ID: 6, ScreenID: 1, Row: "A", Number: 6, SeatTypeID: 2},
			42: {ID: 42, ScreenID: 1, Row: "D", Number: 2, SeatTypeID: 1},
			90: {ID: 90, ScreenID: 2, Row: "A", Number: 1, SeatTypeID: 1},
		},
		discounts: map[uint]uint{
			1: 1, // student discount on standard seats
			2: 2, // student discount on premium seats
		},
	}
}

func (f *fakeCatalog) GetShowtime(ctx context.Context, id uint) (*catalog.Showtime, error) {
	st, ok := f.showtimes[id]
	if !ok {
		return nil, apperrors.NotFound("showtime not found")
	}
	return &st, nil
}

func (f *fakeCatalog) GetSeat(ctx context.Context, id uint) (*catalog.Seat, error) {
	seat, ok := f.seats[id]
	if !ok {
		return nil, apperrors.NotFound("seat not found")
	}
	return &seat, nil
}

func (f *fakeCatalog) DiscountAppliesToSeat(ctx context.Context, seatTypeDiscountID, seatID uint) (bool, error) {
	seat, err := f.GetSeat(ctx, seatID)
	if err != nil {
		return false, err
	}
	seatTypeID, ok := f.discounts[seatTypeDiscountID]
	if !ok {
		return false, apperrors.NotFound("discount not found")
	}
	return seatTypeID == seat.SeatTypeID, nil
}
