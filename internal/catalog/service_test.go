package catalog

import (
	"context"
	"sync"
	"testing"

	"cinephoria/internal/shared/apperrors"
	"cinephoria/pkg/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu        sync.Mutex
	calls     map[string]int
	showtimes map[uint]*Showtime
	seats     map[uint]*Seat
	discounts map[uint]*SeatTypeDiscount
}

func newFakeRepo() *fakeRepo {
	amount := 2.0
	return &fakeRepo{
		calls: map[string]int{},
		showtimes: map[uint]*Showtime{
			7: {ID: 7, MovieID: 1, ScreenID: 1},
		},
		seats: map[uint]*Seat{
			5: {ID: 5, ScreenID: 1, Row: "A", Number: 2, SeatTypeID: 1, SeatType: &SeatType{ID: 1, Name: "Standard", Price: 9.5}},
			6: {ID: 6, ScreenID: 1, Row: "A", Number: 1, SeatTypeID: 2, SeatType: &SeatType{ID: 2, Name: "Premium", Price: 13}},
		},
		discounts: map[uint]*SeatTypeDiscount{
			1: {ID: 1, SeatTypeID: 1, DiscountID: 1, DiscountAmount: &amount},
		},
	}
}

func (r *fakeRepo) hit(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[name]++
}

func (r *fakeRepo) count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[name]
}

func (r *fakeRepo) GetShowtime(ctx context.Context, id uint) (*Showtime, error) {
	r.hit("GetShowtime")
	if s, ok := r.showtimes[id]; ok {
		return s, nil
	}
	return nil, apperrors.NotFound("showtime not found")
}

func (r *fakeRepo) GetSeat(ctx context.Context, id uint) (*Seat, error) {
	r.hit("GetSeat")
	if s, ok := r.seats[id]; ok {
		return s, nil
	}
	return nil, apperrors.NotFound("seat not found")
}

func (r *fakeRepo) ListSeatsByScreen(ctx context.Context, screenID uint) ([]Seat, error) {
	r.hit("ListSeatsByScreen")
	var out []Seat
	for _, s := range r.seats {
		if s.ScreenID == screenID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetSeatTypeDiscount(ctx context.Context, id uint) (*SeatTypeDiscount, error) {
	r.hit("GetSeatTypeDiscount")
	if d, ok := r.discounts[id]; ok {
		return d, nil
	}
	return nil, apperrors.NotFound("discount not found")
}

func (r *fakeRepo) ListSeatTypesWithDiscounts(ctx context.Context) ([]SeatType, error) {
	r.hit("ListSeatTypesWithDiscounts")
	return []SeatType{
		{ID: 1, Name: "Standard", Price: 9.5, Discounts: []SeatTypeDiscount{*r.discounts[1]}},
		{ID: 2, Name: "Premium", Price: 13},
	}, nil
}

func newCachedService(t *testing.T) (Service, *fakeRepo, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := newFakeRepo()
	return NewService(repo, cache.NewService(client), 0), repo, mr
}

func TestGetShowtime_CacheAside(t *testing.T) {
	svc, repo, mr := newCachedService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		showtime, err := svc.GetShowtime(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, uint(1), showtime.ScreenID)
	}
	assert.Equal(t, 1, repo.count("GetShowtime"))
	assert.True(t, mr.Exists("cinephoria:catalog:showtime:7"))
}

func TestGetShowtime_NotFoundIsNotCached(t *testing.T) {
	svc, repo, _ := newCachedService(t)

	_, err := svc.GetShowtime(context.Background(), 99)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = svc.GetShowtime(context.Background(), 99)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, 2, repo.count("GetShowtime"))
}

func TestGetScreenLayout_KeepsSeatType(t *testing.T) {
	svc, _, _ := newCachedService(t)
	ctx := context.Background()

	_, err := svc.GetScreenLayout(ctx, 1)
	require.NoError(t, err)
	seats, err := svc.GetScreenLayout(ctx, 1)
	require.NoError(t, err)

	require.Len(t, seats, 2)
	for _, s := range seats {
		require.NotNil(t, s.SeatType, "seat type survives the cache round trip")
	}
}

func TestDiscountAppliesToSeat(t *testing.T) {
	svc, _, _ := newCachedService(t)
	ctx := context.Background()

	ok, err := svc.DiscountAppliesToSeat(ctx, 1, 5)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.DiscountAppliesToSeat(ctx, 1, 6)
	require.NoError(t, err)
	assert.False(t, ok, "discount belongs to another seat type")

	_, err = svc.DiscountAppliesToSeat(ctx, 9, 5)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.DiscountAppliesToSeat(ctx, 1, 404)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListSeatTypes_WithoutRedis(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, 0)

	types, err := svc.ListSeatTypes(context.Background())
	require.NoError(t, err)
	require.Len(t, types, 2)
	require.Len(t, types[0].Discounts, 1)
	assert.Equal(t, uint(1), types[0].Discounts[0].SeatTypeDiscountID)
	assert.Empty(t, types[1].Discounts)

	_, _ = svc.ListSeatTypes(context.Background())
	assert.Equal(t, 2, repo.count("ListSeatTypesWithDiscounts"), "no cache means every read hits the store")
}
