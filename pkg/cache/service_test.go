package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type layout struct {
	ScreenID uint     `json:"screen_id"`
	Rows     []string `json:"rows"`
}

func newTestService(t *testing.T) (Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewService(client), mr
}

func TestGetOrSetCallsFetcherOnce(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	calls := 0
	fetch := func(ctx context.Context) (interface{}, error) {
		calls++
		return layout{ScreenID: 3, Rows: []string{"A", "B"}}, nil
	}

	var first, second layout
	require.NoError(t, svc.GetOrSet(ctx, "cinephoria:test:layout:3", time.Minute, fetch, &first))
	require.NoError(t, svc.GetOrSet(ctx, "cinephoria:test:layout:3", time.Minute, fetch, &second))

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
	assert.Equal(t, uint(3), second.ScreenID)
}

func TestGetOrSetPropagatesFetcherError(t *testing.T) {
	svc, _ := newTestService(t)
	boom := errors.New("store down")

	var dest layout
	err := svc.GetOrSet(context.Background(), "k", time.Minute, func(ctx context.Context) (interface{}, error) {
		return nil, boom
	}, &dest)

	assert.ErrorIs(t, err, boom)
}

func TestGetMissAndExpiry(t *testing.T) {
	svc, mr := newTestService(t)
	ctx := context.Background()

	var dest layout
	assert.ErrorIs(t, svc.Get(ctx, "absent", &dest), ErrCacheMiss)

	require.NoError(t, svc.Set(ctx, "short", layout{ScreenID: 1}, time.Second))
	mr.FastForward(2 * time.Second)
	assert.ErrorIs(t, svc.Get(ctx, "short", &dest), ErrCacheMiss)
}

func TestDeletePattern(t *testing.T) {
	svc, mr := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "cinephoria:catalog:showtime:1", 1, time.Minute))
	require.NoError(t, svc.Set(ctx, "cinephoria:catalog:showtime:2", 2, time.Minute))
	require.NoError(t, svc.Set(ctx, "cinephoria:catalog:seat_types", 3, time.Minute))

	require.NoError(t, svc.DeletePattern(ctx, "cinephoria:catalog:showtime:*"))

	assert.False(t, mr.Exists("cinephoria:catalog:showtime:1"))
	assert.False(t, mr.Exists("cinephoria:catalog:showtime:2"))
	assert.True(t, mr.Exists("cinephoria:catalog:seat_types"))
}

func TestNoopServiceAlwaysFetches(t *testing.T) {
	svc := NewService(nil)
	calls := 0

	var dest layout
	for i := 0; i < 2; i++ {
		require.NoError(t, svc.GetOrSet(context.Background(), "k", time.Minute, func(ctx context.Context) (interface{}, error) {
			calls++
			return layout{ScreenID: 9}, nil
		}, &dest))
	}

	assert.Equal(t, 2, calls)
	assert.Equal(t, uint(9), dest.ScreenID)
}
