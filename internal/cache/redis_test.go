package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Domenick1991/skyreserve/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *RedisCache {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	require.NoError(t, client.Del(ctx, flightsKey(), flightsGenKey()).Err())
	return NewRedisCacheWithClient(client, time.Minute)
}

func TestRedisCache_SetFlightsAfterInvalidationIsSkipped(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	flights := []domain.Flight{{ID: "FL001", TotalSeats: 3, AvailableSeats: 3}}

	gen, err := c.FlightsGeneration(ctx)
	require.NoError(t, err)

	require.NoError(t, c.InvalidateFlights(ctx))

	err = c.SetFlights(ctx, flights, gen)
	assert.ErrorIs(t, err, ErrStaleFlights)

	cached, err := c.GetFlights(ctx)
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestRedisCache_SetFlightsCurrentGeneration(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	flights := []domain.Flight{{ID: "FL001", TotalSeats: 3, AvailableSeats: 2}}

	require.NoError(t, c.InvalidateFlights(ctx))
	gen, err := c.FlightsGeneration(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)

	require.NoError(t, c.SetFlights(ctx, flights, gen))

	cached, err := c.GetFlights(ctx)
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, 2, cached[0].AvailableSeats)
}

func TestRedisCache_Lock(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	key := "test:" + t.Name()

	ok, err := c.AcquireLock(ctx, key, "a", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.AcquireLock(ctx, key, "b", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.ReleaseLock(ctx, key, "b"))
	ok, _ = c.AcquireLock(ctx, key, "b", time.Minute)
	assert.False(t, ok)

	require.NoError(t, c.ReleaseLock(ctx, key, "a"))
	ok, err = c.AcquireLock(ctx, key, "b", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, c.ReleaseLock(ctx, key, "b"))
}
