package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Domenick1991/skyreserve/config"
	"github.com/Domenick1991/skyreserve/internal/domain"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only if it still carries the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// ErrStaleFlights reports a write skipped because the list was invalidated
// after it was read.
var ErrStaleFlights = errors.New("flights list invalidated since read")

type RedisCache struct {
	client     redis.UniversalClient
	flightsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, flightsTTL time.Duration) *RedisCache {
	return NewRedisCacheWithClient(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		flightsTTL,
	)
}

func NewRedisCacheWithClient(client redis.UniversalClient, flightsTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, flightsTTL: flightsTTL}
}

// Client exposes the connection for other Redis-backed components.
func (c *RedisCache) Client() redis.UniversalClient {
	return c.client
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) GetFlights(ctx context.Context) ([]domain.Flight, error) {
	data, err := c.client.Get(ctx, flightsKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var flights []domain.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

// FlightsGeneration returns the counter bumped by every invalidation.
func (c *RedisCache) FlightsGeneration(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, flightsGenKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// SetFlights stores the list only while the generation still equals gen, so
// a list read before an invalidation is never written back after it.
func (c *RedisCache) SetFlights(ctx context.Context, flights []domain.Flight, gen int64) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}

	return c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, flightsGenKey()).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return ErrStaleFlights
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, flightsKey(), payload, c.flightsTTL)
			return nil
		})
		if errors.Is(err, redis.TxFailedErr) {
			return ErrStaleFlights
		}
		return err
	}, flightsGenKey())
}

// InvalidateFlights drops the cached list so seat counts are re-read.
func (c *RedisCache) InvalidateFlights(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, flightsGenKey())
		pipe.Del(ctx, flightsKey())
		return nil
	})
	return err
}

func (c *RedisCache) AcquireLock(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, lockKey(key), token, ttl).Result()
}

func (c *RedisCache) ReleaseLock(ctx context.Context, key, token string) error {
	return releaseScript.Run(ctx, c.client, []string{lockKey(key)}, token).Err()
}

// Both keys share a hash tag so WATCH and MULTI work on a cluster.
func flightsKey() string {
	return "cache:{flights}"
}

func flightsGenKey() string {
	return "cache:{flights}:gen"
}

func lockKey(key string) string {
	return "lock:" + key
}
