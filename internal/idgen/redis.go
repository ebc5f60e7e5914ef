package idgen

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisSequence shares one counter between processes through INCR.
type RedisSequence struct {
	client redis.Cmdable
	key    string
	prefix string
	base   int64
}

func NewRedisSequence(client redis.Cmdable, key, prefix string, base int64) *RedisSequence {
	return &RedisSequence{client: client, key: key, prefix: prefix, base: base}
}

func (s *RedisSequence) Next(ctx context.Context) (string, error) {
	n, err := s.client.Incr(ctx, s.key).Result()
	if err != nil {
		return "", fmt.Errorf("incr %s: %w", s.key, err)
	}
	return format(s.prefix, s.base+n), nil
}

var _ Generator = (*RedisSequence)(nil)
