// Package idgen issues identifiers of the form prefix + number, where the
// number starts above a reserved base.
package idgen

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

var ErrExhausted = errors.New("id generator exhausted")

type Generator interface {
	Next(ctx context.Context) (string, error)
}

// Sequence is an in-process monotonic counter. The first id is prefix+(base+1).
type Sequence struct {
	prefix string
	base   int64
	n      atomic.Int64
}

func NewSequence(prefix string, base int64) *Sequence {
	return &Sequence{prefix: prefix, base: base}
}

func (s *Sequence) Next(_ context.Context) (string, error) {
	return format(s.prefix, s.base+s.n.Add(1)), nil
}

// UUID issues prefix + random UUID.
type UUID struct {
	prefix string
}

func NewUUID(prefix string) *UUID {
	return &UUID{prefix: prefix}
}

func (u *UUID) Next(_ context.Context) (string, error) {
	return u.prefix + uuid.NewString(), nil
}

// Static replays ids in order; tests use it for deterministic ids.
type Static struct {
	ids []string
	pos atomic.Int64
}

func NewStatic(ids ...string) *Static {
	return &Static{ids: ids}
}

func (s *Static) Next(_ context.Context) (string, error) {
	i := s.pos.Add(1) - 1
	if int(i) >= len(s.ids) {
		return "", ErrExhausted
	}
	return s.ids[i], nil
}

func format(prefix string, n int64) string {
	return prefix + strconv.FormatInt(n, 10)
}

var (
	_ Generator = (*Sequence)(nil)
	_ Generator = (*UUID)(nil)
	_ Generator = (*Static)(nil)
)
