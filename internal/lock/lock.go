// Package lock provides per-entity mutual exclusion keyed by string.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var ErrLockTimeout = errors.New("lock wait timed out")

// Locker acquires the lock for key and returns its release function.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// Local is an in-process keyed mutex. Entries are dropped once no goroutine
// holds or waits on them.
type Local struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	ch   chan struct{}
	refs int
}

func NewLocal() *Local {
	return &Local{locks: make(map[string]*entry)}
}

func (l *Local) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		l.unref(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			l.unref(key, e)
		})
	}, nil
}

func (l *Local) unref(key string, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
}

// Acquirer is a non-blocking lock primitive such as Redis SETNX.
type Acquirer interface {
	AcquireLock(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, token string) error
}

// Distributed polls an Acquirer until the lock is taken or wait elapses.
type Distributed struct {
	acq      Acquirer
	ttl      time.Duration
	wait     time.Duration
	interval time.Duration
	token    func() string
}

func NewDistributed(acq Acquirer, ttl, wait time.Duration, token func() string) *Distributed {
	return &Distributed{
		acq:      acq,
		ttl:      ttl,
		wait:     wait,
		interval: 20 * time.Millisecond,
		token:    token,
	}
}

func (d *Distributed) Lock(ctx context.Context, key string) (func(), error) {
	token := d.token()
	deadline := time.Now().Add(d.wait)
	for {
		ok, err := d.acq.AcquireLock(ctx, key, token, d.ttl)
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%s: %w", key, ErrLockTimeout)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(d.interval):
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// The caller's context may already be done by release time.
			_ = d.acq.ReleaseLock(context.Background(), key, token)
		})
	}, nil
}

func FlightKey(id string) string      { return "flight:" + id }
func ReservationKey(id string) string { return "reservation:" + id }

var (
	_ Locker = (*Local)(nil)
	_ Locker = (*Distributed)(nil)
)
