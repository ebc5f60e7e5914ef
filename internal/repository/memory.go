package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Domenick1991/skyreserve/internal/domain"
)

// The in-memory repositories store copies so callers never share mutable
// state with the store; writes go through Update/UpdateSeats/UpdateStatus.

type MemoryFlightRepository struct {
	mu      sync.RWMutex
	order   []string
	flights map[string]domain.Flight
}

func NewMemoryFlightRepository() *MemoryFlightRepository {
	return &MemoryFlightRepository{flights: make(map[string]domain.Flight)}
}

func (r *MemoryFlightRepository) List(_ context.Context) ([]domain.Flight, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	flights := make([]domain.Flight, 0, len(r.order))
	for _, id := range r.order {
		flights = append(flights, r.flights[id])
	}
	return flights, nil
}

func (r *MemoryFlightRepository) GetByID(_ context.Context, id string) (*domain.Flight, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.flights[id]
	if !ok {
		return nil, domain.ErrFlightNotFound
	}
	return &f, nil
}

func (r *MemoryFlightRepository) Create(_ context.Context, flight *domain.Flight) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.flights[flight.ID]; ok {
		return domain.ErrFlightExists
	}
	now := time.Now().UTC()
	flight.CreatedAt, flight.UpdatedAt = now, now
	r.flights[flight.ID] = *flight
	r.order = append(r.order, flight.ID)
	return nil
}

func (r *MemoryFlightRepository) UpdateSeats(_ context.Context, flight *domain.Flight) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.flights[flight.ID]
	if !ok {
		return domain.ErrFlightNotFound
	}
	stored.AvailableSeats = flight.AvailableSeats
	stored.UpdatedAt = time.Now().UTC()
	flight.UpdatedAt = stored.UpdatedAt
	r.flights[flight.ID] = stored
	return nil
}

type MemoryReservationRepository struct {
	mu           sync.RWMutex
	order        []string
	reservations map[string]*domain.Reservation
}

func NewMemoryReservationRepository() *MemoryReservationRepository {
	return &MemoryReservationRepository{reservations: make(map[string]*domain.Reservation)}
}

func (r *MemoryReservationRepository) Create(_ context.Context, reservation *domain.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	reservation.CreatedAt, reservation.UpdatedAt = now, now
	r.reservations[reservation.ID] = reservation.Clone()
	r.order = append(r.order, reservation.ID)
	return nil
}

func (r *MemoryReservationRepository) GetByID(_ context.Context, id string) (*domain.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.reservations[id]
	if !ok {
		return nil, domain.ErrReservationNotFound
	}
	return res.Clone(), nil
}

func (r *MemoryReservationRepository) Update(_ context.Context, reservation *domain.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reservations[reservation.ID]; !ok {
		return domain.ErrReservationNotFound
	}
	reservation.UpdatedAt = time.Now().UTC()
	r.reservations[reservation.ID] = reservation.Clone()
	return nil
}

func (r *MemoryReservationRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reservations[id]; !ok {
		return domain.ErrReservationNotFound
	}
	delete(r.reservations, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryReservationRepository) List(_ context.Context) ([]domain.Reservation, error) {
	return r.collect(func(*domain.Reservation) bool { return true }), nil
}

func (r *MemoryReservationRepository) FindByTravelerEmail(_ context.Context, email string) ([]domain.Reservation, error) {
	email = strings.TrimSpace(email)
	return r.collect(func(res *domain.Reservation) bool { return res.HasTravelerEmail(email) }), nil
}

func (r *MemoryReservationRepository) collect(keep func(*domain.Reservation) bool) []domain.Reservation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Reservation, 0)
	for _, id := range r.order {
		res := r.reservations[id]
		if keep(res) {
			out = append(out, *res.Clone())
		}
	}
	return out
}

type MemoryPaymentRepository struct {
	mu       sync.RWMutex
	order    []string
	payments map[string]domain.Payment
}

func NewMemoryPaymentRepository() *MemoryPaymentRepository {
	return &MemoryPaymentRepository{payments: make(map[string]domain.Payment)}
}

func (r *MemoryPaymentRepository) Create(_ context.Context, payment *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments[payment.ID] = *payment
	r.order = append(r.order, payment.ID)
	return nil
}

func (r *MemoryPaymentRepository) GetByID(_ context.Context, id string) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.payments[id]
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	return &p, nil
}

func (r *MemoryPaymentRepository) UpdateStatus(_ context.Context, payment *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.payments[payment.ID]
	if !ok {
		return domain.ErrPaymentNotFound
	}
	stored.Status = payment.Status
	stored.UpdatedAt = payment.UpdatedAt
	r.payments[payment.ID] = stored
	return nil
}

func (r *MemoryPaymentRepository) ListByReservation(_ context.Context, reservationID string) ([]domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Payment, 0)
	for _, id := range r.order {
		if p := r.payments[id]; p.ReservationID == reservationID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *MemoryPaymentRepository) List(_ context.Context) ([]domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Payment, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.payments[id])
	}
	return out, nil
}

// NoTx runs fn directly; the in-memory stores have no rollback.
type NoTx struct{}

func (NoTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var (
	_ FlightRepository      = (*MemoryFlightRepository)(nil)
	_ ReservationRepository = (*MemoryReservationRepository)(nil)
	_ PaymentRepository     = (*MemoryPaymentRepository)(nil)
	_ TxManager             = NoTx{}
)
