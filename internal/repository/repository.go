package repository

import (
	"context"

	"github.com/Domenick1991/skyreserve/internal/domain"
)

type FlightRepository interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id string) (*domain.Flight, error)
	Create(ctx context.Context, flight *domain.Flight) error
	UpdateSeats(ctx context.Context, flight *domain.Flight) error
}

type ReservationRepository interface {
	Create(ctx context.Context, reservation *domain.Reservation) error
	GetByID(ctx context.Context, id string) (*domain.Reservation, error)
	Update(ctx context.Context, reservation *domain.Reservation) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Reservation, error)
	FindByTravelerEmail(ctx context.Context, email string) ([]domain.Reservation, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	UpdateStatus(ctx context.Context, payment *domain.Payment) error
	ListByReservation(ctx context.Context, reservationID string) ([]domain.Payment, error)
	List(ctx context.Context) ([]domain.Payment, error)
}

// TxManager runs fn so that every repository write inside it commits or
// rolls back together.
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}
