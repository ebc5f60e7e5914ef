package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/skyreserve/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const flightColumns = `id, airline, from_airport, to_airport, departure_time, arrival_time, total_seats, available_seats, price_cents, created_at, updated_at`

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT `+flightColumns+` FROM flights ORDER BY departure_time, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	f, err := scanFlight(conn(ctx, r.db).QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFlightNotFound
		}
		return nil, fmt.Errorf("get flight: %w", err)
	}
	return f, nil
}

func (r *PGFlightRepository) Create(ctx context.Context, f *domain.Flight) error {
	err := conn(ctx, r.db).QueryRow(ctx, `INSERT INTO flights (id, airline, from_airport, to_airport, departure_time, arrival_time, total_seats, available_seats, price_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`,
		f.ID, f.Airline, f.FromAirport, f.ToAirport, f.DepartureTime, f.ArrivalTime, f.TotalSeats, f.AvailableSeats, f.PriceCents).
		Scan(&f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrFlightExists
		}
		return fmt.Errorf("create flight: %w", err)
	}
	return nil
}

// UpdateSeats writes the in-memory seat count back; the table CHECK keeps
// 0 <= available_seats <= total_seats.
func (r *PGFlightRepository) UpdateSeats(ctx context.Context, f *domain.Flight) error {
	err := conn(ctx, r.db).QueryRow(ctx, `UPDATE flights SET available_seats=$1, updated_at=now() WHERE id=$2 RETURNING updated_at`,
		f.AvailableSeats, f.ID).Scan(&f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrFlightNotFound
		}
		return fmt.Errorf("update flight seats: %w", err)
	}
	return nil
}

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var f domain.Flight
	if err := row.Scan(&f.ID, &f.Airline, &f.FromAirport, &f.ToAirport, &f.DepartureTime, &f.ArrivalTime, &f.TotalSeats, &f.AvailableSeats, &f.PriceCents, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
