package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Domenick1991/skyreserve/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const reservationColumns = `id, flight_id, travelers, status, price_cents, total_cents, seats_held, payment_ref, created_at, updated_at`

type PGReservationRepository struct {
	db *pgxpool.Pool
}

func NewReservationRepository(db *pgxpool.Pool) ReservationRepository {
	return &PGReservationRepository{db: db}
}

func (r *PGReservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	travelers, err := json.Marshal(res.Travelers)
	if err != nil {
		return err
	}
	if err := conn(ctx, r.db).QueryRow(ctx, `INSERT INTO reservations (id, flight_id, travelers, status, price_cents, total_cents, seats_held, payment_ref)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		res.ID, res.FlightID, travelers, res.Status.String(), res.PriceCents, res.TotalCents, res.SeatsHeld, res.PaymentRef).
		Scan(&res.CreatedAt, &res.UpdatedAt); err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

func (r *PGReservationRepository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	res, err := scanReservation(conn(ctx, r.db).QueryRow(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReservationNotFound
		}
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	return res, nil
}

func (r *PGReservationRepository) Update(ctx context.Context, res *domain.Reservation) error {
	travelers, err := json.Marshal(res.Travelers)
	if err != nil {
		return err
	}
	err = conn(ctx, r.db).QueryRow(ctx, `UPDATE reservations
		SET travelers=$1, status=$2, total_cents=$3, seats_held=$4, payment_ref=$5, updated_at=now()
		WHERE id=$6
		RETURNING updated_at`,
		travelers, res.Status.String(), res.TotalCents, res.SeatsHeld, res.PaymentRef, res.ID).
		Scan(&res.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrReservationNotFound
		}
		return fmt.Errorf("update reservation: %w", err)
	}
	return nil
}

func (r *PGReservationRepository) Delete(ctx context.Context, id string) error {
	cmd, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM reservations WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete reservation: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrReservationNotFound
	}
	return nil
}

func (r *PGReservationRepository) List(ctx context.Context) ([]domain.Reservation, error) {
	return r.query(ctx, `SELECT `+reservationColumns+` FROM reservations ORDER BY created_at, id`)
}

// FindByTravelerEmail matches any traveler in the JSONB roster, ignoring case.
func (r *PGReservationRepository) FindByTravelerEmail(ctx context.Context, email string) ([]domain.Reservation, error) {
	return r.query(ctx, `SELECT `+reservationColumns+` FROM reservations
		WHERE EXISTS (
			SELECT 1 FROM jsonb_array_elements(travelers) t
			WHERE lower(t->>'email') = $1
		)
		ORDER BY created_at, id`, strings.ToLower(strings.TrimSpace(email)))
}

func (r *PGReservationRepository) query(ctx context.Context, sql string, args ...any) ([]domain.Reservation, error) {
	rows, err := conn(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	var (
		res       domain.Reservation
		travelers []byte
		status    string
	)
	if err := row.Scan(&res.ID, &res.FlightID, &travelers, &status, &res.PriceCents, &res.TotalCents, &res.SeatsHeld, &res.PaymentRef, &res.CreatedAt, &res.UpdatedAt); err != nil {
		return nil, err
	}
	st, err := domain.ParseReservationStatus(status)
	if err != nil {
		return nil, err
	}
	res.Status = st
	res.Travelers = make([]domain.Traveler, 0)
	if len(travelers) > 0 {
		if err := json.Unmarshal(travelers, &res.Travelers); err != nil {
			return nil, fmt.Errorf("decode travelers of %s: %w", res.ID, err)
		}
	}
	return &res, nil
}

var _ ReservationRepository = (*PGReservationRepository)(nil)
