package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/skyreserve/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const paymentColumns = `id, reservation_id, amount_cents, masked_card, status, created_at, updated_at`

type PGPaymentRepository struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) PaymentRepository {
	return &PGPaymentRepository{db: db}
}

func (r *PGPaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	_, err := conn(ctx, r.db).Exec(ctx, `INSERT INTO payments (id, reservation_id, amount_cents, masked_card, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.ReservationID, p.AmountCents, p.MaskedCard, p.Status.String(), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

func (r *PGPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	p, err := scanPayment(conn(ctx, r.db).QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

func (r *PGPaymentRepository) UpdateStatus(ctx context.Context, p *domain.Payment) error {
	cmd, err := conn(ctx, r.db).Exec(ctx, `UPDATE payments SET status=$1, updated_at=$2 WHERE id=$3`, p.Status.String(), p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrPaymentNotFound
	}
	return nil
}

func (r *PGPaymentRepository) ListByReservation(ctx context.Context, reservationID string) ([]domain.Payment, error) {
	return r.query(ctx, `SELECT `+paymentColumns+` FROM payments WHERE reservation_id=$1 ORDER BY created_at, id`, reservationID)
}

func (r *PGPaymentRepository) List(ctx context.Context) ([]domain.Payment, error) {
	return r.query(ctx, `SELECT `+paymentColumns+` FROM payments ORDER BY created_at, id`)
}

func (r *PGPaymentRepository) query(ctx context.Context, sql string, args ...any) ([]domain.Payment, error) {
	rows, err := conn(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var (
		p      domain.Payment
		status string
	)
	if err := row.Scan(&p.ID, &p.ReservationID, &p.AmountCents, &p.MaskedCard, &status, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	st, err := domain.ParsePaymentStatus(status)
	if err != nil {
		return nil, err
	}
	p.Status = st
	return &p, nil
}

var _ PaymentRepository = (*PGPaymentRepository)(nil)
