package domain

import (
	"fmt"
	"strings"
	"time"
)

type PaymentStatus int

const (
	PaymentPending PaymentStatus = iota + 1
	PaymentSuccess
	PaymentFailed
	PaymentRefunded
)

func (s PaymentStatus) String() string {
	switch s {
	case PaymentPending:
		return "PENDING"
	case PaymentSuccess:
		return "SUCCESS"
	case PaymentFailed:
		return "FAILED"
	case PaymentRefunded:
		return "REFUNDED"
	default:
		return "UNKNOWN"
	}
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch strings.ToUpper(s) {
	case "PENDING":
		return PaymentPending, nil
	case "SUCCESS":
		return PaymentSuccess, nil
	case "FAILED":
		return PaymentFailed, nil
	case "REFUNDED":
		return PaymentRefunded, nil
	default:
		return 0, fmt.Errorf("unknown payment status %q", s)
	}
}

func (s PaymentStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *PaymentStatus) UnmarshalText(b []byte) error {
	parsed, err := ParsePaymentStatus(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Payment never carries the raw card number or CVV; only the masked form
// survives validation.
type Payment struct {
	ID            string        `json:"id"`
	ReservationID string        `json:"reservation_id"`
	AmountCents   int64         `json:"amount_cents"`
	MaskedCard    string        `json:"masked_card"`
	Status        PaymentStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func NewPayment(id, reservationID string, amountCents int64, maskedCard string, now time.Time) (*Payment, error) {
	if strings.TrimSpace(reservationID) == "" {
		return nil, ErrReservationIDRequired
	}
	if amountCents <= 0 {
		return nil, ErrAmountNotPositive
	}
	return &Payment{
		ID:            id,
		ReservationID: reservationID,
		AmountCents:   amountCents,
		MaskedCard:    maskedCard,
		Status:        PaymentPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func (p *Payment) Settle(now time.Time) error {
	return p.transition(PaymentSuccess, now)
}

func (p *Payment) Fail(now time.Time) error {
	return p.transition(PaymentFailed, now)
}

func (p *Payment) Refund(now time.Time) error {
	return p.transition(PaymentRefunded, now)
}

func (p *Payment) transition(to PaymentStatus, now time.Time) error {
	switch to {
	case PaymentSuccess, PaymentFailed:
		if p.Status != PaymentPending {
			return ErrPaymentNotPending
		}
	case PaymentRefunded:
		if p.Status != PaymentSuccess {
			return ErrRefundNotAllowed
		}
	default:
		return fmt.Errorf("payment %s: unexpected target status %s", p.ID, to)
	}
	p.Status = to
	p.UpdatedAt = now
	return nil
}
