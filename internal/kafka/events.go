package kafka

import (
	"time"

	"github.com/Domenick1991/skyreserve/internal/domain"
	"github.com/google/uuid"
)

const (
	EventReservationCreated   = "reservation_created"
	EventReservationConfirmed = "reservation_confirmed"
	EventReservationCancelled = "reservation_cancelled"
	EventReservationDiscarded = "reservation_discarded"
	EventPaymentCharged       = "payment_charged"
	EventPaymentRefunded      = "payment_refunded"
)

type ReservationEvent struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	ReservationID string    `json:"reservation_id"`
	FlightID      string    `json:"flight_id"`
	Status        string    `json:"status"`
	Travelers     int       `json:"travelers"`
	Emails        []string  `json:"emails"`
	TotalCents    int64     `json:"total_cents"`
	PaymentRef    string    `json:"payment_ref,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func NewReservationEvent(eventType string, r *domain.Reservation, at time.Time) ReservationEvent {
	emails := make([]string, 0, len(r.Travelers))
	for _, t := range r.Travelers {
		if t.Email != "" {
			emails = append(emails, t.Email)
		}
	}
	return ReservationEvent{
		ID:            uuid.NewString(),
		Type:          eventType,
		ReservationID: r.ID,
		FlightID:      r.FlightID,
		Status:        r.Status.String(),
		Travelers:     len(r.Travelers),
		Emails:        emails,
		TotalCents:    r.TotalCents,
		PaymentRef:    r.PaymentRef,
		OccurredAt:    at,
	}
}

type PaymentEvent struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	PaymentID     string    `json:"payment_id"`
	ReservationID string    `json:"reservation_id"`
	AmountCents   int64     `json:"amount_cents"`
	MaskedCard    string    `json:"masked_card"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func NewPaymentEvent(eventType string, p *domain.Payment, at time.Time) PaymentEvent {
	return PaymentEvent{
		ID:            uuid.NewString(),
		Type:          eventType,
		PaymentID:     p.ID,
		ReservationID: p.ReservationID,
		AmountCents:   p.AmountCents,
		MaskedCard:    p.MaskedCard,
		Status:        p.Status.String(),
		OccurredAt:    at,
	}
}
