package domain

import (
	"fmt"
	"strings"
	"time"
)

type ReservationStatus int

const (
	ReservationPending ReservationStatus = iota + 1
	ReservationConfirmed
	ReservationCancelled
)

func (s ReservationStatus) String() string {
	switch s {
	case ReservationPending:
		return "PENDING"
	case ReservationConfirmed:
		return "CONFIRMED"
	case ReservationCancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

func ParseReservationStatus(s string) (ReservationStatus, error) {
	switch strings.ToUpper(s) {
	case "PENDING":
		return ReservationPending, nil
	case "CONFIRMED":
		return ReservationConfirmed, nil
	case "CANCELLED":
		return ReservationCancelled, nil
	default:
		return 0, fmt.Errorf("unknown reservation status %q", s)
	}
}

func (s ReservationStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *ReservationStatus) UnmarshalText(b []byte) error {
	parsed, err := ParseReservationStatus(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Reservation is bound to one flight by FlightID. PriceCents is the flight's
// per-seat price at creation; flight prices never change after creation.
type Reservation struct {
	ID         string            `json:"id"`
	FlightID   string            `json:"flight_id"`
	Travelers  []Traveler        `json:"travelers"`
	Status     ReservationStatus `json:"status"`
	PriceCents int64             `json:"price_cents"`
	TotalCents int64             `json:"total_cents"`
	SeatsHeld  int               `json:"seats_held"`
	PaymentRef string            `json:"payment_ref,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

func NewReservation(id string, flight *Flight) *Reservation {
	return &Reservation{
		ID:         id,
		FlightID:   flight.ID,
		Travelers:  make([]Traveler, 0),
		Status:     ReservationPending,
		PriceCents: flight.PriceCents,
	}
}

func (r *Reservation) TravelerCount() int {
	return len(r.Travelers)
}

func (r *Reservation) HasTravelerEmail(email string) bool {
	for _, t := range r.Travelers {
		if strings.EqualFold(t.Email, email) {
			return true
		}
	}
	return false
}

func (r *Reservation) AddTraveler(t Traveler) error {
	if err := r.mutable(); err != nil {
		return err
	}
	if t.ID == "" {
		return ErrTravelerIDRequired
	}
	r.Travelers = append(r.Travelers, t)
	r.recalculate()
	return nil
}

// RemoveTraveler drops the first traveler with the given id and reports
// whether one was found.
func (r *Reservation) RemoveTraveler(travelerID string) (bool, error) {
	if err := r.mutable(); err != nil {
		return false, err
	}
	for i, t := range r.Travelers {
		if t.ID == travelerID {
			r.Travelers = append(r.Travelers[:i], r.Travelers[i+1:]...)
			r.recalculate()
			return true, nil
		}
	}
	return false, nil
}

// Confirm captures one seat per traveler on flight. When the flight cannot
// hold the roster it returns false and the reservation stays Pending.
func (r *Reservation) Confirm(paymentRef string, flight *Flight) (bool, error) {
	if err := r.CheckConfirmable(paymentRef); err != nil {
		return false, err
	}
	if flight == nil || flight.ID != r.FlightID {
		return false, ErrFlightMismatch
	}

	n := len(r.Travelers)
	ok, err := flight.ReserveSeats(n)
	if err != nil || !ok {
		return false, err
	}
	r.Status = ReservationConfirmed
	r.PaymentRef = paymentRef
	r.SeatsHeld = n
	return true, nil
}

// CheckConfirmable reports the first precondition of Confirm that fails,
// without touching seat inventory.
func (r *Reservation) CheckConfirmable(paymentRef string) error {
	if err := r.mutable(); err != nil {
		return err
	}
	if strings.TrimSpace(paymentRef) == "" {
		return ErrPaymentIDRequired
	}
	if len(r.Travelers) == 0 {
		return ErrNoTravelers
	}
	return nil
}

// Cancel releases the seats captured at confirmation.
func (r *Reservation) Cancel(flight *Flight) error {
	switch r.Status {
	case ReservationConfirmed:
	case ReservationPending, ReservationCancelled:
		return ErrOnlyConfirmedCancelable
	default:
		return fmt.Errorf("reservation %s: unexpected status %d", r.ID, r.Status)
	}
	if flight == nil || flight.ID != r.FlightID {
		return ErrFlightMismatch
	}
	if err := flight.ReleaseSeats(r.SeatsHeld); err != nil {
		return err
	}
	r.Status = ReservationCancelled
	return nil
}

// Clone returns a copy that shares no traveler slice with r.
func (r *Reservation) Clone() *Reservation {
	c := *r
	c.Travelers = append(make([]Traveler, 0, len(r.Travelers)), r.Travelers...)
	return &c
}

func (r *Reservation) mutable() error {
	switch r.Status {
	case ReservationPending:
		return nil
	case ReservationConfirmed:
		return ErrReservationConfirmed
	case ReservationCancelled:
		return ErrReservationCancelled
	default:
		return fmt.Errorf("reservation %s: unexpected status %d", r.ID, r.Status)
	}
}

func (r *Reservation) recalculate() {
	r.TotalCents = r.PriceCents * int64(len(r.Travelers))
}
