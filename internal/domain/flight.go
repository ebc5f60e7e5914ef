package domain

import (
	"strings"
	"time"
)

type Flight struct {
	ID             string    `json:"id" yaml:"id"`
	Airline        string    `json:"airline" yaml:"airline"`
	FromAirport    string    `json:"from_airport" yaml:"from_airport"`
	ToAirport      string    `json:"to_airport" yaml:"to_airport"`
	DepartureTime  time.Time `json:"departure_time" yaml:"departure_time"`
	ArrivalTime    time.Time `json:"arrival_time" yaml:"arrival_time"`
	TotalSeats     int       `json:"total_seats" yaml:"total_seats"`
	AvailableSeats int       `json:"available_seats" yaml:"available_seats"`
	PriceCents     int64     `json:"price_cents" yaml:"price_cents"`
	CreatedAt      time.Time `json:"created_at" yaml:"-"`
	UpdatedAt      time.Time `json:"updated_at" yaml:"-"`
}

// NewFlight returns a flight with every seat available.
func NewFlight(id, airline, from, to string, departure, arrival time.Time, totalSeats int, priceCents int64) (*Flight, error) {
	f := &Flight{
		ID:             strings.TrimSpace(id),
		Airline:        airline,
		FromAirport:    from,
		ToAirport:      to,
		DepartureTime:  departure,
		ArrivalTime:    arrival,
		TotalSeats:     totalSeats,
		AvailableSeats: totalSeats,
		PriceCents:     priceCents,
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Flight) Validate() error {
	if f.ID == "" {
		return ErrFlightIDRequired
	}
	if f.TotalSeats <= 0 {
		return ErrInvalidTotalSeats
	}
	if f.PriceCents < 0 {
		return ErrNegativePrice
	}
	if !f.ArrivalTime.IsZero() && f.ArrivalTime.Before(f.DepartureTime) {
		return ErrInvalidSchedule
	}
	if f.AvailableSeats < 0 || f.AvailableSeats > f.TotalSeats {
		return ErrInvalidAvailable
	}
	return nil
}

// ReserveSeats captures n seats. A shortfall is reported as false with no
// mutation; it is not an error.
func (f *Flight) ReserveSeats(n int) (bool, error) {
	if n <= 0 {
		return false, ErrSeatsNotPositive
	}
	if !f.HasSeats(n) {
		return false, nil
	}
	f.AvailableSeats -= n
	return true, nil
}

// ReleaseSeats returns n previously captured seats.
func (f *Flight) ReleaseSeats(n int) error {
	if n <= 0 {
		return ErrSeatsNotPositive
	}
	if n > f.TotalSeats-f.AvailableSeats {
		return ErrReleaseExceedsReserved
	}
	f.AvailableSeats += n
	return nil
}

func (f *Flight) IsFull() bool {
	return f.AvailableSeats == 0
}

func (f *Flight) HasSeats(n int) bool {
	return f.AvailableSeats >= n
}

func (f *Flight) Duration() time.Duration {
	return f.ArrivalTime.Sub(f.DepartureTime)
}
