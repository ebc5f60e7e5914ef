package flights

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/Domenick1991/skyreserve/internal/domain"
	"github.com/Domenick1991/skyreserve/internal/repository"
)

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id string) (*domain.Flight, error)
	AddFlight(ctx context.Context, input AddFlightInput) (*domain.Flight, error)
	Search(ctx context.Context, query SearchQuery) ([]domain.Flight, error)
}

type FlightCache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	FlightsGeneration(ctx context.Context) (int64, error)
	// SetFlights skips the write when an invalidation happened after gen
	// was read.
	SetFlights(ctx context.Context, flights []domain.Flight, gen int64) error
	InvalidateFlights(ctx context.Context) error
}

type FlightService struct {
	repo  repository.FlightRepository
	cache FlightCache
}

type AddFlightInput struct {
	ID            string    `json:"id" yaml:"id"`
	Airline       string    `json:"airline" yaml:"airline"`
	FromAirport   string    `json:"from_airport" yaml:"from_airport"`
	ToAirport     string    `json:"to_airport" yaml:"to_airport"`
	DepartureTime time.Time `json:"departure_time" yaml:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time" yaml:"arrival_time"`
	TotalSeats    int       `json:"total_seats" yaml:"total_seats"`
	PriceCents    int64     `json:"price_cents" yaml:"price_cents"`
}

// SearchQuery filters on route and day; the remaining fields narrow the
// result when set. MaxPriceCents of zero means no upper bound.
type SearchQuery struct {
	From          string
	To            string
	Date          time.Time
	Airline       string
	MinPriceCents int64
	MaxPriceCents int64
	Seats         int
}

// NewFlightService accepts a nil cache.
func NewFlightService(repo repository.FlightRepository, cache FlightCache) *FlightService {
	return &FlightService{repo: repo, cache: cache}
}

func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetFlights(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	// The generation is read before the repository so an invalidation racing
	// with this load makes the write-back a no-op.
	var (
		gen       int64
		cacheable = s.cache != nil
	)
	if cacheable {
		var err error
		if gen, err = s.cache.FlightsGeneration(ctx); err != nil {
			cacheable = false
		}
	}

	flights, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if cacheable {
		_ = s.cache.SetFlights(ctx, flights, gen)
	}
	return flights, nil
}

func (s *FlightService) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrFlightIDRequired
	}
	return s.repo.GetByID(ctx, id)
}

func (s *FlightService) AddFlight(ctx context.Context, input AddFlightInput) (*domain.Flight, error) {
	flight, err := domain.NewFlight(input.ID, input.Airline, input.FromAirport, input.ToAirport,
		input.DepartureTime, input.ArrivalTime, input.TotalSeats, input.PriceCents)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, flight); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	log.Printf("flight added id=%s route=%s-%s seats=%d", flight.ID, flight.FromAirport, flight.ToAirport, flight.TotalSeats)
	return flight, nil
}

// Seed adds flights that are not stored yet and returns how many were added.
func (s *FlightService) Seed(ctx context.Context, inputs []AddFlightInput) (int, error) {
	added := 0
	for _, in := range inputs {
		if _, err := s.AddFlight(ctx, in); err != nil {
			if errors.Is(err, domain.ErrFlightExists) {
				continue
			}
			return added, err
		}
		added++
	}
	return added, nil
}

func (s *FlightService) Search(ctx context.Context, q SearchQuery) ([]domain.Flight, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}

	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Flight, 0)
	for _, f := range all {
		if q.matches(f) {
			result = append(result, f)
		}
	}
	return result, nil
}

func (s *FlightService) invalidate(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.InvalidateFlights(ctx)
	}
}

func (q SearchQuery) validate() error {
	if strings.TrimSpace(q.From) == "" {
		return domain.ErrSourceRequired
	}
	if strings.TrimSpace(q.To) == "" {
		return domain.ErrDestinationRequired
	}
	if q.Date.IsZero() {
		return domain.ErrTravelDateRequired
	}
	if strings.EqualFold(strings.TrimSpace(q.From), strings.TrimSpace(q.To)) {
		return domain.ErrSameSourceDestination
	}
	if q.MinPriceCents < 0 || q.MaxPriceCents < 0 {
		return domain.ErrNegativePriceBound
	}
	if q.MaxPriceCents > 0 && q.MinPriceCents > q.MaxPriceCents {
		return domain.ErrInvertedPriceRange
	}
	if q.Seats < 0 {
		return domain.ErrRequiredSeatsNegative
	}
	return nil
}

func (q SearchQuery) matches(f domain.Flight) bool {
	if !strings.EqualFold(f.FromAirport, strings.TrimSpace(q.From)) || !strings.EqualFold(f.ToAirport, strings.TrimSpace(q.To)) {
		return false
	}
	if !sameDay(f.DepartureTime, q.Date) || !f.HasSeats(1) {
		return false
	}
	if q.Seats > 0 && !f.HasSeats(q.Seats) {
		return false
	}
	if q.Airline != "" && !strings.EqualFold(f.Airline, q.Airline) {
		return false
	}
	if f.PriceCents < q.MinPriceCents {
		return false
	}
	if q.MaxPriceCents > 0 && f.PriceCents > q.MaxPriceCents {
		return false
	}
	return true
}

// sameDay compares calendar dates, each read in its own zone.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

var _ FlightUseCase = (*FlightService)(nil)
