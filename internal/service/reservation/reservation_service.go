package reservation

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Domenick1991/skyreserve/internal/clock"
	"github.com/Domenick1991/skyreserve/internal/domain"
	"github.com/Domenick1991/skyreserve/internal/idgen"
	"github.com/Domenick1991/skyreserve/internal/kafka"
	"github.com/Domenick1991/skyreserve/internal/lock"
	"github.com/Domenick1991/skyreserve/internal/repository"
)

type ReservationUseCase interface {
	CreateReservation(ctx context.Context, flightID string) (*domain.Reservation, error)
	AddTraveler(ctx context.Context, reservationID string, traveler *domain.Traveler) (*domain.Reservation, error)
	RemoveTraveler(ctx context.Context, reservationID, travelerID string) (*domain.Reservation, error)
	ConfirmReservation(ctx context.Context, reservationID, paymentRef string) (ConfirmResult, error)
	CancelReservation(ctx context.Context, reservationID string) (*domain.Reservation, error)
	DiscardReservation(ctx context.Context, reservationID string) error
	GetReservation(ctx context.Context, reservationID string) (*domain.Reservation, error)
	FindByTravelerEmail(ctx context.Context, email string) ([]domain.Reservation, error)
	Stats(ctx context.Context) (Stats, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// PaymentVerifier confirms that a payment reference settled for a reservation.
type PaymentVerifier interface {
	VerifyPayment(ctx context.Context, paymentID, reservationID string) error
}

// FlightCache is invalidated whenever seat counts change.
type FlightCache interface {
	InvalidateFlights(ctx context.Context) error
}

// ConfirmResult reports Confirmed=false when the flight had too few seats;
// that outcome is not an error.
type ConfirmResult struct {
	Reservation *domain.Reservation
	Confirmed   bool
}

// Stats counts reservations by their current status only.
type Stats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Cancelled int `json:"cancelled"`
}

type ReservationService struct {
	reservations       repository.ReservationRepository
	flights            repository.FlightRepository
	tx                 repository.TxManager
	locker             lock.Locker
	ids                idgen.Generator
	clock              clock.Clock
	producer           Producer
	reservationsTopic  string
	notificationsTopic string
	verifier           PaymentVerifier
	cache              FlightCache
}

type ReservationServiceOption func(*ReservationService)

func WithProducer(producer Producer, topic string) ReservationServiceOption {
	return func(s *ReservationService) {
		s.producer = producer
		s.reservationsTopic = topic
	}
}

func WithNotificationsTopic(topic string) ReservationServiceOption {
	return func(s *ReservationService) {
		s.notificationsTopic = topic
	}
}

func WithPaymentVerifier(v PaymentVerifier) ReservationServiceOption {
	return func(s *ReservationService) {
		s.verifier = v
	}
}

func WithFlightCache(c FlightCache) ReservationServiceOption {
	return func(s *ReservationService) {
		s.cache = c
	}
}

func WithTxManager(tx repository.TxManager) ReservationServiceOption {
	return func(s *ReservationService) {
		s.tx = tx
	}
}

func NewReservationService(
	reservations repository.ReservationRepository,
	flights repository.FlightRepository,
	locker lock.Locker,
	ids idgen.Generator,
	clk clock.Clock,
	opts ...ReservationServiceOption,
) *ReservationService {
	s := &ReservationService{
		reservations: reservations,
		flights:      flights,
		tx:           repository.NoTx{},
		locker:       locker,
		ids:          ids,
		clock:        clk,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateReservation requires a free seat on the flight but captures none;
// seats are taken at confirmation.
func (s *ReservationService) CreateReservation(ctx context.Context, flightID string) (*domain.Reservation, error) {
	if strings.TrimSpace(flightID) == "" {
		return nil, domain.ErrFlightIDRequired
	}
	flight, err := s.flights.GetByID(ctx, flightID)
	if err != nil {
		return nil, err
	}
	if flight.IsFull() {
		return nil, domain.ErrNoAvailableSeats
	}

	id, err := s.ids.Next(ctx)
	if err != nil {
		return nil, fmt.Errorf("reservation id: %w", err)
	}
	res := domain.NewReservation(id, flight)
	if err := s.reservations.Create(ctx, res); err != nil {
		return nil, err
	}

	log.Printf("reservation created id=%s flight=%s", res.ID, res.FlightID)
	s.publish(ctx, kafka.EventReservationCreated, res)
	return res, nil
}

func (s *ReservationService) AddTraveler(ctx context.Context, reservationID string, traveler *domain.Traveler) (*domain.Reservation, error) {
	if strings.TrimSpace(reservationID) == "" {
		return nil, domain.ErrReservationIDRequired
	}
	if traveler == nil {
		return nil, domain.ErrTravelerRequired
	}
	return s.mutate(ctx, reservationID, func(res *domain.Reservation) error {
		return res.AddTraveler(*traveler)
	})
}

// RemoveTraveler leaves the roster unchanged when travelerID is not on it.
func (s *ReservationService) RemoveTraveler(ctx context.Context, reservationID, travelerID string) (*domain.Reservation, error) {
	if strings.TrimSpace(reservationID) == "" {
		return nil, domain.ErrReservationIDRequired
	}
	if strings.TrimSpace(travelerID) == "" {
		return nil, domain.ErrTravelerIDRequired
	}
	return s.mutate(ctx, reservationID, func(res *domain.Reservation) error {
		_, err := res.RemoveTraveler(travelerID)
		return err
	})
}

func (s *ReservationService) ConfirmReservation(ctx context.Context, reservationID, paymentRef string) (ConfirmResult, error) {
	if strings.TrimSpace(reservationID) == "" {
		return ConfirmResult{}, domain.ErrReservationIDRequired
	}
	if strings.TrimSpace(paymentRef) == "" {
		return ConfirmResult{}, domain.ErrPaymentIDRequired
	}

	unlock, err := s.locker.Lock(ctx, lock.ReservationKey(reservationID))
	if err != nil {
		return ConfirmResult{}, err
	}
	defer unlock()

	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return ConfirmResult{}, err
	}
	if err := res.CheckConfirmable(paymentRef); err != nil {
		return ConfirmResult{}, err
	}
	if s.verifier != nil {
		if err := s.verifier.VerifyPayment(ctx, paymentRef, res.ID); err != nil {
			return ConfirmResult{}, err
		}
	}

	unlockFlight, err := s.locker.Lock(ctx, lock.FlightKey(res.FlightID))
	if err != nil {
		return ConfirmResult{}, err
	}
	defer unlockFlight()

	var confirmed bool
	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		flight, err := s.flights.GetByID(ctx, res.FlightID)
		if err != nil {
			return err
		}
		ok, err := res.Confirm(paymentRef, flight)
		if err != nil || !ok {
			return err
		}
		if err := s.flights.UpdateSeats(ctx, flight); err != nil {
			return err
		}
		if err := s.reservations.Update(ctx, res); err != nil {
			return err
		}
		confirmed = true
		return nil
	})
	if err != nil {
		return ConfirmResult{}, err
	}

	if !confirmed {
		log.Printf("reservation not confirmed id=%s flight=%s travelers=%d reason=insufficient_seats", res.ID, res.FlightID, res.TravelerCount())
		return ConfirmResult{Reservation: res, Confirmed: false}, nil
	}

	log.Printf("reservation confirmed id=%s flight=%s seats=%d payment=%s", res.ID, res.FlightID, res.SeatsHeld, res.PaymentRef)
	s.invalidateFlights(ctx)
	s.publish(ctx, kafka.EventReservationConfirmed, res)
	return ConfirmResult{Reservation: res, Confirmed: true}, nil
}

// CancelReservation returns the seats of a Confirmed reservation to its flight.
func (s *ReservationService) CancelReservation(ctx context.Context, reservationID string) (*domain.Reservation, error) {
	if strings.TrimSpace(reservationID) == "" {
		return nil, domain.ErrReservationIDRequired
	}

	unlock, err := s.locker.Lock(ctx, lock.ReservationKey(reservationID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if res.Status != domain.ReservationConfirmed {
		return nil, domain.ErrOnlyConfirmedCancelable
	}

	unlockFlight, err := s.locker.Lock(ctx, lock.FlightKey(res.FlightID))
	if err != nil {
		return nil, err
	}
	defer unlockFlight()

	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		flight, err := s.flights.GetByID(ctx, res.FlightID)
		if err != nil {
			return err
		}
		if err := res.Cancel(flight); err != nil {
			return err
		}
		if err := s.flights.UpdateSeats(ctx, flight); err != nil {
			return err
		}
		return s.reservations.Update(ctx, res)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("reservation cancelled id=%s flight=%s seats_released=%d", res.ID, res.FlightID, res.SeatsHeld)
	s.invalidateFlights(ctx)
	s.publish(ctx, kafka.EventReservationCancelled, res)
	return res, nil
}

// DiscardReservation drops a Pending reservation. Pending reservations hold
// no seats, so nothing is released.
func (s *ReservationService) DiscardReservation(ctx context.Context, reservationID string) error {
	if strings.TrimSpace(reservationID) == "" {
		return domain.ErrReservationIDRequired
	}

	unlock, err := s.locker.Lock(ctx, lock.ReservationKey(reservationID))
	if err != nil {
		return err
	}
	defer unlock()

	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return err
	}
	if res.Status != domain.ReservationPending {
		return domain.ErrOnlyPendingDiscardable
	}
	if err := s.reservations.Delete(ctx, reservationID); err != nil {
		return err
	}

	log.Printf("reservation discarded id=%s", reservationID)
	s.publish(ctx, kafka.EventReservationDiscarded, res)
	return nil
}

func (s *ReservationService) GetReservation(ctx context.Context, reservationID string) (*domain.Reservation, error) {
	if strings.TrimSpace(reservationID) == "" {
		return nil, domain.ErrReservationIDRequired
	}
	return s.reservations.GetByID(ctx, reservationID)
}

func (s *ReservationService) FindByTravelerEmail(ctx context.Context, email string) ([]domain.Reservation, error) {
	if strings.TrimSpace(email) == "" {
		return nil, domain.ErrEmailRequired
	}
	found, err := s.reservations.FindByTravelerEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if found == nil {
		found = make([]domain.Reservation, 0)
	}
	return found, nil
}

func (s *ReservationService) Stats(ctx context.Context) (Stats, error) {
	all, err := s.reservations.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	st := Stats{Total: len(all)}
	for _, r := range all {
		switch r.Status {
		case domain.ReservationPending:
			st.Pending++
		case domain.ReservationConfirmed:
			st.Confirmed++
		case domain.ReservationCancelled:
			st.Cancelled++
		}
	}
	return st, nil
}

// mutate applies a roster edit under the reservation's lock.
func (s *ReservationService) mutate(ctx context.Context, reservationID string, fn func(*domain.Reservation) error) (*domain.Reservation, error) {
	unlock, err := s.locker.Lock(ctx, lock.ReservationKey(reservationID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if err := fn(res); err != nil {
		return nil, err
	}
	if err := s.reservations.Update(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *ReservationService) invalidateFlights(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		log.Printf("WARNING: failed to invalidate flight cache: %v", err)
	}
}

func (s *ReservationService) publish(ctx context.Context, eventType string, res *domain.Reservation) {
	if s.producer == nil || s.reservationsTopic == "" {
		return
	}
	event := kafka.NewReservationEvent(eventType, res, s.clock.Now())
	if err := s.producer.Publish(ctx, s.reservationsTopic, res.ID, event); err != nil {
		log.Printf("WARNING: failed to publish %s for reservation %s: %v", eventType, res.ID, err)
		return
	}
	if s.notificationsTopic != "" && len(event.Emails) > 0 {
		if err := s.producer.Publish(ctx, s.notificationsTopic, res.ID, event); err != nil {
			log.Printf("WARNING: failed to publish %s notification for reservation %s: %v", eventType, res.ID, err)
		}
	}
}

var _ ReservationUseCase = (*ReservationService)(nil)
