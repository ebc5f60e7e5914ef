package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/Domenick1991/skyreserve/internal/domain"
	"github.com/Domenick1991/skyreserve/internal/service/reservation"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockReservationUseCase struct {
	mock.Mock
}

func (m *MockReservationUseCase) CreateReservation(ctx context.Context, flightID string) (*domain.Reservation, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationUseCase) AddTraveler(ctx context.Context, reservationID string, traveler *domain.Traveler) (*domain.Reservation, error) {
	args := m.Called(ctx, reservationID, traveler)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationUseCase) RemoveTraveler(ctx context.Context, reservationID, travelerID string) (*domain.Reservation, error) {
	args := m.Called(ctx, reservationID, travelerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationUseCase) ConfirmReservation(ctx context.Context, reservationID, paymentRef string) (reservation.ConfirmResult, error) {
	args := m.Called(ctx, reservationID, paymentRef)
	return args.Get(0).(reservation.ConfirmResult), args.Error(1)
}

func (m *MockReservationUseCase) CancelReservation(ctx context.Context, reservationID string) (*domain.Reservation, error) {
	args := m.Called(ctx, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationUseCase) DiscardReservation(ctx context.Context, reservationID string) error {
	args := m.Called(ctx, reservationID)
	return args.Error(0)
}

func (m *MockReservationUseCase) GetReservation(ctx context.Context, reservationID string) (*domain.Reservation, error) {
	args := m.Called(ctx, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationUseCase) FindByTravelerEmail(ctx context.Context, email string) ([]domain.Reservation, error) {
	args := m.Called(ctx, email)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockReservationUseCase) Stats(ctx context.Context) (reservation.Stats, error) {
	args := m.Called(ctx)
	return args.Get(0).(reservation.Stats), args.Error(1)
}

func pendingReservation() *domain.Reservation {
	return &domain.Reservation{
		ID:         "RES1001",
		FlightID:   "FL001",
		Travelers:  []domain.Traveler{},
		Status:     domain.ReservationPending,
		PriceCents: 10000,
	}
}

func TestReservationHandler_create(t *testing.T) {
	mockService := &MockReservationUseCase{}
	handler := NewReservationHandler(mockService)

	c, w := newTestContext("POST", "/api/reservations", `{"flight_id":"FL001"}`)
	mockService.On("CreateReservation", c.Request.Context(), "FL001").Return(pendingReservation(), nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "RES1001", got["id"])
	assert.Equal(t, "PENDING", got["status"])
	mockService.AssertExpectations(t)
}

func TestReservationHandler_create_NoSeats(t *testing.T) {
	mockService := &MockReservationUseCase{}
	handler := NewReservationHandler(mockService)

	c, w := newTestContext("POST", "/api/reservations", `{"flight_id":"FL001"}`)
	mockService.On("CreateReservation", c.Request.Context(), "FL001").Return(nil, domain.ErrNoAvailableSeats)

	handler.create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "no available seats on this flight", body["error"])
	assert.Equal(t, "illegal_state", body["code"])
}

func TestReservationHandler_addTraveler(t *testing.T) {
	mockService := &MockReservationUseCase{}
	handler := NewReservationHandler(mockService)

	c, w := newTestContext("POST", "/api/reservations/RES1001/travelers",
		`{"first_name":"Anna","last_name":"Ivanova","email":"anna@example.com","age":30}`)
	c.Params = gin.Params{{Key: "id", Value: "RES1001"}}

	mockService.On("AddTraveler", c.Request.Context(), "RES1001", mock.MatchedBy(func(tr *domain.Traveler) bool {
		return tr.ID != "" && tr.FullName() == "Anna Ivanova" && tr.Email == "anna@example.com"
	})).Return(pendingReservation(), nil)

	handler.addTraveler(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestReservationHandler_addTraveler_Invalid(t *testing.T) {
	mockService := &MockReservationUseCase{}
	handler := NewReservationHandler(mockService)

	c, w := newTestContext("POST", "/api/reservations/RES1001/travelers", `{"first_name":"Anna","age":30}`)
	c.Params = gin.Params{{Key: "id", Value: "RES1001"}}

	handler.addTraveler(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "last name cannot be empty", decodeError(t, w)["error"])
	mockService.AssertNotCalled(t, "AddTraveler", mock.Anything, mock.Anything, mock.Anything)
}

func TestReservationHandler_confirm(t *testing.T) {
	mockService := &MockReservationUseCase{}
	handler := NewReservationHandler(mockService)

	c, w := newTestContext("POST", "/api/reservations/RES1001/confirm", `{"payment_id":"PAY5001"}`)
	c.Params = gin.Params{{Key: "id", Value: "RES1001"}}

	res := pendingReservation()
	mockService.On("ConfirmReservation", c.Request.Context(), "RES1001", "PAY5001").
		Return(reservation.ConfirmResult{Reservation: res, Confirmed: false}, nil)

	handler.confirm(c)

	// Too few seats is a normal outcome, not an error.
	assert.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Confirmed   bool               `json:"confirmed"`
		Reservation domain.Reservation `json:"reservation"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.False(t, got.Confirmed)
	assert.Equal(t, domain.ReservationPending, got.Reservation.Status)
}

func TestReservationHandler_cancel_Pending(t *testing.T) {
	mockService := &MockReservationUseCase{}
	handler := NewReservationHandler(mockService)

	c, w := newTestContext("POST", "/api/reservations/RES1001/cancel", "")
	c.Params = gin.Params{{Key: "id", Value: "RES1001"}}
	mockService.On("CancelReservation", c.Request.Context(), "RES1001").Return(nil, domain.ErrOnlyConfirmedCancelable)

	handler.cancel(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestReservationHandler_discard(t *testing.T) {
	mockService := &MockReservationUseCase{}
	handler := NewReservationHandler(mockService)

	c, w := newTestContext("DELETE", "/api/reservations/RES1001", "")
	c.Params = gin.Params{{Key: "id", Value: "RES1001"}}
	mockService.On("DiscardReservation", c.Request.Context(), "RES1001").Return(nil)

	handler.discard(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockService.AssertExpectations(t)
}

func TestReservationHandler_removeTraveler(t *testing.T) {
	mockService := &MockReservationUseCase{}
	handler := NewReservationHandler(mockService)

	c, w := newTestContext("DELETE", "/api/reservations/RES404/travelers/T1", "")
	c.Params = gin.Params{{Key: "id", Value: "RES404"}, {Key: "travelerId", Value: "T1"}}
	mockService.On("RemoveTraveler", c.Request.Context(), "RES404", "T1").Return(nil, domain.ErrReservationNotFound)

	handler.removeTraveler(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReservationHandler_findByEmail(t *testing.T) {
	mockService := &MockReservationUseCase{}
	handler := NewReservationHandler(mockService)

	c, w := newTestContext("GET", "/api/reservations?email=anna@example.com", "")
	mockService.On("FindByTravelerEmail", c.Request.Context(), "anna@example.com").
		Return([]domain.Reservation{*pendingReservation()}, nil)

	handler.findByEmail(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var got []domain.Reservation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 1)
}

func TestReservationHandler_stats(t *testing.T) {
	mockService := &MockReservationUseCase{}
	handler := NewReservationHandler(mockService)

	c, w := newTestContext("GET", "/api/reservations/stats", "")
	mockService.On("Stats", c.Request.Context()).Return(reservation.Stats{Total: 3, Pending: 1, Confirmed: 1, Cancelled: 1}, nil)

	handler.stats(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total":3,"pending":1,"confirmed":1,"cancelled":1}`, w.Body.String())
}
