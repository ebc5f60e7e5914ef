package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Domenick1991/skyreserve/internal/clock"
	"github.com/Domenick1991/skyreserve/internal/domain"
	"github.com/Domenick1991/skyreserve/internal/idgen"
	"github.com/Domenick1991/skyreserve/internal/lock"
	"github.com/Domenick1991/skyreserve/internal/repository"
	"github.com/Domenick1991/skyreserve/internal/service/flights"
	"github.com/Domenick1991/skyreserve/internal/service/payment"
	"github.com/Domenick1991/skyreserve/internal/service/reservation"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	flightRepo := repository.NewMemoryFlightRepository()
	flightSvc := flights.NewFlightService(flightRepo, nil)
	ledger := payment.NewLedger(repository.NewMemoryPaymentRepository(), idgen.NewSequence("PAY", 5000), clock.NewFixed(now))
	reservationSvc := reservation.NewReservationService(
		repository.NewMemoryReservationRepository(), flightRepo, lock.NewLocal(),
		idgen.NewSequence("RES", 1000), clock.NewFixed(now),
		reservation.WithPaymentVerifier(ledger),
	)
	return NewRouter(flightSvc, reservationSvc, ledger)
}

func do(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPaymentHandler_ChargeAndRefund(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, "POST", "/api/payments/",
		`{"reservation_id":"RES1001","amount_cents":10000,"card_number":"4532015112830366","cvv":"123","expiry":"12/26"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var p domain.Payment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, "PAY5001", p.ID)
	assert.Equal(t, "4532****0366", p.MaskedCard)
	assert.NotContains(t, w.Body.String(), "4532015112830366")

	w = do(t, router, "GET", "/api/payments/PAY5001", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, "GET", "/api/payments/?reservation_id=RES1001", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var list []domain.Payment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	w = do(t, router, "POST", "/api/payments/PAY5001/refund", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, "POST", "/api/payments/PAY5001/refund", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "cannot refund unsuccessful payment", decodeError(t, w)["error"])

	w = do(t, router, "GET", "/api/payments/stats", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total_revenue_cents":0,"total":1,"successful":0,"failed":0,"refunded":1}`, w.Body.String())
}

func TestPaymentHandler_ChargeRejected(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, "POST", "/api/payments/",
		`{"reservation_id":"RES1001","amount_cents":10000,"card_number":"4532015112830367","cvv":"123","expiry":"12/26"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "invalid card number", body["error"])
	assert.Equal(t, "invalid_argument", body["code"])

	w = do(t, router, "GET", "/api/payments/PAY404", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_BookingFlow(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, "POST", "/api/flights/", `{
		"id": "FL001", "airline": "Aeroflot", "from_airport": "SVO", "to_airport": "LED",
		"departure_time": "2025-10-16T08:30:00Z", "arrival_time": "2025-10-16T09:55:00Z",
		"total_seats": 1, "price_cents": 10000
	}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, router, "POST", "/api/reservations/", `{"flight_id":"FL001"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var res domain.Reservation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))

	w = do(t, router, "POST", "/api/reservations/"+res.ID+"/travelers",
		`{"id":"T1","first_name":"Anna","last_name":"Ivanova","email":"anna@example.com","age":30}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, router, "POST", "/api/payments/",
		`{"reservation_id":"`+res.ID+`","amount_cents":10000,"card_number":"4532015112830366","cvv":"123","expiry":"12/26"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, router, "POST", "/api/reservations/"+res.ID+"/confirm", `{"payment_id":"PAY5001"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"confirmed":true`)

	w = do(t, router, "GET", "/api/flights/FL001", "")
	var flight domain.Flight
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &flight))
	assert.Equal(t, 0, flight.AvailableSeats)

	w = do(t, router, "DELETE", "/api/reservations/"+res.ID, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, router, "POST", "/api/reservations/"+res.ID+"/cancel", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, "GET", "/api/reservations/stats", "")
	assert.JSONEq(t, `{"total":1,"pending":0,"confirmed":0,"cancelled":1}`, w.Body.String())
}
