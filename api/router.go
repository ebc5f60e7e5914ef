package api

import (
	"github.com/Domenick1991/skyreserve/internal/service/flights"
	"github.com/Domenick1991/skyreserve/internal/service/payment"
	"github.com/Domenick1991/skyreserve/internal/service/reservation"
	"github.com/gin-gonic/gin"
)

// NewRouter mounts every REST handler under /api.
func NewRouter(flightSvc flights.FlightUseCase, reservationSvc reservation.ReservationUseCase, paymentSvc payment.PaymentUseCase) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger())

	group := router.Group("/api")
	NewFlightHandler(flightSvc).Register(group.Group("/flights"))
	NewReservationHandler(reservationSvc).Register(group.Group("/reservations"))
	NewPaymentHandler(paymentSvc).Register(group.Group("/payments"))
	return router
}
