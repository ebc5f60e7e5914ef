package api

import (
	"net/http"

	"github.com/Domenick1991/skyreserve/internal/domain"
	"github.com/Domenick1991/skyreserve/internal/service/reservation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReservationHandler struct {
	service reservation.ReservationUseCase
}

type createReservationRequest struct {
	FlightID string `json:"flight_id"`
}

type addTravelerRequest struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Age       int    `json:"age"`
}

type confirmReservationRequest struct {
	PaymentID string `json:"payment_id"`
}

type confirmReservationResponse struct {
	Confirmed   bool                `json:"confirmed"`
	Reservation *domain.Reservation `json:"reservation"`
}

func NewReservationHandler(service reservation.ReservationUseCase) *ReservationHandler {
	return &ReservationHandler{service: service}
}

func (h *ReservationHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/", h.findByEmail)
	router.GET("/stats", h.stats)
	router.GET("/:id", h.get)
	router.DELETE("/:id", h.discard)
	router.POST("/:id/travelers", h.addTraveler)
	router.DELETE("/:id/travelers/:travelerId", h.removeTraveler)
	router.POST("/:id/confirm", h.confirm)
	router.POST("/:id/cancel", h.cancel)
}

func (h *ReservationHandler) create(c *gin.Context) {
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.service.CreateReservation(c.Request.Context(), req.FlightID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *ReservationHandler) get(c *gin.Context) {
	res, err := h.service.GetReservation(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ReservationHandler) findByEmail(c *gin.Context) {
	found, err := h.service.FindByTravelerEmail(c.Request.Context(), c.Query("email"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

func (h *ReservationHandler) stats(c *gin.Context) {
	st, err := h.service.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// addTraveler assigns a fresh traveler id when the request carries none.
func (h *ReservationHandler) addTraveler(c *gin.Context) {
	var req addTravelerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	traveler, err := domain.NewTraveler(req.ID, req.FirstName, req.LastName, req.Email, req.Phone, req.Age)
	if err != nil {
		writeError(c, err)
		return
	}
	res, err := h.service.AddTraveler(c.Request.Context(), c.Param("id"), &traveler)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ReservationHandler) removeTraveler(c *gin.Context) {
	res, err := h.service.RemoveTraveler(c.Request.Context(), c.Param("id"), c.Param("travelerId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ReservationHandler) confirm(c *gin.Context) {
	var req confirmReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	result, err := h.service.ConfirmReservation(c.Request.Context(), c.Param("id"), req.PaymentID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, confirmReservationResponse{
		Confirmed:   result.Confirmed,
		Reservation: result.Reservation,
	})
}

func (h *ReservationHandler) cancel(c *gin.Context) {
	res, err := h.service.CancelReservation(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ReservationHandler) discard(c *gin.Context) {
	if err := h.service.DiscardReservation(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
