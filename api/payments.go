package api

import (
	"net/http"

	"github.com/Domenick1991/skyreserve/internal/service/payment"
	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	service payment.PaymentUseCase
}

type chargeRequest struct {
	ReservationID string `json:"reservation_id"`
	AmountCents   int64  `json:"amount_cents"`
	CardNumber    string `json:"card_number"`
	CVV           string `json:"cvv"`
	Expiry        string `json:"expiry"`
}

func NewPaymentHandler(service payment.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{service: service}
}

func (h *PaymentHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.charge)
	router.GET("/", h.listByReservation)
	router.GET("/stats", h.stats)
	router.GET("/:id", h.get)
	router.POST("/:id/refund", h.refund)
}

func (h *PaymentHandler) charge(c *gin.Context) {
	var req chargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.service.Charge(c.Request.Context(), payment.ChargeInput{
		ReservationID: req.ReservationID,
		AmountCents:   req.AmountCents,
		CardNumber:    req.CardNumber,
		CVV:           req.CVV,
		Expiry:        req.Expiry,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *PaymentHandler) get(c *gin.Context) {
	p, err := h.service.GetPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PaymentHandler) listByReservation(c *gin.Context) {
	list, err := h.service.ListByReservation(c.Request.Context(), c.Query("reservation_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *PaymentHandler) refund(c *gin.Context) {
	p, err := h.service.Refund(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PaymentHandler) stats(c *gin.Context) {
	st, err := h.service.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
