package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/skyreserve/internal/service/flights"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type FlightHandler struct {
	service flights.FlightUseCase
}

type searchFlightsRequest struct {
	From          string `form:"from"`
	To            string `form:"to"`
	Date          string `form:"date"`
	Airline       string `form:"airline"`
	MinPriceCents int64  `form:"min_price_cents"`
	MaxPriceCents int64  `form:"max_price_cents"`
	Seats         int    `form:"seats"`
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.POST("/", h.create)
	router.GET("/search", h.search)
	router.GET("/:id", h.get)
}

func (h *FlightHandler) list(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *FlightHandler) get(c *gin.Context) {
	flight, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}

func (h *FlightHandler) create(c *gin.Context) {
	var req flights.AddFlightInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	flight, err := h.service.AddFlight(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, flight)
}

func (h *FlightHandler) search(c *gin.Context) {
	var req searchFlightsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}

	var date time.Time
	if req.Date != "" {
		parsed, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			badRequest(c, err)
			return
		}
		date = parsed
	}

	found, err := h.service.Search(c.Request.Context(), flights.SearchQuery{
		From:          req.From,
		To:            req.To,
		Date:          date,
		Airline:       req.Airline,
		MinPriceCents: req.MinPriceCents,
		MaxPriceCents: req.MaxPriceCents,
		Seats:         req.Seats,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}
