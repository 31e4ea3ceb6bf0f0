package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/avionix/flightbooking/internal/domain"
	"github.com/avionix/flightbooking/internal/service/flights"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

type createFlightRequest struct {
	AirlineID            int64           `json:"airline_id"`
	FlightNumber         string          `json:"flight_number"`
	SourceAirportID      int64           `json:"source_airport_id"`
	DestinationAirportID int64           `json:"destination_airport_id"`
	DepartureTime        time.Time       `json:"departure_time"`
	ArrivalTime          time.Time       `json:"arrival_time"`
	BaseFare             decimal.Decimal `json:"base_fare"`
	TotalSeats           int             `json:"total_seats"`
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/flights", h.list)
	router.POST("/flights", h.create)
	router.GET("/flights/:id", h.get)
	router.GET("/pricing/:flight_id", h.quote)
	router.GET("/flights/:id/pricing-history", h.pricingHistory)
}

func (h *FlightHandler) list(c *gin.Context) {
	filter := domain.FlightFilter{}
	if v := c.Query("source_airport_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "source_airport_id must be an integer"})
			return
		}
		filter.SourceAirportID = id
	}
	if v := c.Query("destination_airport_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "destination_airport_id must be an integer"})
			return
		}
		filter.DestinationAirportID = id
	}
	if v := c.Query("departure_day"); v != "" {
		day, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "departure_day must be YYYY-MM-DD"})
			return
		}
		filter.DepartureDay = day
	}

	var (
		result []domain.Flight
		err    error
	)
	if filter == (domain.FlightFilter{}) {
		result, err = h.service.List(c.Request.Context())
	} else {
		result, err = h.service.Search(c.Request.Context(), filter)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *FlightHandler) create(c *gin.Context) {
	var req createFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	flight := &domain.Flight{
		AirlineID:            req.AirlineID,
		FlightNumber:         req.FlightNumber,
		SourceAirportID:      req.SourceAirportID,
		DestinationAirportID: req.DestinationAirportID,
		DepartureTime:        req.DepartureTime,
		ArrivalTime:          req.ArrivalTime,
		BaseFare:             req.BaseFare,
		TotalSeats:           req.TotalSeats,
	}
	if err := h.service.Create(c.Request.Context(), flight); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, flight)
}

func (h *FlightHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	flight, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}

func (h *FlightHandler) quote(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("flight_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid flight id"})
		return
	}
	quote, err := h.service.QuoteFare(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (h *FlightHandler) pricingHistory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	records, err := h.service.PricingHistory(c.Request.Context(), id, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}
