package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/avionix/flightbooking/internal/domain"
	"github.com/avionix/flightbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type passengerRequest struct {
	Name       string `json:"name"`
	Age        int    `json:"age"`
	Gender     string `json:"gender"`
	SeatNumber string `json:"seat_number"`
}

type reserveRequest struct {
	UserID     int64              `json:"user_id"`
	FlightID   int64              `json:"flight_id"`
	Passengers []passengerRequest `json:"passengers"`
}

type paymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Mode   string          `json:"mode"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/booking/reserve", h.reserve)
	router.GET("/bookings/:id", h.get)
	router.DELETE("/bookings/cancel/:id", h.cancel)
	router.POST("/bookings/:id/payments", h.recordPayment)
}

func (h *BookingHandler) reserve(c *gin.Context) {
	var req reserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	passengers := make([]domain.Passenger, 0, len(req.Passengers))
	for _, p := range req.Passengers {
		passengers = append(passengers, domain.Passenger{
			Name:       p.Name,
			Age:        p.Age,
			Gender:     domain.Gender(p.Gender),
			SeatNumber: p.SeatNumber,
		})
	}

	result, err := h.service.Reserve(c.Request.Context(), booking.ReserveInput{
		UserID:     req.UserID,
		FlightID:   req.FlightID,
		Passengers: passengers,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *BookingHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	result, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *BookingHandler) cancel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	receipt, err := h.service.Cancel(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}

func (h *BookingHandler) recordPayment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	payment, err := h.service.RecordPayment(c.Request.Context(), booking.PaymentInput{
		BookingID: id,
		Amount:    req.Amount,
		Mode:      domain.PaymentMode(req.Mode),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// writeError maps the core's failure kinds to distinct statuses so clients
// never parse free-text messages.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientCapacity):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrBusy):
		status = http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrTransactionFailure):
		status = http.StatusInternalServerError
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
