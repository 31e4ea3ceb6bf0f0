package api

import (
	"net/http"

	"github.com/avionix/flightbooking/internal/domain"
	"github.com/avionix/flightbooking/internal/service/flights"
	"github.com/gin-gonic/gin"
)

// ReferenceHandler serves airline and airport reference data.
type ReferenceHandler struct {
	service flights.FlightUseCase
}

func NewReferenceHandler(service flights.FlightUseCase) *ReferenceHandler {
	return &ReferenceHandler{service: service}
}

func (h *ReferenceHandler) Register(router *gin.RouterGroup) {
	router.GET("/airlines", h.listAirlines)
	router.POST("/airlines", h.createAirline)
	router.GET("/airports", h.listAirports)
	router.POST("/airports", h.createAirport)
}

func (h *ReferenceHandler) listAirlines(c *gin.Context) {
	airlines, err := h.service.ListAirlines(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, airlines)
}

func (h *ReferenceHandler) createAirline(c *gin.Context) {
	var airline domain.Airline
	if err := c.ShouldBindJSON(&airline); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if airline.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	if err := h.service.CreateAirline(c.Request.Context(), &airline); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, airline)
}

func (h *ReferenceHandler) listAirports(c *gin.Context) {
	airports, err := h.service.ListAirports(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, airports)
}

func (h *ReferenceHandler) createAirport(c *gin.Context) {
	var airport domain.Airport
	if err := c.ShouldBindJSON(&airport); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if airport.Name == "" || airport.IATACode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and iata_code are required"})
		return
	}
	if err := h.service.CreateAirport(c.Request.Context(), &airport); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, airport)
}
