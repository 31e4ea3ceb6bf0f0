package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type FlightStatus string

const (
	FlightStatusOnTime    FlightStatus = "On Time"
	FlightStatusDelayed   FlightStatus = "Delayed"
	FlightStatusCancelled FlightStatus = "Cancelled"
)

// Flight is the inventory unit. AvailableSeats is the single source of truth
// for capacity and is only mutated inside a transaction holding the flight's
// row lock.
type Flight struct {
	ID                   int64           `json:"id"`
	AirlineID            int64           `json:"airline_id"`
	FlightNumber         string          `json:"flight_number"`
	SourceAirportID      int64           `json:"source_airport_id"`
	DestinationAirportID int64           `json:"destination_airport_id"`
	DepartureTime        time.Time       `json:"departure_time"`
	ArrivalTime          time.Time       `json:"arrival_time"`
	BaseFare             decimal.Decimal `json:"base_fare"`
	TotalSeats           int             `json:"total_seats"`
	AvailableSeats       int             `json:"available_seats"`
	Status               FlightStatus    `json:"status"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// FlightFilter narrows flight searches. Zero values mean "any".
type FlightFilter struct {
	SourceAirportID      int64
	DestinationAirportID int64
	DepartureDay         time.Time
}
