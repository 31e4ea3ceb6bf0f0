package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FareQuote is the outcome of one fare computation: the individual factors
// and the resulting per-seat fare.
type FareQuote struct {
	SeatFactor   float64         `json:"seat_factor"`
	TimeFactor   float64         `json:"time_factor"`
	DemandFactor float64         `json:"demand_factor"`
	TierFactor   float64         `json:"tier_factor"`
	PerSeatFare  decimal.Decimal `json:"per_seat_fare"`
}

// PricingRecord is a write-once audit snapshot of the factors behind a
// historical fare. Rows are append-only and never mutated.
type PricingRecord struct {
	ID           int64           `json:"id"`
	FlightID     int64           `json:"flight_id"`
	Timestamp    time.Time       `json:"timestamp"`
	DemandFactor decimal.Decimal `json:"demand_factor"`
	TimeFactor   decimal.Decimal `json:"time_factor"`
	SeatFactor   decimal.Decimal `json:"seat_factor"`
	FinalFare    decimal.Decimal `json:"final_fare"`
}
