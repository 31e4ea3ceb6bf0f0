package pricing

import (
	"strings"
	"time"

	"github.com/avionix/flightbooking/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	// seatWeight scales the scarcity term: a fully booked flight adds 40%.
	seatWeight = 0.4

	// Demand is drawn uniformly from this range on every evaluation. It is
	// the only non-deterministic input to a quote.
	demandLow  = -0.08
	demandHigh = 0.25

	tierPremium  = 0.12
	tierStandard = -0.03

	defaultPremiumMarker = "premium"
)

// minFare is the floor every quote is clamped to, in currency units.
var minFare = decimal.NewFromInt(50)

// Engine computes per-seat fares from a flight snapshot and a reference
// instant. It holds no mutable state beyond its random source; the same
// inputs always yield the same fare apart from the demand draw.
type Engine struct {
	src           Source
	premiumMarker string
}

type Option func(*Engine)

// WithPremiumMarker overrides the substring that marks a flight number as
// premium tier.
func WithPremiumMarker(marker string) Option {
	return func(e *Engine) {
		if marker != "" {
			e.premiumMarker = strings.ToLower(marker)
		}
	}
}

func NewEngine(src Source, opts ...Option) *Engine {
	e := &Engine{src: src, premiumMarker: defaultPremiumMarker}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Quote prices one seat on the given flight snapshot as of now.
//
// fare = base * (1 + seat + time + demand + tier), floored at minFare and
// rounded to cents. Inputs outside their valid ranges are clamped, never
// faulted on: a non-positive seat total skips the scarcity term and a zero
// departure time skips the timing term.
func (e *Engine) Quote(f domain.Flight, now time.Time) domain.FareQuote {
	q := domain.FareQuote{
		SeatFactor:   seatFactor(f.AvailableSeats, f.TotalSeats),
		TimeFactor:   timeFactor(f.DepartureTime, now),
		DemandFactor: e.src.Uniform(demandLow, demandHigh),
		TierFactor:   tierFactor(f.FlightNumber, e.premiumMarker),
	}

	base := f.BaseFare
	if base.IsNegative() {
		base = decimal.Zero
	}

	multiplier := decimal.NewFromFloat(1 + q.SeatFactor + q.TimeFactor + q.DemandFactor + q.TierFactor)
	fare := base.Mul(multiplier).Round(2)
	if fare.LessThan(minFare) {
		fare = minFare
	}
	q.PerSeatFare = fare
	return q
}

func seatFactor(available, total int) float64 {
	if total <= 0 {
		return 0
	}
	if available < 0 {
		available = 0
	}
	if available > total {
		available = total
	}
	ratio := float64(available) / float64(total)
	return seatWeight * (1 - ratio)
}

// timeFactor brackets days to departure, inclusive on each upper bound.
// Flights more than a week out get the early-bird discount.
func timeFactor(departure time.Time, now time.Time) float64 {
	if departure.IsZero() {
		return 0
	}
	days := departure.Sub(now).Seconds() / 86400
	switch {
	case days <= 0:
		return 0.6
	case days <= 1:
		return 0.4
	case days <= 3:
		return 0.2
	case days <= 7:
		return 0.1
	default:
		return -0.05
	}
}

func tierFactor(flightNumber, marker string) float64 {
	if strings.Contains(strings.ToLower(flightNumber), marker) {
		return tierPremium
	}
	return tierStandard
}
