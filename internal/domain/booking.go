package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "Confirmed"
	BookingStatusCancelled BookingStatus = "Cancelled"
)

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Booking is created Confirmed together with its passengers and the flight's
// seat decrement, in one transaction. It transitions to Cancelled at most
// once; passengers and fare are immutable history after creation.
type Booking struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	FlightID    int64           `json:"flight_id"`
	BookingDate time.Time       `json:"booking_date"`
	TotalFare   decimal.Decimal `json:"total_fare"`
	Status      BookingStatus   `json:"status"`
	Passengers  []Passenger     `json:"passengers"`
}

// Passenger rows are owned by their booking and only exist as part of it.
// Seat numbers are caller-assigned and not checked for uniqueness.
type Passenger struct {
	ID         int64  `json:"id"`
	BookingID  int64  `json:"booking_id"`
	Name       string `json:"name"`
	Age        int    `json:"age"`
	Gender     Gender `json:"gender"`
	SeatNumber string `json:"seat_number"`
}

// CancelReceipt reports how many seats a committed cancellation returned to
// the flight.
type CancelReceipt struct {
	BookingID     int64 `json:"booking_id"`
	SeatsRestored int   `json:"seats_restored"`
}
