package email

import (
	"context"
	"fmt"

	"github.com/avionix/flightbooking/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	fmt.Printf("notify user %d: %s for booking %d on flight %d (%d seats, fare %s)\n",
		event.UserID, event.Type, event.BookingID, event.FlightID, event.Seats, event.TotalFare)
	return nil
}
