package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/avionix/flightbooking/internal/domain"
	"github.com/avionix/flightbooking/internal/kafka"
	"github.com/avionix/flightbooking/internal/metrics"
	"github.com/avionix/flightbooking/internal/pricing"
	"github.com/avionix/flightbooking/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingUseCase interface {
	Reserve(ctx context.Context, input ReserveInput) (*domain.Booking, error)
	Cancel(ctx context.Context, bookingID int64) (*domain.CancelReceipt, error)
	GetByID(ctx context.Context, bookingID int64) (*domain.Booking, error)
	RecordPayment(ctx context.Context, input PaymentInput) (*domain.Payment, error)
}

// Cache is the slice of the flight cache the booking flow needs: committed
// seat changes invalidate the cached flight list.
type Cache interface {
	InvalidateFlights(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type ReserveInput struct {
	UserID     int64              `json:"user_id"`
	FlightID   int64              `json:"flight_id"`
	Passengers []domain.Passenger `json:"passengers"`
}

type PaymentInput struct {
	BookingID int64
	Amount    decimal.Decimal
	Mode      domain.PaymentMode
}

// BookingService orchestrates the reserve/cancel lifecycle. The repository
// owns the transaction and row locks; this layer validates input, prices the
// locked snapshot via the engine, and fans out events, metrics and cache
// invalidation after commit.
type BookingService struct {
	bookings repository.BookingRepository
	engine   *pricing.Engine
	cache    Cache
	producer Producer
	topic    string
	now      func() time.Time
}

type BookingServiceOption func(*BookingService)

// WithClock pins the reference instant used for fare computation.
func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	engine *pricing.Engine,
	cache Cache,
	producer Producer,
	topic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings: bookings,
		engine:   engine,
		cache:    cache,
		producer: producer,
		topic:    topic,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) Reserve(ctx context.Context, input ReserveInput) (*domain.Booking, error) {
	if err := validateReserve(input); err != nil {
		metrics.BookingErrors.WithLabelValues("invalid_request").Inc()
		return nil, err
	}

	now := s.now()
	booking, err := s.bookings.Reserve(ctx, input.UserID, input.FlightID, input.Passengers, func(f domain.Flight) domain.FareQuote {
		return s.engine.Quote(f, now)
	})
	if err != nil {
		metrics.BookingErrors.WithLabelValues(errorReason(err)).Inc()
		return nil, err
	}

	metrics.BookingsReserved.Inc()
	metrics.SeatsReserved.Add(float64(len(booking.Passengers)))
	metrics.BookingFare.Observe(booking.TotalFare.InexactFloat64())

	s.afterCommit(ctx, "booking_reserved", booking, len(booking.Passengers))
	return booking, nil
}

func (s *BookingService) Cancel(ctx context.Context, bookingID int64) (*domain.CancelReceipt, error) {
	receipt, err := s.bookings.Cancel(ctx, bookingID)
	if err != nil {
		metrics.BookingErrors.WithLabelValues(errorReason(err)).Inc()
		return nil, err
	}

	metrics.BookingsCancelled.Inc()
	booking := &domain.Booking{ID: receipt.BookingID, Status: domain.BookingStatusCancelled}
	s.afterCommit(ctx, "booking_cancelled", booking, receipt.SeatsRestored)
	return receipt, nil
}

func (s *BookingService) GetByID(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, bookingID)
}

func (s *BookingService) RecordPayment(ctx context.Context, input PaymentInput) (*domain.Payment, error) {
	if input.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: payment amount must not be negative", domain.ErrInvalidRequest)
	}
	switch input.Mode {
	case domain.PaymentModeCreditCard, domain.PaymentModeDebitCard, domain.PaymentModeUPI, domain.PaymentModeWallet:
	default:
		return nil, fmt.Errorf("%w: unknown payment mode %q", domain.ErrInvalidRequest, input.Mode)
	}

	payment := &domain.Payment{
		BookingID:     input.BookingID,
		TransactionID: transactionID(),
		Amount:        input.Amount,
		Mode:          input.Mode,
		Status:        domain.PaymentStatusSuccess,
	}
	if err := s.bookings.RecordPayment(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// afterCommit runs the best-effort side effects. Failures here never undo a
// committed booking; they are logged and dropped.
func (s *BookingService) afterCommit(ctx context.Context, eventType string, booking *domain.Booking, seats int) {
	if s.cache != nil {
		if err := s.cache.InvalidateFlights(ctx); err != nil {
			log.Printf("invalidate flights cache: %v", err)
		}
	}
	if s.producer == nil || s.topic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:      eventType,
		BookingID: booking.ID,
		UserID:    booking.UserID,
		FlightID:  booking.FlightID,
		Seats:     seats,
		TotalFare: booking.TotalFare.StringFixed(2),
		Status:    string(booking.Status),
	}
	if err := s.producer.Publish(ctx, s.topic, fmt.Sprintf("booking-%d", booking.ID), event); err != nil {
		log.Printf("publish %s event for booking %d: %v", eventType, booking.ID, err)
	}
}

func validateReserve(input ReserveInput) error {
	if input.UserID <= 0 {
		return fmt.Errorf("%w: user id must be positive", domain.ErrInvalidRequest)
	}
	if input.FlightID <= 0 {
		return fmt.Errorf("%w: flight id must be positive", domain.ErrInvalidRequest)
	}
	if len(input.Passengers) == 0 {
		return fmt.Errorf("%w: at least one passenger is required", domain.ErrInvalidRequest)
	}
	for i, p := range input.Passengers {
		if p.Name == "" {
			return fmt.Errorf("%w: passenger %d has no name", domain.ErrInvalidRequest, i)
		}
		if p.Age < 0 {
			return fmt.Errorf("%w: passenger %d has negative age", domain.ErrInvalidRequest, i)
		}
		switch p.Gender {
		case domain.GenderMale, domain.GenderFemale, domain.GenderOther:
		default:
			return fmt.Errorf("%w: passenger %d has unknown gender %q", domain.ErrInvalidRequest, i, p.Gender)
		}
	}
	return nil
}

func errorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, domain.ErrInsufficientCapacity):
		return "insufficient_capacity"
	case errors.Is(err, domain.ErrBusy):
		return "busy"
	case errors.Is(err, domain.ErrTransactionFailure):
		return "transaction_failure"
	default:
		return "internal"
	}
}

func transactionID() string {
	id := uuid.NewString()
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 20 {
		id = id[:20]
	}
	return id
}

var _ BookingUseCase = (*BookingService)(nil)
