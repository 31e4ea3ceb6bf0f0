package booking

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/avionix/flightbooking/internal/domain"
	"github.com/avionix/flightbooking/internal/pricing"
	"github.com/avionix/flightbooking/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore implements repository.BookingRepository over maps, with one mutex
// per flight standing in for the database row lock. It exists to exercise
// the manager's accounting invariants under real goroutine contention.
type memStore struct {
	mu         sync.Mutex
	flightLock map[int64]*sync.Mutex
	flights    map[int64]*domain.Flight
	bookings   map[int64]*domain.Booking
	nextID     int64
}

func newMemStore(flights ...*domain.Flight) *memStore {
	s := &memStore{
		flightLock: make(map[int64]*sync.Mutex),
		flights:    make(map[int64]*domain.Flight),
		bookings:   make(map[int64]*domain.Booking),
	}
	for _, f := range flights {
		s.flights[f.ID] = f
		s.flightLock[f.ID] = &sync.Mutex{}
	}
	return s
}

func (s *memStore) lockForFlight(flightID int64) (*sync.Mutex, *domain.Flight, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.flights[flightID]
	if !ok {
		return nil, nil, false
	}
	return s.flightLock[flightID], f, true
}

func (s *memStore) Reserve(ctx context.Context, userID, flightID int64, passengers []domain.Passenger, price repository.PriceFunc) (*domain.Booking, error) {
	rowLock, flight, ok := s.lockForFlight(flightID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	rowLock.Lock()
	defer rowLock.Unlock()

	seats := len(passengers)
	if flight.AvailableSeats < seats {
		return nil, fmt.Errorf("%w: %d seats requested, %d available", domain.ErrInsufficientCapacity, seats, flight.AvailableSeats)
	}

	quote := price(*flight)

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.mu.Unlock()

	booking := &domain.Booking{
		ID:          id,
		UserID:      userID,
		FlightID:    flightID,
		BookingDate: time.Now(),
		TotalFare:   quote.PerSeatFare.Mul(decimal.NewFromInt(int64(seats))),
		Status:      domain.BookingStatusConfirmed,
		Passengers:  append([]domain.Passenger(nil), passengers...),
	}
	flight.AvailableSeats -= seats

	s.mu.Lock()
	s.bookings[id] = booking
	s.mu.Unlock()
	return booking, nil
}

func (s *memStore) Cancel(ctx context.Context, bookingID int64) (*domain.CancelReceipt, error) {
	s.mu.Lock()
	booking, ok := s.bookings[bookingID]
	s.mu.Unlock()
	if !ok {
		return nil, domain.ErrNotFound
	}

	rowLock, flight, ok := s.lockForFlight(booking.FlightID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	rowLock.Lock()
	defer rowLock.Unlock()

	// Status is checked and flipped under the row lock so two concurrent
	// cancels credit the seats once.
	s.mu.Lock()
	cancelled := booking.Status == domain.BookingStatusCancelled
	if !cancelled {
		booking.Status = domain.BookingStatusCancelled
	}
	s.mu.Unlock()
	if cancelled {
		return nil, domain.ErrNotFound
	}

	before := flight.AvailableSeats
	restored := min(flight.TotalSeats, before+len(booking.Passengers))
	flight.AvailableSeats = restored
	return &domain.CancelReceipt{BookingID: bookingID, SeatsRestored: restored - before}, nil
}

func (s *memStore) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	booking, ok := s.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return booking, nil
}

func (s *memStore) RecordPayment(ctx context.Context, payment *domain.Payment) error {
	// Status check and append happen under one lock, matching the guarded
	// single-statement insert of the real store.
	s.mu.Lock()
	defer s.mu.Unlock()
	booking, ok := s.bookings[payment.BookingID]
	if !ok || booking.Status == domain.BookingStatusCancelled {
		return fmt.Errorf("%w: active booking %d", domain.ErrNotFound, payment.BookingID)
	}
	s.nextID++
	payment.ID = s.nextID
	payment.PaymentDate = time.Now()
	return nil
}

var _ repository.BookingRepository = (*memStore)(nil)

func testFlight(id int64, available, total int) *domain.Flight {
	return &domain.Flight{
		ID:             id,
		FlightNumber:   "AI101",
		DepartureTime:  time.Now().AddDate(0, 0, 10),
		BaseFare:       decimal.RequireFromString("5000.00"),
		TotalSeats:     total,
		AvailableSeats: available,
	}
}

func memService(store *memStore) *BookingService {
	return NewBookingService(store, pricing.NewEngine(pricing.FixedSource(0)), nil, nil, "")
}

func TestReserve_NoOversellUnderConcurrency(t *testing.T) {
	const capacity = 25
	flight := testFlight(1, capacity, capacity)
	store := newMemStore(flight)
	service := memService(store)

	const workers = 60
	results := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, err := service.Reserve(context.Background(), ReserveInput{
				UserID:     userID,
				FlightID:   1,
				Passengers: passengers(2),
			})
			results <- err
		}(int64(i + 1))
	}
	wg.Wait()
	close(results)

	succeeded, capacityFailures := 0, 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case assert.ErrorIs(t, err, domain.ErrInsufficientCapacity):
			capacityFailures++
		}
	}

	// 25 seats, 2 per request: 12 requests fit, the odd seat stays free.
	assert.Equal(t, 12, succeeded)
	assert.Equal(t, workers-12, capacityFailures)
	assert.Equal(t, 1, flight.AvailableSeats)
	assert.GreaterOrEqual(t, flight.AvailableSeats, 0)
	assert.LessOrEqual(t, flight.AvailableSeats, flight.TotalSeats)
}

func TestReserve_InsufficientCapacityLeavesSeatsUntouched(t *testing.T) {
	flight := testFlight(1, 1, 100)
	store := newMemStore(flight)
	service := memService(store)

	_, err := service.Reserve(context.Background(), ReserveInput{
		UserID:     1,
		FlightID:   1,
		Passengers: passengers(2),
	})

	assert.ErrorIs(t, err, domain.ErrInsufficientCapacity)
	assert.Equal(t, 1, flight.AvailableSeats)
}

func TestCancel_RestoresExactlyOnce(t *testing.T) {
	flight := testFlight(1, 10, 10)
	store := newMemStore(flight)
	service := memService(store)

	booking, err := service.Reserve(context.Background(), ReserveInput{
		UserID:     1,
		FlightID:   1,
		Passengers: passengers(3),
	})
	require.NoError(t, err)
	require.Equal(t, 7, flight.AvailableSeats)

	receipt, err := service.Cancel(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, receipt.SeatsRestored)
	assert.Equal(t, 10, flight.AvailableSeats)

	_, err = service.Cancel(context.Background(), booking.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 10, flight.AvailableSeats, "second cancel must not credit seats again")
}

func TestCancel_RestorationClampedAtTotal(t *testing.T) {
	flight := testFlight(1, 10, 10)
	store := newMemStore(flight)
	service := memService(store)

	booking, err := service.Reserve(context.Background(), ReserveInput{
		UserID:     1,
		FlightID:   1,
		Passengers: passengers(2),
	})
	require.NoError(t, err)

	// Simulate bookkeeping drift: somebody already credited the seats back.
	flight.AvailableSeats = 9

	receipt, err := service.Cancel(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, receipt.SeatsRestored)
	assert.Equal(t, 10, flight.AvailableSeats)
}

func TestRecordPayment_RejectedAfterCancel(t *testing.T) {
	flight := testFlight(1, 10, 10)
	store := newMemStore(flight)
	service := memService(store)

	booking, err := service.Reserve(context.Background(), ReserveInput{
		UserID:     1,
		FlightID:   1,
		Passengers: passengers(1),
	})
	require.NoError(t, err)

	payment, err := service.RecordPayment(context.Background(), PaymentInput{
		BookingID: booking.ID,
		Amount:    booking.TotalFare,
		Mode:      domain.PaymentModeUPI,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusSuccess, payment.Status)

	_, err = service.Cancel(context.Background(), booking.ID)
	require.NoError(t, err)

	_, err = service.RecordPayment(context.Background(), PaymentInput{
		BookingID: booking.ID,
		Amount:    booking.TotalFare,
		Mode:      domain.PaymentModeUPI,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReserveCancel_CapacityConservation(t *testing.T) {
	const total = 50
	flight := testFlight(1, total, total)
	store := newMemStore(flight)
	service := memService(store)

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			booking, err := service.Reserve(context.Background(), ReserveInput{
				UserID:     userID,
				FlightID:   1,
				Passengers: passengers(1),
			})
			if err != nil {
				return
			}
			if userID%2 == 0 {
				_, _ = service.Cancel(context.Background(), booking.ID)
			}
		}(int64(i + 1))
	}
	wg.Wait()

	assert.GreaterOrEqual(t, flight.AvailableSeats, 0)
	assert.LessOrEqual(t, flight.AvailableSeats, total)

	// Every confirmed booking holds seats; everything else was credited back.
	held := 0
	for _, b := range store.bookings {
		if b.Status == domain.BookingStatusConfirmed {
			held += len(b.Passengers)
		}
	}
	assert.Equal(t, total-held, flight.AvailableSeats)
}
