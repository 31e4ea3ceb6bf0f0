package flights

import (
	"context"
	"testing"
	"time"

	"github.com/avionix/flightbooking/internal/domain"
	"github.com/avionix/flightbooking/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

func (m *MockFlightRepository) ListDepartingWithin(ctx context.Context, days int) ([]domain.Flight, error) {
	args := m.Called(ctx, days)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

type MockPricingRepository struct {
	mock.Mock
}

func (m *MockPricingRepository) Append(ctx context.Context, flightID int64, quote domain.FareQuote) error {
	args := m.Called(ctx, flightID, quote)
	return args.Error(0)
}

func (m *MockPricingRepository) ListByFlight(ctx context.Context, flightID int64, limit int) ([]domain.PricingRecord, error) {
	args := m.Called(ctx, flightID, limit)
	return args.Get(0).([]domain.PricingRecord), args.Error(1)
}

type MockReferenceRepository struct {
	mock.Mock
}

func (m *MockReferenceRepository) ListAirlines(ctx context.Context) ([]domain.Airline, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Airline), args.Error(1)
}

func (m *MockReferenceRepository) CreateAirline(ctx context.Context, airline *domain.Airline) error {
	args := m.Called(ctx, airline)
	return args.Error(0)
}

func (m *MockReferenceRepository) ListAirports(ctx context.Context) ([]domain.Airport, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Airport), args.Error(1)
}

func (m *MockReferenceRepository) CreateAirport(ctx context.Context, airport *domain.Airport) error {
	args := m.Called(ctx, airport)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetFlights(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockCache) SetFlights(ctx context.Context, flights []domain.Flight) error {
	args := m.Called(ctx, flights)
	return args.Error(0)
}

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(repo *MockFlightRepository, pricingRepo *MockPricingRepository, refs *MockReferenceRepository, cache FlightCache) *FlightService {
	engine := pricing.NewEngine(pricing.FixedSource(0))
	return NewFlightService(repo, pricingRepo, refs, engine, cache,
		WithClock(func() time.Time { return testNow }))
}

func TestFlightService_List_CacheMiss(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := newTestService(mockRepo, nil, nil, mockCache)

	ctx := context.Background()
	flights := []domain.Flight{{ID: 1, FlightNumber: "AI101"}}

	mockCache.On("GetFlights", ctx).Return(nil, nil).Once()
	mockRepo.On("List", ctx).Return(flights, nil).Once()
	mockCache.On("SetFlights", ctx, flights).Return(nil).Once()

	result, err := service.List(ctx)

	require.NoError(t, err)
	assert.Equal(t, flights, result)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestFlightService_List_CacheHit(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := newTestService(mockRepo, nil, nil, mockCache)

	ctx := context.Background()
	cached := []domain.Flight{{ID: 1, FlightNumber: "AI101"}}

	mockCache.On("GetFlights", ctx).Return(cached, nil).Once()

	result, err := service.List(ctx)

	require.NoError(t, err)
	assert.Equal(t, cached, result)
	mockRepo.AssertNotCalled(t, "List")
}

func TestFlightService_Search(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := newTestService(mockRepo, nil, nil, nil)

	ctx := context.Background()
	filter := domain.FlightFilter{SourceAirportID: 2}
	flights := []domain.Flight{{ID: 1}}

	mockRepo.On("Search", ctx, filter).Return(flights, nil).Once()

	result, err := service.Search(ctx, filter)

	require.NoError(t, err)
	assert.Equal(t, flights, result)
}

func TestFlightService_QuoteFare(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := newTestService(mockRepo, nil, nil, nil)

	ctx := context.Background()
	flight := &domain.Flight{
		ID:             1,
		FlightNumber:   "AI101",
		DepartureTime:  testNow.AddDate(0, 0, 10),
		BaseFare:       decimal.RequireFromString("5000.00"),
		TotalSeats:     100,
		AvailableSeats: 100,
	}

	mockRepo.On("GetByID", ctx, int64(1)).Return(flight, nil).Once()

	quote, err := service.QuoteFare(ctx, 1)

	require.NoError(t, err)
	assert.True(t, quote.PerSeatFare.Equal(decimal.RequireFromString("4600.00")), "got %s", quote.PerSeatFare)
}

func TestFlightService_QuoteFare_NotFound(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := newTestService(mockRepo, nil, nil, nil)

	ctx := context.Background()
	mockRepo.On("GetByID", ctx, int64(99)).Return(nil, domain.ErrNotFound).Once()

	quote, err := service.QuoteFare(ctx, 99)

	assert.Nil(t, quote)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFlightService_PricingHistory(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockPricing := &MockPricingRepository{}
	service := newTestService(mockRepo, mockPricing, nil, nil)

	ctx := context.Background()
	records := []domain.PricingRecord{{ID: 1, FlightID: 1}}

	mockRepo.On("GetByID", ctx, int64(1)).Return(&domain.Flight{ID: 1}, nil).Once()
	mockPricing.On("ListByFlight", ctx, int64(1), 10).Return(records, nil).Once()

	result, err := service.PricingHistory(ctx, 1, 10)

	require.NoError(t, err)
	assert.Equal(t, records, result)
}
