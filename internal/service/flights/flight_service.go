package flights

import (
	"context"
	"time"

	"github.com/avionix/flightbooking/internal/domain"
	"github.com/avionix/flightbooking/internal/pricing"
	"github.com/avionix/flightbooking/internal/repository"
)

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.Flight, error)
	Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Create(ctx context.Context, flight *domain.Flight) error
	QuoteFare(ctx context.Context, flightID int64) (*domain.FareQuote, error)
	PricingHistory(ctx context.Context, flightID int64, limit int) ([]domain.PricingRecord, error)
	ListAirlines(ctx context.Context) ([]domain.Airline, error)
	CreateAirline(ctx context.Context, airline *domain.Airline) error
	ListAirports(ctx context.Context) ([]domain.Airport, error)
	CreateAirport(ctx context.Context, airport *domain.Airport) error
}

type FlightCache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
}

type FlightService struct {
	repo    repository.FlightRepository
	pricing repository.PricingRepository
	refs    repository.ReferenceRepository
	engine  *pricing.Engine
	cache   FlightCache
	now     func() time.Time
}

type FlightServiceOption func(*FlightService)

func WithClock(now func() time.Time) FlightServiceOption {
	return func(s *FlightService) {
		s.now = now
	}
}

func NewFlightService(
	repo repository.FlightRepository,
	pricingRepo repository.PricingRepository,
	refs repository.ReferenceRepository,
	engine *pricing.Engine,
	cache FlightCache,
	opts ...FlightServiceOption,
) *FlightService {
	service := &FlightService{
		repo:    repo,
		pricing: pricingRepo,
		refs:    refs,
		engine:  engine,
		cache:   cache,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetFlights(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	flights, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetFlights(ctx, flights)
	}
	return flights, nil
}

func (s *FlightService) Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	return s.repo.Search(ctx, filter)
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *FlightService) Create(ctx context.Context, flight *domain.Flight) error {
	return s.repo.Create(ctx, flight)
}

// QuoteFare prices a seat against the flight's current snapshot for display.
// It does not persist an audit row; those are written when a reservation
// commits and by the worker's sweep.
func (s *FlightService) QuoteFare(ctx context.Context, flightID int64) (*domain.FareQuote, error) {
	flight, err := s.repo.GetByID(ctx, flightID)
	if err != nil {
		return nil, err
	}
	quote := s.engine.Quote(*flight, s.now())
	return &quote, nil
}

func (s *FlightService) PricingHistory(ctx context.Context, flightID int64, limit int) ([]domain.PricingRecord, error) {
	if _, err := s.repo.GetByID(ctx, flightID); err != nil {
		return nil, err
	}
	return s.pricing.ListByFlight(ctx, flightID, limit)
}

func (s *FlightService) ListAirlines(ctx context.Context) ([]domain.Airline, error) {
	return s.refs.ListAirlines(ctx)
}

func (s *FlightService) CreateAirline(ctx context.Context, airline *domain.Airline) error {
	return s.refs.CreateAirline(ctx, airline)
}

func (s *FlightService) ListAirports(ctx context.Context) ([]domain.Airport, error) {
	return s.refs.ListAirports(ctx)
}

func (s *FlightService) CreateAirport(ctx context.Context, airport *domain.Airport) error {
	return s.refs.CreateAirport(ctx, airport)
}

var _ FlightUseCase = (*FlightService)(nil)
