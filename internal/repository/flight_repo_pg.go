package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/avionix/flightbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const flightColumns = `id, airline_id, flight_number, source_airport_id, destination_airport_id, departure_time, arrival_time, base_fare, total_seats, available_seats, status, created_at, updated_at`

type FlightRepository interface {
	List(ctx context.Context) ([]domain.Flight, error)
	Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Create(ctx context.Context, flight *domain.Flight) error
	ListDepartingWithin(ctx context.Context, days int) ([]domain.Flight, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights ORDER BY departure_time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFlights(rows)
}

func (r *PGFlightRepository) Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	query := r.sb.
		Select(flightColumns).
		From("flights").
		OrderBy("departure_time")

	if filter.SourceAirportID > 0 {
		query = query.Where(sq.Eq{"source_airport_id": filter.SourceAirportID})
	}
	if filter.DestinationAirportID > 0 {
		query = query.Where(sq.Eq{"destination_airport_id": filter.DestinationAirportID})
	}
	if !filter.DepartureDay.IsZero() {
		day := filter.DepartureDay.Truncate(24 * time.Hour)
		query = query.Where(sq.GtOrEq{"departure_time": day}).
			Where(sq.Lt{"departure_time": day.AddDate(0, 0, 1)})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build search flights sql: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFlights(rows)
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id)
	var f domain.Flight
	if err := scanFlight(row, &f); err != nil {
		return nil, mapRowErr(err)
	}
	return &f, nil
}

// Create inserts a new flight with its full capacity available. TotalSeats
// is fixed here and never changes afterwards.
func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	if flight.TotalSeats <= 0 {
		return fmt.Errorf("%w: total seats must be positive", domain.ErrInvalidRequest)
	}
	if flight.BaseFare.IsNegative() {
		return fmt.Errorf("%w: base fare must not be negative", domain.ErrInvalidRequest)
	}
	if flight.Status == "" {
		flight.Status = domain.FlightStatusOnTime
	}
	return r.db.QueryRow(ctx, `INSERT INTO flights (airline_id, flight_number, source_airport_id, destination_airport_id, departure_time, arrival_time, base_fare, total_seats, available_seats, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8, $9)
		RETURNING id, available_seats, created_at, updated_at`,
		flight.AirlineID, flight.FlightNumber, flight.SourceAirportID, flight.DestinationAirportID,
		flight.DepartureTime, flight.ArrivalTime, flight.BaseFare, flight.TotalSeats, flight.Status).
		Scan(&flight.ID, &flight.AvailableSeats, &flight.CreatedAt, &flight.UpdatedAt)
}

// ListDepartingWithin returns flights leaving in the next `days` days.
// Used by the worker's pricing sweep.
func (r *PGFlightRepository) ListDepartingWithin(ctx context.Context, days int) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights WHERE departure_time BETWEEN now() AND now() + make_interval(days => $1) ORDER BY departure_time`, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFlights(rows)
}

func scanFlight(row pgx.Row, f *domain.Flight) error {
	return row.Scan(&f.ID, &f.AirlineID, &f.FlightNumber, &f.SourceAirportID, &f.DestinationAirportID,
		&f.DepartureTime, &f.ArrivalTime, &f.BaseFare, &f.TotalSeats, &f.AvailableSeats,
		&f.Status, &f.CreatedAt, &f.UpdatedAt)
}

func scanFlights(rows pgx.Rows) ([]domain.Flight, error) {
	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := scanFlight(rows, &f); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

var _ FlightRepository = (*PGFlightRepository)(nil)
