package repository

import (
	"context"

	"github.com/avionix/flightbooking/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReferenceRepository serves airline and airport reference data. These rows
// sit outside the booking transaction entirely.
type ReferenceRepository interface {
	ListAirlines(ctx context.Context) ([]domain.Airline, error)
	CreateAirline(ctx context.Context, airline *domain.Airline) error
	ListAirports(ctx context.Context) ([]domain.Airport, error)
	CreateAirport(ctx context.Context, airport *domain.Airport) error
}

type PGReferenceRepository struct {
	db *pgxpool.Pool
}

func NewReferenceRepository(db *pgxpool.Pool) ReferenceRepository {
	return &PGReferenceRepository{db: db}
}

func (r *PGReferenceRepository) ListAirlines(ctx context.Context) ([]domain.Airline, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, contact_email, contact_number FROM airlines ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	airlines := make([]domain.Airline, 0)
	for rows.Next() {
		var a domain.Airline
		if err := rows.Scan(&a.ID, &a.Name, &a.ContactEmail, &a.ContactNumber); err != nil {
			return nil, err
		}
		airlines = append(airlines, a)
	}
	return airlines, rows.Err()
}

func (r *PGReferenceRepository) CreateAirline(ctx context.Context, airline *domain.Airline) error {
	return r.db.QueryRow(ctx, `INSERT INTO airlines (name, contact_email, contact_number) VALUES ($1, $2, $3) RETURNING id`,
		airline.Name, airline.ContactEmail, airline.ContactNumber).Scan(&airline.ID)
}

func (r *PGReferenceRepository) ListAirports(ctx context.Context) ([]domain.Airport, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, city, country, iata_code FROM airports ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	airports := make([]domain.Airport, 0)
	for rows.Next() {
		var a domain.Airport
		if err := rows.Scan(&a.ID, &a.Name, &a.City, &a.Country, &a.IATACode); err != nil {
			return nil, err
		}
		airports = append(airports, a)
	}
	return airports, rows.Err()
}

func (r *PGReferenceRepository) CreateAirport(ctx context.Context, airport *domain.Airport) error {
	return r.db.QueryRow(ctx, `INSERT INTO airports (name, city, country, iata_code) VALUES ($1, $2, $3, $4) RETURNING id`,
		airport.Name, airport.City, airport.Country, airport.IATACode).Scan(&airport.ID)
}

var _ ReferenceRepository = (*PGReferenceRepository)(nil)
