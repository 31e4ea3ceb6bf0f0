package repository

import (
	"context"
	"time"

	"github.com/avionix/flightbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PricingRepository stores fare-computation audit snapshots. Rows are
// append-only: written during reservations and by the worker's sweep,
// never updated.
type PricingRepository interface {
	Append(ctx context.Context, flightID int64, quote domain.FareQuote) error
	ListByFlight(ctx context.Context, flightID int64, limit int) ([]domain.PricingRecord, error)
}

type PGPricingRepository struct {
	db *pgxpool.Pool
}

func NewPricingRepository(db *pgxpool.Pool) PricingRepository {
	return &PGPricingRepository{db: db}
}

func (r *PGPricingRepository) Append(ctx context.Context, flightID int64, quote domain.FareQuote) error {
	_, err := r.db.Exec(ctx, insertPricingSQL, flightID,
		decimal.NewFromFloat(quote.DemandFactor).Round(2),
		decimal.NewFromFloat(quote.TimeFactor).Round(2),
		decimal.NewFromFloat(quote.SeatFactor).Round(2),
		quote.PerSeatFare)
	return err
}

func (r *PGPricingRepository) ListByFlight(ctx context.Context, flightID int64, limit int) ([]domain.PricingRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx, `SELECT id, flight_id, recorded_at, demand_factor, time_factor, seat_factor, final_fare
		FROM pricing_records WHERE flight_id = $1 ORDER BY recorded_at DESC LIMIT $2`, flightID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]domain.PricingRecord, 0)
	for rows.Next() {
		var rec domain.PricingRecord
		var ts time.Time
		if err := rows.Scan(&rec.ID, &rec.FlightID, &ts, &rec.DemandFactor, &rec.TimeFactor, &rec.SeatFactor, &rec.FinalFare); err != nil {
			return nil, err
		}
		rec.Timestamp = ts
		records = append(records, rec)
	}
	return records, rows.Err()
}

const insertPricingSQL = `INSERT INTO pricing_records (flight_id, demand_factor, time_factor, seat_factor, final_fare)
		VALUES ($1, $2, $3, $4, $5)`

// insertPricingRecord writes the audit row inside an open booking
// transaction so the snapshot commits or rolls back with the booking.
func insertPricingRecord(ctx context.Context, tx pgx.Tx, flightID int64, quote domain.FareQuote) error {
	_, err := tx.Exec(ctx, insertPricingSQL, flightID,
		decimal.NewFromFloat(quote.DemandFactor).Round(2),
		decimal.NewFromFloat(quote.TimeFactor).Round(2),
		decimal.NewFromFloat(quote.SeatFactor).Round(2),
		quote.PerSeatFare)
	return err
}

var _ PricingRepository = (*PGPricingRepository)(nil)
