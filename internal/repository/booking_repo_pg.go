package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avionix/flightbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PriceFunc prices one seat against the flight snapshot read under the row
// lock. The booking transaction calls it exactly once per reservation.
type PriceFunc func(f domain.Flight) domain.FareQuote

type BookingRepository interface {
	// Reserve runs the whole reservation as one transaction: lock the flight
	// row, check capacity, price the locked snapshot, insert the booking with
	// its passengers and the pricing audit row, and decrement the seat
	// counter. Any failure rolls the entire transaction back.
	Reserve(ctx context.Context, userID, flightID int64, passengers []domain.Passenger, price PriceFunc) (*domain.Booking, error)

	// Cancel locks the active booking and its flight, restores capacity
	// clamped at the flight's total, and marks the booking cancelled, all
	// atomically. An already-cancelled booking yields domain.ErrNotFound.
	Cancel(ctx context.Context, bookingID int64) (*domain.CancelReceipt, error)

	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	RecordPayment(ctx context.Context, payment *domain.Payment) error
}

type PGBookingRepository struct {
	db          *pgxpool.Pool
	lockTimeout time.Duration
}

// NewBookingRepository binds the repository to a pool. lockTimeout bounds
// how long a transaction waits on a contended row before failing busy.
func NewBookingRepository(db *pgxpool.Pool, lockTimeout time.Duration) BookingRepository {
	if lockTimeout <= 0 {
		lockTimeout = 3 * time.Second
	}
	return &PGBookingRepository{db: db, lockTimeout: lockTimeout}
}

func (r *PGBookingRepository) Reserve(ctx context.Context, userID, flightID int64, passengers []domain.Passenger, price PriceFunc) (*domain.Booking, error) {
	tx, err := r.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	flight, err := lockFlight(ctx, tx, flightID)
	if err != nil {
		return nil, err
	}

	seats := len(passengers)
	if flight.AvailableSeats < seats {
		return nil, fmt.Errorf("%w: %d seats requested, %d available", domain.ErrInsufficientCapacity, seats, flight.AvailableSeats)
	}

	quote := price(*flight)
	total := quote.PerSeatFare.Mul(decimal.NewFromInt(int64(seats)))

	booking := &domain.Booking{
		UserID:    userID,
		FlightID:  flightID,
		TotalFare: total,
		Status:    domain.BookingStatusConfirmed,
	}
	if err := tx.QueryRow(ctx, `INSERT INTO bookings (user_id, flight_id, total_fare, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, booking_date`, booking.UserID, booking.FlightID, booking.TotalFare, booking.Status).
		Scan(&booking.ID, &booking.BookingDate); err != nil {
		return nil, err
	}

	booking.Passengers, err = insertPassengers(ctx, tx, booking.ID, passengers)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `UPDATE flights SET available_seats = available_seats - $2, updated_at = now() WHERE id = $1`, flightID, seats); err != nil {
		return nil, err
	}

	if err := insertPricingRecord(ctx, tx, flightID, quote); err != nil {
		return nil, err
	}

	if err := commit(ctx, tx); err != nil {
		return nil, err
	}
	return booking, nil
}

func (r *PGBookingRepository) Cancel(ctx context.Context, bookingID int64) (*domain.CancelReceipt, error) {
	tx, err := r.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Filtering on status here is what makes a second cancel miss: the row
	// lock only matches an active booking.
	var flightID int64
	if err := tx.QueryRow(ctx, `SELECT flight_id FROM bookings WHERE id = $1 AND status <> $2 FOR UPDATE`,
		bookingID, domain.BookingStatusCancelled).Scan(&flightID); err != nil {
		return nil, mapRowErr(err)
	}

	var total, available int
	if err := tx.QueryRow(ctx, `SELECT total_seats, available_seats FROM flights WHERE id = $1 FOR UPDATE`, flightID).
		Scan(&total, &available); err != nil {
		return nil, mapRowErr(err)
	}

	var passengerCount int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM passengers WHERE booking_id = $1`, bookingID).
		Scan(&passengerCount); err != nil {
		return nil, err
	}

	// Clamp so drift can never push availability past the fixed total.
	restored := min(total, available+passengerCount)
	if _, err := tx.Exec(ctx, `UPDATE flights SET available_seats = $2, updated_at = now() WHERE id = $1`, flightID, restored); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `UPDATE bookings SET status = $2 WHERE id = $1`, bookingID, domain.BookingStatusCancelled); err != nil {
		return nil, err
	}

	if err := commit(ctx, tx); err != nil {
		return nil, err
	}
	return &domain.CancelReceipt{BookingID: bookingID, SeatsRestored: restored - available}, nil
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT id, user_id, flight_id, booking_date, total_fare, status FROM bookings WHERE id = $1`, id)
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.UserID, &b.FlightID, &b.BookingDate, &b.TotalFare, &b.Status); err != nil {
		return nil, mapRowErr(err)
	}

	rows, err := r.db.Query(ctx, `SELECT id, booking_id, name, age, gender, seat_number FROM passengers WHERE booking_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var p domain.Passenger
		if err := rows.Scan(&p.ID, &p.BookingID, &p.Name, &p.Age, &p.Gender, &p.SeatNumber); err != nil {
			return nil, err
		}
		b.Passengers = append(b.Passengers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &b, nil
}

// RecordPayment appends a payment against an active booking. The insert is
// guarded by the booking-status predicate in the same statement, so a cancel
// committing concurrently cannot slip a payment onto a cancelled booking.
// Payments are recorded only; nothing reconciles them against the booking
// fare.
func (r *PGBookingRepository) RecordPayment(ctx context.Context, payment *domain.Payment) error {
	err := r.db.QueryRow(ctx, `INSERT INTO payments (booking_id, transaction_id, amount, mode, status)
		SELECT $1, $2, $3, $4, $5
		WHERE EXISTS (SELECT 1 FROM bookings WHERE id = $1 AND status <> $6)
		RETURNING id, payment_date`,
		payment.BookingID, payment.TransactionID, payment.Amount, payment.Mode, payment.Status,
		domain.BookingStatusCancelled).
		Scan(&payment.ID, &payment.PaymentDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: active booking %d", domain.ErrNotFound, payment.BookingID)
	}
	return err
}

// begin opens a transaction with the bounded lock wait applied, so a
// contended flight row fails busy instead of blocking indefinitely.
func (r *PGBookingRepository) begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransactionFailure, err)
	}
	if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())); err != nil {
		_ = tx.Rollback(ctx)
		return nil, fmt.Errorf("%w: %v", domain.ErrTransactionFailure, err)
	}
	return tx, nil
}

func lockFlight(ctx context.Context, tx pgx.Tx, flightID int64) (*domain.Flight, error) {
	row := tx.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id = $1 FOR UPDATE`, flightID)
	var f domain.Flight
	if err := scanFlight(row, &f); err != nil {
		return nil, mapRowErr(err)
	}
	return &f, nil
}

func insertPassengers(ctx context.Context, tx pgx.Tx, bookingID int64, passengers []domain.Passenger) ([]domain.Passenger, error) {
	var sb strings.Builder
	sb.WriteString(`INSERT INTO passengers (booking_id, name, age, gender, seat_number) VALUES `)
	args := make([]any, 0, len(passengers)*5)
	for i, p := range passengers {
		if i > 0 {
			sb.WriteString(",")
		}
		n := i * 5
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5)
		args = append(args, bookingID, p.Name, p.Age, p.Gender, p.SeatNumber)
	}
	sb.WriteString(" RETURNING id, booking_id, name, age, gender, seat_number")

	rows, err := tx.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Passenger, 0, len(passengers))
	for rows.Next() {
		var p domain.Passenger
		if err := rows.Scan(&p.ID, &p.BookingID, &p.Name, &p.Age, &p.Gender, &p.SeatNumber); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
