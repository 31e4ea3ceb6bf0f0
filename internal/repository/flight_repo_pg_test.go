package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/avionix/flightbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestNewRepositories(t *testing.T) {
	pool := &pgxpool.Pool{}

	assert.NotNil(t, NewFlightRepository(pool))
	assert.NotNil(t, NewBookingRepository(pool, time.Second))
	assert.NotNil(t, NewPricingRepository(pool))
	assert.NotNil(t, NewReferenceRepository(pool))
}

func TestMapRowErr(t *testing.T) {
	assert.ErrorIs(t, mapRowErr(pgx.ErrNoRows), domain.ErrNotFound)

	lockErr := &pgconn.PgError{Code: lockNotAvailable, Message: "canceling statement due to lock timeout"}
	assert.ErrorIs(t, mapRowErr(lockErr), domain.ErrBusy)

	other := errors.New("connection reset")
	assert.Equal(t, other, mapRowErr(other))
}
