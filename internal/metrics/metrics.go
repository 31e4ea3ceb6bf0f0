package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsReserved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookings_reserved_total",
		Help: "Committed reservations",
	})

	BookingsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookings_cancelled_total",
		Help: "Committed cancellations",
	})

	SeatsReserved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "seats_reserved_total",
		Help: "Seats taken by committed reservations",
	})

	BookingErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_errors_total",
		Help: "Failed booking operations by reason",
	}, []string{"reason"})

	BookingFare = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "booking_total_fare",
		Help:    "Total fare of committed bookings in currency units",
		Buckets: prometheus.ExponentialBuckets(50, 2, 12),
	})
)
