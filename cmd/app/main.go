package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avionix/flightbooking/config"
	"github.com/avionix/flightbooking/internal/bootstrap"
	"github.com/avionix/flightbooking/internal/cache"
	"github.com/avionix/flightbooking/internal/kafka"
	"github.com/avionix/flightbooking/internal/pricing"
	"github.com/avionix/flightbooking/internal/repository"
	"github.com/avionix/flightbooking/internal/service/booking"
	"github.com/avionix/flightbooking/internal/service/flights"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := repository.NewPool(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.FlightsCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	engine := pricing.NewEngine(pricing.NewRandomSource(), pricing.WithPremiumMarker(cfg.Pricing.PremiumMarker))

	flightRepo := repository.NewFlightRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool, cfg.Booking.LockTimeout())
	pricingRepo := repository.NewPricingRepository(pool)
	refRepo := repository.NewReferenceRepository(pool)

	flightService := flights.NewFlightService(flightRepo, pricingRepo, refRepo, engine, redisCache)
	bookingService := booking.NewBookingService(
		bookingRepo,
		engine,
		redisCache,
		producer,
		cfg.Kafka.BookingEventsTopic,
	)

	if err := bootstrap.Run(ctx, cfg, flightService, bookingService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
