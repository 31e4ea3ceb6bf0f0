package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avionix/flightbooking/config"
	"github.com/avionix/flightbooking/internal/email"
	"github.com/avionix/flightbooking/internal/kafka"
	"github.com/avionix/flightbooking/internal/pricing"
	"github.com/avionix/flightbooking/internal/repository"
)

// The worker consumes booking events for notifications and periodically
// appends pricing audit snapshots for flights departing soon, so pricing
// history accrues even between bookings.
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

	flightRepo := repository.NewFlightRepository(pool)
	pricingRepo := repository.NewPricingRepository(pool)
	engine := pricing.NewEngine(pricing.NewRandomSource(), pricing.WithPremiumMarker(cfg.Pricing.PremiumMarker))

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.BookingEventsTopic)
	defer consumer.Close()

	emailSender := email.NewSender()

	go func() {
		if err := consumer.Consume(ctx, emailSender.Send); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	sweepEvery := time.Duration(cfg.Worker.PricingSweepMinutes) * time.Minute
	if sweepEvery <= 0 {
		sweepEvery = 15 * time.Minute
	}
	horizon := cfg.Worker.SweepHorizonDays
	if horizon <= 0 {
		horizon = 7
	}

	ticker := time.NewTicker(sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := sweep(ctx, flightRepo, pricingRepo, engine, horizon); err != nil {
				log.Printf("pricing sweep error: %v", err)
			}
		case <-ctx.Done():
			log.Println("shutting down")
			return
		}
	}
}

func sweep(ctx context.Context, flightRepo repository.FlightRepository, pricingRepo repository.PricingRepository, engine *pricing.Engine, horizonDays int) error {
	flights, err := flightRepo.ListDepartingWithin(ctx, horizonDays)
	if err != nil {
		return err
	}
	now := time.Now()
	for _, f := range flights {
		quote := engine.Quote(f, now)
		if err := pricingRepo.Append(ctx, f.ID, quote); err != nil {
			return err
		}
	}
	if len(flights) > 0 {
		log.Printf("recorded pricing snapshots for %d flights", len(flights))
	}
	return nil
}
