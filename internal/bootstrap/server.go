package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/avionix/flightbooking/api"
	"github.com/avionix/flightbooking/config"
	"github.com/avionix/flightbooking/internal/metrics"
	"github.com/avionix/flightbooking/internal/service/booking"
	"github.com/avionix/flightbooking/internal/service/flights"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, flightSvc flights.FlightUseCase, bookingSvc booking.BookingUseCase) error {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), metrics.GinMiddleware())

	root := router.Group("/")
	api.NewFlightHandler(flightSvc).Register(root)
	api.NewBookingHandler(bookingSvc).Register(root)
	api.NewReferenceHandler(flightSvc).Register(root)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
