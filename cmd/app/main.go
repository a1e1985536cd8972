package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flightbooking/api"
	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/bootstrap"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/middleware"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/gin-gonic/gin"
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

	storage, err := bootstrap.OpenStorage(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("open %s storage: %v", cfg.Database.Driver, err)
	}
	defer storage.Close()
	log.Printf("connected to %s", cfg.Database.Driver)

	var producer booking.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		p := kafka.NewProducer(cfg.Kafka.Brokers)
		defer p.Close()
		producer = p
	} else {
		log.Printf("kafka brokers not configured, booking events disabled")
	}

	limiter, releaseLimiter := bootstrap.NewLimiter(ctx, cfg.Redis, cfg.RateLimit)
	defer releaseLimiter()

	flightService := flights.NewFlightService(
		storage.Flights,
		flights.WithPageLimits(cfg.Flights.DefaultLimit, cfg.Flights.MaxLimit),
	)
	bookingService := booking.NewBookingService(
		storage.Bookings,
		storage.Flights,
		producer,
		cfg.Kafka.BookingEventsTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(api.RouterConfig{
		AllowedOrigins:    cfg.HTTP.AllowedOrigins,
		BookingMiddleware: []gin.HandlerFunc{middleware.RateLimit(cfg.RateLimit, limiter)},
		Health:            storage,
	}, flightService, bookingService)

	if err := bootstrap.Run(ctx, cfg, router); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
