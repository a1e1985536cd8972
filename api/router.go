package api

import (
	"context"
	_ "embed"
	"net/http"
	"time"

	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

//go:embed openapi.json
var openAPISpec []byte

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type RouterConfig struct {
	AllowedOrigins []string
	// BookingMiddleware runs in front of POST /bookings only.
	BookingMiddleware []gin.HandlerFunc
	Health            HealthChecker
}

func NewRouter(cfg RouterConfig, flightSvc flights.FlightUseCase, bookingSvc booking.BookingUseCase) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(corsMiddleware(cfg.AllowedOrigins))

	router.GET("/health", healthHandler(cfg.Health))
	router.GET("/docs/openapi.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", openAPISpec)
	})
	router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/docs/openapi.json"))))

	NewFlightHandler(flightSvc).Register(router.Group("/flights"))
	NewBookingHandler(bookingSvc).Register(router.Group("/bookings"), cfg.BookingMiddleware...)

	return router
}

// corsMiddleware allows any origin unless a list is configured.
func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return cors.Default()
	}
	cc := cors.DefaultConfig()
	cc.AllowOrigins = origins
	return cors.New(cc)
}

func healthHandler(checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if checker != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := checker.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
