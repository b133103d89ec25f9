package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Domenick1991/airline-booking/config"
	"github.com/Domenick1991/airline-booking/internal/service/booking"
	"github.com/Domenick1991/airline-booking/internal/service/catalog"
	"github.com/Domenick1991/airline-booking/internal/service/flights"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Pinger is a dependency whose reachability is reported by /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a plain check function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type Services struct {
	Flights  flights.FlightUseCase
	Bookings booking.BookingUseCase
	Catalog  catalog.CatalogUseCase
}

// NewRouter builds the REST engine: /api, /health and, when a swagger
// directory is configured, /swagger and the UI at /docs/.
func NewRouter(cfg config.HTTPConfig, log *slog.Logger, svc Services, deps map[string]Pinger) *gin.Engine {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	router := gin.New()
	router.Use(RequestID(), RequestLogger(log), Recovery(log))
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	flightHandler := NewFlightHandler(svc.Flights, log)

	api := router.Group("/api")
	{
		flightHandler.Register(api.Group("/flights"))
		flightHandler.RegisterRoutes(api.Group("/routes"))
		NewBookingHandler(svc.Bookings, log).Register(api.Group("/bookings"))
		NewCatalogHandler(svc.Catalog, log).Register(api)
	}

	router.GET("/health", health(deps))

	if cfg.SwaggerDir != "" {
		router.Static("/swagger", cfg.SwaggerDir)
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/swagger.json"))))
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorResponse{Error: "route not found"})
	})

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", requestIDHeader},
		ExposeHeaders: []string{"Content-Length", requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

func health(deps map[string]Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status, code := "ok", http.StatusOK
		checks := make(map[string]string, len(deps))
		for name, dep := range deps {
			if err := dep.Ping(ctx); err != nil {
				checks[name] = err.Error()
				status, code = "degraded", http.StatusServiceUnavailable
				continue
			}
			checks[name] = "ok"
		}

		c.JSON(code, gin.H{
			"status": status,
			"checks": checks,
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}
