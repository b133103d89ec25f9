package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/airline-booking/api"
	"github.com/Domenick1991/airline-booking/config"
	"github.com/Domenick1991/airline-booking/internal/bootstrap"
	"github.com/Domenick1991/airline-booking/internal/cache"
	"github.com/Domenick1991/airline-booking/internal/kafka"
	"github.com/Domenick1991/airline-booking/internal/logging"
	"github.com/Domenick1991/airline-booking/internal/migrations"
	"github.com/Domenick1991/airline-booking/internal/repository"
	"github.com/Domenick1991/airline-booking/internal/service/booking"
	"github.com/Domenick1991/airline-booking/internal/service/catalog"
	"github.com/Domenick1991/airline-booking/internal/service/flights"
	"github.com/Domenick1991/airline-booking/internal/tools"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		slog.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	log := logging.New(cfg.Log, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		return err
	}
	if cfg.Database.MaxConns > 0 {
		poolCfg.MaxConns = cfg.Database.MaxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.Database.RunMigrations {
		if err := migrations.Up(ctx, pool); err != nil {
			return err
		}
		log.Info("migrations applied")
	}

	deps := map[string]api.Pinger{"postgres": pool}

	// Interfaces stay nil unless the backend is configured and reachable.
	var catalogCache catalog.Cache
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Catalog.CacheTTLSeconds)*time.Second)
		defer redisCache.Close()
		if err := redisCache.Ping(ctx); err != nil {
			log.Warn("redis unavailable, catalog cache disabled", slog.Any("error", err))
		} else {
			catalogCache = redisCache
			deps["redis"] = redisCache
		}
	}

	var producer booking.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaProducer := kafka.NewProducer(cfg.Kafka.Brokers, log)
		defer kafkaProducer.Close()
		if err := kafkaProducer.CheckConnection(ctx); err != nil {
			log.Warn("kafka unavailable, booking events disabled", slog.Any("error", err))
		} else {
			producer = kafkaProducer
			deps["kafka"] = api.PingFunc(kafkaProducer.CheckConnection)
		}
	}

	flightRepo := repository.NewFlightRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	catalogRepo := repository.NewCatalogRepository(pool)

	catalogService := catalog.NewCatalogService(catalogRepo, catalogCache, log)
	flightService := flights.NewFlightService(flightRepo, catalogService)
	bookingService := booking.NewBookingService(
		bookingRepo,
		catalogService,
		producer,
		cfg.Kafka.BookingTopic,
		log,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	registry := tools.NewRegistry(flightService, bookingService, catalogService)
	router := api.NewRouter(cfg.HTTP, log, api.Services{
		Flights:  flightService,
		Bookings: bookingService,
		Catalog:  catalogService,
	}, deps)

	return bootstrap.Run(ctx, cfg, log, registry, router)
}
