package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Domenick1991/airline-booking/config"
	"github.com/Domenick1991/airline-booking/internal/email"
	"github.com/Domenick1991/airline-booking/internal/kafka"
	"github.com/Domenick1991/airline-booking/internal/logging"
	"github.com/Domenick1991/airline-booking/internal/repository"
	"github.com/Domenick1991/airline-booking/internal/scheduler"
	"github.com/Domenick1991/airline-booking/internal/service/booking"
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
	log := logging.New(cfg.Log, os.Stdout).With(slog.String("component", "worker"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	// The sweep never publishes events, so the service runs without a producer.
	bookingService := booking.NewBookingService(repository.NewBookingRepository(pool), nil, nil, "", log)

	var wg sync.WaitGroup

	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.NotificationsTopic != "" {
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, log)
		defer consumer.Close()

		sender := email.NewSender(log)
		handler := kafka.BookingEventHandler(log, func(ctx context.Context, event kafka.BookingEvent) error {
			if err := sender.Send(ctx, event); err != nil {
				log.WarnContext(ctx, "notification not sent",
					slog.String("event_id", event.EventID),
					slog.Any("error", err))
			}
			return nil
		})

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := consumer.Consume(ctx, handler); err != nil {
				log.Error("consumer stopped", slog.Any("error", err))
				stop()
			}
		}()
	} else {
		log.Warn("kafka not configured, notifications disabled")
	}

	sweeper := scheduler.New(bookingService, time.Duration(cfg.Worker.CompletionSweepMinutes)*time.Minute, log)
	wg.Add(1)
	go func() {
		defer wg.Done()
		sweeper.Start(ctx)
	}()

	<-ctx.Done()
	log.Info("shutting down")
	wg.Wait()
}
