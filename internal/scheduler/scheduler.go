package scheduler

import (
	"context"
	"log/slog"
	"time"
)

type bookingCompleter interface {
	CompleteDepartedBookings(ctx context.Context) (int, error)
}

// Scheduler periodically marks bookings for departed flights as completed.
type Scheduler struct {
	bookings bookingCompleter
	interval time.Duration
	log      *slog.Logger
}

func New(bookings bookingCompleter, interval time.Duration, log *slog.Logger) *Scheduler {
	return &Scheduler{
		bookings: bookings,
		interval: interval,
		log:      log,
	}
}

// Start runs one sweep immediately and then every interval until ctx is done.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("scheduler started", slog.Duration("interval", s.interval))
	s.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	n, err := s.bookings.CompleteDepartedBookings(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.log.Error("failed to complete departed bookings", slog.Any("error", err))
		}
		return
	}
	if n > 0 {
		s.log.Info("departed bookings completed", slog.Int("count", n))
	}
}
