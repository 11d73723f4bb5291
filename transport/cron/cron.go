package cron

import (
	"context"
	"fmt"

	"campusbook/config"
	"campusbook/infras/otel"
	"campusbook/internal/domains/booking/service"
	"campusbook/shared/constant"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler runs the completion sweep on BOOKING_COMPLETION_SCHEDULE.
type Scheduler struct {
	service service.Booking
	cfg     *config.Config
	otel    otel.Otel
}

func New(service service.Booking, cfg *config.Config, otel otel.Otel) *Scheduler {
	return &Scheduler{
		service: service,
		cfg:     cfg,
		otel:    otel,
	}
}

// RunOnce completes every confirmed booking whose end has passed and returns how many changed.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelCronScopeName, constant.OtelCronScopeName+".CompleteElapsed")
	defer scope.End()

	completed, err := s.service.CompleteElapsed(ctx)
	if err != nil {
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to complete elapsed bookings: %w", err)
	}

	scope.SetAttribute("bookings.completed", completed)

	return completed, nil
}

// Start schedules the sweep with schedule, or the configured one when empty, and blocks until ctx is done.
// A sweep still running when the next tick fires is not started twice.
func (s *Scheduler) Start(ctx context.Context, schedule string) error {
	if schedule == constant.Empty {
		schedule = s.cfg.Booking.CompletionSchedule
	}

	logger := zerologAdapter{}

	c := cron.New(cron.WithLogger(logger), cron.WithChain(
		cron.Recover(logger),
		cron.SkipIfStillRunning(logger),
	))

	_, err := c.AddFunc(schedule, func() {
		if _, err := s.RunOnce(ctx); err != nil {
			log.Error().Err(err).Msg("completion sweep failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid completion schedule %q: %w", schedule, err)
	}

	log.Info().Str("schedule", schedule).Msg("Completion sweep scheduled")

	c.Start()

	<-ctx.Done()

	<-c.Stop().Done()

	log.Info().Msg("Completion sweep stopped")

	return nil
}

type zerologAdapter struct{}

func (zerologAdapter) Info(msg string, keysAndValues ...any) {
	log.Debug().Fields(keysAndValues).Msg(msg)
}

func (zerologAdapter) Error(err error, msg string, keysAndValues ...any) {
	log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
