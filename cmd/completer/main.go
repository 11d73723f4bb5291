package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"campusbook/config"
	"campusbook/di"
	"campusbook/shared/logger"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Completer failed")
	}
}

func run() error {
	once := pflag.Bool("once", false, "run a single sweep and exit")
	schedule := pflag.String("schedule", "", "cron expression overriding BOOKING_COMPLETION_SCHEDULE")
	pflag.Parse()

	cfg := config.Get()

	logger.InitLogger()
	logger.SetLogLevel(cfg)

	scheduler, cleanup, err := di.InitializeScheduler()
	if err != nil {
		return fmt.Errorf("failed to initialize scheduler: %w", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *once {
		completed, err := scheduler.RunOnce(ctx)
		if err != nil {
			return err
		}

		log.Info().Int("completed", completed).Msg("Completion sweep finished")

		return nil
	}

	return scheduler.Start(ctx, *schedule)
}
