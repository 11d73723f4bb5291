package main

import (
	"context"

	"campusbook/config"
	"campusbook/di"
	"campusbook/helper"
	"campusbook/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title Campus Booking API
// @version 1.0
// @description Resource booking with conflict detection and priority overrides.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	http, cleanup, err := di.InitializeService()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize service")
	}

	http.OnShutdown("dependencies", func(context.Context) error {
		cleanup()

		return nil
	})

	http.Serve()
}
