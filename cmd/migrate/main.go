package main

import (
	"campusbook/config"
	"campusbook/helper"
	"campusbook/shared/logger"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

func main() {
	dir := pflag.StringP("dir", "d", "migrations/postgres", "directory holding the SQL migrations")
	pflag.Usage = func() {
		log.Info().Msg("usage: migrate [--dir DIR] up|down|step-up|drop|version")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	cfg := config.Get()

	logger.InitLogger()
	logger.SetLogLevel(cfg)

	if pflag.NArg() < 1 {
		pflag.Usage()
		log.Fatal().Msg("Migration action is required")
	}

	if err := helper.Runner(cfg, helper.Action(pflag.Arg(0)), *dir); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}
