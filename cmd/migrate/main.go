package main

import (
	"itinera/config"
	"itinera/helper"
	"itinera/shared/logger"
	"os"

	"github.com/rs/zerolog/log"
)

const (
	argLength = 2
)

func main() {
	logger.InitLogger()

	if len(os.Args) < argLength {
		log.Fatal().Msg("Migration action is required: up, down, step-up, drop or version")
	}

	cfg := config.Get()
	logger.Configure(cfg)

	if err := helper.Migrate(cfg, helper.MigrationAction(os.Args[1])); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}
