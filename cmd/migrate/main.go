package main

import (
	"os"
	"salonbook/config"
	"salonbook/helper"
	"salonbook/shared/logger"

	"github.com/rs/zerolog/log"
)

const usage = "usage: migrate <up|down|step-up|drop>"

func main() {
	logger.InitLogger()

	if len(os.Args) != 2 { //nolint:mnd
		log.Fatal().Msg(usage)
	}

	action := os.Args[1]

	cfg := config.Get()
	logger.Configure(cfg)

	if err := helper.Runner(cfg, action); err != nil {
		log.Fatal().Err(err).Str("action", action).Msg("Migration failed")
	}
}
