package main

import (
	"context"
	"os/signal"
	"salonbook/config"
	"salonbook/di"
	"salonbook/helper"
	"salonbook/shared/logger"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

const closeTimeout = 10 * time.Second

// @title						Salonbook Booking API
// @version					1.0
// @description				Booking scheduler of the salon marketplace.
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	logger.InitLogger()

	cfg := config.Get()

	logger.Configure(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := di.InitializeService()

	var workers sync.WaitGroup

	workers.Add(1)

	go func() {
		defer workers.Done()

		app.Notification.Run(ctx)
	}()

	if err := app.HTTP.Serve(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server stopped with error")
	}

	stop()
	workers.Wait()

	closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	app.Close(closeCtx)

	log.Info().Msg("Shut down complete")
}
