package di

import (
	"context"
	"salonbook/infras/kafka"
	"salonbook/infras/otel"
	"salonbook/infras/postgres"
	notificationService "salonbook/internal/domains/notification/service"
	"salonbook/transport/http"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// App is the assembled service: the HTTP server plus the background
// notification workers and the connections they share.
type App struct {
	HTTP         *http.HTTP
	Notification notificationService.Notification
	DB           *postgres.Connection
	Redis        *goRedis.Client
	Kafka        kafka.Client
	Otel         otel.Otel
}

// Close releases the connections once the server and the workers have stopped.
func (a *App) Close(ctx context.Context) {
	if err := a.Kafka.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close kafka writer")
	}

	if err := a.Redis.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close redis client")
	}

	a.DB.Close()

	if err := otel.Shutdown(ctx, a.Otel); err != nil {
		log.Error().Err(err).Msg("failed to flush traces")
	}
}
