//go:build wireinject
// +build wireinject

package di

import (
	"salonbook/config"
	"salonbook/infras/jwt"
	"salonbook/infras/kafka"
	"salonbook/infras/metrics"
	"salonbook/infras/otel"
	"salonbook/infras/postgres"
	"salonbook/infras/redis"
	"salonbook/permissions"
	"salonbook/shared/cache"
	"salonbook/shared/timezone"
	"salonbook/transport/http"
	"salonbook/transport/http/middleware"
	"salonbook/transport/http/router"

	bookingRepository "salonbook/internal/domains/booking/repository"
	bookingService "salonbook/internal/domains/booking/service"
	catalogRepository "salonbook/internal/domains/catalog/repository"
	notificationService "salonbook/internal/domains/notification/service"
	providerRepository "salonbook/internal/domains/provider/repository"
	bookingHandler "salonbook/internal/handlers/booking"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	metrics.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	timezone.NewClock,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	providerRepository.New,
	catalogRepository.New,
	bookingService.New,
)

var notificationDomain = wire.NewSet(
	notificationService.New,
)

var domains = wire.NewSet(
	bookingDomain,
	notificationDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	bookingHandler.New,
	router.New,
)

func InitializeService() *App {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
		wire.Struct(new(App), "*"),
	)

	return &App{}
}
