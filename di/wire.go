//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"fleet/config"
	"fleet/infras/jwt"
	"fleet/infras/otel"
	"fleet/infras/postgres"
	"fleet/infras/redis"
	"fleet/internal/jobs"
	"fleet/permissions"
	"fleet/shared/cache"
	"fleet/transport/http"
	"fleet/transport/http/middleware"
	"fleet/transport/http/router"

	authService "fleet/internal/domains/auth/service"
	bookingRepository "fleet/internal/domains/booking/repository"
	bookingService "fleet/internal/domains/booking/service"
	userRepository "fleet/internal/domains/user/repository"
	userService "fleet/internal/domains/user/service"
	vehicleRepository "fleet/internal/domains/vehicle/repository"
	vehicleService "fleet/internal/domains/vehicle/service"

	authHandler "fleet/internal/handlers/auth"
	bookingHandler "fleet/internal/handlers/booking"
	userHandler "fleet/internal/handlers/user"
	vehicleHandler "fleet/internal/handlers/vehicle"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
)

var middlewares = wire.NewSet(
	permissions.Get,
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
)

var vehicleDomain = wire.NewSet(
	vehicleRepository.New,
	vehicleService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var userDomain = wire.NewSet(
	userService.New,
)

var domains = wire.NewSet(
	authDomain,
	vehicleDomain,
	bookingDomain,
	userDomain,
)

var backgroundJobs = wire.NewSet(
	jobs.NewAutoReturnFromConfig,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	vehicleHandler.New,
	bookingHandler.New,
	userHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		backgroundJobs,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
