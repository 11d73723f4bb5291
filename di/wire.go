//go:build wireinject
// +build wireinject

package di

import (
	"campusbook/config"
	"campusbook/infras/jwt"
	"campusbook/permissions"
	"campusbook/shared/cache"
	"campusbook/transport/cron"
	"campusbook/transport/http"
	"campusbook/transport/http/middleware"
	"campusbook/transport/http/router"

	auditRepository "campusbook/internal/domains/audit/repository"
	bookingRepository "campusbook/internal/domains/booking/repository"
	"campusbook/internal/domains/booking/resolver"
	bookingService "campusbook/internal/domains/booking/service"
	resourceRepository "campusbook/internal/domains/resource/repository"
	resourceService "campusbook/internal/domains/resource/service"

	auditHandler "campusbook/internal/handlers/audit"
	bookingHandler "campusbook/internal/handlers/booking"
	resourceHandler "campusbook/internal/handlers/resource"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	provideDB,
	provideOtel,
	provideRedis,
	provideKafka,
	jwt.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var auditDomain = wire.NewSet(
	auditRepository.New,
	provideAudit,
)

var resourceDomain = wire.NewSet(
	resourceRepository.New,
	resourceService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	resolver.New,
	bookingService.New,
)

var domains = wire.NewSet(
	auditDomain,
	resourceDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	bookingHandler.New,
	resourceHandler.New,
	auditHandler.New,
	router.New,
)

// InitializeService wires the HTTP server. cleanup releases every dependency in reverse order.
func InitializeService() (*http.HTTP, func(), error) {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return nil, nil, nil
}

// InitializeScheduler wires the completion sweep without the HTTP stack.
func InitializeScheduler() (*cron.Scheduler, func(), error) {
	wire.Build(
		configurations,
		infrastructures,
		sharedHelpers,
		domains,
		cron.New,
	)

	return nil, nil, nil
}
