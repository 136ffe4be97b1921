//go:build wireinject
// +build wireinject

package di

import (
	"hostel/config"
	"hostel/infras/jwt"
	"hostel/infras/kafka"
	"hostel/infras/otel"
	"hostel/infras/postgres"
	"hostel/infras/redis"
	"hostel/infras/s3"
	"hostel/infras/storage"
	"hostel/permissions"
	"hostel/shared/cache"
	"hostel/transport/http"
	"hostel/transport/http/middleware"
	"hostel/transport/http/router"

	authService "hostel/internal/domains/auth/service"
	roomRepository "hostel/internal/domains/room/repository"
	roomService "hostel/internal/domains/room/service"
	roomChangeRepository "hostel/internal/domains/roomchange/repository"
	roomChangeService "hostel/internal/domains/roomchange/service"
	userRepository "hostel/internal/domains/user/repository"
	authHandler "hostel/internal/handlers/auth"
	roomHandler "hostel/internal/handlers/room"
	roomChangeHandler "hostel/internal/handlers/roomchange"
	uploadHandler "hostel/internal/handlers/upload"

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
	s3.New,
	storage.New,
	kafka.New,
	wire.Struct(new(http.Resources), "*"),
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
	wire.Struct(new(router.Middlewares), "*"),
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var roomChangeDomain = wire.NewSet(
	roomChangeRepository.New,
	roomChangeRepository.NewComment,
	roomChangeService.New,
)

var domains = wire.NewSet(
	authDomain,
	roomDomain,
	roomChangeDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	roomHandler.New,
	roomChangeHandler.New,
	uploadHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

// InitializeAuth builds only what the admin bootstrap command needs.
func InitializeAuth() authService.Auth {
	wire.Build(
		configurations,
		postgres.New,
		otel.New,
		jwt.New,
		authDomain,
	)

	return nil
}
