package di

import (
	"itinera/config"
	"itinera/infras/jwt"
	"itinera/infras/kafka"
	"itinera/infras/otel"
	"itinera/infras/postgres"
	"itinera/infras/redis"
	"itinera/infras/s3"
	"itinera/internal/domains/itinerary"
	"itinera/permissions"
	"itinera/shared/cache"
	"itinera/shared/lock"
	"itinera/transport/http/middleware"
	"itinera/transport/http/router"

	bookingRepository "itinera/internal/domains/booking/repository"
	bookingService "itinera/internal/domains/booking/service"
	ingestionService "itinera/internal/domains/ingestion/service"
	insertionService "itinera/internal/domains/insertion/service"
	tripRepository "itinera/internal/domains/trip/repository"
	tripService "itinera/internal/domains/trip/service"

	bookingHandler "itinera/internal/handlers/booking"
	ingestionHandler "itinera/internal/handlers/ingestion"
	tripHandler "itinera/internal/handlers/trip"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	postgres.NewTransactor,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	lock.NewRedisLocker,
)

var itineraryDomain = wire.NewSet(
	itinerary.NewOptions,
	itinerary.NewConflictDetector,
	itinerary.NewTripSelector,
	itinerary.NewItineraryMerger,
)

var tripDomain = wire.NewSet(
	tripRepository.New,
	tripService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var insertionDomain = wire.NewSet(
	insertionService.New,
)

var ingestionDomain = wire.NewSet(
	ingestionService.New,
	ingestionService.NewConsumer,
)

var domains = wire.NewSet(
	itineraryDomain,
	tripDomain,
	bookingDomain,
	insertionDomain,
	ingestionDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	bookingHandler.New,
	tripHandler.New,
	ingestionHandler.New,
	router.New,
)
