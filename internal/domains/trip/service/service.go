package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"itinera/config"
	"itinera/infras/otel"
	"itinera/internal/domains/itinerary"
	"itinera/internal/domains/trip/model"
	"itinera/internal/domains/trip/model/dto"
	"itinera/internal/domains/trip/repository"
	"itinera/shared"
	"itinera/shared/cache"
	"itinera/shared/constant"
	gDto "itinera/shared/dto"
	"itinera/shared/failure"
	"itinera/shared/timezone"

	ics "github.com/arran4/golang-ical"
	"github.com/rs/zerolog/log"
)

const (
	CacheGetTrip    = "trip:get"
	CacheGetAllTrip = "trip:gets"

	calendarProductID = "-//itinera//trip calendar//EN"
)

type Trip interface {
	Get(ctx context.Context, id string) (dto.TripResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, req dto.GetTripsRequest) (dto.GetTripsResponse, error)
	// Calendar renders every timed item of the trip as an iCalendar document.
	Calendar(ctx context.Context, id string) ([]byte, error)
}

type serviceImpl struct {
	repo  repository.Trip
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Trip, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Trip {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.TripResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".trip.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	cacheKey := shared.BuildCacheKey(CacheGetTrip, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		if res.UserID != user {
			return dto.TripResponse{}, failure.NotFound("trip not found") // nolint:wrapcheck
		}

		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for trip")

		return res, nil
	}

	trip, err := s.load(ctx, id, user)
	if err != nil {
		return res, err
	}

	res.FromModel(trip)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save trip to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, req dto.GetTripsRequest) (res dto.GetTripsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".trip.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := req.ToFilter(user)
	cacheKey := shared.BuildCacheKeyWithQuery(CacheGetAllTrip, params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for trips")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count trips")

		return res, fmt.Errorf("failed to count trips: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get trips")

		return res, fmt.Errorf("failed to get trips: %w", err)
	}

	res.FromModels(models, params, total)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save trips to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Calendar(ctx context.Context, id string) (_ []byte, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".trip.Calendar")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	trip, err := s.load(ctx, id, user)
	if err != nil {
		return nil, err
	}

	defaultDuration := itinerary.NewOptions(s.cfg).DefaultDuration
	stamp := timezone.Now()

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)
	cal.SetName(trip.Name)

	for _, day := range trip.Itinerary.Days {
		for _, item := range day.Items {
			if item.StartTime == nil {
				continue
			}

			end := item.StartTime.Add(defaultDuration)
			if item.EndTime != nil && item.EndTime.After(*item.StartTime) {
				end = *item.EndTime
			}

			event := cal.AddEvent(item.ID + "@" + trip.ID)
			event.SetDtStampTime(stamp)
			event.SetStartAt(*item.StartTime)
			event.SetEndAt(end)
			event.SetSummary(item.Title)

			if item.Notes != nil {
				event.SetDescription(*item.Notes)
			}
		}
	}

	return []byte(cal.Serialize()), nil
}

// load reads a trip owned by user. Trips of other users are reported as missing.
func (s *serviceImpl) load(ctx context.Context, id, user string) (model.Trip, error) {
	trip, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get trip")

		return trip, fmt.Errorf("failed to get trip: %w", err)
	}

	if trip.ID == constant.Empty || trip.UserID != user {
		return model.Trip{}, failure.NotFound("trip not found") // nolint:wrapcheck
	}

	return trip, nil
}
