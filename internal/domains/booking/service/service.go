package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"itinera/config"
	"itinera/infras/otel"
	"itinera/internal/domains/booking/model"
	"itinera/internal/domains/booking/model/dto"
	"itinera/internal/domains/booking/repository"
	"itinera/shared"
	"itinera/shared/cache"
	"itinera/shared/constant"
	gDto "itinera/shared/dto"
	"itinera/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	CacheGetBooking    = "booking:get"
	CacheGetAllBooking = "booking:gets"
)

type Booking interface {
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, req dto.GetBookingsRequest) (dto.GetBookingsResponse, error)
	Review(ctx context.Context, id string) (dto.BookingResponse, error)
	Ignore(ctx context.Context, id string) (dto.BookingResponse, error)
}

type serviceImpl struct {
	repo  repository.Booking
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Booking, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Booking {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	cacheKey := shared.BuildCacheKey(CacheGetBooking, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		if res.UserID != user {
			return dto.BookingResponse{}, failure.NotFound("booking not found") // nolint:wrapcheck
		}

		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.load(ctx, id, user)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, req dto.GetBookingsRequest) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := req.ToFilter(user)
	cacheKey := shared.BuildCacheKeyWithQuery(CacheGetAllBooking, params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, params, total)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Review(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Review")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.transition(ctx, id, model.StatusReviewed)
}

func (s *serviceImpl) Ignore(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Ignore")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.transition(ctx, id, model.StatusIgnored)
}

func (s *serviceImpl) transition(ctx context.Context, id string, next model.Status) (res dto.BookingResponse, err error) {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := s.load(ctx, id, user)
	if err != nil {
		return res, err
	}

	if !booking.Status.CanTransitionTo(next) {
		return res, failure.Conflict(fmt.Sprintf("booking cannot move from %s to %s", booking.Status, next)) // nolint:wrapcheck
	}

	current := booking.Status
	booking.Status = next

	updated, err := s.repo.UpdateStatus(ctx, booking, current, user)
	if err != nil {
		log.Error().Err(err).Str("booking", id).Msg("failed to update booking status")

		return res, failure.Persistence("failed to update booking status", err) // nolint:wrapcheck
	}

	if !updated {
		return res, failure.Conflict("booking was modified concurrently") // nolint:wrapcheck
	}

	// Invalidated before returning; a read after this call must see the new status.
	c := context.WithoutCancel(ctx)

	if err := s.cache.Delete(c, shared.BuildCacheKey(CacheGetBooking, id)); err != nil {
		log.Error().Err(err).Msg("failed to delete booking cache")
	}

	shared.InvalidateCaches(c, s.cache, CacheGetAllBooking)

	res.FromModel(booking)

	return res, nil
}

// load reads a booking owned by user from the primary. Bookings of other users are reported as missing.
func (s *serviceImpl) load(ctx context.Context, id, user string) (model.Booking, error) {
	booking, err := s.repo.GetPrimary(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty || booking.UserID != user {
		return model.Booking{}, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, nil
}
