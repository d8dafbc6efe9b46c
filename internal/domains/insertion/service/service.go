package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"itinera/config"
	"itinera/infras/kafka"
	"itinera/infras/otel"
	"itinera/infras/postgres"
	bookingModel "itinera/internal/domains/booking/model"
	bookingRepo "itinera/internal/domains/booking/repository"
	bookingService "itinera/internal/domains/booking/service"
	"itinera/internal/domains/insertion/model"
	"itinera/internal/domains/itinerary"
	tripModel "itinera/internal/domains/trip/model"
	tripRepo "itinera/internal/domains/trip/repository"
	tripService "itinera/internal/domains/trip/service"
	"itinera/shared"
	"itinera/shared/cache"
	"itinera/shared/constant"
	"itinera/shared/failure"
	"itinera/shared/timezone"
	"slices"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

var (
	errTripChanged    = errors.New("trip itinerary changed since it was read")
	errBookingChanged = errors.New("booking status changed since it was read")
)

type Insertion interface {
	// InsertBookingIntoTrip merges the booking into the given trip and marks it added_to_trip,
	// both in one transaction. Repeating a completed merge is a no-op.
	InsertBookingIntoTrip(ctx context.Context, bookingID, tripID string) (model.InsertResult, error)
	// AutoInsertBooking picks the trip for the booking and merges it. Finding no trip is not an error.
	AutoInsertBooking(ctx context.Context, bookingID string) (model.InsertResult, error)
	// RemoveBookingFromTrip drops the merged item and returns the booking to pending.
	RemoveBookingFromTrip(ctx context.Context, bookingID string) (model.InsertResult, error)
}

type serviceImpl struct {
	bookingRepo bookingRepo.Booking
	tripRepo    tripRepo.Trip
	transactor  postgres.Transactor
	detector    itinerary.ConflictDetector
	selector    itinerary.TripSelector
	merger      itinerary.ItineraryMerger
	kafka       kafka.Client
	cache       cache.RedisCache
	cfg         *config.Config
	otel        otel.Otel
}

func New(
	bookingRepo bookingRepo.Booking,
	tripRepo tripRepo.Trip,
	transactor postgres.Transactor,
	detector itinerary.ConflictDetector,
	selector itinerary.TripSelector,
	merger itinerary.ItineraryMerger,
	kafka kafka.Client,
	cache cache.RedisCache,
	cfg *config.Config,
	otel otel.Otel,
) Insertion {
	return &serviceImpl{
		bookingRepo: bookingRepo,
		tripRepo:    tripRepo,
		transactor:  transactor,
		detector:    detector,
		selector:    selector,
		merger:      merger,
		kafka:       kafka,
		cache:       cache,
		cfg:         cfg,
		otel:        otel,
	}
}

func (s *serviceImpl) InsertBookingIntoTrip(ctx context.Context, bookingID, tripID string) (res model.InsertResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".insertion.InsertBookingIntoTrip")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{"booking.id": bookingID, "trip.id": tripID})

	actor := actorFrom(ctx)

	for attempt := 1; attempt <= s.maxAttempts(); attempt++ {
		res, err = s.insert(ctx, bookingID, tripID, actor)
		if !errors.Is(err, errTripChanged) && !errors.Is(err, errBookingChanged) {
			return res, err
		}

		log.Warn().Err(err).Str("booking", bookingID).Str("trip", tripID).Int("attempt", attempt).Msg("concurrent update while merging booking, retrying")
	}

	return model.InsertResult{}, failure.Conflict("trip was modified concurrently, try again") // nolint:wrapcheck
}

func (s *serviceImpl) AutoInsertBooking(ctx context.Context, bookingID string) (res model.InsertResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".insertion.AutoInsertBooking")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return res, err
	}

	if booking.Status == bookingModel.StatusAddedToTrip && booking.TripID != nil {
		return s.InsertBookingIntoTrip(ctx, bookingID, *booking.TripID)
	}

	if !booking.Status.Insertable() {
		return res, failure.Conflict(fmt.Sprintf("booking in status %s cannot be added to a trip", booking.Status)) // nolint:wrapcheck
	}

	trips, err := s.tripRepo.ListSelectable(ctx, booking.UserID)
	if err != nil {
		log.Error().Err(err).Str("user", booking.UserID).Msg("failed to list trips for automatic insertion")

		return res, fmt.Errorf("failed to list trips: %w", err)
	}

	tripID, ok := s.selector.SelectTrip(trips, booking.StartDateTime)
	if !ok {
		log.Info().Str("booking", bookingID).Int("candidates", len(trips)).Msg("no suitable trip for booking")

		return model.NoSuitableTrip(), nil
	}

	return s.InsertBookingIntoTrip(ctx, bookingID, tripID)
}

func (s *serviceImpl) RemoveBookingFromTrip(ctx context.Context, bookingID string) (res model.InsertResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".insertion.RemoveBookingFromTrip")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor := actorFrom(ctx)

	for attempt := 1; attempt <= s.maxAttempts(); attempt++ {
		res, err = s.remove(ctx, bookingID, actor)
		if !errors.Is(err, errTripChanged) && !errors.Is(err, errBookingChanged) {
			return res, err
		}

		log.Warn().Err(err).Str("booking", bookingID).Int("attempt", attempt).Msg("concurrent update while removing booking, retrying")
	}

	return model.InsertResult{}, failure.Conflict("trip was modified concurrently, try again") // nolint:wrapcheck
}

func (s *serviceImpl) insert(ctx context.Context, bookingID, tripID, actor string) (res model.InsertResult, err error) {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return res, err
	}

	trip, err := s.loadTrip(ctx, tripID, booking.UserID)
	if err != nil {
		return res, err
	}

	if booking.Status == bookingModel.StatusAddedToTrip {
		if booking.TripID == nil || *booking.TripID != trip.ID {
			return res, failure.Conflict("booking is already part of another trip") // nolint:wrapcheck
		}

		return alreadyInserted(booking, trip), nil
	}

	if !booking.Status.Insertable() {
		return res, failure.Conflict(fmt.Sprintf("booking in status %s cannot be added to a trip", booking.Status)) // nolint:wrapcheck
	}

	conflicts := s.detector.Detect(trip, booking.StartDateTime, booking.EndDateTime)

	var merge itinerary.MergeResult

	day, index, anchored := trip.Itinerary.FindBookingItem(booking.ID)
	if anchored {
		merge.Trip = trip
		merge.Item = trip.Itinerary.Days[day].Items[index]
		conflicts = withoutItem(conflicts, merge.Item.ID)
	} else {
		merge = s.merger.Merge(trip, s.merger.SynthesizeItem(booking), booking.StartDateTime)
	}

	if merge.Warning != constant.Empty {
		log.Warn().Str("booking", booking.ID).Str("trip", trip.ID).Str("warning", merge.Warning).Msg("booking date matches no itinerary day")
	}

	expected := booking.Status
	booking.Status = bookingModel.StatusAddedToTrip
	booking.TripID = &trip.ID
	booking.ConflictDetected = conflicts.HasConflict

	err = s.transactor.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		if !anchored {
			if err := s.writeItinerary(ctx, tx, merge.Trip, actor); err != nil {
				return err
			}
		}

		return s.writeBooking(ctx, tx, booking, expected, actor)
	})
	if err != nil {
		return res, s.persistenceError(err, "failed to persist booking insertion")
	}

	s.afterCommit(ctx, model.Event{
		Type:             model.EventBookingMerged,
		BookingID:        booking.ID,
		UserID:           booking.UserID,
		TripID:           trip.ID,
		ItemID:           merge.Item.ID,
		ConflictDetected: conflicts.HasConflict,
		Warning:          merge.Warning,
		OccurredAt:       timezone.Now(),
	})

	return model.InsertResult{
		Success:          true,
		ConflictDetected: conflicts.HasConflict,
		TripID:           &trip.ID,
		ItemID:           merge.Item.ID,
		ConflictingItems: conflicts.ConflictingItems,
		Warning:          merge.Warning,
	}, nil
}

func (s *serviceImpl) remove(ctx context.Context, bookingID, actor string) (res model.InsertResult, err error) {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return res, err
	}

	if !booking.Status.CanTransitionTo(bookingModel.StatusPending) || booking.TripID == nil {
		return res, failure.Conflict("booking is not part of a trip") // nolint:wrapcheck
	}

	tripID := *booking.TripID

	trip, err := s.tripRepo.GetPrimary(ctx, shared.FilterByID(tripID, tripModel.FieldID, tripModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("trip", tripID).Msg("failed to get trip")

		return res, fmt.Errorf("failed to get trip: %w", err)
	}

	var (
		updated tripModel.Trip
		itemID  string
	)

	day, index, found := trip.Itinerary.FindBookingItem(booking.ID)
	if found {
		updated = trip.Clone()
		itemID = updated.Itinerary.Days[day].Items[index].ID
		updated.Itinerary.Days[day].Items = slices.Delete(updated.Itinerary.Days[day].Items, index, index+1)
	}

	booking.Status = bookingModel.StatusPending
	booking.TripID = nil
	booking.ConflictDetected = false

	err = s.transactor.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		if found {
			if err := s.writeItinerary(ctx, tx, updated, actor); err != nil {
				return err
			}
		}

		return s.writeBooking(ctx, tx, booking, bookingModel.StatusAddedToTrip, actor)
	})
	if err != nil {
		return res, s.persistenceError(err, "failed to persist booking removal")
	}

	s.afterCommit(ctx, model.Event{
		Type:       model.EventBookingRemoved,
		BookingID:  booking.ID,
		UserID:     booking.UserID,
		TripID:     tripID,
		ItemID:     itemID,
		OccurredAt: timezone.Now(),
	})

	return model.InsertResult{Success: true, TripID: &tripID, ItemID: itemID}, nil
}

func (s *serviceImpl) writeItinerary(ctx context.Context, tx *sqlx.Tx, trip tripModel.Trip, actor string) error {
	ok, err := s.tripRepo.UpdateItineraryTx(ctx, tx, trip, actor)
	if err != nil {
		return fmt.Errorf("failed to update trip itinerary: %w", err)
	}

	if !ok {
		return errTripChanged
	}

	return nil
}

func (s *serviceImpl) writeBooking(ctx context.Context, tx *sqlx.Tx, booking bookingModel.Booking, expected bookingModel.Status, actor string) error {
	ok, err := s.bookingRepo.UpdateStatusTx(ctx, tx, booking, expected, actor)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	if !ok {
		return errBookingChanged
	}

	return nil
}

// persistenceError passes lost compare-and-swap races through for a retry and reports
// anything else as a rolled back write.
func (s *serviceImpl) persistenceError(err error, msg string) error {
	if errors.Is(err, errTripChanged) || errors.Is(err, errBookingChanged) {
		return err
	}

	log.Error().Err(err).Msg(msg)

	return failure.Persistence(msg, err) // nolint:wrapcheck
}

// afterCommit drops stale read caches and announces the change. Neither step can undo the commit.
// Caches are cleared before it returns; only the publish is best effort.
func (s *serviceImpl) afterCommit(ctx context.Context, event model.Event) {
	c := context.WithoutCancel(ctx)

	for _, key := range []string{
		shared.BuildCacheKey(bookingService.CacheGetBooking, event.BookingID),
		shared.BuildCacheKey(tripService.CacheGetTrip, event.TripID),
	} {
		if err := s.cache.Delete(c, key); err != nil {
			log.Error().Err(err).Str("key", key).Msg("failed to delete cache")
		}
	}

	shared.InvalidateCaches(c, s.cache, bookingService.CacheGetAllBooking)
	shared.InvalidateCaches(c, s.cache, tripService.CacheGetAllTrip)

	if !s.cfg.Kafka.Enable {
		return
	}

	err := s.kafka.SendMessages(ctx, s.cfg.Kafka.Topics.Merged, kafka.Message{Key: event.UserID, Value: event})
	if err != nil {
		log.Error().Err(err).Str("booking", event.BookingID).Str("event", event.Type).Msg("failed to publish booking event")
	}
}

func (s *serviceImpl) loadBooking(ctx context.Context, id string) (bookingModel.Booking, error) {
	booking, err := s.bookingRepo.GetPrimary(ctx, shared.FilterByID(id, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("booking", id).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if booking.ID == constant.Empty || (user != constant.Empty && booking.UserID != user) {
		return bookingModel.Booking{}, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) loadTrip(ctx context.Context, id, owner string) (tripModel.Trip, error) {
	trip, err := s.tripRepo.GetPrimary(ctx, shared.FilterByID(id, tripModel.FieldID, tripModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("trip", id).Msg("failed to get trip")

		return trip, fmt.Errorf("failed to get trip: %w", err)
	}

	if trip.ID == constant.Empty || trip.UserID != owner {
		return tripModel.Trip{}, failure.NotFound("trip not found") // nolint:wrapcheck
	}

	return trip, nil
}

func (s *serviceImpl) maxAttempts() int {
	return max(s.cfg.Merge.MaxAttempts, 1)
}

func alreadyInserted(booking bookingModel.Booking, trip tripModel.Trip) model.InsertResult {
	res := model.InsertResult{
		Success:          true,
		ConflictDetected: booking.ConflictDetected,
		TripID:           &trip.ID,
		Reason:           model.ReasonAlreadyInserted,
	}

	if day, index, ok := trip.Itinerary.FindBookingItem(booking.ID); ok {
		res.ItemID = trip.Itinerary.Days[day].Items[index].ID
	}

	return res
}

func withoutItem(info itinerary.ConflictInfo, itemID string) itinerary.ConflictInfo {
	info.ConflictingItems = lo.Filter(info.ConflictingItems, func(item itinerary.ConflictingItem, _ int) bool {
		return item.ID != itemID
	})
	info.HasConflict = len(info.ConflictingItems) > 0

	return info
}

func actorFrom(ctx context.Context) string {
	if user, _ := ctx.Value(constant.ContextKeyUserID).(string); user != constant.Empty {
		return user
	}

	return constant.SystemActorID
}
