package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"itinera/config"
	"itinera/infras/otel"
	"itinera/infras/postgres"
	"itinera/infras/s3"
	bookingModel "itinera/internal/domains/booking/model"
	bookingDto "itinera/internal/domains/booking/model/dto"
	bookingRepo "itinera/internal/domains/booking/repository"
	bookingService "itinera/internal/domains/booking/service"
	"itinera/internal/domains/ingestion/model/dto"
	insertionService "itinera/internal/domains/insertion/service"
	"itinera/shared"
	"itinera/shared/cache"
	"itinera/shared/constant"
	"itinera/shared/failure"
	"itinera/shared/lock"
	"itinera/shared/validator"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	lockPrefix          = "ingest:"
	archiveContentType  = "application/json"
	defaultLockTTL      = 30 * time.Second
	duplicateBookingMsg = "booking from this message was already ingested"
)

type Ingestion interface {
	// Ingest stores one extracted booking as pending and, when it is confident enough, merges it
	// into the user's trip. Records of one user are processed one at a time.
	Ingest(ctx context.Context, req bookingDto.IngestBookingRequest) (dto.IngestResult, error)
}

type serviceImpl struct {
	repo      bookingRepo.Booking
	insertion insertionService.Insertion
	locker    lock.Locker
	storage   s3.S3
	cache     cache.RedisCache
	cfg       *config.Config
	otel      otel.Otel
}

func New(
	repo bookingRepo.Booking,
	insertion insertionService.Insertion,
	locker lock.Locker,
	storage s3.S3,
	cache cache.RedisCache,
	cfg *config.Config,
	otel otel.Otel,
) Ingestion {
	return &serviceImpl{
		repo:      repo,
		insertion: insertion,
		locker:    locker,
		storage:   storage,
		cache:     cache,
		cfg:       cfg,
		otel:      otel,
	}
}

func (s *serviceImpl) Ingest(ctx context.Context, req bookingDto.IngestBookingRequest) (res dto.IngestResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ingestion.Ingest")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	source := bookingModel.Source(req.Source)
	messageID := req.MessageID()

	if source.FromInbox() && messageID == constant.Empty {
		return res, failure.BadRequestFromString("source_message_id is required for inbox sources") // nolint:wrapcheck
	}

	scope.SetAttributes(map[string]any{"booking.user": req.UserID, "booking.source": req.Source})

	ttl := s.lockTTL()

	held, err := s.locker.Acquire(ctx, lockPrefix+req.UserID, ttl, ttl)
	if err != nil {
		log.Error().Err(err).Str("user", req.UserID).Msg("failed to acquire ingestion lock")

		return res, fmt.Errorf("failed to acquire ingestion lock: %w", err)
	}

	defer func() {
		if err := held.Release(context.WithoutCancel(ctx)); err != nil {
			log.Error().Err(err).Str("user", req.UserID).Msg("failed to release ingestion lock")
		}
	}()

	if messageID != constant.Empty {
		existing, err := s.repo.FindBySource(ctx, req.UserID, source, messageID)
		if err != nil {
			log.Error().Err(err).Msg("failed to check for duplicate booking")

			return res, fmt.Errorf("failed to check for duplicate booking: %w", err)
		}

		if existing.ID != constant.Empty {
			log.Info().Str("user", req.UserID).Str("message", messageID).Str("booking", existing.ID).Msg("duplicate booking rejected")

			return res, failure.Conflict(duplicateBookingMsg) // nolint:wrapcheck
		}
	}

	actor := constant.SystemActorID
	if user, _ := ctx.Value(constant.ContextKeyUserID).(string); user != constant.Empty {
		actor = user
	}

	booking := req.ToModel(actor)
	archived := s.archive(ctx, &booking)

	if err = s.repo.Insert(ctx, booking); err != nil {
		s.discardArchive(ctx, booking, archived)

		if postgres.IsUniqueViolation(err) {
			return res, failure.Conflict(duplicateBookingMsg) // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to insert booking")

		return res, fmt.Errorf("failed to insert booking: %w", err)
	}

	shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, bookingService.CacheGetAllBooking)

	res.Booking.FromModel(booking)

	if !s.cfg.Ingestion.AutoInsert || booking.Confidence < s.cfg.Ingestion.MinConfidence {
		return res, nil
	}

	inserted, err := s.insertion.AutoInsertBooking(ctx, booking.ID)
	if err != nil {
		log.Error().Err(err).Str("booking", booking.ID).Msg("automatic insertion failed, booking left pending")

		return res, nil
	}

	res.Insertion = &inserted

	if inserted.Success {
		res.Booking.Status = string(bookingModel.StatusAddedToTrip)
		res.Booking.TripID = inserted.TripID
		res.Booking.ConflictDetected = inserted.ConflictDetected
	}

	return res, nil
}

// archive keeps the raw extraction payload next to the booking for audits. Losing the archive
// never blocks ingestion.
func (s *serviceImpl) archive(ctx context.Context, booking *bookingModel.Booking) bool {
	if !s.cfg.Ingestion.ArchiveExtractions {
		return false
	}

	url, err := s.storage.UploadBytes(ctx, s.archiveDirectory(booking.UserID), booking.ID+".json", archiveContentType, booking.ExtractedData)
	if err != nil {
		log.Error().Err(err).Str("booking", booking.ID).Msg("failed to archive extraction payload")

		return false
	}

	booking.ExtractionURL = &url

	return true
}

func (s *serviceImpl) discardArchive(ctx context.Context, booking bookingModel.Booking, archived bool) {
	if !archived {
		return
	}

	if err := s.storage.DeleteObject(ctx, s.archiveDirectory(booking.UserID), booking.ID+".json"); err != nil {
		log.Error().Err(err).Str("booking", booking.ID).Msg("failed to delete orphaned extraction archive")
	}
}

func (s *serviceImpl) archiveDirectory(userID string) string {
	return s.cfg.Ingestion.ArchiveDirectory + "/" + userID
}

func (s *serviceImpl) lockTTL() time.Duration {
	if s.cfg.Ingestion.LockTTLSeconds <= 0 {
		return defaultLockTTL
	}

	return time.Duration(s.cfg.Ingestion.LockTTLSeconds) * time.Second
}
