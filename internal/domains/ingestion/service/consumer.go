package service

import (
	"context"
	"errors"
	"itinera/config"
	"itinera/infras/kafka"
	bookingDto "itinera/internal/domains/booking/model/dto"
	"itinera/shared/failure"
	"net/http"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

// Consumer feeds extraction records from Kafka into Ingest. Records are keyed by user id, so one
// user's bookings arrive on one partition and are handled in order.
type Consumer struct {
	ingestion Ingestion
	client    kafka.Client
	cfg       *config.Config
}

func NewConsumer(ingestion Ingestion, client kafka.Client, cfg *config.Config) *Consumer {
	return &Consumer{ingestion: ingestion, client: client, cfg: cfg}
}

// Run blocks until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	err := c.client.Consume(ctx, c.cfg.Kafka.ConsumerGroup, c.cfg.Kafka.Topics.Extracted, c.Handle)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err //nolint:wrapcheck
	}

	return nil
}

// Handle ingests one message. Malformed and duplicate records are dropped; anything else is
// returned and the client retries the same message until it goes through.
func (c *Consumer) Handle(ctx context.Context, msg kafkaGo.Message) error {
	req, err := kafka.Decode[bookingDto.IngestBookingRequest](msg)
	if err != nil {
		log.Error().Err(err).Str("key", string(msg.Key)).Int64("offset", msg.Offset).Msg("dropping undecodable extraction record")

		return nil
	}

	res, err := c.ingestion.Ingest(ctx, req)
	if err == nil {
		log.Info().Str("booking", res.Booking.ID).Str("user", req.UserID).Msg("extraction record ingested")

		return nil
	}

	switch failure.GetCode(err) {
	case http.StatusBadRequest, http.StatusConflict:
		log.Warn().Err(err).Str("user", req.UserID).Int64("offset", msg.Offset).Msg("dropping rejected extraction record")

		return nil
	default:
		return err
	}
}
