package kafka

import (
	"context"
	"errors"
	"itinera/shared/constant"
	"time"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

const (
	readErrorBackoff    = time.Second
	defaultRetryBackoff = time.Second
	maxRetryBackoff     = 30 * time.Second
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafkaGo.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkaGo.Message) error
	Close() error
}

// Consume runs handler for each message, one at a time, until ctx is done.
func (k *kafkaClientImpl) Consume(ctx context.Context, consumerGroup, topic string, handler Handler) error {
	if topic == "" {
		return errors.New("topic name cannot be empty when creating Kafka reader")
	}

	log.Info().Str("topic", topic).Str("group", consumerGroup).Msg("Kafka consumer started")

	return k.consume(ctx, k.reader(consumerGroup, topic), topic, handler)
}

func (k *kafkaClientImpl) consume(ctx context.Context, reader messageReader, topic string, handler Handler) error {
	defer func() {
		if err := reader.Close(); err != nil {
			log.Error().Err(err).Str("topic", topic).Msg("Failed to close Kafka reader.")
		}
	}()

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info().Str("topic", topic).Msg("Consumer context done.")

				return nil
			}

			log.Error().Err(err).Str("topic", topic).Msg("Failed to read message from Kafka.")

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(readErrorBackoff):
			}

			continue
		}

		if !k.handle(ctx, msg, handler) {
			log.Info().Str("topic", topic).Int64("offset", msg.Offset).Msg("Consumer context done, message left uncommitted.")

			return nil
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error().Err(err).Str("topic", msg.Topic).Int64("offset", msg.Offset).Msg("Failed to commit Kafka message.")
		}
	}
}

// handle retries msg until handler accepts it. It reports false when ctx ends first; the caller
// must not commit or fetch past msg in that case.
func (k *kafkaClientImpl) handle(ctx context.Context, msg kafkaGo.Message, handler Handler) bool {
	backoff := k.retryBackoff

	for attempt := 1; ; attempt++ {
		err := k.attempt(ctx, msg, handler, attempt)
		if err == nil {
			return true
		}

		log.Error().
			Err(err).
			Str("topic", msg.Topic).
			Int64("offset", msg.Offset).
			Int("attempt", attempt).
			Dur("backoff", backoff).
			Msg("Failed to handle Kafka message, retrying.")

		select {
		case <-ctx.Done():
			return false
		case <-time.After(backoff):
		}

		backoff = min(backoff*2, maxRetryBackoff)
	}
}

func (k *kafkaClientImpl) attempt(ctx context.Context, msg kafkaGo.Message, handler Handler, attempt int) (err error) {
	ctx, scope := k.otel.NewScope(ctx, constant.OtelKafkaScopeName, constant.OtelKafkaScopeName+".handle")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{
		otelAttrTopic:   msg.Topic,
		otelAttrKey:     string(msg.Key),
		otelAttrAttempt: attempt,
	})

	return handler(ctx, msg)
}
