package otel

import (
	"context"
	"itinera/config"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/credentials/insecure"
)

// Otel opens spans named after the layer (scopeName) and the operation (spanName).
type Otel interface {
	NewScope(ctx context.Context, scopeName, spanName string) (context.Context, Scope)
	Shutdown(ctx context.Context) error
}

type otelImpl struct {
	provider oteltrace.TracerProvider
	shutdown func(context.Context) error
}

func (o *otelImpl) NewScope(ctx context.Context, scopeName, spanName string) (context.Context, Scope) {
	ctx, span := o.provider.Tracer(scopeName).Start(ctx, spanName)

	return ctx, NewScope(span)
}

// Shutdown flushes buffered spans. It is a no-op for providers without an exporter.
func (o *otelImpl) Shutdown(ctx context.Context) error {
	if o.shutdown == nil {
		return nil
	}

	return errors.Wrap(o.shutdown(ctx), "failed to shut down tracer provider")
}

// NewWithTracerProvider wraps an existing provider. shutdown may be nil.
func NewWithTracerProvider(provider oteltrace.TracerProvider, shutdown func(context.Context) error) Otel {
	return &otelImpl{
		provider: provider,
		shutdown: shutdown,
	}
}

// New builds the process tracer provider. Without EXTERNAL_OTEL_ENDPOINT spans are sampled
// but never exported, so local runs need no collector.
func New(cfg *config.Config) Otel {
	options := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(cfg.App.Name),
			semconv.DeploymentEnvironmentKey.String(cfg.Server.Env),
		)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.External.Otel.SampleRatio))),
	}

	endpoint := cfg.External.Otel.Endpoint
	if endpoint == "" {
		log.Warn().Msg("No OTLP endpoint configured, traces will not be exported")
	} else {
		exporter, err := otlptracegrpc.New(context.Background(),
			otlptracegrpc.WithEndpoint(endpoint),
			otlptracegrpc.WithTLSCredentials(insecure.NewCredentials()),
		)
		if err != nil {
			log.Fatal().Err(err).Str("endpoint", endpoint).Msg("Failed to create OTLP exporter")
		}

		options = append(options, sdktrace.WithBatcher(exporter))
	}

	provider := sdktrace.NewTracerProvider(options...)

	otel.SetTracerProvider(provider)

	log.Info().
		Str("endpoint", endpoint).
		Float64("sample_ratio", cfg.External.Otel.SampleRatio).
		Msg("Tracer provider initialized")

	return NewWithTracerProvider(provider, provider.Shutdown)
}
