package otel_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"itinera/infras/otel"
)

func newRecorded(t *testing.T) (otel.Otel, *tracetest.SpanRecorder) {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	return otel.NewWithTracerProvider(provider, provider.Shutdown), recorder
}

func attributes(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}

	return out
}

func TestScope_Attributes(t *testing.T) {
	ot, recorder := newRecorded(t)

	_, scope := ot.NewScope(context.Background(), "service", "service.trip.Get")
	scope.SetAttributes(map[string]any{
		"trip.id":      "trip-1",
		"trip.version": int64(3),
		"confidence":   0.9,
		"conflict":     true,
		"days":         []int{1, 2},
		"start":        time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
		"lock.ttl":     30 * time.Second,
	})
	scope.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "service.trip.Get", spans[0].Name())
	assert.Equal(t, "service", spans[0].InstrumentationScope().Name)

	attrs := attributes(spans[0])
	assert.Equal(t, "trip-1", attrs["trip.id"].AsString())
	assert.Equal(t, int64(3), attrs["trip.version"].AsInt64())
	assert.InDelta(t, 0.9, attrs["confidence"].AsFloat64(), 0.0001)
	assert.True(t, attrs["conflict"].AsBool())
	assert.Equal(t, []int64{1, 2}, attrs["days"].AsInt64Slice())
	assert.Equal(t, "2026-05-01T09:00:00Z", attrs["start"].AsString())
	assert.Equal(t, "30s", attrs["lock.ttl"].AsString())
}

func TestScope_TraceIfError(t *testing.T) {
	ot, recorder := newRecorded(t)

	_, clean := ot.NewScope(context.Background(), "service", "clean")
	clean.TraceIfError(nil)
	clean.End()

	_, failed := ot.NewScope(context.Background(), "service", "failed")
	failed.TraceIfError(errors.New("boom"))
	failed.End()

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "boom", spans[1].Status().Description)
}

func TestShutdown(t *testing.T) {
	ot, _ := newRecorded(t)
	assert.NoError(t, ot.Shutdown(context.Background()))

	assert.NoError(t, otel.NewWithTracerProvider(sdktrace.NewTracerProvider(), nil).Shutdown(context.Background()))
}
