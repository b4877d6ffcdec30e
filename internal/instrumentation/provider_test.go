package instrumentation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProviderDisabled(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{Enabled: false})
	require.NoError(t, err)

	assert.False(t, provider.Enabled())
	require.NotNil(t, provider.Metrics())
	require.NoError(t, provider.Shutdown(context.Background()))
}

func TestDisabledMetricsAreNoOps(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{Enabled: false})
	require.NoError(t, err)

	m := provider.Metrics()
	ctx := context.Background()

	// Must not panic on the zero recorder.
	m.RecordGeneration(ctx, StatusSuccess, time.Second)
	m.RecordDelivery(ctx, "send", StatusError, time.Second)
	m.RecordOAuthResolution(ctx, "cached")
}

func TestNewProviderEnabledNoExporters(t *testing.T) {
	cfg := Config{
		ServiceName:     "mailsmith-test",
		Enabled:         true,
		MetricsExporter: ExporterNone,
		TracingExporter: ExporterNone,
	}
	provider, err := NewProvider(context.Background(), cfg)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, provider.Shutdown(context.Background()))
	}()

	assert.True(t, provider.Enabled())

	m := provider.Metrics()
	require.NotNil(t, m)
	m.RecordGeneration(context.Background(), StatusSuccess, 2*time.Second)

	tracer := provider.Tracer("test")
	_, span := tracer.Start(context.Background(), "test.span")
	span.End()
}

func TestStartSpanWithoutProvider(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "test.operation")
	require.NotNil(t, ctx)
	require.NotNil(t, span)
	SetSpanSuccess(span)
	span.End()
}

func TestSetSpanErrorNil(t *testing.T) {
	_, span := StartSpan(context.Background(), "test.operation")
	defer span.End()

	// nil error must not mark the span failed
	SetSpanError(span, nil)
}
