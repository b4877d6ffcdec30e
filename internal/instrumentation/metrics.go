package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrStatus    = "status"
	attrOperation = "operation"
	attrResult    = "result"
	attrMode      = "mode"
)

// Status values for metric labels.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Metrics provides methods for recording observability metrics.
// A zero Metrics value is a safe no-op recorder.
type Metrics struct {
	generationsTotal   metric.Int64Counter
	generationDuration metric.Float64Histogram

	deliveriesTotal  metric.Int64Counter
	deliveryDuration metric.Float64Histogram

	oauthResolutionsTotal metric.Int64Counter
}

// NewMetrics creates a Metrics instance with all instruments initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.generationsTotal, err = meter.Int64Counter(
		"draft_generations_total",
		metric.WithDescription("Total number of draft generation attempts"),
		metric.WithUnit("{generation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create draft_generations_total counter: %w", err)
	}

	m.generationDuration, err = meter.Float64Histogram(
		"draft_generation_duration_seconds",
		metric.WithDescription("Draft generation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create draft_generation_duration_seconds histogram: %w", err)
	}

	m.deliveriesTotal, err = meter.Int64Counter(
		"deliveries_total",
		metric.WithDescription("Total number of delivery attempts"),
		metric.WithUnit("{delivery}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create deliveries_total counter: %w", err)
	}

	m.deliveryDuration, err = meter.Float64Histogram(
		"delivery_duration_seconds",
		metric.WithDescription("Delivery duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create delivery_duration_seconds histogram: %w", err)
	}

	m.oauthResolutionsTotal, err = meter.Int64Counter(
		"oauth_resolutions_total",
		metric.WithDescription("Total number of authorization grant resolutions"),
		metric.WithUnit("{resolution}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth_resolutions_total counter: %w", err)
	}

	return m, nil
}

// RecordGeneration records a draft generation attempt and its duration.
func (m *Metrics) RecordGeneration(ctx context.Context, status string, duration time.Duration) {
	if m.generationsTotal == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String(attrStatus, status))
	m.generationsTotal.Add(ctx, 1, attrs)
	m.generationDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordDelivery records a delivery attempt. Mode is "send" or "draft".
func (m *Metrics) RecordDelivery(ctx context.Context, mode, status string, duration time.Duration) {
	if m.deliveriesTotal == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String(attrMode, mode),
		attribute.String(attrStatus, status),
	)
	m.deliveriesTotal.Add(ctx, 1, attrs)
	m.deliveryDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordOAuthResolution records a grant resolution attempt with its result
// ("resolved" or "failure").
func (m *Metrics) RecordOAuthResolution(ctx context.Context, result string) {
	if m.oauthResolutionsTotal == nil {
		return
	}
	m.oauthResolutionsTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String(attrResult, result)))
}
