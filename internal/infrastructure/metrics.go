package infrastructure

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	apperrors "equitycli/internal/errors"
)

// AnalysisMetrics counts analysed entities, failures by kind and durations.
// It satisfies the Recorder interfaces of the inequality and trend packages.
type AnalysisMetrics struct {
	entities metric.Int64Counter
	failures metric.Int64Counter
	duration metric.Float64Histogram
}

// NewAnalysisMetrics creates the instruments on meter
func NewAnalysisMetrics(meter metric.Meter) (*AnalysisMetrics, error) {
	entities, err := meter.Int64Counter(
		"analysis_entities",
		metric.WithDescription("Total number of analysed entities"),
	)
	if err != nil {
		return nil, err
	}

	failures, err := meter.Int64Counter(
		"analysis_failures",
		metric.WithDescription("Total number of entities whose analysis failed"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"analysis_entity_duration",
		metric.WithDescription("Per-entity analysis duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &AnalysisMetrics{entities: entities, failures: failures, duration: duration}, nil
}

// RecordEntity records one analysed entity
func (m *AnalysisMetrics) RecordEntity(ctx context.Context, analysis string, duration time.Duration, err error) {
	analysisAttr := attribute.String("analysis", analysis)

	m.entities.Add(ctx, 1, metric.WithAttributes(analysisAttr))
	m.duration.Record(ctx, duration.Seconds(), metric.WithAttributes(analysisAttr))
	if err != nil {
		m.failures.Add(ctx, 1, metric.WithAttributes(analysisAttr, attribute.String("kind", failureKind(err))))
	}
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	}
	if kind := apperrors.KindOf(err); kind != "" {
		return string(kind)
	}
	return "other"
}
